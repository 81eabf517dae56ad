package mustache

import (
	"os"
	"path/filepath"
)

// partialText resolves a partial by name: the Partials map first, then a
// file named <PartialsPath>/<name>.<PartialsExt>. A partial that cannot be
// found or read resolves to empty text; partials are optional decorations
// and never fail a render.
func (r *renderer) partialText(name string) string {
	if text, ok := r.opts.Partials[name]; ok {
		return text
	}

	if r.opts.PartialsPath == "" {
		return ""
	}

	filename := name
	if r.opts.PartialsExt != "" {
		filename += "." + r.opts.PartialsExt
	}

	data, err := os.ReadFile(filepath.Join(r.opts.PartialsPath, filename))
	if err != nil {
		logger := GetLogger()
		if logger.IsDebugMode() {
			logger.WithFields(Fields{"partial": name, "error": err}).Debug("Partial not loaded")
		}
		return ""
	}

	return string(data)
}
