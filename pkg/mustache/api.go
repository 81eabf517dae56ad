package mustache

import (
	"os"
)

// Engine provides the main API for rendering mustache templates.
// Use New() to create a new engine instance; the package-level functions
// share a default engine.
type Engine struct {
	config *Config
	cache  *TokenCache
}

// New creates a new engine with default configuration.
func New() *Engine {
	return &Engine{
		config: GetGlobalConfig(),
		cache:  defaultCache,
	}
}

// NewWithConfig creates a new engine with custom configuration and its own
// token cache.
func NewWithConfig(config *Config) *Engine {
	config = NewConfigWithDefaults(config)
	return &Engine{
		config: config,
		cache: NewTokenCacheWithConfig(CacheConfig{
			MaxSize: config.CacheMaxSize,
			TTL:     config.CacheTTL,
		}),
	}
}

// Render renders a mustache template with default options.
func (e *Engine) Render(template string, data interface{}) (string, error) {
	return e.RenderWithOptions(template, data, nil)
}

// RenderWithOptions renders a mustache template against a data scope.
//
// data may be a map, a struct, a slice, or any scalar; it becomes the
// outermost scope. Tokenization honors the engine's token cache.
func (e *Engine) RenderWithOptions(template string, data interface{}, opts *Options) (string, error) {
	opts = opts.withDefaults()
	if opts.MaxDepth == 0 {
		opts.MaxDepth = e.config.MaxRenderDepth
	}

	r := &renderer{opts: opts, cache: e.cache}
	tokens, err := r.tokens(template)
	if err != nil {
		return "", err
	}

	stack := []frame{{kind: frameScope, value: data}}
	return r.render(tokens, stack, opts.Padding)
}

// Prepare tokenizes a template once for repeated rendering.
func (e *Engine) Prepare(template string) (*Template, error) {
	return e.PrepareWithOptions(template, nil)
}

// PrepareWithOptions tokenizes a template with the given options, which
// also become the template's rendering defaults.
func (e *Engine) PrepareWithOptions(template string, opts *Options) (*Template, error) {
	opts = opts.withDefaults()
	tokens, err := Tokenize(template, opts.LeftDelim, opts.RightDelim)
	if err != nil {
		return nil, err
	}
	return &Template{
		source: template,
		tokens: tokens,
		opts:   opts,
		engine: e,
	}, nil
}

// PrepareFile reads and tokenizes a template file.
func (e *Engine) PrepareFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.Prepare(string(data))
}

// Template is a tokenized template ready for rendering. Create one with
// Prepare or PrepareFile. A Template is safe for concurrent rendering.
type Template struct {
	source string
	tokens []Token
	opts   *Options
	engine *Engine
}

// Source returns the original template text.
func (t *Template) Source() string {
	return t.source
}

// Render renders the prepared template with the options given at
// preparation time.
func (t *Template) Render(data interface{}) (string, error) {
	return t.RenderWithOptions(data, t.opts)
}

// RenderWithOptions renders the prepared template with override options.
// Delimiter overrides only affect nested tokenization (partials, lambdas)
// and keep-mode tag reconstruction; the prepared token stream is reused.
func (t *Template) RenderWithOptions(data interface{}, opts *Options) (string, error) {
	if opts != t.opts {
		opts = opts.withDefaults()
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = t.engine.config.MaxRenderDepth
	}

	r := &renderer{opts: opts, cache: t.engine.cache}
	stack := []frame{{kind: frameScope, value: data}}
	return r.render(t.tokens, stack, opts.Padding)
}

// defaultEngine backs the package-level entry points.
var defaultEngine = New()

// Render renders a mustache template with default options.
//
// Example:
//
//	out, err := mustache.Render("Hello {{name}}!", mustache.TemplateData{
//	    "name": "World",
//	})
func Render(template string, data interface{}) (string, error) {
	return defaultEngine.Render(template, data)
}

// RenderWithOptions renders a mustache template with explicit options.
func RenderWithOptions(template string, data interface{}, opts *Options) (string, error) {
	return defaultEngine.RenderWithOptions(template, data, opts)
}

// Prepare tokenizes a template once for repeated rendering with the
// default engine.
func Prepare(template string) (*Template, error) {
	return defaultEngine.Prepare(template)
}

// PrepareFile reads and tokenizes a template file with the default engine.
func PrepareFile(path string) (*Template, error) {
	return defaultEngine.PrepareFile(path)
}
