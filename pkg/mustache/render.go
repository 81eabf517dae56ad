package mustache

import (
	"strings"
)

// MissingKeyPolicy controls what happens when a tag's key cannot be
// resolved in any scope.
type MissingKeyPolicy int

const (
	// MissingKeyIgnore substitutes the empty string (the default).
	MissingKeyIgnore MissingKeyPolicy = iota
	// MissingKeyWarn substitutes the empty string and logs a warning.
	MissingKeyWarn
	// MissingKeyError fails the render with a *LookupError.
	MissingKeyError
)

// RenderFn is the callback handed to lambda sections. It renders the given
// template against the scope stack captured when the lambda was invoked;
// an optional data argument is pushed as a new innermost scope.
type RenderFn func(template string, data ...interface{}) (string, error)

// Lambda is a callable section value. It receives the raw section source
// (inner tags re-serialized in mustache syntax, escaped variables using the
// & sigil) and a render callback, and its return value is inserted into the
// output verbatim.
type Lambda func(text string, render RenderFn) (string, error)

// Options bundles the rendering knobs.
//
// The zero value renders with mustache defaults: {{ }} delimiters, HTML
// escaping on, missing keys ignored, partials resolved from Partials only.
type Options struct {
	// PartialsPath is the directory searched for partial files. Empty
	// disables filesystem lookup entirely.
	PartialsPath string
	// PartialsExt is the file extension for partials (default "mustache").
	PartialsExt string
	// Partials maps partial names to template text, consulted before the
	// filesystem.
	Partials map[string]string
	// Padding is prepended to every line; used internally for nested
	// partial indentation.
	Padding string
	// LeftDelim and RightDelim are the initial delimiters (default {{ and }}).
	LeftDelim  string
	RightDelim string
	// OnMissingKey selects the missing-key policy.
	OnMissingKey MissingKeyPolicy
	// Keep substitutes the reconstructed tag text for missing keys instead
	// of the empty string.
	Keep bool
	// NoEscape disables HTML escaping of variable tags.
	NoEscape bool
	// MaxDepth bounds nested partial and lambda rendering. 0 uses the
	// configured MaxRenderDepth.
	MaxDepth int
}

func (o *Options) withDefaults() *Options {
	opts := Options{}
	if o != nil {
		opts = *o
	}
	if opts.LeftDelim == "" {
		opts.LeftDelim = DefaultLeftDelim
	}
	if opts.RightDelim == "" {
		opts.RightDelim = DefaultRightDelim
	}
	if opts.PartialsExt == "" {
		opts.PartialsExt = "mustache"
	}
	return &opts
}

// htmlEscaper escapes the four characters the mustache spec requires.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

// renderer holds the state of one top-level render invocation.
type renderer struct {
	opts  *Options
	cache *TokenCache
	depth int
}

// tokens tokenizes template text, consulting the token cache.
func (r *renderer) tokens(template string) ([]Token, error) {
	if cached, ok := r.cache.Get(template, r.opts.LeftDelim, r.opts.RightDelim); ok {
		return cached, nil
	}
	toks, err := Tokenize(template, r.opts.LeftDelim, r.opts.RightDelim)
	if err != nil {
		return nil, err
	}
	r.cache.Put(template, r.opts.LeftDelim, r.opts.RightDelim, toks)
	return toks, nil
}

// enter guards nested partial and lambda rendering against runaway
// recursion (e.g. a partial that includes itself).
func (r *renderer) enter() error {
	r.depth++
	if r.depth > r.opts.MaxDepth {
		return NewRecursionError(r.depth)
	}
	return nil
}

func (r *renderer) leave() {
	r.depth--
}

// render walks a token sequence against the scope stack. Tags inside a
// section whose scope is falsy produce no output; section and inverted
// tags there still push a suppressed frame so their end tags balance.
func (r *renderer) render(tokens []Token, stack []frame, padding string) (string, error) {
	var out strings.Builder

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if tok.Type == TokenEnd {
			stack = stack[1:]
			continue
		}

		if len(stack) > 1 && !frameTruthy(stack[0]) {
			if tok.Type == TokenSection || tok.Type == TokenInverted {
				stack = pushFrame(stack, frame{kind: frameSuppressed})
			}
			continue
		}

		switch tok.Type {
		case TokenLiteral:
			out.WriteString(applyPadding(tok.Value, padding))

		case TokenComment, TokenSetDelims:
			// fully consumed at tokenization time

		case TokenVariable:
			v, err := r.lookup(tok.Value, stack)
			if err != nil {
				return "", err
			}
			s := displayString(v)
			if !r.opts.NoEscape {
				s = htmlEscaper.Replace(s)
			}
			out.WriteString(s)

		case TokenUnescaped:
			v, err := r.lookup(tok.Value, stack)
			if err != nil {
				return "", err
			}
			out.WriteString(displayString(v))

		case TokenSection:
			v, err := r.lookup(tok.Value, stack)
			if err != nil {
				return "", err
			}

			if fn, ok := asLambda(v); ok {
				body, next := sectionBody(tokens, i+1, tok.Value)
				rendered, err := r.renderLambda(fn, body, stack, padding)
				if err != nil {
					return "", err
				}
				out.WriteString(rendered)
				i = next
				continue
			}

			if items, ok := sequenceOf(v); ok {
				body, next := sectionBody(tokens, i+1, tok.Value)
				for _, item := range items {
					sub, err := r.render(body, pushFrame(stack, frame{kind: frameScope, value: item}), padding)
					if err != nil {
						return "", err
					}
					out.WriteString(sub)
				}
				i = next
				continue
			}

			stack = pushFrame(stack, frame{kind: frameScope, value: v})

		case TokenInverted:
			v, err := r.lookup(tok.Value, stack)
			if err != nil {
				return "", err
			}
			stack = pushFrame(stack, frame{kind: frameInverted, entered: !isTruthy(v)})

		case TokenPartial:
			rendered, err := r.renderPartial(tok.Value, stack, padding, out.String())
			if err != nil {
				return "", err
			}
			out.WriteString(rendered)
		}
	}

	return out.String(), nil
}

// renderLambda re-serializes the section body to template source, hands it
// to the callable with a render callback over a snapshot of the current
// stack, and returns the lambda's output verbatim. Lambda failures are not
// shielded.
func (r *renderer) renderLambda(fn Lambda, body []Token, stack []frame, padding string) (string, error) {
	text := r.serialize(body)

	// The lambda frequently passes the text straight back to the callback;
	// seed the cache so that pass skips re-tokenization.
	r.cache.Put(text, r.opts.LeftDelim, r.opts.RightDelim, body)

	snapshot := make([]frame, len(stack))
	copy(snapshot, stack)

	callback := func(template string, data ...interface{}) (string, error) {
		frames := snapshot
		if len(data) > 0 && data[0] != nil {
			frames = pushFrame(snapshot, frame{kind: frameScope, value: data[0]})
		}
		toks, err := r.tokens(template)
		if err != nil {
			return "", err
		}
		if err := r.enter(); err != nil {
			return "", err
		}
		defer r.leave()
		return r.render(toks, frames, padding)
	}

	return fn(text, callback)
}

// renderPartial resolves and renders a partial with the caller's full
// scope stack. The whitespace accumulated on the current output line
// becomes the indentation for every line the partial produces.
func (r *renderer) renderPartial(name string, stack []frame, padding, outputSoFar string) (string, error) {
	text := r.partialText(name)

	left := outputSoFar[strings.LastIndexByte(outputSoFar, '\n')+1:]
	indented := left != "" && isIndent(left)

	partPadding := padding
	if indented {
		partPadding += left
	}

	toks, err := r.tokens(text)
	if err != nil {
		return "", err
	}

	if err := r.enter(); err != nil {
		return "", err
	}
	defer r.leave()

	snapshot := make([]frame, len(stack))
	copy(snapshot, stack)

	rendered, err := r.render(toks, snapshot, partPadding)
	if err != nil {
		return "", err
	}

	if indented {
		// the padding applied after the partial's final newline would
		// otherwise leave trailing spaces
		rendered = strings.TrimRight(rendered, " \t")
	}

	return rendered, nil
}

// serialize turns a token sequence back into mustache source using the
// active delimiters. Escaped variables are re-emitted with the & sigil so
// the text round-trips without double escaping.
func (r *renderer) serialize(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		switch tok.Type {
		case TokenLiteral:
			b.WriteString(tok.Value)
		case TokenUnescaped:
			b.WriteString(r.opts.LeftDelim + "& " + tok.Value + " " + r.opts.RightDelim)
		case TokenSetDelims:
			b.WriteString(r.opts.LeftDelim + "=" + tok.Value + "=" + r.opts.RightDelim)
		default:
			b.WriteString(r.opts.LeftDelim + tok.Type.sigil() + " " + tok.Value + r.opts.RightDelim)
		}
	}
	return b.String()
}

// sectionBody returns the tokens between start and the end tag matching
// key, along with the index of that end tag. Nested sections that reuse
// the same key are tracked with an open/close counter; balance is
// guaranteed by the tokenizer.
func sectionBody(tokens []Token, start int, key string) ([]Token, int) {
	sameKey := 0
	for i := start; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok.Type == TokenSection && tok.Value == key:
			sameKey++
		case tok.Type == TokenEnd && tok.Value == key:
			if sameKey == 0 {
				return tokens[start:i], i
			}
			sameKey--
		}
	}
	return tokens[start:], len(tokens)
}

func asLambda(v interface{}) (Lambda, bool) {
	switch fn := v.(type) {
	case Lambda:
		return fn, true
	case func(string, RenderFn) (string, error):
		return fn, true
	}
	return nil, false
}

// applyPadding indents every line after a newline with the given prefix.
func applyPadding(text, padding string) string {
	if padding == "" {
		return text
	}
	return strings.ReplaceAll(text, "\n", "\n"+padding)
}
