package mustache

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a template token
type TokenType int

const (
	TokenLiteral TokenType = iota
	TokenVariable
	TokenUnescaped
	TokenSection
	TokenInverted
	TokenEnd
	TokenPartial
	TokenComment
	TokenSetDelims
)

func (t TokenType) String() string {
	switch t {
	case TokenLiteral:
		return "literal"
	case TokenVariable:
		return "variable"
	case TokenUnescaped:
		return "unescaped"
	case TokenSection:
		return "section"
	case TokenInverted:
		return "inverted section"
	case TokenEnd:
		return "end"
	case TokenPartial:
		return "partial"
	case TokenComment:
		return "comment"
	case TokenSetDelims:
		return "set delimiters"
	default:
		return "unknown"
	}
}

// sigil returns the character that introduces this tag kind in template
// source. Literal and variable tokens have none.
func (t TokenType) sigil() string {
	switch t {
	case TokenComment:
		return "!"
	case TokenSection:
		return "#"
	case TokenInverted:
		return "^"
	case TokenEnd:
		return "/"
	case TokenPartial:
		return ">"
	case TokenUnescaped:
		return "&"
	case TokenSetDelims:
		return "="
	default:
		return ""
	}
}

// standalone reports whether a tag of this kind may claim a whole line,
// consuming the surrounding whitespace and trailing newline. Variable and
// unescaped tags produce output and never do.
func (t TokenType) standalone() bool {
	switch t {
	case TokenComment, TokenSection, TokenInverted, TokenEnd, TokenPartial, TokenSetDelims:
		return true
	default:
		return false
	}
}

// Token represents a parsed template token.
// Literal tokens carry their raw text in Value; every other kind carries
// the trimmed tag key (for set-delimiters tags, the new delimiter pair).
type Token struct {
	Type  TokenType
	Value string
}

// Default mustache delimiters.
const (
	DefaultLeftDelim  = "{{"
	DefaultRightDelim = "}}"
)

// openSection tracks an unclosed section tag for nesting validation.
type openSection struct {
	key  string
	line int
}

type tokenizer struct {
	src    string
	pos    int
	line   int // 1-based, line of src[pos]
	ldel   string
	rdel   string
	tokens []Token
	opens  []openSection

	// standalone is true when nothing but whitespace has been seen on the
	// current output line, so the next tag may still claim the whole line.
	standalone bool
}

// Tokenize parses a template string into a flat token sequence using the
// given initial delimiters. Empty delimiters select the mustache defaults.
//
// Section nesting is validated here: a close tag must match the most
// recently opened section, and every opened section must be closed before
// end of input. Violations return a *SyntaxError carrying the 1-based line
// of the offending tag.
func Tokenize(template, leftDelim, rightDelim string) ([]Token, error) {
	if leftDelim == "" {
		leftDelim = DefaultLeftDelim
	}
	if rightDelim == "" {
		rightDelim = DefaultRightDelim
	}

	tk := &tokenizer{
		src:        template,
		line:       1,
		ldel:       leftDelim,
		rdel:       rightDelim,
		standalone: true,
	}

	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.WithField("template_length", len(template)).Debug("Starting tokenization")
	}

	if err := tk.run(); err != nil {
		return nil, err
	}

	if logger.IsDebugMode() {
		logger.WithField("token_count", len(tk.tokens)).Debug("Tokenization complete")
	}

	return tk.tokens, nil
}

func (tk *tokenizer) run() error {
	for tk.pos < len(tk.src) {
		idx := strings.Index(tk.src[tk.pos:], tk.ldel)
		if idx < 0 {
			tk.emitLiteral(tk.src[tk.pos:])
			tk.pos = len(tk.src)
			break
		}

		literal := tk.src[tk.pos : tk.pos+idx]
		tk.pos += idx
		tagLine := tk.line + strings.Count(literal, "\n")

		leftOK := tk.leftStandalone(literal)

		tok, tagLen, err := tk.parseTag(tagLine)
		if err != nil {
			return err
		}
		tagText := tk.src[tk.pos : tk.pos+tagLen]
		tk.pos += tagLen

		switch tok.Type {
		case TokenSection, TokenInverted:
			tk.opens = append(tk.opens, openSection{key: tok.Value, line: tagLine})
		case TokenEnd:
			if len(tk.opens) == 0 {
				return NewSyntaxError(fmt.Sprintf("closing tag %q has no opening tag", tok.Value), tagLine)
			}
			top := tk.opens[len(tk.opens)-1]
			if top.key != tok.Value {
				return NewSyntaxError(fmt.Sprintf("unexpected closing tag %q, expected %q", tok.Value, top.key), tagLine)
			}
			tk.opens = tk.opens[:len(tk.opens)-1]
		}

		stripped := false
		strippedNewlines := 0
		if leftOK && tok.Type.standalone() {
			if next, ok := tk.rightStandalone(); ok {
				// Partials keep the whitespace on their left: the renderer
				// reads it back as the indentation for the partial's output.
				if tok.Type != TokenPartial {
					literal = trimLineIndent(literal)
				}
				strippedNewlines = strings.Count(tk.src[tk.pos:next], "\n")
				tk.pos = next
				stripped = true
			}
		}

		tk.emitLiteral(literal)
		tk.line = tagLine + strings.Count(tagText, "\n") + strippedNewlines
		tk.tokens = append(tk.tokens, tok)
		tk.standalone = stripped
	}

	if len(tk.opens) > 0 {
		first := tk.opens[0]
		return NewSyntaxError(fmt.Sprintf("section %q was never closed", first.key), first.line)
	}

	return nil
}

func (tk *tokenizer) emitLiteral(text string) {
	if text == "" {
		return
	}
	tk.tokens = append(tk.tokens, Token{Type: TokenLiteral, Value: text})
}

// leftStandalone reports whether the text between the previous tag and the
// upcoming one leaves the upcoming tag alone at the start of its line.
func (tk *tokenizer) leftStandalone(literal string) bool {
	if i := strings.LastIndexByte(literal, '\n'); i >= 0 {
		return isIndent(literal[i+1:])
	}
	return tk.standalone && isIndent(literal)
}

// rightStandalone checks the text after the tag just parsed: if only
// horizontal whitespace remains before the next newline (or end of input),
// it returns the position just past that newline.
func (tk *tokenizer) rightStandalone() (int, bool) {
	j := tk.pos
	for j < len(tk.src) && (tk.src[j] == ' ' || tk.src[j] == '\t') {
		j++
	}
	switch {
	case j >= len(tk.src):
		return j, true
	case tk.src[j] == '\n':
		return j + 1, true
	case tk.src[j] == '\r' && j+1 < len(tk.src) && tk.src[j+1] == '\n':
		return j + 2, true
	}
	return 0, false
}

// parseTag parses the tag starting at tk.pos (which is known to begin with
// the left delimiter) and returns the token plus the number of source bytes
// the tag occupies. tk.pos is not advanced; delimiters may be mutated by a
// set-delimiters tag.
func (tk *tokenizer) parseTag(line int) (Token, int, error) {
	rest := tk.src[tk.pos+len(tk.ldel):]
	end := strings.Index(rest, tk.rdel)
	if end < 0 {
		return Token{}, 0, NewSyntaxError("unclosed tag", line)
	}

	content := rest[:end]
	length := len(tk.ldel) + end + len(tk.rdel)

	typ := TokenVariable
	triple := false
	if content != "" {
		switch content[0] {
		case '!':
			typ = TokenComment
		case '#':
			typ = TokenSection
		case '^':
			typ = TokenInverted
		case '/':
			typ = TokenEnd
		case '>':
			typ = TokenPartial
		case '&':
			typ = TokenUnescaped
		case '{':
			typ = TokenUnescaped
			triple = true
		case '=':
			typ = TokenSetDelims
		}
	}
	if typ != TokenVariable {
		content = content[1:]
	}

	if triple {
		// {{{key}}} closes with the extra brace just past the right delimiter
		after := rest[end+len(tk.rdel):]
		if !strings.HasPrefix(after, "}") {
			return Token{}, 0, NewSyntaxError("unclosed tag", line)
		}
		length++
	}

	if typ == TokenSetDelims {
		if !strings.HasSuffix(content, "=") {
			return Token{}, 0, NewSyntaxError("unclosed set delimiters tag", line)
		}
		pair := strings.TrimSpace(content[:len(content)-1])
		dels := strings.Fields(pair)
		if len(dels) != 2 {
			return Token{}, 0, NewSyntaxError("invalid set delimiters tag", line)
		}
		tk.ldel, tk.rdel = dels[0], dels[1]
		return Token{Type: TokenSetDelims, Value: pair}, length, nil
	}

	return Token{Type: typ, Value: strings.TrimSpace(content)}, length, nil
}

// isIndent reports whether s contains only horizontal whitespace.
func isIndent(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return false
		}
	}
	return true
}

// trimLineIndent drops the whitespace following the last newline, leaving
// earlier lines untouched.
func trimLineIndent(literal string) string {
	if i := strings.LastIndexByte(literal, '\n'); i >= 0 {
		return literal[:i+1]
	}
	return ""
}
