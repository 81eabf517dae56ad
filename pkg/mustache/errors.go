package mustache

import "fmt"

// SyntaxError represents a structural error in the template source:
// an unclosed section, a stray closing tag, an unterminated tag, or a
// malformed set-delimiters tag. Line is 1-based.
type SyntaxError struct {
	Message string
	Line    int
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("template syntax error at line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("template syntax error: %s", e.Message)
}

// NewSyntaxError creates a new syntax error with position information
func NewSyntaxError(message string, line int) error {
	return &SyntaxError{
		Message: message,
		Line:    line,
	}
}

// LookupError represents a key that could not be resolved in any scope.
// It is only returned when rendering with MissingKeyError.
type LookupError struct {
	Key string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("could not find key %q in data", e.Key)
}

// NewLookupError creates a new lookup error for the given key
func NewLookupError(key string) error {
	return &LookupError{Key: key}
}

// RecursionError is returned when nested partial or lambda rendering
// exceeds the configured maximum depth.
type RecursionError struct {
	Depth int
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("render recursion too deep (depth %d)", e.Depth)
}

// NewRecursionError creates a new recursion error at the given depth
func NewRecursionError(depth int) error {
	return &RecursionError{Depth: depth}
}
