package mustache

import "strings"

// frameKind distinguishes the three kinds of scope-stack entries. Real data
// scopes hold a value; inverted frames record whether the inverted branch
// was entered; suppressed frames mute everything inside a section that was
// itself skipped.
type frameKind int

const (
	frameScope frameKind = iota
	frameInverted
	frameSuppressed
)

type frame struct {
	kind    frameKind
	value   interface{}
	entered bool // frameInverted only
}

// pushFrame returns a new stack with f on top. Stacks are treated as
// immutable so that lambda callbacks can hold a snapshot safely.
func pushFrame(stack []frame, f frame) []frame {
	out := make([]frame, 0, len(stack)+1)
	out = append(out, f)
	return append(out, stack...)
}

func frameTruthy(f frame) bool {
	switch f.kind {
	case frameSuppressed:
		return false
	case frameInverted:
		return f.entered
	default:
		return isTruthy(f.value)
	}
}

// currentScope returns the value of the innermost real scope. Inverted
// frames are transparent here: {{.}} inside an entered inverted section
// refers to the enclosing scope.
func currentScope(stack []frame) interface{} {
	for _, f := range stack {
		if f.kind == frameScope {
			return f.value
		}
	}
	return ""
}

// lookup resolves a dotted key against the scope stack, innermost scope
// first. The full dotted path is tried per scope; a miss on the first
// segment falls through to the next scope, while a miss on a later segment
// aborts the search (a partially matched path never falls back outward).
//
// A found value that is numeric zero or false is returned literally. Other
// falsy values collapse to the empty string unless they implement
// FalsyRenderer. A key found nowhere is subject to the missing-key policy
// and the keep flag.
func (r *renderer) lookup(key string, stack []frame) (interface{}, error) {
	if key == "." {
		return currentScope(stack), nil
	}

	segments := strings.Split(key, ".")

	for _, f := range stack {
		if f.kind != frameScope {
			continue
		}

		v := f.value
		found := true
		missedAt := 0
		for i, segment := range segments {
			next, ok := access(v, segment)
			if !ok {
				found = false
				missedAt = i
				break
			}
			v = next
		}

		if found {
			return resolvedValue(v), nil
		}
		if missedAt > 0 {
			// ref https://github.com/mustache/spec/pull/48#issuecomment-5919586
			break
		}
	}

	switch r.opts.OnMissingKey {
	case MissingKeyWarn:
		GetLogger().WithField("key", key).Warn("could not find key in data")
	case MissingKeyError:
		return nil, NewLookupError(key)
	}

	if r.opts.Keep {
		return r.opts.LeftDelim + " " + key + " " + r.opts.RightDelim, nil
	}

	return "", nil
}

func resolvedValue(v interface{}) interface{} {
	if v == nil {
		return ""
	}
	if isZeroScalar(v) {
		return v
	}
	if fr, ok := v.(FalsyRenderer); ok && fr.RendersWhenFalsy() {
		return v
	}
	if !isTruthy(v) {
		return ""
	}
	return v
}
