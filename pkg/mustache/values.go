package mustache

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// TemplateData represents the data context for rendering templates.
// It's a map of key-value pairs where values can be strings, numbers,
// booleans, slices, maps, structs, or lambdas.
//
// Example:
//
//	data := TemplateData{
//	    "name": "John Doe",
//	    "items": []map[string]interface{}{
//	        {"name": "Item 1", "price": 19.99},
//	        {"name": "Item 2", "price": 29.99},
//	    },
//	}
type TemplateData map[string]interface{}

// Truther lets a value decide its own truthiness for section and
// inverted-section tests, overriding the built-in rules.
type Truther interface {
	IsTruthy() bool
}

// FalsyRenderer marks a value that should be displayed as-is even when it
// is falsy, instead of collapsing to the empty string.
type FalsyRenderer interface {
	RendersWhenFalsy() bool
}

// isTruthy implements mustache truthiness: nil, false, zero numbers, empty
// strings, and empty collections are falsy; everything else is truthy.
func isTruthy(v interface{}) bool {
	if v == nil {
		return false
	}
	if t, ok := v.(Truther); ok {
		return t.IsTruthy()
	}

	switch s := v.(type) {
	case bool:
		return s
	case string:
		return s != ""
	case int:
		return s != 0
	case int64:
		return s != 0
	case float64:
		return s != 0
	case TemplateData:
		return len(s) > 0
	case map[string]interface{}:
		return len(s) > 0
	case []interface{}:
		return len(s) > 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return isTruthy(rv.Elem().Interface())
	}

	return true
}

// isZeroScalar reports whether v is numeric zero or boolean false. Those
// values display literally instead of collapsing to the empty string.
func isZeroScalar(v interface{}) bool {
	switch s := v.(type) {
	case bool:
		return !s
	case int:
		return s == 0
	case int64:
		return s == 0
	case float64:
		return s == 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	}

	return false
}

// displayString converts a resolved value to its output form
func displayString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// sequenceOf returns the elements of v when v is a list-like value.
// Strings are scalars here, not element sequences.
func sequenceOf(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case []interface{}:
		return s, true
	case string, nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// access resolves one path segment against a single scope value: keyed
// lookup on maps, named-field lookup on structs, then integer indexing on
// sequences. A map that lacks the key is a miss, not a fall-through.
func access(v interface{}, segment string) (interface{}, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case TemplateData:
		val, ok := s[segment]
		return val, ok
	case map[string]interface{}:
		val, ok := s[segment]
		return val, ok
	case map[string]string:
		val, ok := s[segment]
		return val, ok
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(segment))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Struct:
		return structField(rv, segment)
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	}

	return nil, false
}

// structField looks up an exported field by exact name, falling back to a
// case-insensitive match so that lowercase template keys reach exported
// Go fields.
func structField(rv reflect.Value, name string) (interface{}, bool) {
	f := rv.FieldByName(name)
	if f.IsValid() && f.CanInterface() {
		return f.Interface(), true
	}

	f = rv.FieldByNameFunc(func(field string) bool {
		return strings.EqualFold(field, name)
	})
	if f.IsValid() && f.CanInterface() {
		return f.Interface(), true
	}

	return nil, false
}
