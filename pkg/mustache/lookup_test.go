package mustache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRenderer() *renderer {
	return &renderer{
		opts:  (&Options{}).withDefaults(),
		cache: NewTokenCacheWithConfig(CacheConfig{}),
	}
}

func scopesOf(values ...interface{}) []frame {
	stack := make([]frame, len(values))
	for i, v := range values {
		stack[i] = frame{kind: frameScope, value: v}
	}
	return stack
}

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		key    string
		scopes []interface{}
		want   interface{}
	}{
		{
			name:   "simple key",
			key:    "name",
			scopes: []interface{}{TemplateData{"name": "Joe"}},
			want:   "Joe",
		},
		{
			name: "dotted path",
			key:  "a.b.c",
			scopes: []interface{}{TemplateData{
				"a": map[string]interface{}{"b": map[string]interface{}{"c": "x"}},
			}},
			want: "x",
		},
		{
			name: "inner scope wins",
			key:  "name",
			scopes: []interface{}{
				map[string]interface{}{"name": "inner"},
				TemplateData{"name": "outer"},
			},
			want: "inner",
		},
		{
			name: "missing inner key found in outer scope",
			key:  "name",
			scopes: []interface{}{
				map[string]interface{}{"other": 1},
				TemplateData{"name": "outer"},
			},
			want: "outer",
		},
		{
			name: "partially matched path does not fall back outward",
			key:  "a.z",
			scopes: []interface{}{
				map[string]interface{}{"a": map[string]interface{}{"b": 1}},
				TemplateData{"a": map[string]interface{}{"z": "outer"}},
			},
			want: "",
		},
		{
			name:   "zero is returned literally",
			key:    "zero",
			scopes: []interface{}{TemplateData{"zero": 0}},
			want:   0,
		},
		{
			name:   "false is returned literally",
			key:    "flag",
			scopes: []interface{}{TemplateData{"flag": false}},
			want:   false,
		},
		{
			name:   "empty string collapses",
			key:    "s",
			scopes: []interface{}{TemplateData{"s": ""}},
			want:   "",
		},
		{
			name:   "empty list collapses",
			key:    "l",
			scopes: []interface{}{TemplateData{"l": []interface{}{}}},
			want:   "",
		},
		{
			name:   "integer index",
			key:    "items.1",
			scopes: []interface{}{TemplateData{"items": []interface{}{"a", "b", "c"}}},
			want:   "b",
		},
		{
			name:   "index out of range",
			key:    "items.9",
			scopes: []interface{}{TemplateData{"items": []interface{}{"a"}}},
			want:   "",
		},
		{
			name:   "map with string keys of digits",
			key:    "1.2",
			scopes: []interface{}{TemplateData{"1": map[string]interface{}{"2": "deep"}}},
			want:   "deep",
		},
		{
			name:   "typed map",
			key:    "color",
			scopes: []interface{}{map[string]string{"color": "red"}},
			want:   "red",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := testRenderer()
			got, err := r.lookup(tt.key, scopesOf(tt.scopes...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup_dot(t *testing.T) {
	t.Parallel()

	r := testRenderer()

	got, err := r.lookup(".", scopesOf("current"))
	require.NoError(t, err)
	assert.Equal(t, "current", got)

	// inverted frames are transparent to the dot
	stack := pushFrame(scopesOf("outer"), frame{kind: frameInverted, entered: true})
	got, err = r.lookup(".", stack)
	require.NoError(t, err)
	assert.Equal(t, "outer", got)
}

func TestLookup_struct_fields(t *testing.T) {
	t.Parallel()

	type address struct {
		City string
	}
	type person struct {
		Name    string
		Address address
	}

	r := testRenderer()
	stack := scopesOf(person{Name: "Ada", Address: address{City: "London"}})

	got, err := r.lookup("name", stack)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got)

	got, err = r.lookup("Name", stack)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got)

	got, err = r.lookup("address.city", stack)
	require.NoError(t, err)
	assert.Equal(t, "London", got)
}

func TestLookup_inverted_frames_skipped(t *testing.T) {
	t.Parallel()

	r := testRenderer()
	stack := pushFrame(
		scopesOf(TemplateData{"name": "found"}),
		frame{kind: frameInverted, entered: true},
	)

	got, err := r.lookup("name", stack)
	require.NoError(t, err)
	assert.Equal(t, "found", got)
}

func TestIsTruthy(t *testing.T) {
	t.Parallel()

	truthy := []interface{}{
		true, 1, -1, 0.5, "x", []interface{}{0},
		map[string]interface{}{"k": nil},
		TemplateData{"k": nil},
		struct{}{},
	}
	for _, v := range truthy {
		assert.True(t, isTruthy(v), "%#v should be truthy", v)
	}

	falsy := []interface{}{
		nil, false, 0, 0.0, "", []interface{}{},
		map[string]interface{}{},
		TemplateData{},
	}
	for _, v := range falsy {
		assert.False(t, isTruthy(v), "%#v should be falsy", v)
	}
}

func TestDisplayString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", displayString(nil))
	assert.Equal(t, "abc", displayString("abc"))
	assert.Equal(t, "42", displayString(42))
	assert.Equal(t, "true", displayString(true))
	assert.Equal(t, "false", displayString(false))
	assert.Equal(t, "19.99", displayString(19.99))
	assert.Equal(t, "5", displayString(5.0))
	assert.Equal(t, "1000000", displayString(1000000.0))
}
