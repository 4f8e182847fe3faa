package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_String(t *testing.T) {
	tests := []struct {
		name     string
		path     Path
		expected string
	}{
		{"root", Path{}, "."},
		{"single key", Path{}.WithKey("a"), "a"},
		{"nested keys", Path{}.WithKey("a").WithKey("b"), "a.b"},
		{"key then index", Path{}.WithKey("a").WithIndex(2), "a[2]"},
		{"index then key", Path{}.WithKey("a").WithIndex(2).WithKey("c"), "a[2].c"},
		{"root index", Path{}.WithIndex(0), "[0]"},
		{"key with spaces", Path{}.WithKey("key with spaces"), `["key with spaces"]`},
		{"key with dot", Path{}.WithKey("a").WithKey("b.c"), `a["b.c"]`},
		{"leading digit", Path{}.WithKey("1st"), `["1st"]`},
		{"hyphenated key", Path{}.WithKey("read-only"), "read-only"},
		{"empty key", Path{}.WithKey(""), `[""]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.path.String())
		})
	}
}

func TestPath_WithKeyDoesNotAliasParent(t *testing.T) {
	base := Path{}.WithKey("a")
	first := base.WithKey("b")
	second := base.WithKey("c")

	assert.Equal(t, "a.b", first.String())
	assert.Equal(t, "a.c", second.String())
	assert.Equal(t, "a", base.String())
}

func TestNumberValue_Equal(t *testing.T) {
	intOne := NumberValue{Raw: "1", Int: 1, Float: 1, IsInt: true}
	floatOne := NumberValue{Raw: "1.0", Float: 1.0}
	floatOneAndAHalf := NumberValue{Raw: "1.5", Float: 1.5}
	intTwo := NumberValue{Raw: "2", Int: 2, Float: 2, IsInt: true}

	assert.True(t, intOne.Equal(intOne))
	assert.True(t, intOne.Equal(floatOne), "1 and 1.0 resolve to the same number")
	assert.False(t, intOne.Equal(intTwo))
	assert.False(t, floatOne.Equal(floatOneAndAHalf))
}

func TestKind_Strings(t *testing.T) {
	assert.Equal(t, "null", Null.String())
	assert.Equal(t, "mapping", Mapping.String())
	assert.True(t, Null.IsScalar())
	assert.True(t, Number.IsScalar())
	assert.False(t, Sequence.IsScalar())
	assert.False(t, Mapping.IsScalar())
}

func TestChangeKind_String(t *testing.T) {
	assert.Equal(t, "Added", ChangeAdded.String())
	assert.Equal(t, "Removed", ChangeRemoved.String())
	assert.Equal(t, "Changed", ChangeChanged.String())
	assert.Equal(t, "TypeChanged", ChangeTypeChanged.String())
}

func TestValue_Interface(t *testing.T) {
	tree := &Value{
		Kind: Mapping,
		Map: []MapEntry{
			{Key: "count", Value: &Value{Kind: Number, Number: NumberValue{Raw: "3", Int: 3, Float: 3, IsInt: true}}},
			{Key: "ratio", Value: &Value{Kind: Number, Number: NumberValue{Raw: "0.5", Float: 0.5}}},
			{Key: "name", Value: &Value{Kind: String, Str: "svc"}},
			{Key: "on", Value: &Value{Kind: Bool, Bool: true}},
			{Key: "none", Value: &Value{Kind: Null}},
			{Key: "items", Value: &Value{Kind: Sequence, Seq: []*Value{{Kind: String, Str: "a"}}}},
		},
	}

	expected := map[string]any{
		"count": int64(3),
		"ratio": 0.5,
		"name":  "svc",
		"on":    true,
		"none":  nil,
		"items": []any{"a"},
	}
	assert.Equal(t, expected, tree.Interface())

	var absent *Value
	assert.Nil(t, absent.Interface())
}

func TestValue_MapValue(t *testing.T) {
	m := &Value{Kind: Mapping, Map: []MapEntry{
		{Key: "a", Value: &Value{Kind: String, Str: "x"}},
	}}

	assert.NotNil(t, m.MapValue("a"))
	assert.Nil(t, m.MapValue("missing"))
	assert.Nil(t, (&Value{Kind: Sequence}).MapValue("a"))
	var absent *Value
	assert.Nil(t, absent.MapValue("a"))
}
