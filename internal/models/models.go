package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which variant of the Value union a node holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Sequence
	Mapping
)

// String returns the human-readable name of the kind, as shown in
// type-change messages.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// IsScalar reports whether the kind is one of the scalar variants.
func (k Kind) IsScalar() bool {
	return k == Null || k == Bool || k == Number || k == String
}

// NumberValue holds a parsed numeric scalar. Raw keeps the source text so
// output can show the number as it was written. Integers are kept as
// int64; everything else is a float64. Float always carries the numeric
// value so mixed int/float comparisons can fall back to it.
type NumberValue struct {
	Raw   string
	Int   int64
	Float float64
	IsInt bool
}

// Equal reports exact equality of the parsed representation. Two
// integers compare as int64; if either side is a float, both compare as
// float64 (so 1 == 1.0, matching YAML scalar resolution).
func (n NumberValue) Equal(other NumberValue) bool {
	if n.IsInt && other.IsInt {
		return n.Int == other.Int
	}
	return n.Float == other.Float
}

// String returns the number as written in the source document.
func (n NumberValue) String() string {
	return n.Raw
}

// MapEntry is one key/value pair of a Mapping, in insertion order.
type MapEntry struct {
	Key   string
	Value *Value
}

// Value is the generic in-memory representation of one node of a parsed
// document: a tagged union over null, bool, number, string, sequence and
// mapping. Exactly the field selected by Kind is meaningful. Trees are
// immutable once produced by the parser.
type Value struct {
	Kind   Kind
	Bool   bool
	Number NumberValue
	Str    string
	Seq    []*Value
	Map    []MapEntry

	// Line and Column are the 1-based position of the node in its source
	// document, zero when unknown (synthesized values).
	Line   int
	Column int
}

// MapValue returns the value for key in a Mapping, or nil if the key is
// absent or the node is not a Mapping.
func (v *Value) MapValue(key string) *Value {
	if v == nil || v.Kind != Mapping {
		return nil
	}
	for _, e := range v.Map {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Interface converts the tree to plain Go types (nil, bool, int64,
// float64, string, []any, map[string]any) for serialization.
func (v *Value) Interface() any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case Null:
		return nil
	case Bool:
		return v.Bool
	case Number:
		if v.Number.IsInt {
			return v.Number.Int
		}
		return v.Number.Float
	case String:
		return v.Str
	case Sequence:
		out := make([]any, len(v.Seq))
		for i, item := range v.Seq {
			out[i] = item.Interface()
		}
		return out
	case Mapping:
		out := make(map[string]any, len(v.Map))
		for _, e := range v.Map {
			out[e.Key] = e.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// Segment is one step of a Path: either a mapping key or a sequence
// index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path locates a node within a Value tree, rooted at the document root.
type Path []Segment

// WithKey returns a copy of the path extended by a mapping key. The
// receiver is not modified, so emitted Change paths stay independent of
// the differ's ongoing traversal.
func (p Path) WithKey(key string) Path {
	next := make(Path, len(p)+1)
	copy(next, p)
	next[len(p)] = Segment{Key: key}
	return next
}

// WithIndex returns a copy of the path extended by a sequence index.
func (p Path) WithIndex(idx int) Path {
	next := make(Path, len(p)+1)
	copy(next, p)
	next[len(p)] = Segment{Index: idx, IsIndex: true}
	return next
}

// String renders the path in dotted/bracketed form, e.g. a.b[2].c.
// Keys that are not plain identifiers are bracketed and quoted:
// a["key with spaces"]. The empty path (document root) renders as ".".
func (p Path) String() string {
	if len(p) == 0 {
		return "."
	}
	var b strings.Builder
	for i, seg := range p {
		if seg.IsIndex {
			b.WriteString("[")
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteString("]")
			continue
		}
		if isPlainKey(seg.Key) {
			if i > 0 {
				b.WriteString(".")
			}
			b.WriteString(seg.Key)
		} else {
			b.WriteString("[")
			b.WriteString(strconv.Quote(seg.Key))
			b.WriteString("]")
		}
	}
	return b.String()
}

// isPlainKey reports whether a key renders unambiguously without
// quoting: identifier-style, no dots, brackets or whitespace.
func isPlainKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// ChangeKind categorizes one structural difference.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeRemoved
	ChangeChanged
	ChangeTypeChanged
)

// String returns the PascalCase name of the change kind. Structured
// output derives its snake_case labels from this.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "Added"
	case ChangeRemoved:
		return "Removed"
	case ChangeChanged:
		return "Changed"
	case ChangeTypeChanged:
		return "TypeChanged"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Change describes one structural difference between the left and right
// documents. Left is nil for Added, Right is nil for Removed; Changed
// and TypeChanged carry both sides.
type Change struct {
	Path  Path
	Kind  ChangeKind
	Left  *Value
	Right *Value
}
