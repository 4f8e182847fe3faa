package differ

import (
	"regexp"

	"github.com/yamltools/yamldiff/internal/models"
)

// Differ computes the structural difference between two parsed document
// trees. It never fails: every combination of node kinds is covered by
// one of the comparison cases, so the result is just the ordered list of
// changes (empty when the trees are deeply equal).
type Differ struct {
	ignore []*regexp.Regexp
}

// NewDiffer creates a new Differ instance.
func NewDiffer() *Differ {
	return &Differ{}
}

// NewDifferWithIgnore creates a Differ that suppresses changes whose
// rendered path matches any of the given patterns.
func NewDifferWithIgnore(patterns []*regexp.Regexp) *Differ {
	return &Differ{ignore: patterns}
}

// Diff compares left and right and returns the changes in deterministic
// depth-first order: mapping keys in insertion order (left's keys first,
// then keys only present in right), sequence items by index.
func (d *Differ) Diff(left, right *models.Value) []models.Change {
	changes := make([]models.Change, 0)
	d.walk(models.Path{}, left, right, &changes)
	return changes
}

func (d *Differ) walk(path models.Path, left, right *models.Value, out *[]models.Change) {
	switch {
	case left.Kind.IsScalar() && right.Kind.IsScalar():
		if left.Kind != right.Kind {
			// Covers Null-vs-non-Null as well: Null has no value to
			// compare, so a kind mismatch is always a type change.
			d.emit(out, models.Change{Path: path, Kind: models.ChangeTypeChanged, Left: left, Right: right})
			return
		}
		if !scalarEqual(left, right) {
			d.emit(out, models.Change{Path: path, Kind: models.ChangeChanged, Left: left, Right: right})
		}

	case left.Kind == models.Mapping && right.Kind == models.Mapping:
		d.walkMappings(path, left, right, out)

	case left.Kind == models.Sequence && right.Kind == models.Sequence:
		d.walkSequences(path, left, right, out)

	default:
		// Mismatched structural category; recursing into unlike shapes
		// has no meaning.
		d.emit(out, models.Change{Path: path, Kind: models.ChangeTypeChanged, Left: left, Right: right})
	}
}

// walkMappings compares two mappings over the union of their key sets.
// Left's keys are visited in insertion order (removed or recursed), then
// right's keys in insertion order for additions.
func (d *Differ) walkMappings(path models.Path, left, right *models.Value, out *[]models.Change) {
	for _, entry := range left.Map {
		rightValue := right.MapValue(entry.Key)
		if rightValue == nil {
			d.emit(out, models.Change{Path: path.WithKey(entry.Key), Kind: models.ChangeRemoved, Left: entry.Value})
			continue
		}
		d.walk(path.WithKey(entry.Key), entry.Value, rightValue, out)
	}
	for _, entry := range right.Map {
		if left.MapValue(entry.Key) == nil {
			d.emit(out, models.Change{Path: path.WithKey(entry.Key), Kind: models.ChangeAdded, Right: entry.Value})
		}
	}
}

// walkSequences compares two sequences by aligned index. There is no
// reordering or edit-distance detection: item i of the left is compared
// with item i of the right, and surplus items on either side are
// reported as removed or added.
func (d *Differ) walkSequences(path models.Path, left, right *models.Value, out *[]models.Change) {
	shared := len(left.Seq)
	if len(right.Seq) < shared {
		shared = len(right.Seq)
	}
	for i := 0; i < shared; i++ {
		d.walk(path.WithIndex(i), left.Seq[i], right.Seq[i], out)
	}
	for i := shared; i < len(left.Seq); i++ {
		d.emit(out, models.Change{Path: path.WithIndex(i), Kind: models.ChangeRemoved, Left: left.Seq[i]})
	}
	for i := shared; i < len(right.Seq); i++ {
		d.emit(out, models.Change{Path: path.WithIndex(i), Kind: models.ChangeAdded, Right: right.Seq[i]})
	}
}

// emit appends a change unless its path matches an ignore pattern.
func (d *Differ) emit(out *[]models.Change, change models.Change) {
	if len(d.ignore) > 0 {
		rendered := change.Path.String()
		for _, pattern := range d.ignore {
			if pattern.MatchString(rendered) {
				return
			}
		}
	}
	*out = append(*out, change)
}

// scalarEqual compares two scalars of the same kind by value.
func scalarEqual(left, right *models.Value) bool {
	switch left.Kind {
	case models.Null:
		return true
	case models.Bool:
		return left.Bool == right.Bool
	case models.Number:
		return left.Number.Equal(right.Number)
	case models.String:
		return left.Str == right.Str
	default:
		return false
	}
}
