package formatter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/yamltools/yamldiff/internal/errors"
	"github.com/yamltools/yamldiff/internal/models"
)

// Supported output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Kind words are colored; color.NoColor handles NO_COLOR, non-TTY output
// and the --no-color flag globally.
var (
	addedColor   = color.New(color.FgGreen).SprintFunc()
	removedColor = color.New(color.FgRed).SprintFunc()
	changedColor = color.New(color.FgYellow).SprintFunc()
	typeColor    = color.New(color.FgMagenta).SprintFunc()
)

// Options controls how changes are rendered.
type Options struct {
	// Format is one of text, json or yaml.
	Format string
	// Context is the number of source lines to show around each change
	// in text output. Requires the sources to be set.
	Context int
	// LeftSource and RightSource hold the raw document text, used only
	// for the context display.
	LeftSource  string
	RightSource string
}

// Formatter renders a sequence of Change records as output text. It is a
// pure function of the changes and its options; ordering always follows
// the order the changes were produced in.
type Formatter struct {
	opts       Options
	leftLines  []string
	rightLines []string
}

// NewFormatter creates a Formatter with default options (plain text).
func NewFormatter() *Formatter {
	return NewFormatterWithOptions(Options{Format: FormatText})
}

// NewFormatterWithOptions creates a Formatter with custom options.
func NewFormatterWithOptions(opts Options) *Formatter {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	f := &Formatter{opts: opts}
	if opts.Context > 0 {
		f.leftLines = strings.Split(opts.LeftSource, "\n")
		f.rightLines = strings.Split(opts.RightSource, "\n")
	}
	return f
}

// Format renders the change list in the configured format.
func (f *Formatter) Format(changes []models.Change) (string, error) {
	switch f.opts.Format {
	case FormatText:
		return f.formatText(changes), nil
	case FormatJSON:
		return f.formatJSON(changes)
	case FormatYAML:
		return f.formatYAML(changes)
	default:
		return "", errors.NewFormatError(
			fmt.Sprintf("unknown output format '%s'", f.opts.Format),
			errors.ErrUnknownFormat,
		)
	}
}

// formatText renders one line per change, optionally followed by source
// context from each side.
func (f *Formatter) formatText(changes []models.Change) string {
	var b strings.Builder
	for _, c := range changes {
		b.WriteString(f.textLine(c))
		b.WriteString("\n")
		if f.opts.Context > 0 {
			f.writeContext(&b, "left", f.leftLines, c.Left)
			f.writeContext(&b, "right", f.rightLines, c.Right)
		}
	}
	return b.String()
}

func (f *Formatter) textLine(c models.Change) string {
	path := c.Path.String()
	switch c.Kind {
	case models.ChangeAdded:
		return fmt.Sprintf("%s: %s %s", path, addedColor("added"), renderValue(c.Right))
	case models.ChangeRemoved:
		return fmt.Sprintf("%s: %s %s", path, removedColor("removed"), renderValue(c.Left))
	case models.ChangeChanged:
		return fmt.Sprintf("%s: %s %s -> %s", path, changedColor("changed"), renderValue(c.Left), renderValue(c.Right))
	case models.ChangeTypeChanged:
		return fmt.Sprintf("%s: %s %s -> %s", path, typeColor("type changed"), renderTyped(c.Left), renderTyped(c.Right))
	default:
		return fmt.Sprintf("%s: %s", path, c.Kind)
	}
}

// writeContext prints the configured number of source lines around the
// node on one side, marking the node's own line.
func (f *Formatter) writeContext(b *strings.Builder, label string, lines []string, v *models.Value) {
	if v == nil || v.Line <= 0 {
		return
	}
	for offset := -f.opts.Context; offset <= f.opts.Context; offset++ {
		idx := v.Line - 1 + offset
		if idx < 0 || idx >= len(lines) {
			continue
		}
		marker := " "
		if offset == 0 {
			marker = ">"
		}
		fmt.Fprintf(b, "  %-5s %s%4d | %s\n", label, marker, idx+1, lines[idx])
	}
}

// changeRecord is the serialized form of a Change for structured output.
// The absent side of an added/removed record is null; the kind field
// disambiguates that from a genuine null value.
type changeRecord struct {
	Path  string `json:"path" yaml:"path"`
	Kind  string `json:"kind" yaml:"kind"`
	Left  any    `json:"left" yaml:"left"`
	Right any    `json:"right" yaml:"right"`
}

func toRecords(changes []models.Change) []changeRecord {
	records := make([]changeRecord, 0, len(changes))
	for _, c := range changes {
		records = append(records, changeRecord{
			Path:  c.Path.String(),
			Kind:  strcase.ToSnake(c.Kind.String()),
			Left:  c.Left.Interface(),
			Right: c.Right.Interface(),
		})
	}
	return records
}

func (f *Formatter) formatJSON(changes []models.Change) (string, error) {
	data, err := json.MarshalIndent(toRecords(changes), "", "  ")
	if err != nil {
		return "", errors.NewFormatError("failed to marshal changes as JSON", err)
	}
	return string(data) + "\n", nil
}

func (f *Formatter) formatYAML(changes []models.Change) (string, error) {
	data, err := yaml.Marshal(toRecords(changes))
	if err != nil {
		return "", errors.NewFormatError("failed to marshal changes as YAML", err)
	}
	return string(data), nil
}

// renderValue renders a value for a text change line. Scalars render
// YAML-style (strings quoted so "1" and 1 stay distinguishable);
// composites render as compact JSON.
func renderValue(v *models.Value) string {
	if v == nil {
		return "<absent>"
	}
	switch v.Kind {
	case models.Null:
		return "null"
	case models.Bool:
		return strconv.FormatBool(v.Bool)
	case models.Number:
		return v.Number.String()
	case models.String:
		return strconv.Quote(v.Str)
	default:
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return fmt.Sprintf("<%s>", v.Kind)
		}
		return string(data)
	}
}

// renderTyped annotates a value with its kind for type-change messages.
func renderTyped(v *models.Value) string {
	if v == nil {
		return "<absent>"
	}
	if v.Kind == models.Null {
		return "null"
	}
	return fmt.Sprintf("%s(%s)", v.Kind, renderValue(v))
}
