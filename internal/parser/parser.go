package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors"

	"gopkg.in/yaml.v3"

	"github.com/yamltools/yamldiff/internal/errors"
	"github.com/yamltools/yamldiff/internal/models"
)

// Parse reads a single YAML document from reader and converts it into a
// models.Value tree. Mapping order and node positions are preserved by
// decoding through the yaml.Node API rather than into plain maps.
func Parse(reader io.Reader) (*models.Value, error) {
	decoder := yaml.NewDecoder(reader)

	var doc yaml.Node
	if err := decoder.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			// An empty stream is the null document, not an error.
			return &models.Value{Kind: models.Null}, nil
		}
		// yaml.v3 errors already carry line information ("yaml: line N: ...").
		return nil, errors.NewParsingError(
			fmt.Sprintf("malformed YAML: %v", err),
			errors.ErrInvalidYAML,
		)
	}

	// Multi-document streams are not supported; reject a second document
	// rather than silently diffing only the first.
	var extra yaml.Node
	if err := decoder.Decode(&extra); err == nil {
		return nil, errors.NewParsingError("multiple YAML documents found in stream", errors.ErrMultiDocument)
	} else if !stderrors.Is(err, io.EOF) {
		return nil, errors.NewParsingError(
			fmt.Sprintf("invalid trailing content after first document: %v", err),
			errors.ErrInvalidYAML,
		)
	}

	return convertNode(&doc)
}

// ParseString parses a YAML document held in a string
func ParseString(input string) (*models.Value, error) {
	if strings.TrimSpace(input) == "" {
		return &models.Value{Kind: models.Null}, nil
	}
	return Parse(strings.NewReader(input))
}

// ParseFile parses a YAML document from a file path
func ParseFile(filePath string) (*models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	value, err := Parse(file)
	if err != nil {
		// Attach the file path so the user knows which side failed.
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("in file '%s': %s", filePath, appErr.Message),
				appErr.Err,
			)
		}
		return nil, err
	}
	return value, nil
}

// convertNode maps a yaml.Node onto the Value union.
func convertNode(n *yaml.Node) (*models.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return &models.Value{Kind: models.Null, Line: n.Line, Column: n.Column}, nil
		}
		return convertNode(n.Content[0])

	case yaml.AliasNode:
		// The parser resolves aliases to their anchor; the anchor itself
		// takes part in the comparison as plain data.
		return convertNode(n.Alias)

	case yaml.MappingNode:
		value := &models.Value{Kind: models.Mapping, Line: n.Line, Column: n.Column}
		seen := make(map[string]struct{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			if keyNode.Kind == yaml.AliasNode {
				keyNode = keyNode.Alias
			}
			key := keyNode.Value
			if _, dup := seen[key]; dup {
				// Keys are unique; the first occurrence wins.
				continue
			}
			seen[key] = struct{}{}
			child, err := convertNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			value.Map = append(value.Map, models.MapEntry{Key: key, Value: child})
		}
		return value, nil

	case yaml.SequenceNode:
		value := &models.Value{Kind: models.Sequence, Line: n.Line, Column: n.Column}
		value.Seq = make([]*models.Value, 0, len(n.Content))
		for _, item := range n.Content {
			child, err := convertNode(item)
			if err != nil {
				return nil, err
			}
			value.Seq = append(value.Seq, child)
		}
		return value, nil

	case yaml.ScalarNode:
		return convertScalar(n)

	default:
		return nil, errors.NewParsingError(
			fmt.Sprintf("unsupported YAML node kind %d at line %d", n.Kind, n.Line),
			errors.ErrInvalidYAML,
		)
	}
}

// convertScalar resolves a scalar node by its tag. Integers that
// overflow int64 fall back to float64. Tags with no numeric or boolean
// meaning (!!str, !!timestamp, !!binary) are compared as strings.
func convertScalar(n *yaml.Node) (*models.Value, error) {
	value := &models.Value{Line: n.Line, Column: n.Column}

	switch n.Tag {
	case "!!null":
		value.Kind = models.Null
		return value, nil

	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("invalid boolean scalar %q at line %d", n.Value, n.Line),
				errors.ErrInvalidYAML,
			)
		}
		value.Kind = models.Bool
		value.Bool = b
		return value, nil

	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			value.Kind = models.Number
			value.Number = models.NumberValue{Raw: n.Value, Int: i, Float: float64(i), IsInt: true}
			return value, nil
		}
		// Out of int64 range; fall through to float handling.
		fallthrough

	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("invalid numeric scalar %q at line %d", n.Value, n.Line),
				errors.ErrInvalidYAML,
			)
		}
		value.Kind = models.Number
		value.Number = models.NumberValue{Raw: n.Value, Float: f}
		return value, nil

	default:
		value.Kind = models.String
		value.Str = n.Value
		return value, nil
	}
}
