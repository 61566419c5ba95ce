package extract

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hargabyte/jhier/internal/hierarchy"
)

// FactsFile reads class facts from a YAML document: a top-level sequence of
// entries with name, superclass and methods (each with name and descriptor).
type FactsFile struct {
	Path string
}

var _ hierarchy.Extractor = FactsFile{}

// Extract reads and decodes the file. Entries without a source are labelled
// with the file path and line of the entry.
func (f FactsFile) Extract(ctx context.Context) ([]hierarchy.ClassFact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading facts file: %w", err)
	}

	facts, err := ParseFacts(data, f.Path)
	if err != nil {
		return nil, fmt.Errorf("parsing facts file %s: %w", f.Path, err)
	}
	return facts, nil
}

// ParseFacts decodes a facts document. label prefixes the generated Source of
// every entry.
func ParseFacts(data []byte, label string) ([]hierarchy.ClassFact, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of classes", root.Line)
	}

	facts := make([]hierarchy.ClassFact, 0, len(root.Content))
	for _, item := range root.Content {
		var fact hierarchy.ClassFact
		if err := item.Decode(&fact); err != nil {
			return nil, fmt.Errorf("line %d: %w", item.Line, err)
		}
		if fact.Name == "" {
			return nil, fmt.Errorf("line %d: class entry without name", item.Line)
		}
		if fact.Source == "" {
			fact.Source = fmt.Sprintf("%s:%d", label, item.Line)
		}
		facts = append(facts, fact)
	}
	return facts, nil
}

// WriteFacts encodes facts in the format ParseFacts reads.
func WriteFacts(w io.Writer, facts []hierarchy.ClassFact) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(facts); err != nil {
		return err
	}
	return enc.Close()
}
