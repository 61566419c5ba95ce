package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hargabyte/jhier/internal/semdiff"
	"github.com/hargabyte/jhier/internal/tree"
)

// Formatter is the interface for formatting results in different formats.
type Formatter interface {
	// Format formats a result and returns the formatted string.
	Format(result interface{}) (string, error)

	// FormatToWriter writes formatted output directly to a writer.
	FormatToWriter(w io.Writer, result interface{}) error
}

// YAMLFormatter formats results as YAML output.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format formats a result as YAML.
func (f *YAMLFormatter) Format(result interface{}) (string, error) {
	return formatToString(f, result)
}

// FormatToWriter writes YAML output to a writer.
func (f *YAMLFormatter) FormatToWriter(w io.Writer, result interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(result)
}

// JSONFormatter formats results as JSON output.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format formats a result as JSON.
func (f *JSONFormatter) Format(result interface{}) (string, error) {
	return formatToString(f, result)
}

// FormatToWriter writes JSON output to a writer.
func (f *JSONFormatter) FormatToWriter(w io.Writer, result interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(result)
}

// TextFormatter renders results as plain text: one fact per line and trees
// indented two spaces per level.
type TextFormatter struct{}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format formats a result as text.
func (f *TextFormatter) Format(result interface{}) (string, error) {
	return formatToString(f, result)
}

// FormatToWriter writes text output to a writer.
func (f *TextFormatter) FormatToWriter(w io.Writer, result interface{}) error {
	switch v := result.(type) {
	case *ClassOutput:
		return writeClassOutput(w, v)
	case *ListOutput:
		return writeListOutput(w, v)
	case *MethodOutput:
		return writeMethodOutput(w, v)
	case *ClassTreeOutput:
		return writeClassTree(w, v.Tree)
	case *MethodTreeOutput:
		return writeMethodTree(w, v.Tree)
	case *CheckOutput:
		return writeCheckOutput(w, v)
	case *ScanOutput:
		return writeScanOutput(w, v)
	case *MetricsOutput:
		return writeMetricsOutput(w, v)
	case *semdiff.SemanticDiff:
		return writeSemanticDiff(w, v)
	default:
		return fmt.Errorf("text formatter does not support type %T", result)
	}
}

func formatToString(f Formatter, result interface{}) (string, error) {
	var buf bytes.Buffer
	if err := f.FormatToWriter(&buf, result); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeClassOutput(w io.Writer, c *ClassOutput) error {
	if c.Superclass == nil {
		_, err := fmt.Fprintf(w, "%s: no superclass recorded\n", c.Label)
		return err
	}
	_, err := fmt.Fprintf(w, "%s extends %s\n", c.Label, c.Superclass.Label)
	return err
}

func writeListOutput(w io.Writer, l *ListOutput) error {
	if _, err := fmt.Fprintf(w, "%s of %s (%d)\n", l.Query, l.Of.Label, l.Count); err != nil {
		return err
	}
	for _, r := range l.Results {
		if _, err := fmt.Fprintf(w, "  %s\n", r.Label); err != nil {
			return err
		}
	}
	return nil
}

func writeMethodOutput(w io.Writer, m *MethodOutput) error {
	if m.DeclaredIn != nil {
		_, err := fmt.Fprintf(w, "%s is declared in %s\n", m.Label, m.DeclaredIn.Label)
		return err
	}
	verb := "is not implemented"
	if m.Implemented {
		verb = "is implemented"
	}
	_, err := fmt.Fprintf(w, "%s %s by %s\n", m.Label, verb, m.Class.Label)
	return err
}

func writeClassTree(w io.Writer, root *tree.ClassNode) error {
	var err error
	root.Walk(func(n *tree.ClassNode, depth int) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, "%s%s%s\n", strings.Repeat("  ", depth), n.Label, truncatedSuffix(n.Truncated))
	})
	return err
}

// writeMethodTree marks classes that declare the method with "+" and the
// ones that only inherit it with "-".
func writeMethodTree(w io.Writer, root *tree.MethodNode) error {
	var err error
	root.Walk(func(n *tree.MethodNode, depth int) {
		if err != nil {
			return
		}
		marker := "-"
		if n.Implemented {
			marker = "+"
		}
		label := n.ClassLabel
		if depth == 0 {
			label = n.Label
		}
		_, err = fmt.Fprintf(w, "%s%s %s%s\n", strings.Repeat("  ", depth), marker, label, truncatedSuffix(n.Truncated))
	})
	return err
}

func truncatedSuffix(truncated bool) string {
	if truncated {
		return " ..."
	}
	return ""
}

func writeCheckOutput(w io.Writer, c *CheckOutput) error {
	var b strings.Builder
	fmt.Fprintf(&b, "nodes: %d\n", c.Nodes)
	fmt.Fprintf(&b, "edges: %d\n", c.Edges)
	fmt.Fprintf(&b, "roots: %d\n", len(c.Roots))
	for _, root := range c.Roots {
		fmt.Fprintf(&b, "  %s\n", root)
	}
	if c.Acyclic {
		b.WriteString("acyclic: yes\n")
	} else {
		fmt.Fprintf(&b, "acyclic: no\ncycle: %s\n", strings.Join(c.Cycle, " -> "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeScanOutput(w io.Writer, s *ScanOutput) error {
	if _, err := fmt.Fprintf(w, "root: %s\nscanned: %s\nbackend: %s (%s)\nclasses: %d\nedges: %d\nmethods: %d\n",
		s.Root, s.ScannedAt.Format(time.RFC3339), s.Backend, s.Path, s.Classes, s.Edges, s.Methods); err != nil {
		return err
	}
	if len(s.History) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "history:\n"); err != nil {
		return err
	}
	for _, c := range s.History {
		hash := c.Hash
		if len(hash) > 8 {
			hash = hash[:8]
		}
		if _, err := fmt.Fprintf(w, "  %s %s %s\n", hash, c.Date, c.Message); err != nil {
			return err
		}
	}
	return nil
}

// writeMetricsOutput renders one aligned row per class.
func writeMetricsOutput(w io.Writer, m *MetricsOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CLASS\tDEPTH\tCHILDREN\tDESCENDANTS\tDECLARED\tOVERRIDES\tRANK\tIMPORTANCE")
	for _, c := range m.Results {
		importance := string(c.Importance)
		if c.Keystone {
			importance += " (keystone)"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%.3f\t%s\n",
			c.Label, c.Depth, c.Children, c.Descendants, c.Declared, c.Overrides, c.Rank, importance)
	}
	return tw.Flush()
}

// writeSemanticDiff prints one line per change: "+" added, "-" removed,
// "~" superclass moved, with "!" after breaking changes.
func writeSemanticDiff(w io.Writer, d *semdiff.SemanticDiff) error {
	var b strings.Builder
	s := d.Summary
	fmt.Fprintf(&b, "%d changes (%d breaking): %d added, %d removed, %d superclass\n",
		s.TotalChanges, s.BreakingChanges, s.Added, s.Removed, s.SuperclassChanges)

	for _, c := range d.Changes {
		marker := "+"
		switch c.ChangeType {
		case semdiff.ChangeRemoved:
			marker = "-"
		case semdiff.ChangeSuperclass:
			marker = "~"
		}
		if c.Breaking {
			marker += "!"
		}

		fmt.Fprintf(&b, "%-2s %s %s", marker, c.Type, c.Name)
		if c.ChangeType == semdiff.ChangeSuperclass {
			fmt.Fprintf(&b, ": %s -> %s", orNone(c.OldSuperclass), orNone(c.NewSuperclass))
		}
		if c.Affected > 0 {
			fmt.Fprintf(&b, " (%d affected)", c.Affected)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func orNone(cls string) string {
	if cls == "" {
		return "(none)"
	}
	return cls
}

// GetFormatter returns a formatter for the specified format.
func GetFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatYAML:
		return NewYAMLFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatText:
		return NewTextFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
