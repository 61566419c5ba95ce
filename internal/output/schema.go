package output

import (
	"time"

	"github.com/hargabyte/jhier/internal/metrics"
	"github.com/hargabyte/jhier/internal/snapshot"
	"github.com/hargabyte/jhier/internal/tree"
)

// Name is one class reported by internal name and translated label.
type Name struct {
	// Class is the internal JVM name, e.g. "com/example/Outer$Inner"
	Class string `yaml:"class" json:"class"`

	// Label is the translated display name; equal to Class without a mapping
	Label string `yaml:"label" json:"label"`
}

// ClassOutput is the result of a superclass query.
type ClassOutput struct {
	Name `yaml:",inline"`

	// Superclass is nil when no superclass is recorded for the class
	Superclass *Name `yaml:"superclass" json:"superclass"`
}

// ListOutput is an ordered list of classes related to one class.
type ListOutput struct {
	// Query names the relation: "ancestry" or "subclasses"
	Query string `yaml:"query" json:"query"`

	Of Name `yaml:"of" json:"of"`

	Count   int    `yaml:"count" json:"count"`
	Results []Name `yaml:"results" json:"results"`
}

// MethodOutput is the result of an implementation or declaration query.
type MethodOutput struct {
	// Query names the question answered: "implements" or "resolve"
	Query string `yaml:"query" json:"query"`

	Class      Name   `yaml:"class" json:"class"`
	Method     string `yaml:"method" json:"method"`
	Descriptor string `yaml:"descriptor" json:"descriptor"`

	// Label is the translated method id (owner.name+descriptor)
	Label string `yaml:"label" json:"label"`

	// Implemented reports whether Class itself declares the method
	Implemented bool `yaml:"implemented" json:"implemented"`

	// DeclaredIn is the topmost ancestor that declares the method (resolve only)
	DeclaredIn *Name `yaml:"declared_in,omitempty" json:"declared_in,omitempty"`
}

// ClassTreeOutput wraps an inheritance tree.
type ClassTreeOutput struct {
	Nodes int             `yaml:"nodes" json:"nodes"`
	Tree  *tree.ClassNode `yaml:"tree" json:"tree"`
}

// MethodTreeOutput wraps a method override tree.
type MethodTreeOutput struct {
	Nodes int              `yaml:"nodes" json:"nodes"`
	Tree  *tree.MethodNode `yaml:"tree" json:"tree"`
}

// MetricsOutput lists inheritance metrics, highest ranked first.
type MetricsOutput struct {
	// Classes is the number of classes in the index; Results may be fewer
	Classes int                    `yaml:"classes" json:"classes"`
	Results []metrics.ClassMetrics `yaml:"results" json:"results"`
}

// CheckOutput summarizes the inheritance graph of the whole index.
type CheckOutput struct {
	Nodes int `yaml:"nodes" json:"nodes"`
	Edges int `yaml:"edges" json:"edges"`

	// Roots are the classes with no recorded superclass
	Roots []string `yaml:"roots" json:"roots"`

	Acyclic bool `yaml:"acyclic" json:"acyclic"`

	// Cycle is one example cycle, first and last element equal
	Cycle []string `yaml:"cycle,omitempty" json:"cycle,omitempty"`
}

// ScanOutput describes a scan or the saved snapshot.
type ScanOutput struct {
	Root      string    `yaml:"root" json:"root"`
	ScannedAt time.Time `yaml:"scanned_at" json:"scanned_at"`
	Backend   string    `yaml:"backend" json:"backend"`
	Path      string    `yaml:"path" json:"path"`

	Classes int `yaml:"classes" json:"classes"`
	Edges   int `yaml:"edges" json:"edges"`
	Methods int `yaml:"methods" json:"methods"`

	// History lists earlier scans (status --history, dolt only)
	History []snapshot.Commit `yaml:"history,omitempty" json:"history,omitempty"`
}
