// Package metrics computes inheritance metrics for the classes of a
// hierarchy store: depth of inheritance, number of children, descendants,
// overridden methods, and a PageRank importance score where rank flows from
// each class to its superclass.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hargabyte/jhier/internal/graph"
	"github.com/hargabyte/jhier/internal/hierarchy"
)

// ClassMetrics holds the computed metrics of one class.
type ClassMetrics struct {
	Class string `json:"class" yaml:"class"`
	Label string `json:"label" yaml:"label"`

	// Depth is the number of recorded ancestors (depth of inheritance tree)
	Depth int `json:"depth" yaml:"depth"`

	// Children counts direct subclasses; Descendants counts all of them
	Children    int `json:"children" yaml:"children"`
	Descendants int `json:"descendants" yaml:"descendants"`

	// Declared counts declared methods, constructors excluded. Overrides
	// counts the declared methods whose canonical declaration is an ancestor.
	Declared  int `json:"declared" yaml:"declared"`
	Overrides int `json:"overrides" yaml:"overrides"`

	// Rank is the PageRank score scaled so the top class scores 1.0
	Rank       float64    `json:"rank" yaml:"rank"`
	Importance Importance `json:"importance" yaml:"importance"`
	Keystone   bool       `json:"keystone" yaml:"keystone"`
}

// Importance represents the classification level based on the scaled rank.
type Importance string

const (
	// Critical importance: rank >= 0.50
	Critical Importance = "critical"
	// High importance: rank >= 0.30
	High Importance = "high"
	// Medium importance: rank >= 0.10
	Medium Importance = "medium"
	// Low importance: rank < 0.10
	Low Importance = "low"
)

// ImportanceThresholds contains configurable thresholds for importance classification.
type ImportanceThresholds struct {
	Critical            float64 // Default: 0.50
	High                float64 // Default: 0.30
	Medium              float64 // Default: 0.10
	KeystoneRank        float64 // Default: 0.30
	KeystoneDescendants int     // Default: 5
}

// DefaultThresholds returns the default importance thresholds.
func DefaultThresholds() ImportanceThresholds {
	return ImportanceThresholds{
		Critical:            0.50,
		High:                0.30,
		Medium:              0.10,
		KeystoneRank:        0.30,
		KeystoneDescendants: 5,
	}
}

// Classify returns the importance level of a scaled rank.
func (t ImportanceThresholds) Classify(rank float64) Importance {
	switch {
	case rank >= t.Critical:
		return Critical
	case rank >= t.High:
		return High
	case rank >= t.Medium:
		return Medium
	default:
		return Low
	}
}

// IsKeystone reports whether a class is a keystone base class: highly
// ranked and extended, directly or not, by enough classes that changing it
// ripples widely.
func (t ImportanceThresholds) IsKeystone(rank float64, descendants int) bool {
	return rank >= t.KeystoneRank && descendants >= t.KeystoneDescendants
}

// Compute returns the metrics of every class in the store, sorted by
// internal name. A cyclic hierarchy has no meaningful depth, so it fails
// with hierarchy.ErrCyclicHierarchy.
func Compute(s *hierarchy.Store, cfg PageRankConfig, thresholds ImportanceThresholds) ([]ClassMetrics, error) {
	g := graph.BuildFromHierarchy(s)
	if hasCycle, cycle := g.FindCycles(); hasCycle {
		return nil, fmt.Errorf("%w: %s", hierarchy.ErrCyclicHierarchy, strings.Join(cycle, " -> "))
	}

	ranks := ScaleToMax(ComputePageRank(g.Edges, cfg))

	nodes := g.Nodes()
	result := make([]ClassMetrics, 0, len(nodes))
	for _, cls := range nodes {
		ancestors, err := s.AncestryOf(cls)
		if err != nil {
			return nil, err
		}

		m := ClassMetrics{
			Class:       cls,
			Label:       cls,
			Depth:       len(ancestors),
			Children:    g.InDegree(cls),
			Descendants: len(g.BFS(cls, graph.Down)) - 1,
			Rank:        ranks[cls],
		}
		m.Importance = thresholds.Classify(m.Rank)
		m.Keystone = thresholds.IsKeystone(m.Rank, m.Descendants)

		for _, key := range s.MethodKeys(cls) {
			name, desc := hierarchy.SplitMethodKey(key)
			if name == "<init>" || name == "<clinit>" {
				continue
			}
			m.Declared++
			declaring, err := s.ResolveDeclaration(cls, name, desc)
			if err != nil {
				return nil, err
			}
			if declaring != cls {
				m.Overrides++
			}
		}
		result = append(result, m)
	}
	return result, nil
}

// Top returns the n highest ranked classes. Ties go to the class with more
// descendants, then to the smaller internal name. n <= 0 returns all.
func Top(ms []ClassMetrics, n int) []ClassMetrics {
	sorted := append([]ClassMetrics(nil), ms...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Rank != b.Rank {
			return a.Rank > b.Rank
		}
		if a.Descendants != b.Descendants {
			return a.Descendants > b.Descendants
		}
		return a.Class < b.Class
	})
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
