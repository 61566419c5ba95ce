package hierarchy

import (
	"context"
	"fmt"
)

// MethodSig is a declared method as reported by an extractor.
type MethodSig struct {
	Name       string `json:"name" yaml:"name"`
	Descriptor string `json:"descriptor" yaml:"descriptor"`
}

// ClassFact describes one class: its name, its direct superclass (empty when
// none is declared) and the methods it declares.
type ClassFact struct {
	Name       string      `json:"name" yaml:"name"`
	Superclass string      `json:"superclass,omitempty" yaml:"superclass,omitempty"`
	Methods    []MethodSig `json:"methods,omitempty" yaml:"methods,omitempty"`
	Source     string      `json:"source,omitempty" yaml:"source,omitempty"`
}

// Extractor yields class facts from some container of code.
type Extractor interface {
	Extract(ctx context.Context) ([]ClassFact, error)
}

// IngestStats reports what a bulk load processed. Edges counts facts that
// named a superclass, including platform edges the store dropped.
type IngestStats struct {
	Classes int `json:"classes" yaml:"classes"`
	Edges   int `json:"edges" yaml:"edges"`
	Methods int `json:"methods" yaml:"methods"`
}

// Ingest runs the extractor and records every fact into the store.
// The first invalid fact aborts the load and is returned to the caller.
func Ingest(ctx context.Context, s *Store, ext Extractor) (IngestStats, error) {
	facts, err := ext.Extract(ctx)
	if err != nil {
		return IngestStats{}, fmt.Errorf("extract class facts: %w", err)
	}
	return IngestFacts(ctx, s, facts)
}

// IngestFacts records already extracted facts into the store.
func IngestFacts(ctx context.Context, s *Store, facts []ClassFact) (IngestStats, error) {
	var stats IngestStats
	for _, fact := range facts {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := RecordFact(s, fact); err != nil {
			if fact.Source != "" {
				return stats, fmt.Errorf("%s: %w", fact.Source, err)
			}
			return stats, err
		}
		stats.Classes++
		if fact.Superclass != "" {
			stats.Edges++
		}
		stats.Methods += len(fact.Methods)
	}
	return stats, nil
}

// RecordFact records a single class fact.
func RecordFact(s *Store, fact ClassFact) error {
	if fact.Superclass != "" {
		if err := s.RecordSuperclass(fact.Name, fact.Superclass); err != nil {
			return err
		}
	}
	for _, m := range fact.Methods {
		if err := s.RecordMethod(fact.Name, m.Name, m.Descriptor); err != nil {
			return err
		}
	}
	return nil
}
