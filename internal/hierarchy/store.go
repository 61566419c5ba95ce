// Package hierarchy indexes the class hierarchy and declared methods of a
// JVM library and answers the structural queries a renaming tool needs.
//
// The store holds two indexes: a superclass map (single inheritance) and a
// per-class set of declared method keys. Both are filled by ingestion and
// then only read.
//
// # Thread Safety
//
// Store is NOT safe for concurrent use while it is being built. Use one
// writer for all RecordSuperclass / RecordMethod calls, then call Freeze.
// A frozen store may be read from multiple goroutines.
//
// # Absence
//
// Queries about unknown classes are never errors: they return an empty
// slice, false, or ("", false). Only ingestion of a self-referential fact and
// a cyclic ancestry walk produce errors.
package hierarchy

import (
	"fmt"
	"sort"
)

// Store is the class-hierarchy and method-implementation index.
type Store struct {
	superclasses map[string]string
	methods      map[string]map[string]struct{}
	isPlatform   PlatformFunc
	frozen       bool
}

// Stats summarizes the contents of a store.
type Stats struct {
	Classes int `json:"classes" yaml:"classes"`
	Edges   int `json:"edges" yaml:"edges"`
	Methods int `json:"methods" yaml:"methods"`
}

// New creates an empty store. A nil isPlatform uses DefaultPlatformPrefixes.
func New(isPlatform PlatformFunc) *Store {
	if isPlatform == nil {
		isPlatform = PrefixPlatform(DefaultPlatformPrefixes...)
	}
	return &Store{
		superclasses: make(map[string]string),
		methods:      make(map[string]map[string]struct{}),
		isPlatform:   isPlatform,
	}
}

// RecordSuperclass records that cls directly extends superclass.
// Both names are normalized first. A class naming itself as its superclass
// is rejected with ErrInvalidHierarchyFact and leaves the store unchanged.
// Edges whose endpoints are both platform classes are ignored.
func (s *Store) RecordSuperclass(cls, superclass string) error {
	if s.frozen {
		return ErrStoreFrozen
	}

	cls = NormalizeClassName(cls)
	superclass = NormalizeClassName(superclass)

	if cls == superclass {
		return fmt.Errorf("%w: class %s cannot be its own superclass", ErrInvalidHierarchyFact, cls)
	}

	if s.isPlatform(cls) && s.isPlatform(superclass) {
		return nil
	}

	s.superclasses[cls] = superclass
	return nil
}

// RecordMethod records that cls declares the method name+descriptor.
func (s *Store) RecordMethod(cls, name, descriptor string) error {
	if s.frozen {
		return ErrStoreFrozen
	}

	cls = NormalizeClassName(cls)
	keys, ok := s.methods[cls]
	if !ok {
		keys = make(map[string]struct{})
		s.methods[cls] = keys
	}
	keys[MethodKey(name, descriptor)] = struct{}{}
	return nil
}

// Freeze makes the store read-only. Further Record calls return ErrStoreFrozen.
func (s *Store) Freeze() {
	s.frozen = true
}

// Frozen reports whether Freeze has been called.
func (s *Store) Frozen() bool {
	return s.frozen
}

// IsPlatform reports whether the store treats cls as a platform class.
func (s *Store) IsPlatform(cls string) bool {
	return s.isPlatform(NormalizeClassName(cls))
}

// SuperclassOf returns the recorded direct superclass of cls.
func (s *Store) SuperclassOf(cls string) (string, bool) {
	superclass, ok := s.superclasses[NormalizeClassName(cls)]
	return superclass, ok
}

// AncestryOf returns the superclasses of cls, nearest first. cls itself is
// never part of its own ancestry. The walk stops at the first class with no
// recorded superclass and fails with ErrCyclicHierarchy if a class repeats.
func (s *Store) AncestryOf(cls string) ([]string, error) {
	cls = NormalizeClassName(cls)

	visited := map[string]struct{}{cls: {}}
	var ancestors []string
	for current := cls; ; {
		superclass, ok := s.superclasses[current]
		if !ok {
			return ancestors, nil
		}
		if _, seen := visited[superclass]; seen {
			return nil, fmt.Errorf("%w: %s reached again from %s", ErrCyclicHierarchy, superclass, cls)
		}
		visited[superclass] = struct{}{}
		ancestors = append(ancestors, superclass)
		current = superclass
	}
}

// SubclassesOf returns every class whose recorded superclass is cls, sorted.
// This is a linear scan over the superclass map; it is meant for interactive
// use, not hot paths.
func (s *Store) SubclassesOf(cls string) []string {
	cls = NormalizeClassName(cls)

	var subclasses []string
	for subclass, superclass := range s.superclasses {
		if superclass == cls {
			subclasses = append(subclasses, subclass)
		}
	}
	sort.Strings(subclasses)
	return subclasses
}

// HasSubclasses reports whether any recorded class extends cls.
func (s *Store) HasSubclasses(cls string) bool {
	cls = NormalizeClassName(cls)
	for _, superclass := range s.superclasses {
		if superclass == cls {
			return true
		}
	}
	return false
}

// IsImplemented reports whether cls itself declares name+descriptor.
func (s *Store) IsImplemented(cls, name, descriptor string) bool {
	keys, ok := s.methods[NormalizeClassName(cls)]
	if !ok {
		return false
	}
	_, ok = keys[MethodKey(name, descriptor)]
	return ok
}

// Edge is one recorded subclass -> superclass fact.
type Edge struct {
	Class      string `json:"class" yaml:"class"`
	Superclass string `json:"superclass" yaml:"superclass"`
}

// Edges returns all recorded superclass edges sorted by class name.
func (s *Store) Edges() []Edge {
	edges := make([]Edge, 0, len(s.superclasses))
	for cls, superclass := range s.superclasses {
		edges = append(edges, Edge{Class: cls, Superclass: superclass})
	}
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].Class < edges[j].Class
	})
	return edges
}

// Classes returns every class known to either index, sorted.
// Superclasses that were only ever seen as edge targets are included.
func (s *Store) Classes() []string {
	seen := make(map[string]struct{}, len(s.superclasses)+len(s.methods))
	for cls, superclass := range s.superclasses {
		seen[cls] = struct{}{}
		seen[superclass] = struct{}{}
	}
	for cls := range s.methods {
		seen[cls] = struct{}{}
	}

	classes := make([]string, 0, len(seen))
	for cls := range seen {
		classes = append(classes, cls)
	}
	sort.Strings(classes)
	return classes
}

// MethodKeys returns the declared method keys of cls, sorted.
func (s *Store) MethodKeys(cls string) []string {
	keys := s.methods[NormalizeClassName(cls)]
	result := make([]string, 0, len(keys))
	for key := range keys {
		result = append(result, key)
	}
	sort.Strings(result)
	return result
}

// Stats returns counts of classes, edges and declared methods.
func (s *Store) Stats() Stats {
	stats := Stats{
		Classes: len(s.Classes()),
		Edges:   len(s.superclasses),
	}
	for _, keys := range s.methods {
		stats.Methods += len(keys)
	}
	return stats
}
