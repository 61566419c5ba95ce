// Package semdiff compares two hierarchy indexes structurally.
//
// Unlike a line diff of sources, it reports what a refactoring tool cares
// about: classes that appeared or vanished, superclasses that moved, and
// declared methods that were added or removed. Removing a canonical
// declaration or moving a superclass is breaking; dropping an override is
// not.
package semdiff

import (
	"sort"

	"github.com/hargabyte/jhier/internal/graph"
	"github.com/hargabyte/jhier/internal/hierarchy"
)

// ChangeType classifies the kind of structural change.
type ChangeType string

const (
	// ChangeAdded indicates a new class or declared method.
	ChangeAdded ChangeType = "added"
	// ChangeRemoved indicates a class or declared method disappeared.
	ChangeRemoved ChangeType = "removed"
	// ChangeSuperclass indicates a class now extends a different class (breaking).
	ChangeSuperclass ChangeType = "superclass_change"
)

// Entity kinds reported in SemanticChange.Type.
const (
	KindClass  = "class"
	KindMethod = "method"
)

// SemanticChange represents a single structural change.
type SemanticChange struct {
	// Name is the class, or the method id owner.name(desc)ret.
	Name string `yaml:"name" json:"name"`
	// Type is "class" or "method".
	Type string `yaml:"type" json:"type"`
	// ChangeType classifies the change.
	ChangeType ChangeType `yaml:"change_type" json:"change_type"`
	// Breaking indicates if this is a breaking change.
	Breaking bool `yaml:"breaking" json:"breaking"`
	// Affected counts the subclasses reached by the change.
	Affected int `yaml:"affected,omitempty" json:"affected,omitempty"`
	// OldSuperclass is the previous superclass (superclass changes).
	OldSuperclass string `yaml:"old_superclass,omitempty" json:"old_superclass,omitempty"`
	// NewSuperclass is the new superclass (superclass changes).
	NewSuperclass string `yaml:"new_superclass,omitempty" json:"new_superclass,omitempty"`
	// DeclaredIn is the canonical declaration of an added method when it is
	// an override, or of a removed method before it was removed.
	DeclaredIn string `yaml:"declared_in,omitempty" json:"declared_in,omitempty"`
}

// SemanticDiff represents the complete diff result.
type SemanticDiff struct {
	// Summary contains aggregate statistics.
	Summary SemanticSummary `yaml:"summary" json:"summary"`
	// Changes lists all changes, sorted by name.
	Changes []SemanticChange `yaml:"changes" json:"changes"`
}

// SemanticSummary contains aggregate statistics about the diff.
type SemanticSummary struct {
	TotalChanges      int `yaml:"total_changes" json:"total_changes"`
	BreakingChanges   int `yaml:"breaking_changes" json:"breaking_changes"`
	Added             int `yaml:"added" json:"added"`
	Removed           int `yaml:"removed" json:"removed"`
	SuperclassChanges int `yaml:"superclass_changes" json:"superclass_changes"`
	TotalAffected     int `yaml:"total_affected" json:"total_affected"`
}

// index wraps a store with its graph for descendant lookups.
type index struct {
	store   *hierarchy.Store
	graph   *graph.Graph
	classes map[string]struct{}
}

func newIndex(s *hierarchy.Store) *index {
	idx := &index{
		store:   s,
		graph:   graph.BuildFromHierarchy(s),
		classes: make(map[string]struct{}),
	}
	for _, cls := range s.Classes() {
		idx.classes[cls] = struct{}{}
	}
	return idx
}

func (idx *index) has(cls string) bool {
	_, ok := idx.classes[cls]
	return ok
}

func (idx *index) descendants(cls string) []string {
	return idx.graph.BFS(cls, graph.Down)[1:]
}

// declaredIn is the canonical declaration of the method, or "" when the
// hierarchy above cls is cyclic.
func (idx *index) declaredIn(cls, name, desc string) string {
	decl, err := idx.store.ResolveDeclaration(cls, name, desc)
	if err != nil {
		return ""
	}
	return decl
}

// Compare reports the changes that turn the old index into the new one.
// Methods are compared only for classes present in both; a class that was
// added or removed is reported once.
func Compare(oldStore, newStore *hierarchy.Store) *SemanticDiff {
	before, after := newIndex(oldStore), newIndex(newStore)

	var changes []SemanticChange
	for cls := range after.classes {
		if !before.has(cls) {
			changes = append(changes, SemanticChange{
				Name:       cls,
				Type:       KindClass,
				ChangeType: ChangeAdded,
			})
		}
	}

	for cls := range before.classes {
		if !after.has(cls) {
			affected := len(before.descendants(cls))
			changes = append(changes, SemanticChange{
				Name:       cls,
				Type:       KindClass,
				ChangeType: ChangeRemoved,
				Breaking:   affected > 0,
				Affected:   affected,
			})
			continue
		}

		oldSuper, _ := oldStore.SuperclassOf(cls)
		newSuper, _ := newStore.SuperclassOf(cls)
		if oldSuper != newSuper {
			changes = append(changes, SemanticChange{
				Name:          cls,
				Type:          KindClass,
				ChangeType:    ChangeSuperclass,
				Breaking:      true,
				Affected:      len(after.descendants(cls)),
				OldSuperclass: oldSuper,
				NewSuperclass: newSuper,
			})
		}

		changes = append(changes, compareMethods(cls, before, after)...)
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Name != changes[j].Name {
			return changes[i].Name < changes[j].Name
		}
		return changes[i].ChangeType < changes[j].ChangeType
	})

	return &SemanticDiff{
		Summary: buildSummary(changes),
		Changes: changes,
	}
}

func compareMethods(cls string, before, after *index) []SemanticChange {
	oldKeys := keySet(before.store.MethodKeys(cls))
	newKeys := keySet(after.store.MethodKeys(cls))

	var changes []SemanticChange
	for key := range newKeys {
		if _, ok := oldKeys[key]; ok {
			continue
		}
		name, desc := hierarchy.SplitMethodKey(key)
		change := SemanticChange{
			Name:       methodID(cls, name, desc),
			Type:       KindMethod,
			ChangeType: ChangeAdded,
		}
		if decl := after.declaredIn(cls, name, desc); decl != "" && decl != cls {
			change.DeclaredIn = decl
		}
		changes = append(changes, change)
	}

	for key := range oldKeys {
		if _, ok := newKeys[key]; ok {
			continue
		}
		name, desc := hierarchy.SplitMethodKey(key)
		decl := before.declaredIn(cls, name, desc)

		// Removing the canonical declaration leaves every override in the
		// subtree without its base.
		overrides := 0
		for _, sub := range before.descendants(cls) {
			if before.store.IsImplemented(sub, name, desc) {
				overrides++
			}
		}
		changes = append(changes, SemanticChange{
			Name:       methodID(cls, name, desc),
			Type:       KindMethod,
			ChangeType: ChangeRemoved,
			Breaking:   decl == cls,
			Affected:   overrides,
			DeclaredIn: decl,
		})
	}
	return changes
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func methodID(cls, name, desc string) string {
	return hierarchy.MethodEntry{Class: cls, Name: name, Descriptor: desc}.InternalName()
}

// buildSummary aggregates statistics from a list of changes.
func buildSummary(changes []SemanticChange) SemanticSummary {
	summary := SemanticSummary{
		TotalChanges: len(changes),
	}

	for _, c := range changes {
		if c.Breaking {
			summary.BreakingChanges++
		}
		summary.TotalAffected += c.Affected

		switch c.ChangeType {
		case ChangeAdded:
			summary.Added++
		case ChangeRemoved:
			summary.Removed++
		case ChangeSuperclass:
			summary.SuperclassChanges++
		}
	}

	return summary
}
