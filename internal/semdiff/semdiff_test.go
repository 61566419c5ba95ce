package semdiff

import (
	"testing"

	"github.com/hargabyte/jhier/internal/hierarchy"
)

type fixture struct {
	edges   [][2]string
	methods [][3]string
}

func (f fixture) store(t *testing.T) *hierarchy.Store {
	t.Helper()
	s := hierarchy.New(nil)
	for _, e := range f.edges {
		if err := s.RecordSuperclass(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	for _, m := range f.methods {
		if err := s.RecordMethod(m[0], m[1], m[2]); err != nil {
			t.Fatal(err)
		}
	}
	s.Freeze()
	return s
}

func findChange(d *SemanticDiff, name string, ct ChangeType) (SemanticChange, bool) {
	for _, c := range d.Changes {
		if c.Name == name && c.ChangeType == ct {
			return c, true
		}
	}
	return SemanticChange{}, false
}

func TestCompareIdentical(t *testing.T) {
	f := fixture{
		edges:   [][2]string{{"a/Leaf", "a/Root"}},
		methods: [][3]string{{"a/Root", "run", "()V"}},
	}
	d := Compare(f.store(t), f.store(t))
	if d.Summary.TotalChanges != 0 || len(d.Changes) != 0 {
		t.Errorf("expected no changes, got %+v", d.Changes)
	}
}

func TestCompare(t *testing.T) {
	before := fixture{
		edges: [][2]string{
			{"a/Mid", "a/Root"},
			{"a/Leaf", "a/Mid"},
			{"a/Gone", "a/Root"},
			{"a/GoneChild", "a/Gone"},
		},
		methods: [][3]string{
			{"a/Mid", "draw", "()V"},
			{"a/Leaf", "draw", "()V"},
			{"a/Leaf", "size", "()I"},
		},
	}
	after := fixture{
		edges: [][2]string{
			{"a/Mid", "a/Root"},
			{"a/Leaf", "a/Root"},
			{"a/New", "a/Mid"},
		},
		methods: [][3]string{
			{"a/Leaf", "draw", "()V"},
			{"a/New", "paint", "()V"},
			{"a/Root", "paint", "()V"},
		},
	}

	d := Compare(before.store(t), after.store(t))

	tests := []struct {
		name     string
		ct       ChangeType
		breaking bool
		affected int
	}{
		{"a/New", ChangeAdded, false, 0},
		{"a/Gone", ChangeRemoved, true, 1},
		{"a/GoneChild", ChangeRemoved, false, 0},
		{"a/Leaf", ChangeSuperclass, true, 0},
		{"a/Mid.draw()V", ChangeRemoved, true, 1},
		{"a/Leaf.size()I", ChangeRemoved, true, 0},
		{"a/Root.paint()V", ChangeAdded, false, 0},
	}
	for _, tt := range tests {
		c, ok := findChange(d, tt.name, tt.ct)
		if !ok {
			t.Errorf("missing %s %s in %+v", tt.ct, tt.name, d.Changes)
			continue
		}
		if c.Breaking != tt.breaking || c.Affected != tt.affected {
			t.Errorf("%s %s: breaking=%v affected=%d, want %v/%d",
				tt.ct, tt.name, c.Breaking, c.Affected, tt.breaking, tt.affected)
		}
	}

	leaf, _ := findChange(d, "a/Leaf", ChangeSuperclass)
	if leaf.OldSuperclass != "a/Mid" || leaf.NewSuperclass != "a/Root" {
		t.Errorf("superclass change = %s -> %s", leaf.OldSuperclass, leaf.NewSuperclass)
	}

	// a/New is new, so its paint() is not reported separately.
	if _, ok := findChange(d, "a/New.paint()V", ChangeAdded); ok {
		t.Error("methods of added classes should not be listed")
	}

	if d.Summary.TotalChanges != len(tests) {
		t.Errorf("TotalChanges = %d, want %d", d.Summary.TotalChanges, len(tests))
	}
	if d.Summary.SuperclassChanges != 1 || d.Summary.Added != 2 || d.Summary.Removed != 4 {
		t.Errorf("unexpected summary: %+v", d.Summary)
	}

	for i := 1; i < len(d.Changes); i++ {
		if d.Changes[i-1].Name > d.Changes[i].Name {
			t.Errorf("changes not sorted: %s before %s", d.Changes[i-1].Name, d.Changes[i].Name)
		}
	}
}

func TestCompareOverrideRemoval(t *testing.T) {
	before := fixture{
		edges: [][2]string{{"a/Leaf", "a/Root"}},
		methods: [][3]string{
			{"a/Root", "run", "()V"},
			{"a/Leaf", "run", "()V"},
		},
	}
	after := fixture{
		edges:   [][2]string{{"a/Leaf", "a/Root"}},
		methods: [][3]string{{"a/Root", "run", "()V"}},
	}

	d := Compare(before.store(t), after.store(t))
	c, ok := findChange(d, "a/Leaf.run()V", ChangeRemoved)
	if !ok {
		t.Fatalf("missing override removal: %+v", d.Changes)
	}
	if c.Breaking || c.DeclaredIn != "a/Root" {
		t.Errorf("removing an override should not break: %+v", c)
	}
}

func TestBuildSummary(t *testing.T) {
	changes := []SemanticChange{
		{Name: "a/A", ChangeType: ChangeAdded},
		{Name: "a/B", ChangeType: ChangeRemoved, Breaking: true, Affected: 3},
		{Name: "a/C", ChangeType: ChangeSuperclass, Breaking: true, Affected: 5},
		{Name: "a/C.m()V", ChangeType: ChangeRemoved, Affected: 2},
	}

	summary := buildSummary(changes)
	want := SemanticSummary{
		TotalChanges:      4,
		BreakingChanges:   2,
		Added:             1,
		Removed:           2,
		SuperclassChanges: 1,
		TotalAffected:     10,
	}
	if summary != want {
		t.Errorf("buildSummary = %+v, want %+v", summary, want)
	}
}
