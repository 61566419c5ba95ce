package tree

import (
	"errors"
	"strings"
	"testing"

	"github.com/hargabyte/jhier/internal/hierarchy"
	"github.com/hargabyte/jhier/internal/translate"
)

// buildStore creates:
//
//	t/Root
//	├── t/A
//	│   ├── t/A1
//	│   └── t/A2
//	│       └── t/A2x
//	└── t/B
func buildStore(t *testing.T) *hierarchy.Store {
	t.Helper()
	s := hierarchy.New(nil)
	edges := [][2]string{
		{"t/A", "t/Root"},
		{"t/B", "t/Root"},
		{"t/A1", "t/A"},
		{"t/A2", "t/A"},
		{"t/A2x", "t/A2"},
	}
	for _, e := range edges {
		if err := s.RecordSuperclass(e[0], e[1]); err != nil {
			t.Fatalf("RecordSuperclass(%s, %s): %v", e[0], e[1], err)
		}
	}
	methods := []string{"t/Root", "t/A2", "t/A2x"}
	for _, cls := range methods {
		if err := s.RecordMethod(cls, "draw", "(I)V"); err != nil {
			t.Fatalf("RecordMethod(%s): %v", cls, err)
		}
	}
	return s
}

func classSet(root *ClassNode) map[string]int {
	seen := make(map[string]int)
	root.Walk(func(n *ClassNode, _ int) {
		seen[n.Class]++
	})
	return seen
}

func TestClassTreeFromLeaf(t *testing.T) {
	s := buildStore(t)
	b := NewBuilder(s, nil, 0)

	root, err := b.ClassTree("t/A2x", ExpandFull)
	if err != nil {
		t.Fatalf("ClassTree: %v", err)
	}

	if root.Class != "t/Root" {
		t.Errorf("root = %s, want t/Root", root.Class)
	}

	seen := classSet(root)
	for _, cls := range []string{"t/Root", "t/A", "t/B", "t/A1", "t/A2", "t/A2x"} {
		if seen[cls] != 1 {
			t.Errorf("class %s appears %d times, want 1", cls, seen[cls])
		}
	}
	if root.Count() != 6 {
		t.Errorf("Count() = %d, want 6", root.Count())
	}

	if len(root.Children) != 2 || root.Children[0].Class != "t/A" || root.Children[1].Class != "t/B" {
		t.Fatalf("root children = %+v, want [t/A t/B]", root.Children)
	}
	a := root.Children[0]
	if len(a.Children) != 2 || a.Children[0].Class != "t/A1" || a.Children[1].Class != "t/A2" {
		t.Errorf("t/A children wrong: %+v", a.Children)
	}

	root.Walk(func(n *ClassNode, _ int) {
		if n.Truncated {
			t.Errorf("node %s truncated under full expansion", n.Class)
		}
	})
}

func TestClassTreeRootWithoutAncestors(t *testing.T) {
	s := buildStore(t)
	b := NewBuilder(s, nil, 0)

	root, err := b.ClassTree("t/Root", ExpandFull)
	if err != nil {
		t.Fatalf("ClassTree: %v", err)
	}
	if root.Class != "t/Root" || root.Count() != 6 {
		t.Errorf("root = %s count %d, want t/Root count 6", root.Class, root.Count())
	}

	lone, err := b.ClassTree("z/Unknown", ExpandFull)
	if err != nil {
		t.Fatalf("ClassTree(unknown): %v", err)
	}
	if lone.Class != "z/Unknown" || len(lone.Children) != 0 {
		t.Errorf("unknown class tree = %+v, want single node", lone)
	}
}

func TestClassTreeShallow(t *testing.T) {
	s := buildStore(t)
	b := NewBuilder(s, nil, 0)

	root, err := b.ClassTree("t/A", ExpandShallow)
	if err != nil {
		t.Fatalf("ClassTree: %v", err)
	}
	if root.Count() != 3 {
		t.Fatalf("Count() = %d, want 3 (root + 2 children)", root.Count())
	}
	a := root.Children[0]
	if a.Class != "t/A" || !a.Truncated || len(a.Children) != 0 {
		t.Errorf("t/A = %+v, want truncated with no children", a)
	}
	bNode := root.Children[1]
	if bNode.Class != "t/B" || bNode.Truncated {
		t.Errorf("t/B = %+v, want leaf without truncation", bNode)
	}
}

func TestClassTreeMaxDepth(t *testing.T) {
	s := buildStore(t)
	b := NewBuilder(s, nil, 2)

	root, err := b.ClassTree("t/B", ExpandFull)
	if err != nil {
		t.Fatalf("ClassTree: %v", err)
	}

	var a2 *ClassNode
	root.Walk(func(n *ClassNode, depth int) {
		if depth > 2 {
			t.Errorf("node %s at depth %d exceeds max depth 2", n.Class, depth)
		}
		if n.Class == "t/A2" {
			a2 = n
		}
	})
	if a2 == nil || !a2.Truncated {
		t.Errorf("t/A2 = %+v, want truncated at depth limit", a2)
	}
}

func TestClassTreeLabels(t *testing.T) {
	s := buildStore(t)
	tr := translate.Func(func(name string) string {
		return strings.ToUpper(name)
	})
	b := NewBuilder(s, tr, 0)

	root, err := b.ClassTree("t/B", ExpandFull)
	if err != nil {
		t.Fatalf("ClassTree: %v", err)
	}
	root.Walk(func(n *ClassNode, _ int) {
		if n.Label != strings.ToUpper(n.Class) {
			t.Errorf("label %q for %s not translated", n.Label, n.Class)
		}
	})
}

func TestClassTreeCycle(t *testing.T) {
	s := hierarchy.New(nil)
	for _, e := range [][2]string{{"c/A", "c/B"}, {"c/B", "c/A"}} {
		if err := s.RecordSuperclass(e[0], e[1]); err != nil {
			t.Fatalf("RecordSuperclass: %v", err)
		}
	}

	_, err := NewBuilder(s, nil, 0).ClassTree("c/A", ExpandFull)
	if !errors.Is(err, hierarchy.ErrCyclicHierarchy) {
		t.Errorf("ClassTree on cycle error = %v, want ErrCyclicHierarchy", err)
	}
}

func TestMethodTree(t *testing.T) {
	s := buildStore(t)
	b := NewBuilder(s, nil, 0)

	root, err := b.MethodTree(hierarchy.MethodEntry{Class: "t/A2x", Name: "draw", Descriptor: "(I)V"}, ExpandFull)
	if err != nil {
		t.Fatalf("MethodTree: %v", err)
	}

	if root.Method.Class != "t/Root" {
		t.Errorf("root class = %s, want t/Root", root.Method.Class)
	}
	if !root.Implemented {
		t.Error("root should implement the method")
	}
	if root.Label != "t/Root.draw(I)V" || root.ClassLabel != "t/Root" {
		t.Errorf("root labels = %q / %q", root.Label, root.ClassLabel)
	}

	want := map[string]bool{
		"t/Root": true,
		"t/A":    false,
		"t/A1":   false,
		"t/A2":   true,
		"t/A2x":  true,
		"t/B":    false,
	}
	got := make(map[string]bool)
	root.Walk(func(n *MethodNode, _ int) {
		got[n.Method.Class] = n.Implemented
		if n.Method.Name != "draw" || n.Method.Descriptor != "(I)V" {
			t.Errorf("node %s carries method %+v", n.Method.Class, n.Method)
		}
	})
	if len(got) != len(want) {
		t.Fatalf("method tree classes = %v, want %v", got, want)
	}
	for cls, impl := range want {
		if got[cls] != impl {
			t.Errorf("Implemented(%s) = %v, want %v", cls, got[cls], impl)
		}
	}
}

func TestMethodTreeUnimplemented(t *testing.T) {
	s := buildStore(t)
	b := NewBuilder(s, nil, 0)

	root, err := b.MethodTree(hierarchy.MethodEntry{Class: "t/A", Name: "missing", Descriptor: "()V"}, ExpandShallow)
	if err != nil {
		t.Fatalf("MethodTree: %v", err)
	}
	if root.Method.Class != "t/A" || root.Implemented {
		t.Errorf("root = %+v, want t/A not implemented", root)
	}
	if len(root.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(root.Children))
	}
	if !root.Children[1].Truncated {
		t.Error("t/A2 should be truncated in shallow mode")
	}
}

func TestParseExpansion(t *testing.T) {
	tests := []struct {
		in      string
		want    Expansion
		wantErr bool
	}{
		{"full", ExpandFull, false},
		{"shallow", ExpandShallow, false},
		{"deep", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseExpansion(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseExpansion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseExpansion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
