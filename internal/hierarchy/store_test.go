package hierarchy

import (
	"errors"
	"reflect"
	"testing"
)

// newChainStore builds a/Root <- a/Mid <- a/Leaf plus a/Other <- a/Mid sibling.
func newChainStore(t *testing.T) *Store {
	t.Helper()
	s := New(nil)
	facts := []struct{ cls, super string }{
		{"a/Mid", "a/Root"},
		{"a/Leaf", "a/Mid"},
		{"a/Sibling", "a/Mid"},
		{"a/Root", "java/lang/Object"},
	}
	for _, f := range facts {
		if err := s.RecordSuperclass(f.cls, f.super); err != nil {
			t.Fatalf("RecordSuperclass(%s, %s): %v", f.cls, f.super, err)
		}
	}
	return s
}

func TestNormalizeClassName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"com.example.Foo", "com/example/Foo"},
		{"com/example/Foo", "com/example/Foo"},
		{"Foo", "Foo"},
		{" a.b.C$D ", "a/b/C$D"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeClassName(tt.in); got != tt.want {
				t.Errorf("NormalizeClassName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRecordSuperclassSelfReference(t *testing.T) {
	s := New(nil)
	if err := s.RecordSuperclass("a/A", "a/Base"); err != nil {
		t.Fatalf("RecordSuperclass: %v", err)
	}

	err := s.RecordSuperclass("a/A", "a.A")
	if !errors.Is(err, ErrInvalidHierarchyFact) {
		t.Fatalf("RecordSuperclass(self) error = %v, want ErrInvalidHierarchyFact", err)
	}

	got, ok := s.SuperclassOf("a/A")
	if !ok || got != "a/Base" {
		t.Errorf("SuperclassOf(a/A) = %q, %v, want a/Base, true", got, ok)
	}

	if err := s.RecordSuperclass("b/New", "b/New"); !errors.Is(err, ErrInvalidHierarchyFact) {
		t.Errorf("RecordSuperclass(b/New, b/New) error = %v, want ErrInvalidHierarchyFact", err)
	}
	if _, ok := s.SuperclassOf("b/New"); ok {
		t.Error("rejected self edge should not be recorded")
	}
}

func TestRecordSuperclassPlatformFilter(t *testing.T) {
	s := New(nil)

	// Both endpoints in the platform namespace: dropped.
	if err := s.RecordSuperclass("java/util/ArrayList", "java/util/AbstractList"); err != nil {
		t.Fatalf("RecordSuperclass: %v", err)
	}
	if err := s.RecordSuperclass("javax/swing/JPanel", "java/awt/Container"); err != nil {
		t.Fatalf("RecordSuperclass: %v", err)
	}
	for _, cls := range []string{"java/util/ArrayList", "java/util/AbstractList", "javax/swing/JPanel"} {
		if _, ok := s.SuperclassOf(cls); ok {
			t.Errorf("SuperclassOf(%s) recorded, want platform edge dropped", cls)
		}
	}

	// One endpoint outside the platform: kept.
	if err := s.RecordSuperclass("a/MyList", "java/util/ArrayList"); err != nil {
		t.Fatalf("RecordSuperclass: %v", err)
	}
	if got, ok := s.SuperclassOf("a/MyList"); !ok || got != "java/util/ArrayList" {
		t.Errorf("SuperclassOf(a/MyList) = %q, %v, want java/util/ArrayList", got, ok)
	}
}

func TestCustomPlatformPredicate(t *testing.T) {
	s := New(PrefixPlatform("kotlin."))
	if err := s.RecordSuperclass("kotlin/collections/A", "kotlin/collections/B"); err != nil {
		t.Fatalf("RecordSuperclass: %v", err)
	}
	if _, ok := s.SuperclassOf("kotlin/collections/A"); ok {
		t.Error("kotlin platform edge should be dropped")
	}

	// java/ is not platform under this predicate.
	if err := s.RecordSuperclass("java/util/ArrayList", "java/util/AbstractList"); err != nil {
		t.Fatalf("RecordSuperclass: %v", err)
	}
	if _, ok := s.SuperclassOf("java/util/ArrayList"); !ok {
		t.Error("java edge should be kept with a kotlin-only predicate")
	}
}

func TestRecordSuperclassNormalizes(t *testing.T) {
	s := New(nil)
	if err := s.RecordSuperclass("com.example.Child", "com.example.Parent"); err != nil {
		t.Fatalf("RecordSuperclass: %v", err)
	}
	got, ok := s.SuperclassOf("com/example/Child")
	if !ok || got != "com/example/Parent" {
		t.Errorf("SuperclassOf = %q, %v, want com/example/Parent", got, ok)
	}
}

func TestAncestryOf(t *testing.T) {
	s := newChainStore(t)

	tests := []struct {
		cls  string
		want []string
	}{
		{"a/Leaf", []string{"a/Mid", "a/Root", "java/lang/Object"}},
		{"a/Mid", []string{"a/Root", "java/lang/Object"}},
		{"a/Root", []string{"java/lang/Object"}},
		{"java/lang/Object", nil},
		{"z/Unknown", nil},
	}

	for _, tt := range tests {
		t.Run(tt.cls, func(t *testing.T) {
			got, err := s.AncestryOf(tt.cls)
			if err != nil {
				t.Fatalf("AncestryOf(%s): %v", tt.cls, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("AncestryOf(%s) = %v, want %v", tt.cls, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("AncestryOf(%s)[%d] = %s, want %s", tt.cls, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestAncestryOfCycle(t *testing.T) {
	s := New(nil)
	for _, e := range [][2]string{{"c/A", "c/B"}, {"c/B", "c/C"}, {"c/C", "c/A"}} {
		if err := s.RecordSuperclass(e[0], e[1]); err != nil {
			t.Fatalf("RecordSuperclass: %v", err)
		}
	}

	if _, err := s.AncestryOf("c/A"); !errors.Is(err, ErrCyclicHierarchy) {
		t.Errorf("AncestryOf(c/A) error = %v, want ErrCyclicHierarchy", err)
	}
	if _, err := s.ResolveDeclaration("c/B", "m", "()V"); !errors.Is(err, ErrCyclicHierarchy) {
		t.Errorf("ResolveDeclaration on cycle error = %v, want ErrCyclicHierarchy", err)
	}
}

func TestSubclassesOf(t *testing.T) {
	s := newChainStore(t)

	if got, want := s.SubclassesOf("a/Mid"), []string{"a/Leaf", "a/Sibling"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SubclassesOf(a/Mid) = %v, want %v", got, want)
	}
	if got := s.SubclassesOf("a/Leaf"); len(got) != 0 {
		t.Errorf("SubclassesOf(a/Leaf) = %v, want empty", got)
	}
	if got := s.SubclassesOf("z/Unknown"); len(got) != 0 {
		t.Errorf("SubclassesOf(z/Unknown) = %v, want empty", got)
	}
	if !s.HasSubclasses("a/Root") || s.HasSubclasses("a/Leaf") {
		t.Error("HasSubclasses disagrees with SubclassesOf")
	}
}

func TestSubclassRoundTrip(t *testing.T) {
	s := newChainStore(t)

	for _, edge := range s.Edges() {
		super, ok := s.SuperclassOf(edge.Class)
		if !ok {
			t.Fatalf("SuperclassOf(%s) missing", edge.Class)
		}
		found := false
		for _, sub := range s.SubclassesOf(super) {
			if sub == edge.Class {
				found = true
			}
		}
		if !found {
			t.Errorf("SubclassesOf(%s) does not contain %s", super, edge.Class)
		}
	}
}

func TestIsImplemented(t *testing.T) {
	s := New(nil)
	if err := s.RecordMethod("a/A", "run", "()V"); err != nil {
		t.Fatalf("RecordMethod: %v", err)
	}
	if err := s.RecordMethod("a.A", "run", "(I)V"); err != nil {
		t.Fatalf("RecordMethod: %v", err)
	}

	tests := []struct {
		cls, name, desc string
		want            bool
	}{
		{"a/A", "run", "()V", true},
		{"a/A", "run", "(I)V", true},
		{"a/A", "run", "(J)V", false},
		{"a/A", "walk", "()V", false},
		{"z/Unknown", "run", "()V", false},
	}

	for _, tt := range tests {
		if got := s.IsImplemented(tt.cls, tt.name, tt.desc); got != tt.want {
			t.Errorf("IsImplemented(%s, %s, %s) = %v, want %v", tt.cls, tt.name, tt.desc, got, tt.want)
		}
	}
}

func TestRecordIdempotent(t *testing.T) {
	once := New(nil)
	twice := New(nil)

	record := func(s *Store, n int) {
		for i := 0; i < n; i++ {
			if err := s.RecordSuperclass("a/B", "a/A"); err != nil {
				t.Fatalf("RecordSuperclass: %v", err)
			}
			if err := s.RecordMethod("a/B", "m", "()V"); err != nil {
				t.Fatalf("RecordMethod: %v", err)
			}
		}
	}
	record(once, 1)
	record(twice, 2)

	if !reflect.DeepEqual(once.Edges(), twice.Edges()) {
		t.Errorf("Edges differ: %v vs %v", once.Edges(), twice.Edges())
	}
	if !reflect.DeepEqual(once.MethodKeys("a/B"), twice.MethodKeys("a/B")) {
		t.Errorf("MethodKeys differ: %v vs %v", once.MethodKeys("a/B"), twice.MethodKeys("a/B"))
	}
	if once.Stats() != twice.Stats() {
		t.Errorf("Stats differ: %+v vs %+v", once.Stats(), twice.Stats())
	}
}

func TestFreeze(t *testing.T) {
	s := New(nil)
	s.Freeze()

	if !s.Frozen() {
		t.Fatal("Frozen() = false after Freeze")
	}
	if err := s.RecordSuperclass("a/B", "a/A"); !errors.Is(err, ErrStoreFrozen) {
		t.Errorf("RecordSuperclass after Freeze error = %v, want ErrStoreFrozen", err)
	}
	if err := s.RecordMethod("a/B", "m", "()V"); !errors.Is(err, ErrStoreFrozen) {
		t.Errorf("RecordMethod after Freeze error = %v, want ErrStoreFrozen", err)
	}
}

func TestStatsAndClasses(t *testing.T) {
	s := newChainStore(t)
	if err := s.RecordMethod("a/Leaf", "m", "()V"); err != nil {
		t.Fatalf("RecordMethod: %v", err)
	}
	if err := s.RecordMethod("a/Lonely", "m", "()V"); err != nil {
		t.Fatalf("RecordMethod: %v", err)
	}

	want := []string{"a/Leaf", "a/Lonely", "a/Mid", "a/Root", "a/Sibling", "java/lang/Object"}
	if got := s.Classes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Classes() = %v, want %v", got, want)
	}

	stats := s.Stats()
	if stats.Classes != 6 || stats.Edges != 4 || stats.Methods != 2 {
		t.Errorf("Stats() = %+v, want {6 4 2}", stats)
	}
}

func TestMethodEntryInternalName(t *testing.T) {
	m := MethodEntry{Class: "a.b.C", Name: "get", Descriptor: "(I)Ljava/lang/String;"}
	id := m.InternalName()
	if id != "a/b/C.get(I)Ljava/lang/String;" {
		t.Fatalf("InternalName() = %q", id)
	}

	parsed, ok := ParseMethodInternalName(id)
	if !ok {
		t.Fatal("ParseMethodInternalName failed")
	}
	if parsed.Class != "a/b/C" || parsed.Name != "get" || parsed.Descriptor != "(I)Ljava/lang/String;" {
		t.Errorf("ParseMethodInternalName = %+v", parsed)
	}

	for _, bad := range []string{"a/b/C", "get(I)V", ".get(I)V", "a/b/C.(I)V"} {
		if _, ok := ParseMethodInternalName(bad); ok {
			t.Errorf("ParseMethodInternalName(%q) succeeded, want failure", bad)
		}
	}
}

func TestSplitMethodKey(t *testing.T) {
	tests := []struct {
		key, name, desc string
	}{
		{"draw(I)V", "draw", "(I)V"},
		{"<init>()V", "<init>", "()V"},
		{"bare", "bare", ""},
	}
	for _, tt := range tests {
		name, desc := SplitMethodKey(tt.key)
		if name != tt.name || desc != tt.desc {
			t.Errorf("SplitMethodKey(%q) = %q, %q; want %q, %q", tt.key, name, desc, tt.name, tt.desc)
		}
	}
}
