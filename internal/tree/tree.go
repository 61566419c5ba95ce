// Package tree builds class-inheritance and method-override trees from a
// hierarchy store, labelling every node through a name translator.
//
// Trees are built with an explicit work stack rather than recursion, every
// class appears at most once, and expansion stops at a configurable depth.
package tree

import (
	"fmt"

	"github.com/hargabyte/jhier/internal/hierarchy"
	"github.com/hargabyte/jhier/internal/translate"
)

// Expansion selects how far below the root a tree is expanded.
type Expansion string

const (
	// ExpandFull expands every known descendant, bounded by MaxDepth.
	ExpandFull Expansion = "full"
	// ExpandShallow expands the root's direct children only. Children that
	// have subclasses of their own are marked Truncated.
	ExpandShallow Expansion = "shallow"
)

// ParseExpansion parses "full" or "shallow".
func ParseExpansion(s string) (Expansion, error) {
	switch Expansion(s) {
	case ExpandFull, ExpandShallow:
		return Expansion(s), nil
	default:
		return "", fmt.Errorf("invalid expansion: %q (expected full or shallow)", s)
	}
}

// DefaultMaxDepth bounds full expansion when no limit is configured.
const DefaultMaxDepth = 512

// ClassNode is one class in a class-inheritance tree.
type ClassNode struct {
	Label     string       `json:"label" yaml:"label"`
	Class     string       `json:"class" yaml:"class"`
	Truncated bool         `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Children  []*ClassNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// MethodNode is one class in a method-override tree. Implemented reports
// whether that class itself declares the method; non-implementing classes
// appear so the chain stays connected.
type MethodNode struct {
	Label       string                `json:"label" yaml:"label"`
	ClassLabel  string                `json:"class_label" yaml:"class_label"`
	Method      hierarchy.MethodEntry `json:"method" yaml:"method"`
	Implemented bool                  `json:"implemented" yaml:"implemented"`
	Truncated   bool                  `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Children    []*MethodNode         `json:"children,omitempty" yaml:"children,omitempty"`
}

// Builder builds trees over a store.
type Builder struct {
	store      *hierarchy.Store
	translator translate.Translator
	maxDepth   int
}

// NewBuilder creates a builder. A nil translator uses translate.Identity and
// a non-positive maxDepth uses DefaultMaxDepth.
func NewBuilder(s *hierarchy.Store, t translate.Translator, maxDepth int) *Builder {
	if t == nil {
		t = translate.Identity{}
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Builder{store: s, translator: t, maxDepth: maxDepth}
}

// ClassTree builds the inheritance tree containing cls. The root is the
// topmost recorded ancestor of cls, or cls itself when it has none.
func (b *Builder) ClassTree(cls string, mode Expansion) (*ClassNode, error) {
	cls = hierarchy.NormalizeClassName(cls)

	ancestors, err := b.store.AncestryOf(cls)
	if err != nil {
		return nil, err
	}
	rootClass := cls
	if len(ancestors) > 0 {
		rootClass = ancestors[len(ancestors)-1]
	}

	root := b.newClassNode(rootClass)
	expand(b, rootClass, mode, root, func(parent *ClassNode, child string) *ClassNode {
		node := b.newClassNode(child)
		parent.Children = append(parent.Children, node)
		return node
	}, func(n *ClassNode) {
		n.Truncated = true
	})
	return root, nil
}

// MethodTree builds the override tree for m. The root is the canonical
// declaring class returned by ResolveDeclaration; every descendant records
// whether it declares the method itself.
func (b *Builder) MethodTree(m hierarchy.MethodEntry, mode Expansion) (*MethodNode, error) {
	m.Class = hierarchy.NormalizeClassName(m.Class)

	base, err := b.store.ResolveEntry(m)
	if err != nil {
		return nil, err
	}

	root := b.newMethodNode(base)
	expand(b, base.Class, mode, root, func(parent *MethodNode, child string) *MethodNode {
		node := b.newMethodNode(m.WithClass(child))
		parent.Children = append(parent.Children, node)
		return node
	}, func(n *MethodNode) {
		n.Truncated = true
	})
	return root, nil
}

func (b *Builder) newClassNode(cls string) *ClassNode {
	return &ClassNode{
		Label: b.translator.Translate(cls),
		Class: cls,
	}
}

func (b *Builder) newMethodNode(m hierarchy.MethodEntry) *MethodNode {
	return &MethodNode{
		Label:       b.translator.Translate(m.InternalName()),
		ClassLabel:  b.translator.Translate(m.Class),
		Method:      m,
		Implemented: b.store.IsImplemented(m.Class, m.Name, m.Descriptor),
	}
}

// frame is a pending expansion on the work stack.
type frame[N any] struct {
	class string
	node  N
	depth int
}

// expand walks subclasses below rootClass depth first, calling addChild to
// attach each new node to its parent and truncate on nodes whose subclasses
// are not expanded. Children keep SubclassesOf order.
func expand[N any](b *Builder, rootClass string, mode Expansion, root N, addChild func(parent N, child string) N, truncate func(node N)) {
	limit := b.maxDepth
	if mode == ExpandShallow {
		limit = 1
	}

	visited := map[string]struct{}{rootClass: {}}
	stack := []frame[N]{{class: rootClass, node: root}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current.depth >= limit {
			if b.store.HasSubclasses(current.class) {
				truncate(current.node)
			}
			continue
		}
		subclasses := b.store.SubclassesOf(current.class)

		pending := make([]frame[N], 0, len(subclasses))
		for _, sub := range subclasses {
			if _, seen := visited[sub]; seen {
				continue
			}
			visited[sub] = struct{}{}
			child := addChild(current.node, sub)
			pending = append(pending, frame[N]{class: sub, node: child, depth: current.depth + 1})
		}

		// Push in reverse so the first subclass is expanded first.
		for i := len(pending) - 1; i >= 0; i-- {
			stack = append(stack, pending[i])
		}
	}
}

// Walk visits every node of a class tree depth first.
func (n *ClassNode) Walk(visit func(node *ClassNode, depth int)) {
	walkClass(n, 0, visit)
}

func walkClass(n *ClassNode, depth int, visit func(*ClassNode, int)) {
	if n == nil {
		return
	}
	visit(n, depth)
	for _, child := range n.Children {
		walkClass(child, depth+1, visit)
	}
}

// Walk visits every node of a method tree depth first.
func (n *MethodNode) Walk(visit func(node *MethodNode, depth int)) {
	walkMethod(n, 0, visit)
}

func walkMethod(n *MethodNode, depth int, visit func(*MethodNode, int)) {
	if n == nil {
		return
	}
	visit(n, depth)
	for _, child := range n.Children {
		walkMethod(child, depth+1, visit)
	}
}

// Count returns the number of nodes in the tree.
func (n *ClassNode) Count() int {
	count := 0
	n.Walk(func(*ClassNode, int) { count++ })
	return count
}

// Count returns the number of nodes in the tree.
func (n *MethodNode) Count() int {
	count := 0
	n.Walk(func(*MethodNode, int) { count++ })
	return count
}
