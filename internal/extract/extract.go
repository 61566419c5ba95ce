// Package extract produces class facts for the hierarchy store.
//
// SourceExtractor parses a tree of Java sources with tree-sitter and
// derives, for each class, interface, enum, record and annotation type, its
// JVM binary name, direct superclass and declared method descriptors.
// FactsFile reads facts that other tooling has already written as YAML.
package extract

import (
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"
)

// field returns the child stored under a grammar field, or nil.
func field(node *sitter.Node, name string) *sitter.Node {
	if node == nil {
		return nil
	}
	return node.ChildByFieldName(name)
}

// childrenOfType lists direct children of the given node type.
func childrenOfType(node *sitter.Node, nodeType string) []*sitter.Node {
	var out []*sitter.Node
	if node == nil {
		return out
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == nodeType {
			out = append(out, c)
		}
	}
	return out
}

func childOfType(node *sitter.Node, nodeType string) *sitter.Node {
	if kids := childrenOfType(node, nodeType); len(kids) > 0 {
		return kids[0]
	}
	return nil
}

// namedKids skips punctuation and keywords.
func namedKids(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	n := int(node.NamedChildCount())
	out := make([]*sitter.Node, n)
	for i := range out {
		out[i] = node.NamedChild(i)
	}
	return out
}

// slashRel is path relative to root with forward slashes, or path itself
// when no relative form exists.
func slashRel(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		path = rel
	}
	return filepath.ToSlash(path)
}
