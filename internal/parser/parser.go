// Package parser wraps tree-sitter to parse Java source files.
//
// Parsers are not safe for concurrent use; create one per goroutine.
package parser

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language names a source language with a tree-sitter grammar.
type Language string

// Java is the only language jhier extracts classes from.
const Java Language = "java"

// LanguageFromExtension maps a file extension such as ".java" to its
// language, or "" when none applies.
func LanguageFromExtension(ext string) Language {
	if ext == ".java" {
		return Java
	}
	return ""
}

// Parser holds a tree-sitter parser bound to one language.
type Parser struct {
	ts   *sitter.Parser
	lang Language
}

// NewParser creates a parser for lang. The error wraps
// ErrUnsupportedLanguage if lang has no grammar.
func NewParser(lang Language) (*Parser, error) {
	if lang != Java {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	return &Parser{ts: newJavaParser(), lang: lang}, nil
}

// Language returns the language this parser is configured for.
func (p *Parser) Language() Language {
	return p.lang
}

// Close releases the tree-sitter parser. The Parser is unusable afterwards.
func (p *Parser) Close() {
	if p.ts != nil {
		p.ts.Close()
		p.ts = nil
	}
}

// Parse builds a syntax tree for source. Syntax errors do not fail the
// parse; they show up as error nodes (see ParseResult.FirstError).
func (p *Parser) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	tree, err := p.ts.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s source: %w", p.lang, err)
	}
	return &ParseResult{
		Tree:     tree,
		Root:     tree.RootNode(),
		Source:   source,
		Language: p.lang,
	}, nil
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	result, err := p.Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	result.FilePath = path
	return result, nil
}

// ParseResult is a parsed file. Close it to free the tree.
type ParseResult struct {
	Tree     *sitter.Tree
	Root     *sitter.Node
	Source   []byte
	FilePath string // empty for in-memory sources
	Language Language
}

// Close releases the parse tree.
func (r *ParseResult) Close() {
	if r.Tree != nil {
		r.Tree.Close()
		r.Tree, r.Root = nil, nil
	}
}

// NodeText returns the source text covered by node.
func (r *ParseResult) NodeText(node *sitter.Node) string {
	if node == nil || r.Source == nil {
		return ""
	}
	return node.Content(r.Source)
}

// WalkNodes visits the tree depth-first in source order. Returning false
// from visit skips that node's children.
func (r *ParseResult) WalkNodes(visit func(*sitter.Node) bool) {
	if r.Root == nil {
		return
	}
	stack := []*sitter.Node{r.Root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(node) {
			continue
		}
		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.Child(i))
		}
	}
}

// HasErrors reports whether the tree contains error or missing nodes.
func (r *ParseResult) HasErrors() bool {
	return r.Root != nil && r.Root.HasError()
}

// FirstError locates the first error or missing node in source order, or
// returns nil for a clean tree.
func (r *ParseResult) FirstError() *SyntaxError {
	if !r.HasErrors() {
		return nil
	}

	found := r.Root
	stop := false
	r.WalkNodes(func(node *sitter.Node) bool {
		if stop {
			return false
		}
		if node.IsError() || node.IsMissing() {
			found, stop = node, true
			return false
		}
		return node.HasError()
	})

	start := found.StartPoint()
	return &SyntaxError{
		File:   r.FilePath,
		Line:   start.Row + 1,
		Column: start.Column + 1,
		Near:   found.Type(),
	}
}
