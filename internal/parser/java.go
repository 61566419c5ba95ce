package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

func newJavaParser() *sitter.Parser {
	ts := sitter.NewParser()
	ts.SetLanguage(java.GetLanguage())
	return ts
}

// JavaTypeDeclarations maps tree-sitter node types that declare a JVM class
// to the kind of class they produce.
var JavaTypeDeclarations = map[string]string{
	"class_declaration":           "class",
	"interface_declaration":       "interface",
	"enum_declaration":            "enum",
	"record_declaration":          "record",
	"annotation_type_declaration": "annotation",
}

// IsJavaTypeDeclaration reports whether node declares a class, interface,
// enum, record or annotation type.
func IsJavaTypeDeclaration(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	_, ok := JavaTypeDeclarations[node.Type()]
	return ok
}
