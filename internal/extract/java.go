package extract

import (
	"strings"
	"unicode"

	"github.com/hargabyte/jhier/internal/hierarchy"
	"github.com/hargabyte/jhier/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

const (
	objectClass = "java/lang/Object"
	enumClass   = "java/lang/Enum"
	recordClass = "java/lang/Record"

	objectDescriptor = "L" + objectClass + ";"
)

// primitiveDescriptors maps Java primitive keywords to descriptor characters.
var primitiveDescriptors = map[string]string{
	"boolean": "Z",
	"byte":    "B",
	"char":    "C",
	"short":   "S",
	"int":     "I",
	"long":    "J",
	"float":   "F",
	"double":  "D",
	"void":    "V",
}

// javaLangTypes are the java.lang types visible without an import.
var javaLangTypes = map[string]bool{
	"Appendable":                      true,
	"ArithmeticException":             true,
	"ArrayIndexOutOfBoundsException":  true,
	"AssertionError":                  true,
	"AutoCloseable":                   true,
	"Boolean":                         true,
	"Byte":                            true,
	"CharSequence":                    true,
	"Character":                       true,
	"Class":                           true,
	"ClassCastException":              true,
	"ClassLoader":                     true,
	"ClassNotFoundException":          true,
	"CloneNotSupportedException":      true,
	"Cloneable":                       true,
	"Comparable":                      true,
	"Deprecated":                      true,
	"Double":                          true,
	"Enum":                            true,
	"Error":                           true,
	"Exception":                       true,
	"ExceptionInInitializerError":     true,
	"Float":                           true,
	"FunctionalInterface":             true,
	"IllegalAccessException":          true,
	"IllegalArgumentException":        true,
	"IllegalMonitorStateException":    true,
	"IllegalStateException":           true,
	"IndexOutOfBoundsException":       true,
	"InheritableThreadLocal":          true,
	"InstantiationException":          true,
	"Integer":                         true,
	"InterruptedException":            true,
	"Iterable":                        true,
	"LinkageError":                    true,
	"Long":                            true,
	"Math":                            true,
	"NegativeArraySizeException":      true,
	"NoSuchFieldException":            true,
	"NoSuchMethodException":           true,
	"NullPointerException":            true,
	"Number":                          true,
	"NumberFormatException":           true,
	"Object":                          true,
	"OutOfMemoryError":                true,
	"Override":                        true,
	"Process":                         true,
	"Readable":                        true,
	"Record":                          true,
	"ReflectiveOperationException":    true,
	"Runnable":                        true,
	"Runtime":                         true,
	"RuntimeException":                true,
	"SafeVarargs":                     true,
	"SecurityException":               true,
	"Short":                           true,
	"StackOverflowError":              true,
	"StrictMath":                      true,
	"String":                          true,
	"StringBuffer":                    true,
	"StringBuilder":                   true,
	"StringIndexOutOfBoundsException": true,
	"SuppressWarnings":                true,
	"System":                          true,
	"Thread":                          true,
	"ThreadLocal":                     true,
	"Throwable":                       true,
	"UnsupportedOperationException":   true,
	"VirtualMachineError":             true,
	"Void":                            true,
}

// typeScope maps in-scope type variable names to their erased descriptor.
type typeScope map[string]string

// JavaExtractor derives class facts from a parsed Java compilation unit.
type JavaExtractor struct {
	result   *parser.ParseResult
	source   string
	pkg      string
	imports  map[string]string
	declared map[string]string
	facts    []hierarchy.ClassFact
}

// NewJavaExtractor creates an extractor for the given Java parse result.
// source labels every produced fact, usually the file path relative to the
// scan root.
func NewJavaExtractor(result *parser.ParseResult, source string) *JavaExtractor {
	return &JavaExtractor{
		result: result,
		source: source,
	}
}

// ExtractClassFacts returns one fact per type declared in the compilation
// unit, including nested member types. Local and anonymous classes are not
// reported.
func (e *JavaExtractor) ExtractClassFacts() []hierarchy.ClassFact {
	root := e.result.Root
	if root == nil {
		return nil
	}

	e.pkg = e.extractPackage(root)
	e.imports = e.extractImports(root)
	e.declared = make(map[string]string)
	e.facts = nil

	tops := e.topLevelTypes(root)
	for _, node := range tops {
		e.collectDeclared(node, "")
	}
	for _, node := range tops {
		e.visitType(node, "", "", typeScope{})
	}
	return e.facts
}

func (e *JavaExtractor) topLevelTypes(root *sitter.Node) []*sitter.Node {
	var nodes []*sitter.Node
	for _, child := range namedKids(root) {
		if parser.IsJavaTypeDeclaration(child) {
			nodes = append(nodes, child)
		}
	}
	return nodes
}

// extractPackage returns the file's package in internal form, or "".
func (e *JavaExtractor) extractPackage(root *sitter.Node) string {
	decl := childOfType(root, "package_declaration")
	if decl == nil {
		return ""
	}
	for _, child := range namedKids(decl) {
		switch child.Type() {
		case "scoped_identifier", "identifier":
			return strings.ReplaceAll(e.nodeText(child), ".", "/")
		}
	}
	return ""
}

// extractImports maps the simple name of every single-type import to its
// internal name. Static and on-demand imports cannot name a type and are
// ignored.
func (e *JavaExtractor) extractImports(root *sitter.Node) map[string]string {
	imports := make(map[string]string)
	for _, decl := range childrenOfType(root, "import_declaration") {
		var (
			path     string
			static   bool
			wildcard bool
		)
		for i := uint32(0); i < decl.ChildCount(); i++ {
			child := decl.Child(int(i))
			switch child.Type() {
			case "static":
				static = true
			case "asterisk":
				wildcard = true
			case "scoped_identifier", "identifier":
				path = e.nodeText(child)
			}
		}
		if static || wildcard || path == "" {
			continue
		}
		parts := splitQualified(path)
		if len(parts) == 0 {
			continue
		}
		imports[parts[len(parts)-1]] = qualifiedToInternal(parts)
	}
	return imports
}

// collectDeclared registers the binary name of node and every member type
// below it, so references inside the file resolve before imports do.
func (e *JavaExtractor) collectDeclared(node *sitter.Node, outer string) {
	name := e.nodeText(field(node, "name"))
	if name == "" {
		return
	}
	binary := e.binaryName(name, outer)
	if _, ok := e.declared[name]; !ok {
		e.declared[name] = binary
	}
	for _, member := range typeMembers(node) {
		if parser.IsJavaTypeDeclaration(member) {
			e.collectDeclared(member, binary)
		}
	}
}

func (e *JavaExtractor) binaryName(name, outer string) string {
	switch {
	case outer != "":
		return outer + "$" + name
	case e.pkg != "":
		return e.pkg + "/" + name
	default:
		return name
	}
}

// visitType records the fact for node and descends into its member types.
func (e *JavaExtractor) visitType(node *sitter.Node, outer, outerKind string, scope typeScope) {
	name := e.nodeText(field(node, "name"))
	if name == "" {
		return
	}
	kind := parser.JavaTypeDeclarations[node.Type()]
	binary := e.binaryName(name, outer)
	scope = e.withTypeParameters(node, scope)

	fact := hierarchy.ClassFact{
		Name:       binary,
		Superclass: e.superclassOf(node, kind, scope),
		Source:     e.source,
	}
	if binary == objectClass {
		fact.Superclass = ""
	}

	methods := newMethodSet()

	// Synthetic leading constructor parameters javac adds.
	ctorPrefix := ""
	switch {
	case kind == "enum":
		ctorPrefix = "Ljava/lang/String;I"
	case kind == "class" && outer != "" && isInnerMember(outerKind) && !hasModifier(node, "static"):
		ctorPrefix = "L" + outer + ";"
	}

	hasConstructor := false
	for _, member := range typeMembers(node) {
		switch member.Type() {
		case "method_declaration":
			methodScope := e.withTypeParameters(member, scope)
			desc := e.parameterDescriptors(field(member, "parameters"), methodScope)
			ret := e.typeDescriptor(field(member, "type"), methodScope)
			ret = arrayPrefix(field(member, "dimensions")) + ret
			methods.add(e.nodeText(field(member, "name")), "("+desc+")"+ret)

		case "constructor_declaration":
			hasConstructor = true
			methodScope := e.withTypeParameters(member, scope)
			desc := e.parameterDescriptors(field(member, "parameters"), methodScope)
			methods.add("<init>", "("+ctorPrefix+desc+")V")

		case "annotation_type_element_declaration":
			ret := e.typeDescriptor(field(member, "type"), scope)
			methods.add(e.nodeText(field(member, "name")), "()"+ret)
		}
	}

	switch kind {
	case "class":
		if !hasConstructor {
			methods.add("<init>", "("+ctorPrefix+")V")
		}
	case "enum":
		if !hasConstructor {
			methods.add("<init>", "("+ctorPrefix+")V")
		}
		self := "L" + binary + ";"
		methods.add("values", "()["+self)
		methods.add("valueOf", "(Ljava/lang/String;)"+self)
	case "record":
		e.addRecordMembers(node, scope, methods)
	}

	fact.Methods = methods.list
	e.facts = append(e.facts, fact)

	for _, member := range typeMembers(node) {
		if parser.IsJavaTypeDeclaration(member) {
			e.visitType(member, binary, kind, scope)
		}
	}
}

// addRecordMembers adds the canonical constructor and component accessors
// of a record.
func (e *JavaExtractor) addRecordMembers(node *sitter.Node, scope typeScope, methods *methodSet) {
	params := field(node, "parameters")
	methods.add("<init>", "("+e.parameterDescriptors(params, scope)+")V")
	for _, param := range childrenOfType(params, "formal_parameter") {
		name := e.nodeText(field(param, "name"))
		if name == "" {
			continue
		}
		methods.add(name, "()"+e.parameterDescriptor(param, scope))
	}
}

// superclassOf returns the direct superclass recorded for a declaration.
func (e *JavaExtractor) superclassOf(node *sitter.Node, kind string, scope typeScope) string {
	switch kind {
	case "enum":
		return enumClass
	case "record":
		return recordClass
	case "class":
		superNode := field(node, "superclass")
		if superNode == nil {
			return objectClass
		}
		for _, child := range namedKids(superNode) {
			if !isTypeNode(child.Type()) {
				continue
			}
			desc := e.typeDescriptor(child, scope)
			if strings.HasPrefix(desc, "L") && strings.HasSuffix(desc, ";") {
				return desc[1 : len(desc)-1]
			}
		}
		return objectClass
	default:
		return objectClass
	}
}

// withTypeParameters returns scope extended with the type parameters
// declared on node, each erased to its leftmost bound.
func (e *JavaExtractor) withTypeParameters(node *sitter.Node, scope typeScope) typeScope {
	params := field(node, "type_parameters")
	if params == nil {
		params = childOfType(node, "type_parameters")
	}
	if params == nil {
		return scope
	}

	extended := make(typeScope, len(scope)+int(params.NamedChildCount()))
	for name, desc := range scope {
		extended[name] = desc
	}
	for _, param := range childrenOfType(params, "type_parameter") {
		var name string
		erased := objectDescriptor
		for _, child := range namedKids(param) {
			switch child.Type() {
			case "type_identifier", "identifier":
				if name == "" {
					name = e.nodeText(child)
				}
			case "type_bound":
				for _, bound := range namedKids(child) {
					if isTypeNode(bound.Type()) {
						erased = e.typeDescriptor(bound, extended)
						break
					}
				}
			}
		}
		if name != "" {
			extended[name] = erased
		}
	}
	return extended
}

// parameterDescriptors concatenates the descriptors of a formal_parameters
// node. Receiver parameters are not part of the descriptor.
func (e *JavaExtractor) parameterDescriptors(params *sitter.Node, scope typeScope) string {
	var sb strings.Builder
	for _, param := range namedKids(params) {
		switch param.Type() {
		case "formal_parameter":
			sb.WriteString(e.parameterDescriptor(param, scope))
		case "spread_parameter":
			for _, child := range namedKids(param) {
				if isTypeNode(child.Type()) {
					sb.WriteString("[" + e.typeDescriptor(child, scope))
					break
				}
			}
		}
	}
	return sb.String()
}

func (e *JavaExtractor) parameterDescriptor(param *sitter.Node, scope typeScope) string {
	desc := e.typeDescriptor(field(param, "type"), scope)
	return arrayPrefix(field(param, "dimensions")) + desc
}

// typeDescriptor returns the erased JVM descriptor of a type node.
func (e *JavaExtractor) typeDescriptor(node *sitter.Node, scope typeScope) string {
	if node == nil {
		return objectDescriptor
	}

	switch node.Type() {
	case "integral_type", "floating_point_type", "boolean_type", "void_type":
		if desc, ok := primitiveDescriptors[strings.TrimSpace(e.nodeText(node))]; ok {
			return desc
		}
		return objectDescriptor

	case "type_identifier", "scoped_type_identifier", "generic_type":
		parts := e.typeNameParts(node)
		if len(parts) == 0 {
			return objectDescriptor
		}
		if len(parts) == 1 {
			if desc, ok := scope[parts[0]]; ok {
				return desc
			}
		}
		return "L" + e.resolve(parts) + ";"

	case "array_type":
		elem := e.typeDescriptor(field(node, "element"), scope)
		return arrayPrefix(field(node, "dimensions")) + elem

	case "annotated_type":
		children := namedKids(node)
		for i := len(children) - 1; i >= 0; i-- {
			if isTypeNode(children[i].Type()) {
				return e.typeDescriptor(children[i], scope)
			}
		}
	}
	return objectDescriptor
}

// typeNameParts flattens a possibly scoped, possibly parameterized type
// reference into its dotted name segments, dropping type arguments and
// annotations.
func (e *JavaExtractor) typeNameParts(node *sitter.Node) []string {
	switch node.Type() {
	case "type_identifier", "identifier":
		return []string{e.nodeText(node)}
	case "scoped_type_identifier", "generic_type":
		var parts []string
		for _, child := range namedKids(node) {
			switch child.Type() {
			case "type_identifier", "identifier", "scoped_type_identifier", "generic_type":
				parts = append(parts, e.typeNameParts(child)...)
			}
		}
		return parts
	}
	return nil
}

// resolve turns a source-level type name into an internal name. Types
// declared in this file win, then single-type imports, then java.lang, then
// the file's own package. Lower-case leading segments are read as a fully
// qualified package prefix.
func (e *JavaExtractor) resolve(parts []string) string {
	head, rest := parts[0], parts[1:]
	nested := func(base string) string {
		if len(rest) == 0 {
			return base
		}
		return base + "$" + strings.Join(rest, "$")
	}

	if binary, ok := e.declared[head]; ok {
		return nested(binary)
	}
	if internal, ok := e.imports[head]; ok {
		return nested(internal)
	}
	if javaLangTypes[head] {
		return nested("java/lang/" + head)
	}
	if len(rest) > 0 && startsLower(head) {
		return qualifiedToInternal(parts)
	}
	if e.pkg != "" {
		return nested(e.pkg + "/" + head)
	}
	return nested(head)
}

func (e *JavaExtractor) nodeText(node *sitter.Node) string {
	return e.result.NodeText(node)
}

// typeMembers returns the member declarations of a type declaration body.
func typeMembers(node *sitter.Node) []*sitter.Node {
	body := field(node, "body")
	if body == nil {
		return nil
	}
	if body.Type() == "enum_body" {
		return namedKids(childOfType(body, "enum_body_declarations"))
	}
	return namedKids(body)
}

// isInnerMember reports whether a class nested directly in a type of
// outerKind is an inner class when not declared static. Members of
// interfaces and annotations are implicitly static.
func isInnerMember(outerKind string) bool {
	switch outerKind {
	case "class", "enum", "record":
		return true
	default:
		return false
	}
}

func hasModifier(node *sitter.Node, modifier string) bool {
	mods := childOfType(node, "modifiers")
	if mods == nil {
		return false
	}
	return childOfType(mods, modifier) != nil
}

func isTypeNode(nodeType string) bool {
	switch nodeType {
	case "integral_type", "floating_point_type", "boolean_type", "void_type",
		"type_identifier", "scoped_type_identifier", "generic_type",
		"array_type", "annotated_type":
		return true
	default:
		return false
	}
}

// arrayPrefix returns one '[' per dimension in a dimensions node.
func arrayPrefix(dims *sitter.Node) string {
	if dims == nil {
		return ""
	}
	count := 0
	for i := uint32(0); i < dims.ChildCount(); i++ {
		if dims.Child(int(i)).Type() == "[" {
			count++
		}
	}
	return strings.Repeat("[", count)
}

func splitQualified(name string) []string {
	fields := strings.Split(name, ".")
	parts := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return parts
}

// qualifiedToInternal converts dotted name segments to an internal name.
// Segments up to the first capitalized one form the package; the rest are
// the outer class and its member classes.
func qualifiedToInternal(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	classStart := len(parts) - 1
	for i, p := range parts {
		if !startsLower(p) {
			classStart = i
			break
		}
	}
	className := strings.Join(parts[classStart:], "$")
	if classStart == 0 {
		return className
	}
	return strings.Join(parts[:classStart], "/") + "/" + className
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}

// methodSet keeps declared methods in declaration order without duplicates.
type methodSet struct {
	seen map[string]struct{}
	list []hierarchy.MethodSig
}

func newMethodSet() *methodSet {
	return &methodSet{seen: make(map[string]struct{})}
}

func (m *methodSet) add(name, descriptor string) {
	if name == "" {
		return
	}
	key := hierarchy.MethodKey(name, descriptor)
	if _, ok := m.seen[key]; ok {
		return
	}
	m.seen[key] = struct{}{}
	m.list = append(m.list, hierarchy.MethodSig{Name: name, Descriptor: descriptor})
}
