// Package translate maps internal JVM class and method identifiers to the
// names shown to a human operator.
package translate

import (
	"fmt"
	"os"
	"strings"

	"github.com/hargabyte/jhier/internal/hierarchy"
	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"
)

// Translator maps an internal identifier to a display identifier.
// Class identifiers are internal class names ("a/b/C"); method identifiers
// are hierarchy.MethodEntry.InternalName values ("a/b/C.m(I)V").
// Untranslatable names are returned unchanged.
type Translator interface {
	Translate(internalName string) string
}

// Identity returns every name unchanged.
type Identity struct{}

// Translate implements Translator.
func (Identity) Translate(internalName string) string {
	return internalName
}

// Func adapts a plain function to the Translator interface.
type Func func(string) string

// Translate implements Translator.
func (f Func) Translate(internalName string) string {
	return f(internalName)
}

// MappingFile is the on-disk form of a Mapping.
//
//	classes:
//	  a: com/example/Widget
//	methods:
//	  a.b(I)V: resize
type MappingFile struct {
	Classes map[string]string `yaml:"classes"`
	Methods map[string]string `yaml:"methods"`
}

// Mapping translates obfuscated names through explicit class and method
// tables. Method ids translate the owner, the method name, and every class
// referenced by the descriptor.
type Mapping struct {
	classes map[string]string
	methods map[string]string
}

// NewMapping builds a Mapping from tables keyed by internal names.
// Keys and class values are normalized to internal form.
func NewMapping(classes, methods map[string]string) *Mapping {
	m := &Mapping{
		classes: make(map[string]string, len(classes)),
		methods: make(map[string]string, len(methods)),
	}
	for obf, deobf := range classes {
		m.classes[hierarchy.NormalizeClassName(obf)] = hierarchy.NormalizeClassName(deobf)
	}
	for id, name := range methods {
		if entry, ok := hierarchy.ParseMethodInternalName(id); ok {
			id = entry.InternalName()
		}
		m.methods[id] = name
	}
	return m
}

// LoadMapping reads a YAML mapping file.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping file: %w", err)
	}

	var file MappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing mapping file %s: %w", path, err)
	}
	return NewMapping(file.Classes, file.Methods), nil
}

// Translate implements Translator.
func (m *Mapping) Translate(internalName string) string {
	if entry, ok := hierarchy.ParseMethodInternalName(internalName); ok {
		return m.translateMethod(entry)
	}
	return m.translateClass(internalName)
}

func (m *Mapping) translateClass(name string) string {
	if deobf, ok := m.classes[name]; ok {
		return deobf
	}

	// Inner classes whose outer class is mapped keep their own suffix.
	if i := strings.LastIndexByte(name, '$'); i > 0 {
		return m.translateClass(name[:i]) + name[i:]
	}
	return name
}

func (m *Mapping) translateMethod(entry hierarchy.MethodEntry) string {
	name := entry.Name
	if mapped, ok := m.methods[entry.InternalName()]; ok {
		name = mapped
	}
	return m.translateClass(entry.Class) + "." + name + m.translateDescriptor(entry.Descriptor)
}

// translateDescriptor rewrites every Lclass; reference in a descriptor.
func (m *Mapping) translateDescriptor(desc string) string {
	var b strings.Builder
	b.Grow(len(desc))
	for i := 0; i < len(desc); i++ {
		c := desc[i]
		b.WriteByte(c)
		if c != 'L' {
			continue
		}
		end := strings.IndexByte(desc[i:], ';')
		if end < 0 {
			b.WriteString(desc[i+1:])
			break
		}
		b.WriteString(m.translateClass(desc[i+1 : i+end]))
		b.WriteByte(';')
		i += end
	}
	return b.String()
}

// Cached memoizes another translator in a fixed-size LRU cache. Tree builds
// translate the same classes repeatedly; the cache keeps that cheap.
type Cached struct {
	next  Translator
	cache *lru.Cache[string, string]
}

// NewCached wraps next with an LRU cache holding up to size entries.
func NewCached(next Translator, size int) (*Cached, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("create translation cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

// Translate implements Translator.
func (c *Cached) Translate(internalName string) string {
	if display, ok := c.cache.Get(internalName); ok {
		return display
	}
	display := c.next.Translate(internalName)
	c.cache.Add(internalName, display)
	return display
}

// Len returns the number of cached translations.
func (c *Cached) Len() int {
	return c.cache.Len()
}
