package hierarchy

import "strings"

// NormalizeClassName converts a class name to JVM internal form.
// "com.example.Foo" becomes "com/example/Foo"; names already in internal
// form are returned unchanged.
func NormalizeClassName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), ".", "/")
}

// MethodKey builds the key that identifies a method within one class:
// the method name immediately followed by its type descriptor.
func MethodKey(name, descriptor string) string {
	return name + descriptor
}

// SplitMethodKey splits a method key at the start of its descriptor.
// A key without a descriptor is returned whole as the name.
func SplitMethodKey(key string) (name, descriptor string) {
	paren := strings.IndexByte(key, '(')
	if paren < 0 {
		return key, ""
	}
	return key[:paren], key[paren:]
}

// MethodEntry identifies a method declared on (or looked up through) a class.
type MethodEntry struct {
	Class      string `json:"class" yaml:"class"`
	Name       string `json:"name" yaml:"name"`
	Descriptor string `json:"descriptor" yaml:"descriptor"`
}

// Key returns the method key of the entry.
func (m MethodEntry) Key() string {
	return MethodKey(m.Name, m.Descriptor)
}

// InternalName renders the entry as "owner.name(desc)ret", the identifier
// handed to name translators for method nodes.
func (m MethodEntry) InternalName() string {
	return NormalizeClassName(m.Class) + "." + m.Name + m.Descriptor
}

// WithClass returns a copy of the entry owned by another class.
func (m MethodEntry) WithClass(cls string) MethodEntry {
	m.Class = cls
	return m
}

// ParseMethodInternalName splits an identifier produced by InternalName.
// It reports false when the input carries no owner or no descriptor.
func ParseMethodInternalName(id string) (MethodEntry, bool) {
	paren := strings.IndexByte(id, '(')
	if paren < 0 {
		return MethodEntry{}, false
	}
	dot := strings.LastIndexByte(id[:paren], '.')
	if dot <= 0 || dot == paren-1 {
		return MethodEntry{}, false
	}
	return MethodEntry{
		Class:      id[:dot],
		Name:       id[dot+1 : paren],
		Descriptor: id[paren:],
	}, true
}

// PlatformFunc reports whether a class belongs to the platform's standard
// library. Superclass edges between two platform classes are not recorded.
type PlatformFunc func(className string) bool

// DefaultPlatformPrefixes are the JRE package prefixes.
var DefaultPlatformPrefixes = []string{"java/", "javax/"}

// PrefixPlatform returns a PlatformFunc matching internal names that start
// with any of the given prefixes. Prefixes are normalized to internal form.
func PrefixPlatform(prefixes ...string) PlatformFunc {
	normalized := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p = NormalizeClassName(p); p != "" {
			normalized = append(normalized, p)
		}
	}
	return func(className string) bool {
		for _, p := range normalized {
			if strings.HasPrefix(className, p) {
				return true
			}
		}
		return false
	}
}
