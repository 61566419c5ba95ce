package hierarchy

// ResolveDeclaration returns the class treated as the canonical declaration
// of name+descriptor for cls.
//
// The result starts as cls. The ancestry is then walked nearest first and
// every ancestor that declares the method replaces the result, so the
// topmost implementing ancestor wins even when intermediate classes do not
// declare it. Unrelated methods that share the signature further up the
// chain are therefore tied to the same declaration; renaming relies on that.
func (s *Store) ResolveDeclaration(cls, name, descriptor string) (string, error) {
	cls = NormalizeClassName(cls)

	ancestors, err := s.AncestryOf(cls)
	if err != nil {
		return "", err
	}

	declaring := cls
	for _, ancestor := range ancestors {
		if s.IsImplemented(ancestor, name, descriptor) {
			declaring = ancestor
		}
	}
	return declaring, nil
}

// ResolveEntry is ResolveDeclaration for a MethodEntry. The returned entry
// is owned by the declaring class.
func (s *Store) ResolveEntry(m MethodEntry) (MethodEntry, error) {
	declaring, err := s.ResolveDeclaration(m.Class, m.Name, m.Descriptor)
	if err != nil {
		return MethodEntry{}, err
	}
	return m.WithClass(declaring), nil
}
