package output

import (
	"github.com/hargabyte/jhier/internal/hierarchy"
	"github.com/hargabyte/jhier/internal/translate"
)

// Results builds result values from a hierarchy store, labelling every
// class through a translator. The CLI and the MCP server share it so both
// report identical structures.
type Results struct {
	Store      *hierarchy.Store
	Translator translate.Translator
}

// NewResults creates a result builder. A nil translator uses translate.Identity.
func NewResults(s *hierarchy.Store, t translate.Translator) *Results {
	if t == nil {
		t = translate.Identity{}
	}
	return &Results{Store: s, Translator: t}
}

func (r *Results) name(cls string) Name {
	return Name{Class: cls, Label: r.Translator.Translate(cls)}
}

func (r *Results) names(classes []string) []Name {
	result := make([]Name, 0, len(classes))
	for _, cls := range classes {
		result = append(result, r.name(cls))
	}
	return result
}

// Superclass reports the direct superclass of cls.
func (r *Results) Superclass(cls string) *ClassOutput {
	cls = hierarchy.NormalizeClassName(cls)
	out := &ClassOutput{Name: r.name(cls)}
	if sup, ok := r.Store.SuperclassOf(cls); ok {
		n := r.name(sup)
		out.Superclass = &n
	}
	return out
}

// Ancestry lists the superclasses of cls, nearest first.
func (r *Results) Ancestry(cls string) (*ListOutput, error) {
	cls = hierarchy.NormalizeClassName(cls)
	ancestors, err := r.Store.AncestryOf(cls)
	if err != nil {
		return nil, err
	}
	return &ListOutput{
		Query:   "ancestry",
		Of:      r.name(cls),
		Count:   len(ancestors),
		Results: r.names(ancestors),
	}, nil
}

// Subclasses lists the direct subclasses of cls, sorted by internal name.
func (r *Results) Subclasses(cls string) *ListOutput {
	cls = hierarchy.NormalizeClassName(cls)
	subclasses := r.Store.SubclassesOf(cls)
	return &ListOutput{
		Query:   "subclasses",
		Of:      r.name(cls),
		Count:   len(subclasses),
		Results: r.names(subclasses),
	}
}

// Implements reports whether cls itself declares the method.
func (r *Results) Implements(m hierarchy.MethodEntry) *MethodOutput {
	m.Class = hierarchy.NormalizeClassName(m.Class)
	return &MethodOutput{
		Query:       "implements",
		Class:       r.name(m.Class),
		Method:      m.Name,
		Descriptor:  m.Descriptor,
		Label:       r.Translator.Translate(m.InternalName()),
		Implemented: r.Store.IsImplemented(m.Class, m.Name, m.Descriptor),
	}
}

// Resolve reports the canonical declaring class of the method.
func (r *Results) Resolve(m hierarchy.MethodEntry) (*MethodOutput, error) {
	out := r.Implements(m)
	out.Query = "resolve"

	declaring, err := r.Store.ResolveDeclaration(out.Class.Class, m.Name, m.Descriptor)
	if err != nil {
		return nil, err
	}
	n := r.name(declaring)
	out.DeclaredIn = &n
	return out, nil
}
