package lexer

import "fmt"

// TypeRegistry is the ordered set of declared type names the lexer uses to
// disambiguate bare identifiers: a registered name lexes as a TypeInstance
// (or TypeAsDeclarationParameter inside a declaration's argument list),
// anything else lexes as Content. Grounded on the teacher's linear-scan
// []string registry (original_source/src/lib.rs's `types: Vec<String>`),
// generalized with a side set for O(1) duplicate checks.
type TypeRegistry struct {
	names []string
	set   map[string]struct{}
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{set: make(map[string]struct{})}
}

// Has reports whether name has already been declared.
func (r *TypeRegistry) Has(name string) bool {
	_, ok := r.set[name]
	return ok
}

// Register declares name, returning an error if it is already present.
// Each TypeName appears in the registry at most once per compilation unit,
// including names pulled in through *use.
func (r *TypeRegistry) Register(name string) error {
	if r.Has(name) {
		return fmt.Errorf("type %q is already declared", name)
	}
	r.set[name] = struct{}{}
	r.names = append(r.names, name)
	return nil
}

// Names returns the declared names in registration order.
func (r *TypeRegistry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
