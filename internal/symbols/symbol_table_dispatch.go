package symbols

// MethodsNamed returns the instance methods called name, grouped by declaring
// type: index 0 holds the methods declared on typeName itself, then one group
// per base class, nearest first. Empty groups are omitted.
func (s *SymbolTable) MethodsNamed(typeName, name string) [][]*Method {
	var groups [][]*Method
	for _, owner := range append([]string{typeName}, s.BaseChain(typeName)...) {
		var group []*Method
		for _, m := range s.methodsOf(owner) {
			if m.Name == name && !m.IsStatic {
				group = append(group, m)
			}
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

func (s *SymbolTable) methodsOf(owner string) []*Method {
	var out []*Method
	if s.outer != nil {
		out = append(out, s.outer.methodsOf(owner)...)
	}
	return append(out, s.methods[owner]...)
}

// StaticMethodsNamed returns the static methods of a type called name.
func (s *SymbolTable) StaticMethodsNamed(typeName, name string) []*Method {
	var out []*Method
	for _, m := range s.methodsOf(typeName) {
		if m.Name == name && m.IsStatic && !m.IsExtension {
			out = append(out, m)
		}
	}
	return out
}

// ExtensionMethods returns every extension method called name, from this
// table and all outer tables.
func (s *SymbolTable) ExtensionMethods(name string) []*Method {
	var out []*Method
	if s.outer != nil {
		out = append(out, s.outer.ExtensionMethods(name)...)
	}
	return append(out, s.extensionMethods[name]...)
}
