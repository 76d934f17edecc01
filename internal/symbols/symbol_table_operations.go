package symbols

import (
	"fmt"

	"github.com/gb714us/csharplang/internal/typesystem"
)

func NewEmptySymbolTable() *SymbolTable {
	return &SymbolTable{
		store:            make(map[string]Symbol),
		scopeType:        ScopeGlobal,
		methods:          make(map[string][]*Method),
		extensionMethods: make(map[string][]*Method),
	}
}

func NewEnclosedSymbolTable(outer *SymbolTable, scopeType ScopeType) *SymbolTable {
	st := NewEmptySymbolTable()
	st.outer = outer
	st.scopeType = scopeType
	return st
}

// Outer returns the outer scope symbol table
func (s *SymbolTable) Outer() *SymbolTable {
	return s.outer
}

// IsGlobalScope returns true if this symbol table is the user world table.
func (s *SymbolTable) IsGlobalScope() bool {
	return s.scopeType == ScopeGlobal
}

// DefineType registers a named type. A type name can be defined once per
// table; redefinition is reported as an error.
func (s *SymbolTable) DefineType(info *TypeInfo, origin string) error {
	if _, ok := s.store[info.Name]; ok {
		return fmt.Errorf("type %s is already defined", info.Name)
	}
	if info.Fields == nil {
		info.Fields = make(map[string]Field)
	}
	s.store[info.Name] = Symbol{
		Name:         info.Name,
		Kind:         TypeSymbol,
		Type:         typeOfInfo(info),
		Info:         info,
		OriginModule: origin,
	}
	return nil
}

func typeOfInfo(info *TypeInfo) typesystem.Type {
	con := typesystem.TCon{Name: info.Name}
	if len(info.TypeParams) == 0 {
		return con
	}
	args := make([]typesystem.Type, len(info.TypeParams))
	for i, p := range info.TypeParams {
		args[i] = typesystem.TVar{Name: p}
	}
	return typesystem.TApp{Constructor: con, Args: args}
}

// DefineMethod registers a method. Extension methods go to the extension
// registry; everything else is attached to its owner type. Free functions
// (no owner) are registered as overloads of a function symbol.
func (s *SymbolTable) DefineMethod(m *Method) error {
	switch {
	case m.IsExtension:
		if len(m.Params) == 0 || !m.Params[0].IsThis {
			return fmt.Errorf("extension method %s has no receiver parameter", m.Name)
		}
		s.extensionMethods[m.Name] = append(s.extensionMethods[m.Name], m)
	case m.Owner == "":
		sym, ok := s.store[m.Name]
		if ok && sym.Kind != FunctionSymbol {
			return fmt.Errorf("%s is already defined as a type", m.Name)
		}
		sym.Name = m.Name
		sym.Kind = FunctionSymbol
		sym.Overloads = append(sym.Overloads, m)
		s.store[m.Name] = sym
	default:
		if _, ok := s.FindType(m.Owner); !ok {
			return fmt.Errorf("method %s: owner type %s is not defined", m.Name, m.Owner)
		}
		s.methods[m.Owner] = append(s.methods[m.Owner], m)
	}
	return nil
}

// DefineField adds a field or property to an existing type in this table.
func (s *SymbolTable) DefineField(typeName string, f Field) error {
	sym, ok := s.store[typeName]
	if !ok || sym.Kind != TypeSymbol {
		return fmt.Errorf("field %s: type %s is not defined", f.Name, typeName)
	}
	sym.Info.Fields[f.Name] = f
	return nil
}

func (s *SymbolTable) Find(name string) (Symbol, bool) {
	sym, ok := s.store[name]
	if !ok && s.outer != nil {
		return s.outer.Find(name)
	}
	return sym, ok
}

func (s *SymbolTable) IsDefined(name string) bool {
	_, ok := s.Find(name)
	return ok
}

// FindType returns the type information registered for name.
func (s *SymbolTable) FindType(name string) (*TypeInfo, bool) {
	sym, ok := s.Find(name)
	if !ok || sym.Kind != TypeSymbol {
		return nil, false
	}
	return sym.Info, true
}

// ResolveType returns the type denoted by a type name.
func (s *SymbolTable) ResolveType(name string) (typesystem.Type, bool) {
	sym, ok := s.Find(name)
	if !ok || sym.Kind != TypeSymbol {
		return nil, false
	}
	return sym.Type, true
}

// FindFunction returns the overloads of a free function.
func (s *SymbolTable) FindFunction(name string) ([]*Method, bool) {
	sym, ok := s.Find(name)
	if !ok || sym.Kind != FunctionSymbol {
		return nil, false
	}
	return sym.Overloads, true
}
