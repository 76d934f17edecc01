package symbols

import (
	"sync"

	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// Singleton prelude table containing all built-in types
var (
	preludeTable *SymbolTable
	preludeOnce  sync.Once
)

// GetPrelude returns the singleton prelude SymbolTable containing all built-in types.
// This table is shared across all compilation units and never written after init.
func GetPrelude() *SymbolTable {
	preludeOnce.Do(func() {
		preludeTable = NewEmptySymbolTable()
		preludeTable.scopeType = ScopePrelude
		preludeTable.InitBuiltins()
	})
	return preludeTable
}

// NewSymbolTable creates a new symbol table.
// It inherits from Prelude.
func NewSymbolTable() *SymbolTable {
	st := NewEmptySymbolTable()
	st.outer = GetPrelude()
	st.scopeType = ScopeGlobal
	return st
}

// NumericTypeNames lists the built-in numeric types.
var NumericTypeNames = []string{
	config.SByteTypeName, config.ByteTypeName,
	config.ShortTypeName, config.UShortTypeName,
	config.IntTypeName, config.UIntTypeName,
	config.LongTypeName, config.ULongTypeName,
	config.CharTypeName,
	config.FloatTypeName, config.DoubleTypeName, config.DecimalTypeName,
}

func (st *SymbolTable) InitBuiltins() {
	const prelude = "prelude" // Origin for built-in symbols

	mustDefine := func(info *TypeInfo) {
		if err := st.DefineType(info, prelude); err != nil {
			panic(err)
		}
	}

	mustDefine(&TypeInfo{Name: config.ObjectTypeName})
	mustDefine(&TypeInfo{Name: config.ValueTypeBaseName})
	mustDefine(&TypeInfo{Name: config.StringTypeName, IsValueType: false})
	mustDefine(&TypeInfo{Name: config.BoolTypeName, IsValueType: true})
	mustDefine(&TypeInfo{Name: config.VoidTypeName, IsValueType: true})
	for _, name := range NumericTypeNames {
		mustDefine(&TypeInfo{Name: name, IsValueType: true})
	}

	mustDefine(&TypeInfo{Name: config.EnumerableTypeName, TypeParams: []string{"T"}, IsInterface: true})
	mustDefine(&TypeInfo{Name: config.ArrayTypeName, TypeParams: []string{"T"}, Interfaces: []string{config.EnumerableTypeName}})
	mustDefine(&TypeInfo{Name: "List", TypeParams: []string{"T"}, Interfaces: []string{config.EnumerableTypeName}})

	// KeyValuePair<K, V> gets its deconstructor from an extension, the way
	// a library adds one to a type it does not own.
	mustDefine(&TypeInfo{
		Name:        "KeyValuePair",
		TypeParams:  []string{"K", "V"},
		IsValueType: true,
		Fields: map[string]Field{
			"Key":   {Name: "Key", Type: typesystem.TVar{Name: "K"}, ReadOnly: true, IsProperty: true},
			"Value": {Name: "Value", Type: typesystem.TVar{Name: "V"}, ReadOnly: true, IsProperty: true},
		},
	})
	mustDefine(&TypeInfo{Name: "KeyValuePairExtensions", IsStatic: true})

	k, v := typesystem.TVar{Name: "K"}, typesystem.TVar{Name: "V"}
	kvp := typesystem.TApp{Constructor: typesystem.TCon{Name: "KeyValuePair"}, Args: []typesystem.Type{k, v}}
	if err := st.DefineMethod(&Method{
		Name:       config.DeconstructMethodName,
		Owner:      "KeyValuePairExtensions",
		TypeParams: []string{"K", "V"},
		Params: []Parameter{
			{Name: "pair", Type: kvp, IsThis: true},
			{Name: "key", Type: k, IsOut: true},
			{Name: "value", Type: v, IsOut: true},
		},
		Result:      typesystem.Void,
		IsStatic:    true,
		IsExtension: true,
	}); err != nil {
		panic(err)
	}
}
