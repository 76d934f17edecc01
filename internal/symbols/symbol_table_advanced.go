package symbols

// SymbolTable is a layered registry of types and members. A user table
// encloses the prelude; lookups fall back to the outer table.
type SymbolTable struct {
	store     map[string]Symbol
	outer     *SymbolTable
	scopeType ScopeType // Type of this scope

	// Instance and static methods registry: TypeName -> [Method]
	methods map[string][]*Method

	// Extension Methods registry: MethodName -> [Method]
	// Extension methods are indexed by name because their applicability
	// depends on the receiver conversion, not on a declaring type.
	extensionMethods map[string][]*Method
}
