// symbols/symbol_table.go - Main symbol table entry point
//
// The symbol table is the type and member registry the tuple subsystem
// consults. It is split into focused files:
// - symbol_table_core.go: Symbol, TypeInfo, Field, Parameter and Method records
// - symbol_table_advanced.go: SymbolTable struct definition
// - symbol_table_init.go: Prelude initialization and built-in types
// - symbol_table_operations.go: define and find operations
// - symbol_table_resolution.go: type relations (base chain, interfaces, fields)
// - symbol_table_dispatch.go: member lookup by name, instance and extension
// - world.go: loading a YAML world description

package symbols
