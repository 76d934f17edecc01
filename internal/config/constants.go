package config

// Version is the tool version printed by -version.
const Version = "0.3.0"

// SourceFileExtensions are the extensions of checked source files.
var SourceFileExtensions = []string{".cs", ".csx"}

// WorldFileName is the default name of a world description file.
const WorldFileName = "tuples.yaml"

// WorldFileNames are all recognized world description file names
var WorldFileNames = []string{"tuples.yaml", "tuples.yml"}

// IsTestMode indicates if the program is running in test mode.
// Type variables print in a normalized form when it is set.
var IsTestMode = false

// Carrier layout
const (
	// CarrierArity is the number of direct element slots of the carrier type.
	// Wider tuples keep elements 8..N in the Rest slot.
	CarrierArity       = 7
	CarrierMaxTypeArgs = CarrierArity + 1
	CarrierTypeName    = "ValueTuple"
	RestFieldName      = "Rest"
	ItemFieldPrefix    = "Item"
	MinTupleArity      = 2
)

// Deconstruction
const (
	DeconstructMethodName = "Deconstruct"
	DiscardName           = "_"
	InferredTypeName      = "var"
)

// ConstructorMethodName is the name constructors are registered under.
// They are static methods returning their declaring type.
const ConstructorMethodName = ".ctor"

// ThisName is the implicit receiver inside instance members.
const ThisName = "this"

// Built-in type names
const (
	ObjectTypeName      = "object"
	StringTypeName      = "string"
	BoolTypeName        = "bool"
	VoidTypeName        = "void"
	ArrayTypeName       = "Array"
	EnumerableTypeName  = "IEnumerable"
	ValueTypeBaseName   = "ValueType"
	NullLiteralTypeName = "<null>"
)

// Numeric type names
const (
	SByteTypeName   = "sbyte"
	ByteTypeName    = "byte"
	ShortTypeName   = "short"
	UShortTypeName  = "ushort"
	IntTypeName     = "int"
	UIntTypeName    = "uint"
	LongTypeName    = "long"
	ULongTypeName   = "ulong"
	CharTypeName    = "char"
	FloatTypeName   = "float"
	DoubleTypeName  = "double"
	DecimalTypeName = "decimal"
)
