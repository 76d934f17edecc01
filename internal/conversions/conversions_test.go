package conversions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gb714us/csharplang/internal/symbols"
	"github.com/gb714us/csharplang/internal/typesystem"
)

var (
	shape     = typesystem.TCon{Name: "Shape"}
	circle    = typesystem.TCon{Name: "Circle"}
	point     = typesystem.TCon{Name: "Point"}
	drawable  = typesystem.TCon{Name: "IDrawable"}
	shortType = typesystem.TCon{Name: "short"}
	ulongType = typesystem.TCon{Name: "ulong"}
)

func newClassifier(t *testing.T) *Classifier {
	t.Helper()
	st := symbols.NewSymbolTable()
	require.NoError(t, st.DefineType(&symbols.TypeInfo{Name: "IDrawable", IsInterface: true}, "test"))
	require.NoError(t, st.DefineType(&symbols.TypeInfo{Name: "Shape", Interfaces: []string{"IDrawable"}}, "test"))
	require.NoError(t, st.DefineType(&symbols.TypeInfo{Name: "Circle", Base: "Shape"}, "test"))
	require.NoError(t, st.DefineType(&symbols.TypeInfo{Name: "Point", IsValueType: true, Interfaces: []string{"IDrawable"}}, "test"))
	return New(st)
}

func tuple(elems ...typesystem.Type) typesystem.TTuple {
	return typesystem.MustTuple(elems)
}

func TestClassifyScalars(t *testing.T) {
	c := newClassifier(t)
	tests := []struct {
		name     string
		src, tgt typesystem.Type
		want     Kind
	}{
		{"identity", typesystem.Int, typesystem.Int, Identity},
		{"int to long", typesystem.Int, typesystem.Long, ImplicitNumeric},
		{"int to double", typesystem.Int, typesystem.Double, ImplicitNumeric},
		{"long to int", typesystem.Long, typesystem.Int, None},
		{"derived to base", circle, shape, ImplicitReference},
		{"class to interface", circle, drawable, ImplicitReference},
		{"string to object", typesystem.String, typesystem.Object, ImplicitReference},
		{"base to derived", shape, circle, None},
		{"struct to object", point, typesystem.Object, Boxing},
		{"struct to interface", point, drawable, Boxing},
		{"int to object", typesystem.Int, typesystem.Object, Boxing},
		{"int to string", typesystem.Int, typesystem.String, None},
		{"type variable", typesystem.TVar{Name: "T"}, typesystem.Int, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.src, tt.tgt).Kind)
		})
	}
}

func TestClassifyTuples(t *testing.T) {
	c := newClassifier(t)

	t.Run("names are ignored", func(t *testing.T) {
		named := typesystem.MustTuple([]typesystem.Type{typesystem.Int, typesystem.String}, "x", "y")
		other := typesystem.MustTuple([]typesystem.Type{typesystem.Int, typesystem.String}, "a", "b")
		assert.Equal(t, Identity, c.Classify(named, other).Kind)
	})

	t.Run("tuple and carrier are identical", func(t *testing.T) {
		tup := tuple(typesystem.Int, typesystem.Long)
		assert.Equal(t, Identity, c.Classify(tup, typesystem.ToCarrier(tup)).Kind)
		assert.Equal(t, Identity, c.Classify(typesystem.ToCarrier(tup), tup).Kind)
	})

	t.Run("pointwise carries the weakest kind", func(t *testing.T) {
		conv := c.Classify(tuple(typesystem.Int, circle), tuple(typesystem.Long, shape))
		assert.Equal(t, Pointwise, conv.Kind)
		assert.Equal(t, ImplicitNumeric, conv.Weakest)
		require.Len(t, conv.Elements, 2)
		assert.Equal(t, ImplicitReference, conv.Elements[1].Kind)
		assert.False(t, conv.IsNoOp())
	})

	t.Run("reference-only pointwise is a no-op", func(t *testing.T) {
		conv := c.Classify(tuple(circle, typesystem.String), tuple(shape, typesystem.Object))
		assert.Equal(t, Pointwise, conv.Kind)
		assert.True(t, conv.IsNoOp())
	})

	t.Run("arity mismatch", func(t *testing.T) {
		assert.False(t, c.Classify(tuple(typesystem.Int, typesystem.Int), tuple(typesystem.Int, typesystem.Int, typesystem.Int)).Exists())
	})

	t.Run("no scalar to tuple", func(t *testing.T) {
		assert.False(t, c.Classify(typesystem.Int, tuple(typesystem.Int, typesystem.Int)).Exists())
	})

	t.Run("tuple boxes to object", func(t *testing.T) {
		assert.Equal(t, Boxing, c.Classify(tuple(typesystem.Int, typesystem.Int), typesystem.Object).Kind)
	})

	t.Run("nested tuples", func(t *testing.T) {
		src := tuple(typesystem.Int, tuple(typesystem.Int, circle))
		tgt := tuple(typesystem.Long, tuple(typesystem.Int, shape))
		conv := c.Classify(src, tgt)
		assert.Equal(t, Pointwise, conv.Kind)
		assert.Equal(t, ImplicitNumeric, conv.Weakest)
		assert.Equal(t, Pointwise, conv.Elements[1].Kind)
		assert.Equal(t, ImplicitReference, conv.Elements[1].Weakest)
	})

	t.Run("big tuples through Rest", func(t *testing.T) {
		src := make([]typesystem.Type, 9)
		tgt := make([]typesystem.Type, 9)
		for i := range src {
			src[i], tgt[i] = typesystem.Int, typesystem.Int
		}
		tgt[8] = typesystem.Long
		conv := c.Classify(typesystem.MustTuple(src), typesystem.MustTuple(tgt))
		assert.Equal(t, Pointwise, conv.Kind)
		assert.Len(t, conv.Elements, 9)
		assert.Equal(t, ImplicitNumeric, conv.Elements[8].Kind)
	})
}

// Pointwise(A, B) exists exactly when every element pair converts.
func TestPointwiseIsCompositional(t *testing.T) {
	c := newClassifier(t)
	types := []typesystem.Type{typesystem.Int, typesystem.Long, typesystem.String, typesystem.Object, circle, shape, point}
	for _, a1 := range types {
		for _, a2 := range types {
			for _, b1 := range types {
				for _, b2 := range types {
					whole := c.Classify(tuple(a1, a2), tuple(b1, b2))
					e1 := c.Classify(a1, b1)
					e2 := c.Classify(a2, b2)
					if e1.Exists() && e2.Exists() {
						assert.True(t, whole.Exists(), "(%s, %s) -> (%s, %s)", a1, a2, b1, b2)
						if whole.Kind == Pointwise {
							weakest := min(e1.Strength(), e2.Strength())
							assert.Equal(t, weakest, whole.Weakest)
						}
					} else {
						assert.False(t, whole.Exists(), "(%s, %s) -> (%s, %s)", a1, a2, b1, b2)
					}
				}
			}
		}
	}
}

func TestClassifyOperand(t *testing.T) {
	c := newClassifier(t)
	one := Operand{Type: typesystem.Int, Constant: 1, HasConstant: true}
	null := Operand{IsNull: true}

	t.Run("literal to tuple", func(t *testing.T) {
		lit := Operand{Elements: []Operand{one, null}}
		conv := c.ClassifyOperand(lit, tuple(typesystem.Long, typesystem.String))
		assert.Equal(t, Pointwise, conv.Kind)
		assert.Equal(t, ImplicitNumeric, conv.Weakest)
	})

	t.Run("literal to carrier", func(t *testing.T) {
		lit := Operand{Elements: []Operand{one, one}}
		conv := c.ClassifyOperand(lit, typesystem.ToCarrier(tuple(typesystem.Int, typesystem.Long)))
		assert.Equal(t, Pointwise, conv.Kind)
	})

	t.Run("literal arity mismatch", func(t *testing.T) {
		lit := Operand{Elements: []Operand{one, one, one}}
		assert.False(t, c.ClassifyOperand(lit, tuple(typesystem.Int, typesystem.Int)).Exists())
	})

	t.Run("null into value type element", func(t *testing.T) {
		lit := Operand{Elements: []Operand{one, null}}
		assert.False(t, c.ClassifyOperand(lit, tuple(typesystem.Int, typesystem.Int)).Exists())
	})

	t.Run("constants narrow when in range", func(t *testing.T) {
		assert.Equal(t, ImplicitNumeric, c.ClassifyOperand(one, typesystem.Byte).Kind)
		big := Operand{Type: typesystem.Int, Constant: 300, HasConstant: true}
		assert.False(t, c.ClassifyOperand(big, typesystem.Byte).Exists())
		assert.Equal(t, ImplicitNumeric, c.ClassifyOperand(big, shortType).Kind)
		negative := Operand{Type: typesystem.Int, Constant: -1, HasConstant: true}
		assert.False(t, c.ClassifyOperand(negative, ulongType).Exists())
	})

	t.Run("typed tuple literal to object", func(t *testing.T) {
		lit := Operand{Type: tuple(typesystem.Int, typesystem.Int), Elements: []Operand{one, one}}
		assert.Equal(t, Boxing, c.ClassifyOperand(lit, typesystem.Object).Kind)
	})
}

func TestBetter(t *testing.T) {
	identity := Conversion{Kind: Identity}
	numeric := Conversion{Kind: ImplicitNumeric}
	pw := Conversion{Kind: Pointwise, Weakest: ImplicitReference}
	assert.True(t, Better(identity, numeric))
	assert.True(t, Better(pw, numeric))
	assert.False(t, Better(numeric, pw))
	assert.False(t, Better(noConversion, numeric))
	assert.Equal(t, "Pointwise[ImplicitReference]()", pw.String())
}
