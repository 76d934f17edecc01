package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/symbols"
)

const checksWorld = `
types:
  - name: Point
    kind: struct
    methods: ["void Deconstruct(out int x, out int y)"]
  - name: Shape
  - name: Circle
    base: Shape
  - name: ShapeExtensions
    kind: static
    methods:
      - "static void Deconstruct(this Shape s, out int w, out int h)"
      - "static void Deconstruct(this Circle c, out int r, out double area)"
  - name: MoreShapeExtensions
    kind: static
    methods:
      - "static void Deconstruct(this Shape s, out long w, out long h)"
checks:
  - name: widen
    from: "(int, int)"
    to: "(long, int)"
    expect: "Pointwise[ImplicitNumeric](ImplicitNumeric, Identity)"
  - name: names are ignored
    from: "(int a, string b)"
    to: "ValueTuple<int, string>"
    expect: Identity
  - name: no conversion
    from: "(int, string)"
    to: "(int, int)"
    expect: None
  - name: point
    deconstruct: Point
    arity: 2
    expect: "Point.Deconstruct(out int x, out int y)"
  - name: point arity
    deconstruct: Point
    arity: 3
    expect: not found
  - name: most specific receiver
    deconstruct: Circle
    arity: 2
    expect: "ShapeExtensions.Deconstruct(this Circle c, out int r, out double area)"
  - name: shape
    deconstruct: Shape
    arity: 2
    expect: ambiguous
  - name: wrong expectation
    from: int
    to: long
    expect: Identity
  - name: unknown type
    from: Missing
    to: long
    expect: None
`

func runWorld(t *testing.T) []Result {
	t.Helper()
	w, err := config.ParseWorld([]byte(checksWorld), "tuples.yaml")
	require.NoError(t, err)
	st := symbols.NewSymbolTable()
	require.NoError(t, st.LoadWorld(w))
	return NewRunner(st).Run(w.Checks)
}

func TestRun(t *testing.T) {
	results := runWorld(t)
	require.Len(t, results, 9)
	for _, r := range results[:7] {
		assert.True(t, r.Passed(), "%s: got %q, want %q (err %v)", r.Check.Name, r.Got, r.Check.Expect, r.Err)
	}

	failed := Failed(results)
	require.Len(t, failed, 2)

	assert.Equal(t, "wrong expectation", failed[0].Check.Name)
	assert.Equal(t, "ImplicitNumeric", failed[0].Got)
	assert.NoError(t, failed[0].Err)

	assert.Equal(t, "unknown type", failed[1].Check.Name)
	assert.Empty(t, failed[1].Got)
	assert.ErrorContains(t, failed[1].Err, "type Missing is not defined")
}
