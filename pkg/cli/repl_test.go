package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gb714us/csharplang/internal/diagnostics"
)

func TestSession(t *testing.T) {
	s := newSession("")

	changed, diags, err := s.eval("var (a, b) = (1, 2);")
	require.NoError(t, err)
	require.Empty(t, diags)
	assert.Equal(t, []string{"a = 1", "b = 2"}, changed)

	changed, diags, err = s.eval("(a, b) = (b, a);")
	require.NoError(t, err)
	require.Empty(t, diags)
	assert.Equal(t, []string{"a = 2", "b = 1"}, changed)

	changed, diags, err = s.eval("int c = d;")
	require.NoError(t, err)
	assert.Empty(t, changed)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.ErrT008, diags[0].Code)
	assert.Equal(t, 1, diags[0].Token.Line)

	// The rejected input is not kept.
	changed, diags, err = s.eval("long c = a;")
	require.NoError(t, err)
	require.Empty(t, diags)
	assert.Equal(t, []string{"c = 2"}, changed)
	assert.Len(t, s.accepted, 3)
}

func TestSessionWorld(t *testing.T) {
	s := newSession(filepath.Join("testdata", "tuples.yaml"))
	changed, diags, err := s.eval("var (x, y) = Origin();")
	require.NoError(t, err)
	require.Empty(t, diags)
	assert.Equal(t, []string{"x = 1", "y = 2"}, changed)

	changed, diags, err = s.eval("foreach (var (k, v) in Pairs()) { x = k; }")
	require.NoError(t, err)
	require.Empty(t, diags)
	assert.Equal(t, []string{"x = 2"}, changed)

	s = newSession(filepath.Join("testdata", "missing.yaml"))
	_, _, err = s.eval("int a = 1;")
	assert.Error(t, err)
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"int a = 1;", false},
		{"foreach (var (k, v) in Pairs()) {", true},
		{"foreach (var (k, v) in Pairs()) {\n}", false},
		{`string s = "(";`, false},
		{`string s = "\"(";`, false},
		{"F(", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, incomplete(tt.src), tt.src)
	}
}
