package prettyprinter_test

import (
	"testing"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/lexer"
	"github.com/gb714us/csharplang/internal/parser"
	"github.com/gb714us/csharplang/internal/pipeline"
	"github.com/gb714us/csharplang/internal/prettyprinter"
)

func parse(input string) (*ast.Program, bool) {
	ctx := pipeline.NewPipelineContext(input)
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
	return ctx.AstRoot, ctx.AstRoot != nil && len(ctx.Errors) == 0
}

// FuzzRoundTrip checks that printed code parses again and prints the same
// way: print(parse(print(parse(code)))) == print(parse(code)).
func FuzzRoundTrip(f *testing.F) {
	f.Add("var (a, (b, _)) = (1, (2, 3));")
	f.Add("(a, b) = (b, a);")
	f.Add(`(int x, string y) t = (x: 1, y: "s");`)
	f.Add("x = ((a, b) = t);")
	f.Add("if (o is Point(0, var y) p && y > 1) F(out var z); else { G(); }")
	f.Add("foreach ((int k, var v) in pairs) { Use(k, v); }")
	f.Add("switch (o) { case (int a, _) when a > 0: return a; default: break; }")
	f.Add("var q = from x in xs let y = x where y > 0 select (x, y);")
	f.Add("class P { int X; P(int x) : this(F(out var t)) {} void Deconstruct(out int x) { x = X; } }")

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 1000 {
			return
		}
		program, ok := parse(input)
		if !ok {
			return
		}
		printed := prettyprinter.Print(program)

		reparsed, ok := parse(printed)
		if !ok {
			t.Fatalf("printed code does not parse:\n--- input ---\n%s\n--- printed ---\n%s", input, printed)
		}
		if again := prettyprinter.Print(reparsed); again != printed {
			t.Fatalf("printing is not stable:\n--- first ---\n%s\n--- second ---\n%s", printed, again)
		}
	})
}
