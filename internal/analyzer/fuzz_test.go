package analyzer_test

import (
	"testing"

	"github.com/gb714us/csharplang/internal/analyzer"
	"github.com/gb714us/csharplang/internal/lexer"
	"github.com/gb714us/csharplang/internal/parser"
	"github.com/gb714us/csharplang/internal/pipeline"
)

// FuzzAnalyze runs arbitrary source through the checker. Every input must
// either analyze cleanly or produce diagnostics; none may panic.
func FuzzAnalyze(f *testing.F) {
	f.Add(util + "if (Util.TryGet(out var r)) { int z = r; }")
	f.Add(point + "var (a, b) = new Point(1, 2);")
	f.Add("var (a, (b, c)) = (1, (2, 3)); (a, b) = (b, a);")
	f.Add("(int, long) t = (1, 2); (long x, var y) = t;")
	f.Add("var (a, b) = (1, 2, 3);")
	f.Add("var t = (1, 2, 3, 4, 5, 6, 7, 8, 9); var (a, _, _, _, _, _, _, _, i) = t;")
	f.Add("foreach (var (k, v) in Pairs()) { }")

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 2000 {
			return
		}
		ctx := pipeline.NewPipelineContext(input)
		ctx = pipeline.New(
			&lexer.LexerProcessor{},
			&parser.ParserProcessor{},
			&analyzer.SemanticAnalyzerProcessor{},
		).Run(ctx)
		if len(ctx.Errors) > 0 {
			return
		}
		for node, plan := range ctx.Plans {
			if plan == nil {
				t.Fatalf("nil plan for %s", node.GetToken().Lexeme)
			}
		}
	})
}
