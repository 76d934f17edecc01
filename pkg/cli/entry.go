package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/gb714us/csharplang/internal/analyzer"
	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/backend"
	"github.com/gb714us/csharplang/internal/checks"
	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/diagnostics"
	"github.com/gb714us/csharplang/internal/evaluator"
	"github.com/gb714us/csharplang/internal/lexer"
	"github.com/gb714us/csharplang/internal/parser"
	"github.com/gb714us/csharplang/internal/pipeline"
	"github.com/gb714us/csharplang/internal/prettyprinter"
	"github.com/gb714us/csharplang/internal/symbols"
)

// options are the flags of a check run.
type options struct {
	world   string
	plans   bool
	types   bool
	run     bool
	format  bool
	noColor bool
	files   []string
}

// isSourceFile checks if a file has a recognized source extension
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// useColor reports whether diagnostics written to w should be colored.
func useColor(w io.Writer, opts options) bool {
	if opts.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func handleHelp(args []string, stdout io.Writer) bool {
	if len(args) < 2 {
		return false
	}
	switch args[1] {
	case "-h", "-help", "--help", "help":
	default:
		return false
	}
	fmt.Fprintf(stdout, `Usage:
  %[1]s [flags] <file|dir>...   check source files
  %[1]s world [file]            run the checks of a world file
  %[1]s repl [-world file]      check and run statements interactively
  %[1]s -version                print the version

Flags:
  -world <file>  world file to check against (default: nearest %[2]s)
  -plans         print the lowering plan of every deconstruction
  -types         print every declared variable with its type
  -run           execute the top-level statements and print the variables
  -fmt           print the parsed program
  -no-color      never color diagnostics
`, filepath.Base(args[0]), config.WorldFileName)
	return true
}

func handleVersion(args []string, stdout io.Writer) bool {
	if len(args) != 2 {
		return false
	}
	switch args[1] {
	case "-v", "-version", "--version":
		fmt.Fprintln(stdout, "tuplecheck "+config.Version)
		return true
	}
	return false
}

// handleWorld runs "world [file]": load a world file and evaluate its
// checks. Without a file the nearest world file is used.
func handleWorld(args []string, stdout, stderr io.Writer) (int, bool) {
	if len(args) < 2 || args[1] != "world" {
		return 0, false
	}

	path := ""
	if len(args) >= 3 {
		path = args[2]
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(stderr, "Error: cannot determine working directory: %v\n", err)
			return 1, true
		}
		found, err := config.FindWorld(cwd)
		if err != nil || found == "" {
			fmt.Fprintf(stderr, "Error: %s not found\n", config.WorldFileName)
			return 1, true
		}
		path = found
	}

	lw, err := loadWorld(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1, true
	}

	fmt.Fprintf(stdout, "World: %s\n", path)
	fmt.Fprintf(stdout, "Types: %d, functions: %d\n", len(lw.decl.Types), len(lw.decl.Functions))
	results := checks.NewRunner(lw.symbols).Run(lw.decl.Checks)
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(stdout, "  FAIL %s: %v\n", r.Check.Name, r.Err)
		case r.Passed():
			fmt.Fprintf(stdout, "  ok   %s: %s\n", r.Check.Name, r.Got)
		default:
			fmt.Fprintf(stdout, "  FAIL %s: got %s, want %s\n", r.Check.Name, r.Got, r.Check.Expect)
		}
	}

	failed := checks.Failed(results)
	fmt.Fprintf(stdout, "%d passed, %d failed\n", len(results)-len(failed), len(failed))
	if len(failed) > 0 {
		return 1, true
	}
	return 0, true
}

// world is a loaded world file: its declarations, the symbol table built
// from them and the host implementations of its functions.
type world struct {
	decl      *config.World
	symbols   *symbols.SymbolTable
	functions map[string]evaluator.Function
}

// emptyWorld is used when no world file is found.
func emptyWorld() *world {
	return &world{decl: &config.World{}, symbols: symbols.NewSymbolTable()}
}

func loadWorld(path string) (*world, error) {
	w, err := config.LoadWorld(path)
	if err != nil {
		return nil, err
	}
	st := symbols.NewSymbolTable()
	if err := st.LoadWorld(w); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	fns, err := evaluator.HostFunctions(w, st)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &world{decl: w, symbols: st, functions: fns}, nil
}

func parseOptions(args []string) (options, error) {
	var opts options
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-world", "--world":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s needs a file", arg)
			}
			i++
			opts.world = args[i]
		case "-plans", "--plans":
			opts.plans = true
		case "-types", "--types":
			opts.types = true
		case "-run", "--run":
			opts.run = true
		case "-fmt", "--fmt":
			opts.format = true
		case "-no-color", "--no-color":
			opts.noColor = true
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, fmt.Errorf("unknown flag %s", arg)
			}
			opts.files = append(opts.files, arg)
		}
	}
	return opts, nil
}

// collectFiles expands directory arguments to the source files they hold.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading directory: %w", err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && isSourceFile(entry.Name()) {
				files = append(files, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return files, nil
}

// handleCheck checks every source file named on the command line. Files
// are checked independently, each against a fresh copy of the world.
func handleCheck(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args[1:])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if len(opts.files) == 0 {
		fmt.Fprintf(stderr, "Usage: %s [flags] <file|dir>...\n", filepath.Base(args[0]))
		return 2
	}
	files, err := collectFiles(opts.files)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}

	status := 0
	for _, file := range files {
		if !checkFile(file, opts, stdout, stderr) {
			status = 1
		}
	}
	return status
}

func checkFile(path string, opts options, stdout, stderr io.Writer) bool {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return false
	}

	worldPath := opts.world
	if worldPath == "" {
		worldPath, _ = config.FindWorld(filepath.Dir(path))
	}
	lw := emptyWorld()
	if worldPath != "" {
		if lw, err = loadWorld(worldPath); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return false
		}
	}

	ctx := runPipeline(string(source), path, lw, opts.run)
	if len(ctx.Errors) > 0 {
		diagnostics.Sort(ctx.Errors)
		diagnostics.Print(stderr, ctx.Errors, useColor(stderr, opts))
		return false
	}

	if opts.format {
		fmt.Fprint(stdout, prettyprinter.Print(ctx.AstRoot))
	}
	if opts.types {
		printBindings(stdout, ctx)
	}
	if opts.plans {
		printPlans(stdout, ctx)
	}
	if opts.run {
		for _, name := range ctx.Environment.Names() {
			v, _ := ctx.Environment.Get(name)
			fmt.Fprintf(stdout, "%s = %s\n", name, v.Inspect())
		}
	}
	return true
}

// runPipeline checks a source file against the world and, when execute is
// set, runs it with the world's host functions.
func runPipeline(source, filePath string, lw *world, execute bool) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = filePath
	ctx.Symbols = lw.symbols

	processors := []pipeline.Processor{
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	}
	if execute {
		eval := evaluator.New()
		for sig, fn := range lw.functions {
			eval.Functions[sig] = fn
		}
		processors = append(processors, backend.NewExecutionProcessor(backend.NewTreeWalk(eval)))
	}
	return pipeline.New(processors...).Run(ctx)
}

func printBindings(w io.Writer, ctx *pipeline.PipelineContext) {
	for _, b := range ctx.Bindings {
		tok := b.Node.GetToken()
		t := "?"
		if b.Type != nil {
			t = b.Type.String()
		}
		fmt.Fprintf(w, "%d:%d %s %s: %s %s\n", tok.Line, tok.Column, b.Kind, b.Name, t, b.ID)
	}
}

// printPlans prints the plans in source order.
func printPlans(w io.Writer, ctx *pipeline.PipelineContext) {
	nodes := make([]ast.Node, 0, len(ctx.Plans))
	for n := range ctx.Plans {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i].GetToken(), nodes[j].GetToken()
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	for _, n := range nodes {
		tok := n.GetToken()
		fmt.Fprintf(w, "%d:%d:\n", tok.Line, tok.Column)
		for _, line := range strings.Split(strings.TrimRight(ctx.Plans[n].String(), "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// Main runs the command line in args and returns the exit status.
func Main(args []string, stdout, stderr io.Writer) int {
	if handleVersion(args, stdout) {
		return 0
	}
	if handleHelp(args, stdout) {
		return 0
	}
	if status, ok := handleWorld(args, stdout, stderr); ok {
		return status
	}
	if status, ok := handleRepl(args, stdout, stderr); ok {
		return status
	}
	return handleCheck(args, stdout, stderr)
}

func Run() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	os.Exit(Main(os.Args, os.Stdout, os.Stderr))
}
