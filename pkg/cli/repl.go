package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/gb714us/csharplang/internal/config"
	"github.com/gb714us/csharplang/internal/diagnostics"
)

const (
	historyFile = ".tuplecheck_history"
	promptMain  = "> "
	promptCont  = ". "
)

// session is the state of an interactive run. Accepted statements are kept
// and the whole program is checked and run again for every new input, so a
// statement sees every variable declared before it.
type session struct {
	worldPath string
	accepted  []string
	values    map[string]string
}

func newSession(worldPath string) *session {
	return &session{worldPath: worldPath, values: make(map[string]string)}
}

// world returns a freshly loaded world for one run. Source classes are
// added to its table during analysis, so it cannot be shared between runs.
func (s *session) world() (*world, error) {
	if s.worldPath == "" {
		return emptyWorld(), nil
	}
	return loadWorld(s.worldPath)
}

// eval checks and runs code after the accepted statements. On success the
// code is accepted and the variables it declared or changed are returned
// as "name = value" lines.
func (s *session) eval(code string) ([]string, []*diagnostics.DiagnosticError, error) {
	lw, err := s.world()
	if err != nil {
		return nil, nil, err
	}

	source, offset := code, 0
	if len(s.accepted) > 0 {
		prefix := strings.Join(s.accepted, "\n")
		source = prefix + "\n" + code
		offset = strings.Count(prefix, "\n") + 1
	}
	ctx := runPipeline(source, "", lw, true)
	if len(ctx.Errors) > 0 {
		// Positions are reported relative to the new input.
		for _, e := range ctx.Errors {
			if e.Token.Line > offset {
				e.Token.Line -= offset
			}
		}
		diagnostics.Sort(ctx.Errors)
		return nil, ctx.Errors, nil
	}

	s.accepted = append(s.accepted, code)
	var changed []string
	for _, name := range ctx.Environment.Names() {
		v, _ := ctx.Environment.Get(name)
		text := v.Inspect()
		if old, ok := s.values[name]; ok && old == text {
			continue
		}
		s.values[name] = text
		changed = append(changed, name+" = "+text)
	}
	return changed, nil, nil
}

// incomplete reports whether src has an unclosed parenthesis or brace.
func incomplete(src string) bool {
	depth := 0
	inString := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '(' || c == '{':
			depth++
		case c == ')' || c == '}':
			depth--
		}
	}
	return depth > 0
}

func readStatement(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !incomplete(b.String()) {
			return b.String(), true
		}
	}
}

// handleRepl runs "repl [-world file]".
func handleRepl(args []string, stdout, stderr io.Writer) (int, bool) {
	if len(args) < 2 || args[1] != "repl" {
		return 0, false
	}
	opts, err := parseOptions(args[2:])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2, true
	}
	if opts.world == "" {
		if cwd, err := os.Getwd(); err == nil {
			opts.world, _ = config.FindWorld(cwd)
		}
	}
	s := newSession(opts.world)
	if _, err := s.world(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1, true
	}

	fmt.Fprintf(stdout, "tuplecheck %s\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", config.Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	color := useColor(stderr, opts)
	for {
		code, ok := readStatement(ln)
		if !ok {
			fmt.Fprintln(stdout)
			return 0, true
		}
		code = strings.TrimSpace(code)
		switch code {
		case "":
			continue
		case ":quit":
			return 0, true
		}

		changed, diags, err := s.eval(code)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			continue
		}
		diagnostics.Print(stderr, diags, color)
		for _, line := range changed {
			fmt.Fprintln(stdout, line)
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}
