package diagnostics

import (
	"fmt"
	"io"
	"strings"
)

const (
	colorRed   = "\x1b[31m"
	colorBold  = "\x1b[1m"
	colorDim   = "\x1b[2m"
	colorReset = "\x1b[0m"
)

// Format renders a diagnostic for terminal output. Color escapes are only
// emitted when color is true; callers decide based on the output device.
func Format(e *DiagnosticError, color bool) string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		if e.Token.HasPosition() {
			fmt.Fprintf(&sb, ":%d:%d", e.Token.Line, e.Token.Column)
		}
		sb.WriteString(": ")
	} else if e.Token.HasPosition() {
		fmt.Fprintf(&sb, "%d:%d: ", e.Token.Line, e.Token.Column)
	}
	if color {
		sb.WriteString(colorBold + colorRed + "error" + colorReset)
		sb.WriteString(colorDim + "[" + string(e.Code) + "]" + colorReset)
	} else {
		sb.WriteString("error[" + string(e.Code) + "]")
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message())
	return sb.String()
}

// Print writes every diagnostic on its own line.
func Print(w io.Writer, errs []*DiagnosticError, color bool) {
	for _, e := range errs {
		fmt.Fprintln(w, Format(e, color))
	}
}
