package deconstruct

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/conversions"
	"github.com/gb714us/csharplang/internal/dispatch"
	"github.com/gb714us/csharplang/internal/typesystem"
)

// OpKind is the kind of a plan operation.
type OpKind int

const (
	// Source phase.
	EvalSource  OpKind = iota // Dest = value of Expr (nil Expr: the input value)
	Project                   // Dest = element Index of Src
	Deconstruct               // Dests = outputs of Contract called on Src
	Convert                   // Dest = Src converted by Conversion to Type
	// Location phase.
	EvalLocation // Dest = value of a target's receiver or index Expr
	// Store phase.
	Assign  // Target = Src
	Declare // declare Target and initialize it with Src
)

var opNames = [...]string{
	EvalSource:   "eval",
	Project:      "project",
	Deconstruct:  "deconstruct",
	Convert:      "convert",
	EvalLocation: "location",
	Assign:       "assign",
	Declare:      "declare",
}

func (k OpKind) String() string { return opNames[k] }

// Op is a single step of a plan. Temporaries are numbered from 0; fields
// that do not apply to an op's kind are zero, or -1 for temporaries.
type Op struct {
	Kind       OpKind
	Dest       int
	Dests      []int
	Src        int
	Index      int
	Expr       ast.Expression
	Type       typesystem.Type
	Contract   *dispatch.Contract
	Conversion conversions.Conversion
	Target     *Target
	// ReceiverTemp and IndexTemp hold the evaluated location of an Assign
	// into a field, property or indexer.
	ReceiverTemp int
	IndexTemp    int
}

// Leaf pairs a target that receives a value with the temporary holding it.
type Leaf struct {
	Target *Target
	Temp   int
	Type   typesystem.Type
}

// Plan is the lowered form of one deconstruction. Ops are ordered in three
// phases: all source values left to right, then all target locations left to
// right, then the stores. No store happens before every read.
type Plan struct {
	Form   Form
	Ops    []Op
	Leaves []Leaf
	temps  int
}

// Temps is the number of temporaries the plan uses.
func (p *Plan) Temps() int { return p.temps }

func (p *Plan) newTemp() int {
	t := p.temps
	p.temps++
	return t
}

func (p *Plan) emit(op Op) {
	p.Ops = append(p.Ops, op)
}

func (p *Plan) String() string {
	var sb strings.Builder
	for _, op := range p.Ops {
		sb.WriteString(op.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (op Op) String() string {
	switch op.Kind {
	case EvalSource:
		if op.Expr == nil {
			return fmt.Sprintf("t%d = input", op.Dest)
		}
		return fmt.Sprintf("t%d = eval %s", op.Dest, Describe(op.Expr))
	case Project:
		return fmt.Sprintf("t%d = t%d.%s", op.Dest, op.Src, typesystem.ItemName(op.Index))
	case Deconstruct:
		outs := make([]string, len(op.Dests))
		for i, d := range op.Dests {
			outs[i] = "t" + strconv.Itoa(d)
		}
		return fmt.Sprintf("%s = t%d.%s", strings.Join(outs, ", "), op.Src, op.Contract.Method.Signature())
	case Convert:
		return fmt.Sprintf("t%d = (%s)t%d [%s]", op.Dest, op.Type, op.Src, op.Conversion)
	case EvalLocation:
		return fmt.Sprintf("t%d = location %s", op.Dest, Describe(op.Expr))
	case Assign:
		return fmt.Sprintf("%s = t%d", op.describeLocation(), op.Src)
	case Declare:
		return fmt.Sprintf("%s %s = t%d", op.Type, op.Target.Name, op.Src)
	}
	return op.Kind.String()
}

func (op Op) describeLocation() string {
	loc := op.Target.Location
	if loc == nil {
		return op.Target.Name
	}
	switch loc.Kind {
	case Field, Property:
		return fmt.Sprintf("t%d.%s", op.ReceiverTemp, op.Target.Name)
	case Indexer:
		return fmt.Sprintf("t%d[t%d]", op.ReceiverTemp, op.IndexTemp)
	}
	return op.Target.Name
}

// Describe renders an expression for plans and diagnostics.
func Describe(e ast.Expression) string {
	switch e := e.(type) {
	case nil:
		return "<input>"
	case *ast.Identifier:
		return e.Value
	case *ast.IntegerLiteral:
		return strconv.FormatInt(e.Value, 10)
	case *ast.StringLiteral:
		return strconv.Quote(e.Value)
	case *ast.BooleanLiteral:
		return strconv.FormatBool(e.Value)
	case *ast.NullLiteral:
		return "null"
	case *ast.MemberExpression:
		return Describe(e.Left) + "." + e.Member.Value
	case *ast.IndexExpression:
		return Describe(e.Left) + "[" + Describe(e.Index) + "]"
	case *ast.CallExpression:
		return Describe(e.Function) + "(...)"
	case *ast.TupleLiteral:
		parts := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			parts[i] = Describe(el.Value)
			if el.Name != nil {
				parts[i] = el.Name.Value + ": " + parts[i]
			}
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.NewExpression:
		return "new " + e.Type.String() + "(...)"
	}
	return e.TokenLiteral()
}
