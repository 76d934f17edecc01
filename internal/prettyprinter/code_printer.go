package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/gb714us/csharplang/internal/ast"
	"github.com/gb714us/csharplang/internal/token"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[string]int{
	"=":  0,
	"||": 1,
	"&&": 2,
	"==": 3,
	"!=": 3,
	"<":  4,
	">":  4,
	"<=": 4,
	">=": 4,
	"is": 4,
	"+":  5,
	"-":  5,
}

// top is the context precedence of a full expression.
const top = -1

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10 // Default high precedence for unknown ops
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// line prints a statement on its own indented line.
func (p *CodePrinter) line(stmt ast.Statement) {
	p.writeIndent()
	stmt.Accept(p)
	p.write("\n")
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	var op string
	switch e := expr.(type) {
	case *ast.BinaryExpression:
		op = e.Operator
	case *ast.AssignmentExpression:
		op = "="
	case *ast.IsPatternExpression:
		op = "is"
	default:
		expr.Accept(p)
		return
	}
	prec := getPrecedence(op)
	// Assignment is right-associative, everything else left-associative.
	needParens := prec < parentPrec || (prec == parentPrec && isRight != (op == "="))
	if needParens {
		p.write("(")
	}
	expr.Accept(p)
	if needParens {
		p.write(")")
	}
}

func (p *CodePrinter) printArguments(args []*ast.Argument) {
	p.write("(")
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		a.Accept(p)
	}
	p.write(")")
}

func (p *CodePrinter) printParameters(params []*ast.Parameter) {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		param.Accept(p)
	}
	p.write(")")
}

func (p *CodePrinter) printDeclarators(decls []*ast.Declarator) {
	for i, d := range decls {
		if i > 0 {
			p.write(", ")
		}
		d.Accept(p)
	}
}

// printBody prints the statement after a control header: a block stays on
// the header line, anything else goes on its own indented line.
func (p *CodePrinter) printBody(body ast.Statement) {
	if block, ok := body.(*ast.BlockStatement); ok {
		p.write(" ")
		block.Accept(p)
		return
	}
	p.write("\n")
	p.indent++
	p.writeIndent()
	body.Accept(p)
	p.indent--
}

func (p *CodePrinter) VisitProgram(n *ast.Program) {
	for _, c := range n.Classes {
		c.Accept(p)
		p.write("\n")
	}
	for _, s := range n.Statements {
		p.line(s)
	}
}

func (p *CodePrinter) VisitClassDeclaration(n *ast.ClassDeclaration) {
	p.write("class " + n.Name.Value + " {\n")
	p.indent++
	for _, m := range n.Members {
		p.writeIndent()
		m.Accept(p)
		p.write("\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitFieldDeclaration(n *ast.FieldDeclaration) {
	if n.IsStatic {
		p.write("static ")
	}
	n.Type.Accept(p)
	p.write(" ")
	p.printDeclarators(n.Declarators)
	p.write(";")
}

func (p *CodePrinter) VisitDeclarator(n *ast.Declarator) {
	p.write(n.Name.Value)
	if n.Value != nil {
		p.write(" = ")
		p.printExpr(n.Value, top, false)
	}
}

func (p *CodePrinter) VisitParameter(n *ast.Parameter) {
	if n.IsOut {
		p.write("out ")
	}
	n.Type.Accept(p)
	p.write(" " + n.Name.Value)
}

func (p *CodePrinter) VisitMethodDeclaration(n *ast.MethodDeclaration) {
	if n.IsStatic {
		p.write("static ")
	}
	if n.Result == nil {
		p.write("void")
	} else {
		n.Result.Accept(p)
	}
	p.write(" " + n.Name.Value)
	p.printParameters(n.Parameters)
	p.write(" ")
	n.Body.Accept(p)
}

func (p *CodePrinter) VisitConstructorDeclaration(n *ast.ConstructorDeclaration) {
	p.write(n.Name.Value)
	p.printParameters(n.Parameters)
	if n.Initializer != nil {
		p.write(" : ")
		n.Initializer.Accept(p)
	}
	p.write(" ")
	n.Body.Accept(p)
}

func (p *CodePrinter) VisitConstructorInitializer(n *ast.ConstructorInitializer) {
	p.write(n.Token.Lexeme)
	p.printArguments(n.Arguments)
}

func (p *CodePrinter) VisitNamedType(n *ast.NamedType) {
	// T[] is kept as written rather than as Array<T>.
	if n.Token.Type == token.LBRACKET && len(n.Args) == 1 {
		n.Args[0].Accept(p)
		p.write("[]")
		return
	}
	p.write(n.String())
}

func (p *CodePrinter) VisitTupleType(n *ast.TupleType) {
	p.write(n.String())
}

func (p *CodePrinter) VisitVarType(n *ast.VarType) {
	p.write("var")
}

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Value)
}

func (p *CodePrinter) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	p.write(strconv.FormatInt(n.Value, 10))
}

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(strconv.Quote(n.Value))
}

func (p *CodePrinter) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	p.write(strconv.FormatBool(n.Value))
}

func (p *CodePrinter) VisitNullLiteral(n *ast.NullLiteral) {
	p.write("null")
}

func (p *CodePrinter) VisitTupleArgument(n *ast.TupleArgument) {
	if n.Name != nil {
		p.write(n.Name.Value + ": ")
	}
	p.printExpr(n.Value, top, false)
}

func (p *CodePrinter) VisitTupleLiteral(n *ast.TupleLiteral) {
	p.write("(")
	for i, el := range n.Elements {
		if i > 0 {
			p.write(", ")
		}
		el.Accept(p)
	}
	p.write(")")
}

func (p *CodePrinter) VisitDiscardExpression(n *ast.DiscardExpression) {
	p.write("_")
}

func (p *CodePrinter) VisitDeclarationExpression(n *ast.DeclarationExpression) {
	n.Type.Accept(p)
	p.write(" ")
	n.Designation.Accept(p)
}

func (p *CodePrinter) VisitMemberExpression(n *ast.MemberExpression) {
	p.printExpr(n.Left, 100, false)
	p.write("." + n.Member.Value)
}

func (p *CodePrinter) VisitIndexExpression(n *ast.IndexExpression) {
	p.printExpr(n.Left, 100, false)
	p.write("[")
	p.printExpr(n.Index, top, false)
	p.write("]")
}

func (p *CodePrinter) VisitArgument(n *ast.Argument) {
	if n.IsOut {
		p.write("out ")
	}
	p.printExpr(n.Value, top, false)
}

func (p *CodePrinter) VisitCallExpression(n *ast.CallExpression) {
	p.printExpr(n.Function, 100, false)
	p.printArguments(n.Arguments)
}

func (p *CodePrinter) VisitNewExpression(n *ast.NewExpression) {
	p.write("new ")
	n.Type.Accept(p)
	p.printArguments(n.Arguments)
}

func (p *CodePrinter) VisitAssignmentExpression(n *ast.AssignmentExpression) {
	prec := getPrecedence("=")
	p.printExpr(n.Left, prec+1, false)
	p.write(" = ")
	p.printExpr(n.Value, prec, true)
}

func (p *CodePrinter) VisitBinaryExpression(n *ast.BinaryExpression) {
	prec := getPrecedence(n.Operator)
	p.printExpr(n.Left, prec, false)
	p.write(" " + n.Operator + " ")
	p.printExpr(n.Right, prec, true)
}

func (p *CodePrinter) VisitIsPatternExpression(n *ast.IsPatternExpression) {
	p.printExpr(n.Value, getPrecedence("is"), false)
	p.write(" is ")
	n.Pattern.Accept(p)
}

func (p *CodePrinter) VisitQueryClause(n *ast.QueryClause) {
	p.write(string(n.Kind()) + " ")
	switch n.Kind() {
	case "from":
		p.write(n.Range.Value + " in ")
	case "let":
		p.write(n.Range.Value + " = ")
	}
	p.printExpr(n.Value, top, false)
}

func (p *CodePrinter) VisitQueryExpression(n *ast.QueryExpression) {
	for i, c := range n.Clauses {
		if i > 0 {
			p.write(" ")
		}
		c.Accept(p)
	}
}

func (p *CodePrinter) VisitSingleDesignation(n *ast.SingleDesignation) {
	p.write(n.Name.Value)
}

func (p *CodePrinter) VisitDiscardDesignation(n *ast.DiscardDesignation) {
	p.write("_")
}

func (p *CodePrinter) VisitParenthesizedDesignation(n *ast.ParenthesizedDesignation) {
	p.write("(")
	for i, el := range n.Elements {
		if i > 0 {
			p.write(", ")
		}
		el.Accept(p)
	}
	p.write(")")
}

func (p *CodePrinter) VisitDeclarationPattern(n *ast.DeclarationPattern) {
	n.Type.Accept(p)
	p.write(" ")
	n.Designation.Accept(p)
}

func (p *CodePrinter) VisitDiscardPattern(n *ast.DiscardPattern) { p.write("_") }

func (p *CodePrinter) VisitConstantPattern(n *ast.ConstantPattern) {
	n.Value.Accept(p)
}

func (p *CodePrinter) VisitTypePattern(n *ast.TypePattern) {
	n.Type.Accept(p)
}

func (p *CodePrinter) VisitSubpattern(n *ast.Subpattern) {
	if n.Name != nil {
		p.write(n.Name.Value + ": ")
	}
	n.Pattern.Accept(p)
}

func (p *CodePrinter) VisitPositionalPattern(n *ast.PositionalPattern) {
	if n.Type != nil {
		n.Type.Accept(p)
	}
	p.write("(")
	for i, sp := range n.Subpatterns {
		if i > 0 {
			p.write(", ")
		}
		sp.Accept(p)
	}
	p.write(")")
	if n.Designation != nil {
		p.write(" ")
		n.Designation.Accept(p)
	}
}

func (p *CodePrinter) VisitBlockStatement(n *ast.BlockStatement) {
	if len(n.Statements) == 0 {
		p.write("{}")
		return
	}
	p.write("{\n")
	p.indent++
	for _, s := range n.Statements {
		p.line(s)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	p.printExpr(n.Expression, top, false)
	p.write(";")
}

func (p *CodePrinter) VisitLocalDeclaration(n *ast.LocalDeclaration) {
	n.Type.Accept(p)
	p.write(" ")
	p.printDeclarators(n.Declarators)
	p.write(";")
}

func (p *CodePrinter) VisitIfStatement(n *ast.IfStatement) {
	p.write("if (")
	p.printExpr(n.Condition, top, false)
	p.write(")")
	p.printBody(n.Consequence)
	if n.Alternative != nil {
		if _, ok := n.Consequence.(*ast.BlockStatement); ok {
			p.write(" ")
		} else {
			p.write("\n")
			p.writeIndent()
		}
		p.write("else")
		p.printBody(n.Alternative)
	}
}

func (p *CodePrinter) VisitWhileStatement(n *ast.WhileStatement) {
	p.write("while (")
	p.printExpr(n.Condition, top, false)
	p.write(")")
	p.printBody(n.Body)
}

func (p *CodePrinter) VisitForStatement(n *ast.ForStatement) {
	p.write("for (")
	for _, s := range n.Init {
		s.Accept(p)
	}
	if len(n.Init) == 0 {
		p.write(";")
	}
	if n.Condition != nil {
		p.write(" ")
		p.printExpr(n.Condition, top, false)
	}
	p.write(";")
	for i, u := range n.Update {
		if i == 0 {
			p.write(" ")
		} else {
			p.write(", ")
		}
		p.printExpr(u, top, false)
	}
	p.write(")")
	p.printBody(n.Body)
}

func (p *CodePrinter) VisitForEachStatement(n *ast.ForEachStatement) {
	p.write("foreach (")
	n.Variable.Accept(p)
	p.write(" in ")
	p.printExpr(n.Collection, top, false)
	p.write(")")
	p.printBody(n.Body)
}

func (p *CodePrinter) VisitReturnStatement(n *ast.ReturnStatement) {
	p.write("return")
	if n.Value != nil {
		p.write(" ")
		p.printExpr(n.Value, top, false)
	}
	p.write(";")
}

func (p *CodePrinter) VisitThrowStatement(n *ast.ThrowStatement) {
	p.write("throw ")
	p.printExpr(n.Value, top, false)
	p.write(";")
}

func (p *CodePrinter) VisitBreakStatement(n *ast.BreakStatement) { p.write("break;") }

func (p *CodePrinter) VisitContinueStatement(n *ast.ContinueStatement) { p.write("continue;") }

func (p *CodePrinter) VisitCaseLabel(n *ast.CaseLabel) {
	if n.Pattern == nil {
		p.write("default:")
		return
	}
	p.write("case ")
	n.Pattern.Accept(p)
	if n.When != nil {
		p.write(" when ")
		p.printExpr(n.When, top, false)
	}
	p.write(":")
}

func (p *CodePrinter) VisitSwitchSection(n *ast.SwitchSection) {
	for _, l := range n.Labels {
		p.writeIndent()
		l.Accept(p)
		p.write("\n")
	}
	p.indent++
	for _, s := range n.Statements {
		p.line(s)
	}
	p.indent--
}

func (p *CodePrinter) VisitSwitchStatement(n *ast.SwitchStatement) {
	p.write("switch (")
	p.printExpr(n.Value, top, false)
	p.write(") {\n")
	p.indent++
	for _, s := range n.Sections {
		s.Accept(p)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

// Print renders a node as source text.
func Print(n ast.Node) string {
	p := NewCodePrinter()
	n.Accept(p)
	return strings.TrimRight(p.String(), "\n")
}
