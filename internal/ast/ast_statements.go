package ast

import (
	"github.com/gb714us/csharplang/internal/token"
)

// BlockStatement represents a list of statements within curly braces.
type BlockStatement struct {
	Token       token.Token // {
	Statements  []Statement
	RBraceToken token.Token // }
}

func (bs *BlockStatement) Accept(v Visitor)      { v.VisitBlockStatement(bs) }
func (bs *BlockStatement) statementNode()        {}
func (bs *BlockStatement) TokenLiteral() string  { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token { return bs.Token }

// ExpressionStatement is a statement that consists of a single expression.
type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) Accept(v Visitor)      { v.VisitExpressionStatement(es) }
func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }

// LocalDeclaration declares locals: int a = 1, b = 2; or var x = F();
type LocalDeclaration struct {
	Token       token.Token
	Type        Type
	Declarators []*Declarator
}

func (ld *LocalDeclaration) Accept(v Visitor)      { v.VisitLocalDeclaration(ld) }
func (ld *LocalDeclaration) statementNode()        {}
func (ld *LocalDeclaration) TokenLiteral() string  { return ld.Token.Lexeme }
func (ld *LocalDeclaration) GetToken() token.Token { return ld.Token }

// IfStatement is if (Condition) Consequence else Alternative.
type IfStatement struct {
	Token       token.Token // The 'if' token
	Condition   Expression
	Consequence Statement
	Alternative Statement // nil when there is no else
}

func (is *IfStatement) Accept(v Visitor)      { v.VisitIfStatement(is) }
func (is *IfStatement) statementNode()        {}
func (is *IfStatement) TokenLiteral() string  { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token { return is.Token }

// WhileStatement is while (Condition) Body.
type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      Statement
}

func (ws *WhileStatement) Accept(v Visitor)      { v.VisitWhileStatement(ws) }
func (ws *WhileStatement) statementNode()        {}
func (ws *WhileStatement) TokenLiteral() string  { return ws.Token.Lexeme }
func (ws *WhileStatement) GetToken() token.Token { return ws.Token }

// ForStatement is for (Init; Condition; Update) Body.
type ForStatement struct {
	Token     token.Token
	Init      []Statement
	Condition Expression // nil when omitted
	Update    []Expression
	Body      Statement
}

func (fs *ForStatement) Accept(v Visitor)      { v.VisitForStatement(fs) }
func (fs *ForStatement) statementNode()        {}
func (fs *ForStatement) TokenLiteral() string  { return fs.Token.Lexeme }
func (fs *ForStatement) GetToken() token.Token { return fs.Token }

// ForEachStatement is foreach (Variable in Collection) Body. Variable is a
// DeclarationExpression (var x, var (k, v)) or a tuple literal of
// declarations ((var k, var v)).
type ForEachStatement struct {
	Token      token.Token
	Variable   Expression
	Collection Expression
	Body       Statement
}

func (fs *ForEachStatement) Accept(v Visitor)      { v.VisitForEachStatement(fs) }
func (fs *ForEachStatement) statementNode()        {}
func (fs *ForEachStatement) TokenLiteral() string  { return fs.Token.Lexeme }
func (fs *ForEachStatement) GetToken() token.Token { return fs.Token }

// ReturnStatement is return [Value].
type ReturnStatement struct {
	Token token.Token
	Value Expression // nil for a bare return
}

func (rs *ReturnStatement) Accept(v Visitor)      { v.VisitReturnStatement(rs) }
func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token { return rs.Token }

// ThrowStatement is throw Value.
type ThrowStatement struct {
	Token token.Token
	Value Expression
}

func (ts *ThrowStatement) Accept(v Visitor)      { v.VisitThrowStatement(ts) }
func (ts *ThrowStatement) statementNode()        {}
func (ts *ThrowStatement) TokenLiteral() string  { return ts.Token.Lexeme }
func (ts *ThrowStatement) GetToken() token.Token { return ts.Token }

// BreakStatement represents a 'break' statement.
type BreakStatement struct {
	Token token.Token
}

func (bs *BreakStatement) Accept(v Visitor)      { v.VisitBreakStatement(bs) }
func (bs *BreakStatement) statementNode()        {}
func (bs *BreakStatement) TokenLiteral() string  { return bs.Token.Lexeme }
func (bs *BreakStatement) GetToken() token.Token { return bs.Token }

// ContinueStatement represents a 'continue' statement.
type ContinueStatement struct {
	Token token.Token
}

func (cs *ContinueStatement) Accept(v Visitor)      { v.VisitContinueStatement(cs) }
func (cs *ContinueStatement) statementNode()        {}
func (cs *ContinueStatement) TokenLiteral() string  { return cs.Token.Lexeme }
func (cs *ContinueStatement) GetToken() token.Token { return cs.Token }

// CaseLabel is 'case Pattern when Guard:' or 'default:' (nil Pattern).
type CaseLabel struct {
	Token   token.Token
	Pattern Pattern
	When    Expression
}

func (cl *CaseLabel) Accept(v Visitor)      { v.VisitCaseLabel(cl) }
func (cl *CaseLabel) TokenLiteral() string  { return cl.Token.Lexeme }
func (cl *CaseLabel) GetToken() token.Token { return cl.Token }

// SwitchSection is a group of case labels and the statements they guard.
type SwitchSection struct {
	Token      token.Token
	Labels     []*CaseLabel
	Statements []Statement
}

func (ss *SwitchSection) Accept(v Visitor)      { v.VisitSwitchSection(ss) }
func (ss *SwitchSection) TokenLiteral() string  { return ss.Token.Lexeme }
func (ss *SwitchSection) GetToken() token.Token { return ss.Token }

// SwitchStatement is switch (Value) { Sections }.
type SwitchStatement struct {
	Token    token.Token
	Value    Expression
	Sections []*SwitchSection
}

func (ss *SwitchStatement) Accept(v Visitor)      { v.VisitSwitchStatement(ss) }
func (ss *SwitchStatement) statementNode()        {}
func (ss *SwitchStatement) TokenLiteral() string  { return ss.Token.Lexeme }
func (ss *SwitchStatement) GetToken() token.Token { return ss.Token }
