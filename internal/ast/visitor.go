package ast

// Visitor has one method per node type. Nodes call back into it from Accept.
type Visitor interface {
	VisitProgram(node *Program)
	VisitClassDeclaration(node *ClassDeclaration)
	VisitFieldDeclaration(node *FieldDeclaration)
	VisitDeclarator(node *Declarator)
	VisitParameter(node *Parameter)
	VisitMethodDeclaration(node *MethodDeclaration)
	VisitConstructorDeclaration(node *ConstructorDeclaration)
	VisitConstructorInitializer(node *ConstructorInitializer)

	VisitNamedType(node *NamedType)
	VisitTupleType(node *TupleType)
	VisitVarType(node *VarType)

	VisitIdentifier(node *Identifier)
	VisitIntegerLiteral(node *IntegerLiteral)
	VisitStringLiteral(node *StringLiteral)
	VisitBooleanLiteral(node *BooleanLiteral)
	VisitNullLiteral(node *NullLiteral)
	VisitTupleArgument(node *TupleArgument)
	VisitTupleLiteral(node *TupleLiteral)
	VisitDiscardExpression(node *DiscardExpression)
	VisitDeclarationExpression(node *DeclarationExpression)
	VisitMemberExpression(node *MemberExpression)
	VisitIndexExpression(node *IndexExpression)
	VisitArgument(node *Argument)
	VisitCallExpression(node *CallExpression)
	VisitNewExpression(node *NewExpression)
	VisitAssignmentExpression(node *AssignmentExpression)
	VisitBinaryExpression(node *BinaryExpression)
	VisitIsPatternExpression(node *IsPatternExpression)
	VisitQueryClause(node *QueryClause)
	VisitQueryExpression(node *QueryExpression)

	VisitSingleDesignation(node *SingleDesignation)
	VisitDiscardDesignation(node *DiscardDesignation)
	VisitParenthesizedDesignation(node *ParenthesizedDesignation)
	VisitDeclarationPattern(node *DeclarationPattern)
	VisitDiscardPattern(node *DiscardPattern)
	VisitConstantPattern(node *ConstantPattern)
	VisitTypePattern(node *TypePattern)
	VisitSubpattern(node *Subpattern)
	VisitPositionalPattern(node *PositionalPattern)

	VisitBlockStatement(node *BlockStatement)
	VisitExpressionStatement(node *ExpressionStatement)
	VisitLocalDeclaration(node *LocalDeclaration)
	VisitIfStatement(node *IfStatement)
	VisitWhileStatement(node *WhileStatement)
	VisitForStatement(node *ForStatement)
	VisitForEachStatement(node *ForEachStatement)
	VisitReturnStatement(node *ReturnStatement)
	VisitThrowStatement(node *ThrowStatement)
	VisitBreakStatement(node *BreakStatement)
	VisitContinueStatement(node *ContinueStatement)
	VisitCaseLabel(node *CaseLabel)
	VisitSwitchSection(node *SwitchSection)
	VisitSwitchStatement(node *SwitchStatement)
}
