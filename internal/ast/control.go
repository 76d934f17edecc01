package ast

// CanCompleteNormally reports whether control can reach the end of stmt.
// The approximation is syntactic: jump statements never complete, a block
// completes when all of its statements do, and an if completes unless both
// branches end in a jump.
func CanCompleteNormally(stmt Statement) bool {
	switch s := stmt.(type) {
	case nil:
		return true
	case *ReturnStatement, *ThrowStatement, *BreakStatement, *ContinueStatement:
		return false
	case *BlockStatement:
		for _, inner := range s.Statements {
			if !CanCompleteNormally(inner) {
				return false
			}
		}
		return true
	case *IfStatement:
		if s.Alternative == nil {
			return true
		}
		return CanCompleteNormally(s.Consequence) || CanCompleteNormally(s.Alternative)
	default:
		return true
	}
}

// DesignatedNames returns the variable names a designation introduces, in
// order. Discards introduce nothing.
func DesignatedNames(d Designation) []*Identifier {
	switch d := d.(type) {
	case *SingleDesignation:
		return []*Identifier{d.Name}
	case *ParenthesizedDesignation:
		var out []*Identifier
		for _, el := range d.Elements {
			out = append(out, DesignatedNames(el)...)
		}
		return out
	}
	return nil
}
