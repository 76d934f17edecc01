package typesystem

import "fmt"

// UnifyError reports two types that cannot be made equal.
type UnifyError struct {
	Left, Right Type
	Reason      string
}

func (e *UnifyError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot unify %s with %s: %s", e.Left, e.Right, e.Reason)
	}
	return fmt.Sprintf("cannot unify %s with %s", e.Left, e.Right)
}
