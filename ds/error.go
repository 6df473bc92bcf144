package ds

import (
	"fmt"
)

type (
	// ErrUnreachableCode is returned by switch arms that a well-formed table
	// never reaches. Value is what the switch saw.
	ErrUnreachableCode struct {
		Caller string
		Value  any
	}
)

func (r ErrUnreachableCode) Error() string {
	if r.Value == nil {
		return fmt.Sprintf("%s: unreachable code", r.Caller)
	}
	return fmt.Sprintf("%s: unreachable code for %v", r.Caller, r.Value)
}
