package gesture

import "fmt"

// ContractError is the panic value raised when a caller breaks the
// detector's contract, for example by feeding a malformed sample.
type ContractError struct {
	Op  string
	Err error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("gesture: %s: %v", e.Op, e.Err)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

func violate(op string, format string, args ...any) {
	panic(&ContractError{Op: op, Err: fmt.Errorf(format, args...)})
}
