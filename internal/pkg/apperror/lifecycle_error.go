package apperror

import "fmt"

// LifecycleError reports a failed deletion state operation together with the
// record and the transition that was attempted.
type LifecycleError struct {
	ID         string
	Transition string
	Err        error
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Transition, e.ID, e.Err)
}

func (e *LifecycleError) Unwrap() error {
	return e.Err
}
