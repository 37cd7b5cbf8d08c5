package validation

import (
	"sync"

	"log-console/core/asyncdata"
)

// ChangeValidator runs a validation callback and stores the last error message.
type ChangeValidator struct {
	mu    sync.Mutex
	check func() error
	err   string
}

// NewChangeValidator wraps check.
func NewChangeValidator(check func() error) *ChangeValidator {
	return &ChangeValidator{check: check}
}

// Validate runs the callback. It clears the stored message on success and
// stores the failure's message otherwise.
func (v *ChangeValidator) Validate() bool {
	err := v.check()

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.err = err.Error()
		return false
	}
	v.err = ""
	return true
}

// Error returns the message of the last failed validation, or "".
func (v *ChangeValidator) Error() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// AutoTrigger validates whenever its dependencies change.
type AutoTrigger struct {
	mu        sync.Mutex
	validator *ChangeValidator
	deps      []any
	evaluated bool
}

// NewAutoTrigger returns a trigger for v.
func NewAutoTrigger(v *ChangeValidator) *AutoTrigger {
	return &AutoTrigger{validator: v}
}

// Evaluate runs the validator when deps differ from the previous evaluation.
// The first evaluation only records deps. It reports whether validation ran.
func (a *AutoTrigger) Evaluate(deps ...any) bool {
	a.mu.Lock()
	first := !a.evaluated
	changed := !asyncdata.SameDeps(a.deps, deps)
	a.evaluated = true
	a.deps = append([]any(nil), deps...)
	a.mu.Unlock()

	if first || !changed {
		return false
	}
	a.validator.Validate()
	return true
}
