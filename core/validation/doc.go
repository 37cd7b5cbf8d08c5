// Package validation holds small helpers for validating user edits.
//
// A ChangeValidator wraps a validation callback and remembers the message of
// the last failure. An AutoTrigger re-runs a ChangeValidator whenever a
// dependency set changes, except on its first evaluation, so a freshly opened
// form is not flagged before the user touches it.
package validation
