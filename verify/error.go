package verify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tessera-data/sdk/canon"
)

// OpContext identifies which operation produced a verification result. It
// feeds diagnostics only; nothing branches on it.
type OpContext struct {
	// Operation is the verb, e.g. "add" or "rename".
	Operation string

	// EntityType labels the entity kind, e.g. "record" or "table".
	EntityType string

	// EntityID is a formatted identity for the written entities, e.g.
	// "Tasks[41, 42]".
	EntityID string
}

// maxRenderedChecks bounds how many failing checks UserMessage spells out.
const maxRenderedChecks = 3

// suggestions are the fixed remediation hints attached to every
// verification failure. A divergence between written and persisted state has
// a small set of usual causes and these name them; the engine itself never
// retries.
var suggestions = []string{
	"check the table's access rules: a rule can accept a write and silently drop part of it",
	"check whether the target column is computed or read-only: computed cells ignore direct writes",
	"check for concurrent modification: another writer may have changed the data between write and read-back",
	"if the divergence looks transient, retry the whole operation rather than the write alone",
}

// Error reports that a write was accepted by the backend but the persisted
// state could not be confirmed to match it. It carries the full evidence:
// the verification Result plus the operation context that produced it.
//
// An Error is terminal. The engine never retries a failed verification,
// because retrying the read-back cannot make a genuinely diverged write
// correct; Retryable spells this out for callers with generic retry
// machinery. Callers distinguish it from an outright write rejection with
// errors.As:
//
//	var verr *verify.Error
//	if errors.As(err, &verr) {
//	    log.Println(verr.UserMessage())
//	}
type Error struct {
	// Result is the evidence: every check, passed and failed.
	Result Result

	// Op identifies the operation that failed verification.
	Op OpContext
}

// NewError builds an *Error from a failing Result and its operation context.
func NewError(result Result, op OpContext) *Error {
	return &Error{Result: result, Op: op}
}

// ErrIfFailed returns nil when the Result passed, and an *Error carrying the
// Result and context when it did not.
func ErrIfFailed(result Result, op OpContext) error {
	if result.Passed {
		return nil
	}
	return NewError(result, op)
}

// Error implements the error interface as
// "operation entityType entityID: message".
func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{e.Op.Operation, e.Op.EntityType, e.Op.EntityID} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return e.message()
	}
	return strings.Join(parts, " ") + ": " + e.message()
}

// message is the Result's top-level error string when present, else the
// default failure count.
func (e *Error) message() string {
	if e.Result.Error != "" {
		return e.Result.Error
	}
	return fmt.Sprintf("verification failed: %d check(s) failed", len(e.FailedChecks()))
}

// FailedChecks returns the checks that did not pass.
func (e *Error) FailedChecks() []Check {
	return e.Result.FailedChecks()
}

// HasFieldFailure reports whether any failing check is about the named
// field.
func (e *Error) HasFieldFailure(field string) bool {
	for _, c := range e.FailedChecks() {
		if c.Field == field {
			return true
		}
	}
	return false
}

// Retryable always reports false: a verification failure signals a real
// divergence between intended and persisted state, and retrying the write
// blindly could compound it.
func (e *Error) Retryable() bool {
	return false
}

// Suggestions returns the fixed remediation hints for verification
// failures.
func (e *Error) Suggestions() []string {
	out := make([]string, len(suggestions))
	copy(out, suggestions)
	return out
}

// UserMessage renders the failure for an end user: the headline, up to
// maxRenderedChecks failing checks with expected and actual values, a
// truncation note when there are more, and the remediation suggestions.
// Transport detail and stack traces never appear here.
func (e *Error) UserMessage() string {
	var b strings.Builder
	failed := e.FailedChecks()
	if e.Result.Error != "" {
		fmt.Fprintf(&b, "Verification failed: %s", e.Result.Error)
	} else {
		fmt.Fprintf(&b, "Verification failed: %d check(s) failed", len(failed))
	}

	for i, c := range failed {
		if i == maxRenderedChecks {
			fmt.Fprintf(&b, "\n  ...and %d more", len(failed)-maxRenderedChecks)
			break
		}
		b.WriteString("\n  - ")
		b.WriteString(c.Description)
		if c.HasValues {
			fmt.Fprintf(&b, ": expected %s, got %s", formatValue(c.Expected), formatValue(c.Actual))
		}
	}

	b.WriteString("\nSuggestions:")
	for _, s := range suggestions {
		b.WriteString("\n  - ")
		b.WriteString(s)
	}
	return b.String()
}

// formatValue renders a compared value unambiguously: JSON keeps "5" and 5
// distinguishable, nil renders as null, and an undefined marker names
// itself.
func formatValue(v any) string {
	if v == canon.Undefined {
		return "undefined"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
