// Package verify compares written state against read-back state and reports
// the outcome as itemized evidence.
//
// The unit of evidence is the Check: one assertion about one entity or one
// field, with a pass flag and, where it helps, the expected and actual
// values. Entities and Deleted fold sets of checks into a Result; a Result
// passes only when every check passed. A failing Result becomes an *Error
// via ErrIfFailed, which is how callers of the mutation executors learn that
// a write was accepted but could not be confirmed.
//
// Verification is partial: only fields that were part of the write payload
// are ever compared, so an untouched field that reads back differently can
// never fail a write it was not part of.
package verify

import (
	"fmt"
	"sort"
	"time"

	"github.com/tessera-data/sdk/canon"
	"github.com/tessera-data/sdk/types"
)

// Entity is a written or read-back record in the shape verification works
// on: a stable identity plus a field map. Entities are transient; nothing
// holds one beyond a single operation.
type Entity[ID comparable] struct {
	// ID is the backend-assigned identity used to correlate a written
	// entity with its read-back counterpart.
	ID ID

	// Fields maps field IDs to values. An absent key was not written; a nil
	// value is an explicit null.
	Fields map[string]any
}

// Field returns the value for the given field ID and whether it is present.
func (e Entity[ID]) Field(name string) (any, bool) {
	v, ok := e.Fields[name]
	return v, ok
}

// FieldIDs returns the field IDs present on this entity, sorted so that
// checks derived from them come out in a stable order.
func (e Entity[ID]) FieldIDs() []string {
	ids := make([]string, 0, len(e.Fields))
	for id := range e.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Check is one atomic assertion. Checks are immutable once built.
type Check struct {
	// Description says what was asserted, readably.
	Description string `json:"description"`

	// Passed reports whether the assertion held.
	Passed bool `json:"passed"`

	// Field names the compared field, when the check is about one.
	Field string `json:"field,omitempty"`

	// Expected and Actual carry the compared values. They are meaningful
	// only when HasValues is set; a nil Expected with HasValues set is an
	// explicit null, not an omission.
	Expected any `json:"expected,omitempty"`
	Actual   any `json:"actual,omitempty"`

	// HasValues marks Expected and Actual as populated.
	HasValues bool `json:"-"`
}

// NewCheck returns a Check with no field attribution and no captured values.
func NewCheck(description string, passed bool) Check {
	return Check{Description: description, Passed: passed}
}

// NewFieldCheck returns a Check recording a field comparison together with
// the expected and actual values.
func NewFieldCheck(field, description string, expected, actual any, passed bool) Check {
	return Check{
		Description: description,
		Passed:      passed,
		Field:       field,
		Expected:    expected,
		Actual:      actual,
		HasValues:   true,
	}
}

// Result aggregates the checks of one verification pass. Passed is always
// the logical AND of the checks' pass flags; there is no other failure
// channel.
type Result struct {
	// Checks is the itemized evidence.
	Checks []Check `json:"checks"`

	// Passed reports whether every check passed.
	Passed bool `json:"passed"`

	// Duration is how long the comparison took, including read-back
	// alignment but not the read-back itself.
	Duration time.Duration `json:"duration,omitempty"`

	// Error is an optional top-level failure description for a verification
	// that could not run to completion. It takes precedence over the
	// default message when the Result is turned into an *Error. A Result
	// with Error set still carries a failing Check, keeping Passed honest.
	Error string `json:"error,omitempty"`
}

// NewResult folds checks into a Result, deriving Passed. An empty check set
// passes vacuously.
func NewResult(checks []Check) Result {
	passed := true
	for _, c := range checks {
		if !c.Passed {
			passed = false
			break
		}
	}
	return Result{Checks: checks, Passed: passed}
}

// NewErrorResult returns a failing Result for a verification that could not
// run, typically because the read-back itself failed. The message becomes
// both the Result's top-level error and its single failing check.
func NewErrorResult(message string) Result {
	return Result{
		Checks: []Check{NewCheck(message, false)},
		Passed: false,
		Error:  message,
	}
}

// FailedChecks returns the checks that did not pass.
func (r Result) FailedChecks() []Check {
	var failed []Check
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// Config controls which fields Entities compares and how.
type Config[ID comparable] struct {
	// Fields lists the field IDs to compare on every entity. Empty means
	// every field present on the written entity.
	Fields []string

	// FieldsFor, when set, overrides Fields per entity. Update verification
	// uses it to compare exactly the fields named in each entity's update
	// payload.
	FieldsFor func(written Entity[ID]) []string

	// Types supplies the semantic type hint per field ID for
	// canonicalization. A missing entry means structural comparison with no
	// coercion.
	Types map[string]types.SemanticType
}

func (c Config[ID]) fieldsFor(written Entity[ID]) []string {
	if c.FieldsFor != nil {
		return c.FieldsFor(written)
	}
	if len(c.Fields) > 0 {
		return c.Fields
	}
	return written.FieldIDs()
}

// Entities verifies that every written entity has a read-back counterpart
// whose compared fields are equivalent to what was written.
//
// A written entity with no counterpart produces a single failing check. For
// a found counterpart, each compared field produces one check; fields absent
// from the written entity, or written as canon.Undefined, were not part of
// the write and are skipped. Read entries that are nil count as absent.
func Entities[ID comparable](written []Entity[ID], read []*Entity[ID], cfg Config[ID]) Result {
	start := time.Now()

	byID := make(map[ID]Entity[ID], len(read))
	for _, e := range read {
		if e != nil {
			byID[e.ID] = *e
		}
	}

	var checks []Check
	for _, w := range written {
		counterpart, found := byID[w.ID]
		if !found {
			checks = append(checks, Check{
				Description: fmt.Sprintf("entity %v not found after write", w.ID),
				Passed:      false,
				Expected:    w.Fields,
				Actual:      nil,
				HasValues:   true,
			})
			continue
		}

		for _, field := range cfg.fieldsFor(w) {
			wv, ok := w.Field(field)
			if !ok || wv == canon.Undefined {
				continue
			}

			actual, readOK := counterpart.Field(field)
			if !readOK {
				actual = canon.Undefined
			}

			passed := canon.Equivalent(wv, actual, cfg.Types[field])
			desc := fmt.Sprintf("field %q persisted", field)
			if !passed {
				desc = fmt.Sprintf("field %q diverged", field)
			}
			checks = append(checks, NewFieldCheck(field, desc, wv, actual, passed))
		}
	}

	result := NewResult(checks)
	result.Duration = time.Since(start)
	return result
}

// Deleted verifies that none of the deleted identities still resolve. Each
// identity produces one check; a failing check names the survivor.
func Deleted[ID comparable](deleted []ID, remaining []Entity[ID]) Result {
	start := time.Now()

	present := make(map[ID]bool, len(remaining))
	for _, e := range remaining {
		present[e.ID] = true
	}

	checks := make([]Check, 0, len(deleted))
	for _, id := range deleted {
		if present[id] {
			checks = append(checks, NewCheck(fmt.Sprintf("entity %v still present after delete", id), false))
		} else {
			checks = append(checks, NewCheck(fmt.Sprintf("entity %v deleted", id), true))
		}
	}

	result := NewResult(checks)
	result.Duration = time.Since(start)
	return result
}
