package verify

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func failingResult(n int) Result {
	checks := make([]Check, 0, n)
	for i := 0; i < n; i++ {
		checks = append(checks, NewFieldCheck(
			fmt.Sprintf("F%d", i),
			fmt.Sprintf("field \"F%d\" diverged", i),
			i, i+1, false,
		))
	}
	return NewResult(checks)
}

func TestErrIfFailed(t *testing.T) {
	op := OpContext{Operation: "update", EntityType: "record", EntityID: "Tasks[41]"}

	if err := ErrIfFailed(NewResult([]Check{NewCheck("ok", true)}), op); err != nil {
		t.Fatalf("ErrIfFailed() on passing result = %v, want nil", err)
	}

	err := ErrIfFailed(failingResult(1), op)
	if err == nil {
		t.Fatal("ErrIfFailed() on failing result = nil, want error")
	}

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("error %T is not *verify.Error", err)
	}
	if verr.Op != op {
		t.Errorf("Op = %+v, want %+v", verr.Op, op)
	}
}

func TestErrIfFailed_WrappedError(t *testing.T) {
	err := fmt.Errorf("adding records: %w", ErrIfFailed(failingResult(1), OpContext{Operation: "add"}))

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatal("errors.As failed to find *verify.Error through a wrap")
	}
	if verr.Op.Operation != "add" {
		t.Errorf("Operation = %q, want %q", verr.Op.Operation, "add")
	}
}

func TestError_Message(t *testing.T) {
	op := OpContext{Operation: "add", EntityType: "record", EntityID: "Tasks[41, 42]"}

	err := NewError(failingResult(2), op)
	msg := err.Error()
	if !strings.Contains(msg, "add record Tasks[41, 42]") {
		t.Errorf("Error() = %q, want it to carry the operation context", msg)
	}
	if !strings.Contains(msg, "2 check(s) failed") {
		t.Errorf("Error() = %q, want the failure count", msg)
	}

	// A top-level result error takes precedence over the count.
	withTop := NewError(NewErrorResult("read-back failed: connection reset"), op)
	if !strings.Contains(withTop.Error(), "read-back failed: connection reset") {
		t.Errorf("Error() = %q, want the top-level error", withTop.Error())
	}
	if strings.Contains(withTop.Error(), "check(s) failed") {
		t.Errorf("Error() = %q, top-level error should replace the count", withTop.Error())
	}
}

func TestError_FailedChecks(t *testing.T) {
	result := NewResult([]Check{
		NewCheck("a", true),
		NewCheck("b", false),
		NewCheck("c", false),
	})
	err := NewError(result, OpContext{})

	if got := len(err.FailedChecks()); got != 2 {
		t.Errorf("len(FailedChecks()) = %d, want 2", got)
	}
}

func TestError_HasFieldFailure(t *testing.T) {
	result := NewResult([]Check{
		NewFieldCheck("Price", "field \"Price\" diverged", 100, 99, false),
		NewFieldCheck("Name", "field \"Name\" persisted", "x", "x", true),
	})
	err := NewError(result, OpContext{})

	if !err.HasFieldFailure("Price") {
		t.Error("HasFieldFailure(\"Price\") = false, want true")
	}
	if err.HasFieldFailure("Name") {
		t.Error("HasFieldFailure(\"Name\") = true for a passing check, want false")
	}
	if err.HasFieldFailure("Qty") {
		t.Error("HasFieldFailure(\"Qty\") = true for an unknown field, want false")
	}
}

func TestError_Retryable(t *testing.T) {
	if NewError(failingResult(1), OpContext{}).Retryable() {
		t.Error("Retryable() = true, want false")
	}
}

func TestError_UserMessage(t *testing.T) {
	err := NewError(failingResult(5), OpContext{Operation: "update", EntityType: "record"})
	msg := err.UserMessage()

	if !strings.HasPrefix(msg, "Verification failed: 5 check(s) failed") {
		t.Errorf("UserMessage() = %q, want the headline first", msg)
	}
	for i := 0; i < maxRenderedChecks; i++ {
		if !strings.Contains(msg, fmt.Sprintf("field \"F%d\" diverged", i)) {
			t.Errorf("UserMessage() missing check %d:\n%s", i, msg)
		}
	}
	if strings.Contains(msg, "field \"F3\" diverged") {
		t.Errorf("UserMessage() renders more than %d checks:\n%s", maxRenderedChecks, msg)
	}
	if !strings.Contains(msg, "...and 2 more") {
		t.Errorf("UserMessage() = %q, want the truncation note", msg)
	}
	if !strings.Contains(msg, "Suggestions:") {
		t.Errorf("UserMessage() = %q, want the remediation suggestions", msg)
	}
}

func TestError_UserMessageValueRendering(t *testing.T) {
	result := NewResult([]Check{
		NewFieldCheck("Qty", "field \"Qty\" diverged", "5", 5, false),
		NewFieldCheck("Note", "field \"Note\" diverged", nil, "gone", false),
	})
	msg := NewError(result, OpContext{}).UserMessage()

	// JSON rendering keeps the string/number distinction visible.
	if !strings.Contains(msg, `expected "5", got 5`) {
		t.Errorf("UserMessage() = %q, want quoted string vs bare number", msg)
	}
	if !strings.Contains(msg, "expected null") {
		t.Errorf("UserMessage() = %q, want nil rendered as null", msg)
	}
}

func TestError_Suggestions(t *testing.T) {
	err := NewError(failingResult(1), OpContext{})

	got := err.Suggestions()
	if len(got) != len(suggestions) {
		t.Fatalf("len(Suggestions()) = %d, want %d", len(got), len(suggestions))
	}

	// The returned slice is a copy; mutating it must not leak.
	got[0] = "mutated"
	if err.Suggestions()[0] == "mutated" {
		t.Error("Suggestions() returned the shared backing slice")
	}
}
