package verify

import (
	"strings"
	"testing"

	"github.com/tessera-data/sdk/canon"
	"github.com/tessera-data/sdk/types"
)

func entity(id int64, fields map[string]any) Entity[int64] {
	return Entity[int64]{ID: id, Fields: fields}
}

func TestEntities_AllFieldsMatch(t *testing.T) {
	written := []Entity[int64]{
		entity(1, map[string]any{"Name": "Alice", "Age": 30}),
		entity(2, map[string]any{"Name": "Bob", "Age": 41}),
	}
	read := []*Entity[int64]{
		{ID: 1, Fields: map[string]any{"Name": "Alice", "Age": float64(30)}},
		{ID: 2, Fields: map[string]any{"Name": "Bob", "Age": float64(41)}},
	}

	result := Entities(written, read, Config[int64]{})

	if !result.Passed {
		t.Fatalf("Passed = false, failed checks: %+v", result.FailedChecks())
	}
	if len(result.Checks) != 4 {
		t.Errorf("len(Checks) = %d, want 4", len(result.Checks))
	}
}

func TestEntities_CounterpartMissing(t *testing.T) {
	written := []Entity[int64]{entity(7, map[string]any{"Name": "Carol"})}

	result := Entities(written, []*Entity[int64]{nil}, Config[int64]{})

	if result.Passed {
		t.Fatal("Passed = true, want false")
	}
	if len(result.Checks) != 1 {
		t.Fatalf("len(Checks) = %d, want 1", len(result.Checks))
	}
	c := result.Checks[0]
	if !strings.Contains(c.Description, "7") || !strings.Contains(c.Description, "not found") {
		t.Errorf("Description = %q, want a not-found message naming the entity", c.Description)
	}
	if !c.HasValues || c.Actual != nil {
		t.Errorf("check = %+v, want HasValues with nil Actual", c)
	}
}

func TestEntities_FieldDivergence(t *testing.T) {
	written := []Entity[int64]{entity(1, map[string]any{"Price": 100})}
	read := []*Entity[int64]{{ID: 1, Fields: map[string]any{"Price": float64(99)}}}

	result := Entities(written, read, Config[int64]{})

	if result.Passed {
		t.Fatal("Passed = true, want false")
	}
	c := result.FailedChecks()[0]
	if c.Field != "Price" {
		t.Errorf("Field = %q, want %q", c.Field, "Price")
	}
	if c.Expected != 100 || c.Actual != float64(99) {
		t.Errorf("Expected/Actual = %v/%v, want 100/99", c.Expected, c.Actual)
	}
}

func TestEntities_UpdatePartiality(t *testing.T) {
	// Qty was not part of the update payload, so its divergent read-back
	// value must not fail verification.
	written := []Entity[int64]{entity(1, map[string]any{"Price": 100})}
	read := []*Entity[int64]{{ID: 1, Fields: map[string]any{"Price": float64(100), "Qty": float64(999)}}}

	cfg := Config[int64]{
		FieldsFor: func(w Entity[int64]) []string { return w.FieldIDs() },
	}
	result := Entities(written, read, cfg)

	if !result.Passed {
		t.Fatalf("Passed = false, failed checks: %+v", result.FailedChecks())
	}
	if len(result.Checks) != 1 {
		t.Errorf("len(Checks) = %d, want 1", len(result.Checks))
	}
}

func TestEntities_SkipsUnwrittenFields(t *testing.T) {
	written := []Entity[int64]{entity(1, map[string]any{
		"Name":  "Alice",
		"Notes": canon.Undefined,
	})}
	read := []*Entity[int64]{{ID: 1, Fields: map[string]any{"Name": "Alice"}}}

	cfg := Config[int64]{Fields: []string{"Name", "Notes", "Missing"}}
	result := Entities(written, read, cfg)

	if !result.Passed {
		t.Fatalf("Passed = false, failed checks: %+v", result.FailedChecks())
	}
	if len(result.Checks) != 1 {
		t.Errorf("len(Checks) = %d, want 1 (only the written field)", len(result.Checks))
	}
}

func TestEntities_FieldAbsentOnReadBack(t *testing.T) {
	written := []Entity[int64]{entity(1, map[string]any{"Name": "Alice"})}
	read := []*Entity[int64]{{ID: 1, Fields: map[string]any{}}}

	result := Entities(written, read, Config[int64]{})

	if result.Passed {
		t.Fatal("Passed = true, want false: written field vanished on read-back")
	}
}

func TestEntities_SemanticTypeHints(t *testing.T) {
	written := []Entity[int64]{entity(1, map[string]any{
		"Tags": []any{"a", "b"},
		"Due":  "2023-01-02T03:04:05Z",
	})}
	read := []*Entity[int64]{{ID: 1, Fields: map[string]any{
		"Tags": []any{"L", "a", "b"},
		"Due":  float64(1672628645),
	}}}

	cfg := Config[int64]{Types: map[string]types.SemanticType{
		"Tags": types.SemanticTaggedList,
		"Due":  types.SemanticInstant,
	}}
	result := Entities(written, read, cfg)

	if !result.Passed {
		t.Fatalf("Passed = false, failed checks: %+v", result.FailedChecks())
	}
}

func TestEntities_StringIdentity(t *testing.T) {
	written := []Entity[string]{{ID: "Tasks", Fields: map[string]any{"label": "Tasks"}}}
	read := []*Entity[string]{{ID: "Tasks", Fields: map[string]any{"label": "Tasks"}}}

	if result := Entities(written, read, Config[string]{}); !result.Passed {
		t.Fatalf("Passed = false, failed checks: %+v", result.FailedChecks())
	}
}

func TestDeleted(t *testing.T) {
	tests := []struct {
		name      string
		deleted   []int64
		remaining []Entity[int64]
		wantPass  bool
	}{
		{
			name:      "all absent",
			deleted:   []int64{10, 20},
			remaining: nil,
			wantPass:  true,
		},
		{
			name:      "survivor",
			deleted:   []int64{10, 20},
			remaining: []Entity[int64]{entity(20, nil)},
			wantPass:  false,
		},
		{
			name:      "no ids",
			deleted:   nil,
			remaining: nil,
			wantPass:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Deleted(tt.deleted, tt.remaining)
			if result.Passed != tt.wantPass {
				t.Errorf("Passed = %v, want %v", result.Passed, tt.wantPass)
			}
			if len(result.Checks) != len(tt.deleted) {
				t.Errorf("len(Checks) = %d, want %d", len(result.Checks), len(tt.deleted))
			}
		})
	}
}

func TestDeleted_FailingCheckNamesSurvivor(t *testing.T) {
	result := Deleted([]int64{10, 20}, []Entity[int64]{entity(20, nil)})

	failed := result.FailedChecks()
	if len(failed) != 1 {
		t.Fatalf("len(FailedChecks()) = %d, want 1", len(failed))
	}
	if !strings.Contains(failed[0].Description, "20") {
		t.Errorf("Description = %q, want it to reference 20", failed[0].Description)
	}
}

func TestNewResult(t *testing.T) {
	if r := NewResult(nil); !r.Passed {
		t.Error("NewResult(nil).Passed = false, want vacuous true")
	}

	r := NewResult([]Check{NewCheck("a", true), NewCheck("b", false)})
	if r.Passed {
		t.Error("Passed = true with a failing check, want false")
	}
	if len(r.FailedChecks()) != 1 {
		t.Errorf("len(FailedChecks()) = %d, want 1", len(r.FailedChecks()))
	}
}

func TestNewErrorResult(t *testing.T) {
	r := NewErrorResult("read-back failed: connection reset")

	if r.Passed {
		t.Error("Passed = true, want false")
	}
	if r.Error == "" {
		t.Error("Error is empty, want the message")
	}
	if len(r.Checks) != 1 || r.Checks[0].Passed {
		t.Errorf("Checks = %+v, want a single failing check", r.Checks)
	}
}
