package types

import "sort"

// Record is a single row of a Tessera table. The identity is assigned by the
// backend on creation and is immutable afterwards. Fields maps column IDs to
// cell values in whatever encoding the backend returned them; use the canon
// package to compare values across encodings.
type Record struct {
	// ID is the backend-assigned row identity.
	ID int64 `json:"id"`

	// Fields maps column IDs to cell values. A key that is absent was not
	// part of the write (or not requested on read); a key present with a nil
	// value is an explicit null cell.
	Fields map[string]any `json:"fields"`
}

// Field returns the cell value for the given column ID and whether the column
// was present at all. The distinction matters: an absent column is "not
// written", a present nil is "written as null".
func (r Record) Field(name string) (any, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// FieldIDs returns the column IDs present on this record, sorted so that
// diagnostics built from them are stable.
func (r Record) FieldIDs() []string {
	ids := make([]string, 0, len(r.Fields))
	for id := range r.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RecordUpdate names an existing record and the fields to change. Only the
// listed fields are written; columns absent from Fields are left untouched and
// are never part of write verification.
type RecordUpdate struct {
	// ID is the identity of the record to update.
	ID int64 `json:"id"`

	// Fields holds the column values to write.
	Fields map[string]any `json:"fields"`
}
