package types

// Table describes one table of a Tessera document. The ID doubles as the
// table's identity: renaming a table replaces the ID, so a rename is an
// identity relabel rather than a field update.
type Table struct {
	// ID is the table identifier, unique within its document.
	ID string `json:"id"`
}

// TableSpec describes a table to create: the desired ID and its initial
// columns. The backend rejects creation when the ID is already taken.
type TableSpec struct {
	// ID is the desired table identifier.
	ID string `json:"id"`

	// Columns are the initial columns, in order. May be empty; the backend
	// then creates its default column set.
	Columns []Column `json:"columns,omitempty"`
}

// Column describes one column of a table.
type Column struct {
	// ID is the column identifier, unique within its table.
	ID string `json:"id"`

	// Label is the display label. Empty means the backend derived it from ID.
	Label string `json:"label,omitempty"`

	// Type is the backend column type, e.g. "Text", "Int", "Numeric", "Bool",
	// "Date", "DateTime:<zone>", "Choice", "ChoiceList", "Ref:<table>",
	// "RefList:<table>" or "Attachments". SemanticTypeOf maps it to the
	// comparison family used during write verification.
	Type string `json:"type,omitempty"`

	// Formula is the column formula. A non-empty formula marks the column as
	// computed: direct cell writes are silently recalculated away, which is
	// one of the divergences write verification exists to catch.
	Formula string `json:"formula,omitempty"`
}

// ColumnUpdate names an existing column and the metadata fields to change.
// Only the listed fields are written, mirroring RecordUpdate semantics.
type ColumnUpdate struct {
	// ID is the identity of the column to update.
	ID string `json:"id"`

	// Fields holds the metadata to write, keyed by "label", "type" or
	// "formula".
	Fields map[string]any `json:"fields"`
}

// IsComputed reports whether the column carries a formula. Cell writes to a
// computed column do not stick; callers should not expect them to verify.
func (c Column) IsComputed() bool {
	return c.Formula != ""
}

// FieldMap flattens the column metadata into the field-map shape used by
// write verification. Only non-zero metadata is included, so a spec that
// never set a label does not demand one on read-back.
func (c Column) FieldMap() map[string]any {
	fields := make(map[string]any, 3)
	if c.Label != "" {
		fields["label"] = c.Label
	}
	if c.Type != "" {
		fields["type"] = c.Type
	}
	if c.Formula != "" {
		fields["formula"] = c.Formula
	}
	return fields
}
