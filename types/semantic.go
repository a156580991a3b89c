package types

import "strings"

// SemanticType labels how a field's value should be interpreted when two wire
// encodings of "the same" value are compared. It is supplied per column by the
// schema service; SemanticUnknown means "compare structurally, no coercion".
type SemanticType string

const (
	// SemanticUnknown disables type-aware canonicalization for a field.
	// Values compare structurally with no coercion of any kind.
	SemanticUnknown SemanticType = ""

	// SemanticText is plain text. Strict value equality.
	SemanticText SemanticType = "text"

	// SemanticInteger is a whole number. Strict value equality.
	SemanticInteger SemanticType = "integer"

	// SemanticDecimal is a fractional number. Strict value equality.
	SemanticDecimal SemanticType = "decimal"

	// SemanticBoolean is a true/false value. Strict value equality.
	SemanticBoolean SemanticType = "boolean"

	// SemanticInstant is a point in time. The backend interchangeably encodes
	// instants as numeric epoch seconds, ISO-8601 strings, or tagged tuples;
	// only the instant is compared and zone labels are ignored.
	SemanticInstant SemanticType = "instant"

	// SemanticTaggedList is an ordered sequence that may arrive with a
	// leading list-marker token (choice lists, attachments).
	SemanticTaggedList SemanticType = "tagged-list"

	// SemanticReference is a single reference to a row of another table,
	// encoded as a bare row id or a tagged (marker, table, id) tuple.
	SemanticReference SemanticType = "reference"

	// SemanticReferenceList is an ordered sequence of row references with
	// the same list-marker convention as SemanticTaggedList.
	SemanticReferenceList SemanticType = "reference-list"
)

// String returns the string representation of the semantic type.
func (s SemanticType) String() string {
	return string(s)
}

// IsValid returns true if the semantic type is a recognized value.
// SemanticUnknown is valid: it is the explicit "no hint" marker.
func (s SemanticType) IsValid() bool {
	switch s {
	case SemanticUnknown, SemanticText, SemanticInteger, SemanticDecimal,
		SemanticBoolean, SemanticInstant, SemanticTaggedList,
		SemanticReference, SemanticReferenceList:
		return true
	default:
		return false
	}
}

// SemanticTypeOf maps a backend column type to its semantic comparison
// family. Parameterized column types carry their argument after a colon
// ("DateTime:America/New_York", "Ref:Projects"); only the base name selects
// the family. Unrecognized column types map to SemanticUnknown so that no
// false equivalences are invented for encodings this SDK does not know.
func SemanticTypeOf(columnType string) SemanticType {
	base := columnType
	if i := strings.IndexByte(columnType, ':'); i >= 0 {
		base = columnType[:i]
	}
	switch base {
	case "Text", "Choice":
		return SemanticText
	case "Int":
		return SemanticInteger
	case "Numeric":
		return SemanticDecimal
	case "Bool":
		return SemanticBoolean
	case "Date", "DateTime":
		return SemanticInstant
	case "ChoiceList", "Attachments":
		return SemanticTaggedList
	case "Ref":
		return SemanticReference
	case "RefList":
		return SemanticReferenceList
	default:
		return SemanticUnknown
	}
}
