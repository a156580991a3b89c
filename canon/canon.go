// Package canon reduces cell values to canonical forms so that a value
// written through the API can be compared with the value read back, even when
// the backend chose a different wire encoding for it.
//
// The backend is inconsistent about encodings in well-known ways: choice
// lists may or may not carry a leading list-marker token, references arrive
// as bare row ids or as tagged tuples, and instants arrive as epoch seconds,
// ISO-8601 strings, or tagged tuples with a zone label. Canonicalize folds
// each family to a single representation, directed by the column's
// types.SemanticType; Equivalent canonicalizes both operands and compares
// them structurally.
//
// Two principles bound what canonicalization may do. Values are never
// coerced across scalar kinds ("5" is not 5), and unknown encodings pass
// through untouched, so the comparison can be wrong only in the safe
// direction: a genuine divergence is never hidden, at worst a cosmetic one
// is reported.
package canon

import (
	"reflect"

	"github.com/tessera-data/sdk/types"
)

// Wire markers used by the backend's tagged encodings.
const (
	listMarker = "L"
	refMarker  = "R"
)

type undefinedValue struct{}

func (undefinedValue) String() string { return "undefined" }

// Undefined marks a field that was never part of a write. It is distinct
// from nil: nil is an explicit null cell, Undefined means "do not compare
// this field at all". Undefined is equivalent only to itself, never to nil.
var Undefined any = undefinedValue{}

// Canonicalize reduces value to its canonical form under the given semantic
// type hint. types.SemanticUnknown (or any unrecognized hint) applies only
// the structural normalization: numbers widen to float64, sequences become
// []any, string-keyed maps become map[string]any. The result is safe to
// compare with == for scalars and with Equivalent for containers.
func Canonicalize(value any, hint types.SemanticType) any {
	if value == nil {
		// An absent list canonicalizes to the empty list; for every other
		// type null stays null and equals only null.
		if hint == types.SemanticTaggedList || hint == types.SemanticReferenceList {
			return []any{}
		}
		return nil
	}
	if value == Undefined {
		return Undefined
	}

	switch hint {
	case types.SemanticInstant:
		return canonicalInstant(value)

	case types.SemanticTaggedList, types.SemanticReferenceList:
		if seq, ok := sequence(value); ok {
			return stripListMarker(seq)
		}

	case types.SemanticReference:
		// A tagged reference is a fixed ["R", table, id] tuple; the bare id
		// is the canonical form.
		if seq, ok := sequence(value); ok && len(seq) == 3 && seq[0] == refMarker {
			return normalize(seq[2])
		}
	}

	return normalize(value)
}

// Equivalent reports whether a and b denote the same logical value once both
// are canonicalized under the same semantic type hint. Sequences compare
// element-wise in order, maps by exact key set, scalars by strict equality.
// There is no cross-kind coercion: a string never equals a number and nil
// never equals Undefined, regardless of hint.
func Equivalent(a, b any, hint types.SemanticType) bool {
	return structuralEqual(Canonicalize(a, hint), Canonicalize(b, hint))
}

// stripListMarker drops a leading list-marker token and normalizes the
// remaining elements. The marker is stripped at most once.
func stripListMarker(seq []any) []any {
	if len(seq) > 0 && seq[0] == listMarker {
		seq = seq[1:]
	}
	out := make([]any, len(seq))
	for i, v := range seq {
		out[i] = normalize(v)
	}
	return out
}

// normalize rewrites a value into the canonical container and scalar kinds
// without interpreting it: every numeric kind widens to float64 (a written
// int and the float64 the JSON decoder hands back are the same logical
// value), sequences become []any and string-keyed maps become
// map[string]any, both with normalized contents. Strings, booleans, nil and
// anything without a canonical kind pass through.
func normalize(value any) any {
	if value == nil || value == Undefined {
		return value
	}
	switch v := value.(type) {
	case bool, string:
		return v
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = normalize(e)
		}
		return out
	}
	if f, ok := toFloat64(value); ok {
		return f
	}
	if seq, ok := sequence(value); ok {
		out := make([]any, len(seq))
		for i, e := range seq {
			out[i] = normalize(e)
		}
		return out
	}
	if m, ok := stringMap(value); ok {
		out := make(map[string]any, len(m))
		for k, e := range m {
			out[k] = normalize(e)
		}
		return out
	}
	return value
}

// structuralEqual compares two canonical values. Both operands are expected
// to have passed through Canonicalize already, so numbers are float64 and
// containers are []any or map[string]any; anything else falls back to
// reflect.DeepEqual.
func structuralEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == Undefined || b == Undefined {
		return a == Undefined && b == Undefined
	}

	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !structuralEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, present := bv[k]
			if !present || !structuralEqual(v, w) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

// sequence converts any slice or array to []any. Strings are not sequences.
func sequence(value any) ([]any, bool) {
	if s, ok := value.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// stringMap converts any map with string keys to map[string]any.
func stringMap(value any) (map[string]any, bool) {
	if m, ok := value.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// toFloat64 widens any numeric kind to float64. Booleans and strings are not
// numeric.
func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}
