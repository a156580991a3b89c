// Package types provides core type definitions for the Tessera Go SDK.
//
// This package defines the value objects shared across the SDK: records,
// tables, columns, the semantic type system used for cross-encoding value
// comparison, and health status reporting.
//
// # Records
//
// A Record is one row of a table: a backend-assigned numeric identity plus a
// field map. Records are transient value objects; the SDK never caches them
// beyond a single operation:
//
//	rec := types.Record{
//	    ID: 41,
//	    Fields: map[string]any{
//	        "Title": "Quarterly review",
//	        "Tags":  []any{"finance", "q3"},
//	    },
//	}
//
// # Semantic Types
//
// The backend exposes several wire encodings for the same logical value (a
// reference may arrive as a bare id or as a tagged tuple, an instant as an
// epoch number or an ISO string). SemanticType labels how a field should be
// interpreted when two encodings are compared:
//
//	st := types.SemanticTypeOf("DateTime:America/New_York") // SemanticInstant
//	st = types.SemanticTypeOf("Ref:Projects")               // SemanticReference
//
// SemanticUnknown means "compare structurally, no coercion".
//
// # Health
//
// HealthStatus reports backend reachability:
//
//	status := types.NewHealthyStatus("backend reachable")
//	if !status.IsHealthy() {
//	    log.Println(status.Message)
//	}
package types
