// Package sdk is the Go client for the Tessera tabular-data backend.
//
// Tessera documents contain tables with typed columns and numbered records.
// The SDK issues mutations against them (record creation, update and
// deletion, table creation, rename and deletion, column edits) and, after
// each write, certifies that the backend's persisted state matches what the
// caller intended. A caller is never told a write succeeded unless the state
// read back provably reflects it.
//
// # Core Concepts
//
// The SDK is organized around a small set of concepts:
//
//   - Client: the entry point; holds the transport, the metadata cache and
//     the client-wide defaults
//   - Services: per-entity-kind handles (Records, Tables, Columns) scoped to
//     a document or table
//   - Verification: the post-write read-back and comparison every mutating
//     operation runs by default
//   - Semantic types: per-column comparison hints that bridge the backend's
//     different wire encodings of the same logical value
//
// # Architecture
//
// The packages layer as follows:
//
//   - sdk: client facade, options, configuration and the concrete strategies
//   - mutation: the generic write-read-verify executors
//   - verify: the Check/Result evidence model and the verification error
//   - canon: value canonicalization and cross-encoding equivalence
//   - api: the REST transport (no retries; rejection surfaces as api.Error)
//   - schema, cache: column metadata resolution with TTL caching
//
// # Getting Started
//
// Create a client and mutate through its services:
//
//	import "github.com/tessera-data/sdk"
//
//	client, err := sdk.New(
//		sdk.WithBaseURL("https://tessera.example.com"),
//		sdk.WithAPIKey(os.Getenv("TESSERA_API_KEY")),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	records := client.Records("budget-2026", "Tasks")
//	created, err := records.Create(ctx, []map[string]any{
//		{"Title": "Quarterly review", "Tags": []any{"finance", "q3"}},
//	})
//
// # Verification
//
// With verification on (the default), each write is read back and compared
// field by field against what was written. Only the fields the write
// targeted are compared, so a derived column recalculating under an update
// never fails it, but a targeted field that did not stick always does.
// Comparison is type-aware: a choice list written as ["a", "b"] is
// equivalent to the backend's tagged ["L", "a", "b"] encoding, an instant
// written as an ISO-8601 string is equivalent to its numeric epoch, and a
// reference written as a bare id is equivalent to its tagged tuple. It is
// never lenient: strings and numbers do not coerce, and order matters.
//
// Disable verification per call with WithVerify(false), or client-wide with
// WithVerification(false).
//
// # Error Handling
//
// Failure is two-valued. A write the backend rejected surfaces as the
// transport's own error, typically *api.Error. A write the backend accepted
// but whose persisted state diverges surfaces as *verify.Error, carrying the
// itemized evidence and remediation guidance:
//
//	var verr *verify.Error
//	if errors.As(err, &verr) {
//		for _, check := range verr.FailedChecks() {
//			// inspect check.Field, check.Expected, check.Actual
//		}
//	}
//
// A *verify.Error is never retryable: it reports a real divergence between
// intended and persisted state.
//
// # Observability
//
// The client logs through log/slog and, when given a tracer or meter with
// WithTracer and WithMeter, records per-verification spans, operation
// duration histograms and failed-check counters via OpenTelemetry.
//
// # Thread Safety
//
// A Client and the services derived from it are safe for concurrent use.
package sdk
