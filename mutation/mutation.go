// Package mutation implements the write-read-verify executors behind every
// mutating operation of the SDK.
//
// Each executor is a fixed skeleton: perform the write, run the strategy's
// optional post-write hook, optionally read the persisted state back and
// verify it against what was written, then build the caller's result. The
// skeletons are generic over the input shape I, the entity identity ID and
// the result shape R; concrete strategies supply the backend calls and the
// result assembly.
//
// Failure is two-valued. An error from the write itself propagates
// unmodified: the backend rejected the mutation and verification never
// starts. An error detected after the write was accepted is always a
// *verify.Error carrying the full evidence. Callers tell the two apart with
// errors.As:
//
//	var verr *verify.Error
//	if errors.As(err, &verr) {
//	    // accepted but unconfirmed: inspect verr.FailedChecks()
//	} else if err != nil {
//	    // rejected outright
//	}
package mutation

import (
	"context"
	"errors"

	"github.com/tessera-data/sdk/types"
	"github.com/tessera-data/sdk/verify"
)

// ErrEntityNotFound reports that an entity needed to build an operation's
// result did not resolve.
var ErrEntityNotFound = errors.New("mutation: entity not found")

// Options are the per-call knobs of an executor run.
type Options struct {
	// Verify enables the post-write read-back and comparison. When false,
	// Add, Update and Delete skip verification entirely; Rename still checks
	// that the new identity resolves, because its result cannot be built
	// without that read.
	Verify bool

	// Observer receives logs, spans and metrics for the run. nil disables
	// all three.
	Observer *Observer
}

// Adder is the strategy behind Add: a creation returning the written
// entities with their backend-assigned identities.
type Adder[I any, ID comparable, R any] interface {
	// EntityType labels the entity kind for diagnostics, e.g. "record".
	EntityType() string

	// EntityID formats a diagnostic identity for the written set, e.g.
	// "Tasks[41, 42]".
	EntityID(input I, written []verify.Entity[ID]) string

	// Execute performs the creation. The returned entities carry their
	// assigned identities and the fields as written. An error means the
	// backend rejected the write.
	Execute(ctx context.Context, input I) ([]verify.Entity[ID], error)

	// ReadBack returns the current state of the given identities, aligned
	// with nil for entities that do not resolve. It never reports absence
	// as an error.
	ReadBack(ctx context.Context, ids []ID) ([]*verify.Entity[ID], error)

	// BuildResult converts the written entities and the original input into
	// the caller-facing shape. It is pure.
	BuildResult(written []verify.Entity[ID], input I) R
}

// Updater is the strategy behind Update. It mirrors Adder except that the
// comparison set is the update payload: UpdatedFields names the fields the
// caller actually tried to change, and only those are verified.
type Updater[I any, ID comparable, R any] interface {
	EntityType() string
	EntityID(input I, written []verify.Entity[ID]) string
	Execute(ctx context.Context, input I) ([]verify.Entity[ID], error)
	ReadBack(ctx context.Context, ids []ID) ([]*verify.Entity[ID], error)

	// UpdatedFields returns the field IDs present in the update payload for
	// the given written entity. Fields outside this set never fail
	// verification, however they read back.
	UpdatedFields(input I, written verify.Entity[ID]) []string

	BuildResult(written []verify.Entity[ID], input I) R
}

// Deleter is the strategy behind Delete: the write returns the deleted
// identities and verification confirms none of them still resolve.
type Deleter[I any, ID comparable, R any] interface {
	EntityType() string
	EntityID(input I, deleted []ID) string
	Execute(ctx context.Context, input I) ([]ID, error)
	ReadBack(ctx context.Context, ids []ID) ([]*verify.Entity[ID], error)
	BuildResult(deleted []ID, input I) R
}

// Renamer is the strategy behind Rename, an identity relabel: the write
// moves an entity from OldID to NewID and returns nothing, so the executor
// always has to read the new identity back to build the result.
type Renamer[I any, ID comparable, R any] interface {
	EntityType() string

	// EntityID formats a diagnostic identity for the rename, e.g.
	// "Tasks -> Projects".
	EntityID(input I) string

	// OldID and NewID extract the two identities from the input.
	OldID(input I) ID
	NewID(input I) ID

	// Execute performs the rename. An error means the backend rejected it.
	Execute(ctx context.Context, input I) error

	// ReadBack resolves one identity to its current state, nil when it does
	// not resolve. It never reports absence as an error.
	ReadBack(ctx context.Context, id ID) (*verify.Entity[ID], error)

	// BuildResult converts the re-read entity under its new identity into
	// the caller-facing shape. It is pure.
	BuildResult(entity verify.Entity[ID], input I) R
}

// AfterExecutor is an optional strategy capability: a side-effecting hook
// run once after every accepted write, whether or not verification was
// requested. The SDK uses it to invalidate schema caches. An error from the
// hook fails the operation.
type AfterExecutor[I any] interface {
	AfterExecute(ctx context.Context, input I) error
}

// ColumnTyper is an optional strategy capability supplying semantic type
// hints for the written fields. Without it, verification compares values
// structurally with no coercion.
type ColumnTyper[I any] interface {
	ColumnTypes(ctx context.Context, input I) (map[string]types.SemanticType, error)
}

// FieldSelector is an optional strategy capability restricting which fields
// Add verifies. Without it, every field present on a written entity is
// compared.
type FieldSelector[I any] interface {
	VerifyFields(input I) []string
}
