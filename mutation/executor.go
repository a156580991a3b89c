package mutation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tessera-data/sdk/types"
	"github.com/tessera-data/sdk/verify"
)

// Add executes a creation. The write runs first and its error, if any,
// propagates unmodified. On success the optional AfterExecute hook runs,
// then, when opts.Verify is set, the new identities are read back and every
// written field is compared against persisted state. The strategy's result
// is returned only once verification (when requested) has passed.
func Add[I any, ID comparable, R any](ctx context.Context, strat Adder[I, ID, R], input I, opts Options) (R, error) {
	var zero R

	written, err := strat.Execute(ctx, input)
	if err != nil {
		opts.Observer.writeRejected(ctx, "add", strat.EntityType(), err)
		return zero, err
	}
	op := verify.OpContext{
		Operation:  "add",
		EntityType: strat.EntityType(),
		EntityID:   strat.EntityID(input, written),
	}
	opts.Observer.writeExecuted(ctx, op, len(written))

	if err := runAfterExecute(ctx, strat, input); err != nil {
		return zero, err
	}

	if opts.Verify {
		err := verifyWritten(ctx, strat, strat.ReadBack, op, input, written, nil, opts.Observer)
		if err != nil {
			return zero, err
		}
	}

	return strat.BuildResult(written, input), nil
}

// Update executes a partial modification. The skeleton is Add's, but the
// comparison set per entity comes from the strategy's UpdatedFields, so a
// field the caller did not touch can never fail verification.
func Update[I any, ID comparable, R any](ctx context.Context, strat Updater[I, ID, R], input I, opts Options) (R, error) {
	var zero R

	written, err := strat.Execute(ctx, input)
	if err != nil {
		opts.Observer.writeRejected(ctx, "update", strat.EntityType(), err)
		return zero, err
	}
	op := verify.OpContext{
		Operation:  "update",
		EntityType: strat.EntityType(),
		EntityID:   strat.EntityID(input, written),
	}
	opts.Observer.writeExecuted(ctx, op, len(written))

	if err := runAfterExecute(ctx, strat, input); err != nil {
		return zero, err
	}

	if opts.Verify {
		fieldsFor := func(w verify.Entity[ID]) []string {
			return strat.UpdatedFields(input, w)
		}
		err := verifyWritten(ctx, strat, strat.ReadBack, op, input, written, fieldsFor, opts.Observer)
		if err != nil {
			return zero, err
		}
	}

	return strat.BuildResult(written, input), nil
}

// Delete executes a removal. When opts.Verify is set, the deleted
// identities are re-queried and every one of them must come back absent.
func Delete[I any, ID comparable, R any](ctx context.Context, strat Deleter[I, ID, R], input I, opts Options) (R, error) {
	var zero R

	deleted, err := strat.Execute(ctx, input)
	if err != nil {
		opts.Observer.writeRejected(ctx, "delete", strat.EntityType(), err)
		return zero, err
	}
	op := verify.OpContext{
		Operation:  "delete",
		EntityType: strat.EntityType(),
		EntityID:   strat.EntityID(input, deleted),
	}
	opts.Observer.writeExecuted(ctx, op, len(deleted))

	if err := runAfterExecute(ctx, strat, input); err != nil {
		return zero, err
	}

	if opts.Verify {
		read, err := strat.ReadBack(ctx, deleted)
		if err != nil {
			return zero, verificationStopped(ctx, op, "read-back failed: "+err.Error(), opts.Observer)
		}
		remaining := make([]verify.Entity[ID], 0, len(read))
		for _, e := range read {
			if e != nil {
				remaining = append(remaining, *e)
			}
		}
		result := verify.Deleted(deleted, remaining)
		opts.Observer.verificationDone(ctx, op, result)
		if err := verify.ErrIfFailed(result, op); err != nil {
			return zero, err
		}
	}

	return strat.BuildResult(deleted, input), nil
}

// Rename executes an identity relabel. With verification on, the old and
// new identities are read back concurrently; the old one must no longer
// resolve and the new one must. With verification off, the executor still
// reads the new identity, because the result cannot be built without it;
// an absent entity then surfaces as ErrEntityNotFound rather than a
// verification failure.
func Rename[I any, ID comparable, R any](ctx context.Context, strat Renamer[I, ID, R], input I, opts Options) (R, error) {
	var zero R

	if err := strat.Execute(ctx, input); err != nil {
		opts.Observer.writeRejected(ctx, "rename", strat.EntityType(), err)
		return zero, err
	}
	op := verify.OpContext{
		Operation:  "rename",
		EntityType: strat.EntityType(),
		EntityID:   strat.EntityID(input),
	}
	opts.Observer.writeExecuted(ctx, op, 1)

	if err := runAfterExecute(ctx, strat, input); err != nil {
		return zero, err
	}

	oldID, newID := strat.OldID(input), strat.NewID(input)

	if !opts.Verify {
		entity, err := strat.ReadBack(ctx, newID)
		if err != nil {
			return zero, fmt.Errorf("reading %s %v after rename: %w", strat.EntityType(), newID, err)
		}
		if entity == nil {
			return zero, fmt.Errorf("%s %v missing after rename: %w", strat.EntityType(), newID, ErrEntityNotFound)
		}
		return strat.BuildResult(*entity, input), nil
	}

	// The two read-backs address disjoint identities, so they fork and join.
	var (
		wg             sync.WaitGroup
		oldEnt, newEnt *verify.Entity[ID]
		oldErr, newErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		oldEnt, oldErr = strat.ReadBack(ctx, oldID)
	}()
	go func() {
		defer wg.Done()
		newEnt, newErr = strat.ReadBack(ctx, newID)
	}()
	wg.Wait()

	if err := errors.Join(oldErr, newErr); err != nil {
		return zero, verificationStopped(ctx, op, "read-back failed: "+err.Error(), opts.Observer)
	}

	oldCheck := verify.NewCheck(fmt.Sprintf("old %s %v gone", strat.EntityType(), oldID), oldEnt == nil)
	if oldEnt != nil {
		oldCheck = verify.NewCheck(fmt.Sprintf("old %s %v still resolves", strat.EntityType(), oldID), false)
	}
	newCheck := verify.NewCheck(fmt.Sprintf("new %s %v resolves", strat.EntityType(), newID), newEnt != nil)
	if newEnt == nil {
		newCheck = verify.NewCheck(fmt.Sprintf("new %s %v not found", strat.EntityType(), newID), false)
	}

	result := verify.NewResult([]verify.Check{oldCheck, newCheck})
	opts.Observer.verificationDone(ctx, op, result)
	if err := verify.ErrIfFailed(result, op); err != nil {
		return zero, err
	}

	return strat.BuildResult(*newEnt, input), nil
}

// verifyWritten is the shared verification tail of Add and Update: resolve
// type hints, read the written identities back and fold the comparison into
// a Result. fieldsFor, when non-nil, overrides the comparison set per
// entity.
func verifyWritten[I any, ID comparable](
	ctx context.Context,
	strat any,
	readBack func(context.Context, []ID) ([]*verify.Entity[ID], error),
	op verify.OpContext,
	input I,
	written []verify.Entity[ID],
	fieldsFor func(verify.Entity[ID]) []string,
	obs *Observer,
) error {
	hints, err := columnTypes[I](ctx, strat, input)
	if err != nil {
		return verificationStopped(ctx, op, "column type lookup failed: "+err.Error(), obs)
	}

	read, err := readBack(ctx, writtenIDs(written))
	if err != nil {
		return verificationStopped(ctx, op, "read-back failed: "+err.Error(), obs)
	}

	cfg := verify.Config[ID]{
		Fields:    verifyFields[I](strat, input),
		FieldsFor: fieldsFor,
		Types:     hints,
	}
	result := verify.Entities(written, read, cfg)
	obs.verificationDone(ctx, op, result)
	return verify.ErrIfFailed(result, op)
}

// verificationStopped wraps a failure that prevented verification from
// running at all. The write was already accepted, so this is still a
// *verify.Error, with the cause as the result's top-level error.
func verificationStopped(ctx context.Context, op verify.OpContext, message string, obs *Observer) error {
	result := verify.NewErrorResult(message)
	obs.verificationDone(ctx, op, result)
	return verify.NewError(result, op)
}

func runAfterExecute[I any](ctx context.Context, strat any, input I) error {
	if hook, ok := strat.(AfterExecutor[I]); ok {
		return hook.AfterExecute(ctx, input)
	}
	return nil
}

func columnTypes[I any](ctx context.Context, strat any, input I) (map[string]types.SemanticType, error) {
	if ct, ok := strat.(ColumnTyper[I]); ok {
		return ct.ColumnTypes(ctx, input)
	}
	return nil, nil
}

func verifyFields[I any](strat any, input I) []string {
	if fs, ok := strat.(FieldSelector[I]); ok {
		return fs.VerifyFields(input)
	}
	return nil
}

func writtenIDs[ID comparable](written []verify.Entity[ID]) []ID {
	ids := make([]ID, len(written))
	for i, e := range written {
		ids[i] = e.ID
	}
	return ids
}
