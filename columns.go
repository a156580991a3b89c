package sdk

import (
	"context"
	"fmt"

	"github.com/tessera-data/sdk/mutation"
	"github.com/tessera-data/sdk/types"
	"github.com/tessera-data/sdk/verify"
)

// ColumnsService mutates the columns of one table. Obtain one with
// Client.Columns.
//
// Column mutations are schema edits: each one invalidates the table's cached
// column metadata, so the next record verification picks up the new types.
// With verification on, created and updated column metadata is read back and
// compared field by field, just like record writes.
type ColumnsService struct {
	client *Client
	doc    string
	table  string
}

// List returns the table's columns with their metadata.
func (s *ColumnsService) List(ctx context.Context) ([]types.Column, error) {
	if err := s.check("Columns.List"); err != nil {
		return nil, err
	}
	return s.client.api.ListColumns(ctx, s.doc, s.table)
}

// Create adds the given columns and returns them with their backend-assigned
// ids, in input order.
func (s *ColumnsService) Create(ctx context.Context, cols []types.Column, opts ...CallOption) ([]types.Column, error) {
	if err := s.check("Columns.Create"); err != nil {
		return nil, err
	}
	return mutation.Add(ctx, columnAdder{svc: s}, cols, s.client.mutationOptions(opts))
}

// Update applies each update's metadata fields to its column. Verification
// is partial: only the fields named in an update are compared.
func (s *ColumnsService) Update(ctx context.Context, updates []types.ColumnUpdate, opts ...CallOption) error {
	if err := s.check("Columns.Update"); err != nil {
		return err
	}
	_, err := mutation.Update(ctx, columnUpdater{svc: s}, updates, s.client.mutationOptions(opts))
	return err
}

// Delete removes the given columns and their data. With verification on,
// every deleted id must come back absent.
func (s *ColumnsService) Delete(ctx context.Context, ids []string, opts ...CallOption) error {
	if err := s.check("Columns.Delete"); err != nil {
		return err
	}
	_, err := mutation.Delete(ctx, columnDeleter{svc: s}, ids, s.client.mutationOptions(opts))
	return err
}

func (s *ColumnsService) check(op string) error {
	if s.doc == "" || s.table == "" {
		return NewValidationError(op, ErrMissingIdentity).WithContext(map[string]any{
			"doc":   s.doc,
			"table": s.table,
		})
	}
	return nil
}

func (s *ColumnsService) entityID(ids []string) string {
	return entityLabel(s.table, ids)
}

// invalidate drops this table's cached column metadata.
func (s *ColumnsService) invalidate(ctx context.Context) error {
	return s.client.schema.Invalidate(ctx, s.doc, s.table)
}

// readBack fetches current column metadata aligned to ids, nil for columns
// that no longer resolve. It bypasses the metadata cache: verification must
// see what the backend persisted, not what the cache remembers.
func (s *ColumnsService) readBack(ctx context.Context, ids []string) ([]*verify.Entity[string], error) {
	cols, err := s.client.api.ListColumns(ctx, s.doc, s.table)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]types.Column, len(cols))
	for _, col := range cols {
		byID[col.ID] = col
	}

	out := make([]*verify.Entity[string], len(ids))
	for i, id := range ids {
		if col, ok := byID[id]; ok {
			out[i] = &verify.Entity[string]{ID: col.ID, Fields: col.FieldMap()}
		}
	}
	return out, nil
}

// columnAdder is the Add strategy for columns.
type columnAdder struct {
	svc *ColumnsService
}

func (a columnAdder) EntityType() string { return "column" }

func (a columnAdder) EntityID(_ []types.Column, written []verify.Entity[string]) string {
	ids := make([]string, len(written))
	for i, e := range written {
		ids[i] = e.ID
	}
	return a.svc.entityID(ids)
}

func (a columnAdder) Execute(ctx context.Context, cols []types.Column) ([]verify.Entity[string], error) {
	ids, err := a.svc.client.api.CreateColumns(ctx, a.svc.doc, a.svc.table, cols)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(cols) {
		return nil, fmt.Errorf("backend assigned %d ids for %d new columns", len(ids), len(cols))
	}

	written := make([]verify.Entity[string], len(ids))
	for i, id := range ids {
		written[i] = verify.Entity[string]{ID: id, Fields: cols[i].FieldMap()}
	}
	return written, nil
}

func (a columnAdder) ReadBack(ctx context.Context, ids []string) ([]*verify.Entity[string], error) {
	return a.svc.readBack(ctx, ids)
}

func (a columnAdder) AfterExecute(ctx context.Context, _ []types.Column) error {
	return a.svc.invalidate(ctx)
}

func (a columnAdder) BuildResult(written []verify.Entity[string], cols []types.Column) []types.Column {
	out := make([]types.Column, len(written))
	for i, e := range written {
		out[i] = cols[i]
		out[i].ID = e.ID
	}
	return out
}

// columnUpdater is the Update strategy for columns.
type columnUpdater struct {
	svc *ColumnsService
}

func (u columnUpdater) EntityType() string { return "column" }

func (u columnUpdater) EntityID(updates []types.ColumnUpdate, _ []verify.Entity[string]) string {
	ids := make([]string, len(updates))
	for i, up := range updates {
		ids[i] = up.ID
	}
	return u.svc.entityID(ids)
}

func (u columnUpdater) Execute(ctx context.Context, updates []types.ColumnUpdate) ([]verify.Entity[string], error) {
	if err := u.svc.client.api.UpdateColumns(ctx, u.svc.doc, u.svc.table, updates); err != nil {
		return nil, err
	}

	written := make([]verify.Entity[string], len(updates))
	for i, up := range updates {
		written[i] = verify.Entity[string]{ID: up.ID, Fields: up.Fields}
	}
	return written, nil
}

func (u columnUpdater) ReadBack(ctx context.Context, ids []string) ([]*verify.Entity[string], error) {
	return u.svc.readBack(ctx, ids)
}

func (u columnUpdater) UpdatedFields(updates []types.ColumnUpdate, written verify.Entity[string]) []string {
	for _, up := range updates {
		if up.ID == written.ID {
			return fieldNames(up.Fields)
		}
	}
	return nil
}

func (u columnUpdater) AfterExecute(ctx context.Context, _ []types.ColumnUpdate) error {
	return u.svc.invalidate(ctx)
}

func (u columnUpdater) BuildResult(_ []verify.Entity[string], updates []types.ColumnUpdate) []types.ColumnUpdate {
	return updates
}

// columnDeleter is the Delete strategy for columns.
type columnDeleter struct {
	svc *ColumnsService
}

func (d columnDeleter) EntityType() string { return "column" }

func (d columnDeleter) EntityID(_ []string, deleted []string) string {
	return d.svc.entityID(deleted)
}

func (d columnDeleter) Execute(ctx context.Context, ids []string) ([]string, error) {
	for _, id := range ids {
		if err := d.svc.client.api.DeleteColumn(ctx, d.svc.doc, d.svc.table, id); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (d columnDeleter) ReadBack(ctx context.Context, ids []string) ([]*verify.Entity[string], error) {
	return d.svc.readBack(ctx, ids)
}

func (d columnDeleter) AfterExecute(ctx context.Context, _ []string) error {
	return d.svc.invalidate(ctx)
}

func (d columnDeleter) BuildResult(deleted []string, _ []string) []string {
	return deleted
}
