package sdk

import (
	"context"

	"github.com/tessera-data/sdk/mutation"
	"github.com/tessera-data/sdk/types"
	"github.com/tessera-data/sdk/verify"
)

// TablesService mutates the tables of one document. Obtain one with
// Client.Tables.
//
// A table's ID is its identity, so renaming a table is an identity relabel:
// with verification on, the old ID must stop resolving and the new ID must
// resolve. Every schema mutation invalidates the cached column metadata of
// the tables it touches.
type TablesService struct {
	client *Client
	doc    string
}

// List returns the document's tables.
func (s *TablesService) List(ctx context.Context) ([]types.Table, error) {
	if err := s.check("Tables.List"); err != nil {
		return nil, err
	}
	return s.client.api.ListTables(ctx, s.doc)
}

// Create adds a table with the given id and initial columns. With
// verification on, the new id must resolve on read-back.
func (s *TablesService) Create(ctx context.Context, spec types.TableSpec, opts ...CallOption) (types.Table, error) {
	if err := s.check("Tables.Create"); err != nil {
		return types.Table{}, err
	}
	return mutation.Add(ctx, tableAdder{svc: s}, spec, s.client.mutationOptions(opts))
}

// Rename moves a table from oldID to newID. Even with verification off, the
// new id is still resolved, because the result cannot be built without that
// read.
func (s *TablesService) Rename(ctx context.Context, oldID, newID string, opts ...CallOption) (types.Table, error) {
	if err := s.check("Tables.Rename"); err != nil {
		return types.Table{}, err
	}
	in := tableRename{Old: oldID, New: newID}
	return mutation.Rename(ctx, tableRenamer{svc: s}, in, s.client.mutationOptions(opts))
}

// Delete removes the given tables together with their columns and records.
// With verification on, every deleted id must come back absent.
func (s *TablesService) Delete(ctx context.Context, ids []string, opts ...CallOption) error {
	if err := s.check("Tables.Delete"); err != nil {
		return err
	}
	_, err := mutation.Delete(ctx, tableDeleter{svc: s}, ids, s.client.mutationOptions(opts))
	return err
}

func (s *TablesService) check(op string) error {
	if s.doc == "" {
		return NewValidationError(op, ErrMissingIdentity).WithContext(map[string]any{"doc": s.doc})
	}
	return nil
}

// resolveTables returns current state aligned to ids, nil for tables that
// do not resolve.
func (s *TablesService) resolveTables(ctx context.Context, ids []string) ([]*verify.Entity[string], error) {
	tables, err := s.client.api.ListTables(ctx, s.doc)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(tables))
	for _, t := range tables {
		present[t.ID] = true
	}

	out := make([]*verify.Entity[string], len(ids))
	for i, id := range ids {
		if present[id] {
			out[i] = &verify.Entity[string]{ID: id}
		}
	}
	return out, nil
}

// tableAdder is the Add strategy for tables. A table entity carries no
// fields, so verification reduces to "the new id resolves".
type tableAdder struct {
	svc *TablesService
}

func (a tableAdder) EntityType() string { return "table" }

func (a tableAdder) EntityID(spec types.TableSpec, _ []verify.Entity[string]) string {
	return entityLabel(a.svc.doc, []string{spec.ID})
}

func (a tableAdder) Execute(ctx context.Context, spec types.TableSpec) ([]verify.Entity[string], error) {
	table, err := a.svc.client.api.CreateTable(ctx, a.svc.doc, spec)
	if err != nil {
		return nil, err
	}
	return []verify.Entity[string]{{ID: table.ID}}, nil
}

func (a tableAdder) ReadBack(ctx context.Context, ids []string) ([]*verify.Entity[string], error) {
	return a.svc.resolveTables(ctx, ids)
}

func (a tableAdder) AfterExecute(ctx context.Context, spec types.TableSpec) error {
	return a.svc.client.schema.Invalidate(ctx, a.svc.doc, spec.ID)
}

func (a tableAdder) BuildResult(written []verify.Entity[string], _ types.TableSpec) types.Table {
	return types.Table{ID: written[0].ID}
}

// tableRename is the Rename input: the identity to move and its new value.
type tableRename struct {
	Old string
	New string
}

// tableRenamer is the Rename strategy for tables.
type tableRenamer struct {
	svc *TablesService
}

func (r tableRenamer) EntityType() string { return "table" }

func (r tableRenamer) EntityID(in tableRename) string {
	return r.svc.doc + "[" + in.Old + " -> " + in.New + "]"
}

func (r tableRenamer) OldID(in tableRename) string { return in.Old }

func (r tableRenamer) NewID(in tableRename) string { return in.New }

func (r tableRenamer) Execute(ctx context.Context, in tableRename) error {
	return r.svc.client.api.RenameTable(ctx, r.svc.doc, in.Old, in.New)
}

func (r tableRenamer) ReadBack(ctx context.Context, id string) (*verify.Entity[string], error) {
	resolved, err := r.svc.resolveTables(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return resolved[0], nil
}

// AfterExecute drops cached metadata under both identities: the old one is
// stale, the new one may shadow an earlier table of the same name.
func (r tableRenamer) AfterExecute(ctx context.Context, in tableRename) error {
	if err := r.svc.client.schema.Invalidate(ctx, r.svc.doc, in.Old); err != nil {
		return err
	}
	return r.svc.client.schema.Invalidate(ctx, r.svc.doc, in.New)
}

func (r tableRenamer) BuildResult(entity verify.Entity[string], _ tableRename) types.Table {
	return types.Table{ID: entity.ID}
}

// tableDeleter is the Delete strategy for tables.
type tableDeleter struct {
	svc *TablesService
}

func (d tableDeleter) EntityType() string { return "table" }

func (d tableDeleter) EntityID(_ []string, deleted []string) string {
	return entityLabel(d.svc.doc, deleted)
}

func (d tableDeleter) Execute(ctx context.Context, ids []string) ([]string, error) {
	for _, id := range ids {
		if err := d.svc.client.api.DeleteTable(ctx, d.svc.doc, id); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (d tableDeleter) ReadBack(ctx context.Context, ids []string) ([]*verify.Entity[string], error) {
	return d.svc.resolveTables(ctx, ids)
}

func (d tableDeleter) AfterExecute(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := d.svc.client.schema.Invalidate(ctx, d.svc.doc, id); err != nil {
			return err
		}
	}
	return nil
}

func (d tableDeleter) BuildResult(deleted []string, _ []string) []string {
	return deleted
}
