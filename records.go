package sdk

import (
	"context"
	"fmt"

	"github.com/tessera-data/sdk/mutation"
	"github.com/tessera-data/sdk/types"
	"github.com/tessera-data/sdk/verify"
)

// RecordsService mutates and reads the rows of one table. Obtain one with
// Client.Records.
//
// Create, Update and Delete run through the verified mutation engine: with
// verification on (the default) each write is read back and compared
// field-by-field against what was written, using the table's column
// metadata to bridge the backend's different wire encodings.
type RecordsService struct {
	client *Client
	doc    string
	table  string
}

// Create adds one row per field map and returns the created records with
// their backend-assigned ids, carrying the fields as written.
func (s *RecordsService) Create(ctx context.Context, fields []map[string]any, opts ...CallOption) ([]types.Record, error) {
	if err := s.check("Records.Create"); err != nil {
		return nil, err
	}
	return mutation.Add(ctx, recordAdder{svc: s}, fields, s.client.mutationOptions(opts))
}

// Update applies each update's fields to its row. Verification is partial:
// only the fields named in an update are compared, so a column the caller
// did not touch can never fail it.
func (s *RecordsService) Update(ctx context.Context, updates []types.RecordUpdate, opts ...CallOption) ([]types.Record, error) {
	if err := s.check("Records.Update"); err != nil {
		return nil, err
	}
	return mutation.Update(ctx, recordUpdater{svc: s}, updates, s.client.mutationOptions(opts))
}

// Delete removes the given rows. With verification on, the ids are
// re-queried afterwards and every one of them must come back absent.
func (s *RecordsService) Delete(ctx context.Context, ids []int64, opts ...CallOption) error {
	if err := s.check("Records.Delete"); err != nil {
		return err
	}
	_, err := mutation.Delete(ctx, recordDeleter{svc: s}, ids, s.client.mutationOptions(opts))
	return err
}

// Get returns current row state. With no ids it returns every row of the
// table; ids that do not resolve are simply absent from the result.
func (s *RecordsService) Get(ctx context.Context, ids ...int64) ([]types.Record, error) {
	if err := s.check("Records.Get"); err != nil {
		return nil, err
	}
	return s.client.api.GetRecords(ctx, s.doc, s.table, ids)
}

func (s *RecordsService) check(op string) error {
	if s.doc == "" || s.table == "" {
		return NewValidationError(op, ErrMissingIdentity).WithContext(map[string]any{
			"doc":   s.doc,
			"table": s.table,
		})
	}
	return nil
}

// entityID renders the diagnostic identity for a set of rows.
func (s *RecordsService) entityID(ids []int64) string {
	return entityLabel(s.table, ids)
}

// readBack fetches current row state aligned to ids, nil for rows that no
// longer resolve.
func (s *RecordsService) readBack(ctx context.Context, ids []int64) ([]*verify.Entity[int64], error) {
	records, err := s.client.api.GetRecords(ctx, s.doc, s.table, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]types.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	out := make([]*verify.Entity[int64], len(ids))
	for i, id := range ids {
		if r, ok := byID[id]; ok {
			out[i] = &verify.Entity[int64]{ID: r.ID, Fields: r.Fields}
		}
	}
	return out, nil
}

// columnTypes supplies the semantic type hints for this table's columns.
func (s *RecordsService) columnTypes(ctx context.Context) (map[string]types.SemanticType, error) {
	return s.client.schema.ColumnTypes(ctx, s.doc, s.table)
}

func recordsFromEntities(entities []verify.Entity[int64]) []types.Record {
	out := make([]types.Record, len(entities))
	for i, e := range entities {
		out[i] = types.Record{ID: e.ID, Fields: e.Fields}
	}
	return out
}

// recordAdder is the Add strategy for rows.
type recordAdder struct {
	svc *RecordsService
}

func (a recordAdder) EntityType() string { return "record" }

func (a recordAdder) EntityID(_ []map[string]any, written []verify.Entity[int64]) string {
	ids := make([]int64, len(written))
	for i, e := range written {
		ids[i] = e.ID
	}
	return a.svc.entityID(ids)
}

func (a recordAdder) Execute(ctx context.Context, fields []map[string]any) ([]verify.Entity[int64], error) {
	ids, err := a.svc.client.api.CreateRecords(ctx, a.svc.doc, a.svc.table, fields)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(fields) {
		return nil, fmt.Errorf("backend assigned %d ids for %d new records", len(ids), len(fields))
	}

	written := make([]verify.Entity[int64], len(ids))
	for i, id := range ids {
		written[i] = verify.Entity[int64]{ID: id, Fields: fields[i]}
	}
	return written, nil
}

func (a recordAdder) ReadBack(ctx context.Context, ids []int64) ([]*verify.Entity[int64], error) {
	return a.svc.readBack(ctx, ids)
}

func (a recordAdder) ColumnTypes(ctx context.Context, _ []map[string]any) (map[string]types.SemanticType, error) {
	return a.svc.columnTypes(ctx)
}

func (a recordAdder) BuildResult(written []verify.Entity[int64], _ []map[string]any) []types.Record {
	return recordsFromEntities(written)
}

// recordUpdater is the Update strategy for rows.
type recordUpdater struct {
	svc *RecordsService
}

func (u recordUpdater) EntityType() string { return "record" }

func (u recordUpdater) EntityID(updates []types.RecordUpdate, _ []verify.Entity[int64]) string {
	ids := make([]int64, len(updates))
	for i, up := range updates {
		ids[i] = up.ID
	}
	return u.svc.entityID(ids)
}

func (u recordUpdater) Execute(ctx context.Context, updates []types.RecordUpdate) ([]verify.Entity[int64], error) {
	if err := u.svc.client.api.UpdateRecords(ctx, u.svc.doc, u.svc.table, updates); err != nil {
		return nil, err
	}

	written := make([]verify.Entity[int64], len(updates))
	for i, up := range updates {
		written[i] = verify.Entity[int64]{ID: up.ID, Fields: up.Fields}
	}
	return written, nil
}

func (u recordUpdater) ReadBack(ctx context.Context, ids []int64) ([]*verify.Entity[int64], error) {
	return u.svc.readBack(ctx, ids)
}

func (u recordUpdater) UpdatedFields(updates []types.RecordUpdate, written verify.Entity[int64]) []string {
	for _, up := range updates {
		if up.ID == written.ID {
			return fieldNames(up.Fields)
		}
	}
	return nil
}

func (u recordUpdater) ColumnTypes(ctx context.Context, _ []types.RecordUpdate) (map[string]types.SemanticType, error) {
	return u.svc.columnTypes(ctx)
}

func (u recordUpdater) BuildResult(written []verify.Entity[int64], _ []types.RecordUpdate) []types.Record {
	return recordsFromEntities(written)
}

// recordDeleter is the Delete strategy for rows.
type recordDeleter struct {
	svc *RecordsService
}

func (d recordDeleter) EntityType() string { return "record" }

func (d recordDeleter) EntityID(_ []int64, deleted []int64) string {
	return d.svc.entityID(deleted)
}

func (d recordDeleter) Execute(ctx context.Context, ids []int64) ([]int64, error) {
	if err := d.svc.client.api.DeleteRecords(ctx, d.svc.doc, d.svc.table, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (d recordDeleter) ReadBack(ctx context.Context, ids []int64) ([]*verify.Entity[int64], error) {
	return d.svc.readBack(ctx, ids)
}

func (d recordDeleter) BuildResult(deleted []int64, _ []int64) []int64 {
	return deleted
}
