package api

import (
	"context"
	"net/http"

	"github.com/tessera-data/sdk/types"
)

// columnPayload is the wire shape for column metadata: the id plus a field
// map holding label, type and formula.
type columnPayload struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields,omitempty"`
}

func columnToPayload(col types.Column) columnPayload {
	return columnPayload{ID: col.ID, Fields: col.FieldMap()}
}

func columnFromPayload(p columnPayload) types.Column {
	col := types.Column{ID: p.ID}
	if v, ok := p.Fields["label"].(string); ok {
		col.Label = v
	}
	if v, ok := p.Fields["type"].(string); ok {
		col.Type = v
	}
	if v, ok := p.Fields["formula"].(string); ok {
		col.Formula = v
	}
	return col
}

// ListTables returns the document's tables.
func (c *Client) ListTables(ctx context.Context, doc string) ([]types.Table, error) {
	var out struct {
		Tables []types.Table `json:"tables"`
	}
	if err := c.do(ctx, http.MethodGet, docPath(doc, "tables"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Tables, nil
}

// CreateTable creates a table with the given id and initial columns.
func (c *Client) CreateTable(ctx context.Context, doc string, spec types.TableSpec) (types.Table, error) {
	type newTable struct {
		ID      string          `json:"id"`
		Columns []columnPayload `json:"columns,omitempty"`
	}
	nt := newTable{ID: spec.ID}
	for _, col := range spec.Columns {
		nt.Columns = append(nt.Columns, columnToPayload(col))
	}
	in := struct {
		Tables []newTable `json:"tables"`
	}{Tables: []newTable{nt}}

	var out struct {
		Tables []types.Table `json:"tables"`
	}
	if err := c.do(ctx, http.MethodPost, docPath(doc, "tables"), nil, in, &out); err != nil {
		return types.Table{}, err
	}
	if len(out.Tables) == 0 {
		return types.Table{ID: spec.ID}, nil
	}
	return out.Tables[0], nil
}

// RenameTable changes a table's id. The table keeps its data; only the
// identity moves.
func (c *Client) RenameTable(ctx context.Context, doc, oldID, newID string) error {
	type tableRename struct {
		ID     string         `json:"id"`
		Fields map[string]any `json:"fields"`
	}
	in := struct {
		Tables []tableRename `json:"tables"`
	}{Tables: []tableRename{{ID: oldID, Fields: map[string]any{"tableId": newID}}}}

	return c.do(ctx, http.MethodPatch, docPath(doc, "tables"), nil, in, nil)
}

// DeleteTable removes one table together with its columns and records.
func (c *Client) DeleteTable(ctx context.Context, doc, table string) error {
	return c.do(ctx, http.MethodDelete, docPath(doc, "tables", table), nil, nil, nil)
}

// ListColumns returns a table's columns with their metadata.
func (c *Client) ListColumns(ctx context.Context, doc, table string) ([]types.Column, error) {
	var out struct {
		Columns []columnPayload `json:"columns"`
	}
	if err := c.do(ctx, http.MethodGet, docPath(doc, "tables", table, "columns"), nil, nil, &out); err != nil {
		return nil, err
	}

	cols := make([]types.Column, len(out.Columns))
	for i, p := range out.Columns {
		cols[i] = columnFromPayload(p)
	}
	return cols, nil
}

// CreateColumns adds columns to a table and returns the created column ids
// in input order.
func (c *Client) CreateColumns(ctx context.Context, doc, table string, cols []types.Column) ([]string, error) {
	in := struct {
		Columns []columnPayload `json:"columns"`
	}{Columns: make([]columnPayload, len(cols))}
	for i, col := range cols {
		in.Columns[i] = columnToPayload(col)
	}

	var out struct {
		Columns []struct {
			ID string `json:"id"`
		} `json:"columns"`
	}
	if err := c.do(ctx, http.MethodPost, docPath(doc, "tables", table, "columns"), nil, in, &out); err != nil {
		return nil, err
	}

	ids := make([]string, len(out.Columns))
	for i, p := range out.Columns {
		ids[i] = p.ID
	}
	return ids, nil
}

// UpdateColumns applies metadata changes to existing columns. Only the
// fields named in each update are written.
func (c *Client) UpdateColumns(ctx context.Context, doc, table string, updates []types.ColumnUpdate) error {
	in := struct {
		Columns []types.ColumnUpdate `json:"columns"`
	}{Columns: updates}
	return c.do(ctx, http.MethodPatch, docPath(doc, "tables", table, "columns"), nil, in, nil)
}

// DeleteColumn removes one column and its data.
func (c *Client) DeleteColumn(ctx context.Context, doc, table, column string) error {
	return c.do(ctx, http.MethodDelete, docPath(doc, "tables", table, "columns", column), nil, nil, nil)
}
