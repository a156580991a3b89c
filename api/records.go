package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tessera-data/sdk/types"
)

type recordsEnvelope struct {
	Records []types.Record `json:"records"`
}

type newRecord struct {
	Fields map[string]any `json:"fields"`
}

// CreateRecords adds one record per field map and returns the
// backend-assigned row ids in input order.
func (c *Client) CreateRecords(ctx context.Context, doc, table string, fields []map[string]any) ([]int64, error) {
	in := struct {
		Records []newRecord `json:"records"`
	}{Records: make([]newRecord, len(fields))}
	for i, f := range fields {
		in.Records[i] = newRecord{Fields: f}
	}

	var out struct {
		Records []struct {
			ID int64 `json:"id"`
		} `json:"records"`
	}
	if err := c.do(ctx, http.MethodPost, docPath(doc, "tables", table, "records"), nil, in, &out); err != nil {
		return nil, err
	}

	ids := make([]int64, len(out.Records))
	for i, r := range out.Records {
		ids[i] = r.ID
	}
	return ids, nil
}

// UpdateRecords applies each update's fields to its row. Rows and fields not
// named are left untouched.
func (c *Client) UpdateRecords(ctx context.Context, doc, table string, updates []types.RecordUpdate) error {
	in := struct {
		Records []types.RecordUpdate `json:"records"`
	}{Records: updates}
	return c.do(ctx, http.MethodPatch, docPath(doc, "tables", table, "records"), nil, in, nil)
}

// GetRecords fetches current row state. A non-empty ids slice narrows the
// fetch server-side; rows that do not exist are simply absent from the
// response, never an error.
func (c *Client) GetRecords(ctx context.Context, doc, table string, ids []int64) ([]types.Record, error) {
	query := url.Values{}
	if len(ids) > 0 {
		filter, err := json.Marshal(map[string][]int64{"id": ids})
		if err != nil {
			return nil, fmt.Errorf("marshal filter: %w", err)
		}
		query.Set("filter", string(filter))
	}

	var out recordsEnvelope
	if err := c.do(ctx, http.MethodGet, docPath(doc, "tables", table, "records"), query, nil, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

// DeleteRecords removes the given rows.
func (c *Client) DeleteRecords(ctx context.Context, doc, table string, ids []int64) error {
	return c.do(ctx, http.MethodPost, docPath(doc, "tables", table, "data", "delete"), nil, ids, nil)
}
