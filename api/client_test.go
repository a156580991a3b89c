package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-data/sdk/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Options{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)
	return client
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestCreateRecords(t *testing.T) {
	var gotPath, gotAuth, gotRequestID string
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"records":[{"id":41},{"id":42}]}`)
	})

	ids, err := client.CreateRecords(context.Background(), "doc1", "Tasks", []map[string]any{
		{"Name": "write report"},
		{"Name": "file expenses"},
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{41, 42}, ids)
	assert.Equal(t, "/api/docs/doc1/tables/Tasks/records", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.NotEmpty(t, gotRequestID)

	records, ok := gotBody["records"].([]any)
	require.True(t, ok)
	require.Len(t, records, 2)
}

func TestGetRecords_FilterByID(t *testing.T) {
	var gotFilter string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("filter")
		io.WriteString(w, `{"records":[{"id":41,"fields":{"Name":"write report"}}]}`)
	})

	records, err := client.GetRecords(context.Background(), "doc1", "Tasks", []int64{41, 99})

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":[41,99]}`, gotFilter)
	require.Len(t, records, 1)
	assert.Equal(t, int64(41), records[0].ID)
	assert.Equal(t, "write report", records[0].Fields["Name"])
}

func TestDeleteRecords(t *testing.T) {
	var gotPath string
	var gotBody []int64

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusOK)
	})

	err := client.DeleteRecords(context.Background(), "doc1", "Tasks", []int64{10, 20})

	require.NoError(t, err)
	assert.Equal(t, "/api/docs/doc1/tables/Tasks/data/delete", gotPath)
	assert.Equal(t, []int64{10, 20}, gotBody)
}

func TestRenameTable(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	err := client.RenameTable(context.Background(), "doc1", "Tasks", "Projects")

	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)

	tables := gotBody["tables"].([]any)
	require.Len(t, tables, 1)
	entry := tables[0].(map[string]any)
	assert.Equal(t, "Tasks", entry["id"])
	assert.Equal(t, map[string]any{"tableId": "Projects"}, entry["fields"])
}

func TestDeleteTable(t *testing.T) {
	var gotMethod, gotPath string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	err := client.DeleteTable(context.Background(), "doc1", "Tasks")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/docs/doc1/tables/Tasks", gotPath)
}

func TestListColumns(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"columns":[
			{"id":"Name","fields":{"label":"Name","type":"Text"}},
			{"id":"Total","fields":{"label":"Total","type":"Numeric","formula":"$A * $B"}}
		]}`)
	})

	cols, err := client.ListColumns(context.Background(), "doc1", "Tasks")

	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, types.Column{ID: "Name", Label: "Name", Type: "Text"}, cols[0])
	assert.True(t, cols[1].IsComputed())
}

func TestErrorDecoding(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantCode    string
	}{
		{
			name:        "structured error",
			status:      http.StatusForbidden,
			body:        `{"error":"access denied by rule","code":"ACL_DENY"}`,
			wantMessage: "access denied by rule",
			wantCode:    "ACL_DENY",
		},
		{
			name:        "plain text error",
			status:      http.StatusBadRequest,
			body:        "malformed filter",
			wantMessage: "malformed filter",
		},
		{
			name:        "empty body",
			status:      http.StatusBadGateway,
			body:        "",
			wantMessage: "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := client.GetRecords(context.Background(), "doc1", "Tasks", nil)
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.NotEmpty(t, apiErr.RequestID)
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	notFound := &Error{Status: http.StatusNotFound}
	forbidden := &Error{Status: http.StatusForbidden}

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(forbidden))
	assert.True(t, IsForbidden(forbidden))
	assert.False(t, IsForbidden(notFound))
	assert.False(t, IsNotFound(nil))
}

func TestPing(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, "/status", gotPath)
}
