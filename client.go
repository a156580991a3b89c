package sdk

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/tessera-data/sdk/api"
	"github.com/tessera-data/sdk/cache"
	"github.com/tessera-data/sdk/health"
	"github.com/tessera-data/sdk/mutation"
	"github.com/tessera-data/sdk/schema"
	"github.com/tessera-data/sdk/types"
)

// Client is the entry point of the Tessera SDK. It coordinates the backend
// transport, the column metadata service and the verified mutation engine:
//
//   - Records: row creation, update, deletion and reading
//   - Tables: table creation, rename and deletion
//   - Columns: column creation, update and deletion
//
// Every mutating operation writes, optionally reads the persisted state
// back, and compares it against what was written. A write the backend
// rejected surfaces as the backend's own error; a write the backend
// accepted but whose persisted state diverges surfaces as *verify.Error.
//
// A Client is safe for concurrent use.
type Client struct {
	api       *api.Client
	schema    *schema.Service
	store     cache.Store
	ownsStore bool
	logger    *slog.Logger
	obs       *mutation.Observer
	verify    bool
}

// Records returns the record service for one table of one document.
func (c *Client) Records(doc, table string) *RecordsService {
	return &RecordsService{client: c, doc: doc, table: table}
}

// Tables returns the table service for one document.
func (c *Client) Tables(doc string) *TablesService {
	return &TablesService{client: c, doc: doc}
}

// Columns returns the column service for one table of one document.
func (c *Client) Columns(doc, table string) *ColumnsService {
	return &ColumnsService{client: c, doc: doc, table: table}
}

// Schema returns the column metadata service. Most callers never need it;
// it is exposed for warming or inspecting the metadata cache.
func (c *Client) Schema() *schema.Service {
	return c.schema
}

// Health probes the backend and the metadata cache and folds the outcomes
// into a single status.
func (c *Client) Health(ctx context.Context) types.HealthStatus {
	return health.Combine(
		health.BackendCheck(ctx, c.api),
		health.CacheCheck(ctx, c.store),
	)
}

// Close releases the resources the client owns. An injected cache store is
// left open for its owner.
func (c *Client) Close() error {
	c.logger.Info("closing tessera client")

	if c.ownsStore && c.store != nil {
		if err := c.store.Close(); err != nil {
			return fmt.Errorf("close metadata cache: %w", err)
		}
	}
	return nil
}

// mutationOptions folds the client defaults and the per-call options into
// the engine's option set.
func (c *Client) mutationOptions(opts []CallOption) mutation.Options {
	settings := callSettings{verify: c.verify}
	for _, opt := range opts {
		opt(&settings)
	}
	return mutation.Options{Verify: settings.verify, Observer: c.obs}
}

// entityLabel formats a diagnostic identity string such as "Tasks[41, 42]".
func entityLabel[ID any](scope string, ids []ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return scope + "[" + strings.Join(parts, ", ") + "]"
}

// fieldNames returns the keys of a field map, sorted so that derived checks
// come out in a stable order.
func fieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
