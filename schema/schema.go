// Package schema resolves column metadata for verification.
//
// The verification layer needs to know each column's semantic type before it
// can compare written values against read-back values (a choice list and a
// reference survive the wire in different encodings). This package fetches
// column metadata from the backend, maps backend column types to semantic
// types, and caches the result per table. Schema mutations invalidate the
// cache; nothing ever writes through it.
package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tessera-data/sdk/cache"
	"github.com/tessera-data/sdk/types"
)

// API is the backend surface the service needs.
type API interface {
	// ListColumns returns the column metadata for a table.
	ListColumns(ctx context.Context, doc, table string) ([]types.Column, error)
}

// Options configures a Service.
type Options struct {
	// Cache holds fetched metadata. nil disables caching; every call
	// then goes to the backend.
	Cache cache.Store

	// TTL bounds how long cached metadata is trusted. Zero means 5 minutes.
	TTL time.Duration

	// Logger receives a warning when the cache misbehaves. nil disables logging.
	Logger *slog.Logger
}

// Service fetches and caches column metadata for one backend.
// It is safe for concurrent use.
type Service struct {
	api    API
	cache  cache.Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewService creates a metadata service over the given backend API.
func NewService(api API, opts Options) *Service {
	ttl := opts.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		api:    api,
		cache:  opts.Cache,
		ttl:    ttl,
		logger: opts.Logger,
	}
}

// Columns returns the column metadata for a table, from cache when fresh.
func (s *Service) Columns(ctx context.Context, doc, table string) ([]types.Column, error) {
	key := cacheKey(doc, table)

	if s.cache != nil {
		data, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var cols []types.Column
			if jsonErr := json.Unmarshal(data, &cols); jsonErr == nil {
				return cols, nil
			}
			// Unreadable entry: drop it and refetch.
			_ = s.cache.Delete(ctx, key)
		case !errors.Is(err, cache.ErrNotFound):
			s.warn(ctx, "metadata cache read failed", "key", key, "error", err)
		}
	}

	cols, err := s.api.ListColumns(ctx, doc, table)
	if err != nil {
		return nil, fmt.Errorf("fetch columns for %s.%s: %w", doc, table, err)
	}

	if s.cache != nil {
		data, err := json.Marshal(cols)
		if err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
				s.warn(ctx, "metadata cache write failed", "key", key, "error", err)
			}
		}
	}
	return cols, nil
}

// ColumnTypes returns the semantic type of every column in a table, keyed
// by column ID. Verification passes this map as its comparison hints.
func (s *Service) ColumnTypes(ctx context.Context, doc, table string) (map[string]types.SemanticType, error) {
	cols, err := s.Columns(ctx, doc, table)
	if err != nil {
		return nil, err
	}

	hints := make(map[string]types.SemanticType, len(cols))
	for _, col := range cols {
		hints[col.ID] = types.SemanticTypeOf(col.Type)
	}
	return hints, nil
}

// Invalidate drops cached metadata for a table. Call after any schema
// mutation that touches it.
func (s *Service) Invalidate(ctx context.Context, doc, table string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, cacheKey(doc, table)); err != nil {
		return fmt.Errorf("invalidate metadata for %s.%s: %w", doc, table, err)
	}
	return nil
}

func (s *Service) warn(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, args...)
	}
}

func cacheKey(doc, table string) string {
	return fmt.Sprintf("tessera:schema:%s:%s", doc, table)
}
