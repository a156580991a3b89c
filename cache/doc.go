// Package cache provides the metadata cache used between mutation rounds.
//
// The cache holds serialized backend metadata (column schemas, table lists)
// so that verification does not refetch it on every write. Mutating
// operations never write through it: a schema change invalidates the
// affected keys and the next reader repopulates them from the backend.
//
// # Stores
//
// Two Store implementations are provided:
//
//   - Memory: In-process map with per-key TTL. Zero dependencies, suitable
//     for single-process use and tests.
//   - Redis: Shared cache backed by Redis, for deployments where several
//     processes mutate the same documents.
//
// # Usage
//
// Creating a store and caching a value:
//
//	store := cache.NewMemory()
//	defer store.Close()
//
//	err := store.Set(ctx, "schema:doc1:Tasks", payload, 5*time.Minute)
//
//	data, err := store.Get(ctx, "schema:doc1:Tasks")
//	if errors.Is(err, cache.ErrNotFound) {
//	    // repopulate from the backend
//	}
//
// Invalidating after a schema mutation:
//
//	err := store.Delete(ctx, "schema:doc1:Tasks")
//
// # Error Handling
//
// Get returns ErrNotFound for absent or expired keys. Delete of an absent
// key is not an error. Redis connection failures surface as wrapped errors
// from the underlying client.
package cache
