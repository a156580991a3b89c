// Package health provides reachability checks for the SDK's dependencies.
// It offers standardized probes for the backend and the metadata cache,
// plus aggregation of several checks into one status.
package health

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/tessera-data/sdk/cache"
	"github.com/tessera-data/sdk/types"
)

// slowAfter is the backend latency above which the probe reports degraded.
var slowAfter = 2 * time.Second

// Pinger is the backend surface a probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendCheck probes the backend status endpoint. It reports unhealthy when
// the probe fails, degraded when it answers slowly, healthy otherwise.
// Latency is included in the details either way.
//
// Example:
//
//	status := health.BackendCheck(ctx, client)
//	if !status.IsHealthy() {
//	    log.Printf("backend: %s", status.Message)
//	}
func BackendCheck(ctx context.Context, backend Pinger) types.HealthStatus {
	if backend == nil {
		return types.NewUnhealthyStatus("no backend configured", nil)
	}

	start := time.Now()
	err := backend.Ping(ctx)
	latency := time.Since(start)

	details := map[string]any{
		"latency_ms": latency.Milliseconds(),
	}

	if err != nil {
		details["error"] = err.Error()
		return types.NewUnhealthyStatus("backend unreachable", details)
	}
	if latency > slowAfter {
		return types.NewDegradedStatus(
			fmt.Sprintf("backend responding slowly (%s)", latency.Round(time.Millisecond)),
			details,
		)
	}
	return types.NewHealthyStatus("backend reachable")
}

// CacheCheck verifies the metadata cache with a set/get/delete round trip
// on a probe key. A nil store is healthy: caching is optional.
func CacheCheck(ctx context.Context, store cache.Store) types.HealthStatus {
	if store == nil {
		return types.NewHealthyStatus("cache disabled")
	}

	const probeKey = "tessera:health:probe"
	probeValue := []byte(fmt.Sprintf("%d", time.Now().UnixNano()))

	if err := store.Set(ctx, probeKey, probeValue, time.Minute); err != nil {
		return types.NewUnhealthyStatus("cache write failed", map[string]any{
			"error": err.Error(),
		})
	}

	got, err := store.Get(ctx, probeKey)
	if err != nil {
		return types.NewUnhealthyStatus("cache read failed", map[string]any{
			"error": err.Error(),
		})
	}
	if !bytes.Equal(got, probeValue) {
		return types.NewUnhealthyStatus("cache returned stale probe value", nil)
	}

	_ = store.Delete(ctx, probeKey)
	return types.NewHealthyStatus("cache reachable")
}

// Combine aggregates multiple checks into a single status. Any unhealthy
// check makes the result unhealthy; otherwise any degraded check makes it
// degraded; otherwise healthy.
func Combine(checks ...types.HealthStatus) types.HealthStatus {
	if len(checks) == 0 {
		return types.NewHealthyStatus("no checks provided")
	}

	var unhealthy, degraded []string
	for _, check := range checks {
		switch check.Status {
		case types.StatusUnhealthy:
			unhealthy = append(unhealthy, check.Message)
		case types.StatusDegraded:
			degraded = append(degraded, check.Message)
		}
	}

	if len(unhealthy) > 0 {
		return types.NewUnhealthyStatus(
			fmt.Sprintf("%d check(s) failed", len(unhealthy)),
			map[string]any{
				"total":         len(checks),
				"failed_checks": unhealthy,
			},
		)
	}
	if len(degraded) > 0 {
		return types.NewDegradedStatus(
			fmt.Sprintf("%d check(s) degraded", len(degraded)),
			map[string]any{
				"total":           len(checks),
				"degraded_checks": degraded,
			},
		)
	}
	return types.NewHealthyStatus(fmt.Sprintf("all %d check(s) passed", len(checks)))
}
