package sdk

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/tessera-data/sdk/cache"
)

// Option configures a Client.
type Option func(*clientConfig)

// clientConfig holds configuration for a Client instance.
type clientConfig struct {
	configPath string
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
	verify     *bool
	store      cache.Store
	storeSet   bool
	cacheTTL   time.Duration

	// cache backend selection from the config file; unused when a store was
	// injected with WithCache.
	cacheBackend string
	cacheURL     string
}

// WithConfig sets the configuration file path for the client. The file
// carries connection settings and defaults (see Config); options given
// alongside it take precedence over the file's values.
func WithConfig(path string) Option {
	return func(c *clientConfig) {
		c.configPath = path
	}
}

// WithBaseURL sets the backend root URL, e.g. "https://tessera.example.com".
// Required unless a config file supplies it.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithAPIKey sets the API key sent as a bearer token on every request.
// It takes precedence over a key read from the environment variable named
// in the config file.
func WithAPIKey(key string) Option {
	return func(c *clientConfig) {
		c.apiKey = key
	}
}

// WithTimeout bounds each backend request end to end.
// If not provided, a default of 30 seconds is used.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithHTTPClient overrides the underlying HTTP client. WithTimeout is
// ignored when set; configure the override instead.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithLogger sets a custom logger for the client.
// If not provided, a default logger will be created.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for distributed tracing.
// This enables per-verification spans across all mutating operations.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *clientConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter. When provided, the client records
// mutation and verification counters plus a verification duration histogram.
func WithMeter(meter metric.Meter) Option {
	return func(c *clientConfig) {
		c.meter = meter
	}
}

// WithVerification sets the client-wide default for post-write
// verification. It defaults to enabled; individual calls can override it
// with WithVerify.
func WithVerification(enabled bool) Option {
	return func(c *clientConfig) {
		c.verify = &enabled
	}
}

// WithCache sets the metadata cache store. The caller keeps ownership:
// Close on the client will not close an injected store. Passing nil
// disables caching entirely.
//
// If not provided (and no config file says otherwise), an in-process
// memory store is created and owned by the client.
func WithCache(store cache.Store) Option {
	return func(c *clientConfig) {
		c.store = store
		c.storeSet = true
	}
}

// WithCacheTTL bounds how long cached column metadata is trusted.
// If not provided, a default of 5 minutes is used.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *clientConfig) {
		c.cacheTTL = ttl
	}
}

// CallOption adjusts a single mutating operation.
type CallOption func(*callSettings)

// callSettings holds the per-call knobs, seeded from the client defaults.
type callSettings struct {
	verify bool
}

// WithVerify overrides the client's verification default for one call.
// Disabling it skips the post-write read-back and comparison; the write
// itself is unaffected.
//
// Rename is the one exception: even with verification off it still resolves
// the new identity, because its result cannot be built without that read.
func WithVerify(enabled bool) CallOption {
	return func(s *callSettings) {
		s.verify = enabled
	}
}
