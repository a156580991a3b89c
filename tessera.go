package sdk

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tessera-data/sdk/api"
	"github.com/tessera-data/sdk/cache"
	"github.com/tessera-data/sdk/mutation"
	"github.com/tessera-data/sdk/schema"
)

// New creates a new Tessera client.
// The client provides the main SDK interface for record, table and column
// mutations with post-write verification.
//
// Example:
//
//	client, err := sdk.New(
//	    sdk.WithBaseURL("https://tessera.example.com"),
//	    sdk.WithAPIKey(os.Getenv("TESSERA_API_KEY")),
//	    sdk.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	// Fill gaps from the config file; explicit options win.
	if cfg.configPath != "" {
		fileCfg, err := LoadConfig(cfg.configPath)
		if err != nil {
			return nil, NewConfigurationError("sdk.New", err)
		}
		applyFileConfig(cfg, fileCfg)
	}

	// Create default logger if not provided
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if cfg.baseURL == "" {
		return nil, NewConfigurationError("sdk.New",
			fmt.Errorf("base URL is required, set WithBaseURL or base_url in the config file: %w", ErrInvalidConfig))
	}

	backend, err := api.New(api.Options{
		BaseURL:    cfg.baseURL,
		APIKey:     cfg.apiKey,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
		Logger:     cfg.logger,
	})
	if err != nil {
		return nil, NewConfigurationError("sdk.New", err)
	}

	store, ownsStore, err := buildStore(cfg)
	if err != nil {
		return nil, NewConfigurationError("sdk.New", err)
	}

	obs, err := mutation.NewObserver(cfg.logger, cfg.tracer, cfg.meter)
	if err != nil {
		if ownsStore && store != nil {
			CloseWithLog(store, cfg.logger, "metadata cache")
		}
		return nil, NewConfigurationError("sdk.New", err)
	}

	verify := true
	if cfg.verify != nil {
		verify = *cfg.verify
	}

	c := &Client{
		api: backend,
		schema: schema.NewService(backend, schema.Options{
			Cache:  store,
			TTL:    cfg.cacheTTL,
			Logger: cfg.logger,
		}),
		store:     store,
		ownsStore: ownsStore,
		logger:    cfg.logger,
		obs:       obs,
		verify:    verify,
	}

	c.logger.Info("tessera client ready",
		slog.String("base_url", cfg.baseURL),
		slog.Bool("verify", verify),
		slog.Bool("cache", store != nil),
	)

	return c, nil
}

// applyFileConfig copies file values into the unset fields of cfg.
func applyFileConfig(cfg *clientConfig, fileCfg *Config) {
	if cfg.baseURL == "" {
		cfg.baseURL = fileCfg.BaseURL
	}
	if cfg.timeout == 0 {
		cfg.timeout = fileCfg.GetTimeout()
	}
	if cfg.verify == nil {
		v := fileCfg.GetVerify()
		cfg.verify = &v
	}
	if cfg.apiKey == "" && fileCfg.APIKeyEnv != "" {
		cfg.apiKey = os.Getenv(fileCfg.APIKeyEnv)
	}
	if cfg.cacheTTL == 0 {
		cfg.cacheTTL = fileCfg.Cache.GetTTL()
	}
	if !cfg.storeSet && fileCfg.Cache != nil {
		cfg.cacheBackend = fileCfg.Cache.GetBackend()
		cfg.cacheURL = fileCfg.Cache.URL
	}
}

// buildStore resolves the metadata cache store: an injected store is used
// as-is (and stays owned by the caller), otherwise one is created from the
// configured backend, defaulting to the in-process memory store.
func buildStore(cfg *clientConfig) (store cache.Store, owned bool, err error) {
	if cfg.storeSet {
		return cfg.store, false, nil
	}

	switch cfg.cacheBackend {
	case "", "memory":
		return cache.NewMemory(), true, nil
	case "redis":
		redisStore, err := cache.NewRedis(cache.RedisOptions{URL: cfg.cacheURL})
		if err != nil {
			return nil, false, fmt.Errorf("create redis cache: %w", err)
		}
		return redisStore, true, nil
	case "none":
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("unknown cache backend %q: %w", cfg.cacheBackend, ErrInvalidConfig)
	}
}
