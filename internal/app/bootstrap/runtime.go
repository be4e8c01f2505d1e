package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/dental-directory/internal/config"
	"github.com/wolfman30/dental-directory/internal/directory"
	"github.com/wolfman30/dental-directory/internal/siteconfig"
	"github.com/wolfman30/dental-directory/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildCatalogSource picks where the directory is loaded from: a catalog
// file when configured, else Redis when a client is available, else the
// embedded seed.
func BuildCatalogSource(cfg *appconfig.Config, redisClient *redis.Client) (directory.Source, string) {
	if cfg != nil && strings.TrimSpace(cfg.DirectoryCatalogPath) != "" {
		return directory.FileSource{Path: cfg.DirectoryCatalogPath}, "file"
	}
	if redisClient != nil {
		return directory.NewRedisSource(redisClient), "redis"
	}
	return directory.SeedSource{}, "seed"
}

// BuildCatalog loads the directory catalog from the configured source.
func BuildCatalog(ctx context.Context, cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger) (*directory.Catalog, error) {
	if logger == nil {
		logger = logging.Default()
	}
	src, kind := BuildCatalogSource(cfg, redisClient)
	catalog, err := directory.LoadCatalog(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: load %s catalog: %w", kind, err)
	}
	logger.Info("directory catalog loaded", "source", kind, "dentists", catalog.Len())
	return catalog, nil
}

// BuildSiteConfig fetches the account links once for the process lifetime.
func BuildSiteConfig(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *siteconfig.Service {
	if cfg == nil {
		return siteconfig.NewService(siteconfig.DefaultAccountLinks())
	}
	return siteconfig.Load(ctx, siteconfig.LoaderConfig{
		URL:     cfg.AccountLinksURL,
		Timeout: cfg.AccountLinksTimeout,
		Logger:  logger,
	})
}
