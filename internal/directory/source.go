package directory

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

//go:embed data/dentists.json
var seedCatalog []byte

// Source loads the provider list from wherever it is published.
type Source interface {
	Load(ctx context.Context) ([]Provider, error)
}

// SeedProviders decodes the catalog embedded in the binary.
func SeedProviders() ([]Provider, error) {
	return DecodeJSON(seedCatalog)
}

// DecodeJSON parses a JSON array of provider records.
func DecodeJSON(data []byte) ([]Provider, error) {
	var providers []Provider
	if err := json.Unmarshal(data, &providers); err != nil {
		return nil, fmt.Errorf("directory: decode json catalog: %w", err)
	}
	return providers, nil
}

// DecodeYAML parses a YAML sequence of provider records.
func DecodeYAML(data []byte) ([]Provider, error) {
	var providers []Provider
	if err := yaml.Unmarshal(data, &providers); err != nil {
		return nil, fmt.Errorf("directory: decode yaml catalog: %w", err)
	}
	return providers, nil
}

// SeedSource serves the embedded catalog.
type SeedSource struct{}

// Load implements Source.
func (SeedSource) Load(context.Context) ([]Provider, error) {
	return SeedProviders()
}

// FileSource reads a .json, .yaml or .yml catalog from disk.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s FileSource) Load(context.Context) ([]Provider, error) {
	return LoadFile(s.Path)
}

// LoadFile reads a catalog file, choosing the decoder by extension.
func LoadFile(path string) ([]Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("directory: read catalog: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeJSON(data)
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return nil, fmt.Errorf("directory: %w: %s", ErrUnsupportedFormat, path)
	}
}

// RedisCatalogKey holds the published catalog as a JSON array.
const RedisCatalogKey = "directory:dentists"

// RedisSource reads the catalog published in Redis, falling back to the
// embedded seed when nothing has been published yet.
type RedisSource struct {
	redis *redis.Client
}

// NewRedisSource creates a Redis-backed catalog source.
func NewRedisSource(client *redis.Client) *RedisSource {
	return &RedisSource{redis: client}
}

// Load implements Source.
func (s *RedisSource) Load(ctx context.Context) ([]Provider, error) {
	data, err := s.redis.Get(ctx, RedisCatalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return SeedProviders()
	}
	if err != nil {
		return nil, fmt.Errorf("directory: get catalog: %w", err)
	}
	return DecodeJSON(data)
}

// Publish stores a validated provider list for other instances to load.
func (s *RedisSource) Publish(ctx context.Context, providers []Provider) error {
	if _, err := NewCatalog(providers); err != nil {
		return err
	}
	data, err := json.Marshal(providers)
	if err != nil {
		return fmt.Errorf("directory: marshal catalog: %w", err)
	}
	if err := s.redis.Set(ctx, RedisCatalogKey, data, 0).Err(); err != nil {
		return fmt.Errorf("directory: set catalog: %w", err)
	}
	return nil
}

// LoadCatalog loads providers from src and builds a catalog.
func LoadCatalog(ctx context.Context, src Source) (*Catalog, error) {
	if src == nil {
		src = SeedSource{}
	}
	providers, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewCatalog(providers)
}
