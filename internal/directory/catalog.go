package directory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var directoryTracer = otel.Tracer("dental.internal.directory")

// Catalog is the in-memory provider list with its derived facets. Facets are
// computed when the list is replaced, never when it is filtered.
type Catalog struct {
	mu        sync.RWMutex
	providers []Provider
	facets    Facets
}

// NewCatalog validates the providers and builds a catalog.
func NewCatalog(providers []Provider) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Replace(providers); err != nil {
		return nil, err
	}
	return c, nil
}

// Replace swaps the provider list and recomputes facets.
func (c *Catalog) Replace(providers []Provider) error {
	seen := make(map[string]struct{}, len(providers)*2)
	for _, p := range providers {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("directory: replace catalog: %w", err)
		}
		for _, key := range []string{"id:" + p.ID, "slug:" + p.Slug} {
			if _, dup := seen[key]; dup {
				return fmt.Errorf("directory: replace catalog: %w: %s", ErrDuplicateProvider, key)
			}
			seen[key] = struct{}{}
		}
	}

	list := slices.Clone(providers)
	facets := DeriveFacets(list)

	c.mu.Lock()
	c.providers = list
	c.facets = facets
	c.mu.Unlock()
	return nil
}

// List returns every provider in catalog order.
func (c *Catalog) List() []Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.providers)
}

// Len returns the number of providers.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.providers)
}

// Facets returns the option lists of the unfiltered catalog.
func (c *Catalog) Facets() Facets {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Facets{
		Specialties: slices.Clone(c.facets.Specialties),
		Locations:   slices.Clone(c.facets.Locations),
		Services:    slices.Clone(c.facets.Services),
	}
}

// Get looks a provider up by id or slug.
func (c *Catalog) Get(idOrSlug string) (Provider, error) {
	key := strings.TrimSpace(idOrSlug)
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.providers {
		if p.ID == key || p.Slug == key {
			return p, nil
		}
	}
	return Provider{}, ErrProviderNotFound
}

// Search runs the filter engine over the catalog.
func (c *Catalog) Search(ctx context.Context, query string, filters Filters) []Provider {
	_, span := directoryTracer.Start(ctx, "directory.search")
	defer span.End()

	c.mu.RLock()
	results := Filter(c.providers, query, filters)
	total := len(c.providers)
	c.mu.RUnlock()

	span.SetAttributes(
		attribute.Int("directory.catalog_size", total),
		attribute.Int("directory.result_count", len(results)),
		attribute.Bool("directory.has_query", strings.TrimSpace(query) != ""),
	)
	return results
}
