package directory

import (
	"sync"
	"time"

	"github.com/wolfman30/dental-directory/internal/debounce"
)

// ResultSet is one recomputed view of the directory.
type ResultSet struct {
	Query     string
	Filters   Filters
	Providers []Provider
}

// Browser is the search state behind the directory page: the raw query as
// typed, the debounced query the results are computed from, and the facet
// selections. Facet option lists come from the unfiltered provider list and
// only change when SetProviders is called.
type Browser struct {
	mu        sync.Mutex
	providers []Provider
	facets    Facets
	filters   Filters
	input     string
	query     string
	results   []Provider
	onResults func(ResultSet)
	debouncer *debounce.Debouncer
}

// BrowserOption customises a Browser.
type BrowserOption func(*browserOptions)

type browserOptions struct {
	window    time.Duration
	scheduler debounce.Scheduler
}

// WithDebounceWindow overrides the 300ms quiet period.
func WithDebounceWindow(d time.Duration) BrowserOption {
	return func(o *browserOptions) { o.window = d }
}

// WithDebounceScheduler injects the timer source.
func WithDebounceScheduler(s debounce.Scheduler) BrowserOption {
	return func(o *browserOptions) { o.scheduler = s }
}

// NewBrowser builds a browser over providers. onResults receives every
// recomputed result set, including the initial one emitted on creation.
func NewBrowser(providers []Provider, onResults func(ResultSet), opts ...BrowserOption) *Browser {
	o := browserOptions{window: debounce.DefaultWindow}
	for _, opt := range opts {
		opt(&o)
	}
	if onResults == nil {
		onResults = func(ResultSet) {}
	}

	b := &Browser{
		providers: append([]Provider(nil), providers...),
		onResults: onResults,
	}
	b.facets = DeriveFacets(b.providers)
	b.debouncer = debounce.New(o.window, b.applyQuery, debounce.WithScheduler(o.scheduler))
	b.debouncer.Start("")
	return b
}

// Type records a keystroke; results follow once typing pauses.
func (b *Browser) Type(raw string) {
	b.mu.Lock()
	b.input = raw
	b.mu.Unlock()
	b.debouncer.Update(raw)
}

// ClearQuery empties the search box and recomputes immediately.
func (b *Browser) ClearQuery() {
	b.mu.Lock()
	b.input = ""
	b.mu.Unlock()
	b.debouncer.Clear()
}

// ToggleFilter flips one facet value and recomputes immediately.
func (b *Browser) ToggleFilter(facet Facet, value string) {
	b.mu.Lock()
	b.filters.Toggle(facet, value)
	set := b.recomputeLocked()
	b.mu.Unlock()
	b.onResults(set)
}

// ClearFilters drops every facet selection.
func (b *Browser) ClearFilters() {
	b.mu.Lock()
	b.filters.Clear()
	set := b.recomputeLocked()
	b.mu.Unlock()
	b.onResults(set)
}

// SetProviders replaces the underlying list; this is the only call that
// re-derives facets.
func (b *Browser) SetProviders(providers []Provider) {
	b.mu.Lock()
	b.providers = append([]Provider(nil), providers...)
	b.facets = DeriveFacets(b.providers)
	set := b.recomputeLocked()
	b.mu.Unlock()
	b.onResults(set)
}

// Flush applies a pending keystroke now instead of waiting for the pause.
func (b *Browser) Flush() {
	b.debouncer.Flush()
}

// Close stops pending debounced searches.
func (b *Browser) Close() {
	b.debouncer.Stop()
}

// Input returns the query as typed, which may be ahead of Query.
func (b *Browser) Input() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.input
}

// Query returns the debounced query the results were computed from.
func (b *Browser) Query() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.query
}

// Filters returns a snapshot of the facet selections.
func (b *Browser) Filters() Filters {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filters.Clone()
}

// Facets returns the option lists for the filter UI.
func (b *Browser) Facets() Facets {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.facets
}

// Results returns the current result set.
func (b *Browser) Results() []Provider {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Provider(nil), b.results...)
}

func (b *Browser) applyQuery(q string) {
	b.mu.Lock()
	b.query = q
	set := b.recomputeLocked()
	b.mu.Unlock()
	b.onResults(set)
}

func (b *Browser) recomputeLocked() ResultSet {
	b.results = Filter(b.providers, b.query, b.filters)
	return ResultSet{
		Query:     b.query,
		Filters:   b.filters.Clone(),
		Providers: append([]Provider(nil), b.results...),
	}
}
