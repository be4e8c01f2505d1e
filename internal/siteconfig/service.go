package siteconfig

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/wolfman30/dental-directory/pkg/logging"
)

// Source says where the links of a Service came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceRemote  Source = "remote"
)

// Service holds the account links fetched once at startup. It is immutable
// after construction and shared by reference.
type Service struct {
	links  AccountLinks
	source Source
}

// NewService wraps fixed links, filling blanks from the defaults.
func NewService(links AccountLinks) *Service {
	return &Service{links: links.merge(DefaultAccountLinks()), source: SourceDefault}
}

// LoaderConfig configures Load.
type LoaderConfig struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
	Logger  *logging.Logger
}

// Load fetches the links document at cfg.URL. An empty URL or any fetch
// failure yields the defaults; the failure is logged, not returned.
func Load(ctx context.Context, cfg LoaderConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.URL == "" {
		return NewService(DefaultAccountLinks())
	}

	links, err := fetch(ctx, cfg)
	if err != nil {
		logger.Warn("account links unavailable, using defaults", "error", err, "url", cfg.URL)
		return NewService(DefaultAccountLinks())
	}
	logger.Info("account links loaded", "url", cfg.URL)
	return &Service{links: links.merge(DefaultAccountLinks()), source: SourceRemote}
}

func fetch(ctx context.Context, cfg LoaderConfig) (AccountLinks, error) {
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, nil)
	if err != nil {
		return AccountLinks{}, fmt.Errorf("siteconfig: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return AccountLinks{}, fmt.Errorf("siteconfig: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return AccountLinks{}, fmt.Errorf("siteconfig: fetch: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return AccountLinks{}, fmt.Errorf("siteconfig: read: %w", err)
	}
	var links AccountLinks
	if err := json.Unmarshal(raw, &links); err != nil {
		return AccountLinks{}, fmt.Errorf("siteconfig: decode: %w", err)
	}
	return links, nil
}

// Links returns the account links.
func (s *Service) Links() AccountLinks {
	return s.links
}

// Source reports whether the links came from the remote document.
func (s *Service) Source() Source {
	return s.source
}

// Response is the body of GET /api/site-config.
type Response struct {
	Success      bool         `json:"success"`
	AccountLinks AccountLinks `json:"accountLinks"`
	Source       Source       `json:"source"`
}

// ServeHTTP handles GET /api/site-config.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	json.NewEncoder(w).Encode(Response{Success: true, AccountLinks: s.links, Source: s.source})
}
