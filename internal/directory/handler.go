package directory

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/wolfman30/dental-directory/internal/observability/metrics"
	"github.com/wolfman30/dental-directory/pkg/logging"
)

// Handler serves the read-only dentist endpoints.
type Handler struct {
	catalog *Catalog
	metrics *metrics.DirectoryMetrics
	logger  *logging.Logger
}

// NewHandler creates a directory handler. m may be nil.
func NewHandler(catalog *Catalog, m *metrics.DirectoryMetrics, logger *logging.Logger) *Handler {
	if catalog == nil {
		panic("directory: catalog required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{catalog: catalog, metrics: m, logger: logger}
}

// ListResponse is the body of GET /api/dentists.
type ListResponse struct {
	Success  bool       `json:"success"`
	Dentists []Provider `json:"dentists"`
	Total    int        `json:"total"`
	Facets   Facets     `json:"facets"`
}

// DentistResponse is the body of GET /api/dentists/{id}.
type DentistResponse struct {
	Success bool     `json:"success"`
	Dentist Provider `json:"dentist"`
}

// ErrorResponse is returned for lookups that fail.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ListDentists handles GET /api/dentists. Optional q, specialty, location and
// service parameters run the filter engine; facets always describe the full
// catalog.
func (h *Handler) ListDentists(w http.ResponseWriter, r *http.Request) {
	query, filters := ParseSearchParams(r.URL.Query())
	dentists := h.catalog.Search(r.Context(), query, filters)

	h.metrics.ObserveSearch(query != "" || !filters.Empty(), len(dentists))

	writeJSON(w, http.StatusOK, ListResponse{
		Success:  true,
		Dentists: dentists,
		Total:    len(dentists),
		Facets:   h.catalog.Facets(),
	})
}

// GetDentist handles GET /api/dentists/{id}; id may also be the slug.
func (h *Handler) GetDentist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	dentist, err := h.catalog.Get(id)
	if errors.Is(err, ErrProviderNotFound) {
		h.metrics.ObserveLookup(false)
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Success: false,
			Message: "Dentist not found",
			Error:   "No dentist matches id " + id,
		})
		return
	}
	if err != nil {
		h.logger.Error("failed to load dentist", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Message: "Failed to load dentist",
			Error:   "An unexpected error occurred. Please try again later.",
		})
		return
	}

	h.metrics.ObserveLookup(true)
	writeJSON(w, http.StatusOK, DentistResponse{Success: true, Dentist: dentist})
}

// ParseSearchParams reads q plus repeatable facet parameters. Comma separated
// values are accepted too, e.g. ?service=Braces,Veneers.
func ParseSearchParams(values url.Values) (string, Filters) {
	var filters Filters
	for key, raw := range values {
		facet, ok := ParseFacet(key)
		if !ok {
			continue
		}
		for _, v := range raw {
			for _, part := range strings.Split(v, ",") {
				part = strings.TrimSpace(part)
				if part != "" && !filters.Selected(facet, part) {
					filters.Toggle(facet, part)
				}
			}
		}
	}
	return values.Get("q"), filters
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
