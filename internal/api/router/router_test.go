package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/dental-directory/internal/appointments"
	"github.com/wolfman30/dental-directory/internal/directory"
	"github.com/wolfman30/dental-directory/internal/observability/metrics"
	"github.com/wolfman30/dental-directory/internal/siteconfig"
	"github.com/wolfman30/dental-directory/pkg/logging"
)

func newTestRouter(t *testing.T, rateLimit int) http.Handler {
	t.Helper()

	logger := logging.Discard()
	seed, err := directory.SeedProviders()
	require.NoError(t, err)
	catalog, err := directory.NewCatalog(seed)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	cfg := &Config{
		Logger:               logger,
		DirectoryHandler:     directory.NewHandler(catalog, metrics.NewDirectoryMetrics(reg), logger),
		AppointmentsHandler:  appointments.NewHandler(nil, metrics.NewAppointmentMetrics(reg), logger),
		SiteConfig:           siteconfig.NewService(siteconfig.DefaultAccountLinks()),
		MetricsHandler:       promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:   []string{"https://dentaldirectory.ph"},
		AppointmentRateLimit: rateLimit,
	}
	return New(cfg)
}

const roundTripBody = `{"dentistId":"d1","clinicId":"c1","patientType":"new","consultationType":"General Consultation","preferredDate":"2026-03-15","preferredTime":"10:00","reason":"","patientInfo":{"firstName":"Juan","lastName":"Dela Cruz","phone":"+63 917 123 4567","email":"juan@example.com"},"consent":true}`

func postAppointment(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/appointments/request", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterDirectoryRoutes(t *testing.T) {
	router := newTestRouter(t, 0)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/dentists?specialty=Orthodontics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var list directory.ListResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
	assert.Equal(t, 1, list.Total)
	assert.Len(t, list.Facets.Locations, 5)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/dentists/d404", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouterAppointmentRoundTrip(t *testing.T) {
	router := newTestRouter(t, 0)

	rr := postAppointment(router, roundTripBody)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp appointments.AppointmentResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RequestID)

	rr = postAppointment(router, strings.Replace(roundTripBody, "+63 917 123 4567", "123456", 1))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "phone")
}

func TestRouterAppointmentRateLimit(t *testing.T) {
	router := newTestRouter(t, 1)

	assert.Equal(t, http.StatusOK, postAppointment(router, roundTripBody).Code)
	assert.Equal(t, http.StatusTooManyRequests, postAppointment(router, roundTripBody).Code)
}

func TestRouterSiteConfigAndMetrics(t *testing.T) {
	router := newTestRouter(t, 0)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/site-config", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "signInUrl")

	postAppointment(router, roundTripBody)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "dental_appointments_requests_total")
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodOptions, "/api/appointments/request", nil)
	req.Header.Set("Origin", "https://dentaldirectory.ph")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://dentaldirectory.ph", rr.Header().Get("Access-Control-Allow-Origin"))
}
