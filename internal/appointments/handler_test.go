package appointments

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/dental-directory/internal/observability/metrics"
	"github.com/wolfman30/dental-directory/pkg/logging"
)

func postRequest(t *testing.T, h *Handler, body []byte) (*httptest.ResponseRecorder, AppointmentResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/appointments/request", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.RequestAppointment(w, req)

	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func TestRequestAppointment_RoundTrip(t *testing.T) {
	h := NewHandler(nil, nil, logging.Discard())

	w, resp := postRequest(t, h, encode(t, validPayload()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RequestID)
	assert.Contains(t, resp.Message, resp.RequestID)
}

func TestRequestAppointment_InvalidPhone(t *testing.T) {
	h := NewHandler(nil, nil, logging.Discard())
	p := validPayload()
	patientInfo(p)["phone"] = "123456"

	w, resp := postRequest(t, h, encode(t, p))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, strings.ToLower(resp.Message), "phone")
	assert.NotEmpty(t, resp.Error)
}

func TestRequestAppointment_MissingConsentBeatsBadEmail(t *testing.T) {
	h := NewHandler(nil, nil, logging.Discard())
	p := validPayload()
	delete(p, "consent")
	patientInfo(p)["email"] = "juan-at-example"

	w, resp := postRequest(t, h, encode(t, p))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Message, "consent")
}

func TestRequestAppointment_MalformedJSON(t *testing.T) {
	h := NewHandler(nil, nil, logging.Discard())

	w, resp := postRequest(t, h, []byte(`{"dentistId": "d1",`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid request format", resp.Message)
}

func TestRequestAppointment_PanicIsNormalized(t *testing.T) {
	v := NewValidator(WithIDGenerator(func() string { panic("entropy exhausted") }))
	h := NewHandler(v, nil, logging.Discard())

	w, resp := postRequest(t, h, encode(t, validPayload()))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Failed to process appointment request", resp.Message)
	assert.Equal(t, "An unexpected error occurred. Please try again later.", resp.Error)
}

func TestRequestAppointment_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewHandler(nil, metrics.NewAppointmentMetrics(reg), logging.Discard())

	postRequest(t, h, encode(t, validPayload()))

	bad := validPayload()
	bad["patientType"] = "vip"
	postRequest(t, h, encode(t, bad))
	postRequest(t, h, []byte("not json"))

	series, err := testutil.GatherAndCount(reg, "dental_appointments_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 3, series, "accepted, rejected and malformed outcomes")

	rules, err := testutil.GatherAndCount(reg, "dental_appointments_rejections_total")
	require.NoError(t, err)
	assert.Equal(t, 1, rules)
}
