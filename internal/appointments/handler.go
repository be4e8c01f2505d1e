package appointments

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/dental-directory/internal/observability/metrics"
	"github.com/wolfman30/dental-directory/pkg/logging"
)

// maxBodyBytes caps the request body read by the endpoint.
const maxBodyBytes = 1 << 20

// Handler serves POST /api/appointments/request. Accepted requests are not
// stored; the handler only validates and mints a reference id.
type Handler struct {
	validator *Validator
	metrics   *metrics.AppointmentMetrics
	logger    *logging.Logger
	tracer    trace.Tracer
}

// NewHandler creates an appointment request handler. v and m may be nil.
func NewHandler(v *Validator, m *metrics.AppointmentMetrics, logger *logging.Logger) *Handler {
	if v == nil {
		v = NewValidator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		validator: v,
		metrics:   m,
		logger:    logger,
		tracer:    otel.Tracer("dental.internal.appointments"),
	}
}

// RequestAppointment validates the body and writes the response envelope.
func (h *Handler) RequestAppointment(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "appointments.request", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("appointments: panic: %v", rec)
			span.RecordError(err)
			h.logger.Error("appointment request failed", "error", err)
			h.metrics.ObserveRequest("error", time.Since(start).Seconds())
			res := unexpectedFailure()
			writeJSON(w, res.Status, res.Body)
		}
	}()

	var res Result
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		res = rejection(fmt.Errorf("appointments: read body: %w", ErrMalformedRequest))
	} else {
		res = h.validator.Validate(raw)
	}

	outcome := "accepted"
	switch {
	case res.Rule != "":
		outcome = "rejected"
		h.metrics.ObserveRejection(string(res.Rule))
		h.logger.Info("appointment request rejected", "rule", res.Rule, "message", res.Body.Message)
	case res.Status == http.StatusBadRequest:
		outcome = "malformed"
		h.logger.Warn("malformed appointment request", "bytes", len(raw))
	default:
		h.logger.Info("appointment request accepted", "request_id", res.Body.RequestID)
	}
	span.SetAttributes(
		attribute.String("appointments.outcome", outcome),
		attribute.String("appointments.rule", string(res.Rule)),
		attribute.Int("http.status_code", res.Status),
	)
	h.metrics.ObserveRequest(outcome, time.Since(start).Seconds())

	writeJSON(w, res.Status, res.Body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
