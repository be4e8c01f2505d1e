package booking

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/wolfman30/dental-directory/internal/appointments"
)

// AppointmentRequestPath is the endpoint HTTPSubmitter posts to.
const AppointmentRequestPath = "/api/appointments/request"

// HTTPSubmitter posts appointment requests to the appointment service.
type HTTPSubmitter struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSubmitter creates a submitter for the service at baseURL. client may
// be nil.
func NewHTTPSubmitter(baseURL string, client *http.Client) *HTTPSubmitter {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPSubmitter{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Submit sends req and decodes the response envelope. Any status carrying a
// JSON envelope is returned as a response; a transport failure or a body that
// is not an envelope is an error.
func (s *HTTPSubmitter) Submit(ctx context.Context, req appointments.AppointmentRequest) (appointments.AppointmentResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return appointments.AppointmentResponse{}, fmt.Errorf("booking: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+AppointmentRequestPath, bytes.NewReader(body))
	if err != nil {
		return appointments.AppointmentResponse{}, fmt.Errorf("booking: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return appointments.AppointmentResponse{}, fmt.Errorf("booking: send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return appointments.AppointmentResponse{}, fmt.Errorf("booking: read response: %w", err)
	}

	var out appointments.AppointmentResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return appointments.AppointmentResponse{}, fmt.Errorf("%w: status %d", ErrUnexpectedResponse, resp.StatusCode)
	}
	if out.Success && resp.StatusCode != http.StatusOK {
		return appointments.AppointmentResponse{}, fmt.Errorf("%w: success body with status %d", ErrUnexpectedResponse, resp.StatusCode)
	}
	return out, nil
}
