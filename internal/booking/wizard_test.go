package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/dental-directory/internal/appointments"
	"github.com/wolfman30/dental-directory/internal/directory"
	"github.com/wolfman30/dental-directory/pkg/logging"
)

type fakeSubmitter struct {
	mu      sync.Mutex
	calls   []appointments.AppointmentRequest
	resp    appointments.AppointmentResponse
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeSubmitter) Submit(ctx context.Context, req appointments.AppointmentRequest) (appointments.AppointmentResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if release != nil {
		<-release
	}
	return f.resp, f.err
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testProvider() directory.Provider {
	return directory.Provider{
		ID:          "d1",
		Slug:        "dr-santos",
		Name:        "Dr. Maria Santos",
		Specialty:   "General Dentistry",
		Specialties: []string{"General Dentistry"},
		Clinics:     []directory.Clinic{{ID: "c1", City: "Makati"}, {ID: "c2", City: "Taguig"}},
	}
}

func newTestWizard(t *testing.T, s *fakeSubmitter) *Wizard {
	t.Helper()
	w := NewWizard(s, WithValidator(fixedValidator()), WithLogger(logging.Discard()))
	require.NoError(t, w.Open(testProvider(), ""))
	return w
}

// fillToStep3 walks the wizard to step 3 with valid data.
func fillToStep3(t *testing.T, w *Wizard) {
	t.Helper()
	require.NoError(t, w.Update(PatientTypeDetails{PatientType: "new"}))
	require.NoError(t, w.Next())
	require.NoError(t, w.Update(validAppointment()))
	require.NoError(t, w.Next())
	require.Equal(t, StateStep3, w.State())
}

func TestWizard_Step1Gating(t *testing.T) {
	w := newTestWizard(t, &fakeSubmitter{})
	assert.Equal(t, StateStep1, w.State())

	err := w.Next()
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "patientType")
	assert.Equal(t, StateStep1, w.State())
	assert.Contains(t, w.Errors(), "patientType")

	require.NoError(t, w.Update(PatientTypeDetails{PatientType: "existing"}))
	require.NoError(t, w.Next())
	assert.Equal(t, StateStep2, w.State())
	assert.Empty(t, w.Errors())

	require.NoError(t, w.Back())
	assert.Equal(t, StateStep1, w.State())
	assert.Equal(t, "existing", w.Data().PatientType.PatientType)
}

func TestWizard_Step2GatingAndBackKeepsData(t *testing.T) {
	w := newTestWizard(t, &fakeSubmitter{})
	require.NoError(t, w.Update(PatientTypeDetails{PatientType: "new"}))
	require.NoError(t, w.Next())

	past := validAppointment()
	past.PreferredDate = "2026-10-01"
	require.NoError(t, w.Update(past))
	assert.Error(t, w.Next())
	assert.Equal(t, StateStep2, w.State())
	assert.Contains(t, w.Errors(), "preferredDate")

	require.NoError(t, w.Update(validAppointment()))
	require.NoError(t, w.Next())
	assert.Equal(t, StateStep3, w.State())

	require.NoError(t, w.Update(ContactDetails{FirstName: "Juan"}))
	require.NoError(t, w.Back())
	require.NoError(t, w.Back())
	assert.Equal(t, StateStep1, w.State())

	data := w.Data()
	assert.Equal(t, "new", data.PatientType.PatientType)
	assert.Equal(t, "2026-10-20", data.Appointment.PreferredDate)
	assert.Equal(t, "Juan", data.Contact.FirstName)
}

func TestWizard_ForwardEntryClearsStaleErrors(t *testing.T) {
	w := newTestWizard(t, &fakeSubmitter{})
	fillToStep3(t, w)

	assert.Error(t, w.Submit(context.Background()))
	require.Contains(t, w.Errors(), "firstName")

	require.NoError(t, w.Back())
	assert.Contains(t, w.Errors(), "firstName", "back does not touch errors")
	require.NoError(t, w.Next())
	assert.Equal(t, StateStep3, w.State())
	assert.Empty(t, w.Errors())
}

func TestWizard_UpdateRejectsOtherSteps(t *testing.T) {
	w := newTestWizard(t, &fakeSubmitter{})
	assert.ErrorIs(t, w.Update(validContact()), ErrWrongStep)
	assert.ErrorIs(t, w.Update(nil), ErrWrongStep)
	assert.ErrorIs(t, w.Back(), ErrWrongState)
	assert.ErrorIs(t, w.Submit(context.Background()), ErrWrongState)
}

func TestWizard_SubmitSuccess(t *testing.T) {
	s := &fakeSubmitter{resp: appointments.AppointmentResponse{Success: true, RequestID: "req-1", Message: "Received req-1"}}
	w := newTestWizard(t, s)
	fillToStep3(t, w)
	require.NoError(t, w.Update(validContact()))

	require.NoError(t, w.Submit(context.Background()))

	assert.Equal(t, StateSuccess, w.State())
	assert.Equal(t, Outcome{Success: true, RequestID: "req-1", Message: "Received req-1"}, w.Outcome())
	require.Equal(t, 1, s.callCount())

	req := s.calls[0]
	assert.Equal(t, "d1", req.DentistID)
	assert.Equal(t, "c1", req.ClinicID)
	assert.Equal(t, "new", req.PatientType)
	assert.Equal(t, "General Consultation", req.ConsultationType)
	assert.Equal(t, "", req.Reason)
	assert.Equal(t, "+63 917 123 4567", req.PatientInfo.Phone)
	assert.True(t, req.Consent)

	assert.ErrorIs(t, w.Retry(), ErrWrongState)
	require.NoError(t, w.Close())
	assert.Equal(t, StateStep1, w.State())
	assert.Equal(t, FormData{}, w.Data())
}

func TestWizard_SubmitValidationBlocks(t *testing.T) {
	s := &fakeSubmitter{}
	w := newTestWizard(t, s)
	fillToStep3(t, w)

	c := validContact()
	c.Consent = false
	require.NoError(t, w.Update(c))

	err := w.Submit(context.Background())
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "consent")
	assert.Equal(t, StateStep3, w.State())
	assert.Zero(t, s.callCount())
}

func TestWizard_RejectionAndRetry(t *testing.T) {
	s := &fakeSubmitter{resp: appointments.AppointmentResponse{Success: false, Message: "Invalid phone number format", Error: "Validation failed"}}
	w := newTestWizard(t, s)
	fillToStep3(t, w)
	require.NoError(t, w.Update(validContact()))

	require.NoError(t, w.Submit(context.Background()))
	assert.Equal(t, StateError, w.State())
	assert.Equal(t, "Invalid phone number format", w.Outcome().Message)

	require.NoError(t, w.Retry())
	assert.Equal(t, StateStep3, w.State())
	assert.Equal(t, validContact(), w.Data().Contact)

	s.resp = appointments.AppointmentResponse{Success: true, RequestID: "req-2"}
	require.NoError(t, w.Submit(context.Background()))
	assert.Equal(t, StateSuccess, w.State())
	assert.Equal(t, 2, s.callCount(), "each attempt issues its own call")
}

func TestWizard_TransportErrorIsGeneric(t *testing.T) {
	s := &fakeSubmitter{err: errors.New("dial tcp: connection refused")}
	w := newTestWizard(t, s)
	fillToStep3(t, w)
	require.NoError(t, w.Update(validContact()))

	require.NoError(t, w.Submit(context.Background()))
	assert.Equal(t, StateError, w.State())
	assert.Equal(t, GenericFailureMessage, w.Outcome().Message)
	assert.False(t, w.Outcome().Success)
}

func TestWizard_BusyWhileSubmitting(t *testing.T) {
	s := &fakeSubmitter{
		resp:    appointments.AppointmentResponse{Success: true, RequestID: "req-3"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	w := newTestWizard(t, s)
	fillToStep3(t, w)
	require.NoError(t, w.Update(validContact()))

	done := make(chan error, 1)
	go func() { done <- w.Submit(context.Background()) }()
	<-s.started

	assert.Equal(t, StateSubmitting, w.State())
	assert.ErrorIs(t, w.Submit(context.Background()), ErrBusy)
	assert.ErrorIs(t, w.Close(), ErrBusy)
	assert.ErrorIs(t, w.Back(), ErrBusy)
	assert.ErrorIs(t, w.Cancel(), ErrBusy)
	assert.ErrorIs(t, w.Update(validContact()), ErrBusy)
	assert.ErrorIs(t, w.Open(testProvider(), ""), ErrBusy)

	close(s.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateSuccess, w.State())
	assert.Equal(t, 1, s.callCount())
}

func TestWizard_OpenTargetsClinic(t *testing.T) {
	w := NewWizard(&fakeSubmitter{}, WithValidator(fixedValidator()))

	require.NoError(t, w.Open(testProvider(), "c2"))
	dentist, clinic := w.Target()
	assert.Equal(t, "d1", dentist)
	assert.Equal(t, "c2", clinic)

	assert.ErrorIs(t, w.Open(testProvider(), "c9"), ErrUnknownClinic)

	require.NoError(t, w.Update(PatientTypeDetails{PatientType: "new"}))
	other := directory.Provider{ID: "d5"}
	require.NoError(t, w.Open(other, ""))
	dentist, clinic = w.Target()
	assert.Equal(t, "d5", dentist)
	assert.Empty(t, clinic)
	assert.Equal(t, FormData{}, w.Data(), "reopening resets form data")
}

func TestWizard_CancelSemantics(t *testing.T) {
	w := newTestWizard(t, &fakeSubmitter{})
	fillToStep3(t, w)

	require.NoError(t, w.Cancel())
	assert.Equal(t, StateStep2, w.State())
	require.NoError(t, w.Cancel())
	assert.Equal(t, StateStep1, w.State())
	assert.Equal(t, "new", w.Data().PatientType.PatientType)

	require.NoError(t, w.Cancel())
	assert.Equal(t, FormData{}, w.Data())
	dentist, _ := w.Target()
	assert.Empty(t, dentist)
}

func TestWizard_SubmitRequiresOpen(t *testing.T) {
	s := &fakeSubmitter{}
	w := NewWizard(s, WithValidator(fixedValidator()), WithLogger(logging.Discard()))
	fillToStep3(t, w)
	require.NoError(t, w.Update(validContact()))

	assert.ErrorIs(t, w.Submit(context.Background()), ErrNotOpen)
	assert.Zero(t, s.callCount())

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Submit(context.Background()), ErrWrongState)
}
