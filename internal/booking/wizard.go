package booking

import (
	"context"
	"fmt"
	"sync"

	"github.com/wolfman30/dental-directory/internal/appointments"
	"github.com/wolfman30/dental-directory/internal/directory"
	"github.com/wolfman30/dental-directory/pkg/logging"
)

// GenericFailureMessage is shown when the appointment service could not be
// reached or answered with something other than an envelope.
const GenericFailureMessage = "We could not send your appointment request. Please check your connection and try again."

// Submitter sends a finished appointment request.
type Submitter interface {
	Submit(ctx context.Context, req appointments.AppointmentRequest) (appointments.AppointmentResponse, error)
}

// Outcome is the result of the last submission.
type Outcome struct {
	Success   bool   `json:"success"`
	RequestID string `json:"requestId,omitempty"`
	Message   string `json:"message"`
}

// Wizard is the three-step booking flow for one provider. It is safe for
// concurrent use; while a submission is in flight every other call returns
// ErrBusy.
type Wizard struct {
	mu        sync.Mutex
	state     State
	data      FormData
	errs      FieldErrors
	dentistID string
	clinicID  string
	outcome   Outcome

	submitter Submitter
	validator *Validator
	logger    *logging.Logger
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithValidator replaces the default step validator.
func WithValidator(v *Validator) Option {
	return func(w *Wizard) {
		if v != nil {
			w.validator = v
		}
	}
}

// WithLogger sets the wizard logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Wizard) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWizard creates a closed wizard that submits through s.
func NewWizard(s Submitter, opts ...Option) *Wizard {
	if s == nil {
		panic("booking: submitter required")
	}
	w := &Wizard{
		submitter: s,
		validator: NewValidator(),
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open resets the wizard and targets provider at clinicID, or at the
// provider's first clinic when clinicID is empty.
func (w *Wizard) Open(provider directory.Provider, clinicID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateSubmitting {
		return ErrBusy
	}

	if clinicID == "" {
		if c, ok := provider.PrimaryClinic(); ok {
			clinicID = c.ID
		}
	} else if _, ok := provider.ClinicByID(clinicID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownClinic, clinicID)
	}

	w.resetLocked()
	w.dentistID = provider.ID
	w.clinicID = clinicID
	return nil
}

// Close discards all form data and returns to step 1.
func (w *Wizard) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateSubmitting {
		return ErrBusy
	}
	w.resetLocked()
	return nil
}

func (w *Wizard) resetLocked() {
	w.state = StateStep1
	w.data = FormData{}
	w.errs = nil
	w.dentistID = ""
	w.clinicID = ""
	w.outcome = Outcome{}
}

// Update stores p as the data of the current step.
func (w *Wizard) Update(p StepPayload) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateSubmitting {
		return ErrBusy
	}
	step, ok := w.state.Step()
	if !ok {
		return ErrWrongState
	}
	if p == nil || p.Step() != step {
		return ErrWrongStep
	}
	w.data.store(p)
	return nil
}

// Next validates the current step and advances when it passes. On failure
// the returned FieldErrors are also kept for Errors and the state is unchanged.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateSubmitting {
		return ErrBusy
	}
	if w.state != StateStep1 && w.state != StateStep2 {
		return ErrWrongState
	}

	step, _ := w.state.Step()
	if errs := w.validateLocked(step); errs != nil {
		return errs
	}

	next := step + 1
	w.clearErrorsLocked(next)
	w.state = stateFor(next)
	return nil
}

// Back returns to the previous step without validation or data loss.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.backLocked()
}

func (w *Wizard) backLocked() error {
	switch w.state {
	case StateSubmitting:
		return ErrBusy
	case StateStep2:
		w.state = StateStep1
	case StateStep3:
		w.state = StateStep2
	default:
		return ErrWrongState
	}
	return nil
}

// Cancel closes the wizard from step 1 or a finished submission, and acts as
// Back on steps 2 and 3.
func (w *Wizard) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case StateSubmitting:
		return ErrBusy
	case StateStep2, StateStep3:
		return w.backLocked()
	default:
		w.resetLocked()
		return nil
	}
}

// Submit validates step 3 and sends the request with exactly one call to the
// submitter. Transport failures and rejections both end in StateError; only
// gating problems are returned as errors.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	switch {
	case w.state == StateSubmitting:
		w.mu.Unlock()
		return ErrBusy
	case w.state != StateStep3:
		w.mu.Unlock()
		return ErrWrongState
	case w.dentistID == "":
		w.mu.Unlock()
		return ErrNotOpen
	}
	if errs := w.validateLocked(StepContact); errs != nil {
		w.mu.Unlock()
		return errs
	}
	req := w.requestLocked()
	w.state = StateSubmitting
	w.mu.Unlock()

	resp, err := w.submitter.Submit(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case err != nil:
		w.logger.Warn("appointment submission failed", "error", err, "dentist_id", req.DentistID)
		w.outcome = Outcome{Message: GenericFailureMessage}
		w.state = StateError
	case !resp.Success:
		msg := resp.Message
		if msg == "" {
			msg = GenericFailureMessage
		}
		w.logger.Info("appointment request rejected", "message", resp.Message, "dentist_id", req.DentistID)
		w.outcome = Outcome{Message: msg}
		w.state = StateError
	default:
		w.outcome = Outcome{Success: true, RequestID: resp.RequestID, Message: resp.Message}
		w.state = StateSuccess
	}
	return nil
}

// Retry leaves StateError for step 3 with the entered data intact.
func (w *Wizard) Retry() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateSubmitting {
		return ErrBusy
	}
	if w.state != StateError {
		return ErrWrongState
	}
	w.outcome = Outcome{}
	w.clearErrorsLocked(StepContact)
	w.state = StateStep3
	return nil
}

// State returns the current state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Data returns a copy of the entered form data.
func (w *Wizard) Data() FormData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data
}

// Errors returns the inline field errors currently shown.
func (w *Wizard) Errors() FieldErrors {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.errs) == 0 {
		return nil
	}
	out := make(FieldErrors, len(w.errs))
	for k, v := range w.errs {
		out[k] = v
	}
	return out
}

// Outcome returns the result of the last submission.
func (w *Wizard) Outcome() Outcome {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.outcome
}

// Target returns the dentist and clinic the request will be sent for.
func (w *Wizard) Target() (dentistID, clinicID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dentistID, w.clinicID
}

func (w *Wizard) validateLocked(step Step) FieldErrors {
	w.clearErrorsLocked(step)
	errs := w.validator.Validate(w.data.payload(step))
	if errs == nil {
		return nil
	}
	if w.errs == nil {
		w.errs = FieldErrors{}
	}
	for k, v := range errs {
		w.errs[k] = v
	}
	return errs
}

func (w *Wizard) clearErrorsLocked(step Step) {
	for _, field := range SchemaFor(step).Fields() {
		delete(w.errs, field)
	}
}

func (w *Wizard) requestLocked() appointments.AppointmentRequest {
	d := w.data
	return appointments.AppointmentRequest{
		DentistID:        w.dentistID,
		ClinicID:         w.clinicID,
		PatientType:      d.PatientType.PatientType,
		ConsultationType: d.Appointment.ConsultationType,
		PreferredDate:    d.Appointment.PreferredDate,
		PreferredTime:    d.Appointment.PreferredTime,
		Reason:           d.Appointment.Reason,
		PatientInfo: appointments.PatientInfo{
			FirstName: d.Contact.FirstName,
			LastName:  d.Contact.LastName,
			Phone:     d.Contact.Phone,
			Email:     d.Contact.Email,
		},
		Consent: d.Contact.Consent,
	}
}
