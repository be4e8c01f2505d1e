package appointments

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"unicode"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

var (
	requiredFields = []string{
		"dentistId", "clinicId", "patientType", "consultationType",
		"preferredDate", "preferredTime", "reason", "patientInfo", "consent",
	}

	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneCharPattern = regexp.MustCompile(`^[0-9\s+\-()]+$`)
	datePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern      = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Phone numbers must carry this many digits once punctuation is ignored.
const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

const (
	validationFailed   = "Validation failed"
	malformedMessage   = "Invalid request format"
	malformedDetail    = "Request body must be a valid JSON object"
	unexpectedMessage  = "Failed to process appointment request"
	unexpectedDetail   = "An unexpected error occurred. Please try again later."
	confirmationFormat = "Your appointment request has been received. Reference ID: %s. The clinic will contact you to confirm your schedule."
)

// Validator checks appointment requests and shapes the response envelope.
// It holds no per-request state and is safe for concurrent use.
type Validator struct {
	newID func() string
}

// Option configures a Validator.
type Option func(*Validator)

// WithIDGenerator overrides how request ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(v *Validator) {
		if fn != nil {
			v.newID = fn
		}
	}
}

// NewValidator creates a Validator that mints uuid request ids.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{newID: uuid.NewString}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs every check against raw and returns the status and body the
// endpoint should answer with.
func (v *Validator) Validate(raw []byte) Result {
	if _, err := Check(raw); err != nil {
		return rejection(err)
	}

	id := v.newID()
	return Result{
		Status: http.StatusOK,
		Body: AppointmentResponse{
			Success:   true,
			RequestID: id,
			Message:   fmt.Sprintf(confirmationFormat, id),
		},
	}
}

// Check decodes raw and applies the rules in order, stopping at the first
// failure. The error is ErrMalformedRequest (wrapped) or a *ValidationError.
func Check(raw []byte) (AppointmentRequest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return AppointmentRequest{}, fmt.Errorf("appointments: decode: %w", ErrMalformedRequest)
	}

	// null counts as present; only an absent key fails here.
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			return AppointmentRequest{}, reject(RuleRequiredField, name, "Missing required field: "+name)
		}
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return AppointmentRequest{}, fmt.Errorf("appointments: decode: %w", ErrMalformedRequest)
	}

	if err := checkPatientInfo(p.PatientInfo); err != nil {
		return AppointmentRequest{}, err
	}
	info := *p.PatientInfo

	if !bytes.Equal(bytes.TrimSpace(fields["consent"]), []byte("true")) {
		return AppointmentRequest{}, reject(RuleConsent, "consent", "Consent is required to submit an appointment request")
	}
	if !emailPattern.MatchString(info.Email) {
		return AppointmentRequest{}, reject(RuleEmail, "patientInfo.email", "Invalid email address format")
	}
	if !validPhone(info.Phone) {
		return AppointmentRequest{}, reject(RulePhone, "patientInfo.phone", "Invalid phone number format")
	}
	if !datePattern.MatchString(p.PreferredDate) {
		return AppointmentRequest{}, reject(RuleDate, "preferredDate", "Invalid date format. Use YYYY-MM-DD")
	}
	if !timePattern.MatchString(p.PreferredTime) {
		return AppointmentRequest{}, reject(RuleTime, "preferredTime", "Invalid time format. Use HH:MM")
	}
	if p.PatientType != PatientTypeNew && p.PatientType != PatientTypeExisting {
		return AppointmentRequest{}, reject(RulePatientType, "patientType", "Invalid patient type. Must be 'new' or 'existing'")
	}

	return AppointmentRequest{
		DentistID:        p.DentistID,
		ClinicID:         p.ClinicID,
		PatientType:      p.PatientType,
		ConsultationType: p.ConsultationType,
		PreferredDate:    p.PreferredDate,
		PreferredTime:    p.PreferredTime,
		Reason:           p.Reason,
		PatientInfo:      info,
		Consent:          true,
	}, nil
}

func checkPatientInfo(info *PatientInfo) error {
	if info == nil {
		return reject(RulePatientInfo, "patientInfo", "Missing required patient information")
	}
	for _, f := range []struct{ name, value string }{
		{"firstName", info.FirstName},
		{"lastName", info.LastName},
		{"phone", info.Phone},
		{"email", info.Email},
	} {
		if f.value == "" {
			return reject(RulePatientInfo, "patientInfo."+f.name, "Missing required patient information: "+f.name)
		}
	}
	return nil
}

func validPhone(phone string) bool {
	if !phoneCharPattern.MatchString(phone) {
		return false
	}
	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}

func rejection(err error) Result {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return Result{
			Status: http.StatusBadRequest,
			Rule:   ve.Rule,
			Body:   AppointmentResponse{Success: false, Message: ve.Message, Error: validationFailed},
		}
	}
	return Result{
		Status: http.StatusBadRequest,
		Body:   AppointmentResponse{Success: false, Message: malformedMessage, Error: malformedDetail},
	}
}

// unexpectedFailure is the body written when handling panics.
func unexpectedFailure() Result {
	return Result{
		Status: http.StatusInternalServerError,
		Body:   AppointmentResponse{Success: false, Message: unexpectedMessage, Error: unexpectedDetail},
	}
}
