package appointments

// PatientInfo is the contact block of an appointment request.
type PatientInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// AppointmentRequest is the wire payload of POST /api/appointments/request.
// It is built once at submission time.
type AppointmentRequest struct {
	DentistID        string      `json:"dentistId"`
	ClinicID         string      `json:"clinicId"`
	PatientType      string      `json:"patientType"`
	ConsultationType string      `json:"consultationType"`
	PreferredDate    string      `json:"preferredDate"`
	PreferredTime    string      `json:"preferredTime"`
	Reason           string      `json:"reason"`
	PatientInfo      PatientInfo `json:"patientInfo"`
	Consent          bool        `json:"consent"`
}

// AppointmentResponse is the envelope returned for every request.
type AppointmentResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Result is a status code plus the envelope to write. Rule is set when a
// validation check rejected the request.
type Result struct {
	Status int
	Rule   Rule
	Body   AppointmentResponse
}

// Patient types accepted by the validator.
const (
	PatientTypeNew      = "new"
	PatientTypeExisting = "existing"
)

// payload mirrors AppointmentRequest with the fields whose raw shape matters
// to validation left undecoded.
type payload struct {
	DentistID        string       `json:"dentistId"`
	ClinicID         string       `json:"clinicId"`
	PatientType      string       `json:"patientType"`
	ConsultationType string       `json:"consultationType"`
	PreferredDate    string       `json:"preferredDate"`
	PreferredTime    string       `json:"preferredTime"`
	Reason           string       `json:"reason"`
	PatientInfo      *PatientInfo `json:"patientInfo"`
}
