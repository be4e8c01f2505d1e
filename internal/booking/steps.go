package booking

// Step tags one of the three form pages.
type Step int

const (
	StepPatientType Step = iota + 1
	StepAppointment
	StepContact
)

// StepPayload is the data entered on one step. It is implemented only by
// PatientTypeDetails, AppointmentDetails and ContactDetails.
type StepPayload interface {
	Step() Step
	values() map[string]any
}

// PatientTypeDetails is step 1.
type PatientTypeDetails struct {
	PatientType string `json:"patientType"`
}

// AppointmentDetails is step 2.
type AppointmentDetails struct {
	ConsultationType string `json:"consultationType"`
	PreferredDate    string `json:"preferredDate"`
	PreferredTime    string `json:"preferredTime"`
	Reason           string `json:"reason"`
}

// ContactDetails is step 3.
type ContactDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Consent   bool   `json:"consent"`
}

func (PatientTypeDetails) Step() Step { return StepPatientType }
func (AppointmentDetails) Step() Step { return StepAppointment }
func (ContactDetails) Step() Step     { return StepContact }

func (p PatientTypeDetails) values() map[string]any {
	return map[string]any{"patientType": p.PatientType}
}

func (p AppointmentDetails) values() map[string]any {
	return map[string]any{
		"consultationType": p.ConsultationType,
		"preferredDate":    p.PreferredDate,
		"preferredTime":    p.PreferredTime,
		"reason":           p.Reason,
	}
}

func (p ContactDetails) values() map[string]any {
	return map[string]any{
		"firstName": p.FirstName,
		"lastName":  p.LastName,
		"phone":     p.Phone,
		"email":     p.Email,
		"consent":   p.Consent,
	}
}

// FormData accumulates every step of one booking attempt.
type FormData struct {
	PatientType PatientTypeDetails
	Appointment AppointmentDetails
	Contact     ContactDetails
}

func (f FormData) payload(step Step) StepPayload {
	switch step {
	case StepAppointment:
		return f.Appointment
	case StepContact:
		return f.Contact
	default:
		return f.PatientType
	}
}

func (f *FormData) store(p StepPayload) {
	switch v := p.(type) {
	case PatientTypeDetails:
		f.PatientType = v
	case AppointmentDetails:
		f.Appointment = v
	case ContactDetails:
		f.Contact = v
	case *PatientTypeDetails:
		f.PatientType = *v
	case *AppointmentDetails:
		f.Appointment = *v
	case *ContactDetails:
		f.Contact = *v
	}
}
