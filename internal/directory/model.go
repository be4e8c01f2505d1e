// Package directory holds dentist profiles and the faceted search over them.
package directory

import (
	"slices"
	"strings"
)

// TimeSlot is an open interval within a day, "HH:MM" in 24-hour format.
type TimeSlot struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// DaySchedule lists the open slots for one weekday. No slots means closed.
type DaySchedule struct {
	Day   string     `json:"day" yaml:"day"`
	Slots []TimeSlot `json:"slots" yaml:"slots"`
}

// Schedule is the weekly schedule of a clinic, Monday first.
type Schedule [7]DaySchedule

// Fee is the price of one consultation type at a clinic.
type Fee struct {
	ConsultationType string  `json:"consultationType" yaml:"consultationType"`
	Amount           float64 `json:"amount" yaml:"amount"`
	Currency         string  `json:"currency" yaml:"currency"`
}

// Clinic is one practice location of a dentist.
type Clinic struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	City     string   `json:"city" yaml:"city"`
	Address  string   `json:"address" yaml:"address"`
	Phone    string   `json:"phone,omitempty" yaml:"phone"`
	Email    string   `json:"email,omitempty" yaml:"email"`
	Schedule Schedule `json:"schedule" yaml:"schedule"`
	Fees     []Fee    `json:"fees,omitempty" yaml:"fees"`
}

// FeeFor returns the fee configured for a consultation type.
func (c Clinic) FeeFor(consultationType string) (Fee, bool) {
	for _, fee := range c.Fees {
		if strings.EqualFold(fee.ConsultationType, consultationType) {
			return fee, true
		}
	}
	return Fee{}, false
}

// Availability is the next open slot of a dentist. The zero value means no
// known availability.
type Availability struct {
	Date     string `json:"date,omitempty" yaml:"date"`
	Time     string `json:"time,omitempty" yaml:"time"`
	ClinicID string `json:"clinicId,omitempty" yaml:"clinicId"`
}

// Known reports whether a next slot is published.
func (a Availability) Known() bool {
	return a.Date != "" && a.Time != ""
}

// Provider is a dentist profile. Provider records are read-only once loaded.
type Provider struct {
	ID           string       `json:"id" yaml:"id"`
	Slug         string       `json:"slug" yaml:"slug"`
	Name         string       `json:"name" yaml:"name"`
	Title        string       `json:"title" yaml:"title"`
	Specialty    string       `json:"specialty" yaml:"specialty"`
	Specialties  []string     `json:"specialties" yaml:"specialties"`
	Clinics      []Clinic     `json:"clinics" yaml:"clinics"`
	Services     []string     `json:"services" yaml:"services"`
	Languages    []string     `json:"languages" yaml:"languages"`
	Availability Availability `json:"availability" yaml:"availability"`
}

// PrimaryClinic returns the first listed clinic.
func (p Provider) PrimaryClinic() (Clinic, bool) {
	if len(p.Clinics) == 0 {
		return Clinic{}, false
	}
	return p.Clinics[0], true
}

// ClinicByID finds one of the provider's clinics.
func (p Provider) ClinicByID(id string) (Clinic, bool) {
	for _, c := range p.Clinics {
		if c.ID == id {
			return c, true
		}
	}
	return Clinic{}, false
}

// Validate checks the structural invariants of a loaded record.
func (p Provider) Validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return ErrMissingID
	case strings.TrimSpace(p.Slug) == "":
		return invalidProvider(p.ID, "slug is required")
	case strings.TrimSpace(p.Name) == "":
		return invalidProvider(p.ID, "name is required")
	case !slices.Contains(p.Specialties, p.Specialty):
		return invalidProvider(p.ID, "specialty "+p.Specialty+" is not listed in specialties")
	}
	return nil
}
