package booking

import (
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// Optional country code 63, then a 9XX XXX XXXX mobile number.
	phMobilePattern = regexp.MustCompile(`^(\+?63\s?)?9\d{2}\s?\d{3}\s?\d{4}$`)
	hhmmPattern     = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

const isoDateLayout = "2006-01-02"

// FieldRule is the validation applied to one field of a step.
type FieldRule struct {
	Field string
	// Rules is a validator tag string, e.g. "required,email".
	Rules string
	// Messages maps a failing tag to the text shown inline. The "" key is
	// the fallback.
	Messages map[string]string
}

// Schema lists the rules for every validated field of a step.
type Schema struct {
	Step  Step
	Rules []FieldRule
}

// Fields returns the field names the schema validates.
func (s Schema) Fields() []string {
	out := make([]string, 0, len(s.Rules))
	for _, r := range s.Rules {
		out = append(out, r.Field)
	}
	return out
}

var schemas = map[Step]Schema{
	StepPatientType: {Step: StepPatientType, Rules: []FieldRule{
		{Field: "patientType", Rules: "required,oneof=new existing", Messages: map[string]string{
			"": "Please select whether you are a new or existing patient",
		}},
	}},
	StepAppointment: {Step: StepAppointment, Rules: []FieldRule{
		{Field: "consultationType", Rules: "required", Messages: map[string]string{
			"": "Please select a consultation type",
		}},
		{Field: "preferredDate", Rules: "required,iso_date,not_before_today", Messages: map[string]string{
			"required":         "Please select a preferred date",
			"not_before_today": "Preferred date cannot be in the past",
			"":                 "Please enter a valid date",
		}},
		{Field: "preferredTime", Rules: "required,hhmm", Messages: map[string]string{
			"required": "Please select a preferred time",
			"":         "Please enter a valid time (HH:MM)",
		}},
	}},
	StepContact: {Step: StepContact, Rules: []FieldRule{
		{Field: "firstName", Rules: "required", Messages: map[string]string{"": "First name is required"}},
		{Field: "lastName", Rules: "required", Messages: map[string]string{"": "Last name is required"}},
		{Field: "phone", Rules: "required,ph_mobile", Messages: map[string]string{
			"required": "Phone number is required",
			"":         "Please enter a valid mobile number, e.g. +63 917 123 4567",
		}},
		{Field: "email", Rules: "required,email", Messages: map[string]string{
			"required": "Email is required",
			"":         "Please enter a valid email address",
		}},
		{Field: "consent", Rules: "accepted", Messages: map[string]string{
			"": "You must agree to be contacted about this request",
		}},
	}},
}

// SchemaFor returns the validation schema of step. Unknown steps have no rules.
func SchemaFor(step Step) Schema {
	s, ok := schemas[step]
	if !ok {
		return Schema{Step: step}
	}
	return s
}

// FieldErrors maps a field name to the message shown next to it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "booking: invalid fields: " + strings.Join(parts, "; ")
}

// Validator applies step schemas. Date rules compare against the calendar day
// of now in loc.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
	loc      *time.Location
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithClock sets the time source used by not_before_today.
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// WithLocation sets the timezone that defines "today".
func WithLocation(loc *time.Location) ValidatorOption {
	return func(v *Validator) {
		if loc != nil {
			v.loc = loc
		}
	}
}

// NewValidator builds a Validator with the booking tags registered.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		validate: validator.New(),
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.validate.RegisterValidation("ph_mobile", validatePHMobile)
	v.validate.RegisterValidation("iso_date", validateISODate)
	v.validate.RegisterValidation("hhmm", validateHHMM)
	v.validate.RegisterValidation("accepted", validateAccepted)
	v.validate.RegisterValidation("not_before_today", v.validateNotBeforeToday)
	return v
}

// Validate checks p against its step schema. It returns nil when every rule
// passes.
func (v *Validator) Validate(p StepPayload) FieldErrors {
	values := p.values()
	var errs FieldErrors
	for _, rule := range SchemaFor(p.Step()).Rules {
		err := v.validate.Var(values[rule.Field], rule.Rules)
		if err == nil {
			continue
		}
		tag := ""
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			tag = verrs[0].Tag()
		}
		msg, ok := rule.Messages[tag]
		if !ok {
			msg = rule.Messages[""]
		}
		if errs == nil {
			errs = FieldErrors{}
		}
		errs[rule.Field] = msg
	}
	return errs
}

func (v *Validator) today() time.Time {
	y, m, d := v.now().In(v.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, v.loc)
}

func (v *Validator) validateNotBeforeToday(fl validator.FieldLevel) bool {
	day, err := time.ParseInLocation(isoDateLayout, fl.Field().String(), v.loc)
	if err != nil {
		return false
	}
	return !day.Before(v.today())
}

func validatePHMobile(fl validator.FieldLevel) bool {
	return phMobilePattern.MatchString(fl.Field().String())
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(isoDateLayout, fl.Field().String())
	return err == nil
}

func validateHHMM(fl validator.FieldLevel) bool {
	return hhmmPattern.MatchString(fl.Field().String())
}

func validateAccepted(fl validator.FieldLevel) bool {
	f := fl.Field()
	return f.Kind() == reflect.Bool && f.Bool()
}
