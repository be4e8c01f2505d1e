package appointments

import (
	"errors"
	"fmt"
)

// ErrMalformedRequest is returned when the body is not a JSON object of the
// expected shape.
var ErrMalformedRequest = errors.New("invalid request format")

// Rule identifies a validation check. Rules run in declaration order and
// the first failure wins.
type Rule string

const (
	RuleRequiredField Rule = "required_field"
	RulePatientInfo   Rule = "patient_info"
	RuleConsent       Rule = "consent"
	RuleEmail         Rule = "email"
	RulePhone         Rule = "phone"
	RuleDate          Rule = "date"
	RuleTime          Rule = "time"
	RulePatientType   Rule = "patient_type"
)

// ValidationError reports the first rule an appointment request failed.
type ValidationError struct {
	Rule    Rule
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("appointments: %s: %s", e.Rule, e.Message)
}

func reject(rule Rule, field, message string) *ValidationError {
	return &ValidationError{Rule: rule, Field: field, Message: message}
}
