package booking

import "errors"

var (
	// ErrBusy is returned for any input while a submission is in flight.
	ErrBusy = errors.New("booking: submission in progress")

	// ErrNotOpen is returned when submitting before a provider was chosen.
	ErrNotOpen = errors.New("booking: wizard not opened for a provider")

	// ErrWrongState is returned when an action does not apply to the current state.
	ErrWrongState = errors.New("booking: action not allowed in current state")

	// ErrWrongStep is returned when a payload does not belong to the current step.
	ErrWrongStep = errors.New("booking: payload does not belong to current step")

	// ErrUnknownClinic is returned when the clinic is not one of the provider's.
	ErrUnknownClinic = errors.New("booking: clinic not offered by provider")

	// ErrUnexpectedResponse is returned when the server reply is not an envelope.
	ErrUnexpectedResponse = errors.New("booking: unexpected response from appointment service")
)
