package booking

// State is a position in the booking flow.
type State int

const (
	StateStep1 State = iota
	StateStep2
	StateStep3
	StateSubmitting
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateStep1:
		return "step1"
	case StateStep2:
		return "step2"
	case StateStep3:
		return "step3"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Step returns the form step shown in s, if any.
func (s State) Step() (Step, bool) {
	switch s {
	case StateStep1:
		return StepPatientType, true
	case StateStep2:
		return StepAppointment, true
	case StateStep3:
		return StepContact, true
	default:
		return 0, false
	}
}

func stateFor(step Step) State {
	switch step {
	case StepAppointment:
		return StateStep2
	case StepContact:
		return StateStep3
	default:
		return StateStep1
	}
}
