package gate

// State is a stage in the gate's evaluation of one lifecycle event.
//
// The machine is linear and never branches back: Idle → Matching, then either
// straight to Accepted (nothing applies), or through Running and, on failure,
// Reporting to Rejected. There are no retries and no partial acceptance.
//
//go:generate go tool stringer -type=State -trimprefix=State
type State int

// Gate evaluation states.
const (
	StateIdle State = iota
	StateMatching
	StateRunning
	StateReporting
	StateAccepted
	StateRejected
)

// Terminal reports whether the state ends the evaluation.
func (s State) Terminal() bool {
	return s == StateAccepted || s == StateRejected
}

// allowedTransition encodes the linear machine.
func allowedTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateMatching
	case StateMatching:
		return to == StateAccepted || to == StateRunning
	case StateRunning:
		return to == StateAccepted || to == StateReporting
	case StateReporting:
		return to == StateRejected
	default:
		return false
	}
}
