package login

// State of the login form.
//
//	Idle -> Validating -> Submitting -> Redirecting
//	                 \               \-> AwaitingUserAck
//	                  \-> Idle (field errors)
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateRedirecting
	StateAwaitingUserAck
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateRedirecting:
		return "redirecting"
	case StateAwaitingUserAck:
		return "awaiting_user_ack"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Editable reports whether the form accepts input in this state.
func (s State) Editable() bool {
	return s == StateIdle || s == StateAwaitingUserAck
}
