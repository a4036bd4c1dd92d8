package syncer

// State is the sync session's state machine position.
//
// The settle state replaces the original guard-flag approach: after a
// pull-triggered merge the session parks in StateSettling for the guard
// window, during which local-mutation pushes stay suppressed, then a
// scheduled transition returns it to StateIdle.
type State int

const (
	StateIdle State = iota
	StatePulling
	StateMerging
	StateSettling
	StatePushing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePulling:
		return "pulling"
	case StateMerging:
		return "merging"
	case StateSettling:
		return "settling"
	case StatePushing:
		return "pushing"
	default:
		return "unknown"
	}
}
