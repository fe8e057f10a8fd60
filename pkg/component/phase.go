package component

import "fmt"

// Phase is the lifecycle phase of a component instance.
//
// The state machine is strictly ordered:
//
//	Unmounted → Mounting → Mounted → Unmounting → Unmounted (terminal)
//
// No transition skips a state.
type Phase int

const (
	PhaseUnmounted Phase = iota
	PhaseMounting
	PhaseMounted
	PhaseUnmounting
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseUnmounted:
		return "unmounted"
	case PhaseMounting:
		return "mounting"
	case PhaseMounted:
		return "mounted"
	case PhaseUnmounting:
		return "unmounting"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// canTransition reports whether the phase machine permits from → to.
func canTransition(from, to Phase) bool {
	switch from {
	case PhaseUnmounted:
		return to == PhaseMounting
	case PhaseMounting:
		return to == PhaseMounted
	case PhaseMounted:
		return to == PhaseUnmounting
	case PhaseUnmounting:
		return to == PhaseUnmounted
	default:
		return false
	}
}
