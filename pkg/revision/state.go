package revision

import (
	"slices"

	"github.com/lerenn/verba/pkg/config"
)

// State is the workflow state of a revision, derived from its labels.
type State int

// Workflow states.
const (
	// StateUnknown means zero or several workflow labels are applied.
	StateUnknown State = iota
	StateDraft
	StateTwoI
	StateReadyForPublishing
	// StateClosed is terminal and wins over any label.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDraft:
		return "draft"
	case StateTwoI:
		return "2i"
	case StateReadyForPublishing:
		return "ready for publishing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ParseState returns the state named s, as printed by String.
func ParseState(s string) (State, bool) {
	for _, state := range []State{StateDraft, StateTwoI, StateReadyForPublishing, StateClosed} {
		if state.String() == s {
			return state, true
		}
	}
	return StateUnknown, false
}

func stateFromLabels(labels config.Labels, applied []string, closed bool) State {
	if closed {
		return StateClosed
	}

	found := StateUnknown
	for state, label := range map[State]string{
		StateDraft:              labels.Draft,
		StateTwoI:               labels.TwoI,
		StateReadyForPublishing: labels.ReadyForPublishing,
	} {
		if !slices.Contains(applied, label) {
			continue
		}
		if found != StateUnknown {
			return StateUnknown
		}
		found = state
	}
	return found
}

// compose keeps the values outside vocabulary, drops the ones inside it and
// appends target once.
func compose(current, vocabulary []string, target string) []string {
	composed := make([]string, 0, len(current)+1)
	for _, v := range current {
		if slices.Contains(vocabulary, v) || v == target {
			continue
		}
		composed = append(composed, v)
	}
	return append(composed, target)
}
