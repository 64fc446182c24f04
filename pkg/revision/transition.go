package revision

import (
	"context"
	"fmt"
	"slices"
)

// Precondition checks that a revision may be transitioned.
type Precondition func(ctx context.Context, rev *Revision) error

// InState allows the transition from the given states only.
func InState(states ...State) Precondition {
	return func(ctx context.Context, rev *Revision) error {
		current, err := rev.State(ctx)
		if err != nil {
			return err
		}
		if !slices.Contains(states, current) {
			return fmt.Errorf("%w: revision %d is %s", ErrTransitionNotAllowed, rev.ID(), current)
		}
		return nil
	}
}

// Transition moves rev to target once precondition holds. A nil
// precondition always holds.
func Transition(ctx context.Context, rev *Revision, target State, precondition Precondition) error {
	move, err := transitionTo(rev, target)
	if err != nil {
		return err
	}

	if precondition != nil {
		if err := precondition(ctx, rev); err != nil {
			return err
		}
	}
	return move(ctx)
}

// DefaultPrecondition returns the guard used by callers for target: 2i
// requires a draft, publishing requires a draft or 2i, closing requires
// any open state. Going back to draft is always allowed.
func DefaultPrecondition(target State) Precondition {
	switch target {
	case StateTwoI:
		return InState(StateDraft)
	case StateReadyForPublishing:
		return InState(StateDraft, StateTwoI)
	case StateClosed:
		return InState(StateUnknown, StateDraft, StateTwoI, StateReadyForPublishing)
	default:
		return nil
	}
}

func transitionTo(rev *Revision, target State) (func(context.Context) error, error) {
	switch target {
	case StateDraft:
		return rev.MoveToDraft, nil
	case StateTwoI:
		return rev.MoveToTwoI, nil
	case StateReadyForPublishing:
		return rev.MoveToReadyForPublishing, nil
	case StateClosed:
		return rev.Close, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownState, target)
	}
}
