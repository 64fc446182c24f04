//go:build unit

package revision

import (
	"testing"

	"github.com/lerenn/verba/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestStateFromLabels(t *testing.T) {
	labels := config.Default().Labels

	tests := []struct {
		name    string
		applied []string
		closed  bool
		expect  State
	}{
		{name: "no labels", expect: StateUnknown},
		{name: "draft", applied: []string{"draft"}, expect: StateDraft},
		{name: "2i", applied: []string{"2i"}, expect: StateTwoI},
		{name: "ready", applied: []string{"ready for publishing"}, expect: StateReadyForPublishing},
		{name: "unknown labels only", applied: []string{"bug", "custom-label"}, expect: StateUnknown},
		{name: "several workflow labels", applied: []string{"2i", "draft"}, expect: StateUnknown},
		{name: "closed wins", applied: []string{"draft"}, closed: true, expect: StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, stateFromLabels(labels, tt.applied, tt.closed))
		})
	}
}

func TestState_String(t *testing.T) {
	for _, s := range []State{StateDraft, StateTwoI, StateReadyForPublishing, StateClosed} {
		parsed, ok := ParseState(s.String())
		assert.True(t, ok)
		assert.Equal(t, s, parsed)
	}

	assert.Equal(t, "unknown", StateUnknown.String())
	_, ok := ParseState("unknown")
	assert.False(t, ok)
}

func TestCompose(t *testing.T) {
	vocabulary := []string{"draft", "2i", "ready for publishing"}

	tests := []struct {
		name    string
		current []string
		target  string
		expect  []string
	}{
		{name: "empty", target: "draft", expect: []string{"draft"}},
		{name: "replaces workflow value", current: []string{"draft", "custom-label"}, target: "2i", expect: []string{"custom-label", "2i"}},
		{name: "drops every workflow value", current: []string{"draft", "2i"}, target: "ready for publishing", expect: []string{"ready for publishing"}},
		{name: "target outside vocabulary", current: []string{"creator", "other"}, target: "creator", expect: []string{"other", "creator"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, compose(tt.current, vocabulary, tt.target))
		})
	}
}
