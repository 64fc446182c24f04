//go:build unit

package branch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeBranchName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "revision branch is kept", input: "content__about__test-owner__cpbh8a2k0nsfeb8vb1n0", expected: "content__about__test-owner__cpbh8a2k0nsfeb8vb1n0"},
		{name: "space", input: "content__about us__alice__x", expected: "content__about_us__alice__x"},
		{name: "question mark", input: "content__faq?__alice__x", expected: "content__faq___alice__x"},
		{name: "forbidden ref characters", input: "content__~^:*[]__alice", expected: "content__________alice"},
		{name: "consecutive dots", input: "content__v1..2__alice__x", expected: "content__v1_2__alice__x"},
		{name: "slashes collapse and trim", input: "/content//about/", expected: "content/about"},
		{name: "leading dash", input: "-content__about", expected: "content__about"},
		{name: "trailing dot", input: "content__about.", expected: "content__about"},
		{name: "too long", input: strings.Repeat("a", 300), expected: strings.Repeat("a", maxBranchNameLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeBranchName(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeBranchName_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: ErrBranchNameEmpty},
		{name: "single at", input: "@", wantErr: ErrBranchNameSingleAt},
		{name: "at brace", input: "content@{1}", wantErr: ErrBranchNameContainsAtBrace},
		{name: "backslash", input: `content\about`, wantErr: ErrBranchNameContainsBackslash},
		{name: "nothing left", input: "...", wantErr: ErrBranchNameEmptyAfterSanitization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SanitizeBranchName(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSanitizeBranchNameForFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "content__about__test-owner__cpbh8a2k0nsfeb8vb1n0", expected: "content__about__test-owner__cpbh8a2k0nsfeb8vb1n0"},
		{input: "feature/new:page", expected: "feature-new-page"},
		{input: "a//b", expected: "a-b"},
		{input: "/lead/", expected: "lead"},
		{input: `a\b*c?d"e<f>g|h`, expected: "a-b-c-d-e-f-g-h"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeBranchNameForFilename(tt.input))
		})
	}
}
