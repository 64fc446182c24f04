// Package branch generates, parses and sanitizes revision branch names.
package branch

import (
	"regexp"
	"strings"
)

// maxBranchNameLength is the filesystem limit on a ref name.
const maxBranchNameLength = 255

var (
	invalidRefChars      = regexp.MustCompile(`[\x00-\x1F\x7F ~^:?*\[\]#]`)
	consecutiveDots      = regexp.MustCompile(`\.\.+`)
	consecutiveSlashes   = regexp.MustCompile(`/+`)
	invalidFilenameChars = regexp.MustCompile(`[/\\:*?"<>|]`)
	consecutiveHyphens   = regexp.MustCompile(`-+`)
)

// SanitizeBranchName rewrites branchName so that git accepts it as a ref:
//   - no slash-separated component begins with a dot, no leading or trailing slash;
//   - no "..", no consecutive slashes, no trailing dot;
//   - no control characters, space, ~, ^, :, ?, *, [, ] or #;
//   - no leading dash.
//
// The single character @, the sequence @{ and backslashes cannot be
// repaired and are rejected.
func SanitizeBranchName(branchName string) (string, error) {
	if branchName == "" {
		return "", ErrBranchNameEmpty
	}
	if branchName == "@" {
		return "", ErrBranchNameSingleAt
	}
	if strings.Contains(branchName, "@{") {
		return "", ErrBranchNameContainsAtBrace
	}
	if strings.Contains(branchName, "\\") {
		return "", ErrBranchNameContainsBackslash
	}

	sanitized := invalidRefChars.ReplaceAllString(branchName, "_")
	sanitized = consecutiveDots.ReplaceAllString(sanitized, "_")
	sanitized = consecutiveSlashes.ReplaceAllString(sanitized, "/")

	sanitized = strings.Trim(sanitized, "/._")
	sanitized = strings.TrimPrefix(sanitized, "-")

	if len(sanitized) > maxBranchNameLength {
		sanitized = strings.TrimRight(sanitized[:maxBranchNameLength], "._/")
	}

	if sanitized == "" {
		return "", ErrBranchNameEmptyAfterSanitization
	}

	return sanitized, nil
}

// SanitizeBranchNameForFilename turns a branch name into a single path
// element, used to name revision log files.
func SanitizeBranchNameForFilename(branchName string) string {
	name := invalidFilenameChars.ReplaceAllString(branchName, "-")
	name = consecutiveHyphens.ReplaceAllString(name, "-")
	return strings.Trim(name, "-")
}
