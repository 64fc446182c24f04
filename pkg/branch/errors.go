package branch

// Error represents an error related to branch names.
type Error struct {
	message string
}

func (e *Error) Error() string {
	return e.message
}

// ErrBranchNameEmpty is returned when the branch name is empty.
var ErrBranchNameEmpty = &Error{message: "branch name cannot be empty"}

// ErrBranchNameSingleAt is returned when the branch name is just a single @ character.
var ErrBranchNameSingleAt = &Error{message: "branch name cannot be the single character @"}

// ErrBranchNameContainsAtBrace is returned when the branch name contains the sequence @{.
var ErrBranchNameContainsAtBrace = &Error{message: "branch name cannot contain the sequence @{"}

// ErrBranchNameContainsBackslash is returned when the branch name contains a backslash.
var ErrBranchNameContainsBackslash = &Error{message: "branch name cannot contain backslash"}

// ErrBranchNameEmptyAfterSanitization is returned when the branch name becomes empty after sanitization.
var ErrBranchNameEmptyAfterSanitization = &Error{message: "branch name becomes empty after sanitization"}
