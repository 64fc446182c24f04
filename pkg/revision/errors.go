package revision

import (
	"errors"

	"github.com/lerenn/verba/pkg/branch"
)

// Error definitions for revision package.
var (
	// Lookup errors.
	ErrRevisionNotFound     = errors.New("revision not found")
	ErrNotRevisionBranch    = errors.New("pull request head is not a revision branch")
	ErrRevisionFileNotFound = errors.New("revision file not found")

	// Caller errors.
	ErrTitleEmpty   = branch.ErrTitleEmpty
	ErrCreatorEmpty = branch.ErrCreatorEmpty
	ErrEmptyComment = errors.New("comment cannot be empty")

	// Workflow errors.
	ErrNoEligibleAssignee   = errors.New("no eligible assignee")
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	ErrUnknownState         = errors.New("unknown revision state")
)
