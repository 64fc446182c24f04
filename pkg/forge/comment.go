package forge

import (
	"time"

	"github.com/google/go-github/v62/github"
)

// Comment is a read-only issue comment.
type Comment struct {
	Body      string
	CreatedAt time.Time
	CreatedBy string
}

func newComment(data *github.IssueComment) *Comment {
	return &Comment{
		Body:      data.GetBody(),
		CreatedAt: data.GetCreatedAt().Time,
		CreatedBy: data.GetUser().GetLogin(),
	}
}
