package forge

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/go-github/v62/github"
	"github.com/lerenn/verba/pkg/cache"
	"github.com/lerenn/verba/pkg/transport"
)

// Issue owns the labels, assignees and comments of a pull request.
// Every mutator is a full replacement: callers compose the complete set.
type Issue struct {
	repo *Repo
	data *github.Issue
}

func newIssue(repo *Repo, data *github.Issue) *Issue {
	d := *data
	return &Issue{repo: repo, data: &d}
}

// Number returns the issue number.
func (i *Issue) Number() int {
	return i.data.GetNumber()
}

// Labels returns the label names.
func (i *Issue) Labels() []string {
	labels := make([]string, 0, len(i.data.Labels))
	for _, l := range i.data.Labels {
		labels = append(labels, l.GetName())
	}
	return labels
}

// Assignees returns the assignee logins.
func (i *Issue) Assignees() []string {
	assignees := make([]string, 0, len(i.data.Assignees))
	for _, a := range i.data.Assignees {
		assignees = append(assignees, a.GetLogin())
	}
	return assignees
}

// SetLabels replaces the label set.
func (i *Issue) SetLabels(ctx context.Context, labels []string) error {
	labels = nonNil(labels)
	return i.update(ctx, &github.IssueRequest{Labels: &labels})
}

// SetAssignees replaces the assignee set.
func (i *Issue) SetAssignees(ctx context.Context, assignees []string) error {
	assignees = nonNil(assignees)
	return i.update(ctx, &github.IssueRequest{Assignees: &assignees})
}

func (i *Issue) update(ctx context.Context, req *github.IssueRequest) error {
	var updated github.Issue
	if _, err := i.repo.client.Do(ctx, transport.Request{
		Method: http.MethodPatch,
		Path:   i.selfPath(),
		Body:   req,
	}, &updated); err != nil {
		return err
	}

	i.data = &updated
	i.repo.cache.Delete(issueKey(i.Number()))
	return nil
}

// AddComment posts a comment.
func (i *Issue) AddComment(ctx context.Context, body string) error {
	if _, err := i.repo.client.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   i.commentsPath(),
		Body:   &github.IssueComment{Body: github.String(body)},
	}, nil); err != nil {
		return err
	}

	i.repo.cache.Delete(i.commentsPath(), issueKey(i.Number()))
	return nil
}

// Comments returns every comment in API order.
func (i *Issue) Comments(ctx context.Context) ([]*Comment, error) {
	payloads, err := cache.Fetch(i.repo.cache, i.commentsPath(), func() ([]*github.IssueComment, error) {
		return paginate[*github.IssueComment](ctx, i.repo.client, i.commentsPath(), func(page int) any {
			return &github.IssueListCommentsOptions{
				ListOptions: github.ListOptions{Page: page, PerPage: perPage},
			}
		})
	})
	if err != nil {
		return nil, err
	}

	comments := make([]*Comment, 0, len(payloads))
	for _, p := range payloads {
		comments = append(comments, newComment(p))
	}
	return comments, nil
}

func (i *Issue) selfPath() string {
	if u := i.data.GetURL(); u != "" {
		return u
	}
	return i.repo.path("issues/" + strconv.Itoa(i.Number()))
}

func (i *Issue) commentsPath() string {
	if u := i.data.GetCommentsURL(); u != "" {
		return u
	}
	return i.repo.path("issues/" + strconv.Itoa(i.Number()) + "/comments")
}
