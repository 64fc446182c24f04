package forge

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/lerenn/verba/pkg/cache"
	"github.com/lerenn/verba/pkg/transport"
)

// PullRequest is a view over a pull request payload. Labels, assignees and
// comments live on the associated issue.
type PullRequest struct {
	repo  *Repo
	data  *github.PullRequest
	issue *Issue
}

func newPullRequest(repo *Repo, data *github.PullRequest) *PullRequest {
	// Cached payloads are shared, local edits go to a copy.
	d := *data
	return &PullRequest{repo: repo, data: &d}
}

// Number returns the pull request number, shared with its issue.
func (pr *PullRequest) Number() int {
	return pr.data.GetNumber()
}

// Title returns the title.
func (pr *PullRequest) Title() string {
	return pr.data.GetTitle()
}

// Description returns the body.
func (pr *PullRequest) Description() string {
	return pr.data.GetBody()
}

// CreatedAt returns the creation time.
func (pr *PullRequest) CreatedAt() time.Time {
	return pr.data.GetCreatedAt().Time
}

// HeadRef returns the source branch name.
func (pr *PullRequest) HeadRef() string {
	return pr.data.GetHead().GetRef()
}

// State returns "open" or "closed" as last fetched.
func (pr *PullRequest) State() string {
	return pr.data.GetState()
}

// IsClosed reports whether the pull request was closed when last fetched.
func (pr *PullRequest) IsClosed() bool {
	return pr.data.GetState() == "closed"
}

// TotalComments returns the number of issue comments as last fetched.
func (pr *PullRequest) TotalComments() int {
	return pr.data.GetComments()
}

// HTMLURL returns the web page of the pull request.
func (pr *PullRequest) HTMLURL() string {
	return pr.data.GetHTMLURL()
}

// Branch returns the source branch.
func (pr *PullRequest) Branch() *Branch {
	return pr.repo.Branch(pr.HeadRef())
}

// Issue resolves the associated issue, cached separately from the pull request.
func (pr *PullRequest) Issue(ctx context.Context) (*Issue, error) {
	if pr.issue != nil {
		return pr.issue, nil
	}

	issuePath := pr.data.GetIssueURL()
	if issuePath == "" {
		issuePath = pr.repo.path("issues/" + strconv.Itoa(pr.Number()))
	}

	data, err := cache.Fetch(pr.repo.cache, issueKey(pr.Number()), func() (*github.Issue, error) {
		var issue github.Issue
		if _, err := pr.repo.client.Do(ctx, transport.Request{
			Method: http.MethodGet,
			Path:   issuePath,
		}, &issue); err != nil {
			return nil, err
		}
		return &issue, nil
	})
	if err != nil {
		return nil, err
	}

	pr.issue = newIssue(pr.repo, data)
	return pr.issue, nil
}

// Labels returns the label names of the associated issue.
func (pr *PullRequest) Labels(ctx context.Context) ([]string, error) {
	issue, err := pr.Issue(ctx)
	if err != nil {
		return nil, err
	}
	return issue.Labels(), nil
}

// SetLabels replaces the whole label set.
func (pr *PullRequest) SetLabels(ctx context.Context, labels []string) error {
	issue, err := pr.Issue(ctx)
	if err != nil {
		return err
	}
	if err := issue.SetLabels(ctx, labels); err != nil {
		return err
	}
	pr.repo.cache.Delete(pullKey(pr.Number()))
	return nil
}

// Assignees returns the assignee logins of the associated issue.
func (pr *PullRequest) Assignees(ctx context.Context) ([]string, error) {
	issue, err := pr.Issue(ctx)
	if err != nil {
		return nil, err
	}
	return issue.Assignees(), nil
}

// SetAssignees replaces the whole assignee set.
func (pr *PullRequest) SetAssignees(ctx context.Context, assignees []string) error {
	issue, err := pr.Issue(ctx)
	if err != nil {
		return err
	}
	if err := issue.SetAssignees(ctx, assignees); err != nil {
		return err
	}
	pr.repo.cache.Delete(pullKey(pr.Number()))
	return nil
}

// AddComment posts a comment on the associated issue.
func (pr *PullRequest) AddComment(ctx context.Context, body string) error {
	issue, err := pr.Issue(ctx)
	if err != nil {
		return err
	}
	if err := issue.AddComment(ctx, body); err != nil {
		return err
	}
	pr.repo.cache.Delete(pullKey(pr.Number()))
	return nil
}

// Comments returns the comments of the associated issue in API order.
func (pr *PullRequest) Comments(ctx context.Context) ([]*Comment, error) {
	issue, err := pr.Issue(ctx)
	if err != nil {
		return nil, err
	}
	return issue.Comments(ctx)
}

// Edit changes the title and the description. Local fields are updated
// without a refetch.
func (pr *PullRequest) Edit(ctx context.Context, title, description string) error {
	if _, err := pr.repo.client.Do(ctx, transport.Request{
		Method: http.MethodPatch,
		Path:   pr.selfPath(),
		Body: &github.PullRequest{
			Title: github.String(title),
			Body:  github.String(description),
		},
	}, nil); err != nil {
		return err
	}

	pr.data.Title = github.String(title)
	pr.data.Body = github.String(description)
	pr.repo.cache.Delete(pullKey(pr.Number()))
	return nil
}

// Close closes the pull request. Cached label and assignee views are left
// as they are.
func (pr *PullRequest) Close(ctx context.Context) error {
	if _, err := pr.repo.client.Do(ctx, transport.Request{
		Method: http.MethodPatch,
		Path:   pr.selfPath(),
		Body:   &github.PullRequest{State: github.String("closed")},
	}, nil); err != nil {
		return err
	}

	pr.repo.cache.Delete(pullKey(pr.Number()))
	return nil
}

// Diff returns the unified diff, served by the web host.
func (pr *PullRequest) Diff(ctx context.Context) (string, error) {
	diffPath := pr.data.GetDiffURL()
	if diffPath == "" {
		diffPath = fmt.Sprintf("%s/pull/%d.diff", pr.repo.name, pr.Number())
	}

	var diff strings.Builder
	if _, err := pr.repo.client.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   diffPath,
		Host:   transport.HostWeb,
		Accept: transport.AcceptRaw,
	}, &diff); err != nil {
		return "", err
	}
	return diff.String(), nil
}

func (pr *PullRequest) selfPath() string {
	if u := pr.data.GetURL(); u != "" {
		return u
	}
	return pr.repo.path("pulls/" + strconv.Itoa(pr.Number()))
}
