// Package forge provides typed views over the hosting API resources backing revisions.
package forge

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/go-github/v62/github"
	"github.com/lerenn/verba/pkg/cache"
	"github.com/lerenn/verba/pkg/logger"
	"github.com/lerenn/verba/pkg/transport"
)

// Repo is the factory for resources of one upstream repository. It is not cached itself.
type Repo struct {
	client transport.Client
	cache  cache.Cache
	name   string
	logger logger.Logger
}

// NewRepoParams contains parameters for NewRepo.
type NewRepoParams struct {
	Client transport.Client
	Cache  cache.Cache
	// Repo is the "org/name" identifier.
	Repo   string
	Logger logger.Logger
}

// NewRepo creates a repository handle.
func NewRepo(params NewRepoParams) *Repo {
	c := params.Cache
	if c == nil {
		c = cache.NewNoop()
	}
	l := params.Logger
	if l == nil {
		l = logger.NewNoopLogger()
	}

	return &Repo{
		client: params.Client,
		cache:  c,
		name:   params.Repo,
		logger: l,
	}
}

// Name returns the "org/name" identifier.
func (r *Repo) Name() string {
	return r.name
}

func (r *Repo) path(part string) string {
	return transport.RepoPath(r.name, part)
}

// GetPulls lists every open pull request. The result is never cached.
func (r *Repo) GetPulls(ctx context.Context) ([]*PullRequest, error) {
	payloads, err := paginate[*github.PullRequest](ctx, r.client, r.path("pulls"), func(page int) any {
		return &github.PullRequestListOptions{
			State:       "open",
			ListOptions: github.ListOptions{Page: page, PerPage: perPage},
		}
	})
	if err != nil {
		return nil, err
	}

	pulls := make([]*PullRequest, 0, len(payloads))
	for _, p := range payloads {
		pulls = append(pulls, newPullRequest(r, p))
	}
	return pulls, nil
}

// GetPull fetches one pull request by number.
func (r *Repo) GetPull(ctx context.Context, number int) (*PullRequest, error) {
	data, err := cache.Fetch(r.cache, pullKey(number), func() (*github.PullRequest, error) {
		var pr github.PullRequest
		if _, err := r.client.Do(ctx, transport.Request{
			Method: http.MethodGet,
			Path:   r.path("pulls/" + strconv.Itoa(number)),
		}, &pr); err != nil {
			return nil, err
		}
		return &pr, nil
	})
	if err != nil {
		return nil, err
	}
	return newPullRequest(r, data), nil
}

// CreatePullParams contains parameters for CreatePull.
type CreatePullParams struct {
	Title string
	Body  string
	Head  string
	Base  string
}

// CreatePull opens a pull request from params.Head into params.Base.
func (r *Repo) CreatePull(ctx context.Context, params CreatePullParams) (*PullRequest, error) {
	var pr github.PullRequest
	if _, err := r.client.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   r.path("pulls"),
		Body: &github.NewPullRequest{
			Title: github.String(params.Title),
			Body:  github.String(params.Body),
			Head:  github.String(params.Head),
			Base:  github.String(params.Base),
		},
	}, &pr); err != nil {
		return nil, err
	}
	return newPullRequest(r, &pr), nil
}

// Branch returns a handle on the named branch without checking it exists.
func (r *Repo) Branch(name string) *Branch {
	return &Branch{repo: r, name: name}
}

type createRefRequest struct {
	Ref *string `json:"ref"`
	SHA *string `json:"sha"`
}

// CreateBranch creates name pointing at the head commit of from.
// Nothing is rolled back when the second call fails: no ref was created.
func (r *Repo) CreateBranch(ctx context.Context, name, from string) (*Branch, error) {
	var source github.Branch
	if _, err := r.client.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   r.path("branches/" + escapePath(from)),
	}, &source); err != nil {
		return nil, err
	}

	sha := source.GetCommit().GetSHA()
	if sha == "" {
		return nil, fmt.Errorf("%w: branch %s", ErrMissingSHA, from)
	}

	var ref github.Reference
	if _, err := r.client.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   r.path("git/refs"),
		Body: &createRefRequest{
			Ref: github.String("refs/heads/" + name),
			SHA: github.String(sha),
		},
	}, &ref); err != nil {
		return nil, err
	}

	r.logger.Logf("Created branch %s from %s at %s", name, from, sha)
	return r.Branch(name), nil
}

// LoggedInUser returns the user owning the token.
func (r *Repo) LoggedInUser(ctx context.Context) (*User, error) {
	var u github.User
	if _, err := r.client.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "user",
	}, &u); err != nil {
		return nil, err
	}
	return newUser(&u), nil
}
