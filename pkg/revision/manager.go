package revision

import (
	"context"
	"fmt"
	"path"

	"github.com/lerenn/verba/pkg/branch"
	"github.com/lerenn/verba/pkg/cache"
	"github.com/lerenn/verba/pkg/config"
	"github.com/lerenn/verba/pkg/dependencies"
	"github.com/lerenn/verba/pkg/forge"
	"github.com/lerenn/verba/pkg/transport"
)

const (
	logFileTimeLayout    = "2006.01.02_15.04"
	logFileCommitMessage = "Create revision log file"
	pullBodyTemplate     = "Content revision %q, opened with verba.\n\nThe first commit only adds a revision log file."
)

// Manager enumerates and creates revisions.
type Manager interface {
	// GetAll returns the open revisions.
	GetAll(ctx context.Context) ([]*Revision, error)
	// Get returns the revision with the given id.
	Get(ctx context.Context, id int) (*Revision, error)
	// Create opens a new revision in draft, assigned to creator.
	Create(ctx context.Context, title, creator string) (*Revision, error)
	// WhoAmI returns the account owning the token.
	WhoAmI(ctx context.Context) (*forge.User, error)
}

// NewManagerParams contains parameters for creating a new Manager instance.
type NewManagerParams struct {
	Config       config.Config
	Token        string
	Dependencies *dependencies.Dependencies
	// Client overrides the transport built from Token and the configured hosts.
	Client transport.Client
}

type realManager struct {
	config config.Config
	repo   *forge.Repo
	deps   *dependencies.Dependencies
}

// NewManager creates a new Manager instance.
func NewManager(params NewManagerParams) (Manager, error) {
	if err := params.Config.Validate(); err != nil {
		return nil, err
	}

	deps := params.Dependencies
	if deps == nil {
		deps = dependencies.New()
	}
	if deps.Cache == nil {
		deps.WithCache(cache.New(cache.Options{
			Size:    params.Config.Cache.Size,
			TTL:     params.Config.Cache.TTL,
			Metrics: deps.Metrics,
		}))
	}
	if err := deps.Validate(); err != nil {
		return nil, err
	}

	client := params.Client
	if client == nil {
		var err error
		client, err = transport.NewClient(transport.NewClientParams{
			Token:      params.Token,
			APIHost:    params.Config.GitHub.APIHost,
			HTTPHost:   params.Config.GitHub.HTTPHost,
			HTTPClient: deps.HTTPClient,
			Logger:     deps.Logger,
			Metrics:    deps.Metrics,
		})
		if err != nil {
			return nil, err
		}
	}

	return &realManager{
		config: params.Config,
		repo: forge.NewRepo(forge.NewRepoParams{
			Client: client,
			Cache:  deps.Cache,
			Repo:   params.Config.Repo,
			Logger: deps.Logger,
		}),
		deps: deps,
	}, nil
}

// GetAll lists the open pull requests and keeps the ones whose head is a revision branch.
func (m *realManager) GetAll(ctx context.Context) ([]*Revision, error) {
	pulls, err := m.repo.GetPulls(ctx)
	if err != nil {
		return nil, err
	}

	revisions := make([]*Revision, 0, len(pulls))
	for _, pull := range pulls {
		info, ok := branch.Parse(m.config.Branches.Namespace, pull.HeadRef())
		if !ok {
			continue
		}
		revisions = append(revisions, newRevision(pull, info, m.config, m.deps))
	}
	return revisions, nil
}

// Get fetches one revision. A missing pull request and a pull request that
// is not a revision both end in ErrRevisionNotFound.
func (m *realManager) Get(ctx context.Context, id int) (*Revision, error) {
	pull, err := m.repo.GetPull(ctx, id)
	if transport.IsNotFound(err) {
		return nil, fmt.Errorf("%w: id %d", ErrRevisionNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	info, ok := branch.Parse(m.config.Branches.Namespace, pull.HeadRef())
	if !ok {
		return nil, fmt.Errorf("%w: id %d: %w %q", ErrRevisionNotFound, id, ErrNotRevisionBranch, pull.HeadRef())
	}
	return newRevision(pull, info, m.config, m.deps), nil
}

// Create opens a revision: branch from the base branch, revision log file,
// pull request, then draft. Nothing is rolled back when a step fails.
func (m *realManager) Create(ctx context.Context, title, creator string) (*Revision, error) {
	name, err := branch.Generate(m.config.Branches.Namespace, title, creator)
	if err != nil {
		return nil, err
	}

	b, err := m.repo.CreateBranch(ctx, name, m.config.Branches.Base)
	if err != nil {
		return nil, err
	}

	logFile := path.Join(
		m.config.Paths.RevisionsLogFolder,
		m.deps.Clock().Format(logFileTimeLayout)+"_"+branch.SanitizeBranchNameForFilename(name),
	)
	if _, err := b.CreateFile(ctx, logFile, "", logFileCommitMessage); err != nil {
		m.deps.Logger.Logf("branch %s left without pull request: %v", name, err)
		return nil, err
	}

	pull, err := m.repo.CreatePull(ctx, forge.CreatePullParams{
		Title: title,
		Body:  fmt.Sprintf(pullBodyTemplate, title),
		Head:  name,
		Base:  m.config.Branches.Base,
	})
	if err != nil {
		m.deps.Logger.Logf("branch %s left without pull request: %v", name, err)
		return nil, err
	}

	info, _ := branch.Parse(m.config.Branches.Namespace, name)
	rev := newRevision(pull, info, m.config, m.deps)
	if err := rev.MoveToDraft(ctx); err != nil {
		return nil, err
	}

	m.deps.Logger.Logf("revision %d created by %s on %s", rev.ID(), creator, name)
	return rev, nil
}

// WhoAmI returns the account owning the token.
func (m *realManager) WhoAmI(ctx context.Context) (*forge.User, error) {
	return m.repo.LoggedInUser(ctx)
}
