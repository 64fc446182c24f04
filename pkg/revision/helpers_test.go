//go:build unit

package revision

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/lerenn/verba/internal/githubtest"
	"github.com/lerenn/verba/pkg/branch"
	"github.com/lerenn/verba/pkg/cache"
	"github.com/lerenn/verba/pkg/config"
	"github.com/lerenn/verba/pkg/dependencies"
	"github.com/stretchr/testify/require"
)

const testRepo = "test-owner/test-repo"

var testNow = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

type fixture struct {
	server  *githubtest.Server
	config  config.Config
	manager Manager
}

func testConfig(server *githubtest.Server) config.Config {
	c := config.Default()
	c.Repo = testRepo
	c.GitHub.APIHost = server.API.URL
	c.GitHub.HTTPHost = server.Web.URL
	c.Assignees = config.Assignees{
		Allowed:    []string{"test-owner", "test-owner-2", "test-developer"},
		Writers:    []string{"test-owner", "test-owner-2"},
		Developers: []string{"test-developer"},
	}
	return c
}

func newFixture(t *testing.T, mutate ...func(c *config.Config)) *fixture {
	t.Helper()

	server := githubtest.New(t, testRepo)
	server.AddBranch("develop", map[string]string{"README.md": "hello"})

	cfg := testConfig(server)
	for _, m := range mutate {
		m(&cfg)
	}

	deps := dependencies.New().
		WithCache(cache.NewNoop()).
		WithClock(func() time.Time { return testNow }).
		WithRand(rand.New(rand.NewPCG(1, 2)))

	manager, err := NewManager(NewManagerParams{
		Config:       cfg,
		Token:        "test-token",
		Dependencies: deps,
	})
	require.NoError(t, err)

	return &fixture{server: server, config: cfg, manager: manager}
}

func revisionBranch(creator string) string {
	return branch.Info{Namespace: "content", Slug: "title", Creator: creator, Suffix: "cnv0abc"}.Name()
}

// addRevision seeds a pull request on a revision branch of creator and loads it.
func (f *fixture) addRevision(t *testing.T, creator string, seed githubtest.PullSeed) *Revision {
	t.Helper()

	if seed.Head == "" {
		seed.Head = revisionBranch(creator)
	}
	if seed.Base == "" {
		seed.Base = "develop"
	}
	if seed.Title == "" {
		seed.Title = "About page"
	}

	n := f.server.AddPull(seed)
	rev, err := f.manager.Get(context.Background(), n)
	require.NoError(t, err)
	return rev
}
