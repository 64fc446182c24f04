//go:build unit

package forge

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/lerenn/verba/internal/githubtest"
	"github.com/lerenn/verba/pkg/cache"
	cachemocks "github.com/lerenn/verba/pkg/cache/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPullRequest_Accessors(t *testing.T) {
	repo, server := newTestRepo(t, cache.NewNoop())
	created := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	n := server.AddPull(githubtest.PullSeed{
		Title:     "New page",
		Body:      "Some description",
		Head:      "feature",
		Base:      "develop",
		CreatedAt: created,
	})
	server.AddComment(n, "test-owner-2", "looks good", created.Add(time.Hour))

	pr, err := repo.GetPull(context.Background(), n)
	require.NoError(t, err)

	assert.Equal(t, n, pr.Number())
	assert.Equal(t, "New page", pr.Title())
	assert.Equal(t, "Some description", pr.Description())
	assert.True(t, created.Equal(pr.CreatedAt()))
	assert.Equal(t, "feature", pr.HeadRef())
	assert.Equal(t, "feature", pr.Branch().Name())
	assert.Equal(t, "open", pr.State())
	assert.False(t, pr.IsClosed())
	assert.Equal(t, 1, pr.TotalComments())
	assert.NotEmpty(t, pr.HTMLURL())
}

func TestPullRequest_IssueCachedByNumber(t *testing.T) {
	repo, server := newTestRepo(t, cache.New(cache.Options{}))
	n := server.AddPull(githubtest.PullSeed{Head: "feature", Base: "develop", Labels: []string{"draft"}})

	for i := 0; i < 2; i++ {
		pr, err := repo.GetPull(context.Background(), n)
		require.NoError(t, err)
		labels, err := pr.Labels(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"draft"}, labels)
	}

	assert.Equal(t, 1, server.Requests(http.MethodGet, server.RepoPath("issues/1")))
}

func TestPullRequest_SetLabels(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cachemocks.NewMockCache(ctrl)
	repo, server := newTestRepo(t, mockCache)
	n := server.AddPull(githubtest.PullSeed{Head: "feature", Base: "develop", Labels: []string{"draft", "custom"}})

	passThrough(mockCache, "pulls/1")
	passThrough(mockCache, "issues/1")
	gomock.InOrder(
		mockCache.EXPECT().Delete("issues/1"),
		mockCache.EXPECT().Delete("pulls/1"),
	)

	pr, err := repo.GetPull(context.Background(), n)
	require.NoError(t, err)
	require.NoError(t, pr.SetLabels(context.Background(), []string{"custom", "2i"}))

	labels, err := pr.Labels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"custom", "2i"}, labels)

	view, _ := server.Pull(n)
	assert.Equal(t, []string{"custom", "2i"}, view.Labels)
}

func TestPullRequest_SetAssignees(t *testing.T) {
	repo, server := newTestRepo(t, cache.New(cache.Options{}))
	n := server.AddPull(githubtest.PullSeed{Head: "feature", Base: "develop", Assignees: []string{"test-owner"}})

	pr, err := repo.GetPull(context.Background(), n)
	require.NoError(t, err)
	require.NoError(t, pr.SetAssignees(context.Background(), []string{"test-owner-2"}))

	assignees, err := pr.Assignees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"test-owner-2"}, assignees)

	// A fresh handle refetches both the pull request and its issue.
	fresh, err := repo.GetPull(context.Background(), n)
	require.NoError(t, err)
	assignees, err = fresh.Assignees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"test-owner-2"}, assignees)
	assert.Equal(t, 2, server.Requests(http.MethodGet, server.RepoPath("issues/1")))
}

func TestPullRequest_SetLabels_Empty(t *testing.T) {
	repo, server := newTestRepo(t, cache.NewNoop())
	n := server.AddPull(githubtest.PullSeed{Head: "feature", Base: "develop", Labels: []string{"draft"}})

	pr, err := repo.GetPull(context.Background(), n)
	require.NoError(t, err)
	require.NoError(t, pr.SetLabels(context.Background(), nil))

	view, _ := server.Pull(n)
	assert.Empty(t, view.Labels)
}

func TestPullRequest_Comments(t *testing.T) {
	repo, server := newTestRepo(t, cache.New(cache.Options{}))
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	n := server.AddPull(githubtest.PullSeed{Head: "feature", Base: "develop"})
	server.AddComment(n, "test-owner", "first", at)

	pr, err := repo.GetPull(context.Background(), n)
	require.NoError(t, err)

	comments, err := pr.Comments(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "first", comments[0].Body)
	assert.Equal(t, "test-owner", comments[0].CreatedBy)
	assert.True(t, at.Equal(comments[0].CreatedAt))

	require.NoError(t, pr.AddComment(context.Background(), "second"))

	comments, err = pr.Comments(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[1].Body)
	assert.Equal(t, 2, server.Requests(http.MethodGet, server.RepoPath("issues/1/comments")))
}

func TestPullRequest_Edit(t *testing.T) {
	repo, server := newTestRepo(t, cache.New(cache.Options{}))
	n := server.AddPull(githubtest.PullSeed{Title: "Old", Body: "old", Head: "feature", Base: "develop"})

	pr, err := repo.GetPull(context.Background(), n)
	require.NoError(t, err)
	require.NoError(t, pr.Edit(context.Background(), "New", "new"))

	assert.Equal(t, "New", pr.Title())
	assert.Equal(t, "new", pr.Description())

	view, _ := server.Pull(n)
	assert.Equal(t, "New", view.Title)
	assert.Equal(t, "new", view.Body)

	fresh, err := repo.GetPull(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, "New", fresh.Title())
}

func TestPullRequest_Close(t *testing.T) {
	repo, server := newTestRepo(t, cache.New(cache.Options{}))
	n := server.AddPull(githubtest.PullSeed{Head: "feature", Base: "develop", Labels: []string{"draft"}})

	pr, err := repo.GetPull(context.Background(), n)
	require.NoError(t, err)
	_, err = pr.Labels(context.Background())
	require.NoError(t, err)

	require.NoError(t, pr.Close(context.Background()))

	view, _ := server.Pull(n)
	assert.Equal(t, "closed", view.State)

	// Labels still come from the cached issue.
	labels, err := pr.Labels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"draft"}, labels)

	fresh, err := repo.GetPull(context.Background(), n)
	require.NoError(t, err)
	assert.True(t, fresh.IsClosed())
}

func TestPullRequest_Diff(t *testing.T) {
	repo, server := newTestRepo(t, cache.NewNoop())
	n := server.AddPull(githubtest.PullSeed{Head: "feature", Base: "develop", Diff: "diff --git a/x b/x\n+hello\n"})

	pr, err := repo.GetPull(context.Background(), n)
	require.NoError(t, err)

	diff, err := pr.Diff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "diff --git a/x b/x\n+hello\n", diff)
	assert.Equal(t, 1, server.Requests(http.MethodGet, "/test-owner/test-repo/pull/1.diff"))
}
