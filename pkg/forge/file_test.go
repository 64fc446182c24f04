//go:build unit

package forge

import (
	"context"
	"net/http"
	"testing"

	"github.com/lerenn/verba/pkg/cache"
	cachemocks "github.com/lerenn/verba/pkg/cache/mocks"
	"github.com/lerenn/verba/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestFile_MetadataFetchedOnce(t *testing.T) {
	repo, server := newTestRepo(t, cache.NewNoop())
	server.AddBranch("feature", map[string]string{"pages/home/manifest.json": `{"title": "Home"}`})

	f := repo.Branch("feature").File("pages/home/manifest.json")

	sha, err := f.SHA(context.Background())
	require.NoError(t, err)
	content, err := f.Content(context.Background())
	require.NoError(t, err)
	name, err := f.Name(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, sha)
	assert.Equal(t, `{"title": "Home"}`, content)
	assert.Equal(t, "manifest.json", name)
	assert.Equal(t, 1, server.Requests(http.MethodGet, server.RepoPath("contents/pages/home/manifest.json")))
}

func TestFile_ChangeContent_SeedsFromResponse(t *testing.T) {
	repo, server := newTestRepo(t, cache.NewNoop())
	server.AddBranch("feature", map[string]string{"pages/home/extra.md": "old"})

	f := repo.Branch("feature").File("pages/home/extra.md")
	oldSHA, err := f.SHA(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.ChangeContent(context.Background(), "new body", "Update extra.md"))

	content, err := f.Content(context.Background())
	require.NoError(t, err)
	newSHA, err := f.SHA(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "new body", content)
	assert.NotEqual(t, oldSHA, newSHA)
	assert.Equal(t, 1, server.Requests(http.MethodGet, server.RepoPath("contents/pages/home/extra.md")))

	stored, _ := server.File("feature", "pages/home/extra.md")
	assert.Equal(t, "new body", stored)
}

func TestFile_ChangeContent_DropsBranchTrees(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cachemocks.NewMockCache(ctrl)
	repo, server := newTestRepo(t, mockCache)
	server.AddBranch("feature", map[string]string{"a.md": "a"})

	mockCache.EXPECT().DeletePrefix("git/trees/feature:")

	require.NoError(t, repo.Branch("feature").File("a.md").ChangeContent(context.Background(), "b", "msg"))
}

func TestFile_ChangeContent_Missing(t *testing.T) {
	repo, server := newTestRepo(t, cache.NewNoop())
	server.AddBranch("feature", nil)

	err := repo.Branch("feature").File("missing.md").ChangeContent(context.Background(), "x", "msg")
	assert.True(t, transport.IsNotFound(err))
	assert.Zero(t, server.Requests(http.MethodPut, server.RepoPath("contents/missing.md")))
}

func TestFile_ChangeContent_Conflict(t *testing.T) {
	repo, server := newTestRepo(t, cache.NewNoop())
	server.AddBranch("feature", map[string]string{"a.md": "a"})

	f := repo.Branch("feature").File("a.md")
	_, err := f.SHA(context.Background())
	require.NoError(t, err)

	// Someone else commits in between.
	other := repo.Branch("feature").File("a.md")
	require.NoError(t, other.ChangeContent(context.Background(), "theirs", "msg"))

	err = f.ChangeContent(context.Background(), "mine", "msg")
	assert.ErrorIs(t, err, transport.ErrInvalidResponse)
	assert.False(t, transport.IsTransient(err))
}

func TestBranch_CreateFile_ReinjectsContent(t *testing.T) {
	repo, server := newTestRepo(t, cache.NewNoop())
	server.AddBranch("feature", nil)

	f, err := repo.Branch("feature").CreateFile(context.Background(), "logs/2024.01.02_03.04_feature", "", "Create log")
	require.NoError(t, err)

	content, err := f.Content(context.Background())
	require.NoError(t, err)
	assert.Empty(t, content)
	assert.Zero(t, server.Requests(http.MethodGet, server.RepoPath("contents/logs/2024.01.02_03.04_feature")))

	_, ok := server.File("feature", "logs/2024.01.02_03.04_feature")
	assert.True(t, ok)
}

func TestBranch_CreateFile_Existing(t *testing.T) {
	repo, server := newTestRepo(t, cache.NewNoop())
	server.AddBranch("feature", map[string]string{"a.md": "a"})

	_, err := repo.Branch("feature").CreateFile(context.Background(), "a.md", "b", "msg")
	assert.ErrorIs(t, err, transport.ErrInvalidResponse)
}

func TestBranch_GetGitTree_Cached(t *testing.T) {
	repo, server := newTestRepo(t, cache.New(cache.Options{}))
	server.AddBranch("feature", map[string]string{
		"pages/home/manifest.json":  "{}",
		"pages/about/manifest.json": "{}",
	})
	b := repo.Branch("feature")

	tree, err := b.GetGitTree(context.Background(), "pages", true)
	require.NoError(t, err)
	_, err = b.GetGitTree(context.Background(), "pages", true)
	require.NoError(t, err)
	_, err = b.GetGitTree(context.Background(), "pages", false)
	require.NoError(t, err)

	assert.Len(t, tree.Entries, 4)
	assert.Equal(t, 2, server.Requests(http.MethodGet, server.RepoPath("git/trees/feature:pages")))
}

func TestBranch_GetDirFiles(t *testing.T) {
	repo, server := newTestRepo(t, cache.NewNoop())
	server.AddBranch("feature", map[string]string{
		"pages/home/manifest.json": "{}",
		"pages/home/extra.md":      "x",
		"pages/home/nested/a.md":   "y",
	})

	cases := []struct {
		name      string
		recursive bool
		want      []string
	}{
		{
			name: "direct children only",
			want: []string{"pages/home/extra.md", "pages/home/manifest.json"},
		},
		{
			name:      "recursive",
			recursive: true,
			want:      []string{"pages/home/extra.md", "pages/home/manifest.json", "pages/home/nested/a.md"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			files, err := repo.Branch("feature").GetDirFiles(context.Background(), "pages/home", tc.recursive)
			require.NoError(t, err)

			paths := make([]string, 0, len(files))
			for _, f := range files {
				paths = append(paths, f.Path())
			}
			assert.Equal(t, tc.want, paths)
		})
	}
	assert.Zero(t, server.Requests(http.MethodGet, server.RepoPath("contents/pages/home/extra.md")))
}

func TestBranch_GetDirFiles_MissingDir(t *testing.T) {
	repo, server := newTestRepo(t, cache.NewNoop())
	server.AddBranch("feature", map[string]string{"a.md": "a"})

	_, err := repo.Branch("feature").GetDirFiles(context.Background(), "pages", true)
	assert.True(t, transport.IsNotFound(err))
}

func TestBranch_GetFile(t *testing.T) {
	repo, server := newTestRepo(t, cache.NewNoop())
	server.AddBranch("feature", map[string]string{"a.md": "a"})

	f, err := repo.Branch("feature").GetFile(context.Background(), "a.md")
	require.NoError(t, err)
	content, err := f.Content(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", content)

	_, err = repo.Branch("feature").GetFile(context.Background(), "missing.md")
	assert.True(t, transport.IsNotFound(err))
}
