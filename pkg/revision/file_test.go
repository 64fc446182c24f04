//go:build unit

package revision

import (
	"context"
	"net/http"
	"testing"

	"github.com/lerenn/verba/internal/githubtest"
	"github.com/lerenn/verba/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aboutManifest = "pages/about/manifest.json"

func newAboutFile(t *testing.T, files map[string]string) (*fixture, *File, string) {
	t.Helper()

	f := newFixture(t)
	head := revisionBranch("test-owner")
	f.server.AddBranch(head, files)
	rev := f.addRevision(t, "test-owner", githubtest.PullSeed{Head: head})

	file, err := rev.GetFile(context.Background(), "about")
	require.NoError(t, err)
	return f, file, head
}

func readManifest(t *testing.T, f *fixture, head string) *manifest.Manifest {
	t.Helper()
	content, ok := f.server.File(head, aboutManifest)
	require.True(t, ok)
	m, err := manifest.Parse([]byte(content))
	require.NoError(t, err)
	return m
}

func TestFile_ContentItems(t *testing.T) {
	_, file, _ := newAboutFile(t, map[string]string{
		aboutManifest:          `{"title": "inline text", "body": "@include:extra.md"}`,
		"pages/about/extra.md": "hello",
	})

	items, err := file.ContentItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ContentItem{
		{Name: "title", Value: "inline text"},
		{Name: "body", Value: "hello"},
	}, items)
}

func TestFile_SaveContentItems_RoundTrip(t *testing.T) {
	f, file, head := newAboutFile(t, map[string]string{
		aboutManifest:          `{"title": "inline text", "body": "@include:extra.md"}`,
		"pages/about/extra.md": "hello",
	})

	require.NoError(t, file.SaveContentItems(context.Background(), map[string]string{
		"title": "new title",
		"body":  "new body",
	}))

	extra, ok := f.server.File(head, "pages/about/extra.md")
	require.True(t, ok)
	assert.Equal(t, "new body", extra)

	m := readManifest(t, f, head)
	title, _ := m.Get("title")
	body, _ := m.Get("body")
	assert.Equal(t, "new title", title)
	assert.Equal(t, "@include:extra.md", body)

	// The written manifest is served back without a refetch.
	items, err := file.ContentItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ContentItem{
		{Name: "title", Value: "new title"},
		{Name: "body", Value: "new body"},
	}, items)
	assert.Equal(t, 1, f.server.Requests(http.MethodGet, f.server.RepoPath("contents/"+aboutManifest)))
}

func TestFile_SaveContentItems_IgnoresUnknownKeys(t *testing.T) {
	f, file, head := newAboutFile(t, map[string]string{
		aboutManifest: `{"title": "inline text"}`,
	})

	require.NoError(t, file.SaveContentItems(context.Background(), map[string]string{
		"injected": "value",
	}))

	assert.Equal(t, []string{"title"}, readManifest(t, f, head).Keys())
	assert.Equal(t, 0, f.server.Requests(http.MethodPut, f.server.RepoPath("contents/"+aboutManifest)))
}

func TestFile_SaveContentItems_UnchangedValues(t *testing.T) {
	f, file, _ := newAboutFile(t, map[string]string{
		aboutManifest:          `{"title": "inline text", "body": "@include:extra.md"}`,
		"pages/about/extra.md": "hello",
	})

	require.NoError(t, file.SaveContentItems(context.Background(), map[string]string{
		"title": "inline text",
		"body":  "hello",
	}))

	assert.Equal(t, 0, f.server.Requests(http.MethodPut, f.server.RepoPath("contents/"+aboutManifest)))
	assert.Equal(t, 0, f.server.Requests(http.MethodPut, f.server.RepoPath("contents/pages/about/extra.md")))
}

func TestFile_SaveContentItems_PartialUpdate(t *testing.T) {
	f, file, head := newAboutFile(t, map[string]string{
		aboutManifest: `{
  // shown in the page header
  "title": "inline text",
  "subtitle": "kept",
}`,
	})

	require.NoError(t, file.SaveContentItems(context.Background(), map[string]string{
		"title": "new title",
	}))

	content, _ := f.server.File(head, aboutManifest)
	assert.Equal(t, "{\n  \"title\": \"new title\",\n  \"subtitle\": \"kept\"\n}\n", content)
}

func TestFile_SaveContentItems_CreatesMissingInclude(t *testing.T) {
	f, file, head := newAboutFile(t, map[string]string{
		aboutManifest: `{"body": "@include:body.md"}`,
	})

	require.NoError(t, file.SaveContentItems(context.Background(), map[string]string{
		"body": "first version",
	}))

	body, ok := f.server.File(head, "pages/about/body.md")
	require.True(t, ok)
	assert.Equal(t, "first version", body)
	assert.Equal(t, `{"body": "@include:body.md"}`, func() string {
		c, _ := f.server.File(head, aboutManifest)
		return c
	}())
}

func TestFile_ContentItems_MissingInclude(t *testing.T) {
	_, file, _ := newAboutFile(t, map[string]string{
		aboutManifest: `{"body": "@include:body.md"}`,
	})

	_, err := file.ContentItems(context.Background())
	assert.Error(t, err)
}

func TestFile_ContentItems_InvalidManifest(t *testing.T) {
	_, file, _ := newAboutFile(t, map[string]string{
		aboutManifest: `{"title": 3}`,
	})

	_, err := file.ContentItems(context.Background())
	assert.ErrorIs(t, err, manifest.ErrInvalidManifest)
}
