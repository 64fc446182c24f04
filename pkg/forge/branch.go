package forge

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/lerenn/verba/pkg/cache"
	"github.com/lerenn/verba/pkg/transport"
)

// Branch is a handle on one branch of the repository.
type Branch struct {
	repo *Repo
	name string
}

// Name returns the branch name.
func (b *Branch) Name() string {
	return b.name
}

type treeQuery struct {
	// GitHub recurses for any value, so the parameter is omitted when false.
	Recursive string `url:"recursive,omitempty"`
}

// GetGitTree returns the tree listing of dir on this branch.
func (b *Branch) GetGitTree(ctx context.Context, dir string, recursive bool) (*github.Tree, error) {
	dir = strings.Trim(dir, "/")
	return cache.Fetch(b.repo.cache, treeKey(b.name, dir, recursive), func() (*github.Tree, error) {
		q := treeQuery{}
		if recursive {
			q.Recursive = "1"
		}

		var tree github.Tree
		if _, err := b.repo.client.Do(ctx, transport.Request{
			Method: http.MethodGet,
			Path:   b.repo.path("git/trees/" + escapePath(b.name+":"+dir)),
			Query:  q,
		}, &tree); err != nil {
			return nil, err
		}
		return &tree, nil
	})
}

// GetDirFiles maps the blobs under dir to file handles, directly under dir
// or at any depth when recursive. Files are not fetched: existence is
// checked on first access.
func (b *Branch) GetDirFiles(ctx context.Context, dir string, recursive bool) ([]*File, error) {
	tree, err := b.GetGitTree(ctx, dir, recursive)
	if err != nil {
		return nil, err
	}

	dir = strings.Trim(dir, "/")
	files := make([]*File, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		files = append(files, b.File(path.Join(dir, entry.GetPath())))
	}
	return files, nil
}

// File returns a lazy handle on the file at p.
func (b *Branch) File(p string) *File {
	return &File{branch: b, path: strings.Trim(p, "/")}
}

// GetFile returns the file at p, fetching it to check it exists.
func (b *Branch) GetFile(ctx context.Context, p string) (*File, error) {
	f := b.File(p)
	if err := f.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return f, nil
}

// CreateFile writes a new file at p on this branch.
func (b *Branch) CreateFile(ctx context.Context, p, content, message string) (*File, error) {
	f := b.File(p)
	if err := f.write(ctx, content, message, ""); err != nil {
		return nil, err
	}
	return f, nil
}
