package forge

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"path"

	"github.com/google/go-github/v62/github"
	"github.com/lerenn/verba/pkg/transport"
)

// File is a file on one branch. Its metadata is fetched once per instance.
type File struct {
	branch *Branch
	path   string
	data   *github.RepositoryContent
}

type contentQuery struct {
	Ref string `url:"ref,omitempty"`
}

// Path returns the repository relative path.
func (f *File) Path() string {
	return f.path
}

// Branch returns the branch holding the file.
func (f *File) Branch() *Branch {
	return f.branch
}

func (f *File) contentsPath() string {
	return f.branch.repo.path("contents/" + escapePath(f.path))
}

func (f *File) ensureLoaded(ctx context.Context) error {
	if f.data != nil {
		return nil
	}

	var data github.RepositoryContent
	if _, err := f.branch.repo.client.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   f.contentsPath(),
		Query:  contentQuery{Ref: f.branch.name},
	}, &data); err != nil {
		return err
	}
	f.data = &data
	return nil
}

// Name returns the base name of the file.
func (f *File) Name(ctx context.Context) (string, error) {
	if err := f.ensureLoaded(ctx); err != nil {
		return "", err
	}
	if name := f.data.GetName(); name != "" {
		return name, nil
	}
	return path.Base(f.path), nil
}

// SHA returns the blob SHA of the current content.
func (f *File) SHA(ctx context.Context) (string, error) {
	if err := f.ensureLoaded(ctx); err != nil {
		return "", err
	}
	return f.data.GetSHA(), nil
}

// Content returns the decoded content.
func (f *File) Content(ctx context.Context) (string, error) {
	if err := f.ensureLoaded(ctx); err != nil {
		return "", err
	}

	content, err := f.data.GetContent()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUndecodableFile, f.path, err)
	}
	return content, nil
}

// ChangeContent commits content with the current blob SHA. The local
// metadata is replaced by the write response, so no refetch follows.
func (f *File) ChangeContent(ctx context.Context, content, message string) error {
	sha, err := f.SHA(ctx)
	if err != nil {
		return err
	}
	return f.write(ctx, content, message, sha)
}

// write creates the file when sha is empty, or updates it otherwise.
func (f *File) write(ctx context.Context, content, message, sha string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: []byte(content),
		Branch:  github.String(f.branch.name),
	}
	if sha != "" {
		opts.SHA = github.String(sha)
	}

	var resp github.RepositoryContentResponse
	if _, err := f.branch.repo.client.Do(ctx, transport.Request{
		Method: http.MethodPut,
		Path:   f.contentsPath(),
		Body:   opts,
	}, &resp); err != nil {
		return err
	}

	// Write responses omit the content itself.
	data := resp.Content
	if data == nil {
		data = &github.RepositoryContent{Path: github.String(f.path)}
	}
	data.Content = github.String(base64.StdEncoding.EncodeToString([]byte(content)))
	data.Encoding = github.String("base64")
	f.data = data

	f.branch.repo.cache.DeletePrefix(treePrefix(f.branch.name))
	return nil
}
