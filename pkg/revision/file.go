package revision

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/lerenn/verba/pkg/forge"
	"github.com/lerenn/verba/pkg/logger"
	"github.com/lerenn/verba/pkg/manifest"
	"github.com/lerenn/verba/pkg/transport"
)

// File is one content unit of a revision: a folder under the content
// folder holding a manifest.
type File struct {
	manifest      *forge.File
	revisionID    int
	contentFolder string
	logger        logger.Logger
}

func newFile(f *forge.File, revisionID int, contentFolder string, l logger.Logger) *File {
	return &File{
		manifest:      f,
		revisionID:    revisionID,
		contentFolder: strings.Trim(contentFolder, "/"),
		logger:        l,
	}
}

// ContentItem is one field of a content file, with directives resolved.
type ContentItem struct {
	Name  string
	Value string
}

// Path returns the folder of the manifest, relative to the content folder.
func (f *File) Path() string {
	p := strings.TrimPrefix(f.manifest.Path(), f.contentFolder+"/")
	return strings.TrimSuffix(strings.TrimSuffix(p, manifest.FileName), "/")
}

// RevisionID returns the revision the file belongs to.
func (f *File) RevisionID() int {
	return f.revisionID
}

func (f *File) dir() string {
	return path.Dir(f.manifest.Path())
}

func (f *File) sibling(name string) *forge.File {
	return f.manifest.Branch().File(path.Join(f.dir(), name))
}

func (f *File) commitMessage() string {
	return fmt.Sprintf("Update content of %s", f.dir())
}

func (f *File) load(ctx context.Context) (*manifest.Manifest, error) {
	content, err := f.manifest.Content(ctx)
	if err != nil {
		return nil, err
	}
	m, err := manifest.Parse([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.manifest.Path(), err)
	}
	return m, nil
}

// ContentItems returns the fields of the manifest in file order. Included
// files are fetched and substituted.
func (f *File) ContentItems(ctx context.Context) ([]ContentItem, error) {
	m, err := f.load(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]ContentItem, 0, len(m.Keys()))
	for _, key := range m.Keys() {
		value, _ := m.Get(key)
		if target, ok := m.Directive(key); ok {
			if value, err = f.sibling(target).Content(ctx); err != nil {
				return nil, err
			}
		}
		items = append(items, ContentItem{Name: key, Value: value})
	}
	return items, nil
}

// SaveContentItems writes values over the existing fields. Only the keys
// of the current manifest are considered: unknown keys are ignored.
// Included fields rewrite the referenced file and keep their directive.
// Unchanged values are not written.
func (f *File) SaveContentItems(ctx context.Context, values map[string]string) error {
	m, err := f.load(ctx)
	if err != nil {
		return err
	}

	for key := range values {
		if _, ok := m.Get(key); !ok {
			f.logger.Logf("ignoring unknown content item %q of %s", key, f.manifest.Path())
		}
	}

	changed := false
	for _, key := range m.Keys() {
		value, ok := values[key]
		if !ok {
			continue
		}

		if target, ok := m.Directive(key); ok {
			if err := f.saveSibling(ctx, target, value); err != nil {
				return err
			}
			continue
		}

		if current, _ := m.Get(key); current == value {
			continue
		}
		if err := m.Set(key, value); err != nil {
			return err
		}
		changed = true
	}

	if !changed {
		return nil
	}

	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return f.manifest.ChangeContent(ctx, string(data), f.commitMessage())
}

func (f *File) saveSibling(ctx context.Context, name, value string) error {
	sibling := f.sibling(name)

	current, err := sibling.Content(ctx)
	if transport.IsNotFound(err) {
		_, err = f.manifest.Branch().CreateFile(ctx, sibling.Path(), value, f.commitMessage())
		return err
	}
	if err != nil {
		return err
	}

	if current == value {
		return nil
	}
	return sibling.ChangeContent(ctx, value, f.commitMessage())
}
