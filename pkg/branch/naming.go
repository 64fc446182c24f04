package branch

import (
	"fmt"
	"strings"

	"github.com/rs/xid"
)

// Separator joins the parts of a revision branch name.
const Separator = "__"

const revisionParts = 4

// ErrTitleEmpty is returned when generating a name for an empty title.
var ErrTitleEmpty = &Error{message: "revision title cannot be empty"}

// ErrCreatorEmpty is returned when generating a name without a creator.
var ErrCreatorEmpty = &Error{message: "revision creator cannot be empty"}

// ErrNamespaceInvalid is returned when the namespace is empty, contains the
// separator or starts or ends with "_".
var ErrNamespaceInvalid = &Error{message: "branch namespace is invalid"}

// ErrCreatorInvalid is returned when the creator cannot be embedded in a branch name.
var ErrCreatorInvalid = &Error{message: "revision creator cannot be embedded in a branch name"}

// Info holds the parts of a revision branch name.
type Info struct {
	Namespace string
	Slug      string
	Creator   string
	Suffix    string
}

// Name joins the parts back into a branch name.
func (i Info) Name() string {
	return strings.Join([]string{i.Namespace, i.Slug, i.Creator, i.Suffix}, Separator)
}

// Generate returns a new revision branch name for title and creator,
// ending with a random suffix.
func Generate(namespace, title, creator string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", ErrTitleEmpty
	}
	if creator == "" {
		return "", ErrCreatorEmpty
	}
	if namespace == "" || strings.Contains(namespace, Separator) ||
		strings.HasPrefix(namespace, "_") || strings.HasSuffix(namespace, "_") {
		return "", fmt.Errorf("%w: %q", ErrNamespaceInvalid, namespace)
	}
	if strings.Contains(creator, Separator) {
		return "", fmt.Errorf("%w: %q contains %q", ErrCreatorInvalid, creator, Separator)
	}

	info := Info{
		Namespace: namespace,
		Slug:      Slug(title),
		Creator:   creator,
		Suffix:    xid.New().String(),
	}
	name := info.Name()

	// The name must reach the hosting API unchanged to be parsed back.
	sanitized, err := SanitizeBranchName(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCreatorInvalid, err)
	}
	if sanitized != name {
		return "", fmt.Errorf("%w: %q is not a valid branch name", ErrCreatorInvalid, name)
	}

	// A part ending with "_" merges into the separator.
	if parsed, ok := Parse(namespace, name); !ok || parsed != info {
		return "", fmt.Errorf("%w: %q does not split back into its parts", ErrCreatorInvalid, name)
	}

	return name, nil
}

// Parse splits a revision branch name. It reports false when name has the
// wrong number of parts or the wrong namespace.
func Parse(namespace, name string) (Info, bool) {
	parts := strings.Split(name, Separator)
	if len(parts) != revisionParts || parts[0] != namespace {
		return Info{}, false
	}

	return Info{
		Namespace: parts[0],
		Slug:      parts[1],
		Creator:   parts[2],
		Suffix:    parts[3],
	}, true
}

// IsRevisionBranch reports whether name was generated in namespace.
func IsRevisionBranch(namespace, name string) bool {
	_, ok := Parse(namespace, name)
	return ok
}
