// Package revision implements the content revision workflow on top of pull requests.
package revision

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/lerenn/verba/pkg/branch"
	"github.com/lerenn/verba/pkg/config"
	"github.com/lerenn/verba/pkg/dependencies"
	"github.com/lerenn/verba/pkg/forge"
	"github.com/lerenn/verba/pkg/manifest"
	"github.com/lerenn/verba/pkg/transport"
)

// Revision is one content editing workflow, backed by a pull request whose
// head is a revision branch.
type Revision struct {
	pull   *forge.PullRequest
	info   branch.Info
	config config.Config
	deps   *dependencies.Dependencies

	files []*File
}

func newRevision(pull *forge.PullRequest, info branch.Info, cfg config.Config, deps *dependencies.Dependencies) *Revision {
	return &Revision{
		pull:   pull,
		info:   info,
		config: cfg,
		deps:   deps,
	}
}

// ID returns the pull request number.
func (r *Revision) ID() int {
	return r.pull.Number()
}

// Title returns the pull request title.
func (r *Revision) Title() string {
	return r.pull.Title()
}

// Description returns the pull request body.
func (r *Revision) Description() string {
	return r.pull.Description()
}

// CreatedAt returns when the pull request was opened.
func (r *Revision) CreatedAt() time.Time {
	return r.pull.CreatedAt()
}

// Creator returns the login embedded in the branch name.
func (r *Revision) Creator() string {
	return r.info.Creator
}

// BranchName returns the revision branch.
func (r *Revision) BranchName() string {
	return r.pull.HeadRef()
}

// URL returns the web page of the pull request.
func (r *Revision) URL() string {
	return r.pull.HTMLURL()
}

// Statuses returns the applied workflow labels.
func (r *Revision) Statuses(ctx context.Context) ([]string, error) {
	labels, err := r.pull.Labels(ctx)
	if err != nil {
		return nil, err
	}
	return filter(labels, r.config.Labels.Vocabulary()), nil
}

// Assignees returns the applied assignees managed by verba.
func (r *Revision) Assignees(ctx context.Context) ([]string, error) {
	assignees, err := r.pull.Assignees(ctx)
	if err != nil {
		return nil, err
	}
	return filter(assignees, r.config.Assignees.Allowed), nil
}

// State derives the workflow state from the applied labels.
func (r *Revision) State(ctx context.Context) (State, error) {
	if r.pull.IsClosed() {
		return StateClosed, nil
	}
	labels, err := r.pull.Labels(ctx)
	if err != nil {
		return StateUnknown, err
	}
	return stateFromLabels(r.config.Labels, labels, false), nil
}

// IsInDraft reports whether the draft label is applied.
func (r *Revision) IsInDraft(ctx context.Context) (bool, error) {
	return r.hasLabel(ctx, r.config.Labels.Draft)
}

// IsInTwoI reports whether the 2i label is applied.
func (r *Revision) IsInTwoI(ctx context.Context) (bool, error) {
	return r.hasLabel(ctx, r.config.Labels.TwoI)
}

// IsReadyForPublishing reports whether the ready for publishing label is applied.
func (r *Revision) IsReadyForPublishing(ctx context.Context) (bool, error) {
	return r.hasLabel(ctx, r.config.Labels.ReadyForPublishing)
}

// IsClosed reports whether the pull request was closed when it was fetched.
func (r *Revision) IsClosed() bool {
	return r.pull.IsClosed()
}

func (r *Revision) hasLabel(ctx context.Context, label string) (bool, error) {
	labels, err := r.pull.Labels(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(labels, label), nil
}

// MoveToDraft applies the draft label and assigns the creator.
func (r *Revision) MoveToDraft(ctx context.Context) error {
	return r.moveState(ctx, r.config.Labels.Draft, r.Creator())
}

// MoveToTwoI applies the 2i label and assigns a random writer other than the creator.
func (r *Revision) MoveToTwoI(ctx context.Context) error {
	writers := slices.DeleteFunc(slices.Clone(r.config.Assignees.Writers), func(w string) bool {
		return w == r.Creator()
	})
	if len(writers) == 0 {
		return fmt.Errorf("%w: no writer other than %q", ErrNoEligibleAssignee, r.Creator())
	}
	return r.moveState(ctx, r.config.Labels.TwoI, writers[r.deps.Rand.IntN(len(writers))])
}

// MoveToReadyForPublishing applies the ready for publishing label and assigns a random developer.
func (r *Revision) MoveToReadyForPublishing(ctx context.Context) error {
	developers := r.config.Assignees.Developers
	if len(developers) == 0 {
		return fmt.Errorf("%w: no developer configured", ErrNoEligibleAssignee)
	}
	return r.moveState(ctx, r.config.Labels.ReadyForPublishing, developers[r.deps.Rand.IntN(len(developers))])
}

// moveState writes the labels then the assignees. Unknown labels and
// assignees are kept.
func (r *Revision) moveState(ctx context.Context, label, assignee string) error {
	labels, err := r.pull.Labels(ctx)
	if err != nil {
		return err
	}
	if err := r.pull.SetLabels(ctx, compose(labels, r.config.Labels.Vocabulary(), label)); err != nil {
		return err
	}

	assignees, err := r.pull.Assignees(ctx)
	if err != nil {
		return err
	}
	if err := r.pull.SetAssignees(ctx, compose(assignees, r.config.Assignees.Allowed, assignee)); err != nil {
		return err
	}

	r.deps.Logger.Logf("revision %d moved to %q, assigned to %s", r.ID(), label, assignee)
	return nil
}

// AddComment posts text on the revision. The state is left unchanged.
func (r *Revision) AddComment(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyComment
	}
	return r.pull.AddComment(ctx, text)
}

// ActivityKind tells how an activity happened.
type ActivityKind int

// Activity kinds.
const (
	ActivityCreated ActivityKind = iota
	ActivityComment
)

// Activity is one entry of the revision history.
type Activity struct {
	Kind      ActivityKind
	CreatedBy string
	CreatedAt time.Time
	Body      string
}

// Activities returns the creation of the revision followed by its comments
// in API order. The sequence is rebuilt on every call.
func (r *Revision) Activities(ctx context.Context) (iter.Seq[Activity], error) {
	comments, err := r.pull.Comments(ctx)
	if err != nil {
		return nil, err
	}

	created := Activity{
		Kind:      ActivityCreated,
		CreatedBy: r.Creator(),
		CreatedAt: r.CreatedAt(),
	}

	return func(yield func(Activity) bool) {
		if !yield(created) {
			return
		}
		for _, c := range comments {
			if !yield(Activity{
				Kind:      ActivityComment,
				CreatedBy: c.CreatedBy,
				CreatedAt: c.CreatedAt,
				Body:      c.Body,
			}) {
				return
			}
		}
	}, nil
}

// GetFiles returns the content files of the revision branch, once per instance.
func (r *Revision) GetFiles(ctx context.Context) ([]*File, error) {
	if r.files != nil {
		return r.files, nil
	}

	folder := strings.Trim(r.config.Paths.ContentFolder, "/")
	handles, err := r.pull.Branch().GetDirFiles(ctx, folder, true)
	if transport.IsNotFound(err) {
		// The content folder does not exist on this branch.
		r.files = []*File{}
		return r.files, nil
	}
	if err != nil {
		return nil, err
	}

	files := make([]*File, 0, len(handles))
	for _, h := range handles {
		if !manifest.IsContentFile(folder, h.Path()) {
			continue
		}
		files = append(files, newFile(h, r.ID(), folder, r.deps.Logger))
	}

	r.files = files
	return files, nil
}

// GetFile returns the content file at p, relative to the content folder.
func (r *Revision) GetFile(ctx context.Context, p string) (*File, error) {
	files, err := r.GetFiles(ctx)
	if err != nil {
		return nil, err
	}

	p = strings.Trim(p, "/")
	for _, f := range files {
		if f.Path() == p {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in revision %d", ErrRevisionFileNotFound, p, r.ID())
}

// Edit changes the title and the description.
func (r *Revision) Edit(ctx context.Context, title, description string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleEmpty
	}
	return r.pull.Edit(ctx, title, description)
}

// Close closes the pull request. Labels and assignees are left as they are.
func (r *Revision) Close(ctx context.Context) error {
	return r.pull.Close(ctx)
}

// Diff returns the unified diff of the revision against its base.
func (r *Revision) Diff(ctx context.Context) (string, error) {
	return r.pull.Diff(ctx)
}

func filter(values, vocabulary []string) []string {
	filtered := make([]string, 0, len(values))
	for _, v := range values {
		if slices.Contains(vocabulary, v) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
