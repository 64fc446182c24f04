package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// revisionRef is a parsed revision argument: 12, #12, org/name#12 or the
// web URL of the pull request.
type revisionRef struct {
	Repo   string
	Number int
}

func parseRevisionRef(arg string) (revisionRef, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return parseRevisionURL(arg)
	}

	repo, number, found := strings.Cut(arg, "#")
	if !found {
		repo, number = "", arg
	}
	if found && repo != "" && strings.Count(repo, "/") != 1 {
		return revisionRef{}, fmt.Errorf("%w: %q", ErrInvalidRevisionID, arg)
	}

	n, err := strconv.Atoi(number)
	if err != nil || n <= 0 {
		return revisionRef{}, fmt.Errorf("%w: %q", ErrInvalidRevisionID, arg)
	}
	return revisionRef{Repo: repo, Number: n}, nil
}

func parseRevisionURL(arg string) (revisionRef, error) {
	u, err := url.Parse(arg)
	if err != nil {
		return revisionRef{}, fmt.Errorf("%w: %q", ErrInvalidRevisionID, arg)
	}

	// org/name/pull/12
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 4 || parts[2] != "pull" {
		return revisionRef{}, fmt.Errorf("%w: %q", ErrInvalidRevisionID, arg)
	}
	n, err := strconv.Atoi(parts[3])
	if err != nil || n <= 0 {
		return revisionRef{}, fmt.Errorf("%w: %q", ErrInvalidRevisionID, arg)
	}
	return revisionRef{Repo: parts[0] + "/" + parts[1], Number: n}, nil
}

// ID returns the pull request number once the reference is known to
// target repo.
func (r revisionRef) ID(repo string) (int, error) {
	if r.Repo != "" && !strings.EqualFold(r.Repo, repo) {
		return 0, fmt.Errorf("%w: %s is not %s", ErrRepositoryMismatch, r.Repo, repo)
	}
	return r.Number, nil
}
