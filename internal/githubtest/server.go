// Package githubtest provides an in-memory fake of the GitHub REST endpoints used by verba.
package githubtest

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/lerenn/verba/pkg/transport"
	"github.com/stretchr/testify/require"
)

// DefaultLogin is the login owning the token used against the fake.
const DefaultLogin = "test-owner"

type failure struct {
	status int
	body   string
}

type pull struct {
	number    int
	title     string
	body      string
	head      string
	base      string
	state     string
	createdAt time.Time
	labels    []string
	assignees []string
	comments  []*github.IssueComment
	diff      string
}

// Server is a fake GitHub serving one repository on an API host and a web host.
type Server struct {
	API *httptest.Server
	Web *httptest.Server

	owner string
	repo  string

	mu       sync.Mutex
	login    string
	branches map[string]string
	files    map[string]map[string]string
	pulls    map[int]*pull
	next     int
	requests map[string]int
	failures map[string]failure
	now      func() time.Time
}

// New starts a fake serving repo ("org/name"). Servers are closed on test cleanup.
func New(t testing.TB, repo string) *Server {
	t.Helper()

	owner, name, ok := strings.Cut(repo, "/")
	require.True(t, ok, "repo must be org/name")

	s := &Server{
		owner:    owner,
		repo:     name,
		login:    DefaultLogin,
		branches: make(map[string]string),
		files:    make(map[string]map[string]string),
		pulls:    make(map[int]*pull),
		next:     1,
		requests: make(map[string]int),
		failures: make(map[string]failure),
		now:      time.Now,
	}

	s.API = httptest.NewServer(s.wrap(s.apiMux()))
	s.Web = httptest.NewServer(s.wrap(s.webMux()))
	t.Cleanup(func() {
		s.API.Close()
		s.Web.Close()
	})

	return s
}

// NewClient returns a transport client pointed at both hosts of the fake.
func (s *Server) NewClient(t testing.TB) transport.Client {
	t.Helper()
	c, err := transport.NewClient(transport.NewClientParams{
		Token:    "test-token",
		APIHost:  s.API.URL,
		HTTPHost: s.Web.URL,
	})
	require.NoError(t, err)
	return c
}

// SetLogin changes the login returned by GET /user and used as comment author.
func (s *Server) SetLogin(login string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.login = login
}

// Fail makes every request to method and path answer status with body.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// Requests returns how many times method and path were requested.
func (s *Server) Requests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+path]
}

// TotalRequests returns the number of requests received on both hosts.
func (s *Server) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.requests {
		total += n
	}
	return total
}

// RepoPath returns the absolute API path of part in the served repository.
func (s *Server) RepoPath(part string) string {
	return "/repos/" + s.owner + "/" + s.repo + "/" + strings.TrimPrefix(part, "/")
}

// AddBranch creates a branch holding files.
func (s *Server) AddBranch(name string, files map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[name] = make(map[string]string, len(files))
	for p, c := range files {
		s.files[name][p] = c
	}
	s.branches[name] = s.snapshotSHA(name)
}

// Branches returns the sorted branch names.
func (s *Server) Branches() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.branches))
	for name := range s.branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// File returns the content of path on branch.
func (s *Server) File(branch, path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[branch][path]
	return content, ok
}

// Files returns the paths on branch.
func (s *Server) Files(branch string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.files[branch]))
	for p := range s.files[branch] {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// PullSeed describes a pull request created with AddPull.
type PullSeed struct {
	Title     string
	Body      string
	Head      string
	Base      string
	Closed    bool
	CreatedAt time.Time
	Labels    []string
	Assignees []string
	Diff      string
}

// AddPull creates a pull request and returns its number. The head branch is
// created empty when missing.
func (s *Server) AddPull(seed PullSeed) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.branches[seed.Head]; !ok {
		s.files[seed.Head] = map[string]string{}
		s.branches[seed.Head] = s.snapshotSHA(seed.Head)
	}

	p := &pull{
		number:    s.next,
		title:     seed.Title,
		body:      seed.Body,
		head:      seed.Head,
		base:      seed.Base,
		state:     "open",
		createdAt: seed.CreatedAt,
		labels:    append([]string{}, seed.Labels...),
		assignees: append([]string{}, seed.Assignees...),
		diff:      seed.Diff,
	}
	if seed.Closed {
		p.state = "closed"
	}
	if p.createdAt.IsZero() {
		p.createdAt = s.now().UTC().Truncate(time.Second)
	}
	s.pulls[p.number] = p
	s.next++
	return p.number
}

// AddComment appends a comment written by author on pull request number.
func (s *Server) AddComment(number int, author, body string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.pulls[number]
	p.comments = append(p.comments, &github.IssueComment{
		Body:      github.String(body),
		User:      &github.User{Login: github.String(author)},
		CreatedAt: &github.Timestamp{Time: at},
	})
}

// PullView is a snapshot of a pull request held by the fake.
type PullView struct {
	Title     string
	Body      string
	Head      string
	Base      string
	State     string
	Labels    []string
	Assignees []string
	Comments  []string
}

// Pull returns a snapshot of pull request number.
func (s *Server) Pull(number int) (PullView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pulls[number]
	if !ok {
		return PullView{}, false
	}

	comments := make([]string, 0, len(p.comments))
	for _, c := range p.comments {
		comments = append(comments, c.GetBody())
	}
	return PullView{
		Title:     p.title,
		Body:      p.body,
		Head:      p.head,
		Base:      p.base,
		State:     p.state,
		Labels:    append([]string{}, p.labels...),
		Assignees: append([]string{}, p.assignees...),
		Comments:  comments,
	}, true
}

// PullNumbers returns the sorted numbers of every pull request.
func (s *Server) PullNumbers() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	numbers := make([]int, 0, len(s.pulls))
	for n := range s.pulls {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

func (s *Server) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		s.mu.Lock()
		s.requests[key]++
		f, failing := s.failures[key]
		s.mu.Unlock()

		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// snapshotSHA derives a commit SHA from the files of branch. Callers hold mu.
func (s *Server) snapshotSHA(branch string) string {
	paths := make([]string, 0, len(s.files[branch]))
	for p := range s.files[branch] {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	h := sha1.New()
	fmt.Fprintf(h, "%s\n", branch)
	for _, p := range paths {
		fmt.Fprintf(h, "%s\x00%s\x00", p, s.files[branch][p])
	}
	return hex.EncodeToString(h.Sum(nil))
}

func blobSHA(content string) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("blob %d\x00%s", len(content), content)))
	return hex.EncodeToString(sum[:])
}
