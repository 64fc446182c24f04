package githubtest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
)

func (s *Server) apiMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", s.getUser)
	mux.HandleFunc("GET /repos/{owner}/{repo}/pulls", s.listPulls)
	mux.HandleFunc("POST /repos/{owner}/{repo}/pulls", s.createPull)
	mux.HandleFunc("GET /repos/{owner}/{repo}/pulls/{number}", s.getPull)
	mux.HandleFunc("PATCH /repos/{owner}/{repo}/pulls/{number}", s.editPull)
	mux.HandleFunc("GET /repos/{owner}/{repo}/issues/{number}", s.getIssue)
	mux.HandleFunc("PATCH /repos/{owner}/{repo}/issues/{number}", s.editIssue)
	mux.HandleFunc("GET /repos/{owner}/{repo}/issues/{number}/comments", s.listComments)
	mux.HandleFunc("POST /repos/{owner}/{repo}/issues/{number}/comments", s.createComment)
	mux.HandleFunc("GET /repos/{owner}/{repo}/branches/{branch...}", s.getBranch)
	mux.HandleFunc("POST /repos/{owner}/{repo}/git/refs", s.createRef)
	mux.HandleFunc("GET /repos/{owner}/{repo}/git/trees/{spec...}", s.getTree)
	mux.HandleFunc("GET /repos/{owner}/{repo}/contents/{path...}", s.getContents)
	mux.HandleFunc("PUT /repos/{owner}/{repo}/contents/{path...}", s.putContents)
	return mux
}

func (s *Server) webMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{owner}/{repo}/pull/{diff}", s.getDiff)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"message":           message,
		"documentation_url": "https://docs.github.com/rest",
	})
}

func (s *Server) apiURL(part string) string {
	return s.API.URL + s.RepoPath(part)
}

// pullPayload renders p. Callers hold mu.
func (s *Server) pullPayload(p *pull) *github.PullRequest {
	n := strconv.Itoa(p.number)
	return &github.PullRequest{
		Number:    github.Int(p.number),
		Title:     github.String(p.title),
		Body:      github.String(p.body),
		State:     github.String(p.state),
		Comments:  github.Int(len(p.comments)),
		CreatedAt: &github.Timestamp{Time: p.createdAt},
		URL:       github.String(s.apiURL("pulls/" + n)),
		IssueURL:  github.String(s.apiURL("issues/" + n)),
		HTMLURL:   github.String(fmt.Sprintf("%s/%s/%s/pull/%s", s.Web.URL, s.owner, s.repo, n)),
		DiffURL:   github.String(fmt.Sprintf("%s/%s/%s/pull/%s.diff", s.Web.URL, s.owner, s.repo, n)),
		Head:      &github.PullRequestBranch{Ref: github.String(p.head), SHA: github.String(s.branches[p.head])},
		Base:      &github.PullRequestBranch{Ref: github.String(p.base), SHA: github.String(s.branches[p.base])},
	}
}

// issuePayload renders the issue side of p. Callers hold mu.
func (s *Server) issuePayload(p *pull) *github.Issue {
	n := strconv.Itoa(p.number)
	labels := make([]*github.Label, 0, len(p.labels))
	for _, l := range p.labels {
		labels = append(labels, &github.Label{Name: github.String(l)})
	}
	assignees := make([]*github.User, 0, len(p.assignees))
	for _, a := range p.assignees {
		assignees = append(assignees, &github.User{Login: github.String(a)})
	}
	return &github.Issue{
		Number:      github.Int(p.number),
		Title:       github.String(p.title),
		State:       github.String(p.state),
		Labels:      labels,
		Assignees:   assignees,
		Comments:    github.Int(len(p.comments)),
		URL:         github.String(s.apiURL("issues/" + n)),
		CommentsURL: github.String(s.apiURL("issues/" + n + "/comments")),
	}
}

func (s *Server) lookupPull(w http.ResponseWriter, r *http.Request) (*pull, bool) {
	n, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Not Found")
		return nil, false
	}
	p, ok := s.pulls[n]
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return nil, false
	}
	return p, true
}

func (s *Server) getUser(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, &github.User{
		Login:     github.String(s.login),
		Name:      github.String(strings.ToUpper(s.login[:1]) + s.login[1:]),
		Email:     github.String(s.login + "@example.com"),
		AvatarURL: github.String("https://avatars.example.com/" + s.login),
	})
}

func (s *Server) listPulls(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := r.URL.Query().Get("state")
	if state == "" {
		state = "open"
	}

	numbers := make([]int, 0, len(s.pulls))
	for n, p := range s.pulls {
		if state == "all" || p.state == state {
			numbers = append(numbers, n)
		}
	}
	sort.Ints(numbers)

	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage <= 0 {
		perPage = 30
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}

	start := min((page-1)*perPage, len(numbers))
	end := min(start+perPage, len(numbers))
	if end < len(numbers) {
		next := *r.URL
		q := next.Query()
		q.Set("page", strconv.Itoa(page+1))
		next.RawQuery = q.Encode()
		w.Header().Set("Link", fmt.Sprintf(`<%s%s>; rel="next"`, s.API.URL, next.RequestURI()))
	}

	payloads := make([]*github.PullRequest, 0, end-start)
	for _, n := range numbers[start:end] {
		payloads = append(payloads, s.pullPayload(s.pulls[n]))
	}
	writeJSON(w, http.StatusOK, payloads)
}

func (s *Server) createPull(w http.ResponseWriter, r *http.Request) {
	var req github.NewPullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Problems parsing JSON")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.branches[req.GetHead()]; !ok {
		writeError(w, http.StatusUnprocessableEntity, "Validation Failed")
		return
	}
	if _, ok := s.branches[req.GetBase()]; !ok {
		writeError(w, http.StatusUnprocessableEntity, "Validation Failed")
		return
	}
	for _, p := range s.pulls {
		if p.head == req.GetHead() && p.state == "open" {
			writeError(w, http.StatusUnprocessableEntity, "A pull request already exists for "+req.GetHead())
			return
		}
	}

	p := &pull{
		number:    s.next,
		title:     req.GetTitle(),
		body:      req.GetBody(),
		head:      req.GetHead(),
		base:      req.GetBase(),
		state:     "open",
		createdAt: s.now().UTC().Truncate(time.Second),
	}
	s.pulls[p.number] = p
	s.next++
	writeJSON(w, http.StatusCreated, s.pullPayload(p))
}

func (s *Server) getPull(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookupPull(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.pullPayload(p))
}

func (s *Server) editPull(w http.ResponseWriter, r *http.Request) {
	var req github.PullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Problems parsing JSON")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookupPull(w, r)
	if !ok {
		return
	}
	if req.Title != nil {
		p.title = req.GetTitle()
	}
	if req.Body != nil {
		p.body = req.GetBody()
	}
	if req.State != nil {
		p.state = req.GetState()
	}
	writeJSON(w, http.StatusOK, s.pullPayload(p))
}

func (s *Server) getIssue(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookupPull(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.issuePayload(p))
}

func (s *Server) editIssue(w http.ResponseWriter, r *http.Request) {
	var req github.IssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Problems parsing JSON")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookupPull(w, r)
	if !ok {
		return
	}
	if req.Labels != nil {
		p.labels = append([]string{}, (*req.Labels)...)
	}
	if req.Assignees != nil {
		p.assignees = append([]string{}, (*req.Assignees)...)
	}
	writeJSON(w, http.StatusOK, s.issuePayload(p))
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookupPull(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p.comments)
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var req github.IssueComment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Problems parsing JSON")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookupPull(w, r)
	if !ok {
		return
	}
	if req.GetBody() == "" {
		writeError(w, http.StatusUnprocessableEntity, "Validation Failed")
		return
	}

	comment := &github.IssueComment{
		ID:        github.Int64(int64(len(p.comments) + 1)),
		Body:      github.String(req.GetBody()),
		User:      &github.User{Login: github.String(s.login)},
		CreatedAt: &github.Timestamp{Time: s.now().UTC().Truncate(time.Second)},
	}
	p.comments = append(p.comments, comment)
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) getBranch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := r.PathValue("branch")
	sha, ok := s.branches[name]
	if !ok {
		writeError(w, http.StatusNotFound, "Branch not found")
		return
	}
	writeJSON(w, http.StatusOK, &github.Branch{
		Name:   github.String(name),
		Commit: &github.RepositoryCommit{SHA: github.String(sha)},
	})
}

func (s *Server) createRef(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Problems parsing JSON")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name, ok := strings.CutPrefix(req.Ref, "refs/heads/")
	if !ok || name == "" {
		writeError(w, http.StatusUnprocessableEntity, "Reference name is invalid")
		return
	}
	if _, exists := s.branches[name]; exists {
		writeError(w, http.StatusUnprocessableEntity, "Reference already exists")
		return
	}

	source := ""
	for b, sha := range s.branches {
		if sha == req.SHA {
			source = b
		}
	}
	if source == "" {
		writeError(w, http.StatusUnprocessableEntity, "Object does not exist")
		return
	}

	s.files[name] = make(map[string]string, len(s.files[source]))
	for p, c := range s.files[source] {
		s.files[name][p] = c
	}
	s.branches[name] = s.snapshotSHA(name)

	writeJSON(w, http.StatusCreated, &github.Reference{
		Ref: github.String(req.Ref),
		Object: &github.GitObject{
			Type: github.String("commit"),
			SHA:  github.String(s.branches[name]),
		},
	})
}

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	branch, dir, _ := strings.Cut(r.PathValue("spec"), ":")
	dir = strings.Trim(dir, "/")
	_, recursive := r.URL.Query()["recursive"]

	s.mu.Lock()
	defer s.mu.Unlock()

	files, ok := s.files[branch]
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	seen := make(map[string]bool)
	var entries []*github.TreeEntry
	for p, content := range files {
		rel, ok := strings.CutPrefix(p, prefix)
		if !ok {
			continue
		}
		if recursive {
			entries = append(entries, &github.TreeEntry{
				Path: github.String(rel),
				Type: github.String("blob"),
				SHA:  github.String(blobSHA(content)),
			})
			for d := path.Dir(rel); d != "."; d = path.Dir(d) {
				if !seen[d] {
					seen[d] = true
					entries = append(entries, &github.TreeEntry{Path: github.String(d), Type: github.String("tree")})
				}
			}
			continue
		}

		first, _, nested := strings.Cut(rel, "/")
		switch {
		case !nested:
			entries = append(entries, &github.TreeEntry{
				Path: github.String(rel),
				Type: github.String("blob"),
				SHA:  github.String(blobSHA(content)),
			})
		case !seen[first]:
			seen[first] = true
			entries = append(entries, &github.TreeEntry{Path: github.String(first), Type: github.String("tree")})
		}
	}

	if len(entries) == 0 {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].GetPath() < entries[j].GetPath() })

	writeJSON(w, http.StatusOK, &github.Tree{
		SHA:       github.String(s.branches[branch]),
		Entries:   entries,
		Truncated: github.Bool(false),
	})
}

func (s *Server) getContents(w http.ResponseWriter, r *http.Request) {
	p := r.PathValue("path")
	ref := r.URL.Query().Get("ref")

	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.files[ref][p]
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, &github.RepositoryContent{
		Type:     github.String("file"),
		Encoding: github.String("base64"),
		Name:     github.String(path.Base(p)),
		Path:     github.String(p),
		SHA:      github.String(blobSHA(content)),
		Content:  github.String(base64.StdEncoding.EncodeToString([]byte(content))),
	})
}

func (s *Server) putContents(w http.ResponseWriter, r *http.Request) {
	var req github.RepositoryContentFileOptions
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Problems parsing JSON")
		return
	}
	p := r.PathValue("path")

	s.mu.Lock()
	defer s.mu.Unlock()

	branch := req.GetBranch()
	files, ok := s.files[branch]
	if !ok {
		writeError(w, http.StatusNotFound, "Branch not found")
		return
	}

	status := http.StatusCreated
	if current, exists := files[p]; exists {
		if req.GetSHA() == "" {
			writeError(w, http.StatusUnprocessableEntity, `Invalid request. "sha" wasn't supplied.`)
			return
		}
		if req.GetSHA() != blobSHA(current) {
			writeError(w, http.StatusConflict, fmt.Sprintf("%s does not match %s", p, req.GetSHA()))
			return
		}
		status = http.StatusOK
	}

	content := string(req.Content)
	files[p] = content
	s.branches[branch] = s.snapshotSHA(branch)

	writeJSON(w, status, &github.RepositoryContentResponse{
		Content: &github.RepositoryContent{
			Type: github.String("file"),
			Name: github.String(path.Base(p)),
			Path: github.String(p),
			SHA:  github.String(blobSHA(content)),
		},
		Commit: github.Commit{
			SHA:     github.String(s.branches[branch]),
			Message: github.String(req.GetMessage()),
		},
	})
}

func (s *Server) getDiff(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(strings.TrimSuffix(r.PathValue("diff"), ".diff"))

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pulls[n]
	if err != nil || !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(p.diff))
}
