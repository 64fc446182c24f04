// Package transport issues authenticated calls to the hosting API.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/google/go-querystring/query"
	"github.com/lerenn/verba/pkg/logger"
	"github.com/lerenn/verba/pkg/metrics"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=client.go -destination=mocks/client.gen.go -package=mocks

const (
	// DefaultAPIHost is the host serving JSON endpoints.
	DefaultAPIHost = "https://api.github.com"
	// DefaultHTTPHost is the host serving raw assets such as diffs.
	DefaultHTTPHost = "https://github.com"

	mediaTypeJSON = "application/json"
	mediaTypeRaw  = "text/plain"
)

// Host selects which configured host resolves a relative path.
type Host int

const (
	// HostAPI serves structured JSON resources.
	HostAPI Host = iota
	// HostWeb serves raw assets.
	HostWeb
)

// Accept selects the expected body kind.
type Accept int

const (
	// AcceptJSON decodes the body as JSON.
	AcceptJSON Accept = iota
	// AcceptRaw copies the body verbatim.
	AcceptRaw
)

// Request describes one call to the hosting API.
type Request struct {
	Method string
	// Path is relative to the selected host, or an absolute URL used verbatim.
	Path string
	Host Host
	// Query is a struct with `url` tags or a url.Values.
	Query  any
	Body   any
	Accept Accept
}

// Response holds what callers need from a successful call.
type Response struct {
	StatusCode int
	// NextPage is zero on the last page.
	NextPage int
}

// Client performs calls against the hosting API.
type Client interface {
	// Do sends req and decodes the body into out: a JSON target for AcceptJSON,
	// an io.Writer for AcceptRaw, or nil to discard it.
	Do(ctx context.Context, req Request, out any) (*Response, error)
}

// NewClientParams contains parameters for NewClient.
type NewClientParams struct {
	Token      string
	APIHost    string
	HTTPHost   string
	HTTPClient *http.Client
	Logger     logger.Logger
	Metrics    *metrics.Metrics
}

type realClient struct {
	api     *github.Client
	web     *github.Client
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewClient creates a client authenticated with params.Token on both hosts.
func NewClient(params NewClientParams) (Client, error) {
	if params.APIHost == "" {
		params.APIHost = DefaultAPIHost
	}
	if params.HTTPHost == "" {
		params.HTTPHost = DefaultHTTPHost
	}

	l := params.Logger
	if l == nil {
		l = logger.NewNoopLogger()
	}

	api, err := newGitHubClient(params.HTTPClient, params.Token, params.APIHost)
	if err != nil {
		return nil, err
	}
	web, err := newGitHubClient(params.HTTPClient, params.Token, params.HTTPHost)
	if err != nil {
		return nil, err
	}

	return &realClient{
		api:     api,
		web:     web,
		logger:  l,
		metrics: params.Metrics,
	}, nil
}

func newGitHubClient(httpClient *http.Client, token, host string) (*github.Client, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host %q: %w", host, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid host %q: scheme and host are required", host)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	client := github.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	client.BaseURL = base
	return client, nil
}

// RepoPath builds the API path of a resource under the repository "org/name".
func RepoPath(repo, part string) string {
	if part == "" {
		return "repos/" + repo
	}
	return "repos/" + repo + "/" + strings.TrimPrefix(part, "/")
}

func (c *realClient) Do(ctx context.Context, req Request, out any) (*Response, error) {
	gh := c.api
	if req.Host == HostWeb {
		gh = c.web
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target, err := resolve(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	httpReq, err := gh.NewRequest(method, target, req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request %s %s: %w", method, target, err)
	}
	if req.Accept == AcceptRaw {
		httpReq.Header.Set("Accept", mediaTypeRaw)
	} else {
		httpReq.Header.Set("Accept", mediaTypeJSON)
	}
	fullURL := httpReq.URL.String()

	resp, err := gh.Do(ctx, httpReq, out)
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}
	c.metrics.ObserveUpstream(method, status)
	c.logger.Logf("%s %s -> %d", method, fullURL, status)

	if err != nil {
		if mapped := mapError(method, fullURL, status, err); mapped != nil {
			return nil, mapped
		}
	}

	return &Response{
		StatusCode: status,
		NextPage:   resp.NextPage,
	}, nil
}

// resolve merges the encoded query into path, keeping any query already present.
func resolve(path string, q any) (string, error) {
	if q == nil {
		return strings.TrimPrefix(path, "/"), nil
	}

	values, err := encodeQuery(q)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	merged := u.Query()
	for key, vals := range values {
		for _, v := range vals {
			merged.Add(key, v)
		}
	}
	u.RawQuery = merged.Encode()

	if u.IsAbs() {
		return u.String(), nil
	}
	return strings.TrimPrefix(u.String(), "/"), nil
}

func encodeQuery(q any) (url.Values, error) {
	if values, ok := q.(url.Values); ok {
		return values, nil
	}
	values, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	return values, nil
}

func mapError(method, fullURL string, status int, err error) error {
	var (
		rateErr   *github.RateLimitError
		abuseErr  *github.AbuseRateLimitError
		respErr   *github.ErrorResponse
		acceptErr *github.AcceptedError
	)

	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.As(err, &acceptErr):
		// 202: the upstream is still processing, the call itself succeeded.
		return nil
	case errors.As(err, &rateErr):
		e := NewResponseError(method, fullURL, status, Reason{Message: rateErr.Message})
		e.rateLimited = true
		return e
	case errors.As(err, &abuseErr):
		e := NewResponseError(method, fullURL, status, Reason{Message: abuseErr.Message})
		e.rateLimited = true
		return e
	case errors.As(err, &respErr):
		e := NewResponseError(method, fullURL, status, Reason{
			Message:          respErr.Message,
			DocumentationURL: respErr.DocumentationURL,
			Errors:           respErr.Errors,
		})
		e.rateLimited = status == http.StatusTooManyRequests
		return e
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		// Body could not be decoded.
		return fmt.Errorf("%w: %s %s: %w", ErrInvalidResponse, method, fullURL, err)
	case status != 0:
		return NewResponseError(method, fullURL, status, Reason{})
	default:
		return fmt.Errorf("%w: %s %s: %w", ErrUnreachable, method, fullURL, err)
	}
}
