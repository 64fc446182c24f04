package forge

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/lerenn/verba/pkg/transport"
)

// perPage is the page size requested on list endpoints.
const perPage = 100

// paginate follows NextPage until the last page. query builds the query of one page.
func paginate[T any](ctx context.Context, c transport.Client, path string, query func(page int) any) ([]T, error) {
	var all []T
	page := 1
	for {
		var batch []T
		resp, err := c.Do(ctx, transport.Request{
			Method: http.MethodGet,
			Path:   path,
			Query:  query(page),
		}, &batch)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)

		if resp == nil || resp.NextPage == 0 || resp.NextPage <= page {
			return all, nil
		}
		page = resp.NextPage
	}
}

// escapePath escapes each segment of a slash separated path.
func escapePath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
