package registry

import (
	"context"
	"encoding/json"
	"io"
	"net/url"

	"github.com/peterhellberg/link"
)

type repositoryList struct {
	Repositories []string `json:"repositories"`
}

func (r *Registry) catalog(ctx context.Context, u string) ([]string, error) {
	if u == "" {
		u = "/v2/_catalog"
	}
	uri := r.url(u)

	resp, err := r.httpGet(ctx, uri, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := apiError(data); err != nil {
		return nil, err
	}

	var response repositoryList
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, &ParseError{URL: uri, Err: err}
	}

	for _, l := range link.ParseHeader(resp.Header) {
		if l.Rel == "next" {
			unescaped, _ := url.QueryUnescape(l.URI)
			repos, err := r.catalog(ctx, unescaped)
			if err != nil {
				return nil, err
			}
			response.Repositories = append(response.Repositories, repos...)
		}
	}

	return response.Repositories, nil
}

// Catalog returns the repositories in a registry. A missing or null
// repositories field means an empty catalog, not an error.
func (r *Registry) Catalog(ctx context.Context) ([]string, error) {
	return r.catalog(ctx, "")
}
