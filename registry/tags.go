package registry

import (
	"context"
	"encoding/json"
	"io"
	"net/url"

	"github.com/peterhellberg/link"
)

type tagList struct {
	Tags []string `json:"tags"`
}

func (r *Registry) tags(ctx context.Context, u string, repository string) ([]string, error) {
	var uri string
	if u == "" {
		uri = r.url("/v2/%s/tags/list", repository)
	} else {
		uri = r.url(u)
	}

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

	var response tagList
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, &ParseError{URL: uri, Err: err}
	}

	for _, l := range link.ParseHeader(resp.Header) {
		if l.Rel == "next" {
			unescaped, _ := url.QueryUnescape(l.URI)
			tags, err := r.tags(ctx, unescaped, repository)
			if err != nil {
				return nil, err
			}
			response.Tags = append(response.Tags, tags...)
		}
	}

	return response.Tags, nil
}

// Tags returns the tags for a specific repository. A missing or null tags
// field means no tags, not an error.
func (r *Registry) Tags(ctx context.Context, repository string) ([]string, error) {
	return r.tags(ctx, "", repository)
}
