package registry

import (
	"context"
	"encoding/json"
	"io"
	"time"

	digest "github.com/opencontainers/go-digest"
)

type imageConfig struct {
	Created string `json:"created"`
}

// Created fetches the config blob for a digest and returns the image
// creation time recorded in it.
func (r *Registry) Created(ctx context.Context, repository string, dgst digest.Digest) (time.Time, error) {
	uri := r.url("/v2/%s/blobs/%s", repository, dgst)

	resp, err := r.httpGet(ctx, uri, nil)
	if err != nil {
		return time.Time{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return time.Time{}, err
	}
	if err := apiError(data); err != nil {
		return time.Time{}, err
	}

	var image imageConfig
	if err := json.Unmarshal(data, &image); err != nil {
		return time.Time{}, &ParseError{URL: uri, Err: err}
	}

	created, err := time.Parse(time.RFC3339Nano, image.Created)
	if err != nil {
		return time.Time{}, &ParseError{URL: uri, Err: err}
	}

	return created, nil
}
