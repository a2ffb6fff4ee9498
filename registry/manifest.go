package registry

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/distribution/distribution/manifest/schema2"
	digest "github.com/opencontainers/go-digest"
)

type manifestResponse struct {
	Config struct {
		Digest digest.Digest `json:"digest"`
	} `json:"config"`
}

// ConfigDigest resolves a (repository, reference) pair to the digest of the
// image config embedded in its v2 manifest.
func (r *Registry) ConfigDigest(ctx context.Context, repository string, ref string) (digest.Digest, error) {
	uri := r.url("/v2/%s/manifests/%s", repository, ref)
	headers := []*header{{"Accept", schema2.MediaTypeManifest}}

	resp, err := r.httpGet(ctx, uri, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if err := apiError(data); err != nil {
		return "", err
	}

	var m manifestResponse
	if err := json.Unmarshal(data, &m); err != nil {
		return "", &ParseError{URL: uri, Err: err}
	}
	if m.Config.Digest == "" {
		return "", &ParseError{URL: uri, Err: errors.New("manifest has no config digest")}
	}
	if err := m.Config.Digest.Validate(); err != nil {
		return "", &ParseError{URL: uri, Err: err}
	}

	return m.Config.Digest, nil
}
