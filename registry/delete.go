package registry

import (
	"context"

	digest "github.com/opencontainers/go-digest"
)

// Delete removes a manifest digest from a repository.
// https://docs.docker.com/registry/spec/api/#deleting-an-image
func (r *Registry) Delete(ctx context.Context, repository string, dgst digest.Digest) error {
	uri := r.url("/v2/%s/manifests/%s", repository, dgst)

	resp, err := r.httpDelete(ctx, uri, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()

	return nil
}
