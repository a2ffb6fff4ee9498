package registry

import (
	"context"
	"net/http"
)

type header struct {
	key   string
	value string
}

func (r *Registry) httpGet(ctx context.Context, url string, headers []*header) (*http.Response, error) {
	return r.httpMethod(ctx, url, headers, http.MethodGet)
}

func (r *Registry) httpDelete(ctx context.Context, url string, headers []*header) (*http.Response, error) {
	return r.httpMethod(ctx, url, headers, http.MethodDelete)
}

func (r *Registry) httpMethod(ctx context.Context, url string, headers []*header, method string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	for _, h := range headers {
		req.Header.Add(h.key, h.value)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	dump(resp)

	if resp.StatusCode/100 != 2 {
		resp.Body.Close()
		return nil, &StatusError{URL: url, Code: resp.StatusCode, Status: resp.Status}
	}

	return resp, nil
}
