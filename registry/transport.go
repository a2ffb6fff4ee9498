package registry

import "net/http"

// CustomTransport injects extra headers into every request.
type CustomTransport struct {
	Transport http.RoundTripper
	Headers   map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *CustomTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	for key, value := range t.Headers {
		request.Header.Set(key, value)
	}
	return t.Transport.RoundTrip(request)
}
