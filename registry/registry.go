package registry

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/docker/go-connections/tlsconfig"
)

// Registry defines the client for talking to the registry API.
type Registry struct {
	URL    string
	Domain string
	Client *http.Client
	Opt    Opt
}

var reProtocol = regexp.MustCompile("^https?://")
var debug = false

// Opt holds the options for a new registry.
type Opt struct {
	Domain     string
	CAFile     string
	CertFile   string
	KeyFile    string
	Passphrase string
	Insecure   bool
	Debug      bool
	NonSSL     bool
	Timeout    time.Duration
	Headers    map[string]string
}

// New creates a new Registry struct with the given endpoint.
func New(opt Opt) (*Registry, error) {
	if opt.Debug {
		debug = true
	}

	tlsClientConfig, err := tlsconfig.Client(
		tlsconfig.Options{
			CAFile:             opt.CAFile,
			CertFile:           opt.CertFile,
			KeyFile:            opt.KeyFile,
			Passphrase:         opt.Passphrase,
			InsecureSkipVerify: opt.Insecure,
		})
	if err != nil {
		return nil, err
	}
	transport := &http.Transport{
		TLSClientConfig: tlsClientConfig,
	}

	return newFromTransport(transport, opt), nil
}

func newFromTransport(transport http.RoundTripper, opt Opt) *Registry {
	url := strings.TrimSuffix(opt.Domain, "/")

	if !reProtocol.MatchString(url) {
		if !opt.NonSSL {
			url = "https://" + url
		} else {
			url = "http://" + url
		}
	}

	customTransport := &CustomTransport{
		Transport: transport,
		Headers:   opt.Headers,
	}

	return &Registry{
		URL:    url,
		Domain: reProtocol.ReplaceAllString(url, ""),
		Client: &http.Client{
			Timeout:   opt.Timeout,
			Transport: customTransport,
		},
		Opt: opt,
	}
}

// url returns a registry URL with the passed arguments concatenated.
func (r *Registry) url(pathTemplate string, args ...interface{}) string {
	pathSuffix := fmt.Sprintf(pathTemplate, args...)
	return fmt.Sprintf("%s%s", r.URL, pathSuffix)
}
