// Package remote retrieves manifest and script resources from the fixed
// raw-content location that hosts the tool catalog.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the raw-content prefix every resource path is appended to.
	DefaultBaseURL = "https://raw.githubusercontent.com/decktools/decktools/main/"
	// DefaultTimeout bounds a single transfer.
	DefaultTimeout = 30 * time.Second
	// ManifestPath is the manifest location relative to the base URL.
	ManifestPath = "tools.yaml"
	// MaxBodySize caps a downloaded resource.
	MaxBodySize = 4 << 20
)

var (
	// ErrNetwork means the transfer did not complete.
	ErrNetwork = errors.New("network error")
	// ErrDecode means the body is not valid UTF-8 text.
	ErrDecode = errors.New("response is not valid UTF-8")
	// ErrNotFound means the remote resource does not exist.
	ErrNotFound = errors.New("resource not found")
)

// FetchError describes a failed retrieval. Kind is one of ErrNetwork,
// ErrDecode or ErrNotFound.
type FetchError struct {
	Kind error
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Client fetches text resources relative to a single base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-transfer timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient returns a client for baseURL. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL, always ending in "/".
func (c *Client) BaseURL() string { return c.baseURL }

// URL returns the absolute URL for a resource path.
func (c *Client) URL(path string) string {
	return c.baseURL + strings.TrimPrefix(path, "/")
}

// Fetch downloads the resource at path and returns its body as text.
// A single attempt is made.
func (c *Client) Fetch(ctx context.Context, path string) (string, error) {
	url := c.URL(path)
	log.Info().Str("url", url).Msgf("downloading %s", path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{Kind: ErrNetwork, URL: url, Err: err}
	}
	req.Header.Set("Accept", "text/plain, application/yaml, */*")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &FetchError{Kind: ErrNetwork, URL: url, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return "", &FetchError{Kind: ErrNotFound, URL: url}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", &FetchError{Kind: ErrNetwork, URL: url, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return "", &FetchError{Kind: ErrNetwork, URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}
	if len(body) > MaxBodySize {
		return "", &FetchError{Kind: ErrNetwork, URL: url, Err: fmt.Errorf("body exceeds %d bytes", MaxBodySize)}
	}
	if !utf8.Valid(body) {
		return "", &FetchError{Kind: ErrDecode, URL: url}
	}

	log.Debug().Str("url", url).Int("bytes", len(body)).Msg("download complete")
	return string(body), nil
}

// FetchManifest downloads the tool manifest.
func (c *Client) FetchManifest(ctx context.Context) (string, error) {
	return c.Fetch(ctx, ManifestPath)
}
