package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/glucowatch/glucowatch/internal/config"
)

// maxBodyBytes caps how much of a response body Poll will read. The latest
// reading document is a few hundred bytes; anything past this is a broken
// upstream.
const maxBodyBytes = 1 << 20

// NetworkError classes. All abort only the current cycle.
var (
	// ErrLinkDown means no candidate network could be joined; no request
	// was issued.
	ErrLinkDown = errors.New("fetch: link down")

	// ErrTimeout means a request attempt exceeded its bounded timeout.
	ErrTimeout = errors.New("fetch: request timed out")
)

// RequestError is a transport-level or non-2xx response failure.
type RequestError struct {
	StatusCode int // 0 for transport errors
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("fetch: request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Client performs fetch attempts against one configured endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	link     Link
}

// New builds a Client for the given source. The HTTP client is constructed
// once and reused across polls. link may be nil when no link management is
// configured (the probe/rejoin step is then skipped).
func New(src config.SourceConfig, link Link) *Client {
	transport := &authRoundTripper{
		base: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: src.TLS.InsecureSkipVerify, //nolint:gosec // user-configured
			},
		},
		auth: src.Auth,
	}
	return &Client{
		endpoint: src.Endpoint,
		http: &http.Client{
			Transport: transport,
			Timeout:   src.Timeout,
		},
		link: link,
	}
}

// Poll performs one acquisition attempt and returns the raw document bytes.
//
// If the link probe fails, re-establishment runs first; a dead link fails
// the poll with ErrLinkDown before any request goes out. There are no
// request retries here — the next scheduler tick is the retry.
func (c *Client) Poll(ctx context.Context) ([]byte, error) {
	if c.link != nil && !c.link.Up(ctx) {
		if err := c.link.Reestablish(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	return body, nil
}

// authRoundTripper injects authentication headers into every outgoing request.
type authRoundTripper struct {
	base http.RoundTripper
	auth config.AuthConfig
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	switch t.auth.Mode {
	case "apikey":
		req = req.Clone(req.Context())
		req.Header.Set(t.auth.Header, t.auth.Key())
	case "bearer":
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.auth.Token())
	case "basic":
		req = req.Clone(req.Context())
		req.SetBasicAuth(t.auth.Username, t.auth.Password())
	}
	return t.base.RoundTrip(req)
}
