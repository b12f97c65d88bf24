package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
)

// maxRedirects bounds manual redirect following during Open, avoiding an
// infinite loop on a misbehaving or cyclical server.
const maxRedirects = 10

// Remote is a Source backed by an HTTP(S) URL that supports byte-range
// requests.
//
// Redirects are resolved once, at construction time, by following 3xx
// responses to HEAD requests. Range support is verified by checking
// Accept-Ranges on the final HEAD response or, failing that, by issuing a
// bytes=0-0 probe request.
type Remote struct {
	url     string
	client  *http.Client
	headers http.Header
	size    int64
	logger  *slog.Logger
}

// RemoteOption configures a Remote source.
type RemoteOption func(*remoteConfig)

type remoteConfig struct {
	client  *http.Client
	headers http.Header
	logger  *slog.Logger
}

// WithHTTPClient sets the HTTP client used for requests. The client's
// CheckRedirect is overridden so Remote can follow redirects manually.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(c *remoteConfig) {
		c.client = client
	}
}

// WithHeaders sets additional headers sent on every request (for example
// Authorization).
func WithHeaders(headers http.Header) RemoteOption {
	return func(c *remoteConfig) {
		if headers == nil {
			return
		}
		c.headers = headers.Clone()
	}
}

// WithLogger sets the logger used for diagnostic messages. The default is
// a discard logger.
func WithLogger(logger *slog.Logger) RemoteOption {
	return func(c *remoteConfig) {
		c.logger = logger
	}
}

// NewRemote opens a Remote source against rawURL: it resolves redirects,
// verifies range support, and records the content length. It performs
// network I/O and therefore accepts a context for cancellation.
func NewRemote(ctx context.Context, rawURL string, opts ...RemoteOption) (*Remote, error) {
	cfg := remoteConfig{client: http.DefaultClient}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.client == nil {
		cfg.client = http.DefaultClient
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}

	client := *cfg.client
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	r := &Remote{url: rawURL, client: &client, headers: cfg.headers, logger: logger}

	finalURL, err := r.resolveRedirects(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", rawURL, err)
	}
	r.url = finalURL

	size, err := r.probeRangeSupport(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", finalURL, err)
	}
	r.size = size
	logger.Debug("remote source opened", "url", finalURL, "size", size)
	return r, nil
}

// resolveRedirects follows 3xx HEAD responses to their Location, resolving
// relative locations against the current URL, and returns the URL of the
// first non-redirect response.
func (r *Remote) resolveRedirects(ctx context.Context, rawURL string) (string, error) {
	current := rawURL
	for i := 0; i < maxRedirects; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, current, nil)
		if err != nil {
			return "", fmt.Errorf("%w: invalid URL %q: %v", ErrUnavailable, current, err)
		}
		r.applyHeaders(req)

		resp, err := r.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("%w: HEAD %s: %v", ErrUnavailable, current, err)
		}
		resp.Body.Close()

		if resp.StatusCode < 300 || resp.StatusCode >= 400 {
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return "", fmt.Errorf("%w: HEAD %s: status %s", ErrUnavailable, current, resp.Status)
			}
			return current, nil
		}

		loc := resp.Header.Get("Location")
		if loc == "" {
			return "", fmt.Errorf("%w: redirect from %s without Location", ErrUnavailable, current)
		}
		next, err := resolveLocation(current, loc)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		r.logger.Debug("following redirect", "from", current, "to", next)
		current = next
	}
	return "", fmt.Errorf("%w: too many redirects starting at %s", ErrUnavailable, rawURL)
}

func resolveLocation(base, location string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base URL %q: %w", base, err)
	}
	locURL, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parsing redirect Location %q: %w", location, err)
	}
	return baseURL.ResolveReference(locURL).String(), nil
}

// probeRangeSupport verifies the final URL supports byte-range requests and
// returns its total content length.
func (r *Remote) probeRangeSupport(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, r.url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid URL %q: %v", ErrUnavailable, r.url, err)
	}
	r.applyHeaders(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: HEAD %s: %v", ErrUnavailable, r.url, err)
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: HEAD %s: status %s", ErrUnavailable, r.url, resp.Status)
	}

	if ar := resp.Header.Get("Accept-Ranges"); ar != "" && ar != "none" {
		size, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: HEAD %s: missing or invalid Content-Length", ErrUnavailable, r.url)
		}
		return size, nil
	}

	// No Accept-Ranges header: probe with a single-byte range request.
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid URL %q: %v", ErrUnavailable, r.url, err)
	}
	r.applyHeaders(req)
	req.Header.Set("Range", "bytes=0-0")

	resp, err = r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: GET %s: %v", ErrUnavailable, r.url, err)
	}
	defer drainAndClose(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: range probe of %s: status %s", ErrUnavailable, r.url, resp.Status)
	}

	size, err := contentRangeSize(resp.Header.Get("Content-Range"))
	if err == nil {
		return size, nil
	}
	size, err = strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: range probe of %s: could not determine size", ErrUnavailable, r.url)
	}
	return size, nil
}

// Len implements Source.
func (r *Remote) Len() int64 {
	return r.size
}

// ReadRange implements Source.
func (r *Remote) ReadRange(ctx context.Context, offset, length int64) ([]byte, error) {
	body, err := r.get(ctx, offset, length)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(body)

	buf := make([]byte, length)
	n, err := io.ReadFull(body, buf)
	if err != nil {
		return nil, fmt.Errorf("reading range [%d,%d) of %s: got %d bytes: %w", offset, offset+length, r.url, n, ErrShortRead)
	}
	return buf, nil
}

// ReadRangeStream implements Source.
func (r *Remote) ReadRangeStream(ctx context.Context, offset, length int64) (io.ReadCloser, error) {
	body, err := r.get(ctx, offset, length)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// get issues the ranged GET and returns a body whose Close drains the
// underlying connection for reuse.
func (r *Remote) get(ctx context.Context, offset, length int64) (io.ReadCloser, error) {
	if length == 0 {
		return io.NopCloser(http.NoBody), nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("range request [%d,%d) of %s: %w", offset, offset+length, r.url, err)
	}
	r.applyHeaders(req)
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", offset, offset+length-1))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("range request [%d,%d) of %s: %w", offset, offset+length, r.url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		drainAndClose(resp.Body)
		return nil, fmt.Errorf("range request [%d,%d) of %s: status %s", offset, offset+length, r.url, resp.Status)
	}
	return &drainingBody{ReadCloser: resp.Body}, nil
}

func (r *Remote) applyHeaders(req *http.Request) {
	for key, values := range r.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
}

// drainingBody drains the response body on Close so the underlying
// connection can be reused by the transport.
type drainingBody struct {
	io.ReadCloser
}

func (b *drainingBody) Close() error {
	_, _ = io.Copy(io.Discard, b.ReadCloser)
	return b.ReadCloser.Close()
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

// contentRangeSize parses "bytes start-end/size" and returns size.
func contentRangeSize(value string) (int64, error) {
	var start, end, size int64
	n, err := fmt.Sscanf(value, "bytes %d-%d/%d", &start, &end, &size)
	if err != nil || n != 3 {
		return 0, fmt.Errorf("invalid Content-Range %q", value)
	}
	return size, nil
}
