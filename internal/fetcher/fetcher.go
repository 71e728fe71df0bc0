package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brogergvhs/mangagrab/internal/ui"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseTimeout = 5 * time.Second

// Options is fixed at construction and never mutated afterwards.
type Options struct {
	UserAgent   string
	Headers     map[string]string
	BaseTimeout time.Duration
}

// NetworkError covers every transport-level failure: DNS, connect, TLS,
// timeout, truncated or undecodable body. HTTP status codes are not errors.
type NetworkError struct {
	URL     string
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type Fetcher struct {
	client      *resty.Client
	baseTimeout time.Duration
}

// New wraps hc in a resty client. log may be nil, in which case resty keeps
// its own logger.
func New(hc *http.Client, opts Options, log *ui.Logger) *Fetcher {
	c := resty.NewWithClient(hc).
		SetRetryCount(0).
		SetHeader("Accept-Encoding", "gzip, deflate, br").
		SetHeader("Accept", "text/html,application/xhtml+xml,image/avif,image/webp,image/*,*/*;q=0.8")

	if opts.UserAgent != "" {
		c.SetHeader("User-Agent", opts.UserAgent)
	}
	for k, v := range opts.Headers {
		c.SetHeader(k, v)
	}
	if log != nil {
		c.SetLogger(log)
	}

	base := opts.BaseTimeout
	if base <= 0 {
		base = DefaultBaseTimeout
	}

	return &Fetcher{client: c, baseTimeout: base}
}

func (f *Fetcher) BaseTimeout() time.Duration {
	return f.baseTimeout
}

// Fetch performs a single GET bounded by timeout, falling back to the base
// timeout when timeout is not positive. The body is returned decoded.
func (f *Fetcher) Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = f.baseTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, &NetworkError{URL: url, Message: err.Error(), Err: err}
	}

	body := resp.RawBody()
	defer func() {
		_ = body.Close()
	}()

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, &NetworkError{URL: url, Message: "read body: " + err.Error(), Err: err}
	}

	data, err := decodeBody(raw, resp.Header().Get("Content-Encoding"))
	if err != nil {
		return nil, &NetworkError{URL: url, Message: "decode body: " + err.Error(), Err: err}
	}

	return data, nil
}
