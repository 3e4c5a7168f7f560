package httpclient

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/go-resty/resty/v2"
)

// ErrContentEncoding marks a body that could not be decompressed.
var ErrContentEncoding = errors.New("decode content encoding")

// Response is the subset of an HTTP response the fetchers rely on.
type Response interface {
	StatusCode() int
	Body() []byte
	Header() http.Header
}

// Client issues single, non-retried HTTP requests.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	PostForm(ctx context.Context, url string, form, headers map[string]string) (Response, error)
	Do(ctx context.Context, method, url string, body []byte, headers map[string]string) (Response, error)
}

// Option tweaks the resty client at construction.
type Option func(*resty.Client)

// WithInsecureTLS disables certificate verification. Used for sites whose
// certificate chains are broken; fixed for the lifetime of the client.
func WithInsecureTLS() Option {
	return func(c *resty.Client) {
		c.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // broken public-sector chains
	}
}

type restyClient struct {
	rc *resty.Client
}

// NewRestyClient returns a resty backed Client with the given per-request timeout.
func NewRestyClient(timeout time.Duration, opts ...Option) Client {
	rc := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	for _, opt := range opts {
		if opt != nil {
			opt(rc)
		}
	}
	return &restyClient{rc: rc}
}

func (c *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil, headers)
}

func (c *restyClient) PostForm(ctx context.Context, url string, form, headers map[string]string) (Response, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetFormData(form).
		Post(url)
	if err != nil {
		return nil, err
	}
	return wrap(resp)
}

func (c *restyClient) Do(ctx context.Context, method, url string, body []byte, headers map[string]string) (Response, error) {
	req := c.rc.R().
		SetContext(ctx).
		SetHeaders(headers)
	if len(body) > 0 {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, err
	}
	return wrap(resp)
}

type response struct {
	status int
	body   []byte
	header http.Header
}

func (r *response) StatusCode() int     { return r.status }
func (r *response) Body() []byte        { return r.body }
func (r *response) Header() http.Header { return r.header }

// wrap copies the resty response and undoes any content encoding still in
// place. An explicit Accept-Encoding disables the transport's own handling;
// resty inflates gzip itself, brotli and deflate are left to us.
func wrap(resp *resty.Response) (Response, error) {
	body, err := decompress(resp.Header().Get("Content-Encoding"), resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrContentEncoding, resp.Header().Get("Content-Encoding"), err)
	}
	return &response{
		status: resp.StatusCode(),
		body:   body,
		header: resp.Header(),
	}, nil
}

func decompress(encoding string, body []byte) ([]byte, error) {
	if len(body) == 0 {
		return body, nil
	}

	var r io.Reader
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "br":
		r = brotli.NewReader(bytes.NewReader(body))
	case "gzip":
		if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
			return body, nil
		}
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case "deflate":
		return inflate(body)
	default:
		return body, nil
	}
	return io.ReadAll(r)
}

// inflate reads an HTTP deflate body. The zlib wrapper is what the RFC
// mandates; some servers send raw DEFLATE instead.
func inflate(body []byte) ([]byte, error) {
	if zr, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
		defer zr.Close()
		if out, err := io.ReadAll(zr); err == nil {
			return out, nil
		}
	}
	fr := flate.NewReader(bytes.NewReader(body))
	defer fr.Close()
	return io.ReadAll(fr)
}

// StaticResponse is a canned Response, handy for fakes.
func StaticResponse(status int, body []byte, header http.Header) Response {
	if header == nil {
		header = http.Header{}
	}
	return &response{status: status, body: body, header: header}
}
