package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

const (
	// DefaultTimeout bounds a whole exchange. Zero disables it.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// LogFunc receives verbose wire logging.
type LogFunc func(format string, args ...any)

// Client executes Postman requests. It is safe for concurrent use; every
// Execute call is independent apart from the shared connection pool.
type Client struct {
	httpClient     *http.Client
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	validateSSL    bool
	proxyURL       string
	userAgent      string
	logf           LogFunc
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout:        DefaultTimeout,
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		validateSSL:    true,
	}

	for _, opt := range opts {
		opt(c)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	if !c.validateSSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if c.proxyURL != "" {
		if proxyURL, err := neturl.Parse(c.proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		} else {
			c.log("ignoring invalid proxy %q: %v", c.proxyURL, err)
		}
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !c.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= c.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	c.httpClient = &http.Client{
		Transport:     transport,
		Timeout:       c.timeout,
		CheckRedirect: redirectPolicy,
	}

	return c
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// WithUserAgent sets User-Agent on requests that do not carry one.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func WithLogger(fn LogFunc) ClientOption {
	return func(c *Client) {
		c.logf = fn
	}
}

func (c *Client) log(format string, args ...any) {
	if c.logf != nil {
		c.logf(format, args...)
	}
}

// Execute assembles req, sends it and buffers the response. The duration
// is measured from the start of assembly. Every failure is returned as an
// *ExecError carrying the elapsed time; network failures wrap a
// *TransportError.
func (c *Client) Execute(ctx context.Context, req *postman.Request) (*Response, error) {
	start := time.Now()

	prepared, err := Prepare(req)
	if err != nil {
		return nil, &ExecError{Err: err, Duration: time.Since(start)}
	}

	resp, err := c.do(ctx, prepared)
	if err != nil {
		return nil, &ExecError{Err: err, Duration: time.Since(start), Request: prepared}
	}
	resp.Duration = time.Since(start)
	return resp, nil
}

// Do sends an already prepared request. Duration covers the network
// exchange only.
func (c *Client) Do(ctx context.Context, prepared *PreparedRequest) (*Response, error) {
	start := time.Now()
	resp, err := c.do(ctx, prepared)
	if err != nil {
		return nil, &ExecError{Err: err, Duration: time.Since(start), Request: prepared}
	}
	resp.Duration = time.Since(start)
	return resp, nil
}

func (c *Client) do(ctx context.Context, prepared *PreparedRequest) (*Response, error) {
	var body io.Reader
	if prepared.HasBody {
		body = strings.NewReader(prepared.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, prepared.Method, prepared.URL, body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("building request: %w", err)}
	}

	for _, h := range prepared.Headers {
		if strings.EqualFold(h.Key, "Host") {
			httpReq.Host = h.Value
			continue
		}
		httpReq.Header.Add(h.Key, h.Value)
	}
	if c.userAgent != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	tracer := newTimingTracer()
	httpReq = httpReq.WithContext(tracer.context(ctx))

	c.log("> %s %s", prepared.Method, prepared.URL)
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log("! %s %s: %v", prepared.Method, prepared.URL, err)
		return nil, &TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("reading response body: %w", err)}
	}
	if !utf8.Valid(respBody) {
		return nil, &TransportError{Err: ErrNonUTF8Body}
	}
	timing := tracer.finish()
	c.log("< %d %s (%d bytes, %s)", httpResp.StatusCode, prepared.URL, len(respBody), timing.Total)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Proto:      httpResp.Proto,
		Headers:    responseHeaders(httpResp.Header),
		Body:       string(respBody),
		Timing:     timing,
		Request:    prepared,
	}, nil
}

// responseHeaders flattens h into one pair per value. Names are lower-cased
// and sorted; values that are not valid UTF-8 become empty.
func responseHeaders(h http.Header) []Header {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})

	out := make([]Header, 0, len(keys))
	for _, k := range keys {
		name := strings.ToLower(k)
		for _, v := range h[k] {
			if !utf8.ValidString(v) {
				v = ""
			}
			out = append(out, Header{Key: name, Value: v})
		}
	}
	return out
}
