package http

import (
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Response is a fully buffered HTTP response.
type Response struct {
	StatusCode int
	Status     string
	Proto      string
	// Headers holds one pair per header value, names lower-cased and sorted.
	Headers  []Header
	Body     string
	Duration time.Duration
	Timing   Timing
	Request  *PreparedRequest
}

// Header returns the first value for key, matched case-insensitively.
func (r *Response) Header(key string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Key, key) {
			return h.Value
		}
	}
	return ""
}

// Values returns every value for key in order.
func (r *Response) Values(key string) []string {
	var out []string
	for _, h := range r.Headers {
		if strings.EqualFold(h.Key, key) {
			out = append(out, h.Value)
		}
	}
	return out
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

// IsJSON reports whether the content type is JSON, including +json types.
func (r *Response) IsJSON() bool {
	mt, _, err := mime.ParseMediaType(r.ContentType())
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// StatusText returns the reason phrase for the status code.
func (r *Response) StatusText() string {
	return http.StatusText(r.StatusCode)
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

// Size is the body length in bytes.
func (r *Response) Size() int {
	return len(r.Body)
}

// Select evaluates a gjson path against a JSON body.
func (r *Response) Select(path string) gjson.Result {
	return gjson.Get(r.Body, path)
}
