package http

import (
	"strings"

	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

var supportedMethods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"PATCH":   true,
	"DELETE":  true,
	"HEAD":    true,
	"OPTIONS": true,
}

// PreparedRequest is a request ready to go on the wire.
type PreparedRequest struct {
	Method  string
	URL     string
	Headers []Header
	Body    string
	HasBody bool
}

// Header returns the first value for key, matched case-insensitively.
func (p *PreparedRequest) Header(key string) string {
	for _, h := range p.Headers {
		if strings.EqualFold(h.Key, key) {
			return h.Value
		}
	}
	return ""
}

// Prepare assembles method, URL, headers and body. Enabled model headers
// come first in document order, auth headers after them.
func Prepare(req *postman.Request) (*PreparedRequest, error) {
	if req == nil {
		return nil, ErrMissingURL
	}

	method := req.MethodOrDefault()
	if !supportedMethods[method] {
		return nil, unsupportedMethod(method)
	}

	url, err := BuildURL(req.URL)
	if err != nil {
		return nil, err
	}

	var headers []Header
	for _, h := range req.Header {
		if !h.IsEnabled() {
			continue
		}
		headers = append(headers, Header{Key: h.Key, Value: h.Value})
	}
	headers = ApplyAuth(req.Auth, headers)

	body, hasBody, err := BuildBody(req.Body)
	if err != nil {
		return nil, err
	}

	return &PreparedRequest{
		Method:  method,
		URL:     url,
		Headers: headers,
		Body:    body,
		HasBody: hasBody,
	}, nil
}
