package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/Muradian-OSP/Ababil-Studio/packages/http"
	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

// RequestResolver rewrites a request before it is executed, typically to
// substitute {{variables}}.
type RequestResolver interface {
	ResolveRequest(req *postman.Request) *postman.Request
}

// Bridge executes request documents with a shared client.
type Bridge struct {
	client   *http.Client
	resolver RequestResolver
}

type Option func(*Bridge)

// WithClient replaces the default client.
func WithClient(c *http.Client) Option {
	return func(b *Bridge) {
		b.client = c
	}
}

// WithResolver resolves variables in every request before it is sent.
func WithResolver(r RequestResolver) Option {
	return func(b *Bridge) {
		b.resolver = r
	}
}

func New(opts ...Option) *Bridge {
	b := &Bridge{}
	for _, opt := range opts {
		opt(b)
	}
	if b.client == nil {
		b.client = http.NewClient()
	}
	return b
}

// MakeHTTPRequest executes a JSON request document and returns a JSON
// response document. It returns nil when data is empty, not UTF-8 or not
// JSON. A JSON document that is not a valid request yields status_code 0
// with the decoding error in the body.
func (b *Bridge) MakeHTTPRequest(ctx context.Context, data []byte) []byte {
	if !usable(data) || !json.Valid(data) {
		return nil
	}

	req, err := decodeRequest(data)
	if err != nil {
		return encode(errorDocument("Error parsing request: " + err.Error()))
	}
	if b.resolver != nil {
		req = b.resolver.ResolveRequest(req)
	}

	resp, err := b.client.Execute(ctx, req)
	return encode(NewResponseDocument(resp, err))
}

func decodeRequest(data []byte) (*postman.Request, error) {
	if !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("expected a JSON object")
	}
	var req postman.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ParseCollection validates a collection and re-serializes it compactly.
func ParseCollection(data []byte) []byte {
	return transform(data, func(in []byte) ([]byte, error) {
		c, err := postman.ParseCollection(in)
		if err != nil {
			return nil, err
		}
		return c.JSON()
	})
}

// CollectionToJSON validates a collection and re-serializes it with
// indentation.
func CollectionToJSON(data []byte) []byte {
	return transform(data, func(in []byte) ([]byte, error) {
		c, err := postman.ParseCollection(in)
		if err != nil {
			return nil, err
		}
		return c.JSONIndent()
	})
}

// ParseEnvironment validates an environment and re-serializes it compactly.
func ParseEnvironment(data []byte) []byte {
	return transform(data, func(in []byte) ([]byte, error) {
		e, err := postman.ParseEnvironment(in)
		if err != nil {
			return nil, err
		}
		return e.JSON()
	})
}

// EnvironmentToJSON validates an environment and re-serializes it with
// indentation.
func EnvironmentToJSON(data []byte) []byte {
	return transform(data, func(in []byte) ([]byte, error) {
		e, err := postman.ParseEnvironment(in)
		if err != nil {
			return nil, err
		}
		return e.JSONIndent()
	})
}

type errorObject struct {
	Error string `json:"error"`
}

func transform(data []byte, fn func([]byte) ([]byte, error)) []byte {
	if data == nil || !utf8.Valid(data) {
		return nil
	}
	out, err := fn(data)
	if err != nil {
		return encode(errorObject{Error: err.Error()})
	}
	return out
}

func usable(data []byte) bool {
	return len(data) > 0 && utf8.Valid(data)
}

func encode(v any) []byte {
	out, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return out
}
