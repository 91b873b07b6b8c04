package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

// BodyMode selects how a request body is serialized.
type BodyMode string

const (
	BodyRaw        BodyMode = "raw"
	BodyURLEncoded BodyMode = "urlencoded"
	BodyFormData   BodyMode = "formdata"
	BodyFile       BodyMode = "file"
	BodyGraphQL    BodyMode = "graphql"
)

// ParseBodyMode maps a mode string to a BodyMode. An absent mode is raw.
// ok is false for modes this package does not know.
func ParseBodyMode(mode *string) (BodyMode, bool) {
	if mode == nil {
		return BodyRaw, true
	}
	m := BodyMode(*mode)
	switch m {
	case BodyRaw, BodyURLEncoded, BodyFormData, BodyFile, BodyGraphQL:
		return m, true
	default:
		return m, false
	}
}

// BuildBody serializes b according to its mode. ok is false when no body
// should be sent. File bodies and unknown modes send nothing.
func BuildBody(b *postman.Body) (payload string, ok bool, err error) {
	if b == nil {
		return "", false, nil
	}

	mode, known := ParseBodyMode(b.Mode)
	if !known {
		return "", false, nil
	}

	switch mode {
	case BodyRaw:
		if b.Raw == nil {
			return "", false, nil
		}
		return *b.Raw, true, nil
	case BodyURLEncoded:
		return encodeForm(b.URLEncoded)
	case BodyFormData:
		// sent url-encoded, multipart is not supported
		return encodeForm(b.FormData)
	case BodyGraphQL:
		if b.GraphQL == nil {
			return "", false, nil
		}
		out, err := encodeGraphQL(b.GraphQL)
		if err != nil {
			return "", false, err
		}
		return out, true, nil
	default:
		return "", false, nil
	}
}

func encodeForm(params []postman.FormParam) (string, bool, error) {
	if params == nil {
		return "", false, nil
	}
	pairs := make([]string, 0, len(params))
	for _, p := range params {
		if !p.IsEnabled() || p.Value == nil {
			continue
		}
		pairs = append(pairs, encodePair(p.Key, *p.Value))
	}
	return strings.Join(pairs, "&"), true, nil
}

type graphQLPayload struct {
	Query     *string         `json:"query,omitempty"`
	Variables json.RawMessage `json:"variables,omitempty"`
}

func encodeGraphQL(g *postman.GraphQLBody) (string, error) {
	var p graphQLPayload
	p.Query = g.Query

	if g.Variables != nil {
		vars, err := normalizeJSON(*g.Variables)
		if err != nil {
			// not JSON, embed as a string
			vars, err = marshalJSON(*g.Variables)
			if err != nil {
				return "", fmt.Errorf("encoding graphql variables: %w", err)
			}
		}
		p.Variables = vars
	}

	out, err := marshalJSON(p)
	if err != nil {
		return "", fmt.Errorf("encoding graphql body: %w", err)
	}
	return string(out), nil
}

// normalizeJSON decodes a single JSON value and re-encodes it compactly
// with object keys sorted. Numbers keep their literal text.
func normalizeJSON(s string) (json.RawMessage, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON value")
	}

	return marshalJSON(v)
}

// marshalJSON encodes v compactly without HTML escaping.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
