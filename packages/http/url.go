package http

import (
	"strings"

	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

const defaultProtocol = "http"

// BuildURL produces the request URL. A non-empty raw value is returned
// verbatim; otherwise the URL is assembled from protocol, host labels,
// path segments and enabled query params.
func BuildURL(u *postman.URL) (string, error) {
	if u == nil {
		return "", ErrMissingURL
	}
	if raw := postman.Deref(u.Raw); raw != "" {
		return raw, nil
	}
	if u.Host == nil {
		return "", ErrMissingHost
	}

	var sb strings.Builder
	protocol := defaultProtocol
	if u.Protocol != nil {
		protocol = *u.Protocol
	}
	sb.WriteString(protocol)
	sb.WriteString("://")
	sb.WriteString(strings.Join(u.Host, "."))

	if path := strings.Join(u.Path, "/"); path != "" {
		sb.WriteByte('/')
		sb.WriteString(path)
	}

	var pairs []string
	for _, q := range u.Query {
		if !q.IsEnabled() || q.Value == nil {
			continue
		}
		pairs = append(pairs, encodePair(q.Key, *q.Value))
	}
	if len(pairs) > 0 {
		sb.WriteByte('?')
		sb.WriteString(strings.Join(pairs, "&"))
	}

	return sb.String(), nil
}

// PercentEncode form-encodes s. Unreserved characters (A-Z a-z 0-9 - _ . ~)
// are kept, space becomes '+', and every other byte of the UTF-8 encoding
// becomes %XX with upper-case hex.
func PercentEncode(s string) string {
	const hex = "0123456789ABCDEF"

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isUnreserved(c):
			sb.WriteByte(c)
		case c == ' ':
			sb.WriteByte('+')
		default:
			sb.WriteByte('%')
			sb.WriteByte(hex[c>>4])
			sb.WriteByte(hex[c&0x0f])
		}
	}
	return sb.String()
}

func isUnreserved(c byte) bool {
	return 'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		'0' <= c && c <= '9' ||
		c == '-' || c == '_' || c == '.' || c == '~'
}

func encodePair(key, value string) string {
	return PercentEncode(key) + "=" + PercentEncode(value)
}
