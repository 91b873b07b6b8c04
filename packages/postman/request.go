package postman

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Request describes a single HTTP call.
type Request struct {
	Method      *string  `json:"method,omitempty"`
	Header      []Header `json:"header,omitzero"`
	Body        *Body    `json:"body,omitempty"`
	URL         *URL     `json:"url,omitempty"`
	Description *string  `json:"description,omitempty"`
	Auth        *Auth    `json:"auth,omitempty"`
}

// MethodOrDefault returns the upper-cased method, or GET when none is set.
func (r *Request) MethodOrDefault() string {
	if r == nil || r.Method == nil || *r.Method == "" {
		return "GET"
	}
	return strings.ToUpper(*r.Method)
}

// URL is either a raw string or a set of structured parts. A non-empty
// Raw always wins over the structured parts.
type URL struct {
	Raw      *string      `json:"raw,omitempty"`
	Protocol *string      `json:"protocol,omitempty"`
	Host     []string     `json:"host,omitzero"`
	Path     []string     `json:"path,omitzero"`
	Query    []QueryParam `json:"query,omitzero"`
	Variable []Variable   `json:"variable,omitzero"`

	// fromString marks a URL decoded from the bare string form.
	fromString bool
}

// UnmarshalJSON accepts the object form and the bare string form that
// Postman v2.1 allows for request URLs.
func (u *URL) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*u = URL{Raw: &raw, fromString: true}
		return nil
	}

	type plain URL
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = URL(p)
	return nil
}

// MarshalJSON writes a URL that arrived as a bare string back as a string,
// unless structured parts were added since.
func (u URL) MarshalJSON() ([]byte, error) {
	if u.fromString && u.Protocol == nil && u.Host == nil && u.Path == nil && u.Query == nil && u.Variable == nil {
		return json.Marshal(Deref(u.Raw))
	}
	type plain URL
	return json.Marshal(plain(u))
}

// QueryParam is one query string parameter. A param without a value is
// never encoded.
type QueryParam struct {
	Key         string  `json:"key"`
	Value       *string `json:"value,omitempty"`
	Disabled    *bool   `json:"disabled,omitempty"`
	Description *string `json:"description,omitempty"`
}

// IsEnabled reports whether the param should be sent.
func (q QueryParam) IsEnabled() bool {
	return !isTrue(q.Disabled)
}

// Header is a request or response header.
type Header struct {
	Key         string  `json:"key"`
	Value       string  `json:"value"`
	Disabled    *bool   `json:"disabled,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UnmarshalJSON rejects a null or missing value.
func (h *Header) UnmarshalJSON(data []byte) error {
	type plain Header
	var p struct {
		plain
		Value *string `json:"value"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Value == nil {
		return fmt.Errorf("header %q: value must be a string", p.Key)
	}
	*h = Header(p.plain)
	h.Value = *p.Value
	return nil
}

// IsEnabled reports whether the header should be sent.
func (h Header) IsEnabled() bool {
	return !isTrue(h.Disabled)
}

// Body is a mode-tagged request payload. Only the member selected by
// Mode is read.
type Body struct {
	Mode       *string      `json:"mode,omitempty"`
	Raw        *string      `json:"raw,omitempty"`
	URLEncoded []FormParam  `json:"urlencoded,omitzero"`
	FormData   []FormParam  `json:"formdata,omitzero"`
	File       *FileBody    `json:"file,omitempty"`
	GraphQL    *GraphQLBody `json:"graphql,omitempty"`
}

// FormParam is one urlencoded or formdata item.
type FormParam struct {
	Key         string  `json:"key"`
	Value       *string `json:"value,omitempty"`
	Type        *string `json:"type,omitempty"`
	Disabled    *bool   `json:"disabled,omitempty"`
	Description *string `json:"description,omitempty"`
}

// IsEnabled reports whether the item should be sent.
func (f FormParam) IsEnabled() bool {
	return !isTrue(f.Disabled)
}

type FileBody struct {
	Src *string `json:"src,omitempty"`
}

type GraphQLBody struct {
	Query     *string `json:"query,omitempty"`
	Variables *string `json:"variables,omitempty"`
}

// Auth selects one authentication scheme by Type. Each scheme carries an
// unordered list of variables.
type Auth struct {
	Type   *string    `json:"type,omitempty"`
	Bearer []Variable `json:"bearer,omitzero"`
	Basic  []Variable `json:"basic,omitzero"`
	Digest []Variable `json:"digest,omitzero"`
	AWSv4  []Variable `json:"awsv4,omitzero"`
	Hawk   []Variable `json:"hawk,omitzero"`
	NoAuth any        `json:"noauth,omitempty"`
	OAuth1 []Variable `json:"oauth1,omitzero"`
	OAuth2 []Variable `json:"oauth2,omitzero"`
	NTLM   []Variable `json:"ntlm,omitzero"`
}

// TypeOrDefault returns the auth type, "noauth" when unset.
func (a *Auth) TypeOrDefault() string {
	if a == nil || a.Type == nil || *a.Type == "" {
		return "noauth"
	}
	return *a.Type
}

// Event attaches a script to a lifecycle hook. Scripts are carried but
// never executed.
type Event struct {
	Listen *string `json:"listen,omitempty"`
	Script *Script `json:"script,omitempty"`
}

type Script struct {
	Type *string  `json:"type,omitempty"`
	Exec []string `json:"exec,omitzero"`
	Src  *URL     `json:"src,omitempty"`
}
