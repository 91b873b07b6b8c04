package env

import (
	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

// ResolveRequest returns a copy of req with placeholders resolved in every
// user supplied string: URL parts, headers, body content and auth values.
// req itself is not modified.
func (r *Resolver) ResolveRequest(req *postman.Request) *postman.Request {
	if req == nil {
		return nil
	}

	out := &postman.Request{
		Method:      r.resolvePtr(req.Method),
		Description: req.Description,
		URL:         r.resolveURL(req.URL),
		Body:        r.resolveBody(req.Body),
		Auth:        r.ResolveAuth(req.Auth),
	}
	if req.Header != nil {
		out.Header = make([]postman.Header, len(req.Header))
		for i, h := range req.Header {
			h.Key = r.Resolve(h.Key)
			h.Value = r.Resolve(h.Value)
			out.Header[i] = h
		}
	}
	return out
}

// ResolveAuth returns a copy of auth with every variable value resolved.
func (r *Resolver) ResolveAuth(auth *postman.Auth) *postman.Auth {
	if auth == nil {
		return nil
	}
	out := *auth
	out.Bearer = r.resolveVariables(auth.Bearer)
	out.Basic = r.resolveVariables(auth.Basic)
	out.Digest = r.resolveVariables(auth.Digest)
	out.AWSv4 = r.resolveVariables(auth.AWSv4)
	out.Hawk = r.resolveVariables(auth.Hawk)
	out.OAuth1 = r.resolveVariables(auth.OAuth1)
	out.OAuth2 = r.resolveVariables(auth.OAuth2)
	out.NTLM = r.resolveVariables(auth.NTLM)
	return &out
}

func (r *Resolver) resolveURL(u *postman.URL) *postman.URL {
	if u == nil {
		return nil
	}
	out := &postman.URL{
		Raw:      r.resolvePtr(u.Raw),
		Protocol: r.resolvePtr(u.Protocol),
		Host:     r.resolveStrings(u.Host),
		Path:     r.resolveStrings(u.Path),
		Variable: u.Variable,
	}
	if u.Query != nil {
		out.Query = make([]postman.QueryParam, len(u.Query))
		for i, q := range u.Query {
			q.Key = r.Resolve(q.Key)
			q.Value = r.resolvePtr(q.Value)
			out.Query[i] = q
		}
	}
	return out
}

func (r *Resolver) resolveBody(b *postman.Body) *postman.Body {
	if b == nil {
		return nil
	}
	out := &postman.Body{
		Mode:       b.Mode,
		Raw:        r.resolvePtr(b.Raw),
		URLEncoded: r.resolveForm(b.URLEncoded),
		FormData:   r.resolveForm(b.FormData),
		File:       b.File,
	}
	if b.GraphQL != nil {
		out.GraphQL = &postman.GraphQLBody{
			Query:     r.resolvePtr(b.GraphQL.Query),
			Variables: r.resolvePtr(b.GraphQL.Variables),
		}
	}
	return out
}

func (r *Resolver) resolveForm(params []postman.FormParam) []postman.FormParam {
	if params == nil {
		return nil
	}
	out := make([]postman.FormParam, len(params))
	for i, p := range params {
		p.Key = r.Resolve(p.Key)
		p.Value = r.resolvePtr(p.Value)
		out[i] = p
	}
	return out
}

func (r *Resolver) resolveVariables(vars []postman.Variable) []postman.Variable {
	if vars == nil {
		return nil
	}
	out := make([]postman.Variable, len(vars))
	for i, v := range vars {
		v.Value = r.Resolve(v.Value)
		out[i] = v
	}
	return out
}

func (r *Resolver) resolveStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = r.Resolve(s)
	}
	return out
}

func (r *Resolver) resolvePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := r.Resolve(*s)
	return &v
}
