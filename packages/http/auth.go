package http

import (
	"encoding/base64"

	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

// AuthType names a Postman auth scheme.
type AuthType string

const (
	AuthNone   AuthType = "noauth"
	AuthBearer AuthType = "bearer"
	AuthBasic  AuthType = "basic"
	AuthDigest AuthType = "digest"
	AuthAWSv4  AuthType = "awsv4"
	AuthHawk   AuthType = "hawk"
	AuthOAuth1 AuthType = "oauth1"
	AuthOAuth2 AuthType = "oauth2"
	AuthNTLM   AuthType = "ntlm"
)

// Header is one request or response header line.
type Header struct {
	Key   string
	Value string
}

var (
	usernameKeys = map[string]bool{"username": true, "Username": true, "user": true, "User": true}
	passwordKeys = map[string]bool{"password": true, "Password": true, "pass": true, "Pass": true}
)

// ApplyAuth returns headers with any auth-derived headers appended.
// Existing headers are never modified or removed. Schemes other than
// bearer and basic are recognised but add nothing.
func ApplyAuth(auth *postman.Auth, headers []Header) []Header {
	switch AuthType(auth.TypeOrDefault()) {
	case AuthBearer:
		for _, v := range auth.Bearer {
			if v.Key == "token" || v.Key == "Token" {
				headers = append(headers, Header{Key: "Authorization", Value: "Bearer " + v.Value})
			}
		}
	case AuthBasic:
		var user, pass string
		for _, v := range auth.Basic {
			switch {
			case usernameKeys[v.Key]:
				user = v.Value
			case passwordKeys[v.Key]:
				pass = v.Value
			}
		}
		if user != "" || pass != "" {
			creds := base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
			headers = append(headers, Header{Key: "Authorization", Value: "Basic " + creds})
		}
	}
	return headers
}
