package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

func TestPrepare(t *testing.T) {
	req := &postman.Request{
		Method: postman.String("post"),
		Header: []postman.Header{
			{Key: "Content-Type", Value: "application/json"},
			{Key: "X-Off", Value: "1", Disabled: postman.Bool(true)},
			{Key: "X-Dup", Value: "a"},
			{Key: "X-Dup", Value: "b"},
		},
		URL: &postman.URL{Raw: postman.String("http://example.com/pets")},
		Body: &postman.Body{
			Mode: postman.String("raw"),
			Raw:  postman.String(`{"name":"rex"}`),
		},
		Auth: &postman.Auth{
			Type:   postman.String("bearer"),
			Bearer: []postman.Variable{{Key: "token", Value: "t0k"}},
		},
	}

	p, err := Prepare(req)
	require.NoError(t, err)

	assert.Equal(t, "POST", p.Method)
	assert.Equal(t, "http://example.com/pets", p.URL)
	assert.Equal(t, []Header{
		{Key: "Content-Type", Value: "application/json"},
		{Key: "X-Dup", Value: "a"},
		{Key: "X-Dup", Value: "b"},
		{Key: "Authorization", Value: "Bearer t0k"},
	}, p.Headers)
	assert.True(t, p.HasBody)
	assert.Equal(t, `{"name":"rex"}`, p.Body)
	assert.Equal(t, "application/json", p.Header("content-type"))
	assert.Empty(t, p.Header("X-Off"))
}

func TestPrepare_DefaultMethod(t *testing.T) {
	p, err := Prepare(&postman.Request{URL: &postman.URL{Raw: postman.String("http://h")}})
	require.NoError(t, err)
	assert.Equal(t, "GET", p.Method)
	assert.False(t, p.HasBody)
	assert.Empty(t, p.Headers)
}

func TestPrepare_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *postman.Request
		wantErr error
	}{
		{"nil request", nil, ErrMissingURL},
		{"missing url", &postman.Request{}, ErrMissingURL},
		{"missing host", &postman.Request{URL: &postman.URL{Path: []string{"x"}}}, ErrMissingHost},
		{
			"unsupported method",
			&postman.Request{Method: postman.String("TRACE"), URL: &postman.URL{Raw: postman.String("http://h")}},
			ErrUnsupportedMethod,
		},
		{
			"made up method",
			&postman.Request{Method: postman.String("fetch"), URL: &postman.URL{Raw: postman.String("http://h")}},
			ErrUnsupportedMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Prepare(tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, p)
		})
	}
}

func TestPrepare_SupportedMethods(t *testing.T) {
	for _, m := range []string{"get", "POST", "Put", "patch", "DELETE", "head", "OPTIONS"} {
		p, err := Prepare(&postman.Request{Method: postman.String(m), URL: &postman.URL{Raw: postman.String("http://h")}})
		require.NoError(t, err, m)
		assert.Regexp(t, `^[A-Z]+$`, p.Method)
	}
}
