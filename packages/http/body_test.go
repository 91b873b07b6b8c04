package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

func TestBuildBody(t *testing.T) {
	tests := []struct {
		name   string
		body   *postman.Body
		want   string
		wantOK bool
	}{
		{name: "nil body"},
		{
			name:   "mode absent means raw",
			body:   &postman.Body{Raw: postman.String(`{"a":1}`)},
			want:   `{"a":1}`,
			wantOK: true,
		},
		{
			name: "raw without content",
			body: &postman.Body{Mode: postman.String("raw")},
		},
		{
			name:   "raw empty string is sent",
			body:   &postman.Body{Mode: postman.String("raw"), Raw: postman.String("")},
			want:   "",
			wantOK: true,
		},
		{
			name: "urlencoded",
			body: &postman.Body{
				Mode: postman.String("urlencoded"),
				URLEncoded: []postman.FormParam{
					{Key: "a b", Value: postman.String("c&d")},
					{Key: "skip", Value: postman.String("x"), Disabled: postman.Bool(true)},
					{Key: "novalue"},
					{Key: "z", Value: postman.String("1")},
				},
			},
			want:   "a+b=c%26d&z=1",
			wantOK: true,
		},
		{
			name:   "urlencoded empty list",
			body:   &postman.Body{Mode: postman.String("urlencoded"), URLEncoded: []postman.FormParam{}},
			want:   "",
			wantOK: true,
		},
		{
			name: "urlencoded list absent",
			body: &postman.Body{Mode: postman.String("urlencoded")},
		},
		{
			name: "urlencoded ignores formdata list",
			body: &postman.Body{
				Mode:     postman.String("urlencoded"),
				FormData: []postman.FormParam{{Key: "a", Value: postman.String("b")}},
			},
		},
		{
			name: "formdata sent urlencoded",
			body: &postman.Body{
				Mode:     postman.String("formdata"),
				FormData: []postman.FormParam{{Key: "name", Value: postman.String("rex")}},
			},
			want:   "name=rex",
			wantOK: true,
		},
		{
			name: "graphql with json variables",
			body: &postman.Body{
				Mode:    postman.String("graphql"),
				GraphQL: &postman.GraphQLBody{Query: postman.String("{ping}"), Variables: postman.String(`{"x":1}`)},
			},
			want:   `{"query":"{ping}","variables":{"x":1}}`,
			wantOK: true,
		},
		{
			name: "graphql with non json variables",
			body: &postman.Body{
				Mode:    postman.String("graphql"),
				GraphQL: &postman.GraphQLBody{Query: postman.String("{ping}"), Variables: postman.String("not json")},
			},
			want:   `{"query":"{ping}","variables":"not json"}`,
			wantOK: true,
		},
		{
			name: "graphql variables reformatted",
			body: &postman.Body{
				Mode:    postman.String("graphql"),
				GraphQL: &postman.GraphQLBody{Variables: postman.String(` { "b": 2, "a": 10000000000000001 } `)},
			},
			want:   `{"variables":{"a":10000000000000001,"b":2}}`,
			wantOK: true,
		},
		{
			name:   "graphql empty",
			body:   &postman.Body{Mode: postman.String("graphql"), GraphQL: &postman.GraphQLBody{}},
			want:   `{}`,
			wantOK: true,
		},
		{
			name: "graphql absent",
			body: &postman.Body{Mode: postman.String("graphql")},
		},
		{
			name: "file mode sends nothing",
			body: &postman.Body{Mode: postman.String("file"), File: &postman.FileBody{Src: postman.String("/tmp/x")}},
		},
		{
			name: "unknown mode sends nothing",
			body: &postman.Body{Mode: postman.String("binary"), Raw: postman.String("data")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := BuildBody(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBodyMode(t *testing.T) {
	m, ok := ParseBodyMode(nil)
	assert.True(t, ok)
	assert.Equal(t, BodyRaw, m)

	m, ok = ParseBodyMode(postman.String("graphql"))
	assert.True(t, ok)
	assert.Equal(t, BodyGraphQL, m)

	_, ok = ParseBodyMode(postman.String("binary"))
	assert.False(t, ok)
}
