package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResponse_IsSuccess(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   bool
	}{
		{200, true},
		{201, true},
		{204, true},
		{299, true},
		{300, false},
		{400, false},
		{404, false},
		{500, false},
	}

	for _, tt := range tests {
		resp := &Response{StatusCode: tt.statusCode}
		assert.Equal(t, tt.expected, resp.IsSuccess(), "StatusCode: %d", tt.statusCode)
		assert.Equal(t, tt.statusCode >= 400, resp.IsError(), "StatusCode: %d", tt.statusCode)
	}
}

func TestResponse_IsJSON(t *testing.T) {
	tests := []struct {
		contentType string
		expected    bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"application/problem+json", true},
		{"text/html", false},
		{"text/plain", false},
		{"", false},
	}

	for _, tt := range tests {
		resp := &Response{Headers: []Header{{Key: "content-type", Value: tt.contentType}}}
		assert.Equal(t, tt.expected, resp.IsJSON(), "Content-Type: %s", tt.contentType)
	}
}

func TestResponse_Helpers(t *testing.T) {
	resp := &Response{
		StatusCode: 404,
		Body:       `{"items":[{"id":1},{"id":2}]}`,
		Duration:   1500 * time.Millisecond,
	}

	assert.Equal(t, "Not Found", resp.StatusText())
	assert.Equal(t, int64(1500), resp.DurationMs())
	assert.Equal(t, len(resp.Body), resp.Size())
	assert.Equal(t, int64(2), resp.Select("items.#").Int())
	assert.Equal(t, int64(2), resp.Select("items.1.id").Int())
	assert.False(t, resp.Select("missing").Exists())
	assert.Empty(t, resp.Header("X-None"))
}
