package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muradian-OSP/Ababil-Studio/packages/core/runner"
	"github.com/Muradian-OSP/Ababil-Studio/packages/http"
)

func sampleResponse() *http.Response {
	return &http.Response{
		StatusCode: 200,
		Status:     "200 OK",
		Proto:      "HTTP/1.1",
		Headers: []http.Header{
			{Key: "content-type", Value: "application/json"},
			{Key: "x-trace", Value: "abc"},
		},
		Body:     `{"id":1,"name":"rex"}`,
		Duration: 42 * time.Millisecond,
		Request: &http.PreparedRequest{
			Method:  "GET",
			URL:     "http://example.com/pets/1",
			Headers: []http.Header{{Key: "Accept", Value: "application/json"}},
		},
	}
}

func sampleRunResult() *runner.RunResult {
	ok := sampleResponse()
	notFound := &http.Response{StatusCode: 404, Status: "404 Not Found", Body: "missing", Duration: 3 * time.Millisecond}
	return &runner.RunResult{
		Collection: "Pets",
		Duration:   120 * time.Millisecond,
		Passed:     1,
		Failed:     2,
		Skipped:    1,
		Results: []*runner.RequestResult{
			{Name: "Get pet", Folders: []string{"Pets"}, Iteration: 1, Passed: true, Duration: ok.Duration, Request: ok.Request, Response: ok},
			{Name: "Missing", Iteration: 1, Duration: notFound.Duration, Response: notFound},
			{Name: "Broken", Iteration: 1, Error: errors.New("connection refused")},
			{Name: "Other", Iteration: 1, Skipped: true, SkipReason: "filtered out"},
		},
		Stats: runner.Stats{Count: 3, Failures: 2, Min: time.Millisecond, Mean: 15 * time.Millisecond, Max: 42 * time.Millisecond},
	}
}

func TestConsoleFormatter_FormatResponse(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf))
	f.FormatResponse(sampleResponse())

	out := buf.String()
	assert.Contains(t, out, "HTTP/1.1 200 OK (42ms, 21B)")
	assert.Contains(t, out, "content-type: application/json")
	assert.Contains(t, out, "x-trace: abc")
	assert.Contains(t, out, "{\n  \"id\": 1,\n  \"name\": \"rex\"\n}")
	assert.NotContains(t, out, "\x1b[", "buffers are not terminals")
	assert.NotContains(t, out, "GET http://example.com/pets/1")
}

func TestConsoleFormatter_FormatResponseVerbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithVerbose(true))
	resp := sampleResponse()
	resp.Timing = http.Timing{Total: 42 * time.Millisecond, ConnReused: true}
	f.FormatResponse(resp)

	out := buf.String()
	assert.Contains(t, out, "GET http://example.com/pets/1")
	assert.Contains(t, out, "Accept: application/json")
	assert.Contains(t, out, "Total:")
	assert.Contains(t, out, "(connection reused)")
}

func TestConsoleFormatter_FormatResponseRawBody(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf))
	f.FormatResponse(&http.Response{StatusCode: 500, Status: "500 Internal Server Error", Proto: "HTTP/1.1", Body: "{oops"})

	assert.True(t, strings.HasSuffix(buf.String(), "\n{oops\n"))
}

func TestConsoleFormatter_FormatRunResult(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))
	f.FormatRunResult(sampleRunResult())

	out := buf.String()
	assert.Contains(t, out, "Running: Pets")
	assert.Contains(t, out, "✓ Pets/Get pet 200 (42ms)")
	assert.Contains(t, out, "✗ Missing 404 (3ms)")
	assert.Contains(t, out, "    missing\n")
	assert.Contains(t, out, "x Broken (connection refused)")
	assert.NotContains(t, out, "Other")
	assert.Contains(t, out, "1 passed, 2 failed, 1 skipped, 4 total")
	assert.Contains(t, out, "Time:     120ms")
	assert.NotContains(t, out, "Latency")
}

func TestConsoleFormatter_FormatRunResultVerbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithVerbose(true))
	f.FormatRunResult(sampleRunResult())

	out := buf.String()
	assert.Contains(t, out, "- Other")
	assert.Contains(t, out, "Latency")
	assert.Contains(t, out, "success 33.3% (1/3)")
}

func TestConsoleFormatter_Messages(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf))

	f.FormatError(errors.New("boom"))
	f.FormatWarning("unresolved variable: %s", "host")
	f.FormatHeader("1.0.0")

	assert.Equal(t, "Error: boom\nWarning: unresolved variable: host\nababil 1.0.0\n", buf.String())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.50s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "12ms", formatDuration(12*time.Millisecond))
	assert.Equal(t, "250µs", formatDuration(250*time.Microsecond))
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": \"x\"\n}", PrettyJSON(`{"b":1,"a":"x"}`))
	assert.Equal(t, "not json", PrettyJSON("not json"))
	assert.Equal(t, "", PrettyJSON(""))
}

func TestJSONFormatter_Flush(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	f.FormatRunResult(sampleRunResult())
	require.NoError(t, f.Flush(120*time.Millisecond))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "Pets", out.Collection)
	assert.Equal(t, JSONSummary{Total: 4, Passed: 1, Failed: 2, Skipped: 1}, out.Summary)
	assert.Equal(t, 120.0, out.Duration)
	require.NotNil(t, out.Stats)
	assert.Equal(t, 42.0, out.Stats.Max)
	require.Len(t, out.Requests, 4)

	first := out.Requests[0]
	assert.Equal(t, "Pets/Get pet", first.Path)
	require.NotNil(t, first.Response)
	assert.Equal(t, 21, first.Response.Size)
	assert.Equal(t, [][2]string{{"content-type", "application/json"}, {"x-trace", "abc"}}, first.Response.Headers)
	require.NotNil(t, first.Request)
	assert.Equal(t, "GET", first.Request.Method)

	assert.Equal(t, "connection refused", out.Requests[2].Error)
	assert.Nil(t, out.Requests[2].Response)
	assert.True(t, out.Requests[3].Skipped)
	assert.Empty(t, out.Requests[3].SkipReason)
}
