package bridge

import (
	"errors"
	"time"

	"github.com/Muradian-OSP/Ababil-Studio/packages/http"
)

// ResponseDocument is the wire form of an executed request. StatusCode 0
// means the request never produced an HTTP response.
type ResponseDocument struct {
	StatusCode uint16      `json:"status_code"`
	Headers    [][2]string `json:"headers"`
	Body       string      `json:"body"`
	DurationMs uint64      `json:"duration_ms"`
}

// IsError reports whether the document describes a failure before any
// HTTP response was received.
func (d *ResponseDocument) IsError() bool {
	return d.StatusCode == 0
}

// NewResponseDocument converts the result of Client.Execute.
func NewResponseDocument(resp *http.Response, err error) *ResponseDocument {
	if err != nil {
		doc := errorDocument("Error: " + err.Error())
		var execErr *http.ExecError
		if errors.As(err, &execErr) {
			doc.DurationMs = millis(execErr.Duration)
		}
		return doc
	}

	headers := make([][2]string, 0, len(resp.Headers))
	for _, h := range resp.Headers {
		headers = append(headers, [2]string{h.Key, h.Value})
	}
	return &ResponseDocument{
		StatusCode: uint16(resp.StatusCode),
		Headers:    headers,
		Body:       resp.Body,
		DurationMs: millis(resp.Duration),
	}
}

func errorDocument(body string) *ResponseDocument {
	return &ResponseDocument{
		Headers: [][2]string{},
		Body:    body,
	}
}

func millis(d time.Duration) uint64 {
	if d < 0 {
		return 0
	}
	return uint64(d.Milliseconds())
}
