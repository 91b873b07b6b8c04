package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/Muradian-OSP/Ababil-Studio/packages/core/runner"
	"github.com/Muradian-OSP/Ababil-Studio/packages/http"
)

// JSONOutput is the complete run report.
type JSONOutput struct {
	Collection string       `json:"collection"`
	Summary    JSONSummary  `json:"summary"`
	Stats      *JSONStats   `json:"stats,omitempty"`
	Requests   []JSONResult `json:"requests"`
	Duration   float64      `json:"duration"`
	Time       string       `json:"time"`
}

type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// JSONStats holds latencies in milliseconds.
type JSONStats struct {
	Count       int     `json:"count"`
	Failures    int     `json:"failures"`
	SuccessRate float64 `json:"successRate"`
	Min         float64 `json:"min"`
	Mean        float64 `json:"mean"`
	Max         float64 `json:"max"`
	P50         float64 `json:"p50"`
	P90         float64 `json:"p90"`
	P95         float64 `json:"p95"`
	P99         float64 `json:"p99"`
}

// JSONResult is a single executed or skipped request.
type JSONResult struct {
	Name       string        `json:"name"`
	Path       string        `json:"path"`
	Iteration  int           `json:"iteration"`
	Passed     bool          `json:"passed"`
	Skipped    bool          `json:"skipped,omitempty"`
	SkipReason string        `json:"skipReason,omitempty"`
	Duration   float64       `json:"duration"`
	Error      string        `json:"error,omitempty"`
	Request    *JSONRequest  `json:"request,omitempty"`
	Response   *JSONResponse `json:"response,omitempty"`
}

type JSONRequest struct {
	Method  string      `json:"method"`
	URL     string      `json:"url"`
	Headers [][2]string `json:"headers,omitempty"`
}

type JSONResponse struct {
	StatusCode int         `json:"statusCode"`
	Status     string      `json:"status"`
	Headers    [][2]string `json:"headers,omitempty"`
	Size       int         `json:"size"`
	Duration   float64     `json:"duration"`
}

// JSONFormatter collects run results and writes one report on Flush.
type JSONFormatter struct {
	writer     io.Writer
	collection string
	results    []JSONResult
	stats      *JSONStats
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		results: make([]JSONResult, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatRunResult(result *runner.RunResult) {
	f.collection = result.Collection
	if result.Stats.Count > 0 {
		f.stats = newJSONStats(result.Stats)
	}

	for _, r := range result.Results {
		entry := JSONResult{
			Name:      r.Name,
			Path:      r.Path(),
			Iteration: r.Iteration,
			Passed:    r.Passed,
			Skipped:   r.Skipped,
			Duration:  millis(r.Duration),
		}

		if r.SkipReason != "" && r.SkipReason != "filtered out" {
			entry.SkipReason = r.SkipReason
		}

		if r.Error != nil {
			entry.Error = r.Error.Error()
		}

		if r.Request != nil {
			entry.Request = &JSONRequest{
				Method:  r.Request.Method,
				URL:     r.Request.URL,
				Headers: pairs(r.Request.Headers),
			}
		}

		if r.Response != nil {
			entry.Response = &JSONResponse{
				StatusCode: r.Response.StatusCode,
				Status:     r.Response.Status,
				Headers:    pairs(r.Response.Headers),
				Size:       r.Response.Size(),
				Duration:   millis(r.Response.Duration),
			}
		}

		f.results = append(f.results, entry)
	}
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual request results
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var passed, failed, skipped int
	for _, r := range f.results {
		if r.Skipped {
			skipped++
		} else if r.Passed {
			passed++
		} else {
			failed++
		}
	}

	output := JSONOutput{
		Collection: f.collection,
		Summary: JSONSummary{
			Total:   len(f.results),
			Passed:  passed,
			Failed:  failed,
			Skipped: skipped,
		},
		Stats:    f.stats,
		Requests: f.results,
		Duration: millis(totalDuration),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func newJSONStats(s runner.Stats) *JSONStats {
	return &JSONStats{
		Count:       s.Count,
		Failures:    s.Failures,
		SuccessRate: s.SuccessRate(),
		Min:         millis(s.Min),
		Mean:        millis(s.Mean),
		Max:         millis(s.Max),
		P50:         millis(s.P50),
		P90:         millis(s.P90),
		P95:         millis(s.P95),
		P99:         millis(s.P99),
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func pairs(headers []http.Header) [][2]string {
	if len(headers) == 0 {
		return nil
	}
	out := make([][2]string, len(headers))
	for i, h := range headers {
		out[i] = [2]string{h.Key, h.Value}
	}
	return out
}
