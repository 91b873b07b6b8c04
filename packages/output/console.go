package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/Muradian-OSP/Ababil-Studio/packages/core/runner"
	"github.com/Muradian-OSP/Ababil-Studio/packages/http"
)

const maxErrorBody = 200

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

// NewConsoleFormatter writes to stdout by default. Color is turned off when
// the writer is not a terminal.
func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if !isTerminal(f.writer) {
		f.noColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = f.noColor || nc
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func (f *ConsoleFormatter) paint(attrs ...color.Attribute) func(a ...any) string {
	c := color.New(attrs...)
	if f.noColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c.SprintFunc()
}

func (f *ConsoleFormatter) statusColor(code int) func(a ...any) string {
	switch {
	case code >= 500:
		return f.paint(color.FgRed, color.Bold)
	case code >= 400:
		return f.paint(color.FgYellow, color.Bold)
	case code >= 300:
		return f.paint(color.FgCyan, color.Bold)
	default:
		return f.paint(color.FgGreen, color.Bold)
	}
}

// FormatResponse prints the status line, headers and body. JSON bodies are
// indented.
func (f *ConsoleFormatter) FormatResponse(resp *http.Response) {
	gray := f.paint(color.FgHiBlack)
	cyan := f.paint(color.FgCyan)
	status := f.statusColor(resp.StatusCode)

	if f.verbose && resp.Request != nil {
		bold := f.paint(color.Bold)
		fmt.Fprintf(f.writer, "%s %s\n", bold(resp.Request.Method), resp.Request.URL)
		for _, h := range resp.Request.Headers {
			fmt.Fprintf(f.writer, "%s: %s\n", cyan(h.Key), h.Value)
		}
		fmt.Fprintln(f.writer)
	}

	fmt.Fprintf(f.writer, "%s %s %s\n",
		resp.Proto,
		status(resp.Status),
		gray(fmt.Sprintf("(%dms, %s)", resp.DurationMs(), bytefmt.ByteSize(uint64(resp.Size())))),
	)
	for _, h := range resp.Headers {
		fmt.Fprintf(f.writer, "%s: %s\n", cyan(h.Key), h.Value)
	}

	if f.verbose {
		f.formatTiming(resp.Timing)
	}

	if resp.Body == "" {
		return
	}
	fmt.Fprintln(f.writer)
	body := resp.Body
	if resp.IsJSON() {
		body = PrettyJSON(body)
	}
	fmt.Fprintln(f.writer, body)
}

func (f *ConsoleFormatter) formatTiming(t http.Timing) {
	gray := f.paint(color.FgHiBlack)
	fmt.Fprintln(f.writer)
	rows := []struct {
		label string
		value time.Duration
	}{
		{"DNS lookup", t.DNSLookup},
		{"TCP connect", t.TCPConnect},
		{"TLS handshake", t.TLSHandshake},
		{"First byte", t.TimeToFirstByte},
		{"Transfer", t.ContentTransfer},
		{"Total", t.Total},
	}
	for _, row := range rows {
		fmt.Fprintf(f.writer, "%s %s\n", gray(fmt.Sprintf("%-14s", row.label+":")), formatDuration(row.value))
	}
	if t.ConnReused {
		fmt.Fprintf(f.writer, "%s\n", gray("(connection reused)"))
	}
}

func (f *ConsoleFormatter) FormatRunResult(result *runner.RunResult) {
	green := f.paint(color.FgGreen)
	red := f.paint(color.FgRed)
	yellow := f.paint(color.FgYellow)
	cyan := f.paint(color.FgCyan)
	bold := f.paint(color.Bold)

	fmt.Fprintf(f.writer, "\n%s\n\n", bold("Running: "+result.Collection))

	for _, r := range result.Results {
		name := r.Path()
		if r.Iteration > 1 {
			name = fmt.Sprintf("%s [%d]", name, r.Iteration)
		}

		if r.Skipped {
			if f.verbose {
				fmt.Fprintf(f.writer, "  %s %s\n", yellow("-"), name)
			}
			continue
		}

		if r.Error != nil {
			fmt.Fprintf(f.writer, "  %s %s %s\n", red("x"), name, red(fmt.Sprintf("(%v)", r.Error)))
			continue
		}

		symbol := green("✓")
		if !r.Passed {
			symbol = red("✗")
		}
		fmt.Fprintf(f.writer, "  %s %s %s %s\n",
			symbol, name,
			f.statusColor(r.Response.StatusCode)(r.Response.StatusCode),
			cyan(fmt.Sprintf("(%dms)", r.Duration.Milliseconds())),
		)

		if f.verbose && r.Request != nil {
			fmt.Fprintf(f.writer, "    %s %s\n", r.Request.Method, r.Request.URL)
		}
		if !r.Passed && r.Response.Body != "" {
			fmt.Fprintf(f.writer, "    %s\n", truncate(r.Response.Body, maxErrorBody))
		}
	}

	fmt.Fprintf(f.writer, "\nRequests: ")
	if result.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", result.Passed)))
	}
	if result.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", result.Failed)))
	}
	if result.Skipped > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d skipped", result.Skipped)))
	}
	total := result.Passed + result.Failed + result.Skipped
	fmt.Fprintf(f.writer, "%d total\n", total)
	fmt.Fprintf(f.writer, "Time:     %dms\n", result.Duration.Milliseconds())

	if f.verbose && result.Stats.Count > 0 {
		f.FormatStats(result.Stats)
	}
	fmt.Fprintln(f.writer)
}

// FormatStats prints the latency summary of a run.
func (f *ConsoleFormatter) FormatStats(s runner.Stats) {
	bold := f.paint(color.Bold)
	gray := f.paint(color.FgHiBlack)

	fmt.Fprintf(f.writer, "\n%s\n", bold("Latency"))
	fmt.Fprintf(f.writer, "  %s %s  %s %s  %s %s\n",
		gray("min"), formatDuration(s.Min),
		gray("mean"), formatDuration(s.Mean),
		gray("max"), formatDuration(s.Max),
	)
	fmt.Fprintf(f.writer, "  %s %s  %s %s  %s %s  %s %s\n",
		gray("p50"), formatDuration(s.P50),
		gray("p90"), formatDuration(s.P90),
		gray("p95"), formatDuration(s.P95),
		gray("p99"), formatDuration(s.P99),
	)
	fmt.Fprintf(f.writer, "  %s %.1f%% (%d/%d)\n",
		gray("success"), s.SuccessRate()*100, s.Count-s.Failures, s.Count)
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := f.paint(color.FgRed)
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

// FormatWarning matches env.WarnFunc.
func (f *ConsoleFormatter) FormatWarning(format string, args ...any) {
	yellow := f.paint(color.FgYellow)
	fmt.Fprintf(f.writer, "%s %s\n", yellow("Warning:"), fmt.Sprintf(format, args...))
}

// FormatLog matches http.LogFunc.
func (f *ConsoleFormatter) FormatLog(format string, args ...any) {
	gray := f.paint(color.FgHiBlack)
	fmt.Fprintln(f.writer, gray(fmt.Sprintf(format, args...)))
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := f.paint(color.Bold)
	fmt.Fprintf(f.writer, "%s %s\n", bold("ababil"), version)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
