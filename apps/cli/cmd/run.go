package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Muradian-OSP/Ababil-Studio/packages/core/config"
	"github.com/Muradian-OSP/Ababil-Studio/packages/core/runner"
	"github.com/Muradian-OSP/Ababil-Studio/packages/history"
	"github.com/Muradian-OSP/Ababil-Studio/packages/http"
	"github.com/Muradian-OSP/Ababil-Studio/packages/output"
)

var runCmd = &cobra.Command{
	Use:   "run <collection.json>",
	Short: "Run every request of a Postman collection",
	Long: `Run the requests of a Postman collection in document order.

Examples:
  ababil run api.postman_collection.json
  ababil run api.postman_collection.json --env staging.postman_environment.json
  ababil run api.postman_collection.json --name "users/*" --bail
  ababil run api.postman_collection.json --iterations 5 --delay 200ms -o json
  ababil run api.postman_collection.json --watch`,
	Args: exactArgs(1),
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

type runOptions struct {
	scopeOptions
	iterations int
	delay      string
	bail       bool
	name       string
	output     string
	watch      bool
}

var runOpts runOptions

func init() {
	addScopeFlags(runCmd, &runOpts.scopeOptions)
	runCmd.Flags().IntVarP(&runOpts.iterations, "iterations", "i", getEnvInt("ABABIL_ITERATIONS", 0), "Number of passes over the collection (env: ABABIL_ITERATIONS)")
	runCmd.Flags().StringVar(&runOpts.delay, "delay", getEnvString("ABABIL_DELAY", ""), "Minimum delay between requests, e.g. 250ms (env: ABABIL_DELAY)")
	runCmd.Flags().BoolVar(&runOpts.bail, "bail", getEnvBool("ABABIL_BAIL", false), "Stop on first failure (env: ABABIL_BAIL)")
	runCmd.Flags().StringVarP(&runOpts.name, "name", "n", "", "Run only requests whose folder/name matches the pattern")
	runCmd.Flags().StringVarP(&runOpts.output, "output", "o", getEnvString("ABABIL_OUTPUT", "console"), "Output format: console, json (env: ABABIL_OUTPUT)")
	runCmd.Flags().BoolVarP(&runOpts.watch, "watch", "w", false, "Watch the collection for changes and re-run")
}

// Formatter is implemented by every run output format.
type Formatter interface {
	FormatRunResult(result *runner.RunResult)
	FormatError(err error)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

func newFormatter(w io.Writer, cfg *config.Config) (Formatter, error) {
	switch strings.ToLower(runOpts.output) {
	case "json":
		return output.NewJSONFormatter(output.JSONWithWriter(w)), nil
	case "console", "":
		return newConsole(w, cfg), nil
	default:
		return nil, withExitCode(ExitUsageError, fmt.Errorf("unknown output format %q", runOpts.output))
	}
}

func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	path := args[0]

	// validate the format before running anything
	if _, err := newFormatter(io.Discard, cfg); err != nil {
		return err
	}

	environment, vars, err := loadScopes(&runOpts.scopeOptions, cfg)
	if err != nil {
		return err
	}

	delay := cfg.DelayDuration()
	if runOpts.delay != "" {
		delay, err = time.ParseDuration(runOpts.delay)
		if err != nil {
			return withExitCode(ExitUsageError, fmt.Errorf("invalid delay value %q: %w", runOpts.delay, err))
		}
	}
	iterations := cfg.Iterations
	if runOpts.iterations > 0 {
		iterations = runOpts.iterations
	}

	store, err := openHistory(cfg, runOpts.record)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	rcfg := &runner.Config{
		Iterations: iterations,
		Delay:      delay,
		Bail:       runOpts.bail,
		NameFilter: runOpts.name,
		Variables:  vars,
		Client:     newClient(cmd, cfg),
	}
	if store != nil {
		rcfg.Recorder = func(ctx context.Context, res *runner.RequestResult) {
			record(ctx, cmd, store, resultEntry(res))
		}
	}

	r := runner.NewRunner(rcfg)
	r.SetEnvironment(environment)
	r.SetWarnFunc(newConsole(cmd.ErrOrStderr(), cfg).FormatWarning)

	runOnce := func(ctx context.Context) error {
		formatter, _ := newFormatter(cmd.OutOrStdout(), cfg)
		start := time.Now()

		result, err := r.RunFile(ctx, path)
		if result == nil {
			return withExitCode(ExitParseError, err)
		}

		formatter.FormatRunResult(result)
		if flushable, ok := formatter.(Flushable); ok {
			if ferr := flushable.Flush(time.Since(start)); ferr != nil {
				return fmt.Errorf("error writing output: %w", ferr)
			}
		}

		if err != nil {
			return withExitCode(ExitTestFailure, err)
		}
		if code := runExitCode(result); code != ExitSuccess {
			return withExitCode(code, fmt.Errorf("%d of %d requests failed", result.Failed, result.Passed+result.Failed))
		}
		return nil
	}

	err = runOnce(cmd.Context())
	if !runOpts.watch {
		return err
	}
	if err != nil {
		newConsole(cmd.ErrOrStderr(), cfg).FormatError(err)
	}
	return watchCollection(cmd, cfg, []string{path, environmentPath(cfg)}, runOnce)
}

// runExitCode is ExitNetworkError when every failure was a network error,
// ExitTestFailure when any request failed otherwise.
func runExitCode(result *runner.RunResult) int {
	code := ExitSuccess
	for _, res := range result.Results {
		if res.Skipped || res.Passed {
			continue
		}
		var te *http.TransportError
		if errors.As(res.Error, &te) {
			if code == ExitSuccess {
				code = ExitNetworkError
			}
			continue
		}
		code = ExitTestFailure
	}
	return code
}

func resultEntry(res *runner.RequestResult) *history.Entry {
	return history.NewEntry(res.Path(), res.Source, res.Response, res.Error)
}

func environmentPath(cfg *config.Config) string {
	if runOpts.environment != "" {
		return runOpts.environment
	}
	return cfg.Environment
}

// watchCollection re-runs on writes to the watched files until the command
// context is cancelled.
func watchCollection(cmd *cobra.Command, cfg *config.Config, files []string, runOnce func(context.Context) error) error {
	ctx := cmd.Context()
	stderr := newConsole(cmd.ErrOrStderr(), cfg)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files on save, so watch the directories.
	watched := make(map[string]bool)
	targets := make(map[string]bool)
	for _, file := range files {
		if file == "" {
			continue
		}
		abs, err := filepath.Abs(file)
		if err != nil {
			continue
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if !watched[dir] {
			if err := watcher.Add(dir); err != nil {
				stderr.FormatError(fmt.Errorf("failed to watch %s: %w", dir, err))
			}
			watched[dir] = true
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	rerun := make(chan string, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(event.Name)
			if !targets[abs] || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			// Debounce: reset timer on each event
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				select {
				case rerun <- name:
				default:
				}
			})

		case name := <-rerun:
			fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\nRe-running...\n", name)
			if err := runOnce(ctx); err != nil {
				stderr.FormatError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			stderr.FormatError(fmt.Errorf("watcher error: %w", err))
		}
	}
}
