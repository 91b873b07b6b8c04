package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Muradian-OSP/Ababil-Studio/packages/core/config"
	"github.com/Muradian-OSP/Ababil-Studio/packages/core/env"
	"github.com/Muradian-OSP/Ababil-Studio/packages/history"
	"github.com/Muradian-OSP/Ababil-Studio/packages/http"
	"github.com/Muradian-OSP/Ababil-Studio/packages/output"
	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

type rootOptions struct {
	config      string
	timeout     string
	proxy       string
	userAgent   string
	insecure    bool
	noFollow    bool
	verbose     bool
	noColor     bool
	historyPath string
}

var rootOpts rootOptions

// scopeOptions are the variable sources shared by send and run.
type scopeOptions struct {
	environment string
	envFile     string
	vars        []string
	record      bool
}

func addScopeFlags(cmd *cobra.Command, opts *scopeOptions) {
	cmd.Flags().StringVarP(&opts.environment, "env", "e", getEnvString("ABABIL_ENV", ""), "Postman environment file (env: ABABIL_ENV)")
	cmd.Flags().StringVar(&opts.envFile, "env-file", getEnvString("ABABIL_ENV_FILE", ""), "Path to .env file for variable interpolation (env: ABABIL_ENV_FILE)")
	cmd.Flags().StringArrayVar(&opts.vars, "var", nil, "Variable override as key=value (repeatable)")
	cmd.Flags().BoolVar(&opts.record, "history", getEnvBool("ABABIL_HISTORY", false), "Record executed requests in the history database (env: ABABIL_HISTORY)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// loadSettings reads the config file and applies command line overrides.
func loadSettings() (*config.Config, error) {
	fileConfig, err := config.LoadConfig(rootOpts.config)
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}

	override := &config.Config{
		Proxy:       rootOpts.proxy,
		UserAgent:   rootOpts.userAgent,
		HistoryPath: rootOpts.historyPath,
	}
	if rootOpts.timeout != "" {
		timeout, err := time.ParseDuration(rootOpts.timeout)
		if err != nil || timeout <= 0 {
			return nil, withExitCode(ExitUsageError,
				fmt.Errorf("invalid timeout value %q (use format like 30s, 1m, 500ms)", rootOpts.timeout))
		}
		override.Timeout = int(timeout.Milliseconds())
	}
	if rootOpts.insecure {
		override.ValidateSSL = config.BoolPtr(false)
	}
	if rootOpts.noFollow {
		override.FollowRedirects = config.BoolPtr(false)
	}
	if rootOpts.verbose {
		override.Verbose = config.BoolPtr(true)
	}
	if rootOpts.noColor {
		override.NoColor = config.BoolPtr(true)
	}

	return fileConfig.Merge(override), nil
}

func newConsole(w io.Writer, cfg *config.Config) *output.ConsoleFormatter {
	return output.NewConsoleFormatter(
		output.WithWriter(w),
		output.WithVerbose(cfg.GetVerbose()),
		output.WithNoColor(cfg.GetNoColor()),
	)
}

// newClient builds the HTTP client. Verbose mode logs the exchange to
// stderr.
func newClient(cmd *cobra.Command, cfg *config.Config) *http.Client {
	opts := cfg.ClientOptions()
	if cfg.GetVerbose() {
		opts = append(opts, http.WithLogger(newConsole(cmd.ErrOrStderr(), cfg).FormatLog))
	}
	return http.NewClient(opts...)
}

// loadScopes reads the environment file, the .env file and --var
// overrides. The .env values are also exported for {{$NAME}} lookups.
// variableEnvPrefix marks process environment variables that become
// request variables, e.g. ABABIL_VAR_base.
const variableEnvPrefix = "ABABIL_VAR_"

func loadScopes(opts *scopeOptions, cfg *config.Config) (*postman.Environment, map[string]any, error) {
	var environment *postman.Environment
	path := opts.environment
	if path == "" {
		path = cfg.Environment
	}
	if path != "" {
		e, err := env.LoadEnvironmentFile(path)
		if err != nil {
			return nil, nil, withExitCode(ExitConfigError, err)
		}
		environment = e
	}

	var dotenv map[string]any
	if opts.envFile != "" {
		vars, err := env.LoadAndExportDotEnv(opts.envFile)
		if err != nil {
			return nil, nil, withExitCode(ExitConfigError, err)
		}
		dotenv = env.StringMap(vars)
	}

	overrides, err := env.ParseAssignments(opts.vars)
	if err != nil {
		return nil, nil, withExitCode(ExitUsageError, err)
	}

	return environment, env.MergeVariables(env.LoadSystemEnv(variableEnvPrefix), dotenv, overrides), nil
}

// openHistory opens the history store when recording is on. It returns a
// nil store otherwise.
func openHistory(cfg *config.Config, enabled bool) (*history.Store, error) {
	if !enabled {
		return nil, nil
	}
	return openHistoryStore(cfg)
}

func openHistoryStore(cfg *config.Config) (*history.Store, error) {
	path := cfg.HistoryPath
	if path == "" {
		path = history.DefaultPath()
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}
	return store, nil
}

// record stores one exchange. History failures never fail the command.
func record(ctx context.Context, cmd *cobra.Command, store *history.Store, e *history.Entry) {
	if store == nil {
		return
	}
	if err := store.Record(ctx, e); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
}

// readInput reads a document from path, or from stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, withExitCode(ExitParseError, fmt.Errorf("cannot read %s: %w", path, err))
	}
	return data, nil
}

// exactArgs reports argument count mistakes as usage errors.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return withExitCode(ExitUsageError, err)
		}
		return nil
	}
}

func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return withExitCode(ExitUsageError, err)
		}
		return nil
	}
}
