package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Muradian-OSP/Ababil-Studio/packages/output"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ababil",
	Short: "Run Postman requests and collections from the terminal.",
	Long: `ababil executes Postman collection v2.1 requests. Send a single
request document, run a whole collection against an environment, or
normalize collection and environment files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		output.NewConsoleFormatter(output.WithWriter(os.Stderr)).FormatError(err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return withExitCode(ExitUsageError, err)
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootOpts.config, "config", getEnvString("ABABIL_CONFIG", ""), "Path to config file (env: ABABIL_CONFIG)")
	flags.StringVar(&rootOpts.timeout, "timeout", getEnvString("ABABIL_TIMEOUT", ""), "Request timeout, e.g. 30s or 1m (env: ABABIL_TIMEOUT)")
	flags.StringVar(&rootOpts.proxy, "proxy", getEnvString("ABABIL_PROXY", ""), "Proxy URL for HTTP requests (env: ABABIL_PROXY)")
	flags.StringVar(&rootOpts.userAgent, "user-agent", getEnvString("ABABIL_USER_AGENT", ""), "User-Agent for requests without one (env: ABABIL_USER_AGENT)")
	flags.BoolVarP(&rootOpts.insecure, "insecure", "k", getEnvBool("ABABIL_INSECURE", false), "Disable SSL certificate validation (env: ABABIL_INSECURE)")
	flags.BoolVar(&rootOpts.noFollow, "no-follow", getEnvBool("ABABIL_NO_FOLLOW", false), "Do not follow redirects (env: ABABIL_NO_FOLLOW)")
	flags.BoolVarP(&rootOpts.verbose, "verbose", "v", getEnvBool("ABABIL_VERBOSE", false), "Verbose output (env: ABABIL_VERBOSE)")
	flags.BoolVar(&rootOpts.noColor, "no-color", getEnvBool("ABABIL_NO_COLOR", false), "Disable colored output (env: ABABIL_NO_COLOR)")
	flags.StringVar(&rootOpts.historyPath, "history-path", getEnvString("ABABIL_HISTORY_PATH", ""), "History database path (env: ABABIL_HISTORY_PATH)")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(collectionCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
