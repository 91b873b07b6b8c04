package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Muradian-OSP/Ababil-Studio/packages/history"
	"github.com/Muradian-OSP/Ababil-Studio/packages/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded requests",
	Long: `Inspect requests recorded with --history.

Examples:
  ababil history list --limit 10
  ababil history show 3f2a
  ababil history clear`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent requests, newest first",
	Args:  exactArgs(0),
	RunE:  historyListCommand,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a recorded request and its response",
	Args:  exactArgs(1),
	RunE:  historyShowCommand,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded request",
	Args:  exactArgs(0),
	RunE:  historyClearCommand,
}

var (
	historyLimit int
	historyRaw   bool
)

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "l", getEnvInt("ABABIL_HISTORY_LIMIT", 20), "Maximum number of entries, 0 for all (env: ABABIL_HISTORY_LIMIT)")
	historyShowCmd.Flags().BoolVar(&historyRaw, "raw", false, "Print the stored response document as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func historyListCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	store, err := openHistoryStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tMETHOD\tSTATUS\tDURATION\tREQUEST")
	for _, e := range entries {
		label := e.URL
		if e.Name != "" {
			label = e.Name + " " + e.URL
		}
		status := fmt.Sprint(e.StatusCode)
		if e.StatusCode == 0 {
			status = "error"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dms\t%s\n",
			shortID(e.ID), e.CreatedAt.Local().Format(time.DateTime), e.Method, status, e.DurationMs, label)
	}
	return w.Flush()
}

func historyShowCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	store, err := openHistoryStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	e, err := store.Get(cmd.Context(), args[0])
	if errors.Is(err, history.ErrNotFound) {
		return withExitCode(ExitUsageError, err)
	}
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	out := cmd.OutOrStdout()
	if historyRaw {
		fmt.Fprintln(out, e.Response)
		return nil
	}

	doc, err := e.ResponseDocument()
	if err != nil {
		return withExitCode(ExitParseError, err)
	}

	fmt.Fprintf(out, "ID:       %s\n", e.ID)
	fmt.Fprintf(out, "Time:     %s\n", e.CreatedAt.Local().Format(time.RFC3339))
	if e.Name != "" {
		fmt.Fprintf(out, "Name:     %s\n", e.Name)
	}
	fmt.Fprintf(out, "Request:  %s %s\n", e.Method, e.URL)
	if doc.IsError() {
		fmt.Fprintf(out, "Error:    %s (%dms)\n", e.Error, doc.DurationMs)
		return nil
	}
	fmt.Fprintf(out, "Status:   %d (%dms)\n\n", doc.StatusCode, doc.DurationMs)
	for _, h := range doc.Headers {
		fmt.Fprintf(out, "%s: %s\n", h[0], h[1])
	}
	if doc.Body != "" {
		fmt.Fprintf(out, "\n%s\n", output.PrettyJSON(doc.Body))
	}
	return nil
}

func historyClearCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	store, err := openHistoryStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Clear(cmd.Context())
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d entries\n", n)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
