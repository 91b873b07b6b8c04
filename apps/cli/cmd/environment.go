package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Work with Postman environment files",
}

var envParseCmd = &cobra.Command{
	Use:   "parse <environment.json|->",
	Short: "Validate an environment and print it as compact JSON",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rewriteDocument(cmd, args[0], false, environmentDocument)
	},
}

var envFormatCmd = &cobra.Command{
	Use:   "format <environment.json|->",
	Short: "Validate an environment and print it indented",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rewriteDocument(cmd, args[0], true, environmentDocument)
	},
}

var envGetCmd = &cobra.Command{
	Use:   "get <environment.json> <key>",
	Short: "Print the value of an enabled environment variable",
	Long: `Print the value of an enabled environment variable. When a key appears
more than once the first enabled entry wins, as during resolution.

Examples:
  ababil env get dev.postman_environment.json baseUrl`,
	Args: exactArgs(2),
	RunE: envGetCommand,
}

func init() {
	envFormatCmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "Rewrite the file in place")

	envCmd.AddCommand(envParseCmd)
	envCmd.AddCommand(envFormatCmd)
	envCmd.AddCommand(envGetCmd)
}

func envGetCommand(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	e, err := postman.ParseEnvironment(data)
	if err != nil {
		return withExitCode(ExitParseError, fmt.Errorf("%s: %w", args[0], err))
	}
	value, ok := e.Lookup(args[1])
	if !ok {
		return withExitCode(ExitUsageError, fmt.Errorf("no enabled variable %q in %s", args[1], e.Name))
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func environmentDocument(data []byte) (document, error) {
	return postman.ParseEnvironment(data)
}
