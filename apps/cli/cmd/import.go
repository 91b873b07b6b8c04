package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Muradian-OSP/Ababil-Studio/packages/import/curl"
	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Convert other request formats into Postman collections",
}

var importCurlCmd = &cobra.Command{
	Use:   "curl <command|file>",
	Short: "Convert curl commands into a Postman collection",
	Long: `Convert curl commands into a Postman collection.

The argument is either a file holding one curl command per line (lines
ending in a backslash continue the command) or a single quoted command.

Examples:
  ababil import curl requests.sh -o api.postman_collection.json
  ababil import curl 'curl -X POST https://api.example.com/pets -d "{}"'
  ababil import curl -- curl -H "Accept: application/json" https://api.example.com`,
	Args: minimumArgs(1),
	RunE: importCurlCommand,
}

var importOpts struct {
	output        string
	name          string
	noContentType bool
}

func init() {
	importCurlCmd.Flags().StringVarP(&importOpts.output, "output", "o", "", "Write the collection to a file instead of stdout")
	importCurlCmd.Flags().StringVarP(&importOpts.name, "name", "n", "curl import", "Collection name when converting a single command")
	importCurlCmd.Flags().BoolVar(&importOpts.noContentType, "no-form-content-type", false, "Do not add a form Content-Type to data without one")

	importCmd.AddCommand(importCurlCmd)
}

func importCurlCommand(cmd *cobra.Command, args []string) error {
	converter := curl.NewConverter(curl.WithFormContentType(!importOpts.noContentType))

	var collection *postman.Collection
	if len(args) == 1 && isRegularFile(args[0]) {
		c, err := converter.ConvertFile(args[0])
		if err != nil {
			return withExitCode(ExitParseError, err)
		}
		collection = c
	} else {
		item, err := converter.ConvertCommand(strings.Join(args, " "))
		if err != nil {
			return withExitCode(ExitParseError, err)
		}
		collection = &postman.Collection{
			Info: postman.Info{Name: importOpts.name, Schema: postman.String(curl.SchemaURL)},
			Item: []postman.Item{*item},
		}
	}

	out, err := collection.JSONIndent()
	if err != nil {
		return withExitCode(ExitParseError, err)
	}

	if importOpts.output != "" {
		if err := os.WriteFile(importOpts.output, append(out, '\n'), 0644); err != nil {
			return withExitCode(ExitConfigError, fmt.Errorf("cannot write %s: %w", importOpts.output, err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d requests into %s\n", len(collection.Item), importOpts.output)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
