package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Muradian-OSP/Ababil-Studio/packages/http"
	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

var collectionCmd = &cobra.Command{
	Use:     "collection",
	Aliases: []string{"col"},
	Short:   "Work with Postman collection files",
}

var collectionParseCmd = &cobra.Command{
	Use:   "parse <collection.json|->",
	Short: "Validate a collection and print it as compact JSON",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rewriteDocument(cmd, args[0], false, collectionDocument)
	},
}

var collectionFormatCmd = &cobra.Command{
	Use:   "format <collection.json|->",
	Short: "Validate a collection and print it indented",
	Long: `Validate a collection and print it with two-space indentation.
Unknown members are dropped and absent members stay absent.

Examples:
  ababil collection format api.postman_collection.json
  ababil collection format api.postman_collection.json --write`,
	Args: exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rewriteDocument(cmd, args[0], true, collectionDocument)
	},
}

var collectionValidateCmd = &cobra.Command{
	Use:   "validate <collection.json>...",
	Short: "Validate collection files without executing them",
	Long: `Validate collection files without executing them. Every request is
checked for a supported method and a buildable URL.

Examples:
  ababil collection validate api.postman_collection.json
  ababil collection validate *.postman_collection.json`,
	Args: minimumArgs(1),
	RunE: validateCommand,
}

var collectionListCmd = &cobra.Command{
	Use:   "list <collection.json>",
	Short: "List the requests of a collection",
	Args:  exactArgs(1),
	RunE:  listCommand,
}

var writeInPlace bool

func init() {
	collectionFormatCmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "Rewrite the file in place")

	collectionCmd.AddCommand(collectionParseCmd)
	collectionCmd.AddCommand(collectionFormatCmd)
	collectionCmd.AddCommand(collectionValidateCmd)
	collectionCmd.AddCommand(collectionListCmd)
}

type document interface {
	JSON() ([]byte, error)
	JSONIndent() ([]byte, error)
}

func collectionDocument(data []byte) (document, error) {
	return postman.ParseCollection(data)
}

// rewriteDocument parses path with parse and prints it back, compact or
// indented. With --write an indented file is replaced in place.
func rewriteDocument(cmd *cobra.Command, path string, indent bool, parse func([]byte) (document, error)) error {
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	doc, err := parse(data)
	if err != nil {
		return withExitCode(ExitParseError, fmt.Errorf("%s: %w", path, err))
	}

	var out []byte
	if indent {
		out, err = doc.JSONIndent()
	} else {
		out, err = doc.JSON()
	}
	if err != nil {
		return withExitCode(ExitParseError, err)
	}

	if indent && writeInPlace && path != "-" {
		if err := os.WriteFile(path, append(out, '\n'), 0644); err != nil {
			return withExitCode(ExitConfigError, fmt.Errorf("cannot write %s: %w", path, err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Formatted: %s\n", path)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func validateCommand(cmd *cobra.Command, args []string) error {
	hasErrors := false
	for _, file := range args {
		problems, count, version, err := validateCollectionFile(file)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}
		if len(problems) > 0 {
			for _, p := range problems {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %s\n", file, p)
			}
			hasErrors = true
			continue
		}
		if version != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d requests, %s)\n", file, count, version)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d requests)\n", file, count)
		}
	}

	if hasErrors {
		return withExitCode(ExitParseError, fmt.Errorf("validation failed"))
	}

	return nil
}

// validateCollectionFile parses the collection and prepares every request
// without sending it. It also returns the declared schema version.
func validateCollectionFile(path string) ([]string, int, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, "", err
	}
	if postman.DetectKind(data) == postman.KindEnvironment {
		return nil, 0, "", fmt.Errorf("this is an environment, not a collection (see 'ababil env')")
	}
	c, err := postman.ParseCollection(data)
	if err != nil {
		return nil, 0, "", err
	}

	var problems []string
	items := c.Requests()
	for _, item := range items {
		if _, err := http.Prepare(item.Request); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", item.Name, err))
		}
	}
	return problems, len(items), c.SchemaVersion(), nil
}

func listCommand(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	c, err := postman.ParseCollection(data)
	if err != nil {
		return withExitCode(ExitParseError, fmt.Errorf("%s: %w", args[0], err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", c.Info.Name)
	return c.Walk(func(item *postman.Item, parents []*postman.Item) error {
		names := make([]string, 0, len(parents)+1)
		for _, p := range parents {
			names = append(names, p.Name)
		}
		names = append(names, item.Name)

		target, err := http.BuildURL(item.Request.URL)
		if err != nil {
			target = fmt.Sprintf("<%v>", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s  %s %s\n",
			strings.Join(names, "/"), item.Request.MethodOrDefault(), target)
		return nil
	})
}
