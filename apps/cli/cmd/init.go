package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Muradian-OSP/Ababil-Studio/packages/core/config"
)

var (
	forceInit bool
	initYAML  bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new ababil project",
	Long: `Initialize a new ababil project.

This creates:
  - .ababil.json (or .ababil.yaml)      - Configuration file
  - example.postman_collection.json     - Example collection
  - example.postman_environment.json    - Example environment

Examples:
  ababil init
  ababil init --yaml --force`,
	Args: exactArgs(0),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
	initCmd.Flags().BoolVar(&initYAML, "yaml", false, "Write the config file as YAML")
	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to initialize")
}

const exampleCollection = `{
  "info": {
    "name": "Example",
    "schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"
  },
  "item": [
    {
      "name": "Get a post",
      "request": {
        "method": "GET",
        "header": [{"key": "Accept", "value": "application/json"}],
        "url": "{{baseUrl}}/posts/1"
      }
    },
    {
      "name": "Create a post",
      "request": {
        "method": "POST",
        "header": [{"key": "Content-Type", "value": "application/json"}],
        "body": {"mode": "raw", "raw": "{\"title\": \"hello\", \"id\": \"{{$guid}}\"}"},
        "url": "{{baseUrl}}/posts"
      }
    }
  ],
  "variable": [{"key": "baseUrl", "value": "https://jsonplaceholder.typicode.com"}]
}`

const exampleEnvironment = `{
  "name": "example",
  "values": [
    {"key": "baseUrl", "value": "https://jsonplaceholder.typicode.com", "enabled": true}
  ]
}`

func initCommand(cmd *cobra.Command, args []string) error {
	configName := ".ababil.json"
	if initYAML {
		configName = ".ababil.yaml"
	}
	configFile := filepath.Join(initDir, configName)
	collectionFile := filepath.Join(initDir, "example.postman_collection.json")
	environmentFile := filepath.Join(initDir, "example.postman_environment.json")

	if !forceInit {
		for _, f := range []string{configFile, collectionFile, environmentFile} {
			if _, err := os.Stat(f); err == nil {
				return withExitCode(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Environment = "example.postman_environment.json"
	if err := cfg.SaveConfig(configFile); err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("failed to create config file: %w", err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	for _, doc := range []struct {
		path    string
		content string
		parse   func([]byte) (document, error)
	}{
		{collectionFile, exampleCollection, collectionDocument},
		{environmentFile, exampleEnvironment, environmentDocument},
	} {
		parsed, err := doc.parse([]byte(doc.content))
		if err != nil {
			return fmt.Errorf("example document: %w", err)
		}
		data, err := parsed.JSONIndent()
		if err != nil {
			return err
		}
		if err := os.WriteFile(doc.path, append(data, '\n'), 0644); err != nil {
			return withExitCode(ExitConfigError, fmt.Errorf("failed to create %s: %w", doc.path, err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", doc.path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nababil project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'ababil run %s' to execute the example requests.\n", collectionFile)

	return nil
}
