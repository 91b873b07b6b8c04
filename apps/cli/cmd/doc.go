// Package cmd implements the ababil CLI commands using Cobra.
//
// Available commands:
//   - send: Execute a single Postman request document
//   - run: Execute every request of a collection
//   - collection: Parse, format, validate and list collections
//   - env: Parse, format and query environments
//   - history: Inspect and clear the request history
//   - import: Convert curl commands into collections
//   - init: Create a config file and example documents
//   - version: Show ababil version information
//
// Flags default from ABABIL_* environment variables, and settings not
// given on the command line come from .ababil.json or .ababil.yaml.
package cmd
