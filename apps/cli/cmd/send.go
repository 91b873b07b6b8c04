package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/Muradian-OSP/Ababil-Studio/packages/bridge"
	"github.com/Muradian-OSP/Ababil-Studio/packages/core/env"
	"github.com/Muradian-OSP/Ababil-Studio/packages/history"
	"github.com/Muradian-OSP/Ababil-Studio/packages/http"
	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

var sendCmd = &cobra.Command{
	Use:   "send <request.json|->",
	Short: "Send a single Postman request",
	Long: `Send one Postman request document, the "request" object of a
collection item, and print the response.

Examples:
  ababil send request.json
  ababil send request.json --env dev.postman_environment.json
  ababil send request.json --var host=localhost:8080 --select data.id
  cat request.json | ababil send - --raw`,
	Args: exactArgs(1),
	RunE: sendCommand,
}

type sendOptions struct {
	scopeOptions
	name       string
	selectPath string
	raw        bool
}

var sendOpts sendOptions

func init() {
	addScopeFlags(sendCmd, &sendOpts.scopeOptions)
	sendCmd.Flags().StringVar(&sendOpts.name, "name", "", "Name recorded in history")
	sendCmd.Flags().StringVarP(&sendOpts.selectPath, "select", "s", "", "Print only the value at this JSON path of the response body")
	sendCmd.Flags().BoolVar(&sendOpts.raw, "raw", false, "Print the response document as JSON")
}

func sendCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	environment, vars, err := loadScopes(&sendOpts.scopeOptions, cfg)
	if err != nil {
		return err
	}

	stderr := newConsole(cmd.ErrOrStderr(), cfg)
	resolver := env.NewResolver()
	resolver.SetWarnFunc(stderr.FormatWarning)
	if environment != nil {
		resolver.SetVariables(environment.Variables())
	}
	resolver.SetVariables(vars)

	client := newClient(cmd, cfg)
	ctx := cmd.Context()

	if sendOpts.raw {
		b := bridge.New(bridge.WithClient(client), bridge.WithResolver(resolver))
		doc := b.MakeHTTPRequest(ctx, data)
		if doc == nil {
			return withExitCode(ExitParseError, fmt.Errorf("%s is not a JSON document", args[0]))
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(doc))
		return nil
	}

	req, err := decodeRequest(data)
	if err != nil {
		return withExitCode(ExitParseError, fmt.Errorf("invalid request document: %w", err))
	}
	resolved := resolver.ResolveRequest(req)

	store, err := openHistory(cfg, sendOpts.record)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	resp, execErr := client.Execute(ctx, resolved)
	record(ctx, cmd, store, history.NewEntry(sendOpts.name, resolved, resp, execErr))

	if execErr != nil {
		return withExitCode(execExitCode(execErr), execErr)
	}

	if sendOpts.selectPath != "" {
		fmt.Fprintln(cmd.OutOrStdout(), resp.Select(sendOpts.selectPath).String())
	} else {
		newConsole(cmd.OutOrStdout(), cfg).FormatResponse(resp)
	}

	if resp.IsError() {
		return withExitCode(ExitTestFailure, fmt.Errorf("request failed with status %s", resp.Status))
	}
	return nil
}

func decodeRequest(data []byte) (*postman.Request, error) {
	if !gjson.ValidBytes(data) {
		return nil, postman.ErrInvalidJSON
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, errors.New("expected a JSON object")
	}
	var req postman.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// execExitCode separates network failures from requests that could not be
// built.
func execExitCode(err error) int {
	var te *http.TransportError
	if errors.As(err, &te) {
		return ExitNetworkError
	}
	return ExitParseError
}
