// Package bridge is the JSON-in, JSON-out boundary used by embedding hosts.
//
// Every entry point takes a UTF-8 JSON document and returns one. A nil
// result means the input was unusable. Failures past that point are
// reported inside the returned document: request failures as a response
// with status_code 0, document failures as {"error": "..."}.
package bridge
