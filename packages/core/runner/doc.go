// Package runner executes every request of a Postman collection.
//
// It provides functionality for:
//   - Depth-first execution in document order through folders
//   - Layered variables: collection, environment, then overrides
//   - Folder and collection auth inheritance
//   - Multiple iterations with paced delays and bail on failure
//   - Latency statistics over all executed requests
//
// Requests run sequentially. Scripts attached to items are carried in the
// model but never executed.
package runner
