// Package http turns Postman request models into outbound HTTP requests.
//
// The pieces are usable on their own:
//   - BuildURL assembles a URL from raw or structured parts
//   - BuildBody serializes a body for its mode
//   - ApplyAuth appends auth-derived headers
//   - Prepare combines the three into a PreparedRequest
//   - Client.Execute sends it and buffers the response
package http
