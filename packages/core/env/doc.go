// Package env resolves {{variable}} placeholders in Postman requests.
//
// It provides:
//   - A thread-safe Resolver with layered variable scopes
//   - Postman dynamic variables ({{$guid}}, {{$timestamp}}, ...)
//   - Request-wide resolution that leaves the input untouched
//   - Loading of .env files and Postman environment exports
package env
