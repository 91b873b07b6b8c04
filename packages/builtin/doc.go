// Package builtin provides Postman dynamic variables.
//
// Dynamic variables are written {{$name}} in requests and produce a fresh
// value on every use:
//   - $guid, $randomUUID: random UUID v4
//   - $timestamp: current Unix timestamp in seconds
//   - $isoTimestamp: current UTC time in ISO 8601 with milliseconds
//   - $randomInt: integer between 0 and 1000
//   - $randomAlphaNumeric: single alphanumeric character
//   - $randomBoolean: true or false
//   - $randomEmail, $randomUserName: plausible looking identities
//   - $randomHexadecimal: single hexadecimal digit
//   - $randomIP: IPv4 address
package builtin
