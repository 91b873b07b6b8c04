// Package postman models Postman collection and environment documents.
//
// The types mirror the Postman collection v2.x JSON layout:
//   - Request, URL, Header, Body and Auth describe a single HTTP call
//   - Collection and Item describe a tree of folders and requests
//   - Environment holds a named set of variables
//
// Optional fields are pointers or slices tagged omitempty so that absent
// fields stay absent when a document is parsed and written back out.
// ParseCollection and ParseEnvironment validate the document shape against
// an embedded JSON Schema before decoding.
package postman
