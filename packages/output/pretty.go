package output

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// PrettyJSON indents a JSON document with two spaces, keeping key order.
// Anything that is not valid JSON is returned unchanged.
func PrettyJSON(body string) string {
	if !gjson.Valid(body) {
		return body
	}
	return strings.TrimRight(string(pretty.Pretty([]byte(body))), "\n")
}
