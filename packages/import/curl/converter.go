// Package curl converts curl command lines into Postman requests.
package curl

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

// SchemaURL is written into collections built by ConvertFile.
const SchemaURL = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

const formContentType = "application/x-www-form-urlencoded"

// Converter converts curl commands to Postman requests.
type Converter struct {
	formContentType bool
}

// Option is a functional option for Converter.
type Option func(*Converter)

// WithFormContentType controls whether a request with -d data and no
// Content-Type header gets the form content type curl would send.
func WithFormContentType(add bool) Option {
	return func(c *Converter) {
		c.formContentType = add
	}
}

// NewConverter creates a new curl converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		formContentType: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParsedCurl represents a parsed curl command.
type ParsedCurl struct {
	Method string
	URL    string
	// Headers keep command line order.
	Headers   []postman.Header
	Body      string
	HasBody   bool
	BasicAuth string
	Name      string
}

// Header returns the last value given for key, matched case-insensitively.
func (p *ParsedCurl) Header(key string) (string, bool) {
	for i := len(p.Headers) - 1; i >= 0; i-- {
		if strings.EqualFold(p.Headers[i].Key, key) {
			return p.Headers[i].Value, true
		}
	}
	return "", false
}

func (p *ParsedCurl) addHeader(key, value string) {
	p.Headers = append(p.Headers, postman.Header{Key: key, Value: value})
}

func (p *ParsedCurl) addData(data string) {
	if p.HasBody && data != "" {
		p.Body += "&" + data
	} else {
		p.Body = data
	}
	p.HasBody = true
}

// ConvertCommand converts a single curl command to a collection item.
func (c *Converter) ConvertCommand(curlCmd string) (*postman.Item, error) {
	parsed, err := c.Parse(curlCmd)
	if err != nil {
		return nil, err
	}
	return c.ToItem(parsed), nil
}

// ConvertFile converts a file containing curl commands to a collection
// named after the file.
func (c *Converter) ConvertFile(path string) (*postman.Collection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var commands []string
	var currentCmd strings.Builder
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Handle line continuations
		if strings.HasSuffix(line, "\\") {
			currentCmd.WriteString(strings.TrimSuffix(line, "\\"))
			currentCmd.WriteString(" ")
			continue
		}

		currentCmd.WriteString(line)
		commands = append(commands, currentCmd.String())
		currentCmd.Reset()
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Handle any remaining command
	if currentCmd.Len() > 0 {
		commands = append(commands, currentCmd.String())
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	collection := &postman.Collection{
		Info: postman.Info{Name: name, Schema: postman.String(SchemaURL)},
		Item: make([]postman.Item, 0, len(commands)),
	}

	for i, cmd := range commands {
		item, err := c.ConvertCommand(cmd)
		if err != nil {
			return nil, fmt.Errorf("failed to convert command %d: %w", i+1, err)
		}
		collection.Item = append(collection.Item, *item)
	}

	return collection, nil
}

// Parse parses a curl command string into a ParsedCurl struct.
func (c *Converter) Parse(curlCmd string) (*ParsedCurl, error) {
	parsed := &ParsedCurl{}
	explicitMethod := ""

	// Normalize the command
	curlCmd = strings.TrimSpace(curlCmd)

	// Remove "curl" prefix if present
	if strings.HasPrefix(curlCmd, "curl ") {
		curlCmd = strings.TrimPrefix(curlCmd, "curl ")
	} else if curlCmd == "curl" {
		return nil, fmt.Errorf("no URL specified")
	}

	// Tokenize the command respecting quotes
	tokens := tokenize(curlCmd)

	value := func(i int) (string, error) {
		if i+1 < len(tokens) {
			return tokens[i+1], nil
		}
		return "", fmt.Errorf("missing value for %s", tokens[i])
	}

	i := 0
	for i < len(tokens) {
		token := tokens[i]

		switch token {
		case "-X", "--request":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			explicitMethod = strings.ToUpper(v)
			i += 2

		case "-H", "--header":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			if key, val, ok := strings.Cut(v, ":"); ok {
				parsed.addHeader(strings.TrimSpace(key), strings.TrimSpace(val))
			}
			i += 2

		case "-d", "--data", "--data-raw", "--data-binary", "--data-ascii", "--data-urlencode":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.addData(v)
			i += 2

		case "--json":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.addData(v)
			if _, ok := parsed.Header("Content-Type"); !ok {
				parsed.addHeader("Content-Type", "application/json")
			}
			if _, ok := parsed.Header("Accept"); !ok {
				parsed.addHeader("Accept", "application/json")
			}
			i += 2

		case "-u", "--user":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.BasicAuth = v
			i += 2

		case "-A", "--user-agent":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.addHeader("User-Agent", v)
			i += 2

		case "-e", "--referer":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.addHeader("Referer", v)
			i += 2

		case "-b", "--cookie":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.addHeader("Cookie", v)
			i += 2

		case "--url":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.URL = v
			i += 2

		case "-I", "--head":
			explicitMethod = "HEAD"
			i++

		case "-k", "--insecure", "-L", "--location", "-s", "--silent", "-v", "--verbose",
			"-i", "--include", "-f", "--fail", "--compressed", "-g", "--globoff":
			i++

		default:
			switch {
			case strings.HasPrefix(token, "-"):
				// Skip unknown flags with potential values
				if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") && !isURL(tokens[i+1]) {
					i += 2
				} else {
					i++
				}
			case parsed.URL == "" && isURL(token):
				parsed.URL = token
				i++
			default:
				i++
			}
		}
	}

	if parsed.URL == "" {
		return nil, fmt.Errorf("no URL found in curl command")
	}

	switch {
	case explicitMethod != "":
		parsed.Method = explicitMethod
	case parsed.HasBody:
		parsed.Method = "POST"
	default:
		parsed.Method = "GET"
	}

	if parsed.HasBody && c.formContentType {
		if _, ok := parsed.Header("Content-Type"); !ok {
			parsed.addHeader("Content-Type", formContentType)
		}
	}

	// Generate a name from the URL
	parsed.Name = generateName(parsed.URL, parsed.Method)

	return parsed, nil
}

// ToItem wraps the request in a named collection item.
func (c *Converter) ToItem(parsed *ParsedCurl) *postman.Item {
	return &postman.Item{
		Name:    parsed.Name,
		Request: c.ToRequest(parsed),
	}
}

// ToRequest builds the Postman request. Data is sent as a raw body and
// -u credentials become basic auth.
func (c *Converter) ToRequest(parsed *ParsedCurl) *postman.Request {
	req := &postman.Request{
		Method: postman.String(parsed.Method),
		URL:    &postman.URL{Raw: postman.String(parsed.URL)},
	}
	if len(parsed.Headers) > 0 {
		req.Header = append([]postman.Header(nil), parsed.Headers...)
	}
	if parsed.HasBody {
		req.Body = &postman.Body{
			Mode: postman.String("raw"),
			Raw:  postman.String(parsed.Body),
		}
	}
	if parsed.BasicAuth != "" {
		username, password, _ := strings.Cut(parsed.BasicAuth, ":")
		req.Auth = &postman.Auth{
			Type: postman.String("basic"),
			Basic: []postman.Variable{
				{Key: "username", Value: username, Type: postman.String("string")},
				{Key: "password", Value: password, Type: postman.String("string")},
			},
		}
	}
	return req
}

// tokenize splits a curl command into tokens, respecting quotes.
func tokenize(cmd string) []string {
	var tokens []string
	var current strings.Builder
	inSingleQuote := false
	inDoubleQuote := false
	escaped := false

	for _, r := range cmd {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch r {
		case '\\':
			if inSingleQuote {
				current.WriteRune(r)
			} else {
				escaped = true
			}
		case '\'':
			if !inDoubleQuote {
				inSingleQuote = !inSingleQuote
			} else {
				current.WriteRune(r)
			}
		case '"':
			if !inSingleQuote {
				inDoubleQuote = !inDoubleQuote
			} else {
				current.WriteRune(r)
			}
		case ' ', '\t':
			if inSingleQuote || inDoubleQuote {
				current.WriteRune(r)
			} else if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// isURL checks if a string looks like a URL.
func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "{{")
}

var urlPattern = regexp.MustCompile(`^(?:https?://[^/]+|\{\{[^}]+\}\})(/[^?#]*)?`)

// generateName generates a request name from the URL and method.
func generateName(url, method string) string {
	// Extract the path from the URL
	matches := urlPattern.FindStringSubmatch(url)

	path := "/"
	if len(matches) > 1 && matches[1] != "" {
		path = matches[1]
	}

	// Clean up the path for a name
	path = strings.Trim(path, "/")
	if path == "" {
		path = "root"
	}

	// Replace path separators and other characters
	path = strings.ReplaceAll(path, "/", "_")
	path = strings.ReplaceAll(path, "-", "_")

	return strings.ToLower(method) + "_" + path
}
