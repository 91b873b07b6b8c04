package postman

import (
	"encoding/json"
	"fmt"
)

// Collection is a Postman collection document.
type Collection struct {
	Info     Info       `json:"info"`
	Item     []Item     `json:"item"`
	Variable []Variable `json:"variable,omitzero"`
	Event    []Event    `json:"event,omitzero"`
	Auth     *Auth      `json:"auth,omitempty"`
}

type Info struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Schema      *string `json:"schema,omitempty"`
	PostmanID   *string `json:"_postman_id,omitempty"`
	ExporterID  *string `json:"_exporter_id,omitempty"`
}

// Item is either a folder (Item set) or a request (Request set).
type Item struct {
	Name        string     `json:"name"`
	Item        []Item     `json:"item,omitzero"`
	Request     *Request   `json:"request,omitempty"`
	Response    []Response `json:"response,omitzero"`
	Event       []Event    `json:"event,omitzero"`
	Description *string    `json:"description,omitempty"`
	Variable    []Variable `json:"variable,omitzero"`
	// Auth is the folder level auth Postman exports alongside folders.
	Auth *Auth `json:"auth,omitempty"`
}

// IsFolder reports whether the item groups other items.
func (i *Item) IsFolder() bool {
	return i.Request == nil && i.Item != nil
}

// Response is a saved example response.
type Response struct {
	Name            *string  `json:"name,omitempty"`
	OriginalRequest *Request `json:"originalRequest,omitempty"`
	Status          *string  `json:"status,omitempty"`
	Code            *int     `json:"code,omitempty"`
	PreviewLanguage *string  `json:"_postman_previewlanguage,omitempty"`
	Header          []Header `json:"header,omitzero"`
	Cookie          []Cookie `json:"cookie,omitzero"`
	Body            *string  `json:"body,omitempty"`
	ResponseTime    *string  `json:"responseTime,omitempty"`
	Timings         any      `json:"timings,omitempty"`
}

type Cookie struct {
	Name     *string `json:"name,omitempty"`
	Value    *string `json:"value,omitempty"`
	Domain   *string `json:"domain,omitempty"`
	Path     *string `json:"path,omitempty"`
	Expires  *string `json:"expires,omitempty"`
	HTTPOnly *bool   `json:"httpOnly,omitempty"`
	Secure   *bool   `json:"secure,omitempty"`
}

// ParseCollection validates data against the collection schema and decodes it.
func ParseCollection(data []byte) (*Collection, error) {
	if err := validateDocument(collectionSchema, data); err != nil {
		return nil, err
	}

	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding collection: %w", err)
	}
	return &c, nil
}

// SchemaVersion returns the collection format version declared in
// info.schema, e.g. "v2.1.0", or "" when it is not recognised.
func (c *Collection) SchemaVersion() string {
	return schemaVersion(Deref(c.Info.Schema))
}

// JSON serializes the collection compactly.
func (c *Collection) JSON() ([]byte, error) {
	return json.Marshal(c)
}

// JSONIndent serializes the collection with two-space indentation.
func (c *Collection) JSONIndent() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// WalkFunc is called for every request item. parents lists the enclosing
// folders, outermost first.
type WalkFunc func(item *Item, parents []*Item) error

// Walk visits request items depth-first in document order. Walking stops
// at the first error returned by fn.
func (c *Collection) Walk(fn WalkFunc) error {
	return walkItems(c.Item, nil, fn)
}

func walkItems(items []Item, parents []*Item, fn WalkFunc) error {
	for i := range items {
		item := &items[i]
		if item.Request != nil {
			if err := fn(item, parents); err != nil {
				return err
			}
			continue
		}
		if len(item.Item) > 0 {
			// full slice expression so siblings never share a backing array
			next := append(parents[:len(parents):len(parents)], item)
			if err := walkItems(item.Item, next, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Requests returns every request item in document order.
func (c *Collection) Requests() []*Item {
	var out []*Item
	_ = c.Walk(func(item *Item, _ []*Item) error {
		out = append(out, item)
		return nil
	})
	return out
}
