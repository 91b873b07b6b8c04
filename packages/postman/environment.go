package postman

import (
	"encoding/json"
	"fmt"
)

// Environment is a Postman environment export.
type Environment struct {
	ID            *string    `json:"id,omitempty"`
	Name          string     `json:"name"`
	Values        []Variable `json:"values,omitzero"`
	Scope         *string    `json:"_postman_variable_scope,omitempty"`
	ExportedAt    *string    `json:"_postman_exported_at,omitempty"`
	ExportedUsing *string    `json:"_postman_exported_using,omitempty"`
}

// ParseEnvironment validates data against the environment schema and decodes it.
func ParseEnvironment(data []byte) (*Environment, error) {
	if err := validateDocument(environmentSchema, data); err != nil {
		return nil, err
	}

	var e Environment
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decoding environment: %w", err)
	}
	return &e, nil
}

// Lookup returns the value of the first enabled variable named key.
func (e *Environment) Lookup(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, v := range e.Values {
		if v.Key == key && v.IsEnabled() {
			return v.Value, true
		}
	}
	return "", false
}

// Variables returns the enabled variables as a map. As with Lookup, the
// first enabled variable for a key wins.
func (e *Environment) Variables() map[string]any {
	out := make(map[string]any)
	if e == nil {
		return out
	}
	for _, v := range e.Values {
		if !v.IsEnabled() {
			continue
		}
		if _, ok := out[v.Key]; !ok {
			out[v.Key] = v.Value
		}
	}
	return out
}

func (e *Environment) JSON() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Environment) JSONIndent() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}
