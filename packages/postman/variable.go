package postman

import (
	"encoding/json"
	"fmt"
)

// Variable is the generic key/value tuple used by auth schemes,
// collections and environments.
type Variable struct {
	Key      string  `json:"key"`
	Value    string  `json:"value"`
	Type     *string `json:"type,omitempty"`
	Disabled *bool   `json:"disabled,omitempty"`
	// Enabled is the environment export spelling of !Disabled.
	Enabled *bool `json:"enabled,omitempty"`
}

// UnmarshalJSON rejects a null or missing value.
func (v *Variable) UnmarshalJSON(data []byte) error {
	type plain Variable
	var p struct {
		plain
		Value *string `json:"value"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Value == nil {
		return fmt.Errorf("variable %q: value must be a string", p.Key)
	}
	*v = Variable(p.plain)
	v.Value = *p.Value
	return nil
}

// IsEnabled reports whether the variable takes part in resolution.
func (v Variable) IsEnabled() bool {
	if isTrue(v.Disabled) {
		return false
	}
	return v.Enabled == nil || *v.Enabled
}

// String returns a pointer to s. It keeps literal construction of
// optional fields short.
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to i.
func Int(i int) *int {
	return &i
}

// Deref returns the value behind s, or "" when s is nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isTrue(b *bool) bool {
	return b != nil && *b
}
