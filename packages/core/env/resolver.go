package env

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/Muradian-OSP/Ababil-Studio/packages/builtin"
	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver substitutes {{name}} placeholders. Scopes are merged in the
// order they are set, so a later scope overrides an earlier one.
type Resolver struct {
	mu        sync.RWMutex
	variables map[string]any
	funcs     *builtin.Registry
	warnFunc  WarnFunc
}

func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]any),
		funcs:     builtin.NewRegistry(),
	}
}

// SetWarnFunc sets a function to be called when warnings occur (e.g., unresolved variables)
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	r.mu.RLock()
	fn := r.warnFunc
	r.mu.RUnlock()
	if fn != nil {
		fn(format, args...)
	}
}

// Funcs exposes the dynamic variable registry.
func (r *Resolver) Funcs() *builtin.Registry {
	return r.funcs
}

func (r *Resolver) SetVariables(vars map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range vars {
		r.variables[k] = v
	}
}

// SetPostmanVariables adds a Postman variable list as one scope. Disabled
// variables are skipped and the first enabled entry for a key wins.
func (r *Resolver) SetPostmanVariables(vars []postman.Variable) {
	scope := make(map[string]any)
	for _, v := range vars {
		if !v.IsEnabled() {
			continue
		}
		if _, ok := scope[v.Key]; !ok {
			scope[v.Key] = v.Value
		}
	}
	r.SetVariables(scope)
}

func (r *Resolver) SetVariable(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variables[name] = value
}

// Resolve replaces every placeholder that has a value. Names are trimmed,
// so {{ host }} and {{host}} are the same variable. {{$name}} is a
// dynamic variable, falling back to the process environment. Unresolved
// placeholders are left as written.
func (r *Resolver) Resolve(input string) string {
	if !strings.Contains(input, "{{") {
		return input
	}
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])

		if val, ok := r.lookup(expr); ok {
			return val
		}

		if strings.HasPrefix(expr, "$") {
			r.warn("unresolved dynamic variable: %s", expr)
		} else {
			r.warn("unresolved variable: %s", expr)
		}
		return match
	})
}

func (r *Resolver) lookup(expr string) (string, bool) {
	if strings.HasPrefix(expr, "$") {
		if val, ok := r.funcs.Call(expr); ok {
			return val, true
		}
		if val := os.Getenv(expr[1:]); val != "" {
			return val, true
		}
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if val, ok := r.variables[expr]; ok {
		return fmt.Sprintf("%v", val), true
	}
	return "", false
}

// HasUnresolved reports whether input contains a placeholder without a value.
func (r *Resolver) HasUnresolved(input string) bool {
	return len(r.Unresolved(input)) > 0
}

// Unresolved lists placeholder names in input that have no value, in order
// of appearance.
func (r *Resolver) Unresolved(input string) []string {
	var out []string
	for _, m := range variablePattern.FindAllStringSubmatch(input, -1) {
		expr := strings.TrimSpace(m[1])
		if _, ok := r.lookup(expr); !ok {
			out = append(out, expr)
		}
	}
	return out
}

func (r *Resolver) HasVariable(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.variables[name]
	return ok
}

func (r *Resolver) GetVariable(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variables[name]
	return v, ok
}

// Variables returns a copy of the merged scope.
func (r *Resolver) Variables() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.variables))
	for k, v := range r.variables {
		out[k] = v
	}
	return out
}

func (r *Resolver) Clone() *Resolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := NewResolver()
	clone.funcs = r.funcs
	clone.warnFunc = r.warnFunc
	for k, v := range r.variables {
		clone.variables[k] = v
	}
	return clone
}
