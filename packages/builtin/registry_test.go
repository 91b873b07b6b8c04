package builtin

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Defaults(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		pattern string
	}{
		{"$guid", `^[0-9a-f-]{36}$`},
		{"$randomUUID", `^[0-9a-f-]{36}$`},
		{"$timestamp", `^\d{10,}$`},
		{"$isoTimestamp", `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`},
		{"$randomInt", `^\d{1,4}$`},
		{"$randomAlphaNumeric", `^[a-zA-Z0-9]$`},
		{"$randomBoolean", `^(true|false)$`},
		{"$randomEmail", `^[a-z]{8}@[a-z]{6}\.com$`},
		{"$randomUserName", `^[a-z][a-zA-Z0-9]{7}$`},
		{"$randomHexadecimal", `^[0-9a-f]$`},
		{"$randomIP", `^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Call(tt.name)
			require.True(t, ok)
			assert.Regexp(t, regexp.MustCompile(tt.pattern), got)
		})
	}
}

func TestRegistry_UUIDIsValid(t *testing.T) {
	r := NewRegistry()
	a, _ := r.Call("$guid")
	b, _ := r.Call("guid")

	_, err := uuid.Parse(a)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestRegistry_RandomIntRange(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 200; i++ {
		s, _ := r.Call("$randomInt")
		n, err := strconv.Atoi(s)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 0)
		assert.LessOrEqual(t, n, 1000)
	}
}

func TestRegistry_Timestamp(t *testing.T) {
	s, ok := NewRegistry().Call("$timestamp")
	require.True(t, ok)
	n, err := strconv.ParseInt(s, 10, 64)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Unix(), n, 5)
}

func TestRegistry_RegisterAndNames(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Call("$custom")
	assert.False(t, ok)

	r.Register("$custom", func() string { return "value" })
	got, ok := r.Call("$custom")
	assert.True(t, ok)
	assert.Equal(t, "value", got)

	names := r.Names()
	assert.Contains(t, names, "$custom")
	assert.Contains(t, names, "$guid")
	assert.IsIncreasing(t, names)
}
