package builtin

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Func produces a value for a dynamic variable.
type Func func() string

// Registry maps dynamic variable names to generators. Names are stored
// without the leading '$'.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

func NewRegistry() *Registry {
	r := &Registry{
		funcs: make(map[string]Func),
	}
	r.registerDefaults()
	return r
}

func (r *Registry) registerDefaults() {
	r.funcs["guid"] = funcUUID
	r.funcs["randomUUID"] = funcUUID
	r.funcs["timestamp"] = funcTimestamp
	r.funcs["isoTimestamp"] = funcISOTimestamp
	r.funcs["randomInt"] = funcRandomInt
	r.funcs["randomAlphaNumeric"] = funcRandomAlphaNumeric
	r.funcs["randomBoolean"] = funcRandomBoolean
	r.funcs["randomEmail"] = funcRandomEmail
	r.funcs["randomUserName"] = funcRandomUserName
	r.funcs["randomHexadecimal"] = funcRandomHexadecimal
	r.funcs["randomIP"] = funcRandomIP
}

// Register adds or replaces a generator. A leading '$' in name is ignored.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[strings.TrimPrefix(name, "$")] = fn
}

// Call evaluates the dynamic variable name, with or without its '$'.
func (r *Registry) Call(name string) (string, bool) {
	r.mu.RLock()
	fn, ok := r.funcs[strings.TrimPrefix(name, "$")]
	r.mu.RUnlock()
	if !ok {
		return "", false
	}
	return fn(), true
}

// Names lists the registered variables, sorted, each with its '$'.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, "$"+name)
	}
	sort.Strings(names)
	return names
}

const (
	lowerLetters = "abcdefghijklmnopqrstuvwxyz"
	alphaNumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	hexDigits    = "0123456789abcdef"
)

func funcUUID() string {
	return uuid.New().String()
}

func funcTimestamp() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

func funcISOTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

func funcRandomInt() string {
	return strconv.Itoa(rand.Intn(1001))
}

func funcRandomAlphaNumeric() string {
	return randomString(1, alphaNumeric)
}

func funcRandomBoolean() string {
	return strconv.FormatBool(rand.Intn(2) == 1)
}

func funcRandomEmail() string {
	user := randomString(8, lowerLetters)
	domain := randomString(6, lowerLetters)
	return fmt.Sprintf("%s@%s.com", user, domain)
}

func funcRandomUserName() string {
	return randomString(1, lowerLetters) + randomString(7, alphaNumeric)
}

func funcRandomHexadecimal() string {
	return randomString(1, hexDigits)
}

func funcRandomIP() string {
	return fmt.Sprintf("%d.%d.%d.%d", rand.Intn(256), rand.Intn(256), rand.Intn(256), rand.Intn(256))
}

func randomString(length int, charset string) string {
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
