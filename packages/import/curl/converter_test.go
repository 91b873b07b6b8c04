package curl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

func TestParse_SimpleGet(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl https://api.example.com/users`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Method != "GET" {
		t.Errorf("expected method GET, got %s", parsed.Method)
	}
	if parsed.URL != "https://api.example.com/users" {
		t.Errorf("expected URL https://api.example.com/users, got %s", parsed.URL)
	}
	if parsed.Name != "get_users" {
		t.Errorf("expected name get_users, got %s", parsed.Name)
	}
	if len(parsed.Headers) != 0 {
		t.Errorf("expected no headers, got %v", parsed.Headers)
	}
}

func TestParse_PostWithData(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl -X POST https://api.example.com/users -d '{"name":"John"}'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Method != "POST" {
		t.Errorf("expected method POST, got %s", parsed.Method)
	}
	if parsed.Body != `{"name":"John"}` {
		t.Errorf("expected body {\"name\":\"John\"}, got %s", parsed.Body)
	}
	if ct, _ := parsed.Header("content-type"); ct != "application/x-www-form-urlencoded" {
		t.Errorf("expected form content type, got %q", ct)
	}
}

func TestParse_DataImpliesPost(t *testing.T) {
	parsed, err := NewConverter(WithFormContentType(false)).Parse(`curl https://api.example.com/login -d user=a -d pass=b`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Method != "POST" {
		t.Errorf("expected method POST, got %s", parsed.Method)
	}
	if parsed.Body != "user=a&pass=b" {
		t.Errorf("expected joined data, got %s", parsed.Body)
	}
	if _, ok := parsed.Header("Content-Type"); ok {
		t.Error("expected no content type when disabled")
	}
}

func TestParse_WithHeaders(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl -H "Content-Type: application/json" -H "Authorization: Bearer token123" https://api.example.com/users`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(parsed.Headers) != 2 {
		t.Fatalf("expected 2 headers, got %d", len(parsed.Headers))
	}
	if parsed.Headers[0].Key != "Content-Type" || parsed.Headers[0].Value != "application/json" {
		t.Errorf("unexpected first header: %+v", parsed.Headers[0])
	}
	if v, _ := parsed.Header("Authorization"); v != "Bearer token123" {
		t.Errorf("expected Authorization: Bearer token123, got %s", v)
	}
}

func TestParse_JSONFlag(t *testing.T) {
	parsed, err := NewConverter().Parse(`curl --json '{"a":1}' https://api.example.com/items`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Method != "POST" {
		t.Errorf("expected method POST, got %s", parsed.Method)
	}
	if ct, _ := parsed.Header("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %q", ct)
	}
	if accept, _ := parsed.Header("Accept"); accept != "application/json" {
		t.Errorf("expected json accept, got %q", accept)
	}
}

func TestParse_FlagsAndShortcuts(t *testing.T) {
	parsed, err := NewConverter().Parse(`curl -k -L -s -A "agent/1" -b "sid=1" -e https://ref.example.com -I --url https://api.example.com/health`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Method != "HEAD" {
		t.Errorf("expected method HEAD, got %s", parsed.Method)
	}
	if parsed.URL != "https://api.example.com/health" {
		t.Errorf("unexpected URL %s", parsed.URL)
	}
	want := map[string]string{"User-Agent": "agent/1", "Cookie": "sid=1", "Referer": "https://ref.example.com"}
	for k, v := range want {
		if got, _ := parsed.Header(k); got != v {
			t.Errorf("expected %s: %s, got %s", k, v, got)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	converter := NewConverter()

	for _, cmd := range []string{
		"curl",
		"curl -X POST",
		"curl https://api.example.com -H",
	} {
		if _, err := converter.Parse(cmd); err == nil {
			t.Errorf("expected error for %q", cmd)
		}
	}
}

func TestToRequest(t *testing.T) {
	converter := NewConverter()

	item, err := converter.ConvertCommand(`curl -u admin:s3cret -X PUT "{{base}}/pets/1" -H 'Content-Type: application/json' --data-raw '{"name":"rex"}'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := item.Request
	if postman.Deref(req.Method) != "PUT" {
		t.Errorf("expected PUT, got %s", postman.Deref(req.Method))
	}
	if postman.Deref(req.URL.Raw) != "{{base}}/pets/1" {
		t.Errorf("unexpected URL %s", postman.Deref(req.URL.Raw))
	}
	if req.Body == nil || postman.Deref(req.Body.Mode) != "raw" || postman.Deref(req.Body.Raw) != `{"name":"rex"}` {
		t.Errorf("unexpected body %+v", req.Body)
	}
	if len(req.Header) != 1 {
		t.Errorf("expected the explicit content type only, got %v", req.Header)
	}
	if req.Auth == nil || postman.Deref(req.Auth.Type) != "basic" {
		t.Fatalf("expected basic auth, got %+v", req.Auth)
	}
	if req.Auth.Basic[0].Value != "admin" || req.Auth.Basic[1].Value != "s3cret" {
		t.Errorf("unexpected credentials %+v", req.Auth.Basic)
	}
	if item.Name != "put_pets_1" {
		t.Errorf("expected name put_pets_1, got %s", item.Name)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{`a b c`, []string{"a", "b", "c"}},
		{`"a b" c`, []string{"a b", "c"}},
		{`'a b' c`, []string{"a b", "c"}},
		{`a\ b c`, []string{"a b", "c"}},
		{`'{"x":"y"}'`, []string{`{"x":"y"}`}},
		{`"it's"`, []string{"it's"}},
	}

	for _, tt := range tests {
		got := tokenize(tt.input)
		if len(got) != len(tt.expected) {
			t.Errorf("tokenize(%q) = %v, want %v", tt.input, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("tokenize(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.expected[i])
			}
		}
	}
}

func TestGenerateName(t *testing.T) {
	tests := []struct {
		url, method, expected string
	}{
		{"https://api.example.com/users", "GET", "get_users"},
		{"https://api.example.com/", "GET", "get_root"},
		{"https://api.example.com/user-profiles/me", "PATCH", "patch_user_profiles_me"},
		{"https://api.example.com/search?q=x", "GET", "get_search"},
	}

	for _, tt := range tests {
		if got := generateName(tt.url, tt.method); got != tt.expected {
			t.Errorf("generateName(%q, %q) = %q, want %q", tt.url, tt.method, got, tt.expected)
		}
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pets.sh")
	content := `# list pets
curl https://api.example.com/pets

curl -X POST https://api.example.com/pets \
  -H "Content-Type: application/json" \
  -d '{"name":"rex"}'
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	collection, err := NewConverter().ConvertFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if collection.Info.Name != "pets" {
		t.Errorf("expected collection name pets, got %s", collection.Info.Name)
	}
	if collection.SchemaVersion() != "v2.1.0" {
		t.Errorf("expected schema v2.1.0, got %s", collection.SchemaVersion())
	}
	if len(collection.Item) != 2 {
		t.Fatalf("expected 2 items, got %d", len(collection.Item))
	}
	if postman.Deref(collection.Item[1].Request.Body.Raw) != `{"name":"rex"}` {
		t.Errorf("unexpected body %s", postman.Deref(collection.Item[1].Request.Body.Raw))
	}

	data, err := collection.JSON()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := postman.ParseCollection(data); err != nil {
		t.Errorf("converted collection does not validate: %v", err)
	}
}

func TestConvertFile_Errors(t *testing.T) {
	if _, err := NewConverter().ConvertFile(filepath.Join(t.TempDir(), "missing.sh")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.sh")
	if err := os.WriteFile(path, []byte("curl -X GET\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewConverter().ConvertFile(path); err == nil {
		t.Error("expected error for command without URL")
	}
}
