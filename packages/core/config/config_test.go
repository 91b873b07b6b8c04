package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ahttp "github.com/Muradian-OSP/Ababil-Studio/packages/http"
	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.IsDefault())
	assert.True(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.False(t, cfg.GetVerbose())
	assert.Equal(t, 30*time.Second, cfg.TimeoutDuration())
	assert.Equal(t, 1, cfg.Iterations)
}

func TestGetBool_NilFallsBack(t *testing.T) {
	cfg := &Config{}
	assert.True(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.False(t, cfg.GetNoColor())
}

func TestFindAndLoadConfig_NoFile(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.IsDefault())
}

func TestFindAndLoadConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".ababil.json", `{"timeout": 5000, "followRedirects": false, "userAgent": "ababil-test"}`)

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.TimeoutDuration())
	assert.False(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL(), "unset values keep their defaults")
	assert.Equal(t, "ababil-test", cfg.UserAgent)
	assert.Equal(t, 10, cfg.MaxRedirects)
}

func TestFindAndLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".ababil.yml", "validateSSL: false\ndelay: 250\niterations: 3\nhistoryPath: /tmp/h.db\n")

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.False(t, cfg.GetValidateSSL())
	assert.Equal(t, 250*time.Millisecond, cfg.DelayDuration())
	assert.Equal(t, 3, cfg.Iterations)
	assert.Equal(t, "/tmp/h.db", cfg.HistoryPath)
}

func TestFindAndLoadConfig_SearchOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".ababil.yaml", "timeout: 1000\n")
	writeFile(t, dir, "ababil.config.json", `{"timeout": 2000}`)

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 2000, cfg.Timeout)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.json", `{"timeout": "soon"}`)
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	badYAML := writeFile(t, dir, "bad.yaml", "timeout: [1\n")
	_, err = LoadConfig(badYAML)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Timeout:     1000,
		Verbose:     BoolPtr(true),
		ValidateSSL: BoolPtr(false),
		Proxy:       "http://proxy:8080",
	}

	merged := base.Merge(override)
	assert.Equal(t, 1000, merged.Timeout)
	assert.True(t, merged.GetVerbose())
	assert.False(t, merged.GetValidateSSL())
	assert.True(t, merged.GetFollowRedirects())
	assert.Equal(t, "http://proxy:8080", merged.Proxy)
	assert.Equal(t, 10, merged.MaxRedirects)

	assert.Equal(t, 30000, base.Timeout, "merge must not modify the receiver")
	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := DefaultConfig().Merge(&Config{Proxy: "http://p", NoColor: BoolPtr(true), Delay: 100})
			require.NoError(t, cfg.SaveConfig(path))

			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestClientOptions(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/redirect" {
			http.Redirect(w, r, "/final", http.StatusFound)
			return
		}
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := DefaultConfig().Merge(&Config{UserAgent: "cfg-agent", FollowRedirects: BoolPtr(false)})
	client := ahttp.NewClient(cfg.ClientOptions()...)

	resp, err := client.Execute(context.Background(), &postman.Request{
		URL: &postman.URL{Raw: postman.String(server.URL + "/redirect")},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	_, err = client.Execute(context.Background(), &postman.Request{
		URL: &postman.URL{Raw: postman.String(server.URL + "/final")},
	})
	require.NoError(t, err)
	assert.Equal(t, "cfg-agent", gotUA)
}
