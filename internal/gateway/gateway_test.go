package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GATEWAY_ROUTES", "")
	t.Setenv("BACKEND_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	require.Len(t, cfg.Routes, 1)
	assert.Equal(t, "/api", cfg.Routes[0].Prefix)
	assert.Equal(t, "http://localhost:3000", cfg.Routes[0].Upstream)
}

func TestLoadConfig_RouteTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	table := `[
		{"prefix": "/api/v1/books", "upstream": "http://books:3001"},
		{"prefix": "/api/v1/orders", "upstream": "http://orders:3002"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(table), 0o600))
	t.Setenv("GATEWAY_ROUTES", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Len(t, cfg.Routes, 2)
	assert.Equal(t, "/api/v1/books", cfg.Routes[0].Prefix)
	assert.Equal(t, "http://orders:3002", cfg.Routes[1].Upstream)
}

func TestLoadConfig_InvalidRouteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")

	for name, table := range map[string]string{
		"empty":         `[]`,
		"bad prefix":    `[{"prefix": "api", "upstream": "http://x:1"}]`,
		"no upstream":   `[{"prefix": "/api"}]`,
		"malformed doc": `{{`,
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, os.WriteFile(path, []byte(table), 0o600))
			t.Setenv("GATEWAY_ROUTES", path)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestGatewayForwardsCookieAndPath(t *testing.T) {
	// Backend echoes back what it received
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"path":          r.URL.Path,
			"query":         r.URL.RawQuery,
			"cookie":        r.Header.Get("Cookie"),
			"authorization": r.Header.Get("Authorization"),
		})
	}))
	defer backend.Close()

	app := New(&Config{
		Port:           "8080",
		AllowedOrigins: "*",
		Routes:         []Route{{Prefix: "/api", Upstream: backend.URL}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books?page=2", nil)
	req.Header.Set("Cookie", "access_token=abc123; theme=dark")
	req.Header.Set("Authorization", "Bearer xyz")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var echoed map[string]string
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &echoed))

	assert.Equal(t, "/api/v1/books", echoed["path"], "path survives the hop")
	assert.Equal(t, "page=2", echoed["query"])
	assert.Equal(t, "access_token=abc123; theme=dark", echoed["cookie"], "cookie header forwarded verbatim")
	assert.Equal(t, "Bearer xyz", echoed["authorization"])
}

func TestGatewayPreservesStatusCodes(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"message":"Book is not available"}`))
	}))
	defer backend.Close()

	app := New(&Config{
		AllowedOrigins: "*",
		Routes:         []Route{{Prefix: "/api", Upstream: backend.URL}},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "upstream status passes through")
}

func TestGatewayDeadUpstream(t *testing.T) {
	app := New(&Config{
		AllowedOrigins: "*",
		Routes:         []Route{{Prefix: "/api", Upstream: "http://127.0.0.1:1"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var env struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &env))
	assert.False(t, env.Success)
}

func TestGatewayHealth(t *testing.T) {
	app := New(&Config{
		AllowedOrigins: "*",
		Routes:         []Route{{Prefix: "/api", Upstream: "http://127.0.0.1:1"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
