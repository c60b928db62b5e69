package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func sizesBackend(t *testing.T, posts *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sizes/", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `[{"id":"s1","label":"M"}]`)
		case http.MethodPost:
			posts.Add(1)
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["label"] == "FAIL" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			body["id"] = "id-" + body["label"].(string)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(body)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestList(t *testing.T) {
	var posts atomic.Int32
	srv := sizesBackend(t, &posts)

	out, err := run(t, "", "--api-url", srv.URL, "sizes", "list")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"s1","label":"M"}]`, out)
}

func TestCreate_FromFile(t *testing.T) {
	var posts atomic.Int32
	srv := sizesBackend(t, &posts)

	file := filepath.Join(t.TempDir(), "sizes.json")
	require.NoError(t, os.WriteFile(file, []byte(`[{"label":"XXL"},{"label":"4XL"}]`), 0o600))

	out, err := run(t, "", "--api-url", srv.URL, "sizes", "create", "-f", file)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"id-XXL","label":"XXL"},{"id":"id-4XL","label":"4XL"}]`, out)
	assert.Equal(t, int32(2), posts.Load())
}

func TestCreate_FromStdin(t *testing.T) {
	var posts atomic.Int32
	srv := sizesBackend(t, &posts)

	out, err := run(t, `[{"label":"S"}]`, "--api-url", srv.URL, "sizes", "create", "--file=-")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"id-S","label":"S"}]`, out)
}

func TestCreate_FailsBatch(t *testing.T) {
	var posts atomic.Int32
	srv := sizesBackend(t, &posts)

	out, err := run(t, `[{"label":"S"},{"label":"FAIL"}]`, "--api-url", srv.URL, "sizes", "create", "--file=-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BackendUnavailable: create_many size: item 1")
	assert.Empty(t, out)
	assert.Equal(t, int32(2), posts.Load())
}

func TestCreate_BestEffort(t *testing.T) {
	var posts atomic.Int32
	srv := sizesBackend(t, &posts)

	out, err := run(t, `[{"label":"S"},{"label":"FAIL"}]`,
		"--api-url", srv.URL, "sizes", "create", "--file=-", "--best-effort")
	require.Error(t, err)
	assert.Equal(t, "1 of 2 sizes failed", err.Error())

	var outcomes []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &outcomes))
	require.Len(t, outcomes, 2)
	assert.Equal(t, true, outcomes[0]["ok"])
	assert.Equal(t, false, outcomes[1]["ok"])
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	var posts atomic.Int32
	srv := sizesBackend(t, &posts)

	_, err := run(t, `[{"label":"S"},{"label":7}]`, "--api-url", srv.URL, "sizes", "create", "--file=-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size[1]: label: expected string, got number")

	_, err = run(t, `{"label":"S"}`, "--api-url", srv.URL, "sizes", "create", "--file=-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected array")

	assert.Zero(t, posts.Load())
}

func TestMissingAPIURL(t *testing.T) {
	t.Setenv("MEMCOMMERCE_API_URL", "")

	_, err := run(t, "", "sizes", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api url is required")
}

func TestVersion(t *testing.T) {
	t.Setenv("MEMCOMMERCE_API_URL", "")

	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "memctl "))
}
