package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/memcommerce-mcp/pkg/httpmiddleware"
)

type labelBody struct {
	label string
}

func (b labelBody) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("label")
	e.Str(b.label)
	e.ObjEnd()
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func requireBackendError(t *testing.T, err error) *Error {
	t.Helper()
	var berr *Error
	require.True(t, errors.As(err, &berr), "expected *backend.Error, got %T: %v", err, err)
	return berr
}

func TestNew_BaseURL(t *testing.T) {
	c, err := New("http://localhost:8000/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api", c.BaseURL())
	assert.Equal(t, "http://localhost:8000/api/product-variants/", c.URL("product-variants"))
	assert.Equal(t, "http://localhost:8000/api/sizes/", c.URL("/sizes/"))

	for _, bad := range []string{"", "localhost:8000", "ftp://host/", "http://"} {
		_, err := New(bad)
		assert.Error(t, err, "base url %q", bad)
	}
}

func TestDo_Get(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/sizes/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"s1","label":"M"}]`)
	})

	raw, err := c.Do(context.Background(), http.MethodGet, "sizes", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"s1","label":"M"}]`, string(raw))
}

func TestDo_PostBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"label":"XXL"}`, string(body))

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"s1","label":"XXL"}`)
	})

	raw, err := c.Do(context.Background(), http.MethodPost, "sizes", labelBody{label: "XXL"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"s1","label":"XXL"}`, string(raw))
}

func TestDo_PropagatesRequestID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-42", r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `[]`)
	})

	ctx := httpmiddleware.WithRequestID(context.Background(), "req-42")
	_, err := c.Do(ctx, http.MethodGet, "colors", nil)
	require.NoError(t, err)
}

func TestDo_NonSuccessStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"detail":"category_id does not exist"}`)
	})

	raw, err := c.Do(context.Background(), http.MethodPost, "products", labelBody{label: "x"})
	assert.Nil(t, raw)

	berr := requireBackendError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, berr.StatusCode)
	assert.Equal(t, http.MethodPost, berr.Method)
	assert.Equal(t, c.URL("products"), berr.URL)
	assert.ErrorIs(t, err, ErrStatus)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "category_id does not exist")
}

func TestDo_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html>Bad Gateway</html>`)
	})

	_, err := c.Do(context.Background(), http.MethodGet, "categories", nil)
	berr := requireBackendError(t, err)
	assert.Equal(t, http.StatusOK, berr.StatusCode)
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestDo_EmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := c.Do(context.Background(), http.MethodPost, "sizes", labelBody{label: "S"})
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestDo_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := New(addr)
	require.NoError(t, err)

	_, err = c.Do(context.Background(), http.MethodGet, "sizes", nil)
	berr := requireBackendError(t, err)
	assert.Zero(t, berr.StatusCode)
	assert.Contains(t, err.Error(), "send request")
}

func TestDo_Timeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		select {
		case <-release:
		case <-time.After(5 * time.Second):
		}
		_, _ = io.WriteString(w, `[]`)
	}, WithTimeout(50*time.Millisecond))

	_, err := c.Do(context.Background(), http.MethodGet, "sizes", nil)
	requireBackendError(t, err)
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	}, WithProbePath("/health"))

	require.NoError(t, c.Ping(context.Background()))
}

func TestError_BodySnippetTruncated(t *testing.T) {
	long := make([]byte, 2*maxBodySnippet)
	for i := range long {
		long[i] = 'x'
	}
	s := snippet(long)
	assert.Len(t, s, maxBodySnippet+3)
}
