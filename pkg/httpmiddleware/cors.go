package httpmiddleware

import (
	"net/http"
	"strings"
)

// MCP streamable HTTP headers a browser client must be allowed to send and read.
const (
	HeaderMCPSession  = "Mcp-Session-Id"
	HeaderMCPProtocol = "Mcp-Protocol-Version"
)

var (
	corsAllowMethods  = "GET, POST, DELETE, OPTIONS"
	corsAllowHeaders  = strings.Join([]string{"Content-Type", "Accept", "Last-Event-ID", HeaderMCPSession, HeaderMCPProtocol, HeaderRequestID}, ", ")
	corsExposeHeaders = strings.Join([]string{HeaderMCPSession, HeaderRequestID}, ", ")
)

// CORS lets browser-based MCP clients served from origins reach the server.
// With no origins the middleware is a no-op; "*" allows any origin. Matching
// is case-insensitive and the configured spelling is echoed back.
func CORS(origins []string) Middleware {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	var allowAll bool
	allowed := make(map[string]string, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.ToLower(o)] = o
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if !allowAll {
				h.Add("Vary", "Origin")
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowOrigin := "*"
			if !allowAll {
				allowOrigin = allowed[strings.ToLower(origin)]
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Add("Vary", "Access-Control-Request-Method")
				h.Add("Vary", "Access-Control-Request-Headers")
				if allowOrigin != "" {
					h.Set("Access-Control-Allow-Origin", allowOrigin)
					h.Set("Access-Control-Allow-Methods", corsAllowMethods)
					h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
					h.Set("Access-Control-Max-Age", "600")
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if allowOrigin != "" {
				h.Set("Access-Control-Allow-Origin", allowOrigin)
				h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			}
			next.ServeHTTP(w, r)
		})
	}
}
