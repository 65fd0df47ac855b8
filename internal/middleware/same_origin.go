package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// SameOrigin refuses browser requests sent from any origin but the one of
// publicURL. Requests without an Origin header are let through.
func SameOrigin(publicURL string) func(http.Handler) http.Handler {
	allowed := originOf(publicURL)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowed == "" || !strings.EqualFold(origin, allowed)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"origin not allowed","code":"OriginNotAllowed"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// originOf reduces a URL to scheme://host[:port]
func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
