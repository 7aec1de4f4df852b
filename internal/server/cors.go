package server

import (
	"net/http"
	"slices"
	"strings"

	"github.com/k8ika0s/bounty-ledger/internal/config"
)

var (
	corsMethods = []string{"GET", "HEAD", "POST", "PUT", "OPTIONS"}
	corsHeaders = []string{"Content-Type", "Authorization"}
)

// withCORS allows the configured origins to call the API from a separately
// hosted viewer or admin page.
func withCORS(cfg config.Config, next http.Handler) http.Handler {
	if len(cfg.CORSOrigins) == 0 {
		return next
	}
	allowAny := slices.Contains(cfg.CORSOrigins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowAny || slices.Contains(cfg.CORSOrigins, origin)) {
			allowOrigin := origin
			if allowAny {
				allowOrigin = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", strings.Join(corsMethods, ", "))
			w.Header().Set("Access-Control-Allow-Headers", strings.Join(corsHeaders, ", "))
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
