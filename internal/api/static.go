package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var mimeTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".png":  "image/png",
	".ico":  "image/x-icon",
	".txt":  "text/plain; charset=utf-8",
}

func sendText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

// safePath resolves urlPath under root. It returns "" when the cleaned path
// would leave root.
func safePath(root, urlPath string) string {
	if strings.ContainsRune(urlPath, 0) {
		return ""
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return ""
	}
	target := filepath.Join(absRoot, filepath.FromSlash(strings.TrimLeft(urlPath, "/")))
	rel, err := filepath.Rel(absRoot, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return target
}

// static serves files under WebRoot; "/" and "/admin" map to the two pages.
func (h *Handler) static() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			sendText(w, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}
		p := r.URL.Path
		switch p {
		case "", "/":
			p = "/index.html"
		case "/admin":
			p = "/admin.html"
		}
		target := safePath(h.WebRoot, p)
		if target == "" {
			sendText(w, http.StatusBadRequest, "Bad Request")
			return
		}
		content, err := os.ReadFile(target)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				h.logger().Debug("static read failed", zap.String("path", target), zap.Error(err))
			}
			sendText(w, http.StatusNotFound, "Not Found")
			return
		}
		ctype, ok := mimeTypes[strings.ToLower(filepath.Ext(target))]
		if !ok {
			ctype = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ctype)
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(content)
	})
}
