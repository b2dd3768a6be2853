package server

import (
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

// withHeaders finalizes every response: the content-type correction and
// the CORS headers are applied after the file handler has queued its own
// headers, whatever the method or status. It also writes the access log.
func withHeaders(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqPath := r.URL.Path

		rw := newResponseWriter(w, func(h http.Header, _ int) {
			setContentType(h, reqPath)
			setCORS(h)
		})
		next.ServeHTTP(rw, r)

		// A handler that wrote nothing still gets the headers.
		if !rw.wroteHeader {
			rw.WriteHeader(http.StatusOK)
		}

		logger.Info("request",
			"method", r.Method,
			"path", reqPath,
			"status", rw.status,
			"duration", time.Since(start),
		)
	})
}

// gzipResponseWriter wraps the underlying ResponseWriter to enable Gzip compression
type gzipResponseWriter struct {
	http.ResponseWriter
	gz          *gzip.Writer
	wroteHeader bool
	passthrough bool // bodiless status, write straight through
}

func (w *gzipResponseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	if code == http.StatusNoContent || code == http.StatusNotModified {
		w.passthrough = true
		w.Header().Del("Content-Encoding")
	}
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(code)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.passthrough {
		return w.ResponseWriter.Write(b)
	}
	return w.gz.Write(b)
}

func (w *gzipResponseWriter) close() error {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.passthrough {
		return nil
	}
	return w.gz.Close()
}

// gzipHandler compresses GET responses for clients that accept gzip.
// Range requests are left alone since byte ranges refer to the raw file.
func gzipHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")
		if r.Method != http.MethodGet || r.Header.Get("Range") != "" ||
			!strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Encoding", "gzip")
		gzw := &gzipResponseWriter{ResponseWriter: w, gz: gzip.NewWriter(w)}
		defer func() { _ = gzw.close() }()
		next.ServeHTTP(gzw, r)
	})
}

// cacheControl sets Cache-Control by asset kind: fingerprinted files are
// immutable, HTML is never cached, anything else is cached briefly.
func cacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		filename := path.Base(p)
		switch {
		case isHashedAsset(filename):
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case strings.HasSuffix(p, "/") || strings.HasSuffix(filename, ".html"):
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		default:
			w.Header().Set("Cache-Control", "public, max-age=60")
		}
		next.ServeHTTP(w, r)
	})
}

// isHashedAsset checks if filename contains a content hash (e.g., app.a1b2c3d4.js)
func isHashedAsset(filename string) bool {
	parts := strings.Split(filename, ".")
	if len(parts) < 3 {
		return false
	}
	hashPart := parts[len(parts)-2]
	if len(hashPart) < 8 || len(hashPart) > 12 {
		return false
	}
	for _, c := range hashPart {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
