// Package server implements the local development static file server.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net"
	"net/http"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/h5dev/internal/config"
)

// Server serves files from a document root.
type Server struct {
	cfg    config.ServerConfig
	files  http.FileSystem
	dirs   http.Handler
	logger *slog.Logger
}

// New creates a server over root. Paths are resolved relative to the top
// of root, so callers normally pass the result of OSRoot.
func New(cfg config.ServerConfig, root afero.Fs, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Index == "" {
		cfg.Index = "index.html"
	}

	// Force register the WASM mime type
	_ = mime.AddExtensionType(".wasm", "application/wasm")

	files := afero.NewHttpFs(root).Dir("/")
	return &Server{
		cfg:    cfg,
		files:  files,
		dirs:   http.FileServer(files),
		logger: logger,
	}
}

// OSRoot returns a read-only filesystem confined to dir on local disk.
func OSRoot(dir string) afero.Fs {
	return afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	var h http.Handler = http.HandlerFunc(s.serveFile)
	if s.cfg.CacheHeaders {
		h = cacheControl(h)
	}
	if s.cfg.Gzip {
		h = gzipHandler(h)
	}
	return withHeaders(s.logger, h)
}

// resolve maps the request path to the file to open. The root is rewritten
// to the default document in place; the client is not redirected.
func (s *Server) resolve(p string) string {
	if p == "/" {
		return "/" + s.cfg.Index
	}
	return p
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	default:
		http.Error(w, "501 - Unsupported method ("+r.Method+")", http.StatusNotImplemented)
		return
	}

	name := s.resolve(r.URL.Path)
	f, err := s.files.Open(name)
	if err != nil {
		s.writeOpenError(w, name, err)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		s.writeOpenError(w, name, err)
		return
	}

	// Directories keep the stock behaviour: trailing-slash redirect,
	// index.html lookup, listing.
	if info.IsDir() {
		s.dirs.ServeHTTP(w, r)
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (s *Server) writeOpenError(w http.ResponseWriter, name string, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		http.Error(w, "404 - Page Not Found", http.StatusNotFound)
	case errors.Is(err, fs.ErrPermission):
		http.Error(w, "403 - Forbidden", http.StatusForbidden)
	default:
		s.logger.Error("Failed to open file", "path", name, "error", err)
		http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
	}
}

// Listen binds the configured address. Failing to bind is fatal for the
// caller; nothing has been served yet.
func (s *Server) Listen() (net.Listener, error) {
	addr := s.cfg.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return ln, nil
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// within the configured timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Debug("Shutting down HTTP server", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
