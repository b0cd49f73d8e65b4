package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/htmlgrade/internal/config"
)

// indexPage is the file name served for a directory.
const indexPage = "/index.html"

// Timeouts applied to the HTTP server.
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server serves one HTML page at "/" and static assets everywhere else.
type Server struct {
	cfg    *config.ServerConfig
	logger *slog.Logger
}

// New creates a Server. A nil logger falls back to slog.Default().
func New(cfg *config.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
	}
}

// Handler returns the routing handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.Handle("/", s.staticHandler())
	return s.logRequests(mux)
}

// handleRoot writes the index file verbatim. The file is read on every
// request, so edits on disk show up immediately.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	content, err := os.ReadFile(s.cfg.IndexFile)
	if err != nil {
		s.logger.Error("failed to read index file",
			"path", s.cfg.IndexFile,
			"error", err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(content); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}

// staticHandler serves files below StaticDir with content types inferred
// from the extension or content. Methods other than GET and HEAD get 404.
func (s *Server) staticHandler() http.Handler {
	fsys := assetFS{fsys: os.DirFS(s.cfg.StaticDir)}
	files := http.FileServerFS(fsys)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		// FileServer redirects ".../index.html" to ".../".
		if strings.HasSuffix(r.URL.Path, indexPage) {
			serveFile(w, r, fsys, strings.TrimPrefix(r.URL.Path, "/"))
			return
		}
		files.ServeHTTP(w, r)
	})
}

// serveFile writes the regular file name from fsys, or 404.
func serveFile(w http.ResponseWriter, r *http.Request, fsys fs.FS, name string) {
	f, err := fsys.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	content, ok := f.(io.ReadSeeker)
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), content)
}

// ListenAndServe binds the configured port and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. A nil error means a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	port := ""
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = strconv.Itoa(addr.Port)
	}
	s.logger.Info("server is running",
		"addr", "localhost:"+port,
		"index", s.cfg.IndexFile,
		"static", s.cfg.StaticDir,
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
