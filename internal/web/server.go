// Package web serves the browser UI over the shared session.
package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hpungsan/pintree/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// NewServer creates and configures the HTTP server for the web UI.
func NewServer(sess *session.Session, logger *zap.Logger, version, bind string, port int) (*http.Server, error) {
	handler, err := NewHandler(sess, logger, version)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:              net.JoinHostPort(bind, fmt.Sprint(port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// NewHandler builds the router with every page, API and static route.
func NewHandler(sess *session.Session, logger *zap.Logger, version string) (http.Handler, error) {
	// Create sub-FS for templates (strip "templates/" prefix)
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create template sub-FS: %w", err)
	}
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to create static sub-FS: %w", err)
	}

	h := &Handlers{
		sess:     sess,
		logger:   logger,
		renderer: NewRenderer(templateSub, version, logger),
	}

	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		requestLogger(logger),
		middleware.Recoverer,
		securityHeaders,
	)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/browse", http.StatusFound)
	})
	r.Get("/browse", h.HandleBrowse)
	r.Get("/search", h.HandleSearch)
	r.Get("/outline", h.HandleOutline)
	r.Get("/stats", h.HandleStats)
	r.Post("/reload", h.HandleReload)

	r.Route("/api", func(r chi.Router) {
		r.Get("/view", h.HandleAPIView)
		r.Get("/status", h.HandleAPIStatus)
	})

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return r, nil
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'; img-src 'self' https: data:")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func Run(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	srv.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("pintree UI running", zap.String("url", "http://"+srv.Addr))
	if host, _, _ := net.SplitHostPort(srv.Addr); host == "" || host == "0.0.0.0" || strings.Contains(host, "::") {
		logger.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
