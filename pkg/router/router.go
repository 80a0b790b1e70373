package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sales-analytics/pkg/logger"
)

// shutdownTimeout bounds how long Start waits for in-flight requests.
const shutdownTimeout = 10 * time.Second

type Router struct {
	mux    *chi.Mux
	log    *logger.Logger
	routes []string // "METHOD PATH", in registration order
}

// New returns a router that tags each request with an ID, recovers panics
// and logs every request through log.
func New(log *logger.Logger) *Router {
	if log == nil {
		log = logger.Nop()
	}
	r := &Router{mux: chi.NewRouter(), log: log}
	r.mux.Use(middleware.RequestID)
	r.mux.Use(middleware.Recoverer)
	r.mux.Use(r.logRequests)
	return r
}

// --- Register paths ---
func (r *Router) register(method, path string, handler http.HandlerFunc) {
	r.mux.MethodFunc(method, path, handler)
	r.routes = append(r.routes, method+" "+path)
}

func (r *Router) GET(path string, handler http.HandlerFunc)  { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler http.HandlerFunc) { r.register(http.MethodPost, path, handler) }

// Handle mounts h for every method on path.
func (r *Router) Handle(path string, h http.Handler) {
	r.mux.Handle(path, h)
	r.routes = append(r.routes, "* "+path)
}

// Routes lists the registered routes.
func (r *Router) Routes() []string {
	return append([]string(nil), r.routes...)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// --- Start server ---

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (r *Router) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.log.InfoFields(ctx, "server started", map[string]any{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	r.log.Info(ctx, "server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// logRequests records method, path, status and latency of each request.
func (r *Router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ctx := req.Context()
		if id := middleware.GetReqID(ctx); id != "" {
			ctx = r.log.WithField(ctx, "request_id", id)
			req = req.WithContext(ctx)
		}

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		r.log.Request(ctx, req.Method, req.URL.Path, status, time.Since(start))
	})
}
