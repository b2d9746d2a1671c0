package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/psbfold/internal/cache"
	"github.com/ppiankov/psbfold/internal/model"
	"github.com/ppiankov/psbfold/internal/report"
	"golang.org/x/net/netutil"
)

const shutdownTimeout = 5 * time.Second

// Server serves a consolidation output directory for local preview
type Server struct {
	dir     string
	config  model.ServeConfig
	cache   *cache.MemoryCache
	limiter *Limiter
	logger  *slog.Logger
}

// NewServer creates a preview server for dir
func NewServer(dir string, cfg model.ServeConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		dir:     dir,
		config:  cfg,
		cache:   cache.NewMemoryCache(cfg.CacheTTL, time.Minute),
		limiter: NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		logger:  logger,
	}
}

// Handler returns the full handler chain: logging, rate limiting, routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/portfolio", s.handlePortfolio)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("GET /", http.FileServer(http.Dir(s.dir)))

	return s.logRequests(s.limiter.Middleware(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.config.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.config.MaxConns)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", ln.Addr().String(), "dir", s.dir)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("preview server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// handlePortfolio serves the structured export. The cache key follows the
// file version so a new consolidation run is picked up immediately.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(s.dir, report.JSONFile)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.Error(w, "no consolidation output found; run psb consolidate first", http.StatusNotFound)
			return
		}
		s.logger.Error("stat portfolio", "path", path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	key := cache.ArtifactKey(path, info.ModTime(), info.Size())
	data, hit, err := s.cache.GetOrLoad(key, 0, func() ([]byte, error) {
		return os.ReadFile(path)
	})
	if err != nil {
		s.logger.Error("read portfolio", "path", path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(data)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"client", clientHost(r),
			"duration", time.Since(start))
	})
}
