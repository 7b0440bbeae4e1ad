package application

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/container-packer/internal/api"
	"github.com/eugenenazirov/container-packer/internal/config"
	"github.com/eugenenazirov/container-packer/internal/metrics"
	"github.com/eugenenazirov/container-packer/internal/packing"
	"github.com/eugenenazirov/container-packer/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage  storage.Storage
	packer   packing.Packer
	recorder *metrics.Recorder
	handler  *api.Handler
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage(storage.WithDefaultContainer(cfg.Container))
	packer := packing.New(cfg.Packing.Options()...)
	recorder := metrics.New()

	handler := api.NewHandler(packer, store,
		api.WithLogger(logger),
		api.WithMetrics(recorder),
		api.WithMaxUnits(cfg.Packing.MaxUnits),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	rootHandler, err := BuildRootHandler(apiRouter)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP handler: %w", err)
	}

	logger.Info("packing engine configured",
		zap.Float64("grid_step", cfg.Packing.GridStep),
		zap.Float64("horizontal_gap", cfg.Packing.HorizontalGap),
		zap.Int("max_units", cfg.Packing.MaxUnits),
		zap.Float64("container_length", cfg.Container.Length),
		zap.Float64("container_width", cfg.Container.Width),
		zap.Float64("container_height", cfg.Container.Height),
	)

	return &App{
		storage:  store,
		packer:   packer,
		recorder: recorder,
		handler:  handler,
		router:   apiRouter,
		logger:   logger,
		server:   NewServer(cfg, rootHandler),
	}, nil
}

// BuildRootHandler constructs the root HTTP handler that serves the editor page,
// its static assets, and routes API and metrics requests.
func BuildRootHandler(apiHandler http.Handler) (http.Handler, error) {
	mux := http.NewServeMux()

	staticPath, err := resolveProjectPath(filepath.Join("web", "static"))
	if err != nil {
		return nil, err
	}
	staticDir := http.Dir(staticPath)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(staticDir)))
	mux.Handle("/api/", apiHandler)
	mux.Handle("/metrics", apiHandler)

	indexPath, err := resolveProjectPath(filepath.Join("web", "templates", "index.html"))
	if err != nil {
		return nil, err
	}
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, indexPath)
	}))

	return mux, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start binds the listen address and serves HTTP in a goroutine. Bind errors
// are returned to the caller.
func (a *App) Start() error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}

	go func() {
		a.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// resolveProjectPath locates a file or directory relative to the project root by walking up the directory tree.
func resolveProjectPath(relative string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, relative)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("unable to locate %s", relative)
}
