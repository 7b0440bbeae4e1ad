package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/container-packer/internal/application"
	"github.com/eugenenazirov/container-packer/internal/config"
	"github.com/eugenenazirov/container-packer/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("container-packer", "Container Packer - greedily packs an item list into a shipping container")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	logLevel := kingpinApp.Flag("log-level", "Minimum log level (debug, info, warn, error)").String()
	containerStr := kingpinApp.Flag("container", "Default container size in metres as LxWxH, e.g. 5.898x2.352x2.393").String()
	gridStepFlag := kingpinApp.Flag("grid-step", "Grid search step in metres").Default("-1").Float64()
	maxUnitsFlag := kingpinApp.Flag("max-units", "Maximum units per pack request (set 0 to disable)").Default("-1").Int()
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed per client (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := buildOverrides(*configFile, *port, *logLevel, *containerStr,
		*gridStepFlag, *maxUnitsFlag, *rateLimitRPSFlag, *rateLimitBurstFlag)

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(logging.WithLevel(cfg.LogLevel))
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

// buildOverrides turns parsed flag values into config overrides. Empty
// strings and negative numbers mean the flag was not set.
func buildOverrides(configFile, port, logLevel, containerStr string, gridStep float64, maxUnits int, rps float64, burst int) *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile: configFile,
	}

	if port != "" {
		overrides.Port = &port
	}

	if logLevel != "" {
		overrides.LogLevel = &logLevel
	}

	if containerStr != "" {
		overrides.ContainerStr = &containerStr
	}

	if gridStep >= 0 {
		overrides.GridStep = &gridStep
	}

	if maxUnits >= 0 {
		overrides.MaxUnits = &maxUnits
	}

	if rps >= 0 {
		overrides.RateLimitRPS = &rps
	}

	if burst >= 0 {
		overrides.RateLimitBurst = &burst
	}

	return overrides
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
