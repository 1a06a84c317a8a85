/*
main.go - Application entry point

PURPOSE:
  Starts the STIR scenario engine server, or prices a scenario file from
  the command line. Handles configuration, dependency injection, and
  graceful shutdown.

COMMANDS:
  serve     Run the HTTP API (default when no command is given)
  curve     Print the daily rate curve for a scenario as JSON
  market    Print the derived instruments for a scenario as JSON

STARTUP SEQUENCE (serve):
  1. Load configuration (file, STIR_* environment, defaults)
  2. Initialize SQLite store and seed the default scenario
  3. Resolve the holiday calendar (live, cached, or static)
  4. Optionally scrape the FOMC calendar
  5. Configure HTTP router and start the server

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection

EXAMPLES:
  # Run with file database
  ./server serve --config ./config.yaml

  # Run in memory without network lookups
  STIR_STORE_PATH=":memory:" STIR_HOLIDAYS_OFFLINE=true ./server serve

  # Price a scenario file
  ./server market --scenario ./scenarios/hiking.yaml

SEE ALSO:
  - config/config.go: Configuration keys
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/warp/stir-engine/api"
	"github.com/warp/stir-engine/config"
	"github.com/warp/stir-engine/curve"
	"github.com/warp/stir-engine/fomc"
	"github.com/warp/stir-engine/holidays"
	"github.com/warp/stir-engine/instruments"
	"github.com/warp/stir-engine/scenario"
	"github.com/warp/stir-engine/store/sqlite"
)

var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stir-engine",
	Short: "SOFR futures scenario engine",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		var err error
		if cfg, err = config.Load(path); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (optional)")

	curveCmd.Flags().String("scenario", "", "scenario YAML file (default: base case)")
	marketCmd.Flags().String("scenario", "", "scenario YAML file (default: base case)")

	rootCmd.AddCommand(serveCmd, curveCmd, marketCmd)
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cfg.Log.Level)
		defer logger.Sync()
		return serve(cmd.Context(), logger)
	},
}

func serve(ctx context.Context, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Initialize store
	store, err := sqlite.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	if err := scenario.Seed(ctx, store); err != nil {
		return fmt.Errorf("failed to seed default scenario: %w", err)
	}

	resolver := holidays.NewResolver(holidaySource(), store, cfg.Holidays.Years, logger)
	resolver.Refresh(ctx)

	calendar := fomc.NewCalendar(cfg.FOMC.URL, cfg.FOMC.Timeout, logger)
	if cfg.FOMC.Refresh {
		// Static dates stay in place on failure; Refresh logs it.
		_ = calendar.Refresh(ctx)
	}

	handler := api.NewHandler(store, resolver, calendar, logger).WithCacheTTL(cfg.Server.CacheTTL)
	router := api.NewRouter(handler, api.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
		RateBurst:   cfg.Server.RateBurst,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr), zap.String("store", cfg.Store.Path))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// holidaySource is nil when offline, which sends the resolver straight
// to its cache and static fallback.
func holidaySource() holidays.Source {
	if cfg.Holidays.Offline {
		return nil
	}
	return holidays.NewClient(cfg.Holidays.URL, cfg.Holidays.Timeout)
}

// --- Curve / Market Commands ---

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the daily rate curve for a scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, hs, err := loadForCLI(cmd)
		if err != nil {
			return err
		}
		return printJSON(cmd, curve.Generate(s, hs))
	},
}

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Print the derived instruments for a scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, hs, err := loadForCLI(cmd)
		if err != nil {
			return err
		}
		return printJSON(cmd, instruments.Analyze(s, hs).Market)
	},
}

// loadForCLI reads the --scenario file (or the base case) and resolves
// holidays without a cache.
func loadForCLI(cmd *cobra.Command) (curve.Scenario, []curve.Holiday, error) {
	s := scenario.Default()
	if path, _ := cmd.Flags().GetString("scenario"); path != "" {
		var err error
		if s, err = scenario.LoadFile(path); err != nil {
			return curve.Scenario{}, nil, err
		}
	}

	logger := newLogger(cfg.Log.Level)
	defer logger.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	resolver := holidays.NewResolver(holidaySource(), nil, cfg.Holidays.Years, logger)
	resolver.Refresh(ctx)
	hs, _ := resolver.Current()
	return s, hs, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newLogger writes JSON logs to stderr so curve/market output stays
// clean on stdout.
func newLogger(level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
