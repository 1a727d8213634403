package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ganot/fleetmaint/internal/app"
	"github.com/ganot/fleetmaint/internal/config"
	"github.com/ganot/fleetmaint/internal/extract"
	"github.com/ganot/fleetmaint/internal/mcp"
	"github.com/ganot/fleetmaint/internal/metrics"
	"github.com/ganot/fleetmaint/internal/mongostore"
	"github.com/ganot/fleetmaint/internal/sqlite"
	"github.com/ganot/fleetmaint/internal/transport"
	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        config.Config
	logger     *slog.Logger
	logCloser  io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "fleetmaint",
	Short: "Weekly maintenance schedule consolidation and equipment status server",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := os.Setenv("FLEETMAINT_CONFIG_PATH", configPath); err != nil {
				return err
			}
		}
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		cfg = loaded
		logger, logCloser = newLogger(cfg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the server over HTTP or stdio",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables or indexes for the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, closeStores, err := openStores(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStores()
		fmt.Fprintf(cmd.OutOrStdout(), "%s store is up to date\n", cfg.Store.Backend)
		return nil
	},
}

var apiKeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage operator API keys",
}

var (
	keyOperator    string
	keyDescription string
	keyToken       string
)

var apiKeyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Issue a bearer token for an operator",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(keyOperator) == "" {
			return errors.New("--operator is required")
		}
		stores, closeStores, err := openStores(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStores()

		token := keyToken
		if token == "" {
			token = "fm_" + strings.ReplaceAll(uuid.NewString(), "-", "")
		}
		if err := stores.APIKeys.Create(cmd.Context(), token, keyOperator, keyDescription); err != nil {
			return fmt.Errorf("creating api key: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.RunE = runServe

	apiKeyCreateCmd.Flags().StringVar(&keyOperator, "operator", "", "operator the token authenticates as")
	apiKeyCreateCmd.Flags().StringVar(&keyDescription, "description", "", "free-form note stored with the key")
	apiKeyCreateCmd.Flags().StringVar(&keyToken, "token", "", "use this token instead of generating one")
	apiKeyCmd.AddCommand(apiKeyCreateCmd)

	rootCmd.AddCommand(serveCmd, migrateCmd, apiKeyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	stores, closeStores, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer closeStores()

	if cfg.Extraction.BaseURL == "" {
		logger.Warn("no extraction service configured, imports will fail")
	}
	extractor := extract.NewClient(cfg.Extraction.BaseURL, cfg.Extraction.APIKey,
		extract.WithTimeout(cfg.Extraction.Timeout))

	m := metrics.New("fleetmaint")
	services := app.NewServices(stores, app.Options{
		Extractor:     extractor,
		Metrics:       m,
		DefaultFleets: cfg.Fleets,
		MaxParallel:   cfg.Extraction.MaxParallel,
		Logger:        logger,
	})

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      services,
		Resolver:      stores.APIKeys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(mcpServer)
	}
	return runHTTPMode(mcpServer, mcp.NewHandler(services), stores, m)
}

func runStdioMode(mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run blocks until stdin closes or a signal arrives.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(mcpServer *sdkmcp.Server, handler *mcp.Handler, stores app.Stores, m *metrics.Metrics) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	authMiddleware := transport.StaticOperator(mcp.DefaultOperator)
	if cfg.Auth.Enabled {
		authMiddleware = transport.AuthMiddleware(stores.APIKeys)
	}

	httpServer := &http.Server{
		Addr: cfg.Addr(),
		Handler: transport.NewServer(handler, authMiddleware,
			transport.WithMCPHandler(mcpHandler),
			transport.WithMetricsHandler(m.Handler()),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", httpServer.Addr, "auth", cfg.Auth.Enabled, "store", cfg.Store.Backend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return waitForShutdown(httpServer, errCh)
}

// openStores connects the configured backend and prepares its schema.
func openStores(ctx context.Context) (app.Stores, func(), error) {
	switch cfg.Store.Backend {
	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		store, err := mongostore.Connect(connectCtx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
		if err != nil {
			return app.Stores{}, nil, fmt.Errorf("connecting to mongo: %w", err)
		}
		if err := store.EnsureIndexes(connectCtx); err != nil {
			store.Close(context.Background())
			return app.Stores{}, nil, fmt.Errorf("creating mongo indexes: %w", err)
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.Close(closeCtx); err != nil {
				logger.Error("closing mongo", "error", err)
			}
		}
		return app.MongoStores(store), closeFn, nil

	default:
		if err := ensureDBDir(cfg.DB.Path); err != nil {
			return app.Stores{}, nil, fmt.Errorf("preparing database path: %w", err)
		}
		db, err := sqlite.New(cfg.DB.Path)
		if err != nil {
			return app.Stores{}, nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return app.Stores{}, nil, fmt.Errorf("running migrations: %w", err)
		}
		return app.SQLiteStores(db), func() { db.Close() }, nil
	}
}

func newLogger(cfg config.Config) (*slog.Logger, io.Closer) {
	// stdout carries JSON-RPC in stdio mode.
	var w io.Writer = os.Stdout
	if cfg.Transport.Mode == "stdio" {
		w = os.Stderr
	}

	var closer io.Closer
	if logPath := os.Getenv("FLEETMAINT_LOG_PATH"); logPath != "" {
		file, err := openCappedLog(logPath, defaultLogLimit, defaultLogKeep)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			w = file
			closer = file
		}
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	})), closer
}

func ensureDBDir(path string) error {
	if path == "" || strings.HasPrefix(path, ":memory:") || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(server *http.Server, errCh <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
