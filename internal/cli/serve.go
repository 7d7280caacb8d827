package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lorevec/internal/adapter/cache"
	"lorevec/internal/adapter/tokenizer"
	"lorevec/internal/server"
	"lorevec/internal/usecase"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin HTTP server",
	Long: `Serve the operator HTTP surface: /health, /search, /activate,
/entries and POST /reindex.

Examples:
  lorevec serve
  lorevec serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.ListenAddr
	}

	logger := newLogger(cfg.Logging.Level)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctxCache := cache.NewContextCache(time.Duration(cfg.Cache.TTL), time.Duration(cfg.Cache.SweepInterval))
	defer ctxCache.Stop()

	svc, err := newSearchService(cfg, st, ctxCache)
	if err != nil {
		return err
	}
	activator := usecase.NewActivator(svc, ctxCache, cfg.Retrieve.Limit, cfg.Retrieve.Threshold)
	tokens := usecase.NewTokenBudget(tokenizer.NewEstimator(), ctxCache)

	srv := server.New(server.Options{
		Activator:        activator,
		Search:           svc,
		Lore:             st,
		Tokens:           tokens,
		Logger:           logger,
		DefaultLimit:     cfg.Retrieve.Limit,
		DefaultThreshold: cfg.Retrieve.Threshold,
	})

	logger.Info("starting lorevec server", "addr", addr, "embeddings", svc.Initialized())
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
