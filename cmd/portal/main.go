package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal-client/internal/app"
	"github.com/noah-isme/sma-portal-client/internal/devserver"
	"github.com/noah-isme/sma-portal-client/internal/handler"
	"github.com/noah-isme/sma-portal-client/pkg/config"
	"github.com/noah-isme/sma-portal-client/pkg/logger"
	"github.com/noah-isme/sma-portal-client/pkg/metrics"
	"github.com/noah-isme/sma-portal-client/pkg/storage"
)

var errHelp = errors.New("help provided")

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  portal shell [-base-url URL]                     - drive the portal from the terminal")
	fmt.Println("  portal devserver [-port N] [-upload-dir DIR]     - run the in-memory portal service")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr, os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		logr.Sugar().Fatalw("portal failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger, args []string) error {
	if len(args) < 2 {
		printUsage()
		return errHelp
	}

	switch args[1] {
	case "shell":
		shellCmd := flag.NewFlagSet("shell", flag.ExitOnError)
		baseURL := shellCmd.String("base-url", cfg.Portal.BaseURL, "Portal service base URL.")
		if err := shellCmd.Parse(args[2:]); err != nil {
			return err
		}
		return runShell(ctx, cfg, logr, *baseURL)
	case "devserver":
		devCmd := flag.NewFlagSet("devserver", flag.ExitOnError)
		port := devCmd.Int("port", cfg.DevServer.Port, "Listen port.")
		uploadDir := devCmd.String("upload-dir", cfg.DevServer.UploadDir, "Directory uploads are stored in.")
		if err := devCmd.Parse(args[2:]); err != nil {
			return err
		}
		cfg.DevServer.Port = *port
		cfg.DevServer.UploadDir = *uploadDir
		return runDevServer(ctx, cfg, logr)
	default:
		printUsage()
		return errHelp
	}
}

func runShell(ctx context.Context, cfg *config.Config, logr *zap.Logger, baseURL string) error {
	logr = logger.ForComponent(logr, logger.ComponentShell)
	shell := handler.NewShellHandler(os.Stdin, os.Stdout, logr)
	portal, err := app.New(app.Options{
		BaseURL:  baseURL,
		Dialog:   shell,
		Recorder: metrics.NewRecorder(cfg.Metrics.Namespace, "client"),
		Logger:   logr,
	})
	if err != nil {
		return err
	}
	logr.Sugar().Infow("shell starting", "base_url", baseURL)
	if err := shell.Run(ctx, portal); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDevServer(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	logr = logger.ForComponent(logr, logger.ComponentDevServer)
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store := devserver.NewStore()
	if cfg.DevServer.Seed {
		if err := store.Seed(); err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
	}
	uploads, err := storage.NewLocalStorage(cfg.DevServer.UploadDir, "uploads")
	if err != nil {
		return fmt.Errorf("prepare upload dir: %w", err)
	}

	router := devserver.NewRouter(devserver.Options{
		Store:            store,
		Uploads:          uploads,
		AllowedFileTypes: cfg.DevServer.AllowedFileTypes,
		AllowedOrigins:   cfg.DevServer.AllowedOrigins,
		Recorder:         metrics.NewRecorder(cfg.Metrics.Namespace, "devserver"),
		Logger:           logr,
		Docs:             cfg.Env != config.EnvProduction,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.DevServer.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("devserver starting", "addr", srv.Addr, "env", cfg.Env)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logr.Info("devserver shutting down")
	return srv.Shutdown(shutdownCtx)
}
