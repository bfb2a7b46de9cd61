package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MalithGihan/costudi-service/internal/api"
	"github.com/MalithGihan/costudi-service/internal/config"
	"github.com/MalithGihan/costudi-service/internal/convert"
	"github.com/MalithGihan/costudi-service/internal/logging"
	"github.com/MalithGihan/costudi-service/internal/merge"
	"github.com/MalithGihan/costudi-service/internal/render"
	"github.com/MalithGihan/costudi-service/internal/server"
	"github.com/MalithGihan/costudi-service/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "costudi:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	fs, err := store.New(cfg.ScratchDir, log)
	if err != nil {
		return err
	}

	lo := render.New(render.ResolvePath(runtime.GOOS, cfg.RendererPath), cfg.RenderTimeout, log)
	if !lo.Available() {
		log.Warn("office renderer not found; office items will be skipped in merges", zap.String("path", lo.Path))
	}

	conv := convert.New(lo, log)
	h := api.NewHandler(conv, merge.New(conv, fs, log), fs, cfg.MaxUploadBytes(), log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(h, api.RouterOptions{RateLimitPerMinute: cfg.RateLimitPerMinute}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("costudi starting",
		zap.String("port", cfg.Port),
		zap.String("scratch", fs.Root),
		zap.String("renderer", lo.Path),
	)
	return server.Run(ctx, server.Options{Server: srv, ShutdownTimeout: cfg.ShutdownTimeout, Log: log})
}
