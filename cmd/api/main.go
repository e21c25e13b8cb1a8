package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/portvakt/portvakt/internal/config"
	"github.com/portvakt/portvakt/internal/database"
	"github.com/portvakt/portvakt/internal/logger"
	"github.com/portvakt/portvakt/internal/server"
	"github.com/portvakt/portvakt/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log().WithError(err).Fatal("load config")
	}

	// Log to both stdout and a rotated file next to the data stores.
	logDir := filepath.Dir(cfg.CallLogPath)
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "gate_control.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(cfg.LogLevel, io.MultiWriter(os.Stdout, rotator))

	logger.WithFields(map[string]interface{}{
		"version": version.Full(),
		"port":    cfg.HTTPPort,
	}).Infof("Starting %s", version.Name)

	if cfg.HomeAssistantURL == "" || cfg.HomeAssistantWebhookID == "" {
		logger.Log().Warn("Home Assistant webhook not configured, gate triggers will fail")
	}
	if cfg.JWTSecret == "" {
		logger.Log().Warn("GATE_JWT_SECRET not set, admin sessions use an empty signing key")
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Log().WithError(err).Fatal("connect database")
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		logger.Log().WithError(err).Fatal("build server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Log().WithError(err).Fatal("server error")
	}
}
