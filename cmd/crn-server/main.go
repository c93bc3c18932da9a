// Command crn-server exposes the reaction tools as an HTTP endpoint for
// agent frameworks.
//
// Usage:
//
//	crn-server --addr :8080 --config crn.yaml
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
// Metrics endpoint:   GET  /metrics
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/njchilds90/gocrn/internal/config"
	"github.com/njchilds90/gocrn/internal/logging"
	"github.com/njchilds90/gocrn/internal/server"
	"github.com/njchilds90/gocrn/internal/tool"
)

func main() {
	fs := pflag.NewFlagSet("crn-server", pflag.ExitOnError)
	configPath := fs.StringP("config", "c", "", "config file (YAML)")
	fs.String("addr", config.DefaultServerAddr, "listen address")
	fs.String("log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")
	fs.Int("precision", config.DefaultPrecision, "digits for float kinetic parameters")
	fs.Bool("rate", false, "show rates instead of kinetic parameters")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.LoadWithFlags(*configPath, fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, restore, err := logging.Install(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer restore()

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(tool.Options{ShowRate: cfg.Format.ShowRate, Precision: cfg.Format.Precision}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
		restore()
		os.Exit(1)
	}
}
