// Command envcheck probes a deployed backend for health and CORS setup.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/AKhanjyan/WhiteShopML/internal/envcheck"
	"github.com/AKhanjyan/WhiteShopML/internal/logger"
)

func main() {
	_ = godotenv.Load()

	backend := flag.String("backend", os.Getenv("RENDER_BACKEND_URL"), "backend base URL")
	frontend := flag.String("frontend", os.Getenv("APP_URL"), "frontend origin expected in CORS headers")
	timeout := flag.Duration("timeout", envcheck.DefaultTimeout, "per-request timeout")
	verbose := flag.Bool("v", false, "log every request")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	if l, err := logger.Init(true, level); err == nil {
		defer func() { _ = l.Sync() }()
	}

	checker := envcheck.New(*backend, *frontend)
	checker.Client.Timeout = *timeout

	fmt.Printf("Backend:  %s\nFrontend: %s\n\n", checker.Backend, checker.Frontend)

	ctx, cancel := context.WithTimeout(context.Background(), 4*(*timeout))
	defer cancel()

	start := time.Now()
	report, err := checker.Run(ctx)
	if err != nil {
		zap.L().Error("[ENVCHECK] cannot run", zap.Error(err))
		fmt.Fprintln(os.Stderr, "set RENDER_BACKEND_URL or pass -backend")
		os.Exit(1)
	}

	report.Write(os.Stdout)
	zap.L().Debug("[ENVCHECK] done", zap.Duration("elapsed", time.Since(start)))

	if !report.OK() {
		os.Exit(1)
	}
}
