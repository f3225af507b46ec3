// Package main starts the in-memory stub backend for local development:
// the portfolio REST API, the upload endpoint and sandbox provisioning,
// seeded with demo content.
package main

import (
	"cmp"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ascollins/portfolioctl/internal/logger"
	"github.com/ascollins/portfolioctl/internal/stub"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	_ = godotenv.Load()

	var (
		addr  string
		token string
	)
	flag.StringVar(&addr, "a", "localhost:8080", "run on ip:port")
	flag.StringVar(&token, "token", "", "accepted bearer token (default: STUB_TOKEN env or \"dev-token\")")
	flag.Parse()

	if token == "" {
		token = cmp.Or(os.Getenv("STUB_TOKEN"), "dev-token")
	}

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	srv := stub.New(token, zapLogger)
	srv.Seed()

	zapLogger.Info("starting stub backend",
		zap.String("addr", addr),
		zap.String("token", token),
	)
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		zapLogger.Fatal("failed to start stub backend", zap.Error(err))
	}
}
