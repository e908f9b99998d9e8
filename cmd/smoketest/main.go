// Command smoketest walks a running pharmacy API end to end and reports
// how many checks passed. It exits non-zero when any check fails.
package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"gkmedicos/api/internal/config"
	"gkmedicos/api/internal/logging"
	"gkmedicos/api/internal/smoke"
)

func main() {
	baseURL := flag.String("base-url", "http://localhost:8001", "root URL of the API under test")
	timeout := flag.Duration("timeout", smoke.DefaultTimeout, "per-request timeout")
	flag.Parse()

	cfg := config.Load()
	logger, err := logging.Init(cfg.LogMode, "")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	for _, w := range cfg.Warnings {
		zap.S().Warn(w)
	}

	zap.S().Infof("running pharmacy API smoke tests against %s", *baseURL)
	fixture := &smoke.Fixture{Creds: smoke.Credentials{
		OwnerEmail:    cfg.OwnerEmail,
		OwnerPassword: cfg.OwnerPassword,
		StaffEmail:    cfg.StaffEmail,
		StaffPassword: cfg.StaffPassword,
	}}
	report := smoke.Run(context.Background(), smoke.NewClient(*baseURL, *timeout), fixture, smoke.DefaultCases())
	if report.Failed > 0 {
		logger.Sync()
		os.Exit(1)
	}
}
