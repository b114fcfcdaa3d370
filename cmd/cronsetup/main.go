package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lifeos/backend/internal/infrastructure/config"
	"github.com/lifeos/backend/internal/infrastructure/cronapi"
	"github.com/lifeos/backend/internal/infrastructure/logger"
	"github.com/lifeos/backend/internal/interfaces/http/middleware"
)

func main() {
	var backendURL string
	flag.StringVar(&backendURL, "backend-url", "", "Public base URL of this backend, e.g. https://api.lifeos.app")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if backendURL == "" {
		log.Fatal("-backend-url is required")
	}
	if cfg.Cron.Token == "" {
		log.Fatal("cron.token must be configured before registering schedules")
	}
	backendURL = strings.TrimRight(backendURL, "/")

	headers := map[string]string{
		middleware.CronTokenHeader: cfg.Cron.Token,
	}
	schedules := []cronapi.Schedule{
		{
			Name:       "lifeos-expand-steps",
			Expression: "5 0 * * *",
			URL:        backendURL + "/api/v1/cron/expand-steps",
			Headers:    headers,
		},
		{
			Name:       "lifeos-send-reminders",
			Expression: "0 7 * * *",
			URL:        backendURL + "/api/v1/cron/send-reminders",
			Headers:    headers,
		},
		{
			Name:       "lifeos-process-outbox",
			Expression: "*/5 * * * *",
			URL:        backendURL + "/api/v1/cron/process-outbox",
			Headers:    headers,
		},
	}

	client := cronapi.NewClient(cfg.Cron)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, s := range schedules {
		if err := client.Upsert(ctx, s); err != nil {
			log.Fatal("Failed to register schedule",
				zap.String("name", s.Name),
				zap.Error(err))
		}
		log.Info("Schedule registered",
			zap.String("name", s.Name),
			zap.String("expression", s.Expression),
			zap.String("url", s.URL))
	}
}
