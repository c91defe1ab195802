package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"klsetracker/internal/config"
	"klsetracker/internal/csvout"
	"klsetracker/internal/httpx"
	"klsetracker/internal/logging"
	"klsetracker/internal/mailer"
	"klsetracker/internal/provider"
	"klsetracker/internal/provider/ratelimit"
	"klsetracker/internal/provider/yahoo"
	"klsetracker/internal/tracker"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Tracker.LogDir)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	httpClient := httpx.New(time.Duration(cfg.Tracker.RequestTimeoutSec) * time.Second)
	if cfg.Yahoo.UserAgent != "" {
		httpClient.UserAgent = cfg.Yahoo.UserAgent
	}

	opts := []yahoo.ClientOption{
		yahoo.WithHTTPClient(httpClient),
	}
	if cfg.Yahoo.Endpoint != "" {
		opts = append(opts, yahoo.WithBaseURL(cfg.Yahoo.Endpoint))
	}

	var src provider.Source = yahoo.New(opts...)
	if cfg.Tracker.MaxRequestsPerMinute > 0 {
		rate := float64(cfg.Tracker.MaxRequestsPerMinute) / 60.0
		burst := cfg.Tracker.Burst
		if burst <= 0 {
			burst = 1
		}
		src = &ratelimit.TokenBucketSource{S: src, TB: ratelimit.NewTokenBucket(rate, burst)}
	} else if cfg.Tracker.FetchIntervalSec > 0 {
		src = &ratelimit.MinInterval{S: src, Interval: time.Duration(cfg.Tracker.FetchIntervalSec) * time.Second}
	}

	var mail mailer.Mailer
	if cfg.SMTP.Enabled {
		mail = mailer.NewSMTP(mailer.Config{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			From:      cfg.SMTP.From,
			Recipient: cfg.SMTP.Recipient,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
		})
	}

	t := tracker.New(tracker.Options{
		Symbols:      cfg.Symbols,
		Source:       src,
		Store:        &csvout.Writer{Dir: cfg.Tracker.OutputDir},
		Mailer:       mail,
		Log:          logger,
		FetchRetries: uint64(cfg.Tracker.FetchRetries),
	})

	if err := t.Run(context.Background()); err != nil {
		logger.Fatalw("run failed", "error", err)
	}
}
