package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/internal/crawler"
	"github.com/thep200/xsmb-analyzer/internal/model"
	"github.com/thep200/xsmb-analyzer/internal/result"
	"github.com/thep200/xsmb-analyzer/pkg/db"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

func main() {
	// Parse command line arguments
	loaderName := flag.String("loader", "viper", "Config loader (viper|mock)")
	version := flag.String("version", "v1", "Crawler version (v1: database, v2: kafka)")
	dateStr := flag.String("date", "", "Last date to crawl, dd-mm-yyyy (default: today)")
	days := flag.Int("days", 1, "Number of days to crawl ending at -date, 0 uses xsmb.backfillDays")
	flag.Parse()

	loader, err := cfg.LoaderFor(*loaderName)
	if err != nil {
		fmt.Printf("Failed to create config loader: %v\n", err)
		os.Exit(1)
	}
	config, err := loader.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, _ := log.NewCslLoggerWith(os.Stdout, "run", log.ParseLevel(config.Log.Level))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	end := crawler.Today(time.Now())
	if *dateStr != "" {
		t, ok := result.ParseDate(*dateStr)
		if !ok {
			logger.Error(ctx, "Invalid date: %s", *dateStr)
			os.Exit(1)
		}
		end = t
	}
	n := *days
	if n <= 0 {
		n = config.Xsmb.BackfillDays
	}

	database, err := db.NewDatabase(config)
	if err != nil {
		logger.Error(ctx, "Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer database.Close()

	// Migrate database
	if *version == "v1" {
		ketQuaMd, _ := model.NewKetQua(config, logger, database)
		if err := database.Migrate(ketQuaMd); err != nil {
			logger.Error(ctx, "Failed to migrate database: %v", err)
			os.Exit(1)
		}
	}

	c, err := crawler.FactoryCrawler(*version, logger, config, database)
	if err != nil {
		logger.Error(ctx, "Failed to create crawler: %v", err)
		os.Exit(1)
	}
	if closer, ok := c.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	logger.Info(ctx, "Starting XSMB crawler %s for %d days until %s", *version, n, result.FormatDate(end))
	stats, err := c.Crawl(ctx, crawler.DateRange(end, n))
	if err != nil {
		logger.Error(ctx, "Failed! %v (saved %d/%d)", err, stats.Saved, stats.Requested)
		os.Exit(1)
	}
	if len(stats.Failed) > 0 {
		logger.Warn(ctx, "Missing days: %v", stats.Failed)
	}
	logger.Info(ctx, "Successfully! Saved %d/%d days in %s", stats.Saved, stats.Requested, stats.Duration)
}
