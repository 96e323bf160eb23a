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
	"github.com/thep200/xsmb-analyzer/internal/ingest"
	"github.com/thep200/xsmb-analyzer/internal/model"
	"github.com/thep200/xsmb-analyzer/pkg/db"
	"github.com/thep200/xsmb-analyzer/pkg/kafka"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

func main() {
	// Parse command line arguments
	loaderName := flag.String("loader", "viper", "Config loader (viper|mock)")
	batchTimeout := flag.Duration("batch-timeout", 5*time.Second, "Flush a partial batch after this long")
	flag.Parse()

	// Load configuration
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

	// Setup logger
	logger, _ := log.NewCslLoggerWith(os.Stdout, "consumer", log.ParseLevel(config.Log.Level))

	// Setup context with cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Setup database
	database, err := db.NewDatabase(config)
	if err != nil {
		logger.Error(ctx, "Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer database.Close()

	ketQuaMd, err := model.NewKetQua(config, logger, database)
	if err != nil {
		logger.Error(ctx, "Failed to create ket qua model: %v", err)
		os.Exit(1)
	}
	if err := database.Migrate(ketQuaMd); err != nil {
		logger.Error(ctx, "Failed to migrate database: %v", err)
		os.Exit(1)
	}

	consumer, err := kafka.NewConsumer(config, logger)
	if err != nil {
		logger.Error(ctx, "Failed to create consumer: %v", err)
		os.Exit(1)
	}
	defer consumer.Close()

	// Gom message theo lô trước khi ghi
	batcher := ingest.NewBatcher(ketQuaMd, logger, config.Kafka.BatchSize, *batchTimeout)
	consumer.RegisterHandler(model.KeyKetQua, batcher.Handle)

	done := make(chan struct{})
	go func() {
		batcher.Run(ctx)
		close(done)
	}()

	logger.Info(ctx, "Ket qua consumer started on topic %s", config.Kafka.Topic)
	if err := consumer.Start(ctx); err != nil {
		logger.Error(ctx, "Consumer error: %v", err)
	}

	// Chờ lô cuối được ghi
	cancel()
	<-done
	logger.Info(context.Background(), "Consumer shut down gracefully")
}
