package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thep200/xsmb-analyzer/api"
	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/internal/model"
	"github.com/thep200/xsmb-analyzer/internal/result"
	"github.com/thep200/xsmb-analyzer/internal/ui"
	"github.com/thep200/xsmb-analyzer/pkg/db"
	applog "github.com/thep200/xsmb-analyzer/pkg/log"
)

func main() {
	// Parse command line flags
	loaderName := flag.String("loader", "viper", "Config loader (viper|mock)")
	port := flag.Int("port", 0, "Port for the server to listen on (default: server.port)")
	dump := flag.String("file", "", "Serve from a JSON dump instead of the database")
	flag.Parse()

	// Setup dependencies
	ctx := context.Background()
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
	if err := config.Analysis.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	logger, _ := applog.NewCslLoggerWith(os.Stdout, "ui", applog.ParseLevel(config.Log.Level))

	if vl, ok := loader.(*cfg.ViperLoader); ok {
		vl.RegisterConfigChangeCallback(func(c *cfg.Config) {
			logger.Notice(ctx, "Config file changed, restart to apply analysis settings")
		})
	}

	var src result.Source
	if *dump != "" {
		f, err := os.Open(*dump)
		if err != nil {
			logger.Error(ctx, "Failed to open dump: %v", err)
			os.Exit(1)
		}
		static, err := result.LoadDump(f)
		f.Close()
		if err != nil {
			logger.Error(ctx, "Failed to load dump: %v", err)
			os.Exit(1)
		}
		src = static
	} else {
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
		src = ketQuaMd
	}

	// Create and run the server
	server, err := ui.NewServer(logger, config, api.NewXsmbAPI(src, logger, config.Analysis), *port)
	if err != nil {
		logger.Error(ctx, "Failed to create server: %v", err)
		os.Exit(1)
	}

	// Run server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Error(ctx, "Server failed to start: %v", err)
			os.Exit(1)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Wait for termination signal
	<-stop

	// Create a context with timeout for shutdown
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Gracefully shutdown the server
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error(ctx, "Error during server shutdown: %v", err)
	}

	logger.Info(ctx, "Server shut down gracefully")
}
