package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/thep200/xsmb-analyzer/api"
	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/internal/model"
	"github.com/thep200/xsmb-analyzer/internal/result"
	"github.com/thep200/xsmb-analyzer/pkg/db"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

func main() {
	loaderName := flag.String("loader", "viper", "Config loader (viper|mock)")
	dump := flag.String("file", "", "Read results from a JSON dump instead of the database")
	mode := flag.String("mode", "traditional", "traditional | ml | cham | tong-lo | lo-roi | cau-ngang | cau-cheo | theo-thu | lap-deu | lo-chuoi")
	window := flag.Int("window", 0, "Number of valid days to read (0: config default)")
	top := flag.Int("top", 0, "Number of candidates (0: analysis.topK)")
	flag.Parse()

	loader, err := cfg.LoaderFor(*loaderName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create config loader: %v\n", err)
		os.Exit(1)
	}
	config, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := config.Analysis.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// log ra stderr để stdout chỉ có JSON
	logger, _ := log.NewCslLoggerWith(os.Stderr, "predict", log.ParseLevel(config.Log.Level))
	ctx := context.Background()

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
		src = ketQuaMd
	}

	a := api.NewXsmbAPI(src, logger, config.Analysis)
	out, failed := execute(ctx, a, *mode, *window, *top)
	if out == nil {
		logger.Error(ctx, "Unknown mode: %s", *mode)
		os.Exit(2)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error(ctx, "Failed to encode output: %v", err)
		os.Exit(1)
	}
	if failed {
		os.Exit(1)
	}
}

// execute chạy một chế độ, trả về nil nếu chế độ không tồn tại
func execute(ctx context.Context, a *api.XsmbAPI, mode string, window, top int) (interface{}, bool) {
	switch mode {
	case "traditional":
		res := a.TraditionalPredict(ctx, window, top)
		return res, !res.OK()
	case "ml":
		res := a.MLPredict(ctx, window, top)
		return res, !res.OK()
	case "cham":
		res := a.AnalyzeDigitTouch(ctx, window)
		return res, !res.OK()
	case "tong-lo":
		res := a.AnalyzeTailSum(ctx, window)
		return res, !res.OK()
	case "lo-roi":
		res := a.AnalyzeRecurrence(ctx, window)
		return res, !res.OK()
	case "cau-ngang":
		res := a.AnalyzeHorizontalBridge(ctx, window)
		return res, !res.OK()
	case "cau-cheo":
		res := a.AnalyzeCrossBridge(ctx, window)
		return res, !res.OK()
	case "theo-thu":
		res := a.AnalyzeWeekday(ctx, window)
		return res, !res.OK()
	case "lap-deu":
		res := a.AnalyzePeriodicity(ctx, window)
		return res, !res.OK()
	case "lo-chuoi":
		res := a.AnalyzeRuns(ctx, window)
		return res, !res.OK()
	default:
		return nil, false
	}
}
