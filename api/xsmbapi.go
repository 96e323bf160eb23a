// Package api cung cấp các API public để phân tích và dự đoán kết quả XSMB.
// Mọi lỗi đều được trả về trong trường Error của kết quả, không panic ra ngoài.
package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/internal/analysis"
	"github.com/thep200/xsmb-analyzer/internal/predict"
	"github.com/thep200/xsmb-analyzer/internal/result"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

// Mã lỗi trả về cho client
const (
	CodeInsufficientData = "insufficient_data"
	CodeModelFit         = "model_fit"
	CodeNotFound         = "not_found"
	CodeInvalidArgument  = "invalid_argument"
	CodeInternal         = "internal"
)

// Result là kết quả của một lời gọi API, Error rỗng khi thành công
type Result[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// OK cho biết lời gọi thành công
func (r Result[T]) OK() bool {
	return r.Error == ""
}

// XsmbAPI là facade trên kho kết quả, an toàn khi gọi đồng thời
type XsmbAPI struct {
	source    result.Source
	logger    log.Logger
	config    cfg.Analysis
	analyzer  *analysis.Analyzer
	predictor *predict.Predictor
}

func NewXsmbAPI(src result.Source, logger log.Logger, conf cfg.Analysis) *XsmbAPI {
	return &XsmbAPI{
		source:    src,
		logger:    logger,
		config:    conf,
		analyzer:  analysis.NewAnalyzer(src, logger, conf),
		predictor: predict.NewPredictor(src, logger, conf),
	}
}

// ErrorCode phân loại lỗi thành mã trả về cho client
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, analysis.ErrInsufficientData):
		return CodeInsufficientData
	case errors.Is(err, predict.ErrModelFit):
		return CodeModelFit
	case errors.Is(err, result.ErrNotFound):
		return CodeNotFound
	default:
		return CodeInternal
	}
}

// run gọi fn và chuyển lỗi hoặc panic thành Result
func run[T any](ctx context.Context, a *XsmbAPI, name string, fn func() (T, error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Critical(ctx, "[API] %s panicked: %v", name, r)
			res = Result[T]{Error: fmt.Sprintf("%s: internal error", name), Code: CodeInternal}
		}
	}()

	data, err := fn()
	if err != nil {
		code := ErrorCode(err)
		if code == CodeInternal {
			a.logger.Error(ctx, "[API] %s failed: %v", name, err)
		} else {
			a.logger.Warn(ctx, "[API] %s: %v", name, err)
		}
		return Result[T]{Error: err.Error(), Code: code}
	}
	return Result[T]{Data: data}
}

// TraditionalPredict chấm điểm 100 số cho ngày kế tiếp từ các phân tích
func (a *XsmbAPI) TraditionalPredict(ctx context.Context, window, topK int) Result[predict.TraditionalResult] {
	return run(ctx, a, "TraditionalPredict", func() (predict.TraditionalResult, error) {
		return a.predictor.Traditional(ctx, window, topK)
	})
}

// MLPredict xếp hạng 100 số bằng hồi quy logistic và rừng ngẫu nhiên
func (a *XsmbAPI) MLPredict(ctx context.Context, window, topK int) Result[predict.MLResult] {
	return run(ctx, a, "MLPredict", func() (predict.MLResult, error) {
		return a.predictor.ML(ctx, window, topK)
	})
}

func (a *XsmbAPI) AnalyzeDigitTouch(ctx context.Context, window int) Result[analysis.ChamReport] {
	return run(ctx, a, "AnalyzeDigitTouch", func() (analysis.ChamReport, error) {
		return a.analyzer.DigitTouch(ctx, window)
	})
}

func (a *XsmbAPI) AnalyzeTailSum(ctx context.Context, window int) Result[analysis.TailSumReport] {
	return run(ctx, a, "AnalyzeTailSum", func() (analysis.TailSumReport, error) {
		return a.analyzer.TailSum(ctx, window)
	})
}

func (a *XsmbAPI) AnalyzeRecurrence(ctx context.Context, window int) Result[analysis.RecurrenceReport] {
	return run(ctx, a, "AnalyzeRecurrence", func() (analysis.RecurrenceReport, error) {
		return a.analyzer.Recurrence(ctx, window)
	})
}

func (a *XsmbAPI) AnalyzeHorizontalBridge(ctx context.Context, window int) Result[[]analysis.HorizontalBridge] {
	return run(ctx, a, "AnalyzeHorizontalBridge", func() ([]analysis.HorizontalBridge, error) {
		return a.analyzer.HorizontalBridges(ctx, window)
	})
}

func (a *XsmbAPI) AnalyzeCrossBridge(ctx context.Context, window int) Result[[]analysis.CrossGroup] {
	return run(ctx, a, "AnalyzeCrossBridge", func() ([]analysis.CrossGroup, error) {
		return a.analyzer.CrossBridges(ctx, window)
	})
}

func (a *XsmbAPI) AnalyzeWeekday(ctx context.Context, window int) Result[analysis.WeekdayReport] {
	return run(ctx, a, "AnalyzeWeekday", func() (analysis.WeekdayReport, error) {
		return a.analyzer.Weekday(ctx, window)
	})
}

func (a *XsmbAPI) AnalyzePeriodicity(ctx context.Context, window int) Result[[]analysis.PeriodicEntry] {
	return run(ctx, a, "AnalyzePeriodicity", func() ([]analysis.PeriodicEntry, error) {
		return a.analyzer.Periodicity(ctx, window)
	})
}

// AnalyzeRuns thống kê lô chuỗi (lô rơi liên tiếp)
func (a *XsmbAPI) AnalyzeRuns(ctx context.Context, window int) Result[analysis.RunReport] {
	return run(ctx, a, "AnalyzeRuns", func() (analysis.RunReport, error) {
		return a.analyzer.Runs(ctx, window)
	})
}

// RecentResults trả về limit ngày gần nhất, mới nhất trước
func (a *XsmbAPI) RecentResults(ctx context.Context, limit int) Result[[]result.DayResult] {
	return run(ctx, a, "RecentResults", func() ([]result.DayResult, error) {
		if limit <= 0 {
			limit = a.config.TopK
		}
		return result.GetRecentDays(ctx, a.source, limit)
	})
}

// ResultByDate trả về kết quả một ngày, date có dạng 31-7-2025 hoặc 31-07-2025
func (a *XsmbAPI) ResultByDate(ctx context.Context, date string) Result[result.DayResult] {
	t, ok := result.ParseDate(date)
	if !ok {
		return Result[result.DayResult]{Error: fmt.Sprintf("invalid date %q", date), Code: CodeInvalidArgument}
	}
	return run(ctx, a, "ResultByDate", func() (result.DayResult, error) {
		return result.FindDay(ctx, a.source, t)
	})
}
