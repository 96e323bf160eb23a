// Gói predict xếp hạng 100 số cho ngày kế tiếp theo hai cách: chấm điểm truyền thống
// từ các phân tích, và cặp mô hình học máy trên vector đặc trưng.
package predict

import (
	"context"
	"time"

	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/internal/analysis"
	"github.com/thep200/xsmb-analyzer/internal/result"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

// Predictor đọc kho đúng một lần cho mỗi lần dự đoán
type Predictor struct {
	Source result.Source
	Logger log.Logger
	Config cfg.Analysis
}

func NewPredictor(src result.Source, logger log.Logger, conf cfg.Analysis) *Predictor {
	return &Predictor{Source: src, Logger: logger, Config: conf}
}

// Traditional chấm điểm trên window ngày hợp lệ gần nhất, window <= 0 dùng cửa sổ lớn nhất của cấu hình
func (p *Predictor) Traditional(ctx context.Context, window, topK int) (TraditionalResult, error) {
	if window <= 0 {
		window = analysis.MaxWindow(p.Config)
	}
	if topK <= 0 {
		topK = p.Config.TopK
	}
	start := time.Now()
	analyzer := analysis.NewAnalyzer(p.Source, p.Logger, p.Config)
	snap, err := analyzer.Snapshot(ctx, window)
	if err != nil {
		return TraditionalResult{}, err
	}
	res, err := ScoreTraditional(snap, topK)
	if err != nil {
		p.Logger.Warn(ctx, "[PREDICT] Traditional prediction skipped: %v", err)
		return TraditionalResult{}, err
	}
	p.Logger.Info(ctx, "[PREDICT] Traditional prediction for %s from %d days in %v", res.PredictDate, len(snap.Days), time.Since(start))
	return res, nil
}

// ML huấn luyện trên window ngày hợp lệ gần nhất, window <= 0 dùng MLWindow
func (p *Predictor) ML(ctx context.Context, window, topK int) (MLResult, error) {
	if window <= 0 {
		window = p.Config.MLWindow
	}
	if topK <= 0 {
		topK = p.Config.TopK
	}
	start := time.Now()
	days, err := result.RecentValidDays(ctx, p.Source, window)
	if err != nil {
		p.Logger.Error(ctx, "[PREDICT] Failed to read %d recent days: %v", window, err)
		return MLResult{}, err
	}
	res, err := PredictML(days, p.Config, topK)
	if err != nil {
		p.Logger.Warn(ctx, "[PREDICT] ML prediction failed: %v", err)
		return MLResult{}, err
	}
	p.Logger.Info(ctx, "[PREDICT] ML prediction for %s trained on %d rows in %v", res.PredictDate, res.TrainRows, time.Since(start))
	return res, nil
}
