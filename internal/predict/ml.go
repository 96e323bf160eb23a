package predict

import (
	"errors"
	"fmt"
	"sort"

	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/internal/classifier"
	"github.com/thep200/xsmb-analyzer/internal/result"
)

// ErrModelFit khi huấn luyện hoặc dự đoán của mô hình thất bại
var ErrModelFit = errors.New("model fit failed")

type MLCandidate struct {
	Number      string  `json:"number"`
	Probability float64 `json:"probability"`
	Logistic    float64 `json:"logistic"`
	Forest      float64 `json:"forest"`
}

type MLResult struct {
	PredictDate string        `json:"predict_date"`
	TrainRows   int           `json:"train_rows"`
	Candidates  []MLCandidate `json:"candidates"`
}

func fitFailed(stage string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrModelFit, stage, err)
}

// PredictML huấn luyện hồi quy logistic và rừng ngẫu nhiên trên các ngày hợp lệ cũ -> mới,
// điểm cuối cùng là trung bình xác suất của hai mô hình.
func PredictML(days []result.DayResult, conf cfg.Analysis, topK int) (MLResult, error) {
	ds, err := BuildDataset(days, conf)
	if err != nil {
		return MLResult{}, err
	}
	x, y := matrix(ds.Train), ds.Labels()
	pred := matrix(ds.Predict)

	lr := classifier.NewPipeline(classifier.NewLogisticRegression(conf.LRMaxIter))
	rf := classifier.NewPipeline(classifier.NewRandomForest(conf.RFTrees, conf.RandomSeed))
	if err := lr.Fit(x, y); err != nil {
		return MLResult{}, fitFailed("logistic regression", err)
	}
	if err := rf.Fit(x, y); err != nil {
		return MLResult{}, fitFailed("random forest", err)
	}
	probLR, err := lr.PredictProba(pred)
	if err != nil {
		return MLResult{}, fitFailed("logistic regression predict", err)
	}
	probRF, err := rf.PredictProba(pred)
	if err != nil {
		return MLResult{}, fitFailed("random forest predict", err)
	}

	candidates := make([]MLCandidate, len(ds.Predict))
	for i, row := range ds.Predict {
		candidates[i] = MLCandidate{
			Number:      row.Number,
			Probability: (probLR[i] + probRF[i]) / 2,
			Logistic:    probLR[i],
			Forest:      probRF[i],
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Probability != candidates[j].Probability {
			return candidates[i].Probability > candidates[j].Probability
		}
		return candidates[i].Number < candidates[j].Number
	})
	if topK > 0 && topK < len(candidates) {
		candidates = candidates[:topK]
	}
	return MLResult{
		PredictDate: result.FormatDate(ds.PredictDate),
		TrainRows:   len(ds.Train),
		Candidates:  candidates,
	}, nil
}
