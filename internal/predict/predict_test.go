package predict_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/internal/analysis"
	"github.com/thep200/xsmb-analyzer/internal/predict"
	"github.com/thep200/xsmb-analyzer/internal/result"
	"github.com/thep200/xsmb-analyzer/internal/result/resulttest"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

func fastConfig() cfg.Analysis {
	c := cfg.DefaultAnalysis()
	c.RFTrees = 8
	c.LRMaxIter = 100
	return c
}

func snapshot(days []result.DayResult) analysis.Snapshot {
	return analysis.Snapshot{Days: days, Config: cfg.DefaultAnalysis()}
}

func TestScoreTraditionalIsDeterministic(t *testing.T) {
	days := resulttest.RandomDays(resulttest.Date(2025, time.April, 1), 40, 17)

	first, err := predict.ScoreTraditional(snapshot(days), 10)
	require.NoError(t, err)
	second, err := predict.ScoreTraditional(snapshot(days), 10)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	require.Len(t, first.Candidates, 10)
	assert.Equal(t, days[39].Label, first.LatestDate)
	assert.Equal(t, "11-5-2025", first.PredictDate)
	assert.Equal(t, 100, first.Summary.Total)
	assert.Equal(t, first.Candidates[0].Score, first.Summary.MaxScore)
	for i, c := range first.Candidates {
		assert.True(t, result.IsPair(c.Number))
		assert.Equal(t, len(c.Reasons), c.ReasonCount)
		if i > 0 {
			assert.GreaterOrEqual(t, first.Candidates[i-1].Score, c.Score)
		}
	}
}

func TestScoreTraditionalRarityReason(t *testing.T) {
	days := []result.DayResult{
		resulttest.Day(resulttest.Date(2025, time.April, 1), map[string][]string{result.TierG7: {"12"}}),
		resulttest.Day(resulttest.Date(2025, time.April, 2), map[string][]string{result.TierG7: {"12"}}),
	}
	res, err := predict.ScoreTraditional(snapshot(days), 0)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 100)

	byNumber := make(map[string]predict.Candidate)
	for _, c := range res.Candidates {
		byNumber[c.Number] = c
	}
	assert.Contains(t, byNumber["12"].Reasons, "Ít xuất hiện (2/30 ngày) (+8.40 điểm)")
	assert.Contains(t, byNumber["99"].Reasons, "Ít xuất hiện (0/30 ngày) (+9.00 điểm)")
	assert.Contains(t, byNumber["12"].Reasons, "Có 1 cầu ngang (+1.50 điểm)")
}

func TestScoreTraditionalInsufficientData(t *testing.T) {
	days := resulttest.RandomDays(resulttest.Date(2025, time.April, 1), 1, 1)
	_, err := predict.ScoreTraditional(snapshot(days), 10)
	assert.True(t, errors.Is(err, analysis.ErrInsufficientData))
}

func TestBuildDatasetShape(t *testing.T) {
	days := resulttest.RandomDays(resulttest.Date(2025, time.April, 1), 12, 23)

	ds, err := predict.BuildDataset(days, cfg.DefaultAnalysis())
	require.NoError(t, err)

	assert.Len(t, predict.FeatureNames, 36)
	assert.Len(t, ds.Train, 4*100)
	assert.Len(t, ds.Predict, 100)
	assert.Equal(t, resulttest.Date(2025, time.April, 13), ds.PredictDate)

	for _, row := range append(ds.Train, ds.Predict...) {
		require.Len(t, row.Features, len(predict.FeatureNames))
		weekday := 0.0
		for _, v := range row.Features[len(row.Features)-7:] {
			weekday += v
		}
		assert.Equal(t, 1.0, weekday)
	}
	for _, row := range ds.Train {
		target, ok := result.ParseDate(row.Target)
		require.True(t, ok)
		want := 0
		if result.LastTwoDigits(days[result.DaysBetween(days[0].Date, target)]).Has(row.Number) {
			want = 1
		}
		assert.Equal(t, want, row.Label)
	}
}

func TestBuildDatasetUsesOnlyPastDays(t *testing.T) {
	days := resulttest.RandomDays(resulttest.Date(2025, time.April, 1), 14, 31)

	short, err := predict.BuildDataset(days[:10], cfg.DefaultAnalysis())
	require.NoError(t, err)
	long, err := predict.BuildDataset(days, cfg.DefaultAnalysis())
	require.NoError(t, err)

	require.Len(t, short.Train, 200)
	assert.Equal(t, short.Train, long.Train[:200])
}

func TestPredictMLInsufficientData(t *testing.T) {
	for _, n := range []int{0, 5, 7, 8} {
		days := resulttest.RandomDays(resulttest.Date(2025, time.April, 1), n, 3)
		_, err := predict.PredictML(days, fastConfig(), 10)
		assert.True(t, errors.Is(err, analysis.ErrInsufficientData), "n=%d", n)
	}
}

func TestPredictMLSingleClassIsModelFitError(t *testing.T) {
	days := make([]result.DayResult, 12)
	for i := range days {
		days[i] = resulttest.Day(resulttest.Date(2025, time.April, 1+i), map[string][]string{result.TierG7: {"ab"}})
	}
	_, err := predict.PredictML(days, fastConfig(), 10)
	assert.True(t, errors.Is(err, predict.ErrModelFit))
}

func TestPredictML(t *testing.T) {
	days := resulttest.RandomDays(resulttest.Date(2025, time.April, 1), 14, 5)

	res, err := predict.PredictML(days, fastConfig(), 5)
	require.NoError(t, err)
	assert.Equal(t, "15-4-2025", res.PredictDate)
	assert.Equal(t, 600, res.TrainRows)
	require.Len(t, res.Candidates, 5)
	for i, c := range res.Candidates {
		assert.InDelta(t, (c.Logistic+c.Forest)/2, c.Probability, 1e-12)
		assert.GreaterOrEqual(t, c.Probability, 0.0)
		assert.LessOrEqual(t, c.Probability, 1.0)
		if i > 0 {
			assert.GreaterOrEqual(t, res.Candidates[i-1].Probability, c.Probability)
		}
	}

	again, err := predict.PredictML(days, fastConfig(), 5)
	require.NoError(t, err)
	assert.Equal(t, res, again)
}

func TestPredictorReadsSource(t *testing.T) {
	logger, err := log.NewCslLoggerWith(io.Discard, "predict", log.LevelDebug)
	require.NoError(t, err)
	days := resulttest.RandomDays(resulttest.Date(2025, time.April, 1), 10, 9)
	p := predict.NewPredictor(resulttest.Source(days...), logger, fastConfig())
	ctx := context.Background()

	trad, err := p.Traditional(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, trad.Candidates, 10)

	ml, err := p.ML(ctx, 0, 3)
	require.NoError(t, err)
	assert.Len(t, ml.Candidates, 3)

	empty := predict.NewPredictor(resulttest.Source(), logger, fastConfig())
	_, err = empty.ML(ctx, 0, 3)
	assert.True(t, errors.Is(err, analysis.ErrInsufficientData))
}
