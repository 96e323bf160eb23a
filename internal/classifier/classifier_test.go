package classifier_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/xsmb-analyzer/internal/classifier"
)

// separable sinh dữ liệu mà nhãn phụ thuộc vào đặc trưng đầu, đặc trưng sau là nhiễu
func separable(n int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]int, n)
	for i := range x {
		signal := rng.Float64()*10 - 5
		x[i] = []float64{signal, rng.Float64() * 100, 7}
		if signal > 0 {
			y[i] = 1
		}
	}
	return x, y
}

func TestStandardScaler(t *testing.T) {
	s := &classifier.StandardScaler{}
	require.NoError(t, s.Fit([][]float64{{1, 5}, {3, 5}}))
	assert.Equal(t, []float64{2, 5}, s.Mean)
	assert.Equal(t, []float64{1, 1}, s.Scale)

	out, err := s.Transform([][]float64{{1, 5}, {4, 6}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{-1, 0}, {2, 1}}, out)

	_, err = s.Transform([][]float64{{1}})
	assert.Error(t, err)
}

func TestValidationErrors(t *testing.T) {
	models := map[string]classifier.Classifier{
		"logistic": classifier.NewLogisticRegression(10),
		"forest":   classifier.NewRandomForest(3, 1),
		"pipeline": classifier.NewPipeline(classifier.NewLogisticRegression(10)),
	}
	for name, m := range models {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, m.Fit(nil, nil), classifier.ErrEmptyInput)
			assert.ErrorIs(t, m.Fit([][]float64{{1}, {2}}, []int{1, 1}), classifier.ErrSingleClass)
			assert.Error(t, m.Fit([][]float64{{1}, {2}}, []int{1}))
			assert.Error(t, m.Fit([][]float64{{1}, {2}}, []int{0, 2}))
		})
	}
}

func TestLogisticRegressionSeparates(t *testing.T) {
	x, y := separable(200, 1)
	m := classifier.NewPipeline(classifier.NewLogisticRegression(500))
	require.NoError(t, m.Fit(x, y))

	probs, err := m.PredictProba([][]float64{{4, 50, 7}, {-4, 50, 7}})
	require.NoError(t, err)
	assert.Greater(t, probs[0], 0.9)
	assert.Less(t, probs[1], 0.1)
}

func TestRandomForestSeparatesAndIsDeterministic(t *testing.T) {
	x, y := separable(200, 2)
	query := [][]float64{{3, 10, 7}, {-3, 90, 7}, {0.5, 40, 7}}

	a := classifier.NewRandomForest(20, 42)
	require.NoError(t, a.Fit(x, y))
	pa, err := a.PredictProba(query)
	require.NoError(t, err)
	assert.Greater(t, pa[0], 0.8)
	assert.Less(t, pa[1], 0.2)
	for _, p := range pa {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}

	b := classifier.NewRandomForest(20, 42)
	require.NoError(t, b.Fit(x, y))
	pb, err := b.PredictProba(query)
	require.NoError(t, err)
	assert.Equal(t, pa, pb)

	_, err = classifier.NewRandomForest(1, 1).PredictProba(query)
	assert.Error(t, err)
}
