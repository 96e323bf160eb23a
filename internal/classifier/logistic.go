package classifier

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// LogisticRegression huấn luyện bằng gradient descent toàn batch với phạt L2.
// C là nghịch đảo độ mạnh phạt, giống tham số C quen thuộc.
type LogisticRegression struct {
	MaxIter      int
	C            float64
	LearningRate float64

	Weights []float64
	Bias    float64
}

func NewLogisticRegression(maxIter int) *LogisticRegression {
	return &LogisticRegression{MaxIter: maxIter, C: 1, LearningRate: 0.5}
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func (m *LogisticRegression) Fit(x [][]float64, y []int) error {
	width, err := validate(x, y)
	if err != nil {
		return err
	}
	n := float64(len(x))
	m.Weights = make([]float64, width)
	m.Bias = 0
	grad := make([]float64, width)

	for iter := 0; iter < m.MaxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0
		for i, row := range x {
			diff := sigmoid(floats.Dot(m.Weights, row)+m.Bias) - float64(y[i])
			floats.AddScaled(grad, diff, row)
			gradBias += diff
		}
		floats.Scale(1/n, grad)
		if m.C > 0 {
			floats.AddScaled(grad, 1/(m.C*n), m.Weights)
		}
		floats.AddScaled(m.Weights, -m.LearningRate, grad)
		m.Bias -= m.LearningRate * gradBias / n
	}
	return nil
}

func (m *LogisticRegression) PredictProba(x [][]float64) ([]float64, error) {
	if err := checkWidth(x, len(m.Weights)); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = sigmoid(floats.Dot(m.Weights, row) + m.Bias)
	}
	return out, nil
}
