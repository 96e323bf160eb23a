// Gói classifier gồm hai bộ phân loại nhị phân nhỏ (hồi quy logistic, rừng ngẫu nhiên)
// và bộ chuẩn hoá đặc trưng dùng chung, đủ cho việc xếp hạng 100 số mỗi ngày.
package classifier

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput  = errors.New("empty training set")
	ErrSingleClass = errors.New("training labels contain a single class")
)

// Classifier dự đoán xác suất nhãn 1
type Classifier interface {
	Fit(x [][]float64, y []int) error
	PredictProba(x [][]float64) ([]float64, error)
}

func validate(x [][]float64, y []int) (int, error) {
	if len(x) == 0 || len(x[0]) == 0 {
		return 0, ErrEmptyInput
	}
	if len(x) != len(y) {
		return 0, fmt.Errorf("got %d rows and %d labels", len(x), len(y))
	}
	width := len(x[0])
	positives := 0
	for i, row := range x {
		if len(row) != width {
			return 0, fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
		switch y[i] {
		case 0:
		case 1:
			positives++
		default:
			return 0, fmt.Errorf("label %d at row %d is not binary", y[i], i)
		}
	}
	if positives == 0 || positives == len(y) {
		return 0, ErrSingleClass
	}
	return width, nil
}

func checkWidth(x [][]float64, width int) error {
	if width == 0 {
		return errors.New("model is not fitted")
	}
	for i, row := range x {
		if len(row) != width {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
	}
	return nil
}

// Pipeline chuẩn hoá đặc trưng trước khi đưa vào mô hình
type Pipeline struct {
	Scaler *StandardScaler
	Model  Classifier
}

func NewPipeline(model Classifier) *Pipeline {
	return &Pipeline{Scaler: &StandardScaler{}, Model: model}
}

func (p *Pipeline) Fit(x [][]float64, y []int) error {
	if _, err := validate(x, y); err != nil {
		return err
	}
	if err := p.Scaler.Fit(x); err != nil {
		return err
	}
	scaled, err := p.Scaler.Transform(x)
	if err != nil {
		return err
	}
	return p.Model.Fit(scaled, y)
}

func (p *Pipeline) PredictProba(x [][]float64) ([]float64, error) {
	scaled, err := p.Scaler.Transform(x)
	if err != nil {
		return nil, err
	}
	return p.Model.PredictProba(scaled)
}
