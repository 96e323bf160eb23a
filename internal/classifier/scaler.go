package classifier

import (
	"gonum.org/v1/gonum/stat"
)

// StandardScaler đưa mỗi cột về trung bình 0, độ lệch chuẩn 1 (độ lệch chuẩn tổng thể).
// Cột hằng giữ scale 1.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

func (s *StandardScaler) Fit(x [][]float64) error {
	if len(x) == 0 || len(x[0]) == 0 {
		return ErrEmptyInput
	}
	width := len(x[0])
	if err := checkWidth(x, width); err != nil {
		return err
	}
	s.Mean = make([]float64, width)
	s.Scale = make([]float64, width)
	col := make([]float64, len(x))
	for j := 0; j < width; j++ {
		for i, row := range x {
			col[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		s.Mean[j] = mean
		if std == 0 {
			std = 1
		}
		s.Scale[j] = std
	}
	return nil
}

func (s *StandardScaler) Transform(x [][]float64) ([][]float64, error) {
	if err := checkWidth(x, len(s.Mean)); err != nil {
		return nil, err
	}
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = scaled
	}
	return out, nil
}
