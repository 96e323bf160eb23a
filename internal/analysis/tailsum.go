package analysis

import (
	"github.com/thep200/xsmb-analyzer/internal/result"
)

// DayTailSum là phân bố tổng (a+b)%10 của các cặp hai số cuối trong một ngày
type DayTailSum struct {
	Date   string  `json:"date"`
	Counts [10]int `json:"counts"`
}

type TailSumReport struct {
	Days   []DayTailSum `json:"days"`
	Totals [10]int      `json:"totals"`
}

// Total là tổng số cặp đã đếm
func (r TailSumReport) Total() int {
	n := 0
	for _, c := range r.Totals {
		n += c
	}
	return n
}

// PairSum trả về tổng hai chữ số mod 10
func PairSum(pair string) int {
	return (int(pair[0]-'0') + int(pair[1]-'0')) % 10
}

// ComputeTailSum thống kê tổng lô theo ngày, giữ thứ tự cũ -> mới
func ComputeTailSum(days []result.DayResult) TailSumReport {
	report := TailSumReport{Days: make([]DayTailSum, 0, len(days))}
	for _, d := range days {
		row := DayTailSum{Date: d.Label}
		for _, pair := range result.TailPairs(d) {
			s := PairSum(pair)
			row.Counts[s]++
			report.Totals[s]++
		}
		report.Days = append(report.Days, row)
	}
	return report
}
