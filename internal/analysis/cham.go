package analysis

import (
	"strconv"

	"github.com/thep200/xsmb-analyzer/internal/result"
)

// DigitTouch đếm số lần một chữ số (chạm) xuất hiện trong các cặp hai số cuối
type DigitTouch struct {
	Digit  string   `json:"digit"`
	Count  int      `json:"count"`
	Dates  []string `json:"dates"`
	Strong bool     `json:"strong,omitempty"`
}

type ChamReport struct {
	All     []DigitTouch `json:"all"`
	Special []DigitTouch `json:"special"`
	Dates   []string     `json:"dates"`
}

// Total là tổng số lần đếm của mọi chạm
func (r ChamReport) Total() int {
	n := 0
	for _, t := range r.All {
		n += t.Count
	}
	return n
}

type touchCounter struct {
	counts [10]int
	dates  [10][]string
}

func (c *touchCounter) add(pair, date string) {
	for i := 0; i < len(pair); i++ {
		k := int(pair[i] - '0')
		c.counts[k]++
		if n := len(c.dates[k]); n == 0 || c.dates[k][n-1] != date {
			c.dates[k] = append(c.dates[k], date)
		}
	}
}

func (c *touchCounter) touches(strongAt int) []DigitTouch {
	out := make([]DigitTouch, 10)
	for k := 0; k < 10; k++ {
		dates := c.dates[k]
		if dates == nil {
			dates = []string{}
		}
		out[k] = DigitTouch{
			Digit:  strconv.Itoa(k),
			Count:  c.counts[k],
			Dates:  dates,
			Strong: strongAt > 0 && c.counts[k] >= strongAt,
		}
	}
	return out
}

// ComputeCham đếm chạm trên mọi cặp hai số cuối, kèm bảng riêng cho giải đặc biệt.
// Chạm ĐB về từ 2 lần trở lên được đánh dấu mạnh.
func ComputeCham(days []result.DayResult) ChamReport {
	var all, special touchCounter
	for _, d := range days {
		for _, pair := range result.TailPairs(d) {
			all.add(pair, d.Label)
		}
		if tail, ok := result.SpecialTail(d); ok {
			special.add(tail, d.Label)
		}
	}
	return ChamReport{
		All:     all.touches(0),
		Special: special.touches(2),
		Dates:   labels(days),
	}
}
