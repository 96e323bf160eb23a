package analysis

import (
	"sort"
	"time"

	"github.com/thep200/xsmb-analyzer/internal/result"
)

// weekdayTop là số lượng số giữ lại cho mỗi thứ
const weekdayTop = 3

var weekdayLabels = [7]string{"Thứ 2", "Thứ 3", "Thứ 4", "Thứ 5", "Thứ 6", "Thứ 7", "Chủ Nhật"}

// weekdayIndex đổi time.Weekday (Chủ nhật = 0) sang chỉ số bắt đầu từ thứ 2
func weekdayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// WeekdayLabel trả về nhãn tiếng Việt của thứ
func WeekdayLabel(w time.Weekday) string {
	return weekdayLabels[weekdayIndex(w)]
}

type WeekdayNumber struct {
	Value       string  `json:"value"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"`
}

type WeekdayStat struct {
	Weekday string          `json:"weekday"`
	Days    int             `json:"days"`
	Top     []WeekdayNumber `json:"top"`
}

// WeekdayReport có đủ 7 thứ, bắt đầu từ thứ 2
type WeekdayReport []WeekdayStat

// For tìm thống kê của một thứ
func (r WeekdayReport) For(w time.Weekday) (WeekdayStat, bool) {
	label := WeekdayLabel(w)
	for _, s := range r {
		if s.Weekday == label {
			return s, true
		}
	}
	return WeekdayStat{}, false
}

// ComputeWeekday tính xác suất xuất hiện của từng số theo thứ trong tuần.
// Xác suất = số ngày thứ đó có số / tổng số ngày thứ đó, giữ top 3 theo xác suất rồi số lần.
func ComputeWeekday(days []result.DayResult) WeekdayReport {
	var totals [7]int
	var counts [7]map[string]int
	for i := range counts {
		counts[i] = make(map[string]int)
	}
	for _, d := range days {
		w := weekdayIndex(d.Date.Weekday())
		totals[w]++
		for value := range result.LastTwoDigits(d) {
			counts[w][value]++
		}
	}

	report := make(WeekdayReport, 7)
	for w := 0; w < 7; w++ {
		numbers := make([]WeekdayNumber, 0, len(counts[w]))
		for value, c := range counts[w] {
			numbers = append(numbers, WeekdayNumber{
				Value:       value,
				Count:       c,
				Probability: round2(float64(c) / float64(totals[w]) * 100),
			})
		}
		sort.Slice(numbers, func(i, j int) bool {
			if numbers[i].Probability != numbers[j].Probability {
				return numbers[i].Probability > numbers[j].Probability
			}
			if numbers[i].Count != numbers[j].Count {
				return numbers[i].Count > numbers[j].Count
			}
			return numbers[i].Value < numbers[j].Value
		})
		if len(numbers) > weekdayTop {
			numbers = numbers[:weekdayTop]
		}
		report[w] = WeekdayStat{Weekday: weekdayLabels[w], Days: totals[w], Top: numbers}
	}
	return report
}
