package analysis

import (
	"sort"
	"time"

	"github.com/thep200/xsmb-analyzer/internal/result"
)

// Run là một chuỗi xuất hiện của một số, hai lần liên tiếp cách nhau không quá maxGap ngày
type Run struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Length int    `json:"length"`
}

// RunReport (lô chuỗi) tách giải thường và giải đặc biệt
type RunReport struct {
	Regular map[string][]Run `json:"regular"`
	Special map[string][]Run `json:"special"`
	Dates   []string         `json:"dates"`
}

// DetectRuns tìm các chuỗi xuất hiện của từng số trên các ngày cũ -> mới
func DetectRuns(days []result.DayResult, maxGap int) RunReport {
	regular := make(map[string][]time.Time)
	special := make(map[string][]time.Time)
	for _, d := range days {
		seen := make(map[string]bool)
		for _, t := range d.Tiers {
			for _, v := range t.Values {
				tail, ok := result.TailOf(v)
				if !ok {
					continue
				}
				if t.Label == result.TierSpecial {
					special[tail] = append(special[tail], d.Date)
					continue
				}
				if !seen[tail] {
					seen[tail] = true
					regular[tail] = append(regular[tail], d.Date)
				}
			}
		}
	}
	return RunReport{
		Regular: findRuns(regular, maxGap),
		Special: findRuns(special, maxGap),
		Dates:   labels(days),
	}
}

func findRuns(appearances map[string][]time.Time, maxGap int) map[string][]Run {
	out := make(map[string][]Run)
	for value, dates := range appearances {
		if len(dates) < 2 {
			continue
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		start, prev, count := dates[0], dates[0], 1
		flush := func() {
			if count >= 2 {
				out[value] = append(out[value], Run{
					Start:  result.FormatDate(start),
					End:    result.FormatDate(prev),
					Length: count,
				})
			}
		}
		for _, d := range dates[1:] {
			gap := result.DaysBetween(prev, d)
			if gap >= 1 && gap <= maxGap {
				prev = d
				count++
				continue
			}
			flush()
			start, prev, count = d, d, 1
		}
		flush()
	}
	return out
}
