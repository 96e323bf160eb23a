package analysis

import (
	"sort"
	"time"

	"github.com/thep200/xsmb-analyzer/internal/result"
)

type GapPattern struct {
	Gap         int     `json:"gap"`
	Occurrences int     `json:"occurrences"`
	Confidence  float64 `json:"confidence"`
}

// PeriodicEntry là kết quả lặp đều của một số
type PeriodicEntry struct {
	Value         string       `json:"value"`
	Appearances   int          `json:"appearances"`
	Dates         []string     `json:"dates"`
	LastSeen      string       `json:"last_seen"`
	DaysSinceLast int          `json:"days_since_last"`
	FullyPeriodic bool         `json:"fully_periodic"`
	Patterns      []GapPattern `json:"patterns"`
}

// ComputePeriodicity tìm các số về theo chu kỳ.
// Cần ít nhất 2 lần xuất hiện, một khoảng cách duy nhất là lặp đều hoàn toàn; số về lần cuối quá maxStale ngày trước ngày mới nhất bị loại.
func ComputePeriodicity(days []result.DayResult, maxStale int) []PeriodicEntry {
	if len(days) == 0 {
		return []PeriodicEntry{}
	}
	latest := days[len(days)-1].Date
	appearances := make(map[string][]time.Time)
	for _, d := range days {
		for value := range result.LastTwoDigits(d) {
			appearances[value] = append(appearances[value], d.Date)
		}
	}

	out := []PeriodicEntry{}
	for _, value := range sortedKeys(appearances) {
		dates := appearances[value]
		if len(dates) < 2 {
			continue
		}
		last := dates[len(dates)-1]
		since := result.DaysBetween(last, latest)
		if since > maxStale {
			continue
		}
		gaps := make(map[int]int)
		for i := 1; i < len(dates); i++ {
			gaps[result.DaysBetween(dates[i-1], dates[i])]++
		}
		total := len(dates) - 1
		entry := PeriodicEntry{
			Value:         value,
			Appearances:   len(dates),
			LastSeen:      result.FormatDate(last),
			DaysSinceLast: since,
		}
		for _, t := range dates {
			entry.Dates = append(entry.Dates, result.FormatDate(t))
		}
		if len(gaps) == 1 {
			for gap := range gaps {
				entry.FullyPeriodic = true
				entry.Patterns = []GapPattern{{Gap: gap, Occurrences: total, Confidence: 100}}
			}
		} else {
			for gap, n := range gaps {
				if n < 2 {
					continue
				}
				entry.Patterns = append(entry.Patterns, GapPattern{
					Gap:         gap,
					Occurrences: n,
					Confidence:  round2(float64(n) / float64(total) * 100),
				})
			}
			sort.Slice(entry.Patterns, func(i, j int) bool {
				if entry.Patterns[i].Confidence != entry.Patterns[j].Confidence {
					return entry.Patterns[i].Confidence > entry.Patterns[j].Confidence
				}
				return entry.Patterns[i].Gap < entry.Patterns[j].Gap
			})
		}
		if len(entry.Patterns) == 0 {
			continue
		}
		out = append(out, entry)
	}
	return out
}
