package analysis

import (
	"sort"
	"time"

	"github.com/thep200/xsmb-analyzer/internal/result"
)

// DropEvent là một lần lô rơi: Value xuất hiện ở From và rơi lại ở To
type DropEvent struct {
	Value string `json:"value"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// DropFlavor thống kê một kiểu lô rơi
type DropFlavor struct {
	Count    int         `json:"count"`
	AvgGap   float64     `json:"avg_gap"`
	LastGap  int         `json:"last_gap"`
	Due      float64     `json:"due"`
	HitDates []string    `json:"hit_dates"`
	Events   []DropEvent `json:"events"`
}

// Numbers trả về các số từng rơi, đã sắp xếp, không trùng
func (f DropFlavor) Numbers() []string {
	set := make(map[string]struct{}, len(f.Events))
	for _, e := range f.Events {
		set[e.Value] = struct{}{}
	}
	return sortedKeys(set)
}

// StandingCandidate là số về từ 2 nháy trở lên ở ngày mới nhất
type StandingCandidate struct {
	Value       string  `json:"value"`
	Occurrences int     `json:"occurrences"`
	Eligible    int     `json:"eligible"`
	Returned    int     `json:"returned"`
	Rate        float64 `json:"rate"`
}

type RecurrenceReport struct {
	LatestDate string              `json:"latest_date"`
	Special    DropFlavor          `json:"special"`
	Multi      DropFlavor          `json:"multi"`
	Candidates []StandingCandidate `json:"candidates"`
}

// DueProbability: 0 nếu chưa đủ 2 lần, 100 nếu khoảng hiện tại đã vượt trung bình
func DueProbability(count int, avgGap float64, currentGap int) float64 {
	if count < 2 || avgGap <= 0 {
		return 0
	}
	if float64(currentGap) >= avgGap {
		return 100
	}
	p := round2(float64(currentGap) / avgGap * 100)
	if p < 0 {
		return 0
	}
	return p
}

func flavorStats(hits map[string]time.Time, events []DropEvent, latest time.Time) DropFlavor {
	dates := make([]time.Time, 0, len(hits))
	for _, t := range hits {
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	f := DropFlavor{Count: len(dates), Events: events, HitDates: make([]string, len(dates))}
	for i, t := range dates {
		f.HitDates[i] = result.FormatDate(t)
	}
	if f.Events == nil {
		f.Events = []DropEvent{}
	}
	if len(dates) == 0 {
		return f
	}
	f.LastGap = result.DaysBetween(dates[len(dates)-1], latest)
	if len(dates) < 2 {
		return f
	}
	total := 0
	for i := 1; i < len(dates); i++ {
		total += result.DaysBetween(dates[i-1], dates[i])
	}
	avg := float64(total) / float64(len(dates)-1)
	f.AvgGap = round2(avg)
	f.Due = DueProbability(f.Count, avg, f.LastGap)
	return f
}

// DetectRecurrence dò lô rơi trên các ngày hợp lệ cũ -> mới.
//
// Lô rơi ĐB: hai số cuối giải đặc biệt ngày i trùng với ngày j sau đó, cả hai ngày được tính là lần xuất hiện.
// Lô rơi nhiều nháy: số về từ 2 nháy ở ngày i và về lại ở ngày kế tiếp; ngày về lại được tính là lần xuất hiện.
// Khoảng cách tính theo ngày lịch.
func DetectRecurrence(days []result.DayResult) RecurrenceReport {
	var report RecurrenceReport
	if len(days) == 0 {
		report.Special = flavorStats(nil, nil, time.Time{})
		report.Multi = flavorStats(nil, nil, time.Time{})
		report.Candidates = []StandingCandidate{}
		return report
	}
	latest := days[len(days)-1]
	report.LatestDate = latest.Label

	// ĐB: mỗi lần lặp được ghi với mọi lần xuất hiện trước đó
	specialHits := make(map[string]time.Time)
	var specialEvents []DropEvent
	seen := make(map[string][]result.DayResult)
	for _, d := range days {
		tail, ok := result.SpecialTail(d)
		if !ok {
			continue
		}
		for _, prev := range seen[tail] {
			specialEvents = append(specialEvents, DropEvent{Value: tail, From: prev.Label, To: d.Label})
			specialHits[prev.Label] = prev.Date
			specialHits[d.Label] = d.Date
		}
		seen[tail] = append(seen[tail], d)
	}
	report.Special = flavorStats(specialHits, specialEvents, latest.Date)

	// Nhiều nháy
	counts := make([]map[string]int, len(days))
	for i, d := range days {
		counts[i] = result.TailCounts(d)
	}
	multiHits := make(map[string]time.Time)
	var multiEvents []DropEvent
	for i := 0; i+1 < len(days); i++ {
		for _, value := range sortedKeys(counts[i]) {
			if counts[i][value] < 2 || counts[i+1][value] == 0 {
				continue
			}
			multiEvents = append(multiEvents, DropEvent{Value: value, From: days[i].Label, To: days[i+1].Label})
			multiHits[days[i+1].Label] = days[i+1].Date
		}
	}
	report.Multi = flavorStats(multiHits, multiEvents, latest.Date)
	report.Candidates = standingCandidates(counts)
	return report
}

func standingCandidates(counts []map[string]int) []StandingCandidate {
	out := []StandingCandidate{}
	last := counts[len(counts)-1]
	for _, value := range sortedKeys(last) {
		if last[value] < 2 {
			continue
		}
		c := StandingCandidate{Value: value, Occurrences: last[value]}
		for i := 0; i+1 < len(counts); i++ {
			if counts[i][value] < 2 {
				continue
			}
			c.Eligible++
			if counts[i+1][value] > 0 {
				c.Returned++
			}
		}
		if c.Eligible > 0 {
			c.Rate = round2(float64(c.Returned) / float64(c.Eligible) * 100)
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rate != out[j].Rate {
			return out[i].Rate > out[j].Rate
		}
		return out[i].Value < out[j].Value
	})
	return out
}
