package predict

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/thep200/xsmb-analyzer/internal/analysis"
	"github.com/thep200/xsmb-analyzer/internal/result"
)

// Trọng số của từng tín hiệu
const (
	weightChamRarity    = 5.0
	weightChamSpecial   = 1.5
	weightTailSumRarity = 4.0
	dueThreshold        = 70.0
	weightDue           = 0.1
	candidateThreshold  = 30.0
	weightCandidate     = 0.05
	weightHorizontal    = 1.5
	capHorizontal       = 8.0
	weightCross         = 1.2
	capCross            = 10.0
	weightWeekday       = 0.1
	recencyHorizon      = 30
	weightRecency       = 0.2
	patternThreshold    = 30.0
	weightPattern       = 0.05
	capPeriodic         = 6.0
	weightRarity        = 0.3
)

const noReason = "Không có thông tin chi tiết"

// MinTraditionalDays là số ngày hợp lệ tối thiểu để chấm điểm
const MinTraditionalDays = 2

// Candidate là một số đã chấm điểm kèm lý do
type Candidate struct {
	Number      string   `json:"number"`
	Score       float64  `json:"score"`
	Reasons     []string `json:"reasons"`
	ReasonCount int      `json:"reason_count"`
}

type Summary struct {
	Total      int     `json:"total"`
	MaxScore   float64 `json:"max_score"`
	MinScore   float64 `json:"min_score"`
	AvgReasons float64 `json:"avg_reasons"`
}

// Signals giữ kết quả các phân tích đã dùng để chấm điểm
type Signals struct {
	Cham        analysis.ChamReport         `json:"cham"`
	TailSum     analysis.TailSumReport      `json:"tail_sum"`
	Recurrence  analysis.RecurrenceReport   `json:"recurrence"`
	Horizontal  []analysis.HorizontalBridge `json:"horizontal"`
	Cross       []analysis.CrossGroup       `json:"cross"`
	Weekday     analysis.WeekdayReport      `json:"weekday"`
	Periodicity []analysis.PeriodicEntry    `json:"periodicity"`
}

type TraditionalResult struct {
	LatestDate  string      `json:"latest_date"`
	PredictDate string      `json:"predict_date"`
	Candidates  []Candidate `json:"candidates"`
	Summary     Summary     `json:"summary"`
	Signals     Signals     `json:"signals"`
}

type scoreboard struct {
	score   map[string]float64
	reasons map[string][]string
}

func newScoreboard() *scoreboard {
	return &scoreboard{score: make(map[string]float64), reasons: make(map[string][]string)}
}

func (s *scoreboard) add(number string, points float64, format string, args ...interface{}) {
	s.score[number] += points
	s.reasons[number] = append(s.reasons[number], fmt.Sprintf(format, args...))
}

func percent(ratio float64) float64 {
	return ratio * 100
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// ScoreTraditional chấm điểm 100 số từ một snapshot. Cùng snapshot luôn cho cùng kết quả, kể cả chuỗi lý do.
func ScoreTraditional(snap analysis.Snapshot, topK int) (TraditionalResult, error) {
	latest, ok := snap.Latest()
	if !ok || len(snap.Days) < MinTraditionalDays {
		return TraditionalResult{}, fmt.Errorf("%w: traditional prediction needs %d valid days, got %d",
			analysis.ErrInsufficientData, MinTraditionalDays, len(snap.Days))
	}
	predictDate := latest.Date.AddDate(0, 0, 1)
	sig := Signals{
		Cham:        snap.Cham(),
		TailSum:     snap.TailSum(),
		Recurrence:  snap.Recurrence(),
		Horizontal:  snap.Horizontal(),
		Cross:       snap.Cross(),
		Weekday:     snap.Weekday(),
		Periodicity: snap.Periodicity(),
	}
	numbers := result.AllNumbers()
	board := newScoreboard()

	// 1. Chạm
	if total := sig.Cham.Total(); total > 0 {
		for _, t := range sig.Cham.All {
			if t.Count == 0 {
				continue
			}
			rate := float64(t.Count) / float64(total)
			points := (1 - rate) * weightChamRarity
			for _, n := range numbers {
				if strings.Contains(n, t.Digit) && points > 0 {
					board.add(n, points, "Chạm %s (tỷ lệ thấp: %.2f%%) (+%.2f điểm)", t.Digit, percent(rate), points)
				}
			}
		}
	}
	for _, t := range sig.Cham.Special {
		if !t.Strong {
			continue
		}
		points := float64(t.Count) * weightChamSpecial
		for _, n := range numbers {
			if strings.Contains(n, t.Digit) {
				board.add(n, points, "Chạm ĐB %s (%d lần: %s) (+%.2f điểm)", t.Digit, t.Count, strings.Join(t.Dates, ", "), points)
			}
		}
	}

	// 2. Tổng
	if total := sig.TailSum.Total(); total > 0 {
		for s, count := range sig.TailSum.Totals {
			if count == 0 {
				continue
			}
			rate := float64(count) / float64(total)
			points := (1 - rate) * weightTailSumRarity
			for _, n := range numbers {
				if analysis.PairSum(n) == s && points > 0 {
					board.add(n, points, "Tổng %d (tỷ lệ thấp: %.2f%%) (+%.2f điểm)", s, percent(rate), points)
				}
			}
		}
	}

	// 3. Lô rơi
	credited := make(map[string]bool)
	for _, flavor := range []struct {
		name string
		f    analysis.DropFlavor
	}{{"ĐB", sig.Recurrence.Special}, {"nhiều nháy", sig.Recurrence.Multi}} {
		if flavor.f.Due < dueThreshold {
			continue
		}
		points := (flavor.f.Due - dueThreshold) * weightDue
		for _, n := range flavor.f.Numbers() {
			board.add(n, points, "Lô rơi từ %s (XS ngày mai: %.2f%%) (+%.2f điểm)", flavor.name, flavor.f.Due, points)
			credited[n] = true
		}
	}
	candidates := append([]analysis.StandingCandidate(nil), sig.Recurrence.Candidates...)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Value < candidates[j].Value })
	for _, c := range candidates {
		if c.Rate < candidateThreshold || credited[c.Value] {
			continue
		}
		points := (c.Rate - candidateThreshold) * weightCandidate
		board.add(c.Value, points, "Ứng viên lô rơi (tỷ lệ: %.2f%%) (+%.2f điểm)", c.Rate, points)
	}

	// 4. Cầu ngang
	byNumber := analysis.HorizontalByNumber(sig.Horizontal)
	for _, n := range numbers {
		if count := len(byNumber[n]); count > 0 {
			points := math.Min(float64(count)*weightHorizontal, capHorizontal)
			board.add(n, points, "Có %d cầu ngang (+%.2f điểm)", count, points)
		}
	}

	// 5. Cầu chéo
	for _, g := range sig.Cross {
		points := math.Min(float64(len(g.Bridges))*weightCross, capCross)
		board.add(g.Value, points, "Có %d cầu chéo (+%.2f điểm)", len(g.Bridges), points)
	}

	// 6. Theo thứ của ngày cần đoán
	if stat, ok := sig.Weekday.For(predictDate.Weekday()); ok {
		for _, item := range stat.Top {
			points := item.Probability * weightWeekday
			if points > 0 {
				board.add(item.Value, points, "%s (XS: %.2f%%) (+%.2f điểm)", stat.Weekday, item.Probability, points)
			}
		}
	}

	// 7. Lặp đều
	for _, e := range sig.Periodicity {
		recency := math.Max(0, float64(recencyHorizon-e.DaysSinceLast)*weightRecency)
		cycle := 0.0
		var cycles []string
		for _, p := range e.Patterns {
			if p.Confidence >= patternThreshold {
				cycle += p.Confidence * weightPattern
				cycles = append(cycles, fmt.Sprintf("%d ngày (%.2f%%)", p.Gap, p.Confidence))
			}
		}
		points := math.Min(recency+cycle, capPeriodic)
		if points <= 0 {
			continue
		}
		parts := []string{}
		if recency > 0 {
			parts = append(parts, fmt.Sprintf("gần đây (%s)", e.LastSeen))
		}
		parts = append(parts, cycles...)
		board.add(e.Value, points, "Chu kỳ: %s (+%.2f điểm)", strings.Join(parts, ", "), points)
	}

	// 8. Ít xuất hiện, tính cho cả 100 số kể cả số chưa về trong cửa sổ
	rarityDays := analysis.Tail(snap.Days, snap.Config.RarityWindow)
	window := snap.Config.RarityWindow
	for _, n := range numbers {
		count := 0
		for _, d := range rarityDays {
			if result.LastTwoDigits(d).Has(n) {
				count++
			}
		}
		points := float64(window-count) * weightRarity
		if points > 0 {
			board.add(n, points, "Ít xuất hiện (%d/%d ngày) (+%.2f điểm)", count, window, points)
		}
	}

	ranked := rank(board, numbers)
	if topK <= 0 || topK > len(ranked) {
		topK = len(ranked)
	}
	top := ranked[:topK]

	res := TraditionalResult{
		LatestDate:  latest.Label,
		PredictDate: result.FormatDate(predictDate),
		Candidates:  top,
		Signals:     sig,
		Summary: Summary{
			Total:    len(ranked),
			MaxScore: ranked[0].Score,
			MinScore: ranked[len(ranked)-1].Score,
		},
	}
	reasons := 0
	for _, c := range top {
		reasons += c.ReasonCount
	}
	if len(top) > 0 {
		res.Summary.AvgReasons = round(float64(reasons)/float64(len(top)), 1)
	}
	return res, nil
}

func rank(board *scoreboard, numbers []string) []Candidate {
	out := make([]Candidate, 0, len(numbers))
	raw := make(map[string]float64, len(numbers))
	for _, n := range numbers {
		reasons := board.reasons[n]
		c := Candidate{Number: n, Score: round(board.score[n], 2), ReasonCount: len(reasons), Reasons: reasons}
		if len(reasons) == 0 {
			c.Reasons = []string{noReason}
		}
		raw[n] = board.score[n]
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if raw[out[i].Number] != raw[out[j].Number] {
			return raw[out[i].Number] > raw[out[j].Number]
		}
		return out[i].Number < out[j].Number
	})
	return out
}
