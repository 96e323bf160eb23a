package analysis_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/internal/analysis"
	"github.com/thep200/xsmb-analyzer/internal/result"
	"github.com/thep200/xsmb-analyzer/internal/result/resulttest"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

func g7Days(start time.Time, values ...[]string) []result.DayResult {
	days := make([]result.DayResult, len(values))
	for i, v := range values {
		days[i] = resulttest.Day(start.AddDate(0, 0, i), prizes{result.TierG7: v})
	}
	return days
}

func TestSpecialRecurrenceScenario(t *testing.T) {
	start := resulttest.Date(2025, time.June, 1)
	specials := []string{"12323", "00001", "00002", "45623", "00003", "00004", "00005", "00006"}
	days := make([]result.DayResult, len(specials))
	for i, s := range specials {
		days[i] = resulttest.Day(start.AddDate(0, 0, i), prizes{
			result.TierSpecial: {s},
			result.TierG7:      {"8" + string(rune('0'+i)), "90"},
		})
	}

	report := analysis.DetectRecurrence(days)

	assert.Equal(t, 2, report.Special.Count)
	assert.Equal(t, 3.0, report.Special.AvgGap)
	assert.Equal(t, 4, report.Special.LastGap)
	assert.Equal(t, 100.0, report.Special.Due)
	assert.Equal(t, []string{"1-6-2025", "4-6-2025"}, report.Special.HitDates)
	assert.Equal(t, []string{"23"}, report.Special.Numbers())
	assert.Equal(t, days[7].Label, report.LatestDate)

	// chỉ 5 ngày: khoảng hiện tại 1 < 3
	short := analysis.DetectRecurrence(days[:5])
	assert.Equal(t, 2, short.Special.Count)
	assert.Equal(t, 1, short.Special.LastGap)
	assert.Equal(t, 33.33, short.Special.Due)
}

func TestSpecialRecurrencePairsEveryEarlierHit(t *testing.T) {
	start := resulttest.Date(2025, time.June, 1)
	specials := []string{"11123", "00001", "00002", "22223", "00003", "00004", "33323"}
	days := make([]result.DayResult, len(specials))
	for i, s := range specials {
		days[i] = resulttest.Day(start.AddDate(0, 0, i), prizes{result.TierSpecial: {s}})
	}

	report := analysis.DetectRecurrence(days)

	assert.Equal(t, []analysis.DropEvent{
		{Value: "23", From: "1-6-2025", To: "4-6-2025"},
		{Value: "23", From: "1-6-2025", To: "7-6-2025"},
		{Value: "23", From: "4-6-2025", To: "7-6-2025"},
	}, report.Special.Events)
	assert.Equal(t, []string{"1-6-2025", "4-6-2025", "7-6-2025"}, report.Special.HitDates)
	assert.Equal(t, 3, report.Special.Count)
	assert.Equal(t, 0, report.Special.LastGap)
}

func TestMultiRecurrenceAndCandidates(t *testing.T) {
	days := g7Days(resulttest.Date(2025, time.June, 1),
		[]string{"55", "55", "10"},
		[]string{"55", "11"},
		[]string{"12", "12"},
		[]string{"13", "14"},
		[]string{"55", "55", "12", "12"},
	)

	report := analysis.DetectRecurrence(days)

	assert.Equal(t, []analysis.DropEvent{{Value: "55", From: "1-6-2025", To: "2-6-2025"}}, report.Multi.Events)
	assert.Equal(t, 1, report.Multi.Count)
	assert.Equal(t, 0.0, report.Multi.Due)
	assert.Equal(t, 3, report.Multi.LastGap)

	require.Len(t, report.Candidates, 2)
	assert.Equal(t, analysis.StandingCandidate{Value: "55", Occurrences: 2, Eligible: 1, Returned: 1, Rate: 100}, report.Candidates[0])
	assert.Equal(t, analysis.StandingCandidate{Value: "12", Occurrences: 2, Eligible: 1, Returned: 0, Rate: 0}, report.Candidates[1])
}

func TestDueProbabilityBounds(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		avg     float64
		current int
		want    float64
	}{
		{"too few", 1, 3, 10, 0},
		{"meets average", 2, 3, 3, 100},
		{"exceeds average", 5, 2.5, 9, 100},
		{"partial", 3, 4, 1, 25},
		{"zero gap", 3, 4, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analysis.DueProbability(tt.count, tt.avg, tt.current)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}

	days := resulttest.RandomDays(resulttest.Date(2024, time.January, 1), 60, 5)
	for n := 2; n <= len(days); n += 7 {
		r := analysis.DetectRecurrence(days[:n])
		for _, f := range []analysis.DropFlavor{r.Special, r.Multi} {
			assert.GreaterOrEqual(t, f.Due, 0.0)
			assert.LessOrEqual(t, f.Due, 100.0)
			if f.Count >= 2 && float64(f.LastGap) >= f.AvgGap {
				assert.Equal(t, 100.0, f.Due)
			}
		}
	}
}

func TestComputeCham(t *testing.T) {
	d1 := resulttest.Day(resulttest.Date(2025, time.June, 1), prizes{
		result.TierSpecial: {"00011"},
		result.TierG7:      {"12", "13"},
	})
	d2 := resulttest.Day(resulttest.Date(2025, time.June, 2), prizes{
		result.TierSpecial: {"99911"},
		result.TierG7:      {"21"},
	})

	report := analysis.ComputeCham([]result.DayResult{d1, d2})

	require.Len(t, report.All, 10)
	assert.Equal(t, 7, report.All[1].Count)
	assert.Equal(t, 2, report.All[2].Count)
	assert.Equal(t, 1, report.All[3].Count)
	assert.Equal(t, []string{"1-6-2025"}, report.All[3].Dates)
	assert.Equal(t, 10, report.Total())

	assert.Equal(t, 4, report.Special[1].Count)
	assert.True(t, report.Special[1].Strong)
	assert.Equal(t, []string{"1-6-2025", "2-6-2025"}, report.Special[1].Dates)
	assert.False(t, report.Special[2].Strong)
}

func TestComputeTailSum(t *testing.T) {
	days := g7Days(resulttest.Date(2025, time.June, 1), []string{"11", "12", "13"}, []string{"11", "21"})

	report := analysis.ComputeTailSum(days)

	require.Len(t, report.Days, 2)
	assert.Equal(t, "1-6-2025", report.Days[0].Date)
	assert.Equal(t, [10]int{0, 0, 1, 1, 1}, report.Days[0].Counts)
	assert.Equal(t, [10]int{0, 0, 2, 2, 1}, report.Totals)
	assert.Equal(t, 5, report.Total())
	assert.Equal(t, 7, analysis.PairSum("98"))
}

func TestComputeWeekday(t *testing.T) {
	// 1-1-2024 là thứ 2
	days := []result.DayResult{
		resulttest.Day(resulttest.Date(2024, time.January, 1), prizes{result.TierG7: {"12", "34"}}),
		resulttest.Day(resulttest.Date(2024, time.January, 2), prizes{result.TierG7: {"77"}}),
		resulttest.Day(resulttest.Date(2024, time.January, 8), prizes{result.TierG7: {"12", "56"}}),
	}

	report := analysis.ComputeWeekday(days)

	require.Len(t, report, 7)
	monday, ok := report.For(time.Monday)
	require.True(t, ok)
	assert.Equal(t, "Thứ 2", monday.Weekday)
	assert.Equal(t, 2, monday.Days)
	assert.Equal(t, []analysis.WeekdayNumber{
		{Value: "12", Count: 2, Probability: 100},
		{Value: "34", Count: 1, Probability: 50},
		{Value: "56", Count: 1, Probability: 50},
	}, monday.Top)

	sunday, ok := report.For(time.Sunday)
	require.True(t, ok)
	assert.Equal(t, "Chủ Nhật", sunday.Weekday)
	assert.Empty(t, sunday.Top)
}

func TestComputePeriodicity(t *testing.T) {
	days := g7Days(resulttest.Date(2025, time.June, 1),
		[]string{"23", "45"},
		[]string{"45"},
		[]string{"23"},
		[]string{"45"},
		[]string{"23", "45"},
		[]string{"99"},
		[]string{"23"},
	)

	entries := analysis.ComputePeriodicity(days, 7)
	require.Len(t, entries, 2)

	assert.Equal(t, "23", entries[0].Value)
	assert.True(t, entries[0].FullyPeriodic)
	assert.Equal(t, []analysis.GapPattern{{Gap: 2, Occurrences: 3, Confidence: 100}}, entries[0].Patterns)
	assert.Equal(t, 0, entries[0].DaysSinceLast)

	assert.Equal(t, "45", entries[1].Value)
	assert.False(t, entries[1].FullyPeriodic)
	assert.Equal(t, []analysis.GapPattern{{Gap: 1, Occurrences: 2, Confidence: 66.67}}, entries[1].Patterns)
	assert.Equal(t, 2, entries[1].DaysSinceLast)

	stale := analysis.ComputePeriodicity(days, 1)
	require.Len(t, stale, 1)
	assert.Equal(t, "23", stale[0].Value)
}

func TestComputePeriodicityTwoAppearances(t *testing.T) {
	days := g7Days(resulttest.Date(2025, time.June, 1),
		[]string{"11"},
		[]string{"11"},
		[]string{"42"},
		[]string{"11"},
		[]string{"11"},
		[]string{"42"},
		[]string{"11"},
		[]string{"11"},
	)

	entries := analysis.ComputePeriodicity(days, 7)
	var found *analysis.PeriodicEntry
	for i := range entries {
		if entries[i].Value == "42" {
			found = &entries[i]
		}
	}
	require.NotNil(t, found, "số về đúng 2 lần phải có chu kỳ")
	assert.True(t, found.FullyPeriodic)
	assert.Equal(t, []analysis.GapPattern{{Gap: 3, Occurrences: 1, Confidence: 100}}, found.Patterns)
	assert.Equal(t, 2, found.DaysSinceLast)
}

func TestDetectRuns(t *testing.T) {
	days := g7Days(resulttest.Date(2025, time.June, 1),
		[]string{"23", "45"},
		[]string{"45"},
		[]string{"23"},
		[]string{"10"},
		[]string{"45"},
		[]string{"10"},
		[]string{"10"},
	)

	report := analysis.DetectRuns(days, 1)

	assert.Equal(t, []analysis.Run{{Start: "1-6-2025", End: "2-6-2025", Length: 2}}, report.Regular["45"])
	assert.Equal(t, []analysis.Run{{Start: "6-6-2025", End: "7-6-2025", Length: 2}}, report.Regular["10"])
	assert.NotContains(t, report.Regular, "23")
	assert.Empty(t, report.Special)
	assert.Len(t, report.Dates, 7)

	wide := analysis.DetectRuns(days, 3)
	assert.Equal(t, []analysis.Run{{Start: "1-6-2025", End: "3-6-2025", Length: 2}}, wide.Regular["23"])
	assert.Equal(t, []analysis.Run{{Start: "4-6-2025", End: "7-6-2025", Length: 3}}, wide.Regular["10"])
}

func newAnalyzer(t *testing.T, days ...result.DayResult) *analysis.Analyzer {
	t.Helper()
	logger, err := log.NewCslLoggerWith(io.Discard, "analysis", log.LevelDebug)
	require.NoError(t, err)
	return analysis.NewAnalyzer(resulttest.Source(days...), logger, cfg.DefaultAnalysis())
}

func TestAnalyzerInsufficientData(t *testing.T) {
	a := newAnalyzer(t, resulttest.RandomDays(resulttest.Date(2025, time.June, 1), 1, 1)...)
	ctx := context.Background()

	_, err := a.HorizontalBridges(ctx, 0)
	assert.True(t, errors.Is(err, analysis.ErrInsufficientData))
	_, err = a.CrossBridges(ctx, 0)
	assert.True(t, errors.Is(err, analysis.ErrInsufficientData))
	_, err = a.Recurrence(ctx, 0)
	assert.True(t, errors.Is(err, analysis.ErrInsufficientData))

	_, err = a.DigitTouch(ctx, 0)
	assert.NoError(t, err)

	empty := newAnalyzer(t)
	_, err = empty.TailSum(ctx, 0)
	assert.True(t, errors.Is(err, analysis.ErrInsufficientData))
}

func TestAnalyzerUsesWindow(t *testing.T) {
	days := resulttest.RandomDays(resulttest.Date(2025, time.June, 1), 20, 3)
	a := newAnalyzer(t, days...)
	ctx := context.Background()

	sum, err := a.TailSum(ctx, 0)
	require.NoError(t, err)
	require.Len(t, sum.Days, 7)
	assert.Equal(t, days[19].Label, sum.Days[6].Date)

	sum, err = a.TailSum(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, sum.Days, 3)

	bridges, err := a.HorizontalBridges(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, analysis.DetectHorizontalBridges(days[13:]), bridges)

	groups, err := a.CrossBridges(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, analysis.DetectCrossBridges(days[16:]), groups)
}
