package analysis

import (
	"context"

	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/internal/result"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

// Số ngày hợp lệ tối thiểu của từng bộ phân tích
const (
	minBridgeDays     = 2
	minRecurrenceDays = 2
	minStatDays       = 1
)

// Snapshot là một lần đọc cửa sổ ngày hợp lệ (cũ -> mới). Mọi phân tích trên snapshot
// chỉ cắt đuôi của cùng một dãy nên nhất quán với nhau dù kho đang được ghi.
type Snapshot struct {
	Days   []result.DayResult
	Config cfg.Analysis
}

// MaxWindow là số ngày cần đọc để chạy được mọi phân tích truyền thống
func MaxWindow(c cfg.Analysis) int {
	n := c.HorizontalWindow
	for _, w := range []int{
		c.CrossWindow + c.CrossBuffer,
		c.RecurrenceWindow,
		c.ChamWindow,
		c.TailSumDays,
		c.WeekdayWindow,
		c.PeriodicWindow,
		c.RunWindow,
		c.RarityWindow,
	} {
		if w > n {
			n = w
		}
	}
	return n
}

// Latest trả về ngày mới nhất của snapshot
func (s Snapshot) Latest() (result.DayResult, bool) {
	if len(s.Days) == 0 {
		return result.DayResult{}, false
	}
	return s.Days[len(s.Days)-1], true
}

func (s Snapshot) HorizontalDays() []result.DayResult {
	return Tail(s.Days, s.Config.HorizontalWindow)
}

func (s Snapshot) CrossDays() []result.DayResult {
	return LatestContiguous(Tail(s.Days, s.Config.CrossWindow+s.Config.CrossBuffer), s.Config.CrossWindow)
}

func (s Snapshot) Horizontal() []HorizontalBridge {
	return DetectHorizontalBridges(s.HorizontalDays())
}

func (s Snapshot) Cross() []CrossGroup {
	return DetectCrossBridges(s.CrossDays())
}

func (s Snapshot) Recurrence() RecurrenceReport {
	return DetectRecurrence(Tail(s.Days, s.Config.RecurrenceWindow))
}

func (s Snapshot) Cham() ChamReport {
	return ComputeCham(Tail(s.Days, s.Config.ChamWindow))
}

func (s Snapshot) TailSum() TailSumReport {
	return ComputeTailSum(Tail(s.Days, s.Config.TailSumDays))
}

func (s Snapshot) Weekday() WeekdayReport {
	return ComputeWeekday(Tail(s.Days, s.Config.WeekdayWindow))
}

func (s Snapshot) Periodicity() []PeriodicEntry {
	return ComputePeriodicity(Tail(s.Days, s.Config.PeriodicWindow), s.Config.PeriodicMaxStale)
}

func (s Snapshot) Runs() RunReport {
	return DetectRuns(Tail(s.Days, s.Config.RunWindow), s.Config.RunMaxGap)
}

// Analyzer đọc kho rồi chạy từng phân tích riêng lẻ
type Analyzer struct {
	Source result.Source
	Logger log.Logger
	Config cfg.Analysis
}

func NewAnalyzer(src result.Source, logger log.Logger, conf cfg.Analysis) *Analyzer {
	return &Analyzer{Source: src, Logger: logger, Config: conf}
}

func pick(window, def int) int {
	if window > 0 {
		return window
	}
	return def
}

// Snapshot đọc n ngày hợp lệ gần nhất đúng một lần
func (a *Analyzer) Snapshot(ctx context.Context, n int) (Snapshot, error) {
	days, err := result.RecentValidDays(ctx, a.Source, n)
	if err != nil {
		a.Logger.Error(ctx, "[ANALYSIS] Failed to read %d recent days: %v", n, err)
		return Snapshot{}, err
	}
	a.Logger.Debug(ctx, "[ANALYSIS] Loaded %d/%d valid days", len(days), n)
	return Snapshot{Days: days, Config: a.Config}, nil
}

func (a *Analyzer) load(ctx context.Context, what string, n, min int) (Snapshot, error) {
	snap, err := a.Snapshot(ctx, n)
	if err != nil {
		return Snapshot{}, err
	}
	if len(snap.Days) < min {
		a.Logger.Warn(ctx, "[ANALYSIS] %s: only %d valid days", what, len(snap.Days))
		return Snapshot{}, insufficient(what, min, len(snap.Days))
	}
	return snap, nil
}

func (a *Analyzer) HorizontalBridges(ctx context.Context, window int) ([]HorizontalBridge, error) {
	n := pick(window, a.Config.HorizontalWindow)
	snap, err := a.load(ctx, "horizontal bridge", n, minBridgeDays)
	if err != nil {
		return nil, err
	}
	snap.Config.HorizontalWindow = n
	return snap.Horizontal(), nil
}

// CrossBridges đọc thêm CrossBuffer ngày để bù ngày thiếu, rồi dùng đoạn liền nhau cuối cùng
func (a *Analyzer) CrossBridges(ctx context.Context, window int) ([]CrossGroup, error) {
	n := pick(window, a.Config.CrossWindow)
	snap, err := a.load(ctx, "cross bridge", n+a.Config.CrossBuffer, minBridgeDays)
	if err != nil {
		return nil, err
	}
	snap.Config.CrossWindow = n
	if got := len(snap.CrossDays()); got < minBridgeDays {
		return nil, insufficient("cross bridge", minBridgeDays, got)
	}
	return snap.Cross(), nil
}

func (a *Analyzer) Recurrence(ctx context.Context, window int) (RecurrenceReport, error) {
	n := pick(window, a.Config.RecurrenceWindow)
	snap, err := a.load(ctx, "recurrence", n, minRecurrenceDays)
	if err != nil {
		return RecurrenceReport{}, err
	}
	snap.Config.RecurrenceWindow = n
	return snap.Recurrence(), nil
}

func (a *Analyzer) DigitTouch(ctx context.Context, window int) (ChamReport, error) {
	n := pick(window, a.Config.ChamWindow)
	snap, err := a.load(ctx, "digit touch", n, minStatDays)
	if err != nil {
		return ChamReport{}, err
	}
	snap.Config.ChamWindow = n
	return snap.Cham(), nil
}

func (a *Analyzer) TailSum(ctx context.Context, window int) (TailSumReport, error) {
	n := pick(window, a.Config.TailSumDays)
	snap, err := a.load(ctx, "tail sum", n, minStatDays)
	if err != nil {
		return TailSumReport{}, err
	}
	snap.Config.TailSumDays = n
	return snap.TailSum(), nil
}

func (a *Analyzer) Weekday(ctx context.Context, window int) (WeekdayReport, error) {
	n := pick(window, a.Config.WeekdayWindow)
	snap, err := a.load(ctx, "weekday", n, minStatDays)
	if err != nil {
		return nil, err
	}
	snap.Config.WeekdayWindow = n
	return snap.Weekday(), nil
}

func (a *Analyzer) Periodicity(ctx context.Context, window int) ([]PeriodicEntry, error) {
	n := pick(window, a.Config.PeriodicWindow)
	snap, err := a.load(ctx, "periodicity", n, minStatDays)
	if err != nil {
		return nil, err
	}
	snap.Config.PeriodicWindow = n
	return snap.Periodicity(), nil
}

func (a *Analyzer) Runs(ctx context.Context, window int) (RunReport, error) {
	n := pick(window, a.Config.RunWindow)
	snap, err := a.load(ctx, "runs", n, minStatDays)
	if err != nil {
		return RunReport{}, err
	}
	snap.Config.RunWindow = n
	return snap.Runs(), nil
}
