package predict

import (
	"fmt"
	"time"

	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/internal/analysis"
	"github.com/thep200/xsmb-analyzer/internal/result"
)

// FeatureNames theo đúng thứ tự cột của vector đặc trưng
var FeatureNames = []string{
	"freq_7days", "freq_prev_day", "freq_3days", "freq_14days", "freq_30days",
	"freq_ratio_7days", "freq_ratio_30days",
	"avg_gap", "min_gap", "max_gap", "last_gap", "consecutive_count", "days_since_last",
	"is_cau_ngang", "is_cau_cheo", "cau_ngang_strength", "cau_cheo_strength", "in_any_cau",
	"is_lo_roi_ung_vien", "lo_roi_ty_le", "days_since_roi_db", "days_since_roi_nhieu",
	"cham_dau", "cham_cuoi", "tong", "tong_chan", "tong_le", "tong_lon", "tong_nho",
	"is_monday", "is_tuesday", "is_wednesday", "is_thursday", "is_friday", "is_saturday", "is_sunday",
}

// Row là một mẫu (ngày mốc, số). Label chỉ có nghĩa với mẫu huấn luyện.
type Row struct {
	Anchor   string
	Target   string
	Number   string
	Features []float64
	Label    int
}

type Dataset struct {
	Train       []Row
	Predict     []Row
	PredictDate time.Time
}

// Labels trả về nhãn của tập huấn luyện
func (d Dataset) Labels() []int {
	out := make([]int, len(d.Train))
	for i, r := range d.Train {
		out[i] = r.Label
	}
	return out
}

func matrix(rows []Row) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Features
	}
	return out
}

// anchorSignals là tín hiệu cầu và lô rơi tính trên lịch sử tới ngày mốc
type anchorSignals struct {
	ngang      map[string]int
	cheo       map[string]int
	candidates map[string]float64
	sinceDB    float64
	sinceMulti float64
}

type featureBuilder struct {
	days    []result.DayResult
	present []result.PairSet
	conf    cfg.Analysis
}

// BuildDataset dựng tập huấn luyện và tập dự đoán từ các ngày hợp lệ cũ -> mới.
// Mẫu huấn luyện lấy mốc i từ ngày thứ 8 tới ngày kế cuối, nhãn là số có về ở ngày i+1.
// Mọi đặc trưng của mốc i chỉ dùng dữ liệu tới hết ngày i.
func BuildDataset(days []result.DayResult, conf cfg.Analysis) (Dataset, error) {
	need := conf.MLMinDays
	if need < 2 {
		need = 2
	}
	if len(days) < need {
		return Dataset{}, fmt.Errorf("%w: ml prediction needs %d valid days, got %d", analysis.ErrInsufficientData, need, len(days))
	}
	b := &featureBuilder{days: days, present: make([]result.PairSet, len(days)), conf: conf}
	for i, d := range days {
		b.present[i] = result.LastTwoDigits(d)
	}

	var ds Dataset
	numbers := result.AllNumbers()
	for i := 7; i < len(days)-1; i++ {
		sig := b.signals(i)
		for _, number := range numbers {
			label := 0
			if b.present[i+1].Has(number) {
				label = 1
			}
			ds.Train = append(ds.Train, Row{
				Anchor:   days[i].Label,
				Target:   days[i+1].Label,
				Number:   number,
				Features: b.features(i, days[i+1].Date, number, sig),
				Label:    label,
			})
		}
	}

	last := len(days) - 1
	ds.PredictDate = days[last].Date.AddDate(0, 0, 1)
	sig := b.signals(last)
	for _, number := range numbers {
		ds.Predict = append(ds.Predict, Row{
			Anchor:   days[last].Label,
			Target:   result.FormatDate(ds.PredictDate),
			Number:   number,
			Features: b.features(last, ds.PredictDate, number, sig),
		})
	}
	if len(ds.Train) == 0 || len(ds.Predict) == 0 {
		return Dataset{}, fmt.Errorf("%w: empty feature set", analysis.ErrInsufficientData)
	}
	return ds, nil
}

func (b *featureBuilder) signals(anchor int) anchorSignals {
	history := b.days[:anchor+1]
	snap := analysis.Snapshot{Days: history, Config: b.conf}
	sig := anchorSignals{
		ngang:      make(map[string]int),
		cheo:       make(map[string]int),
		candidates: make(map[string]float64),
		sinceDB:    float64(len(history)),
		sinceMulti: float64(len(history)),
	}
	for _, br := range snap.Horizontal() {
		if br.Length() > sig.ngang[br.Final] {
			sig.ngang[br.Final] = br.Length()
		}
	}
	for _, g := range snap.Cross() {
		for _, br := range g.Bridges {
			if br.Length() > sig.cheo[g.Value] {
				sig.cheo[g.Value] = br.Length()
			}
		}
	}
	rec := analysis.DetectRecurrence(history)
	for _, c := range rec.Candidates {
		sig.candidates[c.Value] = c.Rate
	}
	if rec.Special.Count > 0 {
		sig.sinceDB = float64(rec.Special.LastGap)
	}
	if rec.Multi.Count > 0 {
		sig.sinceMulti = float64(rec.Multi.LastGap)
	}
	return sig
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// count đếm số ngày trong [from, to] có số
func (b *featureBuilder) count(number string, from, to int) int {
	if from < 0 {
		from = 0
	}
	n := 0
	for i := from; i <= to; i++ {
		if b.present[i].Has(number) {
			n++
		}
	}
	return n
}

func (b *featureBuilder) features(anchor int, target time.Time, number string, sig anchorSignals) []float64 {
	f := make([]float64, 0, len(FeatureNames))

	freq7 := b.count(number, anchor-6, anchor)
	freq3 := b.count(number, anchor-2, anchor)
	freq14 := b.count(number, anchor-13, anchor)
	start30 := anchor - 29
	if start30 < 0 {
		start30 = 0
	}
	span30 := anchor - start30 + 1
	freq30 := b.count(number, start30, anchor)
	f = append(f,
		float64(freq7),
		boolf(b.present[anchor].Has(number)),
		float64(freq3),
		float64(freq14),
		float64(freq30),
		float64(freq7)/7,
		float64(freq30)/float64(span30),
	)

	// khoảng cách theo số ngày hợp lệ trong 30 ngày gần nhất
	var idx []int
	for i := start30; i <= anchor; i++ {
		if b.present[i].Has(number) {
			idx = append(idx, i-start30)
		}
	}
	avgGap, minGap, maxGap, lastGap := float64(span30), float64(span30), float64(span30), float64(span30)
	consecutive := 0
	if len(idx) >= 2 {
		sum, lo, hi := 0, idx[1]-idx[0], idx[1]-idx[0]
		for k := 1; k < len(idx); k++ {
			g := idx[k] - idx[k-1]
			sum += g
			if g < lo {
				lo = g
			}
			if g > hi {
				hi = g
			}
			if g == 1 {
				consecutive++
			}
		}
		avgGap = float64(sum) / float64(len(idx)-1)
		minGap, maxGap = float64(lo), float64(hi)
		lastGap = float64(idx[len(idx)-1] - idx[len(idx)-2])
	}
	sinceLast := float64(span30)
	if len(idx) > 0 {
		sinceLast = float64(span30 - 1 - idx[len(idx)-1])
	}
	f = append(f, avgGap, minGap, maxGap, lastGap, float64(consecutive), sinceLast)

	ngang, cheo := sig.ngang[number], sig.cheo[number]
	f = append(f,
		boolf(ngang > 0),
		boolf(cheo > 0),
		float64(ngang),
		float64(cheo),
		boolf(ngang > 0 || cheo > 0),
	)

	rate, isCandidate := sig.candidates[number]
	f = append(f, boolf(isCandidate), rate, sig.sinceDB, sig.sinceMulti)

	first, second := int(number[0]-'0'), int(number[1]-'0')
	sum := first + second
	f = append(f,
		float64(first),
		float64(second),
		float64(sum),
		boolf(sum%2 == 0),
		boolf(sum%2 == 1),
		boolf(sum > 9),
		boolf(sum <= 9),
	)

	// thứ của ngày cần đoán, bắt đầu từ thứ 2
	dow := (int(target.Weekday()) + 6) % 7
	for k := 0; k < 7; k++ {
		f = append(f, boolf(k == dow))
	}
	return f
}
