package result

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"
)

// ErrNotFound khi kho không có kết quả của ngày cần tìm
var ErrNotFound = errors.New("ket qua not found")

// Source là kho kết quả. RecentDocuments trả về tối đa limit tài liệu, mới nhất trước.
type Source interface {
	RecentDocuments(ctx context.Context, limit int) ([]RawDay, error)
}

// GetRecentDays đọc n ngày gần nhất, mới nhất trước, bỏ trùng ngày và bỏ ngày không đọc được.
// Khi trùng ngày, bản hợp lệ đầu tiên được giữ.
func GetRecentDays(ctx context.Context, src Source, n int) ([]DayResult, error) {
	if n <= 0 {
		return nil, nil
	}
	raws, err := src.RecentDocuments(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("read recent documents: %w", err)
	}
	days := dedupe(raws)
	if len(days) > n {
		days = days[:n]
	}
	return days, nil
}

func dedupe(raws []RawDay) []DayResult {
	byDate := make(map[string]int, len(raws))
	days := make([]DayResult, 0, len(raws))
	for _, raw := range raws {
		day, ok := Normalize(raw)
		if !ok {
			continue
		}
		if i, seen := byDate[day.Label]; seen {
			if !IsValid(days[i]) && IsValid(day) {
				days[i] = day
			}
			continue
		}
		byDate[day.Label] = len(days)
		days = append(days, day)
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days
}

// RecentValidDays trả về n ngày hợp lệ gần nhất theo thứ tự cũ -> mới.
// Nếu lần đọc đầu chưa đủ ngày hợp lệ thì đọc lại với giới hạn lớn hơn; chỉ lần đọc cuối được dùng.
func RecentValidDays(ctx context.Context, src Source, n int) ([]DayResult, error) {
	if n <= 0 {
		return nil, nil
	}
	limit := n + n/2 + 2
	for {
		raws, err := src.RecentDocuments(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("read recent documents: %w", err)
		}
		valid := make([]DayResult, 0, n)
		for _, d := range dedupe(raws) {
			if IsValid(d) {
				valid = append(valid, d)
			}
			if len(valid) == n {
				break
			}
		}
		if len(valid) == n || len(raws) < limit {
			reverse(valid)
			return valid, nil
		}
		limit *= 2
	}
}

func reverse(days []DayResult) {
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}
}

// DayFinder là kho tra được một ngày cụ thể
type DayFinder interface {
	FindDay(ctx context.Context, date time.Time) (RawDay, error)
}

// Số tài liệu tối đa được quét khi kho không tra được theo ngày
const scanLimit = 1000

// FindDay trả về kết quả đã chuẩn hoá của một ngày
func FindDay(ctx context.Context, src Source, date time.Time) (DayResult, error) {
	label := FormatDate(date)
	if finder, ok := src.(DayFinder); ok {
		raw, err := finder.FindDay(ctx, date)
		if err != nil {
			return DayResult{}, err
		}
		day, ok := Normalize(raw)
		if !ok {
			return DayResult{}, fmt.Errorf("%w: %s", ErrNotFound, label)
		}
		return day, nil
	}
	days, err := GetRecentDays(ctx, src, scanLimit)
	if err != nil {
		return DayResult{}, err
	}
	for _, d := range days {
		if d.Label == label {
			return d, nil
		}
	}
	return DayResult{}, fmt.Errorf("%w: %s", ErrNotFound, label)
}

// StaticSource là kho trong bộ nhớ, dùng cho test và phân tích từ file dump
type StaticSource []RawDay

func (s StaticSource) RecentDocuments(ctx context.Context, limit int) ([]RawDay, error) {
	type keyed struct {
		raw   RawDay
		valid bool
		key   int64
	}
	list := make([]keyed, 0, len(s))
	for _, raw := range s {
		t, ok := ParseDate(raw.Date)
		list = append(list, keyed{raw: raw, valid: ok, key: t.Unix()})
	}
	// Ngày không đọc được xếp cuối, giống sort theo ngày của kho thật
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].valid != list[j].valid {
			return list[i].valid
		}
		return list[i].key > list[j].key
	})
	if limit > len(list) {
		limit = len(list)
	}
	out := make([]RawDay, 0, limit)
	for _, k := range list[:limit] {
		out = append(out, k.raw)
	}
	return out, nil
}

// LoadDump đọc mảng JSON tài liệu theo dạng {"date": "...", "ketqua": {...}}
func LoadDump(r io.Reader) (StaticSource, error) {
	var raws []RawDay
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode dump: %w", err)
	}
	return StaticSource(raws), nil
}
