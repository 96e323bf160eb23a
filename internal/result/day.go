package result

import (
	"strings"
	"time"
)

// DateLayout là định dạng ngày lưu trong kho (31-7-2025)
const DateLayout = "2-1-2006"

// DisplayLayout là định dạng ngày hiển thị (31-07-2025)
const DisplayLayout = "02-01-2006"

// DayResult là kết quả một ngày đã chuẩn hoá
type DayResult struct {
	Date  time.Time `json:"-"`
	Label string    `json:"date"`
	Tiers []Tier    `json:"tiers"`
}

// ParseDate chấp nhận cả dạng có và không có số 0 đầu
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, DisplayLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate định dạng ngày để lưu
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Normalize chuyển một tài liệu thô sang DayResult, ok=false nếu ngày không đọc được
func Normalize(raw RawDay) (DayResult, bool) {
	date, ok := ParseDate(raw.Date)
	if !ok {
		return DayResult{}, false
	}
	return DayResult{
		Date:  date,
		Label: FormatDate(date),
		Tiers: normalizeTiers(raw.Prizes),
	}, true
}

// Tier trả về các giá trị của giải theo nhãn
func (d DayResult) Tier(label string) []string {
	for _, t := range d.Tiers {
		if t.Label == label {
			return t.Values
		}
	}
	return nil
}

// DisplayDate định dạng ngày có số 0 đầu
func (d DayResult) DisplayDate() string {
	return d.Date.Format(DisplayLayout)
}

// CountNumbers đếm tổng số giá trị đã in của ngày
func (d DayResult) CountNumbers() int {
	n := 0
	for _, t := range d.Tiers {
		n += len(t.Values)
	}
	return n
}

func isPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	return strings.Trim(v, ".…-*") == ""
}

// IsValid: ngày hợp lệ khi có ít nhất một giá trị thật dài từ 2 ký tự
func IsValid(d DayResult) bool {
	for _, t := range d.Tiers {
		for _, v := range t.Values {
			if !isPlaceholder(v) && len(v) >= 2 {
				return true
			}
		}
	}
	return false
}

// Adjacent cho biết b là ngày lịch liền sau a
func Adjacent(a, b DayResult) bool {
	return a.Date.AddDate(0, 0, 1).Equal(b.Date)
}

// DaysBetween trả về số ngày lịch từ a đến b
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
