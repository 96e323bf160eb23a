// Gói resulttest dựng dữ liệu kết quả giả cho test của các gói phân tích.
package resulttest

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/thep200/xsmb-analyzer/internal/result"
)

// Cấu trúc bảng XSMB: số lượng giá trị và độ dài mỗi giá trị theo giải
var layout = []struct {
	tier   string
	count  int
	digits int
}{
	{result.TierSpecial, 1, 5},
	{result.TierG1, 1, 5},
	{result.TierG2, 2, 5},
	{result.TierG3, 6, 5},
	{result.TierG4, 4, 4},
	{result.TierG5, 6, 4},
	{result.TierG6, 3, 3},
	{result.TierG7, 4, 2},
}

// Date dựng ngày UTC
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Raw dựng một tài liệu thô, prizes theo cặp nhãn -> giá trị
func Raw(date time.Time, prizes map[string][]string) result.RawDay {
	raw := result.RawDay{Date: result.FormatDate(date), Prizes: map[string]result.PrizeValue{}}
	for label, values := range prizes {
		if len(values) == 1 && label == result.TierSpecial {
			raw.Prizes[label] = result.Single(values[0])
			continue
		}
		raw.Prizes[label] = result.Multi(values)
	}
	return raw
}

// Day dựng DayResult đã chuẩn hoá
func Day(date time.Time, prizes map[string][]string) result.DayResult {
	d, ok := result.Normalize(Raw(date, prizes))
	if !ok {
		panic(fmt.Sprintf("resulttest: bad date %v", date))
	}
	return d
}

// RandomPrizes sinh một bảng kết quả đầy đủ 27 giải theo seed
func RandomPrizes(rng *rand.Rand) map[string][]string {
	prizes := make(map[string][]string, len(layout))
	for _, l := range layout {
		values := make([]string, l.count)
		for i := range values {
			b := make([]byte, l.digits)
			for k := range b {
				b[k] = byte('0' + rng.Intn(10))
			}
			values[i] = string(b)
		}
		prizes[l.tier] = values
	}
	return prizes
}

// RandomDays sinh n ngày liên tiếp bắt đầu từ start, tất cả hợp lệ
func RandomDays(start time.Time, n int, seed int64) []result.DayResult {
	rng := rand.New(rand.NewSource(seed))
	days := make([]result.DayResult, n)
	for i := range days {
		days[i] = Day(start.AddDate(0, 0, i), RandomPrizes(rng))
	}
	return days
}

// RandomRaws giống RandomDays nhưng trả về tài liệu thô để nạp vào kho
func RandomRaws(start time.Time, n int, seed int64) []result.RawDay {
	rng := rand.New(rand.NewSource(seed))
	raws := make([]result.RawDay, n)
	for i := range raws {
		raws[i] = Raw(start.AddDate(0, 0, i), RandomPrizes(rng))
	}
	return raws
}

// Source gói các ngày thành StaticSource
func Source(days ...result.DayResult) result.StaticSource {
	src := make(result.StaticSource, 0, len(days))
	for _, d := range days {
		prizes := make(map[string][]string, len(d.Tiers))
		for _, t := range d.Tiers {
			prizes[t.Label] = t.Values
		}
		src = append(src, Raw(d.Date, prizes))
	}
	return src
}
