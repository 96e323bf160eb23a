// Gói analysis chứa các bộ dò mẫu (cầu ngang, cầu chéo, lô rơi) và các thống kê tổng hợp
// (chạm, tổng, theo thứ, lặp đều) trên chuỗi ngày kết quả hợp lệ.
//
// Mọi hàm Detect*/Compute* đều thuần: nhận các ngày theo thứ tự cũ -> mới và không giữ trạng thái.
// Analyzer đọc cửa sổ ngày từ kho một lần rồi gọi các hàm thuần trên bản chụp đó.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/thep200/xsmb-analyzer/internal/result"
)

// ErrInsufficientData khi số ngày hợp lệ ít hơn mức tối thiểu của bộ phân tích
var ErrInsufficientData = errors.New("insufficient data")

func insufficient(what string, need, got int) error {
	return fmt.Errorf("%w: %s needs %d valid days, got %d", ErrInsufficientData, what, need, got)
}

// BridgeEntry là một mốc (ngày, giá trị) trong lịch sử một cầu
type BridgeEntry struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// Tail lấy n ngày cuối của dãy cũ -> mới
func Tail(days []result.DayResult, n int) []result.DayResult {
	if n <= 0 || n >= len(days) {
		return days
	}
	return days[len(days)-n:]
}

// LatestContiguous lấy đoạn ngày liền nhau theo lịch ở cuối dãy, tối đa n ngày
func LatestContiguous(days []result.DayResult, n int) []result.DayResult {
	if len(days) == 0 {
		return days
	}
	start := len(days) - 1
	for start > 0 && result.Adjacent(days[start-1], days[start]) {
		start--
	}
	return Tail(days[start:], n)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func labels(days []result.DayResult) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Label
	}
	return out
}

func lessPosition(a, b result.Position) bool {
	if ra, rb := result.TierRank(a.Tier), result.TierRank(b.Tier); ra != rb {
		return ra < rb
	}
	if a.Tier != b.Tier {
		return a.Tier < b.Tier
	}
	if a.Index != b.Index {
		return a.Index < b.Index
	}
	return a.Offset < b.Offset
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
