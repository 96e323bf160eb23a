package analysis

import (
	"github.com/thep200/xsmb-analyzer/internal/result"
)

// CrossBridge (cầu chéo) ghép một ký tự ở vị trí First với một ký tự ở vị trí Second thuộc giải khác.
// Cặp vị trí nguồn cố định, giá trị ghép được có thể đổi theo ngày.
type CrossBridge struct {
	First   result.Position `json:"first"`
	Second  result.Position `json:"second"`
	Label   string          `json:"label"`
	Final   string          `json:"final"`
	History []BridgeEntry   `json:"history"`
}

func (b CrossBridge) Length() int {
	return len(b.History)
}

// CrossGroup gom các cầu chéo có cùng giá trị cuối
type CrossGroup struct {
	Value   string        `json:"value"`
	Bridges []CrossBridge `json:"bridges"`
}

func formCross(d result.DayResult, a, b result.Position) (string, bool) {
	ca, ok := result.CharAt(d, a)
	if !ok {
		return "", false
	}
	cb, ok := result.CharAt(d, b)
	if !ok {
		return "", false
	}
	return string([]byte{ca, cb}), true
}

// DetectCrossBridges dò cầu chéo bắt đầu từ ngày đầu tiên của dãy.
// Mỗi cặp vị trí (A, B) thuộc hai giải khác nhau tạo một ứng viên; ứng viên sống sót nếu ở mọi ngày sau,
// ký tự tại A ghép ký tự tại B nằm trong tập hai số cuối của ngày đó. Cầu đứt ở ngày đầu tiên không ghép được.
//
// Nhóm theo giá trị cuối; trong một nhóm mỗi cặp nguồn (A, B) chỉ xuất hiện một lần và lịch sử
// của các nguồn khác nhau không bao giờ bị gộp.
func DetectCrossBridges(days []result.DayResult) []CrossGroup {
	if len(days) < 2 {
		return nil
	}
	first := days[0]
	positions := result.AllCharPositions(first)
	tails := make([]result.PairSet, len(days))
	for j := 1; j < len(days); j++ {
		tails[j] = result.LastTwoDigits(days[j])
	}

	groups := make(map[string][]CrossBridge)
	for _, a := range positions {
		for _, b := range positions {
			if a.Tier == b.Tier {
				continue
			}
			initial, ok := formCross(first, a, b)
			if !ok {
				continue
			}
			history := []BridgeEntry{{Date: first.Label, Value: initial}}
			alive := true
			for j := 1; j < len(days); j++ {
				if !result.Adjacent(days[j-1], days[j]) {
					alive = false
					break
				}
				v, ok := formCross(days[j], a, b)
				if !ok || !tails[j].Has(v) {
					alive = false
					break
				}
				history = append(history, BridgeEntry{Date: days[j].Label, Value: v})
			}
			if !alive {
				continue
			}
			final := history[len(history)-1].Value
			groups[final] = append(groups[final], CrossBridge{
				First:   a,
				Second:  b,
				Label:   a.CharLabel() + " + " + b.CharLabel(),
				Final:   final,
				History: history,
			})
		}
	}

	out := make([]CrossGroup, 0, len(groups))
	for _, value := range sortedKeys(groups) {
		out = append(out, CrossGroup{Value: value, Bridges: groups[value]})
	}
	return out
}

// CrossCounts đếm số cầu chéo theo giá trị
func CrossCounts(groups []CrossGroup) map[string]int {
	out := make(map[string]int, len(groups))
	for _, g := range groups {
		out[g.Value] = len(g.Bridges)
	}
	return out
}
