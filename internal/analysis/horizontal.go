package analysis

import (
	"sort"

	"github.com/thep200/xsmb-analyzer/internal/result"
)

// HorizontalBridge (cầu ngang) bám theo một vị trí cố định (giải, lần, vị trí ký tự).
// Giá trị ghi nhận mỗi ngày là cặp số đang nằm ở vị trí đó, không nhất thiết giống ngày trước.
type HorizontalBridge struct {
	Position     result.Position `json:"position"`
	Label        string          `json:"label"`
	Final        string          `json:"final"`
	FinalReverse string          `json:"final_reverse"`
	History      []BridgeEntry   `json:"history"`
}

func (b HorizontalBridge) Length() int {
	return len(b.History)
}

type horizontalChain struct {
	pos     result.Position
	history []BridgeEntry
}

func (c *horizontalChain) last() string {
	return c.history[len(c.history)-1].Value
}

// DetectHorizontalBridges dò cầu ngang trên các ngày hợp lệ theo thứ tự cũ -> mới.
// Chỉ các cầu còn sống tới ngày cuối cùng được trả về. Một khoảng trống lịch giữa hai ngày làm đứt mọi cầu.
func DetectHorizontalBridges(days []result.DayResult) []HorizontalBridge {
	var running []*horizontalChain

	for i := 0; i+1 < len(days); i++ {
		cur, next := days[i], days[i+1]
		if !result.Adjacent(cur, next) {
			running = nil
			continue
		}
		tails := result.LastTwoDigits(next)
		extended := make(map[result.Position]bool)
		var nextRunning []*horizontalChain

		// Nối các cầu đang chạy
		for _, c := range running {
			if !tails.Has(c.last()) {
				continue
			}
			v, ok := result.ValueAtPosition(next, c.pos)
			if !ok {
				continue
			}
			c.history = append(c.history, BridgeEntry{Date: next.Label, Value: v})
			nextRunning = append(nextRunning, c)
			extended[c.pos] = true
		}

		// Mở cầu mới từ ngày hiện tại
		for _, p := range result.AllPositionalPairs(cur) {
			if extended[p.Position] || !tails.Has(p.Value) {
				continue
			}
			v, ok := result.ValueAtPosition(next, p.Position)
			if !ok {
				continue
			}
			nextRunning = append(nextRunning, &horizontalChain{
				pos: p.Position,
				history: []BridgeEntry{
					{Date: cur.Label, Value: p.Value},
					{Date: next.Label, Value: v},
				},
			})
			extended[p.Position] = true
		}
		running = nextRunning
	}

	out := make([]HorizontalBridge, 0, len(running))
	for _, c := range running {
		final := c.last()
		out = append(out, HorizontalBridge{
			Position:     c.pos,
			Label:        c.pos.Label(),
			Final:        final,
			FinalReverse: result.Reverse(final),
			History:      c.history,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Final != out[j].Final {
			return out[i].Final < out[j].Final
		}
		return lessPosition(out[i].Position, out[j].Position)
	})
	return out
}

// HorizontalByNumber gom cầu ngang theo số cuối và số đảo
func HorizontalByNumber(bridges []HorizontalBridge) map[string][]HorizontalBridge {
	out := make(map[string][]HorizontalBridge)
	for _, b := range bridges {
		out[b.Final] = append(out[b.Final], b)
		if b.FinalReverse != b.Final {
			out[b.FinalReverse] = append(out[b.FinalReverse], b)
		}
	}
	return out
}
