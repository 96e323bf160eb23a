package result

import (
	"fmt"
	"sort"
)

// Position xác định một vị trí logic trong bảng kết quả: giải, lần xuất hiện trong giải, vị trí ký tự
type Position struct {
	Tier   string `json:"tier"`
	Index  int    `json:"index"`
	Offset int    `json:"offset"`
}

// Label mô tả vị trí theo kiểu "G1 lần 1 vị trí 0-1"
func (p Position) Label() string {
	return fmt.Sprintf("%s lần %d vị trí %d-%d", p.Tier, p.Index+1, p.Offset, p.Offset+1)
}

// CharLabel mô tả một vị trí ký tự đơn
func (p Position) CharLabel() string {
	return fmt.Sprintf("%s lần %d ký tự %d", p.Tier, p.Index+1, p.Offset)
}

// PositionalPair là một cặp hai ký tự liên tiếp tại một vị trí
type PositionalPair struct {
	Position
	Value string `json:"value"`
}

// PairSet là tập các cặp hai số
type PairSet map[string]struct{}

func (s PairSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s PairSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// IsPair: đúng hai ký tự số ASCII
func IsPair(s string) bool {
	return len(s) == 2 && isDigit(s[0]) && isDigit(s[1])
}

// Reverse đảo hai chữ số của cặp
func Reverse(pair string) string {
	if len(pair) != 2 {
		return pair
	}
	return string([]byte{pair[1], pair[0]})
}

// TailOf trả về hai ký tự cuối nếu là cặp số hợp lệ
func TailOf(v string) (string, bool) {
	if len(v) < 2 {
		return "", false
	}
	tail := v[len(v)-2:]
	if !IsPair(tail) {
		return "", false
	}
	return tail, true
}

// TailPairs liệt kê hai số cuối của mọi giá trị, giữ cả lặp lại, theo thứ tự giải
func TailPairs(d DayResult) []string {
	out := make([]string, 0, d.CountNumbers())
	for _, t := range d.Tiers {
		for _, v := range t.Values {
			if tail, ok := TailOf(v); ok {
				out = append(out, tail)
			}
		}
	}
	return out
}

// TierTails giống TailPairs nhưng chỉ cho một giải
func TierTails(d DayResult, tier string) []string {
	var out []string
	for _, v := range d.Tier(tier) {
		if tail, ok := TailOf(v); ok {
			out = append(out, tail)
		}
	}
	return out
}

// LastTwoDigits trả về tập hai số cuối của ngày
func LastTwoDigits(d DayResult) PairSet {
	set := make(PairSet)
	for _, tail := range TailPairs(d) {
		set[tail] = struct{}{}
	}
	return set
}

// TailCounts đếm số lần mỗi cặp hai số cuối xuất hiện trong ngày
func TailCounts(d DayResult) map[string]int {
	counts := make(map[string]int)
	for _, tail := range TailPairs(d) {
		counts[tail]++
	}
	return counts
}

// SpecialTail trả về hai số cuối giải đặc biệt
func SpecialTail(d DayResult) (string, bool) {
	tails := TierTails(d, TierSpecial)
	if len(tails) == 0 {
		return "", false
	}
	return tails[0], true
}

// AllPositionalPairs liệt kê mọi cặp hai ký tự liên tiếp ở mọi vị trí của mọi giá trị.
// Thứ tự: giải theo thứ tự chuẩn, lần xuất hiện tăng dần, vị trí tăng dần.
func AllPositionalPairs(d DayResult) []PositionalPair {
	var out []PositionalPair
	for _, t := range d.Tiers {
		for idx, v := range t.Values {
			for off := 0; off+2 <= len(v); off++ {
				pair := v[off : off+2]
				if !IsPair(pair) {
					continue
				}
				out = append(out, PositionalPair{
					Position: Position{Tier: t.Label, Index: idx, Offset: off},
					Value:    pair,
				})
			}
		}
	}
	return out
}

func valueAt(d DayResult, tier string, index int) (string, bool) {
	values := d.Tier(tier)
	if index < 0 || index >= len(values) {
		return "", false
	}
	return values[index], true
}

// ValueAtPosition tra cặp hai ký tự tại vị trí, ok=false nếu vị trí không còn tồn tại
func ValueAtPosition(d DayResult, p Position) (string, bool) {
	v, ok := valueAt(d, p.Tier, p.Index)
	if !ok || p.Offset < 0 || p.Offset+2 > len(v) {
		return "", false
	}
	pair := v[p.Offset : p.Offset+2]
	if !IsPair(pair) {
		return "", false
	}
	return pair, true
}

// CharAt tra một chữ số đơn tại vị trí
func CharAt(d DayResult, p Position) (byte, bool) {
	v, ok := valueAt(d, p.Tier, p.Index)
	if !ok || p.Offset < 0 || p.Offset >= len(v) || !isDigit(v[p.Offset]) {
		return 0, false
	}
	return v[p.Offset], true
}

// AllCharPositions liệt kê mọi vị trí chữ số đơn theo thứ tự xác định
func AllCharPositions(d DayResult) []Position {
	var out []Position
	for _, t := range d.Tiers {
		for idx, v := range t.Values {
			for off := 0; off < len(v); off++ {
				if isDigit(v[off]) {
					out = append(out, Position{Tier: t.Label, Index: idx, Offset: off})
				}
			}
		}
	}
	return out
}

// AllNumbers trả về 00..99
func AllNumbers() []string {
	out := make([]string, 100)
	for i := 0; i < 100; i++ {
		out[i] = fmt.Sprintf("%02d", i)
	}
	return out
}
