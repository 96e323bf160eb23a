// Gói result chuẩn hoá tài liệu kết quả XSMB thành một dạng thống nhất
// và cung cấp các hàm trích xuất cặp số dùng chung cho bộ phân tích.

package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Nhãn các giải, theo thứ tự hiển thị của XSMB
const (
	TierSpecial = "ĐB"
	TierG1      = "G1"
	TierG2      = "G2"
	TierG3      = "G3"
	TierG4      = "G4"
	TierG5      = "G5"
	TierG6      = "G6"
	TierG7      = "G7"
)

var canonicalTiers = []string{TierSpecial, TierG1, TierG2, TierG3, TierG4, TierG5, TierG6, TierG7}

// PrizeValue là giá trị một giải trong tài liệu lưu trữ: một chuỗi hoặc một danh sách chuỗi
type PrizeValue interface {
	Values() []string
}

type Single string

type Multi []string

func (s Single) Values() []string {
	return []string{string(s)}
}

func (m Multi) Values() []string {
	out := make([]string, len(m))
	copy(out, m)
	return out
}

// ParsePrizeValue đọc giá trị JSON của một giải, chấp nhận cả chuỗi lẫn mảng chuỗi
func ParsePrizeValue(raw json.RawMessage) (PrizeValue, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Multi{}, nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return Single(s), nil
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return Multi(list), nil
	default:
		return nil, fmt.Errorf("unsupported prize value: %s", string(trimmed))
	}
}

// RawDay là một tài liệu như được lưu trong kho, chưa chuẩn hoá
type RawDay struct {
	Date   string
	Prizes map[string]PrizeValue
}

type rawDayJSON struct {
	Date   string                     `json:"date"`
	KetQua map[string]json.RawMessage `json:"ketqua"`
}

func (r *RawDay) UnmarshalJSON(data []byte) error {
	var doc rawDayJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	r.Date = doc.Date
	r.Prizes = make(map[string]PrizeValue, len(doc.KetQua))
	for label, raw := range doc.KetQua {
		v, err := ParsePrizeValue(raw)
		if err != nil {
			// Giải lỗi định dạng bị bỏ qua, không làm hỏng cả ngày
			continue
		}
		r.Prizes[label] = v
	}
	return nil
}

func (r RawDay) MarshalJSON() ([]byte, error) {
	ketqua := make(map[string][]string, len(r.Prizes))
	for label, v := range r.Prizes {
		ketqua[label] = v.Values()
	}
	return json.Marshal(struct {
		Date   string              `json:"date"`
		KetQua map[string][]string `json:"ketqua"`
	}{Date: r.Date, KetQua: ketqua})
}

// Tier là một giải đã chuẩn hoá
type Tier struct {
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// TierRank trả về thứ hạng của nhãn giải, nhãn lạ xếp sau các giải chuẩn
func TierRank(label string) int {
	for i, l := range canonicalTiers {
		if l == label {
			return i
		}
	}
	return len(canonicalTiers)
}

// TierOrder sắp các nhãn giải theo thứ tự chuẩn, nhãn lạ xếp sau theo thứ tự chữ cái
func TierOrder(labels []string) []string {
	rank := make(map[string]int, len(canonicalTiers))
	for i, l := range canonicalTiers {
		rank[l] = i
	}
	out := make([]string, len(labels))
	copy(out, labels)
	sort.SliceStable(out, func(i, j int) bool {
		ri, okI := rank[out[i]]
		rj, okJ := rank[out[j]]
		switch {
		case okI && okJ:
			return ri < rj
		case okI:
			return true
		case okJ:
			return false
		default:
			return out[i] < out[j]
		}
	})
	return out
}

func normalizeTiers(prizes map[string]PrizeValue) []Tier {
	labels := make([]string, 0, len(prizes))
	for label := range prizes {
		labels = append(labels, label)
	}
	tiers := make([]Tier, 0, len(labels))
	for _, label := range TierOrder(labels) {
		values := prizes[label].Values()
		for i := range values {
			values[i] = strings.TrimSpace(values[i])
		}
		tiers = append(tiers, Tier{Label: label, Values: values})
	}
	return tiers
}
