package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/thep200/xsmb-analyzer/internal/result"
)

// KeyKetQua là key của message kết quả trên Kafka
const KeyKetQua = "ket_qua"

// KetQuaMessage là kết quả một ngày gửi tới Kafka
type KetQuaMessage struct {
	CrawlID      string              `json:"crawl_id"`
	Date         string              `json:"date"`
	KetQua       map[string][]string `json:"ketqua"`
	CountNumbers int                 `json:"count_numbers"`
	Source       string              `json:"source"`
	CrawledAt    time.Time           `json:"crawled_at"`
}

func NewKetQuaMessage(crawlID uuid.UUID, raw result.RawDay, source string) KetQuaMessage {
	msg := KetQuaMessage{
		CrawlID:   crawlID.String(),
		Date:      raw.Date,
		KetQua:    make(map[string][]string, len(raw.Prizes)),
		Source:    source,
		CrawledAt: time.Now(),
	}
	for label, v := range raw.Prizes {
		values := v.Values()
		msg.KetQua[label] = values
		msg.CountNumbers += len(values)
	}
	return msg
}

func (m KetQuaMessage) Raw() result.RawDay {
	raw := result.RawDay{Date: m.Date, Prizes: make(map[string]result.PrizeValue, len(m.KetQua))}
	for label, values := range m.KetQua {
		raw.Prizes[label] = result.Multi(values)
	}
	return raw
}
