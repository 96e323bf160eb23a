// Crawler version 2
// Giống v1 nhưng gửi kết quả lên Kafka, consumer sẽ ghi vào database theo lô

package crawler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/internal/model"
	"github.com/thep200/xsmb-analyzer/internal/result"
	"github.com/thep200/xsmb-analyzer/pkg/kafka"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

type CrawlerV2 struct {
	Logger    log.Logger
	Config    *cfg.Config
	Publisher kafka.Publisher
	page      *Page
}

func NewCrawlerV2(logger log.Logger, config *cfg.Config, publisher kafka.Publisher) *CrawlerV2 {
	return &CrawlerV2{
		Logger:    logger,
		Config:    config,
		Publisher: publisher,
		page:      NewPage(config, logger),
	}
}

// Crawl gắn cùng một crawl id cho mọi message của lần chạy
func (c *CrawlerV2) Crawl(ctx context.Context, dates []time.Time) (Stats, error) {
	crawlID := uuid.New()
	c.Logger.Info(ctx, "[CRAWLER] Crawl id %s", crawlID)
	return crawlDates(ctx, c.Logger, c.page, dates, func(ctx context.Context, raw result.RawDay, source string) error {
		return c.Publisher.Publish(ctx, model.KeyKetQua, model.NewKetQuaMessage(crawlID, raw, source))
	})
}

// Close đóng producer
func (c *CrawlerV2) Close() error {
	return c.Publisher.Close()
}
