// Crawler version 1
// Tải trang kết quả và upsert thẳng vào bảng kq_xs

package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/internal/model"
	"github.com/thep200/xsmb-analyzer/pkg/db"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

type CrawlerV1 struct {
	Logger   log.Logger
	Config   *cfg.Config
	Db       db.Database
	KetQuaMd *model.KetQua
	page     *Page
}

func NewCrawlerV1(logger log.Logger, config *cfg.Config, database db.Database) (*CrawlerV1, error) {
	ketQuaMd, err := model.NewKetQua(config, logger, database)
	if err != nil {
		return nil, fmt.Errorf("failed to create ket qua model: %w", err)
	}
	return &CrawlerV1{
		Logger:   logger,
		Config:   config,
		Db:       database,
		KetQuaMd: ketQuaMd,
		page:     NewPage(config, logger),
	}, nil
}

func (c *CrawlerV1) Crawl(ctx context.Context, dates []time.Time) (Stats, error) {
	return crawlDates(ctx, c.Logger, c.page, dates, c.KetQuaMd.Upsert)
}
