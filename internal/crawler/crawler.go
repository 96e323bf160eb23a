// Crawler lấy kết quả XSMB từ trang xoso.com.vn theo từng ngày.
// v1 ghi trực tiếp vào database, v2 gửi message lên Kafka để consumer ghi theo lô.

package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thep200/xsmb-analyzer/internal/result"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

type Crawler interface {
	Crawl(ctx context.Context, dates []time.Time) (Stats, error)
}

// Stats thống kê một lần crawl
type Stats struct {
	Requested int      `json:"requested"`
	Saved     int      `json:"saved"`
	Failed    []string `json:"failed"`
	Duration  string   `json:"duration"`
}

type saveFunc func(ctx context.Context, raw result.RawDay, source string) error

// crawlDates tải từng ngày và gọi save, ngày lỗi được ghi lại và bỏ qua
func crawlDates(ctx context.Context, logger log.Logger, page *Page, dates []time.Time, save saveFunc) (Stats, error) {
	startTime := time.Now()
	stats := Stats{Requested: len(dates)}
	logger.Info(ctx, "[CRAWLER] Bắt đầu crawl %d ngày", len(dates))

	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(startTime).String()
			return stats, err
		}

		label := result.FormatDate(date)
		raw, url, err := page.Fetch(ctx, date)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				stats.Duration = time.Since(startTime).String()
				return stats, err
			}
			logger.Warn(ctx, "[CRAWLER] Không lấy được kết quả ngày %s: %v", label, err)
			stats.Failed = append(stats.Failed, label)
			continue
		}
		if err := save(ctx, raw, url); err != nil {
			logger.Error(ctx, "[CRAWLER] Không lưu được kết quả ngày %s: %v", label, err)
			stats.Failed = append(stats.Failed, label)
			continue
		}
		stats.Saved++
		logger.Info(ctx, "[CRAWLER] Đã lưu kết quả ngày %s", label)
	}

	stats.Duration = time.Since(startTime).String()
	logger.Info(ctx, "[CRAWLER] Hoàn thành: %d/%d ngày trong %s", stats.Saved, stats.Requested, stats.Duration)
	if stats.Saved == 0 && len(stats.Failed) > 0 {
		return stats, fmt.Errorf("[ERROR][CRAWLER] all %d dates failed", len(stats.Failed))
	}
	return stats, nil
}
