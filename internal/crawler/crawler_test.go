package crawler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/internal/crawler"
	"github.com/thep200/xsmb-analyzer/internal/model"
	"github.com/thep200/xsmb-analyzer/internal/result"
	"github.com/thep200/xsmb-analyzer/internal/result/resulttest"
	"github.com/thep200/xsmb-analyzer/pkg/db"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

const pageHTML = `<html><body>
<table class="table-result">
<tr><th>ĐB</th><td><span class="special-prize">%s</span></td></tr>
<tr><th>G1</th><td><span class="prize1">54321</span></td></tr>
<tr><th>G2</th><td><span class="prize2">11111</span><span class="prize2">22222</span></td></tr>
<tr><th>G3</th><td><span class="prize3">30001</span><span class="prize3">30002</span></td></tr>
<tr><th>G7</th><td><span class="prize7"> 07 </span><span class="prize7">17</span><span class="prize7">27</span><span class="prize7">37</span></td></tr>
</table>
</body></html>`

const pendingHTML = `<html><body>
<span class="special-prize">...</span><span class="prize1">...</span><span class="prize7">-</span>
</body></html>`

func newConfig(t *testing.T, baseUrl string) *cfg.Config {
	t.Helper()
	loader, err := cfg.NewMockLoader()
	require.NoError(t, err)
	config, err := loader.Load()
	require.NoError(t, err)
	config.Xsmb.BaseUrl = baseUrl
	config.Xsmb.RequestsPerSecond = 0
	config.Sqlite.Path = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return config
}

func newLogger(t *testing.T) log.Logger {
	t.Helper()
	logger, err := log.NewCslLoggerWith(io.Discard, "crawler", log.LevelDebug)
	require.NoError(t, err)
	return logger
}

// newSite phục vụ trang kết quả cho các ngày có trong pages, còn lại trả 404
func newSite(t *testing.T, pages map[string]string) (*httptest.Server, *[]string) {
	t.Helper()
	var mu sync.Mutex
	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents = append(agents, r.UserAgent())
		mu.Unlock()
		special, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if special == "..." {
			fmt.Fprint(w, pendingHTML)
			return
		}
		fmt.Fprintf(w, pageHTML, special)
	}))
	t.Cleanup(srv.Close)
	return srv, &agents
}

func TestPageURL(t *testing.T) {
	date := resulttest.Date(2025, time.July, 1)
	assert.Equal(t, "https://xoso.com.vn/xsmb-01-07-2025.html", crawler.PageURL("https://xoso.com.vn/", date))
}

func TestParsePage(t *testing.T) {
	date := resulttest.Date(2025, time.July, 31)
	raw, err := crawler.ParsePage(strings.NewReader(fmt.Sprintf(pageHTML, "12345")), date)
	require.NoError(t, err)
	assert.Equal(t, "31-7-2025", raw.Date)

	day, ok := result.Normalize(raw)
	require.True(t, ok)
	assert.Equal(t, []string{"12345"}, day.Tier(result.TierSpecial))
	assert.Equal(t, []string{"11111", "22222"}, day.Tier(result.TierG2))
	assert.Equal(t, []string{"07", "17", "27", "37"}, day.Tier(result.TierG7))
	assert.Empty(t, day.Tier(result.TierG4))
	assert.Equal(t, 10, day.CountNumbers())

	_, err = crawler.ParsePage(strings.NewReader("<html><body>chưa có kết quả</body></html>"), date)
	assert.ErrorIs(t, err, crawler.ErrNoResult)
}

func TestCrawlerV1SavesAndSkipsMissingDays(t *testing.T) {
	srv, agents := newSite(t, map[string]string{
		"/xsmb-01-07-2025.html": "12345",
		"/xsmb-03-07-2025.html": "...",
	})
	config := newConfig(t, srv.URL)
	logger := newLogger(t)
	database, err := db.NewDatabase(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	c, err := crawler.NewCrawlerV1(logger, config, database)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(c.KetQuaMd))

	ctx := context.Background()
	stats, err := c.Crawl(ctx, crawler.DateRange(resulttest.Date(2025, time.July, 3), 3))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Requested)
	assert.Equal(t, 2, stats.Saved)
	assert.Equal(t, []string{"2-7-2025"}, stats.Failed)
	assert.Contains(t, (*agents)[0], "xsmb-analyzer")

	rec, err := c.KetQuaMd.FindByDate(ctx, resulttest.Date(2025, time.July, 1))
	require.NoError(t, err)
	assert.Equal(t, 10, rec.CountNumbers)
	assert.Equal(t, srv.URL+"/xsmb-01-07-2025.html", rec.Source)

	// ngày 3 mới có bản giữ chỗ nên chưa hợp lệ
	days, err := result.RecentValidDays(ctx, c.KetQuaMd, 5)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "1-7-2025", days[0].Label)
}

func TestCrawlerV1AllFailed(t *testing.T) {
	srv, _ := newSite(t, nil)
	config := newConfig(t, srv.URL)
	database, err := db.NewDatabase(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	c, err := crawler.NewCrawlerV1(newLogger(t), config, database)
	require.NoError(t, err)
	stats, err := c.Crawl(context.Background(), crawler.DateRange(resulttest.Date(2025, time.July, 3), 2))
	assert.Error(t, err)
	assert.Len(t, stats.Failed, 2)
}

func TestCrawlStopsOnCancel(t *testing.T) {
	srv, _ := newSite(t, map[string]string{"/xsmb-01-07-2025.html": "12345"})
	config := newConfig(t, srv.URL)
	pub := &memPublisher{}
	c := crawler.NewCrawlerV2(newLogger(t), config, pub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Crawl(ctx, crawler.DateRange(resulttest.Date(2025, time.July, 1), 1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, pub.messages)
}

type memPublisher struct {
	keys     []string
	messages []model.KetQuaMessage
	closed   bool
}

func (p *memPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	// đi qua JSON giống producer thật
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var msg model.KetQuaMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	p.keys = append(p.keys, key)
	p.messages = append(p.messages, msg)
	return nil
}

func (p *memPublisher) Close() error {
	p.closed = true
	return nil
}

func TestCrawlerV2Publishes(t *testing.T) {
	srv, _ := newSite(t, map[string]string{
		"/xsmb-01-07-2025.html": "12345",
		"/xsmb-02-07-2025.html": "67890",
	})
	config := newConfig(t, srv.URL)
	pub := &memPublisher{}
	c := crawler.NewCrawlerV2(newLogger(t), config, pub)

	stats, err := c.Crawl(context.Background(), crawler.DateRange(resulttest.Date(2025, time.July, 2), 2))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Saved)
	require.Len(t, pub.messages, 2)
	assert.Equal(t, []string{model.KeyKetQua, model.KeyKetQua}, pub.keys)
	assert.Equal(t, "1-7-2025", pub.messages[0].Date)
	assert.Equal(t, []string{"67890"}, pub.messages[1].KetQua[result.TierSpecial])
	assert.Equal(t, pub.messages[0].CrawlID, pub.messages[1].CrawlID)

	require.NoError(t, c.Close())
	assert.True(t, pub.closed)
}

func TestFactoryCrawler(t *testing.T) {
	config := newConfig(t, "http://127.0.0.1")
	database, err := db.NewDatabase(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	c, err := crawler.FactoryCrawler("v1", newLogger(t), config, database)
	require.NoError(t, err)
	assert.IsType(t, &crawler.CrawlerV1{}, c)

	_, err = crawler.FactoryCrawler("v9", newLogger(t), config, database)
	assert.Error(t, err)
}

func TestDateRangeAndToday(t *testing.T) {
	dates := crawler.DateRange(time.Date(2025, time.March, 1, 15, 4, 0, 0, time.UTC), 3)
	require.Len(t, dates, 3)
	assert.Equal(t, "27-2-2025", result.FormatDate(dates[0]))
	assert.Equal(t, "1-3-2025", result.FormatDate(dates[2]))
	assert.Nil(t, crawler.DateRange(time.Now(), 0))

	// 20:00 UTC đã là ngày hôm sau ở Việt Nam
	today := crawler.Today(time.Date(2025, time.March, 1, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, "2-3-2025", result.FormatDate(today))
}
