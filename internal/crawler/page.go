package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/internal/limiter"
	"github.com/thep200/xsmb-analyzer/internal/result"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

var (
	// ErrNoResult khi trang không có bảng kết quả nào
	ErrNoResult = errors.New("no xsmb result on page")
	// ErrBadStatus khi trang trả về mã khác 200
	ErrBadStatus = errors.New("unexpected http status")
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Class CSS của từng giải trên trang kết quả
var prizeClasses = []struct {
	tier  string
	class string
}{
	{result.TierSpecial, "special-prize"},
	{result.TierG1, "prize1"},
	{result.TierG2, "prize2"},
	{result.TierG3, "prize3"},
	{result.TierG4, "prize4"},
	{result.TierG5, "prize5"},
	{result.TierG6, "prize6"},
	{result.TierG7, "prize7"},
}

// PageURL trả về địa chỉ trang kết quả của một ngày, ví dụ https://xoso.com.vn/xsmb-31-07-2025.html
func PageURL(baseUrl string, date time.Time) string {
	return fmt.Sprintf("%s/xsmb-%s.html", strings.TrimRight(baseUrl, "/"), date.Format(result.DisplayLayout))
}

// ParsePage đọc các giải từ HTML của trang kết quả
func ParsePage(r io.Reader, date time.Time) (result.RawDay, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return result.RawDay{}, fmt.Errorf("failed to parse html: %w", err)
	}

	raw := result.RawDay{
		Date:   result.FormatDate(date),
		Prizes: make(map[string]result.PrizeValue, len(prizeClasses)),
	}
	total := 0
	for _, pc := range prizeClasses {
		values := make([]string, 0)
		doc.Find("." + pc.class).Each(func(_ int, s *goquery.Selection) {
			values = append(values, strings.TrimSpace(s.Text()))
		})
		raw.Prizes[pc.tier] = result.Multi(values)
		total += len(values)
	}
	if total == 0 {
		return result.RawDay{}, fmt.Errorf("%w: %s", ErrNoResult, raw.Date)
	}
	return raw, nil
}

// Page tải và đọc trang kết quả theo ngày
type Page struct {
	Config      *cfg.Config
	Logger      log.Logger
	client      *http.Client
	rateLimiter *limiter.RateLimiter
}

func NewPage(config *cfg.Config, logger log.Logger) *Page {
	timeout := time.Duration(config.Xsmb.TimeoutSecond) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Page{
		Config:      config,
		Logger:      logger,
		client:      &http.Client{Timeout: timeout},
		rateLimiter: limiter.NewRateLimiter(config.Xsmb.RequestsPerSecond),
	}
}

// Fetch tải kết quả một ngày, trả về tài liệu thô và địa chỉ đã tải
func (p *Page) Fetch(ctx context.Context, date time.Time) (result.RawDay, string, error) {
	url := PageURL(p.Config.Xsmb.BaseUrl, date)
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return result.RawDay{}, url, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result.RawDay{}, url, fmt.Errorf("failed to create request: %w", err)
	}
	userAgent := p.Config.Xsmb.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "vi-VN,vi;q=0.9")

	p.Logger.Debug(ctx, "[CRAWLER] GET %s", url)
	resp, err := p.client.Do(req)
	if err != nil {
		return result.RawDay{}, url, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return result.RawDay{}, url, fmt.Errorf("%w: %d from %s", ErrBadStatus, resp.StatusCode, url)
	}

	raw, err := ParsePage(resp.Body, date)
	if err != nil {
		return result.RawDay{}, url, err
	}
	return raw, url, nil
}
