// Package crawler 抓取北部彩票开奖数据
package crawler

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"xsmb-bot/internal/config"
	"xsmb-bot/internal/database"
	"xsmb-bot/internal/logger"
)

// vnLocation 越南时区
var vnLocation = time.FixedZone("ICT", 7*60*60)

// userAgent 请求头，避免被站点拦截
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// titleDatePattern 从页面标题提取日期
var titleDatePattern = regexp.MustCompile(`(?i)ngày\s*(\d{1,2})/(\d{1,2})`)

// Crawler 开奖数据抓取器，优先爬取站点，失败时回退备用API
type Crawler struct {
	cfg        *config.Crawl
	store      database.DrawStore
	httpClient *http.Client
	nowFn      func() time.Time
}

// NewCrawler 创建抓取器
func NewCrawler(cfg *config.Crawl, store database.DrawStore) *Crawler {
	return &Crawler{
		cfg:   cfg,
		store: store,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		nowFn: time.Now,
	}
}

// CrawlSite 从站点抓取某天的开奖数据
// dateDisplay为d-m-yyyy格式，为空时抓取当天页面
func (c *Crawler) CrawlSite(ctx context.Context, dateDisplay string) (*database.DrawResult, error) {
	url := c.cfg.SiteURL
	if dateDisplay != "" {
		url = fmt.Sprintf("%s/ngay-%s", c.cfg.SiteURL, dateDisplay)
	}

	logger.Debugf("Crawling: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create crawl request: %v", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "vi-VN,vi;q=0.9,en;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crawl request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crawl request failed with status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse crawl response: %v", err)
	}

	result := &database.DrawResult{
		Prizes: parseResultTable(doc),
	}

	if dateDisplay != "" {
		result.Date = DisplayToISO(dateDisplay)
		result.DateDisplay = dateDisplay
	} else {
		result.Date, result.DateDisplay = c.dateFromTitle(doc)
	}

	result.DeriveTwoDigits()
	logger.Debugf("Crawled %d numbers for %s", result.CountNumbers, result.DateDisplay)
	return result, nil
}

// dateFromTitle 从页面标题提取日期，失败时使用当天越南日期
func (c *Crawler) dateFromTitle(doc *goquery.Document) (iso, display string) {
	title := doc.Find("h2").First().Text()
	if match := titleDatePattern.FindStringSubmatch(title); match != nil {
		year := c.nowFn().In(vnLocation).Year()
		display = fmt.Sprintf("%s-%s-%d", match[1], match[2], year)
		return DisplayToISO(display), display
	}

	now := c.nowFn().In(vnLocation)
	return now.Format("2006-01-02"), fmt.Sprintf("%d-%d-%d", now.Day(), int(now.Month()), now.Year())
}

// parseResultTable 解析开奖结果表格
// 表格每行两列：奖级标签与号码内容，特等奖在em标签内，其余在p标签内
func parseResultTable(doc *goquery.Document) database.PrizeTiers {
	var prizes database.PrizeTiers

	doc.Find("table#MB0 tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		label := strings.ToUpper(strings.TrimSpace(cells.Eq(0).Text()))
		content := cells.Eq(1)

		var numbers []string
		if emText := strings.TrimSpace(content.Find("em").Text()); emText != "" {
			numbers = append(numbers, emText)
		}
		if pText := strings.TrimSpace(content.Find("p").Text()); pText != "" {
			for _, field := range strings.Fields(pText) {
				if isDigits(field) {
					numbers = append(numbers, field)
				}
			}
		}

		switch {
		case strings.Contains(label, "ĐB") || strings.Contains(label, "DB"):
			prizes.Special = numbers
		case label == "G1":
			prizes.First = numbers
		case label == "G2":
			prizes.Second = numbers
		case label == "G3":
			prizes.Third = numbers
		case label == "G4":
			prizes.Fourth = numbers
		case label == "G5":
			prizes.Fifth = numbers
		case label == "G6":
			prizes.Sixth = numbers
		case label == "G7":
			prizes.Seventh = numbers
		}
	})

	return prizes
}

// UpdateToday 抓取并保存当天开奖数据，站点失败时回退备用API
func (c *Crawler) UpdateToday(ctx context.Context) (*database.DrawResult, error) {
	var result *database.DrawResult
	var lastErr error

	for attempt := 0; attempt <= c.cfg.RetryCount; attempt++ {
		if attempt > 0 {
			logger.Warnf("Crawl attempt %d failed, retrying in %v: %v", attempt, c.cfg.RetryDelay, lastErr)
			select {
			case <-time.After(c.cfg.RetryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, lastErr = c.CrawlSite(ctx, "")
		if lastErr == nil && result.CountNumbers > 0 {
			break
		}
		if lastErr == nil {
			lastErr = fmt.Errorf("site returned no numbers")
		}
		result = nil
	}

	if result == nil {
		logger.Warnf("Site crawl failed, falling back to API: %v", lastErr)
		apiResult, err := c.CrawlAPI(ctx)
		if err != nil {
			return nil, fmt.Errorf("both site and API failed: site: %v, api: %v", lastErr, err)
		}
		result = apiResult
	}

	if result.CountNumbers == 0 {
		return nil, fmt.Errorf("could not get today result")
	}

	if err := c.store.SaveDrawResult(result); err != nil {
		return nil, err
	}

	logger.Infof("Updated draw result: %s with %d numbers", result.DateDisplay, result.CountNumbers)
	return result, nil
}

// CrawlHistory 抓取最近days天的历史数据，逐天请求并保存
// 单天失败跳过不中断，请求间有延迟避免被限流
func (c *Crawler) CrawlHistory(ctx context.Context, days int) ([]database.DrawResult, error) {
	logger.Infof("Starting history crawl: %d days", days)

	var saved []database.DrawResult
	now := c.nowFn().In(vnLocation)

	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, -i)
		dateDisplay := fmt.Sprintf("%d-%d-%d", date.Day(), int(date.Month()), date.Year())

		result, err := c.CrawlSite(ctx, dateDisplay)
		if err != nil {
			logger.Warnf("History crawl failed for %s: %v", dateDisplay, err)
		} else if result.CountNumbers == 0 {
			logger.Warnf("History crawl got no data for %s", dateDisplay)
		} else {
			if err := c.store.SaveDrawResult(result); err != nil {
				return saved, err
			}
			saved = append(saved, *result)
			logger.Debugf("History crawl saved %s: %d numbers", dateDisplay, result.CountNumbers)
		}

		if i < days-1 {
			select {
			case <-time.After(c.cfg.HistoryDelay):
			case <-ctx.Done():
				return saved, ctx.Err()
			}
		}
	}

	logger.Infof("History crawl finished: %d/%d days saved", len(saved), days)
	return saved, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
