package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xsmb-bot/internal/config"
	"xsmb-bot/internal/database"
)

const sampleTableHTML = `
<html><body>
<h2>Kết quả xổ số miền Bắc ngày 30/8</h2>
<table id="MB0" class="result">
  <tr><td>ĐB</td><td><em>12345</em></td></tr>
  <tr><td>G1</td><td><p>67890</p></td></tr>
  <tr><td>G2</td><td><p>11111 22222</p></td></tr>
  <tr><td>G3</td><td><p>33333 44444 55555 66666 77777 88888</p></td></tr>
  <tr><td>G4</td><td><p>1111 2222 3333 4444</p></td></tr>
  <tr><td>G5</td><td><p>5555 6666 7777 8888 9999 0000</p></td></tr>
  <tr><td>G6</td><td><p>111 222 333</p></td></tr>
  <tr><td>G7</td><td><p>11 22 33 44</p></td></tr>
</table>
</body></html>`

func TestParseResultTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sampleTableHTML))
	require.NoError(t, err)

	prizes := parseResultTable(doc)
	assert.Equal(t, []string{"12345"}, prizes.Special)
	assert.Equal(t, []string{"67890"}, prizes.First)
	assert.Equal(t, []string{"11111", "22222"}, prizes.Second)
	assert.Len(t, prizes.Third, 6)
	assert.Len(t, prizes.Fourth, 4)
	assert.Len(t, prizes.Fifth, 6)
	assert.Equal(t, []string{"111", "222", "333"}, prizes.Sixth)
	assert.Equal(t, []string{"11", "22", "33", "44"}, prizes.Seventh)
}

func TestParseResultTableSkipsNonNumeric(t *testing.T) {
	html := `<table id="MB0">
	  <tr><td>G1</td><td><p>67890 đang-xổ</p></td></tr>
	</table>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	prizes := parseResultTable(doc)
	assert.Equal(t, []string{"67890"}, prizes.First)
}

func TestDisplayToISO(t *testing.T) {
	assert.Equal(t, "2026-02-04", DisplayToISO("4-2-2026"))
	assert.Equal(t, "2026-12-25", DisplayToISO("25-12-2026"))
	// 格式不符时原样返回
	assert.Equal(t, "invalid", DisplayToISO("invalid"))
}

func newTestCrawler(serverURL string, store database.DrawStore) *Crawler {
	cfg := &config.Crawl{
		SiteURL:      serverURL,
		APIURL:       serverURL + "/api",
		Timeout:      5 * time.Second,
		RetryCount:   1,
		RetryDelay:   time.Millisecond,
		HistoryDelay: time.Millisecond,
	}
	c := NewCrawler(cfg, store)
	c.nowFn = func() time.Time {
		return time.Date(2026, 8, 31, 13, 0, 0, 0, time.UTC)
	}
	return c
}

func TestCrawlSiteWithDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ngay-30-8-2026", r.URL.Path)
		w.Write([]byte(sampleTableHTML))
	}))
	defer server.Close()

	c := newTestCrawler(server.URL, database.NewMemoryStore())
	result, err := c.CrawlSite(context.Background(), "30-8-2026")
	require.NoError(t, err)

	assert.Equal(t, "2026-08-30", result.Date)
	assert.Equal(t, "30-8-2026", result.DateDisplay)
	assert.Equal(t, 27, result.CountNumbers)
	// 后两位提取
	assert.Equal(t, "45", result.TwoDigits[0])
	assert.Equal(t, "44", result.TwoDigits[26])
}

func TestCrawlSiteDateFromTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleTableHTML))
	}))
	defer server.Close()

	c := newTestCrawler(server.URL, database.NewMemoryStore())
	result, err := c.CrawlSite(context.Background(), "")
	require.NoError(t, err)

	// 标题中的"ngày 30/8"加当前年份
	assert.Equal(t, "2026-08-30", result.Date)
	assert.Equal(t, "30-8-2026", result.DateDisplay)
}

func TestUpdateTodaySavesResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleTableHTML))
	}))
	defer server.Close()

	store := database.NewMemoryStore()
	c := newTestCrawler(server.URL, store)

	result, err := c.UpdateToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 27, result.CountNumbers)

	saved, err := store.GetResultByDate(result.Date)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, result.TwoDigits, saved.TwoDigits)
}

func TestUpdateTodayFallsBackToAPI(t *testing.T) {
	siteCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"time": "31-8-2026",
				"results": {
					"ĐB": ["12345"], "G1": ["67890"], "G2": ["11111", "22222"],
					"G3": ["33333"], "G4": ["1111"], "G5": ["5555"],
					"G6": ["111"], "G7": ["11"]
				},
				"countNumbers": 9
			}`))
			return
		}
		siteCalls++
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	store := database.NewMemoryStore()
	c := newTestCrawler(server.URL, store)

	result, err := c.UpdateToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, siteCalls) // 首次失败后重试一次
	assert.Equal(t, "2026-08-31", result.Date)
	assert.Equal(t, 9, result.CountNumbers)
	assert.Equal(t, "45", result.TwoDigits[0])

	saved, err := store.GetResultByDate("2026-08-31")
	require.NoError(t, err)
	require.NotNil(t, saved)
}

func TestUpdateTodayBothSourcesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestCrawler(server.URL, database.NewMemoryStore())
	_, err := c.UpdateToday(context.Background())
	assert.Error(t, err)
}

func TestCrawlHistorySkipsFailedDays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 只有8月30日有数据
		if r.URL.Path == "/ngay-30-8-2026" {
			w.Write([]byte(sampleTableHTML))
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	store := database.NewMemoryStore()
	c := newTestCrawler(server.URL, store)

	saved, err := c.CrawlHistory(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "2026-08-30", saved[0].Date)

	results, err := store.GetAllResults()
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
