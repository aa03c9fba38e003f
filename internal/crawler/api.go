package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"xsmb-bot/internal/database"
	"xsmb-bot/internal/logger"
)

// apiResponse 备用API的响应格式
type apiResponse struct {
	Time         string              `json:"time"` // d-m-yyyy格式
	Results      map[string][]string `json:"results"`
	CountNumbers int                 `json:"countNumbers"`
}

// CrawlAPI 从备用API获取当天开奖数据
func (c *Crawler) CrawlAPI(ctx context.Context) (*database.DrawResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var apiData apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiData); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %v", err)
	}

	result := &database.DrawResult{
		Date:        DisplayToISO(apiData.Time),
		DateDisplay: apiData.Time,
		Prizes: database.PrizeTiers{
			Special: apiData.Results["ĐB"],
			First:   apiData.Results["G1"],
			Second:  apiData.Results["G2"],
			Third:   apiData.Results["G3"],
			Fourth:  apiData.Results["G4"],
			Fifth:   apiData.Results["G5"],
			Sixth:   apiData.Results["G6"],
			Seventh: apiData.Results["G7"],
		},
	}
	result.DeriveTwoDigits()

	logger.Debugf("API returned %d numbers for %s", result.CountNumbers, result.DateDisplay)
	return result, nil
}

// DisplayToISO 将展示日期d-m-yyyy转换为ISO格式yyyy-mm-dd
// 格式不符时原样返回
func DisplayToISO(dateDisplay string) string {
	parts := strings.Split(dateDisplay, "-")
	if len(parts) != 3 {
		return dateDisplay
	}
	day := parts[0]
	month := parts[1]
	if len(day) == 1 {
		day = "0" + day
	}
	if len(month) == 1 {
		month = "0" + month
	}
	return fmt.Sprintf("%s-%s-%s", parts[2], month, day)
}
