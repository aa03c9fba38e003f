package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"xsmb-bot/internal/ai"
	"xsmb-bot/internal/database"
	"xsmb-bot/internal/logger"
	"xsmb-bot/internal/stats"
)

// statsCachePrefix 统计报告缓存键前缀，数据更新时整体失效
const statsCachePrefix = "stats:"

// queryInt 解析整型query参数，缺失或非法时使用默认值
func queryInt(c *gin.Context, name string, defaultValue int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// windowDays 统计窗口天数参数
func (s *Server) windowDays(c *gin.Context) int {
	return queryInt(c, "days", s.cfg.App.DefaultWindowDays)
}

// invalidateStatsCache 开奖数据变更后清除统计缓存
func (s *Server) invalidateStatsCache() {
	s.memCache.DeletePrefix(statsCachePrefix)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"cache":  s.memCache.Stats(),
	})
}

// handleLatest 获取最新开奖结果，库为空时从来源抓取
func (s *Server) handleLatest(c *gin.Context) {
	results, err := s.store.GetRecentResults(1)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	if len(results) > 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    results[0],
			"source":  "database",
		})
		return
	}

	result, err := s.crawler.UpdateToday(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	s.invalidateStatsCache()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
		"source":  "crawl",
	})
}

// handleUpdate 抓取并保存当天开奖结果
func (s *Server) handleUpdate(c *gin.Context) {
	result, err := s.crawler.UpdateToday(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	s.invalidateStatsCache()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
		"message": fmt.Sprintf("Đã cập nhật kết quả ngày %s", result.DateDisplay),
	})
}

// handleCrawlHistory 后台抓取历史数据，立即返回
func (s *Server) handleCrawlHistory(c *gin.Context) {
	var body struct {
		Days int `json:"days"`
	}
	_ = c.ShouldBindJSON(&body)
	if body.Days <= 0 {
		body.Days = s.cfg.App.DefaultWindowDays
	}

	go func(days int) {
		saved, err := s.crawler.CrawlHistory(context.Background(), days)
		if err != nil {
			logger.Errorf("History crawl failed: %v", err)
			return
		}
		s.invalidateStatsCache()
		logger.Infof("History crawl completed: %d days", len(saved))
	}(body.Days)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Đang crawl %d ngày lịch sử... Vui lòng đợi.", body.Days),
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	days := s.windowDays(c)
	results, err := s.store.GetRecentResults(days)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(results),
		"data":    results,
	})
}

// handleManual 手动录入某天的开奖结果
func (s *Server) handleManual(c *gin.Context) {
	var result database.DrawResult
	if err := c.ShouldBindJSON(&result); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if result.Date == "" {
		fail(c, http.StatusBadRequest, errors.New("date is required"))
		return
	}
	if result.DateDisplay == "" {
		result.DateDisplay = result.Date
	}
	result.DeriveTwoDigits()

	if err := s.store.SaveDrawResult(&result); err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	s.invalidateStatsCache()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
		"message": "Đã thêm kết quả thủ công",
	})
}

// handleStatistics 综合统计报告，结果短暂缓存
func (s *Server) handleStatistics(c *gin.Context) {
	days := s.windowDays(c)
	cacheKey := fmt.Sprintf("%sreport:%d", statsCachePrefix, days)

	var cached stats.Report
	if err := s.memCache.Get(cacheKey, &cached); err == nil {
		ok(c, &cached)
		return
	}

	results, err := s.store.GetAllResults()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	report := stats.GenerateReport(results, days)
	s.memCache.Set(cacheKey, report, s.cfg.App.CacheTTL)
	ok(c, report)
}

func (s *Server) handleHotNumbers(c *gin.Context) {
	days := s.windowDays(c)
	limit := queryInt(c, "limit", 10)

	results, err := s.store.GetAllResults()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, stats.CalculateFrequency(results, days).HotNumbers(limit))
}

func (s *Server) handleColdNumbers(c *gin.Context) {
	days := s.windowDays(c)
	limit := queryInt(c, "limit", 10)

	results, err := s.store.GetAllResults()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, stats.CalculateFrequency(results, days).ColdNumbers(limit))
}

func (s *Server) handleOverdueNumbers(c *gin.Context) {
	days := s.windowDays(c)
	minDays := queryInt(c, "minDays", stats.DefaultOverdueMinDays)
	limit := queryInt(c, "limit", 10)

	results, err := s.store.GetAllResults()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, stats.CalculateFrequency(results, days).OverdueNumbers(minDays, limit))
}

func (s *Server) handlePairs(c *gin.Context) {
	results, err := s.store.GetAllResults()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, stats.AnalyzePairs(results, s.windowDays(c)))
}

func (s *Server) handleHeadTail(c *gin.Context) {
	results, err := s.store.GetAllResults()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, stats.AnalyzeHeadTail(results, s.windowDays(c)))
}

func (s *Server) handleTrend(c *gin.Context) {
	results, err := s.store.GetAllResults()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, stats.AnalyzeTrend(results, s.windowDays(c)))
}

// handleCycle 单个号码的出现周期，基于全部历史
func (s *Server) handleCycle(c *gin.Context) {
	number := c.Param("number")
	if len(number) == 1 {
		number = "0" + number
	}

	results, err := s.store.GetAllResults()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	cycle, err := stats.AnalyzeCycle(results, number)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	ok(c, cycle)
}

// handleAIAnalysis 获取某模型的当天预测，每天每模型只调用一次
func (s *Server) handleAIAnalysis(c *gin.Context) {
	days := s.windowDays(c)
	modelKey := c.Query("provider")
	if modelKey == "" {
		modelKey = s.cfg.AI.DefaultModel
	}

	results, err := s.store.GetAllResults()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	if len(results) == 0 {
		fail(c, http.StatusBadRequest,
			errors.New("Chưa có dữ liệu lịch sử. Vui lòng crawl dữ liệu trước."))
		return
	}

	input := stats.PrepareAIInput(results, days)
	prediction, err := s.aiSvc.Analyze(c.Request.Context(), input, modelKey)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, prediction)
}

func (s *Server) handleTodayPredictions(c *gin.Context) {
	predictions, err := s.aiSvc.TodayPredictions()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, predictions)
}

func (s *Server) handleClearPredictionCache(c *gin.Context) {
	var body struct {
		ModelKey string `json:"modelKey"`
	}
	_ = c.ShouldBindJSON(&body)

	if err := s.aiSvc.ClearToday(body.ModelKey); err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	message := "Đã xóa tất cả cache hôm nay"
	if body.ModelKey != "" {
		message = fmt.Sprintf("Đã xóa cache của %s", body.ModelKey)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

func (s *Server) handleAIProviders(c *gin.Context) {
	models, err := s.aiSvc.ListModels()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, models)
}

func (s *Server) handleModelStatistics(c *gin.Context) {
	statistics, err := s.aiSvc.ModelStatistics()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, statistics)
}

func (s *Server) handleModelStatisticsDetail(c *gin.Context) {
	modelKey := c.Param("modelKey")
	statistics, err := s.aiSvc.ModelStatisticsFor(modelKey)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	if statistics == nil {
		fail(c, http.StatusNotFound,
			fmt.Errorf("Không tìm thấy thống kê cho model %s", modelKey))
		return
	}
	ok(c, statistics)
}

// handleEvaluatePredictions 用实际开奖结果评估某天的预测
func (s *Server) handleEvaluatePredictions(c *gin.Context) {
	var body struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Date == "" {
		fail(c, http.StatusBadRequest, errors.New("date is required"))
		return
	}

	result, err := s.store.GetResultByDate(body.Date)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	if result == nil {
		fail(c, http.StatusNotFound,
			fmt.Errorf("Không tìm thấy kết quả xổ số ngày %s", body.Date))
		return
	}

	evaluated, err := s.aiSvc.EvaluateDate(body.Date, result.TwoDigits)
	if errors.Is(err, ai.ErrNoPredictions) {
		fail(c, http.StatusNotFound,
			fmt.Errorf("Không có dự đoán nào cho ngày %s", body.Date))
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"date":          body.Date,
		"actualNumbers": result.TwoDigits,
		"data":          evaluated,
	})
}

func (s *Server) handlePredictionHistory(c *gin.Context) {
	history, err := s.aiSvc.PredictionHistory(s.windowDays(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, history)
}

func (s *Server) handlePendingEvaluations(c *gin.Context) {
	pending, err := s.aiSvc.PendingEvaluations()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, pending)
}

// handleAutoEvaluate 评估所有已有开奖结果的待评估预测
func (s *Server) handleAutoEvaluate(c *gin.Context) {
	evaluated, err := s.aiSvc.AutoEvaluate(s.store)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Đã đánh giá %d ngày", len(evaluated)),
		"data":    evaluated,
	})
}
