// Package server 提供REST API服务
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"xsmb-bot/internal/ai"
	"xsmb-bot/internal/cache"
	"xsmb-bot/internal/config"
	"xsmb-bot/internal/crawler"
	"xsmb-bot/internal/database"
	"xsmb-bot/internal/logger"
)

// Server HTTP API服务
type Server struct {
	cfg      *config.Config
	store    database.Store
	crawler  *crawler.Crawler
	aiSvc    *ai.Service
	memCache *cache.MemoryCache
	engine   *gin.Engine
	httpSrv  *http.Server
}

// NewServer 创建API服务并注册路由
func NewServer(cfg *config.Config, store database.Store, crawl *crawler.Crawler,
	aiSvc *ai.Service, memCache *cache.MemoryCache) *Server {

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{
		cfg:      cfg,
		store:    store,
		crawler:  crawl,
		aiSvc:    aiSvc,
		memCache: memCache,
		engine:   engine,
	}
	s.registerRoutes()
	return s
}

// registerRoutes 注册全部API路由
func (s *Server) registerRoutes() {
	s.engine.GET("/api/health", s.handleHealth)

	lottery := s.engine.Group("/api/lottery")
	{
		lottery.GET("/latest", s.handleLatest)
		lottery.POST("/update", s.handleUpdate)
		lottery.POST("/crawl-history", s.handleCrawlHistory)
		lottery.GET("/history", s.handleHistory)
		lottery.POST("/manual", s.handleManual)

		lottery.GET("/statistics", s.handleStatistics)
		lottery.GET("/hot-numbers", s.handleHotNumbers)
		lottery.GET("/cold-numbers", s.handleColdNumbers)
		lottery.GET("/overdue-numbers", s.handleOverdueNumbers)
		lottery.GET("/pairs", s.handlePairs)
		lottery.GET("/head-tail", s.handleHeadTail)
		lottery.GET("/trend", s.handleTrend)
		lottery.GET("/cycle/:number", s.handleCycle)

		lottery.GET("/ai-analysis", s.handleAIAnalysis)
		lottery.GET("/today-predictions", s.handleTodayPredictions)
		lottery.POST("/clear-prediction-cache", s.handleClearPredictionCache)
		lottery.GET("/ai-providers", s.handleAIProviders)

		lottery.GET("/model-statistics", s.handleModelStatistics)
		lottery.GET("/model-statistics/:modelKey", s.handleModelStatisticsDetail)
		lottery.POST("/evaluate-predictions", s.handleEvaluatePredictions)
		lottery.GET("/prediction-history", s.handlePredictionHistory)
		lottery.GET("/pending-evaluations", s.handlePendingEvaluations)
		lottery.POST("/auto-evaluate", s.handleAutoEvaluate)
	}
}

// Start 启动HTTP服务，阻塞直到服务退出
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:    s.cfg.Server.Listen,
		Handler: s.engine,
	}
	logger.Infof("API server listening on %s", s.cfg.Server.Listen)

	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown 优雅关闭HTTP服务
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// requestLogger 请求日志中间件
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start))
	}
}

// ok 成功响应
func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// fail 失败响应
func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
