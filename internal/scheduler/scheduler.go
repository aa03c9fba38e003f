// Package scheduler 按越南时间调度每日任务
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"xsmb-bot/internal/ai"
	"xsmb-bot/internal/crawler"
	"xsmb-bot/internal/database"
	"xsmb-bot/internal/logger"
)

// vnLocation 越南时区，开奖约在18:15-18:30之间
var vnLocation = time.FixedZone("ICT", 7*60*60)

// retryDelay 主更新失败后的重试间隔
const retryDelay = 5 * time.Minute

// expectedNumbers 完整开奖应有的号码数量
const expectedNumbers = 27

// Broadcaster 每日播报接口，未启用Telegram时为nil
type Broadcaster interface {
	BroadcastDaily(result *database.DrawResult, predictions []database.Prediction)
}

// Scheduler 每日任务调度器
type Scheduler struct {
	cron        *cron.Cron
	crawler     *crawler.Crawler
	aiSvc       *ai.Service
	store       database.Store
	broadcaster Broadcaster
}

// NewScheduler 创建调度器
func NewScheduler(crawl *crawler.Crawler, aiSvc *ai.Service, store database.Store, broadcaster Broadcaster) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(vnLocation)),
		crawler:     crawl,
		aiSvc:       aiSvc,
		store:       store,
		broadcaster: broadcaster,
	}
}

// Start 注册定时任务并启动调度
func (s *Scheduler) Start() error {
	// 18:35 主更新，失败5分钟后重试一次
	if _, err := s.cron.AddFunc("35 18 * * *", s.runDailyUpdate); err != nil {
		return err
	}

	// 18:45 备份更新，当天数据缺失或不完整时兜底
	if _, err := s.cron.AddFunc("45 18 * * *", s.runBackupUpdate); err != nil {
		return err
	}

	// 每小时状态日志
	if _, err := s.cron.AddFunc("0 * * * *", s.logStatus); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("Scheduler started: daily update at 18:35 ICT, backup at 18:45 ICT")
	return nil
}

// Stop 停止调度，等待运行中的任务结束
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}

// runDailyUpdate 主更新任务
func (s *Scheduler) runDailyUpdate() {
	logger.Info("Daily update triggered")

	result, err := s.updateAndEvaluate()
	if err != nil {
		logger.Errorf("Daily update failed, retrying in %v: %v", retryDelay, err)
		time.AfterFunc(retryDelay, func() {
			if _, err := s.updateAndEvaluate(); err != nil {
				logger.Errorf("Daily update retry also failed: %v", err)
			}
		})
		return
	}

	logger.Infof("Daily update done: %s (%d numbers)", result.DateDisplay, result.CountNumbers)
}

// runBackupUpdate 备份更新任务，当天已有完整数据时跳过
func (s *Scheduler) runBackupUpdate() {
	today := time.Now().In(vnLocation).Format("2006-01-02")
	result, err := s.store.GetResultByDate(today)
	if err != nil {
		logger.Errorf("Backup update check failed: %v", err)
		return
	}
	if result != nil && result.CountNumbers == expectedNumbers {
		return
	}

	logger.Info("Backup update triggered: today result missing or incomplete")
	if _, err := s.updateAndEvaluate(); err != nil {
		logger.Errorf("Backup update failed: %v", err)
	}
}

// updateAndEvaluate 抓取当天结果、评估待评估预测并播报
func (s *Scheduler) updateAndEvaluate() (*database.DrawResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.crawler.UpdateToday(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.aiSvc.AutoEvaluate(s.store); err != nil {
		logger.Errorf("Auto-evaluation after update failed: %v", err)
	}

	if s.broadcaster != nil {
		predictions, err := s.store.GetPredictionsByDate(result.Date)
		if err != nil {
			logger.Errorf("Failed to load predictions for broadcast: %v", err)
			predictions = nil
		}
		s.broadcaster.BroadcastDaily(result, predictions)
	}

	return result, nil
}

// logStatus 每小时输出存储状态
func (s *Scheduler) logStatus() {
	results, err := s.store.GetAllResults()
	if err != nil {
		logger.Errorf("Status check failed: %v", err)
		return
	}
	logger.Infof("Status: %d days of draw results stored", len(results))
}
