package ai

import (
	"context"
	"fmt"
	"time"

	"xsmb-bot/internal/cache"
	"xsmb-bot/internal/config"
	"xsmb-bot/internal/database"
	"xsmb-bot/internal/logger"
	"xsmb-bot/internal/stats"
)

// predictionCacheTTL 预测在内存缓存中的保留时长，与持久层的兜底查询配合
const predictionCacheTTL = 7 * 24 * time.Hour

// Service 模型预测服务，按(日期,模型)缓存，每天每模型只调用一次
type Service struct {
	registry *Registry
	store    database.PredictionStore
	memCache *cache.MemoryCache
	client   chatCaller
	nowFn    func() time.Time
}

// NewService 创建预测服务
func NewService(cfg *config.AI, store database.PredictionStore, memCache *cache.MemoryCache) *Service {
	return &Service{
		registry: NewRegistry(cfg.Models),
		store:    store,
		memCache: memCache,
		client:   NewClient(cfg),
		nowFn:    time.Now,
	}
}

// TodayVN 当前越南日期
func (s *Service) TodayVN() string {
	return DateVN(s.nowFn())
}

func predictionCacheKey(date, modelKey string) string {
	return fmt.Sprintf("prediction:%s:%s", date, modelKey)
}

// Analyze 获取某模型对今天的预测
// 先查内存缓存，再查持久存储，都未命中时才调用模型并落库
func (s *Service) Analyze(ctx context.Context, input *stats.AIInput, modelKey string) (*database.Prediction, error) {
	today := s.TodayVN()
	cacheKey := predictionCacheKey(today, modelKey)

	var cached database.Prediction
	if err := s.memCache.Get(cacheKey, &cached); err == nil {
		logger.Debugf("Prediction cache hit (memory): %s / %s", today, modelKey)
		cached.FromCache = true
		return &cached, nil
	}

	stored, err := s.store.GetPrediction(today, modelKey)
	if err != nil {
		return nil, fmt.Errorf("failed to look up stored prediction: %v", err)
	}
	if stored != nil {
		logger.Debugf("Prediction cache hit (store): %s / %s", today, modelKey)
		s.memCache.Set(cacheKey, stored, predictionCacheTTL)
		stored.FromCache = true
		return stored, nil
	}

	modelID, modelName := s.registry.Resolve(modelKey)
	prompt := buildPrompt(input, DateDisplayVN(s.nowFn()))

	analysisText, err := s.client.Chat(ctx, modelID, prompt)
	if err != nil {
		return nil, err
	}

	prediction := &database.Prediction{
		ModelKey:         modelKey,
		ModelID:          modelID,
		ModelName:        modelName,
		Analysis:         analysisText,
		PredictedNumbers: ExtractNumbers(analysisText),
		PredictionDate:   today,
		DateDisplay:      DateDisplayVN(s.nowFn()),
		Timestamp:        s.nowFn(),
	}

	if len(prediction.PredictedNumbers) == 0 {
		logger.Warnf("No numbers extracted from %s analysis, storing empty prediction", modelKey)
	}

	if err := s.store.SavePrediction(prediction); err != nil {
		return nil, fmt.Errorf("failed to save prediction: %v", err)
	}
	s.memCache.Set(cacheKey, prediction, predictionCacheTTL)

	logger.Infof("New prediction: %s / %s -> %v", today, modelKey, prediction.PredictedNumbers)
	return prediction, nil
}

// TodayPredictions 获取今天所有模型的预测
func (s *Service) TodayPredictions() ([]database.Prediction, error) {
	return s.store.GetPredictionsByDate(s.TodayVN())
}

// ClearToday 清除今天的预测缓存，modelKey为空时清除全部
func (s *Service) ClearToday(modelKey string) error {
	today := s.TodayVN()

	if modelKey != "" {
		s.memCache.Delete(predictionCacheKey(today, modelKey))
		if err := s.store.DeletePrediction(today, modelKey); err != nil {
			return err
		}
		logger.Infof("Cleared prediction cache: %s / %s", today, modelKey)
		return nil
	}

	s.memCache.DeletePrefix(predictionCacheKey(today, ""))
	if err := s.store.DeletePredictionsByDate(today); err != nil {
		return err
	}
	logger.Infof("Cleared all prediction caches for %s", today)
	return nil
}

// ModelInfo 模型列表项，含当天预测状态
type ModelInfo struct {
	Key                string `json:"id"`
	ModelID            string `json:"modelId"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	HasPredictionToday bool   `json:"hasPredictionToday"`
}

// ListModels 列出所有注册模型及其当天是否已有预测
func (s *Service) ListModels() ([]ModelInfo, error) {
	todayPredictions, err := s.store.GetPredictionsByDate(s.TodayVN())
	if err != nil {
		return nil, err
	}

	predicted := make(map[string]bool, len(todayPredictions))
	for _, p := range todayPredictions {
		predicted[p.ModelKey] = true
	}

	var models []ModelInfo
	for _, key := range s.registry.Keys() {
		model, _ := s.registry.Get(key)
		models = append(models, ModelInfo{
			Key:                key,
			ModelID:            model.ID,
			Name:               model.Name,
			Description:        model.Description,
			HasPredictionToday: predicted[key],
		})
	}
	return models, nil
}
