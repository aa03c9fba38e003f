package database

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore 内存存储实现，用于无数据库模式和测试
type MemoryStore struct {
	mu          sync.RWMutex
	results     map[string]*DrawResult // key: 日期
	predictions map[string]*Prediction // key: 日期|模型
	nextID      int64
}

// NewMemoryStore 创建新的内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results:     make(map[string]*DrawResult),
		predictions: make(map[string]*Prediction),
		nextID:      1,
	}
}

// Close 关闭存储
func (s *MemoryStore) Close() error {
	return nil
}

func predictionKey(date, modelKey string) string {
	return date + "|" + modelKey
}

// SaveDrawResult 保存开奖数据，同日期覆盖
func (s *MemoryStore) SaveDrawResult(result *DrawResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *result
	if existing, ok := s.results[result.Date]; ok {
		copied.ID = existing.ID
		copied.CreatedAt = existing.CreatedAt
	} else {
		copied.ID = s.nextID
		copied.CreatedAt = time.Now()
		s.nextID++
	}
	copied.UpdatedAt = time.Now()
	s.results[result.Date] = &copied

	cutoff := time.Now().AddDate(0, 0, -DrawRetentionDays).Format("2006-01-02")
	for date := range s.results {
		if date < cutoff {
			delete(s.results, date)
		}
	}

	return nil
}

// GetRecentResults 获取最近limit天的开奖数据，按日期降序
func (s *MemoryStore) GetRecentResults(limit int) ([]DrawResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]DrawResult, 0, len(s.results))
	for _, result := range s.results {
		results = append(results, *result)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Date > results[j].Date
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetAllResults 获取全部开奖数据，按日期降序
func (s *MemoryStore) GetAllResults() ([]DrawResult, error) {
	return s.GetRecentResults(0)
}

// GetResultByDate 按日期查询，不存在时返回nil
func (s *MemoryStore) GetResultByDate(date string) (*DrawResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[date]
	if !ok {
		return nil, nil
	}
	copied := *result
	return &copied, nil
}

// SavePrediction 保存预测记录，同(日期,模型)覆盖
func (s *MemoryStore) SavePrediction(prediction *Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *prediction
	copied.Evaluated = false
	copied.Result = nil
	key := predictionKey(prediction.PredictionDate, prediction.ModelKey)
	if existing, ok := s.predictions[key]; ok {
		copied.ID = existing.ID
	} else {
		copied.ID = s.nextID
		s.nextID++
	}
	s.predictions[key] = &copied

	cutoff := time.Now().AddDate(0, 0, -PredictionRetentionDays).Format("2006-01-02")
	for key, p := range s.predictions {
		if p.PredictionDate < cutoff {
			delete(s.predictions, key)
		}
	}

	return nil
}

// UpdatePredictionResult 写入评估结果并标记已评估
func (s *MemoryStore) UpdatePredictionResult(prediction *Prediction) error {
	if prediction.Result == nil {
		return fmt.Errorf("prediction has no evaluation result")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := predictionKey(prediction.PredictionDate, prediction.ModelKey)
	existing, ok := s.predictions[key]
	if !ok {
		return fmt.Errorf("prediction not found: %s", key)
	}

	result := *prediction.Result
	existing.Evaluated = true
	existing.Result = &result
	return nil
}

// GetPrediction 按(日期,模型)查询，不存在时返回nil
func (s *MemoryStore) GetPrediction(date, modelKey string) (*Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prediction, ok := s.predictions[predictionKey(date, modelKey)]
	if !ok {
		return nil, nil
	}
	copied := *prediction
	return &copied, nil
}

// GetPredictionsByDate 获取某天所有模型的预测
func (s *MemoryStore) GetPredictionsByDate(date string) ([]Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var predictions []Prediction
	for _, p := range s.predictions {
		if p.PredictionDate == date {
			predictions = append(predictions, *p)
		}
	}
	sort.Slice(predictions, func(i, j int) bool {
		return predictions[i].ModelKey < predictions[j].ModelKey
	})
	return predictions, nil
}

// GetAllPredictions 获取完整预测历史，按日期降序
func (s *MemoryStore) GetAllPredictions() ([]Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	predictions := make([]Prediction, 0, len(s.predictions))
	for _, p := range s.predictions {
		predictions = append(predictions, *p)
	}
	sortPredictions(predictions)
	return predictions, nil
}

// GetPendingPredictions 获取所有未评估的预测
func (s *MemoryStore) GetPendingPredictions() ([]Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var predictions []Prediction
	for _, p := range s.predictions {
		if !p.Evaluated {
			predictions = append(predictions, *p)
		}
	}
	sortPredictions(predictions)
	return predictions, nil
}

// DeletePrediction 删除单条预测
func (s *MemoryStore) DeletePrediction(date, modelKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.predictions, predictionKey(date, modelKey))
	return nil
}

// DeletePredictionsByDate 删除某天全部预测
func (s *MemoryStore) DeletePredictionsByDate(date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, p := range s.predictions {
		if p.PredictionDate == date {
			delete(s.predictions, key)
		}
	}
	return nil
}

func sortPredictions(predictions []Prediction) {
	sort.Slice(predictions, func(i, j int) bool {
		if predictions[i].PredictionDate != predictions[j].PredictionDate {
			return predictions[i].PredictionDate > predictions[j].PredictionDate
		}
		return predictions[i].ModelKey < predictions[j].ModelKey
	})
}
