package ai

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"xsmb-bot/internal/database"
	"xsmb-bot/internal/logger"
)

// ErrNoPredictions 指定日期没有任何预测记录
var ErrNoPredictions = errors.New("no predictions for date")

// recentHistoryLimit 模型统计中保留的近期样本数量
const recentHistoryLimit = 10

// EvaluateDate 用实际开奖号码评估某天的全部预测
// 已评估的记录原样返回，重复调用结果不变
func (s *Service) EvaluateDate(date string, actualNumbers []string) ([]database.Prediction, error) {
	predictions, err := s.store.GetPredictionsByDate(date)
	if err != nil {
		return nil, fmt.Errorf("failed to load predictions for %s: %v", date, err)
	}
	if len(predictions) == 0 {
		return nil, ErrNoPredictions
	}

	actualSet := make(map[string]bool, len(actualNumbers))
	for _, num := range actualNumbers {
		actualSet[num] = true
	}

	for i := range predictions {
		p := &predictions[i]
		if p.Evaluated {
			continue
		}

		hits := []string{}
		for _, num := range p.PredictedNumbers {
			if actualSet[num] {
				hits = append(hits, num)
			}
		}

		p.Result = &database.EvaluationResult{
			ActualNumbers: actualNumbers,
			Hits:          hits,
			HitCount:      len(hits),
			IsWin:         len(hits) > 0,
			EvaluatedAt:   s.nowFn(),
		}
		p.Evaluated = true

		if err := s.store.UpdatePredictionResult(p); err != nil {
			return nil, fmt.Errorf("failed to store evaluation for %s/%s: %v", date, p.ModelKey, err)
		}

		logger.Infof("Evaluated %s / %s: %d/%d hits, win: %t",
			date, p.ModelKey, len(hits), len(p.PredictedNumbers), p.Result.IsWin)
	}

	return predictions, nil
}

// AutoEvaluate 评估所有已有实际开奖结果的待评估预测，按日期分组处理
func (s *Service) AutoEvaluate(draws database.DrawStore) (map[string][]database.Prediction, error) {
	pending, err := s.store.GetPendingPredictions()
	if err != nil {
		return nil, fmt.Errorf("failed to load pending predictions: %v", err)
	}

	dates := make(map[string]bool)
	for _, p := range pending {
		dates[p.PredictionDate] = true
	}

	evaluated := make(map[string][]database.Prediction)
	for date := range dates {
		result, err := draws.GetResultByDate(date)
		if err != nil {
			return nil, fmt.Errorf("failed to look up draw result for %s: %v", date, err)
		}
		if result == nil {
			continue
		}

		predictions, err := s.EvaluateDate(date, result.TwoDigits)
		if err != nil {
			return nil, err
		}
		evaluated[date] = predictions
	}

	if len(evaluated) > 0 {
		logger.Infof("Auto-evaluation finished: %d dates", len(evaluated))
	}
	return evaluated, nil
}

// PendingEvaluations 获取所有未评估的预测
func (s *Service) PendingEvaluations() ([]database.Prediction, error) {
	return s.store.GetPendingPredictions()
}

// PredictionHistory 获取最近days天的预测历史，按日期降序
func (s *Service) PredictionHistory(days int) ([]database.Prediction, error) {
	predictions, err := s.store.GetAllPredictions()
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		return predictions, nil
	}

	cutoff := VNTime(s.nowFn()).AddDate(0, 0, -days).Format("2006-01-02")
	var recent []database.Prediction
	for _, p := range predictions {
		if p.PredictionDate >= cutoff {
			recent = append(recent, p)
		}
	}
	return recent, nil
}

// ModelStatistics 从完整预测历史重建所有模型的累计统计
// 每次全量重建而非增量更新
func (s *Service) ModelStatistics() ([]database.ModelStatistics, error) {
	predictions, err := s.store.GetAllPredictions()
	if err != nil {
		return nil, err
	}

	byModel := make(map[string]*database.ModelStatistics)
	outcomes := make(map[string][]database.DailyOutcome)

	for _, p := range predictions {
		if !p.Evaluated || p.Result == nil {
			continue
		}

		stats, ok := byModel[p.ModelKey]
		if !ok {
			stats = &database.ModelStatistics{
				ModelKey:  p.ModelKey,
				ModelName: p.ModelName,
			}
			byModel[p.ModelKey] = stats
		}

		stats.TotalDays++
		if p.Result.IsWin {
			stats.Wins++
		} else {
			stats.Losses++
		}
		stats.TotalHits += p.Result.HitCount
		stats.TotalPredicted += len(p.PredictedNumbers)

		outcomes[p.ModelKey] = append(outcomes[p.ModelKey], database.DailyOutcome{
			Date:      p.PredictionDate,
			Predicted: p.PredictedNumbers,
			Hits:      p.Result.Hits,
			HitCount:  p.Result.HitCount,
			IsWin:     p.Result.IsWin,
		})
	}

	result := make([]database.ModelStatistics, 0, len(byModel))
	for modelKey, stats := range byModel {
		if stats.TotalDays > 0 {
			stats.WinRate = roundRate(float64(stats.Wins) / float64(stats.TotalDays) * 100)
		}
		if stats.TotalPredicted > 0 {
			stats.HitRate = roundRate(float64(stats.TotalHits) / float64(stats.TotalPredicted) * 100)
		}

		// 先按日期降序排序再截取，保留最近10天的样本
		history := outcomes[modelKey]
		sort.Slice(history, func(i, j int) bool {
			return history[i].Date > history[j].Date
		})
		if len(history) > recentHistoryLimit {
			history = history[:recentHistoryLimit]
		}
		stats.RecentHistory = history

		result = append(result, *stats)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ModelKey < result[j].ModelKey
	})
	return result, nil
}

// ModelStatisticsFor 获取单个模型的统计，无评估记录时返回nil
func (s *Service) ModelStatisticsFor(modelKey string) (*database.ModelStatistics, error) {
	all, err := s.ModelStatistics()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ModelKey == modelKey {
			return &all[i], nil
		}
	}
	return nil, nil
}

func roundRate(v float64) float64 {
	return math.Round(v*100) / 100
}
