package database

import (
	"time"
)

// PrizeTiers 八个奖级，从特等奖到七等奖
type PrizeTiers struct {
	Special []string `json:"special"`
	First   []string `json:"first"`
	Second  []string `json:"second"`
	Third   []string `json:"third"`
	Fourth  []string `json:"fourth"`
	Fifth   []string `json:"fifth"`
	Sixth   []string `json:"sixth"`
	Seventh []string `json:"seventh"`
}

// AllNumbers 按奖级顺序展开所有中奖号码
func (p *PrizeTiers) AllNumbers() []string {
	var all []string
	for _, tier := range [][]string{
		p.Special, p.First, p.Second, p.Third,
		p.Fourth, p.Fifth, p.Sixth, p.Seventh,
	} {
		all = append(all, tier...)
	}
	return all
}

// DrawResult 一天的开奖数据
type DrawResult struct {
	ID           int64      `json:"id,omitempty"`
	Date         string     `json:"date"`        // ISO格式，唯一键
	DateDisplay  string     `json:"dateDisplay"` // 展示格式 d-m-yyyy
	Prizes       PrizeTiers `json:"prizes"`
	TwoDigits    []string   `json:"twoDigits"` // 每个号码的后两位
	CountNumbers int        `json:"countNumbers"`
	CreatedAt    time.Time  `json:"created_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at,omitempty"`
}

// DeriveTwoDigits 从各奖级号码提取后两位
func (r *DrawResult) DeriveTwoDigits() {
	all := r.Prizes.AllNumbers()
	r.TwoDigits = make([]string, 0, len(all))
	for _, num := range all {
		if num == "" {
			continue
		}
		if len(num) > 2 {
			r.TwoDigits = append(r.TwoDigits, num[len(num)-2:])
		} else {
			r.TwoDigits = append(r.TwoDigits, num)
		}
	}
	r.CountNumbers = len(r.TwoDigits)
}

// EvaluationResult 预测评估结果，评估后不再变更
type EvaluationResult struct {
	ActualNumbers []string  `json:"actualNumbers"`
	Hits          []string  `json:"hits"`
	HitCount      int       `json:"hitCount"`
	IsWin         bool      `json:"isWin"`
	EvaluatedAt   time.Time `json:"evaluatedAt"`
}

// Prediction 一个模型对一天的预测记录
type Prediction struct {
	ID               int64             `json:"id,omitempty"`
	ModelKey         string            `json:"modelKey"`
	ModelID          string            `json:"modelId"`
	ModelName        string            `json:"model"`
	Analysis         string            `json:"analysis"`
	PredictedNumbers []string          `json:"predictedNumbers"`
	PredictionDate   string            `json:"predictionDate"` // ISO格式
	DateDisplay      string            `json:"predictionDateDisplay"`
	Timestamp        time.Time         `json:"timestamp"`
	FromCache        bool              `json:"fromCache"`
	Evaluated        bool              `json:"evaluated"`
	Result           *EvaluationResult `json:"result,omitempty"`
}

// DailyOutcome 单日评估摘要，用于模型统计的近期样本
type DailyOutcome struct {
	Date      string   `json:"date"`
	Predicted []string `json:"predicted"`
	Hits      []string `json:"hits"`
	HitCount  int      `json:"hitCount"`
	IsWin     bool     `json:"isWin"`
}

// ModelStatistics 模型累计统计，每次评估后从完整历史重建
type ModelStatistics struct {
	ModelKey       string         `json:"modelKey"`
	ModelName      string         `json:"modelName"`
	TotalDays      int            `json:"totalDays"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	TotalHits      int            `json:"totalHits"`
	TotalPredicted int            `json:"totalPredicted"`
	WinRate        float64        `json:"winRate"`
	HitRate        float64        `json:"hitRate"`
	RecentHistory  []DailyOutcome `json:"recentHistory"`
}
