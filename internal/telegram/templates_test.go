package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"xsmb-bot/internal/database"
)

func testResult() *database.DrawResult {
	r := &database.DrawResult{
		Date:        "2026-08-30",
		DateDisplay: "30-8-2026",
		Prizes: database.PrizeTiers{
			Special: []string{"12345"},
			First:   []string{"67890"},
			Seventh: []string{"11", "22", "33", "44"},
		},
	}
	r.DeriveTwoDigits()
	return r
}

func TestFormatResultMessage(t *testing.T) {
	b := &Bot{}
	msg := b.formatResultMessage(testResult())

	assert.Contains(t, msg, "30-8-2026")
	assert.Contains(t, msg, "*ĐB*: `12345`")
	assert.Contains(t, msg, "*G7*: `11 22 33 44`")
	assert.Contains(t, msg, "Lô tô (6 số)")
	assert.Contains(t, msg, "45, 90, 11, 22, 33, 44")
	// 未开出的奖级不显示
	assert.NotContains(t, msg, "*G2*")
}

func TestFormatPredictionsMessage(t *testing.T) {
	b := &Bot{}

	msg := b.formatPredictionsMessage(nil)
	assert.Contains(t, msg, "Chưa có model nào")

	predictions := []database.Prediction{
		{
			ModelName:        "Claude Opus 4.5 Thinking",
			PredictedNumbers: []string{"07", "23", "45"},
			Evaluated:        true,
			Result: &database.EvaluationResult{
				Hits:        []string{"23"},
				HitCount:    1,
				IsWin:       true,
				EvaluatedAt: time.Now(),
			},
		},
		{
			ModelName:        "GLM 4.7",
			PredictedNumbers: []string{"11"},
		},
	}
	msg = b.formatPredictionsMessage(predictions)
	assert.Contains(t, msg, "Claude Opus 4.5 Thinking")
	assert.Contains(t, msg, "✅ trúng 1 số")
	assert.Contains(t, msg, "GLM 4.7")
	assert.NotContains(t, msg, "GLM 4.7*: `11` ❌")
}

func TestFormatStatsMessage(t *testing.T) {
	b := &Bot{}

	msg := b.formatStatsMessage(nil)
	assert.Contains(t, msg, "Chưa có dự đoán nào")

	statistics := []database.ModelStatistics{
		{
			ModelKey:  "claude-opus",
			ModelName: "Claude Opus 4.5 Thinking",
			TotalDays: 10,
			Wins:      6,
			Losses:    4,
			WinRate:   60,
			HitRate:   33.33,
		},
	}
	msg = b.formatStatsMessage(statistics)
	assert.Contains(t, msg, "Ngày: 10 | Thắng: 6 | Thua: 4")
	assert.Contains(t, msg, "60.00%")
	assert.Contains(t, msg, "33.33%")
}
