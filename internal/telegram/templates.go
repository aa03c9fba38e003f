package telegram

import (
	"fmt"
	"strings"

	"xsmb-bot/internal/database"
)

// formatResultMessage 格式化单日开奖消息
func (b *Bot) formatResultMessage(result *database.DrawResult) string {
	var builder strings.Builder

	builder.WriteString("🎰 *Kết quả XSMB*\n\n")
	builder.WriteString(fmt.Sprintf("📅 Ngày: `%s`\n\n", result.DateDisplay))

	tiers := []struct {
		label   string
		numbers []string
	}{
		{"ĐB", result.Prizes.Special},
		{"G1", result.Prizes.First},
		{"G2", result.Prizes.Second},
		{"G3", result.Prizes.Third},
		{"G4", result.Prizes.Fourth},
		{"G5", result.Prizes.Fifth},
		{"G6", result.Prizes.Sixth},
		{"G7", result.Prizes.Seventh},
	}
	for _, tier := range tiers {
		if len(tier.numbers) > 0 {
			builder.WriteString(fmt.Sprintf("*%s*: `%s`\n", tier.label, strings.Join(tier.numbers, " ")))
		}
	}

	builder.WriteString(fmt.Sprintf("\n🔢 Lô tô (%d số):\n`%s`",
		result.CountNumbers, strings.Join(result.TwoDigits, ", ")))

	return builder.String()
}

// formatPredictionsMessage 格式化当日预测消息
func (b *Bot) formatPredictionsMessage(predictions []database.Prediction) string {
	var builder strings.Builder

	builder.WriteString("🔮 *Dự đoán hôm nay*\n\n")

	if len(predictions) == 0 {
		builder.WriteString("Chưa có model nào dự đoán hôm nay.")
		return builder.String()
	}

	for _, p := range predictions {
		builder.WriteString(fmt.Sprintf("*%s*: `%s`", p.ModelName, strings.Join(p.PredictedNumbers, ", ")))
		if p.Evaluated && p.Result != nil {
			if p.Result.IsWin {
				builder.WriteString(fmt.Sprintf(" ✅ trúng %d số", p.Result.HitCount))
			} else {
				builder.WriteString(" ❌ trượt")
			}
		}
		builder.WriteString("\n")
	}

	builder.WriteString("\n💡 Dự đoán chỉ mang tính tham khảo")
	return builder.String()
}

// formatStatsMessage 格式化模型统计消息
func (b *Bot) formatStatsMessage(statistics []database.ModelStatistics) string {
	var builder strings.Builder

	builder.WriteString("📊 *Thống kê model*\n\n")

	if len(statistics) == 0 {
		builder.WriteString("Chưa có dự đoán nào được đánh giá.")
		return builder.String()
	}

	for _, s := range statistics {
		builder.WriteString(fmt.Sprintf("*%s*\n", s.ModelName))
		builder.WriteString(fmt.Sprintf("   Ngày: %d | Thắng: %d | Thua: %d\n", s.TotalDays, s.Wins, s.Losses))
		builder.WriteString(fmt.Sprintf("   Tỉ lệ thắng: %.2f%% | Tỉ lệ trúng số: %.2f%%\n\n", s.WinRate, s.HitRate))
	}

	return builder.String()
}

// formatDailyBroadcast 格式化每日播报消息
func (b *Bot) formatDailyBroadcast(result *database.DrawResult, predictions []database.Prediction) string {
	var builder strings.Builder

	builder.WriteString(b.formatResultMessage(result))

	if len(predictions) > 0 {
		builder.WriteString("\n\n")
		builder.WriteString(b.formatPredictionsMessage(predictions))
	}

	return builder.String()
}
