package ai

import (
	"fmt"
	"strings"
	"time"

	"xsmb-bot/internal/stats"
)

// vnLocation 越南时区，UTC+7无夏令时
var vnLocation = time.FixedZone("ICT", 7*60*60)

// vnWeekdays 越南语星期名
var vnWeekdays = [7]string{
	"Chủ Nhật", "Thứ Hai", "Thứ Ba", "Thứ Tư", "Thứ Năm", "Thứ Sáu", "Thứ Bảy",
}

// VNTime 转换为越南时间
func VNTime(t time.Time) time.Time {
	return t.In(vnLocation)
}

// DateVN 越南时间的ISO日期
func DateVN(t time.Time) string {
	return VNTime(t).Format("2006-01-02")
}

// DateDisplayVN 越南语展示日期，如 "Thứ Hai, 31 tháng 8, 2026"
func DateDisplayVN(t time.Time) string {
	vn := VNTime(t)
	return fmt.Sprintf("%s, %d tháng %d, %d",
		vnWeekdays[vn.Weekday()], vn.Day(), int(vn.Month()), vn.Year())
}

// buildPrompt 根据统计快照构造预测提示
func buildPrompt(input *stats.AIInput, dateDisplay string) string {
	var sb strings.Builder

	sb.WriteString("Bạn là chuyên gia phân tích LÔ TÔ xổ số miền Bắc.\n\n")
	sb.WriteString(fmt.Sprintf("## 📅 NGÀY DỰ ĐOÁN: %s\n\n", dateDisplay))
	sb.WriteString("## NHIỆM VỤ:\n")
	sb.WriteString(fmt.Sprintf(
		"Dựa trên dữ liệu %d ngày, phân tích và đưa ra **ĐÚNG 3 CẶP SỐ** có xác suất cao nhất về hôm nay.\n\n",
		input.Period.Days))
	sb.WriteString("---\n\n## 📊 DỮ LIỆU:\n\n")

	sb.WriteString("### LÔ NÓNG (xuất hiện nhiều):\n")
	for _, h := range capBriefs(input.HotNumbers, 10) {
		sb.WriteString(fmt.Sprintf("- %s: %d lần\n", h.Number, h.Count))
	}

	sb.WriteString("\n### LÔ GAN (lâu chưa về):\n")
	for _, o := range capBriefs(input.OverdueNumbers, 10) {
		sb.WriteString(fmt.Sprintf("- %s: %d ngày chưa về\n", o.Number, o.DaysSinceLast))
	}

	sb.WriteString("\n### CẶP HAY ĐI CÙNG:\n")
	pairs := input.TopPairs
	if len(pairs) > 5 {
		pairs = pairs[:5]
	}
	for _, p := range pairs {
		sb.WriteString(fmt.Sprintf("- %s: %d lần\n", p.Pair, p.Count))
	}

	sb.WriteString("\n### ĐẦU ĐUÔI NÓNG:\n")
	sb.WriteString(fmt.Sprintf("- Đầu: %s\n", joinDigits(input.HeadTail.TopHeads, 3)))
	sb.WriteString(fmt.Sprintf("- Đuôi: %s\n", joinDigits(input.HeadTail.TopTails, 3)))

	sb.WriteString("\n### 5 NGÀY GẦN NHẤT:\n")
	recent := input.RecentResults
	if len(recent) > 5 {
		recent = recent[:5]
	}
	for _, r := range recent {
		sb.WriteString(fmt.Sprintf("%s: [%s]\n", r.Date, strings.Join(r.TwoDigits, ", ")))
	}

	sb.WriteString("\n---\n\n## ✅ TRẢ LỜI ĐÚNG FORMAT SAU:\n\n")
	sb.WriteString(fmt.Sprintf("### 🎯 3 CẶP SỐ DỰ ĐOÁN HÔM NAY (%s):\n\n", dateDisplay))
	sb.WriteString("**1. Lô [XX]** - [Lý do ngắn gọn]\n\n")
	sb.WriteString("**2. Lô [XX]** - [Lý do ngắn gọn]\n\n")
	sb.WriteString("**3. Lô [XX]** - [Lý do ngắn gọn]\n\n")
	sb.WriteString("### 📊 Đầu đuôi gợi ý:\n- Đầu: [X]\n- Đuôi: [X]\n\n")
	sb.WriteString("### 📈 Độ tin cậy: [X]%\n\n")
	sb.WriteString("---\n⚠️ CHỈ ĐƯỢC DỰ ĐOÁN ĐÚNG 3 SỐ. Không thêm, không bớt.")

	return sb.String()
}

func capBriefs(briefs []stats.NumberBrief, limit int) []stats.NumberBrief {
	if len(briefs) > limit {
		return briefs[:limit]
	}
	return briefs
}

func joinDigits(digits []stats.DigitCount, limit int) string {
	if len(digits) > limit {
		digits = digits[:limit]
	}
	parts := make([]string, 0, len(digits))
	for _, d := range digits {
		parts = append(parts, fmt.Sprintf("%d", d.Digit))
	}
	return strings.Join(parts, ", ")
}
