package ai

import (
	"regexp"
)

// MaxPredictedNumbers 每次预测最多提取的号码数量
const MaxPredictedNumbers = 3

// extractPatterns 按优先级匹配回复中的预测号码
var extractPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)lô\s*\[(\d{2})\]`), // 标准格式 "Lô [12]"
	regexp.MustCompile(`(?i)lô\s+(\d{2})\b`),   // 宽松格式 "Lô 12"
	regexp.MustCompile(`\*\*(\d{2})\*\*`),      // 加粗格式 "**12**"
}

// ExtractNumbers 从模型回复中提取预测号码
// 按模式优先级累积匹配，去重后最多保留3个，无匹配时返回空列表
func ExtractNumbers(analysisText string) []string {
	seen := make(map[string]bool)
	numbers := []string{}

	for _, pattern := range extractPatterns {
		for _, match := range pattern.FindAllStringSubmatch(analysisText, -1) {
			num := match[1]
			if seen[num] {
				continue
			}
			seen[num] = true
			numbers = append(numbers, num)
			if len(numbers) == MaxPredictedNumbers {
				return numbers
			}
		}
	}

	return numbers
}
