package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractNumbersLabeledFormat(t *testing.T) {
	text := "**1. Lô [07]** - vì nóng\n**2. Lô [23]**\n**3. Lô [45]**"
	assert.Equal(t, []string{"07", "23", "45"}, ExtractNumbers(text))
}

func TestExtractNumbersDeduplicates(t *testing.T) {
	text := "**1. Lô [07]** - vì nóng\n**2. Lô [23]**\n**3. Lô [07]**"
	assert.Equal(t, []string{"07", "23"}, ExtractNumbers(text))
}

func TestExtractNumbersCapsAtThree(t *testing.T) {
	text := "Lô [01] Lô [02] Lô [03] Lô [04] Lô [05]"
	assert.Equal(t, []string{"01", "02", "03"}, ExtractNumbers(text))
}

func TestExtractNumbersLooseFormat(t *testing.T) {
	text := "Tôi chọn Lô 12 và lô 34 hôm nay"
	assert.Equal(t, []string{"12", "34"}, ExtractNumbers(text))
}

func TestExtractNumbersLooseFormatWordBoundary(t *testing.T) {
	// "123"不是两位数，不应截取前两位
	text := "Lô 123 không hợp lệ"
	assert.Empty(t, ExtractNumbers(text))
}

func TestExtractNumbersBoldFormat(t *testing.T) {
	text := "Dự đoán: **88** và **99**"
	assert.Equal(t, []string{"88", "99"}, ExtractNumbers(text))
}

func TestExtractNumbersPatternPriority(t *testing.T) {
	// 标准格式优先于加粗格式
	text := "**55** trước, sau đó Lô [11] và Lô [22] rồi Lô [33]"
	assert.Equal(t, []string{"11", "22", "33"}, ExtractNumbers(text))
}

func TestExtractNumbersMixedPatterns(t *testing.T) {
	text := "Lô [11] là chính, phụ thêm **77**"
	assert.Equal(t, []string{"11", "77"}, ExtractNumbers(text))
}

func TestExtractNumbersEmpty(t *testing.T) {
	assert.Empty(t, ExtractNumbers("Không có dự đoán nào hôm nay."))
	assert.Empty(t, ExtractNumbers(""))
}

func TestExtractNumbersCaseInsensitive(t *testing.T) {
	text := "LÔ [42]"
	assert.Equal(t, []string{"42"}, ExtractNumbers(text))
}
