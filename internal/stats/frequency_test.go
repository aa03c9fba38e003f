package stats

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xsmb-bot/internal/database"
)

// makeResults 构造按日期降序的测试数据，twoDigits[0]为最新一天
func makeResults(twoDigits ...[]string) []database.DrawResult {
	results := make([]database.DrawResult, len(twoDigits))
	for i, digits := range twoDigits {
		day := 28 - i
		results[i] = database.DrawResult{
			Date:      fmt.Sprintf("2026-08-%02d", day),
			TwoDigits: digits,
		}
	}
	return results
}

func TestCalculateFrequencyInitializesAllNumbers(t *testing.T) {
	freq := CalculateFrequency(nil, 30)

	entries := freq.Entries()
	require.Len(t, entries, 100)
	assert.Equal(t, "00", entries[0].Number)
	assert.Equal(t, "99", entries[99].Number)
	for _, entry := range entries {
		assert.Equal(t, 0, entry.Count)
		assert.Equal(t, 0, entry.DaysSinceLastAppeared)
	}
}

func TestCalculateFrequencyCountsAndPercentage(t *testing.T) {
	results := makeResults(
		[]string{"12", "34", "12"},
		[]string{"12", "56"},
		[]string{"78"},
	)

	freq := CalculateFrequency(results, 30)
	require.Equal(t, 3, freq.TotalDays())

	entry := freq.Get("12")
	assert.Equal(t, 3, entry.Count) // 同一天出现两次也累计
	assert.Equal(t, "2026-08-28", entry.LastAppeared)
	assert.Equal(t, 0, entry.DaysSinceLastAppeared)
	assert.Equal(t, 100.0, entry.Percentage)

	entry = freq.Get("56")
	assert.Equal(t, 1, entry.Count)
	assert.Equal(t, 1, entry.DaysSinceLastAppeared)
	assert.Equal(t, 33.33, entry.Percentage)

	// 未出现的号码记为窗口天数
	entry = freq.Get("99")
	assert.Equal(t, 0, entry.Count)
	assert.Equal(t, 3, entry.DaysSinceLastAppeared)
	assert.Empty(t, entry.LastAppeared)
}

func TestCalculateFrequencyWindowLimit(t *testing.T) {
	results := makeResults(
		[]string{"11"},
		[]string{"22"},
		[]string{"33"},
		[]string{"44"},
	)

	freq := CalculateFrequency(results, 2)
	assert.Equal(t, 2, freq.TotalDays())
	assert.Equal(t, 1, freq.Get("11").Count)
	assert.Equal(t, 1, freq.Get("22").Count)
	assert.Equal(t, 0, freq.Get("33").Count)
	assert.Equal(t, 0, freq.Get("44").Count)
}

func TestHotNumbersOrdering(t *testing.T) {
	results := makeResults(
		[]string{"12", "34", "56"},
		[]string{"12", "34"},
		[]string{"12"},
	)

	hot := CalculateFrequency(results, 30).HotNumbers(3)
	require.Len(t, hot, 3)
	assert.Equal(t, "12", hot[0].Number)
	assert.Equal(t, 3, hot[0].Count)
	assert.Equal(t, "34", hot[1].Number)
	assert.Equal(t, "56", hot[2].Number)
}

func TestHotNumbersStableTieBreak(t *testing.T) {
	results := makeResults(
		[]string{"77", "05"},
	)

	hot := CalculateFrequency(results, 30).HotNumbers(2)
	require.Len(t, hot, 2)
	// 次数相同时按号码升序
	assert.Equal(t, "05", hot[0].Number)
	assert.Equal(t, "77", hot[1].Number)
}

func TestColdNumbersOrdering(t *testing.T) {
	results := makeResults(
		[]string{"11"},
		[]string{"22"},
		[]string{"33"},
	)

	cold := CalculateFrequency(results, 30).ColdNumbers(5)
	require.Len(t, cold, 5)
	// 从未出现的号码排最前（daysSince=3），然后是最久未出现的"33"
	assert.Equal(t, 3, cold[0].DaysSinceLastAppeared)
	for _, entry := range cold[:2] {
		assert.NotContains(t, []string{"11", "22", "33"}, entry.Number)
	}
}

func TestOverdueNumbersThreshold(t *testing.T) {
	results := makeResults(
		[]string{"11"},
		[]string{"22"},
		[]string{"33"},
		[]string{"44"},
		[]string{"55"},
	)

	freq := CalculateFrequency(results, 30)
	overdue := freq.OverdueNumbers(3, 100)
	for _, entry := range overdue {
		assert.GreaterOrEqual(t, entry.DaysSinceLastAppeared, 3)
	}
	// "44"(3天前)和"55"(4天前)达到门槛，"33"(2天前)不在内
	numbers := make(map[string]bool)
	for _, entry := range overdue {
		numbers[entry.Number] = true
	}
	assert.True(t, numbers["44"])
	assert.True(t, numbers["55"])
	assert.False(t, numbers["33"])
}

func TestOverdueNumbersLimit(t *testing.T) {
	freq := CalculateFrequency(makeResults([]string{"11"}), 30)
	overdue := freq.OverdueNumbers(1, 10)
	assert.Len(t, overdue, 10)
}
