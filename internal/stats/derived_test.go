package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzePairsDedupPerDay(t *testing.T) {
	results := makeResults(
		[]string{"12", "34", "12"}, // 重复的"12"当天只算一次
		[]string{"12", "34"},
	)

	pairs := AnalyzePairs(results, 30)
	require.Len(t, pairs, 1)
	assert.Equal(t, "12-34", pairs[0].Pair)
	assert.Equal(t, 2, pairs[0].Count)
}

func TestAnalyzePairsKeyOrder(t *testing.T) {
	results := makeResults(
		[]string{"90", "05"},
	)

	pairs := AnalyzePairs(results, 30)
	require.Len(t, pairs, 1)
	// 小号在前，与出现顺序无关
	assert.Equal(t, "05-90", pairs[0].Pair)
}

func TestAnalyzePairsTopTwenty(t *testing.T) {
	// 25个号码两两组合产生300个对
	digits := make([]string, 25)
	for i := range digits {
		digits[i] = allNumbers()[i]
	}
	results := makeResults(digits)

	pairs := AnalyzePairs(results, 30)
	assert.Len(t, pairs, 20)
}

func TestAnalyzeHeadTail(t *testing.T) {
	results := makeResults(
		[]string{"12", "13", "12", "45"},
	)

	ht := AnalyzeHeadTail(results, 30)
	require.Len(t, ht.Heads, 10)
	require.Len(t, ht.Tails, 10)

	// 首位1出现3次（含重复），排最前
	assert.Equal(t, 1, ht.Heads[0].Digit)
	assert.Equal(t, 3, ht.Heads[0].Count)
	// 号码列表去重
	assert.Equal(t, []string{"12", "13"}, ht.Heads[0].Numbers)

	// 末位2出现2次
	var tail2 *DigitCount
	for i := range ht.Tails {
		if ht.Tails[i].Digit == 2 {
			tail2 = &ht.Tails[i]
		}
	}
	require.NotNil(t, tail2)
	assert.Equal(t, 2, tail2.Count)
	assert.Equal(t, []string{"12"}, tail2.Numbers)
}

func TestAnalyzeTrendHalves(t *testing.T) {
	results := makeResults(
		[]string{"12"}, // 较新一半
		[]string{"12"},
		[]string{"34"}, // 较旧一半
		[]string{"34"},
	)

	trend := AnalyzeTrend(results, 4)

	require.NotEmpty(t, trend.Increasing)
	assert.Equal(t, "12", trend.Increasing[0].Number)
	assert.Equal(t, 2, trend.Increasing[0].RecentCount)
	assert.Equal(t, 0, trend.Increasing[0].PreviousCount)
	assert.Equal(t, "increasing", trend.Increasing[0].Trend)

	require.NotEmpty(t, trend.Decreasing)
	assert.Equal(t, "34", trend.Decreasing[0].Number)
	assert.Equal(t, -2, trend.Decreasing[0].TrendValue)
}

func TestAnalyzeTrendOddWindow(t *testing.T) {
	// 5天窗口：较新一半2天，较旧一半3天
	results := makeResults(
		[]string{"11"},
		[]string{"11"},
		[]string{"22"},
		[]string{"22"},
		[]string{"22"},
	)

	trend := AnalyzeTrend(results, 5)
	require.NotEmpty(t, trend.Decreasing)
	assert.Equal(t, "22", trend.Decreasing[0].Number)
	assert.Equal(t, 3, trend.Decreasing[0].PreviousCount)
}

func TestAnalyzeCycle(t *testing.T) {
	results := makeResults(
		[]string{"12"}, // index 0
		[]string{"34"},
		[]string{"12"}, // index 2
		[]string{"34"},
		[]string{"34"},
		[]string{"12"}, // index 5
	)

	cycle, err := AnalyzeCycle(results, "12")
	require.NoError(t, err)
	assert.True(t, cycle.HasCycle)
	assert.Equal(t, []int{2, 3}, cycle.Cycles)
	assert.Equal(t, 2.5, cycle.AverageCycle)
	require.Len(t, cycle.Appearances, 3)
	assert.Equal(t, 0, cycle.Appearances[0].DayIndex)
}

func TestAnalyzeCycleInsufficientData(t *testing.T) {
	cycle, err := AnalyzeCycle(makeResults([]string{"12"}), "12")
	require.NoError(t, err)
	assert.False(t, cycle.HasCycle)
	assert.Empty(t, cycle.Cycles)
	assert.Zero(t, cycle.AverageCycle)
}

func TestAnalyzeCycleInvalidNumber(t *testing.T) {
	_, err := AnalyzeCycle(nil, "1")
	assert.Error(t, err)

	_, err = AnalyzeCycle(nil, "ab")
	assert.Error(t, err)
}
