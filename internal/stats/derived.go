package stats

import (
	"fmt"
	"sort"
	"strings"

	"xsmb-bot/internal/database"
)

// PairCount 同日共现的号码对及次数
type PairCount struct {
	Pair  string `json:"pair"` // 格式 "12-34"，小号在前
	Count int    `json:"count"`
}

// AnalyzePairs 统计窗口内同日共现的号码对，返回前20
func AnalyzePairs(results []database.DrawResult, days int) []PairCount {
	counts := make(map[string]int)
	recent := windowSlice(results, days)

	for _, result := range recent {
		if len(result.TwoDigits) < 2 {
			continue
		}
		// 同一天出现多次的号码只算一次
		unique := dedupKeepOrder(result.TwoDigits)
		for i := 0; i < len(unique); i++ {
			for j := i + 1; j < len(unique); j++ {
				a, b := unique[i], unique[j]
				if a > b {
					a, b = b, a
				}
				counts[a+"-"+b]++
			}
		}
	}

	pairs := make([]PairCount, 0, len(counts))
	for pair, count := range counts {
		pairs = append(pairs, PairCount{Pair: pair, Count: count})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		return pairs[i].Pair < pairs[j].Pair
	})

	if len(pairs) > 20 {
		pairs = pairs[:20]
	}
	return pairs
}

// DigitCount 某个首位或末位数字的统计
type DigitCount struct {
	Digit   int      `json:"digit"`
	Count   int      `json:"count"`
	Numbers []string `json:"numbers"` // 去重后的具体号码
}

// HeadTail 首位与末位数字的分布
type HeadTail struct {
	Heads []DigitCount `json:"heads"`
	Tails []DigitCount `json:"tails"`
}

// AnalyzeHeadTail 统计窗口内号码首位与末位数字的出现分布
func AnalyzeHeadTail(results []database.DrawResult, days int) *HeadTail {
	heads := make([]DigitCount, 10)
	tails := make([]DigitCount, 10)
	for i := 0; i <= 9; i++ {
		heads[i] = DigitCount{Digit: i, Numbers: []string{}}
		tails[i] = DigitCount{Digit: i, Numbers: []string{}}
	}

	recent := windowSlice(results, days)
	for _, result := range recent {
		for _, num := range result.TwoDigits {
			if len(num) != 2 {
				continue
			}
			head := int(num[0] - '0')
			tail := int(num[1] - '0')
			if head < 0 || head > 9 || tail < 0 || tail > 9 {
				continue
			}

			heads[head].Count++
			if !contains(heads[head].Numbers, num) {
				heads[head].Numbers = append(heads[head].Numbers, num)
			}
			tails[tail].Count++
			if !contains(tails[tail].Numbers, num) {
				tails[tail].Numbers = append(tails[tail].Numbers, num)
			}
		}
	}

	sort.SliceStable(heads, func(i, j int) bool { return heads[i].Count > heads[j].Count })
	sort.SliceStable(tails, func(i, j int) bool { return tails[i].Count > tails[j].Count })

	return &HeadTail{Heads: heads, Tails: tails}
}

// NumberTrend 号码在窗口前后两半的频率对比
type NumberTrend struct {
	Number        string `json:"number"`
	RecentCount   int    `json:"recentCount"`
	PreviousCount int    `json:"previousCount"`
	Trend         string `json:"trend"` // increasing/decreasing/stable
	TrendValue    int    `json:"trendValue"`
}

// Trend 频率上升与下降的号码列表
type Trend struct {
	Increasing []NumberTrend `json:"increasing"`
	Decreasing []NumberTrend `json:"decreasing"`
}

// AnalyzeTrend 对比窗口较新一半与较旧一半的出现频率
// 窗口为奇数天时，较旧一半多一天
func AnalyzeTrend(results []database.DrawResult, days int) *Trend {
	recent := windowSlice(results, days)
	half := days / 2
	if half > len(recent) {
		half = len(recent)
	}

	recentHalf := recent[:half]
	previousHalf := recent[half:]

	recentFreq := countNumbers(recentHalf)
	previousFreq := countNumbers(previousHalf)

	var increasing, decreasing []NumberTrend
	for _, num := range allNumbers() {
		diff := recentFreq[num] - previousFreq[num]
		trend := NumberTrend{
			Number:        num,
			RecentCount:   recentFreq[num],
			PreviousCount: previousFreq[num],
			TrendValue:    diff,
		}
		switch {
		case diff > 0:
			trend.Trend = "increasing"
			increasing = append(increasing, trend)
		case diff < 0:
			trend.Trend = "decreasing"
			decreasing = append(decreasing, trend)
		default:
			trend.Trend = "stable"
		}
	}

	sort.SliceStable(increasing, func(i, j int) bool {
		return increasing[i].TrendValue > increasing[j].TrendValue
	})
	sort.SliceStable(decreasing, func(i, j int) bool {
		return decreasing[i].TrendValue < decreasing[j].TrendValue
	})

	if len(increasing) > 10 {
		increasing = increasing[:10]
	}
	if len(decreasing) > 10 {
		decreasing = decreasing[:10]
	}

	return &Trend{Increasing: increasing, Decreasing: decreasing}
}

// Cycle 单个号码的出现周期分析，基于全部历史
type Cycle struct {
	Number       string       `json:"number"`
	AverageCycle float64      `json:"averageCycle"` // 出现次数不足2次时为0且HasCycle为false
	HasCycle     bool         `json:"hasCycle"`
	Cycles       []int        `json:"cycles"`
	Appearances  []Appearance `json:"appearances"`
}

// AnalyzeCycle 计算号码相邻两次出现的天数间隔及其均值
func AnalyzeCycle(results []database.DrawResult, number string) (*Cycle, error) {
	if len(number) != 2 || !isDigits(number) {
		return nil, fmt.Errorf("invalid number %q: must be two digits", number)
	}

	var appearances []Appearance
	for index, result := range results {
		if contains(result.TwoDigits, number) {
			appearances = append(appearances, Appearance{
				Date:     result.Date,
				DayIndex: index,
			})
		}
	}

	cycle := &Cycle{Number: number, Cycles: []int{}, Appearances: appearances}
	if len(appearances) < 2 {
		return cycle, nil
	}

	total := 0
	for i := 0; i < len(appearances)-1; i++ {
		gap := appearances[i+1].DayIndex - appearances[i].DayIndex
		cycle.Cycles = append(cycle.Cycles, gap)
		total += gap
	}
	cycle.AverageCycle = round2(float64(total) / float64(len(cycle.Cycles)))
	cycle.HasCycle = true

	if len(cycle.Appearances) > 10 {
		cycle.Appearances = cycle.Appearances[:10]
	}
	return cycle, nil
}

func countNumbers(results []database.DrawResult) map[string]int {
	freq := make(map[string]int, 100)
	for _, result := range results {
		for _, num := range result.TwoDigits {
			freq[num]++
		}
	}
	return freq
}

func dedupKeepOrder(numbers []string) []string {
	seen := make(map[string]bool, len(numbers))
	unique := make([]string, 0, len(numbers))
	for _, num := range numbers {
		if !seen[num] {
			seen[num] = true
			unique = append(unique, num)
		}
	}
	return unique
}

func contains(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return r < '0' || r > '9'
	}) < 0
}
