package stats

import (
	"xsmb-bot/internal/database"
)

// DefaultOverdueMinDays 报告中"久未出现"号码的默认门槛
const DefaultOverdueMinDays = 5

// Period 统计窗口的时间范围
type Period struct {
	Days int    `json:"days"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Summary 报告摘要
type Summary struct {
	TotalResults   int              `json:"totalResults"`
	MostFrequent   *NumberFrequency `json:"mostFrequent,omitempty"`
	LeastFrequent  *NumberFrequency `json:"leastFrequent,omitempty"`
	LongestOverdue *NumberFrequency `json:"longestOverdue,omitempty"`
}

// Report 综合统计报告
type Report struct {
	Period         Period            `json:"period"`
	Frequency      []NumberFrequency `json:"frequency"`
	HotNumbers     []NumberFrequency `json:"hotNumbers"`
	ColdNumbers    []NumberFrequency `json:"coldNumbers"`
	OverdueNumbers []NumberFrequency `json:"overdueNumbers"`
	Pairs          []PairCount       `json:"pairs"`
	HeadTail       *HeadTail         `json:"headTail"`
	Trend          *Trend            `json:"trend"`
	Summary        Summary           `json:"summary"`
}

// GenerateReport 生成窗口内的综合统计报告
// results必须按日期降序
func GenerateReport(results []database.DrawResult, days int) *Report {
	frequency := CalculateFrequency(results, days)
	hot := frequency.HotNumbers(10)
	cold := frequency.ColdNumbers(10)
	overdue := frequency.OverdueNumbers(DefaultOverdueMinDays, 10)

	report := &Report{
		Period:         buildPeriod(results, days),
		Frequency:      frequency.Entries(),
		HotNumbers:     hot,
		ColdNumbers:    cold,
		OverdueNumbers: overdue,
		Pairs:          AnalyzePairs(results, days),
		HeadTail:       AnalyzeHeadTail(results, days),
		Trend:          AnalyzeTrend(results, days),
		Summary: Summary{
			TotalResults: frequency.TotalDays(),
		},
	}

	if len(hot) > 0 {
		report.Summary.MostFrequent = &hot[0]
	}
	if len(cold) > 0 {
		report.Summary.LeastFrequent = &cold[0]
	}
	if len(overdue) > 0 {
		report.Summary.LongestOverdue = &overdue[0]
	}

	return report
}

// NumberBrief AI输入中的号码摘要
type NumberBrief struct {
	Number        string `json:"number"`
	Count         int    `json:"count"`
	DaysSinceLast int    `json:"daysSinceLast"`
}

// RecentDraw AI输入中的单日结果
type RecentDraw struct {
	Date      string   `json:"date"`
	TwoDigits []string `json:"twoDigits"`
}

// HeadTailBrief AI输入中的首末位摘要
type HeadTailBrief struct {
	TopHeads []DigitCount `json:"topHeads"`
	TopTails []DigitCount `json:"topTails"`
}

// TrendBrief AI输入中的趋势摘要
type TrendBrief struct {
	Increasing []NumberTrend `json:"increasing"`
	Decreasing []NumberTrend `json:"decreasing"`
}

// AIInput 提供给模型的统计快照
type AIInput struct {
	Period         Period        `json:"period"`
	HotNumbers     []NumberBrief `json:"hotNumbers"`
	ColdNumbers    []NumberBrief `json:"coldNumbers"`
	OverdueNumbers []NumberBrief `json:"overdueNumbers"`
	TopPairs       []PairCount   `json:"topPairs"`
	HeadTail       HeadTailBrief `json:"headTailAnalysis"`
	Trend          TrendBrief    `json:"trendAnalysis"`
	RecentResults  []RecentDraw  `json:"recentResults"`
}

// PrepareAIInput 从报告提炼模型提示所需的快照
func PrepareAIInput(results []database.DrawResult, days int) *AIInput {
	report := GenerateReport(results, days)

	input := &AIInput{
		Period:         report.Period,
		HotNumbers:     briefs(report.HotNumbers),
		ColdNumbers:    briefs(report.ColdNumbers),
		OverdueNumbers: briefs(report.OverdueNumbers),
		TopPairs:       capPairs(report.Pairs, 10),
		HeadTail: HeadTailBrief{
			TopHeads: capDigits(report.HeadTail.Heads, 5),
			TopTails: capDigits(report.HeadTail.Tails, 5),
		},
		Trend: TrendBrief{
			Increasing: capTrends(report.Trend.Increasing, 5),
			Decreasing: capTrends(report.Trend.Decreasing, 5),
		},
	}

	recent := windowSlice(results, 7)
	for _, result := range recent {
		input.RecentResults = append(input.RecentResults, RecentDraw{
			Date:      result.Date,
			TwoDigits: result.TwoDigits,
		})
	}

	return input
}

func buildPeriod(results []database.DrawResult, days int) Period {
	period := Period{Days: days}
	if len(results) == 0 {
		return period
	}
	period.To = results[0].Date
	fromIndex := days - 1
	if fromIndex >= len(results) {
		fromIndex = len(results) - 1
	}
	period.From = results[fromIndex].Date
	return period
}

func briefs(entries []NumberFrequency) []NumberBrief {
	out := make([]NumberBrief, 0, len(entries))
	for _, entry := range entries {
		out = append(out, NumberBrief{
			Number:        entry.Number,
			Count:         entry.Count,
			DaysSinceLast: entry.DaysSinceLastAppeared,
		})
	}
	return out
}

func capPairs(pairs []PairCount, limit int) []PairCount {
	if len(pairs) > limit {
		return pairs[:limit]
	}
	return pairs
}

func capDigits(digits []DigitCount, limit int) []DigitCount {
	if len(digits) > limit {
		return digits[:limit]
	}
	return digits
}

func capTrends(trends []NumberTrend, limit int) []NumberTrend {
	if len(trends) > limit {
		return trends[:limit]
	}
	return trends
}
