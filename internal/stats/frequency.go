// Package stats 实现开奖号码的统计分析引擎
package stats

import (
	"fmt"
	"math"
	"sort"

	"xsmb-bot/internal/database"
)

// Appearance 号码在窗口内的一次出现
type Appearance struct {
	Date     string `json:"date"`
	DayIndex int    `json:"dayIndex"` // 0为最新一天
}

// NumberFrequency 单个号码在窗口内的统计
type NumberFrequency struct {
	Number                string       `json:"number"`
	Count                 int          `json:"count"`
	Percentage            float64      `json:"percentage"`
	LastAppeared          string       `json:"lastAppeared,omitempty"`
	DaysSinceLastAppeared int          `json:"daysSinceLastAppeared"`
	Appearances           []Appearance `json:"appearances"`
}

// FrequencyMap 全部100个号码的统计，按"00".."99"顺序
type FrequencyMap struct {
	entries   map[string]*NumberFrequency
	totalDays int
}

// allNumbers 返回"00"到"99"的固定顺序列表
func allNumbers() []string {
	numbers := make([]string, 100)
	for i := 0; i < 100; i++ {
		numbers[i] = fmt.Sprintf("%02d", i)
	}
	return numbers
}

// round2 保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateFrequency 计算窗口内每个号码的出现频率
// results必须按日期降序，窗口取最近days天
func CalculateFrequency(results []database.DrawResult, days int) *FrequencyMap {
	entries := make(map[string]*NumberFrequency, 100)
	for _, num := range allNumbers() {
		entries[num] = &NumberFrequency{
			Number:      num,
			Appearances: []Appearance{},
		}
	}

	recent := windowSlice(results, days)
	totalDays := len(recent)

	for dayIndex, result := range recent {
		for _, num := range result.TwoDigits {
			entry, ok := entries[num]
			if !ok {
				continue
			}
			entry.Count++
			entry.Appearances = append(entry.Appearances, Appearance{
				Date:     result.Date,
				DayIndex: dayIndex,
			})
		}
	}

	for _, entry := range entries {
		if totalDays > 0 {
			entry.Percentage = round2(float64(entry.Count) / float64(totalDays) * 100)
		}
		if len(entry.Appearances) > 0 {
			entry.LastAppeared = entry.Appearances[0].Date
			entry.DaysSinceLastAppeared = entry.Appearances[0].DayIndex
		} else {
			entry.DaysSinceLastAppeared = totalDays
		}
	}

	return &FrequencyMap{entries: entries, totalDays: totalDays}
}

// Get 获取单个号码的统计
func (f *FrequencyMap) Get(number string) *NumberFrequency {
	return f.entries[number]
}

// TotalDays 窗口内实际覆盖的天数
func (f *FrequencyMap) TotalDays() int {
	return f.totalDays
}

// Entries 按"00".."99"顺序返回全部统计项
func (f *FrequencyMap) Entries() []NumberFrequency {
	entries := make([]NumberFrequency, 0, 100)
	for _, num := range allNumbers() {
		entries = append(entries, *f.entries[num])
	}
	return entries
}

// HotNumbers 出现次数最多的号码，次数相同时按号码升序
func (f *FrequencyMap) HotNumbers(limit int) []NumberFrequency {
	entries := f.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return truncate(entries, limit)
}

// ColdNumbers 最久未出现的号码
func (f *FrequencyMap) ColdNumbers(limit int) []NumberFrequency {
	entries := f.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DaysSinceLastAppeared > entries[j].DaysSinceLastAppeared
	})
	return truncate(entries, limit)
}

// OverdueNumbers 连续minDays天以上未出现的号码
func (f *FrequencyMap) OverdueNumbers(minDays, limit int) []NumberFrequency {
	var overdue []NumberFrequency
	for _, entry := range f.Entries() {
		if entry.DaysSinceLastAppeared >= minDays {
			overdue = append(overdue, entry)
		}
	}
	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].DaysSinceLastAppeared > overdue[j].DaysSinceLastAppeared
	})
	return truncate(overdue, limit)
}

// windowSlice 截取最近days天的数据
func windowSlice(results []database.DrawResult, days int) []database.DrawResult {
	if days > 0 && len(results) > days {
		return results[:days]
	}
	return results
}

func truncate(entries []NumberFrequency, limit int) []NumberFrequency {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
