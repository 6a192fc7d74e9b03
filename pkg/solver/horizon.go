// Package solver 实现排班问题的约束建模与求解编排
package solver

import (
	"fmt"
	"strings"
	"time"
)

// 日期解析按宽松到严格逐一尝试：纯日期、RFC3339、无时区日期时间
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate 解析ISO-8601日期或日期时间（可带尾缀Z），归一化为UTC日粒度
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("日期为空")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("日期格式无效: %q", s)
}

// ExpandHorizon 将闭区间 [startDate, endDate] 展开为有序日列表
func ExpandHorizon(startDate, endDate string) ([]time.Time, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("开始日期: %w", err)
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("结束日期: %w", err)
	}
	if start.After(end) {
		return nil, fmt.Errorf("开始日期 %s 晚于结束日期 %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, nil
}

// WeekdayIndex 返回星期索引，周一为0、周日为6
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekdayName 返回小写英文星期名（可用性记录的键）
func WeekdayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// FormatDate 格式化为 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
