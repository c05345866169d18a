// Package datefmt 按语言配置的 strftime 模式格式化日期。
package datefmt

import (
	"time"

	"github.com/ncruces/go-strftime"
)

// DefaultPattern 无任何语言记录时使用的日期格式（en_US）
const DefaultPattern = "%m/%d/%Y"

// MonthPattern 报表月份显示格式
const MonthPattern = "%B %Y"

// Format 使用 strftime 模式格式化日期，空模式回退到 DefaultPattern
func Format(pattern string, t time.Time) string {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return strftime.Format(pattern, t)
}

// MonthName 返回 "January 2024" 形式的月份名
// year/month 非正数时返回空字符串
func MonthName(year, month int) string {
	if year <= 0 || month <= 0 {
		return ""
	}
	return strftime.Format(MonthPattern, time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
}

// MonthRange 返回某月第一天与最后一天（UTC 零点）
func MonthRange(year, month int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

// Date 截断为 UTC 零点
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
