// Package report 负责月度出勤报表的数据结构与 HTML / XLSX 渲染。
package report

import (
	"time"
)

// ReportID 报表标识，用于文件名与 HTML 文档 id
const ReportID = "activity_monthly_report"

// Month 报表向导中的可选月份
type Month struct {
	Year  int
	Month int
	Name  string // "%B %Y"，年或月非正数时为空
}

// Line 报表行：某会员在某产品下的出勤次数
type Line struct {
	Partner string
	Product string
	Total   int
}

// MonthlyReport 某校历某月的出勤汇总，每次请求重新计算
type MonthlyReport struct {
	Title              string
	SchoolCalendarID   string
	SchoolCalendarName string
	Month              Month
	DateFrom           time.Time
	DateTo             time.Time
	LectiveDays        int
	Lines              []Line
	GeneratedAt        time.Time
}

// TotalAttendance 全部行出勤次数之和
func (r MonthlyReport) TotalAttendance() int {
	total := 0
	for _, l := range r.Lines {
		total += l.Total
	}
	return total
}

// Filename 下载文件名（不含扩展名）
func (r MonthlyReport) Filename() string {
	return ReportID + "_" + r.DateFrom.Format("2006_01")
}
