package service

import (
	"time"

	"ampa-activity/internal/model"
	"ampa-activity/pkg/datefmt"
)

// CountLectiveDays 统计校历在 [from, to] 内的教学日数量
//
// 规则：
//   - 区间先与校历 [DateStart, DateEnd] 求交集
//   - 仅计周一至周五
//   - 落在任一非教学日区间（闭区间）内的日期不计
func CountLectiveDays(cal *model.SchoolCalendar, from, to time.Time) int {
	if cal == nil {
		return 0
	}
	start := datefmt.Date(from)
	if cs := datefmt.Date(cal.DateStart); cs.After(start) {
		start = cs
	}
	end := datefmt.Date(to)
	if ce := datefmt.Date(cal.DateEnd); ce.Before(end) {
		end = ce
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if inHoliday(cal.Holidays, d) {
			continue
		}
		count++
	}
	return count
}

func inHoliday(holidays []model.SchoolHoliday, d time.Time) bool {
	for _, h := range holidays {
		if !d.Before(datefmt.Date(h.DateStart)) && !d.After(datefmt.Date(h.DateEnd)) {
			return true
		}
	}
	return false
}
