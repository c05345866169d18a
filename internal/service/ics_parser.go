package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"ampa-activity/internal/model"
	"ampa-activity/pkg/datefmt"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 中的 VEVENT 转为非教学日区间。
//
//   - SUMMARY 作为名称，缺失时使用 defaultHolidayName
//   - 全天事件（VALUE=DATE）的 DTEND 为开区间，需减一天
//   - 带时间的事件按 DTSTART / DTEND 所在日期取闭区间
//   - UTC 时间（...Z）先换算到日历时区（X-WR-TIMEZONE，缺省为学校时区）再取日期；
//     带 TZID 或浮动时间本身就是当地时间，直接取日期
//   - 缺少 DTEND 视为单日
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize     = 5 * 1024 * 1024 // 5MB
	defaultHolidayName = "Holiday"
)

// ParseHolidayICS 解析 ICS 内容，返回与校历区间有交集的非教学日
// loc 为学校时区；skipped 为无法解析或不在校历区间内的事件数
func ParseHolidayICS(reader io.Reader, cal *model.SchoolCalendar, loc *time.Location) (holidays []model.SchoolHoliday, skipped int, err error) {
	parsed, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, 0, fmt.Errorf("ICS 格式解析失败: %w", err)
	}
	loc = calendarLocation(parsed, loc)

	calStart := datefmt.Date(cal.DateStart)
	calEnd := datefmt.Date(cal.DateEnd)

	for _, evt := range parsed.Events() {
		h, ok := parseHolidayEvent(evt, loc)
		if !ok {
			skipped++
			continue
		}
		if h.DateEnd.Before(calStart) || h.DateStart.After(calEnd) {
			skipped++
			continue
		}
		h.SchoolCalendarID = cal.SchoolCalendarID
		holidays = append(holidays, h)
	}
	return holidays, skipped, nil
}

func parseHolidayEvent(evt *ics.VEvent, loc *time.Location) (model.SchoolHoliday, bool) {
	name := defaultHolidayName
	if summary := evt.GetProperty(ics.ComponentPropertySummary); summary != nil && strings.TrimSpace(summary.Value) != "" {
		name = strings.TrimSpace(summary.Value)
	}

	start, allDay, err := parseICSDate(evt.GetProperty(ics.ComponentPropertyDtStart), loc)
	if err != nil {
		return model.SchoolHoliday{}, false
	}

	end := start
	if endDate, endAllDay, err := parseICSDate(evt.GetProperty(ics.ComponentPropertyDtEnd), loc); err == nil {
		end = endDate
		if allDay || endAllDay {
			// DTEND 为开区间
			end = end.AddDate(0, 0, -1)
		}
	}
	if end.Before(start) {
		end = start
	}

	return model.SchoolHoliday{
		Name:      name,
		DateStart: start,
		DateEnd:   end,
	}, true
}

// calendarLocation 日历声明了有效的 X-WR-TIMEZONE 时优先使用
func calendarLocation(cal *ics.Calendar, fallback *time.Location) *time.Location {
	if fallback == nil {
		fallback = time.UTC
	}
	for _, p := range cal.CalendarProperties {
		if p.IANAToken != string(ics.PropertyXWRTimezone) {
			continue
		}
		if loc, err := time.LoadLocation(strings.TrimSpace(p.Value)); err == nil {
			return loc
		}
	}
	return fallback
}

// parseICSDate 解析 DTSTART / DTEND，只保留当地日期
// allDay 表示值为纯日期（VALUE=DATE）
func parseICSDate(prop *ics.IANAProperty, loc *time.Location) (date time.Time, allDay bool, err error) {
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("missing property")
	}
	val := strings.TrimSpace(prop.Value)

	if t, err := time.Parse("20060102", val); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse("20060102T150405Z", val); err == nil {
		return datefmt.Date(t.In(loc)), false, nil
	}
	if t, err := time.Parse("20060102T150405", val); err == nil {
		return datefmt.Date(t), false, nil
	}
	return time.Time{}, false, fmt.Errorf("无法解析日期: %s", val)
}
