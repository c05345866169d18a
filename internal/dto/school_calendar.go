package dto

// ── 校历模块 DTO ──

// SchoolCalendarRequest 创建/更新校历
type SchoolCalendarRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=100"`
	DateStart string `json:"date_start" binding:"required,date"` // "2023-09-01"
	DateEnd   string `json:"date_end"   binding:"required,date"`
}

// SchoolCalendarResponse 校历响应
type SchoolCalendarResponse struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	DateStart string                  `json:"date_start"`
	DateEnd   string                  `json:"date_end"`
	Holidays  []SchoolHolidayResponse `json:"holidays,omitempty"`
}

// SchoolHolidayRequest 创建/更新非教学日
type SchoolHolidayRequest struct {
	Name      string `json:"name"       binding:"required,max=150"`
	DateStart string `json:"date_start" binding:"required,date"`
	DateEnd   string `json:"date_end"   binding:"required,date"`
}

// SchoolHolidayResponse 非教学日响应
type SchoolHolidayResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DateStart string `json:"date_start"`
	DateEnd   string `json:"date_end"`
}

// ImportHolidaysResponse ICS 导入结果
type ImportHolidaysResponse struct {
	Imported int                     `json:"imported"`
	Skipped  int                     `json:"skipped"`
	Holidays []SchoolHolidayResponse `json:"holidays"`
}

// LectiveDaysRequest 教学日统计查询
type LectiveDaysRequest struct {
	From string `form:"from" binding:"required,date"`
	To   string `form:"to"   binding:"required,date"`
}

// LectiveDaysResponse 教学日统计结果
type LectiveDaysResponse struct {
	From        string `json:"from"`
	To          string `json:"to"`
	LectiveDays int    `json:"lective_days"`
}
