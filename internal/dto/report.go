package dto

// ── 月度出勤报表 DTO ──

// ReportMonthsRequest 月份列表查询
type ReportMonthsRequest struct {
	SchoolCalendarID string `form:"school_calendar_id" binding:"omitempty,uuid"`
}

// MonthlyReportRequest 月度报表查询
type MonthlyReportRequest struct {
	SchoolCalendarID string `form:"school_calendar_id" binding:"omitempty,uuid"`
	Year             int    `form:"year"               binding:"required_with=Month,omitempty,min=1971"`
	Month            int    `form:"month"              binding:"required_with=Year,omitempty,min=1,max=12"`
}

// ReportMonthResponse 可选月份
type ReportMonthResponse struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Name  string `json:"name"`
}

// ReportMonthsResponse 月份列表（默认选中最早月份）
type ReportMonthsResponse struct {
	SchoolCalendarID string                `json:"school_calendar_id"`
	Months           []ReportMonthResponse `json:"months"`
	Selected         *ReportMonthResponse  `json:"selected,omitempty"`
}

// ReportLineResponse 报表行
type ReportLineResponse struct {
	Partner string `json:"partner"`
	Product string `json:"product"`
	Total   int    `json:"total"`
}

// MonthlyReportResponse 月度报表
type MonthlyReportResponse struct {
	SchoolCalendarID   string               `json:"school_calendar_id"`
	SchoolCalendarName string               `json:"school_calendar_name"`
	Month              ReportMonthResponse  `json:"month"`
	DateFrom           string               `json:"date_from"`
	DateTo             string               `json:"date_to"`
	LectiveDays        int                  `json:"lective_days"`
	Lines              []ReportLineResponse `json:"lines"`
}
