package model

import "time"

// SchoolCalendar 校历（学年/学期区间）表 — 对应 school_calendars
type SchoolCalendar struct {
	SchoolCalendarID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"school_calendar_id"`
	Name             string    `gorm:"type:varchar(100);not null"                     json:"name"`
	DateStart        time.Time `gorm:"type:date;not null"                             json:"date_start"`
	DateEnd          time.Time `gorm:"type:date;not null"                             json:"date_end"`
	BaseModel

	// 关联
	Holidays []SchoolHoliday `gorm:"foreignKey:SchoolCalendarID;constraint:OnDelete:CASCADE" json:"holidays,omitempty"`
}

// TableName 指定表名
func (SchoolCalendar) TableName() string { return "school_calendars" }

// SchoolHoliday 非教学日区间 — 对应 school_holidays
// DateEnd 为闭区间终点
type SchoolHoliday struct {
	SchoolHolidayID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"school_holiday_id"`
	SchoolCalendarID string    `gorm:"type:uuid;not null;index"                       json:"school_calendar_id"`
	Name             string    `gorm:"type:varchar(150);not null"                     json:"name"`
	DateStart        time.Time `gorm:"type:date;not null"                             json:"date_start"`
	DateEnd          time.Time `gorm:"type:date;not null"                             json:"date_end"`
	BaseModel
}

// TableName 指定表名
func (SchoolHoliday) TableName() string { return "school_holidays" }
