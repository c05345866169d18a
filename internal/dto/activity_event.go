package dto

// ── 活动模块 DTO ──

// CreateEventRequest 创建活动
type CreateEventRequest struct {
	ActivityTypeID string  `json:"activity_type_id" binding:"required,uuid"`
	DateStart      string  `json:"date_start"       binding:"omitempty,date"` // 缺省为当天
	DateStop       string  `json:"date_stop"        binding:"omitempty,date"`
	AllDay         *bool   `json:"all_day"`
	UserID         *string `json:"user_id"          binding:"omitempty,uuid"`
}

// UpdateEventRequest 更新活动（state 只能通过 close/reopen/bill 变更）
type UpdateEventRequest struct {
	ActivityTypeID *string `json:"activity_type_id" binding:"omitempty,uuid"`
	DateStart      *string `json:"date_start"       binding:"omitempty,date"`
	DateStop       *string `json:"date_stop"        binding:"omitempty,date"`
	AllDay         *bool   `json:"all_day"`
	UserID         *string `json:"user_id"          binding:"omitempty,uuid"`
	Version        int     `json:"version"          binding:"required,min=1"`
}

// EventListRequest 活动列表查询
type EventListRequest struct {
	PaginationRequest
	SchoolCalendarID string `form:"school_calendar_id" binding:"omitempty,uuid"`
	ActivityTypeID   string `form:"activity_type_id"   binding:"omitempty,uuid"`
	State            string `form:"state"              binding:"omitempty,oneof=open closed billed"`
}

// AddEventPartnerRequest 添加活动会员
type AddEventPartnerRequest struct {
	MemberID  string `json:"member_id"  binding:"required,uuid"`
	ProductID string `json:"product_id" binding:"required,uuid"`
	Comment   string `json:"comment"    binding:"omitempty,max=255"`
}

// UpdateEventPartnerRequest 更新活动会员明细
type UpdateEventPartnerRequest struct {
	ProductID *string `json:"product_id" binding:"omitempty,uuid"`
	Comment   *string `json:"comment"    binding:"omitempty,max=255"`
}

// EventPartnerResponse 活动会员明细响应
type EventPartnerResponse struct {
	ID            string `json:"id"`
	MemberID      string `json:"member_id"`
	MemberName    string `json:"member_name,omitempty"`
	CurrentCourse string `json:"current_course,omitempty"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name,omitempty"`
	Comment       string `json:"comment,omitempty"`
	DateStart     string `json:"date_start"`
}

// EventResponse 活动响应
type EventResponse struct {
	ID                 string                 `json:"id"`
	Name               string                 `json:"name"`
	ActivityTypeID     string                 `json:"activity_type_id"`
	ActivityTypeName   string                 `json:"activity_type_name,omitempty"`
	DateStart          string                 `json:"date_start"`
	DateStop           string                 `json:"date_stop"`
	AllDay             bool                   `json:"all_day"`
	UserID             *string                `json:"user_id,omitempty"`
	State              string                 `json:"state"`
	TotalPartners      int                    `json:"total_partners"`
	SchoolCalendarID   *string                `json:"school_calendar_id,omitempty"`
	SchoolCalendarName string                 `json:"school_calendar_name,omitempty"`
	Version            int                    `json:"version"`
	Partners           []EventPartnerResponse `json:"partners,omitempty"`
	Warning            *Warning               `json:"warning,omitempty"`
}

// SyncRegisteredResponse 同步预登记名单结果
type SyncRegisteredResponse struct {
	Added int            `json:"added"`
	Event *EventResponse `json:"event"`
}
