package model

import "time"

// 活动状态：open → closed → billed
const (
	EventStateOpen   = "open"
	EventStateClosed = "closed"
	EventStateBilled = "billed"
)

// ActivityEvent 活动表 — 对应 activity_events
// Name / SchoolCalendarID / TotalPartners 为派生字段，由 Service 层显式重算
type ActivityEvent struct {
	ActivityEventID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"activity_event_id"`
	Name             string    `gorm:"type:varchar(100);not null;default:''"          json:"name"`
	ActivityTypeID   string    `gorm:"type:uuid;not null"                             json:"activity_type_id"`
	DateStart        time.Time `gorm:"type:date;not null;index"                       json:"date_start"`
	DateStop         time.Time `gorm:"type:date;not null"                             json:"date_stop"`
	AllDay           bool      `gorm:"not null"                                       json:"all_day"`
	UserID           *string   `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	State            string    `gorm:"type:varchar(20);not null;default:'open'"       json:"state"` // open | closed | billed
	TotalPartners    int       `gorm:"not null;default:0"                             json:"total_partners"`
	SchoolCalendarID *string   `gorm:"type:uuid"                                      json:"school_calendar_id,omitempty"`
	VersionedModel

	// 关联
	ActivityType   *ActivityType          `gorm:"foreignKey:ActivityTypeID;references:ActivityTypeID"     json:"activity_type,omitempty"`
	SchoolCalendar *SchoolCalendar        `gorm:"foreignKey:SchoolCalendarID;references:SchoolCalendarID" json:"school_calendar,omitempty"`
	Partners       []ActivityEventPartner `gorm:"foreignKey:ActivityEventID;constraint:OnDelete:CASCADE"  json:"partners,omitempty"`
}

// TableName 指定表名
func (ActivityEvent) TableName() string { return "activity_events" }

// ActivityEventPartner 活动会员明细 — 对应 activity_event_partners
// DateStart / SchoolCalendarID 冗余自所属活动，供报表统计
type ActivityEventPartner struct {
	EventPartnerID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_partner_id"`
	ActivityEventID  string    `gorm:"type:uuid;not null;index"                       json:"activity_event_id"`
	MemberID         string    `gorm:"type:uuid;not null"                             json:"member_id"`
	ProductID        string    `gorm:"type:uuid;not null"                             json:"product_id"`
	Comment          string    `gorm:"type:varchar(255)"                              json:"comment,omitempty"`
	DateStart        time.Time `gorm:"type:date;not null"                             json:"date_start"`        // 冗余快照
	SchoolCalendarID *string   `gorm:"type:uuid"                                      json:"school_calendar_id"` // 冗余快照
	BaseModel

	// 关联
	Member  *Member  `gorm:"foreignKey:MemberID;references:MemberID;constraint:OnDelete:CASCADE"   json:"member,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID;references:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

// TableName 指定表名
func (ActivityEventPartner) TableName() string { return "activity_event_partners" }
