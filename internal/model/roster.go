package model

// RosterLine 活动预登记名单 — 对应 activity_roster_lines
// 同一活动类型下每个会员仅一条
type RosterLine struct {
	RosterLineID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"          json:"roster_line_id"`
	ActivityTypeID string `gorm:"type:uuid;not null;uniqueIndex:uq_roster_type_member"    json:"activity_type_id"`
	MemberID       string `gorm:"type:uuid;not null;uniqueIndex:uq_roster_type_member"    json:"member_id"`
	ProductID      string `gorm:"type:uuid;not null"                                      json:"product_id"`
	BaseModel

	// 关联
	ActivityType *ActivityType `gorm:"foreignKey:ActivityTypeID;references:ActivityTypeID;constraint:OnDelete:CASCADE" json:"activity_type,omitempty"`
	Member       *Member       `gorm:"foreignKey:MemberID;references:MemberID;constraint:OnDelete:CASCADE"             json:"member,omitempty"`
	Product      *Product      `gorm:"foreignKey:ProductID;references:ProductID;constraint:OnDelete:CASCADE"           json:"product,omitempty"`
}

// TableName 指定表名
func (RosterLine) TableName() string { return "activity_roster_lines" }
