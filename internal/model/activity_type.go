package model

// ActivityType 活动类型表 — 对应 activity_types
type ActivityType struct {
	ActivityTypeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"activity_type_id"`
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	BaseModel
}

// TableName 指定表名
func (ActivityType) TableName() string { return "activity_types" }
