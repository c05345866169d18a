package model

// 会员类型：只有 tutor / student 可登记到活动
const (
	PartnerTypeTutor   = "tutor"
	PartnerTypeStudent = "student"
	PartnerTypeOther   = "other"
)

// Member 会员表 — 对应 members
type Member struct {
	MemberID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_id"`
	Name          string `gorm:"type:varchar(150);not null"                     json:"name"`
	PartnerType   string `gorm:"type:varchar(20);not null;default:'student'"    json:"partner_type"` // tutor | student | other
	CurrentCourse string `gorm:"type:varchar(50)"                               json:"current_course,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Member) TableName() string { return "members" }

// CanAttend 是否允许登记到活动
func (m *Member) CanAttend() bool {
	return m.PartnerType == PartnerTypeTutor || m.PartnerType == PartnerTypeStudent
}
