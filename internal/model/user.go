package model

// 操作员角色
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User 操作员表 — 对应 users
type User struct {
	UserID             string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name               string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email              string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash       string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               string `gorm:"type:varchar(20);not null;default:'staff'"      json:"role"`
	Lang               string `gorm:"type:varchar(10);not null;default:'en_US'"      json:"lang"`
	MustChangePassword bool   `gorm:"not null;default:false"                         json:"must_change_password"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
