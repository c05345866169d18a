package model

// Language 语言表 — 对应 languages
// DateFormat 使用 strftime 语法，如 %d/%m/%Y
type Language struct {
	LanguageID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"language_id"`
	Code       string `gorm:"type:varchar(10);not null;uniqueIndex"          json:"code"`
	Name       string `gorm:"type:varchar(100);not null"                     json:"name"`
	DateFormat string `gorm:"type:varchar(40);not null;default:'%m/%d/%Y'"   json:"date_format"`
	BaseModel
}

// TableName 指定表名
func (Language) TableName() string { return "languages" }
