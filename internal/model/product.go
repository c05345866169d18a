package model

// Product 计费产品表 — 对应 products
type Product struct {
	ProductID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"product_id"`
	Name      string  `gorm:"type:varchar(150);not null"                     json:"name"`
	ListPrice float64 `gorm:"type:numeric(10,2);not null;default:0"          json:"list_price"`
	BaseModel
}

// TableName 指定表名
func (Product) TableName() string { return "products" }
