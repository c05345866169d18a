package dto

// ── 基础资料 DTO：活动类型 / 会员 / 产品 / 语言 ──

// ActivityTypeRequest 创建/更新活动类型
type ActivityTypeRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// ActivityTypeResponse 活动类型响应
type ActivityTypeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MemberRequest 创建/更新会员
type MemberRequest struct {
	Name          string `json:"name"           binding:"required,min=1,max=150"`
	PartnerType   string `json:"partner_type"   binding:"required,oneof=tutor student other"`
	CurrentCourse string `json:"current_course" binding:"omitempty,max=50"`
}

// MemberListRequest 会员列表查询
type MemberListRequest struct {
	PaginationRequest
	Keyword string `form:"keyword"`
}

// MemberResponse 会员响应
type MemberResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PartnerType   string `json:"partner_type"`
	CurrentCourse string `json:"current_course,omitempty"`
}

// ProductRequest 创建/更新产品
type ProductRequest struct {
	Name      string  `json:"name"       binding:"required,min=1,max=150"`
	ListPrice float64 `json:"list_price" binding:"gte=0"`
}

// ProductListRequest 产品列表查询
type ProductListRequest struct {
	PaginationRequest
	Keyword string `form:"keyword"`
}

// ProductResponse 产品响应
type ProductResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ListPrice float64 `json:"list_price"`
}

// LanguageRequest 创建/更新语言
type LanguageRequest struct {
	Code       string `json:"code"        binding:"required,min=2,max=10"`
	Name       string `json:"name"        binding:"required,max=100"`
	DateFormat string `json:"date_format" binding:"required,max=40"`
}

// LanguageResponse 语言响应
type LanguageResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	DateFormat string `json:"date_format"`
}

// RosterRequest 创建预登记名单行
type RosterRequest struct {
	ActivityTypeID string `json:"activity_type_id" binding:"required,uuid"`
	MemberID       string `json:"member_id"        binding:"required,uuid"`
	ProductID      string `json:"product_id"       binding:"required,uuid"`
}

// UpdateRosterRequest 更新预登记名单行（仅产品可改）
type UpdateRosterRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
}

// RosterResponse 预登记名单行响应
type RosterResponse struct {
	ID             string `json:"id"`
	ActivityTypeID string `json:"activity_type_id"`
	MemberID       string `json:"member_id"`
	MemberName     string `json:"member_name,omitempty"`
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name,omitempty"`
}
