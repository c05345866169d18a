package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User           UserRepository
	Language       LanguageRepository
	Member         MemberRepository
	Product        ProductRepository
	ActivityType   ActivityTypeRepository
	Roster         RosterRepository
	SchoolCalendar SchoolCalendarRepository
	SchoolHoliday  SchoolHolidayRepository
	ActivityEvent  ActivityEventRepository
	EventPartner   EventPartnerRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:             db,
		User:           NewUserRepo(db),
		Language:       NewLanguageRepo(db),
		Member:         NewMemberRepo(db),
		Product:        NewProductRepo(db),
		ActivityType:   NewActivityTypeRepo(db),
		Roster:         NewRosterRepo(db),
		SchoolCalendar: NewSchoolCalendarRepo(db),
		SchoolHoliday:  NewSchoolHolidayRepo(db),
		ActivityEvent:  NewActivityEventRepo(db),
		EventPartner:   NewEventPartnerRepo(db),
	}
}

// WithTx 返回绑定到事务连接的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个事务内执行 fn，fn 返回错误时整体回滚。
// 未绑定数据库连接（单元测试中手工组装的聚合）时直接在当前聚合上执行。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// ListFilter 通用列表过滤参数
type ListFilter struct {
	Keyword string
	Offset  int
	Limit   int
}

func applyPage(db *gorm.DB, offset, limit int) *gorm.DB {
	if offset > 0 {
		db = db.Offset(offset)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	return db
}
