package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ampa-activity/internal/model"
	pkgerrors "ampa-activity/pkg/errors"
)

// EventFilter 活动列表过滤参数
type EventFilter struct {
	SchoolCalendarID string
	ActivityTypeID   string
	State            string
	Offset           int
	Limit            int
}

// MonthRow 按 (年, 月) 分组的活动月份
type MonthRow struct {
	Year  int `gorm:"column:year"`
	Month int `gorm:"column:month"`
}

// AttendanceRow 按 (会员, 产品) 分组的出勤计数
type AttendanceRow struct {
	Partner string `gorm:"column:partner"`
	Product string `gorm:"column:product"`
	Total   int    `gorm:"column:total"`
}

// ActivityEventRepository 活动数据访问接口
type ActivityEventRepository interface {
	Create(ctx context.Context, event *model.ActivityEvent) error
	GetByID(ctx context.Context, id string) (*model.ActivityEvent, error)
	List(ctx context.Context, filter EventFilter) ([]model.ActivityEvent, int64, error)
	Update(ctx context.Context, event *model.ActivityEvent) error
	Delete(ctx context.Context, id string) error
	// RecountPartners 以明细行实际数量重写 total_partners
	RecountPartners(ctx context.Context, eventID string) (int, error)
	// ListMonths 区间内活动出现过的 (年, 月)，按年月升序
	ListMonths(ctx context.Context, from, to time.Time) ([]MonthRow, error)
}

// EventPartnerRepository 活动会员明细数据访问接口
type EventPartnerRepository interface {
	BatchCreate(ctx context.Context, lines []model.ActivityEventPartner) error
	GetByID(ctx context.Context, id string) (*model.ActivityEventPartner, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.ActivityEventPartner, error)
	Update(ctx context.Context, line *model.ActivityEventPartner) error
	Delete(ctx context.Context, id string) error
	// SyncEventSnapshot 将活动的 date_start / school_calendar_id 同步到全部明细行
	SyncEventSnapshot(ctx context.Context, eventID string, dateStart time.Time, calendarID *string) error
	// AggregateAttendance 区间内按 (会员名, 产品名) 统计出勤次数
	AggregateAttendance(ctx context.Context, from, to time.Time) ([]AttendanceRow, error)
	// EventIDsByMember / EventIDsByProduct 引用该会员（产品）的活动 ID（去重）
	EventIDsByMember(ctx context.Context, memberID string) ([]string, error)
	EventIDsByProduct(ctx context.Context, productID string) ([]string, error)
}

// ── ActivityEvent Repository 实现 ──

type activityEventRepo struct {
	db *gorm.DB
}

// NewActivityEventRepo 创建 ActivityEventRepository 实例
func NewActivityEventRepo(db *gorm.DB) ActivityEventRepository {
	return &activityEventRepo{db: db}
}

func (r *activityEventRepo) Create(ctx context.Context, event *model.ActivityEvent) error {
	return r.db.WithContext(ctx).Omit("Partners", "ActivityType", "SchoolCalendar").Create(event).Error
}

func (r *activityEventRepo) GetByID(ctx context.Context, id string) (*model.ActivityEvent, error) {
	var event model.ActivityEvent
	err := r.db.WithContext(ctx).
		Preload("ActivityType").
		Preload("SchoolCalendar").
		Preload("Partners", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Partners.Member").
		Preload("Partners.Product").
		Where("activity_event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *activityEventRepo) List(ctx context.Context, filter EventFilter) ([]model.ActivityEvent, int64, error) {
	var events []model.ActivityEvent
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ActivityEvent{})
	if filter.SchoolCalendarID != "" {
		db = db.Where("school_calendar_id = ?", filter.SchoolCalendarID)
	}
	if filter.ActivityTypeID != "" {
		db = db.Where("activity_type_id = ?", filter.ActivityTypeID)
	}
	if filter.State != "" {
		db = db.Where("state = ?", filter.State)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyPage(db, filter.Offset, filter.Limit).
		Preload("ActivityType").
		Order("date_start DESC").
		Find(&events).Error
	return events, total, err
}

// Update 基于 version 的乐观锁更新
func (r *activityEventRepo) Update(ctx context.Context, event *model.ActivityEvent) error {
	oldVersion := event.Version
	result := r.db.WithContext(ctx).
		Model(&model.ActivityEvent{}).
		Where("activity_event_id = ? AND version = ?", event.ActivityEventID, oldVersion).
		Updates(map[string]interface{}{
			"name":               event.Name,
			"activity_type_id":   event.ActivityTypeID,
			"date_start":         event.DateStart,
			"date_stop":          event.DateStop,
			"all_day":            event.AllDay,
			"user_id":            event.UserID,
			"state":              event.State,
			"school_calendar_id": event.SchoolCalendarID,
			"updated_by":         event.UpdatedBy,
			"updated_at":         gorm.Expr("NOW()"),
			"version":            oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	event.Version = oldVersion + 1
	return nil
}

// Delete 明细行由外键 ON DELETE CASCADE 删除
func (r *activityEventRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("activity_event_id = ?", id).
		Delete(&model.ActivityEvent{}).Error
}

func (r *activityEventRepo) RecountPartners(ctx context.Context, eventID string) (int, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.ActivityEventPartner{}).
		Where("activity_event_id = ?", eventID).
		Count(&total).Error; err != nil {
		return 0, err
	}
	err := r.db.WithContext(ctx).
		Model(&model.ActivityEvent{}).
		Where("activity_event_id = ?", eventID).
		Update("total_partners", total).Error
	return int(total), err
}

const listMonthsSQL = `
SELECT CAST(EXTRACT(YEAR FROM date_start) AS INTEGER)  AS year,
       CAST(EXTRACT(MONTH FROM date_start) AS INTEGER) AS month
FROM activity_events
WHERE date_start BETWEEN ? AND ?
GROUP BY 1, 2
ORDER BY 1, 2`

func (r *activityEventRepo) ListMonths(ctx context.Context, from, to time.Time) ([]MonthRow, error) {
	var rows []MonthRow
	err := r.db.WithContext(ctx).
		Raw(listMonthsSQL, from.Format(time.DateOnly), to.Format(time.DateOnly)).
		Scan(&rows).Error
	return rows, err
}

// ── EventPartner Repository 实现 ──

type eventPartnerRepo struct {
	db *gorm.DB
}

// NewEventPartnerRepo 创建 EventPartnerRepository 实例
func NewEventPartnerRepo(db *gorm.DB) EventPartnerRepository {
	return &eventPartnerRepo{db: db}
}

func (r *eventPartnerRepo) BatchCreate(ctx context.Context, lines []model.ActivityEventPartner) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Member", "Product").CreateInBatches(lines, 100).Error
}

func (r *eventPartnerRepo) GetByID(ctx context.Context, id string) (*model.ActivityEventPartner, error) {
	var line model.ActivityEventPartner
	err := r.db.WithContext(ctx).
		Preload("Member").Preload("Product").
		Where("event_partner_id = ?", id).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *eventPartnerRepo) ListByEvent(ctx context.Context, eventID string) ([]model.ActivityEventPartner, error) {
	var lines []model.ActivityEventPartner
	err := r.db.WithContext(ctx).
		Preload("Member").Preload("Product").
		Where("activity_event_id = ?", eventID).
		Order("created_at ASC").
		Find(&lines).Error
	return lines, err
}

func (r *eventPartnerRepo) Update(ctx context.Context, line *model.ActivityEventPartner) error {
	return r.db.WithContext(ctx).
		Model(&model.ActivityEventPartner{}).
		Where("event_partner_id = ?", line.EventPartnerID).
		Updates(map[string]interface{}{
			"product_id": line.ProductID,
			"comment":    line.Comment,
			"updated_by": line.UpdatedBy,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *eventPartnerRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("event_partner_id = ?", id).
		Delete(&model.ActivityEventPartner{}).Error
}

func (r *eventPartnerRepo) EventIDsByMember(ctx context.Context, memberID string) ([]string, error) {
	return r.distinctEventIDs(ctx, "member_id = ?", memberID)
}

func (r *eventPartnerRepo) EventIDsByProduct(ctx context.Context, productID string) ([]string, error) {
	return r.distinctEventIDs(ctx, "product_id = ?", productID)
}

func (r *eventPartnerRepo) distinctEventIDs(ctx context.Context, cond string, arg string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.ActivityEventPartner{}).
		Where(cond, arg).
		Distinct().
		Pluck("activity_event_id", &ids).Error
	return ids, err
}

func (r *eventPartnerRepo) SyncEventSnapshot(ctx context.Context, eventID string, dateStart time.Time, calendarID *string) error {
	return r.db.WithContext(ctx).
		Model(&model.ActivityEventPartner{}).
		Where("activity_event_id = ?", eventID).
		Updates(map[string]interface{}{
			"date_start":         dateStart,
			"school_calendar_id": calendarID,
		}).Error
}

const aggregateAttendanceSQL = `
SELECT m.name AS partner, p.name AS product, COUNT(*) AS total
FROM activity_event_partners e
JOIN activity_events l ON l.activity_event_id = e.activity_event_id
JOIN members m ON m.member_id = e.member_id
JOIN products p ON p.product_id = e.product_id
WHERE l.date_start BETWEEN ? AND ?
GROUP BY m.name, p.name
ORDER BY m.name, p.name`

func (r *eventPartnerRepo) AggregateAttendance(ctx context.Context, from, to time.Time) ([]AttendanceRow, error) {
	var rows []AttendanceRow
	err := r.db.WithContext(ctx).
		Raw(aggregateAttendanceSQL, from.Format(time.DateOnly), to.Format(time.DateOnly)).
		Scan(&rows).Error
	return rows, err
}
