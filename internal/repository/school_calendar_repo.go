package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ampa-activity/internal/model"
)

// SchoolCalendarRepository 校历数据访问接口
type SchoolCalendarRepository interface {
	Create(ctx context.Context, cal *model.SchoolCalendar) error
	GetByID(ctx context.Context, id string) (*model.SchoolCalendar, error)
	// FindContaining 查找包含指定日期的校历（区间重叠时取开始最早者）
	FindContaining(ctx context.Context, date time.Time) (*model.SchoolCalendar, error)
	// GetDefault 报表向导默认校历：开始日期最晚者
	GetDefault(ctx context.Context) (*model.SchoolCalendar, error)
	List(ctx context.Context) ([]model.SchoolCalendar, error)
	Update(ctx context.Context, cal *model.SchoolCalendar) error
	Delete(ctx context.Context, id string) error
}

// SchoolHolidayRepository 非教学日数据访问接口
type SchoolHolidayRepository interface {
	Create(ctx context.Context, h *model.SchoolHoliday) error
	BatchCreate(ctx context.Context, hs []model.SchoolHoliday) error
	GetByID(ctx context.Context, id string) (*model.SchoolHoliday, error)
	ListByCalendar(ctx context.Context, calendarID string) ([]model.SchoolHoliday, error)
	Update(ctx context.Context, h *model.SchoolHoliday) error
	Delete(ctx context.Context, id string) error
}

// ── SchoolCalendar Repository 实现 ──

type schoolCalendarRepo struct {
	db *gorm.DB
}

// NewSchoolCalendarRepo 创建 SchoolCalendarRepository 实例
func NewSchoolCalendarRepo(db *gorm.DB) SchoolCalendarRepository {
	return &schoolCalendarRepo{db: db}
}

func (r *schoolCalendarRepo) Create(ctx context.Context, cal *model.SchoolCalendar) error {
	return r.db.WithContext(ctx).Omit("Holidays").Create(cal).Error
}

func (r *schoolCalendarRepo) GetByID(ctx context.Context, id string) (*model.SchoolCalendar, error) {
	var cal model.SchoolCalendar
	err := r.db.WithContext(ctx).
		Preload("Holidays", func(db *gorm.DB) *gorm.DB { return db.Order("date_start ASC") }).
		Where("school_calendar_id = ?", id).
		First(&cal).Error
	if err != nil {
		return nil, err
	}
	return &cal, nil
}

func (r *schoolCalendarRepo) FindContaining(ctx context.Context, date time.Time) (*model.SchoolCalendar, error) {
	var cal model.SchoolCalendar
	d := date.Format(time.DateOnly)
	err := r.db.WithContext(ctx).
		Where("date_start <= ? AND date_end >= ?", d, d).
		Order("date_start ASC").
		First(&cal).Error
	if err != nil {
		return nil, err
	}
	return &cal, nil
}

func (r *schoolCalendarRepo) GetDefault(ctx context.Context) (*model.SchoolCalendar, error) {
	var cal model.SchoolCalendar
	err := r.db.WithContext(ctx).
		Order("date_start DESC").
		First(&cal).Error
	if err != nil {
		return nil, err
	}
	return &cal, nil
}

func (r *schoolCalendarRepo) List(ctx context.Context) ([]model.SchoolCalendar, error) {
	var cals []model.SchoolCalendar
	err := r.db.WithContext(ctx).
		Order("date_start DESC").
		Find(&cals).Error
	return cals, err
}

func (r *schoolCalendarRepo) Update(ctx context.Context, cal *model.SchoolCalendar) error {
	return r.db.WithContext(ctx).Omit("Holidays").Save(cal).Error
}

// Delete 非教学日由外键级联删除，活动上的 school_calendar_id 置空
func (r *schoolCalendarRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("school_calendar_id = ?", id).
		Delete(&model.SchoolCalendar{}).Error
}

// ── SchoolHoliday Repository 实现 ──

type schoolHolidayRepo struct {
	db *gorm.DB
}

// NewSchoolHolidayRepo 创建 SchoolHolidayRepository 实例
func NewSchoolHolidayRepo(db *gorm.DB) SchoolHolidayRepository {
	return &schoolHolidayRepo{db: db}
}

func (r *schoolHolidayRepo) Create(ctx context.Context, h *model.SchoolHoliday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *schoolHolidayRepo) BatchCreate(ctx context.Context, hs []model.SchoolHoliday) error {
	if len(hs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(hs, 100).Error
}

func (r *schoolHolidayRepo) GetByID(ctx context.Context, id string) (*model.SchoolHoliday, error) {
	var h model.SchoolHoliday
	if err := r.db.WithContext(ctx).Where("school_holiday_id = ?", id).First(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *schoolHolidayRepo) ListByCalendar(ctx context.Context, calendarID string) ([]model.SchoolHoliday, error) {
	var hs []model.SchoolHoliday
	err := r.db.WithContext(ctx).
		Where("school_calendar_id = ?", calendarID).
		Order("date_start ASC").
		Find(&hs).Error
	return hs, err
}

func (r *schoolHolidayRepo) Update(ctx context.Context, h *model.SchoolHoliday) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *schoolHolidayRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("school_holiday_id = ?", id).Delete(&model.SchoolHoliday{}).Error
}
