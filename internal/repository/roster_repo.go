package repository

import (
	"context"

	"gorm.io/gorm"

	"ampa-activity/internal/model"
)

// RosterRepository 预登记名单数据访问接口
type RosterRepository interface {
	Create(ctx context.Context, line *model.RosterLine) error
	GetByID(ctx context.Context, id string) (*model.RosterLine, error)
	ListByType(ctx context.Context, activityTypeID string) ([]model.RosterLine, error)
	Update(ctx context.Context, line *model.RosterLine) error
	Delete(ctx context.Context, id string) error
}

type rosterRepo struct {
	db *gorm.DB
}

// NewRosterRepo 创建 RosterRepository 实例
func NewRosterRepo(db *gorm.DB) RosterRepository {
	return &rosterRepo{db: db}
}

func (r *rosterRepo) Create(ctx context.Context, line *model.RosterLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *rosterRepo) GetByID(ctx context.Context, id string) (*model.RosterLine, error) {
	var line model.RosterLine
	err := r.db.WithContext(ctx).
		Preload("Member").Preload("Product").
		Where("roster_line_id = ?", id).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// ListByType activityTypeID 为空时返回全部名单
func (r *rosterRepo) ListByType(ctx context.Context, activityTypeID string) ([]model.RosterLine, error) {
	var lines []model.RosterLine
	db := r.db.WithContext(ctx).
		Preload("Member").Preload("Product").
		Joins("JOIN members ON members.member_id = activity_roster_lines.member_id")
	if activityTypeID != "" {
		db = db.Where("activity_roster_lines.activity_type_id = ?", activityTypeID)
	}
	err := db.Order("members.name ASC").Find(&lines).Error
	return lines, err
}

func (r *rosterRepo) Update(ctx context.Context, line *model.RosterLine) error {
	return r.db.WithContext(ctx).
		Model(&model.RosterLine{}).
		Where("roster_line_id = ?", line.RosterLineID).
		Updates(map[string]interface{}{
			"product_id": line.ProductID,
			"updated_by": line.UpdatedBy,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *rosterRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("roster_line_id = ?", id).Delete(&model.RosterLine{}).Error
}
