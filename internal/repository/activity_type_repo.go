package repository

import (
	"context"

	"gorm.io/gorm"

	"ampa-activity/internal/model"
)

// ActivityTypeRepository 活动类型数据访问接口
type ActivityTypeRepository interface {
	Create(ctx context.Context, at *model.ActivityType) error
	GetByID(ctx context.Context, id string) (*model.ActivityType, error)
	List(ctx context.Context) ([]model.ActivityType, error)
	Update(ctx context.Context, at *model.ActivityType) error
	Delete(ctx context.Context, id string) error
}

type activityTypeRepo struct {
	db *gorm.DB
}

// NewActivityTypeRepo 创建 ActivityTypeRepository 实例
func NewActivityTypeRepo(db *gorm.DB) ActivityTypeRepository {
	return &activityTypeRepo{db: db}
}

func (r *activityTypeRepo) Create(ctx context.Context, at *model.ActivityType) error {
	return r.db.WithContext(ctx).Create(at).Error
}

func (r *activityTypeRepo) GetByID(ctx context.Context, id string) (*model.ActivityType, error) {
	var at model.ActivityType
	if err := r.db.WithContext(ctx).Where("activity_type_id = ?", id).First(&at).Error; err != nil {
		return nil, err
	}
	return &at, nil
}

func (r *activityTypeRepo) List(ctx context.Context) ([]model.ActivityType, error) {
	var types []model.ActivityType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error
	return types, err
}

func (r *activityTypeRepo) Update(ctx context.Context, at *model.ActivityType) error {
	return r.db.WithContext(ctx).Save(at).Error
}

func (r *activityTypeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("activity_type_id = ?", id).Delete(&model.ActivityType{}).Error
}
