package repository

import (
	"context"

	"gorm.io/gorm"

	"ampa-activity/internal/model"
)

// MemberRepository 会员数据访问接口
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	GetByID(ctx context.Context, id string) (*model.Member, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Member, error)
	List(ctx context.Context, filter ListFilter) ([]model.Member, int64, error)
	Update(ctx context.Context, member *model.Member) error
	Delete(ctx context.Context, id string) error
}

type memberRepo struct {
	db *gorm.DB
}

// NewMemberRepo 创建 MemberRepository 实例
func NewMemberRepo(db *gorm.DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) Create(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepo) GetByID(ctx context.Context, id string) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).Where("member_id = ?", id).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) GetByIDs(ctx context.Context, ids []string) ([]model.Member, error) {
	var members []model.Member
	if len(ids) == 0 {
		return members, nil
	}
	err := r.db.WithContext(ctx).Where("member_id IN ?", ids).Find(&members).Error
	return members, err
}

func (r *memberRepo) List(ctx context.Context, filter ListFilter) ([]model.Member, int64, error) {
	var members []model.Member
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Member{})
	if filter.Keyword != "" {
		db = db.Where("name ILIKE ?", "%"+filter.Keyword+"%")
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyPage(db, filter.Offset, filter.Limit).
		Order("name ASC").
		Find(&members).Error
	return members, total, err
}

func (r *memberRepo) Update(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *memberRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("member_id = ?", id).Delete(&model.Member{}).Error
}
