package repository

import (
	"context"

	"gorm.io/gorm"

	"ampa-activity/internal/model"
)

// LanguageRepository 语言数据访问接口
type LanguageRepository interface {
	Create(ctx context.Context, lang *model.Language) error
	GetByID(ctx context.Context, id string) (*model.Language, error)
	GetByCode(ctx context.Context, code string) (*model.Language, error)
	List(ctx context.Context) ([]model.Language, error)
	Update(ctx context.Context, lang *model.Language) error
	Delete(ctx context.Context, id string) error
}

type languageRepo struct {
	db *gorm.DB
}

// NewLanguageRepo 创建 LanguageRepository 实例
func NewLanguageRepo(db *gorm.DB) LanguageRepository {
	return &languageRepo{db: db}
}

func (r *languageRepo) Create(ctx context.Context, lang *model.Language) error {
	return r.db.WithContext(ctx).Create(lang).Error
}

func (r *languageRepo) GetByID(ctx context.Context, id string) (*model.Language, error) {
	var lang model.Language
	if err := r.db.WithContext(ctx).Where("language_id = ?", id).First(&lang).Error; err != nil {
		return nil, err
	}
	return &lang, nil
}

func (r *languageRepo) GetByCode(ctx context.Context, code string) (*model.Language, error) {
	var lang model.Language
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&lang).Error; err != nil {
		return nil, err
	}
	return &lang, nil
}

func (r *languageRepo) List(ctx context.Context) ([]model.Language, error) {
	var langs []model.Language
	err := r.db.WithContext(ctx).Order("code ASC").Find(&langs).Error
	return langs, err
}

func (r *languageRepo) Update(ctx context.Context, lang *model.Language) error {
	return r.db.WithContext(ctx).Save(lang).Error
}

func (r *languageRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("language_id = ?", id).Delete(&model.Language{}).Error
}
