package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ampa-activity/internal/dto"
	"ampa-activity/internal/model"
	"ampa-activity/internal/repository"
	pkgerrors "ampa-activity/pkg/errors"
)

// ── 活动类型模块业务错误 ──

var (
	ErrActivityTypeNotFound = errors.New("活动类型不存在")
	ErrActivityTypeInUse    = errors.New("活动类型已被活动引用，无法删除")
)

// ActivityTypeService 活动类型业务接口
type ActivityTypeService interface {
	Create(ctx context.Context, req *dto.ActivityTypeRequest, callerID string) (*dto.ActivityTypeResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ActivityTypeResponse, error)
	List(ctx context.Context) ([]dto.ActivityTypeResponse, error)
	Update(ctx context.Context, id string, req *dto.ActivityTypeRequest, callerID string) (*dto.ActivityTypeResponse, error)
	Delete(ctx context.Context, id string) error
}

type activityTypeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewActivityTypeService 创建 ActivityTypeService 实例
func NewActivityTypeService(repo *repository.Repository, logger *zap.Logger) ActivityTypeService {
	return &activityTypeService{repo: repo, logger: logger}
}

func (s *activityTypeService) Create(ctx context.Context, req *dto.ActivityTypeRequest, callerID string) (*dto.ActivityTypeResponse, error) {
	at := &model.ActivityType{Name: req.Name}
	at.CreatedBy = &callerID
	at.UpdatedBy = &callerID

	if err := s.repo.ActivityType.Create(ctx, at); err != nil {
		s.logger.Error("创建活动类型失败", zap.Error(err))
		return nil, err
	}
	return toActivityTypeResponse(at), nil
}

func (s *activityTypeService) GetByID(ctx context.Context, id string) (*dto.ActivityTypeResponse, error) {
	at, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toActivityTypeResponse(at), nil
}

func (s *activityTypeService) List(ctx context.Context) ([]dto.ActivityTypeResponse, error) {
	types, err := s.repo.ActivityType.List(ctx)
	if err != nil {
		s.logger.Error("列出活动类型失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ActivityTypeResponse, 0, len(types))
	for i := range types {
		result = append(result, *toActivityTypeResponse(&types[i]))
	}
	return result, nil
}

func (s *activityTypeService) Update(ctx context.Context, id string, req *dto.ActivityTypeRequest, callerID string) (*dto.ActivityTypeResponse, error) {
	at, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	at.Name = req.Name
	at.UpdatedBy = &callerID

	if err := s.repo.ActivityType.Update(ctx, at); err != nil {
		s.logger.Error("更新活动类型失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toActivityTypeResponse(at), nil
}

func (s *activityTypeService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.ActivityType.Delete(ctx, id); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return ErrActivityTypeInUse
		}
		s.logger.Error("删除活动类型失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *activityTypeService) get(ctx context.Context, id string) (*model.ActivityType, error) {
	at, err := s.repo.ActivityType.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityTypeNotFound
		}
		s.logger.Error("查询活动类型失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return at, nil
}

func toActivityTypeResponse(at *model.ActivityType) *dto.ActivityTypeResponse {
	return &dto.ActivityTypeResponse{ID: at.ActivityTypeID, Name: at.Name}
}
