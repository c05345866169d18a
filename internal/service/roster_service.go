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

// ── 预登记名单模块业务错误 ──

var (
	ErrRosterNotFound     = errors.New("预登记记录不存在")
	ErrRosterDuplicate    = errors.New("该会员已登记此活动类型")
	ErrMemberCannotAttend = errors.New("只有家长或学生可以登记活动")
)

// RosterService 预登记名单业务接口
type RosterService interface {
	Create(ctx context.Context, req *dto.RosterRequest, callerID string) (*dto.RosterResponse, error)
	List(ctx context.Context, activityTypeID string) ([]dto.RosterResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRosterRequest, callerID string) (*dto.RosterResponse, error)
	Delete(ctx context.Context, id string) error
}

type rosterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRosterService 创建 RosterService 实例
func NewRosterService(repo *repository.Repository, logger *zap.Logger) RosterService {
	return &rosterService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *rosterService) Create(ctx context.Context, req *dto.RosterRequest, callerID string) (*dto.RosterResponse, error) {
	if _, err := s.repo.ActivityType.GetByID(ctx, req.ActivityTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityTypeNotFound
		}
		return nil, err
	}

	member, err := loadAttendee(ctx, s.repo, req.MemberID)
	if err != nil {
		return nil, err
	}
	product, err := loadProduct(ctx, s.repo, req.ProductID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Roster.ListByType(ctx, req.ActivityTypeID)
	if err != nil {
		s.logger.Error("查询预登记名单失败", zap.Error(err))
		return nil, err
	}
	for _, l := range existing {
		if l.MemberID == req.MemberID {
			return nil, ErrRosterDuplicate
		}
	}

	line := &model.RosterLine{
		ActivityTypeID: req.ActivityTypeID,
		MemberID:       req.MemberID,
		ProductID:      req.ProductID,
	}
	line.CreatedBy = &callerID
	line.UpdatedBy = &callerID

	if err := s.repo.Roster.Create(ctx, line); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrRosterDuplicate
		}
		s.logger.Error("创建预登记记录失败", zap.Error(err))
		return nil, err
	}

	line.Member = member
	line.Product = product
	return toRosterResponse(line), nil
}

// ────────────────────── List ──────────────────────

func (s *rosterService) List(ctx context.Context, activityTypeID string) ([]dto.RosterResponse, error) {
	lines, err := s.repo.Roster.ListByType(ctx, activityTypeID)
	if err != nil {
		s.logger.Error("列出预登记名单失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.RosterResponse, 0, len(lines))
	for i := range lines {
		result = append(result, *toRosterResponse(&lines[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *rosterService) Update(ctx context.Context, id string, req *dto.UpdateRosterRequest, callerID string) (*dto.RosterResponse, error) {
	line, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	product, err := loadProduct(ctx, s.repo, req.ProductID)
	if err != nil {
		return nil, err
	}

	line.ProductID = req.ProductID
	line.Product = product
	line.UpdatedBy = &callerID

	if err := s.repo.Roster.Update(ctx, line); err != nil {
		s.logger.Error("更新预登记记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toRosterResponse(line), nil
}

// ────────────────────── Delete ──────────────────────

func (s *rosterService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Roster.Delete(ctx, id); err != nil {
		s.logger.Error("删除预登记记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *rosterService) get(ctx context.Context, id string) (*model.RosterLine, error) {
	line, err := s.repo.Roster.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRosterNotFound
		}
		s.logger.Error("查询预登记记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return line, nil
}

// loadAttendee 查询会员并校验其可登记到活动
func loadAttendee(ctx context.Context, repo *repository.Repository, memberID string) (*model.Member, error) {
	member, err := repo.Member.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	if !member.CanAttend() {
		return nil, ErrMemberCannotAttend
	}
	return member, nil
}

func loadProduct(ctx context.Context, repo *repository.Repository, productID string) (*model.Product, error) {
	product, err := repo.Product.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func toRosterResponse(l *model.RosterLine) *dto.RosterResponse {
	resp := &dto.RosterResponse{
		ID:             l.RosterLineID,
		ActivityTypeID: l.ActivityTypeID,
		MemberID:       l.MemberID,
		ProductID:      l.ProductID,
	}
	if l.Member != nil {
		resp.MemberName = l.Member.Name
	}
	if l.Product != nil {
		resp.ProductName = l.Product.Name
	}
	return resp
}
