package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ampa-activity/internal/dto"
	"ampa-activity/internal/model"
	"ampa-activity/internal/repository"
)

// ── 会员模块业务错误 ──

var (
	ErrMemberNotFound = errors.New("会员不存在")
)

// MemberService 会员业务接口
type MemberService interface {
	Create(ctx context.Context, req *dto.MemberRequest, callerID string) (*dto.MemberResponse, error)
	GetByID(ctx context.Context, id string) (*dto.MemberResponse, error)
	List(ctx context.Context, req *dto.MemberListRequest) ([]dto.MemberResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.MemberRequest, callerID string) (*dto.MemberResponse, error)
	Delete(ctx context.Context, id string) error
}

type memberService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMemberService 创建 MemberService 实例
func NewMemberService(repo *repository.Repository, logger *zap.Logger) MemberService {
	return &memberService{repo: repo, logger: logger}
}

func (s *memberService) Create(ctx context.Context, req *dto.MemberRequest, callerID string) (*dto.MemberResponse, error) {
	member := &model.Member{
		Name:          req.Name,
		PartnerType:   req.PartnerType,
		CurrentCourse: req.CurrentCourse,
	}
	member.CreatedBy = &callerID
	member.UpdatedBy = &callerID

	if err := s.repo.Member.Create(ctx, member); err != nil {
		s.logger.Error("创建会员失败", zap.Error(err))
		return nil, err
	}
	return toMemberResponse(member), nil
}

func (s *memberService) GetByID(ctx context.Context, id string) (*dto.MemberResponse, error) {
	member, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMemberResponse(member), nil
}

func (s *memberService) List(ctx context.Context, req *dto.MemberListRequest) ([]dto.MemberResponse, int64, error) {
	members, total, err := s.repo.Member.List(ctx, repository.ListFilter{
		Keyword: req.Keyword,
		Offset:  req.GetOffset(),
		Limit:   req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("列出会员失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		result = append(result, *toMemberResponse(&members[i]))
	}
	return result, total, nil
}

func (s *memberService) Update(ctx context.Context, id string, req *dto.MemberRequest, callerID string) (*dto.MemberResponse, error) {
	member, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	member.Name = req.Name
	member.PartnerType = req.PartnerType
	member.CurrentCourse = req.CurrentCourse
	member.UpdatedBy = &callerID

	if err := s.repo.Member.Update(ctx, member); err != nil {
		s.logger.Error("更新会员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toMemberResponse(member), nil
}

// Delete 预登记名单与活动明细由外键级联删除，受影响活动的 total_partners 在同一事务内重算
func (s *memberService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		eventIDs, err := txRepo.EventPartner.EventIDsByMember(ctx, id)
		if err != nil {
			return err
		}
		if err := txRepo.Member.Delete(ctx, id); err != nil {
			return err
		}
		return recountEvents(ctx, txRepo, eventIDs)
	})
	if err != nil {
		s.logger.Error("删除会员失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *memberService) get(ctx context.Context, id string) (*model.Member, error) {
	member, err := s.repo.Member.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("查询会员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return member, nil
}

func toMemberResponse(m *model.Member) *dto.MemberResponse {
	return &dto.MemberResponse{
		ID:            m.MemberID,
		Name:          m.Name,
		PartnerType:   m.PartnerType,
		CurrentCourse: m.CurrentCourse,
	}
}
