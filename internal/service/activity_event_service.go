package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ampa-activity/config"
	"ampa-activity/internal/dto"
	"ampa-activity/internal/model"
	"ampa-activity/internal/repository"
	"ampa-activity/pkg/datefmt"
	pkgerrors "ampa-activity/pkg/errors"
	"ampa-activity/pkg/metrics"
)

// ── 活动模块业务错误 ──

var (
	ErrEventNotFound        = errors.New("活动不存在")
	ErrEventDateInvalid     = errors.New("活动结束日期不能早于开始日期")
	ErrEventStateInvalid    = errors.New("当前状态不允许此操作")
	ErrEventPartnerNotFound = errors.New("活动会员明细不存在")
	ErrPartnerAlreadyAdded  = errors.New("该会员已在活动中")
)

// 未找到校历时随保存结果返回的提示
const (
	noCalendarWarningTitle   = "未关联校历"
	noCalendarWarningMessage = "该日期不属于任何校历，请新建包含该日期的校历或修改日期。"
)

// ActivityEventService 活动业务接口
//
// 派生字段：
//   - name / school_calendar_id 在创建和 date_start 变化时按操作语言重算
//   - total_partners 在明细增删（含名单同步）的同一事务内重算
//
// 状态流转：open → closed（Close），closed → open（Reopen），Bill 暂为空操作
type ActivityEventService interface {
	Create(ctx context.Context, req *dto.CreateEventRequest, callerID, lang string) (*dto.EventResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EventResponse, error)
	List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest, callerID, lang string) (*dto.EventResponse, error)
	Delete(ctx context.Context, id string) error

	AddPartner(ctx context.Context, eventID string, req *dto.AddEventPartnerRequest, callerID string) (*dto.EventResponse, error)
	UpdatePartner(ctx context.Context, eventID, lineID string, req *dto.UpdateEventPartnerRequest, callerID string) (*dto.EventResponse, error)
	RemovePartner(ctx context.Context, eventID, lineID string) (*dto.EventResponse, error)
	// SyncRegistered 将预登记名单中缺失的会员追加到活动，不删除也不修改已有明细
	SyncRegistered(ctx context.Context, eventID, callerID string) (*dto.SyncRegisteredResponse, error)

	Close(ctx context.Context, id, callerID string) (*dto.EventResponse, error)
	Reopen(ctx context.Context, id, callerID string) (*dto.EventResponse, error)
	Bill(ctx context.Context, id, callerID string) (*dto.EventResponse, error)
}

type activityEventService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewActivityEventService 创建 ActivityEventService 实例
func NewActivityEventService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ActivityEventService {
	return &activityEventService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *activityEventService) Create(ctx context.Context, req *dto.CreateEventRequest, callerID, lang string) (*dto.EventResponse, error) {
	today := datefmt.Date(time.Now())

	dateStart := today
	if req.DateStart != "" {
		d, err := datefmt.ParseDate(req.DateStart)
		if err != nil {
			return nil, ErrEventDateInvalid
		}
		dateStart = d
	}
	dateStop := dateStart
	if req.DateStop != "" {
		d, err := datefmt.ParseDate(req.DateStop)
		if err != nil {
			return nil, ErrEventDateInvalid
		}
		dateStop = d
	}
	if dateStop.Before(dateStart) {
		return nil, ErrEventDateInvalid
	}

	if err := s.checkActivityType(ctx, req.ActivityTypeID); err != nil {
		return nil, err
	}

	allDay := true
	if req.AllDay != nil {
		allDay = *req.AllDay
	}
	userID := req.UserID
	if userID == nil {
		userID = &callerID
	}

	event := &model.ActivityEvent{
		ActivityTypeID: req.ActivityTypeID,
		DateStart:      dateStart,
		DateStop:       dateStop,
		AllDay:         allDay,
		UserID:         userID,
		State:          model.EventStateOpen,
	}
	event.Version = 1
	event.CreatedBy = &callerID
	event.UpdatedBy = &callerID

	warning, err := s.deriveNameAndCalendar(ctx, event, lang)
	if err != nil {
		s.logger.Error("派生活动名称与校历失败", zap.Error(err))
		return nil, err
	}

	// 创建活动 + 同步预登记名单 + 重算人数
	var added int
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.ActivityEvent.Create(ctx, event); err != nil {
			return err
		}
		n, err := s.syncRoster(ctx, txRepo, event, callerID)
		if err != nil {
			return err
		}
		added = n
		_, err = txRepo.ActivityEvent.RecountPartners(ctx, event.ActivityEventID)
		return err
	})
	if err != nil {
		s.logger.Error("创建活动失败", zap.Error(err))
		return nil, err
	}
	metrics.RecordRosterSync(added)

	s.logger.Info("活动已创建",
		zap.String("event_id", event.ActivityEventID),
		zap.String("name", event.Name),
		zap.Int("registered_added", added),
	)

	return s.reload(ctx, event.ActivityEventID, warning)
}

// ────────────────────── GetByID ──────────────────────

func (s *activityEventService) GetByID(ctx context.Context, id string) (*dto.EventResponse, error) {
	return s.reload(ctx, id, nil)
}

// ────────────────────── List ──────────────────────

func (s *activityEventService) List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error) {
	events, total, err := s.repo.ActivityEvent.List(ctx, repository.EventFilter{
		SchoolCalendarID: req.SchoolCalendarID,
		ActivityTypeID:   req.ActivityTypeID,
		State:            req.State,
		Offset:           req.GetOffset(),
		Limit:            req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("列出活动失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, *toEventResponse(&events[i], nil))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *activityEventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest, callerID, lang string) (*dto.EventResponse, error) {
	event, err := s.get(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if req.Version != event.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	typeChanged := false
	if req.ActivityTypeID != nil && *req.ActivityTypeID != event.ActivityTypeID {
		if err := s.checkActivityType(ctx, *req.ActivityTypeID); err != nil {
			return nil, err
		}
		event.ActivityTypeID = *req.ActivityTypeID
		event.ActivityType = nil
		typeChanged = true
	}

	dateChanged := false
	if req.DateStart != nil {
		d, err := datefmt.ParseDate(*req.DateStart)
		if err != nil {
			return nil, ErrEventDateInvalid
		}
		dateChanged = !d.Equal(datefmt.Date(event.DateStart))
		event.DateStart = d
	}
	if req.DateStop != nil {
		d, err := datefmt.ParseDate(*req.DateStop)
		if err != nil {
			return nil, ErrEventDateInvalid
		}
		event.DateStop = d
	}
	if datefmt.Date(event.DateStop).Before(datefmt.Date(event.DateStart)) {
		return nil, ErrEventDateInvalid
	}
	if req.AllDay != nil {
		event.AllDay = *req.AllDay
	}
	if req.UserID != nil {
		event.UserID = req.UserID
	}
	event.UpdatedBy = &callerID

	var warning *dto.Warning
	if dateChanged {
		warning, err = s.deriveNameAndCalendar(ctx, event, lang)
		if err != nil {
			s.logger.Error("派生活动名称与校历失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
	}

	var added int
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.ActivityEvent.Update(ctx, event); err != nil {
			return err
		}
		if dateChanged {
			if err := txRepo.EventPartner.SyncEventSnapshot(ctx, id, event.DateStart, event.SchoolCalendarID); err != nil {
				return err
			}
		}
		if typeChanged {
			n, err := s.syncRoster(ctx, txRepo, event, callerID)
			if err != nil {
				return err
			}
			added = n
			if _, err := txRepo.ActivityEvent.RecountPartners(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		s.logger.Error("更新活动失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	metrics.RecordRosterSync(added)

	return s.reload(ctx, id, warning)
}

// ────────────────────── Delete ──────────────────────

// Delete 明细行由外键级联删除
func (s *activityEventService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, s.repo, id); err != nil {
		return err
	}
	if err := s.repo.ActivityEvent.Delete(ctx, id); err != nil {
		s.logger.Error("删除活动失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Partners ──────────────────────

func (s *activityEventService) AddPartner(ctx context.Context, eventID string, req *dto.AddEventPartnerRequest, callerID string) (*dto.EventResponse, error) {
	event, err := s.get(ctx, s.repo, eventID)
	if err != nil {
		return nil, err
	}
	if _, err := loadAttendee(ctx, s.repo, req.MemberID); err != nil {
		return nil, err
	}
	if _, err := loadProduct(ctx, s.repo, req.ProductID); err != nil {
		return nil, err
	}
	// 每个会员在一次活动中只占一行，换产品走 UpdatePartner
	for _, p := range event.Partners {
		if p.MemberID == req.MemberID {
			return nil, ErrPartnerAlreadyAdded
		}
	}

	line := newPartnerLine(event, req.MemberID, req.ProductID, callerID)
	line.Comment = req.Comment

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.EventPartner.BatchCreate(ctx, []model.ActivityEventPartner{line}); err != nil {
			return err
		}
		_, err := txRepo.ActivityEvent.RecountPartners(ctx, eventID)
		return err
	})
	if err != nil {
		s.logger.Error("添加活动会员失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, eventID, nil)
}

func (s *activityEventService) UpdatePartner(ctx context.Context, eventID, lineID string, req *dto.UpdateEventPartnerRequest, callerID string) (*dto.EventResponse, error) {
	line, err := s.getPartner(ctx, eventID, lineID)
	if err != nil {
		return nil, err
	}
	if req.ProductID != nil {
		if _, err := loadProduct(ctx, s.repo, *req.ProductID); err != nil {
			return nil, err
		}
		line.ProductID = *req.ProductID
	}
	if req.Comment != nil {
		line.Comment = *req.Comment
	}
	line.UpdatedBy = &callerID

	if err := s.repo.EventPartner.Update(ctx, line); err != nil {
		s.logger.Error("更新活动会员失败", zap.String("line_id", lineID), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, eventID, nil)
}

func (s *activityEventService) RemovePartner(ctx context.Context, eventID, lineID string) (*dto.EventResponse, error) {
	if _, err := s.getPartner(ctx, eventID, lineID); err != nil {
		return nil, err
	}

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.EventPartner.Delete(ctx, lineID); err != nil {
			return err
		}
		_, err := txRepo.ActivityEvent.RecountPartners(ctx, eventID)
		return err
	})
	if err != nil {
		s.logger.Error("移除活动会员失败", zap.String("line_id", lineID), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, eventID, nil)
}

// ────────────────────── SyncRegistered ──────────────────────

func (s *activityEventService) SyncRegistered(ctx context.Context, eventID, callerID string) (*dto.SyncRegisteredResponse, error) {
	var added int
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		event, err := s.get(ctx, txRepo, eventID)
		if err != nil {
			return err
		}
		n, err := s.syncRoster(ctx, txRepo, event, callerID)
		if err != nil {
			return err
		}
		added = n
		if n == 0 {
			return nil
		}
		_, err = txRepo.ActivityEvent.RecountPartners(ctx, eventID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return nil, err
		}
		s.logger.Error("同步预登记名单失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	metrics.RecordRosterSync(added)

	resp, err := s.reload(ctx, eventID, nil)
	if err != nil {
		return nil, err
	}
	return &dto.SyncRegisteredResponse{Added: added, Event: resp}, nil
}

// ────────────────────── State ──────────────────────

func (s *activityEventService) Close(ctx context.Context, id, callerID string) (*dto.EventResponse, error) {
	return s.transition(ctx, id, callerID, model.EventStateOpen, model.EventStateClosed)
}

func (s *activityEventService) Reopen(ctx context.Context, id, callerID string) (*dto.EventResponse, error) {
	return s.transition(ctx, id, callerID, model.EventStateClosed, model.EventStateOpen)
}

// Bill 计费动作尚未接入外部计费，仅校验活动存在并原样返回
func (s *activityEventService) Bill(ctx context.Context, id, callerID string) (*dto.EventResponse, error) {
	event, err := s.get(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("计费动作暂未实现，活动状态保持不变",
		zap.String("event_id", id),
		zap.String("state", event.State),
		zap.String("caller_id", callerID),
	)
	return toEventResponse(event, nil), nil
}

// ── 内部辅助方法 ──

func (s *activityEventService) transition(ctx context.Context, id, callerID, from, to string) (*dto.EventResponse, error) {
	event, err := s.get(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if event.State != from {
		return nil, ErrEventStateInvalid
	}

	event.State = to
	event.UpdatedBy = &callerID
	if err := s.repo.ActivityEvent.Update(ctx, event); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		s.logger.Error("变更活动状态失败", zap.String("id", id), zap.String("to", to), zap.Error(err))
		return nil, err
	}

	s.logger.Info("活动状态已变更", zap.String("event_id", id), zap.String("from", from), zap.String("to", to))
	return toEventResponse(event, nil), nil
}

// deriveNameAndCalendar 按 date_start 重算 name 与 school_calendar_id
// 没有包含该日期的校历时置空并返回提示，不阻断保存
func (s *activityEventService) deriveNameAndCalendar(ctx context.Context, event *model.ActivityEvent, lang string) (*dto.Warning, error) {
	if lang == "" && s.cfg != nil {
		lang = s.cfg.Locale.DefaultLang
	}
	pattern := resolveDateFormat(ctx, s.repo, s.logger, lang)
	event.Name = datefmt.Format(pattern, event.DateStart)

	cal, err := s.repo.SchoolCalendar.FindContaining(ctx, event.DateStart)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			event.SchoolCalendarID = nil
			event.SchoolCalendar = nil
			return &dto.Warning{Title: noCalendarWarningTitle, Message: noCalendarWarningMessage}, nil
		}
		return nil, err
	}
	event.SchoolCalendarID = &cal.SchoolCalendarID
	event.SchoolCalendar = cal
	return nil, nil
}

// recountEvents 明细行被级联删除后重算相关活动的 total_partners
func recountEvents(ctx context.Context, repo *repository.Repository, eventIDs []string) error {
	for _, id := range eventIDs {
		if _, err := repo.ActivityEvent.RecountPartners(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// syncRoster 追加名单中存在、活动中缺失的会员，返回新增行数
func (s *activityEventService) syncRoster(ctx context.Context, repo *repository.Repository, event *model.ActivityEvent, callerID string) (int, error) {
	roster, err := repo.Roster.ListByType(ctx, event.ActivityTypeID)
	if err != nil {
		return 0, err
	}
	if len(roster) == 0 {
		return 0, nil
	}

	present, err := repo.EventPartner.ListByEvent(ctx, event.ActivityEventID)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(present))
	for _, p := range present {
		seen[p.MemberID] = true
	}

	var lines []model.ActivityEventPartner
	for _, r := range roster {
		if seen[r.MemberID] {
			continue
		}
		if r.Member != nil && !r.Member.CanAttend() {
			continue
		}
		seen[r.MemberID] = true
		lines = append(lines, newPartnerLine(event, r.MemberID, r.ProductID, callerID))
	}
	if len(lines) == 0 {
		return 0, nil
	}

	if err := repo.EventPartner.BatchCreate(ctx, lines); err != nil {
		return 0, err
	}
	return len(lines), nil
}

func newPartnerLine(event *model.ActivityEvent, memberID, productID, callerID string) model.ActivityEventPartner {
	line := model.ActivityEventPartner{
		ActivityEventID:  event.ActivityEventID,
		MemberID:         memberID,
		ProductID:        productID,
		DateStart:        event.DateStart,
		SchoolCalendarID: event.SchoolCalendarID,
	}
	line.CreatedBy = &callerID
	line.UpdatedBy = &callerID
	return line
}

func (s *activityEventService) checkActivityType(ctx context.Context, id string) error {
	if _, err := s.repo.ActivityType.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityTypeNotFound
		}
		s.logger.Error("查询活动类型失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *activityEventService) get(ctx context.Context, repo *repository.Repository, id string) (*model.ActivityEvent, error) {
	event, err := repo.ActivityEvent.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return event, nil
}

func (s *activityEventService) getPartner(ctx context.Context, eventID, lineID string) (*model.ActivityEventPartner, error) {
	if _, err := s.get(ctx, s.repo, eventID); err != nil {
		return nil, err
	}
	line, err := s.repo.EventPartner.GetByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventPartnerNotFound
		}
		s.logger.Error("查询活动会员失败", zap.String("line_id", lineID), zap.Error(err))
		return nil, err
	}
	if line.ActivityEventID != eventID {
		return nil, ErrEventPartnerNotFound
	}
	return line, nil
}

func (s *activityEventService) reload(ctx context.Context, id string, warning *dto.Warning) (*dto.EventResponse, error) {
	event, err := s.get(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return toEventResponse(event, warning), nil
}

func toEventResponse(e *model.ActivityEvent, warning *dto.Warning) *dto.EventResponse {
	resp := &dto.EventResponse{
		ID:               e.ActivityEventID,
		Name:             e.Name,
		ActivityTypeID:   e.ActivityTypeID,
		DateStart:        e.DateStart.Format(time.DateOnly),
		DateStop:         e.DateStop.Format(time.DateOnly),
		AllDay:           e.AllDay,
		UserID:           e.UserID,
		State:            e.State,
		TotalPartners:    e.TotalPartners,
		SchoolCalendarID: e.SchoolCalendarID,
		Version:          e.Version,
		Warning:          warning,
	}
	if e.ActivityType != nil {
		resp.ActivityTypeName = e.ActivityType.Name
	}
	if e.SchoolCalendar != nil {
		resp.SchoolCalendarName = e.SchoolCalendar.Name
	}
	if len(e.Partners) > 0 {
		resp.Partners = make([]dto.EventPartnerResponse, 0, len(e.Partners))
		for _, p := range e.Partners {
			pr := dto.EventPartnerResponse{
				ID:        p.EventPartnerID,
				MemberID:  p.MemberID,
				ProductID: p.ProductID,
				Comment:   p.Comment,
				DateStart: p.DateStart.Format(time.DateOnly),
			}
			if p.Member != nil {
				pr.MemberName = p.Member.Name
				pr.CurrentCourse = p.Member.CurrentCourse
			}
			if p.Product != nil {
				pr.ProductName = p.Product.Name
			}
			resp.Partners = append(resp.Partners, pr)
		}
	}
	return resp
}
