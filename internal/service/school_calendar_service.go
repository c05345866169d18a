package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ampa-activity/config"
	"ampa-activity/internal/dto"
	"ampa-activity/internal/model"
	"ampa-activity/internal/repository"
	"ampa-activity/pkg/datefmt"
)

// ── 校历模块业务错误 ──

var (
	ErrSchoolCalendarNotFound    = errors.New("校历不存在")
	ErrSchoolCalendarDateInvalid = errors.New("校历结束日期必须晚于开始日期")
	ErrHolidayNotFound           = errors.New("非教学日不存在")
	ErrHolidayDateInvalid        = errors.New("非教学日结束日期不能早于开始日期")
	ErrLectiveRangeInvalid       = errors.New("统计区间结束日期不能早于开始日期")
	ErrICSParseFailed            = errors.New("ICS 文件解析失败")
)

// SchoolCalendarService 校历业务接口
type SchoolCalendarService interface {
	Create(ctx context.Context, req *dto.SchoolCalendarRequest, callerID string) (*dto.SchoolCalendarResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SchoolCalendarResponse, error)
	List(ctx context.Context) ([]dto.SchoolCalendarResponse, error)
	Update(ctx context.Context, id string, req *dto.SchoolCalendarRequest, callerID string) (*dto.SchoolCalendarResponse, error)
	Delete(ctx context.Context, id string) error

	ListHolidays(ctx context.Context, calendarID string) ([]dto.SchoolHolidayResponse, error)
	CreateHoliday(ctx context.Context, calendarID string, req *dto.SchoolHolidayRequest, callerID string) (*dto.SchoolHolidayResponse, error)
	UpdateHoliday(ctx context.Context, calendarID, holidayID string, req *dto.SchoolHolidayRequest, callerID string) (*dto.SchoolHolidayResponse, error)
	DeleteHoliday(ctx context.Context, calendarID, holidayID string) error
	// ImportHolidays 从 ICS 文件批量导入非教学日
	ImportHolidays(ctx context.Context, calendarID string, reader io.Reader, callerID string) (*dto.ImportHolidaysResponse, error)

	// LectiveDays 统计区间内的教学日
	LectiveDays(ctx context.Context, calendarID string, req *dto.LectiveDaysRequest) (*dto.LectiveDaysResponse, error)
}

type schoolCalendarService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewSchoolCalendarService 创建 SchoolCalendarService 实例
// cfg 为 nil 时 ICS 中的 UTC 时间按 UTC 取日期
func NewSchoolCalendarService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) SchoolCalendarService {
	loc := time.UTC
	if cfg != nil {
		loc = cfg.Locale.Location()
	}
	return &schoolCalendarService{repo: repo, loc: loc, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *schoolCalendarService) Create(ctx context.Context, req *dto.SchoolCalendarRequest, callerID string) (*dto.SchoolCalendarResponse, error) {
	start, end, err := parseCalendarRange(req.DateStart, req.DateEnd)
	if err != nil {
		return nil, err
	}

	cal := &model.SchoolCalendar{
		Name:      req.Name,
		DateStart: start,
		DateEnd:   end,
	}
	cal.CreatedBy = &callerID
	cal.UpdatedBy = &callerID

	if err := s.repo.SchoolCalendar.Create(ctx, cal); err != nil {
		s.logger.Error("创建校历失败", zap.Error(err))
		return nil, err
	}
	return toSchoolCalendarResponse(cal), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *schoolCalendarService) GetByID(ctx context.Context, id string) (*dto.SchoolCalendarResponse, error) {
	cal, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSchoolCalendarResponse(cal), nil
}

// ────────────────────── List ──────────────────────

func (s *schoolCalendarService) List(ctx context.Context) ([]dto.SchoolCalendarResponse, error) {
	cals, err := s.repo.SchoolCalendar.List(ctx)
	if err != nil {
		s.logger.Error("列出校历失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.SchoolCalendarResponse, 0, len(cals))
	for i := range cals {
		result = append(result, *toSchoolCalendarResponse(&cals[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *schoolCalendarService) Update(ctx context.Context, id string, req *dto.SchoolCalendarRequest, callerID string) (*dto.SchoolCalendarResponse, error) {
	cal, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	start, end, err := parseCalendarRange(req.DateStart, req.DateEnd)
	if err != nil {
		return nil, err
	}

	cal.Name = req.Name
	cal.DateStart = start
	cal.DateEnd = end
	cal.UpdatedBy = &callerID

	// 已有活动的 school_calendar_id 不随校历区间变化重算，活动下次修改日期时重新派生
	if err := s.repo.SchoolCalendar.Update(ctx, cal); err != nil {
		s.logger.Error("更新校历失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toSchoolCalendarResponse(cal), nil
}

// ────────────────────── Delete ──────────────────────

func (s *schoolCalendarService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SchoolCalendar.Delete(ctx, id); err != nil {
		s.logger.Error("删除校历失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Holidays ──────────────────────

func (s *schoolCalendarService) ListHolidays(ctx context.Context, calendarID string) ([]dto.SchoolHolidayResponse, error) {
	cal, err := s.get(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	return toHolidayResponses(cal.Holidays), nil
}

func (s *schoolCalendarService) CreateHoliday(ctx context.Context, calendarID string, req *dto.SchoolHolidayRequest, callerID string) (*dto.SchoolHolidayResponse, error) {
	if _, err := s.get(ctx, calendarID); err != nil {
		return nil, err
	}
	start, end, err := parseHolidayRange(req.DateStart, req.DateEnd)
	if err != nil {
		return nil, err
	}

	h := &model.SchoolHoliday{
		SchoolCalendarID: calendarID,
		Name:             req.Name,
		DateStart:        start,
		DateEnd:          end,
	}
	h.CreatedBy = &callerID
	h.UpdatedBy = &callerID

	if err := s.repo.SchoolHoliday.Create(ctx, h); err != nil {
		s.logger.Error("创建非教学日失败", zap.String("calendar_id", calendarID), zap.Error(err))
		return nil, err
	}
	resp := toHolidayResponse(h)
	return &resp, nil
}

func (s *schoolCalendarService) UpdateHoliday(ctx context.Context, calendarID, holidayID string, req *dto.SchoolHolidayRequest, callerID string) (*dto.SchoolHolidayResponse, error) {
	h, err := s.getHoliday(ctx, calendarID, holidayID)
	if err != nil {
		return nil, err
	}
	start, end, err := parseHolidayRange(req.DateStart, req.DateEnd)
	if err != nil {
		return nil, err
	}

	h.Name = req.Name
	h.DateStart = start
	h.DateEnd = end
	h.UpdatedBy = &callerID

	if err := s.repo.SchoolHoliday.Update(ctx, h); err != nil {
		s.logger.Error("更新非教学日失败", zap.String("id", holidayID), zap.Error(err))
		return nil, err
	}
	resp := toHolidayResponse(h)
	return &resp, nil
}

func (s *schoolCalendarService) DeleteHoliday(ctx context.Context, calendarID, holidayID string) error {
	if _, err := s.getHoliday(ctx, calendarID, holidayID); err != nil {
		return err
	}
	if err := s.repo.SchoolHoliday.Delete(ctx, holidayID); err != nil {
		s.logger.Error("删除非教学日失败", zap.String("id", holidayID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ImportHolidays ──────────────────────

func (s *schoolCalendarService) ImportHolidays(ctx context.Context, calendarID string, reader io.Reader, callerID string) (*dto.ImportHolidaysResponse, error) {
	cal, err := s.get(ctx, calendarID)
	if err != nil {
		return nil, err
	}

	holidays, skipped, err := ParseHolidayICS(reader, cal, s.loc)
	if err != nil {
		s.logger.Warn("解析 ICS 失败", zap.String("calendar_id", calendarID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrICSParseFailed, err)
	}
	for i := range holidays {
		holidays[i].CreatedBy = &callerID
		holidays[i].UpdatedBy = &callerID
	}

	if err := s.repo.SchoolHoliday.BatchCreate(ctx, holidays); err != nil {
		s.logger.Error("导入非教学日失败", zap.String("calendar_id", calendarID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("导入非教学日完成",
		zap.String("calendar_id", calendarID),
		zap.Int("imported", len(holidays)),
		zap.Int("skipped", skipped),
	)

	return &dto.ImportHolidaysResponse{
		Imported: len(holidays),
		Skipped:  skipped,
		Holidays: toHolidayResponses(holidays),
	}, nil
}

// ────────────────────── LectiveDays ──────────────────────

func (s *schoolCalendarService) LectiveDays(ctx context.Context, calendarID string, req *dto.LectiveDaysRequest) (*dto.LectiveDaysResponse, error) {
	cal, err := s.get(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	from, err := datefmt.ParseDate(req.From)
	if err != nil {
		return nil, ErrLectiveRangeInvalid
	}
	to, err := datefmt.ParseDate(req.To)
	if err != nil {
		return nil, ErrLectiveRangeInvalid
	}
	if to.Before(from) {
		return nil, ErrLectiveRangeInvalid
	}

	return &dto.LectiveDaysResponse{
		From:        req.From,
		To:          req.To,
		LectiveDays: CountLectiveDays(cal, from, to),
	}, nil
}

// ── 内部辅助方法 ──

func (s *schoolCalendarService) get(ctx context.Context, id string) (*model.SchoolCalendar, error) {
	cal, err := s.repo.SchoolCalendar.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolCalendarNotFound
		}
		s.logger.Error("查询校历失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return cal, nil
}

func (s *schoolCalendarService) getHoliday(ctx context.Context, calendarID, holidayID string) (*model.SchoolHoliday, error) {
	h, err := s.repo.SchoolHoliday.GetByID(ctx, holidayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHolidayNotFound
		}
		s.logger.Error("查询非教学日失败", zap.String("id", holidayID), zap.Error(err))
		return nil, err
	}
	if h.SchoolCalendarID != calendarID {
		return nil, ErrHolidayNotFound
	}
	return h, nil
}

func parseCalendarRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := datefmt.ParseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrSchoolCalendarDateInvalid
	}
	end, err := datefmt.ParseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrSchoolCalendarDateInvalid
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, ErrSchoolCalendarDateInvalid
	}
	return start, end, nil
}

func parseHolidayRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := datefmt.ParseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrHolidayDateInvalid
	}
	end, err := datefmt.ParseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrHolidayDateInvalid
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrHolidayDateInvalid
	}
	return start, end, nil
}

func toSchoolCalendarResponse(cal *model.SchoolCalendar) *dto.SchoolCalendarResponse {
	return &dto.SchoolCalendarResponse{
		ID:        cal.SchoolCalendarID,
		Name:      cal.Name,
		DateStart: cal.DateStart.Format(time.DateOnly),
		DateEnd:   cal.DateEnd.Format(time.DateOnly),
		Holidays:  toHolidayResponses(cal.Holidays),
	}
}

func toHolidayResponse(h *model.SchoolHoliday) dto.SchoolHolidayResponse {
	return dto.SchoolHolidayResponse{
		ID:        h.SchoolHolidayID,
		Name:      h.Name,
		DateStart: h.DateStart.Format(time.DateOnly),
		DateEnd:   h.DateEnd.Format(time.DateOnly),
	}
}

func toHolidayResponses(hs []model.SchoolHoliday) []dto.SchoolHolidayResponse {
	result := make([]dto.SchoolHolidayResponse, 0, len(hs))
	for i := range hs {
		result = append(result, toHolidayResponse(&hs[i]))
	}
	return result
}
