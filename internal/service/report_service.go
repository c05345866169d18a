package service

import (
	"bytes"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ampa-activity/config"
	"ampa-activity/internal/dto"
	"ampa-activity/internal/model"
	"ampa-activity/internal/report"
	"ampa-activity/internal/repository"
	"ampa-activity/pkg/datefmt"
	"ampa-activity/pkg/metrics"
)

// ── 报表模块业务错误 ──

var (
	ErrReportNoMonth      = errors.New("该校历区间内没有活动，无可选月份")
	ErrReportMonthPartial = errors.New("年份与月份须同时指定")
	ErrReportGenerateFail = errors.New("生成报表失败")
)

// 早于该日期的校历视为未配置，不枚举月份
var monthSentinel = time.Date(1971, 1, 1, 0, 0, 0, 0, time.UTC)

// ReportService 月度出勤报表业务接口
//
// 设计说明：
//   - 报表为只读值，每次请求按 (校历, 年, 月) 重新计算，不落库
//   - 未指定校历时使用开始日期最晚的校历
//   - 未指定年月时使用校历内最早有活动的月份
type ReportService interface {
	// Months 列出校历区间内有活动的 (年, 月)，按年月升序
	Months(ctx context.Context, calendarID string) (*dto.ReportMonthsResponse, error)
	Monthly(ctx context.Context, req *dto.MonthlyReportRequest) (*dto.MonthlyReportResponse, error)
	RenderHTML(ctx context.Context, req *dto.MonthlyReportRequest) (*bytes.Buffer, error)
	// ExportXLSX 返回 Excel 内容与建议文件名
	ExportXLSX(ctx context.Context, req *dto.MonthlyReportRequest) (*bytes.Buffer, string, error)
}

type reportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Months ──────────────────────

func (s *reportService) Months(ctx context.Context, calendarID string) (*dto.ReportMonthsResponse, error) {
	cal, err := s.resolveCalendar(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	months, err := s.listMonths(ctx, cal)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReportMonthsResponse{
		SchoolCalendarID: cal.SchoolCalendarID,
		Months:           make([]dto.ReportMonthResponse, 0, len(months)),
	}
	for _, m := range months {
		resp.Months = append(resp.Months, toReportMonthResponse(m))
	}
	if len(resp.Months) > 0 {
		first := resp.Months[0]
		resp.Selected = &first
	}
	return resp, nil
}

// ────────────────────── Monthly ──────────────────────

func (s *reportService) Monthly(ctx context.Context, req *dto.MonthlyReportRequest) (*dto.MonthlyReportResponse, error) {
	r, err := s.compute(ctx, req)
	if err != nil {
		return nil, err
	}
	metrics.RecordReport("json")
	return toMonthlyReportResponse(r), nil
}

// ────────────────────── RenderHTML ──────────────────────

func (s *reportService) RenderHTML(ctx context.Context, req *dto.MonthlyReportRequest) (*bytes.Buffer, error) {
	r, err := s.compute(ctx, req)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := report.RenderHTML(buf, r); err != nil {
		s.logger.Error("渲染 HTML 报表失败", zap.Error(err))
		return nil, ErrReportGenerateFail
	}
	metrics.RecordReport("html")
	return buf, nil
}

// ────────────────────── ExportXLSX ──────────────────────

func (s *reportService) ExportXLSX(ctx context.Context, req *dto.MonthlyReportRequest) (*bytes.Buffer, string, error) {
	r, err := s.compute(ctx, req)
	if err != nil {
		return nil, "", err
	}
	buf, err := report.WriteXLSX(r)
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrReportGenerateFail
	}
	metrics.RecordReport("xlsx")
	return buf, r.Filename() + ".xlsx", nil
}

// ── 内部辅助方法 ──

// compute 按 (校历, 年, 月) 计算报表
func (s *reportService) compute(ctx context.Context, req *dto.MonthlyReportRequest) (report.MonthlyReport, error) {
	if (req.Year > 0) != (req.Month > 0) {
		return report.MonthlyReport{}, ErrReportMonthPartial
	}
	cal, err := s.resolveCalendar(ctx, req.SchoolCalendarID)
	if err != nil {
		return report.MonthlyReport{}, err
	}

	year, month := req.Year, req.Month
	if year <= 0 {
		months, err := s.listMonths(ctx, cal)
		if err != nil {
			return report.MonthlyReport{}, err
		}
		if len(months) == 0 {
			return report.MonthlyReport{}, ErrReportNoMonth
		}
		year, month = months[0].Year, months[0].Month
	}

	from, to := datefmt.MonthRange(year, month)
	rows, err := s.repo.EventPartner.AggregateAttendance(ctx, from, to)
	if err != nil {
		s.logger.Error("统计月度出勤失败",
			zap.String("calendar_id", cal.SchoolCalendarID),
			zap.Int("year", year), zap.Int("month", month),
			zap.Error(err),
		)
		return report.MonthlyReport{}, err
	}

	lines := make([]report.Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, report.Line{Partner: row.Partner, Product: row.Product, Total: row.Total})
	}

	title := ""
	if s.cfg != nil {
		title = s.cfg.Report.Title
	}

	return report.MonthlyReport{
		Title:              title,
		SchoolCalendarID:   cal.SchoolCalendarID,
		SchoolCalendarName: cal.Name,
		Month:              report.Month{Year: year, Month: month, Name: datefmt.MonthName(year, month)},
		DateFrom:           from,
		DateTo:             to,
		LectiveDays:        CountLectiveDays(cal, from, to),
		Lines:              lines,
		GeneratedAt:        time.Now(),
	}, nil
}

// resolveCalendar 返回含非教学日的校历，id 为空时取默认校历
func (s *reportService) resolveCalendar(ctx context.Context, id string) (*model.SchoolCalendar, error) {
	if id == "" {
		def, err := s.repo.SchoolCalendar.GetDefault(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSchoolCalendarNotFound
			}
			s.logger.Error("查询默认校历失败", zap.Error(err))
			return nil, err
		}
		id = def.SchoolCalendarID
	}

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

func (s *reportService) listMonths(ctx context.Context, cal *model.SchoolCalendar) ([]report.Month, error) {
	if !cal.DateStart.After(monthSentinel) || !cal.DateEnd.After(monthSentinel) {
		return nil, nil
	}

	rows, err := s.repo.ActivityEvent.ListMonths(ctx, cal.DateStart, cal.DateEnd)
	if err != nil {
		s.logger.Error("枚举报表月份失败", zap.String("calendar_id", cal.SchoolCalendarID), zap.Error(err))
		return nil, err
	}

	months := make([]report.Month, 0, len(rows))
	for _, row := range rows {
		months = append(months, report.Month{
			Year:  row.Year,
			Month: row.Month,
			Name:  datefmt.MonthName(row.Year, row.Month),
		})
	}
	return months, nil
}

func toReportMonthResponse(m report.Month) dto.ReportMonthResponse {
	return dto.ReportMonthResponse{Year: m.Year, Month: m.Month, Name: m.Name}
}

func toMonthlyReportResponse(r report.MonthlyReport) *dto.MonthlyReportResponse {
	resp := &dto.MonthlyReportResponse{
		SchoolCalendarID:   r.SchoolCalendarID,
		SchoolCalendarName: r.SchoolCalendarName,
		Month:              toReportMonthResponse(r.Month),
		DateFrom:           r.DateFrom.Format(time.DateOnly),
		DateTo:             r.DateTo.Format(time.DateOnly),
		LectiveDays:        r.LectiveDays,
		Lines:              make([]dto.ReportLineResponse, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		resp.Lines = append(resp.Lines, dto.ReportLineResponse{Partner: l.Partner, Product: l.Product, Total: l.Total})
	}
	return resp
}
