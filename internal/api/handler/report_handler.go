package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ampa-activity/internal/dto"
	"ampa-activity/internal/service"
	"ampa-activity/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// 打印版报表只使用内联样式
	reportCSP = "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'self'"
)

// ReportHandler 月度出勤报表 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// ListMonths 列出校历内有活动的月份
// GET /api/v1/reports/activity-monthly/months?school_calendar_id=
func (h *ReportHandler) ListMonths(c *gin.Context) {
	var req dto.ReportMonthsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.reportSvc.Months(c.Request.Context(), req.SchoolCalendarID)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, result)
}

// GetMonthly 月度出勤报表（JSON）
// GET /api/v1/reports/activity-monthly?school_calendar_id=&year=&month=
func (h *ReportHandler) GetMonthly(c *gin.Context) {
	var req dto.MonthlyReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.reportSvc.Monthly(c.Request.Context(), &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, result)
}

// RenderHTML 月度出勤报表（HTML 打印版）
// GET /api/v1/reports/activity-monthly/html?school_calendar_id=&year=&month=
func (h *ReportHandler) RenderHTML(c *gin.Context) {
	var req dto.MonthlyReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, err := h.reportSvc.RenderHTML(c.Request.Context(), &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	c.Header("Content-Security-Policy", reportCSP)
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// ExportXLSX 导出月度出勤报表 Excel
// GET /api/v1/reports/activity-monthly/xlsx?school_calendar_id=&year=&month=
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	var req dto.MonthlyReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.reportSvc.ExportXLSX(c.Request.Context(), &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.Attachment(c, xlsxContentType, filename, buf.Bytes())
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSchoolCalendarNotFound):
		response.NotFound(c, 17001, "校历不存在")
	case errors.Is(err, service.ErrReportMonthPartial):
		response.BadRequest(c, 10001, "年份与月份须同时指定")
	case errors.Is(err, service.ErrReportNoMonth):
		response.NotFound(c, 19001, "该校历区间内没有活动")
	default:
		response.InternalError(c)
	}
}
