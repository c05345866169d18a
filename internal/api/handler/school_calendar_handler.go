package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ampa-activity/internal/dto"
	"ampa-activity/internal/service"
	"ampa-activity/pkg/response"
)

// SchoolCalendarHandler 校历模块 HTTP 处理器
type SchoolCalendarHandler struct {
	calSvc service.SchoolCalendarService
}

// NewSchoolCalendarHandler 创建 SchoolCalendarHandler
func NewSchoolCalendarHandler(calSvc service.SchoolCalendarService) *SchoolCalendarHandler {
	return &SchoolCalendarHandler{calSvc: calSvc}
}

// ListSchoolCalendars 获取校历列表（开始日期倒序）
// GET /api/v1/school-calendars
func (h *SchoolCalendarHandler) ListSchoolCalendars(c *gin.Context) {
	cals, err := h.calSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": cals})
}

// GetSchoolCalendar 获取校历详情（含非教学日）
// GET /api/v1/school-calendars/:id
func (h *SchoolCalendarHandler) GetSchoolCalendar(c *gin.Context) {
	cal, err := h.calSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, cal)
}

// CreateSchoolCalendar 创建校历
// POST /api/v1/school-calendars
func (h *SchoolCalendarHandler) CreateSchoolCalendar(c *gin.Context) {
	var req dto.SchoolCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	cal, err := h.calSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Created(c, cal)
}

// UpdateSchoolCalendar 更新校历
// PUT /api/v1/school-calendars/:id
func (h *SchoolCalendarHandler) UpdateSchoolCalendar(c *gin.Context) {
	var req dto.SchoolCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	cal, err := h.calSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, cal)
}

// DeleteSchoolCalendar 删除校历（非教学日级联删除，活动的校历置空）
// DELETE /api/v1/school-calendars/:id
func (h *SchoolCalendarHandler) DeleteSchoolCalendar(c *gin.Context) {
	if err := h.calSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 非教学日 ──

// ListHolidays 获取校历的非教学日
// GET /api/v1/school-calendars/:id/holidays
func (h *SchoolCalendarHandler) ListHolidays(c *gin.Context) {
	holidays, err := h.calSvc.ListHolidays(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, gin.H{"list": holidays})
}

// CreateHoliday 新增非教学日
// POST /api/v1/school-calendars/:id/holidays
func (h *SchoolCalendarHandler) CreateHoliday(c *gin.Context) {
	var req dto.SchoolHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	holiday, err := h.calSvc.CreateHoliday(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Created(c, holiday)
}

// UpdateHoliday 更新非教学日
// PUT /api/v1/school-calendars/:id/holidays/:holiday_id
func (h *SchoolCalendarHandler) UpdateHoliday(c *gin.Context) {
	var req dto.SchoolHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	holiday, err := h.calSvc.UpdateHoliday(c.Request.Context(), c.Param("id"), c.Param("holiday_id"), &req, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, holiday)
}

// DeleteHoliday 删除非教学日
// DELETE /api/v1/school-calendars/:id/holidays/:holiday_id
func (h *SchoolCalendarHandler) DeleteHoliday(c *gin.Context) {
	if err := h.calSvc.DeleteHoliday(c.Request.Context(), c.Param("id"), c.Param("holiday_id")); err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, nil)
}

// ImportHolidays 从 ICS 文件导入非教学日
// POST /api/v1/school-calendars/:id/holidays/import
//   - 文件上传: multipart/form-data, field="file"
func (h *SchoolCalendarHandler) ImportHolidays(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "请上传 ICS 文件")
		return
	}
	defer file.Close()

	result, err := h.calSvc.ImportHolidays(c.Request.Context(), c.Param("id"), file, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Created(c, result)
}

// LectiveDays 统计区间内的教学日
// GET /api/v1/school-calendars/:id/lective-days?from=&to=
func (h *SchoolCalendarHandler) LectiveDays(c *gin.Context) {
	var req dto.LectiveDaysRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.calSvc.LectiveDays(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, result)
}

// handleCalendarError 统一处理校历模块业务错误
func (h *SchoolCalendarHandler) handleCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSchoolCalendarNotFound):
		response.NotFound(c, 17001, "校历不存在")
	case errors.Is(err, service.ErrSchoolCalendarDateInvalid):
		response.BadRequest(c, 17002, "校历结束日期必须晚于开始日期")
	case errors.Is(err, service.ErrHolidayNotFound):
		response.NotFound(c, 17003, "非教学日不存在")
	case errors.Is(err, service.ErrHolidayDateInvalid):
		response.BadRequest(c, 17004, "非教学日结束日期不能早于开始日期")
	case errors.Is(err, service.ErrLectiveRangeInvalid):
		response.BadRequest(c, 17005, "统计区间无效")
	case errors.Is(err, service.ErrICSParseFailed):
		response.ErrorWithDetails(c, http.StatusBadRequest, 17006, "ICS 文件解析失败", err.Error())
	default:
		response.InternalError(c)
	}
}
