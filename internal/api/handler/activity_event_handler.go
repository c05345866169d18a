package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ampa-activity/internal/dto"
	"ampa-activity/internal/service"
	pkgerrors "ampa-activity/pkg/errors"
	"ampa-activity/pkg/response"
)

// ActivityEventHandler 活动模块 HTTP 处理器
type ActivityEventHandler struct {
	eventSvc service.ActivityEventService
}

// NewActivityEventHandler 创建 ActivityEventHandler
func NewActivityEventHandler(eventSvc service.ActivityEventService) *ActivityEventHandler {
	return &ActivityEventHandler{eventSvc: eventSvc}
}

// ListEvents 分页查询活动
// GET /api/v1/events?school_calendar_id=&activity_type_id=&state=&page=&page_size=
func (h *ActivityEventHandler) ListEvents(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	events, total, err := h.eventSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, events, total, req.GetPage(), req.GetPageSize())
}

// GetEvent 获取活动详情（含会员明细）
// GET /api/v1/events/:id
func (h *ActivityEventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// CreateEvent 创建活动
// POST /api/v1/events?lang=
// 没有包含该日期的校历时仍保存成功，响应中带 warning
func (h *ActivityEventHandler) CreateEvent(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), &req, callerID, RequestLang(c))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, event)
}

// UpdateEvent 更新活动
// PUT /api/v1/events/:id?lang=
func (h *ActivityEventHandler) UpdateEvent(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID, RequestLang(c))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// DeleteEvent 删除活动
// DELETE /api/v1/events/:id
func (h *ActivityEventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 会员明细 ──

// AddPartner 添加参加会员
// POST /api/v1/events/:id/partners
func (h *ActivityEventHandler) AddPartner(c *gin.Context) {
	var req dto.AddEventPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.AddPartner(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, event)
}

// UpdatePartner 修改明细的产品或备注
// PUT /api/v1/events/:id/partners/:line_id
func (h *ActivityEventHandler) UpdatePartner(c *gin.Context) {
	var req dto.UpdateEventPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.UpdatePartner(c.Request.Context(), c.Param("id"), c.Param("line_id"), &req, callerID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// RemovePartner 移除参加会员
// DELETE /api/v1/events/:id/partners/:line_id
func (h *ActivityEventHandler) RemovePartner(c *gin.Context) {
	event, err := h.eventSvc.RemovePartner(c.Request.Context(), c.Param("id"), c.Param("line_id"))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// SyncRegistered 从预登记名单补充缺失会员
// POST /api/v1/events/:id/sync-registered
func (h *ActivityEventHandler) SyncRegistered(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.eventSvc.SyncRegistered(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, result)
}

// ── 状态流转 ──

// CloseEvent PUT /api/v1/events/:id/close
func (h *ActivityEventHandler) CloseEvent(c *gin.Context) {
	h.transition(c, h.eventSvc.Close)
}

// ReopenEvent PUT /api/v1/events/:id/reopen
func (h *ActivityEventHandler) ReopenEvent(c *gin.Context) {
	h.transition(c, h.eventSvc.Reopen)
}

// BillEvent PUT /api/v1/events/:id/bill
func (h *ActivityEventHandler) BillEvent(c *gin.Context) {
	h.transition(c, h.eventSvc.Bill)
}

type transitionFunc func(ctx context.Context, id, callerID string) (*dto.EventResponse, error)

func (h *ActivityEventHandler) transition(c *gin.Context, fn transitionFunc) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := fn(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// handleEventError 统一处理活动模块业务错误
func (h *ActivityEventHandler) handleEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 18001, "活动不存在")
	case errors.Is(err, service.ErrEventDateInvalid):
		response.BadRequest(c, 18002, "活动日期无效")
	case errors.Is(err, service.ErrEventStateInvalid):
		response.Error(c, http.StatusUnprocessableEntity, 18003, "当前状态不允许此操作")
	case errors.Is(err, service.ErrEventPartnerNotFound):
		response.NotFound(c, 18004, "活动会员明细不存在")
	case errors.Is(err, service.ErrPartnerAlreadyAdded):
		response.Conflict(c, 18005, "该会员已在活动中")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10009, "数据已被其他操作修改，请刷新后重试")
	case errors.Is(err, service.ErrMemberCannotAttend):
		response.BadRequest(c, 16003, "只有家长或学生可以参加活动")
	case errors.Is(err, service.ErrActivityTypeNotFound):
		response.NotFound(c, 12001, "活动类型不存在")
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, 13001, "会员不存在")
	case errors.Is(err, service.ErrProductNotFound):
		response.NotFound(c, 14001, "产品不存在")
	default:
		response.InternalError(c)
	}
}
