package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"ampa-activity/internal/dto"
	"ampa-activity/internal/service"
	"ampa-activity/pkg/response"
)

// ActivityTypeHandler 活动类型模块 HTTP 处理器
type ActivityTypeHandler struct {
	typeSvc service.ActivityTypeService
}

// NewActivityTypeHandler 创建 ActivityTypeHandler
func NewActivityTypeHandler(typeSvc service.ActivityTypeService) *ActivityTypeHandler {
	return &ActivityTypeHandler{typeSvc: typeSvc}
}

// ListActivityTypes 获取活动类型列表
// GET /api/v1/activity-types
func (h *ActivityTypeHandler) ListActivityTypes(c *gin.Context) {
	types, err := h.typeSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": types})
}

// GetActivityType 获取活动类型详情
// GET /api/v1/activity-types/:id
func (h *ActivityTypeHandler) GetActivityType(c *gin.Context) {
	at, err := h.typeSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleActivityTypeError(c, err)
		return
	}

	response.OK(c, at)
}

// CreateActivityType 创建活动类型
// POST /api/v1/activity-types
func (h *ActivityTypeHandler) CreateActivityType(c *gin.Context) {
	var req dto.ActivityTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	at, err := h.typeSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleActivityTypeError(c, err)
		return
	}

	response.Created(c, at)
}

// UpdateActivityType 更新活动类型
// PUT /api/v1/activity-types/:id
func (h *ActivityTypeHandler) UpdateActivityType(c *gin.Context) {
	var req dto.ActivityTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	at, err := h.typeSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleActivityTypeError(c, err)
		return
	}

	response.OK(c, at)
}

// DeleteActivityType 删除活动类型
// DELETE /api/v1/activity-types/:id
func (h *ActivityTypeHandler) DeleteActivityType(c *gin.Context) {
	if err := h.typeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleActivityTypeError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *ActivityTypeHandler) handleActivityTypeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrActivityTypeNotFound):
		response.NotFound(c, 12001, "活动类型不存在")
	case errors.Is(err, service.ErrActivityTypeInUse):
		response.Conflict(c, 12002, "活动类型已被活动引用，无法删除")
	default:
		response.InternalError(c)
	}
}
