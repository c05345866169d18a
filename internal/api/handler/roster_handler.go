package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"ampa-activity/internal/dto"
	"ampa-activity/internal/service"
	"ampa-activity/pkg/response"
)

// RosterHandler 预登记名单模块 HTTP 处理器
type RosterHandler struct {
	rosterSvc service.RosterService
}

// NewRosterHandler 创建 RosterHandler
func NewRosterHandler(rosterSvc service.RosterService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc}
}

// ListRoster 查询预登记名单
// GET /api/v1/rosters?activity_type_id=
func (h *RosterHandler) ListRoster(c *gin.Context) {
	lines, err := h.rosterSvc.List(c.Request.Context(), c.Query("activity_type_id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": lines})
}

// CreateRoster 登记会员到活动类型
// POST /api/v1/rosters
func (h *RosterHandler) CreateRoster(c *gin.Context) {
	var req dto.RosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	line, err := h.rosterSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	response.Created(c, line)
}

// UpdateRoster 修改名单行的产品
// PUT /api/v1/rosters/:id
func (h *RosterHandler) UpdateRoster(c *gin.Context) {
	var req dto.UpdateRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	line, err := h.rosterSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	response.OK(c, line)
}

// DeleteRoster 删除名单行
// DELETE /api/v1/rosters/:id
func (h *RosterHandler) DeleteRoster(c *gin.Context) {
	if err := h.rosterSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleRosterError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *RosterHandler) handleRosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRosterNotFound):
		response.NotFound(c, 16001, "预登记记录不存在")
	case errors.Is(err, service.ErrRosterDuplicate):
		response.Conflict(c, 16002, "该会员已登记此活动类型")
	case errors.Is(err, service.ErrMemberCannotAttend):
		response.BadRequest(c, 16003, "只有家长或学生可以登记活动")
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
