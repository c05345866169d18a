package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"ampa-activity/internal/dto"
	"ampa-activity/internal/service"
	"ampa-activity/pkg/response"
)

// LanguageHandler 语言模块 HTTP 处理器
type LanguageHandler struct {
	langSvc service.LanguageService
}

// NewLanguageHandler 创建 LanguageHandler
func NewLanguageHandler(langSvc service.LanguageService) *LanguageHandler {
	return &LanguageHandler{langSvc: langSvc}
}

// ListLanguages 获取语言列表
// GET /api/v1/languages
func (h *LanguageHandler) ListLanguages(c *gin.Context) {
	langs, err := h.langSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": langs})
}

// GetLanguage 获取语言详情
// GET /api/v1/languages/:id
func (h *LanguageHandler) GetLanguage(c *gin.Context) {
	lang, err := h.langSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleLanguageError(c, err)
		return
	}

	response.OK(c, lang)
}

// CreateLanguage 创建语言
// POST /api/v1/languages
func (h *LanguageHandler) CreateLanguage(c *gin.Context) {
	var req dto.LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	lang, err := h.langSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleLanguageError(c, err)
		return
	}

	response.Created(c, lang)
}

// UpdateLanguage 更新语言
// PUT /api/v1/languages/:id
func (h *LanguageHandler) UpdateLanguage(c *gin.Context) {
	var req dto.LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	lang, err := h.langSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleLanguageError(c, err)
		return
	}

	response.OK(c, lang)
}

// DeleteLanguage 删除语言
// DELETE /api/v1/languages/:id
func (h *LanguageHandler) DeleteLanguage(c *gin.Context) {
	if err := h.langSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleLanguageError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *LanguageHandler) handleLanguageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLanguageNotFound):
		response.NotFound(c, 15001, "语言不存在")
	case errors.Is(err, service.ErrLanguageCodeExists):
		response.Conflict(c, 15002, "语言代码已存在")
	default:
		response.InternalError(c)
	}
}
