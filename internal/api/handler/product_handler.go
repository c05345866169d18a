package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"ampa-activity/internal/dto"
	"ampa-activity/internal/service"
	"ampa-activity/pkg/response"
)

// ProductHandler 产品模块 HTTP 处理器
type ProductHandler struct {
	productSvc service.ProductService
}

// NewProductHandler 创建 ProductHandler
func NewProductHandler(productSvc service.ProductService) *ProductHandler {
	return &ProductHandler{productSvc: productSvc}
}

// ListProducts 分页查询产品
// GET /api/v1/products?keyword=&page=&page_size=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var req dto.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	products, total, err := h.productSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, products, total, req.GetPage(), req.GetPageSize())
}

// GetProduct 获取产品详情
// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleProductError(c, err)
		return
	}

	response.OK(c, product)
}

// CreateProduct 创建产品
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	product, err := h.productSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleProductError(c, err)
		return
	}

	response.Created(c, product)
}

// UpdateProduct 更新产品
// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	product, err := h.productSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleProductError(c, err)
		return
	}

	response.OK(c, product)
}

// DeleteProduct 删除产品
// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleProductError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *ProductHandler) handleProductError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		response.NotFound(c, 14001, "产品不存在")
	default:
		response.InternalError(c)
	}
}
