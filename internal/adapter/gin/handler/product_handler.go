package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"admin-panel-api/internal/adapter/gin/response"
	"admin-panel-api/internal/usecase/product"
	pkgerrors "admin-panel-api/pkg/errors"
)

// ProductUsecase is the product operation surface the handler calls.
type ProductUsecase interface {
	CreateProduct(ctx context.Context, in product.CreateProductRequest) (*product.CreateProductResponse, error)
	GetProduct(ctx context.Context, in product.GetProductRequest) (*product.GetProductResponse, error)
	UpdateProduct(ctx context.Context, in product.UpdateProductRequest) (*product.UpdateProductResponse, error)
	DeleteProduct(ctx context.Context, in product.DeleteProductRequest) (*product.DeleteProductResponse, error)
	ListProducts(ctx context.Context, in product.ListProductsRequest) (*product.ListProductsResponse, error)
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	uc  ProductUsecase
	log *zap.Logger
}

// NewProductHandler creates a new ProductHandler instance
func NewProductHandler(uc ProductUsecase, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		uc:  uc,
		log: log,
	}
}

// CreateProductRequest represents the HTTP request body for creating a product
type CreateProductRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Stock       int64  `json:"stock"`
	Status      string `json:"status"`
}

// UpdateProductRequest represents the HTTP request body for updating a product.
// Omitted fields are left unchanged; pointer fields distinguish an explicit
// zero from an omitted value.
type UpdateProductRequest struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	Stock       *int64  `json:"stock"`
	Status      string  `json:"status"`
}

// ProductResponse represents the HTTP response for product data
type ProductResponse struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Stock       int64     `json:"stock"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListProductsResponse represents the HTTP response for listing products
type ListProductsResponse struct {
	Items      []ProductResponse    `json:"items"`
	Pagination *response.Pagination `json:"pagination,omitempty"`
}

func toProductResponse(p product.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Stock:       p.Stock,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// parseIDParam reads the :id path parameter. On failure it writes a
// validation error response and reports false.
func parseIDParam(c *gin.Context, log *zap.Logger) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		log.Warn("invalid id parameter", zap.String("id", idStr))
		response.Error(c, pkgerrors.NewValidationError("id", "must be a positive integer"))
		return 0, false
	}
	return id, true
}

// parsePageParams reads page and limit query parameters with defaults and caps.
func parsePageParams(c *gin.Context) (int64, int64) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}

// CreateProduct handles POST /v1/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create product request", zap.Error(err))
		response.Error(c, pkgerrors.NewValidationError("body", err.Error()))
		return
	}

	resp, err := h.uc.CreateProduct(c.Request.Context(), product.CreateProductRequest{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		Status:      req.Status,
	})
	if err != nil {
		h.log.Warn("create product failed", zap.Error(err))
		response.Error(c, err)
		return
	}

	response.Created(c, "product created", gin.H{"id": resp.ID})
}

// GetProduct handles GET /v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, h.log)
	if !ok {
		return
	}

	resp, err := h.uc.GetProduct(c.Request.Context(), product.GetProductRequest{ID: id})
	if err != nil {
		h.log.Warn("get product failed", zap.Int64("id", id), zap.Error(err))
		response.Error(c, err)
		return
	}

	response.OK(c, "product retrieved", toProductResponse(resp.Product))
}

// UpdateProduct handles PUT /v1/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, h.log)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update product request", zap.Error(err))
		response.Error(c, pkgerrors.NewValidationError("body", err.Error()))
		return
	}

	resp, err := h.uc.UpdateProduct(c.Request.Context(), product.UpdateProductRequest{
		ID:          id,
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		Status:      req.Status,
	})
	if err != nil {
		h.log.Warn("update product failed", zap.Int64("id", id), zap.Error(err))
		response.Error(c, err)
		return
	}

	response.OK(c, "product updated", gin.H{"id": resp.ID})
}

// DeleteProduct handles DELETE /v1/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, h.log)
	if !ok {
		return
	}

	resp, err := h.uc.DeleteProduct(c.Request.Context(), product.DeleteProductRequest{ID: id})
	if err != nil {
		h.log.Warn("delete product failed", zap.Int64("id", id), zap.Error(err))
		response.Error(c, err)
		return
	}

	response.OK(c, "product deleted", gin.H{"id": resp.ID})
}

// ListProducts handles GET /v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, limit := parsePageParams(c)

	resp, err := h.uc.ListProducts(c.Request.Context(), product.ListProductsRequest{
		Query:  c.DefaultQuery("query", ""),
		Status: c.DefaultQuery("status", ""),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		h.log.Warn("list products failed", zap.Error(err))
		response.Error(c, err)
		return
	}

	items := make([]ProductResponse, len(resp.Products))
	for i, p := range resp.Products {
		items[i] = toProductResponse(p)
	}

	var pagination *response.Pagination
	if resp.Pagination != nil {
		pagination = &response.Pagination{
			Total:      resp.Pagination.Total,
			Page:       resp.Pagination.Page,
			Limit:      resp.Pagination.Limit,
			TotalPages: resp.Pagination.TotalPages,
		}
	}

	response.OK(c, "products retrieved", ListProductsResponse{
		Items:      items,
		Pagination: pagination,
	})
}
