package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"admin-panel-api/internal/domain/product"
	pkgerrors "admin-panel-api/pkg/errors"
	"admin-panel-api/pkg/security"
)

// ProductRepo implements the product repository on top of GORM. It works
// against both the postgres and the sqlite driver.
type ProductRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewProductRepo creates a new instance of ProductRepo.
func NewProductRepo(db *gorm.DB, log *zap.Logger) *ProductRepo {
	return &ProductRepo{db: db, log: log}
}

// ProductSchema represents the database schema for the products table.
type ProductSchema struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	SKU         string `gorm:"not null;uniqueIndex;size:32"`
	Name        string `gorm:"not null;size:120"`
	Description string `gorm:"size:2000"`
	PriceCents  int64  `gorm:"not null"`
	Stock       int64  `gorm:"not null"`
	Status      string `gorm:"not null;size:16;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for the ProductSchema model.
func (ProductSchema) TableName() string {
	return "products"
}

func toProductModel(p *product.Product) ProductSchema {
	return ProductSchema{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Stock:       p.Stock,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductDomain(m *ProductSchema) *product.Product {
	return &product.Product{
		ID:          m.ID,
		SKU:         m.SKU,
		Name:        m.Name,
		Description: m.Description,
		PriceCents:  m.PriceCents,
		Stock:       m.Stock,
		Status:      product.Status(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Create inserts a new product into the database.
func (r *ProductRepo) Create(ctx context.Context, p *product.Product) (int64, error) {
	if p == nil {
		return 0, errors.New("product cannot be nil")
	}

	model := toProductModel(p)
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create product in db", zap.Error(err), zap.String("sku", p.SKU))
		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	r.log.Info("product created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Update updates an existing product in the database.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) (int64, error) {
	if p == nil {
		return 0, errors.New("product cannot be nil")
	}

	model := toProductModel(p)

	res := r.db.WithContext(ctx).Save(&model)
	if res.Error != nil {
		r.log.Error("failed to update product in db", zap.Error(res.Error), zap.Int64("id", p.ID))
		return 0, fmt.Errorf("failed to update product: %w", res.Error)
	}

	r.log.Info("product updated in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Delete removes a product from the database by ID.
func (r *ProductRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, pkgerrors.NewValidationError("id", "invalid product id")
	}

	res := r.db.WithContext(ctx).Delete(&ProductSchema{}, id)
	if res.Error != nil {
		r.log.Error("failed to delete product in db", zap.Error(res.Error), zap.Int64("id", id))
		return 0, fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Warn("product not found for delete", zap.Int64("id", id))
		return 0, pkgerrors.NewNotFoundError("product", fmt.Sprintf("product not found: id=%d", id))
	}

	r.log.Info("product deleted in db", zap.Int64("id", id))
	return id, nil
}

// GetByID retrieves a product from the database by its unique ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var model ProductSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("product not found", zap.Int64("id", id))
			return nil, pkgerrors.NewNotFoundError("product", fmt.Sprintf("product not found: id=%d", id))
		}
		r.log.Error("failed to get product from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return toProductDomain(&model), nil
}

// GetBySKU retrieves a product by SKU, returning (nil, nil) when absent.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	var model ProductSchema
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("product not found by sku", zap.String("sku", sku))
			return nil, nil
		}
		r.log.Error("failed to get product by sku from db", zap.Error(err), zap.String("sku", sku))
		return nil, fmt.Errorf("failed to get product by sku: %w", err)
	}

	return toProductDomain(&model), nil
}

// List retrieves products with pagination, search and status filtering,
// returning the page plus the total number of matching records.
func (r *ProductRepo) List(ctx context.Context, f product.Filter) ([]product.Product, int64, error) {
	tx := r.db.WithContext(ctx).Model(&ProductSchema{})

	if f.Query != "" {
		vetted, err := security.ValidateSearchQuery(f.Query)
		if err != nil {
			r.log.Warn("rejected product search query", zap.String("query", f.Query), zap.Error(err))
			return nil, 0, pkgerrors.NewValidationError("query", err.Error())
		}
		pattern := "%" + strings.ToLower(security.SanitizeSearchString(vetted)) + "%"
		tx = tx.Where("LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(sku) LIKE ? ESCAPE '\\'", pattern, pattern)
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", string(f.Status))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		r.log.Error("failed to count products in db", zap.Error(err), zap.String("query", f.Query))
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var models []ProductSchema
	if err := tx.Order("id").Offset(int((f.Page - 1) * f.Limit)).Limit(int(f.Limit)).Find(&models).Error; err != nil {
		r.log.Error("failed to list products from db", zap.Error(err), zap.String("query", f.Query), zap.Int64("page", f.Page), zap.Int64("limit", f.Limit))
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	items := make([]product.Product, len(models))
	for i := range models {
		items[i] = *toProductDomain(&models[i])
	}

	return items, total, nil
}
