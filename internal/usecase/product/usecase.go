package product

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"admin-panel-api/internal/domain/listing"
	domain "admin-panel-api/internal/domain/product"
	"admin-panel-api/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// Repository defines the interface for product data access operations.
// It abstracts the data layer, allowing the in-memory, sqlite and postgres
// implementations to be used interchangeably. GetBySKU returns (nil, nil)
// when no product carries the SKU; List returns the page plus the total
// number of matching records.
type Repository interface {
	Create(ctx context.Context, p *domain.Product) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, f domain.Filter) ([]domain.Product, int64, error)
}

var skuPattern = regexp.MustCompile(`^[A-Z0-9-]{3,32}$`)

// Usecase implements the business logic for product management operations.
type Usecase struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	v := validator.New()
	_ = v.RegisterValidation("sku", func(fl validator.FieldLevel) bool {
		return skuPattern.MatchString(fl.Field().String())
	})
	return &Usecase{repo: r, log: log, validate: v}
}

// formatValidationError converts validator.ValidationErrors into a typed validation error.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "min":
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
			case "gte":
				messages = append(messages, fmt.Sprintf("%s must be at least %s", e.Field(), e.Param()))
			case "oneof":
				messages = append(messages, fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param()))
			case "sku":
				messages = append(messages, fmt.Sprintf("%s must be 3-32 uppercase letters, digits or hyphens", e.Field()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		field := ""
		if len(validationErrors) == 1 {
			field = validationErrors[0].Field()
		}
		return errors.NewValidationError(field, strings.Join(messages, ", "))
	}
	return err
}

// normalizeSKU uppercases and trims a SKU before validation and lookups.
func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// CreateProduct creates a new product after validating the request and checking SKU uniqueness.
func (uc *Usecase) CreateProduct(ctx context.Context, in CreateProductRequest) (*CreateProductResponse, error) {
	in.SKU = normalizeSKU(in.SKU)
	if in.Status == "" {
		in.Status = string(domain.StatusDraft)
	}

	uc.log.Info("creating product", zap.String("sku", in.SKU), zap.String("name", in.Name))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		uc.log.Error("failed to check existing sku", zap.String("sku", in.SKU), zap.Error(err))
		return nil, errors.NewInternalError("failed to validate sku uniqueness", err)
	}
	if existing != nil {
		uc.log.Warn("sku already exists", zap.String("sku", in.SKU))
		return nil, errors.NewAlreadyExistsError("product", "sku already exists")
	}

	id, err := uc.repo.Create(ctx, &domain.Product{
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Stock:       in.Stock,
		Status:      domain.Status(in.Status),
	})
	if err != nil {
		uc.log.Error("failed to create product", zap.Error(err))
		return nil, err
	}
	return &CreateProductResponse{ID: id}, nil
}

// UpdateProduct applies a partial update to an existing product. Zero-valued
// request fields leave the stored value unchanged.
func (uc *Usecase) UpdateProduct(ctx context.Context, in UpdateProductRequest) (*UpdateProductResponse, error) {
	if in.SKU != "" {
		in.SKU = normalizeSKU(in.SKU)
	}

	uc.log.Info("updating product", zap.Int64("id", in.ID), zap.String("sku", in.SKU))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	current, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Warn("failed to load product for update", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	if in.SKU != "" && in.SKU != current.SKU {
		existing, err := uc.repo.GetBySKU(ctx, in.SKU)
		if err != nil {
			uc.log.Error("failed to check existing sku", zap.String("sku", in.SKU), zap.Error(err))
			return nil, errors.NewInternalError("failed to validate sku uniqueness", err)
		}
		if existing != nil && existing.ID != in.ID {
			uc.log.Warn("sku already exists", zap.String("sku", in.SKU), zap.Int64("existing_id", existing.ID))
			return nil, errors.NewAlreadyExistsError("product", "sku already exists")
		}
		current.SKU = in.SKU
	}

	if in.Name != "" {
		current.Name = in.Name
	}
	if in.Description != nil {
		current.Description = *in.Description
	}
	if in.PriceCents != nil {
		current.PriceCents = *in.PriceCents
	}
	if in.Stock != nil {
		current.Stock = *in.Stock
	}
	if in.Status != "" {
		current.Status = domain.Status(in.Status)
	}

	id, err := uc.repo.Update(ctx, current)
	if err != nil {
		uc.log.Error("failed to update product", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &UpdateProductResponse{ID: id}, nil
}

// DeleteProduct deletes a product after validating the product ID.
func (uc *Usecase) DeleteProduct(ctx context.Context, in DeleteProductRequest) (*DeleteProductResponse, error) {
	uc.log.Info("deleting product", zap.Int64("id", in.ID))

	if in.ID <= 0 {
		uc.log.Warn("delete product validation failed", zap.Int64("id", in.ID), zap.String("reason", "invalid id"))
		return nil, errors.NewValidationError("id", "invalid product id")
	}

	id, err := uc.repo.Delete(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to delete product", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &DeleteProductResponse{ID: id}, nil
}

// GetProduct retrieves a product by ID after validating the request.
func (uc *Usecase) GetProduct(ctx context.Context, in GetProductRequest) (*GetProductResponse, error) {
	if in.ID <= 0 {
		uc.log.Warn("get product validation failed", zap.Int64("id", in.ID), zap.String("reason", "invalid id"))
		return nil, errors.NewValidationError("id", "invalid product id")
	}

	p, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Warn("failed to get product", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &GetProductResponse{Product: toProductDTO(p)}, nil
}

// ListProducts retrieves a paginated list of products with optional search and
// status filtering.
func (uc *Usecase) ListProducts(ctx context.Context, in ListProductsRequest) (*ListProductsResponse, error) {
	in.Page, in.Limit = listing.Clamp(in.Page, in.Limit)

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	uc.log.Info("listing products",
		zap.String("query", in.Query),
		zap.String("status", in.Status),
		zap.Int64("page", in.Page),
		zap.Int64("limit", in.Limit),
	)

	items, total, err := uc.repo.List(ctx, domain.Filter{
		Query:  in.Query,
		Status: domain.Status(in.Status),
		Page:   in.Page,
		Limit:  in.Limit,
	})
	if err != nil {
		uc.log.Error("failed to list products",
			zap.String("query", in.Query),
			zap.Int64("page", in.Page),
			zap.Int64("limit", in.Limit),
			zap.Error(err),
		)
		return nil, err
	}

	products := make([]Product, len(items))
	for i := range items {
		products[i] = toProductDTO(&items[i])
	}

	return &ListProductsResponse{
		Products:   products,
		Pagination: listing.NewPagination(total, in.Page, in.Limit),
	}, nil
}

// toProductDTO maps a domain product onto the transfer shape.
func toProductDTO(p *domain.Product) Product {
	return Product{
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
