package product

import (
	"time"

	"admin-panel-api/internal/domain/listing"
)

// CreateProductRequest carries the fields accepted when creating a product.
// Status falls back to draft when empty.
type CreateProductRequest struct {
	SKU         string `validate:"required,sku"`
	Name        string `validate:"required,min=3,max=120"`
	Description string `validate:"max=2000"`
	PriceCents  int64  `validate:"gte=0"`
	Stock       int64  `validate:"gte=0"`
	Status      string `validate:"omitempty,oneof=active draft archived"`
}

// CreateProductResponse returns the assigned ID.
type CreateProductResponse struct {
	ID int64
}

// UpdateProductRequest updates an existing product. Zero-valued fields are
// left unchanged; numeric fields use pointers so an explicit zero can be
// told apart from an omitted value.
type UpdateProductRequest struct {
	ID          int64  `validate:"required"`
	SKU         string `validate:"omitempty,sku"`
	Name        string `validate:"omitempty,min=3,max=120"`
	Description *string
	PriceCents  *int64 `validate:"omitempty,gte=0"`
	Stock       *int64 `validate:"omitempty,gte=0"`
	Status      string `validate:"omitempty,oneof=active draft archived"`
}

// UpdateProductResponse returns the updated ID.
type UpdateProductResponse struct {
	ID int64
}

// DeleteProductRequest names the product to remove.
type DeleteProductRequest struct {
	ID int64
}

// DeleteProductResponse returns the removed ID.
type DeleteProductResponse struct {
	ID int64
}

// GetProductRequest names the product to fetch.
type GetProductRequest struct {
	ID int64
}

// GetProductResponse wraps a single product.
type GetProductResponse struct {
	Product Product
}

// ListProductsRequest selects a page of products with optional search and
// status filtering.
type ListProductsRequest struct {
	Query  string
	Status string `validate:"omitempty,oneof=active draft archived"`
	Page   int64
	Limit  int64
}

// ListProductsResponse is one page of products plus the paging block.
type ListProductsResponse struct {
	Products   []Product
	Pagination *listing.Pagination
}

// Product is the outbound product shape.
type Product struct {
	ID          int64
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	Stock       int64
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
