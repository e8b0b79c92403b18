package service

import "github.com/abgdnv/product-management/internal/product/store/db"

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int32   `json:"quantity"`
	Description string  `json:"description"`
}

// ProductCreateDto represents the data transfer object for creating a new product.
// Every field must be present; zero values are accepted.
type ProductCreateDto struct {
	Name        *string  `json:"name"        validate:"required,max=255"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Quantity    *int32   `json:"quantity"    validate:"required,gte=0"`
	Description *string  `json:"description" validate:"required"`
}

// ProductUpdateDto carries a partial product update. A nil field leaves the stored value unchanged.
type ProductUpdateDto struct {
	Name        *string  `json:"name"        validate:"omitempty,max=255"`
	Price       *float64 `json:"price"       validate:"omitempty,gte=0"`
	Quantity    *int32   `json:"quantity"    validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
}

// toDto converts a db.Product to a ProductDto.
func toDto(product *db.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Price:       product.Price,
		Quantity:    product.Quantity,
		Description: product.Description,
	}
}

// merge applies the update onto p.
// Text fields change only when a non-empty value is given; numbers only when the value differs.
func merge(p *db.Product, upd ProductUpdateDto) {
	if upd.Name != nil && *upd.Name != "" {
		p.Name = *upd.Name
	}
	if upd.Description != nil && *upd.Description != "" {
		p.Description = *upd.Description
	}
	if upd.Price != nil && *upd.Price != p.Price {
		p.Price = *upd.Price
	}
	if upd.Quantity != nil && *upd.Quantity != p.Quantity {
		p.Quantity = *upd.Quantity
	}
}
