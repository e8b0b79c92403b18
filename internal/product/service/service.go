// Package service provides the implementation of product-related business logic.
package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/abgdnv/product-management/internal/product/store"
	"github.com/abgdnv/product-management/internal/product/store/db"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "product-service"

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns all products ordered by price, cheapest first.
	// Products with equal prices keep their storage order.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// Create adds a new product and returns it with its assigned ID.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update merges the given fields into an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductDto, error)

	// DeleteByID removes a product and reports whether it existed.
	DeleteByID(ctx context.Context, id int64) (bool, error)

	// CheckStock reports whether at least count units are in stock.
	// Returns ErrProductNotFound if no product exists with the given ID.
	CheckStock(ctx context.Context, id int64, count int32) (bool, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository     store.ProductStore
	tracer         trace.Tracer
	createdCounter metric.Int64Counter
	updatedCounter metric.Int64Counter
	deletedCounter metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore) *Service {
	meter := otel.Meter(instrumentationName)
	return &Service{
		repository:     repo,
		tracer:         otel.Tracer(instrumentationName),
		createdCounter: mustCounter(meter, "products_created", "Total number of created products"),
		updatedCounter: mustCounter(meter, "products_updated", "Total number of updated products"),
		deletedCounter: mustCounter(meter, "products_deleted", "Total number of deleted products"),
	}
}

func mustCounter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		panic(fmt.Sprintf("failed to create %s counter: %v", name, err))
	}
	return counter
}

// startSpan opens a span named after the operation; end records err on it.
func (s *Service) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(err error)) {
	ctx, span := s.tracer.Start(ctx, "ProductService."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// FindAll retrieves all products sorted by price.
func (s *Service) FindAll(ctx context.Context) (list []ProductDto, err error) {
	ctx, end := s.startSpan(ctx, "FindAll")
	defer func() { end(err) }()

	products, err := s.repository.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	slices.SortStableFunc(products, func(a, b db.Product) int {
		return cmp.Compare(a.Price, b.Price)
	})

	list = make([]ProductDto, len(products))
	for i, item := range products {
		list[i] = *toDto(&item)
	}
	return list, nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Service) FindByID(ctx context.Context, id int64) (dto *ProductDto, err error) {
	ctx, end := s.startSpan(ctx, "FindByID", attribute.Int64("product.id", id))
	defer func() { end(err) }()

	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return toDto(product), nil
}

// Create stores a new product inside a transaction.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (dto *ProductDto, err error) {
	ctx, end := s.startSpan(ctx, "Create")
	defer func() { end(err) }()

	p := db.Product{
		Name:        *product.Name,
		Price:       *product.Price,
		Quantity:    *product.Quantity,
		Description: *product.Description,
	}
	err = s.repository.InTx(ctx, func(tx store.ProductStore) error {
		return tx.Save(ctx, &p)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.createdCounter.Add(ctx, 1)
	return toDto(&p), nil
}

// Update loads, merges and persists the product within a single transaction.
func (s *Service) Update(ctx context.Context, id int64, product ProductUpdateDto) (dto *ProductDto, err error) {
	ctx, end := s.startSpan(ctx, "Update", attribute.Int64("product.id", id))
	defer func() { end(err) }()

	var updated *db.Product
	err = s.repository.InTx(ctx, func(tx store.ProductStore) error {
		p, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		merge(p, product)
		if err := tx.Persist(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	s.updatedCounter.Add(ctx, 1)
	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID inside a transaction.
func (s *Service) DeleteByID(ctx context.Context, id int64) (deleted bool, err error) {
	ctx, end := s.startSpan(ctx, "DeleteByID", attribute.Int64("product.id", id))
	defer func() { end(err) }()

	err = s.repository.InTx(ctx, func(tx store.ProductStore) error {
		var err error
		deleted, err = tx.DeleteByID(ctx, id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	if deleted {
		s.deletedCounter.Add(ctx, 1)
	}
	return deleted, nil
}

// CheckStock compares the stored quantity with count.
func (s *Service) CheckStock(ctx context.Context, id int64, count int32) (ok bool, err error) {
	ctx, end := s.startSpan(ctx, "CheckStock", attribute.Int64("product.id", id), attribute.Int("count", int(count)))
	defer func() { end(err) }()

	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check stock for product with ID %d: %w", id, err)
	}
	return product.Quantity >= count, nil
}
