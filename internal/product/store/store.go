// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/abgdnv/product-management/internal/product/store/db"
)

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// ListAll returns every product ordered by ID.
	// Returns an empty slice if no products exist.
	ListAll(ctx context.Context) ([]db.Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Inside InTx the row stays locked until the transaction ends.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*db.Product, error)

	// Save inserts a new product and sets its assigned ID on p.
	Save(ctx context.Context, p *db.Product) error

	// Persist writes the mutable fields of an existing product.
	// Returns ErrProductNotFound if the product no longer exists.
	Persist(ctx context.Context, p *db.Product) error

	// DeleteByID removes a product by its ID and reports whether a product was removed.
	DeleteByID(ctx context.Context, id int64) (bool, error)

	// InTx runs fn with a store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(tx ProductStore) error) error

	// Ping reports whether the underlying storage is reachable.
	Ping(ctx context.Context) error
}
