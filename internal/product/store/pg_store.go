package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/product-management/internal/product/errors"
	"github.com/abgdnv/product-management/internal/product/store/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
	q  *db.Queries
	tx pgx.Tx
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
		q:  db.New(dbp),
	}
}

// ListAll retrieves all products ordered by ID.
func (p *PgStore) ListAll(ctx context.Context) ([]db.Product, error) {
	products, err := p.q.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*db.Product, error) {
	find := p.q.FindByID
	if p.tx != nil {
		find = p.q.FindByIDForUpdate
	}
	product, err := find(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// Save inserts a new product and copies the stored row back into product.
func (p *PgStore) Save(ctx context.Context, product *db.Product) error {
	created, err := p.q.Create(ctx, db.CreateParams{
		Name:        product.Name,
		Price:       product.Price,
		Quantity:    product.Quantity,
		Description: product.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	*product = created
	return nil
}

// Persist writes all mutable fields of product.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Persist(ctx context.Context, product *db.Product) error {
	updated, err := p.q.Update(ctx, db.UpdateParams{
		ID:          product.ID,
		Name:        product.Name,
		Price:       product.Price,
		Quantity:    product.Quantity,
		Description: product.Description,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return perrors.ErrProductNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	*product = updated
	return nil
}

// DeleteByID removes a product by its unique identifier.
func (p *PgStore) DeleteByID(ctx context.Context, id int64) (bool, error) {
	count, err := p.q.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete product by ID: %w", err)
	}
	return count > 0, nil
}

// InTx runs fn inside a database transaction. A store already bound to a transaction reuses it.
func (p *PgStore) InTx(ctx context.Context, fn func(tx ProductStore) error) error {
	if p.tx != nil {
		return fn(p)
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrTransactionBegin, err)
	}
	txStore := &PgStore{
		db: p.db,
		q:  p.q.WithTx(tx),
		tx: tx,
	}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w: %w", perrors.ErrTransactionRollback, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrTransactionCommit, err)
	}
	return nil
}

// Ping checks the connection pool.
func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}
