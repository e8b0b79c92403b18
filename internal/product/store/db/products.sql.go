package db

import (
	"context"
)

const listAll = `-- name: ListAll :many
SELECT id, name, price, quantity, description
FROM products
ORDER BY id
`

func (q *Queries) ListAll(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listAll)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		var i Product
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Price,
			&i.Quantity,
			&i.Description,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findByID = `-- name: FindByID :one
SELECT id, name, price, quantity, description
FROM products
WHERE id = $1
`

func (q *Queries) FindByID(ctx context.Context, id int64) (Product, error) {
	row := q.db.QueryRow(ctx, findByID, id)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Price,
		&i.Quantity,
		&i.Description,
	)
	return i, err
}

const findByIDForUpdate = `-- name: FindByIDForUpdate :one
SELECT id, name, price, quantity, description
FROM products
WHERE id = $1
FOR UPDATE
`

func (q *Queries) FindByIDForUpdate(ctx context.Context, id int64) (Product, error) {
	row := q.db.QueryRow(ctx, findByIDForUpdate, id)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Price,
		&i.Quantity,
		&i.Description,
	)
	return i, err
}

const create = `-- name: Create :one
INSERT INTO products (name, price, quantity, description)
VALUES ($1, $2, $3, $4)
RETURNING id, name, price, quantity, description
`

type CreateParams struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int32   `json:"quantity"`
	Description string  `json:"description"`
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Product, error) {
	row := q.db.QueryRow(ctx, create,
		arg.Name,
		arg.Price,
		arg.Quantity,
		arg.Description,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Price,
		&i.Quantity,
		&i.Description,
	)
	return i, err
}

const update = `-- name: Update :one
UPDATE products
SET name        = $2,
    price       = $3,
    quantity    = $4,
    description = $5
WHERE id = $1
RETURNING id, name, price, quantity, description
`

type UpdateParams struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int32   `json:"quantity"`
	Description string  `json:"description"`
}

func (q *Queries) Update(ctx context.Context, arg UpdateParams) (Product, error) {
	row := q.db.QueryRow(ctx, update,
		arg.ID,
		arg.Name,
		arg.Price,
		arg.Quantity,
		arg.Description,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Price,
		&i.Quantity,
		&i.Description,
	)
	return i, err
}

const deleteProduct = `-- name: Delete :execrows
DELETE FROM products
WHERE id = $1
`

func (q *Queries) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
