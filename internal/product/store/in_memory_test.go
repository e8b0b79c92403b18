package store

import (
	"context"
	"errors"
	"testing"

	perrors "github.com/abgdnv/product-management/internal/product/errors"
	"github.com/abgdnv/product-management/internal/product/store/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *InMemoryStore, products ...db.Product) []db.Product {
	t.Helper()
	saved := make([]db.Product, 0, len(products))
	for _, p := range products {
		require.NoError(t, s.Save(context.Background(), &p))
		saved = append(saved, p)
	}
	return saved
}

func Test_InMemoryStore_SaveAndFind(t *testing.T) {
	// given
	s := NewInMemoryStore()
	ctx := context.Background()
	p := db.Product{Name: "Laptop", Price: 999.99, Quantity: 3, Description: "15 inch"}

	// when
	require.NoError(t, s.Save(ctx, &p))
	found, err := s.FindByID(ctx, p.ID)

	// then
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, p, *found)
}

func Test_InMemoryStore_FindByID_NotFound(t *testing.T) {
	_, err := NewInMemoryStore().FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, perrors.ErrProductNotFound)
}

func Test_InMemoryStore_ListAll(t *testing.T) {
	s := NewInMemoryStore()
	seed(t, s,
		db.Product{Name: "C", Price: 3},
		db.Product{Name: "A", Price: 1},
		db.Product{Name: "B", Price: 2},
	)

	list, err := s.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func Test_InMemoryStore_ListAll_Empty(t *testing.T) {
	list, err := NewInMemoryStore().ListAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func Test_InMemoryStore_Persist(t *testing.T) {
	s := NewInMemoryStore()
	p := seed(t, s, db.Product{Name: "Old", Price: 1, Quantity: 1})[0]

	p.Name = "New"
	require.NoError(t, s.Persist(context.Background(), &p))

	found, err := s.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", found.Name)

	missing := db.Product{ID: 99}
	assert.ErrorIs(t, s.Persist(context.Background(), &missing), perrors.ErrProductNotFound)
}

func Test_InMemoryStore_DeleteByID(t *testing.T) {
	s := NewInMemoryStore()
	p := seed(t, s, db.Product{Name: "X"})[0]

	deleted, err := s.DeleteByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func Test_InMemoryStore_InTx(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		s := NewInMemoryStore()

		err := s.InTx(context.Background(), func(tx ProductStore) error {
			return tx.Save(context.Background(), &db.Product{Name: "kept"})
		})

		require.NoError(t, err)
		list, _ := s.ListAll(context.Background())
		assert.Len(t, list, 1)
	})

	t.Run("rollback restores snapshot", func(t *testing.T) {
		s := NewInMemoryStore()
		existing := seed(t, s, db.Product{Name: "existing", Price: 5})[0]
		boom := errors.New("boom")

		err := s.InTx(context.Background(), func(tx ProductStore) error {
			require.NoError(t, tx.Save(context.Background(), &db.Product{Name: "dropped"}))
			existing.Price = 50
			require.NoError(t, tx.Persist(context.Background(), &existing))
			return boom
		})

		require.ErrorIs(t, err, boom)
		list, _ := s.ListAll(context.Background())
		require.Len(t, list, 1)
		assert.Equal(t, 5.0, list[0].Price)

		next := db.Product{Name: "after"}
		require.NoError(t, s.Save(context.Background(), &next))
		assert.Equal(t, int64(2), next.ID)
	})

	t.Run("nested joins outer", func(t *testing.T) {
		s := NewInMemoryStore()

		err := s.InTx(context.Background(), func(tx ProductStore) error {
			return tx.InTx(context.Background(), func(inner ProductStore) error {
				return inner.Save(context.Background(), &db.Product{Name: "nested"})
			})
		})

		require.NoError(t, err)
		list, _ := s.ListAll(context.Background())
		assert.Len(t, list, 1)
	})
}

func Test_InMemoryStore_CanceledContext(t *testing.T) {
	s := NewInMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Save(ctx, &db.Product{}), context.Canceled)
	assert.ErrorIs(t, s.Ping(ctx), context.Canceled)
}
