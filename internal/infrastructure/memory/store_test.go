package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/page"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/sale"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/stock"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newPack(id, owner, name string) *product.Product {
	return product.NewPack(id, owner, product.PackAttributes{
		Name:             name,
		PackQuantity:     1,
		ProductsPerPack:  10,
		BuyPricePerPack:  d("5"),
		SellPricePerUnit: d("1"),
	})
}

func TestProductInsertRejectsDuplicateNamePerOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Products()

	require.NoError(t, repo.Insert(ctx, newPack("p-1", "alice", "Cookies")))
	assert.ErrorIs(t, repo.Insert(ctx, newPack("p-2", "alice", "Cookies")), product.ErrDuplicateName)
	assert.NoError(t, repo.Insert(ctx, newPack("p-3", "bob", "Cookies")))
	assert.NoError(t, repo.Insert(ctx, newPack("p-4", "alice", "cookies")))
}

func TestProductUpdateKeepsStockAndChecksRename(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Products()
	require.NoError(t, repo.Insert(ctx, newPack("p-1", "alice", "Cookies")))
	require.NoError(t, repo.Insert(ctx, newPack("p-2", "alice", "Candy")))
	_, err := repo.AddStock(ctx, "alice", "p-1", d("7"))
	require.NoError(t, err)

	p, err := repo.Get(ctx, "alice", "p-1")
	require.NoError(t, err)
	p.CurrentStock = d("999")
	p.Name = "Cookies"
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.Get(ctx, "alice", "p-1")
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(d("7")))

	p.Name = "Candy"
	assert.ErrorIs(t, repo.Update(ctx, p), product.ErrDuplicateName)
}

func TestProductOwnerScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Products()
	require.NoError(t, repo.Insert(ctx, newPack("p-1", "alice", "Cookies")))

	_, err := repo.Get(ctx, "bob", "p-1")
	assert.ErrorIs(t, err, product.ErrNotFound)
	_, err = repo.AddStock(ctx, "bob", "p-1", d("1"))
	assert.ErrorIs(t, err, product.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "bob", "p-1"), product.ErrNotFound)

	found, err := repo.FindByIDs(ctx, "bob", []string{"p-1"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestAddStockGuardsNegative(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Products()
	require.NoError(t, repo.Insert(ctx, newPack("p-1", "alice", "Cookies")))
	_, err := repo.AddStock(ctx, "alice", "p-1", d("10"))
	require.NoError(t, err)

	_, err = repo.AddStock(ctx, "alice", "p-1", d("-12"))
	assert.ErrorIs(t, err, product.ErrInsufficientStock)

	change, err := repo.AddStock(ctx, "alice", "p-1", d("-10"))
	require.NoError(t, err)
	assert.True(t, change.Previous.Equal(d("10")))
	assert.True(t, change.Next.IsZero())
	assert.True(t, change.Delta().Equal(d("-10")))
}

func TestSetStock(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Products()
	require.NoError(t, repo.Insert(ctx, newPack("p-1", "alice", "Cookies")))

	_, err := repo.SetStock(ctx, "alice", "p-1", d("-1"))
	assert.ErrorIs(t, err, product.ErrNegativeStock)

	change, err := repo.SetStock(ctx, "alice", "p-1", d("15"))
	require.NoError(t, err)
	assert.True(t, change.Previous.IsZero())
	assert.True(t, change.Next.Equal(d("15")))
}

func TestListOrderingAndPaging(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Products()
	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Insert(ctx, newPack(fmt.Sprintf("p-%d", i), "alice", fmt.Sprintf("Item %d", i))))
	}
	require.NoError(t, repo.Insert(ctx, newPack("p-x", "bob", "Other")))

	items, total, err := repo.List(ctx, "alice", page.Request{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, items, 2)
	assert.Equal(t, "p-3", items[0].ID)
	assert.Equal(t, "p-2", items[1].ID)

	_, err = repo.AddStock(ctx, "alice", "p-4", d("1"))
	require.NoError(t, err)
	_, err = repo.AddStock(ctx, "alice", "p-2", d("1"))
	require.NoError(t, err)

	available, err := repo.ListAvailable(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, "Item 2", available[0].Name)
	assert.Equal(t, "Item 4", available[1].Name)

	unstocked, err := repo.ListUnstocked(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, unstocked, 3)
}

func TestDeleteRemovesMovementsOnly(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	products, movements, sales := store.Products(), store.Movements(), store.Sales()

	require.NoError(t, products.Insert(ctx, newPack("p-1", "alice", "Cookies")))
	require.NoError(t, movements.Append(ctx, stock.NewMovement("m-1", "alice", "p-1", d("0"), d("5"), stock.ReasonRestock, "")))
	require.NoError(t, sales.Insert(ctx, &sale.Sale{
		ID: "s-1", OwnerID: "alice", SaleNumber: "SALE-1-001", CreatedAt: time.Now(),
		Lines: []sale.Line{{ID: "l-1", ProductID: "p-1", ProductName: "Cookies"}},
	}))

	require.NoError(t, products.Delete(ctx, "alice", "p-1"))

	_, err := products.Get(ctx, "alice", "p-1")
	assert.ErrorIs(t, err, product.ErrNotFound)
	_, total, err := movements.ListByProduct(ctx, "alice", "p-1", page.Request{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	s, err := sales.Get(ctx, "alice", "s-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", s.Lines[0].ProductID)
	assert.Equal(t, "Cookies", s.Lines[0].ProductName)
}

func TestWithinTxRollsBackEveryTable(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	products, movements, sales := store.Products(), store.Movements(), store.Sales()
	require.NoError(t, products.Insert(ctx, newPack("p-1", "alice", "Cookies")))
	_, err := products.AddStock(ctx, "alice", "p-1", d("10"))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.WithinTx(ctx, func(ctx context.Context) error {
		if err := sales.Insert(ctx, &sale.Sale{ID: "s-1", OwnerID: "alice", SaleNumber: "n", CreatedAt: time.Now()}); err != nil {
			return err
		}
		if _, err := products.AddStock(ctx, "alice", "p-1", d("-4")); err != nil {
			return err
		}
		if err := movements.Append(ctx, stock.NewMovement("m-1", "alice", "p-1", d("10"), d("6"), stock.ReasonSale, "n")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := products.Get(ctx, "alice", "p-1")
	require.NoError(t, err)
	assert.True(t, p.CurrentStock.Equal(d("10")))
	_, err = sales.Get(ctx, "alice", "s-1")
	assert.ErrorIs(t, err, sale.ErrNotFound)
	_, total, err := movements.ListByProduct(ctx, "alice", "p-1", page.Request{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestWithinTxRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	products := store.Products()
	require.NoError(t, products.Insert(ctx, newPack("p-1", "alice", "Cookies")))

	assert.Panics(t, func() {
		_ = store.WithinTx(ctx, func(ctx context.Context) error {
			_, _ = products.AddStock(ctx, "alice", "p-1", d("3"))
			panic("boom")
		})
	})

	p, err := products.Get(ctx, "alice", "p-1")
	require.NoError(t, err)
	assert.True(t, p.CurrentStock.IsZero())
}

func TestNestedWithinTxJoins(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	products := store.Products()
	require.NoError(t, products.Insert(ctx, newPack("p-1", "alice", "Cookies")))

	err := store.WithinTx(ctx, func(ctx context.Context) error {
		return store.WithinTx(ctx, func(ctx context.Context) error {
			_, err := products.AddStock(ctx, "alice", "p-1", d("2"))
			return err
		})
	})
	require.NoError(t, err)

	p, err := products.Get(ctx, "alice", "p-1")
	require.NoError(t, err)
	assert.True(t, p.CurrentStock.Equal(d("2")))
}

func TestSalesSummaryAndRecent(t *testing.T) {
	ctx := context.Background()
	sales := NewStore().Sales()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		require.NoError(t, sales.Insert(ctx, &sale.Sale{
			ID:          fmt.Sprintf("s-%d", i),
			OwnerID:     "alice",
			SaleNumber:  fmt.Sprintf("SALE-%d", i),
			TotalAmount: d("10.50"),
			TotalItems:  d("1.5"),
			CreatedAt:   base.AddDate(0, 0, i),
		}))
	}
	require.NoError(t, sales.Insert(ctx, &sale.Sale{ID: "s-bob", OwnerID: "bob", SaleNumber: "SALE-0", TotalAmount: d("100"), CreatedAt: base}))
	assert.ErrorIs(t, sales.Insert(ctx, &sale.Sale{ID: "s-dup", OwnerID: "alice", SaleNumber: "SALE-0"}), sale.ErrConflict)

	sum, err := sales.Summarize(ctx, "alice", sale.Range{})
	require.NoError(t, err)
	assert.Equal(t, 7, sum.TotalSales)
	assert.True(t, sum.TotalRevenue.Equal(d("73.50")))
	assert.True(t, sum.TotalItemsSold.Equal(d("10.5")))

	from := base.AddDate(0, 0, 2)
	to := base.AddDate(0, 0, 4)
	sum, err = sales.Summarize(ctx, "alice", sale.Range{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalSales)

	recent, err := sales.Recent(ctx, "alice", sale.Range{}, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "s-6", recent[0].ID)
	assert.Equal(t, "s-2", recent[4].ID)
}

func TestUserUpsert(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	_, err := users.Get(ctx, "alice")
	assert.ErrorIs(t, err, user.ErrNotFound)

	require.NoError(t, users.Upsert(ctx, &user.User{ID: "alice", FullName: "Alice A."}))
	require.NoError(t, users.Upsert(ctx, &user.User{ID: "alice", FullName: "Alice B."}))
	u, err := users.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", u.FullName)
}
