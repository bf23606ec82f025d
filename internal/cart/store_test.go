package cart

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/angelmondragon/storefront-core/internal/storage"
	"github.com/angelmondragon/storefront-core/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, blobs storage.Store) *Store {
	t.Helper()
	if blobs == nil {
		blobs = storage.NewMemory()
	}
	s, err := New(context.Background(), Params{
		Storage: blobs,
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return s
}

func headphonesRef() ProductRef {
	return ProductRef{
		ID:    "p1",
		Name:  "Headphones",
		Price: decimal.RequireFromString("10"),
		Image: "/images/p1.jpg",
		Stock: 5,
	}
}

func TestAddItemTwiceIncrementsQuantity(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	s.AddItem(ctx, headphonesRef())
	s.AddItem(ctx, headphonesRef())

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, s.TotalItems())
	assert.True(t, s.TotalPrice().Equal(decimal.RequireFromString("20")))
}

func TestAddItemClampsAtStock(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	ref := headphonesRef()
	for i := 0; i < 10; i++ {
		s.AddItem(ctx, ref)
	}

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, ref.Stock, items[0].Quantity, "adds past the ceiling are silent no-ops")
}

func TestAddItemWithZeroStock(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	ref := ProductRef{ID: "p9", Name: "Sold out", Price: decimal.RequireFromString("3.50")}
	s.AddItem(ctx, ref)
	s.AddItem(ctx, ref)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity, "zero-stock items enter at quantity 1 and never grow")
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)
	s.AddItem(ctx, headphonesRef())

	s.UpdateQuantity(ctx, "p1", 99)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, 5, s.Items()[0].Quantity, "quantity clamps to the stock snapshot")

	s.UpdateQuantity(ctx, "p1", 3)
	assert.Equal(t, 3, s.Items()[0].Quantity)

	s.UpdateQuantity(ctx, "missing", 2)
	assert.Equal(t, 3, s.Items()[0].Quantity, "unknown id is a no-op")

	s.UpdateQuantity(ctx, "p1", 0)
	assert.Empty(t, s.Items(), "quantities below 1 remove the line item")
}

func TestRemoveItemAndClear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)
	s.AddItem(ctx, headphonesRef())
	s.AddItem(ctx, ProductRef{ID: "p2", Name: "Lamp", Price: decimal.RequireFromString("64.50"), Stock: 2})

	s.RemoveItem(ctx, "p1")
	require.Len(t, s.Items(), 1)
	assert.Equal(t, "p2", s.Items()[0].ID)

	s.RemoveItem(ctx, "p1")
	require.Len(t, s.Items(), 1, "removing an absent id is a no-op")

	s.Clear(ctx)
	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalItems())
	assert.True(t, s.TotalPrice().IsZero())
}

func TestDerivedTotals(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	s.AddItem(ctx, headphonesRef())
	s.AddItem(ctx, headphonesRef())
	s.AddItem(ctx, ProductRef{ID: "p2", Name: "Lamp", Price: decimal.RequireFromString("64.50"), Stock: 9})
	s.UpdateQuantity(ctx, "p2", 3)

	assert.Equal(t, 5, s.TotalItems())
	assert.True(t, s.TotalPrice().Equal(decimal.RequireFromString("213.50")),
		"expected 2*10 + 3*64.50, got %s", s.TotalPrice())
}

func TestInvariantHoldsAcrossOperationSequences(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	refs := []ProductRef{
		{ID: "a", Name: "A", Price: decimal.RequireFromString("1.25"), Stock: 3},
		{ID: "b", Name: "B", Price: decimal.RequireFromString("7"), Stock: 1},
		{ID: "c", Name: "C", Price: decimal.RequireFromString("0.99"), Stock: 8},
	}
	for i := 0; i < 25; i++ {
		s.AddItem(ctx, refs[i%len(refs)])
	}
	s.UpdateQuantity(ctx, "c", 100)
	s.UpdateQuantity(ctx, "a", -4)
	s.RemoveItem(ctx, "b")
	s.AddItem(ctx, refs[0])

	wantItems := 0
	wantPrice := decimal.Zero
	seen := map[string]bool{}
	for _, item := range s.Items() {
		require.False(t, seen[item.ID], "duplicate line item %s", item.ID)
		seen[item.ID] = true
		assert.GreaterOrEqual(t, item.Quantity, 1)
		assert.LessOrEqual(t, item.Quantity, item.Stock)
		wantItems += item.Quantity
		wantPrice = wantPrice.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.Equal(t, wantItems, s.TotalItems())
	assert.True(t, wantPrice.Equal(s.TotalPrice()))
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemory()

	s := newTestStore(t, blobs)
	s.AddItem(ctx, headphonesRef())
	s.AddItem(ctx, ProductRef{ID: "p2", Name: "Lamp", Price: decimal.RequireFromString("64.50"), Stock: 9})
	s.AddItem(ctx, headphonesRef())
	s.UpdateQuantity(ctx, "p2", 4)
	before := s.Items()

	// A new store over the same storage models a process restart.
	restarted := newTestStore(t, blobs)
	after := restarted.Items()

	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID, "order must survive the round trip")
		assert.Equal(t, before[i].Quantity, after[i].Quantity)
		assert.Equal(t, before[i].Stock, after[i].Stock)
		assert.True(t, before[i].Price.Equal(after[i].Price))
	}
}

func TestRehydrateIgnoresCorruptBlob(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemory()
	require.NoError(t, blobs.Save(ctx, StorageKey, []byte("not json")))

	s := newTestStore(t, blobs)
	assert.Empty(t, s.Items())
}

type failingSaves struct {
	*storage.Memory
}

func (f failingSaves) Save(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestPersistenceFailureKeepsMemoryAuthoritative(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, failingSaves{storage.NewMemory()})

	s.AddItem(ctx, headphonesRef())
	s.AddItem(ctx, headphonesRef())

	require.Len(t, s.Items(), 1)
	assert.Equal(t, 2, s.Items()[0].Quantity)
}
