package gueststate

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teeLine() CartLine {
	return CartLine{
		ProductID:    12,
		SizeID:       3,
		Quantity:     2,
		MaxQuantity:  5,
		ProductName:  "Essential Tee",
		SizeName:     "M",
		ProductPrice: decimal.NewFromInt(1000),
		AddedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestOpenEmptyState(t *testing.T) {
	store, err := Open(NewMemoryStorage(), "guest-1")
	require.NoError(t, err)

	assert.Empty(t, store.CartLines())
	assert.NotNil(t, store.CartLines())
	assert.Empty(t, store.WishlistEntries())
}

func TestOpenMalformedBlobLoadsEmpty(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save("guest-1/cart", "{not json"))
	require.NoError(t, storage.Save("guest-1/wishlist", "42"))

	store, err := Open(storage, "guest-1")
	require.NoError(t, err)
	assert.Empty(t, store.CartLines())
	assert.Empty(t, store.WishlistEntries())
}

func TestOpenCollapsesDuplicateLines(t *testing.T) {
	storage := NewMemoryStorage()
	blob := `[{"product_id":12,"size_id":3,"quantity":2},{"product_id":12,"size_id":3,"quantity":1}]`
	require.NoError(t, storage.Save("guest-1/cart", blob))

	store, err := Open(storage, "guest-1")
	require.NoError(t, err)

	lines := store.CartLines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestAddToCartAggregatesSameProductSize(t *testing.T) {
	store, err := Open(NewMemoryStorage(), "guest-1")
	require.NoError(t, err)

	line := teeLine()
	require.NoError(t, store.AddToCart(line))

	again := line
	again.Quantity = 1
	require.NoError(t, store.AddToCart(again))

	lines := store.CartLines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, "Essential Tee", lines[0].ProductName)
}

func TestAddToCartDifferentSizeIsSeparateLine(t *testing.T) {
	store, err := Open(NewMemoryStorage(), "guest-1")
	require.NoError(t, err)

	require.NoError(t, store.AddToCart(teeLine()))

	other := teeLine()
	other.SizeID = 4
	other.SizeName = "L"
	require.NoError(t, store.AddToCart(other))

	assert.Len(t, store.CartLines(), 2)
	assert.True(t, store.InCart(12, 3))
	assert.True(t, store.InCart(12, 4))
}

func TestSetCartQuantityIdempotent(t *testing.T) {
	storage := NewMemoryStorage()
	store, err := Open(storage, "guest-1")
	require.NoError(t, err)
	require.NoError(t, store.AddToCart(teeLine()))

	require.NoError(t, store.SetCartQuantity(12, 3, 4))
	first, ok, err := storage.Load("guest-1/cart")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.SetCartQuantity(12, 3, 4))
	second, ok, err := storage.Load("guest-1/cart")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, first, second)
	line, _ := store.CartLine(12, 3)
	assert.Equal(t, 4, line.Quantity)
}

func TestSetCartQuantityMissingLineIsNoOp(t *testing.T) {
	storage := NewMemoryStorage()
	store, err := Open(storage, "guest-1")
	require.NoError(t, err)
	require.NoError(t, store.AddToCart(teeLine()))
	before, _, _ := storage.Load("guest-1/cart")

	require.NoError(t, store.SetCartQuantity(99, 1, 7))

	after, _, _ := storage.Load("guest-1/cart")
	assert.Equal(t, before, after)
	assert.Len(t, store.CartLines(), 1)
}

func TestRemoveCartLineIsTotal(t *testing.T) {
	store, err := Open(NewMemoryStorage(), "guest-1")
	require.NoError(t, err)

	line := teeLine()
	line.Quantity = 5
	require.NoError(t, store.AddToCart(line))

	require.NoError(t, store.RemoveCartLine(12, 3))

	assert.False(t, store.InCart(12, 3))
	assert.Empty(t, store.CartLines())
}

func TestRemoveCartLineMissingIsNoOp(t *testing.T) {
	storage := NewMemoryStorage()
	store, err := Open(storage, "guest-1")
	require.NoError(t, err)
	require.NoError(t, store.AddToCart(teeLine()))
	before, _, _ := storage.Load("guest-1/cart")

	require.NoError(t, store.RemoveCartLine(99, 1))

	after, _, _ := storage.Load("guest-1/cart")
	assert.Equal(t, before, after)
}

func TestNoQuantityCapInStore(t *testing.T) {
	store, err := Open(NewMemoryStorage(), "guest-1")
	require.NoError(t, err)

	line := teeLine()
	line.Quantity = 3
	line.MaxQuantity = 5
	require.NoError(t, store.AddToCart(line))

	// The accessor records whatever it is given; the cap belongs to the
	// handler layer.
	require.NoError(t, store.SetCartQuantity(12, 3, 50))

	got, _ := store.CartLine(12, 3)
	assert.Equal(t, 50, got.Quantity)
}

func TestRoundTripThroughStorage(t *testing.T) {
	storage := NewMemoryStorage()
	store, err := Open(storage, "guest-1")
	require.NoError(t, err)

	line := teeLine()
	require.NoError(t, store.AddToCart(line))
	require.NoError(t, store.AddWishlistEntry(WishlistEntry{
		ID:           1709294400000,
		ProductID:    12,
		ProductName:  "Essential Tee",
		ProductPrice: decimal.NewFromInt(1000),
		AddedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}))

	reopened, err := Open(storage, "guest-1")
	require.NoError(t, err)

	require.Len(t, reopened.CartLines(), 1)
	got := reopened.CartLines()[0]
	assert.Equal(t, line.ProductID, got.ProductID)
	assert.Equal(t, line.Quantity, got.Quantity)
	assert.Equal(t, line.MaxQuantity, got.MaxQuantity)
	assert.True(t, line.ProductPrice.Equal(got.ProductPrice))
	assert.True(t, line.AddedAt.Equal(got.AddedAt))

	require.Len(t, reopened.WishlistEntries(), 1)
	assert.Equal(t, int64(1709294400000), reopened.WishlistEntries()[0].ID)
}

func TestClearCartLeavesWishlist(t *testing.T) {
	storage := NewMemoryStorage()
	store, err := Open(storage, "guest-1")
	require.NoError(t, err)

	require.NoError(t, store.AddToCart(teeLine()))
	require.NoError(t, store.AddWishlistEntry(WishlistEntry{ID: 1, ProductID: 12}))

	require.NoError(t, store.ClearCart())

	assert.Empty(t, store.CartLines())
	assert.Len(t, store.WishlistEntries(), 1)

	_, ok, err := storage.Load("guest-1/cart")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = storage.Load("guest-1/wishlist")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWishlistDuplicateAddKeepsExisting(t *testing.T) {
	store, err := Open(NewMemoryStorage(), "guest-1")
	require.NoError(t, err)

	require.NoError(t, store.AddWishlistEntry(WishlistEntry{ID: 100, ProductID: 12, ProductName: "Essential Tee"}))
	require.NoError(t, store.AddWishlistEntry(WishlistEntry{ID: 200, ProductID: 12, ProductName: "Renamed Tee"}))

	entries := store.WishlistEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(100), entries[0].ID)
	assert.Equal(t, "Essential Tee", entries[0].ProductName)
}

func TestRemoveWishlistReturnsRemovedEntry(t *testing.T) {
	store, err := Open(NewMemoryStorage(), "guest-1")
	require.NoError(t, err)

	require.NoError(t, store.AddWishlistEntry(WishlistEntry{ID: 100, ProductID: 12}))

	removed, had, err := store.RemoveWishlistByProduct(12)
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, int64(100), removed.ID)
	assert.False(t, store.Wishlisted(12))

	_, had, err = store.RemoveWishlistByProduct(12)
	require.NoError(t, err)
	assert.False(t, had)
}

func TestSubscribeReceivesEvents(t *testing.T) {
	store, err := Open(NewMemoryStorage(), "guest-1")
	require.NoError(t, err)

	var events []Event
	store.Subscribe(func(ev Event) { events = append(events, ev) })

	require.NoError(t, store.AddToCart(teeLine()))
	require.NoError(t, store.AddWishlistEntry(WishlistEntry{ID: 1, ProductID: 7}))
	require.NoError(t, store.RemoveCartLine(12, 3))

	require.Len(t, events, 3)
	assert.Equal(t, Event{Kind: EventCart, ProductID: 12, SizeID: 3}, events[0])
	assert.Equal(t, Event{Kind: EventWishlist, ProductID: 7}, events[1])
	assert.Equal(t, Event{Kind: EventCart, ProductID: 12, SizeID: 3}, events[2])
}

// failingStorage fails writes on demand; reads pass through.
type failingStorage struct {
	*MemoryStorage
	failSave bool
}

func (f *failingStorage) Save(key, value string) error {
	if f.failSave {
		return errors.New("storage write failed")
	}
	return f.MemoryStorage.Save(key, value)
}

func TestAddToCartSurfacesStorageError(t *testing.T) {
	storage := &failingStorage{MemoryStorage: NewMemoryStorage(), failSave: true}
	store, err := Open(storage, "guest-1")
	require.NoError(t, err)

	err = store.AddToCart(teeLine())
	assert.Error(t, err)
}
