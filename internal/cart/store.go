// Package cart implements the shopping cart state container: an ordered set
// of line items with derived totals, persisted in full after every committed
// mutation so a restart reconstructs the identical cart.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/angelmondragon/storefront-core/internal/storage"
	"github.com/angelmondragon/storefront-core/pkg/logger"
	"github.com/shopspring/decimal"
)

// StorageKey is the blob-store namespace the cart persists under.
const StorageKey = "cart-storage"

// ProductRef carries the catalog snapshot captured at add time. The cart
// never re-reads the catalog; price and stock are frozen per line item.
type ProductRef struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Image string
	Stock int
}

// LineItem is one product entry in the cart, keyed by product id.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Stock    int             `json:"stock"`
}

type snapshot struct {
	Items []LineItem `json:"items"`
}

// Params bundles the dependencies required to build a cart store.
type Params struct {
	Storage storage.Store
	Logger  *logger.Logger
}

// Store owns the cart state. Construct one per process at the composition
// root and share it by reference; it is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	items   []LineItem
	storage storage.Store
	log     *logger.Logger
}

// New builds a cart store and rehydrates it from durable storage. A missing
// or unreadable blob yields an empty cart, never an error.
func New(ctx context.Context, params Params) (*Store, error) {
	if params.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	s := &Store{
		storage: params.Storage,
		log:     params.Logger,
	}
	s.rehydrate(ctx)
	return s, nil
}

func (s *Store) rehydrate(ctx context.Context) {
	ctx = s.log.WithStore(ctx, "cart")

	blob, err := s.storage.Load(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Error(ctx, "loading persisted cart failed, starting empty", err)
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		s.log.Error(ctx, "persisted cart is unreadable, starting empty", err)
		return
	}

	s.items = snap.Items
	s.log.Info(s.log.WithField(ctx, "line_items", len(s.items)), "cart rehydrated")
}

// AddItem adds the referenced product. An existing line item gains one unit,
// clamped at its stock snapshot (adding past the ceiling is a silent no-op);
// a new product is appended at quantity 1. A ref with zero stock is still
// accepted at quantity 1; callers gate that case through ProductRef.Stock.
func (s *Store) AddItem(ctx context.Context, ref ProductRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = applyAdd(s.items, ref)
	s.persist(ctx)
}

// UpdateQuantity sets the line item quantity directly. Values below 1 remove
// the item, values above the stock snapshot clamp to it, and an unknown id
// is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = applySetQuantity(s.items, id, quantity)
	s.persist(ctx)
}

// RemoveItem drops the line item regardless of quantity.
func (s *Store) RemoveItem(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = applyRemove(s.items, id)
	s.persist(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persist(ctx)
}

// Items returns the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LineItem(nil), s.items...)
}

// TotalItems returns the sum of quantities across all line items.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the sum of price times quantity across all line items.
// Display rounding is the caller's concern.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// persist writes the full snapshot. A failed write is logged and otherwise
// ignored; the in-memory state stays authoritative for the session.
// Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	ctx = s.log.WithStore(ctx, "cart")

	blob, err := json.Marshal(snapshot{Items: s.items})
	if err != nil {
		s.log.Error(ctx, "serializing cart state failed", err)
		return
	}
	if err := s.storage.Save(ctx, StorageKey, blob); err != nil {
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "cart persistence write failed, in-memory state remains authoritative")
	}
}
