// Package cart holds the in-progress cart for the current device. The
// store is the single source of truth while the app runs; every mutation
// re-serializes the full item list into the secure storage, and the cart
// is reloaded from there once at startup.
package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kmalykh/shop_mobile/internal/models"
	"github.com/kmalykh/shop_mobile/internal/securestore"
)

const storageKey = "cart"

// ErrOutOfStock rejects a line whose stock snapshot can't hold even one
// unit; accepting it would break the quantity >= 1 invariant.
var ErrOutOfStock = errors.New("out of stock")

type Store struct {
	kv  *securestore.Store
	log *slog.Logger

	mu    sync.Mutex
	items []models.CartLineItem
}

func NewStore(kv *securestore.Store, log *slog.Logger) *Store {
	return &Store{kv: kv, log: log.With("component", "cart")}
}

// Load reads the durable record once at startup. A missing or unreadable
// record means "no cart yet", never an error.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.kv.Get(storageKey)
	if !ok {
		s.items = nil
		return
	}
	var items []models.CartLineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn("stored cart is unreadable, starting empty", "error", err)
		s.items = nil
		return
	}
	s.items = items
}

// Add merges the item into an existing line with the same product or
// appends a new one. Quantity is clamped to [1, maxQuantity] right here,
// at the mutation boundary, so readers never have to re-validate.
func (s *Store) Add(item models.CartLineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity = clamp(s.items[i].Quantity+item.Quantity, 1, s.items[i].MaxQuantity)
			return s.persistLocked()
		}
	}
	if item.MaxQuantity < 1 {
		return ErrOutOfStock
	}
	item.Quantity = clamp(item.Quantity, 1, item.MaxQuantity)
	s.items = append(s.items, item)
	return s.persistLocked()
}

// UpdateQuantity sets the line's quantity to clamp(n, 1, maxQuantity).
// Unknown products are a no-op.
func (s *Store) UpdateQuantity(productID, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = clamp(n, 1, s.items[i].MaxQuantity)
			return s.persistLocked()
		}
	}
	return nil
}

func (s *Store) Remove(productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, it := range s.items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return s.persistLocked()
}

// Clear empties the cart and deletes the durable record entirely rather
// than writing an empty list.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if err := s.kv.Delete(storageKey); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Items returns a copy; callers may not mutate the cart through it.
func (s *Store) Items() []models.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartLineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total is recomputed on every call; the cart is small enough that
// caching would buy nothing.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	for _, it := range s.items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

func (s *Store) persistLocked() error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("serialize cart: %w", err)
	}
	if err := s.kv.Put(storageKey, string(data)); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		n = lo
	}
	if n > hi {
		n = hi
	}
	return n
}
