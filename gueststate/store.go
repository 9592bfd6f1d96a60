package gueststate

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one guest cart line. Product fields are a display snapshot
// taken when the line was added; they are not refreshed against the catalog.
type CartLine struct {
	ProductID             uint             `json:"product_id"`
	SizeID                uint             `json:"size_id"`
	Quantity              int              `json:"quantity"`
	MaxQuantity           int              `json:"max_quantity"` // size stock at add time
	Unlimited             bool             `json:"unlimited"`
	ProductName           string           `json:"product_name"`
	ProductImage          string           `json:"product_image"`
	SizeName              string           `json:"size_name"`
	ProductPrice          decimal.Decimal  `json:"product_price"`
	DiscountedPrice       *decimal.Decimal `json:"discounted_price"`
	SizeUndiscountedPrice *decimal.Decimal `json:"size_undiscounted_price"`
	AddedAt               time.Time        `json:"added_at"`
}

// WishlistEntry is one liked product. For guests the ID is an epoch-millis
// placeholder, not a server row id; it becomes meaningful only after
// reconciliation writes the entry through to the wishlist table.
type WishlistEntry struct {
	ID              int64            `json:"id"`
	ProductID       uint             `json:"product_id"`
	ProductName     string           `json:"product_name"`
	ProductImage    string           `json:"product_image"`
	ProductPrice    decimal.Decimal  `json:"product_price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price"`
	AddedAt         time.Time        `json:"added_at"`
}

// LineKey is the composite identity of a cart line.
type LineKey struct {
	ProductID uint
	SizeID    uint
}

// Event describes which part of a guest's state changed.
type Event struct {
	Kind      string // "cart" or "wishlist"
	ProductID uint
	SizeID    uint
}

const (
	EventCart     = "cart"
	EventWishlist = "wishlist"
)

// Store owns one guest's cart and wishlist state. All mutations go through
// it, serialize under its mutex, and are written back whole to Storage
// under "<key>/cart" and "<key>/wishlist". Cart lines are keyed by
// (product, size) and wishlist entries by product, so duplicate lines
// cannot exist regardless of call-site discipline.
//
// The store itself does not enforce quantity caps; those are caller-side
// guards (see the guest cart handler).
type Store struct {
	mu       sync.Mutex
	storage  Storage
	key      string
	cart     map[LineKey]CartLine
	cartKeys []LineKey // insertion order
	wishlist map[uint]WishlistEntry
	wishKeys []uint
	subs     []func(Event)
}

// Open loads a guest's state from storage. A missing or malformed blob
// loads as empty state, never an error; only storage I/O failures are
// surfaced.
func Open(storage Storage, key string) (*Store, error) {
	s := &Store{
		storage:  storage,
		key:      key,
		cart:     make(map[LineKey]CartLine),
		wishlist: make(map[uint]WishlistEntry),
	}

	raw, ok, err := storage.Load(s.cartKey())
	if err != nil {
		return nil, err
	}
	if ok {
		var lines []CartLine
		if json.Unmarshal([]byte(raw), &lines) == nil {
			for _, line := range lines {
				k := LineKey{line.ProductID, line.SizeID}
				if existing, dup := s.cart[k]; dup {
					// A corrupt blob with duplicate keys collapses to one
					// aggregated line, matching add semantics.
					existing.Quantity += line.Quantity
					s.cart[k] = existing
					continue
				}
				s.cart[k] = line
				s.cartKeys = append(s.cartKeys, k)
			}
		}
	}

	raw, ok, err = storage.Load(s.wishKey())
	if err != nil {
		return nil, err
	}
	if ok {
		var entries []WishlistEntry
		if json.Unmarshal([]byte(raw), &entries) == nil {
			for _, e := range entries {
				if _, dup := s.wishlist[e.ProductID]; dup {
					continue
				}
				s.wishlist[e.ProductID] = e
				s.wishKeys = append(s.wishKeys, e.ProductID)
			}
		}
	}

	return s, nil
}

func (s *Store) cartKey() string { return s.key + "/cart" }
func (s *Store) wishKey() string { return s.key + "/wishlist" }

// Key returns the guest key this store is bound to.
func (s *Store) Key() string { return s.key }

// Subscribe registers fn to run after every mutation. Subscribers are
// called synchronously outside the store lock.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify(ev Event) {
	s.mu.Lock()
	subs := make([]func(Event), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

func (s *Store) persistCart() error {
	lines := make([]CartLine, 0, len(s.cartKeys))
	for _, k := range s.cartKeys {
		lines = append(lines, s.cart[k])
	}
	encoded, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.storage.Save(s.cartKey(), string(encoded))
}

func (s *Store) persistWishlist() error {
	entries := make([]WishlistEntry, 0, len(s.wishKeys))
	for _, p := range s.wishKeys {
		entries = append(entries, s.wishlist[p])
	}
	encoded, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.storage.Save(s.wishKey(), string(encoded))
}

// CartLines returns the cart in insertion order. Empty state yields an
// empty, non-nil slice.
func (s *Store) CartLines() []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]CartLine, 0, len(s.cartKeys))
	for _, k := range s.cartKeys {
		lines = append(lines, s.cart[k])
	}
	return lines
}

// InCart reports whether a line exists for (productID, sizeID).
func (s *Store) InCart(productID, sizeID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cart[LineKey{productID, sizeID}]
	return ok
}

// CartLine returns the line for (productID, sizeID), if present.
func (s *Store) CartLine(productID, sizeID uint) (CartLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.cart[LineKey{productID, sizeID}]
	return line, ok
}

// AddToCart inserts line, or aggregates its quantity into the existing line
// for the same (product, size). The existing line's snapshot fields are
// kept; only quantity changes. No stock cap is applied here.
func (s *Store) AddToCart(line CartLine) error {
	s.mu.Lock()
	k := LineKey{line.ProductID, line.SizeID}
	if existing, ok := s.cart[k]; ok {
		existing.Quantity += line.Quantity
		s.cart[k] = existing
	} else {
		if line.AddedAt.IsZero() {
			line.AddedAt = time.Now()
		}
		s.cart[k] = line
		s.cartKeys = append(s.cartKeys, k)
	}
	err := s.persistCart()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(Event{Kind: EventCart, ProductID: line.ProductID, SizeID: line.SizeID})
	return nil
}

// SetCartQuantity replaces the quantity of the matching line. A missing
// line is a silent no-op. Calling twice with the same arguments leaves the
// same stored state as calling once.
func (s *Store) SetCartQuantity(productID, sizeID uint, quantity int) error {
	s.mu.Lock()
	k := LineKey{productID, sizeID}
	line, ok := s.cart[k]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	line.Quantity = quantity
	s.cart[k] = line
	err := s.persistCart()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(Event{Kind: EventCart, ProductID: productID, SizeID: sizeID})
	return nil
}

// RemoveCartLine deletes the matching line. Removing a missing key is a
// no-op that leaves stored state untouched.
func (s *Store) RemoveCartLine(productID, sizeID uint) error {
	s.mu.Lock()
	k := LineKey{productID, sizeID}
	if _, ok := s.cart[k]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.cart, k)
	for i, existing := range s.cartKeys {
		if existing == k {
			s.cartKeys = append(s.cartKeys[:i], s.cartKeys[i+1:]...)
			break
		}
	}
	err := s.persistCart()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(Event{Kind: EventCart, ProductID: productID, SizeID: sizeID})
	return nil
}

// ClearCart deletes the cart key entirely; the wishlist is untouched.
func (s *Store) ClearCart() error {
	s.mu.Lock()
	s.cart = make(map[LineKey]CartLine)
	s.cartKeys = nil
	err := s.storage.Delete(s.cartKey())
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(Event{Kind: EventCart})
	return nil
}

// WishlistEntries returns the wishlist in insertion order.
func (s *Store) WishlistEntries() []WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]WishlistEntry, 0, len(s.wishKeys))
	for _, p := range s.wishKeys {
		entries = append(entries, s.wishlist[p])
	}
	return entries
}

// Wishlisted reports whether the product has an entry.
func (s *Store) Wishlisted(productID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.wishlist[productID]
	return ok
}

// WishlistEntryFor returns the entry for productID, if present.
func (s *Store) WishlistEntryFor(productID uint) (WishlistEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.wishlist[productID]
	return e, ok
}

// AddWishlistEntry inserts entry unless the product already has one; the
// existing entry is kept in that case.
func (s *Store) AddWishlistEntry(entry WishlistEntry) error {
	s.mu.Lock()
	if _, ok := s.wishlist[entry.ProductID]; ok {
		s.mu.Unlock()
		return nil
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now()
	}
	s.wishlist[entry.ProductID] = entry
	s.wishKeys = append(s.wishKeys, entry.ProductID)
	err := s.persistWishlist()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(Event{Kind: EventWishlist, ProductID: entry.ProductID})
	return nil
}

// RemoveWishlistByProduct deletes the product's entry and returns it so a
// failed remote toggle can restore it.
func (s *Store) RemoveWishlistByProduct(productID uint) (WishlistEntry, bool, error) {
	s.mu.Lock()
	entry, ok := s.wishlist[productID]
	if !ok {
		s.mu.Unlock()
		return WishlistEntry{}, false, nil
	}
	delete(s.wishlist, productID)
	for i, p := range s.wishKeys {
		if p == productID {
			s.wishKeys = append(s.wishKeys[:i], s.wishKeys[i+1:]...)
			break
		}
	}
	err := s.persistWishlist()
	s.mu.Unlock()
	if err != nil {
		return entry, true, err
	}
	s.notify(Event{Kind: EventWishlist, ProductID: productID})
	return entry, true, nil
}

// Clear removes all guest state, cart and wishlist both. Used after
// reconciliation has folded the state into a user account.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.cart = make(map[LineKey]CartLine)
	s.cartKeys = nil
	s.wishlist = make(map[uint]WishlistEntry)
	s.wishKeys = nil
	err := s.storage.Delete(s.cartKey())
	if derr := s.storage.Delete(s.wishKey()); err == nil {
		err = derr
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(Event{Kind: EventCart})
	s.notify(Event{Kind: EventWishlist})
	return nil
}
