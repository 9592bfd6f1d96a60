package gueststate

import (
	"context"
	"time"
)

// RemoteWishlist is the server-side wishlist an authenticated toggle writes
// through to.
type RemoteWishlist interface {
	Add(ctx context.Context, productID uint) (int64, error)
	Remove(ctx context.Context, entryID int64) error
}

// ToggleState is one caller's view of a product's liked state. EntryID is 0
// when unliked, an epoch-millis placeholder while an add is pending, and
// the server row id once confirmed.
type ToggleState struct {
	Liked   bool  `json:"liked"`
	EntryID int64 `json:"entry_id"`
}

// Toggler coordinates like/unlike for a single product between the guest
// store and the remote wishlist. State is flipped before the durable write
// and fully rolled back, including any guest-store mutation, when the write
// fails.
type Toggler struct {
	Remote RemoteWishlist
	Now    func() time.Time // placeholder id clock; defaults to time.Now
}

func (t *Toggler) placeholderID() int64 {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	return now().UnixMilli()
}

// Toggle flips st for entry.ProductID. A non-nil guest store selects the
// unauthenticated branch; otherwise Remote is used. entry supplies the
// product snapshot recorded when transitioning to liked.
func (t *Toggler) Toggle(ctx context.Context, st *ToggleState, guest *Store, entry WishlistEntry) error {
	snapshot := *st
	turningOn := !st.Liked

	var effect func(ctx context.Context) error
	var compensate func() error

	switch {
	case guest != nil && turningOn:
		effect = func(context.Context) error {
			e := entry
			e.ID = st.EntryID
			return guest.AddWishlistEntry(e)
		}
		compensate = func() error {
			_, _, err := guest.RemoveWishlistByProduct(entry.ProductID)
			return err
		}
	case guest != nil && !turningOn:
		var removed WishlistEntry
		var had bool
		effect = func(context.Context) error {
			var err error
			removed, had, err = guest.RemoveWishlistByProduct(entry.ProductID)
			return err
		}
		compensate = func() error {
			if !had {
				return nil
			}
			return guest.AddWishlistEntry(removed)
		}
	case turningOn:
		effect = func(ctx context.Context) error {
			id, err := t.Remote.Add(ctx, entry.ProductID)
			if err != nil {
				return err
			}
			// Replace the placeholder with the server-assigned id.
			st.EntryID = id
			return nil
		}
	default:
		entryID := st.EntryID
		effect = func(ctx context.Context) error {
			return t.Remote.Remove(ctx, entryID)
		}
	}

	m := Mutation{
		Apply: func() error {
			if turningOn {
				st.Liked = true
				st.EntryID = t.placeholderID()
			} else {
				st.Liked = false
				st.EntryID = 0
			}
			return nil
		},
		Effect: effect,
		Revert: func() error {
			*st = snapshot
			if compensate != nil {
				return compensate()
			}
			return nil
		},
	}
	return m.Run(ctx)
}

// InitialState resolves the mount-time liked state for a product. A
// caller-supplied known state (from a batch-fetched remote wishlist) is
// trusted as-is; otherwise the guest store is scanned and its entry id
// adopted.
func InitialState(known *ToggleState, guest *Store, productID uint) ToggleState {
	if known != nil {
		return *known
	}
	if guest != nil {
		if entry, ok := guest.WishlistEntryFor(productID); ok {
			return ToggleState{Liked: true, EntryID: entry.ID}
		}
	}
	return ToggleState{}
}
