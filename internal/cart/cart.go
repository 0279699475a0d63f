// Package cart holds pre-checkout line items. Each item is independently
// priced; the total is recomputed from current pricing rules on every call,
// so a rule change affects an unsubmitted cart immediately. Prices are only
// frozen once checkout persists the booking rows.
package cart

import (
	"errors"
	"sync"
	"time"

	"github.com/rentgear/go-rental-store/internal/booking"
	"github.com/rentgear/go-rental-store/internal/pricing"
)

type Item struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"` // per-day snapshot for display; checkout re-reads the catalog
	ImageURL  string    `json:"image_url,omitempty"`
	Quantity  int       `json:"quantity"`
	StartAt   time.Time `json:"startDate"`
	EndAt     time.Time `json:"endDate"`
}

var (
	ErrNotFound    = errors.New("cart item not found")
	ErrMinQuantity = errors.New("quantity must be at least 1")
)

// Store is an ordered, mutex-guarded list of line items.
type Store struct {
	mu    sync.Mutex
	items []Item
}

// Add appends the item; adding an existing id increments its quantity
// instead of duplicating the line.
func (s *Store) Add(it Item) {
	if it.Quantity < 1 {
		it.Quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == it.ID {
			s.items[i].Quantity += it.Quantity
			return
		}
	}
	s.items = append(s.items, it)
}

// UpdateQuantity sets an item's quantity. Below 1 is rejected: removal is
// explicit, never implicit at zero.
func (s *Store) UpdateQuantity(id string, qty int) error {
	if qty < 1 {
		return ErrMinQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = qty
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Total recomputes the order-level total from scratch; nothing is cached.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, it := range s.items {
		d := pricing.CalculateRentalDetails(it.Price, pricing.Hours(it.StartAt, it.EndAt))
		total += d.Total * float64(it.Quantity)
	}
	return total
}

// LineCheck is the per-line availability verdict shown before checkout.
// The stored quantity is never auto-reduced; the user must adjust.
type LineCheck struct {
	Available int  `json:"available"`
	OK        bool `json:"ok"`
}

// CheckLine cross-checks one cart line against live bookings for its
// product and date range.
func CheckLine(p booking.Product, bookings []booking.BookingPeriod, it Item) LineCheck {
	avail := booking.AvailableQuantity(p, bookings, it.StartAt, it.EndAt)
	return LineCheck{Available: avail, OK: it.Quantity <= avail}
}
