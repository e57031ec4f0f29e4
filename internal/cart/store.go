// Package cart holds the line items picked during one order-creation session.
package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrIndexOutOfRange is returned by RemoveAt for a position outside the cart.
var ErrIndexOutOfRange = errors.New("cart index out of range")

// LineItem is a priced product frozen at the moment it was added.
type LineItem struct {
	ProductName          string          `json:"productName"`
	ProductSpecification string          `json:"productSpecification"`
	TotalMoney           decimal.Decimal `json:"totalMoney"`
	Note                 string          `json:"note"`
}

// Store is an ordered list of line items. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	items []LineItem
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{}
}

// Add appends item. Identical items are kept as separate entries.
func (s *Store) Add(item LineItem) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.TotalMoney.IsNegative() {
		item.TotalMoney = decimal.Zero
	}
	s.items = append(s.items, item)
	return len(s.items)
}

// RemoveAt deletes the entry at index; later entries move down by one.
func (s *Store) RemoveAt(index int) (LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return LineItem{}, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(s.items))
	}
	removed := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	return removed, nil
}

// Snapshot returns a copy of the current items.
func (s *Store) Snapshot() []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Total sums the frozen line totals.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := decimal.Zero
	for _, item := range s.items {
		sum = sum.Add(item.TotalMoney)
	}
	return sum
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}
