package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/toyverse/storefront/internal/core/domain"
	"github.com/toyverse/storefront/internal/core/port"
)

var _ port.CartOperator = (*CartService)(nil)

// A CartService owns the cart state: the ordered id-unique line items
// and the open/closed visibility flag.
//
// Every mutation persists the full item list through the repository
// before returning. Cart events are emitted best-effort: a producer
// failure is logged and never fails the mutation. A nil events
// producer disables emission.
type CartService struct {
	mu     sync.Mutex
	items  []domain.CartItem
	isOpen bool
	repo   port.CartRepository
	events port.CartEventsProducer
}

// NewCart hydrates the cart from the repository. A load failure
// degrades to an empty cart, it never fails construction.
func NewCart(
	ctx context.Context,
	repo port.CartRepository,
	events port.CartEventsProducer,
) *CartService {
	const op = "NewCart"

	items, err := repo.Load(ctx)
	if err != nil {
		slog.Warn("starting with empty cart",
			"op", op, "err", err)
		items = nil
	}
	return &CartService{items: items, repo: repo, events: events}
}

// AddItem increments the quantity of an already present product or
// inserts a new line with quantity 1. Stock is not checked here: the
// view layer decides whether an out-of-stock add is allowed.
func (s *CartService) AddItem(ctx context.Context, p domain.Product) error {
	const op = "CartService.AddItem"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	i := s.indexLocked(p.ID)
	if i >= 0 {
		s.items[i].Quantity++
	} else {
		s.items = append(s.items, domain.CartItem{Product: p, Quantity: 1})
		i = len(s.items) - 1
	}
	item := s.items[i]
	total := s.totalItemsLocked()
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.emit(ctx, domain.CartEventItemAdded, item, total)
	return nil
}

// UpdateQuantity sets the quantity of the given line, clamped to a
// minimum of 1. An unknown id is a silent no-op.
func (s *CartService) UpdateQuantity(
	ctx context.Context, id, quantity int,
) error {
	const op = "CartService.UpdateQuantity"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.items[i].Quantity = max(1, quantity)
	item := s.items[i]
	total := s.totalItemsLocked()
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.emit(ctx, domain.CartEventQuantityChanged, item, total)
	return nil
}

// RemoveItem deletes the line for the given id. An unknown id is a
// silent no-op.
func (s *CartService) RemoveItem(ctx context.Context, id int) error {
	const op = "CartService.RemoveItem"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	item := s.items[i]
	item.Quantity = 0
	s.items = append(s.items[:i], s.items[i+1:]...)
	total := s.totalItemsLocked()
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.emit(ctx, domain.CartEventItemRemoved, item, total)
	return nil
}

func (s *CartService) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// TotalItems returns the sum of quantities over all lines.
func (s *CartService) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalItemsLocked()
}

// Subtotal returns the exact decimal sum of price times quantity
// over all lines.
func (s *CartService) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func (s *CartService) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}

func (s *CartService) OpenCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = true
}

func (s *CartService) CloseCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = false
}

func (s *CartService) indexLocked(id int) int {
	return slices.IndexFunc(s.items, func(it domain.CartItem) bool {
		return it.ID == id
	})
}

func (s *CartService) totalItemsLocked() (n int) {
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *CartService) persistLocked(ctx context.Context) error {
	return s.repo.Save(ctx, s.items)
}

func (s *CartService) emit(
	ctx context.Context,
	evtType domain.CartEventType,
	item domain.CartItem,
	totalItems int,
) {
	const op = "CartService.emit"

	if s.events == nil {
		return
	}

	evt := domain.CartEvent{
		Type:        evtType,
		ProductID:   item.ID,
		ProductName: item.Name,
		Category:    item.Category,
		Price:       item.Price,
		Quantity:    item.Quantity,
		TotalItems:  totalItems,
		OccurredAt:  time.Now(),
	}

	if err := s.events.ProduceEvent(ctx, evt); err != nil {
		slog.Error("failed to produce cart event",
			"op", op, "type", evtType, "err", err)
	}
}
