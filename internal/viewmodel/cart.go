// internal/viewmodel/cart.go
package viewmodel

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/greenloop/market-client/internal/models"
)

// CartStore holds the last known-good cart snapshot. Every mutation
// routes through the server and the local mirror is replaced wholesale
// with the server-returned cart on success; on failure the prior
// snapshot stays untouched. There is no optimistic quantity math, so
// the displayed total can never diverge from server-side pricing.
type CartStore struct {
	gw     CartGateway
	locks  *LockTable
	logger *logrus.Logger

	mtx      sync.Mutex
	cart     models.Cart
	cartWide bool
}

func NewCartStore(gw CartGateway, locks *LockTable, logger *logrus.Logger) *CartStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &CartStore{gw: gw, locks: locks, logger: logger}
}

// Refresh replaces the local mirror with the authoritative cart.
func (s *CartStore) Refresh(ctx context.Context) error {
	cart, err := s.gw.GetCart(ctx)
	if err != nil {
		return fmt.Errorf("fetch cart: %w", err)
	}

	s.replace(*cart)
	return nil
}

// AddItem sends the addition and applies the server-returned cart.
// The product's entity lock is held for the duration so two rapid add
// triggers cannot produce overlapping requests.
func (s *CartStore) AddItem(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return nil
	}

	return s.mutate(ctx, productID, func(ctx context.Context) (*models.Cart, error) {
		return s.gw.AddToCart(ctx, productID, quantity)
	})
}

// SetQuantity updates a line item's quantity. Values below 1 are a
// no-op with no network call; removal is the only way a line leaves
// the cart.
func (s *CartStore) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return nil
	}

	return s.mutate(ctx, productID, func(ctx context.Context) (*models.Cart, error) {
		return s.gw.UpdateCartItem(ctx, productID, quantity)
	})
}

// RemoveItem deletes a line item under the product's entity lock.
func (s *CartStore) RemoveItem(ctx context.Context, productID string) error {
	return s.mutate(ctx, productID, func(ctx context.Context) (*models.Cart, error) {
		return s.gw.RemoveCartItem(ctx, productID)
	})
}

// mutate runs one per-item cart mutation under the entity lock for
// productID. The cart-wide check and the lock acquisition share one
// critical section, so a Clear or checkout reservation cannot slip in
// between them. The lock is released on every exit path once the
// remote call settles.
func (s *CartStore) mutate(ctx context.Context, productID string, call func(context.Context) (*models.Cart, error)) error {
	s.mtx.Lock()
	if s.cartWide {
		s.mtx.Unlock()
		return ErrMutationInFlight
	}
	if !s.locks.TryAcquire(productID) {
		s.mtx.Unlock()
		s.logger.WithField("product_id", productID).Debug("Cart mutation rejected, lock held")
		return ErrLocked
	}
	s.mtx.Unlock()
	defer s.locks.Release(productID)

	cart, err := call(ctx)
	if err != nil {
		return fmt.Errorf("cart mutation for %s: %w", productID, err)
	}

	s.replace(*cart)
	return nil
}

// Clear empties the cart server-side. It is a cart-wide operation:
// rejected while any per-item mutation is outstanding. User
// confirmation happens before this is invoked.
func (s *CartStore) Clear(ctx context.Context) error {
	if err := s.acquireCartWide(); err != nil {
		return err
	}
	defer s.releaseCartWide()

	cart, err := s.gw.ClearCart(ctx)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.replace(*cart)
	return nil
}

// ClearLocal empties only the local mirror. Used by the checkout flow,
// whose server call already emptied the cart by contract.
func (s *CartStore) ClearLocal() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.cart.Items = nil
}

// Cart returns a snapshot of the current mirror.
func (s *CartStore) Cart() models.Cart {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	cart := s.cart
	cart.Items = make([]models.CartItem, len(s.cart.Items))
	copy(cart.Items, s.cart.Items)
	return cart
}

// Total is derived from the current item list on every call.
func (s *CartStore) Total() float64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.cart.Total()
}

// IsUpdating reports whether a mutation for the given product is
// outstanding.
func (s *CartStore) IsUpdating(productID string) bool {
	return s.locks.IsLocked(productID)
}

func (s *CartStore) replace(cart models.Cart) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.cart = cart
}

// acquireCartWide reserves the whole cart for a cross-cutting
// operation (clear, checkout). It fails while any per-item lock is
// held, and per-item mutations fail while it is held.
func (s *CartStore) acquireCartWide() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.cartWide || s.locks.Busy() {
		return ErrMutationInFlight
	}

	s.cartWide = true
	return nil
}

func (s *CartStore) releaseCartWide() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.cartWide = false
}
