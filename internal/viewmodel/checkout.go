// internal/viewmodel/checkout.go
package viewmodel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/greenloop/market-client/internal/gateway"
	"github.com/greenloop/market-client/internal/models"
)

type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutSubmitting CheckoutState = "submitting"
	CheckoutSucceeded  CheckoutState = "succeeded"
)

// CheckoutFlow is the one-shot order submission state machine:
// idle -> submitting -> succeeded, or back to idle on failure. A
// submission is only reachable from idle, so repeated triggers cannot
// create duplicate orders.
//
// On success the local cart is cleared optimistically: the same server
// call that creates the order also empties the cart by contract. This
// is the one place local state can transiently diverge from the
// server, if the order succeeds but a later history fetch fails.
type CheckoutFlow struct {
	gw     OrderGateway
	cart   *CartStore
	logger *logrus.Logger

	redirectDelay time.Duration
	onRedirect    func()

	mtx       sync.Mutex
	state     CheckoutState
	lastErr   string
	lastOrder *models.Order
	timer     *time.Timer
}

type CheckoutOption func(*CheckoutFlow)

// WithRedirectDelay sets how long after success the deferred
// order-history transition fires.
func WithRedirectDelay(d time.Duration) CheckoutOption {
	return func(f *CheckoutFlow) { f.redirectDelay = d }
}

// OnRedirect registers the deferred transition to the order-history
// view.
func OnRedirect(fn func()) CheckoutOption {
	return func(f *CheckoutFlow) { f.onRedirect = fn }
}

func WithCheckoutLogger(l *logrus.Logger) CheckoutOption {
	return func(f *CheckoutFlow) { f.logger = l }
}

func NewCheckoutFlow(gw OrderGateway, cart *CartStore, opts ...CheckoutOption) *CheckoutFlow {
	f := &CheckoutFlow{
		gw:            gw,
		cart:          cart,
		logger:        logrus.StandardLogger(),
		redirectDelay: 2 * time.Second,
		state:         CheckoutIdle,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Submit places the order. It is rejected while a prior submission is
// in flight or already succeeded, and while any cart item mutation is
// outstanding.
func (f *CheckoutFlow) Submit(ctx context.Context, address models.ShippingAddress) (*models.Order, error) {
	f.mtx.Lock()
	if f.state != CheckoutIdle {
		f.mtx.Unlock()
		return nil, ErrCheckoutInProgress
	}
	if err := f.cart.acquireCartWide(); err != nil {
		f.mtx.Unlock()
		return nil, err
	}
	f.state = CheckoutSubmitting
	f.lastErr = ""
	f.mtx.Unlock()

	// The reservation is released however the call settles, a panic
	// out of the transport included.
	defer f.cart.releaseCartWide()

	order, err := f.gw.CreateOrder(ctx, &models.CreateOrderRequest{
		ShippingAddress: address,
		PaymentMethod:   models.PaymentCashOnDelivery,
	})

	f.mtx.Lock()
	defer f.mtx.Unlock()

	if err != nil {
		f.state = CheckoutIdle
		f.lastErr = gateway.ErrorMessage(err, "Failed to create order")
		return nil, fmt.Errorf("submit order: %w", err)
	}

	f.state = CheckoutSucceeded
	f.lastOrder = order
	f.cart.ClearLocal()

	f.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"total":    order.TotalAmount,
	}).Info("Order placed")

	if f.onRedirect != nil {
		f.timer = time.AfterFunc(f.redirectDelay, f.onRedirect)
	}

	return order, nil
}

// State returns the current machine state.
func (f *CheckoutFlow) State() CheckoutState {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	return f.state
}

// LastError is the user-visible message from the most recent failed
// submission: the server's message verbatim when available, otherwise
// a generic one.
func (f *CheckoutFlow) LastError() string {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	return f.lastErr
}

// LastOrder returns the order created by the last successful
// submission, if any.
func (f *CheckoutFlow) LastOrder() *models.Order {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	return f.lastOrder
}

// Reset returns a settled flow to idle for a new checkout and stops
// any pending redirect.
func (f *CheckoutFlow) Reset() {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if f.state == CheckoutSubmitting {
		return
	}

	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.state = CheckoutIdle
	f.lastErr = ""
}
