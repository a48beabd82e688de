// internal/viewmodel/orders.go
package viewmodel

import (
	"context"
	"fmt"
	"sync"

	"github.com/greenloop/market-client/internal/models"
)

// OrderHistory is the read-only mirror of the session user's orders.
// Orders are immutable client-side; status comes from the server and
// is only displayed.
type OrderHistory struct {
	gw OrderGateway

	mtx    sync.Mutex
	orders []models.Order
}

func NewOrderHistory(gw OrderGateway) *OrderHistory {
	return &OrderHistory{gw: gw}
}

func (h *OrderHistory) Refresh(ctx context.Context) error {
	orders, err := h.gw.MyOrders(ctx)
	if err != nil {
		return fmt.Errorf("fetch orders: %w", err)
	}

	h.mtx.Lock()
	h.orders = orders
	h.mtx.Unlock()

	return nil
}

func (h *OrderHistory) Orders() []models.Order {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	orders := make([]models.Order, len(h.orders))
	copy(orders, h.orders)
	return orders
}

// OrderStats are the derived counters shown on the history view.
type OrderStats struct {
	Total      int
	Delivered  int
	InProgress int
	TotalSpent float64
}

func (h *OrderHistory) Stats() OrderStats {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	stats := OrderStats{Total: len(h.orders)}
	for _, o := range h.orders {
		if o.Status == models.OrderStatusDelivered {
			stats.Delivered++
		}
		if o.Status.InProgress() {
			stats.InProgress++
		}
		stats.TotalSpent += o.TotalAmount
	}
	return stats
}
