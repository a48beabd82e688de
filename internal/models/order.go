// internal/models/order.go
package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// InProgress reports whether the order is still moving toward delivery.
func (s OrderStatus) InProgress() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped:
		return true
	}
	return false
}

type PaymentMethod string

const (
	// PaymentCashOnDelivery is the client default; no other method is
	// collected by this client.
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// OrderItem freezes the purchased product and its price at checkout
// time, independent of later catalog changes.
type OrderItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order is immutable from the client's perspective once created.
// Status transitions are server-driven; the client only displays them.
type Order struct {
	ID              string          `json:"_id"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     float64         `json:"totalAmount"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// CreateOrderRequest is the body for POST /orders/create.
type CreateOrderRequest struct {
	ShippingAddress ShippingAddress `json:"shippingAddress" validate:"required"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" validate:"required"`
}
