// internal/models/product.go
package models

import (
	"time"
)

type Condition string

const (
	ConditionExcellent Condition = "Excellent"
	ConditionGood      Condition = "Good"
	ConditionFair      Condition = "Fair"
	ConditionPoor      Condition = "Poor"
)

// Seller is the owner reference embedded in a product payload.
type Seller struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// Product mirrors the wire representation served by the catalog API.
// Every field is server-owned; the client never recomputes them locally.
type Product struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Condition   Condition `json:"condition,omitempty"`
	Images      []string  `json:"images"`
	Tags        []string  `json:"tags,omitempty"`
	IsAvailable bool      `json:"isAvailable"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"createdAt"`
	Seller      Seller    `json:"seller"`
}

// ProductDraft is the client-composed body for POST /products. The
// listing manager normalizes images and tags before sending it.
type ProductDraft struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Category    string    `json:"category" validate:"required"`
	Condition   Condition `json:"condition,omitempty"`
	Images      []string  `json:"images" validate:"required,min=1,dive,required"`
	Tags        []string  `json:"tags,omitempty"`
}
