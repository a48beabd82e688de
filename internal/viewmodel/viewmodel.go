// internal/viewmodel/viewmodel.go

// Package viewmodel holds the client-side state engine: typed stores
// for the catalog query, cart, listings, checkout and order history,
// independent of any rendering mechanism. All stores are safe for
// concurrent use and treat the server response as the sole source of
// truth for the state they mirror.
package viewmodel

import (
	"context"
	"errors"

	"github.com/greenloop/market-client/internal/models"
)

var (
	// ErrLocked reports a mutation attempt on an entity whose lock is
	// already held. Callers treat it as a swallowed duplicate trigger,
	// not a user-visible failure.
	ErrLocked = errors.New("entity mutation already in flight")

	// ErrMutationInFlight rejects a cart-wide operation while any
	// per-item mutation is still outstanding.
	ErrMutationInFlight = errors.New("a cart item mutation is in flight")

	// ErrCheckoutInProgress rejects a second checkout submission.
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// CatalogGateway is the slice of the remote API used by the query
// composer.
type CatalogGateway interface {
	SearchProducts(ctx context.Context, search, category string) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// CartGateway is the slice of the remote API used by the cart store.
type CartGateway interface {
	GetCart(ctx context.Context) (*models.Cart, error)
	AddToCart(ctx context.Context, productID string, quantity int) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, productID string, quantity int) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, productID string) (*models.Cart, error)
	ClearCart(ctx context.Context) (*models.Cart, error)
}

// ListingGateway is the slice of the remote API used by the listing
// manager.
type ListingGateway interface {
	CreateProduct(ctx context.Context, draft *models.ProductDraft) (*models.Product, error)
	MyProducts(ctx context.Context) ([]models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// OrderGateway is the slice of the remote API used by the checkout
// flow and the order history store.
type OrderGateway interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	MyOrders(ctx context.Context) ([]models.Order, error)
}
