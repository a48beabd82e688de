// internal/viewmodel/cart_test.go
package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/greenloop/market-client/internal/gateway"
	"github.com/greenloop/market-client/internal/gateway/gatewaytest"
	"github.com/greenloop/market-client/internal/models"
	"github.com/greenloop/market-client/internal/session"
)

type CartStoreSuite struct {
	suite.Suite
	srv     *gatewaytest.Server
	locks   *LockTable
	store   *CartStore
	product models.Product
}

func (s *CartStoreSuite) SetupTest() {
	s.srv = gatewaytest.New()
	s.product = s.srv.SeedProduct(models.Product{
		Title:       "Vintage Desk Lamp",
		Description: "Brass lamp, rewired",
		Price:       500,
		Category:    "Furniture",
		Images:      []string{"https://example.com/lamp.jpg"},
		IsAvailable: true,
		Seller:      models.Seller{ID: "seller-1", Username: "seller"},
	})

	sess := session.New(s.srv.Token("buyer-1", "buyer"))
	gw := gateway.NewClient(s.srv.URL(), sess, gateway.WithRateLimit(1000, 1000))

	s.locks = NewLockTable()
	s.store = NewCartStore(gw, s.locks, nil)
}

func (s *CartStoreSuite) TearDownTest() {
	s.srv.Close()
}

func (s *CartStoreSuite) TestAddItemTotalComesFromServerCart() {
	ctx := context.Background()

	require.NoError(s.T(), s.store.AddItem(ctx, s.product.ID, 2))

	cart := s.store.Cart()
	require.Len(s.T(), cart.Items, 1)
	assert.Equal(s.T(), 2, cart.Items[0].Quantity)
	assert.Equal(s.T(), 1000.0, s.store.Total())

	require.NoError(s.T(), s.store.RemoveItem(ctx, s.product.ID))
	assert.Empty(s.T(), s.store.Cart().Items)
	assert.Equal(s.T(), 0.0, s.store.Total())
}

func (s *CartStoreSuite) TestAddItemBelowOneIsNoop() {
	require.NoError(s.T(), s.store.AddItem(context.Background(), s.product.ID, 0))
	assert.Equal(s.T(), 0, s.srv.Hits("POST /cart/add"))
}

func (s *CartStoreSuite) TestSetQuantityBelowOneIsNoop() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.AddItem(ctx, s.product.ID, 2))

	require.NoError(s.T(), s.store.SetQuantity(ctx, s.product.ID, 0))
	require.NoError(s.T(), s.store.SetQuantity(ctx, s.product.ID, -1))

	assert.Equal(s.T(), 0, s.srv.Hits("PUT /cart/update"))
	cart := s.store.Cart()
	require.Len(s.T(), cart.Items, 1)
	assert.Equal(s.T(), 2, cart.Items[0].Quantity)
}

func (s *CartStoreSuite) TestSetQuantityReplacesWithServerCart() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.AddItem(ctx, s.product.ID, 1))

	require.NoError(s.T(), s.store.SetQuantity(ctx, s.product.ID, 3))

	cart := s.store.Cart()
	require.Len(s.T(), cart.Items, 1)
	assert.Equal(s.T(), 3, cart.Items[0].Quantity)
	assert.Equal(s.T(), 1500.0, s.store.Total())
}

func (s *CartStoreSuite) TestFailedMutationLeavesCartUntouched() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.AddItem(ctx, s.product.ID, 2))

	s.srv.FailNext(http.StatusInternalServerError, "something broke")
	err := s.store.SetQuantity(ctx, s.product.ID, 5)
	require.Error(s.T(), err)

	cart := s.store.Cart()
	require.Len(s.T(), cart.Items, 1)
	assert.Equal(s.T(), 2, cart.Items[0].Quantity)
	assert.Equal(s.T(), 1000.0, s.store.Total())

	// Lock released on the failure path too.
	assert.False(s.T(), s.store.IsUpdating(s.product.ID))
}

func (s *CartStoreSuite) TestClearRejectedWhileItemMutationInFlight() {
	require.True(s.T(), s.locks.TryAcquire(s.product.ID))
	defer s.locks.Release(s.product.ID)

	err := s.store.Clear(context.Background())
	assert.ErrorIs(s.T(), err, ErrMutationInFlight)
	assert.Equal(s.T(), 0, s.srv.Hits("DELETE /cart/clear"))
}

func (s *CartStoreSuite) TestClearEmptiesCart() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.AddItem(ctx, s.product.ID, 2))

	require.NoError(s.T(), s.store.Clear(ctx))
	assert.Empty(s.T(), s.store.Cart().Items)
	assert.Equal(s.T(), 0.0, s.store.Total())
}

func (s *CartStoreSuite) TestRefreshMirrorsAuthoritativeCart() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.AddItem(ctx, s.product.ID, 2))

	fresh := NewCartStore(
		gateway.NewClient(s.srv.URL(), session.New(s.srv.Token("buyer-1", "buyer")), gateway.WithRateLimit(1000, 1000)),
		NewLockTable(), nil)

	require.NoError(s.T(), fresh.Refresh(ctx))
	require.Len(s.T(), fresh.Cart().Items, 1)
	assert.Equal(s.T(), 1000.0, fresh.Total())
}

func TestCartStoreSuite(t *testing.T) {
	suite.Run(t, new(CartStoreSuite))
}

// fakeCart blocks mutations on demand to hold a request in flight.
type fakeCart struct {
	mtx         sync.Mutex
	updateCalls int
	block       chan struct{}
	cart        models.Cart
}

func (f *fakeCart) snapshot() *models.Cart {
	cart := f.cart
	return &cart
}

func (f *fakeCart) GetCart(ctx context.Context) (*models.Cart, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.snapshot(), nil
}

func (f *fakeCart) AddToCart(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.cart.Items = append(f.cart.Items, models.CartItem{
		Product:  models.Product{ID: productID, Price: 100},
		Quantity: quantity,
	})
	return f.snapshot(), nil
}

func (f *fakeCart) UpdateCartItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	f.mtx.Lock()
	f.updateCalls++
	block := f.block
	f.mtx.Unlock()

	if block != nil {
		<-block
	}

	f.mtx.Lock()
	defer f.mtx.Unlock()
	for i := range f.cart.Items {
		if f.cart.Items[i].Product.ID == productID {
			f.cart.Items[i].Quantity = quantity
		}
	}
	return f.snapshot(), nil
}

func (f *fakeCart) RemoveCartItem(ctx context.Context, productID string) (*models.Cart, error) {
	return f.snapshot(), nil
}

func (f *fakeCart) ClearCart(ctx context.Context) (*models.Cart, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.cart.Items = nil
	return f.snapshot(), nil
}

func (f *fakeCart) updates() int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.updateCalls
}

// overlapCart counts cart-wide calls observed while a per-item call is
// in flight, and vice versa.
type overlapCart struct {
	itemActive atomic.Int32
	wideActive atomic.Int32
	overlaps   atomic.Int32
}

func (f *overlapCart) item() (*models.Cart, error) {
	f.itemActive.Add(1)
	if f.wideActive.Load() > 0 {
		f.overlaps.Add(1)
	}
	runtime.Gosched()
	f.itemActive.Add(-1)
	return &models.Cart{}, nil
}

func (f *overlapCart) wide() (*models.Cart, error) {
	f.wideActive.Add(1)
	if f.itemActive.Load() > 0 {
		f.overlaps.Add(1)
	}
	runtime.Gosched()
	f.wideActive.Add(-1)
	return &models.Cart{}, nil
}

func (f *overlapCart) GetCart(ctx context.Context) (*models.Cart, error) {
	return &models.Cart{}, nil
}

func (f *overlapCart) AddToCart(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	return f.item()
}

func (f *overlapCart) UpdateCartItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	return f.item()
}

func (f *overlapCart) RemoveCartItem(ctx context.Context, productID string) (*models.Cart, error) {
	return f.item()
}

func (f *overlapCart) ClearCart(ctx context.Context) (*models.Cart, error) {
	return f.wide()
}

func TestCartWideAndItemMutationsNeverOverlap(t *testing.T) {
	fake := &overlapCart{}
	store := NewCartStore(fake, NewLockTable(), nil)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				// Rejections are expected; overlap is the defect.
				store.SetQuantity(context.Background(), id, 2)
			}
		}(fmt.Sprintf("p%d", g))
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			store.Clear(context.Background())
		}
	}()
	wg.Wait()

	assert.Equal(t, int32(0), fake.overlaps.Load())
}

func TestConcurrentMutationMakesExactlyOneCall(t *testing.T) {
	fake := &fakeCart{block: make(chan struct{})}
	store := NewCartStore(fake, NewLockTable(), nil)

	require.NoError(t, store.AddItem(context.Background(), "p1", 1))

	done := make(chan error, 1)
	go func() {
		done <- store.SetQuantity(context.Background(), "p1", 2)
	}()

	require.Eventually(t, func() bool {
		return store.IsUpdating("p1")
	}, time.Second, time.Millisecond)

	// Second trigger while the first is outstanding: rejected
	// client-side, no request sent.
	err := store.SetQuantity(context.Background(), "p1", 3)
	assert.True(t, errors.Is(err, ErrLocked))
	assert.Equal(t, 1, fake.updates())

	close(fake.block)
	require.NoError(t, <-done)

	assert.Equal(t, 1, fake.updates())
	assert.False(t, store.IsUpdating("p1"))
}
