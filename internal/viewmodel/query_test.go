// internal/viewmodel/query_test.go
package viewmodel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenloop/market-client/internal/models"
)

type catalogCall struct {
	Search   string
	Category string
}

type fakeCatalog struct {
	mtx     sync.Mutex
	calls   []catalogCall
	handler func(n int, search, category string) ([]models.Product, error)
}

func (f *fakeCatalog) SearchProducts(ctx context.Context, search, category string) ([]models.Product, error) {
	f.mtx.Lock()
	f.calls = append(f.calls, catalogCall{Search: search, Category: category})
	n := len(f.calls)
	handler := f.handler
	f.mtx.Unlock()

	if handler != nil {
		return handler(n, search, category)
	}
	return []models.Product{}, nil
}

func (f *fakeCatalog) Categories(ctx context.Context) ([]string, error) {
	return []string{"Books", "Furniture"}, nil
}

func (f *fakeCatalog) callCount() int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return len(f.calls)
}

func (f *fakeCatalog) call(i int) catalogCall {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.calls[i]
}

func namedProducts(titles ...string) []models.Product {
	products := make([]models.Product, len(titles))
	for i, title := range titles {
		products[i] = models.Product{ID: title, Title: title, Price: 1, IsAvailable: true}
	}
	return products
}

func TestDebounceCoalescesKeystrokes(t *testing.T) {
	fake := &fakeCatalog{}
	q := NewQueryComposer(fake, 30*time.Millisecond)
	defer q.Close()

	for _, term := range []string{"l", "la", "lam", "lamp"} {
		q.SetSearchTerm(term)
	}

	require.Eventually(t, func() bool {
		return fake.callCount() == 1
	}, time.Second, time.Millisecond, "one query after the quiet period")

	assert.Equal(t, "lamp", fake.call(0).Search)

	// No trailing extra fetch once the window has long elapsed.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, fake.callCount())
}

func TestDebounceSupersededTermNeverSent(t *testing.T) {
	fake := &fakeCatalog{}
	q := NewQueryComposer(fake, 30*time.Millisecond)
	defer q.Close()

	q.SetSearchTerm("lamp")
	q.SetSearchTerm("lamp shade")

	require.Eventually(t, func() bool {
		return fake.callCount() == 1
	}, time.Second, time.Millisecond)

	assert.Equal(t, "lamp shade", fake.call(0).Search)
}

func TestCategoryChangeFetchesImmediately(t *testing.T) {
	fake := &fakeCatalog{}
	q := NewQueryComposer(fake, 50*time.Millisecond)
	defer q.Close()

	q.SetSearchTerm("lamp")
	q.SetCategory("Books")

	// The immediate fetch carries the composed parameter set and the
	// pending debounced text fetch is cancelled.
	require.Eventually(t, func() bool {
		return fake.callCount() == 1
	}, time.Second, time.Millisecond)

	got := fake.call(0)
	assert.Equal(t, "lamp", got.Search)
	assert.Equal(t, "Books", got.Category)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, fake.callCount(), "debounced fetch must not fire after the immediate one")
}

func TestCategorySwitchAtTimerExpiryIssuesNoLateFetch(t *testing.T) {
	fake := &fakeCatalog{}
	debounce := 10 * time.Millisecond
	q := NewQueryComposer(fake, debounce)
	defer q.Close()

	// Land each category switch right as the debounce timer expires. A
	// timer that fired but has not run yet cannot be stopped; its
	// callback must still not issue a second composed query after the
	// switch.
	for i := 0; i < 50; i++ {
		q.SetSearchTerm("lamp")
		time.Sleep(debounce)
		q.SetCategory("Books")

		q.mtx.Lock()
		issued := q.seq
		q.mtx.Unlock()

		time.Sleep(2 * time.Millisecond)

		q.mtx.Lock()
		later := q.seq
		q.mtx.Unlock()
		require.Equal(t, issued, later, "fetch issued after the category switch")
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	fake := &fakeCatalog{}
	fake.handler = func(n int, search, category string) ([]models.Product, error) {
		if n == 1 {
			<-release
			return namedProducts("stale"), nil
		}
		return namedProducts("fresh"), nil
	}

	q := NewQueryComposer(fake, time.Millisecond)
	defer q.Close()

	q.Refresh()
	require.Eventually(t, func() bool {
		return fake.callCount() == 1
	}, time.Second, time.Millisecond)

	// Supersede the first fetch while it is still in flight.
	q.Refresh()
	require.Eventually(t, func() bool {
		state := q.State()
		return len(state.Products) == 1 && state.Products[0].Title == "fresh"
	}, time.Second, time.Millisecond)

	// Let the superseded response settle; it must not win.
	close(release)
	time.Sleep(50 * time.Millisecond)

	state := q.State()
	require.Len(t, state.Products, 1)
	assert.Equal(t, "fresh", state.Products[0].Title)
}

func TestFetchErrorKeepsPreviousResults(t *testing.T) {
	fake := &fakeCatalog{}
	fake.handler = func(n int, search, category string) ([]models.Product, error) {
		if n == 1 {
			return namedProducts("first"), nil
		}
		return nil, errors.New("gateway unavailable")
	}

	q := NewQueryComposer(fake, time.Millisecond)
	defer q.Close()

	q.Refresh()
	require.Eventually(t, func() bool {
		return len(q.State().Products) == 1
	}, time.Second, time.Millisecond)

	q.Refresh()
	require.Eventually(t, func() bool {
		return q.State().Err != nil
	}, time.Second, time.Millisecond)

	state := q.State()
	require.Len(t, state.Products, 1, "error must not clear displayed results")
	assert.Equal(t, "first", state.Products[0].Title)
	assert.False(t, state.Loading)
}

func TestCloseDiscardsLateResponse(t *testing.T) {
	release := make(chan struct{})
	fake := &fakeCatalog{}
	fake.handler = func(n int, search, category string) ([]models.Product, error) {
		<-release
		return namedProducts("late"), nil
	}

	q := NewQueryComposer(fake, time.Millisecond)

	q.Refresh()
	require.Eventually(t, func() bool {
		return fake.callCount() == 1
	}, time.Second, time.Millisecond)

	q.Close()
	close(release)
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, q.State().Products)
}

func TestOnQueryChangeCallback(t *testing.T) {
	fake := &fakeCatalog{}
	fake.handler = func(n int, search, category string) ([]models.Product, error) {
		return namedProducts("hit"), nil
	}

	updates := make(chan QueryState, 1)
	q := NewQueryComposer(fake, time.Millisecond, OnQueryChange(func(s QueryState) {
		updates <- s
	}))
	defer q.Close()

	q.Refresh()

	select {
	case state := <-updates:
		require.Len(t, state.Products, 1)
		assert.Equal(t, "hit", state.Products[0].Title)
	case <-time.After(time.Second):
		t.Fatal("no state update delivered")
	}
}

func TestLoadCategories(t *testing.T) {
	fake := &fakeCatalog{}
	q := NewQueryComposer(fake, time.Millisecond)
	defer q.Close()

	require.NoError(t, q.LoadCategories(context.Background()))
	assert.Equal(t, []string{"Books", "Furniture"}, q.State().Categories)
}
