// internal/viewmodel/query.go
package viewmodel

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/greenloop/market-client/internal/models"
)

// QueryState is a read-only snapshot of the catalog view.
type QueryState struct {
	Search     string
	Category   string
	Products   []models.Product
	Categories []string
	Loading    bool
	Err        error
}

// QueryComposer turns free-text input and category selection into
// debounced, sequence-tagged catalog fetches. Text changes wait out a
// quiet period before firing; category changes fire immediately and
// cancel any pending text fetch, since the immediate fetch already
// carries the latest composed {search, category} parameter set. Late
// responses to superseded fetches are dropped by sequence number.
type QueryComposer struct {
	gw       CatalogGateway
	logger   *logrus.Logger
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mtx        sync.Mutex
	timer      *time.Timer
	gen        uint64
	seq        uint64
	search     string
	category   string
	products   []models.Product
	categories []string
	loading    bool
	err        error
	onChange   func(QueryState)
	closed     bool
}

type QueryOption func(*QueryComposer)

func WithQueryLogger(l *logrus.Logger) QueryOption {
	return func(q *QueryComposer) { q.logger = l }
}

// OnQueryChange registers a callback invoked after each settled fetch.
func OnQueryChange(fn func(QueryState)) QueryOption {
	return func(q *QueryComposer) { q.onChange = fn }
}

func NewQueryComposer(gw CatalogGateway, debounce time.Duration, opts ...QueryOption) *QueryComposer {
	ctx, cancel := context.WithCancel(context.Background())

	q := &QueryComposer{
		gw:       gw,
		logger:   logrus.StandardLogger(),
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		category: "all",
	}

	for _, opt := range opts {
		opt(q)
	}

	return q
}

// SetSearchTerm records the new text term and restarts the debounce
// window. Rapid successive calls coalesce into one fetch using the
// final value.
func (q *QueryComposer) SetSearchTerm(term string) {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	if q.closed {
		return
	}

	q.search = term
	if q.timer != nil {
		q.timer.Stop()
	}
	q.gen++
	gen := q.gen
	q.timer = time.AfterFunc(q.debounce, func() { q.fireDebounced(gen) })
}

// fireDebounced runs when the quiet period elapses. Stop cannot cancel
// a timer that has already fired, so a callback superseded between
// firing and running is dropped by generation check instead.
func (q *QueryComposer) fireDebounced(gen uint64) {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	if q.closed || gen != q.gen {
		return
	}

	q.timer = nil
	q.issueLocked()
}

// SetCategory switches the category filter and fetches immediately,
// cancelling any pending debounced text fetch.
func (q *QueryComposer) SetCategory(category string) {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	if q.closed {
		return
	}

	q.category = category
	q.gen++
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.issueLocked()
}

// Refresh fetches immediately with the current composed parameters.
func (q *QueryComposer) Refresh() {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	if q.closed {
		return
	}

	q.issueLocked()
}

// issueLocked starts an asynchronous fetch tagged with the next
// sequence number. Caller must hold q.mtx.
func (q *QueryComposer) issueLocked() {
	q.seq++
	seq := q.seq
	search, category := q.search, q.category
	q.loading = true

	go func() {
		products, err := q.gw.SearchProducts(q.ctx, search, category)

		q.mtx.Lock()
		if q.closed || seq != q.seq {
			// A newer fetch was issued; this response is stale.
			latest := q.seq
			q.mtx.Unlock()
			q.logger.WithFields(logrus.Fields{
				"seq":    seq,
				"latest": latest,
				"search": search,
			}).Debug("Discarding stale search response")
			return
		}

		q.loading = false
		if err != nil {
			// Recoverable error state; previous results stay visible.
			q.err = err
		} else {
			q.products = products
			q.err = nil
		}

		cb := q.onChange
		state := q.stateLocked()
		q.mtx.Unlock()

		if cb != nil {
			cb(state)
		}
	}()
}

// LoadCategories fetches the server-supplied category set once.
func (q *QueryComposer) LoadCategories(ctx context.Context) error {
	categories, err := q.gw.Categories(ctx)
	if err != nil {
		return err
	}

	q.mtx.Lock()
	q.categories = categories
	q.mtx.Unlock()

	return nil
}

// State returns a snapshot of the current query view.
func (q *QueryComposer) State() QueryState {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	return q.stateLocked()
}

func (q *QueryComposer) stateLocked() QueryState {
	products := make([]models.Product, len(q.products))
	copy(products, q.products)
	categories := make([]string, len(q.categories))
	copy(categories, q.categories)

	return QueryState{
		Search:     q.search,
		Category:   q.category,
		Products:   products,
		Categories: categories,
		Loading:    q.loading,
		Err:        q.err,
	}
}

// Close cancels pending and in-flight work. Responses settling after
// Close are discarded, since the issuing view is no longer active.
func (q *QueryComposer) Close() {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.cancel()
}
