package order

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"qrmenu-telegram/cart"
	"qrmenu-telegram/models"
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

const (
	// DefaultClearDelay is how long the success screen is shown before the
	// cart is cleared and the flow resets.
	DefaultClearDelay = 4 * time.Second
	// DefaultDismissDelay is how long the error banner stays before
	// auto-dismissing back to idle.
	DefaultDismissDelay = 3 * time.Second
)

// ErrSubmitInFlight is returned when Submit is called while a submission
// is already running. The second request is rejected, never queued.
var ErrSubmitInFlight = errors.New("order submission already in flight")

// ErrOrderPlaced is returned when Submit is called after a success but
// before the post-success reset; succeeded is terminal for the cart
// generation.
var ErrOrderPlaced = errors.New("order already placed")

// ValidationError carries every structural violation found in the order.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "order validation failed: " + strings.Join(e.Violations, ", ")
}

// Flow owns the submission state machine for one session:
// idle → submitting → {succeeded, failed}. failed → submitting via retry;
// succeeded resets to idle (clearing the cart) after the observation
// delay. Timer transitions are guarded by a generation token so a timer
// that fires after a reset or teardown acts on nothing.
type Flow struct {
	mu           sync.Mutex
	client       *Client
	cart         *cart.Cart
	restaurantID string
	table        string

	state   State
	gen     int
	orderID string
	last    *models.Order
	timer   *time.Timer
	stopped bool

	clearDelay   time.Duration
	dismissDelay time.Duration
	onChange     func(State) // re-render hook, called after timer transitions
}

func NewFlow(client *Client, c *cart.Cart, restaurantID, table string) *Flow {
	return &Flow{
		client:       client,
		cart:         c,
		restaurantID: restaurantID,
		table:        table,
		clearDelay:   DefaultClearDelay,
		dismissDelay: DefaultDismissDelay,
	}
}

// SetDelays overrides the success/error timers (tests use short ones).
func (f *Flow) SetDelays(clear, dismiss time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearDelay = clear
	f.dismissDelay = dismiss
}

// SetOnChange registers a hook invoked after a timer-driven state change.
func (f *Flow) SetOnChange(fn func(State)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onChange = fn
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// OrderID returns the server-issued id of the last successful order. May
// be empty: it is display data, not a correctness requirement.
func (f *Flow) OrderID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderID
}

// LastOrder returns the snapshot sent by the most recent submission.
func (f *Flow) LastOrder() *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// Submit builds an immutable snapshot from the cart, validates it, and
// posts it. Retry is the same call again: the cart is unchanged after a
// failure, so the rebuilt snapshot equals the original.
//
// Returns ErrSubmitInFlight while submitting, ErrOrderPlaced after a
// success that has not reset yet, *ValidationError on structural defects,
// or a generic error for network/status/decode failures.
func (f *Flow) Submit(ctx context.Context) (*models.OrderResponse, error) {
	f.mu.Lock()
	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	case StateSucceeded:
		f.mu.Unlock()
		return nil, ErrOrderPlaced
	}

	ord := f.snapshotLocked()
	if errs := Validate(ord); len(errs) > 0 {
		f.toFailedLocked()
		f.mu.Unlock()
		return nil, &ValidationError{Violations: errs}
	}

	f.state = StateSubmitting
	f.gen++
	gen := f.gen
	f.last = &ord
	f.stopTimerLocked()
	f.mu.Unlock()

	resp, err := f.client.Place(ctx, ord)

	f.mu.Lock()
	if f.gen != gen || f.stopped {
		// Torn down or reset while in flight; discard the result.
		f.mu.Unlock()
		return nil, errors.New("submission discarded")
	}
	if err != nil {
		log.Printf("order: submit failed: %v", err)
		f.toFailedLocked()
		f.mu.Unlock()
		return nil, err
	}

	f.state = StateSucceeded
	f.gen++
	f.orderID = resp.OrderID
	f.scheduleLocked(f.clearDelay, f.gen, func() {
		// Clears whatever is in the cart when the timer fires, items
		// added during the success screen included.
		f.cart.Clear()
		f.state = StateIdle
		f.orderID = ""
	})
	f.mu.Unlock()
	return resp, nil
}

// toFailedLocked enters the failed state and arms the banner auto-dismiss.
func (f *Flow) toFailedLocked() {
	f.state = StateFailed
	f.gen++
	f.scheduleLocked(f.dismissDelay, f.gen, func() {
		f.state = StateIdle
	})
}

// Dismiss manually clears a failed state without retrying.
func (f *Flow) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateFailed {
		return
	}
	f.state = StateIdle
	f.gen++
	f.stopTimerLocked()
}

// Stop tears the flow down: pending timers are cancelled and will not act.
func (f *Flow) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	f.gen++
	f.stopTimerLocked()
}

func (f *Flow) snapshotLocked() models.Order {
	entries := f.cart.Items()
	items := make([]models.OrderItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, models.OrderItem{
			ItemID:   e.Item.ID,
			Name:     e.Item.Name,
			Quantity: e.Quantity,
			Price:    e.Item.Price,
		})
	}
	return models.Order{
		RestaurantID: f.restaurantID,
		Table:        f.table,
		Items:        items,
		Total:        f.cart.Total(),
	}
}

func (f *Flow) stopTimerLocked() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// scheduleLocked arms a timer transition for the given generation. A timer
// firing after any later transition sees a changed generation and does
// nothing.
func (f *Flow) scheduleLocked(d time.Duration, gen int, transition func()) {
	f.stopTimerLocked()
	f.timer = time.AfterFunc(d, func() {
		f.mu.Lock()
		if f.gen != gen || f.stopped {
			f.mu.Unlock()
			return
		}
		transition()
		f.gen++
		fn := f.onChange
		st := f.state
		f.mu.Unlock()
		if fn != nil {
			fn(st)
		}
	})
}
