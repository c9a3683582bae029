package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"qrmenu-telegram/cart"
	"qrmenu-telegram/models"
)

func fullCart() *cart.Cart {
	c := cart.New()
	c.Add(models.MenuItem{ID: "001", Name: "Truffle Pasta", Price: 28.99})
	c.Add(models.MenuItem{ID: "001", Name: "Truffle Pasta", Price: 28.99})
	c.Add(models.MenuItem{ID: "002", Name: "Caesar Salad", Price: 16.99})
	return c
}

// orderServer records every request body and answers with the given
// status sequence (last status repeats).
type orderServer struct {
	mu       sync.Mutex
	bodies   [][]byte
	statuses []int
	calls    int
}

func (s *orderServer) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.bodies = append(s.bodies, body)
	idx := s.calls
	if idx >= len(s.statuses) {
		idx = len(s.statuses) - 1
	}
	status := s.statuses[idx]
	s.calls++
	s.mu.Unlock()

	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}
	json.NewEncoder(w).Encode(models.OrderResponse{
		OrderID: "ord-42", Status: models.OrderStatusPending, EstimatedTime: 18,
	})
}

func (s *orderServer) recorded() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.bodies...)
}

func newFlowAgainst(t *testing.T, s *orderServer, c *cart.Cart) (*Flow, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(s.handler))
	f := NewFlow(NewClient(srv.URL, time.Second), c, "resto1", "4")
	f.SetDelays(30*time.Millisecond, 20*time.Millisecond)
	return f, srv.Close
}

func TestSubmitSuccessThenAutoClear(t *testing.T) {
	c := fullCart()
	f, closeSrv := newFlowAgainst(t, &orderServer{statuses: []int{http.StatusOK}}, c)
	defer closeSrv()

	resp, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if resp.OrderID != "ord-42" {
		t.Errorf("OrderID = %q, want ord-42", resp.OrderID)
	}
	if got := f.State(); got != StateSucceeded {
		t.Errorf("State() = %v, want succeeded", got)
	}
	if f.OrderID() != "ord-42" {
		t.Errorf("OrderID() = %q, want ord-42", f.OrderID())
	}

	// After the observation delay the cart clears and the flow resets.
	time.Sleep(80 * time.Millisecond)
	if !c.IsEmpty() {
		t.Error("cart should be empty after the auto-clear delay")
	}
	if got := f.State(); got != StateIdle {
		t.Errorf("State() after auto-clear = %v, want idle", got)
	}
}

func TestAutoClearTakesLateAdditions(t *testing.T) {
	c := fullCart()
	f, closeSrv := newFlowAgainst(t, &orderServer{statuses: []int{http.StatusOK}}, c)
	defer closeSrv()

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	c.Add(models.MenuItem{ID: "006", Name: "Lava Cake", Price: 12.99})

	time.Sleep(80 * time.Millisecond)
	if !c.IsEmpty() {
		t.Error("auto-clear should empty the cart, items added during the success screen included")
	}
}

func TestSubmitFailureLeavesCartAndAllowsRetry(t *testing.T) {
	c := fullCart()
	s := &orderServer{statuses: []int{http.StatusInternalServerError, http.StatusOK}}
	f, closeSrv := newFlowAgainst(t, s, c)
	defer closeSrv()

	if _, err := f.Submit(context.Background()); err == nil {
		t.Fatal("expected submit error")
	}
	if got := f.State(); got != StateFailed {
		t.Errorf("State() = %v, want failed", got)
	}
	if c.IsEmpty() || c.ItemCount() != 3 {
		t.Errorf("failed submission must leave the cart unchanged, count = %d", c.ItemCount())
	}

	// Retry re-runs the full submission with the identical payload.
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("retry error: %v", err)
	}
	bodies := s.recorded()
	if len(bodies) != 2 {
		t.Fatalf("server saw %d requests, want 2", len(bodies))
	}
	if string(bodies[0]) != string(bodies[1]) {
		t.Errorf("retry payload differs from original:\n%s\n%s", bodies[0], bodies[1])
	}
}

func TestFailedStateAutoDismisses(t *testing.T) {
	f, closeSrv := newFlowAgainst(t, &orderServer{statuses: []int{http.StatusBadGateway}}, fullCart())
	defer closeSrv()

	f.Submit(context.Background())
	if got := f.State(); got != StateFailed {
		t.Fatalf("State() = %v, want failed", got)
	}
	time.Sleep(60 * time.Millisecond)
	if got := f.State(); got != StateIdle {
		t.Errorf("State() after dismiss delay = %v, want idle", got)
	}
}

func TestSubmitEmptyCartFailsValidation(t *testing.T) {
	f, closeSrv := newFlowAgainst(t, &orderServer{statuses: []int{http.StatusOK}}, cart.New())
	defer closeSrv()

	_, err := f.Submit(context.Background())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	hasItems, hasTotal := false, false
	for _, v := range verr.Violations {
		if v == "order must contain at least one item" {
			hasItems = true
		}
		if v == "order total must be greater than 0" {
			hasTotal = true
		}
	}
	if !hasItems || !hasTotal {
		t.Errorf("violations %v should mention the item list and the total", verr.Violations)
	}
}

func TestSubmitWhileInFlightIsRejected(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		json.NewEncoder(w).Encode(models.OrderResponse{OrderID: "ord-1", Status: models.OrderStatusPending})
	}))
	defer srv.Close()

	f := NewFlow(NewClient(srv.URL, 5*time.Second), fullCart(), "resto1", "4")
	f.SetDelays(time.Hour, time.Hour)

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background())
		done <- err
	}()

	<-entered
	if got := f.State(); got != StateSubmitting {
		t.Errorf("State() = %v, want submitting", got)
	}
	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("second Submit error = %v, want ErrSubmitInFlight", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit error: %v", err)
	}
	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrOrderPlaced) {
		t.Errorf("Submit after success = %v, want ErrOrderPlaced", err)
	}
	f.Stop()
}

func TestMalformedSuccessBodyIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	f := NewFlow(NewClient(srv.URL, time.Second), fullCart(), "resto1", "4")
	f.SetDelays(time.Hour, time.Hour)
	if _, err := f.Submit(context.Background()); err == nil {
		t.Fatal("expected error for malformed body")
	}
	if got := f.State(); got != StateFailed {
		t.Errorf("State() = %v, want failed", got)
	}
}

func TestStopCancelsPendingTimers(t *testing.T) {
	c := fullCart()
	f, closeSrv := newFlowAgainst(t, &orderServer{statuses: []int{http.StatusOK}}, c)
	defer closeSrv()

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	f.Stop()
	time.Sleep(80 * time.Millisecond)
	if c.IsEmpty() {
		t.Error("stale timer cleared the cart after Stop")
	}
}

func TestSnapshotImmuneToLaterCartMutations(t *testing.T) {
	c := fullCart()
	s := &orderServer{statuses: []int{http.StatusInternalServerError}}
	f, closeSrv := newFlowAgainst(t, s, c)
	defer closeSrv()
	f.SetDelays(time.Hour, time.Hour)

	f.Submit(context.Background())
	snap := f.LastOrder()
	c.Add(models.MenuItem{ID: "003", Name: "Late Add", Price: 9.99})
	if len(snap.Items) != 2 {
		t.Errorf("snapshot has %d lines, want 2 (mutation after submit leaked in)", len(snap.Items))
	}
	if snap.Total != 74.97 {
		t.Errorf("snapshot total = %v, want 74.97", snap.Total)
	}
}

func TestOnChangeFiresOnTimerTransitions(t *testing.T) {
	f, closeSrv := newFlowAgainst(t, &orderServer{statuses: []int{http.StatusOK}}, fullCart())
	defer closeSrv()

	ch := make(chan State, 1)
	f.SetOnChange(func(s State) { ch <- s })

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	select {
	case s := <-ch:
		if s != StateIdle {
			t.Errorf("onChange state = %v, want idle", s)
		}
	case <-time.After(time.Second):
		t.Fatal("onChange never fired")
	}
}
