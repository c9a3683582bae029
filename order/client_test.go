package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"qrmenu-telegram/models"
)

func TestClientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/ord-42/status" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(models.OrderStatusInfo{
			OrderID: "ord-42", Status: models.OrderStatusPreparing, EstimatedTime: 12,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	info, err := c.Status(context.Background(), "ord-42")
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if info.Status != models.OrderStatusPreparing {
		t.Errorf("Status = %q, want preparing", info.Status)
	}

	if _, err := c.Status(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown order")
	}
}

func TestClientCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "cancelled"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if err := c.Cancel(context.Background(), "ord-42"); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
}

func TestClientHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("restaurantId") != "resto1" || r.URL.Query().Get("table") != "4" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode([]models.Order{
			{RestaurantID: "resto1", Table: "4", Total: 25},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	orders, err := c.History(context.Background(), "resto1", "4")
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(orders) != 1 || orders[0].Total != 25 {
		t.Errorf("History() = %+v, want one order with total 25", orders)
	}
}
