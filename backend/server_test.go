package backend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"qrmenu-telegram/models"

	"github.com/gin-gonic/gin"
)

func newTestServer() *Server {
	gin.SetMode(gin.TestMode)
	return NewServer(DemoCatalog(), NewMemoryStore())
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetRestaurant(t *testing.T) {
	r := newTestServer().Router()

	w := doJSON(t, r, http.MethodGet, "/restaurants/resto1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resto models.Restaurant
	if err := json.Unmarshal(w.Body.Bytes(), &resto); err != nil {
		t.Fatal(err)
	}
	if resto.Name != "Bella Vista" {
		t.Errorf("Name = %q, want Bella Vista", resto.Name)
	}

	w = doJSON(t, r, http.MethodGet, "/restaurants/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown restaurant status = %d, want 404", w.Code)
	}
}

func TestGetMenuAndCategories(t *testing.T) {
	r := newTestServer().Router()

	w := doJSON(t, r, http.MethodGet, "/restaurants/resto1/menu", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var items []models.MenuItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 120 {
		t.Errorf("len(items) = %d, want 120", len(items))
	}

	w = doJSON(t, r, http.MethodGet, "/restaurants/resto1/categories", nil)
	var cats []string
	if err := json.Unmarshal(w.Body.Bytes(), &cats); err != nil {
		t.Fatal(err)
	}
	if len(cats) == 0 || cats[0] != models.CategoryAll {
		t.Errorf("categories should lead with All, got %v", cats)
	}
}

func TestCreateOrderRecomputesTotal(t *testing.T) {
	r := newTestServer().Router()

	w := doJSON(t, r, http.MethodPost, "/orders", models.Order{
		RestaurantID: "resto1",
		Table:        "4",
		Items: []models.OrderItem{
			// Client lies about the price; the catalog says 28.99.
			{ItemID: "001", Name: "Truffle Pasta", Quantity: 2, Price: 0.01},
		},
		Total: 0.02,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
	}
	var resp models.OrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.OrderID == "" {
		t.Error("expected a server-issued order id")
	}
	if resp.Status != models.OrderStatusPending {
		t.Errorf("Status = %q, want pending", resp.Status)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	r := newTestServer().Router()

	w := doJSON(t, r, http.MethodPost, "/orders", models.Order{
		RestaurantID: "resto1", Table: "4",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp struct {
		Details []string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Details) == 0 {
		t.Error("expected validation details in the response")
	}
}

func TestCreateOrderUnknownRestaurant(t *testing.T) {
	r := newTestServer().Router()
	w := doJSON(t, r, http.MethodPost, "/orders", models.Order{
		RestaurantID: "nope", Table: "4",
		Items: []models.OrderItem{{ItemID: "001", Quantity: 1, Price: 1}},
		Total: 1,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestOrderStatusAndCancel(t *testing.T) {
	r := newTestServer().Router()

	w := doJSON(t, r, http.MethodPost, "/orders", models.Order{
		RestaurantID: "resto1", Table: "4",
		Items: []models.OrderItem{{ItemID: "002", Quantity: 1, Price: 22.50}},
		Total: 22.50,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	var created models.OrderResponse
	json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(t, r, http.MethodGet, "/orders/"+created.OrderID+"/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d, want 200", w.Code)
	}
	var info models.OrderStatusInfo
	json.Unmarshal(w.Body.Bytes(), &info)
	if info.Status != models.OrderStatusPending {
		t.Errorf("Status = %q, want pending", info.Status)
	}

	w = doJSON(t, r, http.MethodPost, "/orders/"+created.OrderID+"/cancel", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel = %d, want 200", w.Code)
	}
	// Second cancel: already cancelled, not cancellable again.
	w = doJSON(t, r, http.MethodPost, "/orders/"+created.OrderID+"/cancel", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("second cancel = %d, want 409", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/orders/missing/status", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown order status = %d, want 404", w.Code)
	}
}

func TestOrderHistory(t *testing.T) {
	r := newTestServer().Router()

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, "/orders", models.Order{
			RestaurantID: "resto1", Table: "4",
			Items: []models.OrderItem{{ItemID: "001", Quantity: 1, Price: 28.99}},
			Total: 28.99,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create status = %d", w.Code)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/orders/history?restaurantId=resto1&table=4", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history = %d, want 200", w.Code)
	}
	var orders []models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &orders); err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 {
		t.Errorf("len(history) = %d, want 2", len(orders))
	}

	w = doJSON(t, r, http.MethodGet, "/orders/history?restaurantId=resto1", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing table = %d, want 400", w.Code)
	}
}
