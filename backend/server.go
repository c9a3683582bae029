package backend

import (
	"errors"
	"log"
	"math"
	"net/http"
	"time"

	"qrmenu-telegram/models"
	"qrmenu-telegram/order"

	"github.com/gin-gonic/gin"
)

// defaultEstimatedTime is the kitchen estimate returned with every
// accepted order, in minutes.
const defaultEstimatedTime = 18

type Server struct {
	catalog *Catalog
	store   OrderStore
}

func NewServer(catalog *Catalog, store OrderStore) *Server {
	return &Server{catalog: catalog, store: store}
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/restaurants/:id", s.getRestaurant)
	r.GET("/restaurants/:id/menu", s.getMenu)
	r.GET("/restaurants/:id/categories", s.getCategories)

	r.POST("/orders", s.createOrder)
	r.GET("/orders/history", s.orderHistory)
	r.GET("/orders/:id/status", s.orderStatus)
	r.POST("/orders/:id/cancel", s.cancelOrder)

	return r
}

// GET /restaurants/:id
func (s *Server) getRestaurant(c *gin.Context) {
	r, ok := s.catalog.Restaurant(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, r)
}

// GET /restaurants/:id/menu
func (s *Server) getMenu(c *gin.Context) {
	items, ok := s.catalog.Menu(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /restaurants/:id/categories
func (s *Server) getCategories(c *gin.Context) {
	cats, ok := s.catalog.Categories(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, cats)
}

// POST /orders
func (s *Server) createOrder(c *gin.Context) {
	var req models.Order
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errs := order.Validate(req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order", "details": errs})
		return
	}
	if _, ok := s.catalog.Restaurant(req.RestaurantID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
		return
	}

	// The client total is provisional display data; the authoritative
	// total comes from the catalog prices.
	var total float64
	for i, it := range req.Items {
		cat, ok := s.catalog.Item(req.RestaurantID, it.ItemID)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown item " + it.ItemID})
			return
		}
		req.Items[i].Price = cat.Price
		total += cat.Price * float64(it.Quantity)
	}
	req.Total = math.Round(total*100) / 100

	so, err := s.store.Create(c.Request.Context(), req, defaultEstimatedTime)
	if err != nil {
		log.Printf("backend: create order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store order"})
		return
	}
	c.JSON(http.StatusCreated, models.OrderResponse{
		OrderID:       so.ID,
		Status:        so.Status,
		EstimatedTime: so.EstimatedTime,
	})
}

// GET /orders/:id/status
func (s *Server) orderStatus(c *gin.Context) {
	so, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		log.Printf("backend: order status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}
	c.JSON(http.StatusOK, models.OrderStatusInfo{
		OrderID:       so.ID,
		Status:        so.Status,
		EstimatedTime: so.EstimatedTime,
		CreatedAt:     so.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     so.UpdatedAt.Format(time.RFC3339),
	})
}

// POST /orders/:id/cancel
func (s *Server) cancelOrder(c *gin.Context) {
	ok, err := s.store.Cancel(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		log.Printf("backend: cancel order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel order"})
		return
	}
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "order can no longer be cancelled"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "order cancelled"})
}

// GET /orders/history?restaurantId=&table=
func (s *Server) orderHistory(c *gin.Context) {
	restaurantID := c.Query("restaurantId")
	table := c.Query("table")
	if restaurantID == "" || table == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restaurantId and table are required"})
		return
	}
	stored, err := s.store.HistoryByTable(c.Request.Context(), restaurantID, table)
	if err != nil {
		log.Printf("backend: order history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	out := make([]models.Order, 0, len(stored))
	for _, so := range stored {
		out = append(out, so.Order)
	}
	c.JSON(http.StatusOK, out)
}
