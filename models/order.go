package models

// OrderItem is one denormalized line of a submitted order.
type OrderItem struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order is a snapshot of the cart at submission time. Never mutated after
// it is built; later cart changes do not affect an in-flight submission.
type Order struct {
	RestaurantID string      `json:"restaurantId"`
	Table        string      `json:"table"`
	Items        []OrderItem `json:"items"`
	Total        float64     `json:"total"`
}

// OrderResponse is the backend's answer to POST /orders.
type OrderResponse struct {
	OrderID       string `json:"orderId"`
	Status        string `json:"status"`
	EstimatedTime int    `json:"estimatedTime,omitempty"` // minutes
	Message       string `json:"message,omitempty"`
}

// OrderStatusInfo is the answer to GET /orders/{id}/status.
type OrderStatusInfo struct {
	OrderID       string `json:"orderId"`
	Status        string `json:"status"`
	EstimatedTime int    `json:"estimatedTime,omitempty"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)
