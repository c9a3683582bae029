package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"qrmenu-telegram/models"
)

// Client is the write path to the backend: order submission plus the
// follow-up reads (status, history, cancel). Unlike the menu gateway these
// calls return errors; the flow decides how a failure is surfaced.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Place POSTs the order. Any non-2xx status, transport failure or
// malformed response body is a single failure class.
func (c *Client) Place(ctx context.Context, o models.Order) (*models.OrderResponse, error) {
	body, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("place order: unexpected status %d", resp.StatusCode)
	}

	var out models.OrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}
	return &out, nil
}

// Status fetches the current status of a previously placed order.
func (c *Client) Status(ctx context.Context, orderID string) (*models.OrderStatusInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/orders/"+url.PathEscape(orderID)+"/status", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order status: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("order status: unexpected status %d", resp.StatusCode)
	}
	var out models.OrderStatusInfo
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}
	return &out, nil
}

// Cancel asks the backend to cancel an order. Only orders the kitchen has
// not started can be cancelled; the backend decides.
func (c *Client) Cancel(ctx context.Context, orderID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/orders/"+url.PathEscape(orderID)+"/cancel", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("cancel order: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// History lists past orders for a table.
func (c *Client) History(ctx context.Context, restaurantID, table string) ([]models.Order, error) {
	q := url.Values{"restaurantId": {restaurantID}, "table": {table}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/orders/history?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("order history: unexpected status %d", resp.StatusCode)
	}
	var out []models.Order
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode history response: %w", err)
	}
	return out, nil
}
