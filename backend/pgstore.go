package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"qrmenu-telegram/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore persists orders in Postgres. Line items are stored as a jsonb
// column; the schema lives in migrations/.
type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) Create(ctx context.Context, o models.Order, estimatedTime int) (*StoredOrder, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal order items: %w", err)
	}
	so := &StoredOrder{
		ID:            uuid.NewString(),
		Order:         o,
		Status:        models.OrderStatusPending,
		EstimatedTime: estimatedTime,
	}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO orders (id, restaurant_id, table_no, items, total, status, estimated_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		so.ID, o.RestaurantID, o.Table, itemsJSON, o.Total, so.Status, estimatedTime,
	).Scan(&so.CreatedAt, &so.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return so, nil
}

func (s *PgStore) Get(ctx context.Context, id string) (*StoredOrder, error) {
	var (
		so        StoredOrder
		itemsJSON []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, restaurant_id, table_no, items, total, status, estimated_minutes, created_at, updated_at
		FROM orders WHERE id = $1`,
		id,
	).Scan(&so.ID, &so.Order.RestaurantID, &so.Order.Table, &itemsJSON, &so.Order.Total,
		&so.Status, &so.EstimatedTime, &so.CreatedAt, &so.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &so.Order.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	return &so, nil
}

func (s *PgStore) Cancel(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE orders SET status = $1, updated_at = now()
		WHERE id = $2 AND status IN ($3, $4)`,
		models.OrderStatusCancelled, id, models.OrderStatusPending, models.OrderStatusConfirmed,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	// Not updated: either unknown or not cancellable.
	if _, err := s.Get(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (s *PgStore) HistoryByTable(ctx context.Context, restaurantID, table string) ([]StoredOrder, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, restaurant_id, table_no, items, total, status, estimated_minutes, created_at, updated_at
		FROM orders
		WHERE restaurant_id = $1 AND table_no = $2
		ORDER BY created_at DESC`,
		restaurantID, table,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredOrder
	for rows.Next() {
		var (
			so        StoredOrder
			itemsJSON []byte
		)
		if err := rows.Scan(&so.ID, &so.Order.RestaurantID, &so.Order.Table, &itemsJSON,
			&so.Order.Total, &so.Status, &so.EstimatedTime, &so.CreatedAt, &so.UpdatedAt); err != nil {
			return nil, err
		}
		if len(itemsJSON) > 0 {
			if err := json.Unmarshal(itemsJSON, &so.Order.Items); err != nil {
				return nil, fmt.Errorf("unmarshal order items: %w", err)
			}
		}
		out = append(out, so)
	}
	return out, rows.Err()
}
