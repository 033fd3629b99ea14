package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/codleo/cod-order-capture/internal/domain"
	"github.com/codleo/cod-order-capture/internal/query"
	"github.com/codleo/cod-order-capture/internal/repository"
)

const (
	OrderResource = "order"
)

// PoolProvider hands out the shared connection pool, establishing it lazily
// on first use.
type PoolProvider interface {
	Acquire(ctx context.Context) (*pgxpool.Pool, error)
}

// OrderRepository provides database operations for captured orders. Orders
// are append-only: there is no update or delete path.
type OrderRepository struct {
	db PoolProvider
}

// NewOrderRepository creates a new OrderRepository instance
func NewOrderRepository(db PoolProvider) *OrderRepository {
	return &OrderRepository{
		db: db,
	}
}

// Insert persists the caller-supplied payload as a new order, assigning the
// generated id and creation timestamp. The payload is stored verbatim; no
// shape validation happens beyond it being a structured document.
func (r *OrderRepository) Insert(ctx context.Context, payload map[string]any) (*domain.Order, error) {
	if payload == nil {
		payload = map[string]any{}
	}

	order := &domain.Order{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	}

	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	q := "INSERT INTO orders (id, created_at, payload) VALUES ($1, $2, $3)"
	if _, err := pool.Exec(ctx, q, order.ID, order.CreatedAt, order.Payload); err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	return order, nil
}

// GetByID retrieves an order by its identifier. A syntactically invalid id
// is reported as not found rather than as a distinct client error, keeping
// the retrieval path idempotent for bad input.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, notFound(id)
	}

	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve order with id %s: %w", id, err)
	}

	var order domain.Order
	q := "SELECT id, created_at, payload FROM orders WHERE id = $1"

	err = pool.QueryRow(ctx, q, orderID).Scan(&order.ID, &order.CreatedAt, &order.Payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("failed to retrieve order with id %s: %w", id, err)
	}

	return &order, nil
}

// Query returns one page of orders matching q plus the total number of
// matching orders independent of the page window. The page fetch and the
// count run concurrently against the pool.
func (r *OrderRepository) Query(ctx context.Context, q query.Query) ([]*domain.Order, int64, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}

	where, whereArgs := searchClause(q.Search)

	countQuery := "SELECT COUNT(*) FROM orders" + where

	listQuery := "SELECT id, created_at, payload FROM orders" + where
	listArgs := append([]any{}, whereArgs...)
	listQuery, listArgs = appendOrderBy(listQuery, listArgs, q)
	listQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(listArgs)+1, len(listArgs)+2)
	listArgs = append(listArgs, q.Limit, q.Offset())

	var (
		orders []*domain.Order
		total  int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := pool.Query(gctx, listQuery, listArgs...)
		if err != nil {
			return fmt.Errorf("failed to list orders: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var order domain.Order
			if err := rows.Scan(&order.ID, &order.CreatedAt, &order.Payload); err != nil {
				return fmt.Errorf("failed to scan order: %w", err)
			}
			orders = append(orders, &order)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to read order rows: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := pool.QueryRow(gctx, countQuery, whereArgs...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count orders: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if orders == nil {
		orders = []*domain.Order{}
	}

	return orders, total, nil
}

// searchClause builds the free-text filter: a case-insensitive substring
// match OR-ed across customer name, customer phone, and product title inside
// the payload document. An empty search matches everything.
func searchClause(search string) (string, []any) {
	if search == "" {
		return "", nil
	}

	where := ` WHERE payload->'customer'->>'name' ILIKE $1` +
		` OR payload->'customer'->>'phone' ILIKE $1` +
		` OR payload->'main_product'->>'title' ILIKE $1`

	return where, []any{"%" + escapeLike(search) + "%"}
}

// appendOrderBy adds the sort clause. Known system fields map to their
// columns; any other caller-supplied field name sorts on the corresponding
// payload key, passed as a bind parameter so arbitrary input stays inert.
// Documents missing the key sort last.
func appendOrderBy(q string, args []any, plan query.Query) (string, []any) {
	direction := "DESC"
	if plan.Ascending {
		direction = "ASC"
	}

	switch plan.SortBy {
	case "", query.DefaultSortField, "created_at":
		return q + " ORDER BY created_at " + direction, args
	case "id", "_id":
		return q + " ORDER BY id " + direction, args
	default:
		q += fmt.Sprintf(" ORDER BY payload->>$%d %s NULLS LAST", len(args)+1, direction)
		return q, append(args, plan.SortBy)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func notFound(id string) *repository.NotFoundError {
	return &repository.NotFoundError{
		Resource: OrderResource,
		Key:      "id",
		Value:    id,
	}
}
