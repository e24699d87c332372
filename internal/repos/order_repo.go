package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pflegebox/internal/domain"
)

// MaxOrderList caps admin order listings.
const MaxOrderList = 200

// firstOrderNo is the number handed to the very first order.
const firstOrderNo = 1001

type OrderRepo struct{ db sqlx.ExtContext }

func NewOrderRepo(db sqlx.ExtContext) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) WithTx(tx *sqlx.Tx) *OrderRepo { return &OrderRepo{db: tx} }

func formatOrderNumber(n int64) string { return fmt.Sprintf("PB-%06d", n) }

// Create inserts a new order header with status open. The order number and
// created_at are assigned here and written back into o. Call it inside a
// transaction so the number allocation cannot race.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	var next int64
	if err := sqlx.GetContext(ctx, r.db, &next,
		`SELECT COALESCE(MAX(order_no), ?) + 1 FROM orders`, firstOrderNo-1); err != nil {
		return err
	}
	o.OrderNumber = formatOrderNumber(next)
	o.Status = domain.OrderStatusOpen
	row := r.db.QueryRowxContext(ctx, `
	  INSERT INTO orders
	    (id, order_no, order_number, customer_id, month_key, total, budget_max, status, created_at)
	  VALUES
	    (?,  ?,        ?,            ?,           ?,         ?,     ?,          ?,      `+nowExpr+`)
	  RETURNING created_at
	`, o.ID, next, o.OrderNumber, o.CustomerID, o.MonthKey, o.Total, o.BudgetMax, o.Status)
	return row.Scan(&o.CreatedAt)
}

// InsertItem inserts a single line item at position lineNo.
func (r *OrderRepo) InsertItem(ctx context.Context, lineNo int, it domain.OrderItem) error {
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO order_items(order_id, line_no, product_id, name, category, unit_price, quantity, size, line_total)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, it.OrderID, lineNo, it.ProductID, it.Name, it.Category, it.UnitPrice, it.Quantity, it.Size, it.LineTotal)
	return err
}

const orderCols = `id, order_number, customer_id, month_key, total, budget_max, status, created_at`

func (r *OrderRepo) Get(ctx context.Context, orderID string) (domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	if err := sqlx.GetContext(ctx, r.db, &o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID); err != nil {
		return domain.Order{}, nil, err
	}
	items := []domain.OrderItem{}
	if err := sqlx.SelectContext(ctx, r.db, &items, `
		SELECT order_id, product_id, name, category, unit_price, quantity, size, line_total
		FROM order_items
		WHERE order_id = ?
		ORDER BY line_no
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

// List returns the newest orders first, optionally for one customer only.
// limit is clamped to MaxOrderList.
func (r *OrderRepo) List(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	if limit <= 0 || limit > MaxOrderList {
		limit = MaxOrderList
	}
	where, args := "", []any{}
	if customerID != "" {
		where = `WHERE customer_id = ?`
		args = append(args, customerID)
	}
	args = append(args, limit)
	out := []domain.Order{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
		SELECT `+orderCols+`
		FROM orders
		`+where+`
		ORDER BY created_at DESC, order_no DESC
		LIMIT ?
	`, args...)
	return out, err
}
