package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pflegebox/internal/domain"
	"pflegebox/internal/metrics"
	"pflegebox/internal/repos"
	"pflegebox/internal/validate"
)

var ErrEmptyOrder = errors.New("order has no items")

type OrderService struct {
	DB        *sqlx.DB
	Customers *CustomerService
	Orders    *repos.OrderRepo
	BudgetMax float64
}

func NewOrderService(db *sqlx.DB, customers *CustomerService, orders *repos.OrderRepo, budgetMax float64) *OrderService {
	if budgetMax <= 0 {
		budgetMax = domain.DefaultBudgetMax
	}
	return &OrderService{DB: db, Customers: customers, Orders: orders, BudgetMax: budgetMax}
}

// WithTx binds the order writer and customer resolver to tx.
func (s *OrderService) WithTx(tx *sqlx.Tx) *OrderService {
	return &OrderService{
		DB:        s.DB,
		Customers: s.Customers.WithTx(tx),
		Orders:    s.Orders.WithTx(tx),
		BudgetMax: s.BudgetMax,
	}
}

// CreateOrder writes one open order for customerID followed by one item per
// line. The values are persisted as given; the budget is not re-derived here.
func (s *OrderService) CreateOrder(ctx context.Context, customerID, monthKey string, total, budgetMax float64, lines []domain.CartLine) (domain.Order, error) {
	if len(lines) == 0 {
		return domain.Order{}, ErrEmptyOrder
	}
	o := domain.Order{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		MonthKey:   monthKey,
		Total:      domain.Round2(domain.Money(total)),
		BudgetMax:  budgetMax,
	}
	if err := s.Orders.Create(ctx, &o); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	for i, l := range lines {
		if err := s.Orders.InsertItem(ctx, i, domain.NewOrderItem(o.ID, l)); err != nil {
			return domain.Order{}, fmt.Errorf("insert item %d: %w", i, err)
		}
	}
	return o, nil
}

// Submit validates sub and persists it as one unit of work: the customer
// upsert, the order and all of its items commit together or not at all.
func (s *OrderService) Submit(ctx context.Context, sub *validate.Submission) (domain.OrderReceipt, error) {
	sub.Normalize()
	if err := sub.Validate(s.BudgetMax); err != nil {
		metrics.OrdersSubmitted.WithLabelValues("invalid").Inc()
		return domain.OrderReceipt{}, err
	}

	var rec domain.OrderReceipt
	err := repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		w := s.WithTx(tx)
		customerID, err := w.Customers.ResolveAndUpsert(ctx, sub.Key(), sub.Fields())
		if err != nil {
			return fmt.Errorf("resolve customer: %w", err)
		}
		o, err := w.CreateOrder(ctx, customerID, sub.Order.MonthKey, sub.Order.Total, sub.Order.BudgetMax, sub.Lines())
		if err != nil {
			return err
		}
		rec = domain.OrderReceipt{
			CustomerID:  customerID,
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			CreatedAt:   o.CreatedAt,
		}
		return nil
	})
	if err != nil {
		metrics.OrdersSubmitted.WithLabelValues("error").Inc()
		return domain.OrderReceipt{}, err
	}
	metrics.OrdersSubmitted.WithLabelValues("ok").Inc()
	return rec, nil
}

func (s *OrderService) List(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.Orders.List(ctx, customerID, repos.MaxOrderList)
}

// Get returns the order with its items, or sql.ErrNoRows.
func (s *OrderService) Get(ctx context.Context, orderID string) (domain.Order, []domain.OrderItem, error) {
	return s.Orders.Get(ctx, orderID)
}
