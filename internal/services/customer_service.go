package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pflegebox/internal/domain"
	"pflegebox/internal/metrics"
	"pflegebox/internal/repos"
)

// ErrCustomerConflict is returned when another writer created the same
// customer between lookup and insert and the winner cannot be read back.
var ErrCustomerConflict = errors.New("customer was created concurrently, please retry")

type CustomerService struct {
	Customers *repos.CustomerRepo
}

func NewCustomerService(customers *repos.CustomerRepo) *CustomerService {
	return &CustomerService{Customers: customers}
}

// WithTx binds the resolver to an open transaction.
func (s *CustomerService) WithTx(tx *sqlx.Tx) *CustomerService {
	return &CustomerService{Customers: s.Customers.WithTx(tx)}
}

// ResolveAndUpsert returns the id of the customer identified by key. A known
// customer gets every mutable field overwritten; an unknown one is created.
// The returned id is stable across submissions with the same key.
func (s *CustomerService) ResolveAndUpsert(ctx context.Context, key domain.CustomerKey, f domain.CustomerFields) (string, error) {
	id, found, err := s.update(ctx, key, f)
	if err != nil || found {
		return id, err
	}

	c := domain.Customer{ID: uuid.NewString(), CustomerKey: key, CustomerFields: f}
	err = s.Customers.Insert(ctx, &c)
	if repos.IsUniqueViolation(err) {
		// lost the insert race: the other writer's record is ours to update
		id, found, err := s.update(ctx, key, f)
		if err != nil {
			return "", err
		}
		if !found {
			return "", ErrCustomerConflict
		}
		return id, nil
	}
	if err != nil {
		return "", err
	}
	metrics.CustomersResolved.WithLabelValues("created").Inc()
	return c.ID, nil
}

// update overwrites the customer with key, if there is one.
func (s *CustomerService) update(ctx context.Context, key domain.CustomerKey, f domain.CustomerFields) (string, bool, error) {
	c, err := s.Customers.FindByKey(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if err := s.Customers.Update(ctx, c.ID, f); err != nil {
		return "", false, err
	}
	metrics.CustomersResolved.WithLabelValues("updated").Inc()
	return c.ID, true, nil
}

// Get returns the customer with id.
func (s *CustomerService) Get(ctx context.Context, id string) (domain.Customer, error) {
	return s.Customers.ByID(ctx, id)
}

func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.Customers.List(ctx)
}
