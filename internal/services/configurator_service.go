package services

import (
	"context"
	"errors"
	"time"

	"pflegebox/internal/domain"
	"pflegebox/internal/metrics"
	"pflegebox/internal/repos"
	"pflegebox/internal/validate"
)

var ErrCareGradeRequired = errors.New("select a care grade first")

// ConfiguratorService keeps one draft cart per configurator session. Each
// call loads the session's draft into a fresh domain.Cart, applies one
// operation and stores the result; carts are never shared between sessions.
type ConfiguratorService struct {
	Drafts  *repos.DraftRepo
	Catalog *CatalogService
	Orders  *OrderService
	Now     func() time.Time
}

func NewConfiguratorService(drafts *repos.DraftRepo, catalog *CatalogService, orders *OrderService) *ConfiguratorService {
	return &ConfiguratorService{Drafts: drafts, Catalog: catalog, Orders: orders, Now: time.Now}
}

type ConfiguratorView struct {
	CareGrade  domain.CareGrade  `json:"careGrade,omitempty"`
	Lines      []domain.CartLine `json:"lines"`
	Total      float64           `json:"total"`
	Remaining  float64           `json:"remaining"`
	BudgetMax  float64           `json:"budgetMax"`
	CanAddMore bool              `json:"canAddMore"`
}

func (s *ConfiguratorService) load(ctx context.Context, sessionID string) (repos.Draft, *domain.Cart, error) {
	d, err := s.Drafts.Load(ctx, sessionID)
	if err != nil {
		return repos.Draft{}, nil, err
	}
	return d, domain.NewCart(s.Catalog.Items, d.Lines...), nil
}

func (s *ConfiguratorService) view(d repos.Draft, cart *domain.Cart) ConfiguratorView {
	b := s.Catalog.BudgetMax
	return ConfiguratorView{
		CareGrade:  d.CareGrade,
		Lines:      cart.Lines(),
		Total:      domain.Round2(cart.Total()),
		Remaining:  cart.Remaining(b),
		BudgetMax:  b,
		CanAddMore: cart.CanAddMore(b),
	}
}

func (s *ConfiguratorService) save(ctx context.Context, d repos.Draft, cart *domain.Cart) (ConfiguratorView, error) {
	d.Lines = cart.Lines()
	if err := s.Drafts.Save(ctx, d); err != nil {
		return ConfiguratorView{}, err
	}
	return s.view(d, cart), nil
}

func (s *ConfiguratorService) View(ctx context.Context, sessionID string) (ConfiguratorView, error) {
	d, cart, err := s.load(ctx, sessionID)
	if err != nil {
		return ConfiguratorView{}, err
	}
	return s.view(d, cart), nil
}

// SetCareGrade completes step 1. Only grades 1 to 5 are accepted.
func (s *ConfiguratorService) SetCareGrade(ctx context.Context, sessionID string, grade domain.CareGrade) (ConfiguratorView, error) {
	g, ok := validate.CareGrade(string(grade))
	if !ok {
		return ConfiguratorView{}, &validate.Error{Field: "careGrade", Msg: "must be one of: 1, 2, 3, 4, 5"}
	}
	d, cart, err := s.load(ctx, sessionID)
	if err != nil {
		return ConfiguratorView{}, err
	}
	d.CareGrade = domain.CareGrade(g)
	return s.save(ctx, d, cart)
}

// AddItem adds one unit of productID. Unknown products are ignored. When the
// unit does not fit the budget the draft is left unchanged and
// domain.ErrBudgetExceeded is returned along with the current view.
func (s *ConfiguratorService) AddItem(ctx context.Context, sessionID, productID, size string) (ConfiguratorView, error) {
	d, cart, err := s.load(ctx, sessionID)
	if err != nil {
		return ConfiguratorView{}, err
	}
	if d.CareGrade == "" {
		return s.view(d, cart), ErrCareGradeRequired
	}
	if err := cart.AddUnit(productID, size, s.Catalog.BudgetMax); err != nil {
		if errors.Is(err, domain.ErrBudgetExceeded) {
			metrics.CartAdmissionRejected.Inc()
		}
		return s.view(d, cart), err
	}
	return s.save(ctx, d, cart)
}

// SetQuantity moves the (productID, size) line to qty. Increments stop at the
// first unit that does not fit; the units admitted before it are kept.
// qty <= 0 removes the line.
func (s *ConfiguratorService) SetQuantity(ctx context.Context, sessionID, productID, size string, qty int) (ConfiguratorView, error) {
	d, cart, err := s.load(ctx, sessionID)
	if err != nil {
		return ConfiguratorView{}, err
	}
	admitErr := cart.ChangeQuantity(domain.LineKey{ProductID: productID, Size: size}, qty, s.Catalog.BudgetMax)
	if admitErr != nil {
		metrics.CartAdmissionRejected.Inc()
	}
	v, err := s.save(ctx, d, cart)
	if err != nil {
		return ConfiguratorView{}, err
	}
	return v, admitErr
}

// PurgeStale drops drafts that have not been touched for ttl.
func (s *ConfiguratorService) PurgeStale(ctx context.Context, ttl time.Duration) (int64, error) {
	return s.Drafts.PurgeBefore(ctx, s.Now().Add(-ttl))
}

func (s *ConfiguratorService) Reset(ctx context.Context, sessionID string) error {
	return s.Drafts.Delete(ctx, sessionID)
}

// Submit turns the session's draft into an order for customer. The care
// grade picked in step 1 is used when the customer data carries none.
func (s *ConfiguratorService) Submit(ctx context.Context, sessionID string, customer validate.CustomerInput) (domain.OrderReceipt, error) {
	d, cart, err := s.load(ctx, sessionID)
	if err != nil {
		return domain.OrderReceipt{}, err
	}
	if customer.CareGrade == "" {
		customer.CareGrade = d.CareGrade
	}
	sub := &validate.Submission{
		Customer: customer,
		Order: validate.OrderInput{
			MonthKey:  s.Now().UTC().Format("2006-01"),
			Total:     domain.Round2(cart.Total()),
			BudgetMax: s.Catalog.BudgetMax,
		},
	}
	for _, l := range cart.Lines() {
		sub.Order.Items = append(sub.Order.Items, validate.ItemInput{
			ProductID: l.ProductID,
			Name:      l.Name,
			Category:  l.Category,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Size:      l.Size,
		})
	}
	rec, err := s.Orders.Submit(ctx, sub)
	if err != nil {
		return domain.OrderReceipt{}, err
	}
	// the order is committed; a leftover draft only costs a stale cart
	_ = s.Drafts.Delete(ctx, sessionID)
	return rec, nil
}
