package services

import "pflegebox/internal/domain"

type CatalogService struct {
	Items     domain.Catalog
	BudgetMax float64
}

func NewCatalogService(items domain.Catalog, budgetMax float64) *CatalogService {
	if budgetMax <= 0 {
		budgetMax = domain.DefaultBudgetMax
	}
	return &CatalogService{Items: items, BudgetMax: budgetMax}
}

type CatalogView struct {
	BudgetMax float64              `json:"budgetMax"`
	Items     []domain.CatalogItem `json:"items"`
}

func (s *CatalogService) List() CatalogView {
	items := make([]domain.CatalogItem, len(s.Items))
	copy(items, s.Items)
	return CatalogView{BudgetMax: s.BudgetMax, Items: items}
}

func (s *CatalogService) Get(productID string) (domain.CatalogItem, bool) {
	return s.Items.Find(productID)
}
