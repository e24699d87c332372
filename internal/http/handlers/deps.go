package handlers

import (
	"github.com/jmoiron/sqlx"

	"pflegebox/internal/config"
	"pflegebox/internal/domain"
	"pflegebox/internal/repos"
	"pflegebox/internal/services"
)

type Deps struct {
	CatalogHandler      *CatalogHandler
	ConfiguratorHandler *ConfiguratorHandler
	OrderHandler        *OrderHandler
	AdminHandler        *AdminHandler
	AuthHandler         *AuthHandler
	DocumentHandler     *DocumentHandler
	Auth                *services.AuthService
	DB                  *sqlx.DB
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	customerRepo := repos.NewCustomerRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	draftRepo := repos.NewDraftRepo(db)

	catalogSvc := services.NewCatalogService(domain.DefaultCatalog, cfg.BudgetMax)
	customerSvc := services.NewCustomerService(customerRepo)
	orderSvc := services.NewOrderService(db, customerSvc, orderRepo, cfg.BudgetMax)
	configuratorSvc := services.NewConfiguratorService(draftRepo, catalogSvc, orderSvc)

	secure := cfg.Production()
	return &Deps{
		CatalogHandler:      &CatalogHandler{Catalog: catalogSvc},
		ConfiguratorHandler: &ConfiguratorHandler{Configurator: configuratorSvc, Secure: secure},
		OrderHandler:        &OrderHandler{Order: orderSvc},
		AdminHandler:        &AdminHandler{Customers: customerSvc, Orders: orderSvc},
		AuthHandler:         &AuthHandler{Auth: auth, Secure: secure},
		DocumentHandler:     &DocumentHandler{Docs: services.NewDocumentService()},
		Auth:                auth,
		DB:                  db,
	}
}
