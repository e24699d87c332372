package domain

import "slices"

// DefaultBudgetMax is the monthly ceiling a care box may reach.
const DefaultBudgetMax = 42.00

type CatalogItem struct {
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	UnitPrice float64  `json:"unitPrice"`
	Sizes     []string `json:"sizes,omitempty"`
}

// HasSize reports whether size is a valid variant for the item. Items
// without variants only accept the empty size.
func (it CatalogItem) HasSize(size string) bool {
	if len(it.Sizes) == 0 {
		return size == ""
	}
	return slices.Contains(it.Sizes, size)
}

// DefaultSize is the variant picked when a sized item is added without one.
func (it CatalogItem) DefaultSize() string {
	if len(it.Sizes) == 0 {
		return ""
	}
	return it.Sizes[0]
}

type Catalog []CatalogItem

func (c Catalog) Find(productID string) (CatalogItem, bool) {
	for _, it := range c {
		if it.ProductID == productID {
			return it, true
		}
	}
	return CatalogItem{}, false
}

// DefaultCatalog is the deploy-time product list. Never mutated at runtime.
var DefaultCatalog = Catalog{
	{ProductID: "handschuhe", Name: "Einmalhandschuhe", Category: "Handschuhe", UnitPrice: 6.99, Sizes: []string{"S", "M", "L", "XL"}},
	{ProductID: "handdesi", Name: "Händedesinfektion (Gel)", Category: "Desinfektion", UnitPrice: 4.49},
	{ProductID: "flachendesi", Name: "Flächendesinfektionstücher (80–100 Stk.)", Category: "Desinfektion", UnitPrice: 4.99},
	{ProductID: "handtucher", Name: "Händedesinfektionstücher (80–100 Stk.)", Category: "Desinfektion", UnitPrice: 4.99},
	{ProductID: "bettschutz", Name: "Bettschutzeinlagen", Category: "Schutz", UnitPrice: 7.99},
	{ProductID: "masken", Name: "Mundschutz/Masken", Category: "Schutz", UnitPrice: 5.49},
	{ProductID: "schutzschurzen", Name: "Schutzschürzen", Category: "Schutz", UnitPrice: 6.49},
	{ProductID: "waschlotion", Name: "Waschlotion", Category: "Hygiene", UnitPrice: 5.99},
}
