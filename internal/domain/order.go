package domain

const OrderStatusOpen = "open"

type Order struct {
	ID          string  `db:"id" json:"id"`
	OrderNumber string  `db:"order_number" json:"orderNumber"`
	CustomerID  string  `db:"customer_id" json:"customerId"`
	MonthKey    string  `db:"month_key" json:"monthKey"`
	Total       float64 `db:"total" json:"total"`
	BudgetMax   float64 `db:"budget_max" json:"budgetMax"`
	Status      string  `db:"status" json:"status"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
}

type OrderItem struct {
	OrderID   string  `db:"order_id" json:"orderId"`
	ProductID string  `db:"product_id" json:"productId"`
	Name      string  `db:"name" json:"name"`
	Category  string  `db:"category" json:"category"`
	UnitPrice float64 `db:"unit_price" json:"unitPrice"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Size      string  `db:"size" json:"size,omitempty"`
	LineTotal float64 `db:"line_total" json:"lineTotal"`
}

// NewOrderItem derives the persisted item of a cart line.
func NewOrderItem(orderID string, l CartLine) OrderItem {
	return OrderItem{
		OrderID:   orderID,
		ProductID: l.ProductID,
		Name:      l.Name,
		Category:  l.Category,
		UnitPrice: l.UnitPrice,
		Quantity:  l.Quantity,
		Size:      l.Size,
		LineTotal: LineTotal(l.UnitPrice, l.Quantity),
	}
}

// OrderReceipt is what a successful submission reports back.
type OrderReceipt struct {
	CustomerID  string `json:"customerId"`
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	CreatedAt   string `json:"createdAt"`
}
