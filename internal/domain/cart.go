package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	// RemainingEpsilon disables further increments once the rest of the
	// budget is float noise.
	RemainingEpsilon = 1e-4
	// AdmissionEpsilon absorbs rounding in total+unitPrice <= budget. It is far
	// below the cheapest catalog price so it never lets a whole unit through.
	AdmissionEpsilon = 1e-6
)

var ErrBudgetExceeded = errors.New("budget ceiling reached")

// CartLine is one (product, size) position of a care box.
type CartLine struct {
	ProductID string  `json:"productId" db:"product_id"`
	Name      string  `json:"name" db:"name"`
	Category  string  `json:"category" db:"category"`
	UnitPrice float64 `json:"unitPrice" db:"unit_price"`
	Quantity  int     `json:"quantity" db:"quantity"`
	Size      string  `json:"size,omitempty" db:"size"`
}

func (l CartLine) Key() LineKey { return LineKey{ProductID: l.ProductID, Size: l.Size} }

// LineKey identifies a cart line. An empty Size means "no size".
type LineKey struct {
	ProductID string
	Size      string
}

// LinePatch carries the fields merged onto a line by AddOrUpdate. Nil fields
// are left untouched.
type LinePatch struct {
	Size     *string
	Quantity *int
}

// Cart holds the lines of one configurator session. It is not safe for
// concurrent use; each session owns its own Cart.
type Cart struct {
	catalog Catalog
	lines   []CartLine
}

func NewCart(catalog Catalog, lines ...CartLine) *Cart {
	c := &Cart{catalog: catalog}
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i := c.index(l.Key()); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Line(k LineKey) (CartLine, bool) {
	if i := c.index(k); i >= 0 {
		return c.lines[i], true
	}
	return CartLine{}, false
}

func (c *Cart) index(k LineKey) int {
	for i, l := range c.lines {
		if l.ProductID == k.ProductID && l.Size == k.Size {
			return i
		}
	}
	return -1
}

// AddOrUpdate creates the line for (productID, patch.Size) with quantity 1
// from catalog data and applies patch, or merges patch onto the existing
// line. Unknown products are ignored. Budget is not checked here.
func (c *Cart) AddOrUpdate(productID string, patch LinePatch) {
	k := LineKey{ProductID: productID}
	if patch.Size != nil {
		k.Size = *patch.Size
	}
	i := c.index(k)
	if i < 0 {
		base, ok := c.catalog.Find(productID)
		if !ok {
			return
		}
		c.lines = append(c.lines, CartLine{
			ProductID: productID,
			Name:      base.Name,
			Category:  base.Category,
			UnitPrice: base.UnitPrice,
			Quantity:  1,
			Size:      k.Size,
		})
		i = len(c.lines) - 1
	}
	if patch.Quantity != nil {
		if *patch.Quantity <= 0 {
			c.remove(i)
			return
		}
		c.lines[i].Quantity = *patch.Quantity
	}
}

// SetQuantity removes the line when qty <= 0 and sets it otherwise.
func (c *Cart) SetQuantity(k LineKey, qty int) {
	i := c.index(k)
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.remove(i)
		return
	}
	c.lines[i].Quantity = qty
}

func (c *Cart) remove(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Total is the unrounded sum of unitPrice × quantity.
func (c *Cart) Total() decimal.Decimal {
	return sumLines(c.lines)
}

func sumLines(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(Money(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// Remaining is round(budgetMax - total, 2).
func (c *Cart) Remaining(budgetMax float64) float64 {
	return Round2(Money(budgetMax).Sub(c.Total()))
}

func (c *Cart) CanAddMore(budgetMax float64) bool {
	return c.Remaining(budgetMax) > RemainingEpsilon
}

// Admits reports whether one more unit at unitPrice fits under budgetMax.
func (c *Cart) Admits(unitPrice, budgetMax float64) bool {
	return admits(c.Total(), unitPrice, budgetMax)
}

func admits(total decimal.Decimal, unitPrice, budgetMax float64) bool {
	return admissible(total, unitPrice, budgetMax) >= 1
}

// admissible is the number of further units at unitPrice that fit on top of
// total: the largest n with total + n*unitPrice <= budgetMax + epsilon.
// Free units always fit and yield math.MaxInt64.
func admissible(total decimal.Decimal, unitPrice, budgetMax float64) int64 {
	room := Money(budgetMax).Add(decimal.NewFromFloat(AdmissionEpsilon)).Sub(total)
	if room.IsNegative() {
		return 0
	}
	price := Money(unitPrice)
	if !price.IsPositive() {
		return math.MaxInt64
	}
	return room.Div(price).Floor().IntPart()
}

// AddUnit adds one unit of productID in size, creating the line when needed.
// A sized item added without size gets its first size. Unknown products and
// unknown sizes are ignored. Returns ErrBudgetExceeded when the unit does not
// fit.
func (c *Cart) AddUnit(productID, size string, budgetMax float64) error {
	item, ok := c.catalog.Find(productID)
	if !ok {
		return nil
	}
	if size == "" {
		size = item.DefaultSize()
	}
	if !item.HasSize(size) {
		return nil
	}
	k := LineKey{ProductID: productID, Size: size}
	price, qty := item.UnitPrice, 0
	if l, ok := c.Line(k); ok {
		price, qty = l.UnitPrice, l.Quantity
	}
	if !c.Admits(price, budgetMax) {
		return ErrBudgetExceeded
	}
	next := qty + 1
	c.AddOrUpdate(productID, LinePatch{Size: &size, Quantity: &next})
	return nil
}

// ChangeQuantity moves a line to qty. Increments keep as many units as fit
// and stop at the first unit that does not; decrements and removals
// are always applied.
func (c *Cart) ChangeQuantity(k LineKey, qty int, budgetMax float64) error {
	l, ok := c.Line(k)
	if !ok {
		return nil
	}
	if qty <= l.Quantity {
		c.SetQuantity(k, qty)
		return nil
	}
	fit := admissible(c.Total(), l.UnitPrice, budgetMax)
	if want := int64(qty - l.Quantity); want > fit {
		c.SetQuantity(k, l.Quantity+int(fit))
		return ErrBudgetExceeded
	}
	c.SetQuantity(k, qty)
	return nil
}

// ReplayAdmission re-validates a submitted cart: every unit of every line is
// admitted in order against the running total, exactly as the configurator
// would have done. It also enforces the one-line-per-key invariant.
func ReplayAdmission(lines []CartLine, budgetMax float64) error {
	seen := make(map[LineKey]struct{}, len(lines))
	total := decimal.Zero
	for i, l := range lines {
		if _, dup := seen[l.Key()]; dup {
			return fmt.Errorf("item %d: duplicate line for %s/%s", i, l.ProductID, l.Size)
		}
		seen[l.Key()] = struct{}{}
		if int64(l.Quantity) > admissible(total, l.UnitPrice, budgetMax) {
			return fmt.Errorf("item %d (%s): %w", i, l.ProductID, ErrBudgetExceeded)
		}
		total = total.Add(Money(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return nil
}

// CartTotal is the unrounded total of arbitrary lines.
func CartTotal(lines []CartLine) decimal.Decimal { return sumLines(lines) }
