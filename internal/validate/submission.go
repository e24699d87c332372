package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"pflegebox/internal/domain"
)

// Error is a rejected submission. Nothing has been persisted when it is
// returned.
type Error struct {
	Field string
	Msg   string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

// IsValidation reports whether err is (or wraps) a validation failure.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

var submissionValidate *validator.Validate

func init() {
	submissionValidate = validator.New(validator.WithRequiredStructEnabled())
	// report json field names, e.g. "customer.zip"
	submissionValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = submissionValidate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

type CustomerInput struct {
	FirstName       string           `json:"firstName" validate:"notblank,max=100"`
	LastName        string           `json:"lastName" validate:"notblank,max=100"`
	DOB             string           `json:"dob" validate:"required,datetime=2006-01-02"`
	Street          string           `json:"street" validate:"notblank,max=200"`
	Zip             string           `json:"zip" validate:"required,min=3,max=10"`
	City            string           `json:"city" validate:"notblank,max=100"`
	Phone           string           `json:"phone" validate:"max=40"`
	Email           string           `json:"email" validate:"omitempty,email,max=200"`
	InsuranceType   string           `json:"insuranceType" validate:"required,oneof=statutory private"`
	InsuranceName   string           `json:"insuranceName" validate:"notblank,max=200"`
	CareGrade       domain.CareGrade `json:"careGrade" validate:"required,oneof=1 2 3 4 5"`
	BeihilfePercent int              `json:"beihilfePercent" validate:"oneof=0 50 70 80"`
	LegalRepPresent bool             `json:"legalRepPresent"`
	LegalRepName    string           `json:"legalRepName" validate:"max=200"`
}

type ItemInput struct {
	ProductID string  `json:"productId" validate:"notblank,max=64"`
	Name      string  `json:"name" validate:"notblank,max=200"`
	Category  string  `json:"category" validate:"notblank,max=100"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"gt=0,lte=1000"`
	Size      string  `json:"size" validate:"max=20"`
}

type OrderInput struct {
	MonthKey  string      `json:"monthKey" validate:"required,datetime=2006-01"`
	Total     float64     `json:"total" validate:"gte=0"`
	BudgetMax float64     `json:"budgetMax" validate:"gt=0"`
	Items     []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// Submission is the canonical payload of a configurator submission.
type Submission struct {
	Customer CustomerInput `json:"customer" validate:"required"`
	Order    OrderInput    `json:"order" validate:"required"`
}

// Normalize trims identity fields and maps legacy enum spellings.
func (s *Submission) Normalize() {
	c := &s.Customer
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.DOB = strings.TrimSpace(c.DOB)
	c.Zip = strings.TrimSpace(c.Zip)
	c.Email = strings.TrimSpace(c.Email)
	c.InsuranceType = domain.NormalizeInsuranceType(strings.TrimSpace(c.InsuranceType))
	c.CareGrade = domain.CareGrade(strings.TrimSpace(string(c.CareGrade)))
	if !c.LegalRepPresent {
		c.LegalRepName = ""
	}
	for i := range s.Order.Items {
		s.Order.Items[i].Size = strings.TrimSpace(s.Order.Items[i].Size)
	}
}

// Validate checks the schema and then the budget rule: the items are
// replayed through the cart admission check, total must equal the items'
// sum rounded to cents, and budgetMax may not exceed ceiling.
func (s *Submission) Validate(ceiling float64) error {
	if err := submissionValidate.Struct(s); err != nil {
		return fromValidator(err)
	}
	o := s.Order
	if ceiling > 0 && domain.Money(o.BudgetMax).GreaterThan(domain.Money(ceiling)) {
		return &Error{Field: "order.budgetMax", Msg: fmt.Sprintf("must not exceed %.2f", ceiling)}
	}
	lines := s.Lines()
	if err := domain.ReplayAdmission(lines, o.BudgetMax); err != nil {
		return &Error{Field: "order.items", Msg: err.Error()}
	}
	sum := domain.CartTotal(lines).Round(2)
	if !domain.Money(o.Total).Equal(sum) {
		return &Error{Field: "order.total", Msg: fmt.Sprintf("%.2f does not match the items (%s)", o.Total, sum.StringFixed(2))}
	}
	if domain.Money(o.Total).GreaterThan(domain.Money(o.BudgetMax)) {
		return &Error{Field: "order.total", Msg: "exceeds budget"}
	}
	return nil
}

func (s *Submission) Key() domain.CustomerKey {
	c := s.Customer
	return domain.CustomerKey{FirstName: c.FirstName, LastName: c.LastName, DOB: c.DOB, Zip: c.Zip}
}

func (s *Submission) Fields() domain.CustomerFields {
	c := s.Customer
	return domain.CustomerFields{
		Street:          c.Street,
		City:            c.City,
		Phone:           c.Phone,
		Email:           c.Email,
		InsuranceType:   c.InsuranceType,
		InsuranceName:   c.InsuranceName,
		CareGrade:       c.CareGrade,
		BeihilfePercent: c.BeihilfePercent,
		LegalRepPresent: c.LegalRepPresent,
		LegalRepName:    c.LegalRepName,
	}
}

func (s *Submission) Lines() []domain.CartLine {
	out := make([]domain.CartLine, 0, len(s.Order.Items))
	for _, it := range s.Order.Items {
		out = append(out, domain.CartLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			Category:  it.Category,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Size:      it.Size,
		})
	}
	return out
}

func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &Error{Msg: err.Error()}
	}
	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:] // drop the root type name
	}
	return &Error{Field: field, Msg: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "needs at least " + fe.Param() + " entry"
		}
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a date formatted " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must not be negative"
	case "lte":
		return "must be at most " + fe.Param()
	}
	return "is invalid"
}
