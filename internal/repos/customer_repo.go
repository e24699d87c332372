package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"pflegebox/internal/domain"
)

type CustomerRepo struct{ db sqlx.ExtContext }

func NewCustomerRepo(db sqlx.ExtContext) *CustomerRepo { return &CustomerRepo{db: db} }

// WithTx returns a repo bound to tx.
func (r *CustomerRepo) WithTx(tx *sqlx.Tx) *CustomerRepo { return &CustomerRepo{db: tx} }

const customerCols = `id, first_name, last_name, dob, street, zip, city, phone, email,
  insurance_type, insurance_name, care_grade, beihilfe_percent, legal_rep_present,
  legal_rep_name, created_at, updated_at`

// FindByKey returns the oldest customer matching the natural key exactly, or
// sql.ErrNoRows.
func (r *CustomerRepo) FindByKey(ctx context.Context, k domain.CustomerKey) (domain.Customer, error) {
	var c domain.Customer
	err := sqlx.GetContext(ctx, r.db, &c, `
		SELECT `+customerCols+`
		FROM customers
		WHERE first_name = ? AND last_name = ? AND dob = ? AND zip = ?
		ORDER BY created_at
		LIMIT 1
	`, k.FirstName, k.LastName, k.DOB, k.Zip)
	return c, err
}

// Insert stores a new customer. created_at/updated_at are assigned by the
// store and written back into c.
func (r *CustomerRepo) Insert(ctx context.Context, c *domain.Customer) error {
	row := r.db.QueryRowxContext(ctx, `
		INSERT INTO customers(
		  id, first_name, last_name, dob, street, zip, city, phone, email,
		  insurance_type, insurance_name, care_grade, beihilfe_percent,
		  legal_rep_present, legal_rep_name, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,`+nowExpr+`,`+nowExpr+`)
		RETURNING created_at, updated_at
	`, c.ID, c.FirstName, c.LastName, c.DOB, c.Street, c.Zip, c.City, c.Phone, c.Email,
		c.InsuranceType, c.InsuranceName, string(c.CareGrade), c.BeihilfePercent,
		c.LegalRepPresent, c.LegalRepName)
	return row.Scan(&c.CreatedAt, &c.UpdatedAt)
}

// Update overwrites every mutable field of customer id and refreshes updated_at.
func (r *CustomerRepo) Update(ctx context.Context, id string, f domain.CustomerFields) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE customers SET
		  street = ?, city = ?, phone = ?, email = ?,
		  insurance_type = ?, insurance_name = ?, care_grade = ?, beihilfe_percent = ?,
		  legal_rep_present = ?, legal_rep_name = ?,
		  updated_at = `+nowExpr+`
		WHERE id = ?
	`, f.Street, f.City, f.Phone, f.Email, f.InsuranceType, f.InsuranceName,
		string(f.CareGrade), f.BeihilfePercent, f.LegalRepPresent, f.LegalRepName, id)
	return err
}

func (r *CustomerRepo) ByID(ctx context.Context, id string) (domain.Customer, error) {
	var c domain.Customer
	err := sqlx.GetContext(ctx, r.db, &c, `SELECT `+customerCols+` FROM customers WHERE id = ?`, id)
	return c, err
}

// List returns every customer, most recently updated first.
func (r *CustomerRepo) List(ctx context.Context) ([]domain.Customer, error) {
	out := []domain.Customer{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
		SELECT `+customerCols+`
		FROM customers
		ORDER BY updated_at DESC, created_at DESC, rowid DESC
	`)
	return out, err
}
