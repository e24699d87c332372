package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

const (
	InsuranceStatutory = "statutory"
	InsurancePrivate   = "private"
)

// NormalizeInsuranceType maps the German form values onto the canonical enum.
func NormalizeInsuranceType(s string) string {
	switch s {
	case "gesetzlich":
		return InsuranceStatutory
	case "privat":
		return InsurancePrivate
	}
	return s
}

// CareGrade is "1".."5", or empty when unknown. It decodes from both JSON
// strings and numbers.
type CareGrade string

func (g *CareGrade) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*g = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*g = CareGrade(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*g = CareGrade(strconv.Itoa(n))
	return nil
}

// CustomerKey is the natural key used for deduplication. Matching is exact.
type CustomerKey struct {
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	DOB       string `db:"dob"`
	Zip       string `db:"zip"`
}

// CustomerFields are overwritten on every submission for a known customer.
type CustomerFields struct {
	Street          string    `db:"street"`
	City            string    `db:"city"`
	Phone           string    `db:"phone"`
	Email           string    `db:"email"`
	InsuranceType   string    `db:"insurance_type"`
	InsuranceName   string    `db:"insurance_name"`
	CareGrade       CareGrade `db:"care_grade"`
	BeihilfePercent int       `db:"beihilfe_percent"`
	LegalRepPresent bool      `db:"legal_rep_present"`
	LegalRepName    string    `db:"legal_rep_name"`
}

type Customer struct {
	ID string `db:"id" json:"id"`
	CustomerKey
	CustomerFields
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`
}

// MarshalJSON flattens the embedded key and field groups.
func (c Customer) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID              string    `json:"id"`
		FirstName       string    `json:"firstName"`
		LastName        string    `json:"lastName"`
		DOB             string    `json:"dob"`
		Street          string    `json:"street"`
		Zip             string    `json:"zip"`
		City            string    `json:"city"`
		Phone           string    `json:"phone"`
		Email           string    `json:"email"`
		InsuranceType   string    `json:"insuranceType"`
		InsuranceName   string    `json:"insuranceName"`
		CareGrade       CareGrade `json:"careGrade,omitempty"`
		BeihilfePercent int       `json:"beihilfePercent"`
		LegalRepPresent bool      `json:"legalRepPresent"`
		LegalRepName    string    `json:"legalRepName"`
		CreatedAt       string    `json:"createdAt"`
		UpdatedAt       string    `json:"updatedAt"`
	}{
		c.ID, c.FirstName, c.LastName, c.DOB, c.Street, c.Zip, c.City, c.Phone, c.Email,
		c.InsuranceType, c.InsuranceName, c.CareGrade, c.BeihilfePercent, c.LegalRepPresent,
		c.LegalRepName, c.CreatedAt, c.UpdatedAt,
	})
}
