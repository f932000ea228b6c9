package models

// Company represents a row of the companies table. Address is stored as JSONB.
type Company struct {
	CompanyID     string `db:"company_id"`
	Name          string `db:"name"`
	Code          string `db:"code"`
	TaxID         string `db:"tax_id"`
	CurrencyCode  string `db:"currency_code"`
	FiscalYearEnd string `db:"fiscal_year_end"`
	Address       []byte `db:"address"` // Nullable JSONB
	Status        string `db:"status"`
	AuditFields
}
