package domain

// CompanyStatus is the lifecycle flag of a company.
type CompanyStatus string

const (
	CompanyActive   CompanyStatus = "active"
	CompanyInactive CompanyStatus = "inactive"
)

// Address is a postal address.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

// Company owns accounts and transactions.
type Company struct {
	CompanyID     string        `json:"companyID"`
	Name          string        `json:"name"`
	Code          string        `json:"code"` // Unique across companies
	TaxID         string        `json:"taxID,omitempty"`
	CurrencyCode  string        `json:"currencyCode"`
	FiscalYearEnd string        `json:"fiscalYearEnd"` // MM-DD
	Address       *Address      `json:"address,omitempty"`
	Status        CompanyStatus `json:"status"`
	AuditFields
}
