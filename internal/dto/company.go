package dto

import (
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
)

// AddressDTO is a postal address.
type AddressDTO struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

// CreateCompanyRequest defines the data needed to create a company.
type CreateCompanyRequest struct {
	Name          string      `json:"name" binding:"required"`
	Code          string      `json:"code" binding:"required,max=32"`
	TaxID         string      `json:"taxId"`
	CurrencyCode  string      `json:"currencyCode" binding:"required,currency_code"`
	FiscalYearEnd string      `json:"fiscalYearEnd" binding:"omitempty,datetime=01-02"`
	Address       *AddressDTO `json:"address"`
}

// UpdateCompanyRequest defines the fields of a company that can be changed.
type UpdateCompanyRequest struct {
	Name          *string     `json:"name" binding:"omitempty,min=1"`
	TaxID         *string     `json:"taxId"`
	FiscalYearEnd *string     `json:"fiscalYearEnd" binding:"omitempty,datetime=01-02"`
	Address       *AddressDTO `json:"address"`
	Status        *string     `json:"status" binding:"omitempty,oneof=active inactive"`
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	CompanyID     string      `json:"companyID"`
	Name          string      `json:"name"`
	Code          string      `json:"code"`
	TaxID         string      `json:"taxId,omitempty"`
	CurrencyCode  string      `json:"currencyCode"`
	FiscalYearEnd string      `json:"fiscalYearEnd"`
	Address       *AddressDTO `json:"address,omitempty"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
	CreatedBy     string      `json:"createdBy"`
	LastUpdatedAt time.Time   `json:"lastUpdatedAt"`
	LastUpdatedBy string      `json:"lastUpdatedBy"`
}

// ToDomainAddress converts an AddressDTO to a domain.Address.
func ToDomainAddress(a *AddressDTO) *domain.Address {
	if a == nil {
		return nil
	}
	addr := domain.Address(*a)
	return &addr
}

// ToCompanyResponse converts a domain.Company to CompanyResponse DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	var addr *AddressDTO
	if c.Address != nil {
		a := AddressDTO(*c.Address)
		addr = &a
	}
	return CompanyResponse{
		CompanyID:     c.CompanyID,
		Name:          c.Name,
		Code:          c.Code,
		TaxID:         c.TaxID,
		CurrencyCode:  c.CurrencyCode,
		FiscalYearEnd: c.FiscalYearEnd,
		Address:       addr,
		Status:        string(c.Status),
		CreatedAt:     c.CreatedAt,
		CreatedBy:     c.CreatedBy,
		LastUpdatedAt: c.LastUpdatedAt,
		LastUpdatedBy: c.LastUpdatedBy,
	}
}

// ToListCompanyResponse converts a slice of companies.
func ToListCompanyResponse(companies []domain.Company) []CompanyResponse {
	res := make([]CompanyResponse, len(companies))
	for i := range companies {
		res[i] = ToCompanyResponse(&companies[i])
	}
	return res
}

// ListCompaniesParams are the paging parameters of a company listing.
type ListCompaniesParams struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}
