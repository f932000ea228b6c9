package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/models"
)

// ToModelCompany converts a domain Company to a model Company, encoding the address as JSON.
func ToModelCompany(d domain.Company) (models.Company, error) {
	var address []byte
	if d.Address != nil {
		raw, err := json.Marshal(d.Address)
		if err != nil {
			return models.Company{}, fmt.Errorf("failed to encode address of company %s: %w", d.CompanyID, err)
		}
		address = raw
	}
	return models.Company{
		CompanyID:     d.CompanyID,
		Name:          d.Name,
		Code:          d.Code,
		TaxID:         d.TaxID,
		CurrencyCode:  d.CurrencyCode,
		FiscalYearEnd: d.FiscalYearEnd,
		Address:       address,
		Status:        string(d.Status),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainCompany converts a model Company to a domain Company.
func ToDomainCompany(m models.Company) (domain.Company, error) {
	var address *domain.Address
	if len(m.Address) > 0 && string(m.Address) != "null" {
		address = &domain.Address{}
		if err := json.Unmarshal(m.Address, address); err != nil {
			return domain.Company{}, fmt.Errorf("failed to decode address of company %s: %w", m.CompanyID, err)
		}
	}
	return domain.Company{
		CompanyID:     m.CompanyID,
		Name:          m.Name,
		Code:          m.Code,
		TaxID:         m.TaxID,
		CurrencyCode:  m.CurrencyCode,
		FiscalYearEnd: m.FiscalYearEnd,
		Address:       address,
		Status:        domain.CompanyStatus(m.Status),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}, nil
}
