package mapping

import (
	"database/sql"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	var parentID sql.NullString
	if d.ParentAccountID != nil && *d.ParentAccountID != "" {
		parentID = sql.NullString{String: *d.ParentAccountID, Valid: true}
	}
	return models.Account{
		AccountID:       d.AccountID,
		CompanyID:       d.CompanyID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     models.AccountType(d.AccountType),
		ParentAccountID: parentID,
		Description:     d.Description,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	var parentID *string
	if m.ParentAccountID.Valid {
		id := m.ParentAccountID.String
		parentID = &id
	}
	return domain.Account{
		AccountID:       m.AccountID,
		CompanyID:       m.CompanyID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		ParentAccountID: parentID,
		Description:     m.Description,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
