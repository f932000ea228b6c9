package mapping

import (
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction header to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		CompanyID:       d.CompanyID,
		TransactionDate: d.Date,
		Description:     d.Description,
		Status:          string(d.Status),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction header to a domain Transaction without entries.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		CompanyID:     m.CompanyID,
		Date:          m.TransactionDate,
		Description:   m.Description,
		Status:        domain.TransactionStatus(m.Status),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEntry converts a domain TransactionEntry to a model TransactionEntry
func ToModelEntry(d domain.TransactionEntry) models.TransactionEntry {
	return models.TransactionEntry{
		EntryID:       d.EntryID,
		TransactionID: d.TransactionID,
		AccountID:     d.AccountID,
		Amount:        d.Amount,
		CurrencyCode:  d.CurrencyCode,
		EntryType:     models.EntryType(d.EntryType),
		Description:   d.Description,
		Position:      d.Position,
	}
}

// ToDomainEntry converts a model TransactionEntry to a domain TransactionEntry
func ToDomainEntry(m models.TransactionEntry) domain.TransactionEntry {
	return domain.TransactionEntry{
		EntryID:       m.EntryID,
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		Amount:        m.Amount,
		CurrencyCode:  m.CurrencyCode,
		EntryType:     domain.EntryType(m.EntryType),
		Description:   m.Description,
		Position:      m.Position,
	}
}

// ToModelApproval converts a domain TransactionApproval to a model TransactionApproval
func ToModelApproval(d domain.TransactionApproval) models.TransactionApproval {
	return models.TransactionApproval{
		ApprovalID:    d.ApprovalID,
		TransactionID: d.TransactionID,
		UserID:        d.UserID,
		Role:          string(d.Role),
		Status:        string(d.Status),
		Comment:       d.Comment,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// ToDomainApproval converts a model TransactionApproval to a domain TransactionApproval
func ToDomainApproval(m models.TransactionApproval) domain.TransactionApproval {
	return domain.TransactionApproval{
		ApprovalID:    m.ApprovalID,
		TransactionID: m.TransactionID,
		UserID:        m.UserID,
		Role:          domain.UserRole(m.Role),
		Status:        domain.TransactionStatus(m.Status),
		Comment:       m.Comment,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
