package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
)

const (
	ExportFormatCSV  = "csv"
	ExportFormatJSON = "json"
)

var exportHeader = []string{"Date", "Description", "Status", "Account", "Type", "Amount", "Currency", "Entry Description"}

// ExportRow is one entry of an exported transaction.
type ExportRow struct {
	Date             string `json:"date"`
	Description      string `json:"description"`
	Status           string `json:"status"`
	Account          string `json:"account"`
	Type             string `json:"type"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	EntryDescription string `json:"entryDescription,omitempty"`
}

func (r ExportRow) record() []string {
	return []string{r.Date, r.Description, r.Status, r.Account, r.Type, r.Amount, r.Currency, r.EntryDescription}
}

type exportService struct {
	BaseService
	transactions portssvc.TransactionReaderSvc
	accountRepo  portsrepo.AccountReader
}

// NewExportService creates the transaction export service. Amounts are
// written exactly as stored, never rounded to currency decimals.
func NewExportService(transactions portssvc.TransactionReaderSvc, accountRepo portsrepo.AccountReader) portssvc.ExportService {
	return &exportService{
		transactions: transactions,
		accountRepo:  accountRepo,
	}
}

var _ portssvc.ExportService = (*exportService)(nil)

func (s *exportService) ExportTransactions(ctx context.Context, companyID string, params dto.ExportParams, w io.Writer) (string, error) {
	format := params.Format
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatJSON {
		return "", fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, params.Format)
	}

	filter, err := FilterFromParams(params.ListTransactionsParams)
	if err != nil {
		return "", err
	}
	txns, err := s.transactions.ListAllTransactions(ctx, companyID, filter)
	if err != nil {
		return "", err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for export", slog.String("company_id", companyID))
		return "", fmt.Errorf("failed to load accounts: %w", err)
	}
	labels := make(map[string]string, len(accounts))
	for _, a := range accounts {
		labels[a.AccountID] = a.Code + " " + a.Name
	}

	rows := buildExportRows(txns, labels)
	s.LogInfo(ctx, "Exporting transactions",
		slog.String("company_id", companyID),
		slog.String("format", format),
		slog.Int("transactions", len(txns)),
		slog.Int("rows", len(rows)))

	if format == ExportFormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return "", fmt.Errorf("failed to write json export: %w", err)
		}
		return "application/json", nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return "", fmt.Errorf("failed to write csv export: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return "", fmt.Errorf("failed to write csv export: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to write csv export: %w", err)
	}
	return "text/csv", nil
}

func buildExportRows(txns []domain.Transaction, labels map[string]string) []ExportRow {
	rows := make([]ExportRow, 0, len(txns)*2)
	for _, t := range txns {
		for _, e := range t.Entries {
			account, ok := labels[e.AccountID]
			if !ok {
				account = e.AccountID
			}

			rows = append(rows, ExportRow{
				Date:             t.Date.Format(time.DateOnly),
				Description:      t.Description,
				Status:           string(t.Status),
				Account:          account,
				Type:             string(e.EntryType),
				Amount:           e.Amount.String(),
				Currency:         e.CurrencyCode,
				EntryDescription: e.Description,
			})
		}
	}
	return rows
}
