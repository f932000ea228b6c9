package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/multicurrency_ledger/internal/models"
	"github.com/SscSPs/multicurrency_ledger/internal/utils/mapping"
	"github.com/SscSPs/multicurrency_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, company_id, transaction_date, description, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transactions, entries and approvals.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.CompanyID,
		&m.TransactionDate,
		&m.Description,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// CreateTransactionWithEntries saves the header and every entry inside one database transaction.
func (r *PgxTransactionRepository) CreateTransactionWithEntries(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored once the transaction is committed.
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTransaction(txn)
	headerQuery := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	_, err = tx.Exec(ctx, headerQuery,
		m.TransactionID,
		m.CompanyID,
		m.TransactionDate,
		m.Description,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, mapPgError(err, "transaction "+m.TransactionID))
	}

	entryQuery := `
		INSERT INTO transaction_entries (entry_id, transaction_id, account_id, amount, currency_code, entry_type, description, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, e := range txn.Entries {
		me := mapping.ToModelEntry(e)
		batch.Queue(entryQuery,
			me.EntryID,
			me.TransactionID,
			me.AccountID,
			me.Amount,
			me.CurrencyCode,
			me.EntryType,
			me.Description,
			me.Position,
		)
	}
	br := tx.SendBatch(ctx, batch)
	// Close reports the first failing insert of the batch.
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert entries of transaction %s: %w", m.TransactionID, mapPgError(err, "entries of transaction "+m.TransactionID))
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction with its entries and approvals.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE company_id = $1 AND transaction_id = $2;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, companyID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(m)
	entries, err := r.findEntries(ctx, []string{txn.TransactionID})
	if err != nil {
		return nil, err
	}
	txn.Entries = entries[txn.TransactionID]

	approvals, err := r.findApprovals(ctx, txn.TransactionID)
	if err != nil {
		return nil, err
	}
	txn.Approvals = approvals
	return &txn, nil
}

// ListTransactions retrieves a page of transactions using token-based pagination.
// Ordering is transaction_date DESC, created_at DESC; the token encodes the last row returned.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, companyID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	args := []any{companyID}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	conditions := []string{"company_id = $1"}
	if filter.Search != "" {
		conditions = append(conditions, "description ILIKE "+arg("%"+escapeLike(filter.Search)+"%"))
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, "transaction_date >= "+arg(startOfDay(*filter.DateFrom)))
	}
	if filter.DateTo != nil {
		conditions = append(conditions, "transaction_date < "+arg(startOfDay(*filter.DateTo).AddDate(0, 0, 1)))
	}
	if len(filter.Statuses) > 0 {
		conditions = append(conditions, "status = ANY("+arg(statusStrings(filter.Statuses))+")")
	}
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		// Tuple comparison is concise and efficient in Postgres
		conditions = append(conditions, "(transaction_date, created_at) < ("+arg(lastDate)+", "+arg(lastCreatedAt)+")")
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY transaction_date DESC, created_at DESC LIMIT ` + arg(fetchLimit) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		if isInvalidID(err) {
			return []domain.Transaction{}, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to query transactions for company %s: %w", companyID, err)
	}
	defer rows.Close()

	headers := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row for company %s: %w", companyID, err)
		}
		headers = append(headers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows for company %s: %w", companyID, err)
	}

	var nextTokenVal *string
	if len(headers) > limit {
		last := headers[limit-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		nextTokenVal = &token
		headers = headers[:limit]
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.TransactionID
	}
	entries, err := r.findEntries(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	txns := make([]domain.Transaction, len(headers))
	for i, h := range headers {
		txns[i] = mapping.ToDomainTransaction(h)
		txns[i].Entries = entries[h.TransactionID]
	}
	return txns, nextTokenVal, nil
}

// UpdateTransactionHeader updates description and date of a transaction that is not yet decided.
func (r *PgxTransactionRepository) UpdateTransactionHeader(ctx context.Context, txn domain.Transaction) error {
	query := `
		UPDATE transactions
		SET description = $3, transaction_date = $4, last_updated_at = $5, last_updated_by = $6
		WHERE company_id = $1 AND transaction_id = $2 AND status IN ('draft', 'pending');
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		txn.CompanyID,
		txn.TransactionID,
		txn.Description,
		txn.Date,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", txn.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.explainNoRows(ctx, txn.CompanyID, txn.TransactionID)
	}
	return nil
}

// UpdateTransactionStatus applies a status change only when the stored status still equals from.
func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, companyID, transactionID string, from, to domain.TransactionStatus, userID string, now time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, updateStatusQuery, companyID, transactionID, string(from), string(to), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.explainNoRows(ctx, companyID, transactionID)
	}
	return nil
}

const updateStatusQuery = `
	UPDATE transactions
	SET status = $4, last_updated_at = $5, last_updated_by = $6
	WHERE company_id = $1 AND transaction_id = $2 AND status = $3;
`

// RecordDecision applies an approve or reject decision and stores its approval record atomically.
func (r *PgxTransactionRepository) RecordDecision(ctx context.Context, companyID string, from domain.TransactionStatus, approval domain.TransactionApproval) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelApproval(approval)
	cmdTag, err := tx.Exec(ctx, updateStatusQuery, companyID, m.TransactionID, string(from), m.Status, m.CreatedAt, m.UserID)
	if err != nil {
		return fmt.Errorf("failed to update status of transaction %s: %w", m.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.explainNoRows(ctx, companyID, m.TransactionID)
	}

	approvalQuery := `
		INSERT INTO transaction_approvals (approval_id, transaction_id, user_id, role, status, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, approvalQuery,
		m.ApprovalID,
		m.TransactionID,
		m.UserID,
		m.Role,
		m.Status,
		m.Comment,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert approval for transaction %s: %w", m.TransactionID, mapPgError(err, "approval "+m.ApprovalID))
	}

	return r.Commit(ctx, tx)
}

// explainNoRows distinguishes a missing transaction from one whose status changed concurrently.
func (r *PgxTransactionRepository) explainNoRows(ctx context.Context, companyID, transactionID string) error {
	var status string
	err := r.Pool.QueryRow(ctx, `SELECT status FROM transactions WHERE company_id = $1 AND transaction_id = $2;`, companyID, transactionID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to check status of transaction %s: %w", transactionID, err)
	}
	return fmt.Errorf("%w: transaction %s is now %s", apperrors.ErrValidation, transactionID, status)
}

// findEntries loads the entries of the given transactions keyed by transaction ID, in position order.
func (r *PgxTransactionRepository) findEntries(ctx context.Context, transactionIDs []string) (map[string][]domain.TransactionEntry, error) {
	out := make(map[string][]domain.TransactionEntry, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT entry_id, transaction_id, account_id, amount, currency_code, entry_type, description, position
		FROM transaction_entries
		WHERE transaction_id::text = ANY($1)
		ORDER BY transaction_id, position;
	`
	rows, err := r.Pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.TransactionEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.TransactionID,
			&m.AccountID,
			&m.Amount,
			&m.CurrencyCode,
			&m.EntryType,
			&m.Description,
			&m.Position,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction entry row: %w", err)
		}
		out[m.TransactionID] = append(out[m.TransactionID], mapping.ToDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction entry rows: %w", err)
	}
	return out, nil
}

func (r *PgxTransactionRepository) findApprovals(ctx context.Context, transactionID string) ([]domain.TransactionApproval, error) {
	query := `
		SELECT approval_id, transaction_id, user_id, role, status, comment, created_at, updated_at
		FROM transaction_approvals
		WHERE transaction_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query approvals of transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	approvals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TransactionApproval, error) {
		var m models.TransactionApproval
		err := row.Scan(&m.ApprovalID, &m.TransactionID, &m.UserID, &m.Role, &m.Status, &m.Comment, &m.CreatedAt, &m.UpdatedAt)
		return mapping.ToDomainApproval(m), err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan approvals of transaction %s: %w", transactionID, err)
	}
	return approvals, nil
}

func statusStrings(statuses []domain.TransactionStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user search text literal inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
