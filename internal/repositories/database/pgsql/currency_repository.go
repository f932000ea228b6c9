package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/multicurrency_ledger/internal/models"
	"github.com/SscSPs/multicurrency_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currencies and currency settings.
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryFacade {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

// UpsertCurrency inserts or updates a currency definition.
func (r *PgxCurrencyRepository) UpsertCurrency(ctx context.Context, currency domain.Currency) error {
	m := mapping.ToModelCurrency(currency)

	query := `
		INSERT INTO currencies (currency_code, name, symbol, decimals, active, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (currency_code) DO UPDATE SET
			name = EXCLUDED.name,
			symbol = EXCLUDED.symbol,
			decimals = EXCLUDED.decimals,
			active = EXCLUDED.active,
			last_updated_at = EXCLUDED.last_updated_at;
	`

	_, err := r.Pool.Exec(ctx, query,
		m.CurrencyCode,
		m.Name,
		m.Symbol,
		m.Decimals,
		m.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to save currency %s: %w", m.CurrencyCode, mapPgError(err, "currency "+m.CurrencyCode))
	}
	return nil
}

// ListCurrencies retrieves all persisted currencies ordered by code.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `
		SELECT currency_code, name, symbol, decimals, active, created_at, last_updated_at
		FROM currencies
		ORDER BY currency_code;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	var currencies []models.Currency
	for rows.Next() {
		var m models.Currency
		if err := rows.Scan(
			&m.CurrencyCode,
			&m.Name,
			&m.Symbol,
			&m.Decimals,
			&m.Active,
			&m.CreatedAt,
			&m.LastUpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", err)
		}
		currencies = append(currencies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency rows: %w", err)
	}

	return mapping.ToDomainCurrencySlice(currencies), nil
}

// GetSettings loads the single currency settings row.
func (r *PgxCurrencyRepository) GetSettings(ctx context.Context) (*domain.CurrencySettings, error) {
	query := `
		SELECT base_currency, update_frequency, providers, last_updated_at, last_updated_by
		FROM currency_settings
		WHERE settings_id = 1;
	`
	var m models.CurrencySettings
	err := r.Pool.QueryRow(ctx, query).Scan(
		&m.BaseCurrency,
		&m.UpdateFrequency,
		&m.Providers,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load currency settings: %w", err)
	}

	settings, err := mapping.ToDomainSettings(m)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings stores the currency settings, replacing any previous row.
func (r *PgxCurrencyRepository) SaveSettings(ctx context.Context, settings domain.CurrencySettings) error {
	m, err := mapping.ToModelSettings(settings)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO currency_settings (settings_id, base_currency, update_frequency, providers, last_updated_at, last_updated_by)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (settings_id) DO UPDATE SET
			base_currency = EXCLUDED.base_currency,
			update_frequency = EXCLUDED.update_frequency,
			providers = EXCLUDED.providers,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err = r.Pool.Exec(ctx, query,
		m.BaseCurrency,
		m.UpdateFrequency,
		m.Providers,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save currency settings: %w", err)
	}
	return nil
}
