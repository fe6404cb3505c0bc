package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"wagebridge/internal/attestation/models"
	id "wagebridge/pkg/domain"
)

// Postgres persists attestations and spent nullifiers in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed attestation store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// InsertIfAbsent records the attestation unless its period nonce is already
// taken. Uniqueness is enforced by the attestations_period_nonce_key
// constraint, so concurrent inserts race safely inside the database.
func (s *Postgres) InsertIfAbsent(ctx context.Context, att models.WageAttestation) error {
	query := `
		INSERT INTO attestations (
			id, employer_id, employee_wallet, wage_amount,
			period_start, period_end, hours_milli, hourly_rate,
			period_nonce, attested_at, signature
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (period_nonce) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(att.ID),
		att.EmployerID.String(),
		att.EmployeeWallet.Canonical(),
		att.WageAmount,
		att.PeriodStart,
		att.PeriodEnd,
		att.HoursWorked.Milli(),
		att.HourlyRate,
		att.PeriodNonce.String(),
		att.Timestamp,
		att.Signature,
	)
	if err != nil {
		return fmt.Errorf("insert attestation: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert attestation rows: %w", err)
	}
	if rows == 0 {
		return ErrDuplicateNonce
	}
	return nil
}

// Get retrieves an attestation by its ID.
func (s *Postgres) Get(ctx context.Context, attID id.AttestationID) (models.WageAttestation, error) {
	query := selectAttestation + ` WHERE id = $1`
	att, err := scanAttestation(s.db.QueryRowContext(ctx, query, uuid.UUID(attID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.WageAttestation{}, ErrNotFound
		}
		return models.WageAttestation{}, fmt.Errorf("get attestation: %w", err)
	}
	return att, nil
}

// GetByNonce retrieves an attestation by its period nonce.
func (s *Postgres) GetByNonce(ctx context.Context, nonce id.PeriodNonce) (models.WageAttestation, error) {
	query := selectAttestation + ` WHERE period_nonce = $1`
	att, err := scanAttestation(s.db.QueryRowContext(ctx, query, nonce.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.WageAttestation{}, ErrNotFound
		}
		return models.WageAttestation{}, fmt.Errorf("get attestation by nonce: %w", err)
	}
	return att, nil
}

// MarkUsed records the nullifier as spent, first writer wins.
func (s *Postgres) MarkUsed(ctx context.Context, n id.Nullifier) error {
	query := `
		INSERT INTO used_nullifiers (nullifier, spent_at)
		VALUES ($1, now())
		ON CONFLICT (nullifier) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query, n.String())
	if err != nil {
		return fmt.Errorf("mark nullifier used: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark nullifier rows: %w", err)
	}
	if rows == 0 {
		return ErrNullifierUsed
	}
	return nil
}

// IsUsed reports whether the nullifier has been spent.
func (s *Postgres) IsUsed(ctx context.Context, n id.Nullifier) (bool, error) {
	var used bool
	query := `SELECT EXISTS (SELECT 1 FROM used_nullifiers WHERE nullifier = $1)`
	if err := s.db.QueryRowContext(ctx, query, n.String()).Scan(&used); err != nil {
		return false, fmt.Errorf("check nullifier: %w", err)
	}
	return used, nil
}

const selectAttestation = `
	SELECT id, employer_id, employee_wallet, wage_amount,
	       period_start, period_end, hours_milli, hourly_rate,
	       period_nonce, attested_at, signature
	FROM attestations`

type attestationRow interface {
	Scan(dest ...any) error
}

func scanAttestation(row attestationRow) (models.WageAttestation, error) {
	var (
		att         models.WageAttestation
		attID       uuid.UUID
		employerID  string
		wallet      string
		hoursMilli  int64
		periodNonce string
	)
	if err := row.Scan(
		&attID,
		&employerID,
		&wallet,
		&att.WageAmount,
		&att.PeriodStart,
		&att.PeriodEnd,
		&hoursMilli,
		&att.HourlyRate,
		&periodNonce,
		&att.Timestamp,
		&att.Signature,
	); err != nil {
		return models.WageAttestation{}, err
	}
	att.ID = id.AttestationID(attID)
	att.EmployerID = id.EmployerID(employerID)
	att.EmployeeWallet = id.WalletAddress(wallet)
	att.HoursWorked = models.HoursFromMilli(hoursMilli)
	att.PeriodNonce = id.PeriodNonce(periodNonce)
	att.PeriodStart = att.PeriodStart.UTC()
	att.PeriodEnd = att.PeriodEnd.UTC()
	att.Timestamp = att.Timestamp.UTC()
	return att, nil
}

// Verify interfaces are satisfied.
var (
	_ Store           = (*Postgres)(nil)
	_ NullifierLedger = (*Postgres)(nil)
)
