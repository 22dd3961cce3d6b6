// AngelaMos | 2026
// repository.go

package otp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/blogspace/internal/core"
)

type Repository interface {
	Insert(ctx context.Context, code *Code) error
	LatestByPhone(ctx context.Context, phone string) (*Code, error)
	LatestByPhoneAndCode(ctx context.Context, phone, code string) (*Code, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, code *Code) error {
	query := `
		INSERT INTO otp_codes (id, phone, code)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &code.CreatedAt, query,
		code.ID,
		code.Phone,
		code.Code,
	)
	if err != nil {
		return fmt.Errorf("insert otp code: %w", err)
	}

	return nil
}

func (r *repository) LatestByPhone(
	ctx context.Context,
	phone string,
) (*Code, error) {
	query := `
		SELECT id, phone, code, created_at
		FROM otp_codes
		WHERE phone = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var code Code
	err := r.db.GetContext(ctx, &code, query, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest otp code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest otp code: %w", err)
	}

	return &code, nil
}

func (r *repository) LatestByPhoneAndCode(
	ctx context.Context,
	phone, codeValue string,
) (*Code, error) {
	query := `
		SELECT id, phone, code, created_at
		FROM otp_codes
		WHERE phone = $1 AND code = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var code Code
	err := r.db.GetContext(ctx, &code, query, phone, codeValue)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find otp code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find otp code: %w", err)
	}

	return &code, nil
}

// DeleteOlderThan trims ledger history well past any redeemable window.
func (r *repository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	query := `DELETE FROM otp_codes WHERE created_at < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete otp codes: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete otp codes: %w", err)
	}

	return rows, nil
}
