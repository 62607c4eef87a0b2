package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-adslot-booking/internal/domain/earnings"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/transaction"
)

type earningRow struct {
	ID                 string    `db:"id"`
	BookingID          string    `db:"booking_id"`
	ScreenOwnerID      string    `db:"screen_owner_id"`
	ScreenID           string    `db:"screen_id"`
	OwnerAmount        int64     `db:"owner_amount"`
	PlatformCommission int64     `db:"platform_commission"`
	WeekStart          time.Time `db:"week_start"`
	WeekEnd            time.Time `db:"week_end"`
	Status             string    `db:"status"`
	CreatedAt          time.Time `db:"created_at"`
}

const earningColumns = `id, booking_id, screen_owner_id, screen_id, owner_amount, platform_commission, week_start, week_end, status, created_at`

type EarningsRepository struct{ db *sqlx.DB }

func NewEarningsRepository(db *sqlx.DB) *EarningsRepository {
	return &EarningsRepository{db: db}
}

func (r *EarningsRepository) Create(ctx context.Context, tx transaction.Tx, e *earnings.OwnerEarning) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが不正です")
	}
	query := `INSERT INTO owner_earnings (booking_id, screen_owner_id, screen_id, owner_amount, platform_commission, week_start, week_end, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		e.BookingID, e.ScreenOwnerID, e.ScreenID,
		e.OwnerAmount, e.PlatformCommission,
		e.WeekStart, e.WeekEnd, string(e.Status), e.CreatedAt,
	).Scan(&e.ID); err != nil {
		return fmt.Errorf("収益レコード作成に失敗: %w", err)
	}
	return nil
}

func (r *EarningsRepository) GetByBookingID(ctx context.Context, bookingID string) (*earnings.OwnerEarning, error) {
	var row earningRow
	query := `SELECT ` + earningColumns + ` FROM owner_earnings WHERE booking_id = $1`
	if err := r.db.GetContext(ctx, &row, query, bookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, earnings.ErrEarningNotFound
		}
		return nil, fmt.Errorf("収益レコード取得に失敗: %w", err)
	}
	return earningToEntity(&row), nil
}

func (r *EarningsRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*earnings.OwnerEarning, error) {
	var rows []earningRow
	query := `SELECT ` + earningColumns + ` FROM owner_earnings WHERE screen_owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, ownerID, limit, offset); err != nil {
		return nil, fmt.Errorf("収益レコード一覧取得に失敗: %w", err)
	}
	result := make([]*earnings.OwnerEarning, len(rows))
	for i := range rows {
		result[i] = earningToEntity(&rows[i])
	}
	return result, nil
}

func earningToEntity(row *earningRow) *earnings.OwnerEarning {
	return &earnings.OwnerEarning{
		ID: row.ID, BookingID: row.BookingID,
		ScreenOwnerID: row.ScreenOwnerID, ScreenID: row.ScreenID,
		OwnerAmount: row.OwnerAmount, PlatformCommission: row.PlatformCommission,
		WeekStart: row.WeekStart, WeekEnd: row.WeekEnd,
		Status: earnings.Status(row.Status), CreatedAt: row.CreatedAt,
	}
}

var _ earnings.Repository = (*EarningsRepository)(nil)
