package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-adslot-booking/internal/domain/booking"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/transaction"
)

type bookingRow struct {
	ID           string     `db:"id"`
	Reference    string     `db:"reference"`
	AdvertiserID string     `db:"advertiser_id"`
	ScreenID     string     `db:"screen_id"`
	ContentID    string     `db:"content_id"`
	StartAt      time.Time  `db:"start_at"`
	EndAt        time.Time  `db:"end_at"`
	Status       string     `db:"status"`
	PriceAmount  int64      `db:"price_amount"`
	ExpiresAt    time.Time  `db:"expires_at"`
	ConfirmedAt  *time.Time `db:"confirmed_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

const bookingColumns = `id, reference, advertiser_id, screen_id, content_id, start_at, end_at, status, price_amount, expires_at, confirmed_at, created_at, updated_at`

type BookingRepository struct{ db *sqlx.DB }

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが不正です")
	}
	query := `INSERT INTO bookings (reference, advertiser_id, screen_id, content_id, start_at, end_at, status, price_amount, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		b.Reference, b.AdvertiserID, b.ScreenID, b.ContentID,
		b.StartAt, b.EndAt, string(b.Status), b.PriceAmount,
		b.ExpiresAt, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return booking.ErrReferenceAlreadyExists
		}
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	var row bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return toEntity(&row), nil
}

func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*booking.Booking, error) {
	var row bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = $1`
	if err := r.db.GetContext(ctx, &row, query, reference); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return toEntity(&row), nil
}

func (r *BookingRepository) ListByAdvertiser(ctx context.Context, advertiserID string, limit, offset int) ([]*booking.Booking, error) {
	var rows []bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE advertiser_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, advertiserID, limit, offset); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return toEntities(rows), nil
}

func (r *BookingRepository) ListActiveByScreen(ctx context.Context, screenID string) ([]*booking.Booking, error) {
	var rows []bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE screen_id = $1 AND status IN ('HELD', 'CONFIRMED') ORDER BY start_at ASC`
	if err := r.db.SelectContext(ctx, &rows, query, screenID); err != nil {
		return nil, fmt.Errorf("アクティブ予約取得に失敗: %w", err)
	}
	return toEntities(rows), nil
}

// CountOverlapping は半開区間 [start, end) と重複するアクティブ予約を数える
// existing.start < end AND existing.end > start なので、ちょうど接する枠は重複にならない
func (r *BookingRepository) CountOverlapping(ctx context.Context, tx transaction.Tx, screenID string, start, end time.Time, excludeID string) (int, error) {
	// excludeID はtext扱い（最初の参照で$4の型が決まるため、uuid列側をキャストして比較する）
	query := `SELECT COUNT(*) FROM bookings
		WHERE screen_id = $1
		  AND status IN ('HELD', 'CONFIRMED')
		  AND start_at < $2
		  AND end_at > $3
		  AND ($4 = '' OR id::text <> $4)`

	var count int
	var err error
	if sqlxTx := UnwrapTx(tx); sqlxTx != nil {
		err = sqlxTx.GetContext(ctx, &count, query, screenID, end, start, excludeID)
	} else {
		err = r.db.GetContext(ctx, &count, query, screenID, end, start, excludeID)
	}
	if err != nil {
		return 0, fmt.Errorf("重複予約カウントに失敗: %w", err)
	}
	return count, nil
}

func (r *BookingRepository) Update(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが不正です")
	}
	query := `UPDATE bookings SET status = $1, confirmed_at = $2, updated_at = $3 WHERE id = $4`
	result, err := sqlxTx.ExecContext(ctx, query, string(b.Status), b.ConfirmedAt, b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

// ExpireHeld はHELDのままの予約をEXPIREDに遷移させる
// スイープ対象の取得後に決済やキャンセルが割り込んでいた場合は
// 何も書かずfalseを返す（CONFIRMEDを上書きしないための条件付きUPDATE）
func (r *BookingRepository) ExpireHeld(ctx context.Context, tx transaction.Tx, id string, now time.Time) (bool, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return false, errors.New("トランザクションが不正です")
	}
	query := `UPDATE bookings SET status = 'EXPIRED', updated_at = $2 WHERE id = $1 AND status = 'HELD'`
	result, err := sqlxTx.ExecContext(ctx, query, id, now)
	if err != nil {
		return false, fmt.Errorf("仮押さえの失効に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *BookingRepository) ListExpiredHeld(ctx context.Context, now time.Time) ([]*booking.Booking, error) {
	var rows []bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = 'HELD' AND expires_at < $1`
	if err := r.db.SelectContext(ctx, &rows, query, now); err != nil {
		return nil, fmt.Errorf("期限切れ予約取得に失敗: %w", err)
	}
	return toEntities(rows), nil
}

func toEntity(row *bookingRow) *booking.Booking {
	return &booking.Booking{
		ID: row.ID, Reference: row.Reference,
		AdvertiserID: row.AdvertiserID, ScreenID: row.ScreenID, ContentID: row.ContentID,
		StartAt: row.StartAt, EndAt: row.EndAt,
		Status: booking.Status(row.Status), PriceAmount: row.PriceAmount,
		ExpiresAt: row.ExpiresAt, ConfirmedAt: row.ConfirmedAt,
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
}

func toEntities(rows []bookingRow) []*booking.Booking {
	result := make([]*booking.Booking, len(rows))
	for i := range rows {
		result[i] = toEntity(&rows[i])
	}
	return result
}

var _ booking.Repository = (*BookingRepository)(nil)
