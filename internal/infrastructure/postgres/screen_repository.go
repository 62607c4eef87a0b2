package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-adslot-booking/internal/domain/screen"
)

type screenRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Location      string    `db:"location"`
	OwnerID       string    `db:"owner_id"`
	Status        string    `db:"status"`
	PricePerHour  int64     `db:"price_per_hour"`
	OwnerBaseRate int64     `db:"owner_base_rate"`
	ActiveFrom    *string   `db:"active_from"`
	ActiveTo      *string   `db:"active_to"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

const screenColumns = `id, name, location, owner_id, status, price_per_hour, owner_base_rate, to_char(active_from, 'HH24:MI') AS active_from, to_char(active_to, 'HH24:MI') AS active_to, created_at, updated_at`

type ScreenRepository struct{ db *sqlx.DB }

func NewScreenRepository(db *sqlx.DB) *ScreenRepository {
	return &ScreenRepository{db: db}
}

func (r *ScreenRepository) Create(ctx context.Context, s *screen.Screen) error {
	query := `INSERT INTO screens (name, location, owner_id, status, price_per_hour, owner_base_rate, active_from, active_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	var activeFrom, activeTo *string
	if s.ActiveFrom != nil {
		v := s.ActiveFrom.String()
		activeFrom = &v
	}
	if s.ActiveTo != nil {
		v := s.ActiveTo.String()
		activeTo = &v
	}
	if err := r.db.QueryRowContext(ctx, query,
		s.Name, s.Location, s.OwnerID, string(s.Status),
		s.PricePerHour, s.OwnerBaseRate, activeFrom, activeTo,
		s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID); err != nil {
		return fmt.Errorf("スクリーン作成に失敗: %w", err)
	}
	return nil
}

func (r *ScreenRepository) GetByID(ctx context.Context, id string) (*screen.Screen, error) {
	var row screenRow
	query := `SELECT ` + screenColumns + ` FROM screens WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, screen.ErrScreenNotFound
		}
		return nil, fmt.Errorf("スクリーン取得に失敗: %w", err)
	}
	return screenToEntity(&row)
}

func (r *ScreenRepository) List(ctx context.Context, limit, offset int) ([]*screen.Screen, error) {
	var rows []screenRow
	query := `SELECT ` + screenColumns + ` FROM screens ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("スクリーン一覧取得に失敗: %w", err)
	}
	result := make([]*screen.Screen, 0, len(rows))
	for i := range rows {
		s, err := screenToEntity(&rows[i])
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}

func screenToEntity(row *screenRow) (*screen.Screen, error) {
	s := &screen.Screen{
		ID: row.ID, Name: row.Name, Location: row.Location,
		OwnerID: row.OwnerID, Status: screen.Status(row.Status),
		PricePerHour: row.PricePerHour, OwnerBaseRate: row.OwnerBaseRate,
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
	if row.ActiveFrom != nil {
		t, err := screen.ParseTimeOfDay(*row.ActiveFrom)
		if err != nil {
			return nil, err
		}
		s.ActiveFrom = &t
	}
	if row.ActiveTo != nil {
		t, err := screen.ParseTimeOfDay(*row.ActiveTo)
		if err != nil {
			return nil, err
		}
		s.ActiveTo = &t
	}
	return s, nil
}

var _ screen.Repository = (*ScreenRepository)(nil)
