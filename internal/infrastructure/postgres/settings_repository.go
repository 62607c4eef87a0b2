package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-adslot-booking/internal/domain/settings"
)

type settingsRow struct {
	ID                string    `db:"id"`
	CommissionPercent float64   `db:"commission_percent"`
	MinBookingMinutes int       `db:"min_booking_minutes"`
	MaintenanceMode   bool      `db:"maintenance_mode"`
	UpdatedAt         time.Time `db:"updated_at"`
}

type SettingsRepository struct{ db *sqlx.DB }

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get は単一行のプラットフォーム設定を取得する
func (r *SettingsRepository) Get(ctx context.Context) (*settings.PlatformSettings, error) {
	var row settingsRow
	query := `SELECT id, commission_percent, min_booking_minutes, maintenance_mode, updated_at
		FROM platform_settings ORDER BY updated_at DESC LIMIT 1`
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, settings.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("プラットフォーム設定取得に失敗: %w", err)
	}
	return &settings.PlatformSettings{
		ID:                 row.ID,
		CommissionPercent:  row.CommissionPercent,
		MinBookingDuration: time.Duration(row.MinBookingMinutes) * time.Minute,
		MaintenanceMode:    row.MaintenanceMode,
		UpdatedAt:          row.UpdatedAt,
	}, nil
}

func (r *SettingsRepository) Update(ctx context.Context, s *settings.PlatformSettings) error {
	query := `UPDATE platform_settings SET commission_percent = $1, min_booking_minutes = $2, maintenance_mode = $3, updated_at = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query,
		s.CommissionPercent, int(s.MinBookingDuration.Minutes()), s.MaintenanceMode, time.Now(), s.ID)
	if err != nil {
		return fmt.Errorf("プラットフォーム設定更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return settings.ErrSettingsNotFound
	}
	return nil
}

var _ settings.Repository = (*SettingsRepository)(nil)
