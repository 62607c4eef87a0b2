package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-adslot-booking/internal/domain/content"
)

type contentRow struct {
	ID           string    `db:"id"`
	AdvertiserID string    `db:"advertiser_id"`
	Title        string    `db:"title"`
	MediaURL     string    `db:"media_url"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type ContentRepository struct{ db *sqlx.DB }

func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) Create(ctx context.Context, c *content.Content) error {
	query := `INSERT INTO contents (advertiser_id, title, media_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query,
		c.AdvertiserID, c.Title, c.MediaURL, string(c.Status), c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID); err != nil {
		return fmt.Errorf("コンテンツ作成に失敗: %w", err)
	}
	return nil
}

func (r *ContentRepository) GetByID(ctx context.Context, id string) (*content.Content, error) {
	var row contentRow
	query := `SELECT id, advertiser_id, title, media_url, status, created_at, updated_at FROM contents WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, content.ErrContentNotFound
		}
		return nil, fmt.Errorf("コンテンツ取得に失敗: %w", err)
	}
	return &content.Content{
		ID: row.ID, AdvertiserID: row.AdvertiserID,
		Title: row.Title, MediaURL: row.MediaURL,
		Status:    content.Status(row.Status),
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}, nil
}

var _ content.Repository = (*ContentRepository)(nil)
