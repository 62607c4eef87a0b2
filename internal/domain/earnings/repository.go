package earnings

import (
	"context"

	"github.com/sanosuguru/go-adslot-booking/internal/domain/transaction"
)

// Repository はオーナー収益リポジトリのインターフェース
type Repository interface {
	// Create は収益レコードを作成する（予約確定と同一トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, e *OwnerEarning) error

	// GetByBookingID は予約IDから収益レコードを取得する
	GetByBookingID(ctx context.Context, bookingID string) (*OwnerEarning, error)

	// ListByOwner はオーナーの収益レコード一覧を取得する
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*OwnerEarning, error)
}
