package booking

import (
	"context"
	"time"

	"github.com/sanosuguru/go-adslot-booking/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, b *Booking) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Booking, error)

	// GetByReference は参照トークンから予約を取得する
	GetByReference(ctx context.Context, reference string) (*Booking, error)

	// ListByAdvertiser は広告主の予約一覧を取得する
	ListByAdvertiser(ctx context.Context, advertiserID string, limit, offset int) ([]*Booking, error)

	// ListActiveByScreen はスクリーンのアクティブな予約（HELD/CONFIRMED）を開始時刻昇順で取得する
	ListActiveByScreen(ctx context.Context, screenID string) ([]*Booking, error)

	// CountOverlapping は指定時間帯と重複するアクティブ予約数を数える
	// 後続の書き込みが結果に依存する場合、その書き込みと同一トランザクションで実行すること
	// excludeID が空でない場合、そのIDの予約は数えない
	CountOverlapping(ctx context.Context, tx transaction.Tx, screenID string, start, end time.Time, excludeID string) (int, error)

	// Update は予約の状態を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, b *Booking) error

	// ExpireHeld は予約がまだHELDの場合のみEXPIREDに遷移させる
	// 実際に遷移したときtrueを返す。取得済みスナップショットが古くなっていても
	// CONFIRMED/CANCELLEDを上書きしないための条件付き更新
	ExpireHeld(ctx context.Context, tx transaction.Tx, id string, now time.Time) (bool, error)

	// ListExpiredHeld は期限切れの仮押さえ予約を取得する
	ListExpiredHeld(ctx context.Context, now time.Time) ([]*Booking, error)
}
