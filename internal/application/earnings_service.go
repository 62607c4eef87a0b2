package application

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sanosuguru/go-adslot-booking/internal/domain/booking"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/earnings"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/screen"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/settings"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/transaction"
)

// EarningsRecorder は予約確定時に収益分配を記録するインターフェース
// 予約の確定と同一トランザクション内で、確定1件につきちょうど1回呼ばれる
type EarningsRecorder interface {
	Record(ctx context.Context, tx transaction.Tx, b *booking.Booking) error
}

// EarningsService はオーナー収益の分配を記録する
type EarningsService struct {
	screenRepo   screen.Repository
	settingsRepo settings.Repository
	earningsRepo earnings.Repository
}

// NewEarningsService は新しいEarningsServiceを作成する
func NewEarningsService(sr screen.Repository, str settings.Repository, er earnings.Repository) *EarningsService {
	return &EarningsService{screenRepo: sr, settingsRepo: str, earningsRepo: er}
}

// Record は確定済み予約のスナップショット価格をオーナー分と手数料に分配して記録する
// PriceAmountには一切手を付けない
func (s *EarningsService) Record(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	scr, err := s.screenRepo.GetByID(ctx, b.ScreenID)
	if err != nil {
		return fmt.Errorf("収益計算用のスクリーン取得に失敗: %w", err)
	}

	ownerAmount := s.ownerAmountFor(ctx, scr, b)
	if ownerAmount > b.PriceAmount {
		ownerAmount = b.PriceAmount
	}
	commission := b.PriceAmount - ownerAmount

	weekStart, weekEnd := earnings.WeekWindowOf(b.StartAt)
	e := &earnings.OwnerEarning{
		BookingID:          b.ID,
		ScreenOwnerID:      scr.OwnerID,
		ScreenID:           scr.ID,
		OwnerAmount:        ownerAmount,
		PlatformCommission: commission,
		WeekStart:          weekStart,
		WeekEnd:            weekEnd,
		Status:             earnings.StatusPending,
		CreatedAt:          time.Now(),
	}
	return s.earningsRepo.Create(ctx, tx, e)
}

// ownerAmountFor はオーナー分配額を計算する
// 基本はレートベース（オーナー単価×時間数）。スクリーンにオーナー単価が
// 設定されていない場合のみ、プラットフォーム手数料率から逆算する
func (s *EarningsService) ownerAmountFor(ctx context.Context, scr *screen.Screen, b *booking.Booking) int64 {
	if scr.OwnerBaseRate > 0 {
		return OwnerShare(scr, b.StartAt, b.EndAt)
	}

	// 設定が読めない場合はデフォルト手数料率で分配を続行する
	commissionPercent := settings.Default().CommissionPercent
	if s.settingsRepo != nil {
		if st, err := s.settingsRepo.Get(ctx); err == nil {
			commissionPercent = st.CommissionPercent
		}
	}
	return int64(math.Round(float64(b.PriceAmount) * (100.0 - commissionPercent) / 100.0))
}

var _ EarningsRecorder = (*EarningsService)(nil)
