package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-adslot-booking/internal/config"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/booking"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/content"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/screen"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/settings"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-adslot-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-adslot-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-adslot-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-adslot-booking/internal/queue"
)

// BookingService は広告枠予約エンジンの中核
// 検証 → スクリーン単位ロック → 競合検出 → 価格スナップショット → HELDで永続化
// を1つのアトミックな単位として実行する
type BookingService struct {
	txManager    transaction.Manager
	bookingRepo  booking.Repository
	screenRepo   screen.Repository
	contentRepo  content.Repository
	settingsRepo settings.Repository
	recorder     EarningsRecorder
	lockManager  redisinfra.LockManagerInterface
	publisher    queue.Publisher
	cache        AvailabilityCacheInterface
	cfg          config.BookingConfig
}

// NewBookingService は新しいBookingServiceを作成する
// publisher・cacheはnil可。lockManagerがnilだとスクリーン単位の排他が
// 効かないため、呼び出しが直列なテスト以外では必ず渡すこと
func NewBookingService(
	txm transaction.Manager,
	br booking.Repository,
	sr screen.Repository,
	cr content.Repository,
	str settings.Repository,
	recorder EarningsRecorder,
	lm redisinfra.LockManagerInterface,
	pub queue.Publisher,
	cache AvailabilityCacheInterface,
	cfg config.BookingConfig,
) *BookingService {
	return &BookingService{
		txManager: txm, bookingRepo: br, screenRepo: sr, contentRepo: cr,
		settingsRepo: str, recorder: recorder, lockManager: lm,
		publisher: pub, cache: cache, cfg: cfg,
	}
}

// CreateBookingInput は予約作成の入力
type CreateBookingInput struct {
	AdvertiserID string
	ScreenID     string
	ContentID    string
	StartAt      time.Time
	EndAt        time.Time
}

// CreateBooking は新しい仮押さえ予約を作成する
// 成功すればHELD状態の予約を返し、失敗すれば副作用なしで終わる
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	now := time.Now()

	// 1. 時刻の検証
	if input.StartAt.Before(now) {
		s.countBooking("validation_failed")
		return nil, booking.ErrStartInPast
	}
	if !input.EndAt.After(input.StartAt) {
		s.countBooking("validation_failed")
		return nil, booking.ErrEndNotAfterStart
	}
	if minDur := s.minBookingDuration(ctx); input.EndAt.Sub(input.StartAt) < minDur {
		s.countBooking("validation_failed")
		return nil, booking.ErrDurationTooShort
	}

	// 2. スクリーン単位の排他ロックを取得
	// 競合チェックとINSERTの間に他のリクエストが割り込むと二重予約になるため、
	// ロックは永続化完了まで保持する
	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireLockWithRetry(ctx,
			screenLockKey(input.ScreenID), s.cfg.LockTTL, s.cfg.LockRetries, s.cfg.LockRetryDelay)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				s.countBooking("lock_failed")
				return nil, booking.ErrScreenBusy
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	// 3. スクリーンの確認
	scr, err := s.screenRepo.GetByID(ctx, input.ScreenID)
	if err != nil {
		return nil, err
	}
	if !scr.IsActive() {
		s.countBooking("validation_failed")
		return nil, screen.ErrScreenNotActive
	}

	// 4. コンテンツの確認
	cnt, err := s.contentRepo.GetByID(ctx, input.ContentID)
	if err != nil {
		return nil, err
	}
	if !cnt.IsOwnedBy(input.AdvertiserID) {
		s.countBooking("validation_failed")
		return nil, content.ErrContentNotOwned
	}
	if !cnt.IsApproved() {
		s.countBooking("validation_failed")
		return nil, content.ErrContentNotApproved
	}

	// 5. 稼働時間帯の確認
	if !scr.ContainsWindow(input.StartAt, input.EndAt) {
		s.countBooking("validation_failed")
		return nil, booking.ErrOutsideOperatingTime
	}

	// 6-8. 競合チェックとINSERTを同一トランザクションで実行する
	price := AdvertiserPrice(scr, input.StartAt, input.EndAt)
	b := booking.NewBooking(input.AdvertiserID, input.ScreenID, input.ContentID,
		input.StartAt, input.EndAt, price, s.cfg.HoldDuration)
	if err := b.Validate(); err != nil {
		s.countBooking("validation_failed")
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	conflicts, err := s.bookingRepo.CountOverlapping(ctx, tx, input.ScreenID, input.StartAt, input.EndAt, "")
	if err != nil {
		return nil, err
	}
	if conflicts > 0 {
		s.countBooking("conflict")
		return nil, booking.ErrSlotConflict
	}

	if err := s.bookingRepo.Create(ctx, tx, b); err != nil {
		s.countBooking("error")
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		s.countBooking("error")
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateAvailability(ctx, b)
	s.countBooking("held")
	logger.Info("予約を作成（HELD）",
		zap.String("booking_id", b.ID),
		zap.String("reference", b.Reference),
		zap.String("screen_id", b.ScreenID),
		zap.String("advertiser_id", b.AdvertiserID),
		zap.Int64("price_amount", b.PriceAmount),
		zap.Time("expires_at", b.ExpiresAt),
	)
	return b, nil
}

// ConfirmBooking は支払い成功後に予約を確定する
// 既にCONFIRMEDならべき等に成功を返す。EXPIREDの場合は元の時間帯の競合を
// 再チェックし、スロットが空いていれば復活させる（スイーパーとの競合は
// ロックではなくこの再チェックで調停する）
func (s *BookingService) ConfirmBooking(ctx context.Context, id string) (*booking.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch b.Status {
	case booking.StatusConfirmed:
		// 支払いコールバックは重複配送されうる
		s.countConfirmation("idempotent")
		return b, nil
	case booking.StatusCancelled:
		s.countConfirmation("error")
		return nil, booking.ErrBookingCancelled
	}

	revived := b.Status == booking.StatusExpired
	now := time.Now()

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if revived {
		logger.Warn("失効済み予約への支払いを受信。競合を再チェック",
			zap.String("booking_id", b.ID))
		conflicts, err := s.bookingRepo.CountOverlapping(ctx, tx, b.ScreenID, b.StartAt, b.EndAt, b.ID)
		if err != nil {
			return nil, err
		}
		if conflicts > 0 {
			s.countConfirmation("slot_taken")
			return nil, booking.ErrSlotTaken
		}
	}

	if err := b.Confirm(now); err != nil {
		s.countConfirmation("error")
		return nil, err
	}
	if err := s.bookingRepo.Update(ctx, tx, b); err != nil {
		return nil, err
	}

	// 収益分配はCONFIRMEDへの遷移（復活含む）1回につきちょうど1回
	if err := s.recorder.Record(ctx, tx, b); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateAvailability(ctx, b)
	s.publishConfirmed(ctx, b)

	if revived {
		s.countConfirmation("revived")
		logger.Info("失効済み予約を復活して確定", zap.String("booking_id", b.ID))
	} else {
		s.countConfirmation("confirmed")
		logger.Info("予約を確定", zap.String("booking_id", b.ID))
	}
	return b, nil
}

// CancelBooking は予約を明示的にキャンセルする（HELD/CONFIRMEDのみ）
func (s *BookingService) CancelBooking(ctx context.Context, id string) (*booking.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Cancel(time.Now()); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.bookingRepo.Update(ctx, tx, b); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateAvailability(ctx, b)
	logger.Info("予約をキャンセル", zap.String("booking_id", b.ID))
	return b, nil
}

// ExpireStaleBookings は期限切れの仮押さえをEXPIREDに遷移させる
// 1件の失敗が他の処理を妨げないよう、行ごとに独立したトランザクションで
// 処理し、失敗はログに残してスキップする
func (s *BookingService) ExpireStaleBookings(ctx context.Context, now time.Time) (int, error) {
	stale, err := s.bookingRepo.ListExpiredHeld(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("期限切れ予約取得に失敗: %w", err)
	}

	count := 0
	for _, b := range stale {
		expired, err := s.expireOne(ctx, b, now)
		if err != nil {
			logger.Error("仮押さえの失効処理に失敗",
				zap.String("booking_id", b.ID),
				zap.String("reference", b.Reference),
				zap.Error(err))
			continue
		}
		if !expired {
			// 一覧取得後に決済確定やキャンセルが割り込んだ行はそのまま残す
			continue
		}
		s.invalidateAvailability(ctx, b)
		if m := metrics.Get(); m != nil {
			m.ExpiredHoldsTotal.Inc()
		}
		count++
	}

	if count > 0 {
		logger.Info("期限切れ仮押さえを失効。スロットは再予約可能",
			zap.Int("count", count))
	}
	return count, nil
}

func (s *BookingService) expireOne(ctx context.Context, b *booking.Booking, now time.Time) (bool, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// DB上の現在の状態を条件にした更新。スナップショットのHELDは信用しない
	expired, err := s.bookingRepo.ExpireHeld(ctx, tx, b.ID, now)
	if err != nil {
		return false, err
	}
	if !expired {
		return false, nil
	}
	return true, tx.Commit()
}

// GetBooking はIDから予約を取得する
func (s *BookingService) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// GetBookingByReference は参照トークンから予約を取得する（べき等な外部参照用）
func (s *BookingService) GetBookingByReference(ctx context.Context, reference string) (*booking.Booking, error) {
	return s.bookingRepo.GetByReference(ctx, reference)
}

// GetAdvertiserBookings は広告主の予約一覧を取得する
func (s *BookingService) GetAdvertiserBookings(ctx context.Context, advertiserID string, limit, offset int) ([]*booking.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.bookingRepo.ListByAdvertiser(ctx, advertiserID, limit, offset)
}

// GetScreenBookings はスクリーンのアクティブな予約一覧を取得する
// （オーナー・管理者向けの読み取りビュー）
func (s *BookingService) GetScreenBookings(ctx context.Context, screenID string) ([]*booking.Booking, error) {
	if _, err := s.screenRepo.GetByID(ctx, screenID); err != nil {
		return nil, err
	}
	return s.bookingRepo.ListActiveByScreen(ctx, screenID)
}

// minBookingDuration はプラットフォーム設定の最低予約時間を返す
// 設定が未初期化ならデフォルト値にフォールバックする
func (s *BookingService) minBookingDuration(ctx context.Context) time.Duration {
	if s.settingsRepo == nil {
		return settings.Default().MinBookingDuration
	}
	st, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return settings.Default().MinBookingDuration
	}
	return st.MinBookingDuration
}

func (s *BookingService) invalidateAvailability(ctx context.Context, b *booking.Booking) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, b.ScreenID, daysCovered(b.StartAt, b.EndAt)...); err != nil {
		logger.Warn("空き時間帯キャッシュの無効化に失敗",
			zap.String("screen_id", b.ScreenID), zap.Error(err))
	}
}

func (s *BookingService) publishConfirmed(ctx context.Context, b *booking.Booking) {
	if s.publisher == nil {
		return
	}
	ownerID := ""
	if scr, err := s.screenRepo.GetByID(ctx, b.ScreenID); err == nil {
		ownerID = scr.OwnerID
	}
	event := queue.BookingConfirmedEvent{
		BookingID:     b.ID,
		Reference:     b.Reference,
		AdvertiserID:  b.AdvertiserID,
		ScreenID:      b.ScreenID,
		ScreenOwnerID: ownerID,
		StartAt:       b.StartAt.Format(time.RFC3339),
		EndAt:         b.EndAt.Format(time.RFC3339),
		PriceAmount:   b.PriceAmount,
		ConfirmedAt:   b.ConfirmedAt.Format(time.RFC3339),
	}
	if err := s.publisher.PublishBookingConfirmed(ctx, event); err != nil {
		logger.Error("予約確定イベントの発行に失敗",
			zap.String("booking_id", b.ID), zap.Error(err))
	}
}

func (s *BookingService) countBooking(status string) {
	if m := metrics.Get(); m != nil {
		m.BookingsTotal.WithLabelValues(status).Inc()
	}
}

func (s *BookingService) countConfirmation(status string) {
	if m := metrics.Get(); m != nil {
		m.ConfirmationsTotal.WithLabelValues(status).Inc()
	}
}

func screenLockKey(screenID string) string {
	return "screen:" + screenID
}
