// Package worker はバックグラウンド処理を提供する
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-adslot-booking/internal/pkg/logger"
)

// StaleBookingExpirer は期限切れ仮押さえの失効処理インターフェース
type StaleBookingExpirer interface {
	ExpireStaleBookings(ctx context.Context, now time.Time) (int, error)
}

// ExpiredBookingSweeper は期限切れの仮押さえ予約を定期的に失効させる
// ワーカー。1回の失敗で停止せず、次のティックで再試行する
type ExpiredBookingSweeper struct {
	expirer  StaleBookingExpirer
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewExpiredBookingSweeper は新しいスイーパーを作成する
func NewExpiredBookingSweeper(expirer StaleBookingExpirer, interval time.Duration) *ExpiredBookingSweeper {
	return &ExpiredBookingSweeper{
		expirer:  expirer,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start はバックグラウンドでスイープループを開始する
func (s *ExpiredBookingSweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
	logger.Info("期限切れ予約スイーパーを開始",
		zap.Duration("interval", s.interval))
}

// Stop はスイーパーを停止し、実行中のスイープの完了を待つ
func (s *ExpiredBookingSweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
	logger.Info("期限切れ予約スイーパーを停止")
}

func (s *ExpiredBookingSweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// 起動直後に1回実行（再起動中に溜まった期限切れを即座に処理する）
	s.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *ExpiredBookingSweeper) sweep(ctx context.Context) {
	count, err := s.expirer.ExpireStaleBookings(ctx, time.Now())
	if err != nil {
		logger.Error("スイープ処理に失敗", zap.Error(err))
		return
	}
	if count > 0 {
		logger.Info("スイープ完了", zap.Int("expired", count))
	}
}
