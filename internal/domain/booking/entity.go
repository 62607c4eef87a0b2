package booking

import (
	"time"

	"github.com/google/uuid"
)

// Status は予約の状態を表す
// 生成時は常にHELD（概念上のCREATEDは単体では永続化しない）
type Status string

const (
	StatusHeld      Status = "HELD"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

// Booking は広告枠の予約エンティティを表す
// PriceAmount は作成時のスナップショットで、以後絶対に再計算しない
type Booking struct {
	ID           string
	Reference    string // 外部向けの一意トークン（UUID）
	AdvertiserID string
	ScreenID     string
	ContentID    string
	StartAt      time.Time
	EndAt        time.Time // [StartAt, EndAt) の半開区間
	Status       Status
	PriceAmount  int64      // 最小通貨単位
	ExpiresAt    time.Time  // HELDの間のみ意味を持つ
	ConfirmedAt  *time.Time // CONFIRMEDへの遷移時に一度だけ設定
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewBooking は新しい仮押さえ予約を作成する
func NewBooking(advertiserID, screenID, contentID string, startAt, endAt time.Time, priceAmount int64, holdDuration time.Duration) *Booking {
	now := time.Now()
	return &Booking{
		Reference:    uuid.New().String(),
		AdvertiserID: advertiserID,
		ScreenID:     screenID,
		ContentID:    contentID,
		StartAt:      startAt,
		EndAt:        endAt,
		Status:       StatusHeld,
		PriceAmount:  priceAmount,
		ExpiresAt:    now.Add(holdDuration),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsActive はスロットを占有している状態（HELDまたはCONFIRMED）かを返す
func (b *Booking) IsActive() bool {
	return b.Status == StatusHeld || b.Status == StatusConfirmed
}

// IsHoldExpired は仮押さえの期限が切れているかを返す
func (b *Booking) IsHoldExpired(now time.Time) bool {
	return b.Status == StatusHeld && b.ExpiresAt.Before(now)
}

// Overlaps は指定の時間帯と重なるかを返す
// 半開区間なので、ちょうど接する枠（end == other.start）は重なりではない
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && b.EndAt.After(start)
}

// Duration は予約時間の長さを返す
func (b *Booking) Duration() time.Duration {
	return b.EndAt.Sub(b.StartAt)
}

// Confirm は予約を確定する（HELDまたは失効復活の場合のみ）
// 復活時の競合チェックは呼び出し側（サービス層）の責務
func (b *Booking) Confirm(now time.Time) error {
	switch b.Status {
	case StatusConfirmed:
		return ErrAlreadyConfirmed
	case StatusCancelled:
		return ErrBookingCancelled
	case StatusHeld, StatusExpired:
		b.Status = StatusConfirmed
		b.ConfirmedAt = &now
		b.UpdatedAt = now
		return nil
	default:
		return ErrInvalidTransition
	}
}

// Expire は仮押さえを失効させる（スイーパー専用、HELDのみ）
func (b *Booking) Expire(now time.Time) error {
	if b.Status != StatusHeld {
		return ErrBookingNotHeld
	}
	b.Status = StatusExpired
	b.UpdatedAt = now
	return nil
}

// Cancel は予約をキャンセルする（HELDまたはCONFIRMEDのみ）
func (b *Booking) Cancel(now time.Time) error {
	switch b.Status {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusExpired:
		return ErrBookingExpired
	case StatusHeld, StatusConfirmed:
		b.Status = StatusCancelled
		b.UpdatedAt = now
		return nil
	default:
		return ErrInvalidTransition
	}
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.AdvertiserID == "" {
		return ErrAdvertiserIDRequired
	}
	if b.ScreenID == "" {
		return ErrScreenIDRequired
	}
	if b.ContentID == "" {
		return ErrContentIDRequired
	}
	if !b.EndAt.After(b.StartAt) {
		return ErrEndNotAfterStart
	}
	if b.PriceAmount < 0 {
		return ErrInvalidPriceAmount
	}
	return nil
}
