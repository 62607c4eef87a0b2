package screen

import (
	"fmt"
	"time"
)

// Status はスクリーンの状態を表す
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// TimeOfDay はスクリーンの稼働時間帯を表す時刻（日付なし）
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay は "HH:MM" 形式の文字列をパースする
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var t TimeOfDay
	if _, err := fmt.Sscanf(s, "%d:%d", &t.Hour, &t.Minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("時刻のパースに失敗 (%q): %w", s, err)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("時刻が範囲外です: %q", s)
	}
	return t, nil
}

// MinuteOfDay は0時からの経過分を返す
func (t TimeOfDay) MinuteOfDay() int {
	return t.Hour*60 + t.Minute
}

// String は "HH:MM" 形式で返す
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Screen は広告スクリーンエンティティを表す
// 予約エンジンからは読み取り専用（登録・承認フローは管理側の責務）
type Screen struct {
	ID            string
	Name          string
	Location      string
	OwnerID       string
	Status        Status
	PricePerHour  int64 // 広告主向け時間単価（最小通貨単位）
	OwnerBaseRate int64 // オーナー payout の時間単価（最小通貨単位）
	ActiveFrom    *TimeOfDay
	ActiveTo      *TimeOfDay
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewScreen は新しいスクリーンを作成する
func NewScreen(name, location, ownerID string, pricePerHour, ownerBaseRate int64) *Screen {
	now := time.Now()
	return &Screen{
		Name:          name,
		Location:      location,
		OwnerID:       ownerID,
		Status:        StatusPending,
		PricePerHour:  pricePerHour,
		OwnerBaseRate: ownerBaseRate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsActive は予約を受け付けられる状態かを返す
func (s *Screen) IsActive() bool {
	return s.Status == StatusActive
}

// HasOperatingWindow は稼働時間帯が設定されているかを返す
func (s *Screen) HasOperatingWindow() bool {
	return s.ActiveFrom != nil && s.ActiveTo != nil
}

// ContainsWindow は指定の時間帯が稼働時間内に収まるかを返す
// 稼働時間帯が未設定の場合は常にtrue。稼働時間帯のあるスクリーンでは
// 日をまたぐ枠は収まらない扱いとする
func (s *Screen) ContainsWindow(start, end time.Time) bool {
	if !s.HasOperatingWindow() {
		return true
	}
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()
	if endMin == 0 && end.After(start) {
		// 翌日0:00ちょうどに終わる枠は24:00扱い
		endMin = 24 * 60
	}
	// 時刻の比較だけでは日またぎを検出できないので、実時間の長さと突き合わせる
	if endMin < startMin || end.Sub(start) > time.Duration(endMin-startMin)*time.Minute {
		return false
	}
	return startMin >= s.ActiveFrom.MinuteOfDay() && endMin <= s.ActiveTo.MinuteOfDay()
}

// Validate はスクリーンの検証を行う
func (s *Screen) Validate() error {
	if s.Name == "" {
		return ErrScreenNameRequired
	}
	if s.OwnerID == "" {
		return ErrOwnerIDRequired
	}
	if s.PricePerHour <= 0 || s.OwnerBaseRate < 0 {
		return ErrInvalidRate
	}
	if s.HasOperatingWindow() && s.ActiveFrom.MinuteOfDay() >= s.ActiveTo.MinuteOfDay() {
		return ErrInvalidOperatingWindow
	}
	return nil
}
