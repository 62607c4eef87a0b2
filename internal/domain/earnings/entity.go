package earnings

import (
	"errors"
	"time"
)

// ErrEarningNotFound は収益レコードが見つからない場合のエラー
var ErrEarningNotFound = errors.New("収益レコードが見つかりません")

// Status は収益レコードの支払い状態を表す
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// OwnerEarning は確定予約1件に対するオーナー収益の分配レコード
// OwnerAmount + PlatformCommission = 予約のPriceAmount が常に成り立つ
type OwnerEarning struct {
	ID                 string
	BookingID          string
	ScreenOwnerID      string
	ScreenID           string
	OwnerAmount        int64
	PlatformCommission int64
	WeekStart          time.Time // その週の月曜日
	WeekEnd            time.Time // その週の日曜日
	Status             Status
	CreatedAt          time.Time
}

// WeekWindowOf は日付を含む週の月曜〜日曜を返す
func WeekWindowOf(t time.Time) (time.Time, time.Time) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // 日曜は週の末尾
	}
	start := day.AddDate(0, 0, -(weekday - 1))
	end := start.AddDate(0, 0, 6)
	return start, end
}
