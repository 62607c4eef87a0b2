package application

import (
	"math"
	"time"

	"github.com/sanosuguru/go-adslot-booking/internal/domain/screen"
)

// durationHours は時間帯の長さを時間単位（小数）で返す
func durationHours(start, end time.Time) float64 {
	return end.Sub(start).Minutes() / 60.0
}

// AdvertiserPrice は広告主が支払う金額を計算する
// 時間単価 × 時間数（端数時間は線形按分）。結果は作成時にスナップショットされ、以後再計算しない
func AdvertiserPrice(s *screen.Screen, start, end time.Time) int64 {
	return int64(math.Round(float64(s.PricePerHour) * durationHours(start, end)))
}

// OwnerShare はスクリーンオーナーが受け取る金額を計算する
// オーナー単価 × 時間数。広告主価格を超える場合は価格まで切り詰める
// （手数料がマイナスになることはない）
func OwnerShare(s *screen.Screen, start, end time.Time) int64 {
	amount := int64(math.Round(float64(s.OwnerBaseRate) * durationHours(start, end)))
	if price := AdvertiserPrice(s, start, end); amount > price {
		amount = price
	}
	return amount
}
