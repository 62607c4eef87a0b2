// Package queue はメッセージブローカー経由でやり取りするイベントを定義する
package queue

// BookingConfirmedEvent は予約確定時に発行されるイベント
// 下流（通知・請求・分析）がDBを参照せずに処理できる情報を含める
type BookingConfirmedEvent struct {
	BookingID     string `json:"booking_id"`
	Reference     string `json:"reference"`
	AdvertiserID  string `json:"advertiser_id"`
	ScreenID      string `json:"screen_id"`
	ScreenOwnerID string `json:"screen_owner_id"`
	StartAt       string `json:"start_at"`
	EndAt         string `json:"end_at"`
	PriceAmount   int64  `json:"price_amount"`
	ConfirmedAt   string `json:"confirmed_at"`
}
