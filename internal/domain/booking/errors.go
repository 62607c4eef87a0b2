package booking

import "errors"

// Booking ドメインのエラー定義
var (
	// 検証エラー（リトライ不可、即時に呼び出し元へ返す）
	ErrStartInPast          = errors.New("開始時刻を過去に指定することはできません")
	ErrEndNotAfterStart     = errors.New("終了時刻は開始時刻より後である必要があります")
	ErrDurationTooShort     = errors.New("予約時間が最低予約時間を下回っています")
	ErrOutsideOperatingTime = errors.New("スクリーンの稼働時間外です")
	ErrAdvertiserIDRequired = errors.New("広告主IDは必須です")
	ErrScreenIDRequired     = errors.New("スクリーンIDは必須です")
	ErrContentIDRequired    = errors.New("コンテンツIDは必須です")
	ErrInvalidPriceAmount   = errors.New("価格が不正です")

	// スロット競合（ビジネスルール上の拒否、検証エラーとは区別する）
	ErrSlotConflict = errors.New("指定の時間帯は既存の予約と重複しています")
	ErrSlotTaken    = errors.New("失効中にスロットが他の予約に取られました。返金手続きが必要です")

	// 状態エラー
	ErrBookingNotFound   = errors.New("予約が見つかりません")
	ErrBookingCancelled  = errors.New("キャンセル済みの予約は確定できません")
	ErrBookingExpired    = errors.New("失効済みの予約です")
	ErrBookingNotHeld    = errors.New("予約は仮押さえ状態ではありません")
	ErrAlreadyConfirmed  = errors.New("予約は既に確定されています")
	ErrAlreadyCancelled  = errors.New("予約は既にキャンセルされています")
	ErrInvalidTransition = errors.New("不正な状態遷移です")

	// 排他制御
	ErrScreenBusy = errors.New("スクリーンが他のリクエストによって処理中です")

	ErrReferenceAlreadyExists = errors.New("同じ参照トークンの予約が既に存在します")
)
