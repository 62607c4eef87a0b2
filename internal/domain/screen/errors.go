package screen

import "errors"

// Screen ドメインのエラー定義
var (
	ErrScreenNotFound         = errors.New("スクリーンが見つかりません")
	ErrScreenNotActive        = errors.New("スクリーンは現在予約を受け付けていません")
	ErrScreenNameRequired     = errors.New("スクリーン名は必須です")
	ErrOwnerIDRequired        = errors.New("オーナーIDは必須です")
	ErrInvalidRate            = errors.New("料金レートが不正です")
	ErrInvalidOperatingWindow = errors.New("稼働時間帯が不正です")
)
