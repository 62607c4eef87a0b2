package content

import "errors"

// Content ドメインのエラー定義
var (
	ErrContentNotFound    = errors.New("コンテンツが見つかりません")
	ErrContentNotOwned    = errors.New("自分のコンテンツ以外では予約できません")
	ErrContentNotApproved = errors.New("承認済みのコンテンツのみ予約に使用できます")
)
