package content

import "time"

// Status は広告コンテンツの審査状態を表す
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Content は広告コンテンツエンティティを表す
// 審査（モデレーション）の中身は外部の責務で、予約エンジンは状態だけを見る
type Content struct {
	ID           string
	AdvertiserID string
	Title        string
	MediaURL     string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsApproved は予約に使える状態かを返す
func (c *Content) IsApproved() bool {
	return c.Status == StatusApproved
}

// IsOwnedBy は指定の広告主のコンテンツかを返す
func (c *Content) IsOwnedBy(advertiserID string) bool {
	return c.AdvertiserID == advertiserID
}
