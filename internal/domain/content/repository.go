package content

import "context"

// Repository はコンテンツリポジトリのインターフェース
type Repository interface {
	// Create は新しいコンテンツを登録する
	Create(ctx context.Context, c *Content) error

	// GetByID はIDからコンテンツを取得する
	GetByID(ctx context.Context, id string) (*Content, error)
}
