package screen

import "context"

// Repository はスクリーンリポジトリのインターフェース
type Repository interface {
	// Create は新しいスクリーンを登録する
	Create(ctx context.Context, s *Screen) error

	// GetByID はIDからスクリーンを取得する
	GetByID(ctx context.Context, id string) (*Screen, error)

	// List はスクリーン一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Screen, error)
}
