package settings

import "context"

// Repository はプラットフォーム設定リポジトリのインターフェース
type Repository interface {
	// Get は現在の設定を取得する（未初期化ならErrSettingsNotFound）
	Get(ctx context.Context) (*PlatformSettings, error)

	// Update は設定を更新する
	Update(ctx context.Context, s *PlatformSettings) error
}
