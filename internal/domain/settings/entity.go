package settings

import (
	"errors"
	"time"
)

// ErrSettingsNotFound はプラットフォーム設定が未初期化の場合のエラー
var ErrSettingsNotFound = errors.New("プラットフォーム設定が見つかりません")

// PlatformSettings はプラットフォーム全体の運用設定を表す
// 手数料率の変更は既存予約のPriceAmountスナップショットには影響しない
type PlatformSettings struct {
	ID                 string
	CommissionPercent  float64
	MinBookingDuration time.Duration
	MaintenanceMode    bool
	UpdatedAt          time.Time
}

// Default はデフォルト設定を返す（手数料25%・最低1時間）
func Default() *PlatformSettings {
	return &PlatformSettings{
		CommissionPercent:  25.0,
		MinBookingDuration: time.Hour,
		MaintenanceMode:    false,
		UpdatedAt:          time.Now(),
	}
}
