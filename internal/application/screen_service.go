package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-adslot-booking/internal/domain/screen"
	"github.com/sanosuguru/go-adslot-booking/internal/pkg/logger"
)

// ScreenService はスクリーン登録の管理サービス
type ScreenService struct {
	screenRepo screen.Repository
}

// NewScreenService は新しいScreenServiceを作成する
func NewScreenService(sr screen.Repository) *ScreenService {
	return &ScreenService{screenRepo: sr}
}

// CreateScreenInput はスクリーン登録の入力
type CreateScreenInput struct {
	Name          string
	Location      string
	OwnerID       string
	PricePerHour  int64
	OwnerBaseRate int64
	ActiveFrom    string
	ActiveTo      string
}

// CreateScreen は新しいスクリーンを登録する
// 稼働時間帯（ActiveFrom/ActiveTo）は省略可能で、省略時は終日稼働とみなす
func (s *ScreenService) CreateScreen(ctx context.Context, input CreateScreenInput) (*screen.Screen, error) {
	scr := &screen.Screen{
		Name:          input.Name,
		Location:      input.Location,
		OwnerID:       input.OwnerID,
		Status:        screen.StatusActive,
		PricePerHour:  input.PricePerHour,
		OwnerBaseRate: input.OwnerBaseRate,
	}

	if input.ActiveFrom != "" {
		from, err := screen.ParseTimeOfDay(input.ActiveFrom)
		if err != nil {
			return nil, err
		}
		scr.ActiveFrom = &from
	}
	if input.ActiveTo != "" {
		to, err := screen.ParseTimeOfDay(input.ActiveTo)
		if err != nil {
			return nil, err
		}
		scr.ActiveTo = &to
	}

	if err := scr.Validate(); err != nil {
		return nil, err
	}
	if err := s.screenRepo.Create(ctx, scr); err != nil {
		return nil, err
	}

	logger.Info("スクリーンを登録",
		zap.String("screen_id", scr.ID),
		zap.String("owner_id", scr.OwnerID),
		zap.Int64("price_per_hour", scr.PricePerHour),
	)
	return scr, nil
}

// GetScreen はIDからスクリーンを取得する
func (s *ScreenService) GetScreen(ctx context.Context, id string) (*screen.Screen, error) {
	return s.screenRepo.GetByID(ctx, id)
}

// ListScreens はスクリーン一覧を取得する
func (s *ScreenService) ListScreens(ctx context.Context, limit, offset int) ([]*screen.Screen, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.screenRepo.List(ctx, limit, offset)
}
