package handler

import (
	"context"
	"time"

	"github.com/sanosuguru/go-adslot-booking/internal/application"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/booking"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/earnings"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/screen"
)

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error)
	ConfirmBooking(ctx context.Context, id string) (*booking.Booking, error)
	CancelBooking(ctx context.Context, id string) (*booking.Booking, error)
	GetBooking(ctx context.Context, id string) (*booking.Booking, error)
	GetBookingByReference(ctx context.Context, reference string) (*booking.Booking, error)
	GetAdvertiserBookings(ctx context.Context, advertiserID string, limit, offset int) ([]*booking.Booking, error)
	GetScreenBookings(ctx context.Context, screenID string) ([]*booking.Booking, error)
	ExpireStaleBookings(ctx context.Context, now time.Time) (int, error)
}

// AvailabilityServiceInterface は空き時間帯サービスのインターフェース
type AvailabilityServiceInterface interface {
	FreeRanges(ctx context.Context, screenID string, date time.Time) ([]application.TimeRange, error)
}

// ScreenServiceInterface はスクリーン登録サービスのインターフェース
type ScreenServiceInterface interface {
	CreateScreen(ctx context.Context, input application.CreateScreenInput) (*screen.Screen, error)
	GetScreen(ctx context.Context, id string) (*screen.Screen, error)
	ListScreens(ctx context.Context, limit, offset int) ([]*screen.Screen, error)
}

// EarningsQueryInterface はオーナー収益の参照インターフェース
type EarningsQueryInterface interface {
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*earnings.OwnerEarning, error)
}
