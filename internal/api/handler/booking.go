package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-adslot-booking/internal/api"
	"github.com/sanosuguru/go-adslot-booking/internal/application"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/booking"
)

// BookingHandler は広告枠予約のHTTPハンドラー
type BookingHandler struct {
	service BookingServiceInterface
}

// NewBookingHandler はBookingHandlerを作成する
func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

// CreateBookingRequest は予約作成リクエスト
type CreateBookingRequest struct {
	ScreenID  string    `json:"screen_id" validate:"required"`
	ContentID string    `json:"content_id" validate:"required"`
	StartAt   time.Time `json:"start_at" validate:"required"`
	EndAt     time.Time `json:"end_at" validate:"required"`
}

// BookingResponse は予約レスポンス
type BookingResponse struct {
	ID           string     `json:"id"`
	Reference    string     `json:"reference"`
	AdvertiserID string     `json:"advertiser_id"`
	ScreenID     string     `json:"screen_id"`
	ContentID    string     `json:"content_id"`
	StartAt      time.Time  `json:"start_at"`
	EndAt        time.Time  `json:"end_at"`
	Status       string     `json:"status"`
	PriceAmount  int64      `json:"price_amount"`
	ExpiresAt    time.Time  `json:"expires_at"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID: b.ID, Reference: b.Reference,
		AdvertiserID: b.AdvertiserID, ScreenID: b.ScreenID, ContentID: b.ContentID,
		StartAt: b.StartAt, EndAt: b.EndAt, Status: string(b.Status),
		PriceAmount: b.PriceAmount, ExpiresAt: b.ExpiresAt,
		ConfirmedAt: b.ConfirmedAt, CreatedAt: b.CreatedAt,
	}
}

// Create は広告枠を仮押さえする（15分間有効）
func (h *BookingHandler) Create(c echo.Context) error {
	advertiserID := c.Request().Header.Get("X-Advertiser-ID")
	if advertiserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "広告主IDが必要です")
	}
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		AdvertiserID: advertiserID,
		ScreenID:     req.ScreenID,
		ContentID:    req.ContentID,
		StartAt:      req.StartAt,
		EndAt:        req.EndAt,
	})
	if err != nil {
		return echo.NewHTTPError(api.StatusForError(err), err.Error())
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// GetByID は指定IDの予約を取得する
func (h *BookingHandler) GetByID(c echo.Context) error {
	b, err := h.service.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(api.StatusForError(err), err.Error())
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// GetByReference は参照トークンから予約を取得する
func (h *BookingHandler) GetByReference(c echo.Context) error {
	b, err := h.service.GetBookingByReference(c.Request().Context(), c.Param("reference"))
	if err != nil {
		return echo.NewHTTPError(api.StatusForError(err), err.Error())
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// GetAdvertiserBookings は広告主自身の予約一覧を取得する
func (h *BookingHandler) GetAdvertiserBookings(c echo.Context) error {
	advertiserID := c.Request().Header.Get("X-Advertiser-ID")
	if advertiserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "広告主IDが必要です")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	bookings, err := h.service.GetAdvertiserBookings(c.Request().Context(), advertiserID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return c.JSON(http.StatusOK, resp)
}

// Cancel は予約をキャンセルし、時間帯を解放する
func (h *BookingHandler) Cancel(c echo.Context) error {
	b, err := h.service.CancelBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(api.StatusForError(err), err.Error())
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}
