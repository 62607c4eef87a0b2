package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-adslot-booking/internal/api"
)

// PaymentHandler は決済コールバックのHTTPハンドラー
// ゲートウェイからの通知を受けて予約を確定する
type PaymentHandler struct {
	service BookingServiceInterface
}

// NewPaymentHandler はPaymentHandlerを作成する
func NewPaymentHandler(s BookingServiceInterface) *PaymentHandler {
	return &PaymentHandler{service: s}
}

// ConfirmPaymentRequest は決済成功通知リクエスト
type ConfirmPaymentRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
}

// Confirm は決済成功を受けて予約を確定する
// ゲートウェイは同一通知を重複配送しうるため、この操作はべき等
func (h *PaymentHandler) Confirm(c echo.Context) error {
	var req ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.service.ConfirmBooking(c.Request().Context(), req.BookingID)
	if err != nil {
		return echo.NewHTTPError(api.StatusForError(err), err.Error())
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}
