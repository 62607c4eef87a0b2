package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-adslot-booking/internal/domain/earnings"
)

// EarningsHandler はオーナー収益参照のHTTPハンドラー
type EarningsHandler struct {
	query EarningsQueryInterface
}

// NewEarningsHandler はEarningsHandlerを作成する
func NewEarningsHandler(q EarningsQueryInterface) *EarningsHandler {
	return &EarningsHandler{query: q}
}

// EarningResponse はオーナー収益のレスポンス
type EarningResponse struct {
	ID                 string    `json:"id"`
	BookingID          string    `json:"booking_id"`
	ScreenID           string    `json:"screen_id"`
	OwnerAmount        int64     `json:"owner_amount"`
	PlatformCommission int64     `json:"platform_commission"`
	WeekStart          time.Time `json:"week_start"`
	WeekEnd            time.Time `json:"week_end"`
	Status             string    `json:"status"`
}

func toEarningResponse(e *earnings.OwnerEarning) EarningResponse {
	return EarningResponse{
		ID: e.ID, BookingID: e.BookingID, ScreenID: e.ScreenID,
		OwnerAmount: e.OwnerAmount, PlatformCommission: e.PlatformCommission,
		WeekStart: e.WeekStart, WeekEnd: e.WeekEnd, Status: string(e.Status),
	}
}

// ListByOwner はオーナー自身の収益レコード一覧を取得する
func (h *EarningsHandler) ListByOwner(c echo.Context) error {
	ownerID := c.Request().Header.Get("X-Owner-ID")
	if ownerID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "オーナーIDが必要です")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	list, err := h.query.ListByOwner(c.Request().Context(), ownerID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]EarningResponse, len(list))
	for i, e := range list {
		resp[i] = toEarningResponse(e)
	}
	return c.JSON(http.StatusOK, resp)
}
