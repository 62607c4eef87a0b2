package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-adslot-booking/internal/api"
	"github.com/sanosuguru/go-adslot-booking/internal/application"
)

// AvailabilityHandler は空き時間帯照会のHTTPハンドラー
type AvailabilityHandler struct {
	service AvailabilityServiceInterface
}

// NewAvailabilityHandler はAvailabilityHandlerを作成する
func NewAvailabilityHandler(s AvailabilityServiceInterface) *AvailabilityHandler {
	return &AvailabilityHandler{service: s}
}

// FreeRangeResponse は空き時間帯のレスポンス
type FreeRangeResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AvailabilityResponse は指定日の空き時間帯一覧
type AvailabilityResponse struct {
	ScreenID   string              `json:"screen_id"`
	Date       string              `json:"date"`
	FreeRanges []FreeRangeResponse `json:"free_ranges"`
}

// GetFreeRanges は指定日のスクリーンの空き時間帯を返す
// dateパラメータはYYYY-MM-DD形式（省略時は当日）
func (h *AvailabilityHandler) GetFreeRanges(c echo.Context) error {
	screenID := c.Param("id")

	dateStr := c.QueryParam("date")
	var date time.Time
	if dateStr == "" {
		date = time.Now()
	} else {
		var err error
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "日付はYYYY-MM-DD形式で指定してください")
		}
	}

	ranges, err := h.service.FreeRanges(c.Request().Context(), screenID, date)
	if err != nil {
		return echo.NewHTTPError(api.StatusForError(err), err.Error())
	}

	resp := AvailabilityResponse{
		ScreenID:   screenID,
		Date:       date.Format("2006-01-02"),
		FreeRanges: make([]FreeRangeResponse, len(ranges)),
	}
	for i, r := range ranges {
		resp.FreeRanges[i] = toFreeRangeResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

func toFreeRangeResponse(r application.TimeRange) FreeRangeResponse {
	return FreeRangeResponse{Start: r.Start, End: r.End}
}
