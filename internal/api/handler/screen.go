package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-adslot-booking/internal/api"
	"github.com/sanosuguru/go-adslot-booking/internal/application"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/screen"
)

// ScreenHandler はスクリーン登録のHTTPハンドラー
type ScreenHandler struct {
	service        ScreenServiceInterface
	bookingService BookingServiceInterface
}

// NewScreenHandler はScreenHandlerを作成する
func NewScreenHandler(s ScreenServiceInterface, bs BookingServiceInterface) *ScreenHandler {
	return &ScreenHandler{service: s, bookingService: bs}
}

// CreateScreenRequest はスクリーン登録リクエスト
type CreateScreenRequest struct {
	Name          string `json:"name" validate:"required"`
	Location      string `json:"location" validate:"required"`
	OwnerID       string `json:"owner_id" validate:"required"`
	PricePerHour  int64  `json:"price_per_hour" validate:"required,gt=0"`
	OwnerBaseRate int64  `json:"owner_base_rate" validate:"gte=0"`
	ActiveFrom    string `json:"active_from"`
	ActiveTo      string `json:"active_to"`
}

// ScreenResponse はスクリーンレスポンス
type ScreenResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Location      string `json:"location"`
	OwnerID       string `json:"owner_id"`
	Status        string `json:"status"`
	PricePerHour  int64  `json:"price_per_hour"`
	OwnerBaseRate int64  `json:"owner_base_rate"`
	ActiveFrom    string `json:"active_from,omitempty"`
	ActiveTo      string `json:"active_to,omitempty"`
}

func toScreenResponse(s *screen.Screen) ScreenResponse {
	resp := ScreenResponse{
		ID: s.ID, Name: s.Name, Location: s.Location,
		OwnerID: s.OwnerID, Status: string(s.Status),
		PricePerHour: s.PricePerHour, OwnerBaseRate: s.OwnerBaseRate,
	}
	if s.ActiveFrom != nil {
		resp.ActiveFrom = s.ActiveFrom.String()
	}
	if s.ActiveTo != nil {
		resp.ActiveTo = s.ActiveTo.String()
	}
	return resp
}

// Create はスクリーンを登録する
func (h *ScreenHandler) Create(c echo.Context) error {
	var req CreateScreenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	s, err := h.service.CreateScreen(c.Request().Context(), application.CreateScreenInput{
		Name:          req.Name,
		Location:      req.Location,
		OwnerID:       req.OwnerID,
		PricePerHour:  req.PricePerHour,
		OwnerBaseRate: req.OwnerBaseRate,
		ActiveFrom:    req.ActiveFrom,
		ActiveTo:      req.ActiveTo,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toScreenResponse(s))
}

// GetByID は指定IDのスクリーンを取得する
func (h *ScreenHandler) GetByID(c echo.Context) error {
	s, err := h.service.GetScreen(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(api.StatusForError(err), err.Error())
	}
	return c.JSON(http.StatusOK, toScreenResponse(s))
}

// List はスクリーン一覧を取得する
func (h *ScreenHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	screens, err := h.service.ListScreens(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]ScreenResponse, len(screens))
	for i, s := range screens {
		resp[i] = toScreenResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetBookings はスクリーンのアクティブな予約一覧を取得する
// （オーナー・運用者向けの読み取りビュー）
func (h *ScreenHandler) GetBookings(c echo.Context) error {
	bookings, err := h.bookingService.GetScreenBookings(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(api.StatusForError(err), err.Error())
	}
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return c.JSON(http.StatusOK, resp)
}
