package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-adslot-booking/internal/domain/booking"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/content"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/screen"
	"github.com/sanosuguru/go-adslot-booking/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code    = http.StatusInternalServerError
		message = "内部サーバーエラー"
	)

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	// エラーログを出力（5xx エラーの場合）
	if code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	// JSONレスポンスを返す
	if err := c.JSON(code, ErrorResponse{
		Error: message,
		Code:  code,
	}); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}

// StatusForError はドメインエラーをHTTPステータスコードに対応付ける
// ハンドラーはこれを使ってドメイン層のエラー分類をAPIに写す
func StatusForError(err error) int {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, screen.ErrScreenNotFound),
		errors.Is(err, content.ErrContentNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrSlotConflict),
		errors.Is(err, booking.ErrSlotTaken),
		errors.Is(err, booking.ErrScreenBusy),
		errors.Is(err, booking.ErrReferenceAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, booking.ErrBookingCancelled),
		errors.Is(err, booking.ErrBookingExpired),
		errors.Is(err, booking.ErrAlreadyCancelled),
		errors.Is(err, booking.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, content.ErrContentNotOwned):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrStartInPast),
		errors.Is(err, booking.ErrEndNotAfterStart),
		errors.Is(err, booking.ErrDurationTooShort),
		errors.Is(err, booking.ErrOutsideOperatingTime),
		errors.Is(err, screen.ErrScreenNotActive),
		errors.Is(err, content.ErrContentNotApproved):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
