package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/sanosuguru/go-adslot-booking/internal/domain/booking"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/content"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/screen"
)

func TestCustomHTTPErrorHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = CustomHTTPErrorHandler

	t.Run("HTTPErrorのコードとメッセージを返す", func(t *testing.T) {
		e.GET("/bad", func(c echo.Context) error {
			return echo.NewHTTPError(http.StatusBadRequest, "不正なリクエスト")
		})

		req := httptest.NewRequest(http.MethodGet, "/bad", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "不正なリクエスト")
	})

	t.Run("未知のエラーは500を返す", func(t *testing.T) {
		e.GET("/boom", func(c echo.Context) error {
			return errors.New("unexpected")
		})

		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "内部サーバーエラー")
	})
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"予約が見つからない", booking.ErrBookingNotFound, http.StatusNotFound},
		{"スクリーンが見つからない", screen.ErrScreenNotFound, http.StatusNotFound},
		{"コンテンツが見つからない", content.ErrContentNotFound, http.StatusNotFound},
		{"時間帯の重複", booking.ErrSlotConflict, http.StatusConflict},
		{"失効中にスロットが取られた", booking.ErrSlotTaken, http.StatusConflict},
		{"スクリーンロック競合", booking.ErrScreenBusy, http.StatusConflict},
		{"参照トークンの重複", booking.ErrReferenceAlreadyExists, http.StatusConflict},
		{"キャンセル済み", booking.ErrBookingCancelled, http.StatusUnprocessableEntity},
		{"失効済み", booking.ErrBookingExpired, http.StatusUnprocessableEntity},
		{"二重キャンセル", booking.ErrAlreadyCancelled, http.StatusUnprocessableEntity},
		{"不正な状態遷移", booking.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"他人のコンテンツ", content.ErrContentNotOwned, http.StatusForbidden},
		{"開始時刻が過去", booking.ErrStartInPast, http.StatusBadRequest},
		{"終了が開始以前", booking.ErrEndNotAfterStart, http.StatusBadRequest},
		{"予約時間が短すぎる", booking.ErrDurationTooShort, http.StatusBadRequest},
		{"稼働時間外", booking.ErrOutsideOperatingTime, http.StatusBadRequest},
		{"非アクティブなスクリーン", screen.ErrScreenNotActive, http.StatusBadRequest},
		{"未承認コンテンツ", content.ErrContentNotApproved, http.StatusBadRequest},
		{"未知のエラー", errors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForError(tt.err))
		})
	}
}

func TestStatusForError_WrappedError(t *testing.T) {
	// ラップされたエラーも分類できる
	wrapped := errors.Join(errors.New("予約作成に失敗"), booking.ErrSlotConflict)
	assert.Equal(t, http.StatusConflict, StatusForError(wrapped))
}

func TestCustomValidator(t *testing.T) {
	v := NewValidator()

	type sample struct {
		Name string `validate:"required"`
	}

	t.Run("バリデーション成功", func(t *testing.T) {
		err := v.Validate(&sample{Name: "ok"})
		assert.NoError(t, err)
	})

	t.Run("バリデーション失敗で400", func(t *testing.T) {
		err := v.Validate(&sample{})
		assert.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}
