package application

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/sanosuguru/go-adslot-booking/internal/domain/booking"
	"github.com/sanosuguru/go-adslot-booking/internal/domain/screen"
)

// TimeRange は空き時間帯を表す
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AvailabilityCacheInterface は空き時間帯キャッシュのインターフェース（モック用）
type AvailabilityCacheInterface interface {
	Get(ctx context.Context, screenID string, date time.Time) ([]byte, error)
	Set(ctx context.Context, screenID string, date time.Time, payload []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, screenID string, days ...time.Time) error
}

// BuildFreeRanges はアクティブ予約の補集合として空き時間帯を計算する
// dateが過去なら空。date=今日ならカーソルはnowから始まる（過去の時間は予約できない）
func BuildFreeRanges(bookings []*booking.Booking, date, now time.Time) []TimeRange {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	free := []TimeRange{}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if dayStart.Before(today) {
		return free // 過去の日付
	}

	cursor := dayStart
	if dayStart.Equal(today) {
		cursor = now
		if !cursor.Before(dayEnd) {
			return free // その日はもう終わっている
		}
	}

	// その日に重なるアクティブ予約だけを開始時刻昇順で走査する
	daily := make([]*booking.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActive() && b.Overlaps(dayStart, dayEnd) {
			daily = append(daily, b)
		}
	}
	sort.Slice(daily, func(i, j int) bool {
		return daily[i].StartAt.Before(daily[j].StartAt)
	})

	for _, b := range daily {
		if b.StartAt.After(cursor) {
			free = append(free, TimeRange{Start: cursor, End: b.StartAt})
		}
		if b.EndAt.After(cursor) {
			cursor = b.EndAt
		}
	}

	if cursor.Before(dayEnd) {
		free = append(free, TimeRange{Start: cursor, End: dayEnd})
	}

	return free
}

// daysCovered は時間帯 [start, end) がまたがる日付（各日の0時）を返す
// キャッシュ無効化の対象日を求めるために使う
func daysCovered(start, end time.Time) []time.Time {
	var days []time.Time
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	last := end.Add(-time.Nanosecond)
	lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, last.Location())
	for !day.After(lastDay) {
		days = append(days, day)
		day = day.Add(24 * time.Hour)
	}
	return days
}

// AvailabilityService はスクリーンの空き時間帯ビューを提供する
type AvailabilityService struct {
	bookingRepo booking.Repository
	screenRepo  screen.Repository
	cache       AvailabilityCacheInterface
	cacheTTL    time.Duration
}

// NewAvailabilityService は新しいAvailabilityServiceを作成する
// cacheはnil可（キャッシュなしで動作する）
func NewAvailabilityService(br booking.Repository, sr screen.Repository, cache AvailabilityCacheInterface, cacheTTL time.Duration) *AvailabilityService {
	return &AvailabilityService{bookingRepo: br, screenRepo: sr, cache: cache, cacheTTL: cacheTTL}
}

// FreeRanges はスクリーンの指定日の空き時間帯を開始時刻昇順で返す
func (s *AvailabilityService) FreeRanges(ctx context.Context, screenID string, date time.Time) ([]TimeRange, error) {
	if _, err := s.screenRepo.GetByID(ctx, screenID); err != nil {
		return nil, err
	}

	// キャッシュミスも障害も同じ扱いで再計算にフォールバックする
	if s.cache != nil {
		if payload, err := s.cache.Get(ctx, screenID, date); err == nil {
			var cached []TimeRange
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
		}
	}

	bookings, err := s.bookingRepo.ListActiveByScreen(ctx, screenID)
	if err != nil {
		return nil, err
	}

	free := BuildFreeRanges(bookings, date, time.Now())

	if s.cache != nil {
		if payload, err := json.Marshal(free); err == nil {
			_ = s.cache.Set(ctx, screenID, date, payload, s.cacheTTL)
		}
	}

	return free, nil
}
