package earnings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekWindowOf(t *testing.T) {
	tests := []struct {
		name      string
		input     time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "水曜日",
			input:     time.Date(2026, 9, 2, 15, 30, 0, 0, time.UTC),
			wantStart: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "月曜日自身が週の開始",
			input:     time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "日曜日は週の末尾",
			input:     time.Date(2026, 9, 6, 23, 59, 0, 0, time.UTC),
			wantStart: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "月をまたぐ週",
			input:     time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC), // 木曜
			wantStart: time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekWindowOf(tt.input)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
			assert.Equal(t, time.Monday, start.Weekday())
			assert.Equal(t, time.Sunday, end.Weekday())
		})
	}
}
