package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
)

func TestBuildCalendarGrid(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantPad   int
		wantDays  int
		wantTotal int
	}{
		{name: "February leap year", year: 2024, month: 1, wantPad: 4, wantDays: 29, wantTotal: 33},
		{name: "February common year", year: 2023, month: 1, wantPad: 3, wantDays: 28, wantTotal: 31},
		{name: "September 2024 starts on Sunday", year: 2024, month: 8, wantPad: 0, wantDays: 30, wantTotal: 30},
		{name: "December 2024", year: 2024, month: 11, wantPad: 0, wantDays: 31, wantTotal: 31},
		{name: "June 2024 starts on Saturday", year: 2024, month: 5, wantPad: 6, wantDays: 30, wantTotal: 36},
		{name: "Century non-leap 1900", year: 1900, month: 1, wantPad: 4, wantDays: 28, wantTotal: 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := domain.BuildCalendarGrid(tt.year, tt.month)

			require.Len(t, cells, tt.wantTotal)

			for i := 0; i < tt.wantPad; i++ {
				assert.True(t, cells[i].IsPadding(), "cell %d should be padding", i)
			}
			for i := 0; i < tt.wantDays; i++ {
				assert.Equal(t, domain.DayCell(i+1), cells[tt.wantPad+i])
			}
			assert.Equal(t, tt.wantDays, domain.DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestBuildCalendarGrid_PadMatchesWeekdayOfFirst(t *testing.T) {
	for year := 2020; year <= 2028; year++ {
		for month := 0; month < 12; month++ {
			first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
			cells := domain.BuildCalendarGrid(year, month)

			pad := 0
			for pad < len(cells) && cells[pad].IsPadding() {
				pad++
			}
			assert.Equal(t, int(first.Weekday()), pad, "%d-%02d", year, month+1)
			assert.Equal(t, domain.DayCell(1), cells[pad])
		}
	}
}

func TestDayCell_MarshalJSON(t *testing.T) {
	cells := domain.BuildCalendarGrid(2024, 1)

	data, err := json.Marshal(cells[:6])
	require.NoError(t, err)

	assert.JSONEq(t, `[null,null,null,null,1,2]`, string(data))
}
