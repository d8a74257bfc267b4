package catalog

import (
	"testing"
	"time"

	"delivery-system/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func week(open, close string) []BusinessHours {
	hours := make([]BusinessHours, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours = append(hours, BusinessHours{DayOfWeek: d, IsOpen: true, OpenTime: open, CloseTime: close})
	}
	return hours
}

// 2025-01-13 is a Monday.
func at(day int, hh, mm int) time.Time {
	return time.Date(2025, 1, day, hh, mm, 0, 0, time.UTC)
}

func TestIsOpenAt(t *testing.T) {
	bella := Restaurant{ID: "rest-1", BusinessHours: week("11:00", "23:00")}
	bella.BusinessHours[time.Monday].IsOpen = false
	bella.BusinessHours[time.Friday].CloseTime = "00:00"
	bella.BusinessHours[time.Saturday].OpenTime = "18:00"
	bella.BusinessHours[time.Saturday].CloseTime = "02:00"

	tests := []struct {
		name string
		t    time.Time
		open bool
	}{
		{"tuesday lunch", at(14, 12, 0), true},
		{"tuesday before open", at(14, 10, 59), false},
		{"tuesday at close", at(14, 23, 0), false},
		{"monday closed", at(13, 12, 0), false},
		{"friday late", at(17, 23, 59), true},
		{"saturday just after midnight from friday", at(18, 0, 0), false},
		{"saturday night", at(18, 23, 30), true},
		{"sunday early tail of saturday", at(19, 1, 59), true},
		{"sunday after tail", at(19, 2, 0), false},
		{"sunday lunch", at(19, 11, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.open, bella.IsOpenAt(tt.t))
		})
	}

	assert.True(t, Restaurant{}.IsOpenAt(at(13, 3, 0)), "no hours means always open")
}

func TestValidateBusinessHours(t *testing.T) {
	assert.NoError(t, ValidateBusinessHours(week("11:00", "23:00")))

	short := week("11:00", "23:00")[:6]
	assert.ErrorIs(t, ValidateBusinessHours(short), ErrInvalidBusinessHours)

	dup := week("11:00", "23:00")
	dup[6].DayOfWeek = time.Monday
	assert.ErrorIs(t, ValidateBusinessHours(dup), ErrInvalidBusinessHours)

	bad := week("11:00", "23:00")
	bad[2].OpenTime = "25:00"
	assert.ErrorIs(t, ValidateBusinessHours(bad), ErrInvalidBusinessHours)

	closedBad := week("11:00", "23:00")
	closedBad[2].IsOpen = false
	closedBad[2].OpenTime = ""
	assert.NoError(t, ValidateBusinessHours(closedBad))
}

func TestSetBusinessHours(t *testing.T) {
	c := fixture(t)
	hours := week("10:00", "22:00")
	hours[0], hours[6] = hours[6], hours[0]

	r, err := c.SetBusinessHours(employee, "rest-1", hours)
	require.NoError(t, err)
	require.Len(t, r.BusinessHours, 7)
	assert.Equal(t, time.Sunday, r.BusinessHours[0].DayOfWeek)

	_, err = c.SetBusinessHours(employee, "rest-2", hours)
	assert.ErrorIs(t, err, auth.ErrPermissionDenied)

	_, err = c.SetBusinessHours(employee, "rest-1", hours[:3])
	assert.ErrorIs(t, err, ErrInvalidBusinessHours)
}
