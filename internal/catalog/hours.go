package catalog

import (
	"fmt"
	"time"
)

// BusinessHours is one weekday entry. Times are "HH:MM"; a close time at or
// before the open time runs past midnight into the next day.
type BusinessHours struct {
	DayOfWeek time.Weekday `json:"day_of_week"`
	IsOpen    bool         `json:"is_open"`
	OpenTime  string       `json:"open_time"`
	CloseTime string       `json:"close_time"`
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalidBusinessHours, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func (h BusinessHours) window() (open, close int, err error) {
	if open, err = parseClock(h.OpenTime); err != nil {
		return 0, 0, err
	}
	if close, err = parseClock(h.CloseTime); err != nil {
		return 0, 0, err
	}
	return open, close, nil
}

func (h BusinessHours) overnight() bool {
	open, close, err := h.window()
	return err == nil && close <= open
}

// ValidateBusinessHours requires exactly one entry per weekday and parseable
// times on open days.
func ValidateBusinessHours(hours []BusinessHours) error {
	if len(hours) != 7 {
		return fmt.Errorf("%w: want 7 entries, got %d", ErrInvalidBusinessHours, len(hours))
	}
	var seen [7]bool
	for _, h := range hours {
		if h.DayOfWeek < time.Sunday || h.DayOfWeek > time.Saturday {
			return fmt.Errorf("%w: day %d out of range", ErrInvalidBusinessHours, h.DayOfWeek)
		}
		if seen[h.DayOfWeek] {
			return fmt.Errorf("%w: duplicate entry for %s", ErrInvalidBusinessHours, h.DayOfWeek)
		}
		seen[h.DayOfWeek] = true
		if h.IsOpen {
			if _, _, err := h.window(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r Restaurant) hoursFor(day time.Weekday) (BusinessHours, bool) {
	for _, h := range r.BusinessHours {
		if h.DayOfWeek == day {
			return h, true
		}
	}
	return BusinessHours{}, false
}

// IsOpenAt reports whether t falls inside the restaurant's business hours,
// evaluated in t's location. A restaurant without hours is always open.
func (r Restaurant) IsOpenAt(t time.Time) bool {
	if len(r.BusinessHours) == 0 {
		return true
	}
	minute := t.Hour()*60 + t.Minute()

	if today, ok := r.hoursFor(t.Weekday()); ok && today.IsOpen {
		open, close, err := today.window()
		if err == nil {
			if close > open && minute >= open && minute < close {
				return true
			}
			if close <= open && minute >= open {
				return true
			}
		}
	}

	// tail of yesterday's overnight shift
	yesterday, ok := r.hoursFor((t.Weekday() + 6) % 7)
	if ok && yesterday.IsOpen && yesterday.overnight() {
		_, close, _ := yesterday.window()
		if minute < close {
			return true
		}
	}
	return false
}
