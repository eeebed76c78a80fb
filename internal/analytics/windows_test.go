package analytics

import (
	"testing"
	"time"
)

func TestWindowsAt(t *testing.T) {
	// 2023-11-15 10:30:45 UTC
	now := time.Date(2023, 11, 15, 10, 30, 45, 0, time.UTC)
	w := WindowsAt(now)

	if w.Now != now.Unix() {
		t.Errorf("Now = %d, want %d", w.Now, now.Unix())
	}

	wantHour := time.Date(2023, 11, 15, 10, 0, 0, 0, time.UTC).Unix()
	if w.HourFloor != wantHour {
		t.Errorf("HourFloor = %d, want %d", w.HourFloor, wantHour)
	}

	wantDay := time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC).Unix()
	if w.DayFloor != wantDay {
		t.Errorf("DayFloor = %d, want %d", w.DayFloor, wantDay)
	}

	if w.Minus48H != wantHour-48*3600 {
		t.Errorf("Minus48H = %d, want %d", w.Minus48H, wantHour-48*3600)
	}
	if w.Minus24H != wantHour-24*3600 {
		t.Errorf("Minus24H = %d, want %d", w.Minus24H, wantHour-24*3600)
	}
	if w.Minus7D != wantHour-7*86400 {
		t.Errorf("Minus7D = %d, want %d", w.Minus7D, wantHour-7*86400)
	}
	if w.Minus1Y != wantHour-365*86400 {
		t.Errorf("Minus1Y = %d, want %d", w.Minus1Y, wantHour-365*86400)
	}
	if w.DayMinus1Y != wantDay-365*86400 {
		t.Errorf("DayMinus1Y = %d, want %d", w.DayMinus1Y, wantDay-365*86400)
	}
}

func TestWindowsAt_AlignedBoundaries(t *testing.T) {
	w := WindowsAt(time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC))

	if w.HourFloor%3600 != 0 {
		t.Errorf("HourFloor %d is not hour-aligned", w.HourFloor)
	}
	if w.DayFloor%86400 != 0 {
		t.Errorf("DayFloor %d is not day-aligned", w.DayFloor)
	}
	if w.HourFloor > w.Now || w.Now-w.HourFloor >= 3600 {
		t.Errorf("HourFloor %d not within the hour of Now %d", w.HourFloor, w.Now)
	}
}
