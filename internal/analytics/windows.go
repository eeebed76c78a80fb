package analytics

import "time"

const (
	hourSeconds = 3600
	daySeconds  = 86400
	yearDays    = 365
)

// Windows are the aligned timestamp boundaries of one request, all in unix
// seconds. They are derived once per request from a single "now" sample and
// threaded through every sub-computation, so boundaries cannot drift while
// a slow request is in flight.
type Windows struct {
	Now        int64 // current time
	HourFloor  int64 // start of the current hour
	DayFloor   int64 // start of the current day
	Minus48H   int64 // HourFloor - 48h
	Minus24H   int64 // HourFloor - 24h
	Minus7D    int64 // HourFloor - 7d
	Minus1Y    int64 // HourFloor - 365d
	DayMinus1Y int64 // DayFloor - 365d
}

// WindowsAt derives all boundaries from the given instant.
func WindowsAt(now time.Time) Windows {
	sec := now.Unix()
	hourFloor := sec / hourSeconds * hourSeconds
	dayFloor := sec / daySeconds * daySeconds

	return Windows{
		Now:        sec,
		HourFloor:  hourFloor,
		DayFloor:   dayFloor,
		Minus48H:   hourFloor - 48*hourSeconds,
		Minus24H:   hourFloor - 24*hourSeconds,
		Minus7D:    hourFloor - 7*daySeconds,
		Minus1Y:    hourFloor - yearDays*daySeconds,
		DayMinus1Y: dayFloor - yearDays*daySeconds,
	}
}
