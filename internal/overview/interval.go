package overview

import "fmt"

const (
	minute = 60
	hour   = 60 * minute
	day    = 24 * hour
	week   = 7 * day
	month  = 30 * day
)

// FormatInterval renders an order interval in its largest whole unit,
// e.g. "90 seconds" -> "1 minute", "1209600" -> "2 weeks".
func FormatInterval(seconds uint64) string {
	switch {
	case seconds < minute:
		return plural(seconds, "second")
	case seconds < hour:
		return plural(seconds/minute, "minute")
	case seconds < day:
		return plural(seconds/hour, "hour")
	case seconds < week:
		return plural(seconds/day, "day")
	case seconds < month:
		return plural(seconds/week, "week")
	default:
		return plural(seconds/month, "month")
	}
}

func plural(n uint64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
