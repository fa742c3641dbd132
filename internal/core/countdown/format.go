package countdown

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"waxytimer/internal/core/model"
)

// QuantizeSeconds rounds away from zero so that a partially elapsed second
// still shows as the full second.
func QuantizeSeconds(remaining time.Duration) int {
	seconds := remaining.Seconds()
	switch {
	case seconds > 0:
		return int(math.Ceil(seconds))
	case seconds < 0:
		return -int(math.Ceil(math.Abs(seconds)))
	default:
		return 0
	}
}

// Format renders remaining time for a countdown of the given length and
// returns the text together with the number of display cells it needs.
func Format(remaining, length time.Duration) (string, int) {
	negative := remaining < 0
	seconds := QuantizeSeconds(remaining)
	if seconds < 0 {
		seconds = -seconds
	}

	if length < model.SecondsDisplayLimit {
		text := strconv.Itoa(seconds)
		if negative {
			text = "-" + text
		}
		return text, max(3, len(text))
	}

	text := fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
	if negative {
		return "-" + text, 6
	}
	return text, 5
}
