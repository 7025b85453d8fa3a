package spatial

import (
	"strings"
	"time"
)

// Time band names. Bands bucket the local hour of day; boundary hours belong
// to the later band (hour 12 is afternoon, hour 17 is evening).
const (
	BandMorning      = "morning"   // [5, 12)
	BandAfternoon    = "afternoon" // [12, 17)
	BandEvening      = "evening"   // [17, 21)
	BandNight        = "night"     // [21, 24)
	BandMidnight     = "midnight"  // [0, 5)
	BandUndetermined = "undetermined"
)

// Bands lists every real time band in day order.
var Bands = []string{BandMidnight, BandMorning, BandAfternoon, BandEvening, BandNight}

// TimeBandForTimestamp buckets a unix timestamp (seconds) into a time band
// using the local hour of day.
func TimeBandForTimestamp(ts int64) string {
	hour := time.Unix(ts, 0).Hour()
	switch {
	case hour >= 5 && hour < 12:
		return BandMorning
	case hour >= 12 && hour < 17:
		return BandAfternoon
	case hour >= 17 && hour < 21:
		return BandEvening
	case hour >= 21:
		return BandNight
	default:
		return BandMidnight
	}
}

// NormalizeBand lowercases a band parameter and collapses the wildcard
// spellings ("", "all", "overall") to the empty string, meaning no filter.
func NormalizeBand(raw string) string {
	b := strings.ToLower(strings.TrimSpace(raw))
	if b == "all" || b == "overall" {
		return ""
	}
	return b
}

// IsValidBand reports whether name is one of the five real bands.
func IsValidBand(name string) bool {
	for _, b := range Bands {
		if b == name {
			return true
		}
	}
	return false
}
