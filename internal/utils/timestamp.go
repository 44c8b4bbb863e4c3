package utils

import (
	"encoding/json"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ISOMillis is the canonical output layout: UTC, millisecond precision, Z suffix.
const ISOMillis = "2006-01-02T15:04:05.000Z"

// Bounds of the four-digit-year range an ISO-8601 string can express.
const (
	minEpochSeconds int64 = -62167219200 // 0000-01-01T00:00:00Z
	maxEpochSeconds int64 = 253402300799 // 9999-12-31T23:59:59Z
)

// Timestamp is a store-native timestamp pair: whole seconds since the epoch
// plus a nanosecond remainder.
type Timestamp struct {
	Seconds     int64 `json:"_seconds" bson:"_seconds"`
	Nanoseconds int64 `json:"_nanoseconds" bson:"_nanoseconds"`
}

// NormalizeTimestamp renders a date value as an ISO-8601 string.
//
// Native times (time.Time, *time.Time, primitive.DateTime) keep their
// millisecond precision. Timestamp pairs (Timestamp, primitive.Timestamp, or a
// decoded map carrying "_seconds") are converted from their seconds only.
// Anything that cannot be read as a time yields "".
func NormalizeTimestamp(v any) string {
	switch t := v.(type) {
	case time.Time:
		return formatTime(t)
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatTime(*t)
	case primitive.DateTime:
		return formatTime(t.Time())
	case primitive.Timestamp:
		return formatSeconds(int64(t.T))
	case Timestamp:
		return formatSeconds(t.Seconds)
	case *Timestamp:
		if t == nil {
			return ""
		}
		return formatSeconds(t.Seconds)
	case map[string]any:
		seconds, ok := toSeconds(t["_seconds"])
		if !ok {
			return ""
		}
		return formatSeconds(seconds)
	default:
		return ""
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	if t.Year() < 0 || t.Year() > 9999 {
		return ""
	}
	return t.Format(ISOMillis)
}

func formatSeconds(seconds int64) string {
	if seconds < minEpochSeconds || seconds > maxEpochSeconds {
		return ""
	}
	return time.UnixMilli(seconds * 1000).UTC().Format(ISOMillis)
}

func toSeconds(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int64(f), true
	default:
		return 0, false
	}
}
