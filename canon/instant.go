package canon

import "time"

// Wire markers for the backend's tagged instant tuples: ["d", seconds] for
// dates, ["D", seconds, zone] for date-times.
const (
	dateMarker     = "d"
	dateTimeMarker = "D"
)

// instantLayouts are the ISO-8601 shapes the backend emits, most specific
// first. Go accepts a fractional second after the seconds element whether or
// not the layout declares one. Layouts without a zone are read as UTC.
var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// canonicalInstant reduces an instant to epoch seconds as a float64. A bare
// number is already epoch seconds; an ISO-8601 string is parsed; a tagged
// tuple carries the seconds in its second slot, and the zone label of a
// date-time tuple is dropped because it does not move the instant. Values
// that match none of these pass through so a genuine divergence still
// surfaces as one.
func canonicalInstant(value any) any {
	if f, ok := toFloat64(value); ok {
		return f
	}
	if s, ok := value.(string); ok {
		if f, ok := parseInstant(s); ok {
			return f
		}
		return s
	}
	if seq, ok := sequence(value); ok {
		if len(seq) >= 2 {
			if tag, ok := seq[0].(string); ok && (tag == dateMarker || tag == dateTimeMarker) {
				if f, ok := toFloat64(seq[1]); ok {
					return f
				}
			}
		}
		return normalize(value)
	}
	return value
}

// parseInstant tries each known layout in order and converts the first match
// to epoch seconds.
func parseInstant(s string) (float64, bool) {
	for _, layout := range instantLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return float64(t.Unix()) + float64(t.Nanosecond())/1e9, true
	}
	return 0, false
}
