// Package nnduration provides JSON-compatible non-negative duration types.
package nnduration

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrNegative indicates the input duration is negative.
var ErrNegative = errors.New("duration cannot be negative")

func parse(input string, unit time.Duration) (uint64, error) {
	if d, e := time.ParseDuration(input); e == nil {
		if d < 0 {
			return 0, ErrNegative
		}
		return uint64(d / unit), nil
	}
	return strconv.ParseUint(input, 10, 64)
}

// Milliseconds is a duration in milliseconds.
// In JSON it is either a non-negative integer or a string recognized by time.ParseDuration.
type Milliseconds uint64

// Duration converts to time.Duration.
func (d Milliseconds) Duration() time.Duration {
	return time.Duration(d) * time.Millisecond
}

// DurationOr converts to time.Duration, substituting dflt if d is zero.
func (d Milliseconds) DurationOr(dflt Milliseconds) time.Duration {
	if d == 0 {
		return dflt.Duration()
	}
	return d.Duration()
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (d *Milliseconds) UnmarshalJSON(p []byte) error {
	value, e := parse(strings.Trim(string(p), `"`), time.Millisecond)
	if e != nil {
		return e
	}
	*d = Milliseconds(value)
	return nil
}
