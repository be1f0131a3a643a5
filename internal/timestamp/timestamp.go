// Package timestamp reads, writes and shifts the F4 time notation
// embedded in transcripts, e.g. #00:04:50-3#.
package timestamp

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"time"
)

// MaxLen is the length of the longest possible timestamp, #HHHH:MM:SS-D#.
const MaxLen = len("#0000:00:00-0#")

// MaxHours is the largest hour value accepted when parsing.
const MaxHours = 4095

const (
	maxHoursLen   = 4
	maxMinutesLen = 2
	maxSecondsLen = 2
	maxMinutes    = 59
	maxSeconds    = 59
	maxSubsecs    = 9
)

// ErrMalformed is returned for text that is not exactly one timestamp.
var ErrMalformed = errors.New("not a timestamp")

// Timestamp is an elapsed recording time with one digit of sub-seconds.
//
// Besides the values it remembers how many digits each component occupied
// in the text it was parsed from, so a match can be replaced in place.
// Timestamps created from values or arithmetic carry canonical widths.
type Timestamp struct {
	hours      int
	minutes    int
	seconds    int
	subsecs    int
	hoursLen   int
	minutesLen int
	secondsLen int
}

// New creates a timestamp with canonical digit widths.
// It panics if a component is out of range.
func New(hours, minutes, seconds, subsecs int) Timestamp {
	if hours < 0 {
		panic(fmt.Sprintf("timestamp: hours out of range: %d", hours))
	}
	if minutes < 0 || minutes > maxMinutes {
		panic(fmt.Sprintf("timestamp: minutes out of range: %d", minutes))
	}
	if seconds < 0 || seconds > maxSeconds {
		panic(fmt.Sprintf("timestamp: seconds out of range: %d", seconds))
	}
	if subsecs < 0 || subsecs > maxSubsecs {
		panic(fmt.Sprintf("timestamp: subseconds out of range: %d", subsecs))
	}
	return Timestamp{
		hours:      hours,
		minutes:    minutes,
		seconds:    seconds,
		subsecs:    subsecs,
		hoursLen:   canonicalHoursLen(hours),
		minutesLen: 2,
		secondsLen: 2,
	}
}

// Zero returns #00:00:00-0#.
func Zero() Timestamp {
	return New(0, 0, 0, 0)
}

func canonicalHoursLen(hours int) int {
	if hours < 100 {
		return 2
	}
	n := 0
	for ; hours > 0; hours /= 10 {
		n++
	}
	return n
}

// Parse parses s, which must consist of exactly one timestamp.
func Parse(s string) (Timestamp, error) {
	t, n, ok := parsePrefix(s)
	if !ok || n != len(s) {
		return Timestamp{}, fmt.Errorf("%q: %w", s, ErrMalformed)
	}
	return t, nil
}

func (t Timestamp) Hours() int   { return t.hours }
func (t Timestamp) Minutes() int { return t.minutes }
func (t Timestamp) Seconds() int { return t.seconds }
func (t Timestamp) Subsecs() int { return t.subsecs }

// Len is the number of bytes the timestamp occupied in its source text.
// For timestamps that were not parsed, it is the length of String().
func (t Timestamp) Len() int {
	// # : : - D #
	return 6 + t.hoursLen + t.minutesLen + t.secondsLen
}

// Canonical drops the digit widths remembered from parsing.
func (t Timestamp) Canonical() Timestamp {
	return New(t.hours, t.minutes, t.seconds, t.subsecs)
}

// IsZero reports whether all components are zero.
func (t Timestamp) IsZero() bool {
	return t.hours == 0 && t.minutes == 0 && t.seconds == 0 && t.subsecs == 0
}

// Compare orders timestamps by value, ignoring digit widths.
func (t Timestamp) Compare(u Timestamp) int {
	if c := cmp.Compare(t.hours, u.hours); c != 0 {
		return c
	}
	if c := cmp.Compare(t.minutes, u.minutes); c != 0 {
		return c
	}
	if c := cmp.Compare(t.seconds, u.seconds); c != 0 {
		return c
	}
	return cmp.Compare(t.subsecs, u.subsecs)
}

// Duration converts the timestamp into a time.Duration.
func (t Timestamp) Duration() time.Duration {
	return time.Duration(t.hours)*time.Hour +
		time.Duration(t.minutes)*time.Minute +
		time.Duration(t.seconds)*time.Second +
		time.Duration(t.subsecs)*100*time.Millisecond
}

// String formats the timestamp canonically, e.g. #01:02:03-4#.
func (t Timestamp) String() string {
	return fmt.Sprintf("#%02d:%02d:%02d-%d#", t.hours, t.minutes, t.seconds, t.subsecs)
}

// Add sums two timestamps component-wise. Sub-seconds carry into seconds
// at ten, seconds and minutes carry at sixty, hours are not bounded.
func (t Timestamp) Add(u Timestamp) Timestamp {
	subsecs, carry := carryingAdd(t.subsecs, u.subsecs, 10)
	seconds, carry := carryingAdd(carry+t.seconds, u.seconds, 60)
	minutes, carry := carryingAdd(carry+t.minutes, u.minutes, 60)
	return New(carry+t.hours+u.hours, minutes, seconds, subsecs)
}

func carryingAdd(a, b, wrapAt int) (int, int) {
	sum := a + b
	return sum % wrapAt, sum / wrapAt
}

// RoundUp rounds up at the most significant non-zero unit and zeroes
// everything below it. Applied to the last timestamp of a segment it
// estimates the segment's length. Anything below one minute rounds up to
// a full minute, sub-seconds alone round down to zero.
func (t Timestamp) RoundUp() Timestamp {
	switch {
	case t.hours > 0:
		if t.minutes == 0 && t.seconds == 0 && t.subsecs == 0 {
			return t
		}
		return New(t.hours+1, 0, 0, 0)
	case t.minutes > 0:
		if t.seconds == 0 && t.subsecs == 0 {
			return t
		}
		if t.minutes == maxMinutes {
			return New(1, 0, 0, 0)
		}
		return New(0, t.minutes+1, 0, 0)
	case t.seconds > 0:
		return New(0, 1, 0, 0)
	default:
		return Zero()
	}
}

// Rewrite copies text to w and replaces every timestamp in it with the
// timestamp shifted by shift. It returns the last timestamp written, if any.
func Rewrite(w io.Writer, text string, shift Timestamp) (last Timestamp, found bool, err error) {
	from := 0
	for _, m := range Extract(text) {
		if _, err = io.WriteString(w, text[from:m.Offset]); err != nil {
			return last, found, err
		}
		last, found = m.Timestamp.Add(shift), true
		if _, err = io.WriteString(w, last.String()); err != nil {
			return last, found, err
		}
		from = m.Offset + m.Timestamp.Len()
	}
	_, err = io.WriteString(w, text[from:])
	return last, found, err
}
