package timestamp

type text interface {
	~string | ~[]byte
}

// Match is a timestamp found in a larger buffer.
type Match struct {
	// Offset of the leading # in the buffer.
	Offset    int
	Timestamp Timestamp
}

// Extract finds all timestamps in buf from left to right. After a match
// the scan continues behind it, so matches never overlap.
func Extract[T text](buf T) []Match {
	var matches []Match
	for off := 0; off < len(buf); {
		if t, n, ok := parseAt(buf, off); ok {
			matches = append(matches, Match{Offset: off, Timestamp: t})
			off += n
			continue
		}
		off++
	}
	return matches
}

// Last returns the timestamp starting at the rightmost offset of buf.
func Last[T text](buf T) (Timestamp, bool) {
	for off := len(buf) - 1; off >= 0; off-- {
		if t, _, ok := parseAt(buf, off); ok {
			return t, true
		}
	}
	return Timestamp{}, false
}

// Contains reports whether buf contains at least one timestamp.
func Contains[T text](buf T) bool {
	for off := range len(buf) {
		if _, _, ok := parseAt(buf, off); ok {
			return true
		}
	}
	return false
}

// parseAt parses within a window of MaxLen bytes starting at off.
func parseAt[T text](buf T, off int) (Timestamp, int, bool) {
	if buf[off] != '#' {
		return Timestamp{}, 0, false
	}
	end := min(off+MaxLen, len(buf))
	return parsePrefix(buf[off:end])
}

// parsePrefix parses a timestamp at the start of b and returns it with
// the number of bytes consumed. Trailing bytes are ignored.
func parsePrefix[T text](b T) (Timestamp, int, bool) {
	p := parser[T]{b: b}
	var t Timestamp
	ok := p.expect('#') &&
		p.number(&t.hours, &t.hoursLen, maxHoursLen, MaxHours) &&
		p.expect(':') &&
		p.number(&t.minutes, &t.minutesLen, maxMinutesLen, maxMinutes) &&
		p.expect(':') &&
		p.number(&t.seconds, &t.secondsLen, maxSecondsLen, maxSeconds) &&
		p.expect('-')
	if !ok {
		return Timestamp{}, 0, false
	}
	var subsecsLen int
	if !p.number(&t.subsecs, &subsecsLen, 1, maxSubsecs) || !p.expect('#') {
		return Timestamp{}, 0, false
	}
	return t, p.pos, true
}

type parser[T text] struct {
	b   T
	pos int
}

func (p *parser[T]) expect(c byte) bool {
	if p.pos >= len(p.b) || p.b[p.pos] != c {
		return false
	}
	p.pos++
	return true
}

// number consumes a run of at least one digit. The run fails if it is
// longer than maxDigits or its value exceeds limit.
func (p *parser[T]) number(val, digits *int, maxDigits, limit int) bool {
	n, v := 0, 0
	for p.pos < len(p.b) && isDigit(p.b[p.pos]) {
		if n == maxDigits {
			return false
		}
		v = v*10 + int(p.b[p.pos]-'0')
		n++
		p.pos++
	}
	if n == 0 || v > limit {
		return false
	}
	*val, *digits = v, n
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
