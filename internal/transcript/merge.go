package transcript

import (
	"errors"
	"io"
	"iter"
	"strings"

	"github.com/fossabot/f4tapir/internal/timestamp"
)

// ErrClosed is returned when adding to a closed Merger.
var ErrClosed = errors.New("merger closed")

// Stats summarizes a merge.
type Stats struct {
	// Transcripts is the number of transcripts added.
	Transcripts int
	// Lines is the number of lines written, spliced lines count once.
	Lines int
	// Splices counts utterances joined onto the last line of the
	// previous transcript.
	Splices int
	// Length is the sum of all transcript end times.
	Length timestamp.Timestamp
}

// Merger writes transcripts added one after the other as one transcript.
//
// The timestamps of each transcript are shifted by the end times of all
// transcripts before it. The last line of a transcript is held back
// until the next one is added: if both that line and the first line of
// the next transcript are utterances of the same speaker, the speech of
// the latter is appended to the former instead of repeating the speaker.
//
// Only the held back line references the previous transcript, so no more
// than two transcripts need to be in memory at any time.
type Merger struct {
	w        io.Writer
	started  bool
	closed   bool
	epilogue string
	// shift for the next transcript
	shift   timestamp.Timestamp
	pending *pendingLine
	stats   Stats
	err     error
}

// pendingLine is a line that has been read but not written yet, with the
// speech of following utterances joined onto it.
type pendingLine struct {
	line   Line
	shift  timestamp.Timestamp
	joined []speechSpan
}

// NewMerger creates a Merger writing to w.
func NewMerger(w io.Writer) *Merger {
	return &Merger{w: w, shift: timestamp.Zero()}
}

// Merge writes all transcripts to w as one. It writes nothing if there
// are no transcripts.
func Merge(w io.Writer, transcripts iter.Seq[*Transcript]) (Stats, error) {
	m := NewMerger(w)
	for t := range transcripts {
		if err := m.Add(t); err != nil {
			return m.Stats(), err
		}
	}
	return m.Close()
}

// Add writes everything but the last line of t. The preamble of the
// first transcript is written before its content.
func (m *Merger) Add(t *Transcript) error {
	if m.err != nil {
		return m.err
	}
	if m.closed {
		return ErrClosed
	}
	if !m.started {
		m.started = true
		m.epilogue = t.Epilogue()
		if _, err := io.WriteString(m.w, t.Preamble()); err != nil {
			return m.fail(err)
		}
	}

	shift := m.shift
	m.shift = shift.Add(t.EndTime())
	m.stats.Transcripts++

	lines := t.Lines()
	first, ok := lines.Next()
	if !ok {
		// nothing to join with, the next transcript starts afresh
		return m.flush()
	}
	if !m.join(first, shift) {
		if err := m.flush(); err != nil {
			return err
		}
		m.pending = &pendingLine{line: first, shift: shift}
	}
	for line := range lines.All() {
		if err := m.flush(); err != nil {
			return err
		}
		m.pending = &pendingLine{line: line, shift: shift}
	}
	return nil
}

// Close writes the held back line and the epilogue. If nothing was
// added, nothing is written.
func (m *Merger) Close() (Stats, error) {
	if m.err != nil || m.closed {
		return m.Stats(), m.err
	}
	m.closed = true
	if !m.started {
		return m.Stats(), nil
	}
	if err := m.flush(); err != nil {
		return m.Stats(), err
	}
	if _, err := io.WriteString(m.w, m.epilogue); err != nil {
		return m.Stats(), m.fail(err)
	}
	return m.Stats(), nil
}

// Stats reports progress so far.
func (m *Merger) Stats() Stats {
	s := m.stats
	s.Length = m.shift
	return s
}

// join appends the speech of first to the held back line if both are
// utterances of the same speaker. The speech is copied so the transcript
// of first can be released.
func (m *Merger) join(first Line, shift timestamp.Timestamp) bool {
	if m.pending == nil || !SameSpeaker(m.pending.line, first) {
		return false
	}
	next := first.(*Utterance)
	m.pending.joined = append(m.pending.joined, speechSpan{text: strings.Clone(next.Speech()), shift: shift})
	m.stats.Splices++
	return true
}

// SameSpeaker reports whether both lines are utterances of the same
// speaker, i.e. whether b would be spliced onto a at a transcript boundary.
func SameSpeaker(a, b Line) bool {
	ua, ok := a.(*Utterance)
	if !ok {
		return false
	}
	ub, ok := b.(*Utterance)
	return ok && ua.Speaker() == ub.Speaker()
}

// flush writes the held back line, if any.
func (m *Merger) flush() error {
	p := m.pending
	if p == nil {
		return nil
	}
	m.pending = nil

	var err error
	if u, ok := p.line.(*Utterance); ok && len(p.joined) > 0 {
		spans := append([]speechSpan{{text: u.Speech(), shift: p.shift}}, p.joined...)
		err = u.writeSpliced(m.w, spans)
	} else {
		err = p.line.WriteShifted(m.w, p.shift)
	}
	if err != nil {
		return m.fail(err)
	}
	m.stats.Lines++
	return nil
}

func (m *Merger) fail(err error) error {
	m.err = err
	return err
}
