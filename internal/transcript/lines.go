package transcript

import (
	"iter"
	"strings"
)

// Lines is a lazy cursor over the classified lines of a transcript body.
// Lines end with \n or \r\n; the terminator of the final line is optional.
type Lines struct {
	rest string
}

// Next classifies and returns the next line.
func (l *Lines) Next() (Line, bool) {
	if l.rest == "" {
		return nil, false
	}
	text, rest, found := strings.Cut(l.rest, "\n")
	if found {
		text = strings.TrimSuffix(text, "\r")
	}
	l.rest = rest
	return ParseLine(text), true
}

// Last classifies and returns the final line without visiting the others.
// It does not advance the cursor.
func (l *Lines) Last() (Line, bool) {
	if l.rest == "" {
		return nil, false
	}
	body := l.rest
	if trimmed, ok := strings.CutSuffix(body, "\n"); ok {
		body = strings.TrimSuffix(trimmed, "\r")
	}
	return ParseLine(body[strings.LastIndexByte(body, '\n')+1:]), true
}

// All yields the remaining lines.
func (l *Lines) All() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for {
			line, ok := l.Next()
			if !ok || !yield(line) {
				return
			}
		}
	}
}
