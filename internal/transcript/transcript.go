// Package transcript reads F4 interview transcripts and merges several of
// them into one, shifting timestamps and joining utterances of the same
// speaker across file boundaries.
package transcript

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fossabot/f4tapir/internal/timestamp"
)

const (
	// preambleEnd ends the RTF page setup that precedes the content.
	preambleEnd = "\\jexpand\r\n"
	// epilogue closes the document after the content.
	epilogue = "\r\n}"
)

// Transcript is one loaded transcript file. It is immutable.
type Transcript struct {
	preamble string
	content  string
	endTime  timestamp.Timestamp
}

// Load reads and parses the transcript at path.
func Load(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("corrupt transcript %s: %w", path, err)
	}
	return t, nil
}

// Parse splits a complete transcript file into preamble and content and
// estimates its length from the last timestamp.
func Parse(text string) (*Transcript, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidEncoding
	}
	i := strings.Index(text, preambleEnd)
	if i < 0 {
		return nil, ErrMalformedPreamble
	}
	contentStart := i + len(preambleEnd)
	if !strings.HasSuffix(text, epilogue) || len(text)-len(epilogue) < contentStart {
		return nil, ErrMalformedEpilogue
	}
	contentEnd := len(text) - len(epilogue)

	last, ok := timestamp.Last(text)
	if !ok {
		return nil, ErrNoTimestamps
	}
	return &Transcript{
		preamble: text[:contentStart],
		content:  text[contentStart:contentEnd],
		endTime:  last.RoundUp(),
	}, nil
}

// Preamble is everything up to and including \jexpand and its newline.
func (t *Transcript) Preamble() string { return t.preamble }

// Content is the body between preamble and epilogue.
func (t *Transcript) Content() string { return t.content }

// Epilogue closes the document. It is the same for all transcripts.
func (t *Transcript) Epilogue() string { return epilogue }

// EndTime is the suspected length of the recorded segment: the last
// timestamp in the file, rounded up.
func (t *Transcript) EndTime() timestamp.Timestamp { return t.endTime }

// Lines returns a new cursor over the content lines.
func (t *Transcript) Lines() *Lines {
	return &Lines{rest: t.content}
}

// String reassembles the file.
func (t *Transcript) String() string {
	return t.preamble + t.content + epilogue
}
