package transcript

import (
	"io"
	"strings"

	"github.com/fossabot/f4tapir/internal/rtf"
	"github.com/fossabot/f4tapir/internal/timestamp"
)

// lineEnd closes the group of every content line.
const lineEnd = `\par}`

// newline terminates every line written.
const newline = "\r\n"

// wrapperWords are the control words every content line opens with, e.g.
// {\f0 \fs24 \ul0 \b0 \i0 \cf0 . Their parameters may vary.
var wrapperWords = [...]string{`\f`, `\fs`, `\ul`, `\b`, `\i`, `\cf`}

// Line is one classified line of transcript content: *Utterance,
// *Paragraph or *Other.
type Line interface {
	// WriteShifted writes the line and its terminator with all
	// timestamps shifted by shift.
	WriteShifted(w io.Writer, shift timestamp.Timestamp) error
	line()
}

// Other is a line that does not look like F4 content. It is written as is.
type Other struct {
	Text string
}

// Paragraph is a content line that is not an utterance, often empty.
type Paragraph struct {
	wrapper string
	// Content excludes the wrapper and the closing \par}.
	Content string
}

// Utterance is a content line in which a speaker says something.
//
// The speaker is usually a single letter, set apart from the speech with
// a colon in one of several RTF variations, e.g. Z says something in
//
//	{\f0 \fs24 \ul0 \b0 \i0 \cf0 {\f1 \fs24 \ul0 \b0 \i0 \cf0 Z:}{\f0 \fs24 \ul0 \b0 \i0 \cf0 Ja.}\par}
//
// The fields split the line into consecutive, non-overlapping parts, so
// writing them in order reproduces the line.
type Utterance struct {
	wrapper       string
	speakerBefore string
	speaker       string
	speakerAfter  string
	speech        string
	speechAfter   string
}

func (*Other) line()     {}
func (*Paragraph) line() {}
func (*Utterance) line() {}

// Speaker is the trimmed code of the speaker, e.g. "I" or "Z".
func (u *Utterance) Speaker() string {
	return strings.TrimSpace(u.speaker)
}

// Speech is the trimmed text of the utterance.
func (u *Utterance) Speech() string {
	return strings.TrimSpace(u.speech)
}

func (o *Other) WriteShifted(w io.Writer, _ timestamp.Timestamp) error {
	_, err := io.WriteString(w, o.Text+newline)
	return err
}

func (p *Paragraph) WriteShifted(w io.Writer, shift timestamp.Timestamp) error {
	if _, err := io.WriteString(w, p.wrapper); err != nil {
		return err
	}
	if _, _, err := timestamp.Rewrite(w, p.Content, shift); err != nil {
		return err
	}
	_, err := io.WriteString(w, lineEnd+newline)
	return err
}

func (u *Utterance) WriteShifted(w io.Writer, shift timestamp.Timestamp) error {
	return u.writeSpliced(w, []speechSpan{{text: u.Speech(), shift: shift}})
}

// speechSpan is speech to be written under its own shift.
type speechSpan struct {
	text  string
	shift timestamp.Timestamp
}

// writeSpliced writes the utterance with the given speech spans joined by
// spaces in place of its own speech.
func (u *Utterance) writeSpliced(w io.Writer, spans []speechSpan) error {
	if _, err := io.WriteString(w, u.wrapper+u.speakerBefore+u.speaker+u.speakerAfter); err != nil {
		return err
	}
	for i, span := range spans {
		if i > 0 && span.text != "" {
			if _, err := io.WriteString(w, " "); err != nil {
				return err
			}
		}
		if _, _, err := timestamp.Rewrite(w, span.text, span.shift); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, u.speechAfter+lineEnd+newline)
	return err
}

// ParseLine classifies one line, without its terminator.
func ParseLine(text string) Line {
	wrapper, content, ok := trimWrapper(text)
	if !ok {
		return &Other{Text: text}
	}
	if u, ok := parseUtterance(content); ok {
		u.wrapper = wrapper
		return u
	}
	return &Paragraph{wrapper: wrapper, Content: content}
}

// trimWrapper splits off the opening group with its six formatting
// control words and the closing \par}.
func trimWrapper(text string) (wrapper, content string, ok bool) {
	lex := rtf.NewLexer(text)
	if tok, ok := lex.Next(); !ok || tok.Kind != rtf.GroupStart {
		return "", "", false
	}
	end := 0
	for _, word := range wrapperWords {
		tok, ok := lex.Next()
		if !ok || tok.Kind != rtf.ControlWord || tok.String() != word {
			return "", "", false
		}
		if tok, ok = lex.Next(); !ok || tok.Kind != rtf.Parameter {
			return "", "", false
		}
		if tok, ok = lex.Next(); !ok || tok.Kind != rtf.Delimiter {
			return "", "", false
		}
		end = tok.End
	}
	content, ok = strings.CutSuffix(text[end:], lineEnd)
	if !ok {
		return "", "", false
	}
	return text[:end], content, true
}

// parseUtterance finds speaker and speech in the content of a line.
func parseUtterance(par string) (*Utterance, bool) {
	var texts []rtf.Token
	for tok := range rtf.NewLexer(par).All() {
		if tok.Kind == rtf.Text {
			texts = append(texts, tok)
		}
	}
	if len(texts) == 0 {
		return nil, false
	}

	first := texts[0]
	speakerStart := first.Start
	var speakerEnd, speechStart, speechEnd int
	next := 1

	switch s := first.String(); {
	case strings.HasSuffix(s, ":") && len(s) > 1:
		// Z:}{...Ja.
		if next >= len(texts) {
			return nil, false
		}
		speakerEnd = first.End - 1
		speechStart, speechEnd = texts[next].Start, texts[next].End
		next++
	case strings.Contains(s, ": "):
		// Z: Ja.
		i := strings.Index(s, ": ")
		speakerEnd = first.Start + i
		speechStart, speechEnd = speakerEnd+len(": "), first.End
	default:
		// Z}{...: Ja. or Z}{:}{Ja.
		speakerEnd = first.End
		if next >= len(texts) {
			return nil, false
		}
		colon := texts[next]
		next++
		switch c := colon.String(); {
		case c == ":" || c == ": ":
			if next >= len(texts) {
				return nil, false
			}
			speechStart, speechEnd = texts[next].Start, texts[next].End
			next++
		case len(c) > 2 && strings.HasPrefix(c, ": "):
			speechStart, speechEnd = colon.Start+len(": "), colon.End
		default:
			return nil, false
		}
	}

	// speech continues up to the last text in the line, which may sit in
	// further groups
	if next < len(texts) {
		speechEnd = texts[len(texts)-1].End
	}
	if speechEnd < speechStart {
		return nil, false
	}

	return &Utterance{
		speakerBefore: par[:speakerStart],
		speaker:       par[speakerStart:speakerEnd],
		speakerAfter:  par[speakerEnd:speechStart],
		speech:        par[speechStart:speechEnd],
		speechAfter:   par[speechEnd:],
	}, true
}
