// Package rtf tokenizes single lines of the RTF subset written by F4.
package rtf

import "fmt"

// Kind classifies a token.
type Kind uint8

const (
	// Text is unformatted text, including escapes like \'fc.
	Text Kind = iota
	// GroupStart is a left curly brace.
	GroupStart
	// GroupEnd is a right curly brace.
	GroupEnd
	// ControlWord is a backslash followed by lower-case letters, e.g. \cf.
	// A numeric parameter and the delimiter are separate tokens.
	ControlWord
	// ControlSymbol is a backslash followed by one non-letter, e.g. \~.
	ControlSymbol
	// Parameter is the optional number directly following a control word.
	Parameter
	// Delimiter is the single byte terminating a control word, control
	// symbol or parameter.
	Delimiter
)

var kindNames = [...]string{
	Text:          "text",
	GroupStart:    "group-start",
	GroupEnd:      "group-end",
	ControlWord:   "control-word",
	ControlSymbol: "control-symbol",
	Parameter:     "parameter",
	Delimiter:     "delimiter",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Token is a classified byte range of a source line. The source string
// is shared between all tokens of a line, never copied.
type Token struct {
	Kind  Kind
	Start int
	End   int
	src   string
}

// String returns the source text of the token.
func (t Token) String() string {
	return t.src[t.Start:t.End]
}

// Len is the length of the token in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// GoString shows kind, range and text, for test failures.
func (t Token) GoString() string {
	return fmt.Sprintf("rtf.Token{%s [%d:%d] %q}", t.Kind, t.Start, t.End, t.String())
}
