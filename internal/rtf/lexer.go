package rtf

import "iter"

// Lexer is a forward-only scanner over one line of RTF. It never fails:
// every byte ends up in some token.
type Lexer struct {
	src string
	pos int
	// kind of the previous token, Text before the first one
	last Kind
}

// NewLexer creates a lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Tokenize returns all tokens of src.
func Tokenize(src string) []Token {
	var tokens []Token
	for tok := range NewLexer(src).All() {
		tokens = append(tokens, tok)
	}
	return tokens
}

// Next returns the next token, or false at the end of the source.
func (l *Lexer) Next() (Token, bool) {
	if l.pos >= len(l.src) {
		return Token{}, false
	}
	tok := l.scan()
	l.pos = tok.End
	l.last = tok.Kind
	return tok, true
}

// All yields the remaining tokens.
func (l *Lexer) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok, ok := l.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

func (l *Lexer) follows(kinds ...Kind) bool {
	for _, k := range kinds {
		if l.last == k {
			return true
		}
	}
	return false
}

func (l *Lexer) scan() Token {
	from := l.pos
	c := l.src[from]

	if (isDigit(c) || c == '-') && l.follows(ControlWord) {
		return l.token(Parameter, from, l.skipDigits(from+1))
	}

	switch c {
	case '\\':
		return l.scanBackslash(from)
	case '{':
		return l.token(GroupStart, from, from+1)
	case '}':
		return l.token(GroupEnd, from, from+1)
	}

	if l.follows(ControlWord, ControlSymbol, Parameter) {
		// a space delimiter belongs to the control word, other bytes
		// would not, but the lines we read only use spaces
		return l.token(Delimiter, from, from+1)
	}
	return l.token(Text, from, l.skipText(from+1))
}

func (l *Lexer) scanBackslash(from int) Token {
	if from+1 >= len(l.src) {
		// lone backslash at the end of the line
		return l.token(Text, from, from+1)
	}
	switch c := l.src[from+1]; {
	case c == '\'':
		return l.token(Text, from, l.skipText(from+2))
	case isLower(c):
		end := from + 1
		for end < len(l.src) && isLower(l.src[end]) {
			end++
		}
		return l.token(ControlWord, from, end)
	default:
		return l.token(ControlSymbol, from, from+2)
	}
}

// skipText returns the end of a text run starting before from. The run
// stops at the next backslash or brace, but \' escapes are part of it.
func (l *Lexer) skipText(from int) int {
	for i := from; i < len(l.src); i++ {
		switch l.src[i] {
		case '\\':
			if i+1 < len(l.src) && l.src[i+1] == '\'' {
				i++
				continue
			}
			return i
		case '{', '}':
			return i
		}
	}
	return len(l.src)
}

func (l *Lexer) skipDigits(from int) int {
	end := from
	for end < len(l.src) && isDigit(l.src[end]) {
		end++
	}
	return end
}

func (l *Lexer) token(kind Kind, start, end int) Token {
	return Token{Kind: kind, Start: start, End: end, src: l.src}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
