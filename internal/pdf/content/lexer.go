package content

import (
	"bytes"
	"strconv"
)

// Lexer tokenizes a decoded content stream
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a new lexer over data
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

func (l *Lexer) hasNext() bool {
	return l.pos < len(l.data)
}

func (l *Lexer) current() byte {
	if !l.hasNext() {
		return 0
	}
	return l.data[l.pos]
}

func (l *Lexer) peek() byte {
	if l.pos+1 >= len(l.data) {
		return 0
	}
	return l.data[l.pos+1]
}

func (l *Lexer) advance() {
	if l.hasNext() {
		l.pos++
	}
}

// skipComment skips a comment up to and including the line ending
func (l *Lexer) skipComment() {
	for l.hasNext() && l.current() != lineFeedChar && l.current() != carriageReturnChar {
		l.advance()
	}
	for l.hasNext() && (l.current() == lineFeedChar || l.current() == carriageReturnChar) {
		l.advance()
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	for l.hasNext() {
		if isWhitespace(l.current()) {
			l.advance()
		} else if l.current() == percentSign {
			l.skipComment()
		} else {
			break
		}
	}

	if !l.hasNext() {
		return Token{Type: TokenEOF, Pos: l.pos}
	}

	start := l.pos
	switch ch := l.current(); ch {
	case leftParen:
		return l.readLiteralString()
	case leftAngle:
		if l.peek() == leftAngle {
			l.pos += 2
			return Token{Type: TokenDictStart, Value: "<<", Pos: start}
		}
		return l.readHexString()
	case rightAngle:
		if l.peek() == rightAngle {
			l.pos += 2
			return Token{Type: TokenDictEnd, Value: ">>", Pos: start}
		}
		l.advance()
		return Token{Type: TokenDelimiter, Value: ">", Pos: start}
	case leftSquare:
		l.advance()
		return Token{Type: TokenArrayStart, Value: "[", Pos: start}
	case rightSquare:
		l.advance()
		return Token{Type: TokenArrayEnd, Value: "]", Pos: start}
	case solidus:
		return l.readName()
	default:
		if isDigit(ch) || ch == '+' || ch == '-' || ch == '.' {
			return l.readNumber()
		}
		if !isRegular(ch) {
			l.advance()
			return Token{Type: TokenDelimiter, Value: string(ch), Pos: start}
		}
		return l.readKeyword()
	}
}

// readLiteralString reads a string enclosed in balanced parentheses
func (l *Lexer) readLiteralString() Token {
	start := l.pos
	var buf bytes.Buffer

	l.advance()
	depth := 1
	for l.hasNext() {
		ch := l.current()
		switch {
		case ch == leftParen:
			depth++
			buf.WriteByte(ch)
		case ch == rightParen:
			depth--
			if depth == 0 {
				l.advance()
				return Token{Type: TokenString, Value: buf.String(), Pos: start}
			}
			buf.WriteByte(ch)
		case ch == '\\':
			l.advance()
			if !l.hasNext() {
				break
			}
			l.readEscape(&buf)
		default:
			buf.WriteByte(ch)
		}
		l.advance()
	}
	return Token{Type: TokenString, Value: buf.String(), Pos: start}
}

func (l *Lexer) readEscape(buf *bytes.Buffer) {
	switch c := l.current(); c {
	case 'n':
		buf.WriteByte('\n')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case lineFeedChar:
	case carriageReturnChar:
		if l.peek() == lineFeedChar {
			l.advance()
		}
	default:
		if c < '0' || c > '7' {
			buf.WriteByte(c)
			return
		}
		octal := []byte{c}
		for i := 0; i < 2 && l.peek() >= '0' && l.peek() <= '7'; i++ {
			l.advance()
			octal = append(octal, l.current())
		}
		v, _ := strconv.ParseUint(string(octal), 8, 16)
		buf.WriteByte(byte(v))
	}
}

// readHexString reads a hexadecimal string enclosed in angle brackets
func (l *Lexer) readHexString() Token {
	start := l.pos
	var buf bytes.Buffer

	l.advance()
	for l.hasNext() && l.current() != rightAngle {
		if isHexDigit(l.current()) {
			buf.WriteByte(l.current())
		}
		l.advance()
	}
	l.advance()

	if buf.Len()%2 == 1 {
		buf.WriteByte('0')
	}
	return Token{Type: TokenHexString, Value: buf.String(), Pos: start}
}

// readName reads a name object starting with a solidus
func (l *Lexer) readName() Token {
	start := l.pos
	var buf bytes.Buffer

	l.advance()
	for l.hasNext() && isRegular(l.current()) {
		ch := l.current()
		if ch == '#' && l.pos+2 < len(l.data) && isHexDigit(l.data[l.pos+1]) && isHexDigit(l.data[l.pos+2]) {
			v, _ := strconv.ParseUint(string(l.data[l.pos+1:l.pos+3]), 16, 8)
			buf.WriteByte(byte(v))
			l.pos += 3
			continue
		}
		buf.WriteByte(ch)
		l.advance()
	}
	return Token{Type: TokenName, Value: buf.String(), Pos: start}
}

// readNumber reads an integer or real value
func (l *Lexer) readNumber() Token {
	start := l.pos
	if l.current() == '+' || l.current() == '-' {
		l.advance()
	}
	for l.hasNext() && (isDigit(l.current()) || l.current() == '.') {
		l.advance()
	}
	return Token{Type: TokenNumber, Value: string(l.data[start:l.pos]), Pos: start}
}

// readKeyword reads an operator or one of the true, false and null keywords
func (l *Lexer) readKeyword() Token {
	start := l.pos
	for l.hasNext() && isRegular(l.current()) {
		l.advance()
	}
	return Token{Type: TokenKeyword, Value: string(l.data[start:l.pos]), Pos: start}
}

// SkipInlineImage moves past the binary data that follows an ID operator,
// stopping after the closing EI.
func (l *Lexer) SkipInlineImage() {
	if l.hasNext() && isWhitespace(l.current()) {
		l.advance()
	}
	for l.pos+1 < len(l.data) {
		if l.data[l.pos] == 'E' && l.data[l.pos+1] == 'I' &&
			(l.pos == 0 || isWhitespace(l.data[l.pos-1])) &&
			(l.pos+2 == len(l.data) || isWhitespace(l.data[l.pos+2]) || isDelimiter(l.data[l.pos+2])) {
			l.pos += 2
			return
		}
		l.pos++
	}
	l.pos = len(l.data)
}

// Position returns the current offset in the input
func (l *Lexer) Position() int {
	return l.pos
}
