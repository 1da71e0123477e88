// Package content tokenizes PDF content streams and walks their operators.
package content

// Token represents a lexical token in a content stream
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenString
	TokenHexString
	TokenName
	TokenKeyword
	TokenDelimiter
	TokenArrayStart // [
	TokenArrayEnd   // ]
	TokenDictStart  // <<
	TokenDictEnd    // >>
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenNumber:
		return "Number"
	case TokenString:
		return "String"
	case TokenHexString:
		return "HexString"
	case TokenName:
		return "Name"
	case TokenKeyword:
		return "Keyword"
	case TokenDelimiter:
		return "Delimiter"
	case TokenArrayStart:
		return "ArrayStart"
	case TokenArrayEnd:
		return "ArrayEnd"
	case TokenDictStart:
		return "DictStart"
	case TokenDictEnd:
		return "DictEnd"
	default:
		return "Unknown"
	}
}

// Character classes from the PDF lexical conventions.
const (
	nullChar           = '\000'
	tabChar            = '\t'
	lineFeedChar       = '\n'
	formFeedChar       = '\f'
	carriageReturnChar = '\r'
	spaceChar          = ' '

	leftParen   = '('
	rightParen  = ')'
	leftAngle   = '<'
	rightAngle  = '>'
	leftSquare  = '['
	rightSquare = ']'
	leftCurly   = '{'
	rightCurly  = '}'
	solidus     = '/'
	percentSign = '%'
)

func isWhitespace(ch byte) bool {
	return ch == nullChar || ch == tabChar || ch == lineFeedChar ||
		ch == formFeedChar || ch == carriageReturnChar || ch == spaceChar
}

func isDelimiter(ch byte) bool {
	return ch == leftParen || ch == rightParen || ch == leftAngle || ch == rightAngle ||
		ch == leftSquare || ch == rightSquare || ch == leftCurly || ch == rightCurly ||
		ch == solidus || ch == percentSign
}

func isRegular(ch byte) bool {
	return !isWhitespace(ch) && !isDelimiter(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
