package content

import (
	"fmt"
	"strconv"
)

// Operation is an operator together with the operands that preceded it.
// Array and dictionary operands are flattened in place, delimiters included.
type Operation struct {
	Operator string
	Operands []Token
}

// Number returns operand i as a float.
func (op Operation) Number(i int) (float64, error) {
	if i < 0 || i >= len(op.Operands) {
		return 0, fmt.Errorf("%s: missing operand %d", op.Operator, i)
	}
	tok := op.Operands[i]
	if tok.Type != TokenNumber {
		return 0, fmt.Errorf("%s: operand %d is %s, not a number", op.Operator, i, tok.Type)
	}
	return strconv.ParseFloat(tok.Value, 64)
}

// Name returns the last name operand, if any.
func (op Operation) Name() (string, bool) {
	for i := len(op.Operands) - 1; i >= 0; i-- {
		if op.Operands[i].Type == TokenName {
			return op.Operands[i].Value, true
		}
	}
	return "", false
}

// Scan splits a content stream into operations. Inline image data is skipped.
func Scan(data []byte) []Operation {
	lexer := NewLexer(data)

	var ops []Operation
	var operands []Token
	depth := 0
	for {
		tok := lexer.NextToken()
		switch tok.Type {
		case TokenEOF:
			return ops
		case TokenArrayStart, TokenDictStart:
			depth++
			operands = append(operands, tok)
			continue
		case TokenArrayEnd, TokenDictEnd:
			if depth > 0 {
				depth--
			}
			operands = append(operands, tok)
			continue
		case TokenKeyword:
			if depth == 0 && !isLiteralKeyword(tok.Value) {
				ops = append(ops, Operation{Operator: tok.Value, Operands: operands})
				operands = nil
				if tok.Value == "ID" {
					lexer.SkipInlineImage()
				}
				continue
			}
		}
		operands = append(operands, tok)
	}
}

func isLiteralKeyword(v string) bool {
	return v == "true" || v == "false" || v == "null"
}
