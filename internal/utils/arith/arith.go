// Package arith evaluates plain arithmetic expressions for the agent's calculator tool.
// Only numbers, + - * / (and the × ÷ signs), unary minus and parentheses are accepted.
package arith

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	maxExpressionLength = 512
	maxDepth            = 64
)

var (
	ErrEmpty          = errors.New("empty expression")
	ErrInvalidToken   = errors.New("invalid token")
	ErrSyntax         = errors.New("syntax error")
	ErrDivisionByZero = errors.New("division by zero")
	ErrTooComplex     = errors.New("expression too complex")
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// Evaluate parses and evaluates expr with decimal arithmetic.
func Evaluate(expr string) (decimal.Decimal, error) {
	if len(expr) > maxExpressionLength {
		return decimal.Zero, ErrTooComplex
	}
	tokens, err := tokenize(expr)
	if err != nil {
		return decimal.Zero, err
	}
	if len(tokens) == 0 {
		return decimal.Zero, ErrEmpty
	}
	p := &parser{tokens: tokens}
	v, err := p.expr(0)
	if err != nil {
		return decimal.Zero, err
	}
	if p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		return decimal.Zero, fmt.Errorf("%w: unexpected %q at position %d", ErrSyntax, t.text, t.pos)
	}
	return v, nil
}

// EvaluateString evaluates expr and renders the result without trailing zeros.
func EvaluateString(expr string) (string, error) {
	v, err := Evaluate(expr)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func tokenize(expr string) ([]token, error) {
	var tokens []token
	runes := []rune(expr)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			dots := 0
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				if runes[i] == '.' {
					dots++
				}
				i++
			}
			text := string(runes[start:i])
			if dots > 1 || text == "." {
				return nil, fmt.Errorf("%w: malformed number %q at position %d", ErrInvalidToken, text, start)
			}
			if strings.HasPrefix(text, ".") {
				text = "0" + text
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, pos: start})
		case r == '+' || r == '-' || r == '*' || r == '/':
			tokens = append(tokens, token{kind: tokOp, text: string(r), pos: i})
			i++
		case r == '×':
			tokens = append(tokens, token{kind: tokOp, text: "*", pos: i})
			i++
		case r == '÷':
			tokens = append(tokens, token{kind: tokOp, text: "/", pos: i})
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: %q at position %d", ErrInvalidToken, string(r), i)
		}
	}
	return tokens, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

// expr := term (("+" | "-") term)*
func (p *parser) expr(depth int) (decimal.Decimal, error) {
	left, err := p.term(depth)
	if err != nil {
		return decimal.Zero, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.pos++
		right, err := p.term(depth)
		if err != nil {
			return decimal.Zero, err
		}
		if t.text == "+" {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

// term := unary (("*" | "/") unary)*
func (p *parser) term(depth int) (decimal.Decimal, error) {
	left, err := p.unary(depth)
	if err != nil {
		return decimal.Zero, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.pos++
		right, err := p.unary(depth)
		if err != nil {
			return decimal.Zero, err
		}
		if t.text == "*" {
			left = left.Mul(right)
			continue
		}
		if right.IsZero() {
			return decimal.Zero, ErrDivisionByZero
		}
		left = left.Div(right)
	}
}

// unary := ("-" | "+") unary | primary
func (p *parser) unary(depth int) (decimal.Decimal, error) {
	if depth > maxDepth {
		return decimal.Zero, ErrTooComplex
	}
	t, ok := p.peek()
	if ok && t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.pos++
		v, err := p.unary(depth + 1)
		if err != nil {
			return decimal.Zero, err
		}
		if t.text == "-" {
			return v.Neg(), nil
		}
		return v, nil
	}
	return p.primary(depth)
}

// primary := number | "(" expr ")"
func (p *parser) primary(depth int) (decimal.Decimal, error) {
	t, ok := p.peek()
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	}
	switch t.kind {
	case tokNumber:
		p.pos++
		v, err := decimal.NewFromString(t.text)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: malformed number %q", ErrInvalidToken, t.text)
		}
		return v, nil
	case tokLParen:
		p.pos++
		v, err := p.expr(depth + 1)
		if err != nil {
			return decimal.Zero, err
		}
		closing, ok := p.peek()
		if !ok || closing.kind != tokRParen {
			return decimal.Zero, fmt.Errorf("%w: missing closing parenthesis for position %d", ErrSyntax, t.pos)
		}
		p.pos++
		return v, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unexpected %q at position %d", ErrSyntax, t.text, t.pos)
	}
}
