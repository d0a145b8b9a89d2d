// Package match implements a small predicate language over events, used by
// pipeline filter steps. Expressions compare event fields against literals and
// combine with AND / OR / NOT:
//
//	data.app == "firefox" AND NOT (data.title contains "private")
//	duration >= 30 OR data.domain matches "github\\.(com|io)"
//
// Expressions are compiled once; evaluation does no parsing.
package match

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Op is a comparison operator.
type Op string

const (
	OpEq       Op = "=="
	OpNeq      Op = "!="
	OpGt       Op = ">"
	OpGte      Op = ">="
	OpLt       Op = "<"
	OpLte      Op = "<="
	OpContains Op = "contains"
	OpMatches  Op = "matches"
)

// Expr is the common interface for all AST nodes.
type Expr interface {
	exprNode()
}

// BinaryExpr represents AND / OR.
type BinaryExpr struct {
	Op    string // "AND" | "OR"
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// NotExpr represents NOT <expr>.
type NotExpr struct {
	Expr Expr
}

func (*NotExpr) exprNode() {}

// CmpExpr compares an event field against a literal. For OpMatches the regexp
// is compiled at parse time.
type CmpExpr struct {
	Field []string // ["data", "app"] or ["duration"]
	Op    Op
	Lit   any
	re    *regexp.Regexp
}

func (*CmpExpr) exprNode() {}

type tokenKind int

const (
	tokWord tokenKind = iota // field path or keyword
	tokOp                    // ==, !=, >=, <=, >, <
	tokString
	tokNumber
	tokBool
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	val  string
}

func tokenize(expr string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(expr) {
		ch := expr[i]
		if unicode.IsSpace(rune(ch)) {
			i++
			continue
		}
		if ch == '(' {
			tokens = append(tokens, token{tokLParen, "("})
			i++
			continue
		}
		if ch == ')' {
			tokens = append(tokens, token{tokRParen, ")"})
			i++
			continue
		}
		if ch == '=' || ch == '!' || ch == '<' || ch == '>' {
			if i+1 < len(expr) && expr[i+1] == '=' {
				tokens = append(tokens, token{tokOp, expr[i : i+2]})
				i += 2
			} else {
				tokens = append(tokens, token{tokOp, string(ch)})
				i++
			}
			continue
		}
		if ch == '"' || ch == '\'' {
			quote := ch
			j := i + 1
			for j < len(expr) && expr[j] != quote {
				if expr[j] == '\\' {
					j++ // skip escaped char
				}
				j++
			}
			if j >= len(expr) {
				return nil, fmt.Errorf("unterminated string starting at position %d", i)
			}
			inner := expr[i+1 : j]
			inner = strings.ReplaceAll(inner, `\"`, `"`)
			inner = strings.ReplaceAll(inner, `\'`, `'`)
			inner = strings.ReplaceAll(inner, `\\`, `\`)
			tokens = append(tokens, token{tokString, inner})
			i = j + 1
			continue
		}
		if unicode.IsDigit(rune(ch)) || (ch == '-' && i+1 < len(expr) && unicode.IsDigit(rune(expr[i+1]))) {
			j := i
			if expr[j] == '-' {
				j++
			}
			for j < len(expr) && (unicode.IsDigit(rune(expr[j])) || expr[j] == '.') {
				j++
			}
			tokens = append(tokens, token{tokNumber, expr[i:j]})
			i = j
			continue
		}
		if unicode.IsLetter(rune(ch)) || ch == '_' {
			j := i
			for j < len(expr) && (unicode.IsLetter(rune(expr[j])) || unicode.IsDigit(rune(expr[j])) || expr[j] == '_' || expr[j] == '.') {
				j++
			}
			word := expr[i:j]
			switch strings.ToLower(word) {
			case "true", "false":
				tokens = append(tokens, token{tokBool, strings.ToLower(word)})
			default:
				tokens = append(tokens, token{tokWord, word})
			}
			i = j
			continue
		}
		return nil, fmt.Errorf("unexpected character %q at position %d", ch, i)
	}
	tokens = append(tokens, token{tokEOF, ""})
	return tokens, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) consume() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

// Parse compiles an expression string into an AST.
func Parse(expr string) (Expr, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("unexpected token %q after expression", p.peek().val)
	}
	return node, nil
}

// or_expr = and_expr ( "OR" and_expr )*
func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokWord && strings.ToUpper(p.peek().val) == "OR" {
		p.consume()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "OR", Left: left, Right: right}
	}
	return left, nil
}

// and_expr = not_expr ( "AND" not_expr )*
func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokWord && strings.ToUpper(p.peek().val) == "AND" {
		p.consume()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "AND", Left: left, Right: right}
	}
	return left, nil
}

// not_expr = [ "NOT" ] comparison | "(" or_expr ")"
func (p *parser) parseNot() (Expr, error) {
	if p.peek().kind == tokWord && strings.ToUpper(p.peek().val) == "NOT" {
		p.consume()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Expr: inner}, nil
	}
	if p.peek().kind == tokLParen {
		p.consume()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if t := p.peek(); t.kind != tokRParen {
			return nil, fmt.Errorf("expected \")\" but got %q", t.val)
		}
		p.consume()
		return inner, nil
	}
	return p.parseComparison()
}

// comparison = field operator literal
func (p *parser) parseComparison() (Expr, error) {
	t := p.peek()
	if t.kind != tokWord {
		return nil, fmt.Errorf("expected field path, got %q", t.val)
	}
	p.consume()
	field := strings.Split(t.val, ".")
	if err := checkField(field); err != nil {
		return nil, err
	}

	t = p.peek()
	var op Op
	switch {
	case t.kind == tokOp:
		op = Op(t.val)
		p.consume()
	case t.kind == tokWord && strings.ToLower(t.val) == "contains":
		op = OpContains
		p.consume()
	case t.kind == tokWord && strings.ToLower(t.val) == "matches":
		op = OpMatches
		p.consume()
	default:
		return nil, fmt.Errorf("expected comparison operator, got %q", t.val)
	}

	lit, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	cmp := &CmpExpr{Field: field, Op: op, Lit: lit}
	if op == OpMatches {
		pattern, ok := lit.(string)
		if !ok {
			return nil, fmt.Errorf("matches: pattern must be a string, got %v", lit)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("matches: invalid regex %q: %w", pattern, err)
		}
		cmp.re = re
	}
	return cmp, nil
}

func (p *parser) parseLiteral() (any, error) {
	t := p.peek()
	switch t.kind {
	case tokString:
		p.consume()
		return t.val, nil
	case tokNumber:
		p.consume()
		f, err := strconv.ParseFloat(t.val, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", t.val)
		}
		return f, nil
	case tokBool:
		p.consume()
		return t.val == "true", nil
	default:
		return nil, fmt.Errorf("expected literal, got %q", t.val)
	}
}

// checkField restricts paths to the fields evaluation can resolve.
func checkField(path []string) error {
	switch path[0] {
	case "data":
		if len(path) < 2 {
			return fmt.Errorf("field %q: data requires a key", strings.Join(path, "."))
		}
		return nil
	case "duration":
		if len(path) != 1 {
			return fmt.Errorf("field %q: duration has no sub-fields", strings.Join(path, "."))
		}
		return nil
	}
	return fmt.Errorf("unknown field %q (want data.<key> or duration)", strings.Join(path, "."))
}
