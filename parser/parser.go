// Package parser turns query text into a Query. ParseQuery implements the
// engine's own grammar; ParseMySQL accepts the same subset written in the
// MySQL dialect.
//
//	query       := SELECT select_expr {"," select_expr} [FROM table_ref] ";"
//	select_expr := "*" | string | int | float | identifier
//	table_ref   := string | identifier
package parser

import (
	"fmt"

	"github.com/ryogrid/QueryCore/common"
	"github.com/ryogrid/QueryCore/types"
)

type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d column %d: %s", e.Line, e.Column, e.Msg)
}

type Parser struct {
	tokens  []Token
	curPos  int
	curTok  Token
	peekTok Token
}

func NewParser(tokens []Token) *Parser {
	p := &Parser{tokens: tokens}
	p.nextToken()
	p.nextToken()
	return p
}

// ParseQuery parses one statement of the engine's grammar.
func ParseQuery(sql string) (Query, error) {
	tokens, err := Tokenize(sql)
	if err != nil {
		common.ShPrintf(common.DEBUG_INFO, "ParseQuery: %v\n", err)
		return nil, err
	}
	return NewParser(tokens).Parse()
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	if p.curPos < len(p.tokens) {
		p.peekTok = p.tokens[p.curPos]
		p.curPos++
	} else {
		p.peekTok = Token{Type: EOF, Line: p.curTok.Line, Column: p.curTok.Column}
	}
}

func (p *Parser) Parse() (Query, error) {
	if p.curTok.Type != SELECT {
		return nil, p.unexpected("SELECT")
	}
	query, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	if p.curTok.Type != EOF {
		return nil, p.unexpected("end of input")
	}
	return query, nil
}

func (p *Parser) parseSelect() (*SelectQuery, error) {
	query := &SelectQuery{SelectExprs: make([]SelectExpr, 0)}

	// SELECT
	p.nextToken()

	for {
		expr, err := p.parseSelectExpr()
		if err != nil {
			return nil, err
		}
		query.SelectExprs = append(query.SelectExprs, expr)
		if p.curTok.Type != COMMA {
			break
		}
		p.nextToken()
	}

	if p.curTok.Type == FROM {
		p.nextToken()
		switch p.curTok.Type {
		case IDENTIFIER:
			query.TableRef = &TableRef{TableRefIdentifier, p.curTok.Literal}
		case STRING:
			query.TableRef = &TableRef{TableRefString, p.curTok.Text}
		default:
			return nil, p.unexpected("table name")
		}
		p.nextToken()
	}

	if p.curTok.Type != SEMICOLON {
		if query.TableRef == nil {
			return nil, p.unexpected("FROM, \",\" or \";\"")
		}
		return nil, p.unexpected("\";\"")
	}
	p.nextToken()

	return query, nil
}

func (p *Parser) parseSelectExpr() (SelectExpr, error) {
	var expr SelectExpr
	switch p.curTok.Type {
	case ASTERISK:
		expr = AllExpr{}
	case IDENTIFIER:
		expr = ColumnExpr{p.curTok.Literal}
	case INT:
		expr = ImmediateExpr{types.NewInteger(p.curTok.Int)}
	case FLOAT:
		expr = ImmediateExpr{types.NewFloat(p.curTok.Float)}
	case STRING:
		expr = ImmediateExpr{types.NewVarchar(p.curTok.Text)}
	default:
		return nil, p.unexpected("select expression")
	}
	p.nextToken()
	return expr, nil
}

func (p *Parser) unexpected(expected string) error {
	got := p.curTok.Type.String()
	if p.curTok.Literal != "" {
		got = fmt.Sprintf("%q", p.curTok.Literal)
	}
	return &SyntaxError{p.curTok.Line, p.curTok.Column, fmt.Sprintf("expected %s, got %s", expected, got)}
}
