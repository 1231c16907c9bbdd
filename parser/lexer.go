package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	IDENTIFIER
	STRING
	INT
	FLOAT

	SELECT
	FROM

	ASTERISK
	COMMA
	SEMICOLON
)

var tokenNames = map[TokenType]string{
	ILLEGAL:    "ILLEGAL",
	EOF:        "end of input",
	IDENTIFIER: "identifier",
	STRING:     "string literal",
	INT:        "integer literal",
	FLOAT:      "float literal",
	SELECT:     "SELECT",
	FROM:       "FROM",
	ASTERISK:   "*",
	COMMA:      ",",
	SEMICOLON:  ";",
}

func (t TokenType) String() string {
	return tokenNames[t]
}

type Token struct {
	Type    TokenType
	Literal string
	// set for INT, FLOAT and STRING
	Int    int32
	Float  float32
	Text   string
	Line   int
	Column int
}

// Lexer splits query text into tokens. Keywords are case insensitive,
// "--" starts a comment running to the end of the line and string
// literals are double quoted with JSON escapes.
type Lexer struct {
	input  string
	pos    int
	line   int
	column int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, column: 1}
}

// Tokenize returns every token up to and including EOF.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	tokens := make([]Token, 0)
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespaceAndComments()

	tok := Token{Line: l.line, Column: l.column}
	if l.pos >= len(l.input) {
		tok.Type = EOF
		return tok, nil
	}

	ch := l.input[l.pos]
	switch {
	case ch == '*':
		tok.Type, tok.Literal = ASTERISK, l.advance(1)
	case ch == ',':
		tok.Type, tok.Literal = COMMA, l.advance(1)
	case ch == ';':
		tok.Type, tok.Literal = SEMICOLON, l.advance(1)
	case ch == '"':
		return l.readString(tok)
	case isDigit(ch) || (ch == '.' && isDigit(l.peek(1))):
		return l.readNumber(tok)
	case isLetter(ch):
		tok.Literal = l.readIdentifier()
		tok.Type = lookupIdent(tok.Literal)
	default:
		return tok, l.errorf(tok, "unexpected character %q", ch)
	}
	return tok, nil
}

func (l *Lexer) advance(n int) string {
	s := l.input[l.pos : l.pos+n]
	l.pos += n
	l.column += n
	return s
}

func (l *Lexer) peek(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		switch ch := l.input[l.pos]; {
		case ch == '\n':
			l.pos++
			l.line++
			l.column = 1
		case ch == ' ' || ch == '\t' || ch == '\f' || ch == '\r':
			l.advance(1)
		case ch == '-' && l.peek(1) == '-':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance(1)
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for l.pos < len(l.input) && (isLetter(l.input[l.pos]) || isDigit(l.input[l.pos]) || l.input[l.pos] == '_') {
		l.pos++
	}
	l.column += l.pos - start
	return l.input[start:l.pos]
}

// digits, or digits (possibly none) '.' digits
func (l *Lexer) readNumber(tok Token) (Token, error) {
	start := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	isFloat := false
	if l.pos < len(l.input) && l.input[l.pos] == '.' && isDigit(l.peek(1)) {
		isFloat = true
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	l.column += l.pos - start
	tok.Literal = l.input[start:l.pos]

	if isFloat {
		f, err := strconv.ParseFloat(tok.Literal, 32)
		if err != nil {
			return tok, l.errorf(tok, "invalid float literal %s", tok.Literal)
		}
		tok.Type, tok.Float = FLOAT, float32(f)
		return tok, nil
	}
	i, err := strconv.ParseInt(tok.Literal, 10, 32)
	if err != nil {
		return tok, l.errorf(tok, "integer literal %s does not fit in 32 bits", tok.Literal)
	}
	tok.Type, tok.Int = INT, int32(i)
	return tok, nil
}

func (l *Lexer) readString(tok Token) (Token, error) {
	start := l.pos
	i := l.pos + 1
	for {
		if i >= len(l.input) {
			return tok, l.errorf(tok, "unterminated string literal")
		}
		c := l.input[i]
		if c == '"' {
			break
		}
		if c < 0x20 || c == 0x7f {
			return tok, l.errorf(tok, "control character in string literal")
		}
		if c == '\\' {
			i++
		}
		i++
	}
	tok.Literal = l.input[start : i+1]
	l.column += i + 1 - start
	l.pos = i + 1

	if !utf8.ValidString(tok.Literal) {
		return tok, l.errorf(tok, "string literal is not valid UTF-8")
	}
	if err := json.Unmarshal([]byte(tok.Literal), &tok.Text); err != nil {
		return tok, l.errorf(tok, "invalid escape in string literal %s", tok.Literal)
	}
	tok.Type = STRING
	return tok, nil
}

func (l *Lexer) errorf(tok Token, format string, a ...interface{}) error {
	return &SyntaxError{Line: tok.Line, Column: tok.Column, Msg: fmt.Sprintf(format, a...)}
}

func lookupIdent(ident string) TokenType {
	switch {
	case strings.EqualFold(ident, "SELECT"):
		return SELECT
	case strings.EqualFold(ident, "FROM"):
		return FROM
	}
	return IDENTIFIER
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
