package pc

import (
	"fmt"

	"github.com/liftdl/lifted-datalog/lifted"
)

// Parser builds a Formula from tokenized presence-condition input. The
// connectives have no relative precedence: mixing '/\' and '\/' at the
// same level without parentheses is rejected.
type Parser struct {
	lex   *Lexer
	feats *lifted.SymbolTable
}

// NewParser creates a parser resolving feature names against feats
func NewParser(input string, feats *lifted.SymbolTable) *Parser {
	return &Parser{lex: NewLexer(input), feats: feats}
}

// Parse parses the full input as a single formula
func (p *Parser) Parse() (Formula, error) {
	if err := p.lex.Lex(); err != nil {
		return nil, err
	}
	f, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.lex.NextToken(); tok.Type != TokenEOF {
		return nil, fmt.Errorf("unexpected %s at offset %d", tok, tok.Pos)
	}
	return f, nil
}

// parseExpr parses a chain of terms joined by one kind of connective
func (p *Parser) parseExpr() (Formula, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	chain := TokenEOF // connective seen so far, if any
	for {
		tok := p.lex.PeekToken()
		if tok.Type != TokenAnd && tok.Type != TokenOr {
			return lhs, nil
		}
		p.lex.NextToken()
		if chain != TokenEOF && chain != tok.Type {
			return nil, fmt.Errorf(
				"mixed '/\\' and '\\/' without parentheses at offset %d", tok.Pos)
		}
		chain = tok.Type

		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		op := OpAnd
		if tok.Type == TokenOr {
			op = OpOr
		}
		lhs = &Bin{Op: op, Lhs: lhs, Rhs: rhs}
	}
}

// parseTerm parses an atom, a negation, or a parenthesised expression
func (p *Parser) parseTerm() (Formula, error) {
	tok := p.lex.NextToken()
	switch tok.Type {
	case TokenID:
		switch tok.Value {
		case "True":
			return &Primitive{Value: true}, nil
		case "False":
			return &Primitive{Value: false}, nil
		}
		v, ok := p.feats.Lookup(tok.Value)
		if !ok {
			return nil, fmt.Errorf("unknown feature %q at offset %d", tok.Value, tok.Pos)
		}
		return &Feature{Name: tok.Value, Var: int(v)}, nil
	case TokenNot:
		sub, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return &Neg{Sub: sub}, nil
	case TokenLeftParen:
		f, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closer := p.lex.NextToken(); closer.Type != TokenRightParen {
			return nil, fmt.Errorf("expected ')' but found %s at offset %d", closer, closer.Pos)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unexpected %s at offset %d", tok, tok.Pos)
	}
}

// ParseFormula parses input into an AST, resolving features via feats
func ParseFormula(input string, feats *lifted.SymbolTable) (Formula, error) {
	return NewParser(input, feats).Parse()
}
