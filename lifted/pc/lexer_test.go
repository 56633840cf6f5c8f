package pc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, input string) []Token {
	t.Helper()
	l := NewLexer(input)
	require.NoError(t, l.Lex())
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func TestLexBasicExpression(t *testing.T) {
	tokens := lexAll(t, ` A  /\  !(!B \/ C) `)

	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	require.Equal(t, []TokenType{
		TokenID, TokenAnd, TokenNot, TokenLeftParen, TokenNot,
		TokenID, TokenOr, TokenID, TokenRightParen, TokenEOF,
	}, types)

	require.Equal(t, "A", tokens[0].Value)
	require.Equal(t, "B", tokens[5].Value)
	require.Equal(t, "C", tokens[7].Value)
}

func TestLexAlternateSpellings(t *testing.T) {
	tokens := lexAll(t, "A && B || C")
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	require.Equal(t, []TokenType{
		TokenID, TokenAnd, TokenID, TokenOr, TokenID, TokenEOF,
	}, types)
}

func TestLexIdentifiers(t *testing.T) {
	tokens := lexAll(t, "_x Feature_1 someFeature")
	require.Equal(t, "_x", tokens[0].Value)
	require.Equal(t, "Feature_1", tokens[1].Value)
	require.Equal(t, "someFeature", tokens[2].Value)
}

func TestLexWhitespace(t *testing.T) {
	tokens := lexAll(t, "\tA\r\n/\\ B\n")
	require.Len(t, tokens, 4) // A, AND, B, EOF
}

func TestLexErrors(t *testing.T) {
	for _, input := range []string{"A & B", "A | B", "/x", "\\x", "A + B", "1A"} {
		l := NewLexer(input)
		require.Error(t, l.Lex(), "input %q should not lex", input)
	}
}

func TestLexEmptyInput(t *testing.T) {
	tokens := lexAll(t, "   ")
	require.Len(t, tokens, 1)
	require.Equal(t, TokenEOF, tokens[0].Type)
}
