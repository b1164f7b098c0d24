package pathlex

import "fmt"

// TokenKind distinguishes dotted properties from bracketed indices.
type TokenKind int

const (
	// Property is a dotted segment (".name", or the bare head segment).
	Property TokenKind = iota
	// Index is a bracketed segment ("[name]").
	Index
)

// Token is one lexed segment of a property path string.
type Token struct {
	Kind   TokenKind
	Name   string
	Offset int // byte offset of the segment start in the input
}

// SyntaxError reports where and why a path string failed to lex.
type SyntaxError struct {
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Reason)
}

// Scan lexes a property path string of the grammar
//
//	Head (('.' Name) | ('[' Name ']'))*
//
// where Head is either a bare name or an immediately bracketed index.
// Names are non-empty runs of characters excluding '.', '[' and ']'.
func Scan(s string) ([]Token, error) {
	if s == "" {
		return nil, &SyntaxError{Offset: 0, Reason: "path is empty"}
	}

	var tokens []Token
	i := 0

	// Head: a bare property name unless the path opens with a bracket.
	if s[0] != '[' {
		if s[0] == '.' {
			return nil, &SyntaxError{Offset: 0, Reason: "path must not start with '.'"}
		}
		if s[0] == ']' {
			return nil, &SyntaxError{Offset: 0, Reason: "unexpected ']'"}
		}
		name, end := scanName(s, 0)
		tokens = append(tokens, Token{Kind: Property, Name: name, Offset: 0})
		i = end
	}

	for i < len(s) {
		switch s[i] {
		case '.':
			start := i
			i++
			if i >= len(s) || s[i] == '.' || s[i] == '[' || s[i] == ']' {
				return nil, &SyntaxError{Offset: start, Reason: "expected property name after '.'"}
			}
			name, end := scanName(s, i)
			tokens = append(tokens, Token{Kind: Property, Name: name, Offset: start})
			i = end
		case '[':
			start := i
			i++
			nameStart := i
			for i < len(s) && s[i] != ']' {
				if s[i] == '[' || s[i] == '.' {
					return nil, &SyntaxError{Offset: i, Reason: fmt.Sprintf("unexpected %q inside index", s[i])}
				}
				i++
			}
			if i >= len(s) {
				return nil, &SyntaxError{Offset: start, Reason: "unclosed '['"}
			}
			if i == nameStart {
				return nil, &SyntaxError{Offset: start, Reason: "empty index"}
			}
			tokens = append(tokens, Token{Kind: Index, Name: s[nameStart:i], Offset: start})
			i++ // consume ']'
		default:
			return nil, &SyntaxError{Offset: i, Reason: fmt.Sprintf("unexpected %q", s[i])}
		}
	}

	return tokens, nil
}

// scanName consumes a name starting at i and returns it with the position
// one past its end.
func scanName(s string, i int) (string, int) {
	start := i
	for i < len(s) && s[i] != '.' && s[i] != '[' && s[i] != ']' {
		i++
	}
	return s[start:i], i
}
