// Package parser extracts directive annotations from raw text. An
// annotation begins with the +++ sentinel, followed immediately by an
// identifier and an optional parenthesized key=value parameter list.
// Extraction is total and side-effect-free: unknown directive names are
// not errors here, only malformed syntax (unterminated quote, bracket or
// parameter list) aborts.
package parser

import (
	"fmt"
	"strings"

	wefterrors "github.com/weft-lang/weft/engine/errors"
)

// Sentinel is the three-character marker that opens an annotation.
const Sentinel = "+++"

// Extract scans text for annotations and returns the ordered token list
// plus the residual text with every annotation span removed. Whitespace
// left behind by removal is preserved as-is; the parser never re-flows
// surrounding content. A malformed annotation aborts the whole
// extraction, since a bad span would corrupt all subsequent offsets.
func Extract(text string) ([]Token, string, error) {
	var tokens []Token
	var residual strings.Builder
	residual.Grow(len(text))

	i := 0
	for i < len(text) {
		start := strings.Index(text[i:], Sentinel)
		if start < 0 {
			residual.WriteString(text[i:])
			break
		}
		start += i

		name, nameEnd := scanName(text, start+len(Sentinel))
		if name == "" {
			// A sentinel not followed by an identifier is plain content.
			residual.WriteString(text[i : start+len(Sentinel)])
			i = start + len(Sentinel)
			continue
		}

		end := nameEnd
		raw := ""
		if end < len(text) && text[end] == '(' {
			close, err := scanBalanced(text, end)
			if err != nil {
				return nil, "", err
			}
			raw = text[end+1 : close]
			end = close + 1
		}

		residual.WriteString(text[i:start])
		tokens = append(tokens, Token{
			Name:          name,
			RawParameters: raw,
			Source:        text[start:end],
			Span:          Span{Start: start, End: end},
		})
		i = end
	}

	return tokens, residual.String(), nil
}

// scanName reads an identifier starting at pos. Returns the identifier
// (empty if the first byte is not a letter) and the index past it.
func scanName(text string, pos int) (string, int) {
	if pos >= len(text) || !isAlpha(text[pos]) {
		return "", pos
	}
	end := pos + 1
	for end < len(text) && isAlphaNumeric(text[end]) {
		end++
	}
	return text[pos:end], end
}

// scanBalanced scans from an opening parenthesis at open to its matching
// close, honoring single/double quotes and nested bracket, brace and
// parenthesis delimiters. Returns the index of the closing parenthesis.
func scanBalanced(text string, open int) (int, error) {
	parens := 0
	brackets := 0
	braces := 0
	var quote byte

	for i := open; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' {
				i++ // escaped character inside a quoted value
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(':
			parens++
		case ')':
			parens--
			if parens == 0 {
				return i, nil
			}
		case '[':
			brackets++
		case ']':
			brackets--
			if brackets < 0 {
				return 0, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrUnterminatedList,
					fmt.Sprintf("unbalanced ']' in parameter list at offset %d", i)).
					WithSpan(open, i+1)
			}
		case '{':
			braces++
		case '}':
			braces--
			if braces < 0 {
				return 0, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrUnterminatedList,
					fmt.Sprintf("unbalanced '}' in parameter list at offset %d", i)).
					WithSpan(open, i+1)
			}
		}
	}

	if quote != 0 {
		return 0, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrUnterminatedQuote,
			"unterminated quoted value in parameter list").
			WithSpan(open, len(text)).
			WithSuggestion(fmt.Sprintf("add a closing %c", quote))
	}
	if brackets > 0 {
		return 0, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrUnterminatedList,
			"unterminated bracketed list in parameter list").
			WithSpan(open, len(text)).
			WithSuggestion("add a closing ]")
	}
	if braces > 0 {
		return 0, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrUnterminatedList,
			"unterminated object in parameter list").
			WithSpan(open, len(text)).
			WithSuggestion("add a closing }")
	}
	return 0, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrUnterminatedParams,
		"unterminated parameter list").
		WithSpan(open, len(text)).
		WithSuggestion("add a closing )")
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || c >= '0' && c <= '9' || c == '_'
}
