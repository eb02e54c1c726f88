package parser

import (
	"fmt"
	"strconv"
	"strings"

	wefterrors "github.com/weft-lang/weft/engine/errors"
)

// ParseParameters parses the raw parameter source text of an annotation
// (the content between the parentheses) into a map of raw values ready
// for schema validation. Values follow the literal rules of the
// annotation grammar:
//
//   - unquoted literals become bool or float64 when they match those
//     lexical forms, string otherwise
//   - single- or double-quoted strings become string (quotes stripped,
//     backslash escapes resolved)
//   - bracketed lists become []any, elements parsed recursively
//   - braced objects ({key=value, ...}) become map[string]any, values
//     parsed recursively
//
// Splitting respects quotes and nested brackets and braces, so values
// containing '=' or ',' inside quotes, lists or objects are never
// mis-split.
func ParseParameters(raw string) (map[string]any, error) {
	params := make(map[string]any)
	if strings.TrimSpace(raw) == "" {
		return params, nil
	}

	pairs, err := splitTop(raw, ',')
	if err != nil {
		return nil, err
	}
	for _, pair := range pairs {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		eq := indexTop(pair, '=')
		if eq < 0 {
			return nil, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrMalformedParameter,
				fmt.Sprintf("parameter %q is not a key=value pair", strings.TrimSpace(pair)))
		}
		key := strings.TrimSpace(pair[:eq])
		if key == "" {
			return nil, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrEmptyParameterName,
				fmt.Sprintf("missing parameter name in %q", strings.TrimSpace(pair)))
		}
		if strings.TrimSpace(pair[eq+1:]) == "" {
			return nil, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrEmptyParameterValue,
				fmt.Sprintf("missing value for parameter %q", key)).
				WithParameter(key).
				WithSuggestion(fmt.Sprintf("write %s=\"\" for an explicit empty string", key))
		}
		value, err := ParseValue(pair[eq+1:])
		if err != nil {
			return nil, err
		}
		params[key] = value
	}
	return params, nil
}

// ParseValue parses a single literal value: quoted string, bracketed
// list, braced object, boolean, number, or bare string.
func ParseValue(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	if s[0] == '\'' || s[0] == '"' {
		return unquote(s)
	}

	if s[0] == '{' {
		if s[len(s)-1] != '}' {
			return nil, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrUnterminatedList,
				fmt.Sprintf("unterminated object %q", s)).WithValue(s)
		}
		return parseObject(s[1 : len(s)-1])
	}

	if s[0] == '[' {
		if s[len(s)-1] != ']' {
			return nil, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrUnterminatedList,
				fmt.Sprintf("unterminated list %q", s)).WithValue(s)
		}
		inner := s[1 : len(s)-1]
		if strings.TrimSpace(inner) == "" {
			return []any{}, nil
		}
		elems, err := splitTop(inner, ',')
		if err != nil {
			return nil, err
		}
		list := make([]any, 0, len(elems))
		for _, elem := range elems {
			v, err := ParseValue(elem)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	}

	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n, nil
	}
	return s, nil
}

// parseObject parses the interior of a braced object literal as
// key=value pairs, values parsed recursively.
func parseObject(inner string) (map[string]any, error) {
	obj := make(map[string]any)
	if strings.TrimSpace(inner) == "" {
		return obj, nil
	}
	pairs, err := splitTop(inner, ',')
	if err != nil {
		return nil, err
	}
	for _, pair := range pairs {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		eq := indexTop(pair, '=')
		if eq < 0 {
			return nil, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrMalformedParameter,
				fmt.Sprintf("object entry %q is not a key=value pair", strings.TrimSpace(pair)))
		}
		key := strings.TrimSpace(pair[:eq])
		if key == "" {
			return nil, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrEmptyParameterName,
				fmt.Sprintf("missing key in object entry %q", strings.TrimSpace(pair)))
		}
		value, err := ParseValue(pair[eq+1:])
		if err != nil {
			return nil, err
		}
		obj[key] = value
	}
	return obj, nil
}

// unquote strips matching quotes and resolves backslash escapes.
func unquote(s string) (string, error) {
	quote := s[0]
	var b strings.Builder
	i := 1
	for i < len(s) {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			b.WriteByte(s[i+1])
			i += 2
			continue
		}
		if c == quote {
			if i != len(s)-1 {
				return "", wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrMalformedParameter,
					fmt.Sprintf("trailing content after closing quote in %q", s)).WithValue(s)
			}
			return b.String(), nil
		}
		b.WriteByte(c)
		i++
	}
	return "", wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrUnterminatedQuote,
		fmt.Sprintf("unterminated quoted value %q", s)).WithValue(s)
}

// splitTop splits s on sep at the top level only, honoring quotes and
// bracket/brace nesting.
func splitTop(s string, sep byte) ([]string, error) {
	var parts []string
	brackets := 0
	braces := 0
	var quote byte
	last := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
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
		case '[':
			brackets++
		case ']':
			brackets--
			if brackets < 0 {
				return nil, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrUnterminatedList,
					fmt.Sprintf("unbalanced ']' in %q", s)).WithValue(s)
			}
		case '{':
			braces++
		case '}':
			braces--
			if braces < 0 {
				return nil, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrUnterminatedList,
					fmt.Sprintf("unbalanced '}' in %q", s)).WithValue(s)
			}
		case sep:
			if brackets == 0 && braces == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	if quote != 0 {
		return nil, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrUnterminatedQuote,
			fmt.Sprintf("unterminated quoted value in %q", s)).WithValue(s)
	}
	if brackets != 0 {
		return nil, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrUnterminatedList,
			fmt.Sprintf("unterminated bracketed list in %q", s)).WithValue(s)
	}
	if braces != 0 {
		return nil, wefterrors.New(wefterrors.PhaseParser, wefterrors.ErrUnterminatedList,
			fmt.Sprintf("unterminated object in %q", s)).WithValue(s)
	}
	parts = append(parts, s[last:])
	return parts, nil
}

// indexTop returns the index of the first top-level occurrence of sep,
// or -1. Occurrences inside quotes, brackets or braces do not count.
func indexTop(s string, sep byte) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
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
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case sep:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
