package parser

// Span is a half-open [Start, End) byte range into the original text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Token is one extracted annotation in document order: the directive
// name, the unparsed parameter source text (the content between the
// parentheses, without them), the exact matched source, and where in the
// original text the annotation appeared. Document order among tokens is
// the default application order unless a meta-directive overrides it.
type Token struct {
	Name          string `json:"name"`
	RawParameters string `json:"raw_parameters,omitempty"`
	Source        string `json:"source"`
	Span          Span   `json:"span"`
}

// Reinsert splices the tokens' source text back into the residual text
// at their recorded spans, reconstructing the original input exactly.
// It is the inverse of Extract and exists so span bookkeeping stays
// verifiable.
func Reinsert(residual string, tokens []Token) string {
	out := make([]byte, 0, len(residual)+totalSourceLen(tokens))
	removed := 0
	cursor := 0
	for _, tok := range tokens {
		keep := tok.Span.Start - removed
		out = append(out, residual[cursor:keep]...)
		out = append(out, tok.Source...)
		cursor = keep
		removed += len(tok.Source)
	}
	out = append(out, residual[cursor:]...)
	return string(out)
}

func totalSourceLen(tokens []Token) int {
	n := 0
	for _, tok := range tokens {
		n += len(tok.Source)
	}
	return n
}
