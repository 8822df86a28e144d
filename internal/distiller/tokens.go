package distiller

import (
	"strings"
	"unicode"
)

// EstimateTokens approximates the token count an LLM tokenizer would produce
// for the given text. It is deterministic: the same text always yields the
// same count, so original and distilled counts are comparable.
//
// The heuristic counts word and punctuation runs, then adds a correction for
// long identifiers which tokenizers split into subwords (roughly one extra
// token per 8 characters beyond the first 8).
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	tokens := 0
	runLen := 0
	flush := func() {
		if runLen == 0 {
			return
		}
		tokens++
		if runLen > 8 {
			tokens += (runLen - 1) / 8
		}
		runLen = 0
	}

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			runLen++
		default:
			// Punctuation is its own token.
			flush()
			tokens++
		}
	}
	flush()

	return tokens
}

// symbolTokens counts the tokens of everything retained for a symbol:
// signature, docstring, and all member signatures and docs.
func symbolTokens(sym ExportedSymbol) int {
	n := EstimateTokens(sym.Signature) + EstimateTokens(sym.Doc)
	for _, m := range sym.Members {
		n += EstimateTokens(m.Signature) + EstimateTokens(m.Doc)
	}
	return n
}

// distilledTokens sums token counts across every retained export of a result.
func distilledTokens(exports []ExportedSymbol) int {
	n := 0
	for _, sym := range exports {
		n += symbolTokens(sym)
	}
	return n
}

// compressionRatio computes round((original-distilled)/original*100) clamped
// to [0,100]. Zero original tokens yields zero.
func compressionRatio(original, distilled int) int {
	if original <= 0 {
		return 0
	}
	saved := original - distilled
	ratio := int(float64(saved)/float64(original)*100 + 0.5)
	if saved < 0 {
		// Rounding toward zero for the (rare) expansion case.
		ratio = 0
	}
	if ratio > 100 {
		ratio = 100
	}
	return ratio
}

// countLines returns the number of lines in the source text. A trailing
// newline does not open an extra line.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
