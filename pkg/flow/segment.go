package flow

import "strings"

// Text segmentation helpers. Offsets are byte offsets into the master text;
// tokens are maximal runs of non-whitespace, sentences end at '.', '?' or
// '!' immediately followed by whitespace.

// isSpace matches the whitespace classes used for tokenization. The master
// text is authored prose, so ASCII whitespace plus the usual control
// characters cover every boundary the authoring tools emit.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// isTerminator matches sentence-ending punctuation.
func isTerminator(c byte) bool {
	return c == '.' || c == '?' || c == '!'
}

// wordSliceEnd returns the absolute end offset of the first take tokens of
// text[start:]. When take covers every remaining token the whole remainder
// is consumed (end = len(text)), so trailing whitespace never strands the
// cursor short of the end.
func wordSliceEnd(text string, start, take int) int {
	if take <= 0 {
		return start
	}
	i := start
	n := len(text)
	count := 0
	end := start
	for i < n {
		for i < n && isSpace(text[i]) {
			i++
		}
		if i >= n {
			break
		}
		for i < n && !isSpace(text[i]) {
			i++
		}
		count++
		end = i
		if count == take {
			// Peek ahead: if only whitespace remains, take the tail too.
			j := i
			for j < n && isSpace(text[j]) {
				j++
			}
			if j >= n {
				return n
			}
			return end
		}
	}
	// Fewer tokens than requested: consume the entire remainder.
	return n
}

// sentenceBoundaries returns the offsets just past each sentence terminator
// in s that is immediately followed by whitespace. A terminator at the very
// end of s has no following whitespace and is not a boundary.
func sentenceBoundaries(s string) []int {
	var out []int
	for i := 0; i+1 < len(s); i++ {
		if isTerminator(s[i]) && isSpace(s[i+1]) {
			out = append(out, i+1)
		}
	}
	return out
}

// snapEnd shrinks a provisional excerpt to end right after its last
// complete sentence, returning the new length. The excerpt is left alone
// when it contains no internal sentence boundary (a single, possibly
// incomplete sentence) or when nothing but whitespace follows the last
// boundary (the excerpt already ends on a sentence).
func snapEnd(s string) int {
	b := sentenceBoundaries(s)
	if len(b) == 0 {
		return len(s)
	}
	last := b[len(b)-1]
	if strings.TrimSpace(s[last:]) == "" {
		return len(s)
	}
	return last
}

// trimLastSentence removes the excerpt's last sentence, returning the new
// length. With a single sentence present there is nothing to remove and the
// length is unchanged.
func trimLastSentence(s string) int {
	b := sentenceBoundaries(s)
	if len(b) == 0 {
		return len(s)
	}
	last := b[len(b)-1]
	if strings.TrimSpace(s[last:]) != "" {
		// The piece after the last boundary is the last sentence.
		return last
	}
	// The excerpt ends on a boundary; the last sentence starts at the
	// previous one.
	if len(b) == 1 {
		return len(s)
	}
	return b[len(b)-2]
}

// countTokens counts whitespace-separated tokens in s.
// Exposed for tests and for the inspect tooling's flow statistics.
func countTokens(s string) int {
	return len(strings.Fields(s))
}
