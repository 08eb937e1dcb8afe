// Package chunker splits extracted document text into bounded, optionally
// overlapping segments of whole words for retrieval indexing.
package chunker

import "strings"

const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// Split breaks text into an ordered sequence of non-empty chunks. Whole
// words are accumulated greedily; a chunk is flushed before a word would
// push its length past size, so every chunk stays within the budget except
// when a single word alone exceeds it, in which case that word is emitted
// whole rather than truncated. When overlap > 0, each chunk after the first
// repeats the trailing words of the previous chunk up to overlap characters.
// Blank input yields nil. Split cannot fail.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var cur []string
	curLen := 0
	fresh := 0 // words appended since the last flush

	for _, w := range words {
		add := len(w)
		if curLen > 0 {
			add++ // joining space
		}
		if curLen > 0 && curLen+add > size {
			chunks = append(chunks, strings.Join(cur, " "))
			cur, curLen = carryTail(cur, overlap)
			fresh = 0
			add = len(w)
			if curLen > 0 {
				add++
			}
		}
		cur = append(cur, w)
		curLen += add
		fresh++
	}
	if fresh > 0 {
		chunks = append(chunks, strings.Join(cur, " "))
	}
	return chunks
}

// carryTail returns a copy of the trailing words whose joined length fits
// within overlap characters, along with that length.
func carryTail(words []string, overlap int) ([]string, int) {
	if overlap <= 0 {
		return nil, 0
	}
	total := 0
	i := len(words)
	for i > 0 {
		add := len(words[i-1])
		if total > 0 {
			add++
		}
		if total+add > overlap {
			break
		}
		total += add
		i--
	}
	if i == len(words) {
		return nil, 0
	}
	carried := make([]string, len(words)-i)
	copy(carried, words[i:])
	return carried, total
}
