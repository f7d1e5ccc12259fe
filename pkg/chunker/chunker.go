// Package chunker splits extracted document text into bounded passages that
// can be embedded and retrieved independently.
package chunker

import (
	"regexp"
	"strings"
)

// DefaultChunkSize is the character threshold above which a paragraph is
// re-split on sentence boundaries.
const DefaultChunkSize = 1000

var (
	paragraphSplit = regexp.MustCompile(`\n[ \t]*\n+`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	sentenceEnd    = regexp.MustCompile(`[.!?]\s+`)
)

// Split breaks raw text into chunks of at most DefaultChunkSize characters.
// Paragraphs (blank-line separated) are kept intact when they fit; longer
// paragraphs are re-split on sentence boundaries and sentences are greedily
// packed into sub-chunks. Whitespace runs inside a chunk are collapsed to
// single spaces and empty candidates are dropped.
func Split(text string) []string {
	return SplitSize(text, DefaultChunkSize)
}

// SplitSize is Split with an explicit character threshold.
func SplitSize(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")

	var chunks []string
	for _, candidate := range paragraphSplit.Split(text, -1) {
		candidate = strings.TrimSpace(whitespaceRun.ReplaceAllString(candidate, " "))
		if candidate == "" {
			continue
		}
		if len(candidate) <= chunkSize {
			chunks = append(chunks, candidate)
			continue
		}
		chunks = append(chunks, packSentences(candidate, chunkSize)...)
	}
	return chunks
}

// packSentences re-splits an oversized paragraph on terminal punctuation and
// greedily packs sentences, flushing the current sub-chunk whenever appending
// the next sentence would cross the threshold.
func packSentences(paragraph string, chunkSize int) []string {
	var chunks []string
	var current strings.Builder

	for _, sentence := range splitSentences(paragraph) {
		if current.Len() > 0 && current.Len()+len(sentence)+1 > chunkSize {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(sentence)
		current.WriteString(" ")
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}

// splitSentences cuts text after terminal punctuation followed by whitespace.
// A trailing fragment without terminal punctuation is kept as its own
// sentence so no text is lost.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		sentences = append(sentences, strings.TrimSpace(text[start:loc[0]+1]))
		start = loc[1]
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}
