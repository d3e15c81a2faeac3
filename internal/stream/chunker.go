// Package stream replays text as if it arrived token by token and drives
// classification, recycling and rendering for each growth step.
package stream

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Adaptive pacing constants.
const (
	ChunkerCapacity   = 500 // characters
	MinWordsPerFrame  = 1
	MaxWordsPerFrame  = 5
	MaxWordLength     = 12 // longer words are released in pieces
	DefaultChunkRunes = 4
)

// Chunks splits text into pieces of at most size runes. Pieces never cut a
// multi-byte character. Non-positive sizes use DefaultChunkRunes.
func Chunks(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkRunes
	}
	var out []string
	for len(text) > 0 {
		end, n := 0, 0
		for end < len(text) && n < size {
			_, w := utf8.DecodeRuneInString(text[end:])
			end += w
			n++
		}
		out = append(out, text[:end])
		text = text[end:]
	}
	return out
}

// Chunker buffers incoming text and releases it word by word at a pace that
// adapts to how full the buffer is. It is safe for concurrent use.
type Chunker struct {
	mu        sync.Mutex
	buffer    strings.Builder
	inputDone bool
}

// NewChunker creates an empty Chunker.
func NewChunker() *Chunker {
	return &Chunker{}
}

// Write adds incoming text to the buffer.
func (c *Chunker) Write(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffer.WriteString(text)
}

// MarkDone signals that no more input will arrive.
func (c *Chunker) MarkDone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputDone = true
}

// Drained reports whether input is done and everything was released.
func (c *Chunker) Drained() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputDone && c.buffer.Len() == 0
}

// Len returns the buffered size in bytes.
func (c *Chunker) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer.Len()
}

// wordsPerFrame scales linearly with the buffer fill level. Caller holds mu.
func (c *Chunker) wordsPerFrame() int {
	fill := float64(c.buffer.Len()) / float64(ChunkerCapacity)
	switch {
	case fill < 0.2:
		return MinWordsPerFrame
	case fill > 0.8:
		return MaxWordsPerFrame
	}
	return int(float64(MinWordsPerFrame) + float64(MaxWordsPerFrame-MinWordsPerFrame)*fill)
}

// Next releases the next few words, keeping their leading whitespace.
func (c *Chunker) Next() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buffer.Len() == 0 {
		return ""
	}
	out, rest := extractWords(c.buffer.String(), c.wordsPerFrame())
	c.buffer.Reset()
	c.buffer.WriteString(rest)
	return out
}

// FlushAll releases everything still buffered.
func (c *Chunker) FlushAll() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.buffer.String()
	c.buffer.Reset()
	return out
}

// Reset empties the buffer and clears the done flag.
func (c *Chunker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffer.Reset()
	c.inputDone = false
}

// extractWords takes up to n words from content, splitting words longer
// than MaxWordLength. Returns (extracted, remaining).
func extractWords(content string, n int) (string, string) {
	if content == "" || n <= 0 {
		return "", content
	}

	runes := []rune(content)
	pos, words := 0, 0
	var out strings.Builder

	for pos < len(runes) && words < n {
		start := pos
		for pos < len(runes) && unicode.IsSpace(runes[pos]) {
			pos++
		}
		out.WriteString(string(runes[start:pos]))
		if pos >= len(runes) {
			break
		}

		start = pos
		for pos < len(runes) && !unicode.IsSpace(runes[pos]) {
			pos++
		}
		word := runes[start:pos]
		if len(word) > MaxWordLength {
			out.WriteString(string(word[:MaxWordLength]))
			return out.String(), string(word[MaxWordLength:]) + string(runes[pos:])
		}
		out.WriteString(string(word))
		words++
	}

	return out.String(), string(runes[pos:])
}
