package blocks

// CommonPrefix returns the length of the longest prefix over which next and
// prev are pairwise Equal.
func CommonPrefix(next, prev []Block) int {
	n := min(len(next), len(prev))
	i := 0
	for i < n && Equal(prev[i], next[i]) {
		i++
	}
	return i
}

// Recycle merges a freshly classified list with the previous one. Over the
// longest equal prefix the previous block pointers are returned, so callers
// can compare by identity; from the first mismatch on, next is used as is.
// Neither input slice is modified.
func Recycle(next, prev []Block) []Block {
	keep := CommonPrefix(next, prev)
	out := make([]Block, len(next))
	copy(out, prev[:keep])
	copy(out[keep:], next[keep:])
	return out
}

// Stream is the recycling state of one content stream, such as a single
// message being streamed in. Each stream owns its own Stream value; it is
// not safe for concurrent use.
type Stream struct {
	prev   []Block
	reused int
}

// Update recycles next against the previous result and remembers the merged
// list for the following call.
func (s *Stream) Update(next []Block) []Block {
	s.reused = CommonPrefix(next, s.prev)
	merged := Recycle(next, s.prev)
	s.prev = merged
	return merged
}

// Classify classifies text and recycles the result against the previous call.
func (s *Stream) Classify(text string, role Role, opts Options) []Block {
	return s.Update(Classify(text, role, opts))
}

// Blocks returns the result of the last Update.
func (s *Stream) Blocks() []Block {
	return s.prev
}

// Reused returns how many leading blocks the last Update took from the
// previous list.
func (s *Stream) Reused() int {
	return s.reused
}

// Reset forgets the previous list. Call it when the stream is switched to
// different content, otherwise stale blocks could be reused.
func (s *Stream) Reset() {
	s.prev = nil
	s.reused = 0
}
