package blocks

// Equal reports whether two blocks render identically. Blocks of different
// kinds are never equal, and TextDiff blocks are never equal to anything so
// diff highlighting is always recomputed.
func Equal(a, b Block) bool {
	if a == nil || b == nil {
		return false
	}
	switch x := a.(type) {
	case *MarkdownText:
		y, ok := b.(*MarkdownText)
		return ok && x.Content == y.Content
	case *FencedCode:
		y, ok := b.(*FencedCode)
		return ok && x.Title == y.Title && x.Code == y.Code && x.Partial == y.Partial
	case *DangerousHTML:
		y, ok := b.(*DangerousHTML)
		return ok && x.HTML == y.HTML
	case *ImageReference:
		y, ok := b.(*ImageReference)
		return ok && x.URL == y.URL && x.Alt == y.Alt
	default:
		return false
	}
}
