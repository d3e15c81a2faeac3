package blocks

import "testing"

func TestRecycleKeepsEqualPrefix(t *testing.T) {
	prev := []Block{
		&MarkdownText{Content: "a"},
		&FencedCode{Title: "go", Code: "x"},
		&MarkdownText{Content: "b"},
	}
	next := []Block{
		&MarkdownText{Content: "a"},
		&FencedCode{Title: "go", Code: "x"},
		&MarkdownText{Content: "b and more"},
		&ImageReference{URL: "i.png"},
	}
	got := Recycle(next, prev)
	if len(got) != len(next) {
		t.Fatalf("expected %d blocks, got %d", len(next), len(got))
	}
	for i := 0; i < 2; i++ {
		if got[i] != prev[i] {
			t.Errorf("block %d: expected previous pointer", i)
		}
	}
	for i := 2; i < len(next); i++ {
		if got[i] != next[i] {
			t.Errorf("block %d: expected new pointer", i)
		}
	}
}

func TestRecycleStopsAtFirstMismatch(t *testing.T) {
	prev := []Block{
		&MarkdownText{Content: "a"},
		&MarkdownText{Content: "b"},
		&MarkdownText{Content: "c"},
	}
	next := []Block{
		&MarkdownText{Content: "a"},
		&MarkdownText{Content: "CHANGED"},
		&MarkdownText{Content: "c"},
	}
	got := Recycle(next, prev)
	if got[0] != prev[0] {
		t.Error("expected block 0 recycled")
	}
	if got[2] == prev[2] {
		t.Error("blocks after the first mismatch must not be recycled even when equal")
	}
}

func TestRecycleDegradesGracefully(t *testing.T) {
	a := &MarkdownText{Content: "a"}
	tests := []struct {
		name      string
		next      []Block
		prev      []Block
		wantReuse int
	}{
		{"no previous", []Block{&MarkdownText{Content: "a"}}, nil, 0},
		{"empty next", nil, []Block{a}, 0},
		{"shrink", []Block{&MarkdownText{Content: "a"}}, []Block{a, &MarkdownText{Content: "b"}}, 1},
		{"kind change", []Block{&DangerousHTML{HTML: "a"}}, []Block{a}, 0},
		{"reorder", []Block{&MarkdownText{Content: "b"}, &MarkdownText{Content: "a"}}, []Block{a, &MarkdownText{Content: "b"}}, 0},
		{"diff blocks", []Block{&TextDiff{}}, []Block{&TextDiff{}}, 0},
		{"nil entry", []Block{&MarkdownText{Content: "a"}}, []Block{nil}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recycle(tt.next, tt.prev)
			if len(got) != len(tt.next) {
				t.Fatalf("expected %d blocks, got %d", len(tt.next), len(got))
			}
			if n := CommonPrefix(tt.next, tt.prev); n != tt.wantReuse {
				t.Errorf("CommonPrefix = %d, want %d", n, tt.wantReuse)
			}
			for i := range got {
				if !Equal(got[i], tt.next[i]) && got[i] != tt.next[i] {
					t.Errorf("block %d: content differs from next", i)
				}
			}
		})
	}
}

func TestRecycleDoesNotModifyInputs(t *testing.T) {
	prev := []Block{&MarkdownText{Content: "a"}}
	nextA := &MarkdownText{Content: "a"}
	next := []Block{nextA}
	Recycle(next, prev)
	if next[0] != nextA {
		t.Error("Recycle must not write into next")
	}
}

func TestRecycleIdempotent(t *testing.T) {
	y := Classify("old\n```go\nx", RoleAssistant, Options{})
	x := Classify("Hello\n```go\nx\n```\nWorld", RoleAssistant, Options{})

	first := Recycle(x, Recycle(x, y))
	second := Recycle(x, first)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("block %d: identity changed on repeated identical input", i)
		}
	}
}

func TestStreamTracksGrowingText(t *testing.T) {
	var s Stream
	text := "Intro\n```go\nfunc main() {}\n```\nOutro"

	var prev []Block
	for i := 1; i <= len(text); i++ {
		got := s.Classify(text[:i], RoleAssistant, Options{})
		keep := CommonPrefix(got, prev)
		if s.Reused() != keep {
			t.Fatalf("prefix %d: Reused() = %d, want %d", i, s.Reused(), keep)
		}
		for j := 0; j < keep; j++ {
			if got[j] != prev[j] {
				t.Fatalf("prefix %d: block %d lost identity", i, j)
			}
		}
		prev = got
	}

	final := s.Blocks()
	if len(final) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(final))
	}
	again := s.Classify(text, RoleAssistant, Options{})
	for i := range again {
		if again[i] != final[i] {
			t.Errorf("block %d: identity changed for unchanged text", i)
		}
	}
}

func TestStreamReset(t *testing.T) {
	var s Stream
	first := s.Classify("same", RoleAssistant, Options{})
	s.Reset()
	if s.Blocks() != nil {
		t.Fatal("expected Reset to clear the previous list")
	}
	second := s.Classify("same", RoleAssistant, Options{})
	if first[0] == second[0] {
		t.Error("blocks from before Reset must not be reused")
	}
}

func TestStreamsAreIndependent(t *testing.T) {
	var a, b Stream
	fromA := a.Classify("shared text", RoleAssistant, Options{})
	fromB := b.Classify("shared text", RoleAssistant, Options{})
	if fromA[0] == fromB[0] {
		t.Error("separate streams must not share block identity")
	}
}
