package splitter

import (
	"strings"
	"testing"
)

func TestSplitEmptyInput(t *testing.T) {
	if chunks := Split("", 1000, 200); chunks != nil {
		t.Fatalf("expected no chunks for empty input, got %d", len(chunks))
	}
}

func TestSplitShortInputSingleChunk(t *testing.T) {
	text := "Alpha Beta Gamma"
	chunks := Split(text, 1000, 200)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Fatalf("chunk does not equal input: %q", chunks[0])
	}
}

func TestSplitExactOverlapWithoutSeparators(t *testing.T) {
	text := strings.Repeat("a", 2500)
	chunks := Split(text, 1000, 200)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		if !strings.HasPrefix(cur, prev[len(prev)-200:]) {
			t.Fatalf("chunk %d does not overlap its predecessor by 200 characters", i)
		}
	}
}

func TestSplitRoundTripWithoutSeparators(t *testing.T) {
	var sb strings.Builder
	for i := 0; sb.Len() < 5000; i++ {
		sb.WriteByte(byte('a' + i%26))
	}
	text := sb.String()

	chunks := Split(text, 1000, 200)
	var rebuilt strings.Builder
	for i, c := range chunks {
		if i == 0 {
			rebuilt.WriteString(c)
			continue
		}
		rebuilt.WriteString(c[200:])
	}
	if rebuilt.String() != text {
		t.Fatal("overlap-stripped concatenation does not reconstruct the input")
	}
}

func TestSplitPrefersNewlineBoundary(t *testing.T) {
	// A newline at offset 900 sits inside the first 1000-character window, so
	// the first cut should land just after it, not at 1000.
	text := strings.Repeat("a", 900) + "\n" + strings.Repeat("b", 600)
	chunks := Split(text, 1000, 200)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "\n") {
		t.Fatalf("first chunk should end at the newline boundary, got tail %q", chunks[0][len(chunks[0])-5:])
	}
	if len(chunks[0]) != 901 {
		t.Fatalf("expected first chunk of length 901, got %d", len(chunks[0]))
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("the quick brown fox\n", 200)
	first := Split(text, 1000, 200)
	second := Split(text, 1000, 200)
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitNoEmptyChunks(t *testing.T) {
	text := "\n\n" + strings.Repeat("x\n", 2000)
	for i, c := range Split(text, 1000, 200) {
		if c == "" {
			t.Fatalf("chunk %d is empty", i)
		}
	}
}

func TestSplitAlwaysProgresses(t *testing.T) {
	// Newlines right at the window start must not stall the walk.
	text := strings.Repeat(strings.Repeat("a", 10)+"\n", 1000)
	chunks := Split(text, 100, 90)
	var total int
	for _, c := range chunks {
		total += len(c)
	}
	if total < len(text) {
		t.Fatalf("chunks cover %d of %d input characters", total, len(text))
	}
}
