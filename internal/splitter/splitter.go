// Package splitter cuts extracted document text into overlapping
// fixed-size chunks for embedding and retrieval.
package splitter

import "strings"

const (
	DefaultChunkSize    = 1000 // characters
	DefaultChunkOverlap = 200  // characters
)

// Split breaks content into chunks of at most size characters, each
// overlapping its predecessor by overlap characters. When a newline exists
// inside a chunk window the cut moves back to just after the last newline,
// otherwise the cut lands at the exact nominal offset. The final chunk may be
// shorter than size. Empty content yields no chunks. The result is
// deterministic for identical input and parameters.
func Split(content string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}
	if len(content) == 0 {
		return nil
	}
	if len(content) <= size {
		return []string{content}
	}

	var chunks []string
	start := 0
	for start < len(content) {
		end := start + size
		if end >= len(content) {
			chunks = append(chunks, content[start:])
			break
		}
		// Prefer a newline boundary when the window contains one.
		if i := strings.LastIndexByte(content[start:end], '\n'); i > 0 {
			end = start + i + 1
		}
		chunks = append(chunks, content[start:end])

		next := end - overlap
		if next <= start {
			// Overlap would stall on a short separator-adjusted chunk.
			next = end
		}
		start = next
	}
	return chunks
}
