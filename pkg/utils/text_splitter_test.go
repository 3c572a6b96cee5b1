package utils

import (
	"strings"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		chunkSize  int
		overlap    int
		wantChunks int
	}{
		{
			name:       "short text fits in one chunk",
			text:       "hello",
			chunkSize:  10,
			overlap:    2,
			wantChunks: 1,
		},
		{
			name:       "exact chunk size",
			text:       strings.Repeat("a", 10),
			chunkSize:  10,
			overlap:    2,
			wantChunks: 1,
		},
		{
			// 20 runes, step 8: windows at 0, 8, 16.
			name:       "overlapping windows",
			text:       strings.Repeat("a", 20),
			chunkSize:  10,
			overlap:    2,
			wantChunks: 3,
		},
		{
			// overlap >= chunkSize falls back to disjoint windows.
			name:       "degenerate overlap",
			text:       strings.Repeat("a", 30),
			chunkSize:  10,
			overlap:    10,
			wantChunks: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.chunkSize, tt.overlap)
			if len(chunks) != tt.wantChunks {
				t.Errorf("SplitText() produced %d chunks, want %d", len(chunks), tt.wantChunks)
			}
			for i, c := range chunks {
				if len([]rune(c)) > tt.chunkSize {
					t.Errorf("chunk %d is %d runes, exceeds chunk size %d", i, len([]rune(c)), tt.chunkSize)
				}
			}
		})
	}
}

func TestSplitTextOverlapPreservesBoundary(t *testing.T) {
	text := "abcdefghijklmnopqrst"
	chunks := SplitText(text, 10, 4)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	first := chunks[0]
	second := chunks[1]
	if !strings.HasPrefix(second, first[len(first)-4:]) {
		t.Errorf("second chunk %q does not start with the last 4 runes of %q", second, first)
	}
}

func TestSplitTextMultibyte(t *testing.T) {
	text := strings.Repeat("日", 25)
	chunks := SplitText(text, 10, 2)

	var rejoined strings.Builder
	for _, c := range chunks {
		rejoined.WriteString(c)
	}
	if !strings.Contains(rejoined.String(), "日") || strings.Contains(rejoined.String(), "�") {
		t.Error("multibyte runes were split mid-character")
	}
}
