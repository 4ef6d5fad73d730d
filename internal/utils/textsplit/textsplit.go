// Package textsplit breaks long documents into overlapping chunks for embedding.
package textsplit

import (
	"strings"
	"unicode/utf8"

	"trpc.group/trpc-go/trpc-agent-go/knowledge/chunking"
	"trpc.group/trpc-go/trpc-agent-go/knowledge/document"
)

// DefaultSeparators are tried in order: paragraphs, lines, words, then single characters.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts text on the coarsest separator that keeps pieces under ChunkSize, then
// packs neighbouring pieces back into chunks of at most ChunkSize characters. Consecutive
// chunks share up to ChunkOverlap characters of trailing context.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string

	chunker *chunking.RecursiveChunking
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithSeparators replaces the separator hierarchy. Single characters stay the last resort.
func WithSeparators(seps ...string) Option {
	return func(s *Splitter) {
		s.Separators = seps
	}
}

// New returns a Splitter. An overlap not smaller than size is clamped to zero.
func New(size, overlap int, opts ...Option) *Splitter {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	s := &Splitter{ChunkSize: size, ChunkOverlap: overlap, Separators: DefaultSeparators}
	for _, opt := range opts {
		opt(s)
	}

	seps := s.Separators
	if len(seps) == 0 || seps[len(seps)-1] != "" {
		seps = append(append([]string(nil), seps...), "")
	}
	// Overlap is applied in pack: the chunker's own overlap is byte based and may
	// push a chunk past the size limit.
	s.chunker = chunking.NewRecursiveChunking(
		chunking.WithRecursiveChunkSize(size),
		chunking.WithRecursiveOverlap(0),
		chunking.WithRecursiveSeparators(seps),
	)
	return s
}

// segment is one chunker piece located in the normalised text.
type segment struct {
	start, end         int // byte offsets
	runeStart, runeEnd int
}

// Split returns the chunks of text in document order. Blank chunks are dropped.
func (s *Splitter) Split(text string) []string {
	text = normalize(text)
	if text == "" {
		return nil
	}

	pieces, err := s.chunker.Chunk(&document.Document{Content: text})
	if err != nil {
		return nil
	}

	segments := make([]segment, 0, len(pieces))
	cursor, runes := 0, 0
	for _, p := range pieces {
		idx := strings.Index(text[cursor:], p.Content)
		if idx < 0 {
			return contents(pieces)
		}
		start := cursor + idx
		runeStart := runes + utf8.RuneCountInString(text[cursor:start])
		end := start + len(p.Content)
		runeEnd := runeStart + utf8.RuneCountInString(p.Content)
		segments = append(segments, segment{start: start, end: end, runeStart: runeStart, runeEnd: runeEnd})
		cursor, runes = end, runeEnd
	}
	return s.pack(text, segments)
}

// pack groups consecutive segments into chunks, carrying trailing segments forward as overlap.
// A chunk is the original text between its first and last segment, separators included.
func (s *Splitter) pack(text string, segments []segment) []string {
	var chunks []string
	var window []segment
	span := func(w []segment, next *segment) int {
		if len(w) == 0 {
			if next == nil {
				return 0
			}
			return next.runeEnd - next.runeStart
		}
		end := w[len(w)-1].runeEnd
		if next != nil {
			end = next.runeEnd
		}
		return end - w[0].runeStart
	}
	emit := func() {
		if len(window) == 0 {
			return
		}
		if chunk := strings.TrimSpace(text[window[0].start:window[len(window)-1].end]); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for i := range segments {
		seg := segments[i]
		if len(window) > 0 && span(window, &seg) > s.ChunkSize {
			emit()
			for len(window) > 0 && (span(window, nil) > s.ChunkOverlap || span(window, &seg) > s.ChunkSize) {
				window = window[1:]
			}
		}
		window = append(window, seg)
	}
	emit()
	return chunks
}

// normalize mirrors the chunker's own clean-up so its pieces are substrings of the result.
func normalize(text string) string {
	text = strings.ToValidUTF8(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func contents(docs []*document.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		if c := strings.TrimSpace(d.Content); c != "" {
			out = append(out, c)
		}
	}
	return out
}
