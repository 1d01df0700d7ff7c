package recursive

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

func testDoc(content string) *domain.Document {
	return &domain.Document{ID: "doc-1", Name: "test.txt", Content: content}
}

// reconstruct rebuilds the source text from chunks by stripping the
// overlap each chunk carries from its predecessor.
func reconstruct(chunks []domain.Chunk) string {
	var b strings.Builder
	for i, ch := range chunks {
		if i == 0 {
			b.WriteString(ch.Content)
			continue
		}
		text := b.String()
		// Longest suffix of what we have that prefixes this chunk.
		shared := 0
		for n := len(ch.Content); n > 0; n-- {
			if strings.HasSuffix(text, ch.Content[:n]) {
				shared = n
				break
			}
		}
		b.WriteString(ch.Content[shared:])
	}
	return b.String()
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s, err := New()
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultChunkSize, s.chunkSize)
		assert.Equal(t, domain.DefaultChunkOverlap, s.overlap)
		assert.Equal(t, DefaultSeparators, s.separators)
	})

	t.Run("overlap equals chunk size", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(100))
		assert.ErrorIs(t, err, domain.ErrInvalidChunking)
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(150))
		assert.ErrorIs(t, err, domain.ErrInvalidChunking)
	})

	t.Run("negative overlap", func(t *testing.T) {
		_, err := New(WithOverlap(-1))
		assert.ErrorIs(t, err, domain.ErrInvalidChunking)
	})

	t.Run("zero chunk size", func(t *testing.T) {
		_, err := New(WithChunkSize(0), WithOverlap(0))
		assert.ErrorIs(t, err, domain.ErrInvalidChunking)
	})
}

func TestSplitter_Name(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	assert.Equal(t, "recursive", s.Name())
}

func TestSplitter_Split_EmptyDocument(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	_, err = s.Split(context.Background(), testDoc(""))
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)

	_, err = s.Split(context.Background(), testDoc("   \n\n  "))
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)

	_, err = s.Split(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSplitter_Split_ShortText(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	chunks, err := s.Split(context.Background(), testDoc("A short document."))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "A short document.", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Position)
	assert.Equal(t, "doc-1", chunks[0].DocumentID)
	assert.NotEmpty(t, chunks[0].ID)
}

func TestSplitter_Split_ChunkSizeRespected(t *testing.T) {
	s, err := New(WithChunkSize(100), WithOverlap(20))
	require.NoError(t, err)

	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 30)
	chunks, err := s.Split(context.Background(), testDoc(text))
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, ch := range chunks {
		assert.LessOrEqual(t, len(ch.Content), 100, "chunk %d exceeds size", i)
		assert.Equal(t, i, ch.Position)
	}
}

func TestSplitter_Split_NoContentDropped(t *testing.T) {
	s, err := New(WithChunkSize(80), WithOverlap(16))
	require.NoError(t, err)

	text := "First paragraph with some words.\n\n" +
		"Second paragraph, also with several words in it.\n\n" +
		"Third paragraph. It has two sentences, the second a bit longer than the first one.\n" +
		"And a trailing line without a final period"
	chunks, err := s.Split(context.Background(), testDoc(text))
	require.NoError(t, err)

	assert.Equal(t, text, reconstruct(chunks))
}

func TestSplitter_Split_OverlapCarried(t *testing.T) {
	s, err := New(WithChunkSize(100), WithOverlap(30))
	require.NoError(t, err)

	// Small uniform words keep every window dense, so each boundary
	// carries the full configured overlap.
	text := strings.Repeat("alpha beta gamma delta epsilon ", 20)
	chunks, err := s.Split(context.Background(), testDoc(text))
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 0; i < len(chunks)-1; i++ {
		tail := chunks[i].Content[len(chunks[i].Content)-30:]
		assert.True(t, strings.HasPrefix(chunks[i+1].Content, tail),
			"chunk %d does not start with the previous chunk's 30-char tail", i+1)
	}
}

func TestSplitter_Split_Idempotent(t *testing.T) {
	s, err := New(WithChunkSize(120), WithOverlap(24))
	require.NoError(t, err)

	text := strings.Repeat("Sentence number one. Sentence number two.\n", 25)

	first, err := s.Split(context.Background(), testDoc(text))
	require.NoError(t, err)
	second, err := s.Split(context.Background(), testDoc(text))
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Content, second[i].Content)
		assert.Equal(t, first[i].Position, second[i].Position)
	}
}

func TestSplitter_Split_AtomicTokenEmittedWhole(t *testing.T) {
	s, err := New(WithChunkSize(20), WithOverlap(4))
	require.NoError(t, err)

	token := strings.Repeat("x", 50)
	text := "short words here. " + token + " more short words."
	chunks, err := s.Split(context.Background(), testDoc(text))
	require.NoError(t, err)

	found := false
	for _, ch := range chunks {
		if strings.Contains(ch.Content, token) {
			found = true
			break
		}
	}
	assert.True(t, found, "atomic over-long token should be emitted whole")
}

func TestSplitter_Split_PrefersParagraphBreaks(t *testing.T) {
	s, err := New(WithChunkSize(60), WithOverlap(0))
	require.NoError(t, err)

	text := "Alpha paragraph here, under sixty chars.\n\n" +
		"Beta paragraph here, also under sixty chars."
	chunks, err := s.Split(context.Background(), testDoc(text))
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "Alpha paragraph here, under sixty chars.\n\n", chunks[0].Content)
	assert.Equal(t, "Beta paragraph here, also under sixty chars.", chunks[1].Content)
}
