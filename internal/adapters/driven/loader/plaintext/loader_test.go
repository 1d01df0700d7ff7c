package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

func TestLoad(t *testing.T) {
	l := New()

	doc, err := l.Load(context.Background(), &domain.RawDocument{
		Name:     "notes.txt",
		URI:      "/tmp/notes.txt",
		MIMEType: "text/plain",
		Content:  []byte("First line.\nSecond line.\n"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "notes.txt", doc.Name)
	assert.Equal(t, "/tmp/notes.txt", doc.URI)
	assert.Equal(t, "text", doc.Format)
	assert.Equal(t, "First line.\nSecond line.\n", doc.Content)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestLoadNilInput(t *testing.T) {
	l := New()

	_, err := l.Load(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadWhitespaceOnly(t *testing.T) {
	l := New()

	_, err := l.Load(context.Background(), &domain.RawDocument{
		Name:    "blank.txt",
		Content: []byte("  \n\t\n  "),
	})
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestLoadInvalidUTF8(t *testing.T) {
	l := New()

	_, err := l.Load(context.Background(), &domain.RawDocument{
		Name:    "binary.txt",
		Content: []byte{0xff, 0xfe, 0x00, 0x01},
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestSupportedMIMETypes(t *testing.T) {
	l := New()
	assert.Contains(t, l.SupportedMIMETypes(), "text/plain")
	assert.Equal(t, "text", l.Format())
}
