package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

func TestLoadNilInput(t *testing.T) {
	l := New()

	_, err := l.Load(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadNotAPDF(t *testing.T) {
	l := New()

	_, err := l.Load(context.Background(), &domain.RawDocument{
		Name:     "fake.pdf",
		MIMEType: "application/pdf",
		Content:  []byte("this is not pdf data"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestSupportedMIMETypes(t *testing.T) {
	l := New()
	assert.Equal(t, []string{"application/pdf"}, l.SupportedMIMETypes())
	assert.Equal(t, "pdf", l.Format())
}
