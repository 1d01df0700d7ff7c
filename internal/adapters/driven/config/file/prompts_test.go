package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

func TestPromptStore_LoadDefaults(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{
		driven.PromptQuestionRewrite,
		driven.PromptAnswer,
		driven.PromptDocumentQA,
	} {
		prompt, err := store.Load(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, prompt, name)
		assert.Contains(t, prompt, "{question}", name)
	}
}

func TestPromptStore_CreatesFilesOnFirstLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Constructor performs no I/O.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = store.Load(driven.PromptAnswer)
	require.NoError(t, err)

	for _, name := range []string{"question_rewrite.txt", "answer.txt", "document_qa.txt", "README.md"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestPromptStore_UserOverride(t *testing.T) {
	dir := t.TempDir()
	custom := "Answer using {context} for {question}, tersely."
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer.txt"), []byte(custom+"\n"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptAnswer)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt, "user file wins over the default and is trimmed")
}

func TestPromptStore_ReloadPicksUpEdits(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	original, err := store.Load(driven.PromptAnswer)
	require.NoError(t, err)

	edited := "Edited: {context} {question}"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer.txt"), []byte(edited), 0600))

	// Cached until reloaded.
	cached, err := store.Load(driven.PromptAnswer)
	require.NoError(t, err)
	assert.Equal(t, original, cached)

	store.Reload()
	fresh, err := store.Load(driven.PromptAnswer)
	require.NoError(t, err)
	assert.Equal(t, edited, fresh)
}

func TestPromptStore_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("no_such_prompt")
	assert.Error(t, err)
}

func TestPromptStore_DocumentQAKeepsLiteralPercents(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptDocumentQA)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Almost 90%", "literal percent signs survive in the template")
}
