package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

var askFull bool

var askCmd = &cobra.Command{
	Use:   "ask [file] [question]",
	Short: "Ask a single question about a document",
	Long: `Loads the document, asks one question and prints the answer.

By default the answer is grounded on the most relevant passages of the
document. With --full the entire document is supplied to the model
instead, which suits small files and summarisation questions.`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askFull, "full", false, "answer against the full document, skipping retrieval")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cleanup, err := ensureServices()
	if err != nil {
		return err
	}
	defer cleanup()

	raw, err := readRawDocument(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	session := chatService.Open()
	defer func() { _ = chatService.Close(session.ID) }()

	if err := chatService.Ingest(ctx, session.ID, raw); err != nil {
		return fmt.Errorf("ingest %s: %w", raw.Name, err)
	}

	ask := chatService.Ask
	if askFull {
		ask = chatService.AskDocument
	}
	stream, err := ask(ctx, session.ID, args[1])
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	if err := printStream(cmd, stream); err != nil {
		return err
	}
	if trailer := sourceTrailer(stream.Passages); trailer != "" {
		cmd.Println()
		cmd.Println(trailer)
	}
	return nil
}

// printStream writes answer fragments as they arrive, ending with a
// newline once the stream closes.
func printStream(cmd *cobra.Command, stream *driving.AnswerStream) error {
	wrote := false
	for tok := range stream.Tokens {
		if tok.Err != nil {
			if wrote {
				cmd.Println()
			}
			return tok.Err
		}
		if tok.Content != "" {
			cmd.Print(tok.Content)
			wrote = true
		}
	}
	if wrote {
		cmd.Println()
	}
	return nil
}

// sourceTrailer lists the identifiers of every passage supplied as
// grounding context, in reading order.
func sourceTrailer(passages []domain.RetrievedPassage) string {
	if len(passages) == 0 {
		return ""
	}

	positions := make([]int, len(passages))
	for i, p := range passages {
		positions[i] = p.Chunk.Position
	}
	sort.Ints(positions)

	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return "Sources: " + strings.Join(parts, ", ")
}

// readRawDocument loads a file from disk into an upload. The MIME type
// comes from the file extension; the loader registry sniffs unknown
// extensions itself, so an empty type is fine here.
func readRawDocument(path string) (*domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &domain.RawDocument{
		URI:      path,
		Name:     filepath.Base(path),
		MIMEType: mime.TypeByExtension(filepath.Ext(path)),
		Content:  content,
	}, nil
}
