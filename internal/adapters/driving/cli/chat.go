package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/logger"
	"github.com/custodia-labs/docchat-cli/internal/watcher"
)

var chatWatch bool

var chatCmd = &cobra.Command{
	Use:   "chat [file]",
	Short: "Chat with a document interactively",
	Long: `Loads the document and opens an interactive chat session.

Each question is answered from the most relevant passages of the
document, with source attribution under every answer. With --watch the
file is re-indexed automatically whenever it changes on disk.

Controls:
  Enter   - Ask the typed question
  Ctrl+R  - Reload the document
  Esc     - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatWatch, "watch", false, "re-index the document when the file changes")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	// Panic recovery keeps the stack trace visible after the
	// alternate screen is torn down.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	cleanup, err := ensureServices()
	if err != nil {
		return err
	}
	defer cleanup()

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	session := chatService.Open()
	defer func() { _ = chatService.Close(session.ID) }()

	app, err := tui.NewApp(chatService, session.ID, func() (*domain.RawDocument, error) {
		return readRawDocument(path)
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())

	if chatWatch {
		w, err := watcher.New(path)
		if err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		defer func() { _ = w.Close() }()

		go w.Watch(cmd.Context(), func() {
			logger.Debug("Document changed on disk, re-indexing")
			p.Send(messages.DocumentChanged{})
		})
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
