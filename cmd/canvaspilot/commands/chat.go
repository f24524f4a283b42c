package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// newChatCmd creates the `canvaspilot chat` command for talking to the
// assistant from the terminal.
func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the assistant",
		Long: `Send one message to the assistant, or start an interactive session
when no message is given.

Examples:
  canvaspilot chat "import https://docs.google.com/spreadsheets/d/..."
  canvaspilot chat  # interactive mode`,
		Args: cobra.MaximumNArgs(1),
		RunE: runChat,
	}

	cmd.Flags().StringP("session", "s", "", "session id to continue (a new one is generated otherwise)")
	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	assistant, _, _, err := buildAssistant(cmd)
	if err != nil {
		return err
	}

	sessionID, _ := cmd.Flags().GetString("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx := context.Background()

	// Single-shot mode.
	if len(args) > 0 {
		reply, _, err := assistant.HandleMessage(ctx, sessionID, args[0], nil)
		if err != nil {
			return err
		}
		fmt.Println(reply)
		return nil
	}

	// Interactive mode.
	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".canvaspilot_history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "> ",
		HistoryFile: historyFile,
	})
	if err != nil {
		return fmt.Errorf("starting terminal: %w", err)
	}
	defer rl.Close()

	fmt.Printf("Session %s. Type a message, or 'exit' to quit.\n", sessionID)
	for {
		line, err := rl.Readline()
		if err != nil { // Ctrl-C or Ctrl-D
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		reply, state, err := assistant.HandleMessage(ctx, sessionID, line, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(reply)
		if len(state.Items) > 0 {
			fmt.Printf("[canvas: %d items]\n", len(state.Items))
		}
	}
	return nil
}
