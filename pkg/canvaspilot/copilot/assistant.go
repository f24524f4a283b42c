// Package copilot – assistant.go wires the LLM client, the tool executor,
// and the session store into the conversational assistant. One Assistant
// serves all sessions; tools are bound per session so canvas mutations
// stay isolated.
package copilot

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/canvas"
	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/sheets"
	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/sheetsync"
)

// maxAgentTurns bounds the LLM call → tool execution loop per message.
const maxAgentTurns = 8

// Assistant is the conversational agent.
type Assistant struct {
	cfg      *Config
	llm      *LLMClient
	sheetSvc *sheetsync.Service
	sessions *SessionStore
	logger   *slog.Logger
}

// NewAssistant builds an assistant from config. client is the spreadsheet
// backend (Composio in production, Fake in tests); db may be nil for
// memory-only sessions.
func NewAssistant(cfg *Config, client sheets.Client, db *sql.DB, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		cfg:      cfg,
		llm:      NewLLMClient(cfg, logger),
		sheetSvc: sheetsync.NewService(client, logger),
		sessions: NewSessionStore(db, logger),
		logger:   logger.With("component", "assistant"),
	}
}

// SheetService exposes the sheet sync service for direct (non-chat) use by
// the HTTP layer and CLI commands.
func (a *Assistant) SheetService() *sheetsync.Service { return a.sheetSvc }

// Sessions exposes the session store.
func (a *Assistant) Sessions() *SessionStore { return a.sessions }

// HandleMessage processes one user message in a session and returns the
// assistant's reply together with the (possibly updated) canvas state.
// clientCanvas, when non-nil, replaces the session canvas before the model
// runs: the client is the source of truth for interactive edits.
func (a *Assistant) HandleMessage(ctx context.Context, sessionID, userMessage string, clientCanvas *canvas.State) (string, *canvas.State, error) {
	session := a.sessions.GetOrCreate(sessionID)
	if clientCanvas != nil {
		session.SetCanvas(clientCanvas)
	}

	executor := NewToolExecutor(a.logger)
	RegisterSheetTools(executor, a.sheetSvc, session)
	RegisterCanvasTools(executor, session)

	reply, err := a.runAgentLoop(ctx, session, executor, userMessage)
	if err != nil {
		return "", nil, err
	}

	a.sessions.SaveExchange(session, userMessage, reply)
	return reply, session.CanvasState(), nil
}

// runAgentLoop drives the LLM call → tool execution cycle until the model
// produces a final text response or the turn budget runs out.
func (a *Assistant) runAgentLoop(ctx context.Context, session *Session, executor *ToolExecutor, userMessage string) (string, error) {
	messages := a.buildMessages(session, userMessage)
	tools := executor.Tools()

	a.logger.Debug("agent run started",
		"session", session.ID,
		"tools_available", len(tools),
		"max_turns", maxAgentTurns,
	)

	for turn := 1; turn <= maxAgentTurns; turn++ {
		turnStart := time.Now()

		resp, err := a.llm.CompleteWithTools(ctx, messages, tools)
		if err != nil {
			return "", fmt.Errorf("LLM call failed (turn %d): %w", turn, err)
		}

		// No tool calls means the model is done.
		if len(resp.ToolCalls) == 0 {
			a.logger.Info("agent completed",
				"session", session.ID,
				"turns", turn,
				"response_len", len(resp.Content),
			)
			return resp.Content, nil
		}

		messages = append(messages, ChatMessage{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		toolNames := make([]string, len(resp.ToolCalls))
		for i, tc := range resp.ToolCalls {
			toolNames[i] = tc.Function.Name
		}
		a.logger.Info("executing tool calls",
			"session", session.ID,
			"turn", turn,
			"tools", strings.Join(toolNames, ","),
		)

		results := executor.Execute(ctx, resp.ToolCalls)
		for _, result := range results {
			messages = append(messages, ChatMessage{
				Role:       "tool",
				Content:    result.Content,
				ToolCallID: result.ToolCallID,
			})
		}

		a.logger.Debug("agent turn complete",
			"session", session.ID,
			"turn", turn,
			"turn_ms", time.Since(turnStart).Milliseconds(),
		)
	}

	return "", fmt.Errorf("agent did not produce a final response within %d turns", maxAgentTurns)
}

// buildMessages assembles the system prompt, recent history, and the new
// user message into the OpenAI chat format.
func (a *Assistant) buildMessages(session *Session, userMessage string) []ChatMessage {
	maxHistory := a.cfg.Database.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 20
	}
	history := session.RecentHistory(maxHistory)

	messages := make([]ChatMessage, 0, len(history)*2+2)
	messages = append(messages, ChatMessage{
		Role:    "system",
		Content: BuildSystemPrompt(a.cfg, session),
	})

	for _, entry := range history {
		messages = append(messages, ChatMessage{
			Role:    "user",
			Content: entry.UserMessage,
		})
		if entry.AssistantResponse != "" {
			messages = append(messages, ChatMessage{
				Role:    "assistant",
				Content: entry.AssistantResponse,
			})
		}
	}

	return append(messages, ChatMessage{
		Role:    "user",
		Content: userMessage,
	})
}
