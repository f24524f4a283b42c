// Package copilot – prompt.go builds the system prompt: the canvas item
// schema, the sheet sync policy, and a summary of the session's current
// canvas so the model can reference items by id.
package copilot

import (
	"fmt"
	"strings"
)

// basePrompt describes the canvas data model and how the assistant should
// behave around spreadsheet sync.
const basePrompt = `You are %s, an assistant that manages a visual canvas of cards linked to Google Sheets.

The canvas holds items of four types, each with a fixed data schema:
- project: field1 (description text), field2 (status select), field3 (due date YYYY-MM-DD), field4 (checklist)
- entity: field1 (text), field2 (select), field3 (selected tags), field3_options (available tags)
- note: field1 (free text body)
- chart: field1 (metrics with values 0-100), field1_id (metric counter)

Item ids are zero-padded strings like "0001". Refer to items by id when modifying them.

Sheet sync rules:
- When the user links a spreadsheet, call sheets_import. Importing REPLACES the whole canvas.
- After the user edits the canvas and asks to save, call sheets_sync. Syncing overwrites the sheet to match the canvas exactly, deleting surplus rows.
- The spreadsheet is the source of truth after a sync; never invent rows that are not on the canvas.
- Use list_sheet_names when the user mentions a worksheet you have not seen, and create_sheet when they want a fresh spreadsheet.

Be concise. Confirm destructive operations (sync deletes rows) by stating what happened, not by asking twice.`

// BuildSystemPrompt assembles the full system prompt for a session.
func BuildSystemPrompt(cfg *Config, session *Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, basePrompt, cfg.Name)

	if cfg.Instructions != "" {
		b.WriteString("\n\n")
		b.WriteString(cfg.Instructions)
	}

	st := session.CanvasState()
	b.WriteString("\n\nCurrent canvas: ")
	if len(st.Items) == 0 {
		b.WriteString("empty.")
	} else {
		fmt.Fprintf(&b, "%d items", len(st.Items))
		if st.GlobalTitle != "" {
			fmt.Fprintf(&b, " (%s)", st.GlobalTitle)
		}
		b.WriteString(":\n")
		for _, item := range st.Items {
			fmt.Fprintf(&b, "- %s [%s] %s", item.ID, item.Type, item.Name)
			if item.Subtitle != "" {
				fmt.Fprintf(&b, " (%s)", item.Subtitle)
			}
			b.WriteString("\n")
		}
	}
	if st.SyncSheetID != "" {
		fmt.Fprintf(&b, "Linked sheet: %s", st.SyncSheetID)
		if st.SyncSheetName != "" {
			fmt.Fprintf(&b, " (worksheet %q)", st.SyncSheetName)
		}
		b.WriteString("\n")
	}

	return b.String()
}
