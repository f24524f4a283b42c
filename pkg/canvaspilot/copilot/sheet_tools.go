// Package copilot – sheet_tools.go registers the spreadsheet and canvas
// tools the LLM can call during a conversation. Every tool is bound to one
// session: imports replace that session's canvas, syncs read it.
package copilot

import (
	"context"
	"fmt"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/canvas"
	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/sheets"
	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/sheetsync"
)

// RegisterSheetTools registers the Google Sheets tools for a session.
func RegisterSheetTools(exec *ToolExecutor, svc *sheetsync.Service, session *Session) {
	exec.Register(MakeToolDefinition(
		"sheets_import",
		"Import a Google Sheet into the canvas. Replaces the current canvas with items converted from the sheet's rows. Accepts a spreadsheet ID or full URL.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"sheet_id": map[string]any{
					"type":        "string",
					"description": "Spreadsheet ID or full Google Sheets URL",
				},
				"sheet_name": map[string]any{
					"type":        "string",
					"description": "Worksheet name (defaults to the first worksheet)",
				},
			},
			"required": []string{"sheet_id"},
		},
	), func(ctx context.Context, args map[string]any) (any, error) {
		sheetID, _ := args["sheet_id"].(string)
		sheetName, _ := args["sheet_name"].(string)

		state, err := svc.Import(ctx, sheetID, sheetName)
		if err != nil {
			return nil, err
		}
		session.SetCanvas(state)

		return map[string]any{
			"success":       true,
			"items_created": len(state.Items),
			"global_title":  state.GlobalTitle,
			"sheet_url":     sheets.SheetURL(state.SyncSheetID),
		}, nil
	})

	exec.Register(MakeToolDefinition(
		"sheets_sync",
		"Sync the current canvas back to Google Sheets. The sheet is overwritten to match the canvas exactly; surplus rows are deleted. Defaults to the sheet the canvas was imported from.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"sheet_id": map[string]any{
					"type":        "string",
					"description": "Target spreadsheet ID or URL (defaults to the canvas sync sheet)",
				},
				"sheet_name": map[string]any{
					"type":        "string",
					"description": "Worksheet name (defaults to the first worksheet)",
				},
			},
		},
	), func(ctx context.Context, args map[string]any) (any, error) {
		st := session.CanvasState()

		sheetID, _ := args["sheet_id"].(string)
		if sheetID == "" {
			sheetID = st.SyncSheetID
		}
		if sheetID == "" {
			return nil, fmt.Errorf("no sheet linked to this canvas; import a sheet first or pass sheet_id")
		}
		sheetName, _ := args["sheet_name"].(string)

		res := svc.Reconcile(ctx, sheetID, st, sheetName)
		if res.Success {
			st.SyncSheetID = res.SheetID
			session.SetCanvas(st)
		}
		return res, nil
	})

	exec.Register(MakeToolDefinition(
		"list_sheet_names",
		"List the worksheet names inside a Google Sheets spreadsheet.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"sheet_id": map[string]any{
					"type":        "string",
					"description": "Spreadsheet ID or full Google Sheets URL",
				},
			},
			"required": []string{"sheet_id"},
		},
	), func(ctx context.Context, args map[string]any) (any, error) {
		sheetID, _ := args["sheet_id"].(string)
		names, err := svc.ListSheetNames(ctx, sheetID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"sheet_names": names}, nil
	})

	exec.Register(MakeToolDefinition(
		"create_sheet",
		"Create a new empty Google Sheets spreadsheet for canvas sync and return its ID and URL.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "Spreadsheet title (defaults to \"Canvas Data\")",
				},
			},
		},
	), func(ctx context.Context, args map[string]any) (any, error) {
		title, _ := args["title"].(string)
		return svc.CreateSheet(ctx, title)
	})
}

// RegisterCanvasTools registers direct canvas manipulation tools for a
// session, used when the user asks for changes without touching the sheet.
func RegisterCanvasTools(exec *ToolExecutor, session *Session) {
	exec.Register(MakeToolDefinition(
		"canvas_add_item",
		"Add a new item to the canvas. Type must be one of: project, entity, note, chart.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type": map[string]any{
					"type":        "string",
					"enum":        []string{"project", "entity", "note", "chart"},
					"description": "Item type",
				},
				"name": map[string]any{
					"type":        "string",
					"description": "Item name (a default is used when empty)",
				},
			},
			"required": []string{"type"},
		},
	), func(ctx context.Context, args map[string]any) (any, error) {
		typ, _ := args["type"].(string)
		name, _ := args["name"].(string)

		st := session.CanvasState()
		item, err := st.NewItem(canvas.ItemType(typ), name)
		if err != nil {
			return nil, err
		}
		session.SetCanvas(st)
		return map[string]any{"success": true, "id": item.ID, "name": item.Name}, nil
	})

	exec.Register(MakeToolDefinition(
		"canvas_remove_item",
		"Remove an item from the canvas by its id.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "Item id (e.g. \"0003\")",
				},
			},
			"required": []string{"id"},
		},
	), func(ctx context.Context, args map[string]any) (any, error) {
		id, _ := args["id"].(string)

		st := session.CanvasState()
		if !st.RemoveItem(id) {
			return nil, fmt.Errorf("no item with id %q on the canvas", id)
		}
		session.SetCanvas(st)
		return map[string]any{"success": true, "removed": id}, nil
	})
}
