// Package sheetsync – reconcile.go converges a spreadsheet to a canvas
// snapshot: it computes the full replacement row set, trims surplus rows
// left over from a shrunken canvas, and bulk-writes everything in one
// update. Deletion always precedes the write; writing first could destroy
// fresh rows when the current row count was computed on stale data.
package sheetsync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/canvas"
	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/sheets"
)

// sheetHeader is the fixed column layout canvases are persisted under.
var sheetHeader = []string{"id", "type", "name", "subtitle", "data"}

// SyncResult reports the outcome of a reconciliation. Exactly one of
// Message or Error is set.
type SyncResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	Error       string `json:"error,omitempty"`
	ItemsSynced int    `json:"items_synced"`
	RowsDeleted int    `json:"rows_deleted"`
	SheetID     string `json:"sheet_id,omitempty"`
}

func syncFailure(format string, args ...any) *SyncResult {
	return &SyncResult{Error: fmt.Sprintf(format, args...)}
}

// Reconcile writes the canvas state into the target worksheet. All
// failures come back as a structured result, never a panic or a raw
// error: collaborator outages and bad sheet names are expected inputs.
//
// A failed row-delete is logged and does not abort the sync; the bulk
// write may still converge the visible data. A race remains between
// reading the current row count and writing (another writer can mutate
// the sheet in between); the design accepts last-writer-wins.
func (s *Service) Reconcile(ctx context.Context, sheetID string, st *canvas.State, sheetName string) *SyncResult {
	sheetID = sheets.ExtractSheetID(sheetID)
	if sheetID == "" {
		return syncFailure("no sheet id provided")
	}
	if st == nil {
		st = &canvas.State{}
	}

	// Resolve the target worksheet name.
	target := sheetName
	if target == "" {
		names, err := s.ListSheetNames(ctx, sheetID)
		if err != nil || len(names) == 0 {
			return syncFailure("failed to get sheet names from spreadsheet")
		}
		target = names[0]
	}

	// Current row count; unfetchable counts as empty.
	currentRows := 0
	if rows, err := s.client.GetValues(ctx, sheetID, target+"!A:Z"); err == nil {
		currentRows = len(rows)
	} else {
		s.logger.Warn("could not fetch current rows, assuming empty",
			"sheet_id", sheetID, "sheet", target, "error", err)
	}

	// Replacement row set: header plus one row per item, in canvas order.
	newRows := make([][]string, 0, len(st.Items)+1)
	newRows = append(newRows, sheetHeader)
	for _, item := range st.Items {
		dataJSON, err := json.Marshal(item.Data)
		if err != nil {
			dataJSON = []byte("{}")
		}
		newRows = append(newRows, []string{
			item.ID,
			string(item.Type),
			item.Name,
			item.Subtitle,
			string(dataJSON),
		})
	}

	// Trim surplus trailing rows before writing.
	rowsDeleted := 0
	if currentRows > len(newRows) {
		internalID := s.resolveInternalSheetID(ctx, sheetID, target)
		if err := s.client.DeleteRows(ctx, sheetID, internalID, len(newRows), currentRows); err != nil {
			// Best effort: the bulk write below may still converge the data.
			s.logger.Warn("failed to delete surplus rows",
				"sheet_id", sheetID, "sheet", target,
				"range_start", len(newRows), "range_end", currentRows,
				"error", err)
		} else {
			rowsDeleted = currentRows - len(newRows)
		}
	}

	if err := s.client.BatchUpdate(ctx, sheetID, target, "A1", newRows); err != nil {
		return syncFailure("failed to sync to Google Sheets: %v", err)
	}

	s.logger.Info("canvas reconciled to sheet",
		"sheet_id", sheetID, "sheet", target,
		"items", len(st.Items), "rows_deleted", rowsDeleted)

	return &SyncResult{
		Success: true,
		Message: fmt.Sprintf("Synced %d items to Google Sheets (deleted %d rows)",
			len(st.Items), rowsDeleted),
		ItemsSynced: len(st.Items),
		RowsDeleted: rowsDeleted,
		SheetID:     sheetID,
	}
}

// resolveInternalSheetID looks up the engine-internal worksheet id by
// title. Unknown names fall back to 0, matching the engine's default
// first-sheet id.
func (s *Service) resolveInternalSheetID(ctx context.Context, sheetID, sheetName string) int64 {
	info, err := s.client.GetSpreadsheetInfo(ctx, sheetID)
	if err != nil {
		s.logger.Warn("could not resolve internal sheet id", "sheet_id", sheetID, "error", err)
		return 0
	}
	for _, sh := range info.Sheets {
		if sh.Title == sheetName {
			return sh.SheetID
		}
	}
	return 0
}
