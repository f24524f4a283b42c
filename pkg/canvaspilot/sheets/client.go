// Package sheets talks to the external spreadsheet service. The core sync
// logic only sees the narrow Client interface defined here, so it can be
// exercised against the in-memory Fake without network access.
package sheets

import (
	"context"
	"fmt"
	"strings"
)

// SheetProps describes one worksheet inside a spreadsheet.
type SheetProps struct {
	Title string
	// SheetID is the spreadsheet engine's internal id for the worksheet,
	// required by row-range deletion.
	SheetID int64
}

// SpreadsheetInfo is the metadata for a whole spreadsheet document.
type SpreadsheetInfo struct {
	SpreadsheetID string
	Title         string
	Sheets        []SheetProps
}

// Client is the capability surface the sync core needs from the
// spreadsheet service. Implementations: Composio (HTTP) and Fake (tests).
type Client interface {
	// GetSpreadsheetInfo returns document title and worksheet list.
	GetSpreadsheetInfo(ctx context.Context, spreadsheetID string) (*SpreadsheetInfo, error)

	// GetValues fetches cell values for an A1-style range like "Sheet1!A:Z".
	GetValues(ctx context.Context, spreadsheetID, valueRange string) ([][]string, error)

	// BatchUpdate writes rows starting at firstCell (e.g. "A1") on the named
	// worksheet. Values are user-entered: the spreadsheet engine reinterprets
	// literal strings as dates/numbers where it sees fit.
	BatchUpdate(ctx context.Context, spreadsheetID, sheetName, firstCell string, rows [][]string) error

	// DeleteRows removes the row index range [startIndex, endIndex) from the
	// worksheet identified by its internal sheet id.
	DeleteRows(ctx context.Context, spreadsheetID string, sheetID int64, startIndex, endIndex int) error

	// CreateSpreadsheet creates a new spreadsheet and returns its id.
	CreateSpreadsheet(ctx context.Context, title string) (string, error)
}

// Snapshot is a transient capture of one worksheet's contents, fetched
// fresh per operation and never cached.
type Snapshot struct {
	SpreadsheetID   string
	Title           string
	SheetName       string
	Rows            [][]string
	AvailableSheets []string
}

// Fetch captures a snapshot of the named worksheet (or the first one when
// sheetName is empty). A requested name that doesn't exist fails with an
// error listing the available worksheets.
func Fetch(ctx context.Context, c Client, spreadsheetID, sheetName string) (*Snapshot, error) {
	info, err := c.GetSpreadsheetInfo(ctx, spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("fetching spreadsheet info: %w", err)
	}
	if len(info.Sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %q has no worksheets", spreadsheetID)
	}

	available := make([]string, 0, len(info.Sheets))
	for _, s := range info.Sheets {
		available = append(available, s.Title)
	}

	target := sheetName
	if target == "" {
		target = info.Sheets[0].Title
	} else {
		found := false
		for _, s := range info.Sheets {
			if s.Title == target {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("sheet %q not found; available sheets: %s",
				target, strings.Join(available, ", "))
		}
	}

	rows, err := c.GetValues(ctx, spreadsheetID, target+"!A:Z")
	if err != nil {
		return nil, fmt.Errorf("fetching values from %q: %w", target, err)
	}

	title := info.Title
	if title == "" {
		title = "Untitled"
	}

	return &Snapshot{
		SpreadsheetID:   spreadsheetID,
		Title:           title,
		SheetName:       target,
		Rows:            rows,
		AvailableSheets: available,
	}, nil
}

// ExtractSheetID accepts either a bare spreadsheet id or a full Google
// Sheets URL and returns the id.
func ExtractSheetID(s string) string {
	const marker = "/spreadsheets/d/"
	idx := strings.Index(s, marker)
	if idx < 0 {
		return strings.TrimSpace(s)
	}
	rest := s[idx+len(marker):]
	if end := strings.IndexAny(rest, "/#?"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}
