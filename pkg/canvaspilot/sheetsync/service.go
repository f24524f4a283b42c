// Package sheetsync – service.go is the facade the HTTP layer and the
// agent tools call. One Service instance wraps a sheets.Client; every
// operation fetches fresh state, so the service itself is stateless.
package sheetsync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/canvas"
	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/sheets"
)

// Service exposes the conversion and reconciliation operations.
type Service struct {
	client sheets.Client
	logger *slog.Logger
}

// NewService creates a Service on top of a spreadsheet client.
func NewService(client sheets.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client: client,
		logger: logger.With("component", "sheetsync"),
	}
}

// Import fetches the given sheet and converts it into a canvas state.
// sheetID may be a bare id or a full Google Sheets URL. An empty
// sheetName selects the first worksheet.
func (s *Service) Import(ctx context.Context, sheetID, sheetName string) (*canvas.State, error) {
	id := sheets.ExtractSheetID(sheetID)
	if id == "" {
		return nil, fmt.Errorf("no sheet id provided")
	}

	snap, err := sheets.Fetch(ctx, s.client, id, sheetName)
	if err != nil {
		return nil, fmt.Errorf("fetching sheet data: %w", err)
	}

	state := Convert(snap, id)
	s.logger.Info("sheet imported",
		"sheet_id", id, "sheet", snap.SheetName, "items", len(state.Items))
	return state, nil
}

// ListSheetNames returns the worksheet titles of a spreadsheet.
func (s *Service) ListSheetNames(ctx context.Context, sheetID string) ([]string, error) {
	id := sheets.ExtractSheetID(sheetID)
	if id == "" {
		return nil, fmt.Errorf("no sheet id provided")
	}
	info, err := s.client.GetSpreadsheetInfo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching spreadsheet info: %w", err)
	}
	names := make([]string, 0, len(info.Sheets))
	for _, sh := range info.Sheets {
		names = append(names, sh.Title)
	}
	return names, nil
}

// CreatedSheet describes a freshly created spreadsheet.
type CreatedSheet struct {
	SheetID  string `json:"sheet_id"`
	SheetURL string `json:"sheet_url"`
	Title    string `json:"title"`
}

// CreateSheet creates a new spreadsheet for canvas sync.
func (s *Service) CreateSheet(ctx context.Context, title string) (*CreatedSheet, error) {
	if title == "" {
		title = "Canvas Data"
	}
	id, err := s.client.CreateSpreadsheet(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	s.logger.Info("sheet created", "sheet_id", id, "title", title)
	return &CreatedSheet{
		SheetID:  id,
		SheetURL: sheets.SheetURL(id),
		Title:    title,
	}, nil
}
