// Package sheets – fake.go provides an in-memory Client for tests and
// offline development. It mimics the write semantics of the real engine:
// a batch update overwrites cells in place and leaves trailing rows
// untouched, which is exactly why the reconciler's delete step exists.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FakeSheet is one worksheet held by the fake.
type FakeSheet struct {
	Title   string
	SheetID int64
	Rows    [][]string
}

// FakeSpreadsheet is one spreadsheet document held by the fake.
type FakeSpreadsheet struct {
	Title  string
	Sheets []*FakeSheet
}

// Fake is an in-memory Client. Error fields, when set, make the matching
// call fail; this drives the partial-failure paths in reconciler tests.
type Fake struct {
	mu           sync.Mutex
	Spreadsheets map[string]*FakeSpreadsheet
	nextID       int

	InfoErr   error
	ValuesErr error
	UpdateErr error
	DeleteErr error
	CreateErr error

	// DeletedRanges records every DeleteRows call for assertions.
	DeletedRanges [][2]int
}

// NewFake returns an empty fake client.
func NewFake() *Fake {
	return &Fake{Spreadsheets: make(map[string]*FakeSpreadsheet)}
}

// AddSpreadsheet registers a document with a single worksheet and returns
// its id.
func (f *Fake) AddSpreadsheet(title, sheetName string, rows [][]string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("fake-sheet-%d", f.nextID)
	f.Spreadsheets[id] = &FakeSpreadsheet{
		Title:  title,
		Sheets: []*FakeSheet{{Title: sheetName, SheetID: int64(f.nextID * 100), Rows: rows}},
	}
	return id
}

func (f *Fake) spreadsheet(id string) (*FakeSpreadsheet, error) {
	ss, ok := f.Spreadsheets[id]
	if !ok {
		return nil, fmt.Errorf("spreadsheet %q not found", id)
	}
	return ss, nil
}

func (ss *FakeSpreadsheet) sheetByName(name string) *FakeSheet {
	for _, s := range ss.Sheets {
		if s.Title == name {
			return s
		}
	}
	return nil
}

// GetSpreadsheetInfo implements Client.
func (f *Fake) GetSpreadsheetInfo(_ context.Context, spreadsheetID string) (*SpreadsheetInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InfoErr != nil {
		return nil, f.InfoErr
	}
	ss, err := f.spreadsheet(spreadsheetID)
	if err != nil {
		return nil, err
	}
	info := &SpreadsheetInfo{SpreadsheetID: spreadsheetID, Title: ss.Title}
	for _, s := range ss.Sheets {
		info.Sheets = append(info.Sheets, SheetProps{Title: s.Title, SheetID: s.SheetID})
	}
	return info, nil
}

// GetValues implements Client. Only whole-sheet ranges ("Name!A:Z") are
// supported, which is all the sync core uses.
func (f *Fake) GetValues(_ context.Context, spreadsheetID, valueRange string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ValuesErr != nil {
		return nil, f.ValuesErr
	}
	ss, err := f.spreadsheet(spreadsheetID)
	if err != nil {
		return nil, err
	}
	name := valueRange
	if i := strings.IndexByte(name, '!'); i >= 0 {
		name = name[:i]
	}
	sheet := ss.sheetByName(name)
	if sheet == nil {
		return nil, fmt.Errorf("sheet %q not found in %q", name, spreadsheetID)
	}
	out := make([][]string, len(sheet.Rows))
	for i, r := range sheet.Rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

// BatchUpdate implements Client: overwrites rows starting at the top-left
// cell, extending the sheet if needed but never truncating it.
func (f *Fake) BatchUpdate(_ context.Context, spreadsheetID, sheetName, firstCell string, rows [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	ss, err := f.spreadsheet(spreadsheetID)
	if err != nil {
		return err
	}
	sheet := ss.sheetByName(sheetName)
	if sheet == nil {
		return fmt.Errorf("sheet %q not found in %q", sheetName, spreadsheetID)
	}
	if firstCell != "A1" {
		return fmt.Errorf("fake only supports writes at A1, got %q", firstCell)
	}
	for i, r := range rows {
		row := append([]string(nil), r...)
		if i < len(sheet.Rows) {
			sheet.Rows[i] = row
		} else {
			sheet.Rows = append(sheet.Rows, row)
		}
	}
	return nil
}

// DeleteRows implements Client.
func (f *Fake) DeleteRows(_ context.Context, spreadsheetID string, sheetID int64, startIndex, endIndex int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	ss, err := f.spreadsheet(spreadsheetID)
	if err != nil {
		return err
	}
	for _, s := range ss.Sheets {
		if s.SheetID != sheetID {
			continue
		}
		if startIndex < 0 || startIndex > endIndex {
			return fmt.Errorf("invalid row range [%d,%d)", startIndex, endIndex)
		}
		if endIndex > len(s.Rows) {
			endIndex = len(s.Rows)
		}
		if startIndex < len(s.Rows) {
			s.Rows = append(s.Rows[:startIndex], s.Rows[endIndex:]...)
		}
		f.DeletedRanges = append(f.DeletedRanges, [2]int{startIndex, endIndex})
		return nil
	}
	return fmt.Errorf("sheet id %d not found in %q", sheetID, spreadsheetID)
}

// CreateSpreadsheet implements Client: the new document gets one empty
// worksheet named "Sheet1".
func (f *Fake) CreateSpreadsheet(_ context.Context, title string) (string, error) {
	f.mu.Lock()
	if f.CreateErr != nil {
		f.mu.Unlock()
		return "", f.CreateErr
	}
	f.mu.Unlock()
	return f.AddSpreadsheet(title, "Sheet1", nil), nil
}

// Rows returns a copy of the named worksheet's rows, for assertions.
func (f *Fake) Rows(spreadsheetID, sheetName string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ss, err := f.spreadsheet(spreadsheetID)
	if err != nil {
		return nil
	}
	sheet := ss.sheetByName(sheetName)
	if sheet == nil {
		return nil
	}
	out := make([][]string, len(sheet.Rows))
	for i, r := range sheet.Rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
