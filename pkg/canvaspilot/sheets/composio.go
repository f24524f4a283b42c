// Package sheets – composio.go implements Client against the Composio tool
// execution API, which proxies Google Sheets actions. Each Client method
// maps to one GOOGLESHEETS_* tool slug.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Tool slugs exposed by Composio's Google Sheets toolkit.
const (
	slugGetInfo     = "GOOGLESHEETS_GET_SPREADSHEET_INFO"
	slugBatchGet    = "GOOGLESHEETS_BATCH_GET"
	slugBatchUpdate = "GOOGLESHEETS_BATCH_UPDATE"
	slugDeleteDim   = "GOOGLESHEETS_DELETE_DIMENSION"
	slugCreateSheet = "GOOGLESHEETS_CREATE_GOOGLE_SHEET1"
)

// ComposioConfig configures the Composio-backed client.
type ComposioConfig struct {
	// BaseURL of the Composio API (default: https://backend.composio.dev).
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates against Composio.
	APIKey string `yaml:"api_key"`

	// UserID scopes tool execution to a connected account (default: "default").
	UserID string `yaml:"user_id"`
}

// Composio is the HTTP implementation of Client.
type Composio struct {
	baseURL    string
	apiKey     string
	userID     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewComposio creates a Composio client from config.
func NewComposio(cfg ComposioConfig, logger *slog.Logger) *Composio {
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://backend.composio.dev"
	}
	userID := cfg.UserID
	if userID == "" {
		userID = "default"
	}
	return &Composio{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		userID:  userID,
		httpClient: &http.Client{
			// Per-call deadlines come from the caller's context; the
			// transport only bounds connection setup and header wait.
			Transport: &http.Transport{
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   5,
				IdleConnTimeout:       120 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 60 * time.Second,
			},
		},
		logger: logger.With("component", "sheets"),
	}
}

// executeRequest is the wire format for a tool execution call.
type executeRequest struct {
	UserID    string         `json:"user_id"`
	Arguments map[string]any `json:"arguments"`
}

// executeEnvelope is the wire format of a tool execution response.
type executeEnvelope struct {
	Successful bool            `json:"successful"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
}

// execute runs one Composio tool and returns the raw data payload.
func (c *Composio) execute(ctx context.Context, slug string, args map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(executeRequest{UserID: c.userID, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", slug, err)
	}

	url := c.baseURL + "/api/v3/tools/execute/" + slug
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", slug, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing %s: %w", slug, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", slug, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(raw))
		if len(msg) > 500 {
			msg = msg[:500]
		}
		return nil, fmt.Errorf("%s returned HTTP %d: %s", slug, resp.StatusCode, msg)
	}

	var env executeEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", slug, err)
	}
	if !env.Successful {
		errMsg := env.Error
		if errMsg == "" {
			errMsg = "unknown error"
		}
		return nil, fmt.Errorf("%s failed: %s", slug, errMsg)
	}

	c.logger.Debug("composio tool executed",
		"slug", slug,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return env.Data, nil
}

// infoData mirrors the GET_SPREADSHEET_INFO payload.
type infoData struct {
	ResponseData struct {
		SpreadsheetID string `json:"spreadsheet_id"`
		Properties    struct {
			Title string `json:"title"`
		} `json:"properties"`
		Sheets []struct {
			Properties struct {
				Title   string `json:"title"`
				SheetID int64  `json:"sheetId"`
			} `json:"properties"`
		} `json:"sheets"`
	} `json:"response_data"`
}

// GetSpreadsheetInfo implements Client.
func (c *Composio) GetSpreadsheetInfo(ctx context.Context, spreadsheetID string) (*SpreadsheetInfo, error) {
	data, err := c.execute(ctx, slugGetInfo, map[string]any{
		"spreadsheet_id": spreadsheetID,
	})
	if err != nil {
		return nil, err
	}

	var parsed infoData
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decoding spreadsheet info: %w", err)
	}

	info := &SpreadsheetInfo{
		SpreadsheetID: parsed.ResponseData.SpreadsheetID,
		Title:         parsed.ResponseData.Properties.Title,
	}
	if info.SpreadsheetID == "" {
		info.SpreadsheetID = spreadsheetID
	}
	for _, s := range parsed.ResponseData.Sheets {
		info.Sheets = append(info.Sheets, SheetProps{
			Title:   s.Properties.Title,
			SheetID: s.Properties.SheetID,
		})
	}
	return info, nil
}

// valuesData mirrors the BATCH_GET payload. Cells arrive untyped; the
// spreadsheet engine may hand back numbers for numeric-looking cells.
type valuesData struct {
	ValueRanges []struct {
		Values [][]any `json:"values"`
	} `json:"valueRanges"`
}

// GetValues implements Client.
func (c *Composio) GetValues(ctx context.Context, spreadsheetID, valueRange string) ([][]string, error) {
	data, err := c.execute(ctx, slugBatchGet, map[string]any{
		"spreadsheet_id": spreadsheetID,
		"ranges":         []string{valueRange},
	})
	if err != nil {
		return nil, err
	}

	var parsed valuesData
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decoding sheet values: %w", err)
	}
	if len(parsed.ValueRanges) == 0 {
		return nil, nil
	}

	raw := parsed.ValueRanges[0].Values
	rows := make([][]string, len(raw))
	for i, r := range raw {
		row := make([]string, len(r))
		for j, cell := range r {
			row[j] = stringifyCell(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

// BatchUpdate implements Client. Value interpretation is USER_ENTERED so
// dates and numbers written as literal strings are reinterpreted by the
// spreadsheet engine.
func (c *Composio) BatchUpdate(ctx context.Context, spreadsheetID, sheetName, firstCell string, rows [][]string) error {
	values := make([][]any, len(rows))
	for i, r := range rows {
		row := make([]any, len(r))
		for j, cell := range r {
			row[j] = cell
		}
		values[i] = row
	}

	_, err := c.execute(ctx, slugBatchUpdate, map[string]any{
		"spreadsheet_id":      spreadsheetID,
		"sheet_name":          sheetName,
		"first_cell_location": firstCell,
		"values":              values,
		"valueInputOption":    "USER_ENTERED",
	})
	return err
}

// DeleteRows implements Client.
func (c *Composio) DeleteRows(ctx context.Context, spreadsheetID string, sheetID int64, startIndex, endIndex int) error {
	_, err := c.execute(ctx, slugDeleteDim, map[string]any{
		"spreadsheet_id": spreadsheetID,
		"delete_dimension_request": map[string]any{
			"range": map[string]any{
				"dimension":   "ROWS",
				"sheet_id":    sheetID,
				"start_index": startIndex,
				"end_index":   endIndex,
			},
		},
	})
	return err
}

// createData mirrors the CREATE_GOOGLE_SHEET1 payload.
type createData struct {
	ResponseData struct {
		SpreadsheetID string `json:"spreadsheet_id"`
	} `json:"response_data"`
}

// CreateSpreadsheet implements Client.
func (c *Composio) CreateSpreadsheet(ctx context.Context, title string) (string, error) {
	data, err := c.execute(ctx, slugCreateSheet, map[string]any{
		"title": title,
	})
	if err != nil {
		return "", err
	}

	var parsed createData
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decoding create response: %w", err)
	}
	if parsed.ResponseData.SpreadsheetID == "" {
		return "", fmt.Errorf("create succeeded but no spreadsheet id returned")
	}
	return parsed.ResponseData.SpreadsheetID, nil
}

// stringifyCell normalizes an untyped cell to its string form. Integral
// floats drop the trailing ".0" JSON decoding would otherwise introduce.
func stringifyCell(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// SheetURL builds the canonical editing URL for a spreadsheet id.
func SheetURL(spreadsheetID string) string {
	if spreadsheetID == "" {
		return ""
	}
	return "https://docs.google.com/spreadsheets/d/" + spreadsheetID + "/edit"
}
