package gateway

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/canvas"
)

const version = "1.0.0"

// maxBodyBytes bounds request bodies; canvas states are small.
const maxBodyBytes = 4 << 20

// errorResponse is the consistent error format.
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (g *Gateway) writeError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	var resp errorResponse
	resp.Error.Message = msg
	resp.Error.Code = code
	_ = json.NewEncoder(w).Encode(resp)
}

func (g *Gateway) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody decodes a JSON request body into dst, rejecting oversized
// payloads.
func (g *Gateway) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		g.writeError(w, "invalid JSON body: "+err.Error(), 400)
		return false
	}
	return true
}

// handleHealth implements GET /health.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		g.writeError(w, "method not allowed", 405)
		return
	}
	g.writeJSON(w, 200, map[string]any{
		"status":   "ok",
		"version":  version,
		"uptime_s": int(time.Since(g.startedAt).Seconds()),
	})
}

// handleSheetsImport implements POST /api/sheets/import: converts a sheet
// into a canvas state and returns it.
func (g *Gateway) handleSheetsImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.writeError(w, "method not allowed", 405)
		return
	}

	var req struct {
		SheetID   string `json:"sheet_id"`
		SheetName string `json:"sheet_name"`
	}
	if !g.decodeBody(w, r, &req) {
		return
	}
	if req.SheetID == "" {
		g.writeError(w, "sheet_id is required", 400)
		return
	}

	state, err := g.assistant.SheetService().Import(r.Context(), req.SheetID, req.SheetName)
	if err != nil {
		g.writeError(w, err.Error(), 502)
		return
	}

	g.writeJSON(w, 200, map[string]any{
		"success": true,
		"canvas":  state,
	})
}

// handleSheetsSync implements POST /api/sheets/sync: writes the posted
// canvas back to the sheet.
func (g *Gateway) handleSheetsSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.writeError(w, "method not allowed", 405)
		return
	}

	var req struct {
		SheetID   string        `json:"sheet_id"`
		SheetName string        `json:"sheet_name"`
		Canvas    *canvas.State `json:"canvas"`
	}
	if !g.decodeBody(w, r, &req) {
		return
	}
	if req.Canvas == nil {
		g.writeError(w, "canvas is required", 400)
		return
	}
	sheetID := req.SheetID
	if sheetID == "" {
		sheetID = req.Canvas.SyncSheetID
	}
	if sheetID == "" {
		g.writeError(w, "sheet_id is required (no sheet linked to this canvas)", 400)
		return
	}

	result := g.assistant.SheetService().Reconcile(r.Context(), sheetID, req.Canvas, req.SheetName)
	status := 200
	if !result.Success {
		status = 502
	}
	g.writeJSON(w, status, result)
}

// handleSheetsList implements POST /api/sheets/list.
func (g *Gateway) handleSheetsList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.writeError(w, "method not allowed", 405)
		return
	}

	var req struct {
		SheetID string `json:"sheet_id"`
	}
	if !g.decodeBody(w, r, &req) {
		return
	}
	if req.SheetID == "" {
		g.writeError(w, "sheet_id is required", 400)
		return
	}

	names, err := g.assistant.SheetService().ListSheetNames(r.Context(), req.SheetID)
	if err != nil {
		g.writeError(w, err.Error(), 502)
		return
	}
	g.writeJSON(w, 200, map[string]any{"sheet_names": names})
}

// handleSheetsCreate implements POST /api/sheets/create.
func (g *Gateway) handleSheetsCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.writeError(w, "method not allowed", 405)
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if !g.decodeBody(w, r, &req) {
		return
	}

	created, err := g.assistant.SheetService().CreateSheet(r.Context(), req.Title)
	if err != nil {
		g.writeError(w, err.Error(), 502)
		return
	}
	g.writeJSON(w, 200, created)
}

// handleChat implements POST /api/chat/{session}: runs one assistant
// exchange. The client may post its current canvas; the response carries
// the canvas after any tool activity.
func (g *Gateway) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.writeError(w, "method not allowed", 405)
		return
	}

	sessionID := strings.TrimPrefix(r.URL.Path, "/api/chat/")
	if sessionID == "" || strings.Contains(sessionID, "/") {
		g.writeError(w, "session id required in path", 400)
		return
	}

	var req struct {
		Message string        `json:"message"`
		Canvas  *canvas.State `json:"canvas"`
	}
	if !g.decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		g.writeError(w, "message is required", 400)
		return
	}

	reply, state, err := g.assistant.HandleMessage(r.Context(), sessionID, req.Message, req.Canvas)
	if err != nil {
		g.logger.Error("chat failed", "session", sessionID, "error", err)
		g.writeError(w, err.Error(), 502)
		return
	}

	g.writeJSON(w, 200, map[string]any{
		"session_id": sessionID,
		"reply":      reply,
		"canvas":     state,
	})
}
