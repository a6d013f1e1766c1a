package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/overlay"
)

type GameHandlers interface {
	GetState(w http.ResponseWriter, r *http.Request)
	SelectCell(w http.ResponseWriter, r *http.Request)
	Restart(w http.ResponseWriter, r *http.Request)
	ClearScores(w http.ResponseWriter, r *http.Request)
	WinLine(w http.ResponseWriter, r *http.Request)
}

type gameSession interface {
	State() *entity.GameState
	SelectCell(ctx context.Context, cell entity.Cell) (*entity.GameState, error)
	Restart(ctx context.Context) *entity.GameState
	ClearAllData(ctx context.Context) (*entity.GameState, error)
	WinLine(boxes overlay.BoxProvider, origin overlay.Point) (overlay.Line, bool)
}

type cellRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type overlayRequest struct {
	Boxes  overlay.Boxes `json:"boxes"`
	Origin overlay.Point `json:"origin"`
}

type overlayResponse struct {
	Visible bool          `json:"visible"`
	Line    *overlay.Line `json:"line,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type gameHandlers struct {
	logger  *slog.Logger
	session gameSession
}

func NewGameHandlers(logger *slog.Logger, session gameSession) GameHandlers {
	return &gameHandlers{
		logger:  logger.With("component", "rest"),
		session: session,
	}
}

func (that *gameHandlers) GetState(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.session.State())
}

// SelectCell - plays a cell for the active player. Ignored moves answer with the unchanged state.
func (that *gameHandlers) SelectCell(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "SelectCell")

	var req cellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug("failed to decode cell", "error", err)
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid cell"})
		return
	}

	if req.Row == nil || req.Col == nil {
		log.Debug("cell without coordinates")
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "row and col are required"})
		return
	}

	cell := entity.Cell{Row: *req.Row, Col: *req.Col}

	state, err := that.session.SelectCell(r.Context(), cell)
	if err != nil {
		log.Error("failed to select cell", "row", cell.Row, "col", cell.Col, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to save the result"})
		return
	}

	that.writeJSON(w, http.StatusOK, state)
}

func (that *gameHandlers) Restart(w http.ResponseWriter, r *http.Request) {
	that.writeJSON(w, http.StatusOK, that.session.Restart(r.Context()))
}

func (that *gameHandlers) ClearScores(w http.ResponseWriter, r *http.Request) {
	state, err := that.session.ClearAllData(r.Context())
	if err != nil {
		that.logger.Error("failed to clear scores", "method", "ClearScores", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to clear saved data"})
		return
	}

	that.writeJSON(w, http.StatusOK, state)
}

// WinLine - answers the overlay line for the measured cell boxes.
func (that *gameHandlers) WinLine(w http.ResponseWriter, r *http.Request) {
	var req overlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.logger.Debug("failed to decode overlay request", "method", "WinLine", "error", err)
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid overlay request"})
		return
	}

	line, ok := that.session.WinLine(req.Boxes, req.Origin)
	if !ok {
		that.writeJSON(w, http.StatusOK, overlayResponse{})
		return
	}

	that.writeJSON(w, http.StatusOK, overlayResponse{Visible: true, Line: &line})
}

func (that *gameHandlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
