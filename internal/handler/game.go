package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/homegame/platform/internal/auth"
	"github.com/homegame/platform/internal/domain"
	"github.com/homegame/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// GameHandler handles the game ledger endpoints.
type GameHandler struct {
	gameSvc *service.GameService
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(gameSvc *service.GameService) *GameHandler {
	return &GameHandler{gameSvc: gameSvc}
}

func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

func respondBadID(w http.ResponseWriter, name string) {
	RespondJSON(w, http.StatusBadRequest, map[string]string{
		"code":    "VALIDATION_ERROR",
		"message": "invalid " + name,
	})
}

// amountBody is the request body for amount-carrying operations.
type amountBody struct {
	Amount int64 `json:"amount"`
}

// CreateGame handles POST /games.
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var input service.CreateGameInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	game, err := h.gameSvc.Create(r.Context(), auth.UserIDFromContext(r.Context()), claims.DisplayName, input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, game)
}

// ListGames handles GET /games, returning games hosted by the caller.
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	games, err := h.gameSvc.ListByCreator(r.Context(), auth.UserIDFromContext(r.Context()), limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, games)
}

// GetGame handles GET /games/{id}.
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathUUID(r, "id")
	if !ok {
		respondBadID(w, "game id")
		return
	}

	game, err := h.gameSvc.Get(r.Context(), gameID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, game)
}

// GetHistory handles GET /games/{id}/history.
func (h *GameHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathUUID(r, "id")
	if !ok {
		respondBadID(w, "game id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.gameSvc.History(r.Context(), gameID, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, events)
}

// GetSettlement handles GET /games/{id}/settlement.
func (h *GameHandler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathUUID(r, "id")
	if !ok {
		respondBadID(w, "game id")
		return
	}

	transactions, err := h.gameSvc.Settlement(r.Context(), gameID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, transactions)
}

// RequestBuyIn handles POST /games/{id}/buy-ins.
func (h *GameHandler) RequestBuyIn(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathUUID(r, "id")
	if !ok {
		respondBadID(w, "game id")
		return
	}

	var body amountBody
	if err := DecodeJSON(r, &body); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	game, err := h.gameSvc.RequestBuyIn(r.Context(), gameID, auth.UserIDFromContext(r.Context()), claims.DisplayName, body.Amount)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, game)
}

// ApproveBuyIn handles POST /games/{id}/buy-ins/{requestID}/approve.
func (h *GameHandler) ApproveBuyIn(w http.ResponseWriter, r *http.Request) {
	h.resolveRequest(w, r, h.gameSvc.ApproveBuyIn)
}

// DeclineBuyIn handles POST /games/{id}/buy-ins/{requestID}/decline.
func (h *GameHandler) DeclineBuyIn(w http.ResponseWriter, r *http.Request) {
	h.resolveRequest(w, r, h.gameSvc.DeclineBuyIn)
}

// ProcessCashOut handles POST /games/{id}/cash-outs/{requestID}/process.
func (h *GameHandler) ProcessCashOut(w http.ResponseWriter, r *http.Request) {
	h.resolveRequest(w, r, h.gameSvc.ProcessCashOut)
}

// RequestCashOut handles POST /games/{id}/cash-outs.
func (h *GameHandler) RequestCashOut(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathUUID(r, "id")
	if !ok {
		respondBadID(w, "game id")
		return
	}

	var body amountBody
	if err := DecodeJSON(r, &body); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	game, err := h.gameSvc.RequestCashOut(r.Context(), gameID, auth.UserIDFromContext(r.Context()), body.Amount)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, game)
}

// HostBuyIn handles POST /games/{id}/host/buy-ins.
func (h *GameHandler) HostBuyIn(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathUUID(r, "id")
	if !ok {
		respondBadID(w, "game id")
		return
	}

	var body amountBody
	if err := DecodeJSON(r, &body); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	game, err := h.gameSvc.HostBuyIn(r.Context(), gameID, auth.UserIDFromContext(r.Context()), claims.DisplayName, body.Amount)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, game)
}

// HostCashOut handles POST /games/{id}/host/cash-outs.
func (h *GameHandler) HostCashOut(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathUUID(r, "id")
	if !ok {
		respondBadID(w, "game id")
		return
	}

	var body struct {
		PlayerID uuid.UUID `json:"player_id"`
		Amount   int64     `json:"amount"`
	}
	if err := DecodeJSON(r, &body); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	game, err := h.gameSvc.HostCashOut(r.Context(), gameID, auth.UserIDFromContext(r.Context()), body.PlayerID, body.Amount)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, game)
}

// UpdatePlayer handles PATCH /games/{id}/players/{playerID}.
func (h *GameHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathUUID(r, "id")
	if !ok {
		respondBadID(w, "game id")
		return
	}
	playerID, ok := pathUUID(r, "playerID")
	if !ok {
		respondBadID(w, "player id")
		return
	}

	var body struct {
		CurrentStack int64 `json:"current_stack"`
		TotalBuyIn   int64 `json:"total_buy_in"`
	}
	if err := DecodeJSON(r, &body); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	game, err := h.gameSvc.UpdatePlayerValues(r.Context(), gameID, auth.UserIDFromContext(r.Context()), playerID, body.CurrentStack, body.TotalBuyIn)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, game)
}

// EndGame handles POST /games/{id}/end.
func (h *GameHandler) EndGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathUUID(r, "id")
	if !ok {
		respondBadID(w, "game id")
		return
	}

	game, err := h.gameSvc.End(r.Context(), gameID, auth.UserIDFromContext(r.Context()))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, game)
}

// resolveRequest factors the shared shape of host request resolutions:
// /{id}/.../{requestID}/<verb> with no body.
func (h *GameHandler) resolveRequest(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, gameID, actorID, requestID uuid.UUID) (*domain.Game, error)) {
	gameID, ok := pathUUID(r, "id")
	if !ok {
		respondBadID(w, "game id")
		return
	}
	requestID, ok := pathUUID(r, "requestID")
	if !ok {
		respondBadID(w, "request id")
		return
	}

	game, err := fn(r.Context(), gameID, auth.UserIDFromContext(r.Context()), requestID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, game)
}
