package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/ccc-cards/card-services/internal/gamesvc/catalog"
	"github.com/ccc-cards/card-services/internal/gamesvc/game"
	"github.com/ccc-cards/card-services/internal/gamesvc/service"
)

type Handler struct {
	tokenAuth      *jwtauth.JWTAuth
	catalog        catalog.Catalog
	manager        *game.Manager
	historyService *service.HistoryService
}

func NewHandler(c catalog.Catalog, m *game.Manager, historyService *service.HistoryService) *Handler {
	return &Handler{catalog: c, manager: m, historyService: historyService}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	json.NewEncoder(w).Encode(rsp)
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "game service is running at port " + os.Getenv("SERVICE_PORT"),
		Code:    200,
		Data:    map[string]int{"rooms": h.manager.Count()},
	}
	json.NewEncoder(w).Encode(rsp)
}

// DecksHandler lists the available decks without card bodies.
func (h *Handler) DecksHandler(w http.ResponseWriter, r *http.Request) {
	decks, err := h.catalog.ListDecks(r.Context())
	if err != nil {
		log.Errorf("Error listing decks: %s", err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "unable to list decks"})
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: decks})
}

// MatchesHandler lists recently finished games, newest first.
func (h *Handler) MatchesHandler(w http.ResponseWriter, r *http.Request) {
	if h.historyService == nil {
		h.CreateResponse(w, Response{Code: http.StatusServiceUnavailable, Error: "match history is not configured"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	matches, err := h.historyService.ListRecent(r.Context(), limit)
	if err != nil {
		log.Errorf("Error listing matches: %s", err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "unable to list matches"})
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: matches})
}
