package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/officegames/rating-system/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

func (h *LeaderboardHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.Atoi(chi.URLParam(r, "gameID"))
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	pageSize := 0
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if pageSize, err = strconv.Atoi(raw); err != nil {
			badRequestResponse(w, r, errors.New("page_size must be an integer"))
			return
		}
	}

	var cursor *int
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		value, cursorErr := strconv.Atoi(raw)
		if cursorErr != nil {
			badRequestResponse(w, r, errors.New("cursor must be an integer"))
			return
		}
		cursor = &value
	}

	page, err := h.leaderboardService.GetPage(r.Context(), gameID, pageSize, cursor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, page, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
