package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/officegames/rating-system/models"
	"github.com/officegames/rating-system/services"
)

type SeasonHandler struct {
	seasonService services.SeasonService
}

func NewSeasonHandler(seasonService services.SeasonService) *SeasonHandler {
	return &SeasonHandler{seasonService: seasonService}
}

func (h *SeasonHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	seasonID, err := strconv.Atoi(chi.URLParam(r, "seasonID"))
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	season, err := h.seasonService.GetByID(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"season": season}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeasonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		GameID    int        `json:"game_id"`
		Name      string     `json:"name"`
		Slug      string     `json:"slug"`
		Colour    *string    `json:"colour"`
		StartDate time.Time  `json:"start_date"`
		EndDate   *time.Time `json:"end_date"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	season := &models.Season{
		GameID:    input.GameID,
		Name:      input.Name,
		Slug:      input.Slug,
		Colour:    input.Colour,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}
	if err := h.seasonService.Create(r.Context(), season); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"season": season}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeasonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	seasonID, err := strconv.Atoi(chi.URLParam(r, "seasonID"))
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	if err := h.seasonService.Delete(r.Context(), seasonID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
