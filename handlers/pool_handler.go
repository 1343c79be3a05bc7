package handlers

import (
	"net/http"

	"github.com/bcvictoria/tournament-system/services"
)

type PoolHandler struct {
	poolService     services.PoolService
	standingService services.StandingService
}

func NewPoolHandler(poolService services.PoolService, standingService services.StandingService) *PoolHandler {
	return &PoolHandler{poolService: poolService, standingService: standingService}
}

func (h *PoolHandler) Generate(w http.ResponseWriter, r *http.Request) {
	event, err := getEventFromURL(r)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	var input struct {
		TargetSize int `json:"target_size"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.poolService.GeneratePools(r.Context(), event, input.TargetSize); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"status": "pools generated"}, nil)
}

func (h *PoolHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := getEventFromURL(r)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	overview, err := h.poolService.GetPools(r.Context(), event)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview, nil)
}

func (h *PoolHandler) SaveScore(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var input struct {
		ScoreA *int `json:"score_a"`
		ScoreB *int `json:"score_b"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.poolService.SavePoolScore(r.Context(), id, input.ScoreA, input.ScoreB); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"status": "score saved"}, nil)
}

func (h *PoolHandler) Standings(w http.ResponseWriter, r *http.Request) {
	event, err := getEventFromURL(r)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	standings, err := h.standingService.GetStandings(r.Context(), event)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings, nil)
}
