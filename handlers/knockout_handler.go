package handlers

import (
	"net/http"

	"github.com/bcvictoria/tournament-system/models"
	"github.com/bcvictoria/tournament-system/services"
)

type KnockoutHandler struct {
	knockoutService services.KnockoutService
}

func NewKnockoutHandler(knockoutService services.KnockoutService) *KnockoutHandler {
	return &KnockoutHandler{knockoutService: knockoutService}
}

func (h *KnockoutHandler) Generate(w http.ResponseWriter, r *http.Request) {
	event, err := getEventFromURL(r)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	var input struct {
		AdvanceCount int `json:"advance_count"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.knockoutService.GenerateKnockout(r.Context(), event, input.AdvanceCount); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"status": "knockout generated"}, nil)
}

func (h *KnockoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := getEventFromURL(r)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	matches, err := h.knockoutService.GetBracket(r.Context(), event)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil)
}

func (h *KnockoutHandler) SaveStageScores(w http.ResponseWriter, r *http.Request) {
	event, err := getEventFromURL(r)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	stage, err := getIDFromURL(r, "stage")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var input struct {
		Entries []services.StageScoreEntry `json:"entries"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.knockoutService.SaveStageScores(r.Context(), event, stage, input.Entries); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"status": "stage scores saved"}, nil)
}

func (h *KnockoutHandler) SetStageFormat(w http.ResponseWriter, r *http.Request) {
	event, err := getEventFromURL(r)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	stage, err := getIDFromURL(r, "stage")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var input struct {
		Format models.KnockoutFormat `json:"format"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.knockoutService.SetStageFormat(r.Context(), event, stage, input.Format); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"status": "format updated"}, nil)
}
