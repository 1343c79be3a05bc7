package handlers

import (
	"net/http"

	"github.com/bcvictoria/tournament-system/services"
)

type EntrantHandler struct {
	seedingService services.SeedingService
}

func NewEntrantHandler(seedingService services.SeedingService) *EntrantHandler {
	return &EntrantHandler{seedingService: seedingService}
}

func (h *EntrantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateEntrantInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	entrant, err := h.seedingService.CreateEntrant(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"entrant": entrant}, nil)
}

func (h *EntrantHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	event, err := getEventFromURL(r)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	entrants, err := h.seedingService.ListEntrants(r.Context(), event)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"entrants": entrants}, nil)
}

func (h *EntrantHandler) UpdateLevels(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var input struct {
		Level1 int `json:"level1"`
		Level2 int `json:"level2"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.seedingService.UpdateLevels(r.Context(), id, input.Level1, input.Level2); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"status": "updated"}, nil)
}

func (h *EntrantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.seedingService.DeleteEntrant(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EntrantHandler) SuggestSeeding(w http.ResponseWriter, r *http.Request) {
	event, err := getEventFromURL(r)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	entrants, err := h.seedingService.SuggestSeeding(r.Context(), event)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"suggested_order": entrants}, nil)
}

func (h *EntrantHandler) SetSeeding(w http.ResponseWriter, r *http.Request) {
	event, err := getEventFromURL(r)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	var input struct {
		OrderedEntrantIDs []int `json:"ordered_entrant_ids"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.seedingService.SetSeeding(r.Context(), event, input.OrderedEntrantIDs); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"status": "seeding finalized"}, nil)
}
