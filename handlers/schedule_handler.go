package handlers

import (
	"net/http"

	"github.com/bcvictoria/tournament-system/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// RecommendNext returns the fairest playable fixture of the event. A null
// match means every remaining fixture is blocked or done.
func (h *ScheduleHandler) RecommendNext(w http.ResponseWriter, r *http.Request) {
	event, err := getEventFromURL(r)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	match, err := h.scheduleService.RecommendNext(r.Context(), event)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

func (h *ScheduleHandler) SetPlaying(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var input struct {
		Playing bool `json:"playing"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.scheduleService.SetMatchPlaying(r.Context(), id, input.Playing); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"status": "updated"}, nil)
}
