package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/bcvictoria/tournament-system/engine"
	"github.com/bcvictoria/tournament-system/models"
	"github.com/bcvictoria/tournament-system/repositories"
	"github.com/bcvictoria/tournament-system/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, status int, message interface{}) {
	if err := writeJSON(w, status, jsonResponse{"error": message}, nil); err != nil {
		slog.Error("failed to write error response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)
	errorResponse(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusNotFound, "the requested resource could not be found")
}

func conflictResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusUnauthorized, message)
}

func unprocessableResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusUnprocessableEntity, message)
}

// mapServiceErrorToHTTP translates service and engine sentinels into HTTP
// statuses: malformed input 400, missing resources 404, operations the
// tournament state forbids 409, consistency violations 422.
func mapServiceErrorToHTTP(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repositories.ErrEntrantNotFound),
		errors.Is(err, repositories.ErrPoolMatchNotFound),
		errors.Is(err, repositories.ErrKnockoutMatchNotFound),
		errors.Is(err, services.ErrStageNotFound):
		notFoundResponse(w)

	case errors.Is(err, services.ErrInvalidEvent),
		errors.Is(err, services.ErrInvalidLevel),
		errors.Is(err, services.ErrInvalidFormat),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrHalfScore),
		errors.Is(err, engine.ErrPoolSizeInvalid),
		errors.Is(err, engine.ErrTiedPoolScore),
		errors.Is(err, engine.ErrTiedGame),
		errors.Is(err, engine.ErrHalfGame),
		errors.Is(err, engine.ErrGameGap),
		errors.Is(err, engine.ErrNegativeScore),
		errors.Is(err, engine.ErrTooManyGames),
		errors.Is(err, engine.ErrUnneededGame),
		errors.Is(err, engine.ErrByeHasScore):
		badRequestResponse(w, err)

	case errors.Is(err, services.ErrSeedingIncomplete),
		errors.Is(err, services.ErrPoolsNotGenerated),
		errors.Is(err, services.ErrPoolsIncomplete),
		errors.Is(err, services.ErrNoBracket),
		errors.Is(err, services.ErrStageHasScores),
		errors.Is(err, services.ErrResultStored),
		errors.Is(err, services.ErrFixtureScored),
		errors.Is(err, services.ErrPlayersBusy),
		errors.Is(err, repositories.ErrEntrantSeedConflict),
		errors.Is(err, repositories.ErrDuplicateEmail),
		errors.Is(err, engine.ErrStageLocked),
		errors.Is(err, engine.ErrSlotsIncomplete):
		conflictResponse(w, err.Error())

	case errors.Is(err, services.ErrSeedingMismatch),
		errors.Is(err, services.ErrMatchNotInStage),
		errors.Is(err, engine.ErrUnknownEntrant):
		unprocessableResponse(w, err.Error())

	case errors.Is(err, services.ErrInvalidCredential):
		unauthorizedResponse(w, err.Error())

	default:
		serverErrorResponse(w, err)
	}
}

func getIDFromURL(r *http.Request, param string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s parameter", param)
	}
	return id, nil
}

func getEventFromURL(r *http.Request) (models.EventCategory, error) {
	event := models.EventCategory(chi.URLParam(r, "event"))
	if !event.Valid() {
		return "", services.ErrInvalidEvent
	}
	return event, nil
}
