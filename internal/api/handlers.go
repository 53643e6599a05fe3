package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cosmic-blueprint/internal/domain"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// decode reads and validates a JSON body into dst.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: ErrorDetail{
			Code:    CodeInvalidJSON,
			Message: err.Error(),
		}})
		return false
	}
	if err := validateStruct(h.validate, dst); err != nil {
		h.writeError(w, r, err)
		return false
	}
	return true
}

func (h *handler) createBlueprint(w http.ResponseWriter, r *http.Request) {
	var req BlueprintRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.svc.Blueprint(r.Context(), req.UserID, req.Birth.Input(), req.Persist)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Snapshot != nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

func (h *handler) batchBlueprints(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	inputs := make([]domain.BirthInput, len(req.Births))
	for i, b := range req.Births {
		inputs[i] = b.Input()
	}

	blueprints, err := h.svc.ComputeBatch(r.Context(), inputs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"blueprints": blueprints})
}

func (h *handler) synastry(w http.ResponseWriter, r *http.Request) {
	var req SynastryRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.svc.Synastry(r.Context(), req.Profile1.Input(), req.Profile2.Input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) layers(w http.ResponseWriter, r *http.Request) {
	var req LayersRequest
	if !h.decode(w, r, &req) {
		return
	}

	profile, err := h.svc.Layers(r.Context(), req.Birth.Input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	from, err := parseTimeParam(r, "from")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	to, err := parseTimeParam(r, "to")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	snaps, err := h.svc.History(r.Context(), userID, from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if snaps == nil {
		snaps = []*domain.Snapshot{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user_id": userID, "snapshots": snaps})
}

func (h *handler) evolution(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	records, err := h.svc.Evolution(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []*domain.LayerScoreRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user_id": userID, "records": records})
}

func (h *handler) verify(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Verify(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) diff(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Diff(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "otherID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// parseTimeParam parses an optional RFC 3339 query parameter; absent is zero.
func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, &fieldError{Field: name, Message: fmt.Sprintf("%s must be an RFC 3339 timestamp", name)}
	}
	return t, nil
}
