package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/service"
)

type DeliveryHandler struct {
	svc service.Orchestrator
}

func NewDeliveryHandler(svc service.Orchestrator) *DeliveryHandler {
	return &DeliveryHandler{svc: svc}
}

func (h *DeliveryHandler) AssignAgent(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		AgentID uuid.UUID `json:"agent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "VALIDATION_ERROR", Message: "invalid request body"})
		return
	}
	job, err := h.svc.AssignAgent(r.Context(), actor, id, body.AgentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *DeliveryHandler) StartPickup(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(actor domain.Actor, id uuid.UUID) (*domain.DeliveryJob, error) {
		return h.svc.StartPickup(r.Context(), actor, id)
	})
}

func (h *DeliveryHandler) MarkPickedUp(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var evidence domain.Evidence
	if err := json.NewDecoder(r.Body).Decode(&evidence); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "VALIDATION_ERROR", Message: "invalid request body"})
		return
	}
	job, err := h.svc.MarkPickedUp(r.Context(), actor, id, evidence)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *DeliveryHandler) MarkOutForDelivery(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(actor domain.Actor, id uuid.UUID) (*domain.DeliveryJob, error) {
		return h.svc.MarkOutForDelivery(r.Context(), actor, id)
	})
}

func (h *DeliveryHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req service.DeliveredRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "VALIDATION_ERROR", Message: "invalid request body"})
		return
	}
	job, err := h.svc.MarkDelivered(r.Context(), actor, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *DeliveryHandler) StartReturnPickup(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(actor domain.Actor, id uuid.UUID) (*domain.DeliveryJob, error) {
		return h.svc.StartReturnPickup(r.Context(), actor, id)
	})
}

func (h *DeliveryHandler) MarkReturned(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var evidence domain.Evidence
	if err := json.NewDecoder(r.Body).Decode(&evidence); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "VALIDATION_ERROR", Message: "invalid request body"})
		return
	}
	job, err := h.svc.MarkReturned(r.Context(), actor, id, evidence)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *DeliveryHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var point domain.GeoPoint
	if err := json.NewDecoder(r.Body).Decode(&point); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "VALIDATION_ERROR", Message: "invalid request body"})
		return
	}
	if err := h.svc.UpdateLocation(r.Context(), actor, id, point); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	job, err := h.svc.GetDelivery(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *DeliveryHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	snap, err := h.svc.GetDeliveryLocation(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if snap == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "NOT_FOUND", Message: "no location fix yet"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *DeliveryHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	status, page, pageSize := listParams(r)
	jobs, total, err := h.svc.ListAgentJobs(r.Context(), actor, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":        jobs,
		"total_count": total,
	})
}

// transition handles the evidence-free single-step endpoints.
func (h *DeliveryHandler) transition(w http.ResponseWriter, r *http.Request, fn func(domain.Actor, uuid.UUID) (*domain.DeliveryJob, error)) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	job, err := fn(actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}
