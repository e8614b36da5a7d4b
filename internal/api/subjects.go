package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/brainbrew/internal/planner"
)

// ListSubjects handles GET /subjects.
//
//	@Summary	List subjects
//	@Tags		subjects
//	@Produce	json
//	@Success	200	{object}	SubjectListResponse
//	@Security	BearerAuth
//	@Router		/subjects [get]
func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.planner.ListSubjects(r.Context())
	if err != nil {
		writeError(w, r, "list subjects", err)
		return
	}
	writeJSON(w, http.StatusOK, SubjectListResponse{Subjects: subjects})
}

// AddSubject handles POST /subjects.
//
//	@Summary	Add a subject
//	@Tags		subjects
//	@Accept		json
//	@Produce	json
//	@Param		body	body		SubjectRequest	true	"Subject"
//	@Success	201		{object}	models.Subject
//	@Failure	400		{object}	errResponse
//	@Failure	409		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/subjects [post]
func (h *Handler) AddSubject(w http.ResponseWriter, r *http.Request) {
	var req SubjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	subject, err := h.planner.AddSubject(r.Context(), req.Name, req.Color)
	if err != nil {
		writeError(w, r, "add subject", err)
		return
	}
	writeJSON(w, http.StatusCreated, subject)
}

// UpdateSubject handles PATCH /subjects/{id}.
func (h *Handler) UpdateSubject(w http.ResponseWriter, r *http.Request) {
	var patch planner.SubjectPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	subject, err := h.planner.UpdateSubject(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, "update subject", err)
		return
	}
	writeJSON(w, http.StatusOK, subject)
}

// DeleteSubject handles DELETE /subjects/{id}. Subjects still referenced by
// assignments are refused with 409.
func (h *Handler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.DeleteSubject(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, "delete subject", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
