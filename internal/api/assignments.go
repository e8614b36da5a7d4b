package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/starford/brainbrew/internal/planner"
)

// ListAssignments handles GET /assignments.
//
//	@Summary	List assignments
//	@Tags		assignments
//	@Produce	json
//	@Param		subject	query		string	false	"Filter by subject name"
//	@Param		status	query		string	false	"Filter by status"	Enums(all, pending, completed)
//	@Param		due_from	query	string	false	"Earliest due date (YYYY-MM-DD)"
//	@Param		due_to		query	string	false	"Latest due date (YYYY-MM-DD)"
//	@Success	200		{object}	AssignmentListResponse
//	@Failure	400		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/assignments [get]
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.planner.ListAssignments(r.Context(), assignmentFilter(q))
	if err != nil {
		writeError(w, r, "list assignments", err)
		return
	}
	writeJSON(w, http.StatusOK, AssignmentListResponse{Assignments: items})
}

// AssignmentCalendar handles GET /assignments/calendar.
//
//	@Summary	Assignments grouped by due date for one month
//	@Tags		assignments
//	@Produce	json
//	@Param		month	query		string	true	"Month (YYYY-MM)"
//	@Param		subject	query		string	false	"Filter by subject name"
//	@Param		status	query		string	false	"Filter by status"	Enums(all, pending, completed)
//	@Success	200		{object}	planner.Calendar
//	@Failure	400		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/assignments/calendar [get]
func (h *Handler) AssignmentCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cal, err := h.planner.AssignmentCalendar(r.Context(), q.Get("month"), assignmentFilter(q))
	if err != nil {
		writeError(w, r, "assignment calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

func assignmentFilter(q url.Values) planner.AssignmentFilter {
	return planner.AssignmentFilter{
		Subject: q.Get("subject"),
		Status:  q.Get("status"),
		DueFrom: q.Get("due_from"),
		DueTo:   q.Get("due_to"),
	}
}

// CreateAssignment handles POST /assignments.
//
//	@Summary	Create an assignment
//	@Tags		assignments
//	@Accept		json
//	@Produce	json
//	@Param		body	body		planner.AssignmentInput	true	"Assignment"
//	@Success	201		{object}	models.Assignment
//	@Failure	400		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/assignments [post]
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var in planner.AssignmentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	a, err := h.planner.CreateAssignment(r.Context(), in)
	if err != nil {
		writeError(w, r, "create assignment", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// ToggleAssignment handles POST /assignments/{id}/toggle.
func (h *Handler) ToggleAssignment(w http.ResponseWriter, r *http.Request) {
	a, err := h.planner.ToggleAssignment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "toggle assignment", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAssignment handles DELETE /assignments/{id}.
func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.DeleteAssignment(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, "delete assignment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
