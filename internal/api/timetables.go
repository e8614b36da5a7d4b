package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/brainbrew/internal/export"
	"github.com/starford/brainbrew/internal/models"
	"github.com/starford/brainbrew/internal/schedule"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func dayParam(r *http.Request) models.Weekday {
	return models.Weekday(strings.ToLower(chi.URLParam(r, "day")))
}

// ListTimetables handles GET /timetables, newest first.
//
//	@Summary	List timetables
//	@Tags		timetables
//	@Produce	json
//	@Success	200	{object}	TimetableListResponse
//	@Security	BearerAuth
//	@Router		/timetables [get]
func (h *Handler) ListTimetables(w http.ResponseWriter, r *http.Request) {
	tts, err := h.planner.ListTimetables(r.Context())
	if err != nil {
		writeError(w, r, "list timetables", err)
		return
	}
	writeJSON(w, http.StatusOK, TimetableListResponse{Timetables: tts})
}

// CreateTimetable handles POST /timetables.
//
//	@Summary	Generate and save a timetable
//	@Tags		timetables
//	@Accept		json
//	@Produce	json
//	@Param		body	body		schedule.TimetableInput	true	"Routine, subjects and days"
//	@Success	201		{object}	models.StudyTimetable
//	@Failure	400		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/timetables [post]
func (h *Handler) CreateTimetable(w http.ResponseWriter, r *http.Request) {
	var in schedule.TimetableInput
	if !decodeJSON(w, r, &in) {
		return
	}
	tt, err := h.planner.CreateTimetable(r.Context(), in)
	if err != nil {
		writeError(w, r, "create timetable", err)
		return
	}
	writeJSON(w, http.StatusCreated, tt)
}

// PreviewSchedule handles POST /schedule/preview. Nothing is stored.
//
//	@Summary	Generate a week without saving it
//	@Tags		timetables
//	@Accept		json
//	@Produce	json
//	@Param		body	body		schedule.TimetableInput	true	"Routine, subjects and days"
//	@Success	200		{object}	PreviewResponse
//	@Failure	400		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/schedule/preview [post]
func (h *Handler) PreviewSchedule(w http.ResponseWriter, r *http.Request) {
	var in schedule.TimetableInput
	if !decodeJSON(w, r, &in) {
		return
	}
	week, err := h.planner.PreviewWeek(in)
	if err != nil {
		writeError(w, r, "preview schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{WeeklySchedule: week})
}

// GetTimetable handles GET /timetables/{id}.
func (h *Handler) GetTimetable(w http.ResponseWriter, r *http.Request) {
	tt, err := h.planner.GetTimetable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "get timetable", err)
		return
	}
	writeJSON(w, http.StatusOK, tt)
}

// DeleteTimetable handles DELETE /timetables/{id}.
func (h *Handler) DeleteTimetable(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.DeleteTimetable(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, "delete timetable", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDay handles GET /timetables/{id}/days/{day}.
//
//	@Summary	One day of a timetable with overlap report
//	@Tags		timetables
//	@Produce	json
//	@Param		id	path		string	true	"Timetable id"
//	@Param		day	path		string	true	"Weekday"	Enums(monday, tuesday, wednesday, thursday, friday, saturday, sunday)
//	@Success	200	{object}	DayResponse
//	@Failure	400	{object}	errResponse
//	@Failure	404	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/timetables/{id}/days/{day} [get]
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	day := dayParam(r)
	slots, conflicts, err := h.planner.DaySchedule(r.Context(), chi.URLParam(r, "id"), day)
	if err != nil {
		writeError(w, r, "get day", err)
		return
	}
	writeJSON(w, http.StatusOK, DayResponse{Day: day, Slots: slots, Conflicts: conflicts})
}

// AddSlot handles POST /timetables/{id}/days/{day}/slots. An empty body adds
// the default study block.
func (h *Handler) AddSlot(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	var tmpl *schedule.SlotTemplate
	if len(bytes.TrimSpace(raw)) > 0 {
		tmpl = &schedule.SlotTemplate{}
		if err := json.Unmarshal(raw, tmpl); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
			return
		}
	}

	tt, slot, err := h.planner.AddSlot(r.Context(), chi.URLParam(r, "id"), dayParam(r), tmpl)
	if err != nil {
		writeError(w, r, "add slot", err)
		return
	}
	writeJSON(w, http.StatusCreated, SlotResponse{Slot: slot, Timetable: tt})
}

// UpdateSlot handles PATCH /timetables/{id}/days/{day}/slots/{slotID}.
// Overlaps are accepted and show up in the day's conflict report.
func (h *Handler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	var patch schedule.SlotPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	tt, err := h.planner.UpdateSlot(r.Context(), chi.URLParam(r, "id"), dayParam(r), chi.URLParam(r, "slotID"), patch)
	if err != nil {
		writeError(w, r, "update slot", err)
		return
	}
	writeJSON(w, http.StatusOK, tt)
}

// DeleteSlot handles DELETE /timetables/{id}/days/{day}/slots/{slotID}.
func (h *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	tt, err := h.planner.DeleteSlot(r.Context(), chi.URLParam(r, "id"), dayParam(r), chi.URLParam(r, "slotID"))
	if err != nil {
		writeError(w, r, "delete slot", err)
		return
	}
	writeJSON(w, http.StatusOK, tt)
}

// ExportICS handles GET /timetables/{id}/export.ics.
//
//	@Summary	Export a timetable as an iCalendar feed
//	@Tags		timetables
//	@Produce	text/calendar
//	@Param		id		path	string	true	"Timetable id"
//	@Param		week_of	query	string	false	"Any date in the first week (YYYY-MM-DD)"
//	@Success	200
//	@Security	BearerAuth
//	@Router		/timetables/{id}/export.ics [get]
func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	weekOf := now
	if v := r.URL.Query().Get("week_of"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("week_of must be YYYY-MM-DD"))
			return
		}
		weekOf = t
	}

	tt, err := h.planner.GetTimetable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "export ics", err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="timetable-%s.ics"`, tt.ID))
	_, _ = io.WriteString(w, export.ICS(tt, weekOf, now))
}

// ExportXLSX handles GET /timetables/{id}/export.xlsx, one sheet per day.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	tt, err := h.planner.GetTimetable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "export xlsx", err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, tt); err != nil {
		writeError(w, r, "export xlsx", err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="timetable-%s.xlsx"`, tt.ID))
	_, _ = w.Write(buf.Bytes())
}
