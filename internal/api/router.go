package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/brainbrew/internal/noteservice"
	"github.com/starford/brainbrew/internal/planner"
)

// Handler holds API route handlers.
type Handler struct {
	notes   *noteservice.Service
	planner *planner.Service
}

// NewHandler creates a new Handler.
func NewHandler(notes *noteservice.Service, plan *planner.Service) *Handler {
	return &Handler{notes: notes, planner: plan}
}

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(notes *noteservice.Service, plan *planner.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(notes, plan)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/export", h.ExportNotes)
	r.Get("/notes/*", h.GetNote)
	r.Put("/notes/*", h.UpdateNote)
	r.Delete("/notes/*", h.DeleteNote)
	r.Get("/search", h.Search)

	r.Route("/subjects", func(r chi.Router) {
		r.Get("/", h.ListSubjects)
		r.Post("/", h.AddSubject)
		r.Patch("/{id}", h.UpdateSubject)
		r.Delete("/{id}", h.DeleteSubject)
	})

	r.Route("/assignments", func(r chi.Router) {
		r.Get("/", h.ListAssignments)
		r.Get("/calendar", h.AssignmentCalendar)
		r.Post("/", h.CreateAssignment)
		r.Post("/{id}/toggle", h.ToggleAssignment)
		r.Delete("/{id}", h.DeleteAssignment)
	})

	r.Post("/schedule/preview", h.PreviewSchedule)
	r.Route("/timetables", func(r chi.Router) {
		r.Get("/", h.ListTimetables)
		r.Post("/", h.CreateTimetable)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTimetable)
			r.Delete("/", h.DeleteTimetable)
			r.Get("/export.ics", h.ExportICS)
			r.Get("/export.xlsx", h.ExportXLSX)
			r.Get("/days/{day}", h.GetDay)
			r.Post("/days/{day}/slots", h.AddSlot)
			r.Patch("/days/{day}/slots/{slotID}", h.UpdateSlot)
			r.Delete("/days/{day}/slots/{slotID}", h.DeleteSlot)
		})
	})

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
