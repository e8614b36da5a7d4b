package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/starford/brainbrew/internal/models"
	"github.com/starford/brainbrew/internal/planner"
)

func TestSubjects(t *testing.T) {
	router := testEnv(t, testOptions{})

	w := do(t, router, http.MethodGet, "/subjects", nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[SubjectListResponse](t, w).Subjects; len(got) != len(models.DefaultSubjects()) {
		t.Fatalf("defaults = %d subjects", len(got))
	}

	w = do(t, router, http.MethodPost, "/subjects", SubjectRequest{Name: "Geography"})
	expectStatus(t, w, http.StatusCreated)
	geo := decode[models.Subject](t, w)
	if geo.Color != "bg-blue-500" {
		t.Errorf("color = %q", geo.Color)
	}

	expectStatus(t, do(t, router, http.MethodPost, "/subjects", SubjectRequest{Name: "geography"}), http.StatusConflict)
	expectStatus(t, do(t, router, http.MethodPost, "/subjects", SubjectRequest{Name: "  "}), http.StatusBadRequest)

	w = do(t, router, http.MethodPatch, "/subjects/"+geo.ID, map[string]string{"color": "bg-red-500"})
	expectStatus(t, w, http.StatusOK)
	if got := decode[models.Subject](t, w); got.Color != "bg-red-500" || got.Name != "Geography" {
		t.Errorf("patched = %+v", got)
	}

	expectStatus(t, do(t, router, http.MethodDelete, "/subjects/"+geo.ID, nil), http.StatusNoContent)
	expectStatus(t, do(t, router, http.MethodDelete, "/subjects/"+geo.ID, nil), http.StatusNotFound)
}

func TestDeleteSubject_InUse(t *testing.T) {
	router := testEnv(t, testOptions{})

	w := do(t, router, http.MethodPost, "/assignments", map[string]string{
		"title": "Lab report", "subject": "Chemistry", "due_date": "2026-11-02",
	})
	expectStatus(t, w, http.StatusCreated)

	// Chemistry is id 3 in the default list.
	w = do(t, router, http.MethodDelete, "/subjects/3", nil)
	expectStatus(t, w, http.StatusConflict)
	if !strings.Contains(w.Body.String(), "Chemistry") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestAssignments(t *testing.T) {
	router := testEnv(t, testOptions{})

	for _, title := range []string{"Problem set", "Essay"} {
		w := do(t, router, http.MethodPost, "/assignments", map[string]string{
			"title": title, "subject": "Mathematics", "due_date": "2026-11-02",
		})
		expectStatus(t, w, http.StatusCreated)
	}
	w := do(t, router, http.MethodGet, "/assignments", nil)
	expectStatus(t, w, http.StatusOK)
	all := decode[AssignmentListResponse](t, w).Assignments
	if len(all) != 2 || all[0].Title != "Problem set" {
		t.Fatalf("assignments = %+v", all)
	}
	if all[0].Priority != models.PriorityMedium {
		t.Errorf("priority = %q", all[0].Priority)
	}

	w = do(t, router, http.MethodPost, "/assignments/"+all[0].ID+"/toggle", nil)
	expectStatus(t, w, http.StatusOK)
	if !decode[models.Assignment](t, w).Completed {
		t.Error("toggle did not complete")
	}

	w = do(t, router, http.MethodGet, "/assignments?status=pending", nil)
	if got := decode[AssignmentListResponse](t, w).Assignments; len(got) != 1 || got[0].Title != "Essay" {
		t.Errorf("pending = %+v", got)
	}
	expectStatus(t, do(t, router, http.MethodGet, "/assignments?status=late", nil), http.StatusBadRequest)

	expectStatus(t, do(t, router, http.MethodDelete, "/assignments/"+all[1].ID, nil), http.StatusNoContent)
	expectStatus(t, do(t, router, http.MethodPost, "/assignments/"+all[1].ID+"/toggle", nil), http.StatusNotFound)
}

func TestCreateAssignment_Invalid(t *testing.T) {
	router := testEnv(t, testOptions{})

	tests := []struct {
		name string
		body map[string]string
		want string
	}{
		{"no title", map[string]string{"subject": "Physics", "due_date": "2026-11-02"}, "enter a title"},
		{"bad date", map[string]string{"title": "x", "subject": "Physics", "due_date": "02/11/2026"}, "YYYY-MM-DD"},
		{"unknown subject", map[string]string{"title": "x", "subject": "Alchemy", "due_date": "2026-11-02"}, "unknown subject"},
		{"bad priority", map[string]string{"title": "x", "subject": "Physics", "due_date": "2026-11-02", "priority": "urgent"}, "priority"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/assignments", tc.body)
			expectStatus(t, w, http.StatusBadRequest)
			if !strings.Contains(w.Body.String(), tc.want) {
				t.Errorf("body = %s, want %q", w.Body.String(), tc.want)
			}
		})
	}
}

func TestAssignments_DueRangeAndCalendar(t *testing.T) {
	router := testEnv(t, testOptions{})

	for title, due := range map[string]string{
		"Quiz":    "2026-10-30",
		"Essay":   "2026-11-02",
		"Lab":     "2026-11-02",
		"Project": "2026-12-01",
	} {
		w := do(t, router, http.MethodPost, "/assignments", map[string]string{
			"title": title, "subject": "Physics", "due_date": due,
		})
		expectStatus(t, w, http.StatusCreated)
	}

	w := do(t, router, http.MethodGet, "/assignments?due_from=2026-11-01&due_to=2026-11-30", nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[AssignmentListResponse](t, w).Assignments; len(got) != 2 {
		t.Errorf("november = %+v", got)
	}
	expectStatus(t, do(t, router, http.MethodGet, "/assignments?due_from=soon", nil), http.StatusBadRequest)

	w = do(t, router, http.MethodGet, "/assignments/calendar?month=2026-11", nil)
	expectStatus(t, w, http.StatusOK)
	cal := decode[planner.Calendar](t, w)
	if cal.Month != "2026-11" || len(cal.Days) != 1 {
		t.Fatalf("calendar = %+v", cal)
	}
	if cal.Days[0].Date != "2026-11-02" || len(cal.Days[0].Assignments) != 2 {
		t.Errorf("day = %+v", cal.Days[0])
	}

	w = do(t, router, http.MethodGet, "/assignments/calendar?month=November", nil)
	expectStatus(t, w, http.StatusBadRequest)
	if !strings.Contains(w.Body.String(), "YYYY-MM") {
		t.Errorf("body = %s", w.Body.String())
	}
}
