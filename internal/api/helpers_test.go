package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/brainbrew/internal/noteservice"
	"github.com/starford/brainbrew/internal/planner"
	"github.com/starford/brainbrew/internal/testutil"
)

type testOptions struct {
	authEnabled bool
	token       string
	sse         http.Handler
}

// testEnv sets up a temp vault, note index, document store, services and
// router.
func testEnv(t *testing.T, opts testOptions) http.Handler {
	t.Helper()
	_, store := testutil.TestVault(t)
	return NewRouter(
		noteservice.NewService(store, testutil.TestDB(t)),
		planner.NewService(testutil.TestKV(t)),
		opts.authEnabled, opts.token, opts.sse,
	)
}

// do sends a request with an optional JSON body and returns the recorder.
func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d, body = %s", w.Code, want, w.Body.String())
	}
}
