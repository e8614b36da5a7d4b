package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/brainbrew/internal/apperr"
)

func openTest(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_Contract(t *testing.T) {
	storeContract(t, openTest(t))
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	s, err := OpenSQLite(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(ctx, s, KeyAssignments, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenSQLite(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	var got []string
	ok, err := Load(ctx, s, KeyAssignments, &got)
	if err != nil || !ok {
		t.Fatalf("Load = %v, %v", ok, err)
	}
	if len(got) != 2 || got[1] != "b" {
		t.Errorf("got %v", got)
	}
}

// captureStdout returns everything fn writes to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestSQLite_MissingKeyIsSilent(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	stdout := captureStdout(t, func() {
		s, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"), logger)
		if err != nil {
			t.Fatal(err)
		}
		defer s.Close()
		for _, key := range []string{KeySubjects, KeyTimetables, KeyAssignments} {
			if _, err := s.Get(context.Background(), key); !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("Get(%s) err = %v, want ErrNotFound", key, err)
			}
		}
	})

	if stdout != "" {
		t.Errorf("stdout = %q, want nothing", stdout)
	}
	if logs.Len() != 0 {
		t.Errorf("logs = %s, want nothing for a missing key", logs.String())
	}
}

func TestSQLite_ErrorsAreLoggedAsJSON(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"), logger)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	if _, err := s.Get(context.Background(), KeySubjects); err == nil {
		t.Fatal("Get on a closed store succeeded")
	}
	line, _, _ := strings.Cut(logs.String(), "\n")
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line %q is not JSON: %v", line, err)
	}
	msg, _ := entry["msg"].(string)
	if entry["level"] != "WARN" || !strings.Contains(msg, "closed") {
		t.Errorf("log entry = %v", entry)
	}
}
