package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/brainbrew/internal/apperr"
)

// storeContract checks the behaviour every Store backend must share.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		if _, err := s.Get(ctx, "nope"); !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("put overwrites", func(t *testing.T) {
		if err := s.Put(ctx, KeySubjects, []byte(`[1]`)); err != nil {
			t.Fatal(err)
		}
		if err := s.Put(ctx, KeySubjects, []byte(`[1,2]`)); err != nil {
			t.Fatal(err)
		}
		got, err := s.Get(ctx, KeySubjects)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != `[1,2]` {
			t.Errorf("value = %s", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.Put(ctx, KeyTimetables, []byte(`[]`)); err != nil {
			t.Fatal(err)
		}
		if err := s.Delete(ctx, KeyTimetables); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Get(ctx, KeyTimetables); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("after delete err = %v", err)
		}
		if err := s.Delete(ctx, "never-written"); err != nil {
			t.Errorf("delete missing: %v", err)
		}
	})

	t.Run("load and save", func(t *testing.T) {
		dst := []string{"untouched"}
		ok, err := Load(ctx, s, KeyAssignments, &dst)
		if err != nil || ok {
			t.Fatalf("Load missing = %v, %v", ok, err)
		}
		if dst[0] != "untouched" {
			t.Error("dst modified")
		}

		if err := Save(ctx, s, KeyAssignments, []string{"a", "b"}); err != nil {
			t.Fatal(err)
		}
		ok, err = Load(ctx, s, KeyAssignments, &dst)
		if err != nil || !ok || len(dst) != 2 || dst[1] != "b" {
			t.Errorf("Load = %v, %v, %v", dst, ok, err)
		}
	})

	t.Run("corrupt document", func(t *testing.T) {
		if err := s.Put(ctx, "broken", []byte(`{`)); err != nil {
			t.Fatal(err)
		}
		var dst []string
		if _, err := Load(ctx, s, "broken", &dst); err == nil {
			t.Error("corrupt JSON decoded without error")
		}
	})
}
