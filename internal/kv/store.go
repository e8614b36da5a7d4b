// Package kv persists planner collections as whole JSON documents under
// fixed keys.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/starford/brainbrew/internal/apperr"
)

// Collection keys.
const (
	KeyTimetables  = "timetables"
	KeySubjects    = "subjects"
	KeyAssignments = "assignments"
)

// Store is a string-keyed document store. Get returns apperr.ErrNotFound for a
// key that was never written.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Load decodes the document under key into dst. It reports false without
// touching dst when the key is absent.
func Load(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("kv: decode %s: %w", key, err)
	}
	return true, nil
}

// Save encodes v as JSON and writes it under key.
func Save(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	return s.Put(ctx, key, raw)
}
