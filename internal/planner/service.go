// Package planner owns the stored timetables, subjects and assignments and
// serialises every read-modify-write against the kv store.
package planner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/brainbrew/internal/kv"
)

// Notifier is told about every successful write.
type Notifier interface {
	PublishChange(resource, kind, id string)
}

// Change kinds.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// Resource names used in change notifications.
const (
	ResourceTimetable  = "timetable"
	ResourceSubject    = "subject"
	ResourceAssignment = "assignment"
)

// Service is the single handle through which collections are read and
// written. Concurrent callers are safe.
type Service struct {
	store  kv.Store
	notify Notifier
	now    func() time.Time
	newID  func() string

	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier publishes change events to n.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notify = n }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a planner over store.
func NewService(store kv.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) publish(resource, kind, id string) {
	if s.notify != nil {
		s.notify.PublishChange(resource, kind, id)
	}
}

// storeList writes items under key. An emptied list removes the key, which
// load reads back as an empty list.
func storeList[T any](ctx context.Context, store kv.Store, key string, items []T) error {
	if len(items) == 0 {
		return store.Delete(ctx, key)
	}
	return kv.Save(ctx, store, key, items)
}

func load[T any](ctx context.Context, store kv.Store, key string) ([]T, bool, error) {
	var items []T
	ok, err := kv.Load(ctx, store, key, &items)
	if err != nil {
		return nil, false, err
	}
	if items == nil {
		items = []T{}
	}
	return items, ok, nil
}
