// Package store keeps the client-side copy of fetched resources. Every change
// goes through Dispatch; thunks wrap gateway calls in pending, fulfilled and
// rejected actions.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/gateway"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const DefaultNotificationTimeout = 5 * time.Second

// API is the part of the gateway the store calls.
type API interface {
	SetToken(token string)

	ListEvents(ctx context.Context, q gateway.EventQuery) gateway.Result[gateway.EventPage]
	GetEvent(ctx context.Context, idOrSlug string) gateway.Result[club.Event]
	CreateEvent(ctx context.Context, in gateway.EventInput) gateway.Result[club.Event]
	UpdateEvent(ctx context.Context, id string, in gateway.EventInput) gateway.Result[club.Event]
	DeleteEvent(ctx context.Context, id string) gateway.Result[struct{}]

	ListOccasions(ctx context.Context, q gateway.OccasionQuery) gateway.Result[gateway.OccasionPage]
	GetOccasion(ctx context.Context, idOrSlug string) gateway.Result[club.Occasion]
	CreateOccasion(ctx context.Context, in gateway.OccasionInput) gateway.Result[club.Occasion]
	UpdateOccasion(ctx context.Context, id string, in gateway.OccasionInput) gateway.Result[club.Occasion]
	DeleteOccasion(ctx context.Context, id string) gateway.Result[struct{}]
	ListPhotos(ctx context.Context, occasionID string, includePending bool) gateway.Result[[]club.Photo]
	UploadPhotos(ctx context.Context, occasionID, caption string, files []gateway.File) gateway.Result[[]club.Photo]
	ApprovePhoto(ctx context.Context, id string, approved bool) gateway.Result[club.Photo]
	DeletePhoto(ctx context.Context, id string) gateway.Result[struct{}]

	Register(ctx context.Context, in gateway.RegisterInput) gateway.Result[gateway.Session]
	Login(ctx context.Context, email, password string) gateway.Result[gateway.Session]
	Me(ctx context.Context) gateway.Result[club.User]
}

type Option func(*Store)

// WithNotificationTimeout changes how long notifications stay in the store.
func WithNotificationTimeout(d time.Duration) Option {
	return func(s *Store) { s.notificationTimeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

type Store struct {
	api                 API
	notificationTimeout time.Duration
	now                 func() time.Time

	mu          sync.Mutex
	state       State
	subscribers map[int]func(State)
	nextSub     int

	timersMu sync.Mutex
	timers   map[string]*time.Timer

	// flights collapses identical reads that are in flight at the same time.
	flights singleflight.Group
}

func New(api API, opts ...Option) *Store {
	s := &Store{
		api:                 api,
		notificationTimeout: DefaultNotificationTimeout,
		now:                 time.Now,
		state:               newState(),
		subscribers:         map[int]func(State){},
		timers:              map[string]*time.Timer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch applies the action and hands the new state to every subscriber.
// Subscribers run outside the lock and may dispatch again.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	action.reduce(&s.state, s.now())
	snapshot := s.state.clone()
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Notify adds a notification that removes itself after the configured
// timeout, and returns its id.
func (s *Store) Notify(kind NotificationKind, message string) string {
	id := uuid.NewString()
	s.Dispatch(NotificationAdded{Notification: Notification{ID: id, Kind: kind, Message: message}})

	s.timersMu.Lock()
	s.timers[id] = time.AfterFunc(s.notificationTimeout, func() { s.expire(id) })
	s.timersMu.Unlock()
	return id
}

func (s *Store) expire(id string) {
	s.timersMu.Lock()
	_, live := s.timers[id]
	delete(s.timers, id)
	s.timersMu.Unlock()

	if live {
		s.Dispatch(NotificationDismissed{ID: id})
	}
}

// Dismiss removes a notification before its timeout.
func (s *Store) Dismiss(id string) {
	s.timersMu.Lock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	s.timersMu.Unlock()

	s.Dispatch(NotificationDismissed{ID: id})
}

// Close stops pending notification timers. Notifications already shown stay
// in the state.
func (s *Store) Close() {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
