package store

import (
	"time"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/gateway"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

// Resource names a collection in the store.
type Resource string

const (
	ResourceEvents    Resource = "events"
	ResourceOccasions Resource = "occasions"
	ResourcePhotos    Resource = "photos"
	ResourceAuth      Resource = "auth"
)

// ResourceState tracks the request lifecycle of one collection. Error holds
// the message of the last rejected request and is cleared by the next one.
type ResourceState struct {
	Status    Status
	Error     string
	UpdatedAt time.Time
}

func (r ResourceState) Loading() bool { return r.Status == StatusPending }

type EventsState struct {
	ResourceState
	Query   gateway.EventQuery
	Items   []club.Event
	Page    gateway.Pagination
	Current *club.Event
}

type OccasionsState struct {
	ResourceState
	Query   gateway.OccasionQuery
	Items   []club.Occasion
	Page    gateway.Pagination
	Current *club.Occasion
}

type PhotosState struct {
	ResourceState
	IncludePending bool
	Items          []club.Photo
}

type AuthState struct {
	ResourceState
	Token string
	User  *club.User
}

func (a AuthState) SignedIn() bool { return a.Token != "" && a.User != nil }

func (a AuthState) IsAdmin() bool { return a.User != nil && a.User.Role.IsAdmin() }

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
	NotifyWarning NotificationKind = "warning"
)

type Notification struct {
	ID        string
	Kind      NotificationKind
	Message   string
	CreatedAt time.Time
}

// State is the whole store. Reducers replace slices instead of editing them,
// so a snapshot can share them safely.
type State struct {
	Events        EventsState
	Occasions     OccasionsState
	Photos        map[string]PhotosState
	Auth          AuthState
	Notifications []Notification
}

func newState() State {
	return State{
		Events:    EventsState{ResourceState: ResourceState{Status: StatusIdle}},
		Occasions: OccasionsState{ResourceState: ResourceState{Status: StatusIdle}},
		Photos:    map[string]PhotosState{},
		Auth:      AuthState{ResourceState: ResourceState{Status: StatusIdle}},
	}
}

func (s State) clone() State {
	out := s
	out.Photos = make(map[string]PhotosState, len(s.Photos))
	for k, v := range s.Photos {
		out.Photos[k] = v
	}
	return out
}

// PhotosFor returns the idle state for occasions that were never fetched.
func (s State) PhotosFor(occasionID string) PhotosState {
	if p, ok := s.Photos[occasionID]; ok {
		return p
	}
	return PhotosState{ResourceState: ResourceState{Status: StatusIdle}}
}
