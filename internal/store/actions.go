package store

import (
	"time"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/gateway"
)

// Action is a state transition applied by Store.Dispatch.
type Action interface {
	reduce(s *State, now time.Time)
}

// lifecycle returns the request state of a collection. Photos are keyed by
// occasion and handled by setPhotos.
func lifecycle(s *State, res Resource) *ResourceState {
	switch res {
	case ResourceEvents:
		return &s.Events.ResourceState
	case ResourceOccasions:
		return &s.Occasions.ResourceState
	case ResourceAuth:
		return &s.Auth.ResourceState
	}
	return nil
}

func setPhotos(s *State, key string, fn func(*PhotosState)) {
	p := s.PhotosFor(key)
	fn(&p)
	photos := make(map[string]PhotosState, len(s.Photos)+1)
	for k, v := range s.Photos {
		photos[k] = v
	}
	photos[key] = p
	s.Photos = photos
}

type Pending struct {
	Resource Resource
	Key      string
}

func (a Pending) reduce(s *State, now time.Time) {
	if a.Resource == ResourcePhotos {
		setPhotos(s, a.Key, func(p *PhotosState) {
			p.Status, p.Error = StatusPending, ""
		})
		return
	}
	if r := lifecycle(s, a.Resource); r != nil {
		r.Status, r.Error = StatusPending, ""
	}
}

type Rejected struct {
	Resource Resource
	Key      string
	Error    string
}

func (a Rejected) reduce(s *State, now time.Time) {
	if a.Resource == ResourcePhotos {
		setPhotos(s, a.Key, func(p *PhotosState) {
			p.Status, p.Error, p.UpdatedAt = StatusRejected, a.Error, now
		})
		return
	}
	if r := lifecycle(s, a.Resource); r != nil {
		r.Status, r.Error, r.UpdatedAt = StatusRejected, a.Error, now
	}
}

func fulfilled(r *ResourceState, now time.Time) {
	r.Status, r.Error, r.UpdatedAt = StatusFulfilled, "", now
}

type EventsFetched struct {
	Query gateway.EventQuery
	Page  gateway.EventPage
}

func (a EventsFetched) reduce(s *State, now time.Time) {
	fulfilled(&s.Events.ResourceState, now)
	s.Events.Query = a.Query
	s.Events.Items = a.Page.Events
	s.Events.Page = a.Page.Pagination
}

type EventFetched struct {
	Event club.Event
}

func (a EventFetched) reduce(s *State, now time.Time) {
	fulfilled(&s.Events.ResourceState, now)
	event := a.Event
	s.Events.Current = &event
}

type EventRemoved struct {
	ID string
}

func (a EventRemoved) reduce(s *State, now time.Time) {
	if s.Events.Current != nil && s.Events.Current.ID == a.ID {
		s.Events.Current = nil
	}
	items := make([]club.Event, 0, len(s.Events.Items))
	for _, e := range s.Events.Items {
		if e.ID != a.ID {
			items = append(items, e)
		}
	}
	s.Events.Items = items
}

type OccasionsFetched struct {
	Query gateway.OccasionQuery
	Page  gateway.OccasionPage
}

func (a OccasionsFetched) reduce(s *State, now time.Time) {
	fulfilled(&s.Occasions.ResourceState, now)
	s.Occasions.Query = a.Query
	s.Occasions.Items = a.Page.Occasions
	s.Occasions.Page = a.Page.Pagination
}

// OccasionFetched also fills the photo collection of the occasion from the
// embedded photos.
type OccasionFetched struct {
	Occasion club.Occasion
}

func (a OccasionFetched) reduce(s *State, now time.Time) {
	fulfilled(&s.Occasions.ResourceState, now)
	occasion := a.Occasion
	s.Occasions.Current = &occasion
	setPhotos(s, occasion.ID, func(p *PhotosState) {
		fulfilled(&p.ResourceState, now)
		p.Items = occasion.Photos
	})
}

type OccasionRemoved struct {
	ID string
}

func (a OccasionRemoved) reduce(s *State, now time.Time) {
	if s.Occasions.Current != nil && s.Occasions.Current.ID == a.ID {
		s.Occasions.Current = nil
	}
	items := make([]club.Occasion, 0, len(s.Occasions.Items))
	for _, o := range s.Occasions.Items {
		if o.ID != a.ID {
			items = append(items, o)
		}
	}
	s.Occasions.Items = items

	photos := make(map[string]PhotosState, len(s.Photos))
	for k, v := range s.Photos {
		if k != a.ID {
			photos[k] = v
		}
	}
	s.Photos = photos
}

type PhotosFetched struct {
	OccasionID     string
	IncludePending bool
	Photos         []club.Photo
}

func (a PhotosFetched) reduce(s *State, now time.Time) {
	setPhotos(s, a.OccasionID, func(p *PhotosState) {
		fulfilled(&p.ResourceState, now)
		p.IncludePending = a.IncludePending
		p.Items = a.Photos
	})
}

type SignedIn struct {
	Token string
	User  club.User
}

func (a SignedIn) reduce(s *State, now time.Time) {
	fulfilled(&s.Auth.ResourceState, now)
	user := a.User
	s.Auth.Token = a.Token
	s.Auth.User = &user
}

type SignedOut struct{}

func (SignedOut) reduce(s *State, now time.Time) {
	s.Auth = AuthState{ResourceState: ResourceState{Status: StatusIdle, UpdatedAt: now}}
}

type NotificationAdded struct {
	Notification Notification
}

func (a NotificationAdded) reduce(s *State, now time.Time) {
	n := a.Notification
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	items := make([]Notification, 0, len(s.Notifications)+1)
	items = append(items, s.Notifications...)
	s.Notifications = append(items, n)
}

type NotificationDismissed struct {
	ID string
}

func (a NotificationDismissed) reduce(s *State, now time.Time) {
	items := make([]Notification, 0, len(s.Notifications))
	for _, n := range s.Notifications {
		if n.ID != a.ID {
			items = append(items, n)
		}
	}
	s.Notifications = items
}
