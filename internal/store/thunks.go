package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/gateway"
	"github.com/sirupsen/logrus"
)

// RequestError carries a rejected gateway result back to the caller.
type RequestError struct {
	Resource Resource
	Status   int
	Message  string
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Resource, e.Message)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Resource, e.Message, e.Status)
}

func rejection[T any](res Resource, r gateway.Result[T]) *RequestError {
	logrus.WithFields(logrus.Fields{
		"resource": res,
		"status":   r.Status,
	}).Debug(r.Message)
	return &RequestError{Resource: res, Status: r.Status, Message: r.Message}
}

// load runs one read through the lifecycle actions of a collection.
func load[T any](s *Store, res Resource, key string, call func() gateway.Result[T], done func(T) Action) (T, error) {
	s.Dispatch(Pending{Resource: res, Key: key})
	r := call()
	if !r.Success {
		s.Dispatch(Rejected{Resource: res, Key: key, Error: r.Message})
		var zero T
		return zero, rejection(res, r)
	}
	s.Dispatch(done(r.Data))
	return r.Data, nil
}

// shared runs call once for all concurrent callers with the same key. The
// call runs on a context that ignores cancellation, so one caller giving up
// does not fail the others; each caller stops waiting when its own ctx ends.
func shared[T any](ctx context.Context, s *Store, key string, call func(context.Context) gateway.Result[T]) gateway.Result[T] {
	detached := context.WithoutCancel(ctx)
	ch := s.flights.DoChan(key, func() (interface{}, error) {
		return call(detached), nil
	})
	select {
	case <-ctx.Done():
		return gateway.Result[T]{Message: fmt.Sprintf("request cancelled: %v", ctx.Err())}
	case res := <-ch:
		return res.Val.(gateway.Result[T])
	}
}

// write runs one mutation and reports it as a notification. The collection
// status is left to the refresh that follows.
func write[T any](s *Store, res Resource, success string, call func() gateway.Result[T]) (T, error) {
	r := call()
	if !r.Success {
		s.Notify(NotifyError, r.Message)
		var zero T
		return zero, rejection(res, r)
	}
	if r.Message != "" {
		success = r.Message
	}
	s.Notify(NotifySuccess, success)
	return r.Data, nil
}

func (s *Store) FetchEvents(ctx context.Context, q gateway.EventQuery) ([]club.Event, error) {
	page, err := load(s, ResourceEvents, "",
		func() gateway.Result[gateway.EventPage] {
			return shared(ctx, s, fmt.Sprintf("events:%+v", q), func(ctx context.Context) gateway.Result[gateway.EventPage] {
				return s.api.ListEvents(ctx, q)
			})
		},
		func(p gateway.EventPage) Action { return EventsFetched{Query: q, Page: p} })
	return page.Events, err
}

func (s *Store) FetchEvent(ctx context.Context, idOrSlug string) (club.Event, error) {
	return load(s, ResourceEvents, "",
		func() gateway.Result[club.Event] {
			return shared(ctx, s, "event:"+idOrSlug, func(ctx context.Context) gateway.Result[club.Event] {
				return s.api.GetEvent(ctx, idOrSlug)
			})
		},
		func(e club.Event) Action { return EventFetched{Event: e} })
}

// refreshEvents repeats the last list query. A failed refresh shows up as a
// rejected collection, not as a failed write.
func (s *Store) refreshEvents(ctx context.Context) {
	q := s.Snapshot().Events.Query
	_, _ = s.FetchEvents(ctx, q)
}

// SaveEvent creates the event when id is empty and updates it otherwise.
func (s *Store) SaveEvent(ctx context.Context, id string, in gateway.EventInput) (club.Event, error) {
	event, err := write(s, ResourceEvents, "Event saved.", func() gateway.Result[club.Event] {
		if id == "" {
			return s.api.CreateEvent(ctx, in)
		}
		return s.api.UpdateEvent(ctx, id, in)
	})
	if err != nil {
		return event, err
	}
	if current := s.Snapshot().Events.Current; current != nil && current.ID == event.ID {
		s.Dispatch(EventFetched{Event: event})
	}
	s.refreshEvents(ctx)
	return event, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	if _, err := write(s, ResourceEvents, "Event deleted.", func() gateway.Result[struct{}] {
		return s.api.DeleteEvent(ctx, id)
	}); err != nil {
		return err
	}
	s.Dispatch(EventRemoved{ID: id})
	s.refreshEvents(ctx)
	return nil
}

func (s *Store) FetchOccasions(ctx context.Context, q gateway.OccasionQuery) ([]club.Occasion, error) {
	page, err := load(s, ResourceOccasions, "",
		func() gateway.Result[gateway.OccasionPage] {
			return shared(ctx, s, fmt.Sprintf("occasions:%+v", q), func(ctx context.Context) gateway.Result[gateway.OccasionPage] {
				return s.api.ListOccasions(ctx, q)
			})
		},
		func(p gateway.OccasionPage) Action { return OccasionsFetched{Query: q, Page: p} })
	return page.Occasions, err
}

func (s *Store) FetchOccasion(ctx context.Context, idOrSlug string) (club.Occasion, error) {
	return load(s, ResourceOccasions, "",
		func() gateway.Result[club.Occasion] {
			return shared(ctx, s, "occasion:"+idOrSlug, func(ctx context.Context) gateway.Result[club.Occasion] {
				return s.api.GetOccasion(ctx, idOrSlug)
			})
		},
		func(o club.Occasion) Action { return OccasionFetched{Occasion: o} })
}

func (s *Store) refreshOccasions(ctx context.Context) {
	q := s.Snapshot().Occasions.Query
	_, _ = s.FetchOccasions(ctx, q)
}

func (s *Store) SaveOccasion(ctx context.Context, id string, in gateway.OccasionInput) (club.Occasion, error) {
	occasion, err := write(s, ResourceOccasions, "Occasion saved.", func() gateway.Result[club.Occasion] {
		if id == "" {
			return s.api.CreateOccasion(ctx, in)
		}
		return s.api.UpdateOccasion(ctx, id, in)
	})
	if err != nil {
		return occasion, err
	}
	if current := s.Snapshot().Occasions.Current; current != nil && current.ID == occasion.ID {
		// Write responses carry no photos, so reload the detail instead of
		// replacing it.
		_, _ = s.FetchOccasion(ctx, occasion.ID)
	}
	s.refreshOccasions(ctx)
	return occasion, nil
}

func (s *Store) DeleteOccasion(ctx context.Context, id string) error {
	if _, err := write(s, ResourceOccasions, "Occasion deleted.", func() gateway.Result[struct{}] {
		return s.api.DeleteOccasion(ctx, id)
	}); err != nil {
		return err
	}
	s.Dispatch(OccasionRemoved{ID: id})
	s.refreshOccasions(ctx)
	return nil
}

func (s *Store) FetchPhotos(ctx context.Context, occasionID string, includePending bool) ([]club.Photo, error) {
	return load(s, ResourcePhotos, occasionID,
		func() gateway.Result[[]club.Photo] {
			return shared(ctx, s, fmt.Sprintf("photos:%s:%t", occasionID, includePending), func(ctx context.Context) gateway.Result[[]club.Photo] {
				return s.api.ListPhotos(ctx, occasionID, includePending)
			})
		},
		func(p []club.Photo) Action {
			return PhotosFetched{OccasionID: occasionID, IncludePending: includePending, Photos: p}
		})
}

// refreshGallery reloads the photos of one occasion and, when they were
// loaded before, the occasion list whose photo counts may have changed.
func (s *Store) refreshGallery(ctx context.Context, occasionID string) {
	state := s.Snapshot()
	if occasionID != "" {
		_, _ = s.FetchPhotos(ctx, occasionID, state.PhotosFor(occasionID).IncludePending)
	}
	if state.Occasions.Status != StatusIdle {
		s.refreshOccasions(ctx)
	}
}

func (s *Store) UploadPhotos(ctx context.Context, occasionID, caption string, files []gateway.File) ([]club.Photo, error) {
	photos, err := write(s, ResourcePhotos, "Photos uploaded.", func() gateway.Result[[]club.Photo] {
		return s.api.UploadPhotos(ctx, occasionID, caption, files)
	})
	if err != nil {
		return photos, err
	}
	s.refreshGallery(ctx, occasionID)
	return photos, nil
}

func (s *Store) ApprovePhoto(ctx context.Context, id string, approved bool) (club.Photo, error) {
	photo, err := write(s, ResourcePhotos, "Photo updated.", func() gateway.Result[club.Photo] {
		return s.api.ApprovePhoto(ctx, id, approved)
	})
	if err != nil {
		return photo, err
	}
	s.refreshGallery(ctx, photo.OccasionID)
	return photo, nil
}

// DeletePhoto looks up the owning occasion in the loaded photo collections
// so it can be refreshed afterwards.
func (s *Store) DeletePhoto(ctx context.Context, id string) error {
	occasionID := ""
	for key, photos := range s.Snapshot().Photos {
		for _, p := range photos.Items {
			if p.ID == id {
				occasionID = key
			}
		}
	}

	if _, err := write(s, ResourcePhotos, "Photo deleted.", func() gateway.Result[struct{}] {
		return s.api.DeletePhoto(ctx, id)
	}); err != nil {
		return err
	}
	s.refreshGallery(ctx, occasionID)
	return nil
}

func (s *Store) signIn(call func() gateway.Result[gateway.Session], greeting func(club.User) string) (club.User, error) {
	session, err := load(s, ResourceAuth, "", call, func(sess gateway.Session) Action {
		s.api.SetToken(sess.Token)
		return SignedIn{Token: sess.Token, User: sess.User}
	})
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			s.Notify(NotifyError, reqErr.Message)
		}
		return club.User{}, err
	}
	s.Notify(NotifySuccess, greeting(session.User))
	return session.User, nil
}

func (s *Store) Login(ctx context.Context, email, password string) (club.User, error) {
	return s.signIn(
		func() gateway.Result[gateway.Session] { return s.api.Login(ctx, email, password) },
		func(u club.User) string { return fmt.Sprintf("Welcome back, %s.", u.Name) })
}

func (s *Store) Register(ctx context.Context, in gateway.RegisterInput) (club.User, error) {
	return s.signIn(
		func() gateway.Result[gateway.Session] { return s.api.Register(ctx, in) },
		func(u club.User) string { return fmt.Sprintf("Welcome, %s.", u.Name) })
}

// LoadProfile refreshes the signed-in user, for example after a restart with
// a saved token. A rejected token signs the user out.
func (s *Store) LoadProfile(ctx context.Context, token string) (club.User, error) {
	s.api.SetToken(token)
	user, err := load(s, ResourceAuth, "",
		func() gateway.Result[club.User] { return s.api.Me(ctx) },
		func(u club.User) Action { return SignedIn{Token: token, User: u} })
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.Status == http.StatusUnauthorized {
			s.api.SetToken("")
			s.Dispatch(SignedOut{})
		}
		return user, err
	}
	return user, nil
}

func (s *Store) Logout() {
	s.api.SetToken("")
	s.Dispatch(SignedOut{})
	s.Notify(NotifyInfo, "Signed out.")
}
