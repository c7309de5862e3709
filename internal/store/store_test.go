package store_test

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/farellandr/clubhub/internal/apitest"
	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/gateway"
	"github.com/farellandr/clubhub/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	statuses []store.Status
}

func (r *recorder) events(s store.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.statuses); n == 0 || r.statuses[n-1] != s.Events.Status {
		r.statuses = append(r.statuses, s.Events.Status)
	}
}

func (r *recorder) seen() []store.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]store.Status(nil), r.statuses...)
}

func newStore(t *testing.T, baseURL string) *store.Store {
	t.Helper()
	s := store.New(gateway.New(baseURL), store.WithNotificationTimeout(time.Minute))
	t.Cleanup(s.Close)
	return s
}

func signInAdmin(t *testing.T, s *store.Store) {
	t.Helper()
	_, err := s.Register(context.Background(), gateway.RegisterInput{
		Name: "Admin", Email: apitest.AdminEmail, Password: apitest.Password, RollNumber: "2022BCA-001",
	})
	require.NoError(t, err)
	require.True(t, s.Snapshot().Auth.IsAdmin())
}

func messages(s store.State) []string {
	out := make([]string, 0, len(s.Notifications))
	for _, n := range s.Notifications {
		out = append(out, n.Message)
	}
	return out
}

func TestFetchEventsLifecycle(t *testing.T) {
	srv := apitest.NewServer(t)
	s := newStore(t, srv.URL)

	assert.Equal(t, store.StatusIdle, s.Snapshot().Events.Status)

	rec := &recorder{}
	unsubscribe := s.Subscribe(rec.events)
	defer unsubscribe()

	events, err := s.FetchEvents(context.Background(), gateway.EventQuery{Status: "upcoming"})
	require.NoError(t, err)
	assert.Empty(t, events)

	assert.Equal(t, []store.Status{store.StatusPending, store.StatusFulfilled}, rec.seen())
	state := s.Snapshot()
	assert.Equal(t, "upcoming", state.Events.Query.Status)
	assert.False(t, state.Events.UpdatedAt.IsZero())
}

func TestFetchRejected(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	s := newStore(t, url)
	_, err := s.FetchEvents(context.Background(), gateway.EventQuery{})
	require.Error(t, err)

	var reqErr *store.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, store.ResourceEvents, reqErr.Resource)

	state := s.Snapshot()
	assert.Equal(t, store.StatusRejected, state.Events.Status)
	assert.NotEmpty(t, state.Events.Error)
}

func TestSaveAndDeleteEventRefreshList(t *testing.T) {
	srv := apitest.NewServer(t)
	ctx := context.Background()
	s := newStore(t, srv.URL)
	signInAdmin(t, s)

	_, err := s.FetchEvents(ctx, gateway.EventQuery{})
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().Events.Items)

	event, err := s.SaveEvent(ctx, "", gateway.EventInput{
		Title: "Quiz Night", Description: "Trivia", Date: apitest.Tomorrow(), Category: "Cultural", IsPublished: true,
	})
	require.NoError(t, err)

	state := s.Snapshot()
	require.Len(t, state.Events.Items, 1)
	assert.Equal(t, event.ID, state.Events.Items[0].ID)
	assert.Contains(t, messages(state), "Event created successfully.")

	_, err = s.FetchEvent(ctx, event.Slug)
	require.NoError(t, err)

	_, err = s.SaveEvent(ctx, event.ID, gateway.EventInput{
		Title: "Quiz Night Finals", Description: "Trivia", Date: apitest.Tomorrow(), Category: "Cultural", IsPublished: true,
	})
	require.NoError(t, err)
	state = s.Snapshot()
	require.NotNil(t, state.Events.Current)
	assert.Equal(t, "Quiz Night Finals", state.Events.Current.Title)
	assert.Equal(t, "Quiz Night Finals", state.Events.Items[0].Title)

	require.NoError(t, s.DeleteEvent(ctx, event.ID))
	state = s.Snapshot()
	assert.Empty(t, state.Events.Items)
	assert.Nil(t, state.Events.Current)
}

func TestWriteFailureNotifies(t *testing.T) {
	srv := apitest.NewServer(t)
	s := newStore(t, srv.URL)

	_, err := s.SaveEvent(context.Background(), "", gateway.EventInput{Title: "Nope", Description: "x", Date: apitest.Tomorrow()})
	require.Error(t, err)

	state := s.Snapshot()
	require.Len(t, state.Notifications, 1)
	assert.Equal(t, store.NotifyError, state.Notifications[0].Kind)
	assert.Equal(t, store.StatusIdle, state.Events.Status)
}

func TestGalleryFlow(t *testing.T) {
	srv := apitest.NewServer(t)
	ctx := context.Background()

	admin := newStore(t, srv.URL)
	signInAdmin(t, admin)

	occasion, err := admin.SaveOccasion(ctx, "", gateway.OccasionInput{
		Title: "Sports Day", Date: "2024-01-20", Category: "Sports", IsPublished: true,
	})
	require.NoError(t, err)
	require.Len(t, admin.Snapshot().Occasions.Items, 1)

	member := newStore(t, srv.URL)
	_, err = member.Register(ctx, gateway.RegisterInput{
		Name: "Ravi", Email: "ravi@club.example", Password: apitest.Password, RollNumber: "2023BCA-010",
	})
	require.NoError(t, err)

	_, err = member.UploadPhotos(ctx, occasion.ID, "Finish line", []gateway.File{
		{Name: "finish.png", Content: bytes.NewReader(apitest.PNG)},
	})
	require.NoError(t, err)
	assert.Contains(t, messages(member.Snapshot()), "Photos submitted for approval.")
	assert.Empty(t, member.Snapshot().PhotosFor(occasion.ID).Items)

	pending, err := admin.FetchPhotos(ctx, occasion.ID, true)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.False(t, pending[0].IsApproved)

	_, err = admin.ApprovePhoto(ctx, pending[0].ID, true)
	require.NoError(t, err)

	state := admin.Snapshot()
	photos := state.PhotosFor(occasion.ID)
	assert.True(t, photos.IncludePending)
	require.Len(t, photos.Items, 1)
	assert.True(t, photos.Items[0].IsApproved)
	assert.EqualValues(t, 1, state.Occasions.Items[0].PhotoCount)

	require.NoError(t, admin.DeletePhoto(ctx, pending[0].ID))
	assert.Empty(t, admin.Snapshot().PhotosFor(occasion.ID).Items)

	fetched, err := admin.FetchOccasion(ctx, occasion.Slug)
	require.NoError(t, err)
	assert.Equal(t, occasion.ID, fetched.ID)

	require.NoError(t, admin.DeleteOccasion(ctx, occasion.ID))
	state = admin.Snapshot()
	assert.Empty(t, state.Occasions.Items)
	assert.Nil(t, state.Occasions.Current)
	assert.Equal(t, store.StatusIdle, state.PhotosFor(occasion.ID).Status)
}

func TestAuthThunks(t *testing.T) {
	srv := apitest.NewServer(t)
	ctx := context.Background()
	s := newStore(t, srv.URL)

	_, err := s.Login(ctx, "ghost@club.example", "whatever1")
	require.Error(t, err)
	state := s.Snapshot()
	assert.Equal(t, store.StatusRejected, state.Auth.Status)
	assert.False(t, state.Auth.SignedIn())

	user, err := s.Register(ctx, gateway.RegisterInput{
		Name: "Asha", Email: "asha@club.example", Password: apitest.Password, RollNumber: "2023BMS-025",
	})
	require.NoError(t, err)
	assert.Equal(t, club.RoleMember, user.Role)
	token := s.Snapshot().Auth.Token
	require.NotEmpty(t, token)

	s.Logout()
	assert.False(t, s.Snapshot().Auth.SignedIn())

	profile, err := s.LoadProfile(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "Asha", profile.Name)
	assert.True(t, s.Snapshot().Auth.SignedIn())

	_, err = s.LoadProfile(ctx, "not-a-token")
	require.Error(t, err)
	state = s.Snapshot()
	assert.Empty(t, state.Auth.Token)
	assert.Nil(t, state.Auth.User)
}

func TestNotificationExpires(t *testing.T) {
	s := store.New(nil, store.WithNotificationTimeout(20*time.Millisecond))
	defer s.Close()

	s.Notify(store.NotifyInfo, "hello")
	require.Len(t, s.Snapshot().Notifications, 1)

	assert.Eventually(t, func() bool {
		return len(s.Snapshot().Notifications) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestDismissNotification(t *testing.T) {
	s := store.New(nil, store.WithNotificationTimeout(time.Hour))
	defer s.Close()

	keep := s.Notify(store.NotifyWarning, "keep")
	drop := s.Notify(store.NotifySuccess, "drop")
	s.Dismiss(drop)

	state := s.Snapshot()
	require.Len(t, state.Notifications, 1)
	assert.Equal(t, keep, state.Notifications[0].ID)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := store.New(nil)
	s.Dispatch(store.PhotosFetched{OccasionID: "o1", Photos: []club.Photo{{ID: "p1"}}})

	snap := s.Snapshot()
	delete(snap.Photos, "o1")

	assert.Len(t, s.Snapshot().PhotosFor("o1").Items, 1)
}

func TestUnsubscribe(t *testing.T) {
	s := store.New(nil)
	calls := 0
	unsubscribe := s.Subscribe(func(store.State) { calls++ })

	s.Dispatch(store.Pending{Resource: store.ResourceEvents})
	unsubscribe()
	s.Dispatch(store.Rejected{Resource: store.ResourceEvents, Error: "x"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, store.StatusRejected, s.Snapshot().Events.Status)
}

func TestSaveOccasionRefreshesCurrent(t *testing.T) {
	srv := apitest.NewServer(t)
	ctx := context.Background()
	s := newStore(t, srv.URL)
	signInAdmin(t, s)

	occasion, err := s.SaveOccasion(ctx, "", gateway.OccasionInput{
		Title: "Sports Day", Date: "2024-01-20", Category: "Sports", IsPublished: true,
	})
	require.NoError(t, err)
	_, err = s.UploadPhotos(ctx, occasion.ID, "Relay", []gateway.File{
		{Name: "relay.png", Content: bytes.NewReader(apitest.PNG)},
	})
	require.NoError(t, err)

	_, err = s.FetchOccasion(ctx, occasion.Slug)
	require.NoError(t, err)

	_, err = s.SaveOccasion(ctx, occasion.ID, gateway.OccasionInput{
		Title: "Sports Day Finals", Date: "2024-01-20", Category: "Sports", IsPublished: true,
	})
	require.NoError(t, err)

	state := s.Snapshot()
	require.NotNil(t, state.Occasions.Current)
	assert.Equal(t, "Sports Day Finals", state.Occasions.Current.Title)
	assert.Len(t, state.Occasions.Current.Photos, 1)
	assert.Equal(t, "Sports Day Finals", state.Occasions.Items[0].Title)
	assert.Len(t, state.PhotosFor(occasion.ID).Items, 1)
}

// blockingAPI holds ListEvents until release is closed and records whether
// the context it ran with was cancelled by then.
type blockingAPI struct {
	store.API
	started chan struct{}
	release chan struct{}

	mu        sync.Mutex
	calls     int
	cancelled bool
}

func (b *blockingAPI) ListEvents(ctx context.Context, q gateway.EventQuery) gateway.Result[gateway.EventPage] {
	b.mu.Lock()
	b.calls++
	if b.calls == 1 {
		close(b.started)
	}
	b.mu.Unlock()

	<-b.release
	if err := ctx.Err(); err != nil {
		b.mu.Lock()
		b.cancelled = true
		b.mu.Unlock()
		return gateway.Result[gateway.EventPage]{Message: err.Error()}
	}
	return gateway.Result[gateway.EventPage]{Success: true, Data: gateway.EventPage{Events: []club.Event{{ID: "e1"}}}}
}

func TestSharedReadSurvivesCallerCancel(t *testing.T) {
	api := &blockingAPI{started: make(chan struct{}), release: make(chan struct{})}
	s := store.New(api)
	defer s.Close()

	q := gateway.EventQuery{Status: "upcoming"}
	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := s.FetchEvents(first, q)
		firstErr <- err
	}()
	<-api.started

	type result struct {
		events []club.Event
		err    error
	}
	second := make(chan result, 1)
	go func() {
		events, err := s.FetchEvents(context.Background(), q)
		second <- result{events, err}
	}()

	cancel()
	select {
	case err := <-firstErr:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cancelled")
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	close(api.release)
	select {
	case res := <-second:
		require.NoError(t, res.err)
		assert.Len(t, res.events, 1)
	case <-time.After(time.Second):
		t.Fatal("second caller never returned")
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.False(t, api.cancelled)
	assert.Equal(t, store.StatusFulfilled, s.Snapshot().Events.Status)
}
