package gateway_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/farellandr/clubhub/internal/apitest"
	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminClient(t *testing.T, baseURL string) *gateway.Client {
	t.Helper()
	client := gateway.New(baseURL)
	res := client.Register(context.Background(), gateway.RegisterInput{
		Name: "Admin", Email: apitest.AdminEmail, Password: apitest.Password, RollNumber: "2022BCA-001",
	})
	require.True(t, res.Success, res.Message)
	client.SetToken(res.Data.Token)
	return client
}

func TestAuthCalls(t *testing.T) {
	srv := apitest.NewServer(t)
	ctx := context.Background()
	client := gateway.New(srv.URL)

	reg := client.Register(ctx, gateway.RegisterInput{
		Name: "Asha", Email: "asha@club.example", Password: "secret123", RollNumber: "2023BMS-025",
	})
	require.True(t, reg.Success, reg.Message)
	assert.Equal(t, http.StatusCreated, reg.Status)
	assert.Equal(t, "BMS", reg.Data.User.Branch)

	bad := client.Login(ctx, "asha@club.example", "wrong-password")
	assert.False(t, bad.Success)
	assert.Equal(t, http.StatusUnauthorized, bad.Status)
	assert.NotEmpty(t, bad.Message)

	login := client.Login(ctx, "asha@club.example", "secret123")
	require.True(t, login.Success, login.Message)
	assert.Empty(t, client.Token())

	me := client.Me(ctx)
	assert.False(t, me.Success)
	assert.Equal(t, http.StatusUnauthorized, me.Status)

	client.SetToken(login.Data.Token)
	me = client.Me(ctx)
	require.True(t, me.Success, me.Message)
	assert.Equal(t, "Asha", me.Data.Name)
	assert.Equal(t, club.RoleMember, me.Data.Role)
}

func TestEventCalls(t *testing.T) {
	srv := apitest.NewServer(t)
	ctx := context.Background()
	client := adminClient(t, srv.URL)

	created := client.CreateEvent(ctx, gateway.EventInput{
		Title:       "Hack Night",
		Description: "Build things",
		Date:        apitest.Tomorrow(),
		Time:        "18:00",
		Venue:       "Lab 2",
		Category:    "Technical",
		IsPublished: true,
		Capacity:    40,
		Image:       &gateway.File{Name: "poster.png", Content: bytes.NewReader(apitest.PNG)},
	})
	require.True(t, created.Success, created.Message)
	assert.Equal(t, "hack-night", created.Data.Slug)
	assert.NotEmpty(t, created.Data.ImageURL)

	list := client.ListEvents(ctx, gateway.EventQuery{Status: "upcoming"})
	require.True(t, list.Success, list.Message)
	require.Len(t, list.Data.Events, 1)
	assert.EqualValues(t, 1, list.Data.Total)

	got := client.GetEvent(ctx, "hack-night")
	require.True(t, got.Success, got.Message)
	assert.Equal(t, created.Data.ID, got.Data.ID)

	updated := client.UpdateEvent(ctx, created.Data.ID, gateway.EventInput{
		Title:       "Hack Night 2",
		Description: "Build more things",
		Date:        apitest.Tomorrow(),
		Category:    "Technical",
		IsPublished: true,
		Winners:     []club.Winner{{Position: 1, Name: "Team Rocket"}},
	})
	require.True(t, updated.Success, updated.Message)
	assert.Equal(t, "Hack Night 2", updated.Data.Title)
	require.Len(t, updated.Data.Winners, 1)

	qr := client.EventQR(ctx, created.Data.ID, 128)
	require.True(t, qr.Success, qr.Message)
	assert.True(t, bytes.HasPrefix(qr.Data, []byte("\x89PNG")))

	categories := client.ListCategories(ctx)
	require.True(t, categories.Success, categories.Message)
	assert.NotEmpty(t, categories.Data)

	deleted := client.DeleteEvent(ctx, created.Data.ID)
	require.True(t, deleted.Success, deleted.Message)

	missing := client.GetEvent(ctx, created.Data.ID)
	assert.False(t, missing.Success)
	assert.Equal(t, http.StatusNotFound, missing.Status)
}

func TestEventWritesNeedAdmin(t *testing.T) {
	srv := apitest.NewServer(t)
	res := gateway.New(srv.URL).CreateEvent(context.Background(), gateway.EventInput{Title: "Nope", Description: "x", Date: apitest.Tomorrow()})
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
}

func TestGalleryCalls(t *testing.T) {
	srv := apitest.NewServer(t)
	ctx := context.Background()
	admin := adminClient(t, srv.URL)

	occasion := admin.CreateOccasion(ctx, gateway.OccasionInput{
		Title: "Annual Fest", Date: "2024-02-10", Category: "Cultural", IsPublished: true,
	})
	require.True(t, occasion.Success, occasion.Message)

	member := gateway.New(srv.URL)
	reg := member.Register(ctx, gateway.RegisterInput{
		Name: "Ravi", Email: "ravi@club.example", Password: "secret123", RollNumber: "2023BCA-010",
	})
	require.True(t, reg.Success, reg.Message)
	member.SetToken(reg.Data.Token)

	uploaded := member.UploadPhotos(ctx, occasion.Data.ID, "Stage", []gateway.File{
		{Name: "a.png", Content: bytes.NewReader(apitest.PNG)},
	})
	require.True(t, uploaded.Success, uploaded.Message)
	require.Len(t, uploaded.Data, 1)
	assert.False(t, uploaded.Data[0].IsApproved)

	public := member.ListPhotos(ctx, occasion.Data.ID, true)
	require.True(t, public.Success, public.Message)
	assert.Empty(t, public.Data)

	approved := admin.ApprovePhoto(ctx, uploaded.Data[0].ID, true)
	require.True(t, approved.Success, approved.Message)
	assert.True(t, approved.Data.IsApproved)

	got := member.GetOccasion(ctx, occasion.Data.Slug)
	require.True(t, got.Success, got.Message)
	assert.EqualValues(t, 1, got.Data.PhotoCount)

	list := member.ListOccasions(ctx, gateway.OccasionQuery{Category: "Cultural"})
	require.True(t, list.Success, list.Message)
	assert.Len(t, list.Data.Occasions, 1)

	require.True(t, admin.DeletePhoto(ctx, uploaded.Data[0].ID).Success)
	require.True(t, admin.DeleteOccasion(ctx, occasion.Data.ID).Success)
	assert.False(t, member.GetOccasion(ctx, occasion.Data.ID).Success)
}

func TestUploadWithoutFiles(t *testing.T) {
	res := gateway.New("http://127.0.0.1:1").UploadPhotos(context.Background(), "x", "", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "no photos selected", res.Message)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := gateway.New(url, gateway.WithTimeout(time.Second)).ListEvents(context.Background(), gateway.EventQuery{})
	assert.False(t, res.Success)
	assert.Zero(t, res.Status)
	assert.Contains(t, res.Message, "request failed")
}

func TestNonJSONErrorUsesStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	res := gateway.New(srv.URL).ListCategories(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusBadGateway, res.Status)
	assert.Equal(t, "Bad Gateway", res.Message)
}

func TestMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(srv.Close)

	res := gateway.New(srv.URL).GetEvent(context.Background(), "x")
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, `"event"`)
}
