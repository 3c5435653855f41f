package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"testing/fstest"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/justestif/go-listenfy/internal/chat"
	"github.com/justestif/go-listenfy/internal/mood"
	"github.com/justestif/go-listenfy/internal/spotify"
	"github.com/justestif/go-listenfy/internal/trends"
)

// fakeLibrary is an in-memory Library. Every method fails with err when set.
type fakeLibrary struct {
	profile  spotify.Profile
	tracks   []spotify.Track
	artists  []spotify.Artist
	plays    []spotify.Play
	features map[string]*mood.AudioFeatures
	playlist spotify.Playlist
	token    *oauth2.Token
	err      error

	gotLimit     int
	gotTimeRange spotify.TimeRange
	gotPublic    bool
	gotTracks    []string
	gotIDs       []string
}

func (f *fakeLibrary) Profile(context.Context) (spotify.Profile, error) {
	return f.profile, f.err
}

func (f *fakeLibrary) TopTracks(_ context.Context, timeRange spotify.TimeRange, limit int) ([]spotify.Track, error) {
	f.gotTimeRange, f.gotLimit = timeRange, limit
	return f.tracks, f.err
}

func (f *fakeLibrary) TopArtists(_ context.Context, timeRange spotify.TimeRange, limit int) ([]spotify.Artist, error) {
	f.gotTimeRange, f.gotLimit = timeRange, limit
	return f.artists, f.err
}

func (f *fakeLibrary) RecentlyPlayed(_ context.Context, limit int) ([]spotify.Play, error) {
	f.gotLimit = limit
	return f.plays, f.err
}

func (f *fakeLibrary) AudioFeatures(_ context.Context, ids []string) ([]*mood.AudioFeatures, error) {
	f.gotIDs = ids
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*mood.AudioFeatures, len(ids))
	for i, id := range ids {
		out[i] = f.features[id]
	}
	return out, nil
}

func (f *fakeLibrary) CreatePlaylist(_ context.Context, _, _ string, public bool, tracks []string) (spotify.Playlist, error) {
	f.gotPublic, f.gotTracks = public, tracks
	return f.playlist, f.err
}

func (f *fakeLibrary) Token() (*oauth2.Token, error) {
	return f.token, nil
}

type fakeConnector struct {
	lib         *fakeLibrary
	token       *oauth2.Token
	exchangeErr error
}

func (c *fakeConnector) AuthURL(state string) string {
	return "https://accounts.spotify.test/authorize?state=" + state
}

func (c *fakeConnector) Exchange(context.Context, string, *http.Request) (*oauth2.Token, error) {
	return c.token, c.exchangeErr
}

func (c *fakeConnector) Library(context.Context, *oauth2.Token) Library {
	return c.lib
}

// fakeModel returns a canned completion.
type fakeModel struct {
	reply string
	err   error
}

func (m fakeModel) Generate(context.Context, string) (string, error) {
	return m.reply, m.err
}

type testEnv struct {
	handler   http.Handler
	sessions  *SessionStore
	store     *trends.MemoryStore
	lib       *fakeLibrary
	connector *fakeConnector
}

func newTestEnv(t *testing.T, model chat.Model) *testEnv {
	t.Helper()

	lib := &fakeLibrary{}
	env := &testEnv{
		sessions:  NewSessionStore(false),
		store:     trends.NewMemoryStore(),
		lib:       lib,
		connector: &fakeConnector{lib: lib, token: &oauth2.Token{AccessToken: "fresh"}},
	}

	log := zap.NewNop()
	srv, err := NewServer(ServerConfig{
		TemplatesFS: os.DirFS("../../web/templates"),
		StaticFS:    fstest.MapFS{"style.css": {Data: []byte("body{}")}},
	}, Dependencies{
		Connector: env.connector,
		Sessions:  env.sessions,
		Trends:    trends.NewService(env.store, log),
		Chat:      chat.NewService(model, log),
		Logger:    log,
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	env.handler = srv.Handler()
	return env
}

// login creates a session and returns its cookie.
func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	session, err := e.sessions.Create(context.Background(), &oauth2.Token{AccessToken: "access-1"}, "user1", "Test User")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return &http.Cookie{Name: sessionCookieName, Value: session.ID}
}

func (e *testEnv) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}
