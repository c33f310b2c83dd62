package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"Storefront/internal/core/feeds"
)

// MockCache is a testify mock of feeds.Cache.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

const mediaBody = `{"data":[
	{"id":"1","caption":"New arrivals","media_type":"IMAGE","media_url":"https://cdn.example/1.jpg","permalink":"https://www.instagram.com/p/1/","timestamp":"2024-05-01T10:00:00+0000"},
	{"id":"2","media_type":"VIDEO","media_url":"https://cdn.example/2.mp4","thumbnail_url":"https://cdn.example/2.jpg","permalink":"https://www.instagram.com/p/2/"},
	{"id":"3","media_type":"VIDEO","media_url":"https://cdn.example/3.mp4"},
	{"id":"4","media_type":"CAROUSEL_ALBUM","media_url":"https://cdn.example/4.jpg"},
	{"id":"5","media_type":"REEL","media_url":"https://cdn.example/5.jpg"}
],"paging":{}}`

type fakeGraph struct {
	server *httptest.Server
	calls  atomic.Int32
	query  atomic.Value // url.Values
	status int
	body   string
	delay  atomic.Int64
}

func newFakeGraph(t *testing.T, status int, body string) *fakeGraph {
	t.Helper()
	f := &fakeGraph{status: status, body: body}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		f.query.Store(r.URL.Query())
		if r.URL.Path != "/me/media" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if d := time.Duration(f.delay.Load()); d > 0 {
			time.Sleep(d)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func testConfig(graphURL string) Config {
	cfg := DefaultConfig()
	cfg.GraphURL = graphURL
	cfg.AccessToken = "configured-token"
	return cfg
}

func newMemoryCache(t *testing.T) *feeds.MemoryCache {
	t.Helper()
	c, err := feeds.NewMemoryCache(100)
	require.NoError(t, err)
	return c
}

func newTestService(t *testing.T, cache feeds.Cache, cfg Config) Service {
	t.Helper()
	svc, err := NewService(cache, cfg)
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresCache(t *testing.T) {
	_, err := NewService(nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNilDependency)
}

func TestFetchMedia_Success(t *testing.T) {
	g := newFakeGraph(t, http.StatusOK, mediaBody)
	cfg := testConfig(g.server.URL)
	svc := newTestService(t, newMemoryCache(t), cfg)

	feed := svc.FetchMedia(context.Background(), "", 5)

	require.NotNil(t, feed)
	assert.Equal(t, feeds.StatusOK, feed.Status)
	assert.True(t, feed.HasToken)
	assert.Empty(t, feed.Error)
	assert.Equal(t, 5, feed.Count)
	assert.Equal(t, cfg.ProfileURL, feed.ProfileURL)
	require.Len(t, feed.Media, 5)

	assert.Equal(t, Media{
		ID:        "1",
		Caption:   "New arrivals",
		MediaType: MediaImage,
		MediaURL:  "https://cdn.example/1.jpg",
		Permalink: "https://www.instagram.com/p/1/",
		Timestamp: "2024-05-01T10:00:00+0000",
	}, feed.Media[0])

	q := g.query.Load().(url.Values)
	assert.Equal(t, []string{"configured-token"}, q["access_token"])
	assert.Equal(t, []string{"5"}, q["limit"])
	assert.Equal(t, []string{mediaFields}, q["fields"])
}

func TestFetchMedia_Normalization(t *testing.T) {
	g := newFakeGraph(t, http.StatusOK, mediaBody)
	cfg := testConfig(g.server.URL)
	svc := newTestService(t, newMemoryCache(t), cfg)

	feed := svc.FetchMedia(context.Background(), "", 5)
	require.Len(t, feed.Media, 5)

	t.Run("video prefers thumbnail", func(t *testing.T) {
		assert.Equal(t, MediaVideo, feed.Media[1].MediaType)
		assert.Equal(t, "https://cdn.example/2.jpg", feed.Media[1].MediaURL)
	})
	t.Run("video without thumbnail keeps media url", func(t *testing.T) {
		assert.Equal(t, "https://cdn.example/3.mp4", feed.Media[2].MediaURL)
	})
	t.Run("missing permalink uses profile url", func(t *testing.T) {
		assert.Equal(t, cfg.ProfileURL, feed.Media[2].Permalink)
	})
	t.Run("missing caption and timestamp are empty", func(t *testing.T) {
		assert.Equal(t, "", feed.Media[1].Caption)
		assert.Equal(t, "", feed.Media[1].Timestamp)
	})
	t.Run("carousel kept", func(t *testing.T) {
		assert.Equal(t, MediaCarousel, feed.Media[3].MediaType)
	})
	t.Run("unknown kind becomes image", func(t *testing.T) {
		assert.Equal(t, MediaImage, feed.Media[4].MediaType)
	})
}

func TestFetchMedia_ArgumentTokenOverridesConfig(t *testing.T) {
	g := newFakeGraph(t, http.StatusOK, mediaBody)
	svc := newTestService(t, newMemoryCache(t), testConfig(g.server.URL))

	svc.FetchMedia(context.Background(), "caller-token", 12)

	q := g.query.Load().(url.Values)
	assert.Equal(t, []string{"caller-token"}, q["access_token"])
}

func TestFetchMedia_DefaultLimit(t *testing.T) {
	g := newFakeGraph(t, http.StatusOK, mediaBody)
	svc := newTestService(t, newMemoryCache(t), testConfig(g.server.URL))

	svc.FetchMedia(context.Background(), "", 0)

	q := g.query.Load().(url.Values)
	assert.Equal(t, []string{"12"}, q["limit"])
}

func TestFetchMedia_MissingToken(t *testing.T) {
	cache := new(MockCache)
	cfg := DefaultConfig()
	svc := newTestService(t, cache, cfg)

	feed := svc.FetchMedia(context.Background(), "", 12)

	assert.Equal(t, feeds.StatusDegraded, feed.Status)
	assert.False(t, feed.HasToken)
	assert.Equal(t, ReasonMissingToken, feed.Error)
	assert.Equal(t, feeds.KindMissingCredentials, feed.ErrorKind)
	assert.NotNil(t, feed.Media)
	assert.Empty(t, feed.Media)
	assert.Equal(t, cfg.ProfileURL, feed.ProfileURL)
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFetchMedia_ErrorBodyDegradesWithoutCaching(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "error body with 200", status: http.StatusOK},
		{name: "error body with 400", status: http.StatusBadRequest},
		{name: "error body with 429", status: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newFakeGraph(t, tt.status, `{"error":{"message":"rate limited","type":"OAuthException","code":4}}`)
			cache := new(MockCache)
			cache.On("Get", mock.Anything, "social:media:12").Return(nil, feeds.ErrCacheMiss)
			svc := newTestService(t, cache, testConfig(g.server.URL))

			feed := svc.FetchMedia(context.Background(), "", 12)

			assert.Equal(t, feeds.StatusDegraded, feed.Status)
			assert.True(t, feed.HasToken)
			assert.Equal(t, "rate limited", feed.Error)
			assert.Equal(t, feeds.KindUpstreamError, feed.ErrorKind)
			assert.Empty(t, feed.Media)
			cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestFetchMedia_NoDataNoError(t *testing.T) {
	g := newFakeGraph(t, http.StatusOK, `{"paging":{}}`)
	svc := newTestService(t, newMemoryCache(t), testConfig(g.server.URL))

	feed := svc.FetchMedia(context.Background(), "", 12)

	assert.Equal(t, feeds.StatusDegraded, feed.Status)
	assert.Equal(t, ReasonAPIError, feed.Error)
	assert.Equal(t, feeds.KindUpstreamError, feed.ErrorKind)
}

func TestFetchMedia_StatusWithoutErrorBody(t *testing.T) {
	g := newFakeGraph(t, http.StatusBadGateway, `<html>bad gateway</html>`)
	svc := newTestService(t, newMemoryCache(t), testConfig(g.server.URL))

	feed := svc.FetchMedia(context.Background(), "", 12)

	assert.Equal(t, feeds.StatusDegraded, feed.Status)
	assert.Equal(t, feeds.KindUpstreamError, feed.ErrorKind)
	assert.Contains(t, feed.Error, "502")
}

func TestFetchMedia_MalformedBody(t *testing.T) {
	g := newFakeGraph(t, http.StatusOK, `not json`)
	svc := newTestService(t, newMemoryCache(t), testConfig(g.server.URL))

	feed := svc.FetchMedia(context.Background(), "", 12)

	assert.Equal(t, feeds.StatusDegraded, feed.Status)
	assert.Equal(t, feeds.KindMalformedResponse, feed.ErrorKind)
	assert.NotEmpty(t, feed.Error)
}

func TestFetchMedia_Timeout(t *testing.T) {
	g := newFakeGraph(t, http.StatusOK, mediaBody)
	g.delay.Store(int64(200 * time.Millisecond))
	cfg := testConfig(g.server.URL)
	cfg.Timeout = 50 * time.Millisecond
	svc := newTestService(t, newMemoryCache(t), cfg)

	feed := svc.FetchMedia(context.Background(), "", 12)

	assert.Equal(t, feeds.StatusDegraded, feed.Status)
	assert.True(t, feed.HasToken)
	assert.Equal(t, ReasonTimeout, feed.Error)
	assert.Equal(t, feeds.KindTimeout, feed.ErrorKind)
}

func TestFetchMedia_NetworkErrorHidesToken(t *testing.T) {
	g := newFakeGraph(t, http.StatusOK, mediaBody)
	cfg := testConfig(g.server.URL)
	g.server.Close()
	svc := newTestService(t, newMemoryCache(t), cfg)

	feed := svc.FetchMedia(context.Background(), "secret-token", 12)

	assert.Equal(t, feeds.StatusDegraded, feed.Status)
	assert.Equal(t, feeds.KindNetwork, feed.ErrorKind)
	assert.NotEmpty(t, feed.Error)
	assert.NotContains(t, feed.Error, "secret-token")
}

func TestFetchMedia_CachesSuccess(t *testing.T) {
	g := newFakeGraph(t, http.StatusOK, mediaBody)
	svc := newTestService(t, newMemoryCache(t), testConfig(g.server.URL))
	ctx := context.Background()

	first := svc.FetchMedia(ctx, "", 6)
	second := svc.FetchMedia(ctx, "", 6)

	assert.Equal(t, int32(1), g.calls.Load())
	assert.Equal(t, first.Media, second.Media)
	assert.Equal(t, feeds.StatusOK, second.Status)

	svc.FetchMedia(ctx, "", 24)
	assert.Equal(t, int32(2), g.calls.Load(), "different limit is a different key")
}

func TestFetchMedia_CacheWriteFailureStillReturnsFeed(t *testing.T) {
	g := newFakeGraph(t, http.StatusOK, mediaBody)
	cache := new(MockCache)
	cache.On("Get", mock.Anything, "social:media:12").Return(nil, feeds.ErrCacheMiss)
	cache.On("Set", mock.Anything, "social:media:12", mock.Anything, feeds.DefaultCacheTTL).
		Return(assert.AnError)
	svc := newTestService(t, cache, testConfig(g.server.URL))

	feed := svc.FetchMedia(context.Background(), "", 12)

	assert.Equal(t, feeds.StatusOK, feed.Status)
	assert.Len(t, feed.Media, 5)
	cache.AssertExpectations(t)
}

func TestFetchMedia_CacheReadErrorIsAMiss(t *testing.T) {
	g := newFakeGraph(t, http.StatusOK, mediaBody)
	cache := new(MockCache)
	cache.On("Get", mock.Anything, "social:media:12").Return(nil, assert.AnError)
	cache.On("Set", mock.Anything, "social:media:12", mock.Anything, feeds.DefaultCacheTTL).Return(nil)
	svc := newTestService(t, cache, testConfig(g.server.URL))

	feed := svc.FetchMedia(context.Background(), "", 12)

	assert.Equal(t, feeds.StatusOK, feed.Status)
	assert.Equal(t, int32(1), g.calls.Load())
}

func TestFetchMedia_CoalescedCallerSurvivesStarterCancel(t *testing.T) {
	g := newFakeGraph(t, http.StatusOK, mediaBody)
	g.delay.Store(int64(200 * time.Millisecond))
	cfg := testConfig(g.server.URL)
	cfg.CoalesceMisses = true
	svc := newTestService(t, newMemoryCache(t), cfg)

	starterCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	var starter, follower *Feed
	wg.Add(2)
	go func() {
		defer wg.Done()
		starter = svc.FetchMedia(starterCtx, "", 12)
	}()
	require.Eventually(t, func() bool { return g.calls.Load() == 1 }, time.Second, time.Millisecond)
	go func() {
		defer wg.Done()
		follower = svc.FetchMedia(context.Background(), "", 12)
	}()
	wg.Wait()

	assert.Equal(t, feeds.StatusDegraded, starter.Status)
	assert.Equal(t, feeds.KindTimeout, starter.ErrorKind)

	assert.Equal(t, feeds.StatusOK, follower.Status)
	assert.Len(t, follower.Media, 5)
	assert.Equal(t, int32(1), g.calls.Load())
}

func TestProfileInfo(t *testing.T) {
	svc := newTestService(t, newMemoryCache(t), DefaultConfig())

	assert.Equal(t, Profile{
		Username:    "modelmanis_rtl",
		DisplayName: "Model Manis",
		ProfileURL:  "https://www.instagram.com/modelmanis_rtl/",
	}, svc.ProfileInfo())
}
