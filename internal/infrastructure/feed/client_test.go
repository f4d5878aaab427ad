package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ultimate-kits/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `[{"title":"Home Jersey","equipo":"Madrid","price":25,"images":["https://drive.google.com/open?id=ABC123"]}]`

func testConfig(proxyURL, scriptURL string) Config {
	return Config{
		ProxyURL:      proxyURL,
		ScriptURL:     scriptURL,
		Retries:       3,
		Backoff:       time.Millisecond,
		Timeout:       200 * time.Millisecond,
		MobileTimeout: 400 * time.Millisecond,
	}
}

func TestFetchPrefersProxy(t *testing.T) {
	var scriptHits int32
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("_ts"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(sampleFeed))
	}))
	defer proxy.Close()
	script := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&scriptHits, 1)
	}))
	defer script.Close()

	payload, err := NewClient(testConfig(proxy.URL, script.URL)).Fetch(context.Background(), domain.FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, SourceProxy, payload.Source)
	assert.JSONEq(t, sampleFeed, string(payload.Body))
	assert.Zero(t, atomic.LoadInt32(&scriptHits))
}

func TestFetchFallsBackAndRetriesScript(t *testing.T) {
	var proxyHits, scriptHits int32
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&proxyHits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer proxy.Close()
	script := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&scriptHits, 1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.Write([]byte("<html>quota exceeded</html>"))
		default:
			w.Write([]byte(sampleFeed))
		}
	}))
	defer script.Close()

	payload, err := NewClient(testConfig(proxy.URL, script.URL)).Fetch(context.Background(), domain.FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, SourceScript, payload.Source)
	assert.Equal(t, int32(1), atomic.LoadInt32(&proxyHits))
	assert.Equal(t, int32(3), atomic.LoadInt32(&scriptHits))
}

func TestFetchExhaustsBothPaths(t *testing.T) {
	var scriptHits int32
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"not an array"}`))
	}))
	defer proxy.Close()
	script := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&scriptHits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer script.Close()

	_, err := NewClient(testConfig(proxy.URL, script.URL)).Fetch(context.Background(), domain.FetchOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFeedExhausted)
	assert.Equal(t, int32(3), atomic.LoadInt32(&scriptHits))
}

func TestFetchCountsTimeoutAsFailedAttempt(t *testing.T) {
	var scriptHits int32
	script := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&scriptHits, 1) == 1 {
			time.Sleep(300 * time.Millisecond)
		}
		w.Write([]byte(sampleFeed))
	}))
	defer script.Close()

	payload, err := NewClient(testConfig("", script.URL)).Fetch(context.Background(), domain.FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, SourceScript, payload.Source)
	assert.Equal(t, int32(2), atomic.LoadInt32(&scriptHits))
}

func TestFetchMobileUsesLongerTimeout(t *testing.T) {
	script := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Cache-Control"))
		time.Sleep(250 * time.Millisecond)
		w.Write([]byte(sampleFeed))
	}))
	defer script.Close()

	cfg := testConfig("", script.URL)
	cfg.Retries = 1
	payload, err := NewClient(cfg).Fetch(context.Background(), domain.FetchOptions{Mobile: true})
	require.NoError(t, err)
	assert.Equal(t, SourceScript, payload.Source)
}

func TestLinearBackoff(t *testing.T) {
	assert.Equal(t, time.Second, linearBackoff(time.Second, 0, 0, nil))
	assert.Equal(t, 2*time.Second, linearBackoff(time.Second, 0, 1, nil))
	assert.Equal(t, 3*time.Second, linearBackoff(time.Second, 0, 2, nil))
}
