package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/ssargent/keydeck/pkg/deck"
	"github.com/ssargent/keydeck/pkg/metrics"
)

func TestMetricsRouter(t *testing.T) {
	m := metrics.New()
	cfg := deck.DefaultReaderConfig()
	cfg.Recorder = m
	_, err := deck.NewReader(cfg).ReadString(bracketDeck)
	require.NoError(t, err)

	router := newMetricsRouter(m, zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "keydeck_reads_total 1")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeMetrics_StopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serveMetrics(ctx, "127.0.0.1:0", http.NotFoundHandler(), zaptest.NewLogger(t))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeMetrics_BadAddress(t *testing.T) {
	err := serveMetrics(context.Background(), "127.0.0.1:-1", http.NotFoundHandler(), zaptest.NewLogger(t))
	assert.Error(t, err)
}
