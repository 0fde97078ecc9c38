package infra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRevocada_ListedRUC(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"revocados":["1790012345001"]}`))
	}))
	defer srv.Close()

	c := NewRevocacionClient(srv.URL, time.Second)
	ctx := context.Background()
	assert.True(t, c.Revocada(ctx, "1790012345001"))
	assert.False(t, c.Revocada(ctx, "0990000000001"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "list is cached between calls")
}

func TestRevocada_FailsOpen(t *testing.T) {
	ctx := context.Background()

	caido := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer caido.Close()
	assert.False(t, NewRevocacionClient(caido.URL, time.Second).Revocada(ctx, "1790012345001"))

	basura := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer basura.Close()
	assert.False(t, NewRevocacionClient(basura.URL, time.Second).Revocada(ctx, "1790012345001"))

	lento := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"revocados":["1790012345001"]}`))
	}))
	defer lento.Close()
	assert.False(t, NewRevocacionClient(lento.URL, 20*time.Millisecond).Revocada(ctx, "1790012345001"))

	assert.False(t, NewRevocacionClient("", time.Second).Revocada(ctx, "1790012345001"))
}
