package erp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/pkg/config"
)

func newTestClient(url string) *Client {
	return NewClient(config.ERPConfig{BaseURL: url, APIKey: "secret", Timeout: 2 * time.Second})
}

func TestFetchExpected_RespuestaCorrecta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stores/T01/stock", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"store_code":"T01","items":[
			{"barcode":"7701","quantity":5},
			{"barcode":" 7702 ","quantity":0},
			{"barcode":"","quantity":9},
			{"barcode":"7703","quantity":-1}]}`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).FetchExpected(context.Background(), "T01")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"7701": 5, "7702": 0}, got)
}

func TestFetchExpected_404EsTiendaVacia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).FetchExpected(context.Background(), "T99")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchExpected_Error5xxEsUpstream(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"mantenimiento"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchExpected(context.Background(), "T01")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "un intento más dos reintentos")
}

func TestFetchExpected_Inalcanzable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).FetchExpected(context.Background(), "T01")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
}
