package csvsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = "EVTYPE,FATALITIES,INJURIES,PROPDMG,PROPDMGEXP,CROPDMG,CROPDMGEXP\nHAIL,0,0,1,K,0,\n"

func TestFetcher_DownloadsWhenMissing(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "data", "storm.csv")
	f := NewFetcher(srv.URL, 5*time.Second, discardLogger())

	downloaded, err := f.Ensure(context.Background(), dest)
	require.NoError(t, err)
	assert.True(t, downloaded)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, sampleBody, string(data))

	downloaded, err = f.Ensure(context.Background(), dest)
	require.NoError(t, err)
	assert.False(t, downloaded)
	assert.Equal(t, int32(1), calls.Load(), "second call should use the cached file")
}

func TestFetcher_HTTPErrorLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such object"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "storm.csv")

	_, err := NewFetcher(srv.URL, 5*time.Second, discardLogger()).Ensure(context.Background(), dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetcher_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "storm.csv")
	_, err := NewFetcher(srv.URL, 50*time.Millisecond, discardLogger()).Ensure(context.Background(), dest)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}
