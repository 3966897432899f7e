package disclosure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHttpFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/executive-orders":
			if r.Header.Get("user-agent") != "fulldisclosure-test" {
				http.Error(w, "unexpected user agent", http.StatusBadRequest)
				return
			}
			fmt.Fprint(w, executiveOrdersPage)
		default:
			http.Error(w, "gone", http.StatusNotFound)
		}
	}))
	defer server.Close()

	fetcher := NewHttpFetcher(FetcherOptions{
		Timeout:   5 * time.Second,
		UserAgent: "fulldisclosure-test",
	})

	body, err := fetcher.Fetch(context.Background(), server.URL+"/executive-orders")
	require.NoError(t, err)
	require.Equal(t, executiveOrdersPage, string(body))

	_, err = fetcher.Fetch(context.Background(), server.URL+"/missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}

func TestHttpFetcherUnreachable(t *testing.T) {
	fetcher := NewHttpFetcher(FetcherOptions{Timeout: time.Second})
	_, err := fetcher.Fetch(context.Background(), "http://127.0.0.1:0/unreachable")
	require.Error(t, err)
}

type dumpRecorder struct {
	mu    sync.Mutex
	dumps map[string]string
}

func (r *dumpRecorder) Write(id string, contents string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dumps[id] = contents
}

func TestHttpFetcherVerboseDumps(t *testing.T) {
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(previous)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, executiveOrdersPage)
	}))
	defer server.Close()

	output := &dumpRecorder{dumps: map[string]string{}}
	fetcher := NewHttpFetcher(FetcherOptions{Timeout: 5 * time.Second, Output: output})

	body, err := fetcher.Fetch(context.Background(), server.URL+"/executive-orders")
	require.NoError(t, err)
	require.Equal(t, executiveOrdersPage, string(body))

	output.mu.Lock()
	defer output.mu.Unlock()
	require.Len(t, output.dumps, 1)
	for _, dump := range output.dumps {
		require.Contains(t, dump, "GET "+server.URL+"/executive-orders")
		require.Contains(t, dump, "<NO BODY>")
		require.Contains(t, dump, "Executive Order No. 1 s. 2025")
	}
}
