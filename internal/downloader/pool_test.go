package downloader

import (
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/logger"
	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/ratelimit"
)

type fakeFetcher struct {
	mu      sync.Mutex
	images  map[string][]byte
	failURL string
}

func (f *fakeFetcher) DownloadImage(url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if url == f.failURL {
		return nil, fmt.Errorf("simulated fetch failure")
	}
	data, ok := f.images[url]
	if !ok {
		return nil, fmt.Errorf("unknown url %s", url)
	}
	return data, nil
}

type fakeStore struct {
	mu       sync.Mutex
	files    map[string][]byte
	failName string
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: make(map[string][]byte)}
}

func (s *fakeStore) SaveImage(r io.Reader, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == s.failName {
		return fmt.Errorf("simulated write failure")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.files[name] = data
	return nil
}

func collectResults(t *testing.T, pool *WorkerPool, want int) []DownloadResult {
	t.Helper()

	var results []DownloadResult
	timeout := time.After(5 * time.Second)
	for len(results) < want {
		select {
		case r, ok := <-pool.Results():
			if !ok {
				return results
			}
			results = append(results, r)
		case <-timeout:
			t.Fatalf("timed out waiting for results, got %d of %d", len(results), want)
		}
	}
	return results
}

func TestWorkerPoolDownloadsAndStores(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{
		"https://x/cam1.jpg": []byte("one"),
		"https://x/cam2.jpg": []byte("two"),
	}}
	store := newFakeStore()

	pool := NewWorkerPool(2, fetcher, store, ratelimit.NewUnlimited(), logger.NewTestLogger())
	pool.Start()

	require.NoError(t, pool.Submit(DownloadJob{ImageURL: "https://x/cam1.jpg", FileName: "cam1.jpg", Source: "../a.html"}))
	require.NoError(t, pool.Submit(DownloadJob{ImageURL: "https://x/cam2.jpg", FileName: "cam2.jpg", Source: "../b.html"}))

	results := collectResults(t, pool, 2)
	pool.Stop()

	for _, r := range results {
		assert.True(t, r.Success, "job for %s should succeed", r.Job.ImageURL)
		assert.NoError(t, r.Error)
	}
	assert.Equal(t, []byte("one"), store.files["cam1.jpg"])
	assert.Equal(t, []byte("two"), store.files["cam2.jpg"])
}

func TestWorkerPoolReportsFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{
		images:  map[string][]byte{"https://x/ok.jpg": []byte("ok")},
		failURL: "https://x/bad.jpg",
	}
	store := newFakeStore()

	pool := NewWorkerPool(1, fetcher, store, nil, logger.NewTestLogger())
	pool.Start()

	require.NoError(t, pool.Submit(DownloadJob{ImageURL: "https://x/bad.jpg", FileName: "bad.jpg", Source: "../bad.html"}))
	require.NoError(t, pool.Submit(DownloadJob{ImageURL: "https://x/ok.jpg", FileName: "ok.jpg", Source: "../ok.html"}))

	results := collectResults(t, pool, 2)
	pool.Stop()

	byName := make(map[string]DownloadResult)
	for _, r := range results {
		byName[r.Job.FileName] = r
	}

	// One failure must not stop the other job
	assert.False(t, byName["bad.jpg"].Success)
	assert.ErrorContains(t, byName["bad.jpg"].Error, "download failed")
	assert.Equal(t, "../bad.html", byName["bad.jpg"].Job.Source)

	assert.True(t, byName["ok.jpg"].Success)
	assert.Equal(t, []byte("ok"), store.files["ok.jpg"])
}

func TestWorkerPoolReportsSaveFailure(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{"https://x/cam.jpg": []byte("data")}}
	store := newFakeStore()
	store.failName = "cam.jpg"

	pool := NewWorkerPool(1, fetcher, store, nil, logger.NewTestLogger())
	pool.Start()

	require.NoError(t, pool.Submit(DownloadJob{ImageURL: "https://x/cam.jpg", FileName: "cam.jpg", Source: "../cam.html"}))

	results := collectResults(t, pool, 1)
	pool.Stop()

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.ErrorContains(t, results[0].Error, "save failed")
}

func TestWorkerPoolSubmitAfterStop(t *testing.T) {
	pool := NewWorkerPool(1, &fakeFetcher{}, newFakeStore(), nil, logger.NewTestLogger())
	pool.Start()
	pool.Stop()

	err := pool.Submit(DownloadJob{ImageURL: "https://x/cam.jpg", FileName: "cam.jpg"})
	assert.Error(t, err)
}
