// Package preload warms remote listing photos ahead of the viewer needing
// them, with bounded concurrency and best-effort semantics.
package preload

import (
	"bytes"
	"context"
	"image"
	"io"
	"net/http"
	"sync"
	"time"

	// Registered decoders for the opportunistic decode step.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxConcurrency caps the worker pool regardless of what a caller asks
	// for.
	MaxConcurrency = 8

	// maxImageBytes bounds how much of a response body is read.
	maxImageBytes = 20 << 20
)

// Warmer fetches image URLs into the HTTP client's cache path. A URL already
// warmed, or currently in flight, is never fetched twice concurrently;
// failures are silent and the URL stays eligible for a later Preload call.
type Warmer struct {
	client *http.Client
	log    *zap.Logger

	mu       sync.Mutex
	warmed   map[string]struct{}
	inflight map[string]chan struct{}
}

// NewWarmer creates a warmer. client may be nil, in which case a client with
// a 30s timeout is used; logger may be nil.
func NewWarmer(client *http.Client, logger *zap.Logger) *Warmer {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Warmer{
		client:   client,
		log:      logger,
		warmed:   make(map[string]struct{}),
		inflight: make(map[string]chan struct{}),
	}
}

// Job is the completion handle of one Preload call. It completes only after
// every URL of the call has settled, success or failure alike.
type Job struct {
	done chan struct{}
}

// Done returns a channel closed when the job completes.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job completes or ctx is canceled. Cancellation only
// abandons the wait; issued fetches always run to completion.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Warmed reports whether url has been fetched successfully by this warmer.
func (w *Warmer) Warmed(url string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.warmed[url]
	return ok
}

// Preload warms urls with at most min(max(1, concurrency), MaxConcurrency)
// fetches outstanding at a time. URLs already warmed are skipped; URLs in
// flight from another call are joined rather than refetched. The returned
// job resolves once every URL of this call has settled.
func (w *Warmer) Preload(urls []string, concurrency int) *Job {
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > MaxConcurrency {
		concurrency = MaxConcurrency
	}

	var queue []string
	var joins []chan struct{}
	seen := make(map[string]struct{}, len(urls))

	w.mu.Lock()
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		if _, ok := w.warmed[u]; ok {
			continue
		}
		if ch, ok := w.inflight[u]; ok {
			joins = append(joins, ch)
			continue
		}
		ch := make(chan struct{})
		w.inflight[u] = ch
		queue = append(queue, u)
	}
	w.mu.Unlock()

	job := &Job{done: make(chan struct{})}
	go func() {
		defer close(job.done)

		var g errgroup.Group
		g.SetLimit(concurrency)
		for _, u := range queue {
			u := u
			g.Go(func() error {
				w.fetch(u)
				return nil
			})
		}
		_ = g.Wait() // workers never return errors, failures are silent

		for _, ch := range joins {
			<-ch
		}
	}()
	return job
}

// fetch settles one in-flight URL. Both success and failure close the URL's
// in-flight entry; only success marks it warmed.
func (w *Warmer) fetch(url string) {
	ok := w.request(url)

	w.mu.Lock()
	ch := w.inflight[url]
	delete(w.inflight, url)
	if ok {
		w.warmed[url] = struct{}{}
	}
	w.mu.Unlock()
	if ch != nil {
		close(ch)
	}
}

func (w *Warmer) request(url string) bool {
	resp, err := w.client.Get(url)
	if err != nil {
		w.log.Debug("preload fetch failed", zap.String("url", url), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		w.log.Debug("preload fetch rejected",
			zap.String("url", url), zap.Int("status", resp.StatusCode))
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxImageBytes))
		return false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		w.log.Debug("preload read failed", zap.String("url", url), zap.Error(err))
		return false
	}

	// Decode is opportunistic: an undecodable body is still a warmed URL,
	// the browser cache got its bytes either way.
	if _, _, err := image.Decode(bytes.NewReader(body)); err != nil {
		w.log.Debug("preload decode skipped", zap.String("url", url), zap.Error(err))
	}
	return true
}
