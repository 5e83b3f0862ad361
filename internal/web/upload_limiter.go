package web

// upload_limiter.go bounds how many job submissions are received at once.
//
// A submission can spill up to the upload size limit to temporary files
// while its multipart form is parsed, before the single-job check rejects
// it. The limiter is a semaphore: when all slots are taken, a request waits
// up to maxWait for one and then fails with errTooManyUploads.

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"
)

var errTooManyUploads = errors.New("too many concurrent uploads")

type uploadLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

func newUploadLimiter(maxConcurrent int, maxWait time.Duration) *uploadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &uploadLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// acquire takes a slot, waiting at most maxWait. The caller must release
// a slot it got.
func (l *uploadLimiter) acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	default:
	}
	if l.maxWait <= 0 {
		return errTooManyUploads
	}

	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-timer.C:
		return errTooManyUploads
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *uploadLimiter) release() {
	l.active.Add(-1)
	<-l.slots
}

// activeCount is the number of uploads being received.
func (l *uploadLimiter) activeCount() int {
	return int(l.active.Load())
}

func (l *uploadLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := l.acquire(r.Context()); err != nil {
			w.Header().Set("Retry-After", "5")
			respondError(w, r, err, http.StatusServiceUnavailable)
			return
		}
		defer l.release()
		next.ServeHTTP(w, r)
	})
}
