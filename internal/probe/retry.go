package probe

import (
	"context"
	"errors"
	"io"
	"time"
)

// WithRetry wraps p so that each read is bounded by timeout and retried up to
// attempts times on transient failures. Unmapped addresses and a missing
// target are not retried. A timeout of zero leaves reads unbounded.
func WithRetry(p Probe, attempts int, timeout time.Duration) Probe {
	if attempts < 1 {
		attempts = 1
	}
	r := &retryProbe{next: p, attempts: attempts, timeout: timeout}
	if opener, ok := p.(AccessPortOpener); ok {
		return &retryOpener{retryProbe: r, opener: opener}
	}
	return r
}

type retryProbe struct {
	next     Probe
	attempts int
	timeout  time.Duration
}

func (r *retryProbe) ReadIDCode(ctx context.Context) (uint32, error) {
	return r.do(ctx, r.next.ReadIDCode)
}

func (r *retryProbe) Read32(ctx context.Context, addr uint32) (uint32, error) {
	return r.do(ctx, func(ctx context.Context) (uint32, error) {
		return r.next.Read32(ctx, addr)
	})
}

func (r *retryProbe) ReadDMI(ctx context.Context, reg uint32) (uint32, error) {
	return r.do(ctx, func(ctx context.Context) (uint32, error) {
		return r.next.ReadDMI(ctx, reg)
	})
}

func (r *retryProbe) do(ctx context.Context, read func(context.Context) (uint32, error)) (uint32, error) {
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		readCtx, cancel := ctx, context.CancelFunc(func() {})
		if r.timeout > 0 {
			readCtx, cancel = context.WithTimeout(ctx, r.timeout)
		}
		value, err := read(readCtx)
		cancel()

		if err == nil {
			return value, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return 0, lastErr
}

// retryable reports whether a failed read may succeed when repeated
func retryable(err error) bool {
	switch {
	case errors.Is(err, ErrUnmapped), errors.Is(err, ErrNoTarget), errors.Is(err, context.Canceled):
		return false
	default:
		return true
	}
}

type retryOpener struct {
	*retryProbe
	opener AccessPortOpener
}

func (r *retryOpener) OpenAccessPort(ctx context.Context, ap uint8) (io.Closer, error) {
	return r.opener.OpenAccessPort(ctx, ap)
}

// Name forwards the wrapped probe's name, or "" if it has none
func (r *retryProbe) Name() string {
	if named, ok := r.next.(interface{ Name() string }); ok {
		return named.Name()
	}
	return ""
}
