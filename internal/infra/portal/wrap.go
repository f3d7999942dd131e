// internal/infra/portal/wrap.go
package portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainPortal "attendance_bot/internal/domain/portal"
)

// CallWithTimeout runs fn under a deadline. A call that exceeds the bound
// yields a *TimeoutError naming the operation; remote-side failures pass
// through unchanged.
func CallWithTimeout[T any](ctx context.Context, limit time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	v, err := fn(ctx)
	if err != nil && (errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded) {
		var zero T
		return zero, &TimeoutError{Op: op, Limit: limit, Elapsed: time.Since(started)}
	}
	return v, err
}

// CallWithRefresh runs fn once; if it fails with the expired-token signature,
// it re-authenticates and retries exactly once. Any other error, or a failure
// of the retried call, propagates.
func CallWithRefresh[T any](ctx context.Context, auth domainPortal.AuthSession, fn func(context.Context) (T, error)) (T, error) {
	v, err := fn(ctx)
	if err == nil || !errors.Is(err, ErrTokenExpired) {
		return v, err
	}

	if authErr := auth.Authenticate(ctx); authErr != nil {
		var zero T
		return zero, fmt.Errorf("re-authentication after expired token failed: %w", authErr)
	}
	return fn(ctx)
}
