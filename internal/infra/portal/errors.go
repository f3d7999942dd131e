package portal

import (
	"errors"
	"fmt"
	"time"
)

// ErrTokenExpired marks a portal response rejected for an invalid or expired
// token. CallWithRefresh recognizes it via errors.Is and re-authenticates.
var ErrTokenExpired = errors.New("portal token invalid or expired")

// tokenInvalidMessage is the literal the portal puts in its error envelope
// when the bearer token has lapsed.
const tokenInvalidMessage = "Token tidak valid"

// TimeoutError reports a remote call that exceeded its allotted bound. It is
// distinct from a remote-side failure: the portal never answered in time.
type TimeoutError struct {
	Op      string
	Limit   time.Duration
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout: %s exceeded %s (elapsed %s)", e.Op, e.Limit, e.Elapsed.Round(time.Millisecond))
}

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
