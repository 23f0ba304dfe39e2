package upstream

import (
	"errors"
	"fmt"
)

// ErrNoToken indicates the upstream reported success but its response body
// did not contain an accessToken.
var ErrNoToken = errors.New("upstream response missing accessToken")

// StatusError is returned when the upstream answers with a non-2xx status.
// Body carries the upstream's error text verbatim; it is never redacted.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream returned status %d", e.Status)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Body)
}

// AsStatusError unwraps err into a *StatusError if one is in the chain.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
