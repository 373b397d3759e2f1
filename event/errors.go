package event

import "github.com/cockroachdb/errors"

// ErrCancelled is returned by a listener to stop its event's chain early.
// Trigger propagates it to the caller, who converts it into a policy
// decision (typically "suppress the default downstream action") rather
// than logging it as an error — see handleLoginStart in the session package.
var ErrCancelled = errors.New("event: cancelled")
