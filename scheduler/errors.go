package scheduler

import "github.com/cockroachdb/errors"

// ErrShutdown is returned by every schedule* call once Shutdown has been
// invoked.
var ErrShutdown = errors.New("scheduler: shut down")

// ErrCancelled is the result a Handle's task run reports when cancellation
// was observed before the callback was invoked.
var ErrCancelled = errors.New("scheduler: task cancelled")
