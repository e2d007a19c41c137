package dispatch

import "errors"

// ErrSchedulerShutdown is returned by Post when WithRejectOnShutdown is set
// and the scheduler has already been shut down. Without that option, a
// post-after-shutdown is a silent drop instead.
var ErrSchedulerShutdown = errors.New("dispatch: scheduler is shut down")
