package graph

import "errors"

// ErrAlreadyInitialised is the panic value used when New is called on a
// Builder that already holds a root node. This is a programmer error, not a
// runtime condition a caller can recover from, so it is raised via panic
// rather than returned.
var ErrAlreadyInitialised = errors.New("graph: builder already initialised")
