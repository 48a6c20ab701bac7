package query

import "github.com/pkg/errors"

// ErrEntryNotPresent is the error returned from Entry when the authoritative
// table owner reports that the requested slot is not allocated. It is
// distinct from a failed round trip, which is reported as a wrapped channel
// error.
var ErrEntryNotPresent error = errors.New("the requested descriptor slot is not allocated")

// ErrNoAccess is the error returned from Entry when a global selector is not
// one of the well-known flat selectors held by the current context's
// segment registers.
var ErrNoAccess error = errors.New("the selector is not a well-known global selector")
