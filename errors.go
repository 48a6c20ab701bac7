package seltab

import "github.com/pkg/errors"

// ErrUnallocatedSelector is the error returned from descriptor accessors and
// other methods when a selector does not name an allocated table slot
var ErrUnallocatedSelector error = errors.New("selector does not name an allocated descriptor slot")
