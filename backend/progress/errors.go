package progress

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPersistFailed   = errors.New("persist failed")
	ErrKeyOutsideScope = errors.New("key outside scope")
	ErrClosed          = errors.New("writer closed")
)

// PersistFailedError reports one failed remote write and the keys it carried.
type PersistFailedError struct {
	Path string
	Keys []string
	Err  error
}

func (e *PersistFailedError) Error() string {
	return fmt.Sprintf("persist %s [%s]: %v", e.Path, strings.Join(e.Keys, ", "), e.Err)
}

func (e *PersistFailedError) Unwrap() []error {
	return []error{ErrPersistFailed, e.Err}
}
